package book

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swaplabs/swapdesk/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func upsert(id int64, side domain.OrderSide, price, quantity string) Delta {
	p, q := dec(price), dec(quantity)
	return Delta{ID: id, Side: &side, Price: &p, Quantity: &q}
}

func remove(id int64) Delta {
	return Delta{ID: id}
}

func TestApplyUpsertAppendsUnknownID(t *testing.T) {
	b := Book{}.Apply([]Delta{
		upsert(1, domain.Sell, "101", "5"),
		upsert(2, domain.Buy, "99", "3"),
	})

	require.Len(t, b.Ask, 1)
	require.Len(t, b.Bid, 1)
	assert.Equal(t, int64(1), b.Ask[0].ID)
	assert.Equal(t, int64(2), b.Bid[0].ID)
}

func TestApplyUpsertReplacesExisting(t *testing.T) {
	b := Book{}.Apply([]Delta{upsert(1, domain.Sell, "101", "5")})
	b = b.Apply([]Delta{upsert(1, domain.Sell, "102", "7")})

	require.Len(t, b.Ask, 1)
	assert.True(t, b.Ask[0].Price.Equal(dec("102")))
	assert.True(t, b.Ask[0].Quantity.Equal(dec("7")))
}

func TestApplyDeleteChecksBothSides(t *testing.T) {
	b := Book{}.Apply([]Delta{
		upsert(1, domain.Sell, "101", "5"),
		upsert(2, domain.Buy, "99", "3"),
	})

	afterBidDelete := b.Apply([]Delta{remove(2)})
	assert.Empty(t, afterBidDelete.Bid)
	require.Len(t, afterBidDelete.Ask, 1, "ask side untouched")

	afterAskDelete := b.Apply([]Delta{remove(1)})
	assert.Empty(t, afterAskDelete.Ask)
	require.Len(t, afterAskDelete.Bid, 1, "bid side untouched")
}

func TestApplyDeleteUnknownIDIsNoop(t *testing.T) {
	b := Book{}.Apply([]Delta{upsert(1, domain.Sell, "101", "5")})
	after := b.Apply([]Delta{remove(42)})
	assert.Equal(t, b, after)
}

func TestApplySortsBothSides(t *testing.T) {
	b := Book{}.Apply([]Delta{
		upsert(1, domain.Sell, "103", "1"),
		upsert(2, domain.Sell, "101", "1"),
		upsert(3, domain.Sell, "102", "1"),
		upsert(4, domain.Buy, "97", "1"),
		upsert(5, domain.Buy, "99", "1"),
		upsert(6, domain.Buy, "98", "1"),
	})

	require.Len(t, b.Ask, 3)
	assert.True(t, b.Ask[0].Price.LessThan(b.Ask[1].Price))
	assert.True(t, b.Ask[1].Price.LessThan(b.Ask[2].Price))

	require.Len(t, b.Bid, 3)
	assert.True(t, b.Bid[0].Price.GreaterThan(b.Bid[1].Price))
	assert.True(t, b.Bid[1].Price.GreaterThan(b.Bid[2].Price))
}

func TestApplyDoesNotMutateReceiver(t *testing.T) {
	b := Book{}.Apply([]Delta{upsert(1, domain.Sell, "101", "5")})
	_ = b.Apply([]Delta{remove(1), upsert(2, domain.Sell, "105", "1")})

	require.Len(t, b.Ask, 1)
	assert.Equal(t, int64(1), b.Ask[0].ID)
}

func TestReduceGroupsBands(t *testing.T) {
	levels := []domain.AggregatedLevel{
		{ID: 1, Price: dec("100.2"), Quantity: dec("1")},
		{ID: 2, Price: dec("100.7"), Quantity: dec("2")},
		{ID: 3, Price: dec("101.4"), Quantity: dec("4")},
	}

	reduced := Reduce(levels, dec("1"))
	require.Len(t, reduced, 2)
	assert.True(t, reduced[0].Price.Equal(dec("100")))
	assert.True(t, reduced[0].Quantity.Equal(dec("3")))
	assert.True(t, reduced[1].Price.Equal(dec("101")))
	assert.True(t, reduced[1].Quantity.Equal(dec("4")))
}

func TestReduceNonPositiveRangePassesThrough(t *testing.T) {
	levels := []domain.AggregatedLevel{{ID: 1, Price: dec("100.2"), Quantity: dec("1")}}
	assert.Equal(t, levels, Reduce(levels, decimal.Zero))
}

func TestLiquidity(t *testing.T) {
	levels := []domain.AggregatedLevel{
		{Quantity: dec("1.5")},
		{Quantity: dec("2.5")},
	}
	assert.True(t, Liquidity(levels).Equal(dec("4")))
}
