package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAllocateGreedyOrder(t *testing.T) {
	a1 := NewAssetID("ETH", "USDT")
	a2 := NewAssetID("TRX", "USDT")
	balances := []Balance{
		{Asset: a1, Available: dec("120")},
		{Asset: a2, Available: dec("80")},
	}

	pays := Allocate(balances, dec("100"))
	require.Len(t, pays, 2)
	assert.True(t, pays[a1.Hex()].Equal(dec("100")))
	assert.True(t, pays[a2.Hex()].Equal(dec("0")))
}

func TestAllocateSpillsToLaterBuckets(t *testing.T) {
	a1 := NewAssetID("ETH", "USDT")
	a2 := NewAssetID("TRX", "USDT")
	a3 := NewAssetID("BTC", "")
	balances := []Balance{
		{Asset: a1, Available: dec("30")},
		{Asset: a2, Available: dec("50")},
		{Asset: a3, Available: dec("40")},
	}

	pays := Allocate(balances, dec("90"))
	assert.True(t, pays[a1.Hex()].Equal(dec("30")))
	assert.True(t, pays[a2.Hex()].Equal(dec("50")))
	assert.True(t, pays[a3.Hex()].Equal(dec("10")))
}

func TestAllocateConservation(t *testing.T) {
	a1 := NewAssetID("ETH", "")
	a2 := NewAssetID("BTC", "")
	balances := []Balance{
		{Asset: a1, Available: dec("0.000000000000000003")},
		{Asset: a2, Available: dec("7.5")},
	}
	requested := dec("1.25")

	pays := Allocate(balances, requested)
	total := decimal.Zero
	for _, v := range pays {
		total = total.Add(v)
	}
	assert.True(t, total.Equal(requested))
	for _, b := range balances {
		assert.True(t, pays[b.Asset.Hex()].LessThanOrEqual(b.Available))
	}
}

func TestAllocatePartialWhenExhausted(t *testing.T) {
	a1 := NewAssetID("ETH", "")
	balances := []Balance{{Asset: a1, Available: dec("10")}}

	pays := Allocate(balances, dec("25"))
	assert.True(t, pays[a1.Hex()].Equal(dec("10")))
}

func TestTotalAvailable(t *testing.T) {
	balances := []Balance{
		{Asset: NewAssetID("ETH", ""), Available: dec("1.5")},
		{Asset: NewAssetID("BTC", ""), Available: dec("2")},
	}
	assert.True(t, TotalAvailable(balances).Equal(dec("3.5")))
}
