package ticket

import (
	"context"
	"log/slog"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swaplabs/swapdesk/internal/domain"
	"github.com/swaplabs/swapdesk/internal/storage"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testTerms(t *testing.T) Terms {
	t.Helper()
	return Terms{
		MarketID:       dec("7"),
		PairID:         dec("3"),
		PrimaryAsset:   domain.NewAssetID("TGT", ""),
		SecondaryAsset: domain.NewAssetID("ETH", "USDC"),
	}
}

func testBalances(t *testing.T) Balances {
	t.Helper()
	return Balances{
		Primary: []domain.Balance{
			{Asset: domain.NewAssetID("BTC", ""), Available: dec("5")},
		},
		Secondary: []domain.Balance{
			{Asset: domain.NewAssetID("ETH", "USDC"), Available: dec("120")},
			{Asset: domain.NewAssetID("SOL", "USDC"), Available: dec("80")},
		},
	}
}

// Draft with every order field populated with a valid value.
func fullDraft() Draft {
	d := DefaultDraft()
	d.StopPrice = "95"
	d.Price = "90"
	d.Slippage = "1%"
	d.TrailingStep = "2"
	d.TrailingDistance = "3"
	d.Value = "10"
	return d
}

func TestOrderPayloadRequiredFields(t *testing.T) {
	terms := testTerms(t)
	balances := testBalances(t)

	cases := []struct {
		condition domain.OrderCondition
		required  []string
	}{
		{domain.Market, []string{"slippage"}},
		{domain.Limit, []string{"price"}},
		{domain.Stop, []string{"stopPrice", "slippage"}},
		{domain.StopLimit, []string{"stopPrice", "price"}},
		{domain.TrailingStop, []string{"stopPrice", "slippage", "trailingStep", "trailingDistance"}},
		{domain.TrailingStopLimit, []string{"stopPrice", "price", "trailingStep", "trailingDistance"}},
	}

	clear := func(d Draft, field string) Draft {
		switch field {
		case "stopPrice":
			d.StopPrice = ""
		case "price":
			d.Price = ""
		case "slippage":
			d.Slippage = ""
		case "trailingStep":
			d.TrailingStep = ""
		case "trailingDistance":
			d.TrailingDistance = ""
		}
		return d
	}

	for _, tc := range cases {
		t.Run(tc.condition.String(), func(t *testing.T) {
			draft := fullDraft().WithCondition(tc.condition)

			payload := draft.BuildOrderPayload(terms, balances)
			require.NotNil(t, payload)
			assert.Equal(t, tc.condition, payload.Condition)
			assert.Equal(t, "7", payload.MarketID)

			// Fields outside the condition's set must stay empty.
			has := func(field string) bool {
				for _, f := range tc.required {
					if f == field {
						return true
					}
				}
				return false
			}
			assert.Equal(t, has("stopPrice"), payload.StopPrice != "", "stopPrice")
			assert.Equal(t, has("price"), payload.Price != "", "price")
			assert.Equal(t, has("slippage"), payload.Slippage != "", "slippage")
			assert.Equal(t, has("trailingStep"), payload.TrailingStep != "", "trailingStep")
			assert.Equal(t, has("trailingDistance"), payload.TrailingDistance != "", "trailingDistance")

			for _, field := range tc.required {
				assert.Nil(t, clear(draft, field).BuildOrderPayload(terms, balances),
					"missing %s must not build", field)
			}
		})
	}
}

func TestMarketBuyEndToEnd(t *testing.T) {
	terms := testTerms(t)
	balances := testBalances(t)

	draft := DefaultDraft()
	draft.Value = "50%"

	payload := draft.BuildOrderPayload(terms, balances)
	require.NotNil(t, payload)

	assert.Equal(t, "-0.01", payload.Slippage)
	assert.Equal(t, domain.Immediate, payload.Policy)

	require.Len(t, payload.Pays, 2)
	first := balances.Secondary[0].Asset.Hex()
	second := balances.Secondary[1].Asset.Hex()
	assert.True(t, payload.Pays[first].Equal(dec("100")), "got %s", payload.Pays[first])
	assert.True(t, payload.Pays[second].IsZero(), "got %s", payload.Pays[second])
}

func TestMarketSellDrawsFromPrimary(t *testing.T) {
	terms := testTerms(t)
	balances := testBalances(t)

	draft := DefaultDraft().WithSide(domain.Sell)
	draft.Value = "2"

	payload := draft.BuildOrderPayload(terms, balances)
	require.NotNil(t, payload)
	assert.True(t, payload.Pays[balances.Primary[0].Asset.Hex()].Equal(dec("2")))
}

func TestOrderPayloadValueGates(t *testing.T) {
	terms := testTerms(t)
	balances := testBalances(t)

	empty := DefaultDraft()
	assert.Nil(t, empty.BuildOrderPayload(terms, balances), "empty value")

	over := DefaultDraft()
	over.Value = "250"
	assert.Nil(t, over.BuildOrderPayload(terms, balances), "value over balance")

	pooled := fullDraft()
	pooled.Pool = true
	assert.Nil(t, pooled.BuildOrderPayload(terms, balances), "pool mode")
}

func TestTrailingStopLimitMissingDistance(t *testing.T) {
	terms := testTerms(t)
	balances := testBalances(t)

	draft := fullDraft().WithCondition(domain.TrailingStopLimit)
	draft.TrailingDistance = ""

	assert.Nil(t, draft.BuildOrderPayload(terms, balances))
}

func poolDraft() Draft {
	d := DefaultDraft()
	d.Pool = true
	d.BasePrice = "100"
	d.MinPrice = "80"
	d.MaxPrice = "120"
	d.PrimaryValue = "2"
	d.SecondaryValue = "150"
	d.FeeRate = "0.15%"
	return d
}

func TestPoolPayloadRangeInvariant(t *testing.T) {
	terms := testTerms(t)
	balances := testBalances(t)

	require.NotNil(t, poolDraft().BuildPoolPayload(terms, balances))

	cases := map[string]func(Draft) Draft{
		"min above base":  func(d Draft) Draft { d.MinPrice = "110"; return d },
		"min equals base": func(d Draft) Draft { d.MinPrice = "100"; return d },
		"max below base":  func(d Draft) Draft { d.MaxPrice = "90"; return d },
		"max equals base": func(d Draft) Draft { d.MaxPrice = "100"; return d },
		"inverted range":  func(d Draft) Draft { d.MinPrice = "120"; d.MaxPrice = "80"; return d },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Nil(t, mutate(poolDraft()).BuildPoolPayload(terms, balances))
		})
	}
}

func TestPoolPayloadWithoutRange(t *testing.T) {
	terms := testTerms(t)
	balances := testBalances(t)

	draft := poolDraft()
	draft.MinPrice = ""
	draft.MaxPrice = ""

	payload := draft.BuildPoolPayload(terms, balances)
	require.NotNil(t, payload)
	assert.Empty(t, payload.MinPrice)
	assert.Empty(t, payload.MaxPrice)
	assert.Equal(t, "100", payload.Price)
	assert.Equal(t, "0.0015", payload.FeeRate)
}

func TestPoolPayloadFeeRateGates(t *testing.T) {
	terms := testTerms(t)
	balances := testBalances(t)

	absolute := poolDraft()
	absolute.FeeRate = "0.0015"
	assert.Nil(t, absolute.BuildPoolPayload(terms, balances), "absolute fee rate")

	tooHigh := poolDraft()
	tooHigh.FeeRate = "150%"
	assert.Nil(t, tooHigh.BuildPoolPayload(terms, balances), "fee above 100%")

	missing := poolDraft()
	missing.FeeRate = ""
	assert.Nil(t, missing.BuildPoolPayload(terms, balances), "missing fee")
}

func TestPoolPayloadBalanceGates(t *testing.T) {
	terms := testTerms(t)
	balances := testBalances(t)

	over := poolDraft()
	over.PrimaryValue = "6"
	assert.Nil(t, over.BuildPoolPayload(terms, balances), "primary over balance")

	relative := poolDraft()
	relative.PrimaryValue = "40%"
	relative.SecondaryValue = "50%"
	payload := relative.BuildPoolPayload(terms, balances)
	require.NotNil(t, payload)
	assert.True(t, payload.PrimaryPays[balances.Primary[0].Asset.Hex()].Equal(dec("2")))
}

func TestReserveCascadeProportional(t *testing.T) {
	balances := testBalances(t)

	draft := DefaultDraft()
	draft.Pool = true
	draft.BasePrice = "100"

	draft = draft.SetPrimaryValue("2", balances)
	assert.Equal(t, "2", draft.PrimaryValue)
	assert.Equal(t, "200", draft.SecondaryValue)

	draft = draft.SetSecondaryValue("50", balances)
	assert.Equal(t, "50", draft.SecondaryValue)
	assert.Equal(t, "0.5", draft.PrimaryValue)
}

func TestReserveCascadeConcentrated(t *testing.T) {
	balances := testBalances(t)

	draft := DefaultDraft()
	draft.Pool = true
	draft.BasePrice = "100"
	draft.MinPrice = "80"
	draft.MaxPrice = "120"

	draft = draft.SetPrimaryValue("10", balances)
	require.NotEmpty(t, draft.SecondaryValue)

	// Expected value from the range formulas with the 1.0005 input buffer:
	// L = 10.005 * sqrt(100) * sqrt(120) / (sqrt(120) - sqrt(100)),
	// secondary = L * (sqrt(100) - sqrt(80)).
	sp, smin, smax := math.Sqrt(100), math.Sqrt(80), math.Sqrt(120)
	liquidity := 10 * 1.0005 * sp * smax / (smax - sp)
	expected := liquidity * (sp - smin)

	got, err := decimal.NewFromString(draft.SecondaryValue)
	require.NoError(t, err)
	gotF, _ := got.Float64()
	assert.InEpsilon(t, expected, gotF, 1e-9)
}

func TestRangeEditResetsReserves(t *testing.T) {
	balances := testBalances(t)

	draft := DefaultDraft()
	draft.Pool = true
	draft.BasePrice = "100"
	draft = draft.SetPrimaryValue("2", balances)
	require.NotEmpty(t, draft.SecondaryValue)

	reset := draft.SetMinPrice("80")
	assert.Empty(t, reset.PrimaryValue)
	assert.Empty(t, reset.SecondaryValue)

	reset = draft.SetMaxPrice("120")
	assert.Empty(t, reset.PrimaryValue)
	assert.Empty(t, reset.SecondaryValue)

	reset = draft.SetBasePrice("101")
	assert.Empty(t, reset.PrimaryValue)
	assert.Empty(t, reset.SecondaryValue)
}

func TestCascadeSkippedWithoutBasePrice(t *testing.T) {
	balances := testBalances(t)

	draft := DefaultDraft()
	draft.Pool = true
	draft = draft.SetPrimaryValue("2", balances)

	assert.Equal(t, "2", draft.PrimaryValue)
	assert.Empty(t, draft.SecondaryValue)
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestTicketPersistence(t *testing.T) {
	ctx := context.Background()
	terms := testTerms(t)
	store := storage.NewMemory()

	ticket := New(terms, store, "maker/7/3", testLogger())
	ticket.Update(ctx, func(d Draft) Draft {
		return d.SetPrice("42").WithCondition(domain.Limit)
	})

	restored := New(terms, store, "maker/7/3", testLogger())
	require.NoError(t, restored.Restore(ctx))
	assert.Equal(t, domain.Limit, restored.Draft().Condition)
	assert.Equal(t, "42", restored.Draft().Price)
}

func TestPresetMonotonicity(t *testing.T) {
	ctx := context.Background()
	terms := testTerms(t)

	ticket := New(terms, nil, "", testLogger())

	first := Preset{ID: 1}
	first.Condition = domain.Limit
	first.Price = "55"
	require.True(t, ticket.ApplyPreset(ctx, first))
	assert.Equal(t, "55", ticket.Draft().Price)
	assert.Equal(t, "1%", ticket.Draft().Slippage, "missing slippage falls back to default")

	stale := Preset{ID: 1}
	stale.Price = "99"
	assert.False(t, ticket.ApplyPreset(ctx, stale))
	assert.Equal(t, "55", ticket.Draft().Price)

	newer := Preset{ID: 2}
	newer.Price = "60"
	require.True(t, ticket.ApplyPreset(ctx, newer))
	assert.Equal(t, "60", ticket.Draft().Price)
}
