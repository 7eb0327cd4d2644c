package ticket

import (
	"github.com/shopspring/decimal"

	"github.com/swaplabs/swapdesk/internal/domain"
	"github.com/swaplabs/swapdesk/internal/numeric"
)

// Terms identifies the market and pair a ticket trades on.
type Terms struct {
	MarketID       decimal.Decimal
	PairID         decimal.Decimal
	PrimaryAsset   domain.AssetID
	SecondaryAsset domain.AssetID
}

// OrderPayload is the wire body of an order authorization request. Optional
// fields are present only for the conditions that require them; every
// numeric field is a decimal string.
type OrderPayload struct {
	MarketID           string                     `json:"marketId"`
	PrimaryAssetHash   string                     `json:"primaryAssetHash"`
	SecondaryAssetHash string                     `json:"secondaryAssetHash"`
	Condition          domain.OrderCondition      `json:"condition"`
	Policy             domain.OrderPolicy         `json:"policy"`
	Side               domain.OrderSide           `json:"side"`
	StopPrice          string                     `json:"stopPrice,omitempty"`
	Price              string                     `json:"price,omitempty"`
	Slippage           string                     `json:"slippage,omitempty"`
	TrailingStep       string                     `json:"trailingStep,omitempty"`
	TrailingDistance   string                     `json:"trailingDistance,omitempty"`
	Pays               map[string]decimal.Decimal `json:"pays"`
}

// PoolPayload is the wire body of a pool creation request.
type PoolPayload struct {
	MarketID           string                     `json:"marketId"`
	PrimaryAssetHash   string                     `json:"primaryAssetHash"`
	SecondaryAssetHash string                     `json:"secondaryAssetHash"`
	PrimaryPays        map[string]decimal.Decimal `json:"primaryPays"`
	SecondaryPays      map[string]decimal.Decimal `json:"secondaryPays"`
	Price              string                     `json:"price"`
	MinPrice           string                     `json:"minPrice,omitempty"`
	MaxPrice           string                     `json:"maxPrice,omitempty"`
	FeeRate            string                     `json:"feeRate"`
}

// BuildOrderPayload derives a submission-ready order body from the draft, or
// nil when any required field is missing or out of range. Nil means "not
// ready", not an error: the caller keeps the submit action disabled.
func (d Draft) BuildOrderPayload(terms Terms, balances Balances) *OrderPayload {
	if d.Pool {
		return nil
	}

	quantity := numeric.ParseValueOrPercent(d.Value)
	if !quantity.Positive() {
		return nil
	}
	valueBalance := d.ValueBalance(balances)
	spend, ok := quantity.Resolve(valueBalance)
	if !ok || !spend.IsPositive() || spend.GreaterThan(valueBalance) {
		return nil
	}

	rows := balances.Primary
	if d.Side == domain.Buy {
		rows = balances.Secondary
	}
	payload := &OrderPayload{
		MarketID:           terms.MarketID.String(),
		PrimaryAssetHash:   terms.PrimaryAsset.Hex(),
		SecondaryAssetHash: terms.SecondaryAsset.Hex(),
		Condition:          d.Condition,
		Policy:             d.Policy(),
		Side:               d.Side,
		Pays:               domain.Allocate(rows, spend),
	}

	if d.HasPrice() {
		price, ok := numeric.ParseValue(d.Price)
		if !ok || !price.IsPositive() {
			return nil
		}
		payload.Price = price.String()
	}
	if d.HasStopPrice() {
		stopPrice, ok := numeric.ParseValue(d.StopPrice)
		if !ok || !stopPrice.IsPositive() {
			return nil
		}
		payload.StopPrice = stopPrice.String()
	}
	if d.HasSlippage() {
		slippage := numeric.ParseValueOrPercent(d.Slippage)
		if !slippage.NonNegative() {
			return nil
		}
		// Relative slippage travels negated so the server can tell the two
		// encodings apart on a single field.
		if slippage.Relative != nil {
			payload.Slippage = slippage.Relative.Neg().String()
		} else {
			payload.Slippage = slippage.Value.String()
		}
	}
	if d.Trailing() {
		step := numeric.ParseValueOrPercent(d.TrailingStep)
		if !step.Positive() {
			return nil
		}
		distance := numeric.ParseValueOrPercent(d.TrailingDistance)
		if !distance.NonNegative() {
			return nil
		}
		payload.TrailingStep = step.Value.String()
		payload.TrailingDistance = distance.Value.String()
	}

	return payload
}

// BuildPoolPayload derives a submission-ready pool creation body from the
// draft, or nil when not ready. A price range is honored only when both
// bounds are positive, and must then bracket the base price strictly.
func (d Draft) BuildPoolPayload(terms Terms, balances Balances) *PoolPayload {
	if !d.Pool {
		return nil
	}

	price, ok := numeric.ParseValue(d.BasePrice)
	if !ok || !price.IsPositive() {
		return nil
	}

	minPrice, _ := numeric.ParseValue(d.MinPrice)
	maxPrice, _ := numeric.ParseValue(d.MaxPrice)
	withRange := minPrice.IsPositive() && maxPrice.IsPositive()
	if withRange &&
		(minPrice.GreaterThanOrEqual(price) ||
			maxPrice.LessThanOrEqual(price) ||
			minPrice.GreaterThanOrEqual(maxPrice)) {
		return nil
	}

	primaryBalance := balances.PrimaryAvailable()
	secondaryBalance := balances.SecondaryAvailable()
	primary, ok := numeric.ParseValueOrPercent(d.PrimaryValue).Resolve(primaryBalance)
	if !ok || !primary.IsPositive() || primary.GreaterThan(primaryBalance) {
		return nil
	}
	secondary, ok := numeric.ParseValueOrPercent(d.SecondaryValue).Resolve(secondaryBalance)
	if !ok || !secondary.IsPositive() || secondary.GreaterThan(secondaryBalance) {
		return nil
	}

	// The fee is a fraction of each trade, so the field must be entered in
	// percent form and land within [0, 1] after scaling.
	feeRate := numeric.ParseValueOrPercent(d.FeeRate)
	if !feeRate.Valid || feeRate.Absolute != nil ||
		feeRate.Value.IsNegative() || feeRate.Value.GreaterThan(decimal.NewFromInt(1)) {
		return nil
	}

	payload := &PoolPayload{
		MarketID:           terms.MarketID.String(),
		PrimaryAssetHash:   terms.PrimaryAsset.Hex(),
		SecondaryAssetHash: terms.SecondaryAsset.Hex(),
		PrimaryPays:        domain.Allocate(balances.Primary, primary),
		SecondaryPays:      domain.Allocate(balances.Secondary, secondary),
		Price:              price.String(),
		FeeRate:            feeRate.Value.String(),
	}
	if withRange {
		payload.MinPrice = minPrice.String()
		payload.MaxPrice = maxPrice.String()
	}
	return payload
}
