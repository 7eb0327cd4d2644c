// Package ticket implements the order-ticket state machine: an ephemeral
// draft of string-typed fields edited one keystroke at a time, and the
// derivation of validated order and pool submission payloads from it. Field
// values stay strings so in-progress input (a trailing dot, a percent sign)
// survives round trips that a decimal re-format would erase.
package ticket

import (
	"github.com/shopspring/decimal"

	"github.com/swaplabs/swapdesk/internal/clmath"
	"github.com/swaplabs/swapdesk/internal/domain"
	"github.com/swaplabs/swapdesk/internal/numeric"
)

// Draft is the working state of the ticket. It is a value type: every setter
// returns a new Draft, never mutates in place.
type Draft struct {
	Condition  domain.OrderCondition `json:"condition"`
	Side       domain.OrderSide      `json:"side"`
	FillOrKill bool                  `json:"fillOrKill"`
	Pool       bool                  `json:"pool"`

	StopPrice        string `json:"stopPrice"`
	Price            string `json:"price"`
	BasePrice        string `json:"basePrice"`
	MinPrice         string `json:"minPrice"`
	MaxPrice         string `json:"maxPrice"`
	Slippage         string `json:"slippage"`
	TrailingStep     string `json:"trailingStep"`
	TrailingDistance string `json:"trailingDistance"`
	PrimaryValue     string `json:"primaryValue"`
	SecondaryValue   string `json:"secondaryValue"`
	Value            string `json:"value"`
	FeeRate          string `json:"feeRate"`
}

// DefaultDraft is the state of a freshly opened ticket.
func DefaultDraft() Draft {
	return Draft{
		Condition: domain.Market,
		Side:      domain.Buy,
		Slippage:  "1%",
		FeeRate:   "0.15%",
	}
}

// Balances carries the per-chain balance rows of both legs of the pair, in
// server-returned order.
type Balances struct {
	Primary   []domain.Balance
	Secondary []domain.Balance
}

// PrimaryAvailable sums the spendable primary-leg balance.
func (b Balances) PrimaryAvailable() decimal.Decimal {
	return domain.TotalAvailable(b.Primary)
}

// SecondaryAvailable sums the spendable secondary-leg balance.
func (b Balances) SecondaryAvailable() decimal.Decimal {
	return domain.TotalAvailable(b.Secondary)
}

// Immediate reports whether the draft's condition executes market-style.
func (d Draft) Immediate() bool {
	return d.Condition.Immediate()
}

// Trailing reports whether the draft's condition tracks the market price.
func (d Draft) Trailing() bool {
	return d.Condition.Trailing()
}

// HasStopPrice reports whether the condition requires a stop price.
func (d Draft) HasStopPrice() bool {
	switch d.Condition {
	case domain.Stop, domain.StopLimit, domain.TrailingStop, domain.TrailingStopLimit:
		return true
	}
	return false
}

// HasPrice reports whether the condition requires a limit price.
func (d Draft) HasPrice() bool {
	switch d.Condition {
	case domain.Limit, domain.StopLimit, domain.TrailingStopLimit:
		return true
	}
	return false
}

// HasSlippage reports whether the condition requires a slippage bound.
func (d Draft) HasSlippage() bool {
	return d.Condition.Immediate()
}

// Policy derives the fill policy from the condition and the fill-or-kill
// flag.
func (d Draft) Policy() domain.OrderPolicy {
	return domain.PolicyFor(d.Condition, d.FillOrKill)
}

// Concentrated reports whether the draft's price range bounds a concentrated
// pool: both bounds positive and min below max.
func (d Draft) Concentrated() bool {
	minPrice, minOK := numeric.ParseValue(d.MinPrice)
	maxPrice, maxOK := numeric.ParseValue(d.MaxPrice)
	return minOK && maxOK && minPrice.IsPositive() && maxPrice.IsPositive() && minPrice.LessThan(maxPrice)
}

// ValueAsset returns which leg the spend-value field denominates: the
// secondary asset when buying, the primary when selling.
func (d Draft) ValueAsset(primary, secondary domain.AssetID) domain.AssetID {
	if d.Side == domain.Buy {
		return secondary
	}
	return primary
}

// ValueBalance returns the available balance backing the spend-value field.
func (d Draft) ValueBalance(balances Balances) decimal.Decimal {
	if d.Side == domain.Buy {
		return balances.SecondaryAvailable()
	}
	return balances.PrimaryAvailable()
}

// WithCondition switches the trigger type.
func (d Draft) WithCondition(condition domain.OrderCondition) Draft {
	d.Condition = condition
	return d
}

// WithSide switches between buying and selling.
func (d Draft) WithSide(side domain.OrderSide) Draft {
	d.Side = side
	return d
}

// WithFillOrKill toggles the complete-fill-only flag.
func (d Draft) WithFillOrKill(fillOrKill bool) Draft {
	d.FillOrKill = fillOrKill
	return d
}

// WithPoolMode switches between order and pool mode. Entering pool mode
// seeds the base price from the live pair price when one is known.
func (d Draft) WithPoolMode(pool bool, closePrice *decimal.Decimal) Draft {
	d.Pool = pool
	if pool {
		if closePrice != nil {
			d.BasePrice = closePrice.String()
		} else {
			d.BasePrice = ""
		}
	}
	return d
}

// SetStopPrice applies a keystroke edit to the stop price field.
func (d Draft) SetStopPrice(next string) Draft {
	d.StopPrice = numeric.ApplyEdit(d.StopPrice, next)
	return d
}

// SetPrice applies a keystroke edit to the limit price field.
func (d Draft) SetPrice(next string) Draft {
	d.Price = numeric.ApplyEdit(d.Price, next)
	return d
}

// SetSlippage applies a keystroke edit to the slippage field.
func (d Draft) SetSlippage(next string) Draft {
	d.Slippage = numeric.ApplyEditOrPercent(d.Slippage, next)
	return d
}

// SetTrailingStep applies a keystroke edit to the trailing step field.
func (d Draft) SetTrailingStep(next string) Draft {
	d.TrailingStep = numeric.ApplyEditOrPercent(d.TrailingStep, next)
	return d
}

// SetTrailingDistance applies a keystroke edit to the trailing distance
// field.
func (d Draft) SetTrailingDistance(next string) Draft {
	d.TrailingDistance = numeric.ApplyEditOrPercent(d.TrailingDistance, next)
	return d
}

// SetValue applies a keystroke edit to the spend-value field.
func (d Draft) SetValue(next string) Draft {
	d.Value = numeric.ApplyEditOrPercent(d.Value, next)
	return d
}

// SetFeeRate applies a keystroke edit to the pool fee field; the value is
// always percent-form.
func (d Draft) SetFeeRate(next string) Draft {
	d.FeeRate = numeric.ApplyPercent(d.FeeRate, next)
	return d
}

// SetBasePrice applies a keystroke edit to the pool base price and clears
// both reserve fields: reserve amounts derived for the old price are
// meaningless and must be re-entered.
func (d Draft) SetBasePrice(next string) Draft {
	d.BasePrice = numeric.ApplyEdit(d.BasePrice, next)
	d.PrimaryValue = ""
	d.SecondaryValue = ""
	return d
}

// SetMinPrice applies a keystroke edit to the lower range bound and clears
// both reserve fields.
func (d Draft) SetMinPrice(next string) Draft {
	d.MinPrice = numeric.ApplyEdit(d.MinPrice, next)
	d.PrimaryValue = ""
	d.SecondaryValue = ""
	return d
}

// SetMaxPrice applies a keystroke edit to the upper range bound and clears
// both reserve fields.
func (d Draft) SetMaxPrice(next string) Draft {
	d.MaxPrice = numeric.ApplyEdit(d.MaxPrice, next)
	d.PrimaryValue = ""
	d.SecondaryValue = ""
	return d
}

// SetPrimaryValue applies a keystroke edit to the primary reserve field and,
// when a base price is set and the amount resolves positive, recomputes the
// secondary reserve so both sides represent the same liquidity.
func (d Draft) SetPrimaryValue(next string, balances Balances) Draft {
	edited := numeric.ApplyEditOrPercent(d.PrimaryValue, next)
	d.PrimaryValue = edited

	price, ok := numeric.ParseValue(d.BasePrice)
	if !ok || !price.IsPositive() {
		return d
	}
	amount, ok := numeric.ParseValueOrPercent(edited).Resolve(balances.PrimaryAvailable())
	if !ok || !amount.IsPositive() {
		return d
	}

	minPrice, _ := numeric.ParseValue(d.MinPrice)
	maxPrice, _ := numeric.ParseValue(d.MaxPrice)
	d.SecondaryValue = clmath.CounterSecondary(amount, price, minPrice, maxPrice, d.Concentrated()).String()
	return d
}

// SetSecondaryValue is the mirror of SetPrimaryValue for the secondary
// reserve field.
func (d Draft) SetSecondaryValue(next string, balances Balances) Draft {
	edited := numeric.ApplyEditOrPercent(d.SecondaryValue, next)
	d.SecondaryValue = edited

	price, ok := numeric.ParseValue(d.BasePrice)
	if !ok || !price.IsPositive() {
		return d
	}
	amount, ok := numeric.ParseValueOrPercent(edited).Resolve(balances.SecondaryAvailable())
	if !ok || !amount.IsPositive() {
		return d
	}

	minPrice, _ := numeric.ParseValue(d.MinPrice)
	maxPrice, _ := numeric.ParseValue(d.MaxPrice)
	d.PrimaryValue = clmath.CounterPrimary(amount, price, minPrice, maxPrice, d.Concentrated()).String()
	return d
}
