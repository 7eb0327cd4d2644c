package domain

import "github.com/shopspring/decimal"

// OrderCondition is the trigger type of an order.
type OrderCondition int

const (
	Market OrderCondition = iota
	Limit
	Stop
	StopLimit
	TrailingStop
	TrailingStopLimit
)

// Immediate reports whether the condition executes against the market as soon
// as it triggers (market-style) rather than resting on the book (limit-style).
func (c OrderCondition) Immediate() bool {
	return c == Market || c == Stop || c == TrailingStop
}

// Trailing reports whether the condition tracks the market with a moving stop.
func (c OrderCondition) Trailing() bool {
	return c == TrailingStop || c == TrailingStopLimit
}

func (c OrderCondition) String() string {
	switch c {
	case Market:
		return "market"
	case Limit:
		return "limit"
	case Stop:
		return "stop"
	case StopLimit:
		return "stop-limit"
	case TrailingStop:
		return "trailing-stop"
	case TrailingStopLimit:
		return "trailing-stop-limit"
	default:
		return "unknown"
	}
}

// OrderSide indicates whether this is a buy or sell.
type OrderSide int

const (
	Buy OrderSide = iota
	Sell
)

func (s OrderSide) String() string {
	if s == Sell {
		return "sell"
	}
	return "buy"
}

// OrderPolicy is the fill semantics: resting vs immediate, partial vs
// fill-or-kill.
type OrderPolicy int

const (
	Deferred OrderPolicy = iota
	DeferredAll
	Immediate
	ImmediateAll
)

// PolicyFor derives the fill policy from the condition and the fill-or-kill
// flag. Market-style triggers execute immediately-or-cancel by default while
// limit-style triggers rest on the book by default.
func PolicyFor(condition OrderCondition, fillOrKill bool) OrderPolicy {
	if condition.Immediate() {
		if fillOrKill {
			return ImmediateAll
		}
		return Immediate
	}
	if fillOrKill {
		return DeferredAll
	}
	return Deferred
}

// Order is the client-side view of a server-reported order.
type Order struct {
	ID               decimal.Decimal
	OrderID          decimal.Decimal
	MarketID         decimal.Decimal
	MarketAccount    string
	PrimaryAsset     AssetID
	SecondaryAsset   AssetID
	AccountID        decimal.Decimal
	BlockNumber      decimal.Decimal
	Condition        OrderCondition
	Side             OrderSide
	Policy           OrderPolicy
	Price            *decimal.Decimal
	StopPrice        *decimal.Decimal
	FillingPrice     *decimal.Decimal
	StartingValue    decimal.Decimal
	Value            decimal.Decimal
	Slippage         *decimal.Decimal
	TrailingStep     *decimal.Decimal
	TrailingDistance *decimal.Decimal
	Active           bool
}

// Progress returns the filled fraction in [0, 1]. A non-positive starting
// value reads as fully filled. StartingValue < Value is an impossible state
// that signals a data inconsistency upstream; it clamps to zero so the view
// surfaces "no progress" instead of a negative number.
func (o Order) Progress() decimal.Decimal {
	if o.StartingValue.LessThanOrEqual(decimal.Zero) {
		return decimal.NewFromInt(1)
	}
	if o.StartingValue.LessThan(o.Value) {
		return decimal.Zero
	}
	return o.StartingValue.Sub(o.Value).DivRound(o.StartingValue, 18)
}
