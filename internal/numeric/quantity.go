// Package numeric parses user-entered quantity strings. A field value is
// either an absolute amount or a percentage of some reference balance that
// the caller resolves later. Parsing never guesses: input that does not parse
// yields an invalid Quantity that callers must check before use.
package numeric

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Quantity is the parse result of a "value or percent" field. For percent
// input Relative holds numeric/100 and Value equals it; for absolute input
// Absolute holds the parsed number and Value equals it. Invalid or empty
// input leaves Valid false; an invalid Quantity never compares positive.
type Quantity struct {
	Value    decimal.Decimal
	Relative *decimal.Decimal
	Absolute *decimal.Decimal
	Valid    bool
}

// Positive reports whether the quantity parsed and is strictly positive.
func (q Quantity) Positive() bool {
	return q.Valid && q.Value.IsPositive()
}

// NonNegative reports whether the quantity parsed and is zero or more.
func (q Quantity) NonNegative() bool {
	return q.Valid && !q.Value.IsNegative()
}

// Resolve turns the quantity into a concrete amount against a reference
// balance: relative quantities multiply by the balance, absolute ones pass
// through. The second return is false when the quantity is invalid.
func (q Quantity) Resolve(balance decimal.Decimal) (decimal.Decimal, bool) {
	if !q.Valid {
		return decimal.Zero, false
	}
	if q.Relative != nil {
		return balance.Mul(*q.Relative), true
	}
	return q.Value, true
}

// ParseValue parses a plain numeric field, stripping any percent signs the
// way the original ticket treats them: "5%" reads as the number 5. Empty
// input reads as zero with ok=false.
func ParseValue(text string) (decimal.Decimal, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(text), "%", "")
	if cleaned == "" {
		return decimal.Zero, false
	}
	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return value, true
}

// ParseValueOrPercent parses a "value or percent" field. A trailing percent
// sign anywhere in the text marks the input relative; the numeric part is
// divided by 100.
func ParseValueOrPercent(text string) Quantity {
	relative := strings.Contains(text, "%")
	value, ok := ParseValue(text)
	if !ok {
		return Quantity{}
	}
	if relative {
		value = value.DivRound(decimal.NewFromInt(100), 18)
		return Quantity{Value: value, Relative: &value, Valid: true}
	}
	return Quantity{Value: value, Absolute: &value, Valid: true}
}
