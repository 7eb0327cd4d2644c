// Package clmath implements the square-root-price invariant used by
// concentrated liquidity pools: converting an amount of one side of a pair
// into the liquidity L it represents within a price range, and back into the
// amount of the other side.
package clmath

import (
	"math"

	"github.com/shopspring/decimal"
)

// scale is the decimal precision every result is rounded to.
const scale = 18

// inputBuffer pre-compensates for rounding loss on the round trip back so a
// derived counter-amount is never short by a hair at submission time.
var inputBuffer = decimal.RequireFromString("1.0005")

// Sqrt returns the square root of a non-negative decimal. Negative input
// clamps to zero.
func Sqrt(value decimal.Decimal) decimal.Decimal {
	f, _ := value.Float64()
	if f <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(math.Sqrt(f))
}

// LiquidityFromPrimary computes L from a primary-asset amount:
// L = amount * sqrtPrice * sqrtMaxPrice / max(0, sqrtMaxPrice - sqrtPrice).
func LiquidityFromPrimary(amount, sqrtPrice, sqrtMaxPrice decimal.Decimal) decimal.Decimal {
	span := sqrtMaxPrice.Sub(sqrtPrice)
	if !span.IsPositive() {
		return decimal.Zero
	}
	return amount.Mul(sqrtPrice).Mul(sqrtMaxPrice).DivRound(span, scale)
}

// LiquidityFromSecondary computes L from a secondary-asset amount:
// L = amount / max(0, sqrtPrice - sqrtMinPrice).
func LiquidityFromSecondary(amount, sqrtPrice, sqrtMinPrice decimal.Decimal) decimal.Decimal {
	span := sqrtPrice.Sub(sqrtMinPrice)
	if !span.IsPositive() {
		return decimal.Zero
	}
	return amount.DivRound(span, scale)
}

// PrimaryFromLiquidity recovers the primary-asset amount represented by L:
// L * max(0, sqrtMaxPrice - sqrtPrice) / (sqrtPrice * sqrtMaxPrice).
func PrimaryFromLiquidity(liquidity, sqrtPrice, sqrtMaxPrice decimal.Decimal) decimal.Decimal {
	span := sqrtMaxPrice.Sub(sqrtPrice)
	if !span.IsPositive() || !sqrtPrice.IsPositive() || !sqrtMaxPrice.IsPositive() {
		return decimal.Zero
	}
	return liquidity.Mul(span.DivRound(sqrtPrice, scale+4).DivRound(sqrtMaxPrice, scale+4)).Round(scale)
}

// SecondaryFromLiquidity recovers the secondary-asset amount represented by
// L: L * max(0, sqrtPrice - sqrtMinPrice).
func SecondaryFromLiquidity(liquidity, sqrtPrice, sqrtMinPrice decimal.Decimal) decimal.Decimal {
	span := sqrtPrice.Sub(sqrtMinPrice)
	if !span.IsPositive() {
		return decimal.Zero
	}
	return liquidity.Mul(span).Round(scale)
}

// CounterSecondary derives the secondary reserve matching a primary input
// amount at the given price and range. Without a range the relationship
// collapses to proportional pricing. Degenerate ranges yield zero.
func CounterSecondary(primary, price, minPrice, maxPrice decimal.Decimal, concentrated bool) decimal.Decimal {
	if !primary.IsPositive() || !price.IsPositive() {
		return decimal.Zero
	}
	if !concentrated {
		return price.Mul(primary).Round(scale)
	}
	buffered := primary.Mul(inputBuffer)
	sqrtPrice := Sqrt(price)
	liquidity := LiquidityFromPrimary(buffered, sqrtPrice, Sqrt(maxPrice))
	return SecondaryFromLiquidity(liquidity, sqrtPrice, Sqrt(minPrice))
}

// CounterPrimary derives the primary reserve matching a secondary input
// amount at the given price and range.
func CounterPrimary(secondary, price, minPrice, maxPrice decimal.Decimal, concentrated bool) decimal.Decimal {
	if !secondary.IsPositive() || !price.IsPositive() {
		return decimal.Zero
	}
	if !concentrated {
		return secondary.DivRound(price, scale)
	}
	buffered := secondary.Mul(inputBuffer)
	sqrtPrice := Sqrt(price)
	liquidity := LiquidityFromSecondary(buffered, sqrtPrice, Sqrt(minPrice))
	return PrimaryFromLiquidity(liquidity, sqrtPrice, Sqrt(maxPrice))
}
