package domain

import "github.com/shopspring/decimal"

// Pool is the client-side view of a server-reported liquidity pool.
type Pool struct {
	ID               decimal.Decimal
	PoolID           decimal.Decimal
	PairID           decimal.Decimal
	PrimaryAsset     AssetID
	SecondaryAsset   AssetID
	MarketID         decimal.Decimal
	MarketAccount    string
	AccountID        decimal.Decimal
	BlockNumber      decimal.Decimal
	PrimaryValue     decimal.Decimal
	SecondaryValue   decimal.Decimal
	PrimaryRevenue   decimal.Decimal
	SecondaryRevenue decimal.Decimal
	Liquidity        decimal.Decimal
	Price            decimal.Decimal
	MinPrice         *decimal.Decimal
	MaxPrice         *decimal.Decimal
	FeeRate          decimal.Decimal
	ExitFee          decimal.Decimal
	LastAskPrice     decimal.Decimal
	LastBidPrice     decimal.Decimal
	Active           bool
}

// Concentrated reports whether the pool restricts liquidity to a bounded
// price range.
func (p Pool) Concentrated() bool {
	return p.MinPrice != nil && p.MaxPrice != nil &&
		p.MinPrice.IsPositive() && p.MaxPrice.IsPositive() &&
		p.MinPrice.LessThan(*p.MaxPrice)
}

// InRange reports whether a concentrated pool currently quotes inside its
// price range. Non-concentrated pools are always in range.
func (p Pool) InRange() bool {
	if !p.Concentrated() {
		return true
	}
	return p.MinPrice.LessThan(p.Price) && p.Price.LessThan(*p.MaxPrice)
}
