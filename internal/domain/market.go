package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarketPolicy is the trading style of a market contract.
type MarketPolicy int

const (
	Spot MarketPolicy = iota
	Margin
)

func (p MarketPolicy) String() string {
	switch p {
	case Spot:
		return "Spot"
	case Margin:
		return "Margin"
	default:
		return "Unknown"
	}
}

// MarketContract describes a market contract deployed on chain.
type MarketContract struct {
	ID                decimal.Decimal
	AccountID         decimal.Decimal
	Account           string
	DeployerAccountID decimal.Decimal
	DeployerAccount   string
	BlockNumber       decimal.Decimal
	PoolExitFee       decimal.Decimal
	MaxPoolFeeRate    decimal.Decimal
	MinMakerFee       decimal.Decimal
	MaxMakerFee       decimal.Decimal
	MakerFeeExponent  decimal.Decimal
	MinTakerFee       decimal.Decimal
	MaxTakerFee       decimal.Decimal
	TakerFeeExponent  decimal.Decimal
	AssetVolumeTarget decimal.Decimal
	AssetResetDays    decimal.Decimal
	AccountResetDays  decimal.Decimal
	Policy            MarketPolicy
}

// PairPrice is the aggregate price block of a trading pair. Legs that the
// server has never observed are nil.
type PairPrice struct {
	OrderLiquidity *decimal.Decimal
	PoolLiquidity  *decimal.Decimal
	TotalLiquidity *decimal.Decimal
	OrderVolume    *decimal.Decimal
	PoolVolume     *decimal.Decimal
	TotalVolume    *decimal.Decimal
	Open           *decimal.Decimal
	Low            *decimal.Decimal
	High           *decimal.Decimal
	Close          *decimal.Decimal
}

// AggregatedPair is a tradable primary/secondary asset pair with its
// aggregate price data.
type AggregatedPair struct {
	ID             decimal.Decimal
	PrimaryAsset   AssetID
	SecondaryAsset AssetID
	SecondaryBase  string
	LaunchTime     time.Time
	Price          PairPrice
}

// AggregatedMatch is one trade print.
type AggregatedMatch struct {
	Time     time.Time
	Account  string
	Side     OrderSide
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// AggregatedLevel is one discrete price point of an order book with its
// aggregate resting quantity. ID is the server-assigned level key used for
// delta upsert and delete.
type AggregatedLevel struct {
	ID       int64
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// TierLeg is the fee tier of one side of a pair for an account.
type TierLeg struct {
	Volume   *decimal.Decimal
	MakerFee *decimal.Decimal
	TakerFee *decimal.Decimal
}

// AccountTier carries per-side fee tiers for an account on a pair.
type AccountTier struct {
	Primary   TierLeg
	Secondary TierLeg
}

// ChainDescriptor describes one supported blockchain and its transfer
// capabilities.
type ChainDescriptor struct {
	Asset             AssetID
	Divisibility      decimal.Decimal
	SyncLatency       decimal.Decimal
	CompositionPolicy string
	TokenPolicy       string
	RoutingPolicy     string
	SlowTransfer      bool
	BulkTransfer      bool
}
