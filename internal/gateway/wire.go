package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/swaplabs/swapdesk/internal/book"
	"github.com/swaplabs/swapdesk/internal/domain"
)

// envelope is the outer shape of every server response: either result or
// error is populated.
type envelope struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

// decodeEnvelope unwraps a response body, converting the {error} form into a
// ServerError carrying its correlation code.
func decodeEnvelope(body []byte) (json.RawMessage, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("gateway: decode envelope: %w", err)
	}
	if env.Error != "" {
		return nil, domain.NewServerError(env.Error)
	}
	return env.Result, nil
}

// PricePoint is one cached asset price: open is the session baseline, close
// the latest print. Unknown legs are nil.
type PricePoint struct {
	Open  *decimal.Decimal `json:"open"`
	Close *decimal.Decimal `json:"close"`
}

// PriceDescriptor is one row of the equity-denominated price table.
type PriceDescriptor struct {
	Whitelist bool       `json:"whitelist"`
	Base      string     `json:"base"`
	Price     PricePoint `json:"price"`
}

// Authorization is the server's response to an authorize request: the signed
// transaction description to hand to the wallet for submission.
type Authorization struct {
	Hash string          `json:"hash"`
	Data json.RawMessage `json:"data"`
	Body json.RawMessage `json:"body"`
}

// SeriesRow is one historical bar as served by market/price/series.
type SeriesRow struct {
	Time      int64
	Sentiment int
	Volume    decimal.Decimal
	Open      decimal.Decimal
	Low       decimal.Decimal
	High      decimal.Decimal
	Close     decimal.Decimal
}

// Series rows travel as positional arrays:
// [time, sentiment, volume, open, low, high, close].
func (r *SeriesRow) UnmarshalJSON(data []byte) error {
	var row [7]json.Number
	if err := json.Unmarshal(data, &row); err != nil {
		return fmt.Errorf("gateway: series row: %w", err)
	}
	timepoint, err := row[0].Int64()
	if err != nil {
		return fmt.Errorf("gateway: series time: %w", err)
	}
	sentiment, err := row[1].Int64()
	if err != nil {
		return fmt.Errorf("gateway: series sentiment: %w", err)
	}
	values := make([]decimal.Decimal, 5)
	for i, field := range row[2:] {
		values[i], err = decimal.NewFromString(field.String())
		if err != nil {
			return fmt.Errorf("gateway: series value: %w", err)
		}
	}
	*r = SeriesRow{
		Time:      timepoint,
		Sentiment: int(sentiment),
		Volume:    values[0],
		Open:      values[1],
		Low:       values[2],
		High:      values[3],
		Close:     values[4],
	}
	return nil
}

// levelRow is one order-book level as served by market/price/levels:
// [id, price, quantity].
type levelRow [3]json.Number

func (r levelRow) toLevel() (domain.AggregatedLevel, error) {
	id, err := r[0].Int64()
	if err != nil {
		return domain.AggregatedLevel{}, fmt.Errorf("gateway: level id: %w", err)
	}
	price, err := decimal.NewFromString(r[1].String())
	if err != nil {
		return domain.AggregatedLevel{}, fmt.Errorf("gateway: level price: %w", err)
	}
	quantity, err := decimal.NewFromString(r[2].String())
	if err != nil {
		return domain.AggregatedLevel{}, fmt.Errorf("gateway: level quantity: %w", err)
	}
	return domain.AggregatedLevel{ID: id, Price: price, Quantity: quantity}, nil
}

func toLevels(rows []levelRow) ([]domain.AggregatedLevel, error) {
	levels := make([]domain.AggregatedLevel, 0, len(rows))
	for _, row := range rows {
		level, err := row.toLevel()
		if err != nil {
			return nil, err
		}
		levels = append(levels, level)
	}
	return levels, nil
}

type wireLevels struct {
	Ask []levelRow `json:"ask"`
	Bid []levelRow `json:"bid"`
}

func (w wireLevels) toBook() (book.Book, error) {
	ask, err := toLevels(w.Ask)
	if err != nil {
		return book.Book{}, err
	}
	bid, err := toLevels(w.Bid)
	if err != nil {
		return book.Book{}, err
	}
	return book.Book{Ask: ask, Bid: bid}, nil
}

type wireAsset struct {
	ID string `json:"id"`
}

type wireBalance struct {
	Asset       wireAsset        `json:"asset"`
	Available   decimal.Decimal  `json:"available"`
	Unavailable decimal.Decimal  `json:"unavailable"`
	Price       *decimal.Decimal `json:"price"`
}

func (w wireBalance) toBalance() domain.Balance {
	return domain.Balance{
		Asset:       domain.AssetFromID(w.Asset.ID),
		Available:   w.Available,
		Unavailable: w.Unavailable,
		Price:       w.Price,
	}
}

type wireOrder struct {
	ID               decimal.Decimal  `json:"id"`
	OrderID          decimal.Decimal  `json:"orderId"`
	MarketID         decimal.Decimal  `json:"marketId"`
	MarketAccount    string           `json:"marketAccount"`
	PrimaryAsset     string           `json:"primaryAsset"`
	SecondaryAsset   string           `json:"secondaryAsset"`
	AccountID        decimal.Decimal  `json:"accountId"`
	BlockNumber      decimal.Decimal  `json:"blockNumber"`
	Condition        int              `json:"condition"`
	Side             int              `json:"side"`
	Policy           int              `json:"policy"`
	Price            *decimal.Decimal `json:"price"`
	StopPrice        *decimal.Decimal `json:"stopPrice"`
	FillingPrice     *decimal.Decimal `json:"fillingPrice"`
	StartingValue    decimal.Decimal  `json:"startingValue"`
	Value            decimal.Decimal  `json:"value"`
	Slippage         *decimal.Decimal `json:"slippage"`
	TrailingStep     *decimal.Decimal `json:"trailingStep"`
	TrailingDistance *decimal.Decimal `json:"trailingDistance"`
	Active           bool             `json:"active"`
}

func (w wireOrder) toOrder() domain.Order {
	return domain.Order{
		ID:               w.ID,
		OrderID:          w.OrderID,
		MarketID:         w.MarketID,
		MarketAccount:    w.MarketAccount,
		PrimaryAsset:     domain.AssetFromID(w.PrimaryAsset),
		SecondaryAsset:   domain.AssetFromID(w.SecondaryAsset),
		AccountID:        w.AccountID,
		BlockNumber:      w.BlockNumber,
		Condition:        domain.OrderCondition(w.Condition),
		Side:             domain.OrderSide(w.Side),
		Policy:           domain.OrderPolicy(w.Policy),
		Price:            w.Price,
		StopPrice:        w.StopPrice,
		FillingPrice:     w.FillingPrice,
		StartingValue:    w.StartingValue,
		Value:            w.Value,
		Slippage:         w.Slippage,
		TrailingStep:     w.TrailingStep,
		TrailingDistance: w.TrailingDistance,
		Active:           w.Active,
	}
}

type wirePool struct {
	ID               decimal.Decimal  `json:"id"`
	PoolID           decimal.Decimal  `json:"poolId"`
	PairID           decimal.Decimal  `json:"pairId"`
	PrimaryAsset     string           `json:"primaryAsset"`
	SecondaryAsset   string           `json:"secondaryAsset"`
	MarketID         decimal.Decimal  `json:"marketId"`
	MarketAccount    string           `json:"marketAccount"`
	AccountID        decimal.Decimal  `json:"accountId"`
	BlockNumber      decimal.Decimal  `json:"blockNumber"`
	PrimaryValue     decimal.Decimal  `json:"primaryValue"`
	SecondaryValue   decimal.Decimal  `json:"secondaryValue"`
	PrimaryRevenue   decimal.Decimal  `json:"primaryRevenue"`
	SecondaryRevenue decimal.Decimal  `json:"secondaryRevenue"`
	Liquidity        decimal.Decimal  `json:"liquidity"`
	Price            decimal.Decimal  `json:"price"`
	MinPrice         *decimal.Decimal `json:"minPrice"`
	MaxPrice         *decimal.Decimal `json:"maxPrice"`
	FeeRate          decimal.Decimal  `json:"feeRate"`
	ExitFee          decimal.Decimal  `json:"exitFee"`
	LastAskPrice     decimal.Decimal  `json:"lastAskPrice"`
	LastBidPrice     decimal.Decimal  `json:"lastBidPrice"`
	Active           bool             `json:"active"`
}

func (w wirePool) toPool() domain.Pool {
	return domain.Pool{
		ID:               w.ID,
		PoolID:           w.PoolID,
		PairID:           w.PairID,
		PrimaryAsset:     domain.AssetFromID(w.PrimaryAsset),
		SecondaryAsset:   domain.AssetFromID(w.SecondaryAsset),
		MarketID:         w.MarketID,
		MarketAccount:    w.MarketAccount,
		AccountID:        w.AccountID,
		BlockNumber:      w.BlockNumber,
		PrimaryValue:     w.PrimaryValue,
		SecondaryValue:   w.SecondaryValue,
		PrimaryRevenue:   w.PrimaryRevenue,
		SecondaryRevenue: w.SecondaryRevenue,
		Liquidity:        w.Liquidity,
		Price:            w.Price,
		MinPrice:         w.MinPrice,
		MaxPrice:         w.MaxPrice,
		FeeRate:          w.FeeRate,
		ExitFee:          w.ExitFee,
		LastAskPrice:     w.LastAskPrice,
		LastBidPrice:     w.LastBidPrice,
		Active:           w.Active,
	}
}

type wireMarket struct {
	ID                decimal.Decimal `json:"id"`
	AccountID         decimal.Decimal `json:"accountId"`
	Account           string          `json:"account"`
	DeployerAccountID decimal.Decimal `json:"deployerAccountId"`
	DeployerAccount   string          `json:"deployerAccount"`
	BlockNumber       decimal.Decimal `json:"blockNumber"`
	PoolExitFee       decimal.Decimal `json:"poolExitFee"`
	MaxPoolFeeRate    decimal.Decimal `json:"maxPoolFeeRate"`
	MinMakerFee       decimal.Decimal `json:"minMakerFee"`
	MaxMakerFee       decimal.Decimal `json:"maxMakerFee"`
	MakerFeeExponent  decimal.Decimal `json:"makerFeeExponent"`
	MinTakerFee       decimal.Decimal `json:"minTakerFee"`
	MaxTakerFee       decimal.Decimal `json:"maxTakerFee"`
	TakerFeeExponent  decimal.Decimal `json:"takerFeeExponent"`
	AssetVolumeTarget decimal.Decimal `json:"assetVolumeTarget"`
	AssetResetDays    decimal.Decimal `json:"assetResetDays"`
	AccountResetDays  decimal.Decimal `json:"accountResetDays"`
	MarketPolicy      int             `json:"marketPolicy"`
}

func (w wireMarket) toMarket() domain.MarketContract {
	return domain.MarketContract{
		ID:                w.ID,
		AccountID:         w.AccountID,
		Account:           w.Account,
		DeployerAccountID: w.DeployerAccountID,
		DeployerAccount:   w.DeployerAccount,
		BlockNumber:       w.BlockNumber,
		PoolExitFee:       w.PoolExitFee,
		MaxPoolFeeRate:    w.MaxPoolFeeRate,
		MinMakerFee:       w.MinMakerFee,
		MaxMakerFee:       w.MaxMakerFee,
		MakerFeeExponent:  w.MakerFeeExponent,
		MinTakerFee:       w.MinTakerFee,
		MaxTakerFee:       w.MaxTakerFee,
		TakerFeeExponent:  w.TakerFeeExponent,
		AssetVolumeTarget: w.AssetVolumeTarget,
		AssetResetDays:    w.AssetResetDays,
		AccountResetDays:  w.AccountResetDays,
		Policy:            domain.MarketPolicy(w.MarketPolicy),
	}
}

func toMarkets(rows []wireMarket) []domain.MarketContract {
	markets := make([]domain.MarketContract, 0, len(rows))
	for _, row := range rows {
		markets = append(markets, row.toMarket())
	}
	return markets
}

type wirePairPrice struct {
	OrderLiquidity *decimal.Decimal `json:"orderLiquidity"`
	PoolLiquidity  *decimal.Decimal `json:"poolLiquidity"`
	TotalLiquidity *decimal.Decimal `json:"totalLiquidity"`
	OrderVolume    *decimal.Decimal `json:"orderVolume"`
	PoolVolume     *decimal.Decimal `json:"poolVolume"`
	TotalVolume    *decimal.Decimal `json:"totalVolume"`
	Open           *decimal.Decimal `json:"open"`
	Low            *decimal.Decimal `json:"low"`
	High           *decimal.Decimal `json:"high"`
	Close          *decimal.Decimal `json:"close"`
}

type wirePair struct {
	ID             decimal.Decimal `json:"id"`
	PrimaryAsset   string          `json:"primaryAsset"`
	SecondaryAsset string          `json:"secondaryAsset"`
	SecondaryBase  string          `json:"secondaryBase"`
	LaunchTime     int64           `json:"launchTime"`
	Price          wirePairPrice   `json:"price"`
}

func (w wirePair) toPair() domain.AggregatedPair {
	return domain.AggregatedPair{
		ID:             w.ID,
		PrimaryAsset:   domain.AssetFromID(w.PrimaryAsset),
		SecondaryAsset: domain.AssetFromID(w.SecondaryAsset),
		SecondaryBase:  w.SecondaryBase,
		LaunchTime:     time.Unix(w.LaunchTime, 0),
		Price: domain.PairPrice{
			OrderLiquidity: w.Price.OrderLiquidity,
			PoolLiquidity:  w.Price.PoolLiquidity,
			TotalLiquidity: w.Price.TotalLiquidity,
			OrderVolume:    w.Price.OrderVolume,
			PoolVolume:     w.Price.PoolVolume,
			TotalVolume:    w.Price.TotalVolume,
			Open:           w.Price.Open,
			Low:            w.Price.Low,
			High:           w.Price.High,
			Close:          w.Price.Close,
		},
	}
}

type wireMatch struct {
	Time     int64           `json:"time"`
	Account  string          `json:"account"`
	Side     int             `json:"side"`
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
}

func (w wireMatch) toMatch() domain.AggregatedMatch {
	return domain.AggregatedMatch{
		Time:     time.UnixMilli(w.Time),
		Account:  w.Account,
		Side:     domain.OrderSide(w.Side),
		Price:    w.Price,
		Quantity: w.Quantity,
	}
}

type wireTierLeg struct {
	Volume   *decimal.Decimal `json:"volume"`
	MakerFee *decimal.Decimal `json:"makerFee"`
	TakerFee *decimal.Decimal `json:"takerFee"`
}

type wireTier struct {
	Primary   wireTierLeg `json:"primary"`
	Secondary wireTierLeg `json:"secondary"`
}

func (w wireTier) toTier() domain.AccountTier {
	return domain.AccountTier{
		Primary: domain.TierLeg{
			Volume:   w.Primary.Volume,
			MakerFee: w.Primary.MakerFee,
			TakerFee: w.Primary.TakerFee,
		},
		Secondary: domain.TierLeg{
			Volume:   w.Secondary.Volume,
			MakerFee: w.Secondary.MakerFee,
			TakerFee: w.Secondary.TakerFee,
		},
	}
}

type wireDescriptor struct {
	Chain             string          `json:"chain"`
	Token             string          `json:"token"`
	Divisibility      decimal.Decimal `json:"divisibility"`
	SyncLatency       decimal.Decimal `json:"syncLatency"`
	CompositionPolicy string          `json:"compositionPolicy"`
	TokenPolicy       string          `json:"tokenPolicy"`
	RoutingPolicy     string          `json:"routingPolicy"`
	SlowTransfer      bool            `json:"slowTransfer"`
	BulkTransfer      bool            `json:"bulkTransfer"`
}

func (w wireDescriptor) toDescriptor() domain.ChainDescriptor {
	return domain.ChainDescriptor{
		Asset:             domain.NewAssetID(w.Chain, w.Token),
		Divisibility:      w.Divisibility,
		SyncLatency:       w.SyncLatency,
		CompositionPolicy: w.CompositionPolicy,
		TokenPolicy:       w.TokenPolicy,
		RoutingPolicy:     w.RoutingPolicy,
		SlowTransfer:      w.SlowTransfer,
		BulkTransfer:      w.BulkTransfer,
	}
}

// wirePortfolio is the assets/portfolio snapshot: the price table, market
// contracts, and chain descriptors in one fetch.
type wirePortfolio struct {
	Prices      map[string]PriceDescriptor `json:"prices"`
	Markets     []wireMarket               `json:"markets"`
	Descriptors []wireDescriptor           `json:"descriptors"`
}
