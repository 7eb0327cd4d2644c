// Package gateway is the swap-server client: REST and duplex-pipe access,
// the deferred session barrier, and the shared market/asset/price caches
// that the ticket and display layers read.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/swaplabs/swapdesk/internal/alert"
	"github.com/swaplabs/swapdesk/internal/book"
	"github.com/swaplabs/swapdesk/internal/domain"
	"github.com/swaplabs/swapdesk/internal/storage"
	"github.com/swaplabs/swapdesk/internal/ticket"
)

// orderbookKey is the storage key of the last viewed order book.
const orderbookKey = "__orderbook__"

// Config configures the gateway client.
type Config struct {
	// BaseURL is the swap server root, e.g. "https://swap.example.com".
	BaseURL string
	// Subroute is the URL prefix of the trading section; channel
	// construction retries stop once the current route leaves it.
	Subroute string
	// Accounts to subscribe on the pipe.
	Accounts []string
	// Timeout bounds one REST call.
	Timeout time.Duration
}

// OrderbookRef identifies the order book the user last viewed.
type OrderbookRef struct {
	MarketID       decimal.Decimal `json:"marketId"`
	PrimaryAsset   string          `json:"primaryAsset"`
	SecondaryAsset string          `json:"secondaryAsset"`
}

// AccountQuery selects an account by id or address for the account/*
// endpoints.
type AccountQuery struct {
	ID      string
	Address string
	Resync  bool
}

// Portfolio is the account snapshot: balances, open orders, and pools.
type Portfolio struct {
	Balances []domain.Balance
	Orders   []domain.Order
	Pools    []domain.Pool
}

// Client is the gateway. Construct with New; methods are safe for
// concurrent use. Data methods wait on the deferred session barrier: the
// first caller triggers setup, concurrent callers queue and are released
// together when setup finishes, successfully or not.
type Client struct {
	cfg     Config
	http    *http.Client
	log     *slog.Logger
	alerts  *alert.Queue
	store   storage.Store
	bus     *Bus
	channel *Channel

	// route returns the current view path; it gates channel retries.
	route func() string

	mu          sync.RWMutex
	prices      map[string]PriceDescriptor
	markets     []domain.MarketContract
	descriptors []domain.ChainDescriptor
	whitelist   map[string]struct{}
	equity      domain.AssetID
	orderbook   *OrderbookRef

	barrierMu sync.Mutex
	waiters   []chan struct{}
	acquiring bool
	acquired  bool
}

// New creates a gateway client. route may be nil when there is no routed UI
// above the client; retries then never stop.
func New(cfg Config, store storage.Store, alerts *alert.Queue, logger *slog.Logger, route func() string) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Subroute == "" {
		cfg.Subroute = "/swap"
	}
	bus := NewBus()
	c := &Client{
		cfg:       cfg,
		http:      &http.Client{Timeout: cfg.Timeout},
		log:       logger.With("component", "gateway"),
		alerts:    alerts,
		store:     store,
		bus:       bus,
		route:     route,
		prices:    make(map[string]PriceDescriptor),
		whitelist: make(map[string]struct{}),
		equity:    domain.AssetFromHandle("USD"),
	}
	c.channel = NewChannel(cfg.BaseURL, bus, c.routeActive)
	c.bus.Subscribe(EventTrade, c.applyTrade)
	return c
}

// Events returns the bus the gateway publishes stream events on.
func (c *Client) Events() *Bus {
	return c.bus
}

// Close shuts the pipe down.
func (c *Client) Close() error {
	return c.channel.Close()
}

func (c *Client) routeActive() bool {
	if c.route == nil {
		return true
	}
	return strings.HasPrefix(c.route(), c.cfg.Subroute)
}

// WarmUp forces the deferred session setup instead of waiting for the
// first data access to trigger it.
func (c *Client) WarmUp(ctx context.Context) error {
	return c.ready(ctx)
}

// ready blocks until the deferred session setup has run. The first caller
// starts it; everyone queued is released in FIFO order when it finishes,
// whether or not it succeeded. Callers re-check cache state rather than
// assume success.
func (c *Client) ready(ctx context.Context) error {
	c.barrierMu.Lock()
	if c.acquired {
		c.barrierMu.Unlock()
		return nil
	}
	wait := make(chan struct{})
	c.waiters = append(c.waiters, wait)
	start := !c.acquiring
	c.acquiring = true
	c.barrierMu.Unlock()

	if start {
		go c.acquire()
	}

	select {
	case <-wait:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// acquire performs the one-time session warm-up: open the pipe, load the
// asset portfolio snapshot and whitelist, restore the order-book selection,
// and announce readiness. Failures surface as an alert; waiters are always
// released.
func (c *Client) acquire() {
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.Timeout)
	defer cancel()

	success := true
	if err := c.channel.Connect(ctx, c.cfg.Accounts); err != nil {
		success = false
		c.log.Warn("session setup failed", "error", err)
		c.alerts.Open(alert.Error, "Swap server error: "+err.Error())
	} else {
		if err := c.loadPortfolio(ctx); err != nil {
			c.log.Warn("portfolio snapshot failed", "error", err)
		}
		c.loadWhitelist(ctx)
		c.restoreOrderbook(ctx)
		c.bus.Publish(EventReady, nil)
	}

	c.barrierMu.Lock()
	waiters := c.waiters
	c.waiters = nil
	c.acquiring = false
	c.acquired = success
	c.barrierMu.Unlock()
	for _, wait := range waiters {
		close(wait)
	}
}

func (c *Client) loadPortfolio(ctx context.Context) error {
	raw, err := c.fetch(ctx, http.MethodGet, "assets/portfolio", nil, nil, false)
	if err != nil {
		return err
	}
	var portfolio wirePortfolio
	if err := json.Unmarshal(raw, &portfolio); err != nil {
		return fmt.Errorf("gateway: decode portfolio: %w", err)
	}

	descriptors := make([]domain.ChainDescriptor, 0, len(portfolio.Descriptors))
	for _, row := range portfolio.Descriptors {
		descriptors = append(descriptors, row.toDescriptor())
	}
	sort.Slice(descriptors, func(i, j int) bool {
		return descriptors[i].Asset.Symbol() < descriptors[j].Asset.Symbol()
	})

	c.mu.Lock()
	if portfolio.Prices != nil {
		c.prices = portfolio.Prices
	}
	c.markets = toMarkets(portfolio.Markets)
	c.descriptors = descriptors
	if base, ok := c.prices["__BASE__"]; ok && base.Base != "" {
		c.equity = domain.AssetFromHandle(base.Base)
	}
	c.mu.Unlock()
	return nil
}

// loadWhitelist is best effort: a failure leaves the whitelist empty.
func (c *Client) loadWhitelist(ctx context.Context) {
	raw, err := c.fetch(ctx, http.MethodGet, "asset/whitelist", nil, nil, false)
	whitelist := make(map[string]struct{})
	if err == nil {
		var ids []string
		if json.Unmarshal(raw, &ids) == nil {
			for _, id := range ids {
				whitelist[id] = struct{}{}
			}
		}
	}
	c.mu.Lock()
	c.whitelist = whitelist
	c.mu.Unlock()
}

func (c *Client) restoreOrderbook(ctx context.Context) {
	var ref OrderbookRef
	if err := c.store.Get(ctx, orderbookKey, &ref); err == nil {
		c.mu.Lock()
		c.orderbook = &ref
		c.mu.Unlock()
	}
}

// SetOrderbook persists the last viewed order book; nil clears it.
func (c *Client) SetOrderbook(ctx context.Context, ref *OrderbookRef) {
	c.mu.Lock()
	c.orderbook = ref
	c.mu.Unlock()
	var value any
	if ref != nil {
		value = *ref
	}
	if err := c.store.Set(ctx, orderbookKey, value); err != nil {
		c.log.Warn("orderbook selection persist failed", "error", err)
	}
}

// Orderbook returns the last viewed order book, nil when none.
func (c *Client) Orderbook() *OrderbookRef {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.orderbook
}

// EquityAsset returns the reference asset the price table is denominated
// in.
func (c *Client) EquityAsset() domain.AssetID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.equity
}

// CachedMarkets returns the market contracts from the session snapshot.
func (c *Client) CachedMarkets() []domain.MarketContract {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.MarketContract(nil), c.markets...)
}

// Descriptors returns the cached chain descriptors, sorted by symbol.
func (c *Client) Descriptors() []domain.ChainDescriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.ChainDescriptor(nil), c.descriptors...)
}

// Whitelisted reports whether an asset id is on the server whitelist.
func (c *Client) Whitelisted(asset domain.AssetID) bool {
	if asset.Token == "" {
		return true
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.whitelist[asset.Hex()]
	return ok
}

// PriceOf returns the cached pair price of primary against secondary: each
// leg sourced independently from the equity-denominated table, nil when
// either leg is unknown. A nil secondary returns the primary leg directly.
func (c *Client) PriceOf(primary domain.AssetID, secondary *domain.AssetID) PricePoint {
	c.mu.RLock()
	defer c.mu.RUnlock()

	primaryLeg, ok := c.prices[primary.Symbol()]
	if secondary == nil {
		if !ok {
			return PricePoint{}
		}
		return primaryLeg.Price
	}
	secondaryLeg, sok := c.prices[secondary.Symbol()]
	if !ok || !sok {
		return PricePoint{}
	}
	return PricePoint{
		Open:  ratio(primaryLeg.Price.Open, secondaryLeg.Price.Open),
		Close: ratio(primaryLeg.Price.Close, secondaryLeg.Price.Close),
	}
}

func ratio(a, b *decimal.Decimal) *decimal.Decimal {
	if a == nil || b == nil || b.IsZero() {
		return nil
	}
	value := a.DivRound(*b, 18)
	return &value
}

// applyTrade folds a streamed trade print into the price table: exact
// replacement of close, preserving the session open. Only trades quoted
// against the equity asset move the table, and an off-whitelist print never
// overrides an on-whitelist price.
func (c *Client) applyTrade(data json.RawMessage) {
	var trade struct {
		PrimaryBase   string          `json:"primaryBase"`
		SecondaryBase string          `json:"secondaryBase"`
		Whitelist     bool            `json:"whitelist"`
		Price         decimal.Decimal `json:"price"`
	}
	if err := json.Unmarshal(data, &trade); err != nil || trade.PrimaryBase == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if trade.SecondaryBase != c.equity.Symbol() {
		return
	}

	price := trade.Price
	prev, known := c.prices[trade.PrimaryBase]
	if known && prev.Whitelist && !trade.Whitelist {
		return
	}
	open := prev.Price.Open
	if open == nil {
		open = &price
	}
	base := prev.Base
	if base == "" {
		base = trade.SecondaryBase
	}
	c.prices[trade.PrimaryBase] = PriceDescriptor{
		Whitelist: trade.Whitelist,
		Base:      base,
		Price:     PricePoint{Open: open, Close: &price},
	}
}

// fetch performs one server call: over the pipe when it is up, REST
// otherwise. awaitable calls first wait on the session barrier.
func (c *Client) fetch(ctx context.Context, method, location string, query url.Values, body any, awaitable bool) (json.RawMessage, error) {
	if awaitable {
		if err := c.ready(ctx); err != nil {
			return nil, err
		}
	}

	if c.channel.Connected() {
		params := make(map[string]string, len(query))
		for key := range query {
			params[key] = query.Get(key)
		}
		var args any = params
		if body != nil {
			args = body
		}
		return c.channel.Request(ctx, method, location, args)
	}

	target := c.cfg.BaseURL + "/" + location
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("gateway: encode %s: %w", location, err)
		}
		reader = bytes.NewReader(encoded)
	}
	request, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("gateway: %s: %w", location, err)
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPost {
		request.Header.Set("Idempotency-Key", uuid.NewString())
	}

	response, err := c.http.Do(request)
	if err != nil {
		return nil, fmt.Errorf("gateway: %s: %w", location, err)
	}
	defer response.Body.Close()
	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("gateway: %s: read: %w", location, err)
	}
	return decodeEnvelope(raw)
}

func (c *Client) get(ctx context.Context, location string, query url.Values, out any) error {
	raw, err := c.fetch(ctx, http.MethodGet, location, query, nil, true)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("gateway: decode %s: %w", location, err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, location string, body, out any) error {
	raw, err := c.fetch(ctx, http.MethodPost, location, nil, body, true)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("gateway: decode %s: %w", location, err)
	}
	return nil
}

// AssetQuery searches assets by free text.
func (c *Client) AssetQuery(ctx context.Context, query string) ([]domain.AssetID, error) {
	var rows []wireAsset
	values := url.Values{"query": {strings.TrimSpace(query)}}
	if err := c.get(ctx, "asset/query", values, &rows); err != nil {
		return nil, err
	}
	assets := make([]domain.AssetID, 0, len(rows))
	for _, row := range rows {
		assets = append(assets, domain.AssetFromID(row.ID))
	}
	return assets, nil
}

// AssetDescriptors fetches the chain descriptor table.
func (c *Client) AssetDescriptors(ctx context.Context) ([]domain.ChainDescriptor, error) {
	var rows []wireDescriptor
	if err := c.get(ctx, "asset/descriptors", nil, &rows); err != nil {
		return nil, err
	}
	descriptors := make([]domain.ChainDescriptor, 0, len(rows))
	for _, row := range rows {
		descriptors = append(descriptors, row.toDescriptor())
	}
	return descriptors, nil
}

// AssetPrices fetches the full price table.
func (c *Client) AssetPrices(ctx context.Context) (map[string]PriceDescriptor, error) {
	var prices map[string]PriceDescriptor
	if err := c.get(ctx, "asset/prices", nil, &prices); err != nil {
		return nil, err
	}
	return prices, nil
}

// Markets lists all market contracts.
func (c *Client) Markets(ctx context.Context) ([]domain.MarketContract, error) {
	var rows []wireMarket
	if err := c.get(ctx, "markets", nil, &rows); err != nil {
		return nil, err
	}
	return toMarkets(rows), nil
}

// Market fetches one market contract.
func (c *Client) Market(ctx context.Context, marketID decimal.Decimal) (domain.MarketContract, error) {
	var row wireMarket
	if err := c.get(ctx, "market", url.Values{"id": {marketID.String()}}, &row); err != nil {
		return domain.MarketContract{}, err
	}
	return row.toMarket(), nil
}

// MarketPairs lists the tradable pairs of a market.
func (c *Client) MarketPairs(ctx context.Context, marketID decimal.Decimal) ([]domain.AggregatedPair, error) {
	var rows []wirePair
	if err := c.get(ctx, "market/pairs", url.Values{"id": {marketID.String()}}, &rows); err != nil {
		return nil, err
	}
	pairs := make([]domain.AggregatedPair, 0, len(rows))
	for _, row := range rows {
		pairs = append(pairs, row.toPair())
	}
	return pairs, nil
}

// MarketPair fetches one pair with its aggregate price block.
func (c *Client) MarketPair(ctx context.Context, marketID decimal.Decimal, primary, secondary domain.AssetID) (domain.AggregatedPair, error) {
	values := url.Values{
		"id":                 {marketID.String()},
		"primaryAssetHash":   {primary.Hex()},
		"secondaryAssetHash": {secondary.Hex()},
	}
	var row wirePair
	if err := c.get(ctx, "market/pair", values, &row); err != nil {
		return domain.AggregatedPair{}, err
	}
	return row.toPair(), nil
}

// MarketPriceSeries fetches one page of historical bars for a pair.
func (c *Client) MarketPriceSeries(ctx context.Context, pairID decimal.Decimal, interval int64, page int) ([]SeriesRow, error) {
	values := url.Values{
		"pairId":   {pairID.String()},
		"interval": {fmt.Sprint(interval)},
		"page":     {fmt.Sprint(page)},
	}
	var rows []SeriesRow
	if err := c.get(ctx, "market/price/series", values, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// MarketPriceLevels fetches the current order-book snapshot of a pair.
func (c *Client) MarketPriceLevels(ctx context.Context, marketID, pairID decimal.Decimal) (book.Book, error) {
	values := url.Values{
		"marketId": {marketID.String()},
		"pairId":   {pairID.String()},
	}
	var rows wireLevels
	if err := c.get(ctx, "market/price/levels", values, &rows); err != nil {
		return book.Book{}, err
	}
	return rows.toBook()
}

// MarketAssets lists the payable assets of both legs of a pair.
func (c *Client) MarketAssets(ctx context.Context, marketID, pairID decimal.Decimal) (primary, secondary []domain.AssetID, err error) {
	values := url.Values{
		"marketId": {marketID.String()},
		"pairId":   {pairID.String()},
	}
	var result struct {
		Primary   []wireAsset `json:"primary"`
		Secondary []wireAsset `json:"secondary"`
	}
	if err := c.get(ctx, "market/assets", values, &result); err != nil {
		return nil, nil, err
	}
	for _, row := range result.Primary {
		primary = append(primary, domain.AssetFromID(row.ID))
	}
	for _, row := range result.Secondary {
		secondary = append(secondary, domain.AssetFromID(row.ID))
	}
	return primary, secondary, nil
}

// MarketTrades fetches one page of recent trade prints for a pair.
func (c *Client) MarketTrades(ctx context.Context, marketID, pairID decimal.Decimal, page int) ([]domain.AggregatedMatch, error) {
	values := url.Values{
		"marketId": {marketID.String()},
		"pairId":   {pairID.String()},
		"page":     {fmt.Sprint(page)},
	}
	var rows []wireMatch
	if err := c.get(ctx, "market/trades", values, &rows); err != nil {
		return nil, err
	}
	matches := make([]domain.AggregatedMatch, 0, len(rows))
	for _, row := range rows {
		matches = append(matches, row.toMatch())
	}
	return matches, nil
}

func accountValues(account AccountQuery) url.Values {
	values := url.Values{}
	if account.ID != "" {
		values.Set("id", account.ID)
	}
	if account.Address != "" {
		values.Set("account", account.Address)
	}
	if account.Resync {
		values.Set("resync", "true")
	}
	return values
}

// AccountBalances fetches the per-chain balances of an account.
func (c *Client) AccountBalances(ctx context.Context, account AccountQuery) ([]domain.Balance, error) {
	var rows []wireBalance
	if err := c.get(ctx, "account/balances", accountValues(account), &rows); err != nil {
		return nil, err
	}
	balances := make([]domain.Balance, 0, len(rows))
	for _, row := range rows {
		balances = append(balances, row.toBalance())
	}
	return balances, nil
}

// AccountOrders fetches one page of an account's orders.
func (c *Client) AccountOrders(ctx context.Context, account AccountQuery, marketID, pairID decimal.Decimal, activeOnly bool, page int) ([]domain.Order, error) {
	values := accountValues(account)
	values.Set("marketId", marketID.String())
	values.Set("pairId", pairID.String())
	if activeOnly {
		values.Set("active", "true")
	}
	values.Set("page", fmt.Sprint(page))

	var rows []wireOrder
	if err := c.get(ctx, "account/orders", values, &rows); err != nil {
		return nil, err
	}
	orders := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.toOrder())
	}
	return orders, nil
}

// AccountPools fetches one page of an account's pools.
func (c *Client) AccountPools(ctx context.Context, account AccountQuery, marketID, pairID decimal.Decimal, page int) ([]domain.Pool, error) {
	values := accountValues(account)
	values.Set("marketId", marketID.String())
	values.Set("pairId", pairID.String())
	values.Set("page", fmt.Sprint(page))

	var rows []wirePool
	if err := c.get(ctx, "account/pools", values, &rows); err != nil {
		return nil, err
	}
	pools := make([]domain.Pool, 0, len(rows))
	for _, row := range rows {
		pools = append(pools, row.toPool())
	}
	return pools, nil
}

// AccountTiers fetches the per-side fee tiers of an account on a pair.
func (c *Client) AccountTiers(ctx context.Context, account AccountQuery, marketID, pairID decimal.Decimal) (domain.AccountTier, error) {
	values := accountValues(account)
	values.Set("marketId", marketID.String())
	values.Set("pairId", pairID.String())

	var tier wireTier
	if err := c.get(ctx, "account/tiers", values, &tier); err != nil {
		return domain.AccountTier{}, err
	}
	return tier.toTier(), nil
}

// AccountPortfolio fetches balances, orders, and pools concurrently. Each
// sub-fetch fails independently: partial data is preferred over total
// failure, with failures surfaced as alerts.
func (c *Client) AccountPortfolio(ctx context.Context, account AccountQuery, marketID, pairID decimal.Decimal) Portfolio {
	var portfolio Portfolio
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		balances, err := c.AccountBalances(ctx, account)
		if err != nil {
			c.report("balances", err)
			return nil
		}
		portfolio.Balances = balances
		return nil
	})
	group.Go(func() error {
		orders, err := c.AccountOrders(ctx, account, marketID, pairID, true, 0)
		if err != nil {
			c.report("orders", err)
			return nil
		}
		portfolio.Orders = orders
		return nil
	})
	group.Go(func() error {
		pools, err := c.AccountPools(ctx, account, marketID, pairID, 0)
		if err != nil {
			c.report("pools", err)
			return nil
		}
		portfolio.Pools = pools
		return nil
	})

	_ = group.Wait()
	return portfolio
}

func (c *Client) report(what string, err error) {
	c.log.Warn("fetch failed", "what", what, "error", err)
	c.alerts.Open(alert.Error, fmt.Sprintf("Failed to load %s: %s", what, err))
}

// AuthorizeOrderCreation submits an order payload for authorization.
func (c *Client) AuthorizeOrderCreation(ctx context.Context, payload *ticket.OrderPayload) (Authorization, error) {
	var auth Authorization
	if err := c.post(ctx, "authorize/order/creation", payload, &auth); err != nil {
		return Authorization{}, err
	}
	return auth, nil
}

// AuthorizeOrderDeletion requests cancellation of an order.
func (c *Client) AuthorizeOrderDeletion(ctx context.Context, marketID, orderID decimal.Decimal) (Authorization, error) {
	body := map[string]string{
		"marketId": marketID.String(),
		"orderId":  orderID.String(),
	}
	var auth Authorization
	if err := c.post(ctx, "authorize/order/deletion", body, &auth); err != nil {
		return Authorization{}, err
	}
	return auth, nil
}

// AuthorizePoolCreation submits a pool payload for authorization.
func (c *Client) AuthorizePoolCreation(ctx context.Context, payload *ticket.PoolPayload) (Authorization, error) {
	var auth Authorization
	if err := c.post(ctx, "authorize/pool/creation", payload, &auth); err != nil {
		return Authorization{}, err
	}
	return auth, nil
}

// AuthorizePoolDeletion requests withdrawal of a pool.
func (c *Client) AuthorizePoolDeletion(ctx context.Context, marketID, poolID decimal.Decimal) (Authorization, error) {
	body := map[string]string{
		"marketId": marketID.String(),
		"poolId":   poolID.String(),
	}
	var auth Authorization
	if err := c.post(ctx, "authorize/pool/deletion", body, &auth); err != nil {
		return Authorization{}, err
	}
	return auth, nil
}
