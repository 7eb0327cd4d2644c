package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swaplabs/swapdesk/internal/alert"
	"github.com/swaplabs/swapdesk/internal/domain"
	"github.com/swaplabs/swapdesk/internal/storage"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New(
		Config{BaseURL: server.URL, Timeout: 5 * time.Second},
		storage.NewMemory(),
		alert.New(discardLogger()),
		discardLogger(),
		func() string { return "/" }, // off the trading route, no pipe retries
	)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestDecodeEnvelope(t *testing.T) {
	result, err := decodeEnvelope([]byte(`{"result":[1,2,3]}`))
	require.NoError(t, err)
	assert.JSONEq(t, `[1,2,3]`, string(result))

	_, err = decodeEnvelope([]byte(`{"error":"market halted"}`))
	var serverErr *domain.ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, "market halted", serverErr.Message)
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{8}$`), serverErr.Code)
	assert.Contains(t, serverErr.Error(), "E"+serverErr.Code)
}

func TestSeriesRowDecode(t *testing.T) {
	var row SeriesRow
	require.NoError(t, json.Unmarshal(
		[]byte(`[1700000000,1,"12.5","100","99","101.5","100.5"]`), &row,
	))
	assert.Equal(t, int64(1700000000), row.Time)
	assert.Equal(t, 1, row.Sentiment)
	assert.True(t, row.Volume.Equal(dec("12.5")))
	assert.True(t, row.Open.Equal(dec("100")))
	assert.True(t, row.Low.Equal(dec("99")))
	assert.True(t, row.High.Equal(dec("101.5")))
	assert.True(t, row.Close.Equal(dec("100.5")))

	require.Error(t, json.Unmarshal([]byte(`[1,2]`), &row))
}

func TestLevelsDecode(t *testing.T) {
	var levels wireLevels
	require.NoError(t, json.Unmarshal(
		[]byte(`{"ask":[[7,"101","2"]],"bid":[[3,"99","5"],[4,"98.5","1"]]}`), &levels,
	))
	b, err := levels.toBook()
	require.NoError(t, err)
	require.Len(t, b.Ask, 1)
	require.Len(t, b.Bid, 2)
	assert.Equal(t, int64(7), b.Ask[0].ID)
	assert.True(t, b.Bid[1].Price.Equal(dec("98.5")))
}

func TestBusSubscribeCancel(t *testing.T) {
	bus := NewBus()
	var got []string
	cancel := bus.Subscribe(EventTrade, func(data json.RawMessage) {
		got = append(got, string(data))
	})

	bus.Publish(EventTrade, json.RawMessage(`"a"`))
	bus.Publish(EventLevel, json.RawMessage(`"ignored"`))
	cancel()
	bus.Publish(EventTrade, json.RawMessage(`"b"`))

	assert.Equal(t, []string{`"a"`}, got)
}

func TestDebouncerLastWriterWins(t *testing.T) {
	debouncer := NewDebouncer(20 * time.Millisecond)
	var fired atomic.Int32
	var last atomic.Int32

	for i := 1; i <= 5; i++ {
		i := i
		debouncer.Do(func() {
			fired.Add(1)
			last.Store(int32(i))
		})
	}

	assert.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(5), last.Load())

	debouncer.Do(func() { fired.Add(1) })
	debouncer.Stop()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())
}

func envelopeHandler(t *testing.T, routes map[string]string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			body = `{"error":"unknown location"}`
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	})
}

func TestRestFallbackAndServerError(t *testing.T) {
	client := newTestClient(t, envelopeHandler(t, map[string]string{
		"/markets": `{"result":[{"id":"5","account":"0xm"}]}`,
	}))
	ctx := context.Background()

	markets, err := client.Markets(ctx)
	require.NoError(t, err)
	require.Len(t, markets, 1)
	assert.True(t, markets[0].ID.Equal(dec("5")))

	_, err = client.Market(ctx, dec("1"))
	var serverErr *domain.ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, "unknown location", serverErr.Message)
}

func TestBarrierReleasesWaitersOnFailure(t *testing.T) {
	client := newTestClient(t, envelopeHandler(t, map[string]string{
		"/markets": `{"result":[]}`,
	}))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// The pipe endpoint does not exist, so session setup fails. Every
	// queued caller must still be released, and a later caller must be
	// able to trigger a fresh attempt instead of waiting forever.
	var group sync.WaitGroup
	for i := 0; i < 4; i++ {
		group.Add(1)
		go func() {
			defer group.Done()
			_, err := client.Markets(ctx)
			assert.NoError(t, err)
		}()
	}
	group.Wait()

	_, err := client.Markets(ctx)
	require.NoError(t, err)
}

func TestTradeUpdatesPriceTable(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler())
	open := dec("100")
	closePrice := dec("101")
	client.prices["BTC"] = PriceDescriptor{
		Whitelist: true,
		Base:      "USD",
		Price:     PricePoint{Open: &open, Close: &closePrice},
	}

	publish := func(body string) {
		client.bus.Publish(EventTrade, json.RawMessage(body))
	}

	publish(`{"primaryBase":"BTC","secondaryBase":"USD","whitelist":true,"price":"105"}`)
	point := client.PriceOf(domain.AssetFromHandle("BTC"), nil)
	require.NotNil(t, point.Close)
	assert.True(t, point.Close.Equal(dec("105")))
	require.NotNil(t, point.Open)
	assert.True(t, point.Open.Equal(dec("100")), "session open survives trade prints")

	// Off-whitelist prints never override an on-whitelist price.
	publish(`{"primaryBase":"BTC","secondaryBase":"USD","whitelist":false,"price":"1"}`)
	point = client.PriceOf(domain.AssetFromHandle("BTC"), nil)
	assert.True(t, point.Close.Equal(dec("105")))

	// Only trades quoted against the equity asset move the table.
	publish(`{"primaryBase":"BTC","secondaryBase":"EUR","whitelist":true,"price":"2"}`)
	point = client.PriceOf(domain.AssetFromHandle("BTC"), nil)
	assert.True(t, point.Close.Equal(dec("105")))

	// An unknown symbol seeds both legs from the first print.
	publish(`{"primaryBase":"SOL","secondaryBase":"USD","whitelist":true,"price":"40"}`)
	point = client.PriceOf(domain.AssetFromHandle("SOL"), nil)
	require.NotNil(t, point.Open)
	assert.True(t, point.Open.Equal(dec("40")))
	assert.True(t, point.Close.Equal(dec("40")))
}

func TestPriceOfRatioAndUnknownLegs(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler())
	btcOpen, btcClose := dec("100"), dec("110")
	ethOpen, ethClose := dec("20"), dec("25")
	client.prices["BTC"] = PriceDescriptor{Price: PricePoint{Open: &btcOpen, Close: &btcClose}}
	client.prices["ETH"] = PriceDescriptor{Price: PricePoint{Open: &ethOpen, Close: &ethClose}}

	eth := domain.AssetFromHandle("ETH")
	point := client.PriceOf(domain.AssetFromHandle("BTC"), &eth)
	require.NotNil(t, point.Open)
	require.NotNil(t, point.Close)
	assert.True(t, point.Open.Equal(dec("5")))
	assert.True(t, point.Close.Equal(dec("4.4")))

	// Either leg missing leaves the pair unpriced rather than guessed.
	point = client.PriceOf(domain.AssetFromHandle("XRP"), &eth)
	assert.Nil(t, point.Open)
	assert.Nil(t, point.Close)

	point = client.PriceOf(domain.AssetFromHandle("XRP"), nil)
	assert.Nil(t, point.Close)
}

func TestOrderbookSelectionPersists(t *testing.T) {
	store := storage.NewMemory()
	client := New(
		Config{BaseURL: "http://127.0.0.1:0"},
		store,
		alert.New(discardLogger()),
		discardLogger(),
		func() string { return "/" },
	)
	defer client.Close()

	ctx := context.Background()
	assert.Nil(t, client.Orderbook())

	ref := OrderbookRef{MarketID: dec("3"), PrimaryAsset: "BTC", SecondaryAsset: "USD"}
	client.SetOrderbook(ctx, &ref)
	require.NotNil(t, client.Orderbook())
	assert.Equal(t, "BTC", client.Orderbook().PrimaryAsset)

	var stored OrderbookRef
	require.NoError(t, store.Get(ctx, orderbookKey, &stored))
	assert.True(t, stored.MarketID.Equal(dec("3")))

	client.SetOrderbook(ctx, nil)
	assert.Nil(t, client.Orderbook())
	assert.ErrorIs(t, store.Get(ctx, orderbookKey, &stored), domain.ErrNotFound)
}

// pipeServer upgrades /pipe and answers subscription and request frames
// from a canned location table.
func pipeServer(t *testing.T, results map[string]string) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pipe" {
			http.NotFound(w, r)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			var frame pipeMessage
			if err := conn.ReadJSON(&frame); err != nil {
				return
			}
			if frame.ID == connectID {
				_ = conn.WriteJSON(map[string]any{
					"id":     connectID,
					"result": map[string]string{"pipeId": "pipe-1"},
				})
				continue
			}
			body, ok := results[frame.Method]
			reply := map[string]any{"id": frame.ID}
			if ok {
				reply["result"] = json.RawMessage(body)
			} else {
				reply["error"] = "unknown location"
			}
			_ = conn.WriteJSON(reply)
		}
	}))
}

func TestSessionSetupOverPipe(t *testing.T) {
	server := pipeServer(t, map[string]string{
		"get://assets/portfolio": `{
			"prices": {
				"__BASE__": {"whitelist": true, "base": "USD", "price": {}},
				"BTC": {"whitelist": true, "base": "USD", "price": {"open": "100", "close": "110"}}
			},
			"markets": [{"id": "1", "account": "0xm"}],
			"descriptors": [
				{"chain": "ETH", "token": "USDT", "divisibility": "6"},
				{"chain": "BTC", "divisibility": "8"}
			]
		}`,
		"get://asset/whitelist": `[]`,
	})
	defer server.Close()

	client := New(
		Config{BaseURL: server.URL, Subroute: "/swap", Timeout: 5 * time.Second},
		storage.NewMemory(),
		alert.New(discardLogger()),
		discardLogger(),
		func() string { return "/swap/orderbook" },
	)
	defer client.Close()

	ready := make(chan struct{}, 1)
	client.Events().Subscribe(EventReady, func(json.RawMessage) {
		ready <- struct{}{}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, client.ready(ctx))

	select {
	case <-ready:
	case <-time.After(5 * time.Second):
		t.Fatal("session never announced readiness")
	}

	assert.Equal(t, "pipe-1", client.channel.PipeID())
	assert.Equal(t, "USD", client.EquityAsset().Symbol())

	point := client.PriceOf(domain.AssetFromHandle("BTC"), nil)
	require.NotNil(t, point.Close)
	assert.True(t, point.Close.Equal(dec("110")))

	markets := client.CachedMarkets()
	require.Len(t, markets, 1)
	assert.True(t, markets[0].ID.Equal(dec("1")))

	descriptors := client.Descriptors()
	require.Len(t, descriptors, 2)
	assert.Equal(t, "BTC", descriptors[0].Asset.Symbol(), "descriptors sorted by symbol")
	assert.Equal(t, "USDT", descriptors[1].Asset.Symbol())

	// Requests now route over the pipe; unknown locations surface the
	// server's error envelope.
	_, err := client.Markets(ctx)
	var serverErr *domain.ServerError
	require.ErrorAs(t, err, &serverErr)

	// A second ready call is a no-op once the session is up.
	require.NoError(t, client.ready(ctx))
}

func TestChannelRequestWithoutConnection(t *testing.T) {
	channel := NewChannel("http://127.0.0.1:0", NewBus(), func() bool { return false })
	_, err := channel.Request(context.Background(), http.MethodGet, "markets", nil)
	assert.True(t, errors.Is(err, domain.ErrNotConnected))
}
