package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/swaplabs/swapdesk/internal/domain"
)

const (
	// requestTimeout bounds one request/response round trip on the pipe.
	requestTimeout = 24 * time.Second

	// retryDelay is the back-off after a failed channel construction. An
	// unexpected close of an established channel reconnects immediately.
	retryDelay = 5 * time.Second

	handshakeTimeout = 15 * time.Second
	writeWait        = 10 * time.Second

	// pongWait is how long to wait for a pong before declaring the
	// connection dead; pings go out at pingPeriod.
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// connectID is the reserved request id of the subscription handshake.
const connectID = "connect"

// pipeMessage is the duplex frame in both directions.
type pipeMessage struct {
	ID           string            `json:"id,omitempty"`
	Method       string            `json:"method,omitempty"`
	Params       any               `json:"params,omitempty"`
	Result       json.RawMessage   `json:"result,omitempty"`
	Error        string            `json:"error,omitempty"`
	Notification *pipeNotification `json:"notification,omitempty"`
}

type pipeNotification struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Channel is the duplex event and request pipe at <base>/pipe. It restores
// the last subscription set on every reconnect. Construction failures back
// off and retry only while the route check still reports the trading view
// active; losing an established channel reconnects immediately.
type Channel struct {
	url         string
	bus         *Bus
	routeActive func() bool

	mu       sync.Mutex
	conn     *websocket.Conn
	accounts []string
	pipeID   string
	closed   bool
	counter  uint64
	pending  map[string]chan pipeMessage

	done chan struct{}
}

// NewChannel creates a channel for the given HTTP base URL. routeActive
// gates construction retries; nil means always retry.
func NewChannel(baseURL string, bus *Bus, routeActive func() bool) *Channel {
	if routeActive == nil {
		routeActive = func() bool { return true }
	}
	url := strings.Replace(baseURL, "http", "ws", 1) + "/pipe"
	return &Channel{
		url:         url,
		bus:         bus,
		routeActive: routeActive,
		pending:     make(map[string]chan pipeMessage),
		done:        make(chan struct{}),
	}
}

// Connect dials the pipe and subscribes the given accounts. On dial failure
// a retry is scheduled after the back-off delay, unless the route check
// fails or the channel was closed.
func (c *Channel) Connect(ctx context.Context, accounts []string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return fmt.Errorf("gateway: channel: %w", domain.ErrWSDisconnect)
	}
	c.accounts = accounts
	if c.conn != nil {
		c.mu.Unlock()
		return c.subscribe(accounts)
	}
	c.mu.Unlock()

	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		if c.routeActive() {
			time.AfterFunc(retryDelay, func() {
				ctx, cancel := context.WithTimeout(context.Background(), handshakeTimeout)
				defer cancel()
				_ = c.Connect(ctx, accounts)
			})
		}
		return fmt.Errorf("gateway: channel: dial: %w", err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		_ = conn.Close()
		return fmt.Errorf("gateway: channel: %w", domain.ErrWSDisconnect)
	}
	c.conn = conn
	c.mu.Unlock()

	go c.readLoop(conn)
	go c.pingLoop(conn)
	return c.subscribe(accounts)
}

// Connected reports whether the pipe is currently established.
func (c *Channel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// PipeID returns the session id reported by the handshake, empty before it
// lands.
func (c *Channel) PipeID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pipeID
}

// subscribe (re)sends the account subscription set.
func (c *Channel) subscribe(accounts []string) error {
	return c.write(pipeMessage{
		ID:     connectID,
		Method: "post://pipe",
		Params: map[string]any{"accounts": accounts},
	})
}

// Request performs one request/response round trip over the pipe. Responses
// arriving after the timeout are dropped.
func (c *Channel) Request(ctx context.Context, method, location string, params any) (json.RawMessage, error) {
	c.mu.Lock()
	if c.conn == nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("gateway: channel: %w", domain.ErrNotConnected)
	}
	c.counter++
	id := strconv.FormatUint(c.counter, 10)
	reply := make(chan pipeMessage, 1)
	c.pending[id] = reply
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	err := c.write(pipeMessage{
		ID:     id,
		Method: strings.ToLower(method) + "://" + location,
		Params: params,
	})
	if err != nil {
		return nil, err
	}

	timer := time.NewTimer(requestTimeout)
	defer timer.Stop()
	select {
	case message := <-reply:
		if message.Error != "" {
			return nil, domain.NewServerError(message.Error)
		}
		return message.Result, nil
	case <-timer.C:
		return nil, fmt.Errorf("gateway: channel: %s: %w", location, domain.ErrTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close shuts the channel down for good; no reconnect follows.
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	close(c.done)
	if c.conn != nil {
		_ = c.conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		)
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}

func (c *Channel) write(message pipeMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return fmt.Errorf("gateway: channel: %w", domain.ErrNotConnected)
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(message); err != nil {
		return fmt.Errorf("gateway: channel: write: %w", err)
	}
	return nil
}

// pingLoop keeps the connection alive until it is replaced or the channel
// closes.
func (c *Channel) pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			if c.conn != conn {
				c.mu.Unlock()
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := conn.WriteMessage(websocket.PingMessage, nil)
			c.mu.Unlock()
			if err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// readLoop dispatches inbound frames until the connection drops, then
// triggers an immediate reconnect with the last subscription set.
func (c *Channel) readLoop(conn *websocket.Conn) {
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		var message pipeMessage
		if err := conn.ReadJSON(&message); err != nil {
			break
		}
		c.dispatch(message)
	}

	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	accounts := c.accounts
	closed := c.closed
	c.mu.Unlock()
	_ = conn.Close()

	if closed {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), handshakeTimeout)
	defer cancel()
	_ = c.Connect(ctx, accounts)
}

func (c *Channel) dispatch(message pipeMessage) {
	if message.Notification != nil {
		if message.Notification.Type != "" {
			c.bus.Publish(EventType(message.Notification.Type), message.Notification.Data)
		}
		return
	}
	if message.ID == connectID {
		var handshake struct {
			PipeID string `json:"pipeId"`
		}
		if err := json.Unmarshal(message.Result, &handshake); err == nil {
			c.mu.Lock()
			c.pipeID = handshake.PipeID
			c.mu.Unlock()
		}
		return
	}
	c.mu.Lock()
	reply := c.pending[message.ID]
	c.mu.Unlock()
	if reply != nil {
		select {
		case reply <- message:
		default:
		}
	}
}
