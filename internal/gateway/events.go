package gateway

import (
	"encoding/json"
	"sync"
)

// EventType names a fan-out stream published by the gateway.
type EventType string

const (
	// EventReady fires once the deferred session setup has completed.
	EventReady EventType = "swap:ready"
	// EventTrade carries one trade print.
	EventTrade EventType = "update:trade"
	// EventLevel carries one order-book level delta.
	EventLevel EventType = "update:level"
	// EventOrder carries an order state change for a subscribed account.
	EventOrder EventType = "update:order"
	// EventPool carries a pool state change for a subscribed account.
	EventPool EventType = "update:pool"
)

// Handler receives the raw payload of one event.
type Handler func(data json.RawMessage)

// Bus is the typed publish-subscribe channel the gateway fans events out on.
// Handlers run synchronously in subscription order, so events are observed
// strictly in arrival order.
type Bus struct {
	mu   sync.RWMutex
	subs map[EventType]map[int64]Handler
	next int64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[EventType]map[int64]Handler)}
}

// Subscribe registers a handler for an event type and returns its cancel
// function.
func (b *Bus) Subscribe(t EventType, h Handler) (cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[t] == nil {
		b.subs[t] = make(map[int64]Handler)
	}
	b.next++
	id := b.next
	b.subs[t][id] = h
	return func() {
		b.mu.Lock()
		delete(b.subs[t], id)
		b.mu.Unlock()
	}
}

// Publish delivers data to every handler of the event type.
func (b *Bus) Publish(t EventType, data json.RawMessage) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[t]))
	for _, h := range b.subs[t] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()
	for _, h := range handlers {
		h(data)
	}
}
