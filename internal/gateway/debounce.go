package gateway

import (
	"sync"
	"time"
)

// Debounce windows for the two debounced interactions.
const (
	SearchDebounce    = 300 * time.Millisecond
	CrosshairDebounce = 10 * time.Millisecond
)

// Debouncer coalesces rapid calls into one: each Do cancels the pending
// timer before scheduling the new function, so only the last writer within
// the window runs.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

// NewDebouncer creates a debouncer with the given window.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Do schedules f after the window, cancelling any pending call.
func (d *Debouncer) Do(f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, f)
}

// Stop cancels any pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
