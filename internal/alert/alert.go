// Package alert holds the queue of user-visible, auto-expiring
// notifications. Repeated identical alerts coalesce into one entry with a
// running counter instead of stacking, and display time scales with message
// length so long error texts stay readable.
package alert

import (
	"log/slog"
	"sync"
	"time"
)

// Type classifies an alert for display and logging.
type Type string

const (
	Info    Type = "info"
	Warning Type = "warning"
	Error   Type = "error"
)

// Display-time interpolation bounds: a message of shortLen characters or
// fewer shows for MinDuration, one of longLen or more for MaxDuration.
const (
	MinDuration = 4 * time.Second
	MaxDuration = 12 * time.Second
	shortLen    = 20
	longLen     = 200
)

// Alert is one queued notification. Count tracks how many identical opens
// coalesced into this entry.
type Alert struct {
	ID        int64
	Type      Type
	Message   string
	Count     int
	ExpiresAt time.Time
}

// Queue is the alert queue. The zero value is not usable; construct with
// New.
type Queue struct {
	mu      sync.Mutex
	alerts  []Alert
	counter int64
	seq     map[int64]int64

	minDur time.Duration
	maxDur time.Duration

	now    func() time.Time
	after  func(time.Duration, func())
	notify func()
	log    *slog.Logger
}

// Option adjusts queue construction; used by tests to control time.
type Option func(*Queue)

// WithClock replaces the wall clock and timer scheduler.
func WithClock(now func() time.Time, after func(time.Duration, func())) Option {
	return func(q *Queue) {
		q.now = now
		q.after = after
	}
}

// WithBounds overrides the display-time interpolation bounds.
func WithBounds(min, max time.Duration) Option {
	return func(q *Queue) {
		if min > 0 {
			q.minDur = min
		}
		if max >= q.minDur {
			q.maxDur = max
		}
	}
}

// New creates an empty queue.
func New(logger *slog.Logger, opts ...Option) *Queue {
	q := &Queue{
		seq:    make(map[int64]int64),
		minDur: MinDuration,
		maxDur: MaxDuration,
		now:    time.Now,
		after:  func(d time.Duration, f func()) { time.AfterFunc(d, f) },
		log:    logger.With("component", "alert"),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// SetNotify registers a callback invoked after every queue change, on the
// caller's goroutine for direct changes and the timer goroutine for expiry.
func (q *Queue) SetNotify(notify func()) {
	q.mu.Lock()
	q.notify = notify
	q.mu.Unlock()
}

// Duration returns the display time for a message under the default
// bounds: linear between the minimum and maximum by message length, clamped
// at both ends.
func Duration(message string) time.Duration {
	return interpolate(message, MinDuration, MaxDuration)
}

func (q *Queue) duration(message string) time.Duration {
	return interpolate(message, q.minDur, q.maxDur)
}

func interpolate(message string, min, max time.Duration) time.Duration {
	length := len(message)
	if length <= shortLen {
		return min
	}
	if length >= longLen {
		return max
	}
	span := max - min
	return min + span*time.Duration(length-shortLen)/time.Duration(longLen-shortLen)
}

// Open queues a notification. An alert with the same type and message
// already queued has its counter bumped and its expiry extended instead of a
// new entry appearing. Returns the alert id.
func (q *Queue) Open(kind Type, message string) int64 {
	q.mu.Lock()
	duration := q.duration(message)
	expires := q.now().Add(duration)

	var id int64
	for i := range q.alerts {
		if q.alerts[i].Type == kind && q.alerts[i].Message == message {
			q.alerts[i].Count++
			q.alerts[i].ExpiresAt = expires
			id = q.alerts[i].ID
			break
		}
	}
	if id == 0 {
		q.counter++
		id = q.counter
		q.alerts = append(q.alerts, Alert{
			ID:        id,
			Type:      kind,
			Message:   message,
			Count:     1,
			ExpiresAt: expires,
		})
	}
	q.seq[id]++
	seq := q.seq[id]
	notify := q.notify
	q.mu.Unlock()

	switch kind {
	case Error:
		q.log.Error(message)
	case Warning:
		q.log.Warn(message)
	default:
		q.log.Info(message)
	}

	q.after(duration, func() { q.expire(id, seq) })
	if notify != nil {
		notify()
	}
	return id
}

// expire removes the alert unless a later Open refreshed it, in which case
// the refresh's own timer is responsible.
func (q *Queue) expire(id, seq int64) {
	q.mu.Lock()
	if q.seq[id] != seq {
		q.mu.Unlock()
		return
	}
	q.remove(id)
	notify := q.notify
	q.mu.Unlock()
	if notify != nil {
		notify()
	}
}

// Close dismisses an alert before its timeout.
func (q *Queue) Close(id int64) {
	q.mu.Lock()
	q.remove(id)
	notify := q.notify
	q.mu.Unlock()
	if notify != nil {
		notify()
	}
}

func (q *Queue) remove(id int64) {
	for i := range q.alerts {
		if q.alerts[i].ID == id {
			q.alerts = append(q.alerts[:i], q.alerts[i+1:]...)
			break
		}
	}
	delete(q.seq, id)
}

// Snapshot returns a copy of the queued alerts in arrival order.
func (q *Queue) Snapshot() []Alert {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Alert(nil), q.alerts...)
}
