package ticket

import (
	"context"
	"errors"
	"log/slog"

	"github.com/swaplabs/swapdesk/internal/domain"
	"github.com/swaplabs/swapdesk/internal/storage"
)

// Preset is a server- or component-driven draft override, for example the
// user clicking a price in the order book. ID increases monotonically; a
// preset with an ID at or below the last applied one is stale and ignored.
type Preset struct {
	ID int64 `json:"id"`
	Draft
}

// Ticket owns one draft for one trading pair, persisting it opportunistically
// to a key-value store so a revisit restores the in-progress order.
type Ticket struct {
	terms Terms
	store storage.Store
	path  string
	log   *slog.Logger

	draft    Draft
	presetID int64
}

// New creates a ticket for the given pair. A non-empty path enables draft
// persistence under that key; store may be nil when path is empty.
func New(terms Terms, store storage.Store, path string, logger *slog.Logger) *Ticket {
	return &Ticket{
		terms: terms,
		store: store,
		path:  path,
		log:   logger.With("component", "ticket"),
		draft: DefaultDraft(),
	}
}

// Terms returns the market and pair identity of the ticket.
func (t *Ticket) Terms() Terms {
	return t.terms
}

// Draft returns the current draft snapshot.
func (t *Ticket) Draft() Draft {
	return t.draft
}

// Update replaces the draft with the result of change and persists it. The
// change function receives the current draft by value.
func (t *Ticket) Update(ctx context.Context, change func(Draft) Draft) Draft {
	t.draft = change(t.draft)
	if t.path != "" && t.store != nil {
		if err := t.store.Set(ctx, t.path, t.draft); err != nil {
			t.log.Warn("draft persist failed", "path", t.path, "error", err)
		}
	}
	return t.draft
}

// Restore loads a previously persisted draft. A missing key leaves the
// defaults in place and is not an error.
func (t *Ticket) Restore(ctx context.Context) error {
	if t.path == "" || t.store == nil {
		return nil
	}
	restored := DefaultDraft()
	err := t.store.Get(ctx, t.path, &restored)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	t.draft = restored
	return nil
}

// ApplyPreset overrides the draft with a preset when its ID is newer than
// the last applied one. Returns whether the preset was applied. Missing
// slippage falls back to the default so market presets stay submittable.
func (t *Ticket) ApplyPreset(ctx context.Context, preset Preset) bool {
	if preset.ID <= t.presetID {
		return false
	}
	t.presetID = preset.ID
	next := preset.Draft
	if next.Slippage == "" {
		next.Slippage = "1%"
	}
	t.Update(ctx, func(Draft) Draft { return next })
	return true
}

// BuildOrderPayload derives the order body from the current draft.
func (t *Ticket) BuildOrderPayload(balances Balances) *OrderPayload {
	return t.draft.BuildOrderPayload(t.terms, balances)
}

// BuildPoolPayload derives the pool creation body from the current draft.
func (t *Ticket) BuildPoolPayload(balances Balances) *PoolPayload {
	return t.draft.BuildPoolPayload(t.terms, balances)
}
