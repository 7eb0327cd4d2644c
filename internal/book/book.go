// Package book maintains the client-side view of an order book from
// streamed level deltas: upsert by server-assigned level id, delete by id
// alone, and price grouping for display at a chosen granularity.
package book

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/swaplabs/swapdesk/internal/domain"
)

// Delta is one streamed level event. A delta with Side, Price, and Quantity
// set is an upsert; a delta carrying only ID is a delete. Deletes do not say
// which side the level was on.
type Delta struct {
	ID       int64             `json:"id"`
	Side     *domain.OrderSide `json:"side"`
	Price    *decimal.Decimal  `json:"price"`
	Quantity *decimal.Decimal  `json:"quantity"`
}

// Upsert reports whether the delta replaces or inserts a level.
func (d Delta) Upsert() bool {
	return d.Side != nil && d.Price != nil && d.Quantity != nil
}

// Book holds both sides of the order book: asks ascending by price, bids
// descending.
type Book struct {
	Ask []domain.AggregatedLevel
	Bid []domain.AggregatedLevel
}

// Apply folds a batch of deltas into the book and re-sorts both sides. The
// sort is a full re-sort rather than positional insertion: a batch can touch
// many levels at once and incremental position tracking is unreliable.
func (b Book) Apply(deltas []Delta) Book {
	ask := append([]domain.AggregatedLevel(nil), b.Ask...)
	bid := append([]domain.AggregatedLevel(nil), b.Bid...)

	for _, delta := range deltas {
		if delta.Upsert() {
			target := &ask
			if *delta.Side == domain.Buy {
				target = &bid
			}
			index := indexOf(*target, delta.ID)
			if index < 0 {
				*target = append(*target, domain.AggregatedLevel{
					ID:       delta.ID,
					Price:    *delta.Price,
					Quantity: *delta.Quantity,
				})
			} else {
				(*target)[index].Price = *delta.Price
				(*target)[index].Quantity = *delta.Quantity
			}
			continue
		}
		// Deletes carry no side, so both lists are checked.
		if index := indexOf(ask, delta.ID); index >= 0 {
			ask = append(ask[:index], ask[index+1:]...)
		}
		if index := indexOf(bid, delta.ID); index >= 0 {
			bid = append(bid[:index], bid[index+1:]...)
		}
	}

	sort.SliceStable(ask, func(i, j int) bool { return ask[i].Price.LessThan(ask[j].Price) })
	sort.SliceStable(bid, func(i, j int) bool { return bid[i].Price.GreaterThan(bid[j].Price) })
	return Book{Ask: ask, Bid: bid}
}

func indexOf(levels []domain.AggregatedLevel, id int64) int {
	for i, level := range levels {
		if level.ID == id {
			return i
		}
	}
	return -1
}

// Reduce groups levels into fixed-width price bands of the given range,
// summing quantities. Band boundary is floor(price / range) * range, so
// independently reduced sides align. Non-positive ranges return the input
// unchanged.
func Reduce(levels []domain.AggregatedLevel, priceRange decimal.Decimal) []domain.AggregatedLevel {
	if !priceRange.IsPositive() {
		return levels
	}
	grouped := make(map[string]*domain.AggregatedLevel)
	var order []string
	for _, level := range levels {
		band := level.Price.Div(priceRange).Floor().Mul(priceRange)
		key := band.String()
		if target, ok := grouped[key]; ok {
			target.Quantity = target.Quantity.Add(level.Quantity)
			continue
		}
		grouped[key] = &domain.AggregatedLevel{Price: band, Quantity: level.Quantity}
		order = append(order, key)
	}
	reduced := make([]domain.AggregatedLevel, 0, len(order))
	for _, key := range order {
		reduced = append(reduced, *grouped[key])
	}
	return reduced
}

// Liquidity sums the resting quantity of a side.
func Liquidity(levels []domain.AggregatedLevel) decimal.Decimal {
	total := decimal.Zero
	for _, level := range levels {
		total = total.Add(level.Quantity)
	}
	return total
}
