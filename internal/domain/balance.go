package domain

import "github.com/shopspring/decimal"

// Balance is one per-chain balance bucket for an asset. Available is
// spendable now; Unavailable is locked in open orders or pools. Both are
// non-negative. Balances are replaced wholesale on each portfolio refresh.
type Balance struct {
	Asset       AssetID
	Available   decimal.Decimal
	Unavailable decimal.Decimal
	Price       *decimal.Decimal
}

// TotalAvailable sums the spendable amounts of a balance list.
func TotalAvailable(balances []Balance) decimal.Decimal {
	total := decimal.Zero
	for _, b := range balances {
		total = total.Add(b.Available)
	}
	return total
}

// Allocate splits a requested payment value across balance buckets in the
// caller-supplied order, taking min(available, remaining) from each. Every
// bucket receives an entry, zero once the request is covered. If the list is
// exhausted with value remaining the partial allocation is still returned;
// the caller is responsible for pre-checking requested <= TotalAvailable.
func Allocate(balances []Balance, requested decimal.Decimal) map[string]decimal.Decimal {
	pays := make(map[string]decimal.Decimal, len(balances))
	remaining := requested
	for _, b := range balances {
		change := decimal.Min(b.Available, remaining)
		if change.IsNegative() {
			change = decimal.Zero
		}
		remaining = remaining.Sub(change)
		pays[b.Asset.Hex()] = change
	}
	return pays
}
