// Package storage defines the local key-value persistence consumed by the
// ticket and gateway layers: opaque JSON values under string keys, with
// prefix enumeration. Backends exist for memory (default), Redis, and
// Postgres.
package storage

import "context"

// Store is the persistence interface. Set with a nil value deletes the key.
// Implementations marshal values as JSON.
type Store interface {
	// Get unmarshals the value at key into out. Returns domain.ErrNotFound
	// when the key does not exist.
	Get(ctx context.Context, key string, out any) error
	// Set marshals value and stores it at key.
	Set(ctx context.Context, key string, value any) error
	// Delete removes the key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists all keys with the given prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
}
