// Package store defines the persistent counter store interface and errors.
//
// The tracker keeps all of its state here as independently keyed JSON
// values; the store only has to guarantee last-write-wins per key and
// durability across process restarts.
package store

import "context"

// Store provides keyed read/write access to JSON-serializable values.
type Store interface {
	// Get unmarshals the value stored under key into dest.
	// Returns false with a nil error when the key has never been set.
	Get(ctx context.Context, key string, dest any) (bool, error)

	// Set marshals value and stores it under key, replacing any prior value.
	Set(ctx context.Context, key string, value any) error

	// Close releases any resources held by the store.
	Close() error
}
