// Package kvstore is the key/value persistence layer used for cache
// snapshots. Failures here must be survivable: the engine treats them as a
// cache miss or a skipped snapshot, never a fatal error.
package kvstore

import "context"

// Store is a minimal string key/value store.
type Store interface {
	// Get returns the value for key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set inserts or overwrites key.
	Set(ctx context.Context, key, value string) error

	// Delete removes key; deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources.
	Close() error
}
