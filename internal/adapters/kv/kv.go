// Package kv defines the durable key-value blob store consumed by the
// record store, plus in-memory, file, and Postgres implementations.
package kv

import "context"

// Store is a keyed blob store. Each collection owns exactly one key
// and every write replaces the whole blob.
type Store interface {
	// Get returns the blob stored under key. The second result is
	// false when nothing is stored.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key, replacing any previous blob.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the blob under key. Deleting a missing key is a
	// no-op.
	Delete(ctx context.Context, key string) error
}
