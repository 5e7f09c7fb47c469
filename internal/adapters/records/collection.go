// Package records provides typed, versioned collection handles over
// the durable key-value store. Every collection is one JSON blob;
// every write replaces the whole collection.
package records

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gighive/gighive/internal/adapters/kv"
	"github.com/gighive/gighive/pkg/logger"
	"github.com/gighive/gighive/pkg/metrics"
)

// Version is a monotonic counter carried in the stored envelope. It
// lets Save detect that another writer moved the collection since the
// caller's Load.
type Version int64

// envelope is the on-disk shape of a collection.
type envelope struct {
	Version Version         `json:"version"`
	Items   json.RawMessage `json:"items"`
}

// Collection is a typed handle bound to one collection key.
type Collection[T any] struct {
	mu    sync.Mutex
	store kv.Store
	key   string
	log   logger.Logger
}

// NewCollection binds a typed handle to key on store.
func NewCollection[T any](store kv.Store, key string) *Collection[T] {
	return &Collection[T]{
		store: store,
		key:   key,
		log:   logger.Named("records"),
	}
}

// Key returns the collection key this handle owns.
func (c *Collection[T]) Key() string { return c.key }

// Load returns all records and the stored version. A missing blob
// yields an empty slice at version 0. A corrupt blob is absorbed the
// same way with a logged warning; it never surfaces as an error.
func (c *Collection[T]) Load(ctx context.Context) ([]T, Version, error) {
	start := time.Now()
	blob, found, err := c.store.Get(ctx, c.key)
	metrics.RecordStoreLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return nil, 0, fmt.Errorf("load %s: %w", c.key, err)
	}
	metrics.RecordStoreLoad(c.key)
	if !found {
		return []T{}, 0, nil
	}

	items, version, ok := c.decode(blob)
	if !ok {
		c.log.Warn(ctx, "corrupt collection payload, treating as empty",
			logger.String("collection", c.key),
			logger.Int("bytes", len(blob)))
		metrics.RecordStoreCorruptPayload(c.key)
		return []T{}, 0, nil
	}
	return items, version, nil
}

// decode parses an envelope, falling back to a legacy bare JSON array
// (treated as version 0).
func (c *Collection[T]) decode(blob []byte) ([]T, Version, bool) {
	var env envelope
	if err := json.Unmarshal(blob, &env); err == nil && env.Items != nil {
		var items []T
		if err := json.Unmarshal(env.Items, &items); err == nil {
			if items == nil {
				items = []T{}
			}
			return items, env.Version, true
		}
		return nil, 0, false
	}

	var items []T
	if err := json.Unmarshal(blob, &items); err == nil {
		if items == nil {
			items = []T{}
		}
		return items, 0, true
	}
	return nil, 0, false
}

// Save replaces the whole collection if the stored version still equals
// expected, bumping the version by one. A moved version yields
// ErrConflict; callers re-load and retry.
func (c *Collection[T]) Save(ctx context.Context, items []T, expected Version) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, current, err := c.Load(ctx)
	if err != nil {
		return err
	}
	if current != expected {
		metrics.RecordStoreConflict(c.key)
		return fmt.Errorf("save %s: stored version %d, expected %d: %w", c.key, current, expected, ErrConflict)
	}
	return c.write(ctx, items, current+1)
}

// SaveUnconditional replaces the whole collection regardless of the
// stored version. Used by one-shot maintenance routines.
func (c *Collection[T]) SaveUnconditional(ctx context.Context, items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, current, err := c.Load(ctx)
	if err != nil {
		return err
	}
	return c.write(ctx, items, current+1)
}

func (c *Collection[T]) write(ctx context.Context, items []T, next Version) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	blob, err := json.Marshal(envelope{Version: next, Items: raw})
	if err != nil {
		return fmt.Errorf("encode %s envelope: %w", c.key, err)
	}
	start := time.Now()
	err = c.store.Set(ctx, c.key, blob)
	metrics.RecordStoreLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return fmt.Errorf("save %s: %w", c.key, err)
	}
	metrics.RecordStoreSave(c.key)
	return nil
}

// Remove deletes the whole collection.
func (c *Collection[T]) Remove(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.Delete(ctx, c.key); err != nil {
		return fmt.Errorf("remove %s: %w", c.key, err)
	}
	return nil
}
