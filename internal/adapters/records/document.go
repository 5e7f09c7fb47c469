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

// Document is a typed handle for keys holding a single JSON document
// (an object or a map) rather than a record sequence, such as the user
// directory and the worker profile.
type Document[T any] struct {
	mu    sync.Mutex
	store kv.Store
	key   string
	log   logger.Logger
}

// NewDocument binds a typed document handle to key on store.
func NewDocument[T any](store kv.Store, key string) *Document[T] {
	return &Document[T]{
		store: store,
		key:   key,
		log:   logger.Named("records"),
	}
}

// Key returns the document key this handle owns.
func (d *Document[T]) Key() string { return d.key }

// Load returns the stored document. found is false for a missing key.
// Corrupt payloads are absorbed as missing with a logged warning.
func (d *Document[T]) Load(ctx context.Context) (T, bool, error) {
	var zero T
	start := time.Now()
	blob, found, err := d.store.Get(ctx, d.key)
	metrics.RecordStoreLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return zero, false, fmt.Errorf("load %s: %w", d.key, err)
	}
	metrics.RecordStoreLoad(d.key)
	if !found {
		return zero, false, nil
	}

	var doc T
	if err := json.Unmarshal(blob, &doc); err != nil {
		d.log.Warn(ctx, "corrupt document payload, treating as missing",
			logger.String("collection", d.key),
			logger.Int("bytes", len(blob)))
		metrics.RecordStoreCorruptPayload(d.key)
		return zero, false, nil
	}
	return doc, true, nil
}

// Save replaces the stored document.
func (d *Document[T]) Save(ctx context.Context, doc T) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	blob, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", d.key, err)
	}
	start := time.Now()
	err = d.store.Set(ctx, d.key, blob)
	metrics.RecordStoreLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return fmt.Errorf("save %s: %w", d.key, err)
	}
	metrics.RecordStoreSave(d.key)
	return nil
}
