package repository

import (
	"time"

	"github.com/gighive/gighive/pkg/logger"
)

// Default retry configuration for versioned saves.
const defaultSaveRetries = 3

// options holds configuration shared by both repositories.
type options struct {
	log         logger.Logger
	now         func() time.Time
	newID       func() string
	saveRetries int
}

// Option applies a configuration option to a repository.
type Option func(*options)

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithClock sets the time source used for created/responded stamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithIDGenerator sets the id source for new records.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) {
		if newID != nil {
			o.newID = newID
		}
	}
}

// WithSaveRetries sets how often a conflicting save is retried.
func WithSaveRetries(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.saveRetries = n
		}
	}
}
