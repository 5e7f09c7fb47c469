package app

import (
	"github.com/gighive/gighive/internal/adapters/geocode"
	"github.com/gighive/gighive/internal/adapters/kv"
	"github.com/gighive/gighive/internal/domain/matching"
	"github.com/gighive/gighive/internal/domain/taxonomy"
	"github.com/gighive/gighive/pkg/logger"
)

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithStore sets the backing key-value store.
func WithStore(store kv.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithCatalog replaces the default taxonomy catalog.
func WithCatalog(catalog *taxonomy.Catalog) Option {
	return func(s *Service) {
		if catalog != nil {
			s.catalog = catalog
		}
	}
}

// WithMissingCoordinatesPolicy sets how the matcher treats pairings
// where either side lacks coordinates.
func WithMissingCoordinatesPolicy(policy matching.MissingCoordinatesPolicy) Option {
	return func(s *Service) {
		s.coordPolicy = policy
	}
}

// WithGeocoder sets the forward/reverse geocoding adapter.
func WithGeocoder(g geocode.Adapter) Option {
	return func(s *Service) {
		if g != nil {
			s.geocoder = g
		}
	}
}

// WithSaveRetries sets how many times conflicted saves are retried.
func WithSaveRetries(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.saveRetries = n
		}
	}
}
