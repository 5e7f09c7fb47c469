package taxonomy

import "github.com/gighive/gighive/pkg/logger"

// Option applies a configuration option to the Catalog.
type Option func(*Catalog)

// WithLogger sets a custom logger for catalog construction warnings.
func WithLogger(log logger.Logger) Option {
	return func(c *Catalog) {
		if log != nil {
			c.log = log
		}
	}
}
