// Package config defines service configuration structures and loading.
package config

// Store backend names accepted by StoreBackend.
const (
	StoreBackendMemory   = "memory"
	StoreBackendFile     = "file"
	StoreBackendPostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StoreBackend selects the durable store: memory, file, or postgres.
	StoreBackend string `koanf:"store_backend"`

	// StoreDir is the data directory for the file backend.
	StoreDir string `koanf:"store_dir"`

	// PostgresDSN is the connection string for the postgres backend.
	PostgresDSN string `koanf:"postgres_dsn"`

	// SaveRetries bounds how often a conflicting collection save is retried.
	SaveRetries int `koanf:"save_retries"`

	// MissingCoordinatesPolicy controls the radius check when either
	// side lacks coordinates: match_anywhere or require_coordinates.
	MissingCoordinatesPolicy string `koanf:"missing_coordinates_policy"`

	// GeocodeBaseURL points at the geocoding endpoint. Empty disables
	// geocoding entirely.
	GeocodeBaseURL string `koanf:"geocode_base_url"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:                 "info",
		LogFormat:                "text",
		Addr:                     ":8090",
		StoreBackend:             "memory",
		StoreDir:                 "./data",
		SaveRetries:              3,
		MissingCoordinatesPolicy: "match_anywhere",
		GeocodeBaseURL:           "",
	}
}
