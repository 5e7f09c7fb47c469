package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if GIGHIVE_CONFIG is set
//  3. env (prefix GIGHIVE_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("GIGHIVE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: GIGHIVE_ADDR, GIGHIVE_STORE_BACKEND, ...
	// Keys map to the flat koanf tags on the struct; underscores are
	// preserved.
	envProvider := env.Provider("GIGHIVE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "gighive_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch cfg.StoreBackend {
	case StoreBackendMemory, StoreBackendFile, StoreBackendPostgres:
	default:
		return fmt.Errorf("%w: unknown store_backend %q", ErrInvalidConfig, cfg.StoreBackend)
	}
	if cfg.StoreBackend == StoreBackendFile && cfg.StoreDir == "" {
		return fmt.Errorf("%w: store_dir required for file backend", ErrInvalidConfig)
	}
	if cfg.StoreBackend == StoreBackendPostgres && cfg.PostgresDSN == "" {
		return fmt.Errorf("%w: postgres_dsn required for postgres backend", ErrInvalidConfig)
	}
	switch cfg.MissingCoordinatesPolicy {
	case "match_anywhere", "require_coordinates":
	default:
		return fmt.Errorf("%w: unknown missing_coordinates_policy %q", ErrInvalidConfig, cfg.MissingCoordinatesPolicy)
	}
	return nil
}
