package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/gighive/gighive/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func clearConfigEnvVars() {
	for _, key := range []string{
		"GIGHIVE_CONFIG",
		"GIGHIVE_ADDR",
		"GIGHIVE_LOG_LEVEL",
		"GIGHIVE_LOG_FORMAT",
		"GIGHIVE_STORE_BACKEND",
		"GIGHIVE_STORE_DIR",
		"GIGHIVE_POSTGRES_DSN",
		"GIGHIVE_SAVE_RETRIES",
		"GIGHIVE_MISSING_COORDINATES_POLICY",
		"GIGHIVE_GEOCODE_BASE_URL",
	} {
		_ = os.Unsetenv(key)
	}
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg, convey.ShouldNotBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":8090")
			convey.So(cfg.StoreBackend, convey.ShouldEqual, "memory")
			convey.So(cfg.SaveRetries, convey.ShouldEqual, 3)
			convey.So(cfg.MissingCoordinatesPolicy, convey.ShouldEqual, "match_anywhere")
		})

		convey.Convey("When loading config with environment variables", func() {
			clearConfigEnvVars()
			_ = os.Setenv("GIGHIVE_ADDR", ":8080")
			_ = os.Setenv("GIGHIVE_STORE_BACKEND", "file")
			_ = os.Setenv("GIGHIVE_STORE_DIR", "/tmp/gighive-test")
			_ = os.Setenv("GIGHIVE_MISSING_COORDINATES_POLICY", "require_coordinates")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.StoreBackend, convey.ShouldEqual, "file")
			convey.So(cfg.StoreDir, convey.ShouldEqual, "/tmp/gighive-test")
			convey.So(cfg.MissingCoordinatesPolicy, convey.ShouldEqual, "require_coordinates")
		})

		convey.Convey("When the store backend is unknown", func() {
			clearConfigEnvVars()
			_ = os.Setenv("GIGHIVE_STORE_BACKEND", "cassette")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the postgres backend lacks a DSN", func() {
			clearConfigEnvVars()
			_ = os.Setenv("GIGHIVE_STORE_BACKEND", "postgres")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the coordinates policy is unknown", func() {
			clearConfigEnvVars()
			_ = os.Setenv("GIGHIVE_MISSING_COORDINATES_POLICY", "teleport")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When loading from a YAML file", func() {
			clearConfigEnvVars()
			f, err := os.CreateTemp(t.TempDir(), "config-*.yaml")
			convey.So(err, convey.ShouldBeNil)
			_, err = f.WriteString("addr: \":7070\"\nlog_level: debug\n")
			convey.So(err, convey.ShouldBeNil)
			convey.So(f.Close(), convey.ShouldBeNil)

			_ = os.Setenv("GIGHIVE_CONFIG", f.Name())
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
		})
	})
}
