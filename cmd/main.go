package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/gighive/gighive/internal/adapters/geocode"
	"github.com/gighive/gighive/internal/adapters/http/api"
	"github.com/gighive/gighive/internal/adapters/kv"
	"github.com/gighive/gighive/internal/app"
	"github.com/gighive/gighive/internal/config"
	"github.com/gighive/gighive/internal/domain/matching"
	"github.com/gighive/gighive/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// A local .env is optional; real deployments set the environment.
	_ = godotenv.Load()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogFormat); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	store, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		log.Error(ctx, "failed to open store", logger.Error(err))
		os.Exit(1)
	}
	defer cleanup()

	policy := matching.ParseMissingCoordinatesPolicy(cfg.MissingCoordinatesPolicy)

	opts := []app.Option{
		app.WithLogger(log),
		app.WithStore(store),
		app.WithMissingCoordinatesPolicy(policy),
		app.WithSaveRetries(cfg.SaveRetries),
	}
	if cfg.GeocodeBaseURL != "" {
		opts = append(opts, app.WithGeocoder(
			geocode.NewClient(geocode.WithBaseURL(cfg.GeocodeBaseURL))))
	}
	svc := app.New(opts...)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	apiServer := api.NewServer(svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("store_backend", cfg.StoreBackend))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// openStore builds the configured key-value backend. The returned
// cleanup is safe to call even when it is a no-op.
func openStore(ctx context.Context, cfg *config.Config) (kv.Store, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreBackendMemory:
		return kv.NewMemoryStore(), func() {}, nil
	case config.StoreBackendFile:
		store, err := kv.NewFileStore(cfg.StoreDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open file store: %w", err)
		}
		return store, func() {}, nil
	case config.StoreBackendPostgres:
		store, err := kv.NewPostgresStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres store: %w", err)
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
