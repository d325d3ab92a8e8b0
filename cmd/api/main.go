// Package main is the entrypoint for the Quillpad server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	"github.com/quillpad/quillpad/internal/cache"
	"github.com/quillpad/quillpad/internal/config"
	"github.com/quillpad/quillpad/internal/metrics"
	"github.com/quillpad/quillpad/internal/repository"
	"github.com/quillpad/quillpad/internal/repository/sqlite"
	"github.com/quillpad/quillpad/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize data store
	store, err := openStore(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to open data store",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to data store", slog.String("database_url", redactURL(cfg.DatabaseURL)))

	deps := server.Deps{
		Config:  cfg,
		Logger:  logger,
		Store:   store,
		Metrics: metrics.NewInMemory(),
	}

	// Redis is optional; it only backs write rate limiting.
	var cacheClient *cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			store.Close()
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			os.Exit(1)
		}
		logger.Info("connected to Redis")
		deps.Limiter = cacheClient
		deps.Cache = cacheClient
	} else {
		logger.Info("REDIS_URL not set, write rate limiting disabled")
	}

	r, err := server.NewRouter(deps)
	if err != nil {
		logger.Error("failed to build router", "error", err)
		os.Exit(1)
	}

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	srv.OnShutdown("store", func(ctx context.Context) error {
		store.Close()
		return nil
	})
	if cacheClient != nil {
		srv.OnShutdown("redis", func(ctx context.Context) error {
			return cacheClient.Close()
		})
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"rate_limiting", cfg.RateLimitingEnabled(),
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// openStore picks the SQLite adapter for sqlite: URLs and PostgreSQL otherwise.
func openStore(ctx context.Context, databaseURL string) (repository.Store, error) {
	if sqlite.IsURL(databaseURL) {
		return sqlite.Open(ctx, databaseURL)
	}
	return repository.New(ctx, databaseURL)
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s&]+`)

// redactURL drops the password from a connection URL. sqlite: paths carry
// no credentials and come back unchanged.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	if q := parsed.Query(); q.Has("password") {
		q.Set("password", "redacted")
		parsed.RawQuery = q.Encode()
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
