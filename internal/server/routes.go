package server

import (
	"fmt"
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/quillpad/quillpad/internal/config"
	"github.com/quillpad/quillpad/internal/handler"
	"github.com/quillpad/quillpad/internal/metrics"
	"github.com/quillpad/quillpad/internal/middleware"
	"github.com/quillpad/quillpad/internal/repository"
	"github.com/quillpad/quillpad/internal/web"
)

// Deps are the collaborators the router is assembled from.
type Deps struct {
	Config  *config.Config
	Logger  *slog.Logger
	Store   repository.Store
	Metrics *metrics.InMemoryRecorder

	// Limiter and Cache are nil when Redis is not configured.
	Limiter middleware.WriteLimiter
	Cache   handler.HealthChecker
}

// NewRouter configures the chi router with all routes and middleware.
func NewRouter(deps Deps) (*chi.Mux, error) {
	cfg := deps.Config
	logger := deps.Logger

	frontend, err := web.New(deps.Store, deps.Metrics, logger, cfg.MaxUploadSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	h := handler.New()
	healthHandler := handler.NewHealthHandler(deps.Store, deps.Cache)
	metricsHandler := handler.NewMetricsHandler(deps.Metrics)
	userHandler := handler.NewUserHandler(deps.Store, deps.Metrics, logger)
	articleHandler := handler.NewArticleHandler(deps.Store, deps.Metrics, logger)

	rateLimit := middleware.RateLimitWrites(middleware.RateLimitConfig{
		Logger:  logger,
		Limiter: deps.Limiter,
		Enabled: cfg.RateLimitWriteEnabled && deps.Limiter != nil,
		RPS:     cfg.RateLimitWriteRPS,
		Burst:   cfg.RateLimitWriteBurst,
	})

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment()}))
	r.Use(chimiddleware.Timeout(cfg.RequestTimeout))

	// Probes and metrics
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)

	// JSON API
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CORS(corsCfg))
		r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))
		r.Use(rateLimit)

		r.Get("/users", userHandler.List)
		r.Post("/user", userHandler.Create)
		r.Get("/user/{id}", userHandler.Get)
		r.Get("/user/{id}/avatar", userHandler.Avatar)

		r.Get("/articles", articleHandler.List)
		r.Post("/article", articleHandler.Create)
	})

	// HTML pages
	r.Get("/", frontend.Index)
	r.Get("/users", frontend.Users)
	r.Get("/articles", frontend.Articles)
	r.Get("/add_user", frontend.AddUserForm)
	r.With(rateLimit).Post("/add_user", frontend.AddUser)
	r.Handle("/static/*", web.Static())

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r, nil
}
