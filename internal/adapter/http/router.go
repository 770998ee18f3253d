package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/portledger/internal/adapter/http/handler"
	"github.com/iho/portledger/internal/adapter/http/middleware"
	"github.com/iho/portledger/internal/infrastructure/metrics"
	"github.com/iho/portledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	ImportHandler    *handler.ImportHandler
	PortfolioHandler *handler.PortfolioHandler
	TxnHandler       *handler.TxnHandler
	BatchHandler     *handler.BatchHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore // optional
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter // optional
	Metrics          *metrics.Metrics        // optional, also enables /metrics
	MetricsHandler   http.Handler            // defaults to promhttp.Handler()
	Logger           *zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(logger).Wrap)
	r.Use(middleware.NewRecoveryMiddleware(logger).Wrap)
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	if cfg.Metrics != nil {
		metricsHandler := cfg.MetricsHandler
		if metricsHandler == nil {
			metricsHandler = promhttp.Handler()
		}
		r.Handle("/metrics", metricsHandler)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Imports
		r.Route("/imports", func(r chi.Router) {
			r.Post("/file", cfg.ImportHandler.ImportFile)
			r.Post("/manual", cfg.ImportHandler.ImportManual)
		})

		// Portfolios
		r.Route("/portfolios", func(r chi.Router) {
			r.Post("/", cfg.PortfolioHandler.Create)
			r.Get("/", cfg.PortfolioHandler.List)
			r.Get("/{name}", cfg.PortfolioHandler.Get)
			r.Get("/{name}/positions", cfg.PortfolioHandler.Positions)
		})

		// Transactions
		r.Get("/transactions", cfg.TxnHandler.List)

		// Import batches
		r.Route("/batches", func(r chi.Router) {
			r.Get("/", cfg.BatchHandler.List)
			r.Get("/{id}", cfg.BatchHandler.Get)
		})
	})

	return r
}
