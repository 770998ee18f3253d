package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/portledger/internal/adapter/csvfile"
	httpAdapter "github.com/iho/portledger/internal/adapter/http"
	"github.com/iho/portledger/internal/adapter/http/handler"
	"github.com/iho/portledger/internal/adapter/http/middleware"
	"github.com/iho/portledger/internal/app"
	"github.com/iho/portledger/internal/infrastructure/config"
	"github.com/iho/portledger/internal/infrastructure/logger"
	"github.com/iho/portledger/internal/infrastructure/metrics"
)

const limiterCleanupInterval = 10 * time.Minute

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	a, err := app.Connect(ctx, cfg, m, log)
	if err != nil {
		return err
	}
	defer a.Close()

	limiter := newRateLimiter(cfg, m)
	if limiter != nil {
		go cleanupLimiters(ctx, limiter, limiterCleanupInterval)
	}

	router, err := buildRouter(a, cfg, routerDeps{
		Metrics:        m,
		MetricsHandler: promhttp.Handler(),
		RateLimiter:    limiter,
		Logger:         log,
	})
	if err != nil {
		return err
	}

	server := newServer(cfg, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

type routerDeps struct {
	Metrics        *metrics.Metrics
	MetricsHandler http.Handler
	RateLimiter    *middleware.RateLimiter
	Logger         zerolog.Logger
}

func buildRouter(a *app.App, cfg *config.Config, deps routerDeps) (http.Handler, error) {
	delimiter, err := csvfile.ParseDelimiter(cfg.ImportDelimiter)
	if err != nil {
		return nil, fmt.Errorf("IMPORT_DELIMITER: %w", err)
	}

	// A nil *pgxpool.Pool must not reach the Pinger interface.
	var db handler.Pinger
	if a.Pool != nil {
		db = a.Pool
	}

	return httpAdapter.NewRouter(httpAdapter.RouterConfig{
		ImportHandler:    handler.NewImportHandler(a.Imports, delimiter, cfg.HTTPMaxUploadBytes),
		PortfolioHandler: handler.NewPortfolioHandler(a.Portfolios),
		TxnHandler:       handler.NewTxnHandler(a.Txns),
		BatchHandler:     handler.NewBatchHandler(a.Imports),
		HealthHandler:    handler.NewHealthHandler(db, a.Redis),
		IdempotencyStore: a.Idempotency,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      deps.RateLimiter,
		Metrics:          deps.Metrics,
		MetricsHandler:   deps.MetricsHandler,
		Logger:           &deps.Logger,
	}), nil
}

// newRateLimiter returns nil when HTTP_RATE_LIMIT is not positive.
func newRateLimiter(cfg *config.Config, m *metrics.Metrics) *middleware.RateLimiter {
	if cfg.HTTPRateLimit <= 0 {
		return nil
	}

	limiter := middleware.NewRateLimiter(cfg.HTTPRateLimit, cfg.HTTPRateBurst)
	if m != nil {
		limiter = limiter.WithHitCounter(m.RateLimitHits)
	}
	return limiter
}

func cleanupLimiters(ctx context.Context, limiter *middleware.RateLimiter, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.CleanupLimiters()
		}
	}
}

func newServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           h,
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
	}
}
