// Package app wires repositories, caches and use cases together for the
// server and the CLI.
package app

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/portledger/internal/adapter/csvfile"
	postgresRepo "github.com/iho/portledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/portledger/internal/adapter/repository/redis"
	"github.com/iho/portledger/internal/infrastructure/config"
	"github.com/iho/portledger/internal/infrastructure/postgres"
	"github.com/iho/portledger/internal/infrastructure/redis"
	"github.com/iho/portledger/internal/usecase"
)

// Repositories is the storage the use cases run against.
type Repositories struct {
	TxManager  usecase.TransactionManager
	Batches    usecase.ImportBatchRepository
	Portfolios usecase.PortfolioRepository
	Txns       usecase.TxnRepository
	Positions  usecase.PositionRepository
	Sequences  usecase.SequenceRepository
}

// Options tune how use cases are built.
type Options struct {
	Cache             usecase.Cache         // optional
	Metrics           usecase.ImportMetrics // optional
	IDGen             usecase.IDGenerator   // defaults to ULID session ids
	Reader            usecase.DelimitedReader
	DefaultBaseCcy    string
	PortfolioCacheTTL time.Duration
	Clock             func() time.Time
	Logger            zerolog.Logger
}

// App holds the use cases and the connections backing them.
type App struct {
	Imports    *usecase.ImportUseCase
	Portfolios *usecase.PortfolioUseCase
	Txns       *usecase.TxnUseCase

	Pool        *pgxpool.Pool            // nil unless built by Connect
	Redis       *goredis.Client          // nil when the cache is disabled
	Idempotency usecase.IdempotencyStore // nil when the cache is disabled

	closers []func()
}

// NewWithRepositories builds the use cases on top of repos.
func NewWithRepositories(repos Repositories, opts Options) *App {
	if opts.IDGen == nil {
		opts.IDGen = postgresRepo.NewSessionIDGenerator()
	}
	if opts.Reader == nil {
		opts.Reader = csvfile.NewReader()
	}

	logger := opts.Logger

	portfolioUC := usecase.NewPortfolioUseCase(
		repos.TxManager,
		repos.Portfolios,
		repos.Positions,
		repos.Sequences,
		opts.Cache,
		logger,
	)
	portfolioUC.SetCacheTTL(opts.PortfolioCacheTTL)
	portfolioUC.SetDefaultBaseCcy(opts.DefaultBaseCcy)

	return &App{
		Imports: usecase.NewImportUseCase(usecase.ImportConfig{
			TxManager:      repos.TxManager,
			BatchRepo:      repos.Batches,
			PortfolioRepo:  repos.Portfolios,
			TxnRepo:        repos.Txns,
			Sequences:      repos.Sequences,
			IDGen:          opts.IDGen,
			Reader:         opts.Reader,
			Cache:          opts.Cache,
			Metrics:        opts.Metrics,
			Logger:         &logger,
			Clock:          opts.Clock,
			DefaultBaseCcy: opts.DefaultBaseCcy,
		}),
		Portfolios: portfolioUC,
		Txns:       usecase.NewTxnUseCase(repos.Txns, repos.Portfolios),
	}
}

// Connect opens the Postgres pool and, when configured, the Redis client,
// then builds the use cases on the Postgres repositories. DATABASE_TIMEOUT
// bounds the whole connect phase, retries included.
func Connect(ctx context.Context, cfg *config.Config, metrics usecase.ImportMetrics, logger zerolog.Logger) (*App, error) {
	if cfg.DatabaseTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DatabaseTimeout)
		defer cancel()
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectRetries: cfg.DatabaseConnectRetries,
		Logger:         &logger,
	})
	if err != nil {
		return nil, err
	}
	logger.Info().Msg("connected to postgres")

	closers := []func(){pool.Close}

	opts := Options{
		Metrics:           metrics,
		DefaultBaseCcy:    cfg.DefaultBaseCcy,
		PortfolioCacheTTL: cfg.PortfolioCacheTTL,
		Logger:            logger,
	}

	var redisClient *goredis.Client
	var idempotency usecase.IdempotencyStore
	if cfg.CacheEnabled() {
		redisClient, err = redis.NewClient(ctx, redis.Config{URL: cfg.RedisURL})
		if err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info().Msg("connected to redis")

		closers = append(closers, func() { redisClient.Close() })
		opts.Cache = redisRepo.NewCache(redisClient)
		idempotency = redisRepo.NewIdempotencyStore(redisClient)
	}

	a := NewWithRepositories(PostgresRepositories(pool, logger), opts)
	a.Pool = pool
	a.Redis = redisClient
	a.Idempotency = idempotency
	a.closers = closers

	return a, nil
}

// PostgresRepositories builds every repository on pool.
func PostgresRepositories(pool *pgxpool.Pool, logger zerolog.Logger) Repositories {
	retrier := postgresRepo.NewRetrier(logger)

	return Repositories{
		TxManager:  postgresRepo.NewTxManager(pool),
		Batches:    postgresRepo.NewImportBatchRepository(pool, retrier),
		Portfolios: postgresRepo.NewPortfolioRepository(pool, retrier),
		Txns:       postgresRepo.NewTxnRepository(pool, retrier),
		Positions:  postgresRepo.NewPositionRepository(pool, retrier),
		Sequences:  postgresRepo.NewSequenceRepository(),
	}
}

// Close releases connections in reverse order of opening.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
