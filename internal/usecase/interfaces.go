package usecase

import (
	"context"
	"io"
	"time"

	"github.com/iho/portledger/internal/domain"
)

// ImportBatchRepository defines data access for the import batch registry.
type ImportBatchRepository interface {
	Create(ctx context.Context, tx Transaction, batch *domain.ImportBatch) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.ImportBatch, error)
	List(ctx context.Context, limit int) ([]*domain.ImportBatch, error)
}

// PortfolioRepository defines data access for the portfolio registry.
type PortfolioRepository interface {
	Create(ctx context.Context, tx Transaction, portfolio *domain.Portfolio) error
	GetByID(ctx context.Context, id int64) (*domain.Portfolio, error)
	GetByName(ctx context.Context, name string) (*domain.Portfolio, error)
	GetByNameTx(ctx context.Context, tx Transaction, name string) (*domain.Portfolio, error)
	Touch(ctx context.Context, tx Transaction, id int64, updatedAt time.Time) error
	UpdateBaseCcy(ctx context.Context, tx Transaction, id int64, baseCcy string, updatedAt time.Time) error
	List(ctx context.Context, limit int) ([]*domain.Portfolio, error)
}

// TxnRepository defines data access for the append-only transaction table.
type TxnRepository interface {
	// InsertBatch appends txns and returns the number of rows written.
	InsertBatch(ctx context.Context, tx Transaction, txns []*domain.Txn) (int64, error)
	List(ctx context.Context, filter domain.TxnFilter) ([]*domain.Txn, error)
	CountByBatch(ctx context.Context, batchID int64) (int64, error)
}

// PositionRepository reads the position reporting view.
type PositionRepository interface {
	ListByPortfolio(ctx context.Context, portfolioID int64) ([]*domain.Position, error)
}

// SequenceRepository hands out per-table sequential ids.
type SequenceRepository interface {
	// Next reserves n consecutive ids of the named sequence and returns the first one.
	Next(ctx context.Context, tx Transaction, name string, n int64) (int64, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// DelimitedReader turns a delimited stream into a header and raw rows keyed by column name.
type DelimitedReader interface {
	Read(r io.Reader, delimiter rune) (header []string, rows []map[string]string, err error)
}

// ImportMetrics records import pipeline outcomes.
type ImportMetrics interface {
	ObserveCommitted(batchType domain.BatchType, rows int64, created int, duration time.Duration)
	ObserveAborted(batchType domain.BatchType, reason string)
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
