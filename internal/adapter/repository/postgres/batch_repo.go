package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/portledger/internal/domain"
	"github.com/iho/portledger/internal/infrastructure/postgres/generated"
	"github.com/iho/portledger/internal/usecase"
)

// ImportBatchRepository implements usecase.ImportBatchRepository.
type ImportBatchRepository struct {
	queries *generated.Queries
	retrier *Retrier
}

// NewImportBatchRepository creates a new ImportBatchRepository.
func NewImportBatchRepository(pool *pgxpool.Pool, retrier *Retrier) *ImportBatchRepository {
	return newImportBatchRepository(pool, retrier)
}

func newImportBatchRepository(db generated.DBTX, retrier *Retrier) *ImportBatchRepository {
	return &ImportBatchRepository{
		queries: generated.New(db),
		retrier: retrier,
	}
}

// Create inserts the batch row inside tx.
func (r *ImportBatchRepository) Create(ctx context.Context, tx usecase.Transaction, batch *domain.ImportBatch) error {
	queries := generated.New(tx.(*Tx).PgxTx())

	return queries.CreateImportBatch(ctx, generated.CreateImportBatchParams{
		ID:         batch.ID,
		BatchType:  string(batch.Type),
		ImportTime: timeToPgTimestamptz(batch.ImportTime),
	})
}

// Delete removes a batch row. It runs outside any transaction so that it
// still applies after the import transaction was rolled back.
func (r *ImportBatchRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.queries.DeleteImportBatch(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrImportBatchNotFound
	}
	return nil
}

// GetByID retrieves a batch by id.
func (r *ImportBatchRepository) GetByID(ctx context.Context, id int64) (*domain.ImportBatch, error) {
	var row generated.ImportBatch
	err := r.retrier.Retry(ctx, func() error {
		var err error
		row, err = r.queries.GetImportBatchByID(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrImportBatchNotFound
		}
		return nil, err
	}

	return rowToImportBatch(row), nil
}

// List lists the most recent batches first.
func (r *ImportBatchRepository) List(ctx context.Context, limit int) ([]*domain.ImportBatch, error) {
	var rows []generated.ImportBatch
	err := r.retrier.Retry(ctx, func() error {
		var err error
		rows, err = r.queries.ListImportBatches(ctx, int32(limit))
		return err
	})
	if err != nil {
		return nil, err
	}

	batches := make([]*domain.ImportBatch, 0, len(rows))
	for _, row := range rows {
		batches = append(batches, rowToImportBatch(row))
	}

	return batches, nil
}

func rowToImportBatch(row generated.ImportBatch) *domain.ImportBatch {
	return &domain.ImportBatch{
		ID:         row.ID,
		Type:       domain.BatchType(row.BatchType),
		ImportTime: row.ImportTime.Time.UTC(),
	}
}
