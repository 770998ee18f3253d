package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/portledger/internal/domain"
	"github.com/iho/portledger/internal/infrastructure/postgres/generated"
	"github.com/iho/portledger/internal/usecase"
)

// PortfolioRepository implements usecase.PortfolioRepository.
type PortfolioRepository struct {
	queries *generated.Queries
	retrier *Retrier
}

// NewPortfolioRepository creates a new PortfolioRepository.
func NewPortfolioRepository(pool *pgxpool.Pool, retrier *Retrier) *PortfolioRepository {
	return newPortfolioRepository(pool, retrier)
}

func newPortfolioRepository(db generated.DBTX, retrier *Retrier) *PortfolioRepository {
	return &PortfolioRepository{
		queries: generated.New(db),
		retrier: retrier,
	}
}

// Create inserts a new portfolio.
func (r *PortfolioRepository) Create(ctx context.Context, tx usecase.Transaction, portfolio *domain.Portfolio) error {
	queries := generated.New(tx.(*Tx).PgxTx())

	err := queries.CreatePortfolio(ctx, generated.CreatePortfolioParams{
		ID:        portfolio.ID,
		Name:      portfolio.Name,
		BaseCcy:   portfolio.BaseCcy,
		CreatedAt: timeToPgTimestamptz(portfolio.CreatedAt),
		UpdatedAt: timeToPgTimestamptz(portfolio.UpdatedAt),
	})
	if isUniqueViolation(err) {
		return domain.ErrPortfolioNameConflict
	}

	return err
}

// GetByID retrieves a portfolio by id.
func (r *PortfolioRepository) GetByID(ctx context.Context, id int64) (*domain.Portfolio, error) {
	var row generated.Portfolio
	err := r.retrier.Retry(ctx, func() error {
		var err error
		row, err = r.queries.GetPortfolioByID(ctx, id)
		return err
	})

	return toPortfolio(row, err)
}

// GetByName retrieves a portfolio by its unique name.
func (r *PortfolioRepository) GetByName(ctx context.Context, name string) (*domain.Portfolio, error) {
	var row generated.Portfolio
	err := r.retrier.Retry(ctx, func() error {
		var err error
		row, err = r.queries.GetPortfolioByName(ctx, name)
		return err
	})

	return toPortfolio(row, err)
}

// GetByNameTx retrieves a portfolio by name inside tx, locking the row.
func (r *PortfolioRepository) GetByNameTx(ctx context.Context, tx usecase.Transaction, name string) (*domain.Portfolio, error) {
	queries := generated.New(tx.(*Tx).PgxTx())

	row, err := queries.GetPortfolioByNameForUpdate(ctx, name)

	return toPortfolio(row, err)
}

// Touch sets updated_at.
func (r *PortfolioRepository) Touch(ctx context.Context, tx usecase.Transaction, id int64, updatedAt time.Time) error {
	queries := generated.New(tx.(*Tx).PgxTx())

	n, err := queries.TouchPortfolio(ctx, generated.TouchPortfolioParams{
		ID:        id,
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrPortfolioNotFound
	}

	return nil
}

// UpdateBaseCcy rewrites the base currency and updated_at.
func (r *PortfolioRepository) UpdateBaseCcy(ctx context.Context, tx usecase.Transaction, id int64, baseCcy string, updatedAt time.Time) error {
	queries := generated.New(tx.(*Tx).PgxTx())

	n, err := queries.UpdatePortfolioBaseCcy(ctx, generated.UpdatePortfolioBaseCcyParams{
		ID:        id,
		BaseCcy:   baseCcy,
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrPortfolioNotFound
	}

	return nil
}

// List lists portfolios ordered by name.
func (r *PortfolioRepository) List(ctx context.Context, limit int) ([]*domain.Portfolio, error) {
	var rows []generated.Portfolio
	err := r.retrier.Retry(ctx, func() error {
		var err error
		rows, err = r.queries.ListPortfolios(ctx, int32(limit))
		return err
	})
	if err != nil {
		return nil, err
	}

	portfolios := make([]*domain.Portfolio, 0, len(rows))
	for _, row := range rows {
		portfolios = append(portfolios, rowToPortfolio(row))
	}

	return portfolios, nil
}

func toPortfolio(row generated.Portfolio, err error) (*domain.Portfolio, error) {
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPortfolioNotFound
		}
		return nil, err
	}
	return rowToPortfolio(row), nil
}

func rowToPortfolio(row generated.Portfolio) *domain.Portfolio {
	return &domain.Portfolio{
		ID:        row.ID,
		Name:      row.Name,
		BaseCcy:   row.BaseCcy,
		CreatedAt: row.CreatedAt.Time.UTC(),
		UpdatedAt: row.UpdatedAt.Time.UTC(),
	}
}
