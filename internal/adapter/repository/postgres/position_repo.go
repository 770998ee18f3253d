package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/portledger/internal/domain"
	"github.com/iho/portledger/internal/infrastructure/postgres/generated"
)

// PositionRepository implements usecase.PositionRepository over v_position_qty.
type PositionRepository struct {
	queries *generated.Queries
	retrier *Retrier
}

// NewPositionRepository creates a new PositionRepository.
func NewPositionRepository(pool *pgxpool.Pool, retrier *Retrier) *PositionRepository {
	return newPositionRepository(pool, retrier)
}

func newPositionRepository(db generated.DBTX, retrier *Retrier) *PositionRepository {
	return &PositionRepository{
		queries: generated.New(db),
		retrier: retrier,
	}
}

// ListByPortfolio returns the non-zero positions of a portfolio ordered by asset.
func (r *PositionRepository) ListByPortfolio(ctx context.Context, portfolioID int64) ([]*domain.Position, error) {
	var rows []generated.VPositionQty
	err := r.retrier.Retry(ctx, func() error {
		var err error
		rows, err = r.queries.ListPositionsByPortfolio(ctx, portfolioID)
		return err
	})
	if err != nil {
		return nil, err
	}

	positions := make([]*domain.Position, 0, len(rows))
	for _, row := range rows {
		positions = append(positions, &domain.Position{
			PortfolioID: row.PortfolioID,
			AssetID:     row.AssetID.String,
			Qty:         numericToDecimal(row.Quantity),
		})
	}

	return positions, nil
}
