package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/iho/portledger/internal/infrastructure/postgres/generated"
	"github.com/iho/portledger/internal/usecase"
)

// SequenceRepository implements usecase.SequenceRepository on the id_sequence
// table. Each counter is advanced by a single UPDATE, so the row lock held
// until commit serializes writers.
type SequenceRepository struct{}

// NewSequenceRepository creates a new SequenceRepository.
func NewSequenceRepository() *SequenceRepository {
	return &SequenceRepository{}
}

// Next reserves n ids of the named sequence and returns the first one.
func (r *SequenceRepository) Next(ctx context.Context, tx usecase.Transaction, name string, n int64) (int64, error) {
	if n < 1 {
		return 0, fmt.Errorf("sequence %s: cannot reserve %d ids", name, n)
	}

	queries := generated.New(tx.(*Tx).PgxTx())

	last, err := queries.AdvanceSequence(ctx, generated.AdvanceSequenceParams{
		Name: name,
		N:    n,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("sequence %s: not found", name)
		}
		return 0, err
	}

	return last - n + 1, nil
}
