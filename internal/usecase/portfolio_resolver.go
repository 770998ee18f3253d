package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iho/portledger/internal/domain"
)

// PortfolioResolver finds or creates a portfolio by name inside an import.
type PortfolioResolver struct {
	portfolioRepo  PortfolioRepository
	sequences      SequenceRepository
	defaultBaseCcy string
}

// NewPortfolioResolver creates a new PortfolioResolver.
func NewPortfolioResolver(portfolioRepo PortfolioRepository, sequences SequenceRepository, defaultBaseCcy string) *PortfolioResolver {
	if defaultBaseCcy == "" {
		defaultBaseCcy = domain.DefaultBaseCcy
	}

	return &PortfolioResolver{
		portfolioRepo:  portfolioRepo,
		sequences:      sequences,
		defaultBaseCcy: domain.NormalizeCurrency(defaultBaseCcy),
	}
}

// Resolve returns the id for name, creating the portfolio when it does not
// exist yet. Either way the portfolio's updated_at becomes importTime.
func (r *PortfolioResolver) Resolve(ctx context.Context, tx Transaction, name string, batchID int64, importTime time.Time) (domain.PortfolioImportOutcome, error) {
	outcome := domain.PortfolioImportOutcome{
		PortfolioName: name,
		BatchID:       batchID,
	}

	existing, err := r.portfolioRepo.GetByNameTx(ctx, tx, name)
	switch {
	case err == nil:
		if err := r.portfolioRepo.Touch(ctx, tx, existing.ID, importTime); err != nil {
			return outcome, fmt.Errorf("touch portfolio %q: %w", name, err)
		}
		outcome.PortfolioID = existing.ID
		return outcome, nil

	case errors.Is(err, domain.ErrPortfolioNotFound):
		id, err := r.sequences.Next(ctx, tx, SequencePortfolio, 1)
		if err != nil {
			return outcome, fmt.Errorf("next portfolio id: %w", err)
		}

		portfolio := &domain.Portfolio{
			ID:        id,
			Name:      name,
			BaseCcy:   r.defaultBaseCcy,
			CreatedAt: importTime,
			UpdatedAt: importTime,
		}
		if err := r.portfolioRepo.Create(ctx, tx, portfolio); err != nil {
			return outcome, fmt.Errorf("create portfolio %q: %w", name, err)
		}

		outcome.PortfolioID = id
		outcome.Created = true
		return outcome, nil

	default:
		return outcome, fmt.Errorf("lookup portfolio %q: %w", name, err)
	}
}
