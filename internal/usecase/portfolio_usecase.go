package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/portledger/internal/domain"
)

// PortfolioUseCase handles portfolio registry operations outside of imports.
type PortfolioUseCase struct {
	txManager     TransactionManager
	portfolioRepo PortfolioRepository
	positionRepo  PositionRepository
	sequences     SequenceRepository
	cache         Cache
	cacheTTL      time.Duration
	baseCcy       string
	logger        zerolog.Logger
}

// NewPortfolioUseCase creates a new PortfolioUseCase. cache may be nil.
func NewPortfolioUseCase(
	txManager TransactionManager,
	portfolioRepo PortfolioRepository,
	positionRepo PositionRepository,
	sequences SequenceRepository,
	cache Cache,
	logger zerolog.Logger,
) *PortfolioUseCase {
	return &PortfolioUseCase{
		txManager:     txManager,
		portfolioRepo: portfolioRepo,
		positionRepo:  positionRepo,
		sequences:     sequences,
		cache:         cache,
		cacheTTL:      PortfolioCacheTTL,
		baseCcy:       domain.DefaultBaseCcy,
		logger:        logger,
	}
}

// SetCacheTTL overrides how long portfolio lookups stay cached.
func (uc *PortfolioUseCase) SetCacheTTL(ttl time.Duration) {
	if ttl > 0 {
		uc.cacheTTL = ttl
	}
}

// SetDefaultBaseCcy sets the base currency given to portfolios created without one.
func (uc *PortfolioUseCase) SetDefaultBaseCcy(ccy string) {
	if ccy = domain.NormalizeCurrency(ccy); ccy != "" {
		uc.baseCcy = ccy
	}
}

// CreatePortfolioInput represents input for creating a portfolio.
type CreatePortfolioInput struct {
	Name    string
	BaseCcy string
}

// CreatePortfolio upserts a portfolio by name. An existing portfolio keeps its
// id and created_at and only has its base currency rewritten.
func (uc *PortfolioUseCase) CreatePortfolio(ctx context.Context, input CreatePortfolioInput) (*domain.Portfolio, bool, error) {
	name := strings.TrimSpace(input.Name)
	if err := domain.ValidatePortfolioName(name); err != nil {
		return nil, false, err
	}

	baseCcy := domain.NormalizeCurrency(input.BaseCcy)
	if baseCcy == "" {
		baseCcy = uc.baseCcy
	}
	if !domain.IsCurrencyCode(baseCcy) {
		return nil, false, fmt.Errorf("%w: %q", domain.ErrInvalidCurrency, input.BaseCcy)
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC().Truncate(time.Microsecond)

	var (
		portfolio *domain.Portfolio
		created   bool
	)

	existing, err := uc.portfolioRepo.GetByNameTx(ctx, tx, name)
	switch {
	case err == nil:
		if err := uc.portfolioRepo.UpdateBaseCcy(ctx, tx, existing.ID, baseCcy, now); err != nil {
			return nil, false, err
		}
		existing.BaseCcy = baseCcy
		existing.UpdatedAt = now
		portfolio = existing

	case errors.Is(err, domain.ErrPortfolioNotFound):
		id, err := uc.sequences.Next(ctx, tx, SequencePortfolio, 1)
		if err != nil {
			return nil, false, fmt.Errorf("next portfolio id: %w", err)
		}
		portfolio = &domain.Portfolio{
			ID:        id,
			Name:      name,
			BaseCcy:   baseCcy,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := uc.portfolioRepo.Create(ctx, tx, portfolio); err != nil {
			return nil, false, err
		}
		created = true

	default:
		return nil, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, err
	}

	uc.forget(ctx, name)

	return portfolio, created, nil
}

// GetPortfolio retrieves a portfolio by name, consulting the cache first.
func (uc *PortfolioUseCase) GetPortfolio(ctx context.Context, name string) (*domain.Portfolio, error) {
	name = strings.TrimSpace(name)

	if uc.cache != nil {
		if data, err := uc.cache.Get(ctx, portfolioCacheKey(name)); err == nil && data != nil {
			var p domain.Portfolio
			if err := json.Unmarshal(data, &p); err == nil {
				return &p, nil
			}
		}
	}

	portfolio, err := uc.portfolioRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if data, err := json.Marshal(portfolio); err == nil {
			if err := uc.cache.Set(ctx, portfolioCacheKey(name), data, uc.cacheTTL); err != nil {
				uc.logger.Warn().Err(err).Str("portfolio", name).Msg("failed to cache portfolio")
			}
		}
	}

	return portfolio, nil
}

// GetPortfolioByID retrieves a portfolio by id.
func (uc *PortfolioUseCase) GetPortfolioByID(ctx context.Context, id int64) (*domain.Portfolio, error) {
	return uc.portfolioRepo.GetByID(ctx, id)
}

// ListPortfolios lists portfolios ordered by name.
func (uc *PortfolioUseCase) ListPortfolios(ctx context.Context, limit int) ([]*domain.Portfolio, error) {
	return uc.portfolioRepo.List(ctx, domain.ValidatePagination(limit))
}

// ListPositions lists the net asset quantities held by the named portfolio.
func (uc *PortfolioUseCase) ListPositions(ctx context.Context, name string) ([]*domain.Position, error) {
	portfolio, err := uc.GetPortfolio(ctx, name)
	if err != nil {
		return nil, err
	}
	return uc.positionRepo.ListByPortfolio(ctx, portfolio.ID)
}

func (uc *PortfolioUseCase) forget(ctx context.Context, name string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Delete(ctx, portfolioCacheKey(name)); err != nil {
		uc.logger.Warn().Err(err).Str("portfolio", name).Msg("failed to invalidate cached portfolio")
	}
}
