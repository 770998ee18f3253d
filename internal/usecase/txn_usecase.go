package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/iho/portledger/internal/domain"
)

// TxnUseCase handles read access to the transaction ledger.
type TxnUseCase struct {
	txnRepo       TxnRepository
	portfolioRepo PortfolioRepository
}

// NewTxnUseCase creates a new TxnUseCase.
func NewTxnUseCase(txnRepo TxnRepository, portfolioRepo PortfolioRepository) *TxnUseCase {
	return &TxnUseCase{
		txnRepo:       txnRepo,
		portfolioRepo: portfolioRepo,
	}
}

// ListTxnsInput represents input for listing transactions.
type ListTxnsInput struct {
	Day           *time.Time
	PortfolioName string
	Type          string
	AssetID       string
	Limit         int
}

// ListTransactions lists transactions matching every filter that is set.
func (uc *TxnUseCase) ListTransactions(ctx context.Context, input ListTxnsInput) ([]*domain.Txn, error) {
	filter := domain.TxnFilter{
		Type:    domain.TxnType(strings.ToLower(strings.TrimSpace(input.Type))),
		AssetID: strings.ToUpper(strings.TrimSpace(input.AssetID)),
		Limit:   domain.ValidatePagination(input.Limit),
	}

	if input.Day != nil {
		day := time.Date(input.Day.Year(), input.Day.Month(), input.Day.Day(), 0, 0, 0, 0, time.UTC)
		filter.Day = &day
	}

	if name := strings.TrimSpace(input.PortfolioName); name != "" {
		portfolio, err := uc.portfolioRepo.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		filter.PortfolioID = portfolio.ID
	}

	return uc.txnRepo.List(ctx, filter)
}
