package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/portledger/internal/domain"
	"github.com/iho/portledger/internal/usecase"
	"github.com/iho/portledger/internal/usecase/mocks"
)

func TestTxnUseCase_ListTransactions_Filters(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	txnRepo := mocks.NewMockTxnRepository(ctrl)
	portfolioRepo := mocks.NewMockPortfolioRepository(ctrl)

	day := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)

	portfolioRepo.EXPECT().GetByName(gomock.Any(), "rrsp").Return(&domain.Portfolio{ID: 3, Name: "rrsp"}, nil)
	txnRepo.EXPECT().List(gomock.Any(), domain.TxnFilter{
		Day:         &day,
		PortfolioID: 3,
		Type:        domain.TxnTypeBuy,
		AssetID:     "BN.TO",
		Limit:       50,
	}).Return([]*domain.Txn{{ID: 1}}, nil)

	uc := usecase.NewTxnUseCase(txnRepo, portfolioRepo)

	in := time.Date(2024, 5, 31, 18, 45, 0, 0, time.UTC)
	txns, err := uc.ListTransactions(context.Background(), usecase.ListTxnsInput{
		PortfolioName: " rrsp ",
		Type:          "BUY",
		AssetID:       "bn.to",
		Day:           &in,
	})

	require.NoError(t, err)
	assert.Len(t, txns, 1)
}

func TestTxnUseCase_ListTransactions_UnknownPortfolio(t *testing.T) {
	ledger := mocks.NewInMemoryLedger()
	uc := usecase.NewTxnUseCase(ledger.Txns, ledger.Portfolios)

	_, err := uc.ListTransactions(context.Background(), usecase.ListTxnsInput{PortfolioName: "nope"})

	assert.ErrorIs(t, err, domain.ErrPortfolioNotFound)
}

func TestTxnUseCase_ListTransactions_AfterImport(t *testing.T) {
	f := newImportFixture(t)

	_, err := f.importRows(t, buyRow("a"), contributionRow("a"), buyRow("b"))
	require.NoError(t, err)

	uc := usecase.NewTxnUseCase(f.ledger.Txns, f.ledger.Portfolios)

	all, err := uc.ListTransactions(context.Background(), usecase.ListTxnsInput{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	buys, err := uc.ListTransactions(context.Background(), usecase.ListTxnsInput{PortfolioName: "a", Type: "buy"})
	require.NoError(t, err)
	require.Len(t, buys, 1)
	assert.Equal(t, int64(1), buys[0].ID)
}
