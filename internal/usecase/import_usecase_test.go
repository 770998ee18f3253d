package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/portledger/internal/domain"
	"github.com/iho/portledger/internal/usecase"
	"github.com/iho/portledger/internal/usecase/mocks"
)

var fileHeader = []string{"portfolio_name", "time_stamp", "txn_type", "asset_id", "qty", "price", "ccy", "cash_amt", "fee_amt"}

type importFixture struct {
	ledger *mocks.InMemoryLedger
	cache  *mocks.InMemoryCache
	reader *mocks.StaticReader
	uc     *usecase.ImportUseCase
	now    time.Time
}

func newImportFixture(t *testing.T) *importFixture {
	t.Helper()

	f := &importFixture{
		ledger: mocks.NewInMemoryLedger(),
		cache:  mocks.NewInMemoryCache(),
		reader: &mocks.StaticReader{Header: fileHeader},
		now:    time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	f.uc = f.build(nil)
	return f
}

func (f *importFixture) build(metrics usecase.ImportMetrics) *usecase.ImportUseCase {
	logger := zerolog.Nop()
	return usecase.NewImportUseCase(usecase.ImportConfig{
		TxManager:     f.ledger,
		BatchRepo:     f.ledger.Batches,
		PortfolioRepo: f.ledger.Portfolios,
		TxnRepo:       f.ledger.Txns,
		Sequences:     f.ledger.Sequences,
		IDGen:         &mocks.CountingIDGenerator{},
		Reader:        f.reader,
		Cache:         f.cache,
		Metrics:       metrics,
		Logger:        &logger,
		Clock:         func() time.Time { return f.now },
	})
}

func (f *importFixture) importRows(t *testing.T, rows ...map[string]string) (*domain.ImportSummary, error) {
	t.Helper()
	f.reader.Rows = rows
	return f.uc.ImportStream(context.Background(), "upload.csv", strings.NewReader(""), ',')
}

func buyRow(portfolio string) map[string]string {
	return map[string]string{
		"portfolio_name": portfolio,
		"time_stamp":     "2024-05-31 15:30:00",
		"txn_type":       "buy",
		"asset_id":       "BN.TO",
		"qty":            "10",
		"price":          "63.57",
		"ccy":            "CAD",
	}
}

func contributionRow(portfolio string) map[string]string {
	return map[string]string{
		"portfolio_name": portfolio,
		"time_stamp":     "2024-05-31 09:00:00",
		"txn_type":       "contribution",
		"ccy":            "CAD",
		"cash_amt":       "500",
	}
}

func TestImportUseCase_NewPortfolioFile(t *testing.T) {
	f := newImportFixture(t)

	summary, err := f.importRows(t, buyRow("test 1"), contributionRow("test 1"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), summary.BatchID)
	assert.Equal(t, domain.BatchTypeCSV, summary.BatchType)
	assert.Equal(t, int64(2), summary.InsertedRowCount)
	assert.Equal(t, []domain.PortfolioImportOutcome{
		{PortfolioName: "test 1", PortfolioID: 1, BatchID: 1, Created: true},
	}, summary.PortfoliosAffected)

	portfolios := f.ledger.PortfolioList()
	require.Len(t, portfolios, 1)
	assert.Equal(t, "test 1", portfolios[0].Name)
	assert.Equal(t, domain.DefaultBaseCcy, portfolios[0].BaseCcy)
	assert.True(t, portfolios[0].CreatedAt.Equal(f.now))
	assert.True(t, portfolios[0].UpdatedAt.Equal(f.now))

	txns := f.ledger.TxnList()
	require.Len(t, txns, 2)
	assert.Equal(t, int64(1), txns[0].ID)
	assert.Equal(t, int64(2), txns[1].ID)
	for _, txn := range txns {
		assert.Equal(t, int64(1), txn.BatchID)
		assert.Equal(t, int64(1), txn.PortfolioID)
	}
	require.NotNil(t, txns[0].Price)
	assert.True(t, txns[0].Price.Equal(decimal.RequireFromString("63.57")))
	assert.Nil(t, txns[1].AssetID)

	batches := f.ledger.BatchList()
	require.Len(t, batches, 1)
	assert.True(t, batches[0].ImportTime.Equal(f.now))
}

func TestImportUseCase_ExistingPortfolio(t *testing.T) {
	f := newImportFixture(t)

	_, err := f.importRows(t, buyRow("test 1"))
	require.NoError(t, err)
	created := f.now

	f.now = f.now.Add(time.Hour)
	summary, err := f.importRows(t, contributionRow("test 1"))
	require.NoError(t, err)

	assert.Equal(t, int64(2), summary.BatchID)
	require.Len(t, summary.PortfoliosAffected, 1)
	assert.False(t, summary.PortfoliosAffected[0].Created)
	assert.Equal(t, int64(1), summary.PortfoliosAffected[0].PortfolioID)

	portfolios := f.ledger.PortfolioList()
	require.Len(t, portfolios, 1)
	assert.True(t, portfolios[0].CreatedAt.Equal(created))
	assert.True(t, portfolios[0].UpdatedAt.Equal(f.now))

	txns := f.ledger.TxnList()
	require.Len(t, txns, 2)
	assert.Equal(t, int64(2), txns[1].ID)
}

func TestImportUseCase_ValidationAborts(t *testing.T) {
	tests := []struct {
		name  string
		row   map[string]string
		check domain.CheckID
	}{
		{
			name: "qty not a number",
			row: func() map[string]string {
				r := buyRow("test 1")
				r["qty"] = "not-a-number"
				return r
			}(),
			check: domain.CheckQty,
		},
		{
			name: "two letter currency",
			row: func() map[string]string {
				r := contributionRow("test 1")
				r["ccy"] = "US"
				return r
			}(),
			check: domain.CheckCurrency,
		},
		{
			name: "unknown type",
			row: func() map[string]string {
				r := contributionRow("test 1")
				r["txn_type"] = "deposit"
				return r
			}(),
			check: domain.CheckTxnType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newImportFixture(t)

			_, err := f.importRows(t, buyRow("existing"))
			require.NoError(t, err)
			portfoliosBefore := len(f.ledger.PortfolioList())
			txnsBefore := len(f.ledger.TxnList())

			summary, err := f.importRows(t, contributionRow("test 1"), tt.row)

			assert.Nil(t, summary)
			require.ErrorIs(t, err, domain.ErrValidationFailed)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.check, verr.Check)

			assert.Len(t, f.ledger.PortfolioList(), portfoliosBefore)
			assert.Len(t, f.ledger.TxnList(), txnsBefore)

			_, err = f.uc.GetBatch(context.Background(), 2)
			assert.ErrorIs(t, err, domain.ErrImportBatchNotFound)
			assert.Len(t, f.ledger.BatchList(), 1)
		})
	}
}

func TestImportUseCase_ManualBuyWithoutAsset(t *testing.T) {
	f := newImportFixture(t)

	_, err := f.uc.ImportManual(context.Background(), usecase.ManualEntry{
		PortfolioName: "test 1",
		TimeStamp:     "2024-05-31 15:30:00",
		TxnType:       "buy",
		AssetID:       "   ",
		Qty:           "10",
		Price:         "63.57",
		Ccy:           "CAD",
	})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, domain.CheckAssetID, verr.Check)
	assert.Empty(t, f.ledger.BatchList())
	assert.Empty(t, f.ledger.PortfolioList())
}

func TestImportUseCase_Manual(t *testing.T) {
	f := newImportFixture(t)

	summary, err := f.uc.ImportManual(context.Background(), usecase.ManualEntry{
		PortfolioName: "tfsa",
		TimeStamp:     "2024-05-31",
		TxnType:       "Interest",
		Ccy:           "cad",
		CashAmt:       "1.25",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.BatchTypeManual, summary.BatchType)
	assert.Equal(t, int64(1), summary.InsertedRowCount)

	txns := f.ledger.TxnList()
	require.Len(t, txns, 1)
	assert.Equal(t, domain.TxnTypeInterest, txns[0].Type)
	assert.Equal(t, "CAD", txns[0].Ccy)
}

func TestImportUseCase_SequentialIDsSkipRolledBackBatch(t *testing.T) {
	f := newImportFixture(t)

	first, err := f.importRows(t, buyRow("a"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.BatchID)

	bad := buyRow("b")
	bad["price"] = "??"
	_, err = f.importRows(t, bad)
	require.Error(t, err)

	third, err := f.importRows(t, buyRow("b"), buyRow("c"))
	require.NoError(t, err)

	assert.Equal(t, int64(3), third.BatchID)
	assert.Equal(t, int64(2), third.PortfoliosAffected[0].PortfolioID)
	assert.Equal(t, int64(3), third.PortfoliosAffected[1].PortfolioID)

	batches := f.ledger.BatchList()
	require.Len(t, batches, 2)
	assert.Equal(t, int64(1), batches[0].ID)
	assert.Equal(t, int64(3), batches[1].ID)

	txns := f.ledger.TxnList()
	require.Len(t, txns, 3)
	for i, txn := range txns {
		assert.Equal(t, int64(i+1), txn.ID)
	}
}

func TestImportUseCase_DistinctPortfolioCoverage(t *testing.T) {
	f := newImportFixture(t)

	_, err := f.importRows(t, buyRow("rrsp"))
	require.NoError(t, err)

	summary, err := f.importRows(t,
		buyRow("tfsa"),
		contributionRow(" rrsp"),
		buyRow("margin"),
		contributionRow("tfsa"),
		buyRow("rrsp "),
	)
	require.NoError(t, err)

	assert.Equal(t, int64(5), summary.InsertedRowCount)
	require.Len(t, summary.PortfoliosAffected, 3)

	byName := make(map[string]domain.PortfolioImportOutcome)
	for _, o := range summary.PortfoliosAffected {
		assert.Equal(t, summary.BatchID, o.BatchID)
		byName[o.PortfolioName] = o
	}
	assert.True(t, byName["tfsa"].Created)
	assert.True(t, byName["margin"].Created)
	assert.False(t, byName["rrsp"].Created)
	assert.Equal(t, int64(1), byName["rrsp"].PortfolioID)
}

func TestImportUseCase_CommitFailureLeavesLedgerUntouched(t *testing.T) {
	f := newImportFixture(t)

	_, err := f.importRows(t, buyRow("existing"))
	require.NoError(t, err)
	firstImport := f.now
	f.now = f.now.Add(time.Hour)

	insertErr := errors.New("disk full")
	f.ledger.Txns.InsertBatchFunc = func(ctx context.Context, tx usecase.Transaction, txns []*domain.Txn) (int64, error) {
		return 0, insertErr
	}

	_, err = f.importRows(t, buyRow("fresh"), buyRow("existing"))
	require.ErrorIs(t, err, insertErr)

	assert.Len(t, f.ledger.PortfolioList(), 1)
	assert.Len(t, f.ledger.TxnList(), 1)
	assert.Len(t, f.ledger.BatchList(), 1)

	existing, err := f.ledger.Portfolios.GetByName(context.Background(), "existing")
	require.NoError(t, err)
	assert.True(t, existing.UpdatedAt.Equal(firstImport))
}

func TestImportUseCase_BatchDeleteFailureIsReported(t *testing.T) {
	f := newImportFixture(t)

	deleteErr := errors.New("connection reset")
	f.ledger.Batches.DeleteFunc = func(ctx context.Context, id int64) error {
		return deleteErr
	}

	bad := buyRow("a")
	bad["fee_amt"] = "free"
	_, err := f.importRows(t, bad)

	assert.ErrorIs(t, err, domain.ErrValidationFailed)
	assert.ErrorIs(t, err, deleteErr)
}

func TestImportUseCase_SchemaErrorAllocatesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No expectations: any call to these fails the test.
	txManager := mocks.NewMockTransactionManager(ctrl)
	sequences := mocks.NewMockSequenceRepository(ctrl)
	batches := mocks.NewMockImportBatchRepository(ctrl)

	uc := usecase.NewImportUseCase(usecase.ImportConfig{
		TxManager: txManager,
		BatchRepo: batches,
		Sequences: sequences,
		IDGen:     mocks.NewMockIDGenerator(ctrl),
		Reader:    &mocks.StaticReader{Header: []string{"portfolio_name", "qty"}},
	})

	_, err := uc.ImportStream(context.Background(), "upload.csv", strings.NewReader(""), ',')

	var serr *domain.SchemaError
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, serr.Missing, "time_stamp")
	assert.Contains(t, serr.Missing, "fee_amt")
	assert.NotContains(t, serr.Missing, "qty")
}

func TestImportUseCase_EmptyFile(t *testing.T) {
	f := newImportFixture(t)

	_, err := f.importRows(t)

	assert.ErrorIs(t, err, domain.ErrEmptyImport)
	assert.Empty(t, f.ledger.BatchList())
}

func TestImportUseCase_InvalidatesCachedPortfolios(t *testing.T) {
	f := newImportFixture(t)
	ctx := context.Background()

	require.NoError(t, f.cache.Set(ctx, "portfolio:name:test 1", []byte(`{}`), time.Minute))
	require.NoError(t, f.cache.Set(ctx, "portfolio:name:other", []byte(`{}`), time.Minute))

	_, err := f.importRows(t, buyRow("test 1"))
	require.NoError(t, err)

	assert.False(t, f.cache.Has("portfolio:name:test 1"))
	assert.True(t, f.cache.Has("portfolio:name:other"))
}

func TestImportUseCase_Metrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	metrics := mocks.NewMockImportMetrics(ctrl)
	metrics.EXPECT().ObserveCommitted(domain.BatchTypeCSV, int64(2), 1, gomock.Any())
	metrics.EXPECT().ObserveAborted(domain.BatchTypeCSV, string(domain.CheckCurrency))
	metrics.EXPECT().ObserveAborted(domain.BatchTypeCSV, "empty")

	f := newImportFixture(t)
	f.uc = f.build(metrics)

	_, err := f.importRows(t, buyRow("test 1"), contributionRow("test 1"))
	require.NoError(t, err)

	bad := buyRow("test 1")
	bad["ccy"] = "CADX"
	_, err = f.importRows(t, bad)
	require.Error(t, err)

	_, err = f.importRows(t)
	require.Error(t, err)
}

func TestImportUseCase_ListBatches(t *testing.T) {
	f := newImportFixture(t)

	for i := 0; i < 3; i++ {
		_, err := f.importRows(t, buyRow("a"))
		require.NoError(t, err)
	}

	batches, err := f.uc.ListBatches(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, int64(3), batches[0].ID)
	assert.Equal(t, int64(2), batches[1].ID)

	batch, err := f.uc.GetBatch(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.BatchTypeCSV, batch.Type)

	n, err := f.uc.CountBatchTxns(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
