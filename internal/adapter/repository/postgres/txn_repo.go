package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/portledger/internal/domain"
	"github.com/iho/portledger/internal/infrastructure/postgres/generated"
	"github.com/iho/portledger/internal/usecase"
)

// TxnRepository implements usecase.TxnRepository.
type TxnRepository struct {
	queries *generated.Queries
	retrier *Retrier
}

// NewTxnRepository creates a new TxnRepository.
func NewTxnRepository(pool *pgxpool.Pool, retrier *Retrier) *TxnRepository {
	return newTxnRepository(pool, retrier)
}

func newTxnRepository(db generated.DBTX, retrier *Retrier) *TxnRepository {
	return &TxnRepository{
		queries: generated.New(db),
		retrier: retrier,
	}
}

// InsertBatch copies txns into the ledger inside tx.
func (r *TxnRepository) InsertBatch(ctx context.Context, tx usecase.Transaction, txns []*domain.Txn) (int64, error) {
	if len(txns) == 0 {
		return 0, nil
	}

	queries := generated.New(tx.(*Tx).PgxTx())

	params := make([]generated.InsertTxnsParams, 0, len(txns))
	for _, t := range txns {
		params = append(params, generated.InsertTxnsParams{
			ID:          t.ID,
			PortfolioID: t.PortfolioID,
			BatchID:     t.BatchID,
			TimeStamp:   timeToPgTimestamptz(t.Timestamp),
			TxnType:     string(t.Type),
			AssetID:     stringPtrToText(t.AssetID),
			Qty:         decimalPtrToNumeric(t.Qty),
			Price:       decimalPtrToNumeric(t.Price),
			Ccy:         t.Ccy,
			CashAmt:     decimalPtrToNumeric(t.CashAmt),
			FeeAmt:      decimalPtrToNumeric(t.FeeAmt),
		})
	}

	return queries.InsertTxns(ctx, params)
}

// List lists transactions matching filter, newest first.
func (r *TxnRepository) List(ctx context.Context, filter domain.TxnFilter) ([]*domain.Txn, error) {
	var rows []generated.Txn
	err := r.retrier.Retry(ctx, func() error {
		var err error
		rows, err = r.queries.ListTxns(ctx, generated.ListTxnsParams{
			PortfolioID: filter.PortfolioID,
			TxnType:     string(filter.Type),
			AssetID:     filter.AssetID,
			Day:         timePtrToPgDate(filter.Day),
			Limit:       int32(filter.Limit),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	txns := make([]*domain.Txn, 0, len(rows))
	for _, row := range rows {
		txns = append(txns, rowToTxn(row))
	}

	return txns, nil
}

// CountByBatch counts the transactions committed by a batch.
func (r *TxnRepository) CountByBatch(ctx context.Context, batchID int64) (int64, error) {
	var n int64
	err := r.retrier.Retry(ctx, func() error {
		var err error
		n, err = r.queries.CountTxnsByBatch(ctx, batchID)
		return err
	})
	return n, err
}

func rowToTxn(row generated.Txn) *domain.Txn {
	return &domain.Txn{
		ID:          row.ID,
		PortfolioID: row.PortfolioID,
		BatchID:     row.BatchID,
		Timestamp:   row.TimeStamp.Time.UTC(),
		Type:        domain.TxnType(row.TxnType),
		AssetID:     textToStringPtr(row.AssetID),
		Qty:         numericToDecimalPtr(row.Qty),
		Price:       numericToDecimalPtr(row.Price),
		Ccy:         row.Ccy,
		CashAmt:     numericToDecimalPtr(row.CashAmt),
		FeeAmt:      numericToDecimalPtr(row.FeeAmt),
	}
}
