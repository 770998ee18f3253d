package usecase

import (
	"strings"
	"time"

	"github.com/iho/portledger/internal/domain"
)

// TimestampLayout is the canonical rendering of a normalized timestamp.
const TimestampLayout = "2006-01-02 15:04:05.999999999"

// timestampLayouts are tried in order; zone-less layouts are read as UTC.
var timestampLayouts = []string{
	TimestampLayout,
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04",
	"2006-01-02",
}

// NormalizedRow is a staged row with typed fields. Missing timestamps, asset
// ids and currencies are nil; numeric fields carry their own tag.
type NormalizedRow struct {
	Timestamp     *time.Time
	AssetID       *string
	Ccy           *string
	PortfolioName string
	TxnType       domain.TxnType
	Qty           domain.Amount
	Price         domain.Amount
	CashAmt       domain.Amount
	FeeAmt        domain.Amount
}

// NormalizeRow converts one raw row into typed values. It never fails: bad
// input is carried as a missing or invalid value for the validation suite.
func NormalizeRow(row StagedRow) NormalizedRow {
	return NormalizedRow{
		PortfolioName: strings.TrimSpace(row.PortfolioName),
		Timestamp:     parseTimestamp(row.TimeStamp),
		TxnType:       domain.TxnType(strings.ToLower(strings.TrimSpace(row.TxnType))),
		AssetID:       optionalUpper(row.AssetID),
		Qty:           domain.ParseAmount(row.Qty),
		Price:         domain.ParseAmount(row.Price),
		Ccy:           optionalUpper(row.Ccy),
		CashAmt:       domain.ParseAmount(row.CashAmt),
		FeeAmt:        domain.ParseAmount(row.FeeAmt),
	}
}

// Denormalize renders a normalized row back into raw text.
func Denormalize(row NormalizedRow) StagedRow {
	staged := StagedRow{
		PortfolioName: row.PortfolioName,
		TxnType:       string(row.TxnType),
		Qty:           row.Qty.String(),
		Price:         row.Price.String(),
		CashAmt:       row.CashAmt.String(),
		FeeAmt:        row.FeeAmt.String(),
	}
	if row.Timestamp != nil {
		staged.TimeStamp = row.Timestamp.Format(TimestampLayout)
	}
	if row.AssetID != nil {
		staged.AssetID = *row.AssetID
	}
	if row.Ccy != nil {
		staged.Ccy = *row.Ccy
	}
	return staged
}

// Txn builds the ledger transaction for a row that passed validation.
func (r NormalizedRow) Txn(portfolioID, batchID int64) *domain.Txn {
	txn := &domain.Txn{
		PortfolioID: portfolioID,
		Type:        r.TxnType,
		AssetID:     r.AssetID,
		Qty:         r.Qty.Ptr(),
		Price:       r.Price.Ptr(),
		CashAmt:     r.CashAmt.Ptr(),
		FeeAmt:      r.FeeAmt.Ptr(),
		BatchID:     batchID,
	}
	if r.Timestamp != nil {
		txn.Timestamp = *r.Timestamp
	}
	if r.Ccy != nil {
		txn.Ccy = *r.Ccy
	}
	return txn
}

func parseTimestamp(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			ts = ts.UTC()
			return &ts
		}
	}

	return nil
}

func optionalUpper(raw string) *string {
	v := strings.ToUpper(strings.TrimSpace(raw))
	if v == "" {
		return nil
	}
	return &v
}
