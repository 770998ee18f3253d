package domain

import "time"

// BatchType identifies how an import batch was produced.
type BatchType string

const (
	BatchTypeManual BatchType = "manual-entry"
	BatchTypeCSV    BatchType = "csv-import"
)

// ImportBatch is the registry row allocated for one import operation.
type ImportBatch struct {
	ImportTime time.Time
	Type       BatchType
	ID         int64
}

// PortfolioImportOutcome describes how one portfolio was touched by a batch.
type PortfolioImportOutcome struct {
	PortfolioName string
	PortfolioID   int64
	BatchID       int64
	Created       bool
}

// ImportSummary is returned to the caller of a successful import.
type ImportSummary struct {
	BatchType          BatchType
	PortfoliosAffected []PortfolioImportOutcome
	BatchID            int64
	InsertedRowCount   int64
}
