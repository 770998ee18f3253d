package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Portfolio errors
	ErrPortfolioNotFound     = errors.New("portfolio not found")
	ErrInvalidPortfolioName  = errors.New("invalid portfolio name")
	ErrPortfolioNameConflict = errors.New("portfolio name already exists")
	ErrInvalidCurrency       = errors.New("invalid currency code")

	// Import errors
	ErrImportBatchNotFound = errors.New("import batch not found")
	ErrSchemaMismatch      = errors.New("import file is missing required columns")
	ErrValidationFailed    = errors.New("transaction validation failed")
	ErrEmptyImport         = errors.New("import contains no rows")
)

// SchemaError reports required columns absent from an import file.
type SchemaError struct {
	Missing []string
	Found   []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing [%s], found [%s]",
		ErrSchemaMismatch, strings.Join(e.Missing, ", "), strings.Join(e.Found, ", "))
}

func (e *SchemaError) Unwrap() error {
	return ErrSchemaMismatch
}

// CheckID identifies one check of the validation suite.
type CheckID string

const (
	CheckPortfolioName       CheckID = "missing_portfolio_name"
	CheckTimestamp           CheckID = "invalid_timestamp"
	CheckTxnType             CheckID = "invalid_txn_type"
	CheckAssetID             CheckID = "missing_asset_id"
	CheckQty                 CheckID = "invalid_qty"
	CheckPrice               CheckID = "invalid_price"
	CheckCurrency            CheckID = "invalid_currency"
	CheckCashAmount          CheckID = "invalid_cash_amount"
	CheckFeeAmount           CheckID = "invalid_fee_amount"
	CheckUnresolvedPortfolio CheckID = "unresolved_portfolio"
)

var checkMessages = map[CheckID]string{
	CheckPortfolioName:       "portfolio name is missing",
	CheckTimestamp:           "timestamp is missing or unparsable",
	CheckTxnType:             "transaction type is not one of buy, sell, dividend, contribution, withdrawal, interest",
	CheckAssetID:             "asset id is required for buy, sell and dividend",
	CheckQty:                 "quantity is not a number",
	CheckPrice:               "price is not a number",
	CheckCurrency:            "bad currency code",
	CheckCashAmount:          "cash amount is not a number",
	CheckFeeAmount:           "fee amount is not a number",
	CheckUnresolvedPortfolio: "portfolio could not be resolved",
}

// Message returns a human readable description of the check.
func (c CheckID) Message() string {
	if m, ok := checkMessages[c]; ok {
		return m
	}
	return string(c)
}

// ValidationError reports the first failing check of the validation suite.
// Rows holds the 1-based positions of the offending rows within the batch.
type ValidationError struct {
	Check      CheckID
	Rows       []int
	Violations int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (%s, %d row(s): %v)",
		ErrValidationFailed, e.Check.Message(), e.Check, e.Violations, e.Rows)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
