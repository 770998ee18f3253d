package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/portledger/internal/domain"
)

// ImportSummaryResponse represents a committed import batch.
type ImportSummaryResponse struct {
	BatchID            int64                       `json:"batch_id"`
	BatchType          string                      `json:"batch_type"`
	InsertedRowCount   int64                       `json:"inserted_row_count"`
	PortfoliosAffected []*PortfolioOutcomeResponse `json:"portfolios_affected"`
}

// PortfolioOutcomeResponse describes one portfolio touched by an import.
type PortfolioOutcomeResponse struct {
	PortfolioName string `json:"portfolio_name"`
	PortfolioID   int64  `json:"portfolio_id"`
	Created       bool   `json:"created"`
}

// ImportSummaryFromDomain converts a domain import summary to response.
func ImportSummaryFromDomain(s *domain.ImportSummary) *ImportSummaryResponse {
	outcomes := make([]*PortfolioOutcomeResponse, len(s.PortfoliosAffected))
	for i, p := range s.PortfoliosAffected {
		outcomes[i] = &PortfolioOutcomeResponse{
			PortfolioName: p.PortfolioName,
			PortfolioID:   p.PortfolioID,
			Created:       p.Created,
		}
	}

	return &ImportSummaryResponse{
		BatchID:            s.BatchID,
		BatchType:          string(s.BatchType),
		InsertedRowCount:   s.InsertedRowCount,
		PortfoliosAffected: outcomes,
	}
}

// PortfolioResponse represents a portfolio in API responses.
type PortfolioResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	BaseCcy   string    `json:"base_ccy"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PortfolioFromDomain converts domain portfolio to response.
func PortfolioFromDomain(p *domain.Portfolio) *PortfolioResponse {
	return &PortfolioResponse{
		ID:        p.ID,
		Name:      p.Name,
		BaseCcy:   p.BaseCcy,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// PortfoliosFromDomain converts domain portfolios to responses.
func PortfoliosFromDomain(portfolios []*domain.Portfolio) []*PortfolioResponse {
	result := make([]*PortfolioResponse, len(portfolios))
	for i, p := range portfolios {
		result[i] = PortfolioFromDomain(p)
	}
	return result
}

// PositionResponse represents a net asset quantity.
type PositionResponse struct {
	AssetID string          `json:"asset_id"`
	Qty     decimal.Decimal `json:"qty"`
}

// PositionsFromDomain converts domain positions to responses.
func PositionsFromDomain(positions []*domain.Position) []*PositionResponse {
	result := make([]*PositionResponse, len(positions))
	for i, p := range positions {
		result[i] = &PositionResponse{AssetID: p.AssetID, Qty: p.Qty}
	}
	return result
}

// TxnResponse represents a ledger transaction in API responses.
type TxnResponse struct {
	ID          int64            `json:"id"`
	PortfolioID int64            `json:"portfolio_id"`
	BatchID     int64            `json:"batch_id"`
	TimeStamp   time.Time        `json:"time_stamp"`
	TxnType     string           `json:"txn_type"`
	AssetID     *string          `json:"asset_id,omitempty"`
	Qty         *decimal.Decimal `json:"qty,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Ccy         string           `json:"ccy"`
	CashAmt     *decimal.Decimal `json:"cash_amt,omitempty"`
	FeeAmt      *decimal.Decimal `json:"fee_amt,omitempty"`
}

// TxnFromDomain converts domain txn to response.
func TxnFromDomain(t *domain.Txn) *TxnResponse {
	return &TxnResponse{
		ID:          t.ID,
		PortfolioID: t.PortfolioID,
		BatchID:     t.BatchID,
		TimeStamp:   t.Timestamp,
		TxnType:     string(t.Type),
		AssetID:     t.AssetID,
		Qty:         t.Qty,
		Price:       t.Price,
		Ccy:         t.Ccy,
		CashAmt:     t.CashAmt,
		FeeAmt:      t.FeeAmt,
	}
}

// TxnsFromDomain converts domain txns to responses.
func TxnsFromDomain(txns []*domain.Txn) []*TxnResponse {
	result := make([]*TxnResponse, len(txns))
	for i, t := range txns {
		result[i] = TxnFromDomain(t)
	}
	return result
}

// BatchResponse represents an import batch in API responses.
type BatchResponse struct {
	ID         int64     `json:"id"`
	BatchType  string    `json:"batch_type"`
	ImportTime time.Time `json:"import_time"`
	TxnCount   *int64    `json:"txn_count,omitempty"`
}

// BatchFromDomain converts domain import batch to response.
func BatchFromDomain(b *domain.ImportBatch) *BatchResponse {
	return &BatchResponse{
		ID:         b.ID,
		BatchType:  string(b.Type),
		ImportTime: b.ImportTime,
	}
}

// BatchesFromDomain converts domain import batches to responses.
func BatchesFromDomain(batches []*domain.ImportBatch) []*BatchResponse {
	result := make([]*BatchResponse, len(batches))
	for i, b := range batches {
		result[i] = BatchFromDomain(b)
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error      string            `json:"error"`
	Message    string            `json:"message,omitempty"`
	Validation *ValidationDetail `json:"validation,omitempty"`
	Schema     *SchemaDetail     `json:"schema,omitempty"`
}

// ValidationDetail carries the failing check of a rejected import.
type ValidationDetail struct {
	Check      string `json:"check"`
	Message    string `json:"message"`
	Violations int    `json:"violations"`
	Rows       []int  `json:"rows"`
}

// SchemaDetail lists the columns an import file is missing.
type SchemaDetail struct {
	Missing []string `json:"missing"`
	Found   []string `json:"found"`
}
