package dto

import (
	"github.com/iho/portledger/internal/usecase"
)

// ManualImportRequest represents one manually entered transaction. Every
// field is raw text; normalization and validation happen in the importer.
type ManualImportRequest struct {
	PortfolioName string `json:"portfolio_name"`
	TimeStamp     string `json:"time_stamp"`
	TxnType       string `json:"txn_type"`
	AssetID       string `json:"asset_id,omitempty"`
	Qty           string `json:"qty,omitempty"`
	Price         string `json:"price,omitempty"`
	Ccy           string `json:"ccy"`
	CashAmt       string `json:"cash_amt,omitempty"`
	FeeAmt        string `json:"fee_amt,omitempty"`
}

// ToManualEntry converts to use case input.
func (r *ManualImportRequest) ToManualEntry() usecase.ManualEntry {
	return usecase.ManualEntry{
		PortfolioName: r.PortfolioName,
		TimeStamp:     r.TimeStamp,
		TxnType:       r.TxnType,
		AssetID:       r.AssetID,
		Qty:           r.Qty,
		Price:         r.Price,
		Ccy:           r.Ccy,
		CashAmt:       r.CashAmt,
		FeeAmt:        r.FeeAmt,
	}
}

// CreatePortfolioRequest represents a request to create a portfolio.
type CreatePortfolioRequest struct {
	Name    string `json:"name"`
	BaseCcy string `json:"base_ccy,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreatePortfolioRequest) ToUseCaseInput() usecase.CreatePortfolioInput {
	return usecase.CreatePortfolioInput{
		Name:    r.Name,
		BaseCcy: r.BaseCcy,
	}
}
