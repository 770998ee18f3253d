package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/iho/portledger/internal/adapter/http/dto"
	"github.com/iho/portledger/internal/domain"
	"github.com/iho/portledger/internal/usecase"
)

// TxnService defines the behavior needed by TxnHandler.
type TxnService interface {
	ListTransactions(ctx context.Context, input usecase.ListTxnsInput) ([]*domain.Txn, error)
}

// TxnHandler handles transaction listing requests.
type TxnHandler struct {
	txnUC TxnService
}

// NewTxnHandler creates a new TxnHandler.
func NewTxnHandler(txnUC TxnService) *TxnHandler {
	return &TxnHandler{txnUC: txnUC}
}

// List lists transactions, newest first. Supported query filters are
// portfolio, type, asset, day (YYYY-MM-DD) and limit.
func (h *TxnHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	input := usecase.ListTxnsInput{
		PortfolioName: q.Get("portfolio"),
		Type:          q.Get("type"),
		AssetID:       q.Get("asset"),
		Limit:         parseIntQuery(r, "limit", 50),
	}

	if raw := q.Get("day"); raw != "" {
		day, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid day", err.Error())
			return
		}
		input.Day = &day
	}

	txns, err := h.txnUC.ListTransactions(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to list transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TxnsFromDomain(txns))
}
