package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iho/portledger/internal/adapter/http/dto"
	"github.com/iho/portledger/internal/domain"
)

// BatchService defines the behavior needed by BatchHandler.
type BatchService interface {
	ListBatches(ctx context.Context, limit int) ([]*domain.ImportBatch, error)
	GetBatch(ctx context.Context, id int64) (*domain.ImportBatch, error)
	CountBatchTxns(ctx context.Context, id int64) (int64, error)
}

// BatchHandler handles import batch registry requests.
type BatchHandler struct {
	batchUC BatchService
}

// NewBatchHandler creates a new BatchHandler.
func NewBatchHandler(batchUC BatchService) *BatchHandler {
	return &BatchHandler{batchUC: batchUC}
}

// List lists the most recent import batches.
func (h *BatchHandler) List(w http.ResponseWriter, r *http.Request) {
	batches, err := h.batchUC.ListBatches(r.Context(), parseIntQuery(r, "limit", 50))
	if err != nil {
		writeDomainError(w, "failed to list batches", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BatchesFromDomain(batches))
}

// Get retrieves one import batch with the number of transactions it committed.
func (h *BatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "invalid batch ID", chi.URLParam(r, "id"))
		return
	}

	batch, err := h.batchUC.GetBatch(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get batch", err)
		return
	}

	count, err := h.batchUC.CountBatchTxns(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to count batch transactions", err)
		return
	}

	resp := dto.BatchFromDomain(batch)
	resp.TxnCount = &count
	writeJSON(w, http.StatusOK, resp)
}
