package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/iho/portledger/internal/adapter/csvfile"
	"github.com/iho/portledger/internal/adapter/http/dto"
	"github.com/iho/portledger/internal/domain"
	"github.com/iho/portledger/internal/usecase"
)

const defaultMaxUploadBytes = 32 << 20

// ImportService defines the behavior needed by ImportHandler.
type ImportService interface {
	ImportManual(ctx context.Context, entry usecase.ManualEntry) (*domain.ImportSummary, error)
	ImportStream(ctx context.Context, name string, r io.Reader, delimiter rune) (*domain.ImportSummary, error)
}

// ImportHandler handles import-related HTTP requests.
type ImportHandler struct {
	importUC         ImportService
	defaultDelimiter rune
	maxUploadBytes   int64
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(importUC ImportService, defaultDelimiter rune, maxUploadBytes int64) *ImportHandler {
	if defaultDelimiter == 0 {
		defaultDelimiter = usecase.DefaultDelimiter
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &ImportHandler{
		importUC:         importUC,
		defaultDelimiter: defaultDelimiter,
		maxUploadBytes:   maxUploadBytes,
	}
}

// ImportFile imports an uploaded delimited file as one batch. The file is
// sent as the multipart field "file"; "delimiter" optionally overrides the
// column separator.
func (h *ImportHandler) ImportFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form", err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	delimiter := h.defaultDelimiter
	if raw := r.FormValue("delimiter"); raw != "" {
		d, err := csvfile.ParseDelimiter(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid delimiter", err.Error())
			return
		}
		delimiter = d
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file", err.Error())
		return
	}
	defer file.Close()

	summary, err := h.importUC.ImportStream(r.Context(), header.Filename, file, delimiter)
	if err != nil {
		writeDomainError(w, "import failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ImportSummaryFromDomain(summary))
}

// ImportManual records one manually entered transaction as its own batch.
func (h *ImportHandler) ImportManual(w http.ResponseWriter, r *http.Request) {
	var req dto.ManualImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	summary, err := h.importUC.ImportManual(r.Context(), req.ToManualEntry())
	if err != nil {
		writeDomainError(w, "import failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ImportSummaryFromDomain(summary))
}
