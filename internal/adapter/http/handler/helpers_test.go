package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/iho/portledger/internal/adapter/http/dto"
	"github.com/iho/portledger/internal/domain"
)

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/portfolios?limit=50", nil)
	if got := parseIntQuery(req, "limit", 10); got != 50 {
		t.Fatalf("expected limit=50, got %d", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/portfolios?limit=invalid", nil)
	if got := parseIntQuery(req, "limit", 10); got != 10 {
		t.Fatalf("expected fallback to default, got %d", got)
	}

	req.URL = &url.URL{RawQuery: ""}
	if got := parseIntQuery(req, "limit", 25); got != 25 {
		t.Fatalf("expected default when missing, got %d", got)
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"portfolio not found", domain.ErrPortfolioNotFound, http.StatusNotFound},
		{"batch not found", fmt.Errorf("get batch: %w", domain.ErrImportBatchNotFound), http.StatusNotFound},
		{"name conflict", domain.ErrPortfolioNameConflict, http.StatusConflict},
		{"validation", &domain.ValidationError{Check: domain.CheckQty, Violations: 1, Rows: []int{1}}, http.StatusUnprocessableEntity},
		{"schema", &domain.SchemaError{Missing: []string{"qty"}}, http.StatusUnprocessableEntity},
		{"empty import", domain.ErrEmptyImport, http.StatusBadRequest},
		{"invalid currency", domain.ErrInvalidCurrency, http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapDomainError(tt.err); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	payload := map[string]string{"status": "ok"}

	writeJSON(rr, http.StatusCreated, payload)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}

	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content-type application/json, got %s", ct)
	}

	var decoded map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if decoded["status"] != "ok" {
		t.Fatalf("expected payload to round-trip, got %+v", decoded)
	}
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()

	writeError(rr, http.StatusBadRequest, "bad request", "detail")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}

	if resp.Error != "bad request" || resp.Validation != nil {
		t.Fatalf("expected plain error to propagate, got %+v", resp)
	}
}

func TestWriteDomainError_ValidationDetail(t *testing.T) {
	rr := httptest.NewRecorder()

	writeDomainError(rr, "import failed", &domain.ValidationError{
		Check:      domain.CheckCurrency,
		Violations: 2,
		Rows:       []int{1, 3},
	})

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}

	if resp.Validation == nil || resp.Validation.Check != "invalid_currency" || resp.Validation.Violations != 2 {
		t.Fatalf("expected validation detail, got %+v", resp.Validation)
	}
	if resp.Validation.Message != "bad currency code" {
		t.Fatalf("unexpected check message %q", resp.Validation.Message)
	}
}

func TestWriteDomainError_SchemaDetail(t *testing.T) {
	rr := httptest.NewRecorder()

	writeDomainError(rr, "import failed", &domain.SchemaError{
		Missing: []string{"asset_id"},
		Found:   []string{"portfolio_name"},
	})

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}

	if resp.Schema == nil || len(resp.Schema.Missing) != 1 || resp.Schema.Missing[0] != "asset_id" {
		t.Fatalf("expected schema detail, got %+v", resp.Schema)
	}
}
