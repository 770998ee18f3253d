package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/portledger/internal/adapter/http/dto"
	"github.com/iho/portledger/internal/domain"
	"github.com/iho/portledger/internal/usecase"
)

// PortfolioService defines the behavior needed by PortfolioHandler.
type PortfolioService interface {
	CreatePortfolio(ctx context.Context, input usecase.CreatePortfolioInput) (*domain.Portfolio, bool, error)
	GetPortfolio(ctx context.Context, name string) (*domain.Portfolio, error)
	ListPortfolios(ctx context.Context, limit int) ([]*domain.Portfolio, error)
	ListPositions(ctx context.Context, name string) ([]*domain.Position, error)
}

// PortfolioHandler handles portfolio-related HTTP requests.
type PortfolioHandler struct {
	portfolioUC PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioUC PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{portfolioUC: portfolioUC}
}

// Create creates a portfolio, or updates the base currency of an existing one.
func (h *PortfolioHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	portfolio, created, err := h.portfolioUC.CreatePortfolio(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create portfolio", err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, dto.PortfolioFromDomain(portfolio))
}

// Get retrieves a portfolio by name.
func (h *PortfolioHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing portfolio name", "")
		return
	}

	portfolio, err := h.portfolioUC.GetPortfolio(r.Context(), name)
	if err != nil {
		writeDomainError(w, "failed to get portfolio", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PortfolioFromDomain(portfolio))
}

// List lists portfolios ordered by name.
func (h *PortfolioHandler) List(w http.ResponseWriter, r *http.Request) {
	portfolios, err := h.portfolioUC.ListPortfolios(r.Context(), parseIntQuery(r, "limit", 50))
	if err != nil {
		writeDomainError(w, "failed to list portfolios", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PortfoliosFromDomain(portfolios))
}

// Positions lists the net asset quantities of a portfolio.
func (h *PortfolioHandler) Positions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.portfolioUC.ListPositions(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeDomainError(w, "failed to list positions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PositionsFromDomain(positions))
}
