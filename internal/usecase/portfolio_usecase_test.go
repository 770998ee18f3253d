package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/portledger/internal/domain"
	"github.com/iho/portledger/internal/usecase"
	"github.com/iho/portledger/internal/usecase/mocks"
)

func newPortfolioUseCase(ledger *mocks.InMemoryLedger, cache usecase.Cache) *usecase.PortfolioUseCase {
	return usecase.NewPortfolioUseCase(ledger, ledger.Portfolios, ledger.Positions, ledger.Sequences, cache, zerolog.Nop())
}

func TestPortfolioUseCase_CreatePortfolio(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.CreatePortfolioInput
		wantCcy     string
		expectError bool
		errorType   error
	}{
		{
			name:    "explicit base currency is upper-cased",
			input:   usecase.CreatePortfolioInput{Name: "rrsp", BaseCcy: " usd "},
			wantCcy: "USD",
		},
		{
			name:    "default base currency",
			input:   usecase.CreatePortfolioInput{Name: "tfsa"},
			wantCcy: domain.DefaultBaseCcy,
		},
		{
			name:        "blank name",
			input:       usecase.CreatePortfolioInput{Name: "  "},
			expectError: true,
			errorType:   domain.ErrInvalidPortfolioName,
		},
		{
			name:        "bad currency",
			input:       usecase.CreatePortfolioInput{Name: "rrsp", BaseCcy: "dollars"},
			expectError: true,
			errorType:   domain.ErrInvalidCurrency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := mocks.NewInMemoryLedger()
			uc := newPortfolioUseCase(ledger, nil)

			portfolio, created, err := uc.CreatePortfolio(context.Background(), tt.input)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, tt.errorType) {
					t.Errorf("expected error %v, got %v", tt.errorType, err)
				}
				if n := len(ledger.PortfolioList()); n != 0 {
					t.Errorf("expected no portfolios, got %d", n)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !created {
				t.Error("expected created to be true")
			}
			if portfolio.ID != 1 {
				t.Errorf("expected id 1, got %d", portfolio.ID)
			}
			if portfolio.BaseCcy != tt.wantCcy {
				t.Errorf("expected base ccy %s, got %s", tt.wantCcy, portfolio.BaseCcy)
			}
		})
	}
}

func TestPortfolioUseCase_CreatePortfolio_Existing(t *testing.T) {
	ledger := mocks.NewInMemoryLedger()
	cache := mocks.NewInMemoryCache()
	uc := newPortfolioUseCase(ledger, cache)
	ctx := context.Background()

	first, _, err := uc.CreatePortfolio(ctx, usecase.CreatePortfolioInput{Name: "rrsp"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uc.GetPortfolio(ctx, "rrsp"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cache.Has("portfolio:name:rrsp") {
		t.Fatal("expected portfolio to be cached")
	}

	second, created, err := uc.CreatePortfolio(ctx, usecase.CreatePortfolioInput{Name: "rrsp", BaseCcy: "usd"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("expected created to be false")
	}
	if second.ID != first.ID || !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("expected identity to be kept, got %+v", second)
	}
	if second.BaseCcy != "USD" {
		t.Errorf("expected USD, got %s", second.BaseCcy)
	}
	if cache.Has("portfolio:name:rrsp") {
		t.Error("expected cached portfolio to be invalidated")
	}
	if n := len(ledger.PortfolioList()); n != 1 {
		t.Errorf("expected 1 portfolio, got %d", n)
	}
}

func TestPortfolioUseCase_GetPortfolio_Cached(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockPortfolioRepository(ctrl)
	cache := mocks.NewMockCache(ctrl)

	cached, _ := json.Marshal(&domain.Portfolio{ID: 4, Name: "rrsp", BaseCcy: "CAD"})
	cache.EXPECT().Get(gomock.Any(), "portfolio:name:rrsp").Return(cached, nil)

	uc := usecase.NewPortfolioUseCase(nil, repo, nil, nil, cache, zerolog.Nop())

	p, err := uc.GetPortfolio(context.Background(), "rrsp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != 4 {
		t.Errorf("expected id 4, got %d", p.ID)
	}
}

func TestPortfolioUseCase_GetPortfolio_Miss(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockPortfolioRepository(ctrl)
	cache := mocks.NewMockCache(ctrl)

	cache.EXPECT().Get(gomock.Any(), "portfolio:name:rrsp").Return(nil, nil)
	repo.EXPECT().GetByName(gomock.Any(), "rrsp").Return(&domain.Portfolio{ID: 4, Name: "rrsp"}, nil)
	cache.EXPECT().Set(gomock.Any(), "portfolio:name:rrsp", gomock.Any(), 5*time.Minute).Return(nil)

	uc := usecase.NewPortfolioUseCase(nil, repo, nil, nil, cache, zerolog.Nop())
	uc.SetCacheTTL(5 * time.Minute)

	if _, err := uc.GetPortfolio(context.Background(), " rrsp "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPortfolioUseCase_GetPortfolio_NotFound(t *testing.T) {
	ledger := mocks.NewInMemoryLedger()
	uc := newPortfolioUseCase(ledger, nil)

	_, err := uc.GetPortfolio(context.Background(), "missing")
	if !errors.Is(err, domain.ErrPortfolioNotFound) {
		t.Errorf("expected ErrPortfolioNotFound, got %v", err)
	}

	_, err = uc.GetPortfolioByID(context.Background(), 42)
	if !errors.Is(err, domain.ErrPortfolioNotFound) {
		t.Errorf("expected ErrPortfolioNotFound, got %v", err)
	}
}

func TestPortfolioUseCase_ListPortfolios(t *testing.T) {
	ledger := mocks.NewInMemoryLedger()
	uc := newPortfolioUseCase(ledger, nil)
	ctx := context.Background()

	for _, name := range []string{"tfsa", "margin", "rrsp"} {
		if _, _, err := uc.CreatePortfolio(ctx, usecase.CreatePortfolioInput{Name: name}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	list, err := uc.ListPortfolios(ctx, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 portfolios, got %d", len(list))
	}
	if list[0].Name != "margin" || list[2].Name != "tfsa" {
		t.Errorf("expected name order, got %s..%s", list[0].Name, list[2].Name)
	}
}

func TestPortfolioUseCase_ListPositions(t *testing.T) {
	f := newImportFixture(t)

	sell := buyRow("test 1")
	sell["txn_type"] = "sell"
	sell["qty"] = "4"
	other := buyRow("test 1")
	other["asset_id"] = "XIU.TO"
	other["qty"] = "3"
	gone := buyRow("test 1")
	gone["asset_id"] = "ZAG.TO"
	goneSell := buyRow("test 1")
	goneSell["asset_id"] = "ZAG.TO"
	goneSell["txn_type"] = "sell"

	_, err := f.importRows(t, buyRow("test 1"), sell, other, gone, goneSell, contributionRow("test 1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	uc := newPortfolioUseCase(f.ledger, nil)
	positions, err := uc.ListPositions(context.Background(), "test 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(positions) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(positions))
	}
	if positions[0].AssetID != "BN.TO" || !positions[0].Qty.Equal(decimal.NewFromInt(6)) {
		t.Errorf("unexpected BN.TO position %+v", positions[0])
	}
	if positions[1].AssetID != "XIU.TO" || !positions[1].Qty.Equal(decimal.NewFromInt(3)) {
		t.Errorf("unexpected XIU.TO position %+v", positions[1])
	}
}
