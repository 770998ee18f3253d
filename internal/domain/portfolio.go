package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultBaseCcy is the base currency of portfolios created without one.
const DefaultBaseCcy = "CAD"

// Portfolio is a named container of transactions.
type Portfolio struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string
	BaseCcy   string
	ID        int64
}

// Position is the net quantity held of one asset, as computed by the reporting views.
type Position struct {
	AssetID     string
	Qty         decimal.Decimal
	PortfolioID int64
}
