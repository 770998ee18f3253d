package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TxnType is the kind of ledger transaction.
type TxnType string

const (
	TxnTypeBuy          TxnType = "buy"
	TxnTypeSell         TxnType = "sell"
	TxnTypeDividend     TxnType = "dividend"
	TxnTypeContribution TxnType = "contribution"
	TxnTypeWithdrawal   TxnType = "withdrawal"
	TxnTypeInterest     TxnType = "interest"
)

// TxnTypes lists every accepted transaction type.
var TxnTypes = []TxnType{
	TxnTypeBuy,
	TxnTypeSell,
	TxnTypeDividend,
	TxnTypeContribution,
	TxnTypeWithdrawal,
	TxnTypeInterest,
}

// IsValid reports whether t is one of the accepted transaction types.
func (t TxnType) IsValid() bool {
	for _, v := range TxnTypes {
		if t == v {
			return true
		}
	}
	return false
}

// IsAsset reports whether t moves an asset and therefore requires an asset id.
func (t TxnType) IsAsset() bool {
	switch t {
	case TxnTypeBuy, TxnTypeSell, TxnTypeDividend:
		return true
	default:
		return false
	}
}

// Txn is one committed ledger fact. It is never mutated after commit.
type Txn struct {
	Timestamp   time.Time
	AssetID     *string
	Qty         *decimal.Decimal
	Price       *decimal.Decimal
	CashAmt     *decimal.Decimal
	FeeAmt      *decimal.Decimal
	Type        TxnType
	Ccy         string
	ID          int64
	PortfolioID int64
	BatchID     int64
}

// TxnFilter narrows a transaction listing. Zero values mean "no filter".
type TxnFilter struct {
	Day         *time.Time
	PortfolioID int64
	Type        TxnType
	AssetID     string
	Limit       int
}
