package usecase

import (
	"github.com/iho/portledger/internal/domain"
)

// Check is one rule of the validation suite. Violates reports whether a single
// normalized row breaks the rule.
type Check struct {
	Violates func(row NormalizedRow) bool
	ID       domain.CheckID
}

// Count returns the number of violating rows and their 1-based positions.
func (c Check) Count(rows []NormalizedRow) (int, []int) {
	var positions []int
	for i, row := range rows {
		if c.Violates(row) {
			positions = append(positions, i+1)
		}
	}
	return len(positions), positions
}

// ValidationSuite is the fixed, ordered list of integrity checks.
type ValidationSuite []Check

// DefaultValidationSuite returns the nine checks in their evaluation order.
func DefaultValidationSuite() ValidationSuite {
	return ValidationSuite{
		{ID: domain.CheckPortfolioName, Violates: func(r NormalizedRow) bool {
			return r.PortfolioName == ""
		}},
		{ID: domain.CheckTimestamp, Violates: func(r NormalizedRow) bool {
			return r.Timestamp == nil
		}},
		{ID: domain.CheckTxnType, Violates: func(r NormalizedRow) bool {
			return !r.TxnType.IsValid()
		}},
		{ID: domain.CheckAssetID, Violates: func(r NormalizedRow) bool {
			return r.TxnType.IsAsset() && r.AssetID == nil
		}},
		{ID: domain.CheckQty, Violates: func(r NormalizedRow) bool {
			return isInvalidMarker(r.Qty)
		}},
		{ID: domain.CheckPrice, Violates: func(r NormalizedRow) bool {
			return isInvalidMarker(r.Price)
		}},
		{ID: domain.CheckCurrency, Violates: func(r NormalizedRow) bool {
			return r.Ccy == nil || !domain.IsCurrencyCode(*r.Ccy)
		}},
		{ID: domain.CheckCashAmount, Violates: func(r NormalizedRow) bool {
			return isInvalidMarker(r.CashAmt)
		}},
		{ID: domain.CheckFeeAmount, Violates: func(r NormalizedRow) bool {
			return isInvalidMarker(r.FeeAmt)
		}},
	}
}

// Validate runs every check over the whole row set in order and fails on the
// first one with a non-zero violation count.
func (s ValidationSuite) Validate(rows []NormalizedRow) error {
	for _, check := range s {
		n, positions := check.Count(rows)
		if n > 0 {
			return &domain.ValidationError{
				Check:      check.ID,
				Violations: n,
				Rows:       positions,
			}
		}
	}
	return nil
}

func isInvalidMarker(a domain.Amount) bool {
	m := a.Marker()
	return m != nil && m.Equal(domain.InvalidAmountMarker)
}
