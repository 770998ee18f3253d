package domain

import (
	"fmt"
	"strings"
)

// Validation constants
const (
	MaxPortfolioNameLength = 255
	CurrencyCodeLength     = 3
)

// ValidatePortfolioName validates a user supplied portfolio name.
func ValidatePortfolioName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidPortfolioName)
	}

	if len(name) > MaxPortfolioNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidPortfolioName, MaxPortfolioNameLength)
	}

	return nil
}

// IsCurrencyCode reports whether ccy is exactly three ASCII letters.
func IsCurrencyCode(ccy string) bool {
	if len(ccy) != CurrencyCodeLength {
		return false
	}
	for i := 0; i < len(ccy); i++ {
		c := ccy[i]
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return false
		}
	}
	return true
}

// NormalizeCurrency trims and upper-cases a currency code.
func NormalizeCurrency(ccy string) string {
	return strings.ToUpper(strings.TrimSpace(ccy))
}

// ValidatePagination clamps a listing limit.
func ValidatePagination(limit int) int {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		return DefaultPageSize
	}

	if limit > MaxPageSize {
		return MaxPageSize
	}

	return limit
}
