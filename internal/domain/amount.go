package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// InvalidAmountMarker is the reserved value standing for "present but unparsable".
// No legitimate quantity, price or cash amount ever takes this value.
var InvalidAmountMarker = decimal.RequireFromString("-999999999999.999999")

// AmountState tags the three shapes a normalized numeric field can take.
type AmountState uint8

const (
	AmountMissing AmountState = iota
	AmountValid
	AmountInvalid
)

// Amount is a normalized numeric field: Missing, Valid(value) or Invalid.
type Amount struct {
	value decimal.Decimal
	state AmountState
}

// MissingAmount returns an amount that was not provided.
func MissingAmount() Amount {
	return Amount{state: AmountMissing}
}

// ValidAmount wraps a parsed value.
func ValidAmount(v decimal.Decimal) Amount {
	return Amount{state: AmountValid, value: v}
}

// InvalidAmount returns an amount whose raw text could not be parsed.
func InvalidAmount() Amount {
	return Amount{state: AmountInvalid}
}

// ParseAmount normalizes raw text: blank is Missing, a number is Valid, anything else Invalid.
func ParseAmount(raw string) Amount {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return MissingAmount()
	}

	v, err := decimal.NewFromString(raw)
	if err != nil {
		return InvalidAmount()
	}

	return ValidAmount(v)
}

// State returns the tag of a.
func (a Amount) State() AmountState {
	return a.state
}

func (a Amount) IsMissing() bool { return a.state == AmountMissing }
func (a Amount) IsValid() bool   { return a.state == AmountValid }
func (a Amount) IsInvalid() bool { return a.state == AmountInvalid }

// Marker returns the column value the validation suite counts against:
// nil when missing, InvalidAmountMarker when invalid, the value otherwise.
func (a Amount) Marker() *decimal.Decimal {
	switch a.state {
	case AmountValid:
		v := a.value
		return &v
	case AmountInvalid:
		m := InvalidAmountMarker
		return &m
	default:
		return nil
	}
}

// Decimal returns the parsed value. ok is false unless a is Valid.
func (a Amount) Decimal() (decimal.Decimal, bool) {
	if a.state != AmountValid {
		return decimal.Zero, false
	}
	return a.value, true
}

// Ptr returns a pointer to the parsed value, or nil unless a is Valid.
func (a Amount) Ptr() *decimal.Decimal {
	if a.state != AmountValid {
		return nil
	}
	v := a.value
	return &v
}

// String renders a back into raw text that ParseAmount maps to an equal Amount.
func (a Amount) String() string {
	switch a.state {
	case AmountValid:
		return a.value.String()
	case AmountInvalid:
		return "invalid"
	default:
		return ""
	}
}

// Equal reports whether a and b carry the same tag and value.
func (a Amount) Equal(b Amount) bool {
	if a.state != b.state {
		return false
	}
	if a.state == AmountValid {
		return a.value.Equal(b.value)
	}
	return true
}
