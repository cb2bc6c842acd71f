package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount is the single coercion point for user-entered numbers.
// Blank and non-numeric values become zero; a decimal comma is accepted.
// Negative values are passed through so request validation can reject
// them explicitly instead of clamping.
func ParseAmount(raw string) decimal.Decimal {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero
	}

	value, err := decimal.NewFromString(strings.ReplaceAll(trimmed, ",", "."))
	if err != nil {
		return decimal.Zero
	}
	return value
}
