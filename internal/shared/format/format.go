// Package format renders ledger numbers for people.
// An absent stored value renders as NotAvailable, never as "0".
package format

import (
	"math"

	"github.com/shopspring/decimal"
)

// NotAvailable is shown wherever a stored value is absent or underivable.
const NotAvailable = "N/A"

// Money renders v with two decimal places.
func Money(v *float64) string {
	return fixed(v, 2)
}

// Shares renders a share count with up to four decimal places, trimming
// trailing zeros.
func Shares(v *float64) string {
	if !finite(v) {
		return NotAvailable
	}
	return decimal.NewFromFloat(*v).Round(4).String()
}

// Percent renders v as a percentage with up to two decimal places.
func Percent(v *float64) string {
	if !finite(v) {
		return NotAvailable
	}
	return decimal.NewFromFloat(*v).Round(2).String() + "%"
}

// Amount renders a computed accumulator, which always has a value.
func Amount(v float64) string {
	return Money(&v)
}

// Count renders an optional integer target.
func Count(v *int) string {
	if v == nil {
		return NotAvailable
	}
	return decimal.NewFromInt(int64(*v)).String()
}

// Text renders an optional string, falling back to fallback when absent.
func Text[T ~string](v *T, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return string(*v)
}

func fixed(v *float64, places int32) string {
	if !finite(v) {
		return NotAvailable
	}
	return decimal.NewFromFloat(*v).StringFixed(places)
}

func finite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}
