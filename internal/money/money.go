// Package money holds the exact decimal helpers used for fares.
// Fares are never converted to float64.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// divisionPrecision is the number of decimal places kept when dividing
// before the final rounding to cents.
const divisionPrecision = 28

var hundred = decimal.NewFromInt(100)

// ParseFare parses a fare cell such as "$2.90" or "2.90".
func ParseFare(s string) (decimal.Decimal, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "$")
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid fare %q: %w", s, err)
	}
	return d, nil
}

// Format renders an amount the way the trip export does, e.g. "$2.90".
func Format(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// RoundCents rounds half-up to two decimal places.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent returns fraction/total*100 rounded half-up to two places.
// A zero total yields zero.
func Percent(fraction, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return RoundCents(fraction.DivRound(total, divisionPrecision).Mul(hundred))
}

// FormatPercent renders a percentage with exactly two decimals, e.g. "12.50".
func FormatPercent(p decimal.Decimal) string {
	return p.StringFixed(2)
}
