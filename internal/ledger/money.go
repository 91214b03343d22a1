package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ParseCents converts a dollar amount string (optional minus, optional cents)
// to integer cents. Amounts with more than two fractional digits, non-numeric
// text, and exact zero are rejected: matching is exact-equality on cents, so an
// amount we cannot represent exactly must fail before it reaches the engine.
func ParseCents(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("amount %q: %w", s, err)
	}
	if d.Exponent() < -2 {
		return 0, fmt.Errorf("amount %q: more than two decimal places", s)
	}
	if d.IsZero() {
		return 0, fmt.Errorf("amount %q: zero amounts cannot be reconciled", s)
	}
	return d.Shift(2).IntPart(), nil
}

// FormatCents renders cents as a signed dollar string: -$50.00 or $50.00.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
