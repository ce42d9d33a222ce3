package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Round2 rounds an amount to cents, half away from zero. Re-rounding an
// already rounded amount returns the identical value.
func Round2(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

// Cents converts an amount to an integer number of cents, rounding half away
// from zero.
func Cents(v decimal.Decimal) int64 {
	return v.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// FromCents converts an integer number of cents into a decimal amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100))
}

// Percent applies pct (expressed as a whole percentage, e.g. 8 for 8%) to v.
func Percent(v, pct decimal.Decimal) decimal.Decimal {
	return v.Mul(pct).Div(decimal.NewFromInt(100))
}

// ParseAmount parses a monetary amount, rejecting malformed and negative
// values at the boundary so they never reach pricing.
func ParseAmount(raw string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	if v.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount %q must not be negative", raw)
	}
	return v, nil
}
