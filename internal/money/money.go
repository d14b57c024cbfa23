// Package money holds the fixed-point currency helpers shared by the tax
// and ledger packages. Amounts are decimal.Decimal throughout; binary floats
// never enter the arithmetic.
package money

import (
	"regexp"

	"github.com/shopspring/decimal"
)

var nonNumericRegex = regexp.MustCompile(`[^0-9.\-]`)

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percentage applies percent to amount and rounds the result at 2 decimals.
// This is the single point where intermediate rounding is allowed.
func Percentage(amount, percent decimal.Decimal) decimal.Decimal {
	return Round2(amount.Mul(percent).Div(decimal.NewFromInt(100)))
}

// HalfOf returns half of amount rounded at 2 decimals, used for the equal
// CGST/SGST split.
func HalfOf(amount decimal.Decimal) decimal.Decimal {
	return Round2(amount.Div(decimal.NewFromInt(2)))
}

// Parse converts free-text currency (possibly carrying symbols or thousands
// separators) to a decimal. Empty or fully non-numeric input yields zero.
func Parse(text string) (decimal.Decimal, error) {
	clean := nonNumericRegex.ReplaceAllString(text, "")
	if clean == "" || clean == "-" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(clean)
}

// Sum adds a slice of amounts without intermediate rounding.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// WithinTolerance reports whether a and b agree within tol.
func WithinTolerance(a, b, tol decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tol)
}
