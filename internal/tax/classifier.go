// Package tax classifies the GST regime of an analysed bill and derives
// per-line tax splits from slab rates. Everything here is a pure function;
// inconsistencies are returned to the caller, never coerced.
package tax

import (
	"github.com/shopspring/decimal"

	"billmunshi/internal/domain"
	"billmunshi/internal/money"
)

// Classify decides the tax regime from the header tax amounts.
//
// IGST alone means inter-state supply; CGST and SGST together mean
// intra-state supply and must be an exact equal split. The two regimes are
// mutually exclusive: a triple carrying both is unrepresentable. All-zero
// triples classify as Unknown, which is legal only for zero-tax bills.
func Classify(igst, cgst, sgst decimal.Decimal) (domain.GSTType, error) {
	if igst.IsNegative() || cgst.IsNegative() || sgst.IsNegative() {
		return domain.GSTTypeUnknown, &domain.TaxInconsistencyError{
			IGST: igst, CGST: cgst, SGST: sgst,
			Reason: "tax amounts cannot be negative",
		}
	}

	hasIGST := igst.IsPositive()
	hasState := cgst.IsPositive() || sgst.IsPositive()

	switch {
	case hasIGST && hasState:
		return domain.GSTTypeUnknown, &domain.TaxInconsistencyError{
			IGST: igst, CGST: cgst, SGST: sgst,
			Reason: "cannot have both IGST and CGST/SGST on the same bill",
		}
	case hasIGST:
		return domain.GSTTypeIGST, nil
	case hasState:
		if !cgst.Equal(sgst) {
			return domain.GSTTypeUnknown, &domain.TaxInconsistencyError{
				IGST: igst, CGST: cgst, SGST: sgst,
				Reason: "CGST " + cgst.StringFixed(2) + " does not equal SGST " + sgst.StringFixed(2),
			}
		}
		return domain.GSTTypeCGSTSGST, nil
	default:
		return domain.GSTTypeUnknown, nil
	}
}

// LineSplit holds the per-component tax derived for one line item.
type LineSplit struct {
	IGST decimal.Decimal
	CGST decimal.Decimal
	SGST decimal.Decimal
}

// SplitLine computes the tax components for a line amount under the bill's
// classified regime. The slab percentage is applied to the net amount and
// rounded half away from zero at 2 decimals; for the intra-state regime the
// result is halved into equal CGST and SGST parts. Exempted and N/A slabs
// carry no tax.
func SplitLine(amount decimal.Decimal, rate domain.TaxRate, gstType domain.GSTType) LineSplit {
	percent, ok := rate.Percent()
	if !ok || percent.IsZero() || amount.IsZero() {
		return LineSplit{IGST: decimal.Zero, CGST: decimal.Zero, SGST: decimal.Zero}
	}

	taxAmount := money.Percentage(amount, percent)
	switch gstType {
	case domain.GSTTypeIGST:
		return LineSplit{IGST: taxAmount, CGST: decimal.Zero, SGST: decimal.Zero}
	case domain.GSTTypeCGSTSGST:
		half := money.HalfOf(taxAmount)
		return LineSplit{IGST: decimal.Zero, CGST: half, SGST: half}
	default:
		return LineSplit{IGST: decimal.Zero, CGST: decimal.Zero, SGST: decimal.Zero}
	}
}

// Totals aggregates per-line splits without intermediate rounding. The line
// sum is the authoritative figure; header amounts are only a cross-check.
func Totals(splits []LineSplit) LineSplit {
	total := LineSplit{IGST: decimal.Zero, CGST: decimal.Zero, SGST: decimal.Zero}
	for _, s := range splits {
		total.IGST = total.IGST.Add(s.IGST)
		total.CGST = total.CGST.Add(s.CGST)
		total.SGST = total.SGST.Add(s.SGST)
	}
	return total
}

// headerTolerance absorbs the rounding drift between per-line splits and the
// header figures copied off the document.
var headerTolerance = decimal.NewFromFloat(0.01)

// Reconcile cross-checks the declared header amounts against the aggregated
// line splits. The line sum is authoritative; a header that disagrees beyond
// tolerance on any component is returned to the operator, never coerced.
func Reconcile(header, lineSum LineSplit) error {
	components := []struct {
		name     string
		declared decimal.Decimal
		derived  decimal.Decimal
	}{
		{"IGST", header.IGST, lineSum.IGST},
		{"CGST", header.CGST, lineSum.CGST},
		{"SGST", header.SGST, lineSum.SGST},
	}
	for _, c := range components {
		if !money.WithinTolerance(money.Round2(c.declared), money.Round2(c.derived), headerTolerance) {
			return &domain.TaxInconsistencyError{
				IGST: header.IGST, CGST: header.CGST, SGST: header.SGST,
				Reason: "header " + c.name + " " + c.declared.StringFixed(2) +
					" does not match line-derived " + c.name + " " + c.derived.StringFixed(2),
			}
		}
	}
	return nil
}
