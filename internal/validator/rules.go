package validator

import (
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	"billmunshi/internal/money"
)

var gstinPattern = regexp.MustCompile(`^\d{2}[A-Z]{5}\d{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// tolerance for advisory amount comparisons. Looser than the balancer's,
// these findings only guide the operator.
var checkTolerance = decimal.NewFromFloat(0.05)

func builtinRules() []Rule {
	return []Rule{
		&funcRule{key: "bill_number_present", severity: SeverityWarning, check: checkBillNumber},
		&funcRule{key: "bill_date_plausible", severity: SeverityWarning, check: checkBillDate},
		&funcRule{key: "vendor_gstin_format", severity: SeverityWarning, check: checkVendorGSTIN},
		&funcRule{key: "line_amount_math", severity: SeverityWarning, check: checkLineMath},
		&funcRule{key: "line_sum_vs_total", severity: SeverityError, check: checkLineSum},
	}
}

type funcRule struct {
	key      string
	severity Severity
	check    func(r *funcRule, s *Subject) []Result
}

func (r *funcRule) RuleKey() string    { return r.key }
func (r *funcRule) Severity() Severity { return r.severity }

func (r *funcRule) Check(s *Subject) []Result {
	return r.check(r, s)
}

func (r *funcRule) result(fieldPath string, passed bool, msg string) Result {
	return Result{
		RuleKey:   r.key,
		Severity:  r.severity,
		FieldPath: fieldPath,
		Passed:    passed,
		Message:   msg,
	}
}

func checkBillNumber(r *funcRule, s *Subject) []Result {
	if s.Bill.BillNo == "" {
		return []Result{r.result("bill_no", false, "bill number missing from analysis, enter it before verifying")}
	}
	return []Result{r.result("bill_no", true, "bill number present")}
}

func checkBillDate(r *funcRule, s *Subject) []Result {
	if s.Bill.BillDate == nil {
		return []Result{r.result("bill_date", false, "bill date missing or unparsable")}
	}
	now := time.Now()
	switch {
	case s.Bill.BillDate.After(now.AddDate(0, 0, 1)):
		return []Result{r.result("bill_date", false, "bill date is in the future")}
	case s.Bill.BillDate.Before(now.AddDate(-10, 0, 0)):
		return []Result{r.result("bill_date", false, "bill date is more than 10 years old")}
	}
	return []Result{r.result("bill_date", true, "bill date is plausible")}
}

func checkVendorGSTIN(r *funcRule, s *Subject) []Result {
	if s.Vendor == nil {
		return []Result{r.result("vendor", false, "no vendor ledger resolved")}
	}
	if s.Vendor.GSTIN == "" {
		return []Result{r.result("vendor.gstin", true, "vendor ledger carries no GSTIN, skipping format check")}
	}
	if !gstinPattern.MatchString(s.Vendor.GSTIN) {
		return []Result{r.result("vendor.gstin", false,
			fmt.Sprintf("vendor GSTIN %q does not match the GSTIN format", s.Vendor.GSTIN))}
	}
	return []Result{r.result("vendor.gstin", true, "vendor GSTIN format is valid")}
}

func checkLineMath(r *funcRule, s *Subject) []Result {
	var results []Result
	for i, it := range s.Items {
		field := fmt.Sprintf("lines[%d].amount", i)
		if it.Quantity <= 0 || !it.Price.IsPositive() {
			results = append(results, r.result(field, true, "no quantity x price to cross-check"))
			continue
		}
		expected := money.Round2(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		if money.WithinTolerance(expected, money.Round2(it.Amount), checkTolerance) {
			results = append(results, r.result(field, true, "amount agrees with quantity x price"))
		} else {
			results = append(results, r.result(field, false,
				fmt.Sprintf("amount %s disagrees with quantity x price %s", it.Amount.StringFixed(2), expected.StringFixed(2))))
		}
	}
	return results
}

func checkLineSum(r *funcRule, s *Subject) []Result {
	if len(s.Items) == 0 {
		return []Result{r.result("lines", false, "analysis produced no line items")}
	}
	lineSum := decimal.Zero
	for _, it := range s.Items {
		lineSum = lineSum.Add(it.Amount)
	}
	taxSum := money.Sum(s.Bill.IGST, s.Bill.CGST, s.Bill.SGST)
	computed := money.Round2(lineSum.Add(taxSum))

	if s.Bill.Total.IsZero() {
		return []Result{r.result("total", false, "no declared total to reconcile against")}
	}
	if money.WithinTolerance(computed, money.Round2(s.Bill.Total), checkTolerance) {
		return []Result{r.result("total", true, "line sum plus tax agrees with declared total")}
	}
	return []Result{r.result("total", false,
		fmt.Sprintf("line sum plus tax %s disagrees with declared total %s", computed.StringFixed(2), s.Bill.Total.StringFixed(2)))}
}
