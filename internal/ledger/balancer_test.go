package ledger_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billmunshi/internal/domain"
	"billmunshi/internal/ledger"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func uuidPtr() *uuid.UUID {
	id := uuid.New()
	return &id
}

func entryFor(t *testing.T, posting domain.Posting, ledgerID uuid.UUID) domain.LedgerEntry {
	t.Helper()
	for _, e := range posting.Entries {
		if e.LedgerID == ledgerID {
			return e
		}
	}
	t.Fatalf("no entry for ledger %s", ledgerID)
	return domain.LedgerEntry{}
}

func TestBuildVendorPosting_IGSTBill(t *testing.T) {
	vendorID := uuidPtr()
	igstLedger := uuidPtr()
	expenseLedger := uuidPtr()

	bill := &domain.AnalyzedBill{
		VendorID:   vendorID,
		VendorSide: domain.SideCredit,
		GSTType:    domain.GSTTypeIGST,
		Total:      d("11800"),
		IGST:       d("1800"),
		IGSTLedger: igstLedger,
	}
	items := []domain.BillLineItem{
		{ItemName: "consulting services", COALedgerID: expenseLedger, Amount: d("10000"), TaxRate: domain.TaxRate18},
	}

	posting, err := ledger.BuildVendorPosting(bill, items)
	require.NoError(t, err)
	require.Len(t, posting.Entries, 3)

	line := entryFor(t, posting, *expenseLedger)
	assert.Equal(t, domain.SideDebit, line.Side)
	assert.True(t, line.Amount.Equal(d("10000")))

	taxEntry := entryFor(t, posting, *igstLedger)
	assert.Equal(t, domain.SideDebit, taxEntry.Side)
	assert.True(t, taxEntry.Amount.Equal(d("1800")))

	vendorEntry := entryFor(t, posting, *vendorID)
	assert.Equal(t, domain.SideCredit, vendorEntry.Side)
	assert.True(t, vendorEntry.Amount.Equal(d("11800")), "vendor credit = %s", vendorEntry.Amount)

	assert.True(t, posting.Balanced())
}

func TestBuildVendorPosting_CGSTSGSTBill(t *testing.T) {
	vendorID := uuidPtr()
	cgstLedger := uuidPtr()
	sgstLedger := uuidPtr()
	expenseLedger := uuidPtr()

	bill := &domain.AnalyzedBill{
		VendorID:   vendorID,
		VendorSide: domain.SideCredit,
		GSTType:    domain.GSTTypeCGSTSGST,
		Total:      d("11800"),
		CGST:       d("900"),
		CGSTLedger: cgstLedger,
		SGST:       d("900"),
		SGSTLedger: sgstLedger,
	}
	items := []domain.BillLineItem{
		{ItemName: "office chairs", COALedgerID: expenseLedger, Amount: d("10000"), TaxRate: domain.TaxRate18},
	}

	posting, err := ledger.BuildVendorPosting(bill, items)
	require.NoError(t, err)
	require.Len(t, posting.Entries, 4)
	assert.True(t, posting.DebitTotal().Equal(d("11800")))
	assert.True(t, posting.CreditTotal().Equal(d("11800")))
}

func TestBuildVendorPosting_TotalMismatch(t *testing.T) {
	bill := &domain.AnalyzedBill{
		VendorID:   uuidPtr(),
		VendorSide: domain.SideCredit,
		Total:      d("12000"),
		IGST:       d("1800"),
		IGSTLedger: uuidPtr(),
	}
	items := []domain.BillLineItem{
		{ItemName: "consulting services", COALedgerID: uuidPtr(), Amount: d("10000")},
	}

	_, err := ledger.BuildVendorPosting(bill, items)
	require.Error(t, err)

	var mismatch *domain.TotalMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.True(t, mismatch.Declared.Equal(d("12000")))
	assert.True(t, mismatch.Computed.Equal(d("11800")))
}

func TestBuildVendorPosting_ToleratesRoundingDrift(t *testing.T) {
	bill := &domain.AnalyzedBill{
		VendorID:   uuidPtr(),
		VendorSide: domain.SideCredit,
		Total:      d("11800.01"),
		IGST:       d("1800"),
		IGSTLedger: uuidPtr(),
	}
	items := []domain.BillLineItem{
		{ItemName: "consulting services", COALedgerID: uuidPtr(), Amount: d("10000")},
	}

	_, err := ledger.BuildVendorPosting(bill, items)
	assert.NoError(t, err)
}

func TestBuildVendorPosting_MissingLineLedger(t *testing.T) {
	bill := &domain.AnalyzedBill{VendorID: uuidPtr(), Total: d("5000")}
	items := []domain.BillLineItem{
		{ItemName: "stationery", COALedgerID: uuidPtr(), Amount: d("2000")},
		{ItemName: "printer ink", Amount: d("3000")},
	}

	_, err := ledger.BuildVendorPosting(bill, items)
	require.Error(t, err)

	var missing *domain.MissingChartOfAccountsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, 1, missing.LineIndex)
	assert.Equal(t, "printer ink", missing.ItemName)
}

func TestBuildVendorPosting_MissingVendor(t *testing.T) {
	bill := &domain.AnalyzedBill{Total: d("5000")}
	items := []domain.BillLineItem{
		{ItemName: "stationery", COALedgerID: uuidPtr(), Amount: d("5000")},
	}

	_, err := ledger.BuildVendorPosting(bill, items)
	require.Error(t, err)

	var missing *domain.MissingChartOfAccountsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, -1, missing.LineIndex)
	assert.Equal(t, "vendor", missing.ItemName)
}

func TestBuildVendorPosting_MissingTaxLedger(t *testing.T) {
	bill := &domain.AnalyzedBill{
		VendorID: uuidPtr(),
		Total:    d("11800"),
		IGST:     d("1800"),
	}
	items := []domain.BillLineItem{
		{ItemName: "consulting services", COALedgerID: uuidPtr(), Amount: d("10000")},
	}

	_, err := ledger.BuildVendorPosting(bill, items)
	require.Error(t, err)

	var missing *domain.MissingChartOfAccountsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "IGST", missing.ItemName)
}

func TestBuildExpensePosting_SynthesizesVendorCounterEntry(t *testing.T) {
	vendorID := uuidPtr()
	expenseLedger := uuidPtr()

	bill := &domain.AnalyzedBill{
		VendorID:   vendorID,
		VendorSide: domain.SideCredit,
		Total:      d("5000"),
	}
	items := []domain.BillLineItem{
		{ItemName: "travel reimbursement", COALedgerID: expenseLedger, Amount: d("5000"), Side: domain.SideDebit},
	}

	posting, err := ledger.BuildExpensePosting(bill, items)
	require.NoError(t, err)
	require.Len(t, posting.Entries, 2)

	vendorEntry := entryFor(t, posting, *vendorID)
	assert.Equal(t, domain.SideCredit, vendorEntry.Side)
	assert.True(t, vendorEntry.Amount.Equal(d("5000")))
	assert.True(t, posting.Balanced())
}

func TestBuildExpensePosting_BothSidesMustAgree(t *testing.T) {
	bill := &domain.AnalyzedBill{VendorID: uuidPtr(), VendorSide: domain.SideCredit}
	items := []domain.BillLineItem{
		{ItemName: "advance paid", COALedgerID: uuidPtr(), Amount: d("3000"), Side: domain.SideDebit},
		{ItemName: "cash", COALedgerID: uuidPtr(), Amount: d("2500"), Side: domain.SideCredit},
	}

	_, err := ledger.BuildExpensePosting(bill, items)
	require.Error(t, err)

	var unbalanced *domain.UnbalancedPostingError
	require.True(t, errors.As(err, &unbalanced))
	assert.True(t, unbalanced.Debit.Equal(d("3000")))
	assert.True(t, unbalanced.Credit.Equal(d("2500")))
}

func TestBuildExpensePosting_BothSidesBalanced(t *testing.T) {
	bill := &domain.AnalyzedBill{VendorID: uuidPtr(), VendorSide: domain.SideCredit}
	items := []domain.BillLineItem{
		{ItemName: "advance paid", COALedgerID: uuidPtr(), Amount: d("3000"), Side: domain.SideDebit},
		{ItemName: "cash", COALedgerID: uuidPtr(), Amount: d("3000"), Side: domain.SideCredit},
	}

	posting, err := ledger.BuildExpensePosting(bill, items)
	require.NoError(t, err)
	assert.Len(t, posting.Entries, 2)
}

func TestBuildExpensePosting_TaxOnCounterSide(t *testing.T) {
	vendorID := uuidPtr()
	igstLedger := uuidPtr()

	bill := &domain.AnalyzedBill{
		VendorID:   vendorID,
		VendorSide: domain.SideCredit,
		IGST:       d("900"),
		IGSTLedger: igstLedger,
	}
	items := []domain.BillLineItem{
		{ItemName: "software licence", COALedgerID: uuidPtr(), Amount: d("5000"), Side: domain.SideDebit},
	}

	posting, err := ledger.BuildExpensePosting(bill, items)
	require.NoError(t, err)

	taxEntry := entryFor(t, posting, *igstLedger)
	assert.Equal(t, domain.SideDebit, taxEntry.Side)

	vendorEntry := entryFor(t, posting, *vendorID)
	assert.True(t, vendorEntry.Amount.Equal(d("5900")), "vendor counter-entry = %s", vendorEntry.Amount)
	assert.True(t, posting.Balanced())
}

func TestBuildPosting_DispatchesOnKind(t *testing.T) {
	vendorID := uuidPtr()
	bill := &domain.AnalyzedBill{
		VendorID:   vendorID,
		VendorSide: domain.SideCredit,
		Total:      d("1000"),
	}
	items := []domain.BillLineItem{
		{ItemName: "subscription", COALedgerID: uuidPtr(), Amount: d("1000"), Side: domain.SideDebit},
	}

	vendorPosting, err := ledger.BuildPosting(domain.BillKindVendor, bill, items)
	require.NoError(t, err)
	expensePosting, err := ledger.BuildPosting(domain.BillKindExpense, bill, items)
	require.NoError(t, err)

	assert.True(t, vendorPosting.Balanced())
	assert.True(t, expensePosting.Balanced())
}
