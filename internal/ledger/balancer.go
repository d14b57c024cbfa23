package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"billmunshi/internal/domain"
	"billmunshi/internal/money"
)

// Tolerance applied when reconciling computed totals against the declared
// bill total. Covers rounding drift in per-line tax splits; the posting
// itself must still balance exactly at 2 decimals.
var totalTolerance = decimal.NewFromFloat(0.01)

// BuildExpensePosting balances an expense journal. Line items carry an
// operator-assigned side; when exactly one side has entries, the vendor
// ledger is synthesized as the counter-entry for the full amount. When both
// sides carry entries no balancing is done, the operator's figures must
// already agree.
func BuildExpensePosting(bill *domain.AnalyzedBill, items []domain.BillLineItem) (domain.Posting, error) {
	if err := requireChartOfAccounts(items); err != nil {
		return domain.Posting{}, err
	}

	var entries []domain.LedgerEntry
	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	for _, it := range items {
		entries = append(entries, domain.LedgerEntry{
			LedgerID:    *it.COALedgerID,
			Description: it.ItemName,
			Amount:      money.Round2(it.Amount),
			Side:        it.Side,
		})
		if it.Side == domain.SideDebit {
			totalDebit = totalDebit.Add(it.Amount)
		} else {
			totalCredit = totalCredit.Add(it.Amount)
		}
	}

	// Tax header amounts participate on the vendor's counter side with
	// their own ledgers, when assigned.
	taxEntries, taxTotal, err := taxLedgerEntries(bill, bill.VendorSide.Opposite())
	if err != nil {
		return domain.Posting{}, err
	}
	if bill.VendorSide.Opposite() == domain.SideDebit {
		totalDebit = totalDebit.Add(taxTotal)
	} else {
		totalCredit = totalCredit.Add(taxTotal)
	}
	entries = append(entries, taxEntries...)

	switch {
	case totalDebit.IsPositive() && totalCredit.IsZero():
		vendorID, verr := requireVendor(bill)
		if verr != nil {
			return domain.Posting{}, verr
		}
		entries = append(entries, domain.LedgerEntry{
			LedgerID:    vendorID,
			Description: "vendor payable",
			Amount:      money.Round2(totalDebit),
			Side:        domain.SideCredit,
		})
	case totalCredit.IsPositive() && totalDebit.IsZero():
		vendorID, verr := requireVendor(bill)
		if verr != nil {
			return domain.Posting{}, verr
		}
		entries = append(entries, domain.LedgerEntry{
			LedgerID:    vendorID,
			Description: "vendor receivable",
			Amount:      money.Round2(totalCredit),
			Side:        domain.SideDebit,
		})
	default:
		if !money.Round2(totalDebit).Equal(money.Round2(totalCredit)) {
			return domain.Posting{}, &domain.UnbalancedPostingError{
				Debit:  money.Round2(totalDebit),
				Credit: money.Round2(totalCredit),
			}
		}
	}

	posting := domain.Posting{Entries: entries}
	if err := posting.CheckBalanced(); err != nil {
		return domain.Posting{}, err
	}
	return posting, nil
}

// BuildVendorPosting balances a vendor (purchase) bill. Every line is a
// debit net of tax, each active tax component debits its tax ledger, and a
// single vendor credit carries the grand total. The computed grand total
// must reconcile with the declared bill total; the declared total is the
// human-verified record and is never adjusted to fit.
func BuildVendorPosting(bill *domain.AnalyzedBill, items []domain.BillLineItem) (domain.Posting, error) {
	if err := requireChartOfAccounts(items); err != nil {
		return domain.Posting{}, err
	}
	vendorID, err := requireVendor(bill)
	if err != nil {
		return domain.Posting{}, err
	}

	var entries []domain.LedgerEntry
	netTotal := decimal.Zero
	for _, it := range items {
		entries = append(entries, domain.LedgerEntry{
			LedgerID:    *it.COALedgerID,
			Description: it.ItemName,
			Amount:      money.Round2(it.Amount),
			Side:        domain.SideDebit,
		})
		netTotal = netTotal.Add(it.Amount)
	}

	taxEntries, taxTotal, err := taxLedgerEntries(bill, domain.SideDebit)
	if err != nil {
		return domain.Posting{}, err
	}
	entries = append(entries, taxEntries...)

	grandTotal := money.Round2(netTotal.Add(taxTotal))
	if !money.WithinTolerance(grandTotal, money.Round2(bill.Total), totalTolerance) {
		return domain.Posting{}, &domain.TotalMismatchError{
			Declared: money.Round2(bill.Total),
			Computed: grandTotal,
		}
	}

	entries = append(entries, domain.LedgerEntry{
		LedgerID:    vendorID,
		Description: "vendor payable",
		Amount:      grandTotal,
		Side:        domain.SideCredit,
	})

	posting := domain.Posting{Entries: entries}
	if err := posting.CheckBalanced(); err != nil {
		return domain.Posting{}, err
	}
	return posting, nil
}

// BuildPosting dispatches on the bill kind.
func BuildPosting(kind domain.BillKind, bill *domain.AnalyzedBill, items []domain.BillLineItem) (domain.Posting, error) {
	if kind == domain.BillKindExpense {
		return BuildExpensePosting(bill, items)
	}
	return BuildVendorPosting(bill, items)
}

// taxLedgerEntries returns one entry per active tax component on the given
// side. A non-zero component without an assigned tax ledger is a missing
// chart-of-accounts reference.
func taxLedgerEntries(bill *domain.AnalyzedBill, side domain.EntrySide) ([]domain.LedgerEntry, decimal.Decimal, error) {
	components := []struct {
		name   string
		amount decimal.Decimal
		ledger *uuid.UUID
	}{
		{"IGST", bill.IGST, bill.IGSTLedger},
		{"CGST", bill.CGST, bill.CGSTLedger},
		{"SGST", bill.SGST, bill.SGSTLedger},
	}

	var entries []domain.LedgerEntry
	total := decimal.Zero
	for _, c := range components {
		if c.amount.IsZero() {
			continue
		}
		if c.ledger == nil {
			return nil, decimal.Zero, &domain.MissingChartOfAccountsError{LineIndex: -1, ItemName: c.name}
		}
		entries = append(entries, domain.LedgerEntry{
			LedgerID:    *c.ledger,
			Description: c.name,
			Amount:      money.Round2(c.amount),
			Side:        side,
		})
		total = total.Add(c.amount)
	}
	return entries, total, nil
}

func requireChartOfAccounts(items []domain.BillLineItem) error {
	for i, it := range items {
		if it.COALedgerID == nil {
			return &domain.MissingChartOfAccountsError{LineIndex: i, ItemName: it.ItemName}
		}
	}
	return nil
}

func requireVendor(bill *domain.AnalyzedBill) (uuid.UUID, error) {
	if bill.VendorID == nil {
		return uuid.Nil, &domain.MissingChartOfAccountsError{LineIndex: -1, ItemName: "vendor"}
	}
	return *bill.VendorID, nil
}
