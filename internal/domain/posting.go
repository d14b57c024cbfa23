package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerEntry is a single debit or credit against one ledger account.
type LedgerEntry struct {
	LedgerID    uuid.UUID       `json:"ledger_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Side        EntrySide       `json:"side"`
}

// Posting is an ordered set of ledger entries representing one accounting
// transaction. A valid posting satisfies sum(debits) == sum(credits).
type Posting struct {
	Entries []LedgerEntry `json:"entries"`
}

// SideTotal sums the entries tagged with the given side.
func (p Posting) SideTotal(side EntrySide) decimal.Decimal {
	total := decimal.Zero
	for _, e := range p.Entries {
		if e.Side == side {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// DebitTotal sums the debit side.
func (p Posting) DebitTotal() decimal.Decimal { return p.SideTotal(SideDebit) }

// CreditTotal sums the credit side.
func (p Posting) CreditTotal() decimal.Decimal { return p.SideTotal(SideCredit) }

// Balanced reports whether debits equal credits exactly at 2 decimals.
func (p Posting) Balanced() bool {
	return p.DebitTotal().Round(2).Equal(p.CreditTotal().Round(2))
}

// CheckBalanced returns an UnbalancedPostingError when the posting does not
// balance.
func (p Posting) CheckBalanced() error {
	debit, credit := p.DebitTotal().Round(2), p.CreditTotal().Round(2)
	if !debit.Equal(credit) {
		return &UnbalancedPostingError{Debit: debit, Credit: credit}
	}
	return nil
}
