package books

import (
	"encoding/json"
	"fmt"
	"time"

	"billmunshi/internal/domain"
)

// JournalLine is one line of the cloud accounting journal payload.
type JournalLine struct {
	AccountID     string `json:"account_id"`
	Description   string `json:"description"`
	DebitOrCredit string `json:"debit_or_credit"`
	Amount        string `json:"amount"`
}

// JournalPayload is the journal shape accepted by the cloud accounting API.
type JournalPayload struct {
	JournalDate     string        `json:"journal_date"`
	ReferenceNumber string        `json:"reference_number"`
	Notes           string        `json:"notes,omitempty"`
	LineItems       []JournalLine `json:"line_items"`
}

// AssembleJournal projects a balanced posting into the journal payload. It is
// a pure rendering of the posting; balances were established by the ledger
// balancer and are never recomputed here.
func AssembleJournal(bill *domain.AnalyzedBill, posting domain.Posting, ledgers map[string]string) (*JournalPayload, error) {
	date := time.Now()
	if bill.BillDate != nil {
		date = *bill.BillDate
	}

	lines := make([]JournalLine, 0, len(posting.Entries))
	for _, e := range posting.Entries {
		accountID, ok := ledgers[e.LedgerID.String()]
		if !ok || accountID == "" {
			return nil, &domain.UnresolvedLedgerNameError{LedgerID: e.LedgerID.String()}
		}
		lines = append(lines, JournalLine{
			AccountID:     accountID,
			Description:   e.Description,
			DebitOrCredit: string(e.Side),
			Amount:        e.Amount.StringFixed(2),
		})
	}

	reference := bill.BillNo
	if reference == "" {
		reference = bill.Voucher
	}

	return &JournalPayload{
		JournalDate:     date.Format("2006-01-02"),
		ReferenceNumber: reference,
		Notes:           bill.Note,
		LineItems:       lines,
	}, nil
}

// Encode serializes the payload for the poster.
func (p *JournalPayload) Encode() ([]byte, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("books.Encode: %w", err)
	}
	return b, nil
}
