package bridge

import (
	"billmunshi/internal/domain"
)

// dateLayout is the dd-mm-yyyy format the desktop bridge expects.
const dateLayout = "02-01-2006"

// DRCREntry is one debit or credit line in the bridge payload. The bridge
// addresses ledgers by display name, not id.
type DRCREntry struct {
	LedgerName string  `json:"LEDGERNAME"`
	Amount     float64 `json:"AMOUNT"`
}

// Voucher is one synced bill rendered for the desktop bridge, grouped by the
// voucher reference key.
type Voucher struct {
	ID       string      `json:"id"`
	Voucher  string      `json:"voucher"`
	BillNo   string      `json:"bill_no"`
	BillDate string      `json:"bill_date"`
	Total    float64     `json:"total"`
	Name     string      `json:"name"`
	Company  string      `json:"company"`
	GSTIn    string      `json:"gst_in"`
	DRLedger []DRCREntry `json:"DR_LEDGER"`
	CRLedger []DRCREntry `json:"CR_LEDGER"`
	Note     string      `json:"note"`
}

// SyncedResponse is the bridge pull response listing every synced voucher.
type SyncedResponse struct {
	Data []Voucher `json:"data"`
}

// LedgerRow is one Tally ledger row pushed by the bridge. Field names follow
// the Tally export format.
type LedgerRow struct {
	MasterID       string `json:"Master_Id"`
	Name           string `json:"Name"`
	Parent         string `json:"Parent"`
	Alias          string `json:"ALIAS"`
	OpeningBalance string `json:"OpeningBalance"`
	GSTIN          string `json:"GSTIN"`
	Company        string `json:"Company"`
}

// LedgerPayload is the bridge ledger ingest body.
type LedgerPayload struct {
	Ledger []LedgerRow `json:"LEDGER"`
}

// RenderVoucher projects one balanced posting into the bridge DR/CR shape.
// Every entry's ledger id must resolve to a display name; a miss fails the
// render rather than emitting a placeholder.
func RenderVoucher(bill *domain.AnalyzedBill, posting domain.Posting, ledgers []domain.Ledger, vendor *domain.Ledger) (*Voucher, error) {
	v := &Voucher{
		ID:      bill.ID.String(),
		Voucher: orNA(bill.Voucher),
		BillNo:  orNA(bill.BillNo),
		Total:   totalFloat(bill),
		Note:    bill.Note,
	}
	if bill.BillDate != nil {
		v.BillDate = bill.BillDate.Format(dateLayout)
	}
	if vendor != nil {
		v.Name = vendor.Name
		v.Company = vendor.Company
		v.GSTIn = vendor.GSTIN
	}

	byID := make(map[string]string, len(ledgers))
	for _, l := range ledgers {
		byID[l.ID.String()] = l.Name
	}

	for _, e := range posting.Entries {
		name, ok := byID[e.LedgerID.String()]
		if !ok || name == "" {
			return nil, &domain.UnresolvedLedgerNameError{LedgerID: e.LedgerID.String()}
		}
		amount, _ := e.Amount.Round(2).Float64()
		entry := DRCREntry{LedgerName: name, Amount: amount}
		if e.Side == domain.SideDebit {
			v.DRLedger = append(v.DRLedger, entry)
		} else {
			v.CRLedger = append(v.CRLedger, entry)
		}
	}
	return v, nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func totalFloat(bill *domain.AnalyzedBill) float64 {
	f, _ := bill.Total.Round(2).Float64()
	return f
}
