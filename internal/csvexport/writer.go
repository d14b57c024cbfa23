// Package csvexport renders synced vouchers as CSV for spreadsheet import.
package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"billmunshi/internal/bridge"
)

// BOM is the UTF-8 byte order mark, written first so Excel on Windows
// detects the encoding.
var BOM = []byte{0xEF, 0xBB, 0xBF}

var columns = []string{
	"Voucher", "Bill No", "Bill Date", "Vendor", "Company", "GSTIN",
	"Ledger", "Debit", "Credit", "Total",
}

// WriteSynced streams the synced vouchers to w, one row per ledger entry
// with the voucher header repeated on its first row. Mirrors the xlsx
// export layout.
func WriteSynced(w io.Writer, resp *bridge.SyncedResponse) error {
	if _, err := w.Write(BOM); err != nil {
		return fmt.Errorf("csvexport.WriteSynced: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("csvexport.WriteSynced header: %w", err)
	}

	for _, v := range resp.Data {
		first := true
		writeEntry := func(ledgerName string, debit, credit float64) error {
			row := make([]string, len(columns))
			row[6] = ledgerName
			if debit != 0 {
				row[7] = amount(debit)
			}
			if credit != 0 {
				row[8] = amount(credit)
			}
			if first {
				row[0] = v.Voucher
				row[1] = v.BillNo
				row[2] = v.BillDate
				row[3] = v.Name
				row[4] = v.Company
				row[5] = v.GSTIn
				row[9] = amount(v.Total)
				first = false
			}
			return cw.Write(row)
		}

		for _, e := range v.DRLedger {
			if err := writeEntry(e.LedgerName, e.Amount, 0); err != nil {
				return fmt.Errorf("csvexport.WriteSynced row: %w", err)
			}
		}
		for _, e := range v.CRLedger {
			if err := writeEntry(e.LedgerName, 0, e.Amount); err != nil {
				return fmt.Errorf("csvexport.WriteSynced row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func amount(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
