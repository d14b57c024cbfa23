package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"billmunshi/internal/bridge"
)

const sheetName = "Synced Bills"

var headerRow = []string{
	"Voucher", "Bill No", "Bill Date", "Vendor", "Company", "GSTIN",
	"Ledger", "Debit", "Credit", "Total",
}

// SyncedWorkbook renders the synced vouchers into an xlsx workbook, one row
// per ledger entry with the voucher header repeated on its first row.
func SyncedWorkbook(resp *bridge.SyncedResponse) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("export.SyncedWorkbook: %w", err)
	}

	for col, title := range headerRow {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, title); err != nil {
			return nil, fmt.Errorf("export.SyncedWorkbook header: %w", err)
		}
	}

	row := 2
	for _, v := range resp.Data {
		first := true
		writeEntry := func(ledgerName string, debit, credit float64) error {
			values := []interface{}{"", "", "", "", "", "", ledgerName, nil, nil, nil}
			if debit != 0 {
				values[7] = debit
			}
			if credit != 0 {
				values[8] = credit
			}
			if first {
				values[0] = v.Voucher
				values[1] = v.BillNo
				values[2] = v.BillDate
				values[3] = v.Name
				values[4] = v.Company
				values[5] = v.GSTIn
				values[9] = v.Total
				first = false
			}
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
				return fmt.Errorf("export.SyncedWorkbook row %d: %w", row, err)
			}
			row++
			return nil
		}

		for _, e := range v.DRLedger {
			if err := writeEntry(e.LedgerName, e.Amount, 0); err != nil {
				return nil, err
			}
		}
		for _, e := range v.CRLedger {
			if err := writeEntry(e.LedgerName, 0, e.Amount); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}
