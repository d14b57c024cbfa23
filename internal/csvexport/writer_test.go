package csvexport_test

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billmunshi/internal/bridge"
	"billmunshi/internal/csvexport"
)

func sampleResponse() *bridge.SyncedResponse {
	return &bridge.SyncedResponse{
		Data: []bridge.Voucher{
			{
				ID:       "0b7f9f2e-9a33-4a7c-8a50-1d2eaddc9a01",
				Voucher:  "BM-TB-7",
				BillNo:   "INV-2024-117",
				BillDate: "15-06-2024",
				Total:    11800,
				Name:     "Acme Traders",
				Company:  "Acme Traders Pvt Ltd",
				GSTIn:    "29ABCDE1234F1Z5",
				DRLedger: []bridge.DRCREntry{
					{LedgerName: "Office Supplies", Amount: 10000},
					{LedgerName: "IGST Input", Amount: 1800},
				},
				CRLedger: []bridge.DRCREntry{
					{LedgerName: "Acme Traders", Amount: 11800},
				},
			},
		},
	}
}

func parseCSV(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	raw := buf.Bytes()
	require.True(t, bytes.HasPrefix(raw, csvexport.BOM), "output must start with the UTF-8 BOM")
	rows, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, csvexport.BOM))).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteSynced_Layout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, csvexport.WriteSynced(&buf, sampleResponse()))

	rows := parseCSV(t, &buf)
	require.Len(t, rows, 4)

	assert.Equal(t, []string{
		"Voucher", "Bill No", "Bill Date", "Vendor", "Company", "GSTIN",
		"Ledger", "Debit", "Credit", "Total",
	}, rows[0])

	// voucher header only on its first entry row
	assert.Equal(t, []string{
		"BM-TB-7", "INV-2024-117", "15-06-2024", "Acme Traders",
		"Acme Traders Pvt Ltd", "29ABCDE1234F1Z5",
		"Office Supplies", "10000.00", "", "11800.00",
	}, rows[1])
	assert.Equal(t, []string{
		"", "", "", "", "", "", "IGST Input", "1800.00", "", "",
	}, rows[2])

	// credits follow the debits and fill the credit column only
	assert.Equal(t, []string{
		"", "", "", "", "", "", "Acme Traders", "", "11800.00", "",
	}, rows[3])
}

func TestWriteSynced_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, csvexport.WriteSynced(&buf, &bridge.SyncedResponse{}))

	rows := parseCSV(t, &buf)
	require.Len(t, rows, 1, "only the header row")
}
