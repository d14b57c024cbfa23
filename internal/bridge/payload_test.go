package bridge_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billmunshi/internal/bridge"
	"billmunshi/internal/domain"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRenderVoucher_DRCRShape(t *testing.T) {
	expenseID := uuid.New()
	taxID := uuid.New()
	vendorID := uuid.New()
	billDate := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	bill := &domain.AnalyzedBill{
		ID:       uuid.New(),
		Voucher:  "BM-TB-7",
		BillNo:   "INV-2024-117",
		BillDate: &billDate,
		Total:    d("11800"),
		Note:     "imported",
	}
	posting := domain.Posting{Entries: []domain.LedgerEntry{
		{LedgerID: expenseID, Description: "Consulting services", Amount: d("10000"), Side: domain.SideDebit},
		{LedgerID: taxID, Description: "IGST", Amount: d("1800"), Side: domain.SideDebit},
		{LedgerID: vendorID, Description: "vendor payable", Amount: d("11800"), Side: domain.SideCredit},
	}}
	ledgers := []domain.Ledger{
		{ID: expenseID, Name: "Professional Charges"},
		{ID: taxID, Name: "IGST Input"},
		{ID: vendorID, Name: "Acme Traders"},
	}
	vendor := &ledgers[2]
	vendor.Company = "Acme Traders Pvt Ltd"
	vendor.GSTIN = "29ABCDE1234F1Z5"

	v, err := bridge.RenderVoucher(bill, posting, ledgers, vendor)
	require.NoError(t, err)

	assert.Equal(t, "BM-TB-7", v.Voucher)
	assert.Equal(t, "INV-2024-117", v.BillNo)
	assert.Equal(t, "15-06-2024", v.BillDate)
	assert.Equal(t, 11800.0, v.Total)
	assert.Equal(t, "Acme Traders", v.Name)
	assert.Equal(t, "29ABCDE1234F1Z5", v.GSTIn)

	require.Len(t, v.DRLedger, 2)
	require.Len(t, v.CRLedger, 1)
	assert.Equal(t, "Professional Charges", v.DRLedger[0].LedgerName)
	assert.Equal(t, 10000.0, v.DRLedger[0].Amount)
	assert.Equal(t, "Acme Traders", v.CRLedger[0].LedgerName)
	assert.Equal(t, 11800.0, v.CRLedger[0].Amount)
}

func TestRenderVoucher_JSONKeys(t *testing.T) {
	ledgerID := uuid.New()
	counterID := uuid.New()
	bill := &domain.AnalyzedBill{ID: uuid.New(), Total: d("100")}
	posting := domain.Posting{Entries: []domain.LedgerEntry{
		{LedgerID: ledgerID, Amount: d("100"), Side: domain.SideDebit},
		{LedgerID: counterID, Amount: d("100"), Side: domain.SideCredit},
	}}
	ledgers := []domain.Ledger{
		{ID: ledgerID, Name: "Misc Expenses"},
		{ID: counterID, Name: "Cash"},
	}

	v, err := bridge.RenderVoucher(bill, posting, ledgers, nil)
	require.NoError(t, err)

	raw, err := json.Marshal(v)
	require.NoError(t, err)

	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &m))
	for _, key := range []string{"id", "voucher", "bill_no", "bill_date", "total", "name", "company", "gst_in", "DR_LEDGER", "CR_LEDGER", "note"} {
		assert.Containsf(t, m, key, "payload missing %q", key)
	}

	var entries []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(m["DR_LEDGER"], &entries))
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0], "LEDGERNAME")
	assert.Contains(t, entries[0], "AMOUNT")
}

func TestRenderVoucher_DefaultsToNA(t *testing.T) {
	bill := &domain.AnalyzedBill{ID: uuid.New()}

	v, err := bridge.RenderVoucher(bill, domain.Posting{}, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "N/A", v.Voucher)
	assert.Equal(t, "N/A", v.BillNo)
	assert.Equal(t, "", v.BillDate)
}

func TestRenderVoucher_UnresolvedLedgerName(t *testing.T) {
	orphanID := uuid.New()
	bill := &domain.AnalyzedBill{ID: uuid.New()}
	posting := domain.Posting{Entries: []domain.LedgerEntry{
		{LedgerID: orphanID, Amount: d("500"), Side: domain.SideDebit},
	}}

	_, err := bridge.RenderVoucher(bill, posting, nil, nil)
	require.Error(t, err)

	var unresolved *domain.UnresolvedLedgerNameError
	require.True(t, errors.As(err, &unresolved))
	assert.Equal(t, orphanID.String(), unresolved.LedgerID)
}

func TestLedgerPayload_Unmarshal(t *testing.T) {
	raw := `{"LEDGER": [{"Master_Id": "801", "Name": "Acme Traders", "Parent": "Sundry Creditors", "ALIAS": "", "OpeningBalance": "0", "GSTIN": "29ABCDE1234F1Z5", "Company": "Demo Co"}]}`

	var payload bridge.LedgerPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))
	require.Len(t, payload.Ledger, 1)
	assert.Equal(t, "801", payload.Ledger[0].MasterID)
	assert.Equal(t, "Sundry Creditors", payload.Ledger[0].Parent)
}
