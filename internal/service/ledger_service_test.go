package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"billmunshi/internal/bridge"
	"billmunshi/internal/domain"
	"billmunshi/internal/service"
	"billmunshi/mocks"
)

type ledgerServiceFixture struct {
	ledgerRepo   *mocks.MockLedgerRepo
	billRepo     *mocks.MockBillRepo
	analyzedRepo *mocks.MockAnalyzedBillRepo
	svc          service.LedgerService
}

func newLedgerServiceFixture() *ledgerServiceFixture {
	f := &ledgerServiceFixture{
		ledgerRepo:   new(mocks.MockLedgerRepo),
		billRepo:     new(mocks.MockBillRepo),
		analyzedRepo: new(mocks.MockAnalyzedBillRepo),
	}
	f.svc = service.NewLedgerService(f.ledgerRepo, f.billRepo, f.analyzedRepo)
	return f
}

func TestIngestBridgeLedgers_MapsTallyRows(t *testing.T) {
	f := newLedgerServiceFixture()
	orgID := uuid.New()

	var stored []domain.Ledger
	f.ledgerRepo.On("SyncDirectory", mock.Anything, orgID, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(2).([]domain.Ledger)
	}).Return(nil)

	count, err := f.svc.IngestBridgeLedgers(context.Background(), orgID, bridge.LedgerPayload{
		Ledger: []bridge.LedgerRow{
			{MasterID: "801", Name: "Acme Traders", Parent: "Sundry Creditors", GSTIN: "29ABCDE1234F1Z5"},
			{MasterID: "802", Name: ""},
			{MasterID: "803", Name: "IGST Input", Parent: "Duties & Taxes"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, count, "nameless rows are skipped")
	require.Len(t, stored, 2)
	assert.Equal(t, "Acme Traders", stored[0].Name)
	assert.Equal(t, "801", stored[0].MasterID)
	assert.Equal(t, "Sundry Creditors", stored[0].Parent)
}

func TestResolveVendor_UnresolvedIsNotAnError(t *testing.T) {
	f := newLedgerServiceFixture()
	orgID := uuid.New()

	f.ledgerRepo.On("ListByOrg", mock.Anything, orgID).Return([]domain.Ledger{
		{ID: uuid.New(), Name: "Acme Traders", Parent: "Sundry Creditors"},
	}, nil)

	got, err := f.svc.ResolveVendor(context.Background(), orgID, "Nobody Knows This Vendor")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSyncedVouchers_RendersEverySyncedBill(t *testing.T) {
	f := newLedgerServiceFixture()
	orgID := uuid.New()
	billID := uuid.New()
	analyzedID := uuid.New()
	expenseLedger := domain.Ledger{ID: uuid.New(), Name: "Professional Charges"}
	vendorLedger := domain.Ledger{ID: uuid.New(), Name: "Acme Traders", Parent: "Sundry Creditors", Company: "Demo Co"}

	f.ledgerRepo.On("ListByOrg", mock.Anything, orgID).Return([]domain.Ledger{expenseLedger, vendorLedger}, nil)
	f.billRepo.On("ListByOrg", mock.Anything, orgID, domain.BillStatusSynced, 0, 100).Return([]domain.Bill{
		{ID: billID, Status: domain.BillStatusSynced},
	}, 1, nil)
	f.analyzedRepo.On("GetByBillID", mock.Anything, orgID, billID).Return(&domain.AnalyzedBill{
		ID: analyzedID, BillID: billID, Voucher: "BM-TB-4", VendorID: &vendorLedger.ID, Total: d("10000"),
	}, []domain.BillLineItem{}, nil)
	f.analyzedRepo.On("GetPosting", mock.Anything, orgID, analyzedID).Return(&domain.Posting{
		Entries: []domain.LedgerEntry{
			{LedgerID: expenseLedger.ID, Amount: d("10000"), Side: domain.SideDebit},
			{LedgerID: vendorLedger.ID, Amount: d("10000"), Side: domain.SideCredit},
		},
	}, nil)

	resp, err := f.svc.SyncedVouchers(context.Background(), orgID)
	require.NoError(t, err)

	require.Len(t, resp.Data, 1)
	v := resp.Data[0]
	assert.Equal(t, "BM-TB-4", v.Voucher)
	assert.Equal(t, "Acme Traders", v.Name)
	assert.Equal(t, "Demo Co", v.Company)
	require.Len(t, v.DRLedger, 1)
	require.Len(t, v.CRLedger, 1)
	assert.Equal(t, "Professional Charges", v.DRLedger[0].LedgerName)
}

func TestSyncedVouchers_SkipsBillsWithoutPosting(t *testing.T) {
	f := newLedgerServiceFixture()
	orgID := uuid.New()
	billID := uuid.New()
	analyzedID := uuid.New()

	f.ledgerRepo.On("ListByOrg", mock.Anything, orgID).Return([]domain.Ledger{}, nil)
	f.billRepo.On("ListByOrg", mock.Anything, orgID, domain.BillStatusSynced, 0, 100).Return([]domain.Bill{
		{ID: billID},
	}, 1, nil)
	f.analyzedRepo.On("GetByBillID", mock.Anything, orgID, billID).Return(&domain.AnalyzedBill{ID: analyzedID}, []domain.BillLineItem{}, nil)
	f.analyzedRepo.On("GetPosting", mock.Anything, orgID, analyzedID).Return(nil, domain.ErrNotFound)

	resp, err := f.svc.SyncedVouchers(context.Background(), orgID)
	require.NoError(t, err)
	assert.Empty(t, resp.Data)
}

func TestSyncedVouchers_UnresolvedNameFailsWholePull(t *testing.T) {
	f := newLedgerServiceFixture()
	orgID := uuid.New()
	billID := uuid.New()
	analyzedID := uuid.New()
	orphanID := uuid.New()

	f.ledgerRepo.On("ListByOrg", mock.Anything, orgID).Return([]domain.Ledger{}, nil)
	f.billRepo.On("ListByOrg", mock.Anything, orgID, domain.BillStatusSynced, 0, 100).Return([]domain.Bill{
		{ID: billID},
	}, 1, nil)
	f.analyzedRepo.On("GetByBillID", mock.Anything, orgID, billID).Return(&domain.AnalyzedBill{ID: analyzedID}, []domain.BillLineItem{}, nil)
	f.analyzedRepo.On("GetPosting", mock.Anything, orgID, analyzedID).Return(&domain.Posting{
		Entries: []domain.LedgerEntry{{LedgerID: orphanID, Amount: d("100"), Side: domain.SideDebit}},
	}, nil)

	_, err := f.svc.SyncedVouchers(context.Background(), orgID)
	require.Error(t, err)

	var unresolved *domain.UnresolvedLedgerNameError
	assert.True(t, errors.As(err, &unresolved))
}
