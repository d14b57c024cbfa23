package ledger_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billmunshi/internal/domain"
	"billmunshi/internal/ledger"
)

func directoryRow(name, masterID string) domain.Ledger {
	return domain.Ledger{
		ID:        uuid.New(),
		Name:      name,
		MasterID:  masterID,
		CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func upsertByName(t *testing.T, upserts []domain.Ledger, name string) domain.Ledger {
	t.Helper()
	for _, u := range upserts {
		if u.Name == name {
			return u
		}
	}
	t.Fatalf("no upsert row named %q", name)
	return domain.Ledger{}
}

func TestMergeDirectory_RepushKeepsIDs(t *testing.T) {
	igst := directoryRow("IGST Input", "801")
	vendor := directoryRow("Acme Traders", "802")
	existing := []domain.Ledger{igst, vendor}

	incoming := []domain.Ledger{
		{Name: "IGST Input", MasterID: "801"},
		{Name: "Acme Traders", MasterID: "802"},
	}

	upserts, removed := ledger.MergeDirectory(existing, incoming)
	require.Len(t, upserts, 2)
	assert.Empty(t, removed)

	// a verified bill's posting references these ids; a routine re-push
	// must not invalidate them
	assert.Equal(t, igst.ID, upsertByName(t, upserts, "IGST Input").ID)
	assert.Equal(t, vendor.ID, upsertByName(t, upserts, "Acme Traders").ID)
	assert.Equal(t, igst.CreatedAt, upsertByName(t, upserts, "IGST Input").CreatedAt)
}

func TestMergeDirectory_MatchesByMasterIDOnRename(t *testing.T) {
	igst := directoryRow("IGST Input", "801")

	upserts, removed := ledger.MergeDirectory(
		[]domain.Ledger{igst},
		[]domain.Ledger{{Name: "IGST Input Credit", MasterID: "801"}},
	)
	require.Len(t, upserts, 1)
	assert.Empty(t, removed)
	assert.Equal(t, igst.ID, upserts[0].ID)
	assert.Equal(t, "IGST Input Credit", upserts[0].Name)
}

func TestMergeDirectory_MatchesByNameWithoutMasterID(t *testing.T) {
	vendor := directoryRow("Acme Traders", "")

	upserts, removed := ledger.MergeDirectory(
		[]domain.Ledger{vendor},
		[]domain.Ledger{{Name: "  acme   traders ", GSTIN: "29ABCDE1234F1Z5"}},
	)
	require.Len(t, upserts, 1)
	assert.Empty(t, removed)
	assert.Equal(t, vendor.ID, upserts[0].ID)
	assert.Equal(t, "29ABCDE1234F1Z5", upserts[0].GSTIN)
}

func TestMergeDirectory_NewRowsGetFreshIDs(t *testing.T) {
	igst := directoryRow("IGST Input", "801")

	upserts, removed := ledger.MergeDirectory(
		[]domain.Ledger{igst},
		[]domain.Ledger{
			{Name: "IGST Input", MasterID: "801"},
			{Name: "Office Supplies", MasterID: "803"},
		},
	)
	require.Len(t, upserts, 2)
	assert.Empty(t, removed)

	fresh := upsertByName(t, upserts, "Office Supplies")
	assert.NotEqual(t, uuid.Nil, fresh.ID)
	assert.NotEqual(t, igst.ID, fresh.ID)
}

func TestMergeDirectory_VanishedRowsRemoved(t *testing.T) {
	igst := directoryRow("IGST Input", "801")
	stale := directoryRow("Old Expense Head", "804")

	upserts, removed := ledger.MergeDirectory(
		[]domain.Ledger{igst, stale},
		[]domain.Ledger{{Name: "IGST Input", MasterID: "801"}},
	)
	require.Len(t, upserts, 1)
	assert.Equal(t, []uuid.UUID{stale.ID}, removed)
}

func TestMergeDirectory_DuplicateIncomingNamesDoNotShareAnID(t *testing.T) {
	vendor := directoryRow("Acme Traders", "")

	upserts, _ := ledger.MergeDirectory(
		[]domain.Ledger{vendor},
		[]domain.Ledger{
			{Name: "Acme Traders"},
			{Name: "Acme Traders"},
		},
	)
	require.Len(t, upserts, 2)
	assert.Equal(t, vendor.ID, upserts[0].ID)
	assert.NotEqual(t, upserts[0].ID, upserts[1].ID)
}
