package ledger_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billmunshi/internal/domain"
	"billmunshi/internal/ledger"
)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "acme traders", ledger.NormalizeName("  ACME   Traders "))
	assert.Equal(t, "", ledger.NormalizeName("   "))
}

func TestResolve_ExactWinsOverSubstring(t *testing.T) {
	ledgers := []domain.Ledger{
		{ID: uuid.New(), Name: "Acme Traders Pvt Ltd"},
		{ID: uuid.New(), Name: "Acme Traders"},
	}

	got := ledger.Resolve("acme traders", ledgers)
	require.NotNil(t, got)
	assert.Equal(t, "Acme Traders", got.Name)
}

func TestResolve_SubstringBothDirections(t *testing.T) {
	ledgers := []domain.Ledger{
		{ID: uuid.New(), Name: "Bharat Electronics Limited"},
	}

	// needle inside ledger name
	got := ledger.Resolve("Bharat Electronics", ledgers)
	require.NotNil(t, got)

	// ledger name inside needle
	got = ledger.Resolve("bharat electronics limited branch office", ledgers)
	require.NotNil(t, got)
}

func TestResolve_UnresolvedReturnsNil(t *testing.T) {
	ledgers := []domain.Ledger{
		{ID: uuid.New(), Name: "Acme Traders"},
	}
	assert.Nil(t, ledger.Resolve("Unknown Vendor", ledgers))
	assert.Nil(t, ledger.Resolve("", ledgers))
}

func TestResolveVendor_FiltersByParentGroup(t *testing.T) {
	ledgers := []domain.Ledger{
		{ID: uuid.New(), Name: "Acme Traders", Parent: "Indirect Expenses"},
		{ID: uuid.New(), Name: "Acme Traders", Parent: "Sundry Creditors"},
	}

	got := ledger.ResolveVendor("acme traders", ledgers)
	require.NotNil(t, got)
	assert.Equal(t, "Sundry Creditors", got.Parent)

	assert.Nil(t, ledger.ResolveVendor("acme traders", ledgers[:1]))
}

func TestFindByID(t *testing.T) {
	id := uuid.New()
	ledgers := []domain.Ledger{{ID: uuid.New(), Name: "A"}, {ID: id, Name: "B"}}

	got := ledger.FindByID(id, ledgers)
	require.NotNil(t, got)
	assert.Equal(t, "B", got.Name)
	assert.Nil(t, ledger.FindByID(uuid.New(), ledgers))
}
