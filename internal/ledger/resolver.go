package ledger

import (
	"strings"

	"github.com/google/uuid"

	"billmunshi/internal/domain"
)

// vendorParentGroup is the ledger group that holds vendor (payable) accounts.
const vendorParentGroup = "sundry creditors"

// NormalizeName lowercases a ledger name and collapses internal whitespace so
// free-text names from document analysis can be compared against the ledger
// directory.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Resolve finds the ledger whose display name best matches the given free-text
// name. Exact (normalized) equality wins over substring containment. Returns
// nil when nothing matches; an unresolved name is not an error, a human
// assigns the ledger during verification.
func Resolve(name string, ledgers []domain.Ledger) *domain.Ledger {
	needle := NormalizeName(name)
	if needle == "" {
		return nil
	}

	for i := range ledgers {
		if NormalizeName(ledgers[i].Name) == needle {
			return &ledgers[i]
		}
	}
	for i := range ledgers {
		haystack := NormalizeName(ledgers[i].Name)
		if strings.Contains(haystack, needle) || strings.Contains(needle, haystack) {
			return &ledgers[i]
		}
	}
	return nil
}

// ResolveVendor resolves a counterparty name against only the vendor ledgers
// (those grouped under Sundry Creditors).
func ResolveVendor(name string, ledgers []domain.Ledger) *domain.Ledger {
	vendors := make([]domain.Ledger, 0, len(ledgers))
	for _, l := range ledgers {
		if NormalizeName(l.Parent) == vendorParentGroup {
			vendors = append(vendors, l)
		}
	}
	return Resolve(name, vendors)
}

// FindByID returns the ledger with the given id, or nil.
func FindByID(id uuid.UUID, ledgers []domain.Ledger) *domain.Ledger {
	for i := range ledgers {
		if ledgers[i].ID == id {
			return &ledgers[i]
		}
	}
	return nil
}
