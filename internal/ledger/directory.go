package ledger

import (
	"github.com/google/uuid"

	"billmunshi/internal/domain"
)

// MergeDirectory reconciles a full directory dump pushed by the bridge
// against the rows already stored for the org. Incoming rows that match an
// existing row keep its id, so vendor assignments, chart-of-accounts
// references and stored postings stay valid across routine re-pushes.
// Matching is by master id when the dump carries one, by normalized name
// otherwise. Unmatched incoming rows get fresh ids; existing rows absent
// from the dump are returned as removed.
func MergeDirectory(existing, incoming []domain.Ledger) (upserts []domain.Ledger, removed []uuid.UUID) {
	byMasterID := make(map[string]*domain.Ledger, len(existing))
	byName := make(map[string]*domain.Ledger, len(existing))
	for i := range existing {
		if existing[i].MasterID != "" {
			byMasterID[existing[i].MasterID] = &existing[i]
		}
		byName[NormalizeName(existing[i].Name)] = &existing[i]
	}

	matched := make(map[uuid.UUID]bool, len(existing))
	upserts = make([]domain.Ledger, 0, len(incoming))
	for _, in := range incoming {
		var prev *domain.Ledger
		if in.MasterID != "" {
			prev = byMasterID[in.MasterID]
		}
		if prev == nil {
			prev = byName[NormalizeName(in.Name)]
		}
		if prev != nil && !matched[prev.ID] {
			in.ID = prev.ID
			in.CreatedAt = prev.CreatedAt
			matched[prev.ID] = true
		} else {
			in.ID = uuid.New()
		}
		upserts = append(upserts, in)
	}

	for i := range existing {
		if !matched[existing[i].ID] {
			removed = append(removed, existing[i].ID)
		}
	}
	return upserts, removed
}
