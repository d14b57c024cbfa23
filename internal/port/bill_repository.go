package port

import (
	"context"

	"github.com/google/uuid"

	"billmunshi/internal/domain"
)

// BillRepository defines the contract for bill persistence.
//
// UpdateStatus performs a compare-and-swap on the stored status: the write
// succeeds only when the persisted status still equals from. When the swap
// fails because another request moved the bill first, implementations return
// an IllegalTransitionError carrying the status actually found.
type BillRepository interface {
	Create(ctx context.Context, bill *domain.Bill) error
	GetByID(ctx context.Context, orgID, billID uuid.UUID) (*domain.Bill, error)
	ListByOrg(ctx context.Context, orgID uuid.UUID, status domain.BillStatus, offset, limit int) ([]domain.Bill, int, error)
	CountByKind(ctx context.Context, orgID uuid.UUID, kind domain.BillKind) (int, error)
	UpdateStatus(ctx context.Context, orgID, billID uuid.UUID, from, to domain.BillStatus) error
	SetAnalysedData(ctx context.Context, orgID, billID uuid.UUID, raw []byte) error
}

// AnalyzedBillRepository defines the contract for analysed bill headers and
// their line items. A bill owns at most one analysed record; Replace
// supersedes any previous one atomically.
type AnalyzedBillRepository interface {
	Replace(ctx context.Context, bill *domain.AnalyzedBill, items []domain.BillLineItem) error
	GetByBillID(ctx context.Context, orgID, billID uuid.UUID) (*domain.AnalyzedBill, []domain.BillLineItem, error)
	UpdateHeader(ctx context.Context, bill *domain.AnalyzedBill) error
	UpdateLines(ctx context.Context, analyzedBillID uuid.UUID, items []domain.BillLineItem) error
	SavePosting(ctx context.Context, orgID, analyzedBillID uuid.UUID, posting domain.Posting) error
	GetPosting(ctx context.Context, orgID, analyzedBillID uuid.UUID) (*domain.Posting, error)
}
