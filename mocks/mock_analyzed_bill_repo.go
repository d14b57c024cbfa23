package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"billmunshi/internal/domain"
)

// MockAnalyzedBillRepo is a mock implementation of port.AnalyzedBillRepository.
type MockAnalyzedBillRepo struct {
	mock.Mock
}

func (m *MockAnalyzedBillRepo) Replace(ctx context.Context, bill *domain.AnalyzedBill, items []domain.BillLineItem) error {
	args := m.Called(ctx, bill, items)
	return args.Error(0)
}

func (m *MockAnalyzedBillRepo) GetByBillID(ctx context.Context, orgID, billID uuid.UUID) (*domain.AnalyzedBill, []domain.BillLineItem, error) {
	args := m.Called(ctx, orgID, billID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var items []domain.BillLineItem
	if args.Get(1) != nil {
		items = args.Get(1).([]domain.BillLineItem)
	}
	return args.Get(0).(*domain.AnalyzedBill), items, args.Error(2)
}

func (m *MockAnalyzedBillRepo) UpdateHeader(ctx context.Context, bill *domain.AnalyzedBill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *MockAnalyzedBillRepo) UpdateLines(ctx context.Context, analyzedBillID uuid.UUID, items []domain.BillLineItem) error {
	args := m.Called(ctx, analyzedBillID, items)
	return args.Error(0)
}

func (m *MockAnalyzedBillRepo) SavePosting(ctx context.Context, orgID, analyzedBillID uuid.UUID, posting domain.Posting) error {
	args := m.Called(ctx, orgID, analyzedBillID, posting)
	return args.Error(0)
}

func (m *MockAnalyzedBillRepo) GetPosting(ctx context.Context, orgID, analyzedBillID uuid.UUID) (*domain.Posting, error) {
	args := m.Called(ctx, orgID, analyzedBillID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Posting), args.Error(1)
}
