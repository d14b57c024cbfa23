package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"billmunshi/internal/domain"
)

// MockBillRepo is a mock implementation of port.BillRepository.
type MockBillRepo struct {
	mock.Mock
}

func (m *MockBillRepo) Create(ctx context.Context, bill *domain.Bill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *MockBillRepo) GetByID(ctx context.Context, orgID, billID uuid.UUID) (*domain.Bill, error) {
	args := m.Called(ctx, orgID, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bill), args.Error(1)
}

func (m *MockBillRepo) ListByOrg(ctx context.Context, orgID uuid.UUID, status domain.BillStatus, offset, limit int) ([]domain.Bill, int, error) {
	args := m.Called(ctx, orgID, status, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Bill), args.Int(1), args.Error(2)
}

func (m *MockBillRepo) CountByKind(ctx context.Context, orgID uuid.UUID, kind domain.BillKind) (int, error) {
	args := m.Called(ctx, orgID, kind)
	return args.Int(0), args.Error(1)
}

func (m *MockBillRepo) UpdateStatus(ctx context.Context, orgID, billID uuid.UUID, from, to domain.BillStatus) error {
	args := m.Called(ctx, orgID, billID, from, to)
	return args.Error(0)
}

func (m *MockBillRepo) SetAnalysedData(ctx context.Context, orgID, billID uuid.UUID, raw []byte) error {
	args := m.Called(ctx, orgID, billID, raw)
	return args.Error(0)
}
