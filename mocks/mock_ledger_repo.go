package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"billmunshi/internal/domain"
)

// MockLedgerRepo is a mock implementation of port.LedgerRepository.
type MockLedgerRepo struct {
	mock.Mock
}

func (m *MockLedgerRepo) SyncDirectory(ctx context.Context, orgID uuid.UUID, ledgers []domain.Ledger) error {
	args := m.Called(ctx, orgID, ledgers)
	return args.Error(0)
}

func (m *MockLedgerRepo) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]domain.Ledger, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ledger), args.Error(1)
}

func (m *MockLedgerRepo) GetByID(ctx context.Context, orgID, ledgerID uuid.UUID) (*domain.Ledger, error) {
	args := m.Called(ctx, orgID, ledgerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ledger), args.Error(1)
}
