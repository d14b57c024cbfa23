package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockJournalPoster is a mock implementation of port.JournalPoster.
type MockJournalPoster struct {
	mock.Mock
}

func (m *MockJournalPoster) PostJournal(ctx context.Context, payload []byte) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}
