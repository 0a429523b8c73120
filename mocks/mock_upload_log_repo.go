package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"shipdesk/internal/domain"
)

// MockUploadLogRepo is a mock implementation of port.UploadLogRepository.
type MockUploadLogRepo struct {
	mock.Mock
}

func (m *MockUploadLogRepo) Create(ctx context.Context, entry *domain.UploadLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockUploadLogRepo) GetByID(ctx context.Context, id int64) (*domain.UploadLogEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadLogEntry), args.Error(1)
}

func (m *MockUploadLogRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.UploadLogEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UploadLogEntry), args.Error(1)
}

func (m *MockUploadLogRepo) ListAll(ctx context.Context) ([]domain.UploadLogEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UploadLogEntry), args.Error(1)
}
