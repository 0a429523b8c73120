package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"shipdesk/internal/domain"
	"shipdesk/internal/service"
)

// MockUploadService is a mock implementation of service.UploadService.
type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) Process(ctx context.Context, input service.UploadInput) (*service.UploadOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadOutput), args.Error(1)
}

func (m *MockUploadService) History(ctx context.Context, session domain.Session) ([]domain.UploadLogEntry, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UploadLogEntry), args.Error(1)
}

func (m *MockUploadService) Download(ctx context.Context, session domain.Session, entryID int64) (*domain.UploadLogEntry, []byte, error) {
	args := m.Called(ctx, session, entryID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.UploadLogEntry), args.Get(1).([]byte), args.Error(2)
}
