package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"shipdesk/internal/domain"
)

// MockExtractor is a mock implementation of port.Extractor.
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Submit(ctx context.Context, filename, contentB64 string) (string, error) {
	args := m.Called(ctx, filename, contentB64)
	return args.String(0), args.Error(1)
}

func (m *MockExtractor) TaskStatus(ctx context.Context, taskID string) (*domain.TaskSnapshot, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaskSnapshot), args.Error(1)
}

func (m *MockExtractor) ListRecords(ctx context.Context) ([]domain.ShipmentRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ShipmentRecord), args.Error(1)
}

func (m *MockExtractor) UpdateRecord(ctx context.Context, recordID int64, fields map[string]*string) error {
	args := m.Called(ctx, recordID, fields)
	return args.Error(0)
}

func (m *MockExtractor) Search(ctx context.Context, query string) (*domain.SearchResult, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SearchResult), args.Error(1)
}

func (m *MockExtractor) Chat(ctx context.Context, query, company string) (string, error) {
	args := m.Called(ctx, query, company)
	return args.String(0), args.Error(1)
}
