package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"shipdesk/internal/service"
)

// MockRegistrationService is a mock implementation of service.RegistrationService.
type MockRegistrationService struct {
	mock.Mock
}

func (m *MockRegistrationService) Register(ctx context.Context, input service.RegisterInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func (m *MockRegistrationService) SendOTP(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockRegistrationService) VerifyOTP(ctx context.Context, input service.VerifyOTPInput) (*service.LoginOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginOutput), args.Error(1)
}
