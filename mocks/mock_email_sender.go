package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendOTPEmail(ctx context.Context, to, name, otp string) error {
	args := m.Called(ctx, to, name, otp)
	return args.Error(0)
}
