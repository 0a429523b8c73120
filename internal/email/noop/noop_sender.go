package noop

import (
	"context"
	"log"

	"shipdesk/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs OTP codes to stdout.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendOTPEmail(_ context.Context, toEmail, toName, otp string) error {
	log.Printf("[NOOP EMAIL] OTP for %s (%s): %s", toName, toEmail, otp)
	return nil
}
