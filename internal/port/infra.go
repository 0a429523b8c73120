package port

import (
	"context"
	"io"
)

// ObjectStorage archives uploaded documents. The archive is append-only,
// like the upload log it backs: there is no delete.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
	Download(ctx context.Context, key string) ([]byte, error)
}

// EmailSender delivers transactional mail.
type EmailSender interface {
	SendOTPEmail(ctx context.Context, to, name, otp string) error
}
