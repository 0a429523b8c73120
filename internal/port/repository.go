package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"shipdesk/internal/domain"
)

// UserRepository persists portal users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	SetOTP(ctx context.Context, email, otp string, expiresAt time.Time) error
	MarkVerified(ctx context.Context, email string) error
}

// UploadLogRepository persists the append-only upload history.
type UploadLogRepository interface {
	Create(ctx context.Context, entry *domain.UploadLogEntry) error
	GetByID(ctx context.Context, id int64) (*domain.UploadLogEntry, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.UploadLogEntry, error)
	ListAll(ctx context.Context) ([]domain.UploadLogEntry, error)
}
