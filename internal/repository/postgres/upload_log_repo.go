package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"shipdesk/internal/domain"
	"shipdesk/internal/port"
)

type uploadLogRepo struct {
	db *sqlx.DB
}

// NewUploadLogRepo creates a new PostgreSQL-backed UploadLogRepository.
func NewUploadLogRepo(db *sqlx.DB) port.UploadLogRepository {
	return &uploadLogRepo{db: db}
}

func (r *uploadLogRepo) Create(ctx context.Context, entry *domain.UploadLogEntry) error {
	if entry.ID == 0 {
		entry.ID = time.Now().UnixMilli()
	}
	if entry.UploadedAt.IsZero() {
		entry.UploadedAt = time.Now().UTC()
	}

	query := `INSERT INTO upload_log (id, task_id, name, size_bytes, content_type, s3_key, uploaded_by, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.TaskID, entry.Name, entry.SizeBytes,
		entry.ContentType, entry.S3Key, entry.UploadedBy, entry.UploadedAt)
	if err != nil {
		return fmt.Errorf("uploadLogRepo.Create: %w", err)
	}
	return nil
}

func (r *uploadLogRepo) GetByID(ctx context.Context, id int64) (*domain.UploadLogEntry, error) {
	var entry domain.UploadLogEntry
	err := r.db.GetContext(ctx, &entry, "SELECT * FROM upload_log WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("uploadLogRepo.GetByID: %w", err)
	}
	return &entry, nil
}

func (r *uploadLogRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.UploadLogEntry, error) {
	var entries []domain.UploadLogEntry
	err := r.db.SelectContext(ctx, &entries,
		"SELECT * FROM upload_log WHERE uploaded_by = $1 ORDER BY uploaded_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("uploadLogRepo.ListByUser: %w", err)
	}
	return entries, nil
}

func (r *uploadLogRepo) ListAll(ctx context.Context) ([]domain.UploadLogEntry, error) {
	var entries []domain.UploadLogEntry
	err := r.db.SelectContext(ctx, &entries,
		"SELECT * FROM upload_log ORDER BY uploaded_at DESC")
	if err != nil {
		return nil, fmt.Errorf("uploadLogRepo.ListAll: %w", err)
	}
	return entries, nil
}
