package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"shipdesk/internal/config"
	"shipdesk/internal/domain"
	"shipdesk/internal/extraction"
	"shipdesk/internal/port"
)

// UploadInput is the DTO for document upload requests.
type UploadInput struct {
	Session domain.Session
	File    multipart.File
	Header  *multipart.FileHeader
}

// UploadOutput is returned after a document is accepted for processing.
type UploadOutput struct {
	TaskID string                 `json:"task_id"`
	Entry  *domain.UploadLogEntry `json:"entry"`
}

// UploadService accepts documents, forwards them to the extraction service
// and records each upload in the history log.
type UploadService interface {
	Process(ctx context.Context, input UploadInput) (*UploadOutput, error)
	History(ctx context.Context, session domain.Session) ([]domain.UploadLogEntry, error)
	Download(ctx context.Context, session domain.Session, entryID int64) (*domain.UploadLogEntry, []byte, error)
}

type uploadService struct {
	extractor port.Extractor
	uploadLog port.UploadLogRepository
	storage   port.ObjectStorage
	tracker   *TaskTracker
	cfg       config.UploadConfig
}

// NewUploadService creates a new UploadService implementation. storage may
// be nil when no archive bucket is configured.
func NewUploadService(
	extractor port.Extractor,
	uploadLog port.UploadLogRepository,
	storage port.ObjectStorage,
	tracker *TaskTracker,
	cfg config.UploadConfig,
) UploadService {
	return &uploadService{
		extractor: extractor,
		uploadLog: uploadLog,
		storage:   storage,
		tracker:   tracker,
		cfg:       cfg,
	}
}

// Process validates the uploaded document, stages it to a temp file,
// forwards it base64-encoded to the extraction service and starts the
// status poller for the resulting task.
func (s *uploadService) Process(ctx context.Context, input UploadInput) (*UploadOutput, error) {
	// Validate file extension
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Header.Filename), "."))
	if _, ok := domain.AllowedExtensions[ext]; !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	// Validate file size
	maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024
	if input.Header.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	// Read first 512 bytes for magic-byte content type detection
	buf := make([]byte, 512)
	n, err := input.File.Read(buf)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading file header: %w", err)
	}
	detectedType := http.DetectContentType(buf[:n])
	if _, ok := domain.AllowedContentTypes[detectedType]; !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	if _, err := input.File.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking file: %w", err)
	}

	// Stage to a temp file so the multipart stream is consumed exactly once.
	// The temp file is removed no matter how processing ends.
	tmp, err := os.CreateTemp(s.cfg.TempDir, "shipdesk-upload-*."+ext)
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err := os.Remove(tmpPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("uploadService.Process: failed to remove temp file %s: %v", tmpPath, err)
		}
	}()

	if _, err := io.Copy(tmp, input.File); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("staging upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("closing temp file: %w", err)
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("reading staged upload: %w", err)
	}

	taskID, err := s.extractor.Submit(ctx, input.Header.Filename, base64.StdEncoding.EncodeToString(data))
	if err != nil {
		log.Printf("uploadService.Process: submission failed for %s: %v", input.Header.Filename, err)
		var ue *extraction.UpstreamError
		if errors.As(err, &ue) {
			return nil, err
		}
		return nil, domain.ErrSubmissionFailed
	}

	entry := &domain.UploadLogEntry{
		ID:          time.Now().UnixMilli(),
		TaskID:      taskID,
		Name:        input.Header.Filename,
		SizeBytes:   input.Header.Size,
		ContentType: detectedType,
		UploadedBy:  input.Session.UserID,
		UploadedAt:  time.Now().UTC(),
	}

	// Archive to S3 before logging so the entry can carry the key. Archive
	// failures never fail the upload.
	if s.storage != nil {
		key := fmt.Sprintf("uploads/%s/%d/%s", input.Session.UserID, entry.ID, input.Header.Filename)
		if err := s.storage.Upload(ctx, key, bytes.NewReader(data), detectedType); err != nil {
			log.Printf("uploadService.Process: archive failed for %s: %v", input.Header.Filename, err)
		} else {
			entry.S3Key = &key
		}
	}

	if err := s.uploadLog.Create(ctx, entry); err != nil {
		log.Printf("uploadService.Process: failed to record upload log entry: %v", err)
	}

	s.tracker.Start(input.Session.UserID, taskID)

	log.Printf("uploadService.Process: %s (%d bytes) accepted as task %s for %s",
		input.Header.Filename, input.Header.Size, taskID, input.Session.Email)

	return &UploadOutput{TaskID: taskID, Entry: entry}, nil
}

// History lists upload log entries: admins see everything, users see their own.
func (s *uploadService) History(ctx context.Context, session domain.Session) ([]domain.UploadLogEntry, error) {
	if session.Role == domain.RoleAdmin {
		return s.uploadLog.ListAll(ctx)
	}
	return s.uploadLog.ListByUser(ctx, session.UserID)
}

// Download serves the archived original of a logged upload. Non-admins can
// only fetch their own entries; an entry that was never archived (no bucket
// configured, or the archive attempt failed) reads as not found.
func (s *uploadService) Download(ctx context.Context, session domain.Session, entryID int64) (*domain.UploadLogEntry, []byte, error) {
	entry, err := s.uploadLog.GetByID(ctx, entryID)
	if err != nil {
		return nil, nil, err
	}
	if session.Role != domain.RoleAdmin && entry.UploadedBy != session.UserID {
		return nil, nil, domain.ErrNotFound
	}
	if entry.S3Key == nil || s.storage == nil {
		return nil, nil, domain.ErrNotFound
	}

	data, err := s.storage.Download(ctx, *entry.S3Key)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching archived upload %d: %w", entryID, err)
	}
	return entry, data, nil
}
