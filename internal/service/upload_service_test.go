package service_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"mime/multipart"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shipdesk/internal/config"
	"shipdesk/internal/domain"
	"shipdesk/internal/service"
	"shipdesk/internal/extraction"
	"shipdesk/mocks"
)

// fakeFile adapts a bytes.Reader to multipart.File.
type fakeFile struct {
	*bytes.Reader
}

func (fakeFile) Close() error { return nil }

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")

func uploadFixture(filename string, content []byte) (multipart.File, *multipart.FileHeader) {
	return fakeFile{bytes.NewReader(content)}, &multipart.FileHeader{
		Filename: filename,
		Size:     int64(len(content)),
	}
}

func uploadSession() domain.Session {
	return domain.Session{
		UserID:  uuid.New(),
		Email:   "ops@acme.example",
		Company: "Acme Logistics",
		Role:    domain.RoleAdmin,
	}
}

func newUploadService(t *testing.T, extractor *mocks.MockExtractor, uploadLog *mocks.MockUploadLogRepo, storage *mocks.MockObjectStorage) service.UploadService {
	t.Helper()
	tracker := service.NewTaskTracker(extractor, nil, config.PollConfig{
		Interval:      time.Hour, // no polls during upload tests
		StatusTimeout: time.Second,
	})
	t.Cleanup(tracker.Stop)

	cfg := config.UploadConfig{
		MaxFileSizeMB: 1,
		TempDir:       t.TempDir(),
	}
	// A typed nil mock must not become a non-nil port.ObjectStorage.
	if storage == nil {
		return service.NewUploadService(extractor, uploadLog, nil, tracker, cfg)
	}
	return service.NewUploadService(extractor, uploadLog, storage, tracker, cfg)
}

func TestProcessAcceptsPDF(t *testing.T) {
	extractor := new(mocks.MockExtractor)
	uploadLog := new(mocks.MockUploadLogRepo)

	wantB64 := base64.StdEncoding.EncodeToString(pdfBytes)
	extractor.On("Submit", mock.Anything, "manifest.pdf", wantB64).Return("task-1", nil)
	uploadLog.On("Create", mock.Anything, mock.AnythingOfType("*domain.UploadLogEntry")).Return(nil)

	svc := newUploadService(t, extractor, uploadLog, nil)

	file, header := uploadFixture("manifest.pdf", pdfBytes)
	sess := uploadSession()
	out, err := svc.Process(context.Background(), service.UploadInput{Session: sess, File: file, Header: header})
	require.NoError(t, err)

	assert.Equal(t, "task-1", out.TaskID)
	require.NotNil(t, out.Entry)
	assert.Equal(t, "manifest.pdf", out.Entry.Name)
	assert.Equal(t, "application/pdf", out.Entry.ContentType)
	assert.Equal(t, sess.UserID, out.Entry.UploadedBy)
	assert.NotZero(t, out.Entry.ID)
	uploadLog.AssertExpectations(t)
}

func TestProcessRejectsUnknownExtension(t *testing.T) {
	svc := newUploadService(t, new(mocks.MockExtractor), new(mocks.MockUploadLogRepo), nil)

	file, header := uploadFixture("notes.txt", []byte("hello"))
	_, err := svc.Process(context.Background(), service.UploadInput{Session: uploadSession(), File: file, Header: header})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestProcessRejectsSpoofedExtension(t *testing.T) {
	svc := newUploadService(t, new(mocks.MockExtractor), new(mocks.MockUploadLogRepo), nil)

	// .pdf name, plain-text payload: magic bytes give it away
	file, header := uploadFixture("sneaky.pdf", []byte("just some text, not a pdf at all"))
	_, err := svc.Process(context.Background(), service.UploadInput{Session: uploadSession(), File: file, Header: header})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestProcessRejectsOversizedFile(t *testing.T) {
	svc := newUploadService(t, new(mocks.MockExtractor), new(mocks.MockUploadLogRepo), nil)

	file, header := uploadFixture("big.pdf", pdfBytes)
	header.Size = 2 * 1024 * 1024 // above the 1 MB test limit
	_, err := svc.Process(context.Background(), service.UploadInput{Session: uploadSession(), File: file, Header: header})
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
}

func TestProcessSubmissionFailure(t *testing.T) {
	extractor := new(mocks.MockExtractor)
	extractor.On("Submit", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("connection refused"))

	svc := newUploadService(t, extractor, new(mocks.MockUploadLogRepo), nil)

	file, header := uploadFixture("manifest.pdf", pdfBytes)
	_, err := svc.Process(context.Background(), service.UploadInput{Session: uploadSession(), File: file, Header: header})
	assert.ErrorIs(t, err, domain.ErrSubmissionFailed)
}

func TestProcessPropagatesUpstreamDetail(t *testing.T) {
	extractor := new(mocks.MockExtractor)
	upstreamErr := &extraction.UpstreamError{StatusCode: 422, Detail: "Corrupt PDF"}
	extractor.On("Submit", mock.Anything, mock.Anything, mock.Anything).Return("", upstreamErr)

	svc := newUploadService(t, extractor, new(mocks.MockUploadLogRepo), nil)

	file, header := uploadFixture("manifest.pdf", pdfBytes)
	_, err := svc.Process(context.Background(), service.UploadInput{Session: uploadSession(), File: file, Header: header})
	var ue *extraction.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "Corrupt PDF", ue.Detail)
}

func TestProcessArchiveFailureIsNonFatal(t *testing.T) {
	extractor := new(mocks.MockExtractor)
	uploadLog := new(mocks.MockUploadLogRepo)
	storage := new(mocks.MockObjectStorage)

	extractor.On("Submit", mock.Anything, mock.Anything, mock.Anything).Return("task-1", nil)
	storage.On("Upload", mock.Anything, mock.Anything, mock.Anything, "application/pdf").Return(errors.New("bucket gone"))
	uploadLog.On("Create", mock.Anything, mock.AnythingOfType("*domain.UploadLogEntry")).Return(nil)

	svc := newUploadService(t, extractor, uploadLog, storage)

	file, header := uploadFixture("manifest.pdf", pdfBytes)
	out, err := svc.Process(context.Background(), service.UploadInput{Session: uploadSession(), File: file, Header: header})
	require.NoError(t, err)
	assert.Nil(t, out.Entry.S3Key)
}

func archivedEntry(uploadedBy uuid.UUID) *domain.UploadLogEntry {
	key := "uploads/some/key/manifest.pdf"
	return &domain.UploadLogEntry{
		ID:          1700000000000,
		Name:        "manifest.pdf",
		ContentType: "application/pdf",
		S3Key:       &key,
		UploadedBy:  uploadedBy,
	}
}

func TestDownloadServesArchivedOriginal(t *testing.T) {
	uploadLog := new(mocks.MockUploadLogRepo)
	storage := new(mocks.MockObjectStorage)
	svc := newUploadService(t, new(mocks.MockExtractor), uploadLog, storage)

	sess := uploadSession()
	sess.Role = domain.RoleUser
	entry := archivedEntry(sess.UserID)
	uploadLog.On("GetByID", mock.Anything, entry.ID).Return(entry, nil)
	storage.On("Download", mock.Anything, *entry.S3Key).Return(pdfBytes, nil)

	got, data, err := svc.Download(context.Background(), sess, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "manifest.pdf", got.Name)
	assert.Equal(t, pdfBytes, data)
}

func TestDownloadScopesToOwner(t *testing.T) {
	uploadLog := new(mocks.MockUploadLogRepo)
	storage := new(mocks.MockObjectStorage)
	svc := newUploadService(t, new(mocks.MockExtractor), uploadLog, storage)

	entry := archivedEntry(uuid.New()) // someone else's upload
	uploadLog.On("GetByID", mock.Anything, entry.ID).Return(entry, nil)

	sess := uploadSession()
	sess.Role = domain.RoleUser
	_, _, err := svc.Download(context.Background(), sess, entry.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	storage.AssertNotCalled(t, "Download", mock.Anything, mock.Anything)

	// Admins can fetch anyone's archive
	storage.On("Download", mock.Anything, *entry.S3Key).Return(pdfBytes, nil)
	admin := uploadSession()
	_, data, err := svc.Download(context.Background(), admin, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, data)
}

func TestDownloadWithoutArchive(t *testing.T) {
	uploadLog := new(mocks.MockUploadLogRepo)
	svc := newUploadService(t, new(mocks.MockExtractor), uploadLog, nil)

	sess := uploadSession()
	entry := archivedEntry(sess.UserID)
	entry.S3Key = nil
	uploadLog.On("GetByID", mock.Anything, entry.ID).Return(entry, nil)

	_, _, err := svc.Download(context.Background(), sess, entry.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHistoryScopesByRole(t *testing.T) {
	uploadLog := new(mocks.MockUploadLogRepo)
	svc := newUploadService(t, new(mocks.MockExtractor), uploadLog, nil)

	admin := uploadSession()
	uploadLog.On("ListAll", mock.Anything).Return([]domain.UploadLogEntry{{ID: 1}, {ID: 2}}, nil)
	entries, err := svc.History(context.Background(), admin)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	user := uploadSession()
	user.Role = domain.RoleUser
	uploadLog.On("ListByUser", mock.Anything, user.UserID).Return([]domain.UploadLogEntry{{ID: 3}}, nil)
	entries, err = svc.History(context.Background(), user)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
