package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shipdesk/internal/service"
)

// DocumentHandler handles document submission, task status and the upload log.
type DocumentHandler struct {
	uploadService service.UploadService
	tracker       *service.TaskTracker
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(uploadService service.UploadService, tracker *service.TaskTracker) *DocumentHandler {
	return &DocumentHandler{uploadService: uploadService, tracker: tracker}
}

// Process handles POST /api/v1/documents/process
func (h *DocumentHandler) Process(c *gin.Context) {
	sess, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("document")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "multipart field 'document' is required")
		return
	}
	defer func() { _ = file.Close() }()

	output, err := h.uploadService.Process(c.Request.Context(), service.UploadInput{
		Session: sess,
		File:    file,
		Header:  header,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondAccepted(c, gin.H{"taskId": output.TaskID, "entry": output.Entry})
}

// TaskStatus handles GET /api/v1/tasks/:id
func (h *DocumentHandler) TaskStatus(c *gin.Context) {
	sess, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	taskID := c.Param("id")
	snap, found := h.tracker.Snapshot(sess.UserID, taskID)
	if !found {
		RespondError(c, http.StatusNotFound, "TASK_NOT_FOUND", "task not found")
		return
	}

	RespondOK(c, snap)
}

// Uploads handles GET /api/v1/uploads
func (h *DocumentHandler) Uploads(c *gin.Context) {
	sess, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	entries, err := h.uploadService.History(c.Request.Context(), sess)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"uploads": entries})
}

// DownloadUpload handles GET /api/v1/uploads/:id/download
func (h *DocumentHandler) DownloadUpload(c *gin.Context) {
	sess, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	entryID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "upload id must be an integer")
		return
	}

	entry, data, err := h.uploadService.Download(c.Request.Context(), sess, entryID)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+entry.Name+`"`)
	c.Data(http.StatusOK, entry.ContentType, data)
}
