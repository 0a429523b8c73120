package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"shipdesk/internal/domain"
	"shipdesk/internal/extraction"
	"shipdesk/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondAccepted sends a 202 success response.
func RespondAccepted(c *gin.Context, data interface{}) {
	c.JSON(http.StatusAccepted, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error
// codes. Messages for the auth flow are the exact strings the frontend
// matches on.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrEmailNotFound):
		return http.StatusNotFound, "EMAIL_NOT_FOUND", "Email not found"
	case errors.Is(err, domain.ErrInvalidPassword):
		return http.StatusUnauthorized, "INVALID_PASSWORD", "Invalid password"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, "DUPLICATE_EMAIL", "Email already registered. Try to login."
	case errors.Is(err, domain.ErrInvalidOTP):
		return http.StatusUnauthorized, "INVALID_OTP", "Invalid OTP"
	case errors.Is(err, domain.ErrOTPExpired):
		return http.StatusUnauthorized, "OTP_EXPIRED", "OTP expired"
	case errors.Is(err, domain.ErrOTPNotRequested):
		return http.StatusBadRequest, "OTP_NOT_REQUESTED", "no OTP requested for this email"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: pdf, jpg, png"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrSubmissionFailed):
		return http.StatusBadGateway, "SUBMISSION_FAILED", "failed to start processing"
	case errors.Is(err, domain.ErrTaskNotFound):
		return http.StatusNotFound, "TASK_NOT_FOUND", "task not found"
	case errors.Is(err, domain.ErrRecordNotFound):
		return http.StatusNotFound, "RECORD_NOT_FOUND", "record not found"
	case errors.Is(err, domain.ErrRecordsUnavailable):
		return http.StatusNotFound, "RECORDS_UNAVAILABLE", "record listing endpoint unavailable"
	case errors.Is(err, domain.ErrExtractorDown):
		return http.StatusBadGateway, "EXTRACTOR_DOWN", "extraction service unreachable"
	case errors.Is(err, domain.ErrEditNotStarted):
		return http.StatusBadRequest, "EDIT_NOT_STARTED", "no edit in progress for this record"
	case errors.Is(err, domain.ErrEditConflict):
		return http.StatusConflict, "EDIT_CONFLICT", "record changed since edit started"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps an error and sends the appropriate response. Extraction
// service errors pass their detail message through verbatim so the operator
// sees what the backend said.
func HandleError(c *gin.Context, err error) {
	var ue *extraction.UpstreamError
	if errors.As(err, &ue) {
		status := ue.StatusCode
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		RespondError(c, status, "UPSTREAM_ERROR", ue.Detail)
		return
	}

	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}

// sessionOrAbort extracts the Session, writing a 401 if it is missing.
func sessionOrAbort(c *gin.Context) (domain.Session, bool) {
	sess, err := middleware.GetSession(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing session context")
		return domain.Session{}, false
	}
	return sess, true
}
