package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrEmailNotFound       = errors.New("email not found")
	ErrInvalidPassword     = errors.New("invalid password")
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrInvalidOTP          = errors.New("invalid OTP")
	ErrOTPExpired          = errors.New("OTP expired")
	ErrOTPNotRequested     = errors.New("no OTP requested for this email")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrSubmissionFailed    = errors.New("failed to start processing")
	ErrTaskNotFound        = errors.New("task not found")
	ErrRecordNotFound      = errors.New("record not found")
	ErrRecordsUnavailable  = errors.New("record listing endpoint unavailable")
	ErrExtractorDown       = errors.New("extraction service unreachable")
	ErrEditNotStarted      = errors.New("no edit in progress for this record")
	ErrEditConflict        = errors.New("record changed since edit started")
)
