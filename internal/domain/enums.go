package domain

import "strings"

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF: "application/pdf",
	FileTypeJPG: "image/jpeg",
	FileTypePNG: "image/png",
}

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
}

// UserRole gates which dashboard a session may use.
type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

// NormalizeRole upper-cases a role string and folds unknown values to USER.
func NormalizeRole(s string) UserRole {
	switch UserRole(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleUser
	}
}

// TaskStatus is the lifecycle state of an extraction task as reported by the
// extraction service: PENDING → STARTED → PROCESSING → SUCCESS|FAILURE.
type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskStarted    TaskStatus = "STARTED"
	TaskProcessing TaskStatus = "PROCESSING"
	TaskSuccess    TaskStatus = "SUCCESS"
	TaskFailure    TaskStatus = "FAILURE"
)

// IsTerminal reports whether no further transitions can occur.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskSuccess || s == TaskFailure
}

// SearchMode labels how the extraction service answered a search query.
type SearchMode string

const (
	SearchModeKeyword      SearchMode = "keyword"
	SearchModeVector       SearchMode = "vector"
	SearchModeVectorRerank SearchMode = "vector+rerank"
	SearchModeError        SearchMode = "error"
)
