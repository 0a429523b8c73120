package port

import (
	"context"

	"shipdesk/internal/domain"
)

// Extractor is the client surface of the external OCR/AI extraction
// service. All record data lives on the extraction side; the portal only
// proxies and caches.
type Extractor interface {
	// Submit sends a base64-encoded document for asynchronous processing
	// and returns the task ID assigned by the extraction service.
	Submit(ctx context.Context, filename, contentB64 string) (string, error)

	// TaskStatus fetches the current state of a processing task.
	TaskStatus(ctx context.Context, taskID string) (*domain.TaskSnapshot, error)

	// ListRecords fetches every extracted shipment record.
	ListRecords(ctx context.Context) ([]domain.ShipmentRecord, error)

	// UpdateRecord applies a partial update keyed by persistence column
	// names. Nil values clear the column.
	UpdateRecord(ctx context.Context, recordID int64, fields map[string]*string) error

	// Search runs a semantic search over extracted records.
	Search(ctx context.Context, query string) (*domain.SearchResult, error)

	// Chat forwards a natural-language question scoped to a company.
	Chat(ctx context.Context, query, company string) (string, error)
}
