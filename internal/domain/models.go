package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered portal user.
type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	Name         string     `db:"name" json:"name"`
	PasswordHash *string    `db:"password_hash" json:"-"`
	Role         UserRole   `db:"role" json:"role"`
	Company      *string    `db:"company" json:"company"`
	IsVerified   bool       `db:"is_verified" json:"is_verified"`
	OTP          *string    `db:"otp" json:"-"`
	OTPExpiresAt *time.Time `db:"otp_expires_at" json:"-"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Session is the explicit per-request identity built once from validated
// token claims. Handlers receive it instead of reading ambient context keys.
type Session struct {
	UserID  uuid.UUID `json:"user_id"`
	Email   string    `json:"email"`
	Name    string    `json:"name"`
	Company string    `json:"company"`
	Role    UserRole  `json:"role"`
}

// UploadLogEntry is the append-only record of a file dropped into the
// portal. IDs are millisecond timestamps; the log is never pruned.
type UploadLogEntry struct {
	ID          int64     `db:"id" json:"id"`
	TaskID      string    `db:"task_id" json:"task_id"`
	Name        string    `db:"name" json:"name"`
	SizeBytes   int64     `db:"size_bytes" json:"size_bytes"`
	ContentType string    `db:"content_type" json:"content_type"`
	S3Key       *string   `db:"s3_key" json:"s3_key,omitempty"`
	UploadedBy  uuid.UUID `db:"uploaded_by" json:"uploaded_by"`
	UploadedAt  time.Time `db:"uploaded_at" json:"uploaded_at"`
}

// ShipmentRecord is one extracted logistics document row. It is owned by
// the extraction service; the portal holds a read-through cached copy.
// Extracted values may be absent, hence the pointer fields.
type ShipmentRecord struct {
	ID                    int64   `json:"id"`
	PageNumber            int     `json:"page_number"`
	DocType               *string `json:"doc_type"`
	PrincipalCompany      *string `json:"principal_company"`
	LRNo                  *string `json:"lr_no"`
	LRDate                *string `json:"lr_date"`
	InvoiceNo             *string `json:"invoice_no"`
	InvoiceDate           *string `json:"invoice_date"`
	TruckNo               *string `json:"truck_no"`
	BillToParty           *string `json:"bill_to_party"`
	ShipToParty           *string `json:"ship_to_party"`
	Origin                *string `json:"origin"`
	Destination           *string `json:"destination"`
	OrderType             *string `json:"order_type"`
	OriginWeighmentSlip   *string `json:"origin_weighment_slip"`
	SiteWeighmentSlip     *string `json:"site_weighment_slip"`
	AcknowledgementStatus *string `json:"acknowledgement_status"`
}

// TaskProgress is the page counter reported while a task is running.
type TaskProgress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// Percent converts progress to a whole percentage, clamped to [0,100].
func (p TaskProgress) Percent() int {
	if p.Total <= 0 {
		return 0
	}
	pct := int(float64(p.Current)/float64(p.Total)*100 + 0.5)
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// TaskSnapshot is the tracked state of one extraction task as last observed
// by the status poller.
type TaskSnapshot struct {
	TaskID   string        `json:"task_id"`
	Status   TaskStatus    `json:"status"`
	Progress *TaskProgress `json:"progress,omitempty"`
	Percent  int           `json:"percent"`
	Message  string        `json:"message"`
	Error    string        `json:"error,omitempty"`
}

// SearchResult is the reshaped response of the extraction service's
// semantic search endpoint.
type SearchResult struct {
	Mode    SearchMode       `json:"mode"`
	Count   int              `json:"count"`
	Results []ShipmentRecord `json:"results"`
}

// EditBuffer holds the single in-flight record edit. Values are keyed by
// display column name; at most one buffer exists at a time.
type EditBuffer struct {
	RecordID int64             `json:"record_id"`
	Fields   map[string]string `json:"fields"`
}
