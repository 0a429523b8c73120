package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"shipdesk/internal/config"
	"shipdesk/internal/domain"
	"shipdesk/internal/extraction"
	"shipdesk/internal/fieldmap"
	"shipdesk/internal/port"
)

// RecordListing is the cached record set plus the ids extracted by the most
// recent successful task, for the UI to highlight.
type RecordListing struct {
	Records []domain.ShipmentRecord `json:"records"`
	NewIDs  []int64                 `json:"newly_extracted_ids"`
}

// RecordService holds the portal's cached copy of the extraction service's
// record set. The extraction side owns the data; every refresh replaces the
// cache wholesale. At most one record edit is buffered at a time.
type RecordService struct {
	extractor port.Extractor
	markerTTL time.Duration

	mu          sync.Mutex
	records     []domain.ShipmentRecord
	ids         map[int64]struct{}
	fetched     bool
	newIDs      map[int64]struct{}
	markerTimer *time.Timer
	edit        *domain.EditBuffer
}

// NewRecordService creates a RecordService with an empty cache.
func NewRecordService(extractor port.Extractor, cfg config.PollConfig) *RecordService {
	return &RecordService{
		extractor: extractor,
		markerTTL: cfg.MarkerTTL,
		ids:       make(map[int64]struct{}),
		newIDs:    make(map[int64]struct{}),
	}
}

// Refresh refetches the full record set and replaces the cache. When
// markNew is set, ids present now but absent before are flagged as newly
// extracted; the flag set clears itself after the marker TTL. A failed
// fetch empties the cache.
func (s *RecordService) Refresh(ctx context.Context, markNew bool) (*RecordListing, error) {
	fresh, err := s.extractor.ListRecords(ctx)
	if err != nil {
		s.mu.Lock()
		s.records = nil
		s.ids = make(map[int64]struct{})
		s.fetched = false
		// No records means no "new" records either.
		s.newIDs = make(map[int64]struct{})
		if s.markerTimer != nil {
			s.markerTimer.Stop()
			s.markerTimer = nil
		}
		s.mu.Unlock()

		var ue *extraction.UpstreamError
		if errors.As(err, &ue) && ue.StatusCode == 404 {
			return nil, domain.ErrRecordsUnavailable
		}
		return nil, fmt.Errorf("refreshing records: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	freshIDs := make(map[int64]struct{}, len(fresh))
	for _, r := range fresh {
		freshIDs[r.ID] = struct{}{}
	}

	if markNew {
		added := make(map[int64]struct{})
		for id := range freshIDs {
			if _, ok := s.ids[id]; !ok {
				added[id] = struct{}{}
			}
		}
		if len(added) > 0 {
			s.newIDs = added
			if s.markerTimer != nil {
				s.markerTimer.Stop()
			}
			s.markerTimer = time.AfterFunc(s.markerTTL, s.clearNewMarkers)
		}
	}

	s.records = fresh
	s.ids = freshIDs
	s.fetched = true

	return s.listingLocked(), nil
}

func (s *RecordService) clearNewMarkers() {
	s.mu.Lock()
	s.newIDs = make(map[int64]struct{})
	s.markerTimer = nil
	s.mu.Unlock()
}

// List returns the cached record set, fetching it first if the cache has
// never been populated.
func (s *RecordService) List(ctx context.Context) (*RecordListing, error) {
	s.mu.Lock()
	fetched := s.fetched
	s.mu.Unlock()

	if !fetched {
		return s.Refresh(ctx, false)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listingLocked(), nil
}

func (s *RecordService) listingLocked() *RecordListing {
	records := make([]domain.ShipmentRecord, len(s.records))
	copy(records, s.records)

	newIDs := make([]int64, 0, len(s.newIDs))
	for id := range s.newIDs {
		newIDs = append(newIDs, id)
	}
	return &RecordListing{Records: records, NewIDs: newIDs}
}

// BeginEdit opens an edit buffer for a cached record, discarding any buffer
// already open. It reports whether a pending edit was discarded.
func (s *RecordService) BeginEdit(recordID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[recordID]; !ok {
		return false, domain.ErrRecordNotFound
	}

	discarded := s.edit != nil
	if discarded {
		log.Printf("recordService: discarding pending edit for record %d", s.edit.RecordID)
	}
	s.edit = &domain.EditBuffer{
		RecordID: recordID,
		Fields:   make(map[string]string),
	}
	return discarded, nil
}

// StageField stages one display-named field value into the open buffer.
// Non-editable and unknown fields are rejected.
func (s *RecordService) StageField(display, value string) error {
	f, ok := fieldmap.ByDisplay(display)
	if !ok {
		return fmt.Errorf("unknown field %q", display)
	}
	if !f.Editable {
		return fmt.Errorf("field %q is not editable", display)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edit == nil {
		return domain.ErrEditNotStarted
	}
	s.edit.Fields[display] = value
	return nil
}

// CommitEdit pushes the buffered values upstream. Display names translate
// to persistence columns and empty-cell values become nulls. Success clears
// the buffer and refreshes the cache; failure keeps the buffer so the
// operator can retry. A commit whose record vanished in a refresh fails
// with a conflict.
func (s *RecordService) CommitEdit(ctx context.Context) (*RecordListing, error) {
	s.mu.Lock()
	if s.edit == nil {
		s.mu.Unlock()
		return nil, domain.ErrEditNotStarted
	}
	buf := s.edit
	if _, ok := s.ids[buf.RecordID]; !ok {
		s.mu.Unlock()
		return nil, domain.ErrEditConflict
	}

	payload := make(map[string]*string, len(buf.Fields))
	for display, value := range buf.Fields {
		column, _ := fieldmap.ColumnFor(display)
		payload[column] = fieldmap.NormalizeValue(value)
	}
	s.mu.Unlock()

	if len(payload) == 0 {
		return nil, fmt.Errorf("no fields staged for record %d", buf.RecordID)
	}

	if err := s.extractor.UpdateRecord(ctx, buf.RecordID, payload); err != nil {
		log.Printf("recordService: update failed for record %d: %v", buf.RecordID, err)
		return nil, err
	}

	s.mu.Lock()
	s.edit = nil
	s.mu.Unlock()

	return s.Refresh(ctx, false)
}

// Update is the one-shot edit path used by the HTTP API: open a buffer,
// stage every field, commit.
func (s *RecordService) Update(ctx context.Context, recordID int64, fields map[string]string) (*RecordListing, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}
	if _, err := s.BeginEdit(recordID); err != nil {
		return nil, err
	}
	for display, value := range fields {
		if err := s.StageField(display, value); err != nil {
			s.mu.Lock()
			s.edit = nil
			s.mu.Unlock()
			return nil, err
		}
	}
	return s.CommitEdit(ctx)
}
