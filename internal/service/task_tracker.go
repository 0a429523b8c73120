package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"shipdesk/internal/config"
	"shipdesk/internal/domain"
	"shipdesk/internal/port"
)

// TaskTracker runs one status poller per user against the extraction
// service. Starting a new task for a user cancels that user's previous
// poller: the portal tracks the latest upload only, earlier tasks keep
// running server-side and their records appear on the next refresh.
type TaskTracker struct {
	extractor port.Extractor
	records   *RecordService
	cfg       config.PollConfig

	baseCtx context.Context
	cancel  context.CancelFunc

	mu      sync.Mutex
	pollers map[uuid.UUID]*poller
	wg      sync.WaitGroup
}

type poller struct {
	taskID string
	cancel context.CancelFunc

	mu   sync.Mutex
	snap domain.TaskSnapshot
	done bool
}

// NewTaskTracker creates a TaskTracker. Call Stop to shut down all pollers.
func NewTaskTracker(extractor port.Extractor, records *RecordService, cfg config.PollConfig) *TaskTracker {
	ctx, cancel := context.WithCancel(context.Background())
	return &TaskTracker{
		extractor: extractor,
		records:   records,
		cfg:       cfg,
		baseCtx:   ctx,
		cancel:    cancel,
		pollers:   make(map[uuid.UUID]*poller),
	}
}

// Start begins polling a task for the given user, replacing and canceling
// any poller the user already had.
func (t *TaskTracker) Start(userID uuid.UUID, taskID string) {
	ctx, cancel := context.WithCancel(t.baseCtx)
	p := &poller{
		taskID: taskID,
		cancel: cancel,
		snap: domain.TaskSnapshot{
			TaskID:  taskID,
			Status:  domain.TaskPending,
			Message: "Waiting for processing to start...",
		},
	}

	t.mu.Lock()
	if prev, ok := t.pollers[userID]; ok {
		log.Printf("taskTracker: user %s replaced task %s with %s", userID, prev.taskID, taskID)
		prev.cancel()
	}
	t.pollers[userID] = p
	t.mu.Unlock()

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		t.poll(ctx, p)
	}()
}

// Snapshot returns the last observed state of the task currently tracked
// for the user. ok is false when the user has no tracked task with that ID.
func (t *TaskTracker) Snapshot(userID uuid.UUID, taskID string) (domain.TaskSnapshot, bool) {
	t.mu.Lock()
	p, ok := t.pollers[userID]
	t.mu.Unlock()
	if !ok || p.taskID != taskID {
		return domain.TaskSnapshot{}, false
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap, true
}

// Stop cancels every poller and waits for them to exit.
func (t *TaskTracker) Stop() {
	t.cancel()
	t.wg.Wait()
}

// poll drives one task to a terminal state. Polls are serialized: the next
// tick is only acted on after the previous status call returns. The ticker
// is stopped exactly once, on the first terminal observation or on cancel.
func (t *TaskTracker) poll(ctx context.Context, p *poller) {
	ticker := time.NewTicker(t.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			statusCtx, cancel := context.WithTimeout(ctx, t.cfg.StatusTimeout)
			snap, err := t.extractor.TaskStatus(statusCtx, p.taskID)
			cancel()

			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Printf("taskTracker: poll error for task %s: %v", p.taskID, err)
				p.mu.Lock()
				p.snap = domain.TaskSnapshot{
					TaskID:  p.taskID,
					Status:  domain.TaskFailure,
					Message: "Processing failed.",
					Error:   "Error polling status: " + err.Error(),
				}
				p.done = true
				p.mu.Unlock()
				return
			}

			p.mu.Lock()
			p.snap = *snap
			p.done = snap.Status.IsTerminal()
			p.mu.Unlock()

			if snap.Status.IsTerminal() {
				if snap.Status == domain.TaskSuccess && t.records != nil {
					// Fresh records exist now; refresh once and flag the
					// newcomers for the UI.
					refreshCtx, cancel := context.WithTimeout(t.baseCtx, t.cfg.StatusTimeout)
					if _, err := t.records.Refresh(refreshCtx, true); err != nil {
						log.Printf("taskTracker: post-success refresh failed for task %s: %v", p.taskID, err)
					}
					cancel()
				}
				return
			}
		}
	}
}
