package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"shipdesk/internal/config"
	"shipdesk/internal/domain"
)

// UpstreamError is a non-2xx reply from the extraction service. Detail
// carries the service's own error message so handlers can pass it through
// verbatim.
type UpstreamError struct {
	StatusCode int
	Detail     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("extraction service error (status %d): %s", e.StatusCode, e.Detail)
}

// Client implements port.Extractor over the extraction service's HTTP API.
type Client struct {
	baseURL  string
	client   *http.Client
	executor *Executor
}

// NewClient creates an extraction service client from config.
func NewClient(cfg *config.ExtractorConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		executor: NewExecutor(ExecutorConfig{
			RetryMaxAttempts: cfg.RetryMaxAttempts,
			BreakerEnabled:   cfg.BreakerEnabled,
		}),
	}
}

// NewClientWithEndpoint creates a client pointing at a custom base URL (for testing).
func NewClientWithEndpoint(baseURL string) *Client {
	return &Client{
		baseURL:  baseURL,
		client:   &http.Client{},
		executor: NewExecutor(ExecutorConfig{RetryMaxAttempts: 1}),
	}
}

// classify treats network failures and 5xx replies as retryable breaker
// failures; 4xx replies are the caller's problem and leave the breaker alone.
func classify(err error) ErrorClassification {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		if ue.StatusCode >= 500 {
			return ErrorClassification{Retryable: true, RecordFailure: true}
		}
		return ErrorClassification{Retryable: false, RecordFailure: false}
	}
	return ErrorClassification{Retryable: true, RecordFailure: true}
}

// Submit sends a base64-encoded document and returns the assigned task ID.
// Submission is not retried: a duplicate submit would start a second task.
func (c *Client) Submit(ctx context.Context, filename, contentB64 string) (string, error) {
	reqBody := map[string]string{
		"file_content_b64":  contentB64,
		"original_filename": filename,
	}

	var resp struct {
		TaskID string `json:"taskId"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/process-doc", reqBody, &resp); err != nil {
		return "", err
	}
	if resp.TaskID == "" {
		return "", fmt.Errorf("extraction service returned no task ID")
	}
	return resp.TaskID, nil
}

// statusResponse models the extraction service's task status payload.
type statusResponse struct {
	Status   string `json:"status"`
	Progress *struct {
		Current int `json:"current"`
		Total   int `json:"total"`
	} `json:"progress"`
	Result *struct {
		Error string `json:"error"`
	} `json:"result"`
}

// TaskStatus fetches the current state of a task and reshapes it into a
// snapshot: running tasks get a page-counter message and percent, failed
// tasks carry the service's error string.
func (c *Client) TaskStatus(ctx context.Context, taskID string) (*domain.TaskSnapshot, error) {
	var resp statusResponse
	err := c.executor.Execute(ctx, "task_status", func(ctx context.Context) error {
		return c.doJSON(ctx, http.MethodGet, "/api/tasks/status/"+url.PathEscape(taskID), nil, &resp)
	}, classify)
	if err != nil {
		return nil, err
	}

	snap := &domain.TaskSnapshot{
		TaskID: taskID,
		Status: domain.TaskStatus(resp.Status),
	}
	if resp.Progress != nil && resp.Progress.Total > 0 {
		p := domain.TaskProgress{Current: resp.Progress.Current, Total: resp.Progress.Total}
		snap.Progress = &p
		snap.Percent = p.Percent()
		snap.Message = fmt.Sprintf("Processing page %d of %d...", p.Current, p.Total)
	}
	switch snap.Status {
	case domain.TaskSuccess:
		snap.Percent = 100
		snap.Message = "Processing complete."
	case domain.TaskFailure:
		snap.Message = "Processing failed."
		if resp.Result != nil {
			snap.Error = resp.Result.Error
		}
	case domain.TaskPending:
		if snap.Message == "" {
			snap.Message = "Waiting for processing to start..."
		}
	default:
		// Running but no page counter yet: in progress, page unknown.
		if snap.Message == "" {
			snap.Message = "Extraction in progress..."
		}
	}
	return snap, nil
}

// ListRecords fetches every extracted shipment record.
func (c *Client) ListRecords(ctx context.Context) ([]domain.ShipmentRecord, error) {
	var resp struct {
		Records []domain.ShipmentRecord `json:"records"`
	}
	err := c.executor.Execute(ctx, "list_records", func(ctx context.Context) error {
		return c.doJSON(ctx, http.MethodGet, "/api/get-all-docs", nil, &resp)
	}, classify)
	if err != nil {
		return nil, err
	}
	return resp.Records, nil
}

// UpdateRecord applies a partial update keyed by persistence column names.
// Updates are not retried: the first attempt may have landed.
func (c *Client) UpdateRecord(ctx context.Context, recordID int64, fields map[string]*string) error {
	var resp struct {
		Status string `json:"status"`
	}
	path := fmt.Sprintf("/api/extracted-doc/%d", recordID)
	return c.doJSON(ctx, http.MethodPut, path, fields, &resp)
}

// Search runs a semantic search over extracted records.
func (c *Client) Search(ctx context.Context, query string) (*domain.SearchResult, error) {
	var resp struct {
		Mode    string                  `json:"mode"`
		Count   int                     `json:"count"`
		Results []domain.ShipmentRecord `json:"results"`
	}
	path := "/api/semantic-search?q=" + url.QueryEscape(query)
	err := c.executor.Execute(ctx, "search", func(ctx context.Context) error {
		return c.doJSON(ctx, http.MethodGet, path, nil, &resp)
	}, classify)
	if err != nil {
		return nil, err
	}
	return &domain.SearchResult{
		Mode:    domain.SearchMode(resp.Mode),
		Count:   resp.Count,
		Results: resp.Results,
	}, nil
}

// Chat forwards a natural-language question scoped to a company.
func (c *Client) Chat(ctx context.Context, query, company string) (string, error) {
	reqBody := map[string]string{
		"query":   query,
		"company": company,
	}
	var resp struct {
		Reply string `json:"reply"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/chat", reqBody, &resp); err != nil {
		return "", err
	}
	return resp.Reply, nil
}

// doJSON issues one JSON request against the extraction service and decodes
// the reply into out. Non-2xx replies become *UpstreamError with the
// service's detail message when one is present.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		bodyBytes, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling extraction service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &UpstreamError{
			StatusCode: resp.StatusCode,
			Detail:     upstreamDetail(respBody),
		}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("unmarshaling response: %w", err)
		}
	}
	return nil
}

// upstreamDetail pulls the error message out of an extraction service error
// body, falling back to the raw body.
func upstreamDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Detail != "" {
			return parsed.Detail
		}
		if parsed.Error != "" {
			return parsed.Error
		}
	}
	return truncate(string(body), 500)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
