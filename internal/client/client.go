package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"octostore/internal/daemon"
	"octostore/internal/store"
)

// Client talks to a running octostore daemon over its HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a client for the daemon listening at address, which may be a
// bare host:port or a full http URL.
func New(address string, opts ...Option) *Client {
	trimmed := strings.TrimRight(strings.TrimSpace(address), "/")
	if trimmed != "" && !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// RequestScan asks the daemon to schedule a targeted scan of the repository.
func (c *Client) RequestScan(ctx context.Context, repoFullName string) (*store.ScanRequest, error) {
	var request store.ScanRequest
	path := "/scan?" + url.Values{"repo": {repoFullName}}.Encode()
	if err := c.do(ctx, http.MethodPost, path, &request); err != nil {
		return nil, fmt.Errorf("request scan: %w", err)
	}
	return &request, nil
}

// Submission fetches the submission record for the repository. It returns nil
// when the daemon has no record for it.
func (c *Client) Submission(ctx context.Context, repoFullName string) (*store.Submission, error) {
	var submission store.Submission
	path := "/status?" + url.Values{"repo": {repoFullName}}.Encode()
	err := c.do(ctx, http.MethodGet, path, &submission)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch submission: %w", err)
	}
	return &submission, nil
}

// Submissions lists submission records, optionally filtered by status.
func (c *Client) Submissions(ctx context.Context, statuses ...store.Status) ([]*store.Submission, error) {
	params := url.Values{}
	for _, status := range statuses {
		params.Add("status", string(status))
	}
	path := "/submissions"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	var resp struct {
		Submissions []*store.Submission `json:"submissions"`
	}
	if err := c.do(ctx, http.MethodGet, path, &resp); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return resp.Submissions, nil
}

// Health fetches the daemon's runtime status and record counts.
func (c *Client) Health(ctx context.Context) (*daemon.Status, error) {
	var status daemon.Status
	if err := c.do(ctx, http.MethodGet, "/healthz", &status); err != nil {
		return nil, fmt.Errorf("fetch health: %w", err)
	}
	return &status, nil
}

// APIError carries a non-2xx response from the daemon.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("daemon returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("daemon returned %d", e.StatusCode)
}

func (c *Client) do(ctx context.Context, method, path string, out any) error {
	if c.baseURL == "" {
		return errors.New("daemon address not configured")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("connect to daemon: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(body, &payload)
		return &APIError{StatusCode: resp.StatusCode, Message: payload.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
