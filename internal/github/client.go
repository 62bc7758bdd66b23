package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.github.com"
	userAgent      = "octostore"

	rawContentAccept = "application/vnd.github.raw+json"
	jsonAccept       = "application/vnd.github+json"
)

// Client is a minimal GitHub REST client covering the operations manifest
// discovery needs. It holds no per-request state beyond credentials and can
// be shared across goroutines.
type Client struct {
	token      string
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

// WithBaseURL points the client at a different API endpoint. Used by tests
// and GitHub Enterprise installs.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithTimeout sets the default HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// New creates a GitHub client. The token is optional; unauthenticated clients
// are subject to much lower search rate limits.
func New(token string, opts ...Option) *Client {
	client := &Client{
		token:      strings.TrimSpace(token),
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// SearchCode searches all public repositories for files named fileName. Only
// default branches are indexed, which is the behavior discovery wants.
func (c *Client) SearchCode(ctx context.Context, fileName string, page, perPage int) ([]FileHit, error) {
	query := fmt.Sprintf("filename:%s in:path", fileName)
	return c.searchCode(ctx, query, page, perPage)
}

// SearchRepoCode searches a single repository for files named fileName and
// returns the first hit, or nil when the repository has none indexed. Note
// that GitHub does not index forked repositories; callers needing full
// coverage must fall back to a tree listing.
func (c *Client) SearchRepoCode(ctx context.Context, fileName, owner, repo string) (*FileHit, error) {
	query := fmt.Sprintf("filename:%s in:path repo:%s/%s", fileName, owner, repo)
	hits, err := c.searchCode(ctx, query, 1, 5)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, nil
	}
	hit := hits[0]
	return &hit, nil
}

func (c *Client) searchCode(ctx context.Context, query string, page, perPage int) ([]FileHit, error) {
	params := url.Values{}
	params.Set("q", query)
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		params.Set("per_page", strconv.Itoa(perPage))
	}

	var resp searchCodeResponse
	if err := c.getJSON(ctx, "/search/code?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("search code: %w", err)
	}
	return resp.Items, nil
}

// GetRepository fetches repository metadata, including the default branch.
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*Repository, error) {
	var repository Repository
	path := fmt.Sprintf("/repos/%s/%s", url.PathEscape(owner), url.PathEscape(repo))
	if err := c.getJSON(ctx, path, &repository); err != nil {
		return nil, fmt.Errorf("get repository %s/%s: %w", owner, repo, err)
	}
	return &repository, nil
}

// GetTree lists the full recursive tree of the given ref.
func (c *Client) GetTree(ctx context.Context, owner, repo, ref string) ([]TreeEntry, error) {
	var resp treeResponse
	path := fmt.Sprintf("/repos/%s/%s/git/trees/%s?recursive=1",
		url.PathEscape(owner), url.PathEscape(repo), url.PathEscape(ref))
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("get tree %s/%s@%s: %w", owner, repo, ref, err)
	}
	return resp.Tree, nil
}

// GetFileContent fetches the raw content of a file on the default branch.
func (c *Client) GetFileContent(ctx context.Context, owner, repo, path string) (string, error) {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	endpoint := fmt.Sprintf("/repos/%s/%s/contents/%s",
		url.PathEscape(owner), url.PathEscape(repo), strings.Join(segments, "/"))

	body, status, err := c.get(ctx, endpoint, rawContentAccept)
	if err != nil {
		return "", fmt.Errorf("fetch %s/%s/%s: %w", owner, repo, path, err)
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("fetch %s/%s/%s: github returned %d", owner, repo, path, status)
	}
	return string(body), nil
}

// LatestRelease returns the latest published release for the repository, or
// nil when the repository has no releases.
func (c *Client) LatestRelease(ctx context.Context, fullName string) (*Release, error) {
	owner, repo, err := SplitFullName(fullName)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("/repos/%s/%s/releases/latest", url.PathEscape(owner), url.PathEscape(repo))
	body, status, err := c.get(ctx, endpoint, jsonAccept)
	if err != nil {
		return nil, fmt.Errorf("latest release for %s: %w", fullName, err)
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("latest release for %s: github returned %d", fullName, status)
	}

	var release Release
	if err := json.Unmarshal(body, &release); err != nil {
		return nil, fmt.Errorf("latest release for %s: decode: %w", fullName, err)
	}
	return &release, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	body, status, err := c.get(ctx, path, jsonAccept)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("github returned %d", status)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path, accept string) ([]byte, int, error) {
	if c.httpClient == nil {
		return nil, 0, errors.New("http client not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	return body, resp.StatusCode, nil
}
