package github_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"octostore/internal/github"
)

func TestSearchCodeBuildsQueryAndDecodesHits(t *testing.T) {
	var gotQuery, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/code" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		gotQuery = r.URL.Query().Get("q")
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{
			"total_count": 1,
			"items": []map[string]any{
				{
					"name":     "ms-store-publish.json",
					"path":     "ms-store-publish.json",
					"sha":      "abc123",
					"html_url": "https://github.com/acme/widget/blob/main/ms-store-publish.json",
					"repository": map[string]any{
						"name":      "widget",
						"full_name": "acme/widget",
						"html_url":  "https://github.com/acme/widget",
					},
				},
			},
		})
	}))
	defer server.Close()

	client := github.New("token-123", github.WithBaseURL(server.URL))
	hits, err := client.SearchCode(context.Background(), "ms-store-publish.json", 1, 100)
	if err != nil {
		t.Fatalf("SearchCode failed: %v", err)
	}

	if gotQuery != "filename:ms-store-publish.json in:path" {
		t.Fatalf("unexpected query: %q", gotQuery)
	}
	if gotAuth != "Bearer token-123" {
		t.Fatalf("unexpected authorization header: %q", gotAuth)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if hits[0].SHA != "abc123" || hits[0].Repository.FullName != "acme/widget" {
		t.Fatalf("unexpected hit: %#v", hits[0])
	}
}

func TestSearchRepoCodeReturnsNilWithoutHits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"total_count": 0, "items": []any{}})
	}))
	defer server.Close()

	client := github.New("", github.WithBaseURL(server.URL))
	hit, err := client.SearchRepoCode(context.Background(), "ms-store-publish.json", "acme", "widget")
	if err != nil {
		t.Fatalf("SearchRepoCode failed: %v", err)
	}
	if hit != nil {
		t.Fatalf("expected nil hit, got %#v", hit)
	}
}

func TestGetFileContentReturnsRawBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/acme/widget/contents/store/ms-store-publish.json" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if accept := r.Header.Get("Accept"); accept != "application/vnd.github.raw+json" {
			t.Fatalf("unexpected accept header: %q", accept)
		}
		w.Write([]byte(`{"name": "Widget"}`))
	}))
	defer server.Close()

	client := github.New("", github.WithBaseURL(server.URL))
	content, err := client.GetFileContent(context.Background(), "acme", "widget", "store/ms-store-publish.json")
	if err != nil {
		t.Fatalf("GetFileContent failed: %v", err)
	}
	if content != `{"name": "Widget"}` {
		t.Fatalf("unexpected content: %q", content)
	}
}

func TestGetFileContentReportsNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := github.New("", github.WithBaseURL(server.URL))
	if _, err := client.GetFileContent(context.Background(), "acme", "widget", "missing.json"); err == nil {
		t.Fatal("expected error for 404 content fetch")
	}
}

func TestLatestReleaseTreats404AsNoRelease(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := github.New("", github.WithBaseURL(server.URL))
	release, err := client.LatestRelease(context.Background(), "acme/widget")
	if err != nil {
		t.Fatalf("LatestRelease failed: %v", err)
	}
	if release != nil {
		t.Fatalf("expected nil release, got %#v", release)
	}
}

func TestLatestReleaseDecodesPublishedAt(t *testing.T) {
	published := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/acme/widget/releases/latest" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"tag_name":     "v2.0.0",
			"html_url":     "https://github.com/acme/widget/releases/tag/v2.0.0",
			"published_at": published.Format(time.RFC3339),
		})
	}))
	defer server.Close()

	client := github.New("", github.WithBaseURL(server.URL))
	release, err := client.LatestRelease(context.Background(), "acme/widget")
	if err != nil {
		t.Fatalf("LatestRelease failed: %v", err)
	}
	if release == nil || release.TagName != "v2.0.0" {
		t.Fatalf("unexpected release: %#v", release)
	}
	if release.PublishedAt == nil || !release.PublishedAt.Equal(published) {
		t.Fatalf("unexpected published time: %v", release.PublishedAt)
	}
}

func TestGetTreeDecodesEntries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/acme/widget/git/trees/main" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("recursive") != "1" {
			t.Fatal("expected recursive tree request")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"tree": []map[string]any{
				{"path": "README.md", "type": "blob", "sha": "sha-a"},
				{"path": "ms-store-publish.json", "type": "blob", "sha": "sha-b"},
			},
		})
	}))
	defer server.Close()

	client := github.New("", github.WithBaseURL(server.URL))
	entries, err := client.GetTree(context.Background(), "acme", "widget", "main")
	if err != nil {
		t.Fatalf("GetTree failed: %v", err)
	}
	if len(entries) != 2 || entries[1].Path != "ms-store-publish.json" {
		t.Fatalf("unexpected entries: %#v", entries)
	}
}

func TestSplitFullName(t *testing.T) {
	owner, repo, err := github.SplitFullName("acme/widget")
	if err != nil {
		t.Fatalf("SplitFullName failed: %v", err)
	}
	if owner != "acme" || repo != "widget" {
		t.Fatalf("unexpected split: %s %s", owner, repo)
	}
	if _, _, err := github.SplitFullName("acme"); err == nil {
		t.Fatal("expected error for malformed full name")
	}
}
