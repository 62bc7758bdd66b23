package github

import (
	"fmt"
	"strings"
	"time"
)

// Repository identifies a GitHub repository in search results and lookups.
type Repository struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	Owner         Owner  `json:"owner"`
	URL           string `json:"url"`
	HTMLURL       string `json:"html_url"`
	DefaultBranch string `json:"default_branch"`
	Fork          bool   `json:"fork"`
}

// Owner is the account that owns a repository.
type Owner struct {
	Login string `json:"login"`
}

// FileHit is a single file located by code search or tree listing.
type FileHit struct {
	Name       string     `json:"name"`
	Path       string     `json:"path"`
	SHA        string     `json:"sha"`
	HTMLURL    string     `json:"html_url"`
	Repository Repository `json:"repository"`
}

// TreeEntry is one entry of a recursive git tree listing.
type TreeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
	SHA  string `json:"sha"`
}

// Release describes a published GitHub release.
type Release struct {
	TagName     string     `json:"tag_name"`
	HTMLURL     string     `json:"html_url"`
	PublishedAt *time.Time `json:"published_at"`
}

type searchCodeResponse struct {
	TotalCount int       `json:"total_count"`
	Items      []FileHit `json:"items"`
}

type treeResponse struct {
	SHA       string      `json:"sha"`
	Tree      []TreeEntry `json:"tree"`
	Truncated bool        `json:"truncated"`
}

// SplitFullName splits "owner/repo" into its parts.
func SplitFullName(fullName string) (owner, repo string, err error) {
	parts := strings.Split(strings.TrimSpace(fullName), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("repository full name %q must be in the form owner/repo", fullName)
	}
	return parts[0], parts[1], nil
}
