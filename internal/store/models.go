package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"octostore/internal/manifest"
)

// Status represents the lifecycle of an app submission.
type Status string

const (
	// StatusScanning marks a repository that is being scanned for a manifest.
	StatusScanning Status = "scanning"
	// StatusProcessing marks a submission whose manifest was discovered and
	// parsed; downstream publishing picks it up from here.
	StatusProcessing Status = "processing"
	// StatusAwaitingAgreement marks a submission waiting for the developer to
	// sign the App Developer Agreement.
	StatusAwaitingAgreement Status = "awaiting_agreement"
	// StatusAwaitingReview marks a submission under store review.
	StatusAwaitingReview Status = "awaiting_review"
	// StatusPublished marks a submission published to the store.
	StatusPublished Status = "published"
	// StatusError marks a submission whose manifest could not be fetched or
	// parsed; ErrorMessage carries the developer-facing detail.
	StatusError Status = "error"
)

var allStatuses = []Status{
	StatusScanning,
	StatusProcessing,
	StatusAwaitingAgreement,
	StatusAwaitingReview,
	StatusPublished,
	StatusError,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// ParseStatus maps free-form status text onto the enumeration, ignoring case.
func ParseStatus(value string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := statusSet[status]; !ok {
		return "", fmt.Errorf("unknown submission status %q", value)
	}
	return status, nil
}

// Submission is the durable record tracking one repository's manifest.
// Exactly one submission exists per repository; its ID is derived from the
// repository full name.
type Submission struct {
	ID              string                    `json:"id"`
	SubmittedAt     time.Time                 `json:"submittedAt"`
	Manifest        *manifest.PublishManifest `json:"manifest,omitempty"`
	ManifestSHA     string                    `json:"manifestSha,omitempty"`
	ManifestURL     string                    `json:"manifestUrl"`
	RepositoryURL   string                    `json:"repositoryUrl"`
	LatestReleaseAt *time.Time                `json:"latestReleaseAt,omitempty"`
	Status          Status                    `json:"status"`
	ErrorMessage    string                    `json:"errorMessage,omitempty"`
	CreatedAt       time.Time                 `json:"-"`
	UpdatedAt       time.Time                 `json:"-"`
}

// Validate enforces the error-state invariant: an errored submission carries
// a message and no manifest, and a healthy one carries no message.
func (s *Submission) Validate() error {
	if s == nil {
		return errors.New("submission is nil")
	}
	if s.ID == "" {
		return errors.New("submission id is required")
	}
	if _, ok := statusSet[s.Status]; !ok {
		return fmt.Errorf("unknown submission status %q", s.Status)
	}
	if s.Status == StatusError {
		if s.Manifest != nil {
			return errors.New("errored submission must not retain a manifest")
		}
		if strings.TrimSpace(s.ErrorMessage) == "" {
			return errors.New("errored submission requires an error message")
		}
	} else if s.ErrorMessage != "" {
		return fmt.Errorf("submission with status %q must not carry an error message", s.Status)
	}
	return nil
}

// ScanRequest is a durable marker asking for a targeted scan of one
// repository. It is never deleted; ScannedAt gates how often the coordinator
// revisits it.
type ScanRequest struct {
	ID        string     `json:"id"`
	Owner     string     `json:"owner"`
	Repo      string     `json:"repo"`
	CreatedAt time.Time  `json:"createdAt"`
	ScannedAt *time.Time `json:"scannedAt,omitempty"`
}

// FullName returns the owner/repo form of the request's repository.
func (r *ScanRequest) FullName() string {
	return r.Owner + "/" + r.Repo
}

// SubmissionID derives the submission record ID from a repository full name,
// e.g. "acme/widget" becomes "AppSubmissions/acme/widget".
func SubmissionID(repoFullName string) string {
	return "AppSubmissions/" + repoFullName
}

// ScanRequestID derives the scan request record ID for a repository.
func ScanRequestID(owner, repo string) string {
	return "RepositoryScanRequests/" + owner + "/" + repo
}

// ParseRepoFullName validates and splits an "owner/repo" full name.
func ParseRepoFullName(repoFullName string) (owner, repo string, err error) {
	parts := strings.Split(strings.TrimSpace(repoFullName), "/")
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return "", "", fmt.Errorf("repository full name %q must be in the form owner/repo", repoFullName)
	}
	return parts[0], parts[1], nil
}

// HealthSummary describes aggregated submission counts per key lifecycle states.
type HealthSummary struct {
	Total      int `json:"total"`
	Processing int `json:"processing"`
	Published  int `json:"published"`
	Errored    int `json:"errored"`
}
