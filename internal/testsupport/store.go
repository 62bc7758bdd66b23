package testsupport

import (
	"context"
	"testing"
	"time"

	"octostore/internal/config"
	"octostore/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	recordStore, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		recordStore.Close()
	})
	return recordStore
}

// MustPutSubmission writes a submission in its own unit of work.
func MustPutSubmission(t testing.TB, recordStore *store.Store, submission *store.Submission) {
	t.Helper()

	sess, err := recordStore.Begin(context.Background())
	if err != nil {
		t.Fatalf("store.Begin: %v", err)
	}
	defer sess.Rollback()
	if err := sess.UpsertSubmission(context.Background(), submission); err != nil {
		t.Fatalf("UpsertSubmission: %v", err)
	}
	if err := sess.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
}

// NewSubmission returns a minimal valid submission for the repository.
func NewSubmission(repoFullName string) *store.Submission {
	return &store.Submission{
		ID:            store.SubmissionID(repoFullName),
		SubmittedAt:   time.Now().UTC(),
		ManifestURL:   "https://github.com/" + repoFullName + "/blob/main/ms-store-publish.json",
		RepositoryURL: "https://github.com/" + repoFullName,
		Status:        store.StatusProcessing,
	}
}
