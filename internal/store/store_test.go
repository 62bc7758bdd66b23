package store_test

import (
	"context"
	"testing"
	"time"

	"octostore/internal/manifest"
	"octostore/internal/store"
	"octostore/internal/testsupport"
)

func TestOpenAppliesMigrations(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	recordStore := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	if err := recordStore.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	health, err := recordStore.Health(ctx)
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if health.Total != 0 {
		t.Fatalf("expected empty store, got %d submissions", health.Total)
	}
}

func TestUpsertAndGetSubmission(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	recordStore := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	submission := testsupport.NewSubmission("acme/widget")
	submission.ManifestSHA = "abc123"
	submission.Manifest = &manifest.PublishManifest{
		Name:     "Widget",
		Category: manifest.CategoryProductivity,
	}
	testsupport.MustPutSubmission(t, recordStore, submission)

	fetched, err := recordStore.GetSubmission(ctx, store.SubmissionID("acme/widget"))
	if err != nil {
		t.Fatalf("GetSubmission failed: %v", err)
	}
	if fetched == nil {
		t.Fatal("expected submission, got nil")
	}
	if fetched.ID != "AppSubmissions/acme/widget" {
		t.Fatalf("unexpected record ID: %s", fetched.ID)
	}
	if fetched.ManifestSHA != "abc123" {
		t.Fatalf("unexpected manifest SHA: %s", fetched.ManifestSHA)
	}
	if fetched.Manifest == nil || fetched.Manifest.Name != "Widget" {
		t.Fatalf("manifest not round-tripped: %#v", fetched.Manifest)
	}
	if fetched.CreatedAt.IsZero() || fetched.UpdatedAt.IsZero() {
		t.Fatal("expected created/updated timestamps to be set")
	}
}

func TestGetSubmissionReturnsNilWhenAbsent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	recordStore := testsupport.MustOpenStore(t, cfg)

	fetched, err := recordStore.GetSubmission(context.Background(), store.SubmissionID("acme/missing"))
	if err != nil {
		t.Fatalf("GetSubmission failed: %v", err)
	}
	if fetched != nil {
		t.Fatalf("expected nil for unknown submission, got %#v", fetched)
	}
}

func TestUpsertKeepsOneRecordPerRepository(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	recordStore := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	first := testsupport.NewSubmission("acme/widget")
	first.ManifestSHA = "sha-one"
	testsupport.MustPutSubmission(t, recordStore, first)

	second := testsupport.NewSubmission("acme/widget")
	second.ManifestSHA = "sha-two"
	testsupport.MustPutSubmission(t, recordStore, second)

	all, err := recordStore.ListSubmissions(ctx)
	if err != nil {
		t.Fatalf("ListSubmissions failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected one record per repository, got %d", len(all))
	}
	if all[0].ManifestSHA != "sha-two" {
		t.Fatalf("expected latest SHA, got %s", all[0].ManifestSHA)
	}
}

func TestListSubmissionsFiltersByStatus(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	recordStore := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	processing := testsupport.NewSubmission("acme/alpha")
	testsupport.MustPutSubmission(t, recordStore, processing)

	published := testsupport.NewSubmission("acme/beta")
	published.Status = store.StatusPublished
	testsupport.MustPutSubmission(t, recordStore, published)

	errored := testsupport.NewSubmission("acme/gamma")
	errored.Status = store.StatusError
	errored.ErrorMessage = "parse ms-store-publish.json: name is required"
	testsupport.MustPutSubmission(t, recordStore, errored)

	got, err := recordStore.ListSubmissions(ctx, store.StatusPublished, store.StatusError)
	if err != nil {
		t.Fatalf("ListSubmissions failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 filtered submissions, got %d", len(got))
	}

	health, err := recordStore.Health(ctx)
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if health.Total != 3 || health.Processing != 1 || health.Published != 1 || health.Errored != 1 {
		t.Fatalf("unexpected health summary: %#v", health)
	}
}

func TestSessionRollbackDiscardsWrites(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	recordStore := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	sess, err := recordStore.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := sess.UpsertSubmission(ctx, testsupport.NewSubmission("acme/widget")); err != nil {
		t.Fatalf("UpsertSubmission failed: %v", err)
	}
	sess.Rollback()

	fetched, err := recordStore.GetSubmission(ctx, store.SubmissionID("acme/widget"))
	if err != nil {
		t.Fatalf("GetSubmission failed: %v", err)
	}
	if fetched != nil {
		t.Fatal("rolled back write should not be visible")
	}
}

func TestSessionRollbackAfterCommitIsNoop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	recordStore := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	sess, err := recordStore.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := sess.UpsertSubmission(ctx, testsupport.NewSubmission("acme/widget")); err != nil {
		t.Fatalf("UpsertSubmission failed: %v", err)
	}
	if err := sess.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	sess.Rollback()

	fetched, err := recordStore.GetSubmission(ctx, store.SubmissionID("acme/widget"))
	if err != nil {
		t.Fatalf("GetSubmission failed: %v", err)
	}
	if fetched == nil {
		t.Fatal("committed write should survive a later rollback call")
	}
}

func TestUpsertRejectsInvalidSubmissions(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	recordStore := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	invalid := testsupport.NewSubmission("acme/widget")
	invalid.Status = store.StatusError // no error message

	sess, err := recordStore.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	defer sess.Rollback()
	if err := sess.UpsertSubmission(ctx, invalid); err == nil {
		t.Fatal("expected validation error for errored submission without message")
	}
}

func TestPutScanRequestRearmsExistingRequest(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	recordStore := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	request, err := recordStore.PutScanRequest(ctx, "acme", "widget")
	if err != nil {
		t.Fatalf("PutScanRequest failed: %v", err)
	}
	if request.ID != "RepositoryScanRequests/acme/widget" {
		t.Fatalf("unexpected request ID: %s", request.ID)
	}

	if err := recordStore.MarkScanRequestScanned(ctx, request.ID, time.Now().UTC()); err != nil {
		t.Fatalf("MarkScanRequestScanned failed: %v", err)
	}

	if _, err := recordStore.PutScanRequest(ctx, "acme", "widget"); err != nil {
		t.Fatalf("second PutScanRequest failed: %v", err)
	}
	fetched, err := recordStore.GetScanRequest(ctx, request.ID)
	if err != nil {
		t.Fatalf("GetScanRequest failed: %v", err)
	}
	if fetched == nil {
		t.Fatal("expected scan request")
	}
	if fetched.ScannedAt != nil {
		t.Fatal("re-recorded request should have its scanned timestamp cleared")
	}
}

func TestDueScanRequestsHonorsCutoff(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	recordStore := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	now := time.Now().UTC()
	cutoff := now.Add(-24 * time.Hour)

	fresh, err := recordStore.PutScanRequest(ctx, "acme", "fresh")
	if err != nil {
		t.Fatalf("PutScanRequest failed: %v", err)
	}
	if err := recordStore.MarkScanRequestScanned(ctx, fresh.ID, now.Add(-1*time.Hour)); err != nil {
		t.Fatalf("MarkScanRequestScanned failed: %v", err)
	}

	stale, err := recordStore.PutScanRequest(ctx, "acme", "stale")
	if err != nil {
		t.Fatalf("PutScanRequest failed: %v", err)
	}
	if err := recordStore.MarkScanRequestScanned(ctx, stale.ID, now.Add(-25*time.Hour)); err != nil {
		t.Fatalf("MarkScanRequestScanned failed: %v", err)
	}

	if _, err := recordStore.PutScanRequest(ctx, "acme", "unvisited"); err != nil {
		t.Fatalf("PutScanRequest failed: %v", err)
	}

	due, err := recordStore.DueScanRequests(ctx, cutoff)
	if err != nil {
		t.Fatalf("DueScanRequests failed: %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("expected stale and unvisited requests, got %d", len(due))
	}
	for _, request := range due {
		if request.Repo == "fresh" {
			t.Fatal("freshly scanned request should not be due")
		}
	}
}

func TestMarkScanRequestScannedRequiresExistingRequest(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	recordStore := testsupport.MustOpenStore(t, cfg)

	err := recordStore.MarkScanRequestScanned(context.Background(), "RepositoryScanRequests/acme/ghost", time.Now().UTC())
	if err == nil {
		t.Fatal("expected error for unknown scan request")
	}
}
