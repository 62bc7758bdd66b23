package discovery_test

import (
	"context"
	"errors"
	"testing"

	"octostore/internal/discovery"
	"octostore/internal/github"
	"octostore/internal/store"
	"octostore/internal/testsupport"
)

type fakeSearch struct {
	hits []github.FileHit
	err  error
}

func (f *fakeSearch) SearchCode(ctx context.Context, fileName string, page, perPage int) ([]github.FileHit, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.hits, nil
}

// writingReconciler persists a minimal submission for every hit, failing on
// the repositories listed in failOn.
type writingReconciler struct {
	failOn map[string]bool
	calls  []string
}

func (r *writingReconciler) Reconcile(ctx context.Context, sess *store.Session, file github.FileHit) (*store.Submission, error) {
	r.calls = append(r.calls, file.Repository.FullName)
	if r.failOn[file.Repository.FullName] {
		return nil, errors.New("injected failure")
	}
	submission := testsupport.NewSubmission(file.Repository.FullName)
	if err := sess.UpsertSubmission(ctx, submission); err != nil {
		return nil, err
	}
	return submission, nil
}

func corpusHit(fullName string) github.FileHit {
	return github.FileHit{
		Name:       "ms-store-publish.json",
		Path:       "ms-store-publish.json",
		SHA:        "sha-" + fullName,
		HTMLURL:    "https://github.com/" + fullName + "/blob/main/ms-store-publish.json",
		Repository: github.Repository{FullName: fullName},
	}
}

func TestTickReconcilesEveryHit(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	recordStore := testsupport.MustOpenStore(t, cfg)
	search := &fakeSearch{hits: []github.FileHit{
		corpusHit("acme/alpha"),
		corpusHit("acme/beta"),
	}}
	reconciler := &writingReconciler{}
	finder := discovery.NewFinder(search, recordStore, reconciler, 100, nil)

	processed, err := finder.Tick(context.Background())
	if err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if processed != 2 {
		t.Fatalf("expected 2 processed, got %d", processed)
	}
	if len(reconciler.calls) != 2 {
		t.Fatalf("expected 2 reconcile calls, got %d", len(reconciler.calls))
	}
}

func TestTickIsolatesFailures(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	recordStore := testsupport.MustOpenStore(t, cfg)
	search := &fakeSearch{hits: []github.FileHit{
		corpusHit("acme/alpha"),
		corpusHit("acme/beta"),
		corpusHit("acme/gamma"),
	}}
	reconciler := &writingReconciler{failOn: map[string]bool{"acme/beta": true}}
	finder := discovery.NewFinder(search, recordStore, reconciler, 100, nil)

	processed, err := finder.Tick(context.Background())
	if err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if processed != 2 {
		t.Fatalf("expected 2 processed despite one failure, got %d", processed)
	}

	ctx := context.Background()
	for _, fullName := range []string{"acme/alpha", "acme/gamma"} {
		fetched, err := recordStore.GetSubmission(ctx, store.SubmissionID(fullName))
		if err != nil {
			t.Fatalf("GetSubmission failed: %v", err)
		}
		if fetched == nil {
			t.Fatalf("submission for %s should have committed", fullName)
		}
	}
	failed, err := recordStore.GetSubmission(ctx, store.SubmissionID("acme/beta"))
	if err != nil {
		t.Fatalf("GetSubmission failed: %v", err)
	}
	if failed != nil {
		t.Fatal("failed hit's unit of work should have rolled back")
	}
}

func TestTickPropagatesSearchErrors(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	recordStore := testsupport.MustOpenStore(t, cfg)
	search := &fakeSearch{err: errors.New("search exploded")}
	finder := discovery.NewFinder(search, recordStore, &writingReconciler{}, 100, nil)

	if _, err := finder.Tick(context.Background()); err == nil {
		t.Fatal("expected search error to propagate")
	}
}

func TestTickHandlesEmptyCorpus(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	recordStore := testsupport.MustOpenStore(t, cfg)
	finder := discovery.NewFinder(&fakeSearch{}, recordStore, &writingReconciler{}, 100, nil)

	processed, err := finder.Tick(context.Background())
	if err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if processed != 0 {
		t.Fatalf("expected 0 processed, got %d", processed)
	}
}
