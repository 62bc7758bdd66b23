package discovery

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"octostore/internal/github"
	"octostore/internal/logging"
	"octostore/internal/manifest"
	"octostore/internal/store"
)

// SearchClient is the slice of the GitHub API corpus discovery needs.
type SearchClient interface {
	SearchCode(ctx context.Context, fileName string, page, perPage int) ([]github.FileHit, error)
}

// Reconciler processes one discovered manifest file within a session.
type Reconciler interface {
	Reconcile(ctx context.Context, sess *store.Session, file github.FileHit) (*store.Submission, error)
}

// Finder searches the whole GitHub corpus for manifest files and reconciles
// every hit into the record store.
type Finder struct {
	search     SearchClient
	store      *store.Store
	reconciler Reconciler
	pageSize   int
	logger     *slog.Logger
}

// NewFinder constructs a corpus discovery job.
func NewFinder(search SearchClient, recordStore *store.Store, reconciler Reconciler, pageSize int, logger *slog.Logger) *Finder {
	if logger == nil {
		logger = logging.NewNop()
	}
	if pageSize <= 0 {
		pageSize = 100
	}
	return &Finder{
		search:     search,
		store:      recordStore,
		reconciler: reconciler,
		pageSize:   pageSize,
		logger:     logger,
	}
}

// Tick runs one discovery pass and returns the number of hits reconciled
// successfully. A failure on one hit is logged and does not abort the rest of
// the batch.
//
// Only the first search page is processed per tick; a corpus larger than one
// page is picked up across subsequent ticks as earlier entries stop changing.
func (f *Finder) Tick(ctx context.Context) (int, error) {
	logger := f.logger.With(logging.String(logging.FieldRunID, uuid.NewString()))

	hits, err := f.search.SearchCode(ctx, manifest.FileName, 1, f.pageSize)
	if err != nil {
		return 0, err
	}
	if len(hits) == 0 {
		logger.Info("no manifest files found in corpus search")
		return 0, nil
	}

	processed := 0
	for _, hit := range hits {
		if ctx.Err() != nil {
			return processed, ctx.Err()
		}
		if err := f.processHit(ctx, hit); err != nil {
			logger.Error("failed to reconcile discovered manifest, skipping",
				logging.String(logging.FieldRepo, hit.Repository.FullName),
				logging.String(logging.FieldURL, hit.HTMLURL),
				logging.Error(err),
			)
			continue
		}
		processed++
	}

	logger.Info("discovery pass finished",
		logging.Int("hits", len(hits)),
		logging.Int("processed", processed),
	)
	return processed, nil
}

// processHit reconciles one hit inside its own unit of work so a store
// failure on one repository cannot poison the rest of the batch.
func (f *Finder) processHit(ctx context.Context, hit github.FileHit) error {
	sess, err := f.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer sess.Rollback()

	if _, err := f.reconciler.Reconcile(ctx, sess, hit); err != nil {
		return err
	}
	return sess.Commit()
}
