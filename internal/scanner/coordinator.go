package scanner

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"octostore/internal/github"
	"octostore/internal/logging"
	"octostore/internal/manifest"
	"octostore/internal/store"
)

// HostSearcher is the slice of the GitHub API targeted scanning needs.
type HostSearcher interface {
	SearchRepoCode(ctx context.Context, fileName, owner, repo string) (*github.FileHit, error)
	GetRepository(ctx context.Context, owner, repo string) (*github.Repository, error)
	GetTree(ctx context.Context, owner, repo, ref string) ([]github.TreeEntry, error)
}

// Reconciler processes one discovered manifest file within a session.
type Reconciler interface {
	Reconcile(ctx context.Context, sess *store.Session, file github.FileHit) (*store.Submission, error)
}

// Coordinator drains pending repository scan requests: it searches each
// requested repository for a manifest file and reconciles any find into the
// record store.
type Coordinator struct {
	host       HostSearcher
	store      *store.Store
	reconciler Reconciler
	freshness  time.Duration
	logger     *slog.Logger
}

// NewCoordinator constructs a targeted scan job. Requests scanned within the
// freshness window are left alone until it elapses.
func NewCoordinator(host HostSearcher, recordStore *store.Store, reconciler Reconciler, freshness time.Duration, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = logging.NewNop()
	}
	if freshness <= 0 {
		freshness = 24 * time.Hour
	}
	return &Coordinator{
		host:       host,
		store:      recordStore,
		reconciler: reconciler,
		freshness:  freshness,
		logger:     logger,
	}
}

// Tick processes every scan request due under the freshness window and
// returns the number handled without error. One request's failure does not
// block the remaining requests.
func (c *Coordinator) Tick(ctx context.Context) (int, error) {
	logger := c.logger.With(logging.String(logging.FieldRunID, uuid.NewString()))

	cutoff := time.Now().UTC().Add(-c.freshness)
	requests, err := c.store.DueScanRequests(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if len(requests) == 0 {
		return 0, nil
	}

	processed := 0
	for _, request := range requests {
		if ctx.Err() != nil {
			return processed, ctx.Err()
		}
		if err := c.processRequest(ctx, logger, request); err != nil {
			logger.Error("failed to process scan request, skipping",
				logging.String(logging.FieldRepo, request.FullName()),
				logging.Error(err),
			)
			continue
		}
		processed++
	}

	logger.Info("scan pass finished",
		logging.Int("requests", len(requests)),
		logging.Int("processed", processed),
	)
	return processed, nil
}

func (c *Coordinator) processRequest(ctx context.Context, logger *slog.Logger, request *store.ScanRequest) error {
	logger.Info("processing repository scan request", logging.String(logging.FieldRepo, request.FullName()))

	hit, findErr := c.findManifest(ctx, request.Owner, request.Repo)

	// Stamp the request first so a repository without a manifest (or one that
	// keeps failing) is not revisited on every tick.
	if err := c.store.MarkScanRequestScanned(ctx, request.ID, time.Now().UTC()); err != nil {
		return err
	}
	if findErr != nil {
		return findErr
	}
	if hit == nil {
		logger.Info("scan request found no manifest file", logging.String(logging.FieldRepo, request.FullName()))
		return nil
	}

	sess, err := c.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer sess.Rollback()

	if _, err := c.reconciler.Reconcile(ctx, sess, *hit); err != nil {
		return err
	}
	return sess.Commit()
}

// findManifest looks for the manifest file via indexed code search, then
// falls back to walking the default branch tree. The fallback is required
// for correctness: GitHub search does not index forked repositories.
func (c *Coordinator) findManifest(ctx context.Context, owner, repo string) (*github.FileHit, error) {
	hit, err := c.host.SearchRepoCode(ctx, manifest.FileName, owner, repo)
	if err != nil {
		return nil, err
	}
	if hit != nil {
		return hit, nil
	}

	repository, err := c.host.GetRepository(ctx, owner, repo)
	if err != nil {
		return nil, err
	}
	branch := repository.DefaultBranch
	if branch == "" {
		branch = "main"
	}
	entries, err := c.host.GetTree(ctx, owner, repo, branch)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if entry.Type != "blob" {
			continue
		}
		if !strings.EqualFold(pathBase(entry.Path), manifest.FileName) {
			continue
		}
		return &github.FileHit{
			Name:       pathBase(entry.Path),
			Path:       entry.Path,
			SHA:        entry.SHA,
			HTMLURL:    repository.HTMLURL + "/blob/" + branch + "/" + entry.Path,
			Repository: *repository,
		}, nil
	}
	return nil, nil
}

func pathBase(path string) string {
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		return path[idx+1:]
	}
	return path
}
