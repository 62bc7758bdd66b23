package submission

import (
	"context"
	"log/slog"
	"time"

	"octostore/internal/github"
	"octostore/internal/logging"
	"octostore/internal/manifest"
	"octostore/internal/store"
)

// HostClient is the slice of the GitHub API the reconciler needs.
type HostClient interface {
	GetFileContent(ctx context.Context, owner, repo, path string) (string, error)
	LatestRelease(ctx context.Context, repoFullName string) (*github.Release, error)
}

// Reconciler decides whether a discovered manifest file needs a submission
// created or refreshed, and performs the upsert. It is safe to call
// repeatedly with the same input.
type Reconciler struct {
	host   HostClient
	logger *slog.Logger
}

// NewReconciler constructs a reconciler against the given host client.
func NewReconciler(host HostClient, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Reconciler{host: host, logger: logger}
}

// Reconcile ensures the manifest file described by the hit is reflected in an
// app submission within the session. Callers own the session and commit it.
//
// Recoverable conditions (content fetch failure, parse failure, release
// lookup failure) are absorbed into the returned record; only store errors
// propagate.
func (r *Reconciler) Reconcile(ctx context.Context, sess *store.Session, file github.FileHit) (*store.Submission, error) {
	id := store.SubmissionID(file.Repository.FullName)

	existing, err := sess.Submission(ctx, id)
	if err != nil {
		return nil, err
	}

	latest := r.tryLatestRelease(ctx, file.Repository.FullName)

	if existing != nil {
		// An existing submission only needs reprocessing when the manifest
		// file changed or the repository shipped a newer release.
		if existing.ManifestSHA == file.SHA && !hasNewerRelease(existing, latest) {
			r.logger.Info("manifest unchanged since last processing, skipping",
				logging.String(logging.FieldURL, file.HTMLURL),
				logging.String(logging.FieldSHA, file.SHA),
			)
			return existing, nil
		}
		existing.ManifestSHA = file.SHA
	} else {
		existing = &store.Submission{
			ID:            id,
			SubmittedAt:   time.Now().UTC(),
			ManifestSHA:   file.SHA,
			ManifestURL:   file.HTMLURL,
			RepositoryURL: repositoryURL(file.Repository),
			Status:        store.StatusProcessing,
		}
	}
	if latest != nil && latest.PublishedAt != nil {
		existing.LatestReleaseAt = latest.PublishedAt
	}

	parsed, parseErr := r.tryLoadManifest(ctx, file)
	if parseErr != nil {
		existing.Manifest = nil
		existing.Status = store.StatusError
		existing.ErrorMessage = parseErr.Error()
		r.logger.Error("failed to load manifest",
			logging.String(logging.FieldURL, file.HTMLURL),
			logging.Error(parseErr),
		)
	} else {
		existing.Manifest = parsed
		existing.ErrorMessage = ""
		if existing.Status == store.StatusError {
			existing.Status = store.StatusProcessing
		}
	}

	if err := sess.UpsertSubmission(ctx, existing); err != nil {
		return nil, err
	}
	r.logger.Info("manifest reconciled",
		logging.String(logging.FieldURL, file.HTMLURL),
		logging.String(logging.FieldSHA, file.SHA),
		logging.String("status", string(existing.Status)),
	)
	return existing, nil
}

// hasNewerRelease reports whether the host shows a release the submission has
// not seen yet. A submission with no recorded release treats any published
// release as new.
func hasNewerRelease(submission *store.Submission, latest *github.Release) bool {
	if latest == nil || latest.PublishedAt == nil {
		return false
	}
	if submission.LatestReleaseAt == nil {
		return true
	}
	return submission.LatestReleaseAt.Before(*latest.PublishedAt)
}

// tryLatestRelease resolves the repository's latest release. Lookup failures
// degrade to "no release" so a flaky host never fails a reconciliation.
func (r *Reconciler) tryLatestRelease(ctx context.Context, fullName string) *github.Release {
	release, err := r.host.LatestRelease(ctx, fullName)
	if err != nil {
		r.logger.Warn("latest release lookup failed, proceeding without it",
			logging.String(logging.FieldRepo, fullName),
			logging.Error(err),
		)
		return nil
	}
	return release
}

func (r *Reconciler) tryLoadManifest(ctx context.Context, file github.FileHit) (*manifest.PublishManifest, error) {
	owner, repo, err := github.SplitFullName(file.Repository.FullName)
	if err != nil {
		return nil, err
	}
	content, err := r.host.GetFileContent(ctx, owner, repo, file.Path)
	if err != nil {
		return nil, err
	}
	return manifest.Parse([]byte(content), file.Repository.FullName)
}

func repositoryURL(repo github.Repository) string {
	if repo.HTMLURL != "" {
		return repo.HTMLURL
	}
	return repo.URL
}
