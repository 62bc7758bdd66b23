package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"octostore/internal/config"
	"octostore/internal/discovery"
	"octostore/internal/github"
	"octostore/internal/logging"
	"octostore/internal/scanner"
	"octostore/internal/schedule"
	"octostore/internal/store"
	"octostore/internal/submission"
)

// Daemon coordinates the background jobs and enforces single-instance execution.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *store.Store

	finder      *discovery.Finder
	coordinator *scanner.Coordinator

	lockPath string
	lock     *flock.Flock

	api *apiServer

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool                `json:"running"`
	StorePath    string              `json:"storePath"`
	LockFilePath string              `json:"lockFilePath"`
	Health       store.HealthSummary `json:"health"`
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, recordStore *store.Store, host *github.Client, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || recordStore == nil || host == nil || logger == nil {
		return nil, errors.New("daemon requires config, store, github client, and logger")
	}

	reconciler := submission.NewReconciler(host, logger)
	finder := discovery.NewFinder(host, recordStore, reconciler, cfg.Discovery.PageSize, logger)
	freshness := time.Duration(cfg.Scanner.FreshnessHours) * time.Hour
	coordinator := scanner.NewCoordinator(host, recordStore, reconciler, freshness, logger)

	lockPath := filepath.Join(cfg.Paths.DataDir, "octostored.lock")
	d := &Daemon{
		cfg:         cfg,
		logger:      logger,
		store:       recordStore,
		finder:      finder,
		coordinator: coordinator,
		lockPath:    lockPath,
		lock:        flock.New(lockPath),
	}

	api, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.api = api
	return d, nil
}

// Start acquires the daemon lock and launches the background jobs.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another octostore daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if err := d.api.start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return err
	}

	discoveryRunner := schedule.NewRunner(
		"discovery",
		time.Duration(d.cfg.Discovery.InitialDelaySeconds)*time.Second,
		time.Duration(d.cfg.Discovery.IntervalMinutes)*time.Minute,
		d.logger,
		func(ctx context.Context) error {
			_, err := d.finder.Tick(ctx)
			return err
		},
	)
	scannerRunner := schedule.NewRunner(
		"scanner",
		time.Duration(d.cfg.Scanner.InitialDelaySeconds)*time.Second,
		time.Duration(d.cfg.Scanner.IntervalMinutes)*time.Minute,
		d.logger,
		func(ctx context.Context) error {
			_, err := d.coordinator.Tick(ctx)
			return err
		},
	)

	for _, runner := range []*schedule.Runner{discoveryRunner, scannerRunner} {
		d.wg.Add(1)
		go func(r *schedule.Runner) {
			defer d.wg.Done()
			r.Run(d.ctx)
		}(runner)
	}

	d.running.Store(true)
	d.logger.Info("octostore daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop stops background processing and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.wg.Wait()
	d.api.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("octostore daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// APIAddr returns the HTTP API's bound address, or "" when the API is
// disabled or the daemon is stopped.
func (d *Daemon) APIAddr() string {
	return d.api.addr()
}

// RequestScan records a targeted scan request for the given repository.
func (d *Daemon) RequestScan(ctx context.Context, owner, repo string) (*store.ScanRequest, error) {
	request, err := d.store.PutScanRequest(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("record scan request: %w", err)
	}
	d.logger.Info("scan requested", logging.String(logging.FieldRepo, request.FullName()))
	return request, nil
}

// Submission returns the submission record for the given repository, or nil.
func (d *Daemon) Submission(ctx context.Context, repoFullName string) (*store.Submission, error) {
	return d.store.GetSubmission(ctx, store.SubmissionID(repoFullName))
}

// ListSubmissions returns submission records filtered by optional statuses.
func (d *Daemon) ListSubmissions(ctx context.Context, statuses []store.Status) ([]*store.Submission, error) {
	return d.store.ListSubmissions(ctx, statuses...)
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) (Status, error) {
	health, err := d.store.Health(ctx)
	if err != nil {
		return Status{}, err
	}
	return Status{
		Running:      d.running.Load(),
		StorePath:    d.store.Path(),
		LockFilePath: d.lockPath,
		Health:       health,
	}, nil
}
