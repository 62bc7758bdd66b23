package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"octostore/internal/logging"
)

// Work is one tick of a periodic task.
type Work func(ctx context.Context) error

// Runner executes a unit of work after an initial delay and then once per
// interval. Ticks never overlap: the next wait starts only after the previous
// run returns, so a slow run delays rather than stacks invocations. Errors
// and panics inside a run are logged and do not stop future ticks.
type Runner struct {
	name         string
	initialDelay time.Duration
	interval     time.Duration
	logger       *slog.Logger
	work         Work
}

// NewRunner constructs a periodic runner.
func NewRunner(name string, initialDelay, interval time.Duration, logger *slog.Logger, work Work) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		name:         name,
		initialDelay: initialDelay,
		interval:     interval,
		logger:       logger.With(logging.String(logging.FieldComponent, name)),
		work:         work,
	}
}

// Run blocks until ctx is cancelled, executing the work on schedule.
func (r *Runner) Run(ctx context.Context) {
	if r.work == nil {
		return
	}
	if !r.wait(ctx, r.initialDelay) {
		return
	}
	for {
		r.runOnce(ctx)
		if !r.wait(ctx, r.interval) {
			return
		}
	}
}

func (r *Runner) runOnce(ctx context.Context) {
	started := time.Now()
	if err := r.guardedWork(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		r.logger.Error("periodic task failed, will retry on next tick",
			logging.Error(err),
			logging.Duration("elapsed", time.Since(started)),
		)
		return
	}
	r.logger.Debug("periodic task completed", logging.Duration("elapsed", time.Since(started)))
}

func (r *Runner) guardedWork(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("panic: %v", recovered)
		}
	}()
	return r.work(ctx)
}

// wait sleeps for the duration, returning false when ctx is cancelled first.
func (r *Runner) wait(ctx context.Context, duration time.Duration) bool {
	if duration <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
