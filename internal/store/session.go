package store

import (
	"context"
	"errors"
	"fmt"
)

// Session is one unit of work against the record store. Mutations stay
// private to the session until Commit; Rollback (or Close without Commit)
// discards them.
type Session struct {
	tx   querier
	done bool

	commit   func() error
	rollback func() error
}

func newSession(tx interface {
	querier
	Commit() error
	Rollback() error
}) *Session {
	return &Session{tx: tx, commit: tx.Commit, rollback: tx.Rollback}
}

// Submission loads a submission inside the session, or nil when absent.
func (sess *Session) Submission(ctx context.Context, id string) (*Submission, error) {
	if sess == nil || sess.tx == nil {
		return nil, errors.New("session is closed")
	}
	return getSubmission(ctx, sess.tx, id)
}

// UpsertSubmission stores a submission inside the session.
func (sess *Session) UpsertSubmission(ctx context.Context, submission *Submission) error {
	if sess == nil || sess.tx == nil {
		return errors.New("session is closed")
	}
	return upsertSubmission(ctx, sess.tx, submission)
}

// Commit makes the session's mutations durable.
func (sess *Session) Commit() error {
	if sess == nil || sess.done {
		return errors.New("session already finished")
	}
	sess.done = true
	if err := sess.commit(); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}
	return nil
}

// Rollback discards the session's mutations. Safe to defer after Commit.
func (sess *Session) Rollback() {
	if sess == nil || sess.done {
		return
	}
	sess.done = true
	_ = sess.rollback()
}
