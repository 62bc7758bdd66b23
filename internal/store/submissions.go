package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"octostore/internal/manifest"
)

const submissionColumns = "id, submitted_at, manifest_json, manifest_sha, manifest_url, repository_url, latest_release_at, status, error_message, created_at, updated_at"

// GetSubmission fetches a submission by record ID, or nil when absent.
func (s *Store) GetSubmission(ctx context.Context, id string) (*Submission, error) {
	return getSubmission(ctx, s.db, id)
}

// ListSubmissions returns submissions filtered by status set (or all
// submissions when no status is provided), ordered by creation time.
func (s *Store) ListSubmissions(ctx context.Context, statuses ...Status) ([]*Submission, error) {
	baseQuery := `SELECT ` + submissionColumns + ` FROM app_submissions`
	orderClause := ` ORDER BY created_at`

	var (
		rows *sql.Rows
		err  error
	)
	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		rows, err = s.db.QueryContext(ctx, baseQuery+` WHERE status IN (`+placeholders+`)`+orderClause, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var submissions []*Submission
	for rows.Next() {
		submission, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, submission)
	}
	return submissions, rows.Err()
}

func getSubmission(ctx context.Context, q querier, id string) (*Submission, error) {
	row := q.QueryRowContext(ctx, `SELECT `+submissionColumns+` FROM app_submissions WHERE id = ?`, id)
	submission, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", err)
	}
	return submission, nil
}

func upsertSubmission(ctx context.Context, q querier, submission *Submission) error {
	if err := submission.Validate(); err != nil {
		return fmt.Errorf("upsert submission: %w", err)
	}

	var manifestJSON any
	if submission.Manifest != nil {
		encoded, err := json.Marshal(submission.Manifest)
		if err != nil {
			return fmt.Errorf("marshal manifest: %w", err)
		}
		manifestJSON = string(encoded)
	}

	now := time.Now().UTC()
	submission.UpdatedAt = now
	if submission.CreatedAt.IsZero() {
		submission.CreatedAt = now
	}

	_, err := q.ExecContext(
		ctx,
		`INSERT INTO app_submissions (
            id, submitted_at, manifest_json, manifest_sha, manifest_url,
            repository_url, latest_release_at, status, error_message,
            created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            submitted_at = excluded.submitted_at,
            manifest_json = excluded.manifest_json,
            manifest_sha = excluded.manifest_sha,
            manifest_url = excluded.manifest_url,
            repository_url = excluded.repository_url,
            latest_release_at = excluded.latest_release_at,
            status = excluded.status,
            error_message = excluded.error_message,
            updated_at = excluded.updated_at`,
		submission.ID,
		submission.SubmittedAt.UTC().Format(time.RFC3339Nano),
		manifestJSON,
		nullableString(submission.ManifestSHA),
		submission.ManifestURL,
		submission.RepositoryURL,
		nullableTime(submission.LatestReleaseAt),
		submission.Status,
		nullableString(submission.ErrorMessage),
		submission.CreatedAt.UTC().Format(time.RFC3339Nano),
		submission.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert submission: %w", err)
	}
	return nil
}

func scanSubmission(scanner interface{ Scan(dest ...any) error }) (*Submission, error) {
	var (
		id            string
		submittedRaw  string
		manifestJSON  sql.NullString
		manifestSHA   sql.NullString
		manifestURL   string
		repositoryURL string
		releaseRaw    sql.NullString
		statusStr     string
		errorMessage  sql.NullString
		createdRaw    string
		updatedRaw    string
	)

	if err := scanner.Scan(
		&id,
		&submittedRaw,
		&manifestJSON,
		&manifestSHA,
		&manifestURL,
		&repositoryURL,
		&releaseRaw,
		&statusStr,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	submission := &Submission{
		ID:            id,
		ManifestSHA:   manifestSHA.String,
		ManifestURL:   manifestURL,
		RepositoryURL: repositoryURL,
		Status:        Status(statusStr),
		ErrorMessage:  errorMessage.String,
	}

	if manifestJSON.Valid && manifestJSON.String != "" {
		var parsed manifest.PublishManifest
		if err := json.Unmarshal([]byte(manifestJSON.String), &parsed); err != nil {
			return nil, fmt.Errorf("decode stored manifest for %s: %w", id, err)
		}
		submission.Manifest = &parsed
	}
	if submitted, err := parseTimeString(submittedRaw); err == nil {
		submission.SubmittedAt = submitted
	}
	if releaseRaw.Valid {
		if release, err := parseTimeString(releaseRaw.String); err == nil {
			submission.LatestReleaseAt = &release
		}
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		submission.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		submission.UpdatedAt = updated
	}
	return submission, nil
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
