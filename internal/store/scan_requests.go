package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const scanRequestColumns = "id, owner, repo, created_at, scanned_at"

// PutScanRequest records a request to scan one repository. An existing
// request for the same repository is replaced, which clears its scanned
// timestamp and re-arms it for the next coordinator tick.
func (s *Store) PutScanRequest(ctx context.Context, owner, repo string) (*ScanRequest, error) {
	request := &ScanRequest{
		ID:        ScanRequestID(owner, repo),
		Owner:     owner,
		Repo:      repo,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO repo_scan_requests (id, owner, repo, created_at, scanned_at)
         VALUES (?, ?, ?, ?, NULL)
         ON CONFLICT(id) DO UPDATE SET
            created_at = excluded.created_at,
            scanned_at = NULL`,
		request.ID,
		request.Owner,
		request.Repo,
		request.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("put scan request: %w", err)
	}
	return request, nil
}

// GetScanRequest fetches a scan request by record ID, or nil when absent.
func (s *Store) GetScanRequest(ctx context.Context, id string) (*ScanRequest, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+scanRequestColumns+` FROM repo_scan_requests WHERE id = ?`, id)
	request, err := scanScanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get scan request: %w", err)
	}
	return request, nil
}

// DueScanRequests returns requests never scanned or last scanned before the
// cutoff, ordered by creation time.
func (s *Store) DueScanRequests(ctx context.Context, cutoff time.Time) ([]*ScanRequest, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+scanRequestColumns+` FROM repo_scan_requests
         WHERE scanned_at IS NULL OR scanned_at < ?
         ORDER BY created_at`,
		cutoff.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("query due scan requests: %w", err)
	}
	defer rows.Close()

	var requests []*ScanRequest
	for rows.Next() {
		request, err := scanScanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}

// MarkScanRequestScanned stamps the request's scanned timestamp. The stamp is
// written in its own unit of work so a repository that turns out to have no
// manifest is still recorded as visited.
func (s *Store) MarkScanRequestScanned(ctx context.Context, id string, when time.Time) error {
	return markScanRequestScanned(ctx, s.db, id, when)
}

func markScanRequestScanned(ctx context.Context, q querier, id string, when time.Time) error {
	res, err := q.ExecContext(
		ctx,
		`UPDATE repo_scan_requests SET scanned_at = ? WHERE id = ?`,
		when.UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("mark scan request scanned: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("scan request %q not found", id)
	}
	return nil
}

func scanScanRequest(scanner interface{ Scan(dest ...any) error }) (*ScanRequest, error) {
	var (
		id         string
		owner      string
		repo       string
		createdRaw string
		scannedRaw sql.NullString
	)
	if err := scanner.Scan(&id, &owner, &repo, &createdRaw, &scannedRaw); err != nil {
		return nil, err
	}

	request := &ScanRequest{ID: id, Owner: owner, Repo: repo}
	if created, err := parseTimeString(createdRaw); err == nil {
		request.CreatedAt = created
	}
	if scannedRaw.Valid {
		if scanned, err := parseTimeString(scannedRaw.String); err == nil {
			request.ScannedAt = &scanned
		}
	}
	return request, nil
}
