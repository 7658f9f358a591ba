package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pageforge/flourish/internal/trace"
)

// RunInfo is a stored run plus its event count.
type RunInfo struct {
	Run
	CreatedAt  string
	EventCount int
}

// ListRuns returns all stored runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.token, r.page, r.profile, r.options, r.created_at, COUNT(e.seq)
		FROM runs r
		LEFT JOIN events e ON e.run_token = r.token
		GROUP BY r.token
		ORDER BY r.created_at DESC, r.token
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunInfo
	for rows.Next() {
		var ri RunInfo
		if err := rows.Scan(&ri.Token, &ri.Page, &ri.Profile, &ri.Options, &ri.CreatedAt, &ri.EventCount); err != nil {
			return nil, fmt.Errorf("list runs: scan: %w", err)
		}
		out = append(out, ri)
	}
	return out, rows.Err()
}

// GetRun returns one run's metadata, or (nil, nil) if the token is unknown.
func (s *Store) GetRun(ctx context.Context, token string) (*RunInfo, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT r.token, r.page, r.profile, r.options, r.created_at, COUNT(e.seq)
		FROM runs r
		LEFT JOIN events e ON e.run_token = r.token
		WHERE r.token = ?
		GROUP BY r.token
	`, token)

	var ri RunInfo
	if err := row.Scan(&ri.Token, &ri.Page, &ri.Profile, &ri.Options, &ri.CreatedAt, &ri.EventCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get run: %w", err)
	}
	return &ri, nil
}

// ReadTrace returns a run's events ordered by sequence number.
func (s *Store) ReadTrace(ctx context.Context, token string) ([]trace.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, kind, effect, target, detail
		FROM events
		WHERE run_token = ?
		ORDER BY seq
	`, token)
	if err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	defer rows.Close()

	var out []trace.Event
	for rows.Next() {
		var ev trace.Event
		var kind string
		if err := rows.Scan(&ev.Seq, &kind, &ev.Effect, &ev.Target, &ev.Detail); err != nil {
			return nil, fmt.Errorf("read trace: scan: %w", err)
		}
		ev.Kind = trace.Kind(kind)
		out = append(out, ev)
	}
	return out, rows.Err()
}

// CountEvents returns a run's event count by kind.
func (s *Store) CountEvents(ctx context.Context, token string) (map[trace.Kind]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, COUNT(*)
		FROM events
		WHERE run_token = ?
		GROUP BY kind
	`, token)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	defer rows.Close()

	out := make(map[trace.Kind]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("count events: scan: %w", err)
		}
		out[trace.Kind(kind)] = n
	}
	return out, rows.Err()
}
