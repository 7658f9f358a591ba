package store

import (
	"context"
	"fmt"

	"github.com/pageforge/flourish/internal/trace"
)

// Run describes one simulated page load. Options carries the JSON-encoded
// simulation options the trace was produced under, so replay can rebuild
// the same environment without the operator repeating flags.
type Run struct {
	Token   string
	Page    string
	Profile string
	Options string
}

// CreateRun inserts a run record. Duplicate tokens are silently ignored so
// re-persisting a run is idempotent.
func (s *Store) CreateRun(ctx context.Context, run Run) error {
	if run.Token == "" {
		return fmt.Errorf("create run: empty token")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (token, page, profile, options)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`, run.Token, run.Page, run.Profile, run.Options)
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	return nil
}

// WriteEvent inserts one trace event for a run. Duplicate (run, seq) pairs
// are silently ignored.
//
// The run referenced by token must exist (foreign key constraint).
func (s *Store) WriteEvent(ctx context.Context, token string, ev trace.Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (run_token, seq, kind, effect, target, detail)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_token, seq) DO NOTHING
	`, token, ev.Seq, string(ev.Kind), ev.Effect, ev.Target, ev.Detail)
	if err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}

// SaveTrace persists a run and its full trace in a single transaction.
// This is the normal path: the engine records into an in-memory log and
// the whole thing is flushed once the run completes.
func (s *Store) SaveTrace(ctx context.Context, run Run, events []trace.Event) error {
	if run.Token == "" {
		return fmt.Errorf("save trace: empty token")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save trace: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (token, page, profile, options)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`, run.Token, run.Page, run.Profile, run.Options); err != nil {
		return fmt.Errorf("save trace: insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO events (run_token, seq, kind, effect, target, detail)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_token, seq) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("save trace: prepare: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err := stmt.ExecContext(ctx,
			run.Token, ev.Seq, string(ev.Kind), ev.Effect, ev.Target, ev.Detail,
		); err != nil {
			return fmt.Errorf("save trace: insert event seq %d: %w", ev.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save trace: commit: %w", err)
	}
	return nil
}
