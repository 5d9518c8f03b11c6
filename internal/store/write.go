package store

import (
	"context"
	"fmt"

	"github.com/roach88/fsmtab/internal/trace"
)

// BeginRun registers a run before its steps are appended.
//
// Uses ON CONFLICT(token) DO NOTHING for idempotency: re-registering an
// existing run (e.g. on a retried command) is silently ignored.
func (s *Store) BeginRun(ctx context.Context, token, machine, kind string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (token, machine, kind)
		VALUES (?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`, token, machine, kind)
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

// AppendStep appends one event to a run's log.
//
// Duplicate (run_token, seq) writes are silently ignored, so appending an
// already-persisted prefix is idempotent. The run must exist (foreign key).
func (s *Store) AppendStep(ctx context.Context, token string, ev trace.Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO steps (run_token, seq, kind, input, output, from_state, to_state, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_token, seq) DO NOTHING
	`, token, ev.Seq, ev.Kind, ev.Input, ev.Output, ev.From, ev.To, ev.Err)
	if err != nil {
		return fmt.Errorf("append step %d: %w", ev.Seq, err)
	}
	return nil
}

// AppendEvents appends a batch of events in one transaction.
func (s *Store) AppendEvents(ctx context.Context, token string, events []trace.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("append events: begin tx: %w", err)
	}
	defer tx.Rollback() // no-op if committed

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO steps (run_token, seq, kind, input, output, from_state, to_state, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_token, seq) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("append events: prepare: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err := stmt.ExecContext(ctx, token, ev.Seq, ev.Kind, ev.Input, ev.Output, ev.From, ev.To, ev.Err); err != nil {
			return fmt.Errorf("append events: seq %d: %w", ev.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("append events: commit: %w", err)
	}
	return nil
}
