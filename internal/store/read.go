package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/fsmtab/internal/trace"
)

// ErrRunNotFound is returned by ReadRun for an unknown run token.
var ErrRunNotFound = errors.New("store: run not found")

// Run describes one recorded run.
type Run struct {
	Token     string `json:"token"`
	Machine   string `json:"machine"`
	Kind      string `json:"kind"`
	CreatedAt int64  `json:"created_at"`
	Steps     int    `json:"steps"`
}

// ReadRun returns a run's metadata and its events ordered by seq.
func (s *Store) ReadRun(ctx context.Context, token string) (Run, []trace.Event, error) {
	var run Run
	err := s.db.QueryRowContext(ctx, `
		SELECT token, machine, kind, created_at
		FROM runs
		WHERE token = ?
	`, token).Scan(&run.Token, &run.Machine, &run.Kind, &run.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, nil, ErrRunNotFound
	}
	if err != nil {
		return Run{}, nil, fmt.Errorf("read run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, kind, input, output, from_state, to_state, error
		FROM steps
		WHERE run_token = ?
		ORDER BY seq ASC
	`, token)
	if err != nil {
		return Run{}, nil, fmt.Errorf("query steps: %w", err)
	}
	defer rows.Close()

	events := []trace.Event{}
	for rows.Next() {
		var ev trace.Event
		if err := rows.Scan(&ev.Seq, &ev.Kind, &ev.Input, &ev.Output, &ev.From, &ev.To, &ev.Err); err != nil {
			return Run{}, nil, fmt.Errorf("scan step: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return Run{}, nil, fmt.Errorf("iterate steps: %w", err)
	}

	run.Steps = len(events)
	return run, events, nil
}

// ListRuns returns all recorded runs, oldest first. Token order breaks
// creation-time ties deterministically.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.token, r.machine, r.kind, r.created_at, COUNT(s.seq)
		FROM runs r
		LEFT JOIN steps s ON s.run_token = r.token
		GROUP BY r.token
		ORDER BY r.created_at ASC, r.token ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.Token, &run.Machine, &run.Kind, &run.CreatedAt, &run.Steps); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
