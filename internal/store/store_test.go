package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fsmtab/internal/trace"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleEvents() []trace.Event {
	return []trace.Event{
		{Seq: 1, Kind: trace.KindStep, Input: "press_on", Output: "low", From: "off", To: "dimmed"},
		{Seq: 2, Kind: trace.KindStep, Input: "press_off", From: "dimmed", To: "dimmed", Err: trace.ErrKindNoTransition},
		{Seq: 3, Kind: trace.KindReset, From: "dimmed", To: "off"},
	}
}

func TestStore_OpenOnDisk_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.BeginRun(context.Background(), "run-1", "lightswitch", "mealy"))
	require.NoError(t, s.Close())

	// Reopening must not re-run migrations or lose data.
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	runs, err := s.ListRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].Token)
}

func TestStore_AppendAndReadRun(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.BeginRun(ctx, "run-1", "lightswitch", "mealy"))
	for _, ev := range sampleEvents() {
		require.NoError(t, s.AppendStep(ctx, "run-1", ev))
	}

	run, events, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)

	assert.Equal(t, "lightswitch", run.Machine)
	assert.Equal(t, "mealy", run.Kind)
	assert.Equal(t, 3, run.Steps)
	assert.Equal(t, sampleEvents(), events, "events round-trip in seq order")
}

func TestStore_AppendEvents_Batch(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.BeginRun(ctx, "run-1", "m", "moore"))
	require.NoError(t, s.AppendEvents(ctx, "run-1", sampleEvents()))

	_, events, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestStore_AppendStep_Idempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.BeginRun(ctx, "run-1", "m", "mealy"))
	ev := sampleEvents()[0]
	require.NoError(t, s.AppendStep(ctx, "run-1", ev))

	// Same seq again: silently ignored, first write wins.
	dup := ev
	dup.Output = "something-else"
	require.NoError(t, s.AppendStep(ctx, "run-1", dup))

	_, events, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "low", events[0].Output)
}

func TestStore_BeginRun_Idempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.BeginRun(ctx, "run-1", "m", "mealy"))
	require.NoError(t, s.BeginRun(ctx, "run-1", "m", "mealy"))

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestStore_AppendStep_UnknownRun(t *testing.T) {
	s := openTestStore(t)

	err := s.AppendStep(context.Background(), "ghost", sampleEvents()[0])
	assert.Error(t, err, "foreign key rejects steps for unregistered runs")
}

func TestStore_ReadRun_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, _, err := s.ReadRun(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestStore_ListRuns_CountsSteps(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.BeginRun(ctx, "run-a", "m1", "mealy"))
	require.NoError(t, s.AppendEvents(ctx, "run-a", sampleEvents()))
	require.NoError(t, s.BeginRun(ctx, "run-b", "m2", "moore"))

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	byToken := map[string]Run{}
	for _, r := range runs {
		byToken[r.Token] = r
	}
	assert.Equal(t, 3, byToken["run-a"].Steps)
	assert.Equal(t, 0, byToken["run-b"].Steps)
}
