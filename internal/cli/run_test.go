package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fsmtab/internal/store"
	"github.com/roach88/fsmtab/internal/testutil"
)

const toggleMealyYAML = `
name: toggle
kind: mealy
initial: a
states: [a, b]
transitions:
  - {from: a, on: go, to: b}
  - {from: b, on: back, to: a}
outputs:
  - {state: a, on: go, emit: x}
  - {state: b, on: back, emit: y}
`

const toggleMooreYAML = `
name: toggle
kind: moore
initial: a
states: [a, b, c]
transitions:
  - {from: a, on: go, to: b}
  - {from: b, on: back, to: a}
  - {from: b, on: jump, to: c}
state_outputs: [x, y]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun_Interactive(t *testing.T) {
	defPath := writeFile(t, t.TempDir(), "toggle.yaml", toggleMealyYAML)

	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetIn(strings.NewReader("go\nback\nstate\nq\n"))
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"run", defPath})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "machine toggle (mealy)")
	assert.Contains(t, output, "output: x")
	assert.Contains(t, output, "output: y")
	assert.Contains(t, output, "state: a")
}

func TestRun_InteractiveErrors(t *testing.T) {
	defPath := writeFile(t, t.TempDir(), "toggle.yaml", toggleMealyYAML)

	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	// back is rejected in a; warp is not an input symbol at all.
	cmd.SetIn(strings.NewReader("back\nwarp\nreset c\nq\n"))
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"run", defPath})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "error: no_transition")
	assert.Contains(t, output, "unknown input")
	assert.Contains(t, output, `error: unknown state "c"`)
}

func TestRun_MooreShowsInitialOutput(t *testing.T) {
	defPath := writeFile(t, t.TempDir(), "toggle.yaml", toggleMooreYAML)

	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetIn(strings.NewReader("output\nq\n"))
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"run", defPath})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "output: x")
}

func TestRun_RecordRequiresDatabase(t *testing.T) {
	defPath := writeFile(t, t.TempDir(), "toggle.yaml", toggleMealyYAML)

	cmd := NewRootCommand()
	cmd.SetIn(strings.NewReader("q\n"))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"run", defPath, "--record"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRun_RecordedRun(t *testing.T) {
	dir := t.TempDir()
	defPath := writeFile(t, dir, "toggle.yaml", toggleMealyYAML)
	dbPath := filepath.Join(dir, "trace.db")

	// Drive runInteractive directly so the token generator can be pinned.
	opts := &RunOptions{
		RootOptions:    &RootOptions{Format: "text"},
		Record:         true,
		Database:       dbPath,
		TokenGenerator: testutil.NewFixedRunTokenGenerator("cli-run-0001"),
	}
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetIn(strings.NewReader("go\nback\nreset b\nq\n"))
	cmd.SetOut(&bytes.Buffer{})

	require.NoError(t, runInteractive(opts, defPath, cmd))

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	run, events, err := st.ReadRun(context.Background(), "cli-run-0001")
	require.NoError(t, err)
	assert.Equal(t, "toggle", run.Machine)
	assert.Equal(t, "mealy", run.Kind)
	require.Len(t, events, 3)
	assert.Equal(t, "go", events[0].Input)
	assert.Equal(t, "x", events[0].Output)
	assert.Equal(t, "reset", events[2].Kind)
	assert.Equal(t, "b", events[2].To)
}

func TestRun_DefinitionMissing(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"run", filepath.Join(t.TempDir(), "missing.yaml")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
