package trace

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fsmtab/fsm"
	"github.com/roach88/fsmtab/internal/testutil"
)

func TestErrKind_Mapping(t *testing.T) {
	assert.Equal(t, "", ErrKind(nil))
	assert.Equal(t, ErrKindNoTransition, ErrKind(fsm.ErrNoTransition))
	assert.Equal(t, ErrKindNoOutput, ErrKind(fsm.ErrNoOutput))
	assert.Equal(t, ErrKindOther, ErrKind(errors.New("disk on fire")))
}

func TestRecorder_StampsSequentially(t *testing.T) {
	r := NewRecorder("lightswitch", "mealy", testutil.NewFixedRunTokenGenerator("run-1"))

	r.Step("press_on", "low", "off", "dimmed", nil)
	r.Step("press_on", "", "dimmed", "dimmed", fsm.ErrNoTransition)
	r.Reset("dimmed", "off")

	events := r.Events()
	require.Len(t, events, 3)

	assert.Equal(t, int64(1), events[0].Seq)
	assert.Equal(t, int64(2), events[1].Seq)
	assert.Equal(t, int64(3), events[2].Seq)

	assert.Equal(t, KindStep, events[0].Kind)
	assert.Equal(t, "low", events[0].Output)
	assert.Empty(t, events[0].Err)

	assert.Equal(t, ErrKindNoTransition, events[1].Err)
	assert.Empty(t, events[1].Output, "failed steps record no output")

	assert.Equal(t, KindReset, events[2].Kind)
	assert.Equal(t, "off", events[2].To)
}

func TestRecorder_Token(t *testing.T) {
	r := NewRecorder("m", "moore", testutil.NewFixedRunTokenGenerator(""))
	assert.Equal(t, "test-run-default", r.Token())
	assert.Equal(t, "m", r.Machine())
	assert.Equal(t, "moore", r.MachineKind())
}

func TestUUIDv7Generator_UniqueTokens(t *testing.T) {
	gen := UUIDv7Generator{}
	a := gen.Generate()
	b := gen.Generate()

	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestSnapshot_RenderText(t *testing.T) {
	r := NewRecorder("lightswitch", "moore", testutil.NewFixedRunTokenGenerator("run-1"))
	r.Step("press_on", "low", "off", "dimmed", nil)
	r.Step("press_off", "", "dimmed", "dimmed", fsm.ErrNoTransition)
	r.Step("surge", "", "dimmed", "overload", fsm.ErrNoOutput)
	r.Reset("overload", "off")

	var buf bytes.Buffer
	require.NoError(t, r.Snapshot().RenderText(&buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "run run-1 machine=lightswitch kind=moore events=4", lines[0])
	assert.Equal(t, "[1] step  press_on: off -> dimmed (low)", lines[1])
	assert.Equal(t, "[2] step  press_off: dimmed -| no_transition", lines[2])
	assert.Equal(t, "[3] step  surge: dimmed -> overload -| no_output", lines[3])
	assert.Equal(t, "[4] reset overload -> off", lines[4])
}

func TestSnapshot_MarshalIndent_Stable(t *testing.T) {
	r := NewRecorder("m", "mealy", testutil.NewFixedRunTokenGenerator("run-1"))
	r.Step("go", "x", "a", "b", nil)

	first, err := r.Snapshot().MarshalIndent()
	require.NoError(t, err)
	second, err := r.Snapshot().MarshalIndent()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, bytes.HasSuffix(first, []byte("\n")))
	assert.Contains(t, string(first), `"run_token": "run-1"`)
}
