// Package trace records what a machine did: one event per step or reset,
// stamped with a logical clock, grouped into runs identified by a token.
//
// The trace is observability data. It is never read back into a machine;
// replaying a run means re-driving a fresh machine with the recorded
// inputs and checking the outcomes match.
package trace

import (
	"errors"

	"github.com/roach88/fsmtab/fsm"
)

// Event kinds.
const (
	KindStep  = "step"
	KindReset = "reset"
)

// Error kinds as recorded in traces. Empty string means the step
// succeeded.
const (
	ErrKindNoTransition = "no_transition"
	ErrKindNoOutput     = "no_output"
	ErrKindOther        = "error"
)

// Event is one recorded machine action. All fields are symbolic names, not
// numeric state identifiers, so traces stay readable and definition-order
// independent.
type Event struct {
	Seq    int64  `json:"seq"`
	Kind   string `json:"kind"`             // step | reset
	Input  string `json:"input,omitempty"`  // step only
	Output string `json:"output,omitempty"` // successful step only
	From   string `json:"from"`
	To     string `json:"to"`
	Err    string `json:"error,omitempty"` // no_transition | no_output
}

// ErrKind maps an engine error to its recorded kind string.
func ErrKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, fsm.ErrNoTransition):
		return ErrKindNoTransition
	case errors.Is(err, fsm.ErrNoOutput):
		return ErrKindNoOutput
	default:
		return ErrKindOther
	}
}

// Recorder accumulates the events of one run.
//
// Not safe for concurrent use; it belongs to the goroutine driving the
// machine.
type Recorder struct {
	token   string
	machine string
	kind    string // machine kind: mealy | moore
	clock   *Clock
	events  []Event
}

// NewRecorder starts a run for the named machine, drawing a token from gen.
func NewRecorder(machine, kind string, gen RunTokenGenerator) *Recorder {
	return &Recorder{
		token:   gen.Generate(),
		machine: machine,
		kind:    kind,
		clock:   NewClock(),
	}
}

// Token returns the run token.
func (r *Recorder) Token() string { return r.token }

// Machine returns the recorded machine's name.
func (r *Recorder) Machine() string { return r.machine }

// MachineKind returns the recorded machine's model kind.
func (r *Recorder) MachineKind() string { return r.kind }

// Step records one step attempt. from and to are the state names observed
// before and after the step; for a failed Mealy step they are equal, for a
// failed Moore output lookup they are not.
func (r *Recorder) Step(input, output, from, to string, err error) Event {
	ev := Event{
		Seq:    r.clock.Next(),
		Kind:   KindStep,
		Input:  input,
		From:   from,
		To:     to,
		Err:    ErrKind(err),
	}
	if err == nil {
		ev.Output = output
	}
	r.events = append(r.events, ev)
	return ev
}

// Reset records an explicit reset from one state to another.
func (r *Recorder) Reset(from, to string) Event {
	ev := Event{
		Seq:  r.clock.Next(),
		Kind: KindReset,
		From: from,
		To:   to,
	}
	r.events = append(r.events, ev)
	return ev
}

// Events returns the recorded events in seq order. The slice is shared;
// callers must not mutate it.
func (r *Recorder) Events() []Event {
	return r.events
}

// Snapshot packages a run for rendering and golden comparison.
func (r *Recorder) Snapshot() Snapshot {
	return Snapshot{
		Machine:  r.machine,
		Kind:     r.kind,
		RunToken: r.token,
		Events:   r.events,
	}
}
