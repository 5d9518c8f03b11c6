package fsm

// Moore is a finite-state machine whose output depends only on the current
// state. Outputs are a flat array indexed by state value: outputs[s] is the
// output of state s.
//
// The zero value is not useful; construct with NewMoore.
type Moore[I comparable, O any] struct {
	state       State
	transitions []Transition[I]
	outputs     []O
}

// NewMoore creates a Moore machine starting in initial.
//
// No validation is performed. In particular the outputs array is not
// required to cover every state named by the transition table; a machine
// can legally transition into a state the array does not reach, at which
// point Step and CurrentOutput return ErrNoOutput.
func NewMoore[I comparable, O any](initial State, transitions []Transition[I], outputs []O) *Moore[I, O] {
	return &Moore[I, O]{
		state:       initial,
		transitions: transitions,
		outputs:     outputs,
	}
}

// Step processes one input: resolves the next state, commits it, then
// returns the output of the ARRIVED-AT state.
//
// On ErrNoTransition the state is unchanged. On ErrNoOutput the state has
// ALREADY advanced to the resolved next state and is not rolled back —
// Moore output is derived strictly from the committed state, so the commit
// happens before the output is known. A failed Step can therefore leave
// the machine parked in a state with no defined output; CurrentOutput will
// keep returning ErrNoOutput until the machine transitions or is Reset
// elsewhere. Callers relying on Mealy-style atomicity must not assume it
// here.
func (m *Moore[I, O]) Step(input I) (O, error) {
	next, ok := resolve(m.transitions, m.state, input)
	if !ok {
		var zero O
		return zero, ErrNoTransition
	}

	m.state = next

	return m.output()
}

// CurrentState returns the current state. Read-only.
func (m *Moore[I, O]) CurrentState() State {
	return m.state
}

// CurrentOutput returns the output of the current state without
// transitioning. Idempotent and side-effect-free. Returns ErrNoOutput if
// the output array has no entry at the current state index.
func (m *Moore[I, O]) CurrentOutput() (O, error) {
	return m.output()
}

// Reset unconditionally overwrites the current state, validated against
// nothing.
func (m *Moore[I, O]) Reset(state State) {
	m.state = state
}

func (m *Moore[I, O]) output() (O, error) {
	if int(m.state) >= len(m.outputs) {
		var zero O
		return zero, ErrNoOutput
	}
	return m.outputs[m.state], nil
}
