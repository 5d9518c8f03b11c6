package fsm

// Mealy is a finite-state machine whose output depends on the current
// state and the triggering input.
//
// The zero value is not useful; construct with NewMealy. A Mealy machine
// owns only its current state. Both tables are borrowed and never written.
type Mealy[I comparable, O any] struct {
	state       State
	transitions []Transition[I]
	outputs     []Output[I, O]
}

// NewMealy creates a Mealy machine starting in initial.
//
// No validation is performed: initial need not appear in either table, and
// duplicate or missing rows are not detected. Undefined (state, input)
// pairs surface later as ErrNoTransition or ErrNoOutput from Step.
func NewMealy[I comparable, O any](initial State, transitions []Transition[I], outputs []Output[I, O]) *Mealy[I, O] {
	return &Mealy[I, O]{
		state:       initial,
		transitions: transitions,
		outputs:     outputs,
	}
}

// Step processes one input: resolves the next state, looks up the output
// keyed on the PRE-transition state and the input, then commits.
//
// Step is all-or-nothing. On ErrNoTransition the state is unchanged. On
// ErrNoOutput the state is ALSO unchanged, even though a next state was
// resolved: the transition does not commit unless both lookups succeed.
func (m *Mealy[I, O]) Step(input I) (O, error) {
	next, ok := resolve(m.transitions, m.state, input)
	if !ok {
		var zero O
		return zero, ErrNoTransition
	}

	// Mealy output is a function of (state, input), not of the destination:
	// the lookup key is the state before the transition.
	out, ok := resolveOutput(m.outputs, m.state, input)
	if !ok {
		var zero O
		return zero, ErrNoOutput
	}

	m.state = next
	return out, nil
}

// CurrentState returns the current state. Read-only.
func (m *Mealy[I, O]) CurrentState() State {
	return m.state
}

// Reset unconditionally overwrites the current state. The target is not
// checked against any table; resetting into a state with no outgoing
// transitions is legal and makes every following Step return
// ErrNoTransition.
func (m *Mealy[I, O]) Reset(state State) {
	m.state = state
}
