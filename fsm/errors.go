package fsm

import "errors"

// Step errors. Both are non-fatal, returned as values, and pre-allocated so
// the step path never touches the heap. Match with errors.Is.
var (
	// ErrNoTransition is returned when no transition-table row matches the
	// current (state, input) pair. The machine state is guaranteed
	// unchanged.
	ErrNoTransition = errors.New("fsm: no transition for (state, input)")

	// ErrNoOutput is returned when a transition exists but the output
	// cannot be produced. For Mealy this means no output-table row matches
	// and the transition is NOT committed. For Moore this means the output
	// array has no entry at the new state index, and the transition has
	// already been committed.
	ErrNoOutput = errors.New("fsm: no output defined")
)
