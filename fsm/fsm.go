package fsm

// State identifies a machine state. States are opaque table indices in the
// range 0-255; the engine attaches no meaning to them beyond equality and
// Moore output-array indexing. The byte-sized state space is deliberate: it
// keeps Moore output lookup a flat array index.
type State = uint8

// Transition is one row of a transition table: in state From, on Input,
// move to state To.
//
// Tables are plain slices owned by the caller. They must not be mutated
// while any machine references them, and must outlive every such machine.
type Transition[I comparable] struct {
	From  State
	Input I
	To    State
}

// Output is one row of a Mealy output table: in state State, on Input,
// emit Value. The key is the PRE-transition state, per Mealy semantics.
type Output[I comparable, O any] struct {
	State State
	Input I
	Value O
}

// resolve scans table in declaration order and returns the destination of
// the first row matching (from, input). The second result reports whether
// a row matched.
//
// Pure: no side effects, no machine state touched. A miss is not an error
// here; the calling engine decides when a miss becomes ErrNoTransition.
func resolve[I comparable](table []Transition[I], from State, input I) (State, bool) {
	for i := range table {
		if table[i].From == from && table[i].Input == input {
			return table[i].To, true
		}
	}
	return 0, false
}

// resolveOutput scans a Mealy output table in declaration order and returns
// the value of the first row matching (state, input). Same first-match-wins
// discipline as resolve.
func resolveOutput[I comparable, O any](table []Output[I, O], state State, input I) (O, bool) {
	for i := range table {
		if table[i].State == state && table[i].Input == input {
			return table[i].Value, true
		}
	}
	var zero O
	return zero, false
}
