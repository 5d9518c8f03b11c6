package tabledef

import (
	"errors"

	"github.com/roach88/fsmtab/fsm"
	"github.com/roach88/fsmtab/internal/symbol"
)

// Machine errors, distinct from the engine's step errors: these concern
// the symbolic surface, not the tables.
var (
	// ErrUnknownInput is returned by Step for an input symbol the
	// definition never mentions. Distinct from fsm.ErrNoTransition, which
	// means a known input with no rule in the current state.
	ErrUnknownInput = errors.New("tabledef: unknown input symbol")

	// ErrUnknownState is returned by Reset for a state name the
	// definition does not declare.
	ErrUnknownState = errors.New("tabledef: unknown state name")

	// ErrNotMoore is returned by CurrentOutput on a Mealy machine, whose
	// states have no standalone output.
	ErrNotMoore = errors.New("tabledef: state output is only defined for moore machines")
)

// Machine wraps a compiled fsm engine with the definition's symbol tables,
// accepting input symbols and rendering states by name. Exactly one of the
// two underlying engines is set, per Kind.
type Machine struct {
	name   string
	kind   Kind
	states *symbol.Table
	inputs *symbol.Table

	mealy *fsm.Mealy[uint8, string]
	moore *fsm.Moore[uint8, string]
}

// Compile resolves a definition's names and builds the fsm tables.
//
// Errors here are strictly name-resolution failures: an unknown state in a
// transition row, an initial state missing from the state list, a bad
// kind. Semantic problems (duplicate keys, missing outputs) compile
// without complaint; see Validate.
func Compile(def *Definition) (*Machine, error) {
	if def.Kind != KindMealy && def.Kind != KindMoore {
		return nil, loadErrorf(ErrCodeCompile, "", "unknown machine kind %q (want %q or %q)", def.Kind, KindMealy, KindMoore)
	}

	states, err := symbol.NewTable(def.States)
	if err != nil {
		return nil, loadErrorf(ErrCodeCompile, "", "states: %v", err)
	}

	initial, ok := states.ID(def.Initial)
	if !ok {
		return nil, loadErrorf(ErrCodeCompile, "", "initial state %q is not declared in states", def.Initial)
	}

	inputs, err := symbol.NewTable(collectInputs(def))
	if err != nil {
		return nil, loadErrorf(ErrCodeCompile, "", "inputs: %v", err)
	}

	transitions := make([]fsm.Transition[uint8], 0, len(def.Transitions))
	for _, row := range def.Transitions {
		from, ok := states.ID(row.From)
		if !ok {
			return nil, loadErrorf(ErrCodeCompile, "", "transition references undeclared state %q", row.From)
		}
		to, ok := states.ID(row.To)
		if !ok {
			return nil, loadErrorf(ErrCodeCompile, "", "transition references undeclared state %q", row.To)
		}
		in, ok := inputs.ID(row.On)
		if !ok {
			// collectInputs saw every transition row, so this cannot miss.
			return nil, loadErrorf(ErrCodeCompile, "", "transition input %q not interned", row.On)
		}
		transitions = append(transitions, fsm.Transition[uint8]{From: from, Input: in, To: to})
	}

	m := &Machine{
		name:   def.Name,
		kind:   def.Kind,
		states: states,
		inputs: inputs,
	}

	switch def.Kind {
	case KindMealy:
		outputs := make([]fsm.Output[uint8, string], 0, len(def.Outputs))
		for _, row := range def.Outputs {
			state, ok := states.ID(row.State)
			if !ok {
				return nil, loadErrorf(ErrCodeCompile, "", "output references undeclared state %q", row.State)
			}
			in, ok := inputs.ID(row.On)
			if !ok {
				return nil, loadErrorf(ErrCodeCompile, "", "output input %q not interned", row.On)
			}
			outputs = append(outputs, fsm.Output[uint8, string]{State: state, Input: in, Value: symbol.Normalize(row.Emit)})
		}
		m.mealy = fsm.NewMealy(initial, transitions, outputs)

	case KindMoore:
		outputs := make([]string, len(def.StateOutputs))
		for i, emit := range def.StateOutputs {
			outputs[i] = symbol.Normalize(emit)
		}
		m.moore = fsm.NewMoore(initial, transitions, outputs)
	}

	return m, nil
}

// collectInputs gathers input symbols in first-appearance order across the
// transition table, then the Mealy output table.
func collectInputs(def *Definition) []string {
	seen := make(map[string]bool)
	var inputs []string
	add := func(raw string) {
		name := symbol.Normalize(raw)
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		inputs = append(inputs, name)
	}
	for _, row := range def.Transitions {
		add(row.On)
	}
	if def.Kind == KindMealy {
		for _, row := range def.Outputs {
			add(row.On)
		}
	}
	return inputs
}

// Name returns the definition's machine name.
func (m *Machine) Name() string { return m.name }

// Kind returns the machine model.
func (m *Machine) Kind() Kind { return m.kind }

// States returns the state symbol table.
func (m *Machine) States() *symbol.Table { return m.states }

// Inputs returns the input symbol table.
func (m *Machine) Inputs() *symbol.Table { return m.inputs }

// Step feeds one input symbol to the underlying engine and returns the
// emitted output symbol. Engine errors (fsm.ErrNoTransition,
// fsm.ErrNoOutput) pass through untouched, preserving the engines'
// respective commit semantics.
func (m *Machine) Step(input string) (string, error) {
	in, ok := m.inputs.ID(input)
	if !ok {
		return "", ErrUnknownInput
	}
	if m.kind == KindMealy {
		return m.mealy.Step(in)
	}
	return m.moore.Step(in)
}

// CurrentState returns the numeric current state.
func (m *Machine) CurrentState() fsm.State {
	if m.kind == KindMealy {
		return m.mealy.CurrentState()
	}
	return m.moore.CurrentState()
}

// StateName renders the current state by its declared name.
func (m *Machine) StateName() string {
	return m.states.Name(m.CurrentState())
}

// CurrentOutput returns the current state's output symbol (Moore only,
// without transitioning).
func (m *Machine) CurrentOutput() (string, error) {
	if m.kind != KindMoore {
		return "", ErrNotMoore
	}
	return m.moore.CurrentOutput()
}

// Reset moves the machine to the named state.
func (m *Machine) Reset(state string) error {
	id, ok := m.states.ID(state)
	if !ok {
		return ErrUnknownState
	}
	m.ResetState(id)
	return nil
}

// ResetState moves the machine to a numeric state, validated against
// nothing, mirroring the engine contract.
func (m *Machine) ResetState(state fsm.State) {
	if m.kind == KindMealy {
		m.mealy.Reset(state)
		return
	}
	m.moore.Reset(state)
}
