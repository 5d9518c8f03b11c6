package tabledef

import (
	"fmt"

	"github.com/roach88/fsmtab/internal/symbol"
)

// Validation error codes.
const (
	ValCodeKind        = "VAL_KIND"
	ValCodeState       = "VAL_STATE"
	ValCodeDuplicate   = "VAL_DUPLICATE_KEY"
	ValCodeNoOutput    = "VAL_NO_OUTPUT"
	ValCodeUnreachable = "VAL_UNREACHABLE"
)

// ValidationError is one finding from Validate.
type ValidationError struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
}

// Validate inspects a definition for conditions the engine deliberately
// tolerates but callers usually do not want: duplicate lookup keys (the
// later row can never win), Mealy transitions with no matching output row
// (guaranteed NoOutput at runtime), Moore states the output list does not
// cover, and states unreachable from the initial state.
//
// Validate is a debug aid. It is never run by Compile and a failing
// definition still compiles and steps with the documented runtime
// behavior.
func Validate(def *Definition) []ValidationError {
	var errs []ValidationError

	if def.Kind != KindMealy && def.Kind != KindMoore {
		errs = append(errs, ValidationError{
			Code:    ValCodeKind,
			Field:   "kind",
			Message: fmt.Sprintf("unknown kind %q", def.Kind),
		})
		return errs
	}

	declared := make(map[string]int, len(def.States))
	for i, raw := range def.States {
		declared[symbol.Normalize(raw)] = i
	}

	if _, ok := declared[symbol.Normalize(def.Initial)]; !ok {
		errs = append(errs, ValidationError{
			Code:    ValCodeState,
			Field:   "initial",
			Message: fmt.Sprintf("initial state %q is not declared", def.Initial),
		})
	}

	type key struct{ state, on string }

	// Duplicate (from, on) transition keys: first-match-wins makes every
	// later duplicate dead weight.
	seenTrans := make(map[key]int)
	for i, row := range def.Transitions {
		for _, name := range []string{row.From, row.To} {
			if _, ok := declared[symbol.Normalize(name)]; !ok {
				errs = append(errs, ValidationError{
					Code:    ValCodeState,
					Field:   fmt.Sprintf("transitions[%d]", i),
					Message: fmt.Sprintf("undeclared state %q", name),
				})
			}
		}
		k := key{symbol.Normalize(row.From), symbol.Normalize(row.On)}
		if first, dup := seenTrans[k]; dup {
			errs = append(errs, ValidationError{
				Code:    ValCodeDuplicate,
				Field:   fmt.Sprintf("transitions[%d]", i),
				Message: fmt.Sprintf("duplicate key (%s, %s); row %d always wins", row.From, row.On, first),
			})
		} else {
			seenTrans[k] = i
		}
	}

	switch def.Kind {
	case KindMealy:
		seenOut := make(map[key]int)
		for i, row := range def.Outputs {
			if _, ok := declared[symbol.Normalize(row.State)]; !ok {
				errs = append(errs, ValidationError{
					Code:    ValCodeState,
					Field:   fmt.Sprintf("outputs[%d]", i),
					Message: fmt.Sprintf("undeclared state %q", row.State),
				})
			}
			k := key{symbol.Normalize(row.State), symbol.Normalize(row.On)}
			if first, dup := seenOut[k]; dup {
				errs = append(errs, ValidationError{
					Code:    ValCodeDuplicate,
					Field:   fmt.Sprintf("outputs[%d]", i),
					Message: fmt.Sprintf("duplicate key (%s, %s); row %d always wins", row.State, row.On, first),
				})
			} else {
				seenOut[k] = i
			}
		}
		// A transition whose (from, on) has no output row always fails
		// with NoOutput, and per Mealy atomicity never commits.
		for i, row := range def.Transitions {
			k := key{symbol.Normalize(row.From), symbol.Normalize(row.On)}
			if _, ok := seenOut[k]; !ok {
				errs = append(errs, ValidationError{
					Code:    ValCodeNoOutput,
					Field:   fmt.Sprintf("transitions[%d]", i),
					Message: fmt.Sprintf("no output row for (%s, %s); step will fail with no_output", row.From, row.On),
				})
			}
		}

	case KindMoore:
		for i, raw := range def.States {
			if i >= len(def.StateOutputs) {
				errs = append(errs, ValidationError{
					Code:    ValCodeNoOutput,
					Field:   fmt.Sprintf("states[%d]", i),
					Message: fmt.Sprintf("state %q has no entry in state_outputs; arriving there fails with no_output", raw),
				})
			}
		}
	}

	errs = append(errs, validateReachability(def, declared)...)
	return errs
}

// validateReachability walks transitions from the initial state and
// reports declared states no input sequence can reach. Reset can still
// reach them; this is advisory.
func validateReachability(def *Definition, declared map[string]int) []ValidationError {
	initial := symbol.Normalize(def.Initial)
	if _, ok := declared[initial]; !ok {
		return nil // already reported
	}

	adjacent := make(map[string][]string)
	for _, row := range def.Transitions {
		from := symbol.Normalize(row.From)
		adjacent[from] = append(adjacent[from], symbol.Normalize(row.To))
	}

	reached := map[string]bool{initial: true}
	frontier := []string{initial}
	for len(frontier) > 0 {
		state := frontier[0]
		frontier = frontier[1:]
		for _, next := range adjacent[state] {
			if !reached[next] {
				reached[next] = true
				frontier = append(frontier, next)
			}
		}
	}

	var errs []ValidationError
	for i, raw := range def.States {
		if !reached[symbol.Normalize(raw)] {
			errs = append(errs, ValidationError{
				Code:    ValCodeUnreachable,
				Field:   fmt.Sprintf("states[%d]", i),
				Message: fmt.Sprintf("state %q is unreachable from initial state %q", raw, def.Initial),
			})
		}
	}
	return errs
}
