package harness

import (
	"fmt"

	"github.com/roach88/fsmtab/internal/tabledef"
	"github.com/roach88/fsmtab/internal/testutil"
	"github.com/roach88/fsmtab/internal/trace"
)

// Result is the outcome of one scenario execution.
type Result struct {
	// Pass is true when every expectation and assertion held.
	Pass bool `json:"pass"`

	// Errors lists expectation and assertion failures. Empty when Pass.
	Errors []string `json:"errors,omitempty"`

	// FinalState is the machine's state name after the last step.
	FinalState string `json:"final_state"`

	// Snapshot is the recorded run, suitable for rendering and golden
	// comparison.
	Snapshot trace.Snapshot `json:"snapshot"`
}

func (r *Result) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}

// Run executes a scenario against a freshly compiled machine.
//
// The returned error covers harness-level failures only (definition does
// not load, malformed step); expectation mismatches land in
// Result.Errors with Pass=false.
func Run(sc *Scenario) (*Result, error) {
	machine, err := tabledef.LoadMachine(sc.Definition)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}

	recorder := trace.NewRecorder(
		machine.Name(),
		string(machine.Kind()),
		testutil.NewFixedRunTokenGenerator(sc.RunToken),
	)

	result := &Result{Pass: true}

	for i, step := range sc.Steps {
		switch {
		case step.Reset != "" && step.Input != "":
			return nil, fmt.Errorf("scenario %s: step %d sets both input and reset", sc.Name, i)

		case step.Reset != "":
			from := machine.StateName()
			if err := machine.Reset(step.Reset); err != nil {
				return nil, fmt.Errorf("scenario %s: step %d: %w", sc.Name, i, err)
			}
			recorder.Reset(from, machine.StateName())
			if step.Expect != nil && step.Expect.State != "" && machine.StateName() != step.Expect.State {
				result.addError("step %d: expected state %q after reset, got %q", i, step.Expect.State, machine.StateName())
			}

		case step.Input != "":
			from := machine.StateName()
			out, stepErr := machine.Step(step.Input)
			to := machine.StateName()
			recorder.Step(step.Input, out, from, to, stepErr)
			checkExpect(result, i, step.Expect, out, to, stepErr)

		default:
			return nil, fmt.Errorf("scenario %s: step %d sets neither input nor reset", sc.Name, i)
		}
	}

	result.FinalState = machine.StateName()
	result.Snapshot = recorder.Snapshot()

	for _, assertion := range sc.Assertions {
		checkAssertion(result, assertion)
	}

	return result, nil
}

func checkExpect(result *Result, i int, expect *Expect, output, state string, err error) {
	if expect == nil {
		return
	}

	gotErr := trace.ErrKind(err)
	if gotErr != expect.Error {
		want := expect.Error
		if want == "" {
			want = "success"
		}
		got := gotErr
		if got == "" {
			got = "success"
		}
		result.addError("step %d: expected %s, got %s", i, want, got)
		return
	}

	if err == nil && expect.Output != "" && output != expect.Output {
		result.addError("step %d: expected output %q, got %q", i, expect.Output, output)
	}
	if expect.State != "" && state != expect.State {
		result.addError("step %d: expected state %q, got %q", i, expect.State, state)
	}
}
