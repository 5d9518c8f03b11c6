package harness

import "github.com/roach88/fsmtab/internal/trace"

// checkAssertion evaluates one finished-run assertion against the result.
func checkAssertion(result *Result, assertion Assertion) {
	switch assertion.Type {
	case AssertFinalState:
		if result.FinalState != assertion.State {
			result.addError("final_state: expected %q, got %q", assertion.State, result.FinalState)
		}

	case AssertStepCount:
		got := countEvents(result.Snapshot.Events, func(ev trace.Event) bool {
			return ev.Kind == trace.KindStep
		})
		if got != assertion.Count {
			result.addError("step_count: expected %d, got %d", assertion.Count, got)
		}

	case AssertErrorCount:
		got := countEvents(result.Snapshot.Events, func(ev trace.Event) bool {
			return ev.Err != ""
		})
		if got != assertion.Count {
			result.addError("error_count: expected %d, got %d", assertion.Count, got)
		}

	default:
		result.addError("unknown assertion type %q", assertion.Type)
	}
}

func countEvents(events []trace.Event, match func(trace.Event) bool) int {
	n := 0
	for _, ev := range events {
		if match(ev) {
			n++
		}
	}
	return n
}
