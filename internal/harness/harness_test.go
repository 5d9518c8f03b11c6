package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const toggleMealyYAML = `
name: toggle
kind: mealy
initial: a
states: [a, b]
transitions:
  - {from: a, on: go, to: b}
  - {from: b, on: back, to: a}
outputs:
  - {state: a, on: go, emit: x}
  - {state: b, on: back, emit: y}
`

const toggleMooreYAML = `
name: toggle
kind: moore
initial: a
states: [a, b, c]
transitions:
  - {from: a, on: go, to: b}
  - {from: b, on: back, to: a}
  - {from: b, on: jump, to: c}
state_outputs: [x, y]
`

func writeToggleDefs(t *testing.T) (mealyPath, moorePath string) {
	t.Helper()
	dir := t.TempDir()
	mealyPath = filepath.Join(dir, "toggle_mealy.yaml")
	moorePath = filepath.Join(dir, "toggle_moore.yaml")
	require.NoError(t, os.WriteFile(mealyPath, []byte(toggleMealyYAML), 0o644))
	require.NoError(t, os.WriteFile(moorePath, []byte(toggleMooreYAML), 0o644))
	return mealyPath, moorePath
}

func TestRun_MealyScenario_Pass(t *testing.T) {
	mealyPath, _ := writeToggleDefs(t)

	result, err := Run(&Scenario{
		Name:       "mealy_pass",
		Definition: mealyPath,
		Steps: []Step{
			{Input: "go", Expect: &Expect{Output: "x", State: "b"}},
			{Input: "back", Expect: &Expect{Output: "y", State: "a"}},
		},
		Assertions: []Assertion{
			{Type: AssertFinalState, State: "a"},
			{Type: AssertStepCount, Count: 2},
			{Type: AssertErrorCount, Count: 0},
		},
	})
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "a", result.FinalState)
	assert.Len(t, result.Snapshot.Events, 2)
	assert.Equal(t, "test-run-default", result.Snapshot.RunToken)
}

func TestRun_ExpectedNoTransition(t *testing.T) {
	mealyPath, _ := writeToggleDefs(t)

	result, err := Run(&Scenario{
		Name:       "mealy_rejects",
		Definition: mealyPath,
		Steps: []Step{
			// No rule for back in state a; state must hold.
			{Input: "back", Expect: &Expect{Error: "no_transition", State: "a"}},
		},
		Assertions: []Assertion{{Type: AssertErrorCount, Count: 1}},
	})
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_MoorePartialCommit(t *testing.T) {
	_, moorePath := writeToggleDefs(t)

	result, err := Run(&Scenario{
		Name:       "moore_partial_commit",
		Definition: moorePath,
		Steps: []Step{
			{Input: "go", Expect: &Expect{Output: "y", State: "b"}},
			// c has no state output; the step fails but the machine is in c.
			{Input: "jump", Expect: &Expect{Error: "no_output", State: "c"}},
		},
		Assertions: []Assertion{
			{Type: AssertFinalState, State: "c"},
			{Type: AssertErrorCount, Count: 1},
		},
	})
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_ExpectationMismatch(t *testing.T) {
	mealyPath, _ := writeToggleDefs(t)

	result, err := Run(&Scenario{
		Name:       "mealy_wrong_output",
		Definition: mealyPath,
		Steps: []Step{
			{Input: "go", Expect: &Expect{Output: "y"}},
		},
	})
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], `expected output "y"`)
}

func TestRun_UnexpectedError(t *testing.T) {
	mealyPath, _ := writeToggleDefs(t)

	result, err := Run(&Scenario{
		Name:       "mealy_unexpected_error",
		Definition: mealyPath,
		Steps: []Step{
			{Input: "back", Expect: &Expect{Output: "y"}},
		},
	})
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "expected success, got no_transition")
}

func TestRun_ResetStep(t *testing.T) {
	mealyPath, _ := writeToggleDefs(t)

	result, err := Run(&Scenario{
		Name:       "mealy_reset",
		Definition: mealyPath,
		Steps: []Step{
			{Input: "go"},
			{Reset: "a", Expect: &Expect{State: "a"}},
			{Input: "go", Expect: &Expect{Output: "x"}},
		},
		Assertions: []Assertion{{Type: AssertStepCount, Count: 2}},
	})
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_FailedAssertions(t *testing.T) {
	mealyPath, _ := writeToggleDefs(t)

	result, err := Run(&Scenario{
		Name:       "mealy_bad_assertions",
		Definition: mealyPath,
		Steps:      []Step{{Input: "go"}},
		Assertions: []Assertion{
			{Type: AssertFinalState, State: "a"},
			{Type: AssertStepCount, Count: 5},
			{Type: "telepathy"},
		},
	})
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.Len(t, result.Errors, 3)
}

func TestRun_MalformedSteps(t *testing.T) {
	mealyPath, _ := writeToggleDefs(t)

	_, err := Run(&Scenario{
		Name:       "both_set",
		Definition: mealyPath,
		Steps:      []Step{{Input: "go", Reset: "a"}},
	})
	assert.ErrorContains(t, err, "both input and reset")

	_, err = Run(&Scenario{
		Name:       "neither_set",
		Definition: mealyPath,
		Steps:      []Step{{}},
	})
	assert.ErrorContains(t, err, "neither input nor reset")

	_, err = Run(&Scenario{
		Name:       "bad_reset",
		Definition: mealyPath,
		Steps:      []Step{{Reset: "limbo"}},
	})
	assert.ErrorContains(t, err, "unknown state")
}

func TestRun_DefinitionMissing(t *testing.T) {
	_, err := Run(&Scenario{
		Name:       "no_def",
		Definition: filepath.Join(t.TempDir(), "missing.yaml"),
		Steps:      []Step{{Input: "go"}},
	})
	assert.Error(t, err)
}

func TestRun_FixedRunToken(t *testing.T) {
	mealyPath, _ := writeToggleDefs(t)

	result, err := Run(&Scenario{
		Name:       "token",
		Definition: mealyPath,
		RunToken:   "run-42",
		Steps:      []Step{{Input: "go"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "run-42", result.Snapshot.RunToken)
}
