package harness

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario is a declarative test of one machine definition.
type Scenario struct {
	// Name uniquely identifies the scenario; it is also the golden file
	// name.
	Name string `yaml:"name"`

	// Description explains what the scenario pins down.
	Description string `yaml:"description,omitempty"`

	// Definition is the machine definition file. Relative paths are
	// resolved against the scenario file's directory by LoadScenario.
	Definition string `yaml:"definition"`

	// RunToken fixes the recorded run token for deterministic golden
	// comparison. Empty defaults to "test-run-default".
	RunToken string `yaml:"run_token,omitempty"`

	// Steps is the input sequence. Each step either feeds one input
	// symbol or resets to a named state.
	Steps []Step `yaml:"steps"`

	// Assertions validate the finished run.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one scenario action: exactly one of Input or Reset is set.
type Step struct {
	// Input feeds one input symbol to the machine.
	Input string `yaml:"input,omitempty"`

	// Reset moves the machine to a named state instead of stepping.
	Reset string `yaml:"reset,omitempty"`

	// Expect optionally validates the step's outcome. A nil Expect means
	// the step runs unchecked; errors are still recorded in the trace.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect validates a step's outcome. Zero-valued fields are not checked.
type Expect struct {
	// Output is the expected emitted symbol. Only meaningful for steps
	// expected to succeed.
	Output string `yaml:"output,omitempty"`

	// State is the expected post-step state name.
	State string `yaml:"state,omitempty"`

	// Error is the expected error kind: "no_transition" or "no_output".
	// Empty means the step must succeed.
	Error string `yaml:"error,omitempty"`
}

// Assertion types.
const (
	AssertFinalState = "final_state"
	AssertStepCount  = "step_count"
	AssertErrorCount = "error_count"
)

// Assertion validates the finished run.
type Assertion struct {
	// Type is one of final_state, step_count, error_count.
	Type string `yaml:"type"`

	// State is the expected final state name (final_state).
	State string `yaml:"state,omitempty"`

	// Count is the expected number of step events (step_count) or failed
	// steps (error_count).
	Count int `yaml:"count,omitempty"`
}

// LoadScenario reads a scenario file and resolves its definition path
// relative to the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("scenario %s: missing name", path)
	}
	if sc.Definition == "" {
		return nil, fmt.Errorf("scenario %s: missing definition", path)
	}

	if !filepath.IsAbs(sc.Definition) {
		sc.Definition = filepath.Join(filepath.Dir(path), sc.Definition)
	}
	return &sc, nil
}
