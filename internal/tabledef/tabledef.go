// Package tabledef loads machine definitions from YAML or CUE files and
// compiles them into fsm tables over interned string symbols.
//
// A definition names its states; state identifiers are assigned by
// declaration order, which is also the index order of a Moore definition's
// state_outputs list. Input and output symbols are free-form strings,
// NFC-normalized before comparison.
//
// Compile performs name resolution only. It deliberately does NOT validate
// table semantics: duplicate transition keys, missing Mealy outputs and
// short Moore output lists all compile fine and surface as step errors at
// runtime, exactly as with hand-built fsm tables. Validate is a separate
// debug aid that reports those conditions without affecting behavior.
package tabledef

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Kind selects the machine model of a definition.
type Kind string

const (
	KindMealy Kind = "mealy"
	KindMoore Kind = "moore"
)

// Definition is the on-disk shape of a machine, decodable from YAML
// (yaml tags) and CUE (json tags).
type Definition struct {
	// Name identifies the machine in traces and CLI output.
	Name string `yaml:"name" json:"name"`

	// Kind is "mealy" or "moore".
	Kind Kind `yaml:"kind" json:"kind"`

	// Initial is the starting state name. Must appear in States.
	Initial string `yaml:"initial" json:"initial"`

	// States declares the state names. Declaration order assigns the
	// numeric state identifiers 0..len-1.
	States []string `yaml:"states" json:"states"`

	// Transitions is the transition table in declaration order. Order is
	// significant: lookups are first-match-wins.
	Transitions []TransitionDef `yaml:"transitions" json:"transitions"`

	// Outputs is the Mealy output table, keyed on (state, on). Ignored for
	// Moore definitions.
	Outputs []OutputDef `yaml:"outputs,omitempty" json:"outputs,omitempty"`

	// StateOutputs lists Moore outputs by state declaration order:
	// StateOutputs[i] is the output of States[i]. May be shorter than
	// States; uncovered states have no output. Ignored for Mealy
	// definitions.
	StateOutputs []string `yaml:"state_outputs,omitempty" json:"state_outputs,omitempty"`
}

// TransitionDef is one transition row: from --on--> to.
type TransitionDef struct {
	From string `yaml:"from" json:"from"`
	On   string `yaml:"on" json:"on"`
	To   string `yaml:"to" json:"to"`
}

// OutputDef is one Mealy output row: in state State, on input On, emit.
type OutputDef struct {
	State string `yaml:"state" json:"state"`
	On    string `yaml:"on" json:"on"`
	Emit  string `yaml:"emit" json:"emit"`
}

// Load reads a definition file, dispatching on extension:
// .yaml/.yml or .cue.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, loadErrorf(ErrCodeNotFound, path, "definition file not found")
		}
		return nil, loadErrorf(ErrCodeNotFound, path, "reading definition: %v", err)
	}

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return loadYAML(path, data)
	case ".cue":
		return loadCUE(path, data)
	default:
		return nil, loadErrorf(ErrCodeFormat, path, "unsupported definition format %q (want .yaml, .yml or .cue)", filepath.Ext(path))
	}
}

// LoadMachine loads and compiles a definition in one call.
func LoadMachine(path string) (*Machine, error) {
	def, err := Load(path)
	if err != nil {
		return nil, err
	}
	m, err := Compile(def)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func loadYAML(path string, data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, loadErrorf(ErrCodeParse, path, "parsing YAML: %v", err)
	}
	return &def, nil
}
