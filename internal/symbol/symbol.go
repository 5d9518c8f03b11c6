// Package symbol interns the textual names used by machine definitions:
// state names, input symbols and output symbols.
//
// Names are NFC-normalized before comparison so that visually identical
// symbols from different definition files (or different editors) map to
// the same table entry. The interned identifier is a byte, matching the
// engine's 0-255 state space.
package symbol

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// MaxSymbols is the number of distinct symbols one table can hold,
// bounded by the byte-sized identifier space.
const MaxSymbols = 256

// Normalize canonicalizes a symbol name: trims surrounding whitespace and
// applies Unicode NFC so composed and decomposed spellings compare equal.
func Normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Table is an ordered, immutable set of interned symbol names. A symbol's
// identifier is its position in declaration order, which is what makes
// Moore output arrays line up with state declaration order.
type Table struct {
	names []string
	ids   map[string]uint8
}

// NewTable interns names in order. Names are normalized first; duplicates
// after normalization are an error, as is exceeding MaxSymbols.
func NewTable(names []string) (*Table, error) {
	if len(names) > MaxSymbols {
		return nil, fmt.Errorf("symbol table holds at most %d entries, got %d", MaxSymbols, len(names))
	}

	t := &Table{
		names: make([]string, 0, len(names)),
		ids:   make(map[string]uint8, len(names)),
	}
	for _, raw := range names {
		name := Normalize(raw)
		if name == "" {
			return nil, fmt.Errorf("empty symbol name at position %d", len(t.names))
		}
		if _, exists := t.ids[name]; exists {
			return nil, fmt.Errorf("duplicate symbol %q", name)
		}
		t.ids[name] = uint8(len(t.names))
		t.names = append(t.names, name)
	}
	return t, nil
}

// ID returns the identifier of a (raw, unnormalized) name.
func (t *Table) ID(name string) (uint8, bool) {
	id, ok := t.ids[Normalize(name)]
	return id, ok
}

// Name returns the declared name for an identifier. Identifiers outside
// the table render as "#N"; these occur legitimately, e.g. after resetting
// a machine into an unnamed state.
func (t *Table) Name(id uint8) string {
	if int(id) < len(t.names) {
		return t.names[id]
	}
	return fmt.Sprintf("#%d", id)
}

// Names returns the declared names in identifier order. The returned slice
// is shared; callers must not mutate it.
func (t *Table) Names() []string {
	return t.names
}

// Len returns the number of interned symbols.
func (t *Table) Len() int {
	return len(t.names)
}
