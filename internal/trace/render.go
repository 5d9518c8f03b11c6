package trace

import (
	"encoding/json"
	"fmt"
	"io"
)

// Snapshot is the serializable form of a recorded run.
type Snapshot struct {
	Machine  string  `json:"machine"`
	Kind     string  `json:"kind"`
	RunToken string  `json:"run_token"`
	Events   []Event `json:"events"`
}

// MarshalIndent renders the snapshot as indented JSON with a trailing
// newline. This is the golden-file format: field order is fixed by the
// struct, so output is byte-stable across runs.
func (s Snapshot) MarshalIndent() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal trace snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// RenderText writes a human-readable trace listing, one line per event.
//
//	[3] step  press_on: dimmed -> medium (medium)
//	[4] step  press_on: medium -| no_transition
//	[5] reset medium -> off
func (s Snapshot) RenderText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "run %s machine=%s kind=%s events=%d\n",
		s.RunToken, s.Machine, s.Kind, len(s.Events)); err != nil {
		return err
	}
	for _, ev := range s.Events {
		if err := renderEvent(w, ev); err != nil {
			return err
		}
	}
	return nil
}

func renderEvent(w io.Writer, ev Event) error {
	var err error
	switch {
	case ev.Kind == KindReset:
		_, err = fmt.Fprintf(w, "[%d] reset %s -> %s\n", ev.Seq, ev.From, ev.To)
	case ev.Err == ErrKindNoTransition:
		// State did not move; render the rejected input against From.
		_, err = fmt.Fprintf(w, "[%d] step  %s: %s -| no_transition\n", ev.Seq, ev.Input, ev.From)
	case ev.Err != "":
		_, err = fmt.Fprintf(w, "[%d] step  %s: %s -> %s -| %s\n", ev.Seq, ev.Input, ev.From, ev.To, ev.Err)
	default:
		_, err = fmt.Fprintf(w, "[%d] step  %s: %s -> %s (%s)\n", ev.Seq, ev.Input, ev.From, ev.To, ev.Output)
	}
	return err
}
