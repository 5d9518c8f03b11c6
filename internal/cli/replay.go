package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/fsmtab/internal/store"
	"github.com/roach88/fsmtab/internal/tabledef"
	"github.com/roach88/fsmtab/internal/trace"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database   string
	Definition string
	RunToken   string
}

// Divergence describes one event where the replay disagreed with the
// recorded trace.
type Divergence struct {
	Seq      int64  `json:"seq"`
	Field    string `json:"field"` // "error", "output" or "state"
	Recorded string `json:"recorded"`
	Replayed string `json:"replayed"`
}

// ReplayResult holds the outcome of replaying one run.
type ReplayResult struct {
	RunToken      string       `json:"run_token"`
	Machine       string       `json:"machine"`
	Events        int          `json:"events"`
	Deterministic bool         `json:"deterministic"`
	Divergences   []Divergence `json:"divergences,omitempty"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-drive recorded runs and check determinism",
		Long: `Replay recorded runs against a fresh machine compiled from the
definition and compare every event: error kind, output and resulting
state must match what was recorded.

With --run, a single run is replayed; otherwise every run in the
database whose machine name matches the definition is replayed.

Exit codes:
  0 - All replays deterministic
  1 - At least one divergence
  2 - Command error (missing run, unloadable definition)

Examples:
  fsmtab replay --db ./trace.db --def examples/lightswitch_mealy.yaml
  fsmtab replay --db ./trace.db --def examples/lightswitch_mealy.yaml --run 0198...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite trace database (required)")
	cmd.Flags().StringVar(&opts.Definition, "def", "", "path to the machine definition (required)")
	cmd.Flags().StringVar(&opts.RunToken, "run", "", "replay only this run token")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("def")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	def, err := tabledef.Load(opts.Definition)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load definition", err)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open trace database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing trace database", "error", closeErr)
		}
	}()

	ctx := cmd.Context()

	var tokens []string
	if opts.RunToken != "" {
		tokens = []string{opts.RunToken}
	} else {
		runs, err := st.ListRuns(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
		for _, run := range runs {
			if run.Machine == def.Name {
				tokens = append(tokens, run.Token)
			}
		}
	}
	if len(tokens) == 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("no recorded runs for machine %q", def.Name))
	}

	results := make([]ReplayResult, 0, len(tokens))
	diverged := 0
	for _, token := range tokens {
		run, events, err := st.ReadRun(ctx, token)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to read run %s", token), err)
		}
		res, err := replayRun(def, run, events)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay run %s", token), err)
		}
		if !res.Deterministic {
			diverged++
		}
		results = append(results, res)
	}

	if opts.Format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		outputReplayText(cmd, results)
	}

	if diverged > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d runs diverged", diverged, len(results)))
	}
	return nil
}

// replayRun drives a fresh machine through a recorded event sequence
// and records every disagreement.
func replayRun(def *tabledef.Definition, run store.Run, events []trace.Event) (ReplayResult, error) {
	machine, err := tabledef.Compile(def)
	if err != nil {
		return ReplayResult{}, fmt.Errorf("compile %s: %w", def.Name, err)
	}

	res := ReplayResult{
		RunToken:      run.Token,
		Machine:       run.Machine,
		Events:        len(events),
		Deterministic: true,
	}

	for _, ev := range events {
		switch ev.Kind {
		case trace.KindReset:
			if err := machine.Reset(ev.To); err != nil {
				res.diverge(ev.Seq, "state", ev.To, fmt.Sprintf("unknown state %q", ev.To))
				continue
			}

		case trace.KindStep:
			output, stepErr := machine.Step(ev.Input)
			gotErr := ""
			if stepErr != nil {
				gotErr = trace.ErrKind(stepErr)
			}
			if gotErr != ev.Err {
				res.diverge(ev.Seq, "error", ev.Err, gotErr)
				// The recorded tail assumed the recorded outcome; keep
				// going anyway so all divergences surface.
			}
			if output != ev.Output {
				res.diverge(ev.Seq, "output", ev.Output, output)
			}
			if got := machine.StateName(); got != ev.To {
				res.diverge(ev.Seq, "state", ev.To, got)
			}

		default:
			return ReplayResult{}, fmt.Errorf("run %s: unknown event kind %q at seq %d", run.Token, ev.Kind, ev.Seq)
		}
	}
	return res, nil
}

func (r *ReplayResult) diverge(seq int64, field, recorded, replayed string) {
	r.Deterministic = false
	r.Divergences = append(r.Divergences, Divergence{
		Seq:      seq,
		Field:    field,
		Recorded: recorded,
		Replayed: replayed,
	})
}

func outputReplayText(cmd *cobra.Command, results []ReplayResult) {
	out := cmd.OutOrStdout()
	for _, res := range results {
		if res.Deterministic {
			fmt.Fprintf(out, "OK   %s (%d events)\n", res.RunToken, res.Events)
			continue
		}
		fmt.Fprintf(out, "FAIL %s (%d events, %d divergences)\n", res.RunToken, res.Events, len(res.Divergences))
		for _, d := range res.Divergences {
			fmt.Fprintf(out, "     [%d] %s: recorded %q, replayed %q\n", d.Seq, d.Field, d.Recorded, d.Replayed)
		}
	}
}
