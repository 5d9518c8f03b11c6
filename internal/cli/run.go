package cli

import (
	"bufio"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/fsmtab/internal/store"
	"github.com/roach88/fsmtab/internal/tabledef"
	"github.com/roach88/fsmtab/internal/trace"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Record   bool
	Database string

	// TokenGenerator allows overriding the run token generator (for
	// testing). If nil, defaults to UUIDv7Generator.
	TokenGenerator trace.RunTokenGenerator
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <definition>",
		Short: "Drive a machine interactively",
		Long: `Load a machine definition and step it with input symbols read line by
line from stdin.

Commands at the prompt:
  <input>        feed one input symbol to the machine
  reset <state>  move the machine to a named state
  state          print the current state
  output         print the current state's output (moore only)
  inputs         list the definition's input symbols
  q              quit

With --record, every step and reset is appended to the trace database
for later 'fsmtab trace' and 'fsmtab replay'.

Examples:
  fsmtab run examples/lightswitch_mealy.yaml
  fsmtab run examples/lightswitch_moore.yaml --record --db ./trace.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Record, "record", false, "record the run to the trace database")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite trace database (required with --record)")

	return cmd
}

func runInteractive(opts *RunOptions, defPath string, cmd *cobra.Command) error {
	machine, err := tabledef.LoadMachine(defPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load definition", err)
	}

	var (
		st       *store.Store
		recorder *trace.Recorder
	)
	if opts.Record {
		if opts.Database == "" {
			return NewExitError(ExitCommandError, "--record requires --db")
		}
		st, err = store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open trace database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing trace database", "error", closeErr)
			}
		}()

		gen := opts.TokenGenerator
		if gen == nil {
			gen = trace.UUIDv7Generator{}
		}
		recorder = trace.NewRecorder(machine.Name(), string(machine.Kind()), gen)
		if err := st.BeginRun(cmd.Context(), recorder.Token(), machine.Name(), string(machine.Kind())); err != nil {
			return WrapExitError(ExitCommandError, "failed to register run", err)
		}
		slog.Info("recording run", "token", recorder.Token())
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "machine %s (%s)\n", machine.Name(), machine.Kind())
	fmt.Fprintf(out, "state: %s\n", machine.StateName())
	if machine.Kind() == tabledef.KindMoore {
		if o, err := machine.CurrentOutput(); err == nil {
			fmt.Fprintf(out, "output: %s\n", o)
		}
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "q" || line == "quit" {
			break
		}
		if err := dispatch(machine, recorder, st, cmd, line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return WrapExitError(ExitCommandError, "reading input", err)
	}

	if recorder != nil {
		slog.Info("run recorded", "token", recorder.Token(), "events", len(recorder.Events()))
	}
	return nil
}

func dispatch(machine *tabledef.Machine, recorder *trace.Recorder, st *store.Store, cmd *cobra.Command, line string) error {
	out := cmd.OutOrStdout()

	switch {
	case line == "state":
		fmt.Fprintf(out, "state: %s\n", machine.StateName())

	case line == "output":
		o, err := machine.CurrentOutput()
		if err != nil {
			fmt.Fprintf(out, "error: %s\n", errKindOrMessage(err))
			return nil
		}
		fmt.Fprintf(out, "output: %s\n", o)

	case line == "inputs":
		fmt.Fprintf(out, "inputs: %s\n", strings.Join(machine.Inputs().Names(), ", "))

	case strings.HasPrefix(line, "reset "):
		target := strings.TrimSpace(strings.TrimPrefix(line, "reset "))
		from := machine.StateName()
		if err := machine.Reset(target); err != nil {
			fmt.Fprintf(out, "error: unknown state %q\n", target)
			return nil
		}
		fmt.Fprintf(out, "state: %s\n", machine.StateName())
		if recorder != nil {
			ev := recorder.Reset(from, machine.StateName())
			if err := st.AppendStep(cmd.Context(), recorder.Token(), ev); err != nil {
				return WrapExitError(ExitCommandError, "failed to record reset", err)
			}
		}

	default:
		from := machine.StateName()
		output, stepErr := machine.Step(line)
		to := machine.StateName()
		if recorder != nil {
			ev := recorder.Step(line, output, from, to, stepErr)
			if err := st.AppendStep(cmd.Context(), recorder.Token(), ev); err != nil {
				return WrapExitError(ExitCommandError, "failed to record step", err)
			}
		}
		if stepErr != nil {
			fmt.Fprintf(out, "error: %s\n", errKindOrMessage(stepErr))
			return nil
		}
		fmt.Fprintf(out, "output: %s\n", output)
		fmt.Fprintf(out, "state: %s\n", machine.StateName())
	}
	return nil
}

// errKindOrMessage renders engine errors by their trace kind and anything
// else verbatim.
func errKindOrMessage(err error) string {
	if kind := trace.ErrKind(err); kind != trace.ErrKindOther {
		return kind
	}
	return err.Error()
}
