package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/fsmtab/internal/store"
	"github.com/roach88/fsmtab/internal/trace"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	RunToken string
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show recorded runs",
		Long: `List recorded runs, or print one run's full event trace.

Without --run, all runs in the database are listed with their event
counts. With --run, the named run is rendered event by event (or as a
JSON snapshot with --format json).

Exit codes:
  0 - Success
  2 - Command error (unknown run, broken database)

Examples:
  fsmtab trace --db ./trace.db
  fsmtab trace --db ./trace.db --run 0198...
  fsmtab trace --db ./trace.db --run 0198... --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite trace database (required)")
	cmd.Flags().StringVar(&opts.RunToken, "run", "", "show this run's events")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open trace database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing trace database", "error", closeErr)
		}
	}()

	if opts.RunToken == "" {
		return listRuns(opts, st, cmd)
	}
	return showRun(opts, st, cmd)
}

func listRuns(opts *TraceOptions, st *store.Store, cmd *cobra.Command) error {
	runs, err := st.ListRuns(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	if opts.Format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No recorded runs.")
		return nil
	}
	for _, run := range runs {
		fmt.Fprintf(out, "%s machine=%s kind=%s events=%d\n", run.Token, run.Machine, run.Kind, run.Steps)
	}
	return nil
}

func showRun(opts *TraceOptions, st *store.Store, cmd *cobra.Command) error {
	run, events, err := st.ReadRun(cmd.Context(), opts.RunToken)
	if errors.Is(err, store.ErrRunNotFound) {
		return NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", opts.RunToken))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	snap := trace.Snapshot{
		Machine:  run.Machine,
		Kind:     run.Kind,
		RunToken: run.Token,
		Events:   events,
	}

	if opts.Format == "json" {
		data, err := snap.MarshalIndent()
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to render trace", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	return snap.RenderText(cmd.OutOrStdout())
}
