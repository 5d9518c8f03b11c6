package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/fsmtab/internal/tabledef"
)

// ValidateResult holds the findings for one definition file.
type ValidateResult struct {
	File     string                     `json:"file"`
	Valid    bool                       `json:"valid"`
	Findings []tabledef.ValidationError `json:"findings"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <definition>...",
		Short: "Check definitions for table mistakes",
		Long: `Load definition files and report shadowed rows, missing outputs,
undeclared states and unreachable states.

These findings are advisory: the engine runs any definition that
compiles, with the documented runtime behavior for missing rows.

Exit codes:
  0 - No findings
  1 - One or more findings
  2 - Command error (file not found, parse failure)

Examples:
  fsmtab validate examples/lightswitch_mealy.yaml
  fsmtab validate examples/*.yaml --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	results := make([]ValidateResult, 0, len(paths))
	invalid := 0
	for _, path := range paths {
		def, err := tabledef.Load(path)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load definition", err)
		}
		findings := tabledef.Validate(def)
		if findings == nil {
			findings = []tabledef.ValidationError{}
		}
		if len(findings) > 0 {
			invalid++
		}
		results = append(results, ValidateResult{
			File:     path,
			Valid:    len(findings) == 0,
			Findings: findings,
		})
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
		if invalid > 0 {
			msg := fmt.Sprintf("%d of %d definitions have findings", invalid, len(paths))
			if err := formatter.Error("VALIDATION_FAILED", msg, results); err != nil {
				return err
			}
		} else if err := formatter.Success(results); err != nil {
			return err
		}
	} else {
		out := cmd.OutOrStdout()
		for _, res := range results {
			if res.Valid {
				fmt.Fprintf(out, "OK   %s\n", res.File)
				continue
			}
			fmt.Fprintf(out, "FAIL %s\n", res.File)
			for _, f := range res.Findings {
				fmt.Fprintf(out, "     [%s] %s: %s\n", f.Code, f.Field, f.Message)
			}
		}
	}

	if invalid > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d definitions have findings", invalid, len(paths)))
	}
	return nil
}
