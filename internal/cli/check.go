package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"projector-generator/internal/analyze"
	"projector-generator/internal/diagnostic"
)

// ErrCheckFailed reports that check found error diagnostics. They are
// already printed, so callers only need to set the exit code.
var ErrCheckFailed = errors.New("check failed")

func (a *app) checkCommand() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "check [patterns...]",
		Short: "Report planning diagnostics; fails when any error is found",
		RunE: func(cmd *cobra.Command, args []string) error {
			units, err := a.pipeline(args).Plan(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var errs, warnings int

			for _, unit := range units {
				short := analyze.NewTypeStringer(unit.Table).Short

				for d := range unit.Diagnostics.All() {
					if quiet && d.Severity == diagnostic.DiagnosticInfo {
						continue
					}
					printDiagnostic(out, d, short)
				}

				errs += len(unit.Diagnostics.Errors)
				warnings += len(unit.Diagnostics.Warnings)
			}

			summary := fmt.Sprintf("%d errors, %d warnings", errs, warnings)
			if errs > 0 {
				fmt.Fprintln(out, errorStyle.Render(summary))
				return ErrCheckFailed
			}

			fmt.Fprintln(out, successStyle.Render(summary))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "hide info diagnostics")

	return cmd
}
