package cli

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"projector-generator/internal/plan"
)

func (a *app) planCommand() *cobra.Command {
	var dump bool

	cmd := &cobra.Command{
		Use:   "plan [patterns...]",
		Short: "Print the resolved mapping plan as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			units, err := a.pipeline(args).Plan(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, unit := range units {
				if i > 0 {
					fmt.Fprintln(out, "---")
				}

				doc, err := plan.ExportYAML(unit.Graph, unit.Diagnostics)
				if err != nil {
					return fmt.Errorf("unit %s: %w", unit.Name, err)
				}

				if _, err := out.Write(doc); err != nil {
					return err
				}

				if dump {
					cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
					fmt.Fprintln(out, "# raw projections")
					cfg.Fdump(out, unit.Projections)
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&dump, "dump", false, "also dump the raw projection structures")

	return cmd
}
