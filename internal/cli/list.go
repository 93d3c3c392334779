package cli

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"projector-generator/internal/analyze"
	"projector-generator/internal/plan"
)

func (a *app) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list [patterns...]",
		Short: "List projections grouped by package",
		RunE: func(cmd *cobra.Command, args []string) error {
			units, err := a.pipeline(args).Plan(cmd.Context())
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			table := tablewriter.NewWriter(&buf)
			table.SetHeader([]string{"Package", "Projection", "Source", "Root", "Status"})
			table.SetBorder(false)
			table.SetCenterSeparator("")
			table.SetColumnSeparator("")
			table.SetHeaderLine(false)
			table.SetAutoWrapText(false)
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)

			var total, ok int
			for _, unit := range units {
				stringer := analyze.NewTypeStringer(unit.Table)
				var lastPkg string

				for _, e := range unit.Graph.Sorted() {
					p := e.Projection
					pkg := unit.Table.PackageName(p.Target.Namespace)
					if pkg == lastPkg {
						pkg = ""
					} else {
						lastPkg = pkg
					}

					source := stringer.TypeString(p.Source)
					if p.Context != nil {
						source += ", " + stringer.TypeString(*p.Context)
					}

					root := ""
					if unit.Graph.IsRoot(p.Target) {
						root = "yes"
					}

					status := plan.Status(e)
					if status == plan.StatusOK {
						ok++
					}
					total++

					table.Append([]string{pkg, p.Target.Name, source, root, status})
				}
			}

			table.SetFooter([]string{"", fmt.Sprintf("%d projections", total), "", "", fmt.Sprintf("%d ok", ok)})
			table.Render()

			_, err = cmd.OutOrStdout().Write(buf.Bytes())
			return err
		},
	}
}
