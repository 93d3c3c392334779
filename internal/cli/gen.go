package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"projector-generator/internal/config"
	"projector-generator/internal/emit"
)

func (a *app) genCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "gen [patterns...]",
		Short: "Generate projection functions",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := a.pipeline(args)

			units, err := p.Plan(cmd.Context())
			if err != nil {
				return err
			}

			var cache *emit.Cache
			if a.cfg.Cache != "" {
				if cache, err = emit.LoadCache(a.cfg.Cache); err != nil {
					return err
				}
			}

			report, genErr := p.Generate(cmd.Context(), units, cache, force)
			if report == nil {
				return genErr
			}

			if cache != nil {
				if err := cache.Save(); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			for _, path := range report.Written {
				fmt.Fprintln(out, "wrote", path)
			}
			fmt.Fprintf(out, "%d written, %d unchanged\n", len(report.Written), len(report.Skipped))

			for _, unit := range units {
				if unit.Diagnostics.HasErrors() {
					a.logger.Warn("unit has errors; run check for details", "unit", unit.Name, "errors", len(unit.Diagnostics.Errors))
				}
			}

			return genErr
		},
	}

	flags := cmd.Flags()
	flags.String("out", "", "write every file into this directory")
	flags.String("cache", "", "incremental cache file (default .projector-cache.yaml)")
	flags.BoolVar(&force, "force", false, "regenerate files even when the cache says they are current")

	bindFlags(a.v, cmd, map[string]string{
		config.KeyOutputDir: "out",
		config.KeyCache:     "cache",
	})

	return cmd
}
