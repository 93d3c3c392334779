// Package cli implements the projector-generator commands.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"projector-generator/internal/config"
	"projector-generator/internal/emit"
	"projector-generator/internal/pipeline"
)

// app is the state shared by all commands of one invocation.
type app struct {
	v          *viper.Viper
	configFile string
	cfg        *config.Config
	logger     *slog.Logger
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	a := &app{v: config.New()}

	cmd := &cobra.Command{
		Use:   "projector-generator",
		Short: "Generate projection functions between Go types",
		Long: `projector-generator reads Go packages (or a YAML descriptor table),
finds structs declaring a projection source with projector.From or
projector.FromContext, and generates the functions populating them.

Commands:
  plan   print the resolved mapping plan
  gen    write the generated files
  list   list projections by package
  check  report diagnostics, failing on errors`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default ./projector.yaml)")
	flags.String("table", "", "YAML descriptor table to plan instead of Go packages")
	flags.String("dir", "", "directory package patterns are resolved from")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.Int("workers", 0, "compilation units processed in parallel (0: GOMAXPROCS)")

	bindFlags(a.v, cmd, map[string]string{
		config.KeyTable:    "table",
		config.KeyDir:      "dir",
		config.KeyLogLevel: "log-level",
		config.KeyWorkers:  "workers",
	})

	cmd.AddCommand(
		a.planCommand(),
		a.genCommand(),
		a.listCommand(),
		a.checkCommand(),
	)

	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	a.logger.Debug("configuration loaded",
		slog.String("file", a.v.ConfigFileUsed()),
		slog.Int("workers", cfg.Workers))

	return nil
}

// pipeline builds a pipeline over args, or over the configured units.
func (a *app) pipeline(args []string) *pipeline.Pipeline {
	emitCfg := emit.DefaultConfig()
	emitCfg.OutputDir = a.cfg.Output.Dir
	emitCfg.Suffix = a.cfg.Output.Suffix
	emitCfg.ListingFile = a.cfg.Output.Listing

	return pipeline.New(pipeline.Options{
		Units:   a.cfg.Units(args),
		Table:   a.cfg.Table,
		Dir:     a.cfg.Dir,
		Workers: a.cfg.Workers,
		Emit:    emitCfg,
	}, a.logger)
}

// bindFlags binds config keys to flags of cmd. Flags are declared right
// before every call, so a failure is a programming error.
func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) {
	for key, name := range keys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			flag = cmd.PersistentFlags().Lookup(name)
		}

		if err := v.BindPFlag(key, flag); err != nil {
			panic(fmt.Sprintf("binding flag %s to %s: %v", name, key, err))
		}
	}
}
