// Package main provides the CLI entrypoint for projector-generator.
//
// projector-generator is a Go codegen tool that:
//   - Loads Go packages (go/types) or a YAML descriptor table
//   - Finds structs declaring a projection source
//   - Resolves how every member of such a struct is computed from the source
//   - Generates the projection functions and lazy listing wrappers
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"projector-generator/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, cli.ErrCheckFailed) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		stop()
		os.Exit(1)
	}
}
