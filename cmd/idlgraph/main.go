// Command idlgraph orders the classes of an IDL model for code generation.
//
// It reads a model export (JSON or YAML), runs the configured transforms,
// reports cyclic dependencies and writes the emission order:
//
//	idlgraph order model.json -o order.json
//	idlgraph check model.yaml
//	idlgraph graph model.json -o model.svg
//
// The exit status is 1 when a command fails, including a check that finds
// illegal cycles, and 130 when interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/idlgraph/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	return c.RootCommand().ExecuteContext(ctx)
}
