package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/idlgraph/pkg/depgraph"
	"github.com/matzehuels/idlgraph/pkg/pipeline"
)

// checkOpts holds the command-line flags for the check command.
type checkOpts struct {
	skipTransforms bool // analyze the model as loaded
	lenient        bool // report illegal cycles instead of stopping at the first
}

// checkCommand creates the check command, which runs the transforms and the
// cycle analysis without computing an order.
func (c *CLI) checkCommand() *cobra.Command {
	var opts checkOpts

	cmd := &cobra.Command{
		Use:   "check [model]",
		Short: "Check a model for dependency cycles",
		Long: `Check applies the enabled transforms to a model and analyzes its class
dependency graph. It lists the legal cycles, the classes that need a forward
declaration and, with --lenient, every cycle that cannot be broken.

The command fails when the model has a cycle without a sequence, map or
union member.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.skipTransforms, "skip-transforms", false, "analyze the model as loaded")
	cmd.Flags().BoolVar(&opts.lenient, "lenient", false, "report all illegal cycles instead of failing on the first")

	return cmd
}

func (c *CLI) runCheck(cmd *cobra.Command, path string, opts checkOpts) error {
	ctx := cmd.Context()
	cfg, f, err := c.loadInput(ctx, path)
	if err != nil {
		return err
	}
	if opts.lenient {
		cfg.StrictCycles = false
	}

	res, err := newRunner(ctx).Analyze(ctx, f, pipeline.Options{Config: cfg, SkipTransforms: opts.skipTransforms})
	if err != nil {
		return err
	}

	out := newPrinter(cmd.OutOrStdout())
	out.cycles(res.Graph, res.Analysis)
	if len(res.Transform.Removed) > 0 {
		out.info("%d classes removed by transforms", len(res.Transform.Removed))
	}
	out.stats(res.Stats)

	if n := len(res.Analysis.Illegal); n > 0 {
		out.detail(depgraph.IllegalCycleRemedy)
		return fmt.Errorf("%s: %d illegal cycles", path, n)
	}
	out.success("%s has no illegal cycles", path)
	return nil
}

// cycles lists the cycles and forward declarations of an analysis.
func (p printer) cycles(g *depgraph.Graph, a *depgraph.Analysis) {
	names := func(ids []int64) string {
		out := make([]string, len(ids))
		for i, id := range ids {
			out[i] = g.Name(id)
		}
		return strings.Join(out, ", ")
	}

	for _, scc := range a.Cycles {
		p.info("cycle: %s", StyleHighlight.Render(names(scc)))
	}
	for _, scc := range a.Illegal {
		p.warning("illegal cycle: %s", names(scc))
	}
	if fwd := a.ForwardDeclarations(); len(fwd) > 0 {
		p.keyValue("forward", names(fwd))
	}
}
