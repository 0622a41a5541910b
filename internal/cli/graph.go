package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/idlgraph/pkg/pipeline"
	"github.com/matzehuels/idlgraph/pkg/render/nodelink"
)

const (
	graphFormatDOT = "dot"
	graphFormatSVG = "svg"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	output         string // output file; stdout when empty
	format         string // "dot" or "svg"; derived from output when empty
	detailed       bool   // label edges with members and nodes with kinds
	plain          bool   // skip cycle highlighting
	skipTransforms bool   // draw the model as loaded
}

// graphCommand creates the graph command, which draws the class dependency
// graph of a model.
func (c *CLI) graphCommand() *cobra.Command {
	var opts graphOpts

	cmd := &cobra.Command{
		Use:   "graph [model]",
		Short: "Draw the class dependency graph of a model",
		Long: `Graph applies the enabled transforms to a model and draws its class
dependency graph as Graphviz DOT or SVG. Classes are grouped by namespace,
soft edges are dashed, forward-declared classes get a heavy border and the
edges of illegal cycles are red.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format == "" {
				opts.format = graphFormatFromPath(opts.output)
			}
			if opts.format != graphFormatDOT && opts.format != graphFormatSVG {
				return fmt.Errorf("invalid format: %s (must be 'dot' or 'svg')", opts.format)
			}
			return c.runGraph(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: dot (default), svg")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label edges with the members that cause them")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "do not highlight cycles and forward declarations")
	cmd.Flags().BoolVar(&opts.skipTransforms, "skip-transforms", false, "draw the model as loaded")

	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, path string, opts graphOpts) error {
	ctx := cmd.Context()
	cfg, f, err := c.loadInput(ctx, path)
	if err != nil {
		return err
	}
	// Illegal cycles are drawn, not fatal.
	cfg.StrictCycles = false

	res, err := newRunner(ctx).Analyze(ctx, f, pipeline.Options{Config: cfg, SkipTransforms: opts.skipTransforms})
	if err != nil {
		return err
	}

	ro := nodelink.Options{Detailed: opts.detailed}
	if !opts.plain {
		ro.Analysis = res.Analysis
	}
	data := []byte(nodelink.ToDOT(res.Graph, ro))
	if opts.format == graphFormatSVG {
		prog := newProgress(loggerFromContext(ctx))
		if data, err = nodelink.RenderSVG(ctx, string(data)); err != nil {
			return err
		}
		prog.done("Rendered SVG")
	}

	if opts.output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	out := newPrinter(cmd.OutOrStdout())
	out.success("Drew %d classes and %d edges", res.Stats.ClassCount, res.Stats.EdgeCount)
	out.file(opts.output)
	return nil
}

// graphFormatFromPath picks svg for .svg outputs and dot otherwise.
func graphFormatFromPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return graphFormatSVG
	}
	return graphFormatDOT
}
