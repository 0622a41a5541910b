package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	idlio "github.com/matzehuels/idlgraph/pkg/io"
	"github.com/matzehuels/idlgraph/pkg/pipeline"
)

// orderOpts holds the command-line flags for the order command.
type orderOpts struct {
	output         string // order document path; stdout when empty
	format         string // stdout format: "json" or "yaml"
	modelOut       string // optional path for the transformed model
	skipTransforms bool   // order the model as loaded
}

// orderCommand creates the order command, which runs the full pipeline and
// writes the emission order document.
func (c *CLI) orderCommand() *cobra.Command {
	opts := orderOpts{format: string(idlio.FormatJSON)}

	cmd := &cobra.Command{
		Use:   "order [model]",
		Short: "Compute the emission order of a model",
		Long: `Order loads a model document, applies the enabled transforms and writes
the order in which packages and classes must be emitted, together with the
classes that need a forward declaration.

The output format follows the extension of --output (.yaml/.yml or .json).
Without --output the document is written to stdout in the --format format.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			return c.runOrder(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "stdout format: json, yaml")
	cmd.Flags().StringVar(&opts.modelOut, "model-out", "", "also write the transformed model to this file")
	cmd.Flags().BoolVar(&opts.skipTransforms, "skip-transforms", false, "order the model as loaded")

	return cmd
}

func (c *CLI) runOrder(cmd *cobra.Command, path string, opts orderOpts) error {
	ctx := cmd.Context()
	res, err := c.execute(ctx, path, opts.skipTransforms)
	if err != nil {
		return err
	}

	if opts.modelOut != "" {
		if err := idlio.ExportModel(res.Forest, opts.modelOut); err != nil {
			return err
		}
	}

	if opts.output == "" {
		return idlio.WriteOrder(res, cmd.OutOrStdout(), idlio.Format(opts.format))
	}
	if err := idlio.ExportOrder(res, opts.output); err != nil {
		return err
	}

	out := newPrinter(cmd.OutOrStdout())
	out.success("Ordered %d classes in %d packages", res.Stats.ClassCount, res.Stats.PackageCount)
	out.stats(res.Stats)
	out.file(opts.output)
	if opts.modelOut != "" {
		out.file(opts.modelOut)
	}
	return nil
}

func (c *CLI) execute(ctx context.Context, path string, skipTransforms bool) (*pipeline.Result, error) {
	cfg, f, err := c.loadInput(ctx, path)
	if err != nil {
		return nil, err
	}
	return newRunner(ctx).Execute(ctx, f, pipeline.Options{Config: cfg, SkipTransforms: skipTransforms})
}

// validateFormat checks the --format flag of the order command.
func validateFormat(format string) error {
	switch idlio.Format(format) {
	case idlio.FormatJSON, idlio.FormatYAML:
		return nil
	default:
		return fmt.Errorf("invalid format: %s (must be 'json' or 'yaml')", format)
	}
}
