package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/idlgraph/pkg/buildinfo"
	"github.com/matzehuels/idlgraph/pkg/config"
	idlio "github.com/matzehuels/idlgraph/pkg/io"
	"github.com/matzehuels/idlgraph/pkg/model"
	"github.com/matzehuels/idlgraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "idlgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "idlgraph orders IDL model classes for code generation",
		Long:         `idlgraph loads an IDL class model, applies the configured model transforms, checks the class dependency graph for cycles and computes the order in which packages and classes must be emitted.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (.toml, .yaml or .json)")

	// Register all subcommands
	root.AddCommand(c.orderCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner logging to the command's logger.
func newRunner(ctx context.Context) *pipeline.Runner {
	return pipeline.NewRunner(loggerFromContext(ctx))
}

// loadConfig reads the --config file, or returns the defaults when none is
// given.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.configPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("Loaded config", "path", c.configPath)
	return cfg, nil
}

// loadInput reads the config and the model file named by path.
func (c *CLI) loadInput(ctx context.Context, path string) (*config.Config, model.Forest, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	prog := newProgress(loggerFromContext(ctx))
	f, err := idlio.ImportModel(path)
	if err != nil {
		return nil, nil, err
	}
	prog.done("Loaded " + path)
	return cfg, f, nil
}
