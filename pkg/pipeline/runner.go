package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/idlgraph/pkg/depgraph"
	"github.com/matzehuels/idlgraph/pkg/model"
	"github.com/matzehuels/idlgraph/pkg/observability"
	"github.com/matzehuels/idlgraph/pkg/transform"
)

// Runner executes the pipeline and logs each stage.
//
// The Runner is stateless except for the logger: it does not keep results,
// so one Runner may serve several goroutines as long as each passes its own
// forest.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs every stage and orders the forest. f is mutated in place;
// the reordered forest is also returned in Result.Forest.
func (r *Runner) Execute(ctx context.Context, f model.Forest, opts Options) (*Result, error) {
	return r.run(ctx, f, opts, true)
}

// Analyze runs the stages up to and including cycle analysis. The result
// has no emission order.
func (r *Runner) Analyze(ctx context.Context, f model.Forest, opts Options) (*Result, error) {
	return r.run(ctx, f, opts, false)
}

func (r *Runner) run(ctx context.Context, f model.Forest, opts Options, order bool) (res *Result, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	cfg := opts.Config

	runID := uuid.NewString()
	res = &Result{RunID: runID}
	logger := opts.Logger.With("run", runID[:8])
	hooks := observability.Pipeline()

	model.Link(f)
	hooks.OnRunStart(ctx, runID, len(model.Classes(f)))
	runStart := time.Now()
	defer func() { hooks.OnRunComplete(ctx, runID, time.Since(runStart), err) }()

	// Stage 1: Transform
	transformStart := time.Now()
	if !opts.SkipTransforms {
		for _, step := range transform.Steps() {
			if step.Enabled != nil && !step.Enabled(cfg) {
				continue
			}
			var stepRes transform.Result
			err := r.stage(ctx, res.RunID, StageTransform+"/"+step.Name, func() error {
				var err error
				stepRes, err = step.Run(&f, cfg)
				return err
			})
			if err != nil {
				return nil, err
			}
			res.Transform.Merge(stepRes)
			if stepRes.ClassesRemoved > 0 {
				observability.Analysis().OnClassesRemoved(ctx, res.RunID, step.Name, stepRes.ClassesRemoved)
			}
			logger.Debug("applied transform",
				"step", step.Name,
				"classes_removed", stepRes.ClassesRemoved,
				"attributes_removed", stepRes.AttributesRemoved,
				"inherited", stepRes.AttributesInherited,
				"rewritten", stepRes.AttributesRewritten,
				"maps", stepRes.MapsConverted)
			if step.Name == "filter_unused_classes" && stepRes.Roots == 0 {
				logger.Warn("no class carries the root property; every class was removed as unused",
					"property", cfg.UnusedRootProperty)
			}
		}
	}
	model.PruneDependencies(f)
	model.RefreshPackageDependencies(f)
	res.Stats.TransformTime = time.Since(transformStart)

	logger.Info("transformed model",
		"classes", len(model.Classes(f)),
		"removed", res.Transform.ClassesRemoved,
		"duration", res.Stats.TransformTime)

	// Stage 2: Check
	if err := r.stage(ctx, res.RunID, StageCheck, func() error {
		return CheckUnions(f, cfg)
	}); err != nil {
		return nil, err
	}

	// Stage 3: Build
	analyzeStart := time.Now()
	if err := r.stage(ctx, res.RunID, StageBuild, func() error {
		var err error
		res.Graph, err = depgraph.Build(f, depgraph.Options{IsPrimitive: cfg.IsPrimitive})
		return err
	}); err != nil {
		return nil, err
	}

	// Stage 4: Analyze
	if err := r.stage(ctx, res.RunID, StageAnalyze, func() error {
		var err error
		res.Analysis, err = depgraph.Analyze(res.Graph, depgraph.AnalyzeOptions{Strict: cfg.StrictCycles})
		return err
	}); err != nil {
		return nil, err
	}
	res.Stats.AnalyzeTime = time.Since(analyzeStart)
	res.SCCMap = res.Analysis.SCCMap
	res.NeedsForwardDeclaration = res.Analysis.ForwardDeclarations()
	r.reportCycles(ctx, logger, res)

	res.Stats.ClassCount = res.Graph.NodeCount()
	res.Stats.EdgeCount = res.Graph.EdgeCount()
	res.Stats.CycleCount = len(res.Analysis.Cycles)
	res.Stats.PackageCount = len(model.Packages(f))

	logger.Info("analyzed dependencies",
		"classes", res.Stats.ClassCount,
		"edges", res.Stats.EdgeCount,
		"cycles", res.Stats.CycleCount,
		"forward_declarations", len(res.NeedsForwardDeclaration),
		"duration", res.Stats.AnalyzeTime)

	if !order {
		res.Forest = f
		return res, nil
	}

	// Stage 5: Order
	orderStart := time.Now()
	if err := r.stage(ctx, res.RunID, StageOrder, func() error {
		var err error
		res.Packages, res.Classes, err = Order(&f, res.Graph, res.SCCMap)
		return err
	}); err != nil {
		return nil, err
	}
	model.ComputeInfo(f)
	res.Forest = f
	res.Digest = Digest(res.Packages, res.Classes)
	res.Stats.OrderTime = time.Since(orderStart)

	logger.Info("ordered model",
		"packages", len(res.Packages),
		"digest", res.Digest[:12],
		"duration", res.Stats.OrderTime)

	return res, nil
}

// stage runs fn as the named stage, reporting it to the pipeline hooks. A
// cancelled context stops the run before the stage starts.
func (r *Runner) stage(ctx context.Context, runID, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, runID, name)
	start := time.Now()
	err := fn()
	hooks.OnStageComplete(ctx, runID, name, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (r *Runner) reportCycles(ctx context.Context, logger *log.Logger, res *Result) {
	names := func(ids []int64) []string {
		out := make([]string, len(ids))
		for i, id := range ids {
			out[i] = res.Graph.Name(id)
		}
		return out
	}
	for _, scc := range res.Analysis.Cycles {
		observability.Analysis().OnCycle(ctx, res.RunID, names(scc), true)
		logger.Debug("legal cycle", "members", names(scc))
	}
	for _, scc := range res.Analysis.Illegal {
		observability.Analysis().OnCycle(ctx, res.RunID, names(scc), false)
		logger.Warn("cycle without sequence, map or union edge; ordering will fail",
			"members", names(scc), "remedy", depgraph.IllegalCycleRemedy)
	}
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
