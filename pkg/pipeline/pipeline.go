// Package pipeline runs the complete transform → analyze → order pipeline
// over a model forest.
//
// This package is the single entry point the CLI uses to turn a loaded model
// into an emission order. By centralizing the stage sequence here, every
// caller gets the same transforms, the same cycle policy and the same
// ordering.
//
// # Architecture
//
// The pipeline consists of five stages:
//
//  1. Transform: run the enabled steps of [transform.Steps] in order
//  2. Check: verify union discriminators against their enums
//  3. Build: derive the class dependency graph
//  4. Analyze: find cycles and the classes needing forward declarations
//  5. Order: sort sibling packages and the classes of every package
//
// The forest is mutated in place and returned in [Result.Forest].
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, forest, pipeline.Options{Config: cfg})
//	if err != nil {
//	    return err
//	}
//	for _, p := range result.Packages {
//	    emit(p, result.Classes[p.PackageID])
//	}
//
// [Runner.Analyze] stops after the analyze stage, which is what a
// model-checking command needs.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/idlgraph/pkg/config"
	"github.com/matzehuels/idlgraph/pkg/depgraph"
	"github.com/matzehuels/idlgraph/pkg/model"
	"github.com/matzehuels/idlgraph/pkg/transform"
)

// Stage names, as reported to hooks and used to prefix stage errors.
const (
	StageTransform = "transform"
	StageCheck     = "check"
	StageBuild     = "build"
	StageAnalyze   = "analyze"
	StageOrder     = "order"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a pipeline run.
type Options struct {
	// Config drives the transforms and the cycle policy. Nil means
	// config.Default().
	Config *config.Config `json:"config,omitempty"`

	// SkipTransforms analyzes the model as loaded.
	SkipTransforms bool `json:"skip_transforms,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults applies defaults and validates the configuration.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Config == nil {
		o.Config = config.Default()
	}
	if err := o.Config.Validate(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID tags every log line and hook event of the run.
	RunID string

	// Forest is the transformed forest, packages and classes reordered.
	Forest model.Forest

	// Packages lists every package in emission order: a package comes
	// after its sub-packages, and siblings follow the packages they depend
	// on. Emitting the classes of Packages in turn yields every class after
	// the classes it depends on. Nil when the run stopped after analysis.
	Packages []*model.Package

	// Classes maps a package id to its classes in emission order.
	Classes map[int64][]*model.Class

	// NeedsForwardDeclaration holds the ids of classes that must be
	// declared before their definition, sorted ascending.
	NeedsForwardDeclaration []int64

	// SCCMap maps every member of a legal cycle to the cycle's members.
	SCCMap map[int64][]int64

	// Graph is the dependency graph the ordering was computed from.
	Graph *depgraph.Graph

	// Analysis is the full cycle analysis.
	Analysis *depgraph.Analysis

	// Transform aggregates what the transform steps changed.
	Transform transform.Result

	// Digest is a SHA-256 over the emission order. Two runs over the same
	// model yield the same digest.
	Digest string

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	PackageCount  int
	ClassCount    int
	EdgeCount     int
	CycleCount    int
	TransformTime time.Duration
	AnalyzeTime   time.Duration
	OrderTime     time.Duration
}

// ForwardDeclared reports whether class id needs a forward declaration.
func (r *Result) ForwardDeclared(id int64) bool {
	return r.Analysis != nil && r.Analysis.NeedsForwardDeclaration[id]
}
