// Package observability provides hooks for metrics and tracing.
//
// The core packages never depend on a metrics backend. Instead the pipeline
// runner reports events to hooks registered here, and a binary that wants
// metrics registers its own implementation at startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    // ... run application
//	}
//
// The pipeline emits events around each stage:
//
//	observability.Pipeline().OnStageStart(ctx, runID, "analyze")
//	// ... run stage ...
//	observability.Pipeline().OnStageComplete(ctx, runID, "analyze", duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the pipeline runner.
type PipelineHooks interface {
	// Run events
	OnRunStart(ctx context.Context, runID string, classCount int)
	OnRunComplete(ctx context.Context, runID string, duration time.Duration, err error)

	// Stage events. Transform steps are reported as stages named
	// "transform/<step>".
	OnStageStart(ctx context.Context, runID, stage string)
	OnStageComplete(ctx context.Context, runID, stage string, duration time.Duration, err error)
}

// =============================================================================
// Analysis Hooks
// =============================================================================

// AnalysisHooks receives events from cycle analysis.
type AnalysisHooks interface {
	// OnCycle records a strongly connected component that is a cycle.
	// Legal is false for cycles without a sequence, map or union edge.
	OnCycle(ctx context.Context, runID string, members []string, legal bool)

	// OnClassesRemoved records classes dropped by a transform step.
	OnClassesRemoved(ctx context.Context, runID, step string, count int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnRunStart(context.Context, string, int)                               {}
func (NoopPipelineHooks) OnRunComplete(context.Context, string, time.Duration, error)           {}
func (NoopPipelineHooks) OnStageStart(context.Context, string, string)                          {}
func (NoopPipelineHooks) OnStageComplete(context.Context, string, string, time.Duration, error) {}

// NoopAnalysisHooks is a no-op implementation of AnalysisHooks.
type NoopAnalysisHooks struct{}

func (NoopAnalysisHooks) OnCycle(context.Context, string, []string, bool)       {}
func (NoopAnalysisHooks) OnClassesRemoved(context.Context, string, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	analysisHooks AnalysisHooks = NoopAnalysisHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline runs.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetAnalysisHooks registers custom analysis hooks.
func SetAnalysisHooks(h AnalysisHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		analysisHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Analysis returns the registered analysis hooks.
func Analysis() AnalysisHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return analysisHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	analysisHooks = NoopAnalysisHooks{}
}
