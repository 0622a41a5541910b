package transform

import (
	"fmt"

	"github.com/matzehuels/idlgraph/pkg/config"
	"github.com/matzehuels/idlgraph/pkg/model"
)

// Func is the signature shared by every transform. The forest is passed by
// pointer because a transform may remove root packages.
type Func func(f *model.Forest, cfg *config.Config) (Result, error)

// Result counts what the transforms changed.
//
// Result is returned by every [Func] and by [Apply], which merges the
// results of all steps. It is meant for logging and for tests; transforms
// never log themselves.
type Result struct {
	PackagesRemoved int
	ClassesRemoved  int

	// AttributesRemoved counts attributes deleted because of a filtered
	// stereotype, a removed target class or an empty union.
	AttributesRemoved int

	// AttributesInherited counts attributes copied from abstract ancestors.
	AttributesInherited int

	// AttributesRewritten counts attributes and typedef parent types
	// retargeted from a collapsed union to its single member.
	AttributesRewritten int

	UnionsCollapsed int
	MapsConverted   int

	// Roots is the number of classes carrying the unused-class root
	// property. Zero after FilterUnusedClasses ran means the whole model
	// was considered unused.
	Roots int

	// Removed holds the qualified names of every removed class in removal
	// order.
	Removed []string
}

// Merge adds the counters of o to r.
func (r *Result) Merge(o Result) {
	r.PackagesRemoved += o.PackagesRemoved
	r.ClassesRemoved += o.ClassesRemoved
	r.AttributesRemoved += o.AttributesRemoved
	r.AttributesInherited += o.AttributesInherited
	r.AttributesRewritten += o.AttributesRewritten
	r.UnionsCollapsed += o.UnionsCollapsed
	r.MapsConverted += o.MapsConverted
	r.Roots += o.Roots
	r.Removed = append(r.Removed, o.Removed...)
}

func (r *Result) removed(classes []*model.Class) {
	r.ClassesRemoved += len(classes)
	for _, c := range classes {
		r.Removed = append(r.Removed, c.FullName())
	}
}

// Step is one named stage of the transform pipeline.
type Step struct {
	Name string
	Run  Func
	// Enabled reports whether the step applies under cfg. Nil means always.
	Enabled func(cfg *config.Config) bool
}

// Steps returns the transforms in the order they must run: stereotype
// filtering first so later steps never see filtered classes, flattening
// before union and map handling so inherited attributes are rewritten too,
// and unused-class pruning last so it sees final references.
func Steps() []Step {
	return []Step{
		{
			Name:    "filter_stereotypes",
			Run:     FilterStereotypes,
			Enabled: func(cfg *config.Config) bool { return len(cfg.FilterStereotypes) > 0 },
		},
		{
			Name:    "flatten_abstract_classes",
			Run:     FlattenAbstractClasses,
			Enabled: func(cfg *config.Config) bool { return cfg.Flatten },
		},
		{Name: "filter_empty_unions", Run: FilterEmptyUnions},
		{Name: "convert_map_stereotype", Run: ConvertMapStereotype},
		{
			Name:    "filter_unused_classes",
			Run:     FilterUnusedClasses,
			Enabled: func(cfg *config.Config) bool { return cfg.UnusedRootProperty != "" },
		},
	}
}

// Apply links f and runs every enabled step in order. It stops at the first
// error, which is wrapped with the step name.
func Apply(f *model.Forest, cfg *config.Config) (Result, error) {
	model.Link(*f)
	var total Result
	for _, step := range Steps() {
		if step.Enabled != nil && !step.Enabled(cfg) {
			continue
		}
		res, err := step.Run(f, cfg)
		if err != nil {
			return total, fmt.Errorf("%s: %w", step.Name, err)
		}
		total.Merge(res)
	}
	return total, nil
}
