package transform

import (
	"github.com/matzehuels/idlgraph/pkg/config"
	"github.com/matzehuels/idlgraph/pkg/model"
)

// FindUnusedClasses returns the classes not reachable from any class that
// carries cfg.UnusedRootProperty, in walk order, together with the number of
// root classes. It returns nil when no root property is configured.
//
// Reachability follows attribute targets (including map key and value
// types), the generalization parent, a typedef's parent type, the union
// discriminator, values enums and DependsOn ids. A model without roots
// reports every class as unused.
func FindUnusedClasses(f model.Forest, cfg *config.Config) (unused []*model.Class, roots int) {
	if cfg.UnusedRootProperty == "" {
		return nil, 0
	}
	idx := model.NewIndex(f)

	reached := make(map[int64]bool)
	var queue []*model.Class
	visit := func(c *model.Class) {
		if c != nil && !reached[c.ObjectID] {
			reached[c.ObjectID] = true
			queue = append(queue, c)
		}
	}
	model.WalkClasses(f, func(c *model.Class, _ *model.Package) {
		if c.HasProperty(cfg.UnusedRootProperty) {
			roots++
			visit(c)
		}
	})

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, next := range references(idx, c) {
			visit(next)
		}
	}

	model.WalkClasses(f, func(c *model.Class, _ *model.Package) {
		if !reached[c.ObjectID] {
			unused = append(unused, c)
		}
	})
	return unused, roots
}

// references lists every class c refers to.
func references(idx *model.Index, c *model.Class) []*model.Class {
	var out []*model.Class
	add := func(target *model.Class, ok bool) {
		if ok {
			out = append(out, target)
		}
	}
	resolve := func(name string) {
		add(idx.Resolve(name, c.Namespace))
	}

	for _, a := range c.Attributes {
		add(idx.AttributeTarget(c, a))
		if a.IsMap {
			resolve(a.MapKeyType)
			resolve(a.MapValueType)
		}
	}
	if len(c.Generalization) > 0 {
		add(idx.LookupPath(c.Generalization))
	}
	if c.ParentType != "" {
		for _, name := range model.TypeNames(c.ParentType) {
			resolve(name)
		}
	}
	resolve(c.UnionEnum)
	for _, name := range c.ValuesEnums {
		resolve(name)
	}
	for _, id := range c.DependsOn {
		add(idx.Class(id))
	}
	return out
}

// FilterUnusedClasses removes every class FindUnusedClasses reports. The
// result's Roots field tells a root-less model (everything removed) apart
// from a normal run.
func FilterUnusedClasses(f *model.Forest, cfg *config.Config) (Result, error) {
	var res Result
	unused, roots := FindUnusedClasses(*f, cfg)
	res.Roots = roots
	if len(unused) == 0 {
		return res, nil
	}
	ids := make(map[int64]bool, len(unused))
	for _, c := range unused {
		ids[c.ObjectID] = true
	}
	res.removed(model.RemoveClasses(*f, ids))
	return res, nil
}
