package depgraph

import (
	"fmt"

	"github.com/matzehuels/idlgraph/pkg/model"
)

// Options configures [Build].
type Options struct {
	// IsPrimitive reports whether a type name is a built-in IDL type. Such
	// names never produce edges. Nil treats every name as resolvable.
	IsPrimitive func(name string) bool
}

func (o Options) primitive(name string) bool {
	return o.IsPrimitive != nil && o.IsPrimitive(name)
}

// Build derives the dependency graph of f. Every class becomes a node; edges
// come from, in order:
//
//   - attributes (enum literals excluded), soft for collections, maps and
//     union members;
//   - a typedef's parent type, soft when wrapped in sequence<> or map<>;
//   - the generalization parent, union discriminator and values enums;
//   - every DependsOn id not already explained by the above, hard.
//
// Edges whose target is not a class of f are dropped. f must be linked.
func Build(f model.Forest, opts Options) (*Graph, error) {
	g := New()
	var err error
	model.WalkClasses(f, func(c *model.Class, _ *model.Package) {
		if err == nil {
			if addErr := g.AddNode(c); addErr != nil {
				err = fmt.Errorf("class %s (%d): %w", c.FullName(), c.ObjectID, addErr)
			}
		}
	})
	if err != nil {
		return nil, err
	}

	idx := model.NewIndex(f)
	b := &builder{g: g, idx: idx, opts: opts}
	for _, id := range g.NodeIDs() {
		c, _ := g.Node(id)
		b.class(c)
	}
	return g, nil
}

type builder struct {
	g    *Graph
	idx  *model.Index
	opts Options
}

func (b *builder) class(c *model.Class) {
	explained := make(map[int64]bool)
	add := func(to int64, member string, soft bool) {
		// AddEdge only fails for unknown endpoints, which are dropped.
		if b.g.AddEdge(Edge{From: c.ObjectID, To: to, Member: member, Soft: soft}) == nil {
			explained[to] = true
		}
	}
	resolve := func(name string) (*model.Class, bool) {
		if name == "" || b.opts.primitive(name) {
			return nil, false
		}
		return b.idx.Resolve(name, c.Namespace)
	}

	if !c.IsEnum() {
		for _, a := range c.Attributes {
			if a.Connector == nil && b.opts.primitive(a.Type) {
				continue
			}
			target, ok := b.idx.AttributeTarget(c, a)
			if !ok {
				continue
			}
			add(target.ObjectID, a.Name, a.IsCollection || a.IsMap || c.IsUnion())
		}
	}

	if c.IsTypedef() && c.ParentType != "" {
		soft := model.IsContainerType(c.ParentType)
		for _, name := range model.TypeNames(c.ParentType) {
			if target, ok := resolve(name); ok {
				add(target.ObjectID, MemberParentType, soft)
			}
		}
	}

	if len(c.Generalization) > 0 {
		if parent, ok := b.idx.LookupPath(c.Generalization); ok {
			add(parent.ObjectID, MemberGeneralization, false)
		}
	}
	if target, ok := resolve(c.UnionEnum); ok {
		add(target.ObjectID, MemberUnionEnum, false)
	}
	for _, name := range c.ValuesEnums {
		if target, ok := resolve(name); ok {
			add(target.ObjectID, MemberValuesEnum, false)
		}
	}

	for _, id := range c.DependsOn {
		if !explained[id] {
			add(id, MemberDependsOn, false)
		}
	}
}
