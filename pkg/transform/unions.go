package transform

import (
	"slices"
	"strings"

	"github.com/matzehuels/idlgraph/pkg/config"
	"github.com/matzehuels/idlgraph/pkg/model"
)

// FilterEmptyUnions removes unions without members and collapses unions
// with exactly one member, for every union cfg.ShouldCollapseUnion accepts.
//
// Removing a union also removes every attribute typed by it and every
// typedef aliasing it. Collapsing a union rewrites every attribute typed by
// it, anywhere in the model, to the member's type, namespace and connector,
// and every typedef parent type naming it to the member's qualified type. A union whose only member is
// itself a collapsible union is handled in a later round until nothing
// changes.
func FilterEmptyUnions(f *model.Forest, cfg *config.Config) (Result, error) {
	var res Result
	for {
		round := collapseUnions(*f, cfg)
		if round.ClassesRemoved == 0 {
			return res, nil
		}
		res.Merge(round)
	}
}

type collapsedMember struct {
	attr   *model.Attribute
	target *model.Class // nil for primitive members
}

func collapseUnions(f model.Forest, cfg *config.Config) Result {
	var res Result
	idx := model.NewIndex(f)

	empty := make(map[int64]bool)
	single := make(map[int64]collapsedMember)
	model.WalkClasses(f, func(c *model.Class, _ *model.Package) {
		if !c.IsUnion() || !cfg.ShouldCollapseUnion(c.Stereotypes) {
			return
		}
		switch len(c.Attributes) {
		case 0:
			empty[c.ObjectID] = true
		case 1:
			m := collapsedMember{attr: c.Attributes[0]}
			if target, ok := idx.AttributeTarget(c, m.attr); ok {
				if target.ObjectID == c.ObjectID {
					return
				}
				m.target = target
			}
			single[c.ObjectID] = m
		}
	})
	// Defer unions whose member is another union handled in this round.
	var deferred []int64
	for id, m := range single {
		if m.target == nil {
			continue
		}
		if _, pending := single[m.target.ObjectID]; pending || empty[m.target.ObjectID] {
			deferred = append(deferred, id)
		}
	}
	for _, id := range deferred {
		delete(single, id)
	}
	if len(empty)+len(single) == 0 {
		return res
	}

	// A typedef of a removed union has nothing left to alias.
	for changed := true; changed; {
		changed = false
		model.WalkClasses(f, func(c *model.Class, _ *model.Package) {
			if !c.IsTypedef() || empty[c.ObjectID] {
				return
			}
			for _, name := range model.TypeNames(c.ParentType) {
				if target, ok := idx.Resolve(name, c.Namespace); ok && empty[target.ObjectID] {
					empty[c.ObjectID] = true
					changed = true
					return
				}
			}
		})
	}

	drop := make(map[int64]bool, len(empty)+len(single))
	for id := range empty {
		drop[id] = true
	}
	for id := range single {
		drop[id] = true
	}

	model.WalkClasses(f, func(c *model.Class, _ *model.Package) {
		if drop[c.ObjectID] {
			return
		}
		before := len(c.Attributes)
		c.Attributes = slices.DeleteFunc(c.Attributes, func(a *model.Attribute) bool {
			target, ok := idx.AttributeTarget(c, a)
			return ok && empty[target.ObjectID]
		})
		res.AttributesRemoved += before - len(c.Attributes)

		for _, a := range c.Attributes {
			target, ok := idx.AttributeTarget(c, a)
			if !ok {
				continue
			}
			if m, found := single[target.ObjectID]; found {
				retarget(c, a, m)
				res.AttributesRewritten++
			}
		}

		if c.IsTypedef() && c.ParentType != "" {
			parent := model.RewriteTypeNames(c.ParentType, func(name string) string {
				if target, ok := idx.Resolve(name, c.Namespace); ok {
					if m, found := single[target.ObjectID]; found {
						return memberType(m)
					}
				}
				return name
			})
			if parent != c.ParentType {
				c.ParentType = parent
				res.AttributesRewritten++
			}
		}

		var deps []int64
		for _, id := range c.DependsOn {
			if m, found := single[id]; found {
				if m.target == nil {
					continue
				}
				id = m.target.ObjectID
			}
			if id != c.ObjectID {
				deps = appendUnique(deps, id)
			}
		}
		c.DependsOn = deps
	})

	res.UnionsCollapsed = len(single)
	res.removed(model.RemoveClasses(f, drop))
	return res
}

// retarget points a at the single member of a collapsed union.
func retarget(owner *model.Class, a *model.Attribute, m collapsedMember) {
	a.Type = m.attr.Type
	a.Namespace = slices.Clone(m.attr.Namespace)
	a.IsCollection = a.IsCollection || m.attr.IsCollection
	a.Connector = nil
	if m.target != nil {
		// Qualify by the resolved target so the type no longer depends on the
		// union's scope.
		a.Type = m.target.Name
		a.Namespace = slices.Clone(m.target.Namespace)
	}
	if m.attr.Connector != nil {
		conn := *m.attr.Connector
		conn.StartObjectID = owner.ObjectID
		a.Connector = &conn
	}
}

// memberType is the type expression replacing a collapsed union's name.
func memberType(m collapsedMember) string {
	name := m.attr.Type
	switch {
	case m.target != nil:
		name = m.target.FullName()
	case len(m.attr.Namespace) > 0:
		name = strings.Join(append(slices.Clone(m.attr.Namespace), name), model.Separator)
	}
	if m.attr.IsCollection {
		return "sequence<" + name + ">"
	}
	return name
}
