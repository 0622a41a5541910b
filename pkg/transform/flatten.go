package transform

import (
	"slices"

	"github.com/matzehuels/idlgraph/pkg/config"
	"github.com/matzehuels/idlgraph/pkg/model"
)

type flattenPlan struct {
	class     *model.Class
	inherited []*model.Attribute
	parent    []string
	dependsOn []int64
}

// FlattenAbstractClasses folds abstract base classes into their descendants.
//
// For a class whose generalization chain starts with abstract classes, the
// attributes of those ancestors are prepended, grandparent first. The
// generalization is re-pointed at the first concrete ancestor, or dropped
// when there is none. The abstract ancestors' dependencies replace their ids
// in DependsOn. Finally every abstract class is deleted.
//
// The whole model is checked before anything changes: an inherited name
// that collides with another attribute yields *AttributeConflictError, and
// an attribute or typedef parent type naming an abstract class yields
// *AbstractFieldTypeError.
func FlattenAbstractClasses(f *model.Forest, _ *config.Config) (Result, error) {
	var res Result
	idx := model.NewIndex(*f)

	abstract := make(map[int64]bool)
	model.WalkClasses(*f, func(c *model.Class, _ *model.Package) {
		if c.IsAbstract {
			abstract[c.ObjectID] = true
		}
	})
	if len(abstract) == 0 {
		return res, nil
	}

	parentOf := func(c *model.Class) *model.Class {
		if len(c.Generalization) == 0 {
			return nil
		}
		p, _ := idx.LookupPath(c.Generalization)
		return p
	}

	var plans []flattenPlan
	var err error
	model.WalkClasses(*f, func(c *model.Class, _ *model.Package) {
		if err != nil || c.IsAbstract {
			return
		}
		if err = checkFieldTypes(idx, c, c.Attributes); err != nil {
			return
		}
		if err = checkParentType(idx, c); err != nil {
			return
		}

		var chain []*model.Class
		seen := map[int64]bool{c.ObjectID: true}
		p := parentOf(c)
		for p != nil && p.IsAbstract && !seen[p.ObjectID] {
			seen[p.ObjectID] = true
			chain = append(chain, p)
			p = parentOf(p)
		}
		if len(chain) == 0 {
			return
		}

		plan := flattenPlan{class: c}
		names := make(map[string]string)
		for _, a := range c.Attributes {
			names[a.Name] = c.FullName()
		}
		for _, ancestor := range slices.Backward(chain) {
			if err = checkFieldTypes(idx, ancestor, ancestor.Attributes); err != nil {
				return
			}
			for _, a := range ancestor.Attributes {
				if _, dup := names[a.Name]; dup {
					err = &AttributeConflictError{Class: c.FullName(), Attribute: a.Name, Ancestor: ancestor.FullName()}
					return
				}
				names[a.Name] = ancestor.FullName()
				clone := a.Clone()
				if clone.Connector != nil {
					clone.Connector.StartObjectID = c.ObjectID
				}
				// Resolve relative to the ancestor, which may live elsewhere.
				if len(clone.Namespace) == 0 && clone.Connector == nil {
					if target, ok := idx.AttributeTarget(ancestor, a); ok {
						clone.Namespace = slices.Clone(target.Namespace)
						clone.Type = target.Name
					}
				}
				plan.inherited = append(plan.inherited, clone)
			}
		}
		if p != nil && !p.IsAbstract {
			plan.parent = p.Path()
		}

		for _, id := range c.DependsOn {
			if !seen[id] {
				plan.dependsOn = appendUnique(plan.dependsOn, id)
			}
		}
		for _, ancestor := range chain {
			for _, id := range ancestor.DependsOn {
				if !seen[id] {
					plan.dependsOn = appendUnique(plan.dependsOn, id)
				}
			}
		}
		plans = append(plans, plan)
	})
	if err != nil {
		return res, err
	}

	for _, plan := range plans {
		c := plan.class
		c.Attributes = append(plan.inherited, c.Attributes...)
		c.Generalization = plan.parent
		c.DependsOn = plan.dependsOn
		res.AttributesInherited += len(plan.inherited)
	}
	res.removed(model.RemoveClasses(*f, abstract))
	return res, nil
}

func checkFieldTypes(idx *model.Index, owner *model.Class, attrs []*model.Attribute) error {
	for _, a := range attrs {
		if target, ok := idx.AttributeTarget(owner, a); ok && target.IsAbstract {
			return &AbstractFieldTypeError{Class: owner.FullName(), Attribute: a.Name, Type: target.FullName()}
		}
	}
	return nil
}

// checkParentType rejects a typedef aliasing an abstract class, which is
// about to be deleted.
func checkParentType(idx *model.Index, c *model.Class) error {
	if !c.IsTypedef() {
		return nil
	}
	for _, name := range model.TypeNames(c.ParentType) {
		if target, ok := idx.Resolve(name, c.Namespace); ok && target.IsAbstract {
			return &AbstractFieldTypeError{Class: c.FullName(), Attribute: "parent_type", Type: target.FullName()}
		}
	}
	return nil
}

func appendUnique(ids []int64, id int64) []int64 {
	if slices.Contains(ids, id) {
		return ids
	}
	return append(ids, id)
}
