package transform

import (
	"slices"

	"github.com/matzehuels/idlgraph/pkg/config"
	"github.com/matzehuels/idlgraph/pkg/model"
)

// FilterStereotypes removes every package and class carrying one of
// cfg.FilterStereotypes, then every remaining attribute that carries one of
// them or refers to a removed class.
//
// Class removal happens before attribute removal so references into removed
// packages are cleaned in the same call.
func FilterStereotypes(f *model.Forest, cfg *config.Config) (Result, error) {
	var res Result
	if len(cfg.FilterStereotypes) == 0 {
		return res, nil
	}

	// References are resolved against the forest as it was before removal.
	idx := model.NewIndex(*f)

	gone := make(map[int64]bool)
	packages := model.RemovePackages(f, func(p *model.Package) bool { return cfg.IsFiltered(p.Stereotypes) })
	res.PackagesRemoved = len(packages)
	for _, c := range model.Classes(packages) {
		gone[c.ObjectID] = true
		res.Removed = append(res.Removed, c.FullName())
	}
	res.ClassesRemoved = len(gone)

	filtered := make(map[int64]bool)
	model.WalkClasses(*f, func(c *model.Class, _ *model.Package) {
		if cfg.IsFiltered(c.Stereotypes) {
			filtered[c.ObjectID] = true
			gone[c.ObjectID] = true
		}
	})
	res.removed(model.RemoveClasses(*f, filtered))
	model.PruneDependencies(*f)

	model.WalkClasses(*f, func(c *model.Class, _ *model.Package) {
		before := len(c.Attributes)
		c.Attributes = slices.DeleteFunc(c.Attributes, func(a *model.Attribute) bool {
			if cfg.IsFiltered(a.Stereotypes) {
				return true
			}
			target, ok := idx.AttributeTarget(c, a)
			return ok && gone[target.ObjectID]
		})
		res.AttributesRemoved += before - len(c.Attributes)
	})
	return res, nil
}
