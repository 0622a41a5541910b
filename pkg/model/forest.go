package model

import (
	"maps"
	"slices"
)

// Link derives the non-owning back-references of the forest: every package's
// Namespace and ParentID, and every class's PackageID. A class whose
// Namespace is empty inherits the namespace of its owning package.
//
// Link is idempotent and must be called again after packages are moved.
func Link(f Forest) {
	for _, p := range f {
		link(p, nil, 0)
	}
}

func link(p *Package, parentNS []string, parentID int64) {
	p.ParentID = parentID
	p.Namespace = append(slices.Clone(parentNS), p.Name)
	for _, c := range p.Classes {
		c.PackageID = p.PackageID
		if len(c.Namespace) == 0 {
			c.Namespace = slices.Clone(p.Namespace)
		}
	}
	for _, child := range p.Packages {
		link(child, p.Namespace, p.PackageID)
	}
}

// WalkPackages calls fn for every package in pre-order.
func WalkPackages(f Forest, fn func(p *Package)) {
	var walk func(p *Package)
	walk = func(p *Package) {
		fn(p)
		for _, child := range p.Packages {
			walk(child)
		}
	}
	for _, p := range f {
		walk(p)
	}
}

// WalkClasses calls fn for every class with its owning package, packages in
// pre-order and classes in slice order.
func WalkClasses(f Forest, fn func(c *Class, owner *Package)) {
	WalkPackages(f, func(p *Package) {
		for _, c := range p.Classes {
			fn(c, p)
		}
	})
}

// Packages returns every package in pre-order.
func Packages(f Forest) []*Package {
	var out []*Package
	WalkPackages(f, func(p *Package) { out = append(out, p) })
	return out
}

// Classes returns every class in the forest.
func Classes(f Forest) []*Class {
	var out []*Class
	WalkClasses(f, func(c *Class, _ *Package) { out = append(out, c) })
	return out
}

// FindClass returns the first class matching pred, or nil.
func FindClass(f Forest, pred func(c *Class) bool) *Class {
	var found *Class
	WalkClasses(f, func(c *Class, _ *Package) {
		if found == nil && pred(c) {
			found = c
		}
	})
	return found
}

// ClassByID returns the class with the given object id, or nil.
func ClassByID(f Forest, id int64) *Class {
	return FindClass(f, func(c *Class) bool { return c.ObjectID == id })
}

// ContainedIDs returns the object ids of every class owned by p or its
// descendants, sorted ascending.
func ContainedIDs(p *Package) []int64 {
	set := make(map[int64]bool)
	WalkClasses(Forest{p}, func(c *Class, _ *Package) { set[c.ObjectID] = true })
	return slices.Sorted(maps.Keys(set))
}

// AllDependsOn returns the union of the DependsOn sets of p, its descendant
// packages and every class they own, sorted ascending.
func AllDependsOn(p *Package) []int64 {
	set := make(map[int64]bool)
	WalkPackages(Forest{p}, func(sub *Package) {
		for _, id := range sub.DependsOn {
			set[id] = true
		}
		for _, c := range sub.Classes {
			for _, id := range c.DependsOn {
				set[id] = true
			}
		}
	})
	return slices.Sorted(maps.Keys(set))
}

// RemoveClasses deletes the classes whose ids are in ids from their owning
// packages and drops those ids from every remaining DependsOn set. It returns
// the removed classes in walk order.
func RemoveClasses(f Forest, ids map[int64]bool) []*Class {
	if len(ids) == 0 {
		return nil
	}
	var removed []*Class
	WalkPackages(f, func(p *Package) {
		p.Classes = slices.DeleteFunc(p.Classes, func(c *Class) bool {
			if ids[c.ObjectID] {
				removed = append(removed, c)
				return true
			}
			return false
		})
	})
	dropIDs(f, func(id int64) bool { return ids[id] })
	return removed
}

// RemovePackages deletes every package matching drop, at any depth, together
// with its subtree. It returns the removed packages in walk order. The
// classes of removed subtrees are not pruned from DependsOn sets; callers
// follow up with RemoveClasses or PruneDependencies.
func RemovePackages(f *Forest, drop func(p *Package) bool) []*Package {
	var removed []*Package
	var prune func(ps []*Package) []*Package
	prune = func(ps []*Package) []*Package {
		ps = slices.DeleteFunc(ps, func(p *Package) bool {
			if drop(p) {
				removed = append(removed, p)
				return true
			}
			return false
		})
		for _, p := range ps {
			p.Packages = prune(p.Packages)
		}
		return ps
	}
	*f = prune(*f)
	return removed
}

// PruneDependencies drops every DependsOn id that no longer names a class in
// the forest. It returns the number of ids dropped.
func PruneDependencies(f Forest) int {
	live := make(map[int64]bool)
	WalkClasses(f, func(c *Class, _ *Package) { live[c.ObjectID] = true })
	return dropIDs(f, func(id int64) bool { return !live[id] })
}

func dropIDs(f Forest, drop func(id int64) bool) int {
	n := 0
	del := func(id int64) bool {
		if drop(id) {
			n++
			return true
		}
		return false
	}
	WalkPackages(f, func(p *Package) {
		p.DependsOn = slices.DeleteFunc(p.DependsOn, del)
		for _, c := range p.Classes {
			c.DependsOn = slices.DeleteFunc(c.DependsOn, del)
		}
	})
	return n
}

// RefreshPackageDependencies recomputes every package's DependsOn as the
// dependencies of its classes (recursively) minus the ids it contains.
func RefreshPackageDependencies(f Forest) {
	WalkPackages(f, func(p *Package) {
		contained := make(map[int64]bool)
		deps := make(map[int64]bool)
		WalkClasses(Forest{p}, func(c *Class, _ *Package) {
			contained[c.ObjectID] = true
			for _, id := range c.DependsOn {
				deps[id] = true
			}
		})
		p.DependsOn = p.DependsOn[:0]
		for _, id := range slices.Sorted(maps.Keys(deps)) {
			if !contained[id] {
				p.DependsOn = append(p.DependsOn, id)
			}
		}
	})
}

// ComputeInfo fills PackageInfo for every package. A package gets a
// definition only when it holds something IDL accepts in a module body.
func ComputeInfo(f Forest) {
	WalkPackages(f, func(p *Package) {
		info := &PackageInfo{Packages: len(p.Packages), CreateDeclaration: true}
		for _, c := range p.Classes {
			switch c.Kind {
			case KindStruct:
				info.Structs++
			case KindEnum:
				info.Enums++
			case KindUnion:
				info.Unions++
			case KindTypedef:
				info.Typedefs++
			case KindMap:
				info.Maps++
			}
		}
		info.CreateDefinition = info.Packages+info.Unions+info.Structs+info.Enums+info.Typedefs > 0
		p.Info = info
	})
}
