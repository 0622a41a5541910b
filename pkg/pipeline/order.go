package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"maps"
	"slices"

	"github.com/matzehuels/idlgraph/pkg/depgraph"
	"github.com/matzehuels/idlgraph/pkg/errors"
	"github.com/matzehuels/idlgraph/pkg/model"
)

// Order sorts f in place: siblings at every level of the package tree by
// their dependencies, and the classes of every package by the edges of g.
// Edges between members of the same sccMap entry are ignored.
//
// It returns the packages in emission order and the sorted classes of each
// package, keyed by package id. A package is emitted after its sub-packages,
// so the classes of a nested module precede those of the enclosing one.
// When the nesting forces a class after a class that needs it (a nested
// class using a class of an enclosing package), Order returns an error
// coded errors.ErrCodeCircularDependency.
func Order(f *model.Forest, g *depgraph.Graph, sccMap map[int64][]int64) ([]*model.Package, map[int64][]*model.Class, error) {
	var packages []*model.Package
	classes := make(map[int64][]*model.Class)
	dependsOn := packageDependencies(g)

	var sortLevel func(level []*model.Package) ([]*model.Package, error)
	sortLevel = func(level []*model.Package) ([]*model.Package, error) {
		sorted, err := depgraph.SortPackages(level, dependsOn, model.ContainedIDs)
		if err != nil {
			return nil, err
		}
		for _, p := range sorted {
			if p.Packages, err = sortLevel(p.Packages); err != nil {
				return nil, err
			}
			cs, err := depgraph.SortClasses(g, p.Classes, sccMap)
			if err != nil {
				return nil, fmt.Errorf("package %s: %w", p.FullName(), err)
			}
			p.Classes = cs
			classes[p.PackageID] = cs
			packages = append(packages, p)
		}
		return sorted, nil
	}

	sorted, err := sortLevel(*f)
	if err != nil {
		return nil, nil, err
	}
	if err := checkEmission(g, sccMap, packages, classes); err != nil {
		return nil, nil, err
	}
	*f = sorted
	return packages, classes, nil
}

// checkEmission verifies that every class is emitted after the classes it
// depends on, except those of its own cycle.
func checkEmission(g *depgraph.Graph, sccMap map[int64][]int64, packages []*model.Package, classes map[int64][]*model.Class) error {
	pos := make(map[int64]int)
	for _, p := range packages {
		for _, c := range classes[p.PackageID] {
			pos[c.ObjectID] = len(pos)
		}
	}
	for _, e := range g.Edges() {
		from, okFrom := pos[e.From]
		to, okTo := pos[e.To]
		if !okFrom || !okTo || to < from || e.From == e.To {
			continue
		}
		if scc, ok := sccMap[e.From]; ok && slices.Contains(scc, e.To) {
			continue
		}
		return errors.New(errors.ErrCodeCircularDependency,
			"%s.%s needs %s, which the package nesting emits later; move one of the classes to another package",
			g.Name(e.From), e.Member, g.Name(e.To))
	}
	return nil
}

// packageDependencies returns the ids a package depends on: its DependsOn set
// plus every graph edge target of the classes it contains.
func packageDependencies(g *depgraph.Graph) func(p *model.Package) []int64 {
	return func(p *model.Package) []int64 {
		set := make(map[int64]bool)
		for _, id := range p.DependsOn {
			set[id] = true
		}
		model.WalkClasses(model.Forest{p}, func(c *model.Class, _ *model.Package) {
			for _, to := range g.Children(c.ObjectID) {
				set[to] = true
			}
		})
		return slices.Sorted(maps.Keys(set))
	}
}

// Digest hashes the emission order: one line per package and class,
// carrying ids and qualified names.
func Digest(packages []*model.Package, classes map[int64][]*model.Class) string {
	h := sha256.New()
	for _, p := range packages {
		fmt.Fprintf(h, "P %d %s\n", p.PackageID, p.FullName())
		for _, c := range classes[p.PackageID] {
			fmt.Fprintf(h, "C %d %s\n", c.ObjectID, c.FullName())
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
