package depgraph

import (
	"maps"
	"slices"

	"github.com/matzehuels/idlgraph/pkg/model"
)

// MaxCycleSearchDepth bounds the walk that extracts a concrete cycle path for
// a CircularDependencyError.
const MaxCycleSearchDepth = 64

// SortClasses orders classes so that every class follows the classes it
// depends on. Dependencies are the edges of g between members of classes;
// edges leaving the slice are ignored, as are edges whose endpoints share an
// entry in sccMap (those cycles are broken by forward declarations).
//
// Among ready classes the smallest object id always goes first, so the
// result does not depend on the order of classes.
func SortClasses(g *Graph, classes []*model.Class, sccMap map[int64][]int64) ([]*model.Class, error) {
	byID := make(map[int64]*model.Class, len(classes))
	for _, c := range classes {
		byID[c.ObjectID] = c
	}
	deps := make(map[int64][]int64, len(classes))
	for id := range byID {
		var ds []int64
		for _, to := range g.Children(id) {
			if _, ok := byID[to]; !ok || sameSCC(sccMap, id, to) {
				continue
			}
			ds = append(ds, to)
		}
		deps[id] = ds
	}

	order, blocked := kahn(deps)
	if len(blocked) > 0 {
		return nil, newCircularDependencyError("class", blocked, func(id int64) string {
			return byID[id].FullName()
		})
	}
	out := make([]*model.Class, len(order))
	for i, id := range order {
		out[i] = byID[id]
	}
	return out, nil
}

// SortPackages orders sibling packages so that a package follows every
// package it depends on. Package u depends on v when dependsOn(u) shares an
// id with containedIDs(v). Ties are broken by ascending package id.
func SortPackages(packages []*model.Package, dependsOn, containedIDs func(*model.Package) []int64) ([]*model.Package, error) {
	byID := make(map[int64]*model.Package, len(packages))
	contained := make(map[int64]map[int64]bool, len(packages))
	for _, p := range packages {
		byID[p.PackageID] = p
		set := make(map[int64]bool)
		for _, id := range containedIDs(p) {
			set[id] = true
		}
		contained[p.PackageID] = set
	}

	deps := make(map[int64][]int64, len(packages))
	for _, u := range packages {
		ds := []int64{}
		want := dependsOn(u)
		for _, v := range packages {
			if u.PackageID == v.PackageID {
				continue
			}
			if slices.ContainsFunc(want, func(id int64) bool { return contained[v.PackageID][id] }) {
				ds = append(ds, v.PackageID)
			}
		}
		deps[u.PackageID] = ds
	}

	order, blocked := kahn(deps)
	if len(blocked) > 0 {
		return nil, newCircularDependencyError("package", blocked, func(id int64) string {
			return byID[id].FullName()
		})
	}
	out := make([]*model.Package, len(order))
	for i, id := range order {
		out[i] = byID[id]
	}
	return out, nil
}

// kahn schedules every key of deps after the ids it lists. All listed ids
// must be keys. The ready queue is re-sorted after each pop so the smallest
// ready id is always taken next. It returns the schedule and, for every node
// left over, its unscheduled dependencies.
func kahn(deps map[int64][]int64) (order []int64, blocked map[int64][]int64) {
	indegree := make(map[int64]int, len(deps))
	dependents := make(map[int64][]int64, len(deps))
	var ready []int64
	for id, ds := range deps {
		indegree[id] = len(ds)
		for _, d := range ds {
			dependents[d] = append(dependents[d], id)
		}
		if len(ds) == 0 {
			ready = append(ready, id)
		}
	}
	slices.Sort(ready)

	done := make(map[int64]bool, len(deps))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)
		done[id] = true
		for _, dep := range dependents[id] {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
		slices.Sort(ready)
	}

	if len(order) == len(deps) {
		return order, nil
	}
	blocked = make(map[int64][]int64)
	for id, ds := range deps {
		if done[id] {
			continue
		}
		var waiting []int64
		for _, d := range ds {
			if !done[d] {
				waiting = append(waiting, d)
			}
		}
		slices.Sort(waiting)
		blocked[id] = slices.Compact(waiting)
	}
	return order, blocked
}

// cyclePath walks from the smallest blocked node along its smallest pending
// dependency until a node repeats. Every blocked node waits on another
// blocked node, so the walk closes a cycle unless it exceeds the depth
// bound.
func cyclePath(blocked map[int64][]int64) []int64 {
	if len(blocked) == 0 {
		return nil
	}
	start := slices.Min(slices.Collect(maps.Keys(blocked)))
	var path []int64
	pos := make(map[int64]int)
	for id := start; len(path) <= MaxCycleSearchDepth; {
		if i, seen := pos[id]; seen {
			return append(path[i:], id)
		}
		pos[id] = len(path)
		path = append(path, id)
		next := blocked[id]
		if len(next) == 0 {
			return nil
		}
		id = next[0]
	}
	return nil
}

func newCircularDependencyError(what string, blocked map[int64][]int64, name func(int64) string) *CircularDependencyError {
	e := &CircularDependencyError{What: what}
	for _, id := range slices.Sorted(maps.Keys(blocked)) {
		b := Blocked{ID: id, Name: name(id)}
		for _, d := range blocked[id] {
			b.Waiting = append(b.Waiting, name(d))
		}
		e.Remaining = append(e.Remaining, b)
	}
	for _, id := range cyclePath(blocked) {
		e.Path = append(e.Path, name(id))
	}
	return e
}
