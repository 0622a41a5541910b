package depgraph

import (
	"cmp"
	"maps"
	"slices"
)

// Tarjan returns the strongly connected components of g in the order
// Tarjan's algorithm completes them (dependencies before dependents). Nodes
// and children are visited in ascending id order and each component's
// members are sorted, so the result is fully deterministic.
func Tarjan(g *Graph) [][]int64 {
	var (
		counter int
		stack   []int64
		index   = make(map[int64]int)
		lowlink = make(map[int64]int)
		onStack = make(map[int64]bool)
		sccs    [][]int64
	)

	var connect func(v int64)
	connect = func(v int64) {
		index[v] = counter
		lowlink[v] = counter
		counter++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.Children(v) {
			if _, seen := index[w]; !seen {
				connect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], index[w])
			}
		}

		if lowlink[v] == index[v] {
			var scc []int64
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			slices.Sort(scc)
			sccs = append(sccs, scc)
		}
	}

	for _, id := range g.NodeIDs() {
		if _, seen := index[id]; !seen {
			connect(id)
		}
	}
	return sccs
}

// AnalyzeOptions configures [Analyze].
type AnalyzeOptions struct {
	// Strict turns cycles without any soft edge into an *IllegalCycleError.
	// Otherwise they are left out of the analysis and the sorter reports them.
	Strict bool
}

// Analysis is the result of cycle detection.
type Analysis struct {
	// SCCs holds every strongly connected component, trivial ones included.
	SCCs [][]int64

	// Cycles holds the legal cycles: components of more than one node, or a
	// single self-referencing node, with at least one soft internal edge.
	Cycles [][]int64

	// Illegal holds the cycles without a soft edge that were tolerated
	// because the analysis was not strict.
	Illegal [][]int64

	// SCCMap maps every member of a legal cycle to the cycle's members.
	SCCMap map[int64][]int64

	// NeedsForwardDeclaration is the set of classes that must be forward
	// declared: members of legal cycles and the direct targets of typedefs.
	NeedsForwardDeclaration map[int64]bool
}

// SameCycle reports whether u and v are members of the same legal cycle.
func (a *Analysis) SameCycle(u, v int64) bool {
	return sameSCC(a.SCCMap, u, v)
}

// ForwardDeclarations returns NeedsForwardDeclaration as a sorted slice.
func (a *Analysis) ForwardDeclarations() []int64 {
	return slices.Sorted(maps.Keys(a.NeedsForwardDeclaration))
}

func sameSCC(sccMap map[int64][]int64, u, v int64) bool {
	scc, ok := sccMap[u]
	if !ok {
		return false
	}
	_, found := slices.BinarySearch(scc, v)
	return found
}

// Analyze finds the cycles of g and decides which of them IDL can express
// through forward declarations.
//
// Every candidate cycle is first checked for legality; in strict mode the
// first illegal one (by smallest member id) fails with *IllegalCycleError.
// Only then are legal cycles checked to lie within a single namespace,
// failing with *CrossModuleCycleError otherwise.
func Analyze(g *Graph, opts AnalyzeOptions) (*Analysis, error) {
	sccs := Tarjan(g)
	a := &Analysis{
		SCCs:                    sccs,
		SCCMap:                  make(map[int64][]int64),
		NeedsForwardDeclaration: make(map[int64]bool),
	}

	var candidates [][]int64
	for _, scc := range sccs {
		if len(scc) > 1 || g.HasEdge(scc[0], scc[0]) {
			candidates = append(candidates, scc)
		}
	}
	slices.SortFunc(candidates, func(x, y []int64) int { return cmp.Compare(x[0], y[0]) })

	for _, scc := range candidates {
		if hasSoftEdge(g, scc) {
			a.Cycles = append(a.Cycles, scc)
			continue
		}
		if opts.Strict {
			return nil, newIllegalCycleError(g, scc)
		}
		a.Illegal = append(a.Illegal, scc)
	}

	for _, scc := range a.Cycles {
		if !sameNamespace(g, scc) {
			return nil, newCrossModuleCycleError(g, scc)
		}
		for _, id := range scc {
			a.SCCMap[id] = scc
			a.NeedsForwardDeclaration[id] = true
		}
	}

	for _, id := range g.NodeIDs() {
		c, _ := g.Node(id)
		if !c.IsTypedef() {
			continue
		}
		for _, e := range g.OutEdges(id) {
			if e.Member == MemberParentType && !e.Soft {
				a.NeedsForwardDeclaration[e.To] = true
			}
		}
	}
	return a, nil
}

func hasSoftEdge(g *Graph, scc []int64) bool {
	for _, u := range scc {
		for _, e := range g.OutEdges(u) {
			if e.Soft && slices.Contains(scc, e.To) {
				return true
			}
		}
	}
	return false
}

func sameNamespace(g *Graph, scc []int64) bool {
	first, _ := g.Node(scc[0])
	for _, id := range scc[1:] {
		c, _ := g.Node(id)
		if !slices.Equal(c.Namespace, first.Namespace) {
			return false
		}
	}
	return true
}
