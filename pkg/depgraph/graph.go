package depgraph

import (
	"cmp"
	"errors"
	"slices"

	"github.com/matzehuels/idlgraph/pkg/model"
)

var (
	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a class with the
	// same object id is already a node.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// Member names used for edges that do not come from an attribute.
const (
	MemberGeneralization = "generalization"
	MemberParentType     = "parent_type"
	MemberUnionEnum      = "union_enum"
	MemberValuesEnum     = "values_enums"
	MemberDependsOn      = "depends_on"
)

// Edge is a directed dependency: From must be declared before To can be
// used by value. Member names the attribute (or one of the Member*
// constants) that introduced the edge.
//
// A soft edge is one IDL can satisfy with a forward declaration: a sequence
// or map member, or any member of a union.
type Edge struct {
	From   int64
	To     int64
	Member string
	Soft   bool
}

func compareEdges(a, b Edge) int {
	return cmp.Or(
		cmp.Compare(a.From, b.From),
		cmp.Compare(a.To, b.To),
		cmp.Compare(a.Member, b.Member),
	)
}

// Graph is the class dependency graph. Nodes are classes keyed by object
// id; all iteration is in ascending id order so every algorithm built on it
// is deterministic.
//
// The zero value is not usable - use [New] or [Build].
type Graph struct {
	nodes    map[int64]*model.Class
	ids      []int64
	outgoing map[int64][]Edge
	edges    int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[int64]*model.Class),
		outgoing: make(map[int64][]Edge),
	}
}

// AddNode adds c as a node.
func (g *Graph) AddNode(c *model.Class) error {
	if _, exists := g.nodes[c.ObjectID]; exists {
		return ErrDuplicateNodeID
	}
	g.nodes[c.ObjectID] = c
	i, _ := slices.BinarySearch(g.ids, c.ObjectID)
	g.ids = slices.Insert(g.ids, i, c.ObjectID)
	return nil
}

// AddEdge adds e between two existing nodes. Adding an edge identical to an
// existing one is a no-op.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	out := g.outgoing[e.From]
	i, found := slices.BinarySearchFunc(out, e, compareEdges)
	if found && out[i] == e {
		return nil
	}
	g.outgoing[e.From] = slices.Insert(out, i, e)
	g.edges++
	return nil
}

// Node returns the class with object id id.
func (g *Graph) Node(id int64) (*model.Class, bool) {
	c, ok := g.nodes[id]
	return c, ok
}

// Name returns the qualified name of node id, or its numeric id when the
// node is unknown.
func (g *Graph) Name(id int64) string {
	if c, ok := g.nodes[id]; ok {
		return c.FullName()
	}
	return formatID(id)
}

// NodeIDs returns every node id in ascending order. The returned slice
// should not be modified.
func (g *Graph) NodeIDs() []int64 { return g.ids }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.ids) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return g.edges }

// OutEdges returns the edges leaving id, ordered by target then member.
// The returned slice should not be modified.
func (g *Graph) OutEdges(id int64) []Edge { return g.outgoing[id] }

// Edges returns a copy of every edge ordered by source, target and member.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for _, id := range g.ids {
		out = append(out, g.outgoing[id]...)
	}
	return out
}

// EdgesBetween returns every edge from → to.
func (g *Graph) EdgesBetween(from, to int64) []Edge {
	var out []Edge
	for _, e := range g.outgoing[from] {
		if e.To == to {
			out = append(out, e)
		}
	}
	return out
}

// HasEdge reports whether any edge from → to exists.
func (g *Graph) HasEdge(from, to int64) bool {
	return slices.ContainsFunc(g.outgoing[from], func(e Edge) bool { return e.To == to })
}

// Children returns the distinct targets of every edge leaving id, in
// ascending order.
func (g *Graph) Children(id int64) []int64 {
	return targets(g.outgoing[id], func(Edge) bool { return true })
}

// SoftChildren returns the distinct targets of the soft edges leaving id, in
// ascending order.
func (g *Graph) SoftChildren(id int64) []int64 {
	return targets(g.outgoing[id], func(e Edge) bool { return e.Soft })
}

func targets(edges []Edge, keep func(Edge) bool) []int64 {
	var out []int64
	for _, e := range edges {
		// edges are sorted by target, so duplicates are adjacent
		if keep(e) && (len(out) == 0 || out[len(out)-1] != e.To) {
			out = append(out, e.To)
		}
	}
	return out
}
