package depgraph

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/idlgraph/pkg/errors"
)

// IllegalCycleRemedy is appended to every IllegalCycleError message.
const IllegalCycleRemedy = "mark one attribute in the cycle as a collection"

// IllegalCycleError reports a cycle in which every edge is a by-value
// reference, so no forward declaration can break it.
type IllegalCycleError struct {
	// Members are the qualified names of the classes in the cycle.
	Members []string
	// Edges are the non-soft edges inside the cycle as "owner.member -> target".
	Edges []string
}

func newIllegalCycleError(g *Graph, scc []int64) *IllegalCycleError {
	e := &IllegalCycleError{}
	for _, u := range scc {
		e.Members = append(e.Members, g.Name(u))
		for _, edge := range g.OutEdges(u) {
			if !edge.Soft && slices.Contains(scc, edge.To) {
				e.Edges = append(e.Edges, fmt.Sprintf("%s.%s -> %s", g.Name(u), edge.Member, g.Name(edge.To)))
			}
		}
	}
	return e
}

func (e *IllegalCycleError) Error() string {
	return fmt.Sprintf("illegal cycle between %s: %s; %s",
		strings.Join(e.Members, ", "), strings.Join(e.Edges, ", "), IllegalCycleRemedy)
}

// ErrorCode implements errors.Coder.
func (e *IllegalCycleError) ErrorCode() errors.Code { return errors.ErrCodeIllegalCycle }

// CrossModuleCycleError reports a legal cycle whose members live in
// different namespaces. IDL cannot reopen a module to forward declare across
// module boundaries.
type CrossModuleCycleError struct {
	// Chain holds the qualified names of the cycle members.
	Chain []string
}

func newCrossModuleCycleError(g *Graph, scc []int64) *CrossModuleCycleError {
	e := &CrossModuleCycleError{}
	for _, id := range scc {
		e.Chain = append(e.Chain, g.Name(id))
	}
	return e
}

func (e *CrossModuleCycleError) Error() string {
	return fmt.Sprintf("cross-module circular dependency: %s; cycles are only supported within one module",
		strings.Join(e.Chain, " <-> "))
}

// ErrorCode implements errors.Coder.
func (e *CrossModuleCycleError) ErrorCode() errors.Code { return errors.ErrCodeCrossModuleCycle }

// Blocked describes a node the sorter could not schedule.
type Blocked struct {
	ID   int64
	Name string
	// Waiting lists the names of the unscheduled nodes it still depends on.
	Waiting []string
}

// CircularDependencyError is returned by the sorters when some nodes can
// never become ready.
type CircularDependencyError struct {
	// What is "class" or "package".
	What string
	// Remaining holds every unscheduled node in ascending id order.
	Remaining []Blocked
	// Path is a concrete cycle such as [A B A], or nil when none was found
	// within the search depth.
	Path []string
}

func (e *CircularDependencyError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "circular %s dependency (%d unresolved)", e.What, len(e.Remaining))
	if len(e.Path) > 0 {
		fmt.Fprintf(&b, ": %s", strings.Join(e.Path, " -> "))
	}
	return b.String()
}

// Detail renders every blocked node with its pending dependencies, one per
// line.
func (e *CircularDependencyError) Detail() string {
	var b strings.Builder
	for _, r := range e.Remaining {
		fmt.Fprintf(&b, "%s waits on %s\n", r.Name, strings.Join(r.Waiting, ", "))
	}
	return b.String()
}

// ErrorCode implements errors.Coder.
func (e *CircularDependencyError) ErrorCode() errors.Code { return errors.ErrCodeCircularDependency }

func formatID(id int64) string { return "#" + strconv.FormatInt(id, 10) }
