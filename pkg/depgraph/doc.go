// Package depgraph builds the class dependency graph of a model forest,
// detects its cycles and orders classes and packages for IDL emission.
//
// # Overview
//
// IDL requires every type to be declared before it is used. A struct member
// that holds another struct by value needs the full definition; a member that
// holds it through a sequence or map only needs a forward declaration. This
// package captures that distinction on every edge and uses it to decide which
// cycles are expressible and in which order definitions must appear.
//
// # Building the Graph
//
// [Build] turns a linked forest into a [Graph]. Each class becomes a node.
// Edges point from the dependent class to the class it needs:
//
//	g, err := depgraph.Build(forest, depgraph.Options{IsPrimitive: cfg.IsPrimitive})
//
// An edge is soft when IDL can satisfy it with a forward declaration:
// collection and map members, and every member of a union. Everything else
// (by-value members, generalization, typedefs of a plain type and leftover
// DependsOn ids) is hard.
//
// # Cycles
//
// [Analyze] runs Tarjan's algorithm ([Tarjan]) and classifies each cycle.
// A cycle containing at least one soft edge is legal: its members are
// recorded in [Analysis.SCCMap] and [Analysis.NeedsForwardDeclaration]. A
// cycle made only of hard edges fails with [IllegalCycleError] when strict,
// and is otherwise left for the sorter to report. Legal cycles must stay
// inside one namespace or [CrossModuleCycleError] is returned.
//
// # Ordering
//
// [SortClasses] and [SortPackages] implement Kahn's algorithm. Edges inside a
// legal cycle are ignored and the ready queue always yields the smallest id,
// so equal inputs produce identical output regardless of iteration order.
// When nodes remain unscheduled a [CircularDependencyError] lists them
// together with a concrete cycle path.
//
// # Determinism
//
// Nodes, edges and components are always visited in ascending id order. The
// package never iterates a map without sorting its keys first.
package depgraph
