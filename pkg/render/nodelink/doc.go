// Package nodelink renders class dependency graphs as node-link diagrams.
//
// # Overview
//
// Each class is a box, grouped with the other classes of its namespace in a
// Graphviz cluster, and each dependency an arrow from the dependent class to
// the class it needs. The layout runs top to bottom, so dependencies sit
// below the classes that use them.
//
// # Usage
//
// Build the graph, convert it to DOT, then render to SVG:
//
//	g, err := depgraph.Build(forest, depgraph.Options{IsPrimitive: cfg.IsPrimitive})
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Styling
//
//   - Soft edges (sequence, map and union members) are dashed: they can be
//     broken by a forward declaration.
//   - Classes are filled by kind (enum, union, typedef, map).
//   - With [Options.Analysis] set, forward-declared classes get a heavy
//     border and the edges of illegal cycles are drawn in red.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package nodelink
