// Package pkg provides the core libraries for idlgraph.
//
// # Overview
//
// idlgraph takes an IDL class model (packages of structs, enums, unions,
// typedefs and maps, as exported from a UML tool) and computes the order in
// which a code generator must emit it. The pkg directory is organized into
// these areas:
//
//  1. [model] - The package/class/attribute forest and its name resolution
//  2. [transform] - Model rewrites run before analysis (filtering, flattening, union collapse)
//  3. [depgraph] - The class dependency graph, cycle analysis and topological sorting
//  4. [pipeline] - Orchestration (transform → check → build → analyze → order)
//  5. [io] - Model and order documents (JSON, YAML)
//
// Supporting packages: [config] holds the settings, [errors] the coded
// errors, [observability] the pipeline hooks, [render/nodelink] draws the
// dependency graph and [buildinfo] carries version information.
//
// # Architecture
//
// Cross references in the model are object ids, never pointers. Transforms
// mutate the forest in place; the graph is derived from the transformed
// forest and is read-only afterwards.
//
//	forest, _ := io.ImportModel("model.json")
//	res, _ := pipeline.NewRunner(logger).Execute(ctx, forest, pipeline.Options{Config: cfg})
//	_ = io.ExportOrder(res, "order.yaml")
package pkg
