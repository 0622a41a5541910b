// Package transform rewrites a model forest into the shape IDL emission
// expects.
//
// # Overview
//
// A model exported from a UML tool carries constructs IDL cannot express
// directly: abstract base classes, marker unions with no or a single member,
// map classes standing in for map<K, V>, and classes nobody uses. Each
// transform here removes one of those constructs in place:
//
//   - [FilterStereotypes] drops packages, classes and attributes by stereotype
//   - [FlattenAbstractClasses] folds abstract ancestors into their descendants
//   - [FilterEmptyUnions] removes empty unions and collapses single-member ones
//   - [ConvertMapStereotype] turns references to map classes into map members
//   - [FilterUnusedClasses] prunes classes unreachable from the model's roots
//
// [Apply] runs them in that order; [Steps] exposes the same sequence to
// callers that want to time or log each step.
//
// # Guarantees
//
// Every transform is idempotent and leaves every DependsOn id pointing at a
// class that still exists. Transforms that can fail validate the whole
// forest before changing anything, so a returned error leaves the forest as
// it was.
//
// Transforms expect a forest processed by model.Link.
package transform
