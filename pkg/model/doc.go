// Package model defines the in-memory model forest that the rest of idlgraph
// analyzes and rewrites.
//
// # Ownership
//
// A [Forest] is a list of root [Package] nodes. Packages own their child
// packages and classes; everything else is a non-owning reference expressed
// as an integer object id:
//
//   - [Class.DependsOn] lists ids of classes the class cannot be emitted without
//   - [Class.PackageID] and [Package.ParentID] point back up the tree
//   - [Connection] records carry start and end object ids
//
// Nothing in the model holds a pointer to a sibling or an ancestor, so the
// forest has no reference cycles and removing a class only requires pruning
// ids (see [RemoveClasses] and [PruneDependencies]).
//
// # Derived Fields
//
// The loader fills names, ids and raw dependency sets. [Link] derives the
// namespaces and back-references; call it after loading and after any pass
// that moves packages. [ComputeInfo] derives the per-package statistics
// renderers use to skip empty modules.
//
// # Lookups
//
// [Index] resolves ids and IDL-scoped type names over a forest snapshot.
// Scoped resolution is memoised in a bounded LRU cache because transforms
// resolve the same few names many times.
package model
