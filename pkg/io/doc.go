// Package io reads model documents and writes pipeline results.
//
// # Model documents
//
// A model document carries the forest produced by the model loader, as JSON
// or YAML. Its single top-level key is "packages", the root packages:
//
//	packages:
//	  - package_id: 1
//	    object_id: 100
//	    name: core
//	    classes:
//	      - object_id: 10
//	        name: Node
//	        kind: struct
//	        attributes:
//	          - name: children
//	            type: Node
//	            is_collection: true
//
// Class kinds are "struct" (the default), "enum", "union", "typedef" and
// "map". Derived fields (a package's namespace, a class's package) are not
// part of the document; [ReadModel] computes them with model.Link.
//
// Use [ImportModel] to read a file, or [ReadModel] to read from any
// io.Reader. [WriteModel] and [ExportModel] write the (transformed) forest
// back in the same format.
//
// # Order documents
//
// [WriteOrder] and [ExportOrder] write what a code generator needs from a
// pipeline run: packages in emission order with their sorted classes, the
// classes needing forward declarations, and the legal cycles.
//
//	{
//	  "run_id": "4f6c...",
//	  "digest": "9b1e...",
//	  "packages": [
//	    {"id": 1, "name": "core", "classes": [
//	      {"id": 10, "name": "core::Node", "kind": "struct", "forward_declared": true}
//	    ]}
//	  ],
//	  "forward_declarations": ["core::Node"],
//	  "cycles": [["core::Node"]]
//	}
package io
