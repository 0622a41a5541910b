package nodelink_test

import (
	"fmt"

	"github.com/matzehuels/idlgraph/pkg/depgraph"
	"github.com/matzehuels/idlgraph/pkg/model"
	"github.com/matzehuels/idlgraph/pkg/render/nodelink"
)

func ExampleToDOT() {
	g := depgraph.New()
	_ = g.AddNode(&model.Class{ObjectID: 1, Name: "Order"})
	_ = g.AddNode(&model.Class{ObjectID: 2, Name: "Item"})
	_ = g.AddEdge(depgraph.Edge{From: 1, To: 2, Member: "items", Soft: true})

	fmt.Print(nodelink.ToDOT(g, nodelink.Options{}))
	// Output:
	// digraph G {
	//   rankdir=TB;
	//   bgcolor="transparent";
	//   node [shape=box, style="rounded,filled", fillcolor=white, fontsize=14, margin="0.2,0.1"];
	//   ranksep=0.5;
	//   nodesep=0.3;
	//
	//   c1 [label="Order", fillcolor=white];
	//   c2 [label="Item", fillcolor=white];
	//
	//   c1 -> c2 [style=dashed];
	// }
}
