package depgraph_test

import (
	"errors"
	"fmt"

	"github.com/matzehuels/idlgraph/pkg/depgraph"
	"github.com/matzehuels/idlgraph/pkg/model"
)

func ExampleAnalyze() {
	// A tree node holding a sequence of itself: the only edge is soft, so the
	// cycle is broken with a forward declaration.
	node := &model.Class{ObjectID: 1, Name: "Node", Attributes: []*model.Attribute{
		{Name: "children", Type: "Node", IsCollection: true},
	}}
	f := model.Forest{{PackageID: 1, Name: "tree", Classes: []*model.Class{node}}}
	model.Link(f)

	g, _ := depgraph.Build(f, depgraph.Options{})
	a, _ := depgraph.Analyze(g, depgraph.AnalyzeOptions{Strict: true})

	fmt.Println("Cycles:", a.Cycles)
	fmt.Println("Forward declarations:", a.ForwardDeclarations())
	// Output:
	// Cycles: [[1]]
	// Forward declarations: [1]
}

func ExampleAnalyze_illegal() {
	// Two structs holding each other by value can never be emitted.
	a := &model.Class{ObjectID: 1, Name: "A", Attributes: []*model.Attribute{{Name: "b", Type: "B"}}}
	b := &model.Class{ObjectID: 2, Name: "B", Attributes: []*model.Attribute{{Name: "a", Type: "A"}}}
	f := model.Forest{{PackageID: 1, Name: "data", Classes: []*model.Class{a, b}}}
	model.Link(f)

	g, _ := depgraph.Build(f, depgraph.Options{})
	_, err := depgraph.Analyze(g, depgraph.AnalyzeOptions{Strict: true})

	var ice *depgraph.IllegalCycleError
	if errors.As(err, &ice) {
		for _, e := range ice.Edges {
			fmt.Println(e)
		}
	}
	// Output:
	// data::A.b -> data::B
	// data::B.a -> data::A
}

func ExampleSortClasses() {
	a := &model.Class{ObjectID: 1, Name: "A"}
	b := &model.Class{ObjectID: 2, Name: "B", DependsOn: []int64{1}}
	c := &model.Class{ObjectID: 3, Name: "C", DependsOn: []int64{1}}
	d := &model.Class{ObjectID: 4, Name: "D", DependsOn: []int64{2, 3}}
	f := model.Forest{{PackageID: 1, Name: "core", Classes: []*model.Class{d, c, b, a}}}
	model.Link(f)

	g, _ := depgraph.Build(f, depgraph.Options{})
	sorted, _ := depgraph.SortClasses(g, f[0].Classes, nil)
	for _, cls := range sorted {
		fmt.Print(cls.Name, " ")
	}
	fmt.Println()
	// Output:
	// A B C D
}
