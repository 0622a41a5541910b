package transform_test

import (
	"fmt"

	"github.com/matzehuels/idlgraph/pkg/config"
	"github.com/matzehuels/idlgraph/pkg/model"
	"github.com/matzehuels/idlgraph/pkg/transform"
)

func ExampleFlattenAbstractClasses() {
	// Shape is abstract; Circle inherits its attributes and loses the link.
	shape := &model.Class{ObjectID: 1, Name: "Shape", IsAbstract: true,
		Attributes: []*model.Attribute{{Name: "x", Type: "double"}, {Name: "y", Type: "double"}}}
	circle := &model.Class{ObjectID: 2, Name: "Circle",
		Generalization: []string{"geo", "Shape"},
		Attributes:     []*model.Attribute{{Name: "radius", Type: "double"}}}
	f := model.Forest{{PackageID: 1, Name: "geo", Classes: []*model.Class{shape, circle}}}
	model.Link(f)

	res, _ := transform.FlattenAbstractClasses(&f, config.Default())

	for _, a := range circle.Attributes {
		fmt.Println(a.Name)
	}
	fmt.Println("Removed:", res.Removed)
	// Output:
	// x
	// y
	// radius
	// Removed: [geo::Shape]
}

func ExampleApply() {
	// An empty union is dropped together with the member that used it.
	empty := &model.Class{ObjectID: 1, Name: "Nothing", Kind: model.KindUnion}
	holder := &model.Class{ObjectID: 2, Name: "Holder", Attributes: []*model.Attribute{
		{Name: "none", Type: "Nothing"},
		{Name: "count", Type: "long"},
	}}
	f := model.Forest{{PackageID: 1, Name: "app", Classes: []*model.Class{empty, holder}}}

	res, err := transform.Apply(&f, config.Default())
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("Classes removed:", res.ClassesRemoved)
	fmt.Println("Attributes removed:", res.AttributesRemoved)
	fmt.Println("Holder members:", len(holder.Attributes))
	// Output:
	// Classes removed: 1
	// Attributes removed: 1
	// Holder members: 1
}
