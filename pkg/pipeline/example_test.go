package pipeline_test

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/idlgraph/pkg/model"
	"github.com/matzehuels/idlgraph/pkg/pipeline"
)

func ExampleRunner_Execute() {
	// Tree holds a sequence of Branch; Branch points back at its Tree.
	tree := &model.Class{ObjectID: 1, Name: "Tree", Attributes: []*model.Attribute{
		{Name: "branches", Type: "Branch", IsCollection: true},
	}}
	branch := &model.Class{ObjectID: 2, Name: "Branch", Attributes: []*model.Attribute{
		{Name: "owner", Type: "Tree"},
		{Name: "length", Type: "double"},
	}}
	leaf := &model.Class{ObjectID: 3, Name: "Leaf", Attributes: []*model.Attribute{
		{Name: "on", Type: "Branch"},
	}}
	f := model.Forest{{PackageID: 1, Name: "garden", Classes: []*model.Class{leaf, branch, tree}}}

	runner := pipeline.NewRunner(log.New(io.Discard))
	res, err := runner.Execute(context.Background(), f, pipeline.Options{})
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, c := range res.Classes[1] {
		fmt.Println(c.FullName(), res.ForwardDeclared(c.ObjectID))
	}
	// Output:
	// garden::Tree true
	// garden::Branch true
	// garden::Leaf false
}
