package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/idlgraph/pkg/buildinfo"
	"github.com/matzehuels/idlgraph/pkg/errors"
	"github.com/matzehuels/idlgraph/pkg/model"
	"github.com/matzehuels/idlgraph/pkg/pipeline"
)

// Order is the emission order document written for code generators.
type Order struct {
	RunID     string         `json:"run_id" yaml:"run_id"`
	Digest    string         `json:"digest" yaml:"digest"`
	Generator string         `json:"generator" yaml:"generator"`
	Packages  []PackageOrder `json:"packages" yaml:"packages"`

	// ForwardDeclarations lists the qualified names of classes to declare
	// before their definition, by ascending object id.
	ForwardDeclarations []string `json:"forward_declarations" yaml:"forward_declarations"`

	// Cycles lists every legal cycle by qualified member names.
	Cycles [][]string `json:"cycles,omitempty" yaml:"cycles,omitempty"`
}

// PackageOrder is one package and its classes in emission order.
type PackageOrder struct {
	ID      int64              `json:"id" yaml:"id"`
	Name    string             `json:"name" yaml:"name"`
	Info    *model.PackageInfo `json:"info,omitempty" yaml:"info,omitempty"`
	Classes []ClassOrder       `json:"classes" yaml:"classes"`
}

// ClassOrder is one class in emission order.
type ClassOrder struct {
	ID              int64      `json:"id" yaml:"id"`
	Name            string     `json:"name" yaml:"name"`
	Kind            model.Kind `json:"kind" yaml:"kind"`
	ForwardDeclared bool       `json:"forward_declared,omitempty" yaml:"forward_declared,omitempty"`
}

// NewOrder builds the order document of a pipeline result.
func NewOrder(res *pipeline.Result) Order {
	out := Order{
		RunID:               res.RunID,
		Digest:              res.Digest,
		Generator:           "idlgraph " + buildinfo.Version,
		Packages:            make([]PackageOrder, 0, len(res.Packages)),
		ForwardDeclarations: make([]string, 0, len(res.NeedsForwardDeclaration)),
	}
	for _, p := range res.Packages {
		po := PackageOrder{ID: p.PackageID, Name: p.FullName(), Info: p.Info, Classes: []ClassOrder{}}
		for _, c := range res.Classes[p.PackageID] {
			po.Classes = append(po.Classes, ClassOrder{
				ID:              c.ObjectID,
				Name:            c.FullName(),
				Kind:            c.Kind,
				ForwardDeclared: res.ForwardDeclared(c.ObjectID),
			})
		}
		out.Packages = append(out.Packages, po)
	}
	for _, id := range res.NeedsForwardDeclaration {
		out.ForwardDeclarations = append(out.ForwardDeclarations, res.Graph.Name(id))
	}
	if res.Analysis != nil {
		for _, scc := range res.Analysis.Cycles {
			names := make([]string, len(scc))
			for i, id := range scc {
				names[i] = res.Graph.Name(id)
			}
			out.Cycles = append(out.Cycles, names)
		}
	}
	return out
}

// WriteOrder encodes the order document of res to w.
func WriteOrder(res *pipeline.Result, w io.Writer, format Format) error {
	return encode(NewOrder(res), w, format)
}

// WriteModel encodes f as a model document. The output can be read back
// with [ReadModel].
func WriteModel(f model.Forest, w io.Writer, format Format) error {
	return encode(Document{Packages: f}, w, format)
}

func encode(v any, w io.Writer, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	default:
		return errors.New(errors.ErrCodeUnsupported, "unsupported output format %q", format)
	}
}

// ExportOrder writes the order document of res to a file at path, choosing
// the format with [FormatFromPath].
func ExportOrder(res *pipeline.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteOrder(res, f, FormatFromPath(path))
}

// ExportModel writes f as a model document to a file at path.
func ExportModel(f model.Forest, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()
	return WriteModel(f, out, FormatFromPath(path))
}
