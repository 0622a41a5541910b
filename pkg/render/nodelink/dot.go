package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/idlgraph/pkg/depgraph"
	"github.com/matzehuels/idlgraph/pkg/model"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed labels edges with the attribute (or relation) that caused
	// them and nodes with their kind.
	Detailed bool

	// Analysis, when set, highlights forward-declared classes and the edges
	// of illegal cycles.
	Analysis *depgraph.Analysis
}

var kindStyles = map[model.Kind]string{
	model.KindStruct:  `fillcolor=white`,
	model.KindEnum:    `fillcolor="#fff4c2"`,
	model.KindUnion:   `fillcolor="#dbeafe"`,
	model.KindTypedef: `fillcolor="#e5e7eb"`,
	model.KindMap:     `fillcolor="#dcfce7"`,
}

// ToDOT converts a dependency graph to Graphviz DOT format. Classes are
// grouped into one cluster per namespace; soft edges (sequence, map and
// union members) are dashed.
//
// The output is deterministic: clusters are sorted by namespace, nodes and
// edges by object id.
func ToDOT(g *depgraph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	clusters := make(map[string][]int64)
	for _, id := range g.NodeIDs() {
		c, _ := g.Node(id)
		ns := strings.Join(c.Namespace, model.Separator)
		clusters[ns] = append(clusters[ns], id)
	}
	for i, ns := range slices.Sorted(maps.Keys(clusters)) {
		indent := "  "
		if ns != "" {
			fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", i)
			fmt.Fprintf(&buf, "    label=%q;\n", ns)
			buf.WriteString("    style=\"rounded,dashed\";\n")
			indent = "    "
		}
		for _, id := range clusters[ns] {
			c, _ := g.Node(id)
			fmt.Fprintf(&buf, "%s%s [%s];\n", indent, nodeID(id), strings.Join(nodeAttrs(c, opts), ", "))
		}
		if ns != "" {
			buf.WriteString("  }\n")
		}
	}

	buf.WriteString("\n")
	illegal := illegalMembers(opts.Analysis)
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %s -> %s", nodeID(e.From), nodeID(e.To))
		if attrs := edgeAttrs(e, opts, illegal); len(attrs) > 0 {
			fmt.Fprintf(&buf, " [%s]", strings.Join(attrs, ", "))
		}
		buf.WriteString(";\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(id int64) string { return "c" + strconv.FormatInt(id, 10) }

func nodeAttrs(c *model.Class, opts Options) []string {
	label := c.Name
	if opts.Detailed && c.Kind != model.KindStruct {
		label = c.Name + "\n«" + c.Kind.String() + "»"
	}
	attrs := []string{fmt.Sprintf("label=%q", label), kindStyles[c.Kind]}
	if c.IsAbstract {
		attrs = append(attrs, `fontname="Helvetica-Oblique"`)
	}
	if opts.Analysis != nil && opts.Analysis.NeedsForwardDeclaration[c.ObjectID] {
		attrs = append(attrs, "penwidth=2.5")
	}
	return attrs
}

func edgeAttrs(e depgraph.Edge, opts Options, illegal map[int64]int) []string {
	var attrs []string
	if opts.Detailed {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Member), "fontsize=10")
	}
	if e.Soft {
		attrs = append(attrs, "style=dashed")
	}
	from, inFrom := illegal[e.From]
	to, inTo := illegal[e.To]
	if inFrom && inTo && from == to && !e.Soft {
		attrs = append(attrs, "color=red", "penwidth=2")
	}
	return attrs
}

// illegalMembers maps every member of an illegal cycle to its cycle index.
func illegalMembers(a *depgraph.Analysis) map[int64]int {
	out := make(map[int64]int)
	if a == nil {
		return out
	}
	for i, scc := range a.Illegal {
		for _, id := range scc {
			out[id] = i
		}
	}
	return out
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the drawing scales from the
// origin with its natural size.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
