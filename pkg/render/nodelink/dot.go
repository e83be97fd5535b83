package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/labelgraph/pkg/elements"
	"github.com/matzehuels/labelgraph/pkg/graph"
)

// Node widths in inches. A translated node is scaled by its covalent radius
// relative to carbon.
const (
	baseWidth     = 0.75
	carbonRadius  = 76.0
	minWidth      = 0.4
	labelFontSize = 18
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes the node key and raw labels under the consensus label.
	Detailed bool

	// Translated marks consensus labels as element symbols; nodes are then
	// sized by covalent radius.
	Translated bool
}

// ToDOT converts a graph to Graphviz DOT format. labels holds one display
// label per node in node order, typically consensus labels; a nil slice or a
// missing entry falls back to the node key.
//
// Nodes are identified by position (n1..nN), so nodes sharing a key are
// still drawn separately. An edge endpoint outside g.Nodes is drawn once as
// an extra node labelled with its key. Directed graphs become a digraph,
// others an undirected graph. Edge labels are drawn only when the graph's
// edges are labelled.
func ToDOT(g *graph.Graph, labels []string, opts Options) string {
	kind, op := "graph", "--"
	if g.Directed {
		kind, op = "digraph", "->"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s G {\n", kind)
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  node [shape=circle, style=filled, fillcolor=white, fontsize=%d];\n", labelFontSize)
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	ids := make(map[*graph.Node]string, len(g.Nodes))
	for i, n := range g.Nodes {
		id := "n" + strconv.Itoa(i+1)
		if _, dup := ids[n]; !dup {
			ids[n] = id
		}
		label := n.Key()
		if i < len(labels) && labels[i] != "" {
			label = labels[i]
		}
		attrs := fmtAttrs(n, label, opts)
		fmt.Fprintf(&buf, "  %s [%s];\n", id, strings.Join(attrs, ", "))
	}

	var foreign []*graph.Node
	for _, e := range g.Edges {
		for _, n := range []*graph.Node{e.Node1, e.Node2} {
			if _, ok := ids[n]; !ok {
				ids[n] = "x" + strconv.Itoa(len(foreign)+1)
				foreign = append(foreign, n)
			}
		}
	}
	for _, n := range foreign {
		fmt.Fprintf(&buf, "  %s [label=%q, style=dashed];\n", ids[n], n.Key())
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		from, to := ids[e.Node1], ids[e.Node2]
		if g.EdgesLabelled && e.Label != "" {
			fmt.Fprintf(&buf, "  %s %s %s [label=%q];\n", from, op, to, e.Label)
			continue
		}
		fmt.Fprintf(&buf, "  %s %s %s;\n", from, op, to)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *graph.Node, label string, detailed bool) string {
	if !detailed {
		return label
	}
	parts := []string{label, n.Key()}
	if n.HasLabel() {
		parts = append(parts, strings.Join(n.Label, ","))
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n *graph.Node, label string, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, label, opts.Detailed))}
	if opts.Translated {
		if r, ok := elements.Size(label); ok {
			w := max(baseWidth*r/carbonRadius, minWidth)
			attrs = append(attrs, "width="+strconv.FormatFloat(w, 'f', 2, 64))
		}
	}
	return attrs
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

// normalizeViewBox replaces the Graphviz <svg> tag with one whose viewBox
// starts at the origin and whose size matches it.
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

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
