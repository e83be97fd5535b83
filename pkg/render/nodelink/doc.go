// Package nodelink draws labelled graphs as node-link diagrams.
//
// [ToDOT] turns a graph and its display labels into Graphviz DOT source and
// [RenderSVG] lays it out in-process:
//
//	labels := consensus.Compute(g, opts).Labels(g)
//	dot := nodelink.ToDOT(g, labels, nodelink.Options{Translated: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Directed graphs become digraphs with arrows; undirected graphs use plain
// edges. When the labels are element symbols, nodes are sized by covalent
// radius so hydrogens stay small next to heavier atoms.
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package nodelink
