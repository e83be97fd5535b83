// Package pkg provides the core libraries for labelgraph.
//
// # Overview
//
// labelgraph serializes labelled graphs into the line-oriented .graph text
// format and collapses each node's labels into one consensus label. The pkg
// directory is organized into these areas:
//
//  1. [graph] - In-memory graph model (nodes with multi-identifiers and
//     labels, edges with optional labels)
//  2. [io] - The .graph text format in its full and shorter forms
//  3. [consensus] - Majority labelling with optional element translation
//  4. [pipeline] - Orchestration (read → label/render → write) with caching
//  5. [server] and [client] - HTTP API over the pipeline
//
// # Architecture
//
// The typical data flow through labelgraph:
//
//	.graph file or in-memory graph
//	         ↓
//	    [io] package (ReadGraph / ImportGraph)
//	         ↓
//	    [consensus] package (one label per node)
//	         ↓
//	    [io] writers or [render/nodelink] (DOT / SVG)
//
// # Quick Start
//
// Build a graph, write both forms and print consensus labels:
//
//	import (
//	    "github.com/matzehuels/labelgraph/pkg/consensus"
//	    "github.com/matzehuels/labelgraph/pkg/elements"
//	    "github.com/matzehuels/labelgraph/pkg/graph"
//	    lgio "github.com/matzehuels/labelgraph/pkg/io"
//	)
//
//	g := graph.New("water")
//	o := g.AddNode([]string{"1"}, "8", "8", "6")
//	h1 := g.AddNode([]string{"2"}, "1")
//	h2 := g.AddNode([]string{"3"}, "1")
//	g.AddEdge(o, h1, "")
//	g.AddEdge(o, h2, "")
//	g.NodesLabelled = true
//
//	opts := lgio.Options{Author: "me"}
//	lgio.ExportFull(g, ".", "", opts)
//	lgio.ExportShorter(g, ".", opts)
//
//	labels := consensus.Compute(g, consensus.Options{
//	    Elements: elements.Table{},
//	    Counting: consensus.CountTranslated,
//	})
//
// # Main Packages
//
// [graph] - Graph, Node and Edge. Node and edge order is significant and is
// preserved by every writer.
//
// [io] - Renders and parses the .graph format. Rendering is pure; the shorter
// form returns its 1..N id assignment instead of storing it on the nodes.
//
// [consensus] - Per-node histograms over labels in first-occurrence order,
// ties joined with "|" and "-" for unlabelled nodes. Translation through an
// [consensus.ElementTable] applies to the whole graph or not at all.
//
// [elements] - Periodic table lookup by atomic number and covalent radii.
//
// [render/nodelink] - Graphviz DOT and SVG diagrams labelled with consensus
// labels.
//
// ## Infrastructure
//
// [pipeline] - The runner used by CLI and server. Ensures consistent caching,
// hooks and logging across entry points.
//
// [cache] - File, SQLite, Redis and no-op caches with content-addressed keys.
//
// [httputil] - Retry with exponential backoff for the client and Redis cache.
//
// [config] - TOML configuration file.
//
// [observability] - Hooks for pipeline, cache and HTTP metrics.
//
// [errors] - Coded errors shared by every package.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/io/...           # Specific package
//	go test -run Example ./pkg/... # Examples only
package pkg
