// Package io reads and writes labelled graphs in the line-oriented .graph
// text format.
//
// # Format
//
// Every file starts with a seven line header, followed by a blank line, one
// line per node, another blank line and one line per edge. Fields are
// separated by ";":
//
//	// ((A,B),C);
//	AUTHOR: jdoe
//	#nodes;3
//	#edges;2
//	Nodes labelled;True
//	Edges labelled;False
//	Directed graph;False
//
//	1°7;6,6,8
//	2;6
//	3
//
//	1°7;2
//	2;3
//
// Node lines hold the node key and, when the node has labels, the labels
// joined with the label separator ([DefaultLabelSep] unless configured). Edge
// lines hold the two endpoint keys and, when edges are labelled, the edge
// label as a third field. The labelled flags are written verbatim; keeping
// them consistent with the data is the caller's contract.
//
// # Full and Shorter Forms
//
// The full form ([RenderFull], [WriteFull], [ExportFull]) keys every node by
// its multi-identifier joined with graph.MultIDSep and is written to
// <name>.graph. The shorter form ([RenderShorter], [WriteShorter],
// [ExportShorter]) numbers nodes 1..N in node order and is always written to
// <graph id>.shorter.graph.
//
// # Side Effects
//
// Rendering is pure. The shorter form returns its numbering as an [IDMap];
// callers that want the ids stored on the nodes call [IDMap.Apply]. Likewise
// [ApplyKeys] collapses multi-identifiers into their joined keys on request.
//
// # Provenance
//
// The AUTHOR line comes from [Options.Author]. Resolving a default (for
// example the current account name) is left to the caller.
//
// # Errors
//
// Failures to create, write or close a destination are returned as IO_ERROR
// coded errors from pkg/errors. A failed write may leave a partial file; no
// cleanup is attempted. [ReadGraph] and [ImportGraph] report malformed input
// as INVALID_FORMAT.
//
// # Concurrency
//
// All functions are safe for concurrent use as long as the graph is not
// modified concurrently.
package io
