// Package graph defines the labelled graph model shared by the writers, the
// reader and the consensus labeller.
//
// # Overview
//
// A [Graph] is an ordered list of [Node] values and an ordered list of [Edge]
// values plus a small header (identifier, Newick annotation and the three
// boolean flags written to every .graph file). Order is significant: it fixes
// the line order of the serialized sections and the dense ids handed out by
// the shorter writer.
//
// # Multi-identifiers
//
// A node may stand for several original identifiers that were merged into
// one vertex. They are kept in [Node.MultID] and joined with [MultIDSep]
// (a non-ASCII degree sign) wherever the node needs a single textual key:
//
//	n := &graph.Node{MultID: []string{"12", "47"}}
//	n.Key() // "12°47"
//
// The separator must not occur inside any component, otherwise the joined key
// cannot be split back into the original identifiers.
//
// # Labels
//
// [Node.Label] is an ordered multiset; an empty slice means "no label". Edge
// labels are a single string that is only meaningful when
// [Graph.EdgesLabelled] is set.
//
// # Concurrency
//
// Graph values are plain data. Nothing in this module mutates a graph it is
// handed unless a caller opts in explicitly (see io.IDMap.Apply), so
// concurrent readers are safe as long as nobody writes.
package graph
