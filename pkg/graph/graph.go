package graph

import "strings"

// MultIDSep joins the components of a node's multi-identifier into its key.
const MultIDSep = "°"

// Node is a vertex carrying one or more original identifiers and an ordered
// label multiset.
type Node struct {
	MultID []string // Original identifiers merged into this node
	Label  []string // Ordered label multiset (empty = unlabelled)

	// ID is the dense shorter-form id. It is only set when a caller applies
	// an id assignment returned by the shorter writer.
	ID int
}

// Key returns the node's textual key: the multi-identifier components joined
// with [MultIDSep], without a trailing separator.
func (n *Node) Key() string {
	return strings.Join(n.MultID, MultIDSep)
}

// HasLabel reports whether the node carries at least one label.
func (n *Node) HasLabel() bool { return len(n.Label) > 0 }

// Edge connects two nodes of the same graph. The nodes are referenced, not
// owned.
type Edge struct {
	Node1 *Node
	Node2 *Node
	Label string // Only meaningful when the graph's edges are labelled
}

// Graph is a labelled, optionally directed graph with ordered node and edge
// lists.
//
// The zero value is an empty, unlabelled, undirected graph without an ID.
type Graph struct {
	ID     string // Default output filename stem
	Newick string // Free-form annotation written as the leading comment line

	Nodes []*Node
	Edges []*Edge

	NodesLabelled bool
	EdgesLabelled bool
	Directed      bool
}

// New creates an empty graph with the given identifier.
func New(id string) *Graph {
	return &Graph{ID: id}
}

// AddNode appends a node built from the given multi-identifier and labels and
// returns it. Nothing is validated; duplicate keys are allowed.
func (g *Graph) AddNode(multID []string, labels ...string) *Node {
	n := &Node{MultID: multID, Label: labels}
	g.Nodes = append(g.Nodes, n)
	return n
}

// AddEdge appends an edge between n1 and n2 and returns it.
func (g *Graph) AddEdge(n1, n2 *Node, label string) *Edge {
	e := &Edge{Node1: n1, Node2: n2, Label: label}
	g.Edges = append(g.Edges, e)
	return e
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.Edges) }

// NodeByKey returns the first node whose [Node.Key] equals key.
func (g *Graph) NodeByKey(key string) (*Node, bool) {
	for _, n := range g.Nodes {
		if n.Key() == key {
			return n, true
		}
	}
	return nil, false
}

// Labels returns every node label in node order, duplicates included.
func (g *Graph) Labels() []string {
	var out []string
	for _, n := range g.Nodes {
		out = append(out, n.Label...)
	}
	return out
}
