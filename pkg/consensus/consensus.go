package consensus

import (
	"fmt"
	"strings"

	"github.com/matzehuels/labelgraph/pkg/graph"
)

const (
	// Sentinel is the consensus of a node without labels.
	Sentinel = "-"

	// TieSep joins labels that share the maximum count.
	TieSep = "|"
)

// ElementTable translates labels (atomic numbers) into element symbols.
type ElementTable interface {
	// Lookup returns the symbol for label and whether label is a known key.
	Lookup(label string) (string, bool)
}

// CountMode selects how occurrences are counted once labels are translated.
type CountMode int

const (
	// CountSource counts translated symbols within the untranslated labels.
	CountSource CountMode = iota
	// CountTranslated counts occurrences after translation.
	CountTranslated
)

// String returns the mode name used in flags, config and cache keys.
func (m CountMode) String() string {
	switch m {
	case CountSource:
		return "source"
	case CountTranslated:
		return "translated"
	default:
		return fmt.Sprintf("CountMode(%d)", int(m))
	}
}

// ParseCountMode parses a mode name as returned by [CountMode.String].
func ParseCountMode(s string) (CountMode, error) {
	switch s {
	case "", "source":
		return CountSource, nil
	case "translated":
		return CountTranslated, nil
	default:
		return 0, fmt.Errorf("unknown count mode %q (want source or translated)", s)
	}
}

// Options configures [Compute].
type Options struct {
	// Elements enables translation when every label in the graph is one of
	// its keys. Nil disables translation.
	Elements ElementTable

	// Counting selects how translated labels are counted.
	Counting CountMode
}

// Result maps every node to its consensus label.
type Result map[*graph.Node]string

// Labels returns the consensus labels in the node order of g.
func (r Result) Labels(g *graph.Graph) []string {
	out := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		out[i] = r[n]
	}
	return out
}

// Summary describes a consensus run.
type Summary struct {
	Result     Result
	Translated bool // Whether element translation was applied
}

// Compute returns the consensus label of every node in g.
func Compute(g *graph.Graph, opts Options) Result {
	return Run(g, opts).Result
}

// Run computes the consensus labelling and reports whether translation was
// applied.
func Run(g *graph.Graph, opts Options) Summary {
	translate := Translatable(g, opts.Elements)

	res := make(Result, len(g.Nodes))
	for _, n := range g.Nodes {
		var h histogram
		if translate {
			h = translatedHistogram(n.Label, opts.Elements, opts.Counting)
		} else {
			h = plainHistogram(n.Label)
		}
		res[n] = h.consensus()
	}
	return Summary{Result: res, Translated: translate}
}

// Translatable reports whether every label of every node in g is a key of
// table. It is false for a nil table and true for a graph without labels.
func Translatable(g *graph.Graph, table ElementTable) bool {
	if table == nil {
		return false
	}
	for _, n := range g.Nodes {
		for _, l := range n.Label {
			if _, ok := table.Lookup(l); !ok {
				return false
			}
		}
	}
	return true
}

// Label returns the consensus of a single label sequence without
// translation.
func Label(labels []string) string {
	return plainHistogram(labels).consensus()
}

type bucket struct {
	label string
	count int
}

// histogram is ordered by first occurrence.
type histogram []bucket

// withSentinel sets the sentinel's count to zero, appending it when no label
// already uses the sentinel string.
func (h histogram) withSentinel() histogram {
	for i := range h {
		if h[i].label == Sentinel {
			h[i].count = 0
			return h
		}
	}
	return append(h, bucket{label: Sentinel})
}

func (h histogram) consensus() string {
	top := 0
	for _, b := range h {
		if b.count > top {
			top = b.count
		}
	}
	var winners []string
	for _, b := range h {
		if b.count == top {
			winners = append(winners, b.label)
		}
	}
	return strings.Join(winners, TieSep)
}

func plainHistogram(labels []string) histogram {
	var h histogram
	for _, l := range unique(labels) {
		h = append(h, bucket{label: l, count: count(labels, l)})
	}
	return h.withSentinel()
}

func translatedHistogram(labels []string, table ElementTable, mode CountMode) histogram {
	var translated []string
	if mode == CountTranslated {
		translated = make([]string, len(labels))
		for i, l := range labels {
			translated[i] = mustLookup(table, l)
		}
	}

	var h histogram
	seen := make(map[string]bool)
	for _, l := range unique(labels) {
		sym := mustLookup(table, l)
		if seen[sym] {
			continue
		}
		seen[sym] = true
		var c int
		if mode == CountTranslated {
			c = count(translated, sym)
		} else {
			c = count(labels, sym)
		}
		h = append(h, bucket{label: sym, count: c})
	}
	return h.withSentinel()
}

// mustLookup panics on a label that passed the eligibility check but is not
// in the table, which means the table is inconsistent.
func mustLookup(table ElementTable, label string) string {
	sym, ok := table.Lookup(label)
	if !ok {
		panic(fmt.Sprintf("consensus: label %q vanished from element table", label))
	}
	return sym
}

func unique(labels []string) []string {
	seen := make(map[string]bool, len(labels))
	var out []string
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}

func count(labels []string, l string) int {
	c := 0
	for _, x := range labels {
		if x == l {
			c++
		}
	}
	return c
}
