package io

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/labelgraph/pkg/errors"
	"github.com/matzehuels/labelgraph/pkg/graph"
)

// maxLineSize bounds a single line of a graph file.
const maxLineSize = 4 << 20

// ReadGraph parses a graph file in the full or the shorter form from r.
// The result is assigned the given id; the Newick annotation comes from the
// comment line.
//
// Node keys are split on [graph.MultIDSep] into multi-identifiers and label
// fields are split on the configured label separator, so a file written by
// [WriteFull] from separator-free identifiers and labels reads back into an
// equal graph.
//
// ReadGraph returns an INVALID_FORMAT error if:
//   - A header line is missing, out of order or has a malformed value
//   - The node or edge section does not match the declared count
//   - An edge references a key that no node line declared
//
// ReadGraph does not close r.
func ReadGraph(r io.Reader, id string, opts Options) (*graph.Graph, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	p := &parser{sep: opts.Sep(), g: graph.New(id), keys: make(map[string]*graph.Node)}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		p.lineNo++
		if err := p.line(strings.TrimSuffix(sc.Text(), "\r")); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read graph %s", id)
	}
	if err := p.finish(); err != nil {
		return nil, err
	}
	return p.g, nil
}

// ImportGraph reads a graph file at path. The graph ID is the file name with
// the .graph or .shorter.graph extension removed.
func ImportGraph(path string, opts Options) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()
	return ReadGraph(f, GraphID(path), opts)
}

// GraphID derives a graph ID from a file path by dropping the directory and a
// known graph extension.
func GraphID(path string) string {
	base := filepath.Base(path)
	for _, ext := range []string{ShorterExt, FullExt} {
		if strings.HasSuffix(base, ext) && len(base) > len(ext) {
			return strings.TrimSuffix(base, ext)
		}
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

type section int

const (
	sectionHeader section = iota
	sectionNodeGap
	sectionNodes
	sectionEdgeGap
	sectionEdges
	sectionTrailer
)

// headerLines is the number of lines in the header block.
const headerLines = 7

type parser struct {
	sep    string
	g      *graph.Graph
	keys   map[string]*graph.Node
	lineNo int

	section    section
	headerLine int
	nodeCount  int
	edgeCount  int
}

func (p *parser) line(l string) error {
	switch p.section {
	case sectionHeader:
		if err := p.header(l); err != nil {
			return err
		}
		if p.headerLine++; p.headerLine == headerLines {
			p.section = sectionNodeGap
		}
	case sectionNodeGap:
		if l != "" {
			return p.errorf("expected blank line after header")
		}
		p.section = sectionNodes
		if p.nodeCount == 0 {
			p.section = sectionEdgeGap
		}
	case sectionNodes:
		if err := p.node(l); err != nil {
			return err
		}
		if len(p.g.Nodes) == p.nodeCount {
			p.section = sectionEdgeGap
		}
	case sectionEdgeGap:
		if l != "" {
			return p.errorf("expected blank line after %d nodes", p.nodeCount)
		}
		p.section = sectionEdges
		if p.edgeCount == 0 {
			p.section = sectionTrailer
		}
	case sectionEdges:
		if err := p.edge(l); err != nil {
			return err
		}
		if len(p.g.Edges) == p.edgeCount {
			p.section = sectionTrailer
		}
	case sectionTrailer:
		if strings.TrimSpace(l) != "" {
			return p.errorf("unexpected content after %d edges", p.edgeCount)
		}
	}
	return nil
}

func (p *parser) finish() error {
	switch p.section {
	case sectionTrailer:
		return nil
	case sectionHeader:
		return errors.New(errors.ErrCodeInvalidFormat, "graph %s: incomplete header (%d of %d lines)",
			p.g.ID, p.headerLine, headerLines)
	case sectionNodes:
		return errors.New(errors.ErrCodeInvalidFormat, "graph %s: declared %d nodes, found %d",
			p.g.ID, p.nodeCount, len(p.g.Nodes))
	case sectionEdges:
		return errors.New(errors.ErrCodeInvalidFormat, "graph %s: declared %d edges, found %d",
			p.g.ID, p.edgeCount, len(p.g.Edges))
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "graph %s: missing section separator", p.g.ID)
	}
}

func (p *parser) header(l string) error {
	var err error
	switch p.headerLine {
	case 0:
		rest, ok := strings.CutPrefix(l, prefixComment)
		if !ok {
			return p.errorf("expected comment line starting with %q", prefixComment)
		}
		p.g.Newick = strings.TrimPrefix(rest, " ")
	case 1:
		if !strings.HasPrefix(l, prefixAuthor) {
			return p.errorf("expected %q line", prefixAuthor)
		}
	case 2:
		p.nodeCount, err = p.count(l, prefixNodeCount)
	case 3:
		p.edgeCount, err = p.count(l, prefixEdgeCount)
	case 4:
		p.g.NodesLabelled, err = p.flag(l, prefixNodesLabelled)
	case 5:
		p.g.EdgesLabelled, err = p.flag(l, prefixEdgesLabelled)
	case 6:
		p.g.Directed, err = p.flag(l, prefixDirected)
	}
	return err
}

func (p *parser) count(l, prefix string) (int, error) {
	v, ok := strings.CutPrefix(l, prefix)
	if !ok {
		return 0, p.errorf("expected %q line", prefix)
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0, p.errorf("invalid count %q", v)
	}
	return n, nil
}

func (p *parser) flag(l, prefix string) (bool, error) {
	v, ok := strings.CutPrefix(l, prefix)
	if !ok {
		return false, p.errorf("expected %q line", prefix)
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, p.errorf("invalid boolean %q", v)
	}
	return b, nil
}

func (p *parser) node(l string) error {
	if l == "" {
		return p.errorf("empty node line")
	}
	key, labels, hasLabels := strings.Cut(l, FieldSep)

	n := &graph.Node{MultID: strings.Split(key, graph.MultIDSep)}
	if hasLabels {
		n.Label = strings.Split(labels, p.sep)
	}
	p.g.Nodes = append(p.g.Nodes, n)
	if _, dup := p.keys[key]; !dup {
		p.keys[key] = n
	}
	return nil
}

func (p *parser) edge(l string) error {
	fields := strings.SplitN(l, FieldSep, 3)
	if len(fields) < 2 {
		return p.errorf("expected at least 2 fields in edge line, got %d", len(fields))
	}
	n1, ok := p.keys[fields[0]]
	if !ok {
		return p.errorf("edge references unknown node %q", fields[0])
	}
	n2, ok := p.keys[fields[1]]
	if !ok {
		return p.errorf("edge references unknown node %q", fields[1])
	}

	e := &graph.Edge{Node1: n1, Node2: n2}
	if len(fields) == 3 {
		e.Label = fields[2]
	}
	p.g.Edges = append(p.g.Edges, e)
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidFormat, "graph %s line %d: %s",
		p.g.ID, p.lineNo, fmt.Sprintf(format, args...))
}
