package io

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/labelgraph/pkg/errors"
	"github.com/matzehuels/labelgraph/pkg/graph"
)

// File extensions of the two serialized forms.
const (
	FullExt    = ".graph"
	ShorterExt = ".shorter.graph"
)

// DefaultLabelSep joins multiple node labels inside the label field when
// [Options.LabelSep] is empty.
const DefaultLabelSep = ","

// FieldSep separates the fields of every header, node and edge line.
const FieldSep = ";"

// Header line prefixes, shared by the writer and the reader.
const (
	prefixComment       = "//"
	prefixAuthor        = "AUTHOR:"
	prefixNodeCount     = "#nodes" + FieldSep
	prefixEdgeCount     = "#edges" + FieldSep
	prefixNodesLabelled = "Nodes labelled" + FieldSep
	prefixEdgesLabelled = "Edges labelled" + FieldSep
	prefixDirected      = "Directed graph" + FieldSep
)

// Options configures rendering and parsing.
type Options struct {
	// Author is written to the AUTHOR header line. It is provenance supplied
	// by the caller; the package never looks up the invoking user.
	Author string

	// LabelSep joins node labels within one field. Empty means DefaultLabelSep.
	LabelSep string
}

// Sep returns the effective label separator.
func (o Options) Sep() string {
	if o.LabelSep == "" {
		return DefaultLabelSep
	}
	return o.LabelSep
}

// Validate checks that the label separator cannot collide with the field
// separator or the multi-identifier separator.
func (o Options) Validate() error {
	return errors.ValidateSeparator(o.Sep(), graph.MultIDSep)
}

// Document is a rendered graph file: the header block, one line per node and
// one line per edge, without line terminators.
//
// A Document is written as the header lines, a blank line, the node lines,
// a blank line and the edge lines, each terminated by "\n".
type Document struct {
	Header []string
	Nodes  []string
	Edges  []string
}

// WriteTo writes the document to w. It implements io.WriterTo.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	write := func(lines []string) error {
		for _, l := range lines {
			m, err := bw.WriteString(l + "\n")
			n += int64(m)
			if err != nil {
				return err
			}
		}
		return nil
	}

	sections := [][]string{d.Header, {""}, d.Nodes, {""}, d.Edges}
	for _, s := range sections {
		if err := write(s); err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// Bytes returns the serialized document.
func (d *Document) Bytes() []byte {
	var buf bytes.Buffer
	_, _ = d.WriteTo(&buf)
	return buf.Bytes()
}

// String returns the serialized document.
func (d *Document) String() string {
	return string(d.Bytes())
}

// IDMap is the dense 1-based id assigned to every node by [RenderShorter].
type IDMap map[*graph.Node]int

// Apply writes the assigned ids into [graph.Node.ID]. Rendering never does
// this on its own; callers that want to keep the renumbering opt in here.
func (m IDMap) Apply() {
	for n, id := range m {
		n.ID = id
	}
}

// ApplyKeys replaces every node's multi-identifier with its single joined key,
// the shape the full writer produces on disk. Like [IDMap.Apply] this is an
// explicit opt-in for callers that continue with the collapsed identifiers.
func ApplyKeys(g *graph.Graph) {
	for _, n := range g.Nodes {
		n.MultID = []string{n.Key()}
	}
}

// RenderFull renders g in the full form, keyed by joined multi-identifiers.
// The graph is not modified.
func RenderFull(g *graph.Graph, opts Options) (*Document, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	sep := opts.Sep()

	doc := &Document{
		Header: header(g, opts.Author),
		Nodes:  make([]string, len(g.Nodes)),
		Edges:  make([]string, len(g.Edges)),
	}
	for i, n := range g.Nodes {
		doc.Nodes[i] = nodeLine(n.Key(), n.Label, sep)
	}
	for i, e := range g.Edges {
		doc.Edges[i] = edgeLine(e.Node1.Key(), e.Node2.Key(), e.Label, g.EdgesLabelled)
	}
	return doc, nil
}

// RenderShorter renders g in the shorter form, numbering nodes 1..N in node
// order. The assignment is returned rather than stored on the nodes.
//
// An edge whose endpoint is not one of g.Nodes has no id and yields an
// INVALID_INPUT error.
func RenderShorter(g *graph.Graph, opts Options) (*Document, IDMap, error) {
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}
	sep := opts.Sep()

	ids := make(IDMap, len(g.Nodes))
	doc := &Document{
		Header: header(g, opts.Author),
		Nodes:  make([]string, len(g.Nodes)),
		Edges:  make([]string, len(g.Edges)),
	}
	for i, n := range g.Nodes {
		id := i + 1
		if _, dup := ids[n]; !dup {
			ids[n] = id
		}
		doc.Nodes[i] = nodeLine(strconv.Itoa(id), n.Label, sep)
	}
	for i, e := range g.Edges {
		id1, ok1 := ids[e.Node1]
		id2, ok2 := ids[e.Node2]
		if !ok1 || !ok2 {
			return nil, nil, errors.New(errors.ErrCodeInvalidInput,
				"edge %d references a node outside graph %q", i+1, g.ID)
		}
		doc.Edges[i] = edgeLine(strconv.Itoa(id1), strconv.Itoa(id2), e.Label, g.EdgesLabelled)
	}
	return doc, ids, nil
}

// WriteFull renders g in the full form and writes it to w.
func WriteFull(g *graph.Graph, w io.Writer, opts Options) error {
	doc, err := RenderFull(g, opts)
	if err != nil {
		return err
	}
	if _, err := doc.WriteTo(w); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write graph %s", g.ID)
	}
	return nil
}

// WriteShorter renders g in the shorter form and writes it to w.
func WriteShorter(g *graph.Graph, w io.Writer, opts Options) (IDMap, error) {
	doc, ids, err := RenderShorter(g, opts)
	if err != nil {
		return nil, err
	}
	if _, err := doc.WriteTo(w); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "write graph %s", g.ID)
	}
	return ids, nil
}

// ExportFull writes g in the full form to dir/<name>.graph and returns the
// path. An empty name defaults to g.ID. An existing file is overwritten; a
// failed write may leave a partial file behind.
func ExportFull(g *graph.Graph, dir, name string, opts Options) (string, error) {
	if name == "" {
		name = g.ID
	}
	if err := errors.ValidateName(name); err != nil {
		return "", err
	}
	doc, err := RenderFull(g, opts)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name+FullExt)
	return path, writeFile(path, doc)
}

// ExportShorter writes g in the shorter form to dir/<g.ID>.shorter.graph and
// returns the path together with the id assignment.
func ExportShorter(g *graph.Graph, dir string, opts Options) (string, IDMap, error) {
	if err := errors.ValidateName(g.ID); err != nil {
		return "", nil, err
	}
	doc, ids, err := RenderShorter(g, opts)
	if err != nil {
		return "", nil, err
	}
	path := filepath.Join(dir, g.ID+ShorterExt)
	if err := writeFile(path, doc); err != nil {
		return "", nil, err
	}
	return path, ids, nil
}

func writeFile(path string, doc *Document) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrap(errors.ErrCodeIO, cerr, "close %s", path)
		}
	}()

	if _, err := doc.WriteTo(f); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}

func header(g *graph.Graph, author string) []string {
	return []string{
		prefixComment + " " + g.Newick,
		prefixAuthor + " " + author,
		prefixNodeCount + strconv.Itoa(len(g.Nodes)),
		prefixEdgeCount + strconv.Itoa(len(g.Edges)),
		prefixNodesLabelled + formatBool(g.NodesLabelled),
		prefixEdgesLabelled + formatBool(g.EdgesLabelled),
		prefixDirected + formatBool(g.Directed),
	}
}

func nodeLine(key string, labels []string, sep string) string {
	if len(labels) == 0 {
		return key
	}
	return key + FieldSep + strings.Join(labels, sep)
}

func edgeLine(key1, key2, label string, labelled bool) string {
	if !labelled {
		return key1 + FieldSep + key2
	}
	return key1 + FieldSep + key2 + FieldSep + label
}

// formatBool spells booleans the way existing .graph files do.
func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
