package io

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	lgerrors "github.com/matzehuels/labelgraph/pkg/errors"
	"github.com/matzehuels/labelgraph/pkg/graph"
)

// sampleGraph builds a small labelled graph with one merged node.
func sampleGraph() *graph.Graph {
	g := graph.New("sample")
	g.Newick = "((A,B),C);"
	g.NodesLabelled = true
	g.EdgesLabelled = true
	g.Directed = true
	a := g.AddNode([]string{"1", "7"}, "6", "6", "8")
	b := g.AddNode([]string{"2"}, "6")
	c := g.AddNode([]string{"3"})
	g.AddEdge(a, b, "1")
	g.AddEdge(b, c, "2")
	return g
}

func TestRenderFull(t *testing.T) {
	doc, err := RenderFull(sampleGraph(), Options{Author: "jdoe"})
	if err != nil {
		t.Fatalf("RenderFull: %v", err)
	}

	want := strings.Join([]string{
		"// ((A,B),C);",
		"AUTHOR: jdoe",
		"#nodes;3",
		"#edges;2",
		"Nodes labelled;True",
		"Edges labelled;True",
		"Directed graph;True",
		"",
		"1°7;6,6,8",
		"2;6",
		"3",
		"",
		"1°7;2;1",
		"2;3;2",
		"",
	}, "\n")
	if got := doc.String(); got != want {
		t.Errorf("RenderFull output mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderShorter(t *testing.T) {
	g := sampleGraph()
	g.EdgesLabelled = false

	doc, ids, err := RenderShorter(g, Options{Author: "jdoe", LabelSep: "_"})
	if err != nil {
		t.Fatalf("RenderShorter: %v", err)
	}

	wantNodes := []string{"1;6_6_8", "2;6", "3"}
	wantEdges := []string{"1;2", "2;3"}
	if strings.Join(doc.Nodes, "\n") != strings.Join(wantNodes, "\n") {
		t.Errorf("nodes = %q, want %q", doc.Nodes, wantNodes)
	}
	if strings.Join(doc.Edges, "\n") != strings.Join(wantEdges, "\n") {
		t.Errorf("edges = %q, want %q", doc.Edges, wantEdges)
	}
	if doc.Header[5] != "Edges labelled;False" {
		t.Errorf("header[5] = %q", doc.Header[5])
	}

	for i, n := range g.Nodes {
		if ids[n] != i+1 {
			t.Errorf("ids[node %d] = %d, want %d", i, ids[n], i+1)
		}
		if n.ID != 0 {
			t.Errorf("node %d ID mutated to %d", i, n.ID)
		}
	}
}

func TestShorterIDsDense(t *testing.T) {
	for _, size := range []int{0, 1, 5, 40} {
		g := graph.New("dense")
		for i := 0; i < size; i++ {
			g.AddNode([]string{"n" + strings.Repeat("x", i)})
		}

		_, ids, err := RenderShorter(g, Options{})
		if err != nil {
			t.Fatalf("RenderShorter(%d): %v", size, err)
		}
		ids.Apply()

		seen := make(map[int]bool)
		for i, n := range g.Nodes {
			if n.ID != i+1 {
				t.Errorf("size %d: node %d ID = %d, want %d", size, i, n.ID, i+1)
			}
			if seen[n.ID] {
				t.Errorf("size %d: duplicate id %d", size, n.ID)
			}
			seen[n.ID] = true
		}
	}
}

func TestRenderShorterForeignNode(t *testing.T) {
	g := graph.New("broken")
	a := g.AddNode([]string{"a"})
	g.AddEdge(a, &graph.Node{MultID: []string{"ghost"}}, "")

	_, _, err := RenderShorter(g, Options{})
	if !lgerrors.Is(err, lgerrors.ErrCodeInvalidInput) {
		t.Fatalf("err = %v, want INVALID_INPUT", err)
	}
}

func TestRenderDoesNotMutate(t *testing.T) {
	g := sampleGraph()
	if _, err := RenderFull(g, Options{}); err != nil {
		t.Fatal(err)
	}
	if got := g.Nodes[0].MultID; len(got) != 2 {
		t.Errorf("MultID mutated: %v", got)
	}

	ApplyKeys(g)
	if got := g.Nodes[0].MultID; len(got) != 1 || got[0] != "1°7" {
		t.Errorf("ApplyKeys: MultID = %v, want [1°7]", got)
	}
}

func TestSectionLineCounts(t *testing.T) {
	tests := []struct {
		name  string
		nodes int
		edges int
	}{
		{"Empty", 0, 0},
		{"NodesOnly", 4, 0},
		{"Chain", 6, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graph.New(tt.name)
			var prev *graph.Node
			for i := 0; i < tt.nodes; i++ {
				n := g.AddNode([]string{string(rune('a' + i))})
				if prev != nil && len(g.Edges) < tt.edges {
					g.AddEdge(prev, n, "")
				}
				prev = n
			}

			var buf bytes.Buffer
			if err := WriteFull(g, &buf, Options{}); err != nil {
				t.Fatalf("WriteFull: %v", err)
			}

			lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
			wantLines := headerLines + 1 + tt.nodes + 1 + tt.edges
			if len(lines) != wantLines {
				t.Fatalf("lines = %d, want %d", len(lines), wantLines)
			}
			if lines[headerLines] != "" {
				t.Errorf("line %d = %q, want blank", headerLines, lines[headerLines])
			}
			if gap := headerLines + 1 + tt.nodes; lines[gap] != "" {
				t.Errorf("line %d = %q, want blank", gap, lines[gap])
			}
		})
	}
}

func TestLabelFieldMatchesFlag(t *testing.T) {
	for _, labelled := range []bool{false, true} {
		g := graph.New("flags")
		g.NodesLabelled = labelled
		g.EdgesLabelled = labelled
		var labels []string
		if labelled {
			labels = []string{"x"}
		}
		a := g.AddNode([]string{"a"}, labels...)
		b := g.AddNode([]string{"b"}, labels...)
		g.AddEdge(a, b, "e")

		doc, err := RenderFull(g, Options{})
		if err != nil {
			t.Fatal(err)
		}
		wantNodeFields, wantEdgeFields := 1, 2
		if labelled {
			wantNodeFields, wantEdgeFields = 2, 3
		}
		for _, l := range doc.Nodes {
			if got := len(strings.Split(l, FieldSep)); got != wantNodeFields {
				t.Errorf("labelled=%v: node line %q has %d fields, want %d", labelled, l, got, wantNodeFields)
			}
		}
		for _, l := range doc.Edges {
			if got := len(strings.Split(l, FieldSep)); got != wantEdgeFields {
				t.Errorf("labelled=%v: edge line %q has %d fields, want %d", labelled, l, got, wantEdgeFields)
			}
		}
	}
}

func TestInvalidSeparator(t *testing.T) {
	for _, sep := range []string{";", graph.MultIDSep, "\n"} {
		if _, err := RenderFull(sampleGraph(), Options{LabelSep: sep}); err == nil {
			t.Errorf("RenderFull with separator %q: expected error", sep)
		}
	}
}

func TestExportFull(t *testing.T) {
	dir := t.TempDir()
	g := sampleGraph()

	tests := []struct {
		name     string
		override string
		wantFile string
	}{
		{"DefaultName", "", "sample.graph"},
		{"Override", "renamed", "renamed.graph"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := ExportFull(g, dir, tt.override, Options{Author: "a"})
			if err != nil {
				t.Fatalf("ExportFull: %v", err)
			}
			if want := filepath.Join(dir, tt.wantFile); path != want {
				t.Errorf("path = %s, want %s", path, want)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.HasPrefix(string(data), "// ((A,B),C);\nAUTHOR: a\n") {
				t.Errorf("unexpected file start: %q", string(data[:20]))
			}
		})
	}
}

func TestExportShorter(t *testing.T) {
	dir := t.TempDir()
	path, ids, err := ExportShorter(sampleGraph(), dir, Options{})
	if err != nil {
		t.Fatalf("ExportShorter: %v", err)
	}
	if want := filepath.Join(dir, "sample.shorter.graph"); path != want {
		t.Errorf("path = %s, want %s", path, want)
	}
	if len(ids) != 3 {
		t.Errorf("ids = %d, want 3", len(ids))
	}
}

func TestExportErrors(t *testing.T) {
	g := sampleGraph()

	_, err := ExportFull(g, filepath.Join(t.TempDir(), "missing", "dir"), "", Options{})
	if !lgerrors.Is(err, lgerrors.ErrCodeIO) {
		t.Errorf("missing dir: err = %v, want IO_ERROR", err)
	}
	var pathErr *os.PathError
	if !errors.As(err, &pathErr) {
		t.Errorf("missing dir: cause should be *os.PathError, got %T", errors.Unwrap(err))
	}

	if _, err := ExportFull(g, t.TempDir(), "../escape", Options{}); !lgerrors.Is(err, lgerrors.ErrCodeInvalidPath) {
		t.Errorf("traversal: err = %v, want INVALID_PATH", err)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteFullPropagatesWriteError(t *testing.T) {
	err := WriteFull(sampleGraph(), failingWriter{}, Options{})
	if !lgerrors.Is(err, lgerrors.ErrCodeIO) {
		t.Fatalf("err = %v, want IO_ERROR", err)
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("err = %v, should mention cause", err)
	}
}
