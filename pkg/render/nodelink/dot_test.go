package nodelink

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/labelgraph/pkg/graph"
)

func methanol() *graph.Graph {
	g := graph.New("methanol")
	c := g.AddNode([]string{"1", "5"}, "6")
	o := g.AddNode([]string{"2"}, "8")
	h := g.AddNode([]string{"3"}, "1")
	g.AddEdge(c, o, "1")
	g.AddEdge(o, h, "1")
	return g
}

func TestToDOTUndirected(t *testing.T) {
	got := ToDOT(methanol(), nil, Options{})
	want := `graph G {
  rankdir=TB;
  bgcolor="transparent";
  node [shape=circle, style=filled, fillcolor=white, fontsize=18];
  nodesep=0.3;

  n1 [label="1°5"];
  n2 [label="2"];
  n3 [label="3"];

  n1 -- n2;
  n2 -- n3;
}
`
	if got != want {
		t.Errorf("ToDOT() =\n%s\nwant\n%s", got, want)
	}
}

func TestToDOTDirectedLabelled(t *testing.T) {
	g := methanol()
	g.Directed = true
	g.EdgesLabelled = true

	got := ToDOT(g, []string{"C", "O", "H"}, Options{})
	for _, want := range []string{
		"digraph G {",
		`n1 [label="C"];`,
		`n1 -> n2 [label="1"];`,
		`n2 -> n3 [label="1"];`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("ToDOT() missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, " -- ") {
		t.Error("digraph should not contain undirected edges")
	}
}

func TestToDOTLabelFallback(t *testing.T) {
	got := ToDOT(methanol(), []string{"C", ""}, Options{})
	for _, want := range []string{`n1 [label="C"]`, `n2 [label="2"]`, `n3 [label="3"]`} {
		if !strings.Contains(got, want) {
			t.Errorf("ToDOT() missing %q:\n%s", want, got)
		}
	}
}

func TestToDOTDetailed(t *testing.T) {
	got := ToDOT(methanol(), []string{"C", "O", "H"}, Options{Detailed: true})
	if want := `n1 [label="C\n1°5\n6"];`; !strings.Contains(got, want) {
		t.Errorf("ToDOT() missing %q:\n%s", want, got)
	}
}

func TestToDOTTranslatedWidths(t *testing.T) {
	got := ToDOT(methanol(), []string{"C", "O", "H"}, Options{Translated: true})
	for _, want := range []string{
		`n1 [label="C", width=0.75];`,
		`n2 [label="O", width=0.65];`,
		`n3 [label="H", width=0.40];`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("ToDOT() missing %q:\n%s", want, got)
		}
	}

	// Ties and sentinels have no radius and keep the default size.
	got = ToDOT(methanol(), []string{"C|O", "-", "H"}, Options{Translated: true})
	if !strings.Contains(got, `n1 [label="C|O"];`) {
		t.Errorf("tie label should not be sized:\n%s", got)
	}
}

func TestToDOTDuplicateKeys(t *testing.T) {
	g := graph.New("dup")
	a := g.AddNode([]string{"1"}, "6")
	b := g.AddNode([]string{"1"}, "8")
	g.AddEdge(a, b, "")

	got := ToDOT(g, []string{"C", "O"}, Options{})
	for _, want := range []string{`n1 [label="C"];`, `n2 [label="O"];`, "n1 -- n2;"} {
		if !strings.Contains(got, want) {
			t.Errorf("ToDOT() missing %q:\n%s", want, got)
		}
	}
}

func TestToDOTForeignEndpoint(t *testing.T) {
	g := graph.New("g")
	a := g.AddNode([]string{"1"})
	other := graph.New("other").AddNode([]string{"9"})
	g.AddEdge(a, other, "")
	g.AddEdge(other, a, "")

	got := ToDOT(g, nil, Options{})
	for _, want := range []string{`x1 [label="9", style=dashed];`, "n1 -- x1;", "x1 -- n1;"} {
		if !strings.Contains(got, want) {
			t.Errorf("ToDOT() missing %q:\n%s", want, got)
		}
	}
	if strings.Count(got, "x1 [") != 1 {
		t.Errorf("foreign node should be declared once:\n%s", got)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 116.00" width="62" height="116"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}

	noBox := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(noBox); string(got) != string(noBox) {
		t.Errorf("svg without viewBox should be unchanged, got %s", got)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(methanol(), []string{"C", "O", "H"}, Options{Translated: true}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !bytes.Contains(svg, []byte(`viewBox="0 0 `)) {
		t.Errorf("RenderSVG() did not normalize the viewBox:\n%s", svg)
	}
	if !bytes.Contains(svg, []byte(">C<")) {
		t.Error("RenderSVG() should contain the consensus label text")
	}
}
