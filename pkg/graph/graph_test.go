package graph

import (
	"slices"
	"testing"
)

func TestNodeKey(t *testing.T) {
	tests := []struct {
		name   string
		multID []string
		want   string
	}{
		{"Empty", nil, ""},
		{"Single", []string{"7"}, "7"},
		{"Merged", []string{"12", "47"}, "12°47"},
		{"Three", []string{"a", "b", "c"}, "a°b°c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &Node{MultID: tt.multID}
			if got := n.Key(); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAddNodeAndEdge(t *testing.T) {
	g := New("g1")
	a := g.AddNode([]string{"a"}, "6", "6")
	b := g.AddNode([]string{"b"})
	e := g.AddEdge(a, b, "1")

	if g.NodeCount() != 2 {
		t.Errorf("nodes = %d, want 2", g.NodeCount())
	}
	if g.EdgeCount() != 1 {
		t.Errorf("edges = %d, want 1", g.EdgeCount())
	}
	if e.Node1 != a || e.Node2 != b {
		t.Error("edge endpoints not preserved")
	}
	if !a.HasLabel() || b.HasLabel() {
		t.Errorf("HasLabel: a=%v b=%v, want true false", a.HasLabel(), b.HasLabel())
	}
}

func TestNodeByKey(t *testing.T) {
	g := New("g")
	g.AddNode([]string{"x"})
	want := g.AddNode([]string{"y", "z"})

	got, ok := g.NodeByKey("y°z")
	if !ok || got != want {
		t.Fatalf("NodeByKey(y°z) = %v, %v", got, ok)
	}
	if _, ok := g.NodeByKey("missing"); ok {
		t.Error("NodeByKey(missing) should not be found")
	}
}

func TestLabels(t *testing.T) {
	g := New("g")
	g.AddNode([]string{"1"}, "a", "b")
	g.AddNode([]string{"2"})
	g.AddNode([]string{"3"}, "a")

	want := []string{"a", "b", "a"}
	if got := g.Labels(); !slices.Equal(got, want) {
		t.Errorf("Labels() = %v, want %v", got, want)
	}
}
