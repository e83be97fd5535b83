package elements

import "testing"

func TestSymbol(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"1", "H", true},
		{"6", "C", true},
		{"8", "O", true},
		{"26", "Fe", true},
		{"118", "Og", true},

		{"0", "", false},
		{"119", "", false},
		{"06", "", false},
		{"+6", "", false},
		{" 6", "", false},
		{"C", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := Symbol(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Symbol(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestTableLookup(t *testing.T) {
	var tbl Table
	if got, ok := tbl.Lookup("7"); !ok || got != "N" {
		t.Errorf("Lookup(7) = %q, %v; want N, true", got, ok)
	}
}

func TestSize(t *testing.T) {
	if r, ok := Size("C"); !ok || r != 76 {
		t.Errorf("Size(C) = %v, %v; want 76, true", r, ok)
	}
	if _, ok := Size("Og"); ok {
		t.Error("Size(Og) should be unknown")
	}
}

func TestCount(t *testing.T) {
	if Count != 118 {
		t.Errorf("Count = %d, want 118", Count)
	}
}
