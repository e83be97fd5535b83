package pipeline

import (
	"testing"

	"github.com/matzehuels/labelgraph/pkg/consensus"
	"github.com/matzehuels/labelgraph/pkg/errors"
)

func TestValidateForm(t *testing.T) {
	tests := []struct {
		form    string
		wantErr bool
	}{
		{"full", false},
		{"shorter", false},
		{"FULL", true}, // case-sensitive
		{"json", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateForm(tt.form)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateForm(%q) error = %v, wantErr %v", tt.form, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("ValidateForm(%q) code = %s, want INVALID_INPUT", tt.form, errors.GetCode(err))
		}
	}
}

func TestValidateForms(t *testing.T) {
	if err := ValidateForms([]string{"full", "shorter"}); err != nil {
		t.Errorf("Valid forms should pass: %v", err)
	}
	if err := ValidateForms([]string{"full", "invalid"}); err == nil {
		t.Error("Invalid form should fail")
	}
	if err := ValidateForms(nil); err != nil {
		t.Errorf("Empty forms should pass: %v", err)
	}
}

func TestOptionsValidateDefaults(t *testing.T) {
	var opts Options
	if err := opts.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(opts.Forms) != 1 || opts.Forms[0] != FormFull {
		t.Errorf("Forms = %v, want [full]", opts.Forms)
	}
	if opts.OutputDir != "." {
		t.Errorf("OutputDir = %q, want .", opts.OutputDir)
	}
	if opts.ttl() != DefaultTTL {
		t.Errorf("ttl = %v, want %v", opts.ttl(), DefaultTTL)
	}
}

func TestOptionsValidateSeparator(t *testing.T) {
	opts := Options{LabelSep: ";"}
	err := opts.Validate()
	if !errors.Is(err, errors.ErrCodeInvalidSeparator) {
		t.Errorf("Validate() = %v, want INVALID_SEPARATOR", err)
	}
}

func TestConsensusOptions(t *testing.T) {
	if got := (Options{}).ConsensusOptions(); got.Elements != nil {
		t.Error("translation should be off by default")
	}
	got := Options{Translate: true, Counting: consensus.CountTranslated}.ConsensusOptions()
	if got.Elements == nil || got.Counting != consensus.CountTranslated {
		t.Errorf("ConsensusOptions() = %+v", got)
	}
}

func TestKeyOptsDependOnOptions(t *testing.T) {
	a := Options{}.DocumentKeyOpts(FormFull)
	b := Options{LabelSep: ","}.DocumentKeyOpts(FormFull)
	if a != b {
		t.Errorf("empty and default separator should share a key: %+v vs %+v", a, b)
	}
	if a == (Options{Author: "x"}).DocumentKeyOpts(FormFull) {
		t.Error("author should change document key opts")
	}
	if (Options{}).ConsensusKeyOpts() == (Options{Translate: true}).ConsensusKeyOpts() {
		t.Error("translate should change consensus key opts")
	}
}
