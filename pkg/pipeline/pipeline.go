// Package pipeline runs the labelgraph stages (render, write, consensus)
// with caching and observability hooks.
//
// The CLI and the HTTP server both go through a [Runner], so a graph
// rendered or labelled by one entry point is cached for the other and both
// report the same hook events.
//
// # Stages
//
//  1. Render: serialize a graph in the full or shorter form
//  2. Write: render and store the requested forms in a directory
//  3. Consensus: collapse every node's labels to one representative string
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Author:    "jdoe",
//	    Translate: true,
//	    Forms:     []string{pipeline.FormFull, pipeline.FormShorter},
//	    OutputDir: "graphs",
//	}
//	summary, _, err := runner.Consensus(ctx, g, opts)
//	written, err := runner.Write(ctx, g, opts)
package pipeline

import (
	"fmt"
	"time"

	"github.com/matzehuels/labelgraph/pkg/cache"
	"github.com/matzehuels/labelgraph/pkg/consensus"
	"github.com/matzehuels/labelgraph/pkg/elements"
	"github.com/matzehuels/labelgraph/pkg/errors"
	lgio "github.com/matzehuels/labelgraph/pkg/io"
)

// Serialized forms.
const (
	FormFull    = "full"
	FormShorter = "shorter"
)

// ValidForms is the set of supported forms.
var ValidForms = map[string]bool{
	FormFull:    true,
	FormShorter: true,
}

// DefaultTTL is how long cached results live when Options.TTL is zero.
const DefaultTTL = 24 * time.Hour

// Options configures a pipeline run.
type Options struct {
	// Writer options
	Author    string
	LabelSep  string
	Forms     []string
	OutputDir string
	Name      string // Full-form file stem; defaults to the graph ID

	// Consensus options
	Translate bool
	Counting  consensus.CountMode

	// Cache options
	Refresh bool          // Recompute and overwrite cached results
	TTL     time.Duration // Entry lifetime; zero means DefaultTTL
}

// ValidateForm checks that a form name is valid.
func ValidateForm(form string) error {
	if !ValidForms[form] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid form: %q (must be one of: full, shorter)", form)
	}
	return nil
}

// ValidateForms checks that all forms are valid.
func ValidateForms(forms []string) error {
	for _, f := range forms {
		if err := ValidateForm(f); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the writer options and applies defaults.
func (o *Options) Validate() error {
	if len(o.Forms) == 0 {
		o.Forms = []string{FormFull}
	}
	if o.OutputDir == "" {
		o.OutputDir = "."
	}
	if err := ValidateForms(o.Forms); err != nil {
		return err
	}
	return o.IOOptions().Validate()
}

// IOOptions returns the writer options.
func (o Options) IOOptions() lgio.Options {
	return lgio.Options{Author: o.Author, LabelSep: o.LabelSep}
}

// ConsensusOptions returns the consensus options.
func (o Options) ConsensusOptions() consensus.Options {
	opts := consensus.Options{Counting: o.Counting}
	if o.Translate {
		opts.Elements = elements.Table{}
	}
	return opts
}

// ConsensusKeyOpts returns cache key options for a consensus result.
func (o Options) ConsensusKeyOpts() cache.ConsensusKeyOpts {
	return cache.ConsensusKeyOpts{
		Translate: o.Translate,
		Counting:  o.Counting.String(),
	}
}

// DocumentKeyOpts returns cache key options for a rendered document.
func (o Options) DocumentKeyOpts(form string) cache.DocumentKeyOpts {
	return cache.DocumentKeyOpts{
		Form:     form,
		Author:   o.Author,
		LabelSep: o.IOOptions().Sep(),
	}
}

func (o Options) ttl() time.Duration {
	if o.TTL == 0 {
		return DefaultTTL
	}
	return o.TTL
}

// WriteResult reports the files produced by [Runner.Write].
type WriteResult struct {
	// Paths maps each written form to its file path.
	Paths map[string]string

	// IDs is the shorter-form id assignment, nil unless FormShorter was written.
	IDs lgio.IDMap

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains write statistics.
type Stats struct {
	NodeCount int
	EdgeCount int
	Bytes     int
	WriteTime time.Duration
}

func (s Stats) String() string {
	return fmt.Sprintf("%d nodes, %d edges, %d bytes in %s", s.NodeCount, s.EdgeCount, s.Bytes, s.WriteTime)
}
