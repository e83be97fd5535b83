package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/labelgraph/pkg/cache"
	"github.com/matzehuels/labelgraph/pkg/consensus"
	"github.com/matzehuels/labelgraph/pkg/graph"
	lgio "github.com/matzehuels/labelgraph/pkg/io"
	"github.com/matzehuels/labelgraph/pkg/observability"
)

// Runner encapsulates stage execution with caching.
// Both CLI and server use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Render serializes g in the given form, using the cache unless
// opts.Refresh is set. The boolean reports a cache hit.
func (r *Runner) Render(ctx context.Context, g *graph.Graph, form string, opts Options) ([]byte, bool, error) {
	if err := ValidateForm(form); err != nil {
		return nil, false, err
	}
	if err := opts.IOOptions().Validate(); err != nil {
		return nil, false, err
	}
	hash, err := GraphHash(g)
	if err != nil {
		return nil, false, err
	}
	key := r.Keyer.DocumentKey(hash, opts.DocumentKeyOpts(form))

	if data, ok := r.lookup(ctx, key, "document", opts.Refresh); ok {
		return data, true, nil
	}

	doc, err := render(g, form, opts.IOOptions())
	if err != nil {
		return nil, false, err
	}
	data := doc.Bytes()
	r.store(ctx, key, "document", data, opts.ttl())
	return data, false, nil
}

// Write renders the forms in opts.Forms and stores them in opts.OutputDir.
// Writes are never served from the cache.
func (r *Runner) Write(ctx context.Context, g *graph.Graph, opts Options) (*WriteResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	hooks := observability.Pipeline()

	res := &WriteResult{Paths: make(map[string]string, len(opts.Forms))}
	res.Stats.NodeCount = g.NodeCount()
	res.Stats.EdgeCount = g.EdgeCount()

	start := time.Now()
	for _, form := range opts.Forms {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hooks.OnWriteStart(ctx, g.ID, form)
		formStart := time.Now()

		path, ids, err := export(g, form, opts)
		size := fileSize(path)
		hooks.OnWriteComplete(ctx, g.ID, form, size, time.Since(formStart), err)
		if err != nil {
			return nil, fmt.Errorf("write %s form: %w", form, err)
		}

		res.Paths[form] = path
		if ids != nil {
			res.IDs = ids
		}
		res.Stats.Bytes += size
		r.Logger.Debug("wrote graph", "form", form, "path", path, "bytes", size)
	}
	res.Stats.WriteTime = time.Since(start)

	r.Logger.Info("wrote graph",
		"graph", g.ID,
		"nodes", res.Stats.NodeCount,
		"edges", res.Stats.EdgeCount,
		"duration", res.Stats.WriteTime)
	return res, nil
}

// Consensus computes the consensus labelling of g, using the cache unless
// opts.Refresh is set. The boolean reports a cache hit.
func (r *Runner) Consensus(ctx context.Context, g *graph.Graph, opts Options) (consensus.Summary, bool, error) {
	hash, err := GraphHash(g)
	if err != nil {
		return consensus.Summary{}, false, err
	}
	key := r.Keyer.ConsensusKey(hash, opts.ConsensusKeyOpts())

	if data, ok := r.lookup(ctx, key, "consensus", opts.Refresh); ok {
		if s, err := decodeSummary(g, data); err == nil {
			return s, true, nil
		}
		// A stale or corrupt entry is recomputed below.
	}

	hooks := observability.Pipeline()
	hooks.OnConsensusStart(ctx, g.ID, g.NodeCount())
	start := time.Now()
	s := consensus.Run(g, opts.ConsensusOptions())
	elapsed := time.Since(start)
	hooks.OnConsensusComplete(ctx, g.ID, s.Translated, elapsed)

	r.Logger.Info("computed consensus",
		"graph", g.ID,
		"nodes", g.NodeCount(),
		"translated", s.Translated,
		"duration", elapsed)

	if data, err := encodeSummary(g, s); err == nil {
		r.store(ctx, key, "consensus", data, opts.ttl())
	}
	return s, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// lookup reads key from the cache. Backend errors count as misses.
func (r *Runner) lookup(ctx context.Context, key, keyType string, refresh bool) ([]byte, bool) {
	if refresh {
		return nil, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "error", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) store(ctx context.Context, key, keyType string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func render(g *graph.Graph, form string, opts lgio.Options) (*lgio.Document, error) {
	if form == FormShorter {
		doc, _, err := lgio.RenderShorter(g, opts)
		return doc, err
	}
	return lgio.RenderFull(g, opts)
}

func export(g *graph.Graph, form string, opts Options) (string, lgio.IDMap, error) {
	if form == FormShorter {
		return lgio.ExportShorter(g, opts.OutputDir, opts.IOOptions())
	}
	path, err := lgio.ExportFull(g, opts.OutputDir, opts.Name, opts.IOOptions())
	return path, nil, err
}

func fileSize(path string) int {
	if path == "" {
		return 0
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return int(info.Size())
}

// =============================================================================
// Graph hashing and result encoding
// =============================================================================

type hashedNode struct {
	MultID []string `json:"m"`
	Label  []string `json:"l"`
}

// hashedEdge refers to endpoints by node position. An endpoint outside
// g.Nodes has position -1 and is identified by its multi-identifier.
type hashedEdge struct {
	From    int      `json:"f"`
	To      int      `json:"t"`
	FromKey []string `json:"fk,omitempty"`
	ToKey   []string `json:"tk,omitempty"`
	Label   string   `json:"l,omitempty"`
}

type hashedGraph struct {
	Newick        string       `json:"newick"`
	NodesLabelled bool         `json:"nodes_labelled"`
	EdgesLabelled bool         `json:"edges_labelled"`
	Directed      bool         `json:"directed"`
	Nodes         []hashedNode `json:"nodes"`
	Edges         []hashedEdge `json:"edges"`
}

// GraphHash returns a content hash of g. Multi-identifiers and labels are
// hashed as lists, so no separator choice can make two graphs collide.
// Edge endpoints are hashed by node position; an endpoint outside g.Nodes
// hashes as -1. The graph ID does not contribute.
func GraphHash(g *graph.Graph) (string, error) {
	index := make(map[*graph.Node]int, len(g.Nodes))
	hg := hashedGraph{
		Newick:        g.Newick,
		NodesLabelled: g.NodesLabelled,
		EdgesLabelled: g.EdgesLabelled,
		Directed:      g.Directed,
		Nodes:         make([]hashedNode, len(g.Nodes)),
		Edges:         make([]hashedEdge, len(g.Edges)),
	}
	for i, n := range g.Nodes {
		if _, dup := index[n]; !dup {
			index[n] = i
		}
		hg.Nodes[i] = hashedNode{MultID: n.MultID, Label: n.Label}
	}
	endpoint := func(n *graph.Node) (int, []string) {
		if i, ok := index[n]; ok {
			return i, nil
		}
		if n == nil {
			return -1, nil
		}
		return -1, n.MultID
	}
	for i, e := range g.Edges {
		he := hashedEdge{Label: e.Label}
		he.From, he.FromKey = endpoint(e.Node1)
		he.To, he.ToKey = endpoint(e.Node2)
		hg.Edges[i] = he
	}

	data, err := json.Marshal(hg)
	if err != nil {
		return "", fmt.Errorf("hash graph %s: %w", g.ID, err)
	}
	return cache.Hash(data), nil
}

type cachedSummary struct {
	Translated bool     `json:"translated"`
	Labels     []string `json:"labels"`
}

func encodeSummary(g *graph.Graph, s consensus.Summary) ([]byte, error) {
	return json.Marshal(cachedSummary{Translated: s.Translated, Labels: s.Result.Labels(g)})
}

func decodeSummary(g *graph.Graph, data []byte) (consensus.Summary, error) {
	var cs cachedSummary
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cs); err != nil {
		return consensus.Summary{}, err
	}
	if len(cs.Labels) != len(g.Nodes) {
		return consensus.Summary{}, fmt.Errorf("cached labels: got %d, want %d", len(cs.Labels), len(g.Nodes))
	}
	res := make(consensus.Result, len(g.Nodes))
	for i, n := range g.Nodes {
		res[n] = cs.Labels[i]
	}
	return consensus.Summary{Result: res, Translated: cs.Translated}, nil
}
