package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/labelgraph/pkg/buildinfo"
	"github.com/matzehuels/labelgraph/pkg/consensus"
	lgerrors "github.com/matzehuels/labelgraph/pkg/errors"
	"github.com/matzehuels/labelgraph/pkg/graph"
	lgio "github.com/matzehuels/labelgraph/pkg/io"
	"github.com/matzehuels/labelgraph/pkg/pipeline"
	"github.com/matzehuels/labelgraph/pkg/render/nodelink"
)

// DefaultGraphID names graphs posted without an id parameter.
const DefaultGraphID = "graph"

// CacheHeader reports whether a response was served from the cache.
const CacheHeader = "X-Cache"

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ConsensusResponse is the body of POST /v1/consensus.
type ConsensusResponse struct {
	Graph      string          `json:"graph"`
	Translated bool            `json:"translated"`
	Nodes      []NodeConsensus `json:"nodes"`
}

// NodeConsensus is the consensus label of one node.
type NodeConsensus struct {
	Key       string `json:"key"`
	Consensus string `json:"consensus"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: buildinfo.Version})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	form := chi.URLParam(r, "form")
	if err := pipeline.ValidateForm(form); err != nil {
		writeError(w, r, err)
		return
	}
	opts, err := s.options(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	g, err := s.readGraph(w, r, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	data, hit, err := s.runner.Render(r.Context(), g, form, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set(CacheHeader, cacheStatus(hit))
	_, _ = w.Write(data)
}

func (s *Server) handleConsensus(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	g, err := s.readGraph(w, r, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	summary, hit, err := s.runner.Consensus(r.Context(), g, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := ConsensusResponse{
		Graph:      g.ID,
		Translated: summary.Translated,
		Nodes:      make([]NodeConsensus, len(g.Nodes)),
	}
	for i, n := range g.Nodes {
		resp.Nodes[i] = NodeConsensus{Key: n.Key(), Consensus: summary.Result[n]}
	}
	w.Header().Set(CacheHeader, cacheStatus(hit))
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVisualize(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	detailed, err := boolParam(r, "detailed", false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	g, err := s.readGraph(w, r, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	summary, _, err := s.runner.Consensus(r.Context(), g, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	dot := nodelink.ToDOT(g, summary.Result.Labels(g), nodelink.Options{
		Detailed:   detailed,
		Translated: summary.Translated,
	})
	svg, err := nodelink.RenderSVG(r.Context(), dot)
	if err != nil {
		writeError(w, r, lgerrors.Wrap(lgerrors.ErrCodeInternal, err, "render graph %s", g.ID))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

// options applies the query parameters of r to the server defaults.
func (s *Server) options(r *http.Request) (pipeline.Options, error) {
	opts := s.defaults
	q := r.URL.Query()

	if q.Has("author") {
		opts.Author = q.Get("author")
	}
	if q.Has("label_sep") {
		opts.LabelSep = q.Get("label_sep")
	}
	if err := opts.IOOptions().Validate(); err != nil {
		return opts, err
	}

	translate, err := boolParam(r, "translate", opts.Translate)
	if err != nil {
		return opts, err
	}
	opts.Translate = translate

	if q.Has("counting") {
		mode, err := consensus.ParseCountMode(q.Get("counting"))
		if err != nil {
			return opts, lgerrors.Wrap(lgerrors.ErrCodeInvalidInput, err, "query parameter counting")
		}
		opts.Counting = mode
	}
	return opts, nil
}

func (s *Server) readGraph(w http.ResponseWriter, r *http.Request, opts pipeline.Options) (*graph.Graph, error) {
	id := r.URL.Query().Get("id")
	if id == "" {
		id = DefaultGraphID
	}
	body := http.MaxBytesReader(w, r.Body, maxBodySize)
	defer body.Close()
	return lgio.ReadGraph(body, id, opts.IOOptions())
}

func boolParam(r *http.Request, name string, def bool) (bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, lgerrors.New(lgerrors.ErrCodeInvalidInput, "query parameter %s: invalid boolean %q", name, v)
	}
	return b, nil
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
