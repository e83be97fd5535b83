// Package server exposes the labelgraph stages over HTTP.
//
// # Routes
//
//	GET  /healthz              liveness probe, reports the build version
//	POST /v1/render/{form}     re-serialize a graph file (form: full, shorter)
//	POST /v1/consensus         consensus label per node as JSON
//	POST /v1/visualize         node-link SVG of the consensus labelling
//
// Every POST body is a graph file in the full or shorter form. Query
// parameters override the server defaults:
//
//	author     AUTHOR header of rendered documents
//	label_sep  label separator used to read and write label fields
//	id         graph ID (default "graph")
//	translate  true/false, element translation for consensus
//	counting   source/translated, see consensus.CountMode
//	detailed   true/false, detailed node labels in /v1/visualize
//
// Errors are JSON objects {"error": CODE, "message": ..., "request_id": ...}
// with the HTTP status derived from the error code.
//
// # Middleware
//
// Every response carries an X-Request-ID header (a UUID, or the caller's
// own if it sent a valid one). Panics in handlers are recovered into 500
// responses, and each request is logged and reported to
// [observability.HTTPHooks]. [WithRateLimit] caps the /v1 routes with a
// token bucket; rejected requests get 429 RATE_LIMITED.
package server
