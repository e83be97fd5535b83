// Package client talks to a labelgraph server.
//
//	c := client.New("http://localhost:8080", nil)
//	resp, err := c.Consensus(ctx, data, client.Query{Translate: client.Bool(true)})
//
// Connection failures and 5xx responses are retried with backoff; other
// error responses are returned as [*APIError].
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/labelgraph/pkg/httputil"
	"github.com/matzehuels/labelgraph/pkg/server"
)

const httpTimeout = 30 * time.Second

// ErrNetwork is returned for transport failures and 5xx responses.
var ErrNetwork = errors.New("network error")

// APIError is an error response from the server.
type APIError struct {
	Status    int
	Code      string
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d): %s", e.Code, e.Status, e.Message)
}

// Query holds the per-request parameters. Zero fields fall back to the
// server defaults.
type Query struct {
	ID        string
	Author    string
	LabelSep  string
	Translate *bool
	Counting  string
}

// Bool returns a pointer to b, for [Query.Translate].
func Bool(b bool) *bool { return &b }

func (q Query) values() url.Values {
	v := url.Values{}
	if q.ID != "" {
		v.Set("id", q.ID)
	}
	if q.Author != "" {
		v.Set("author", q.Author)
	}
	if q.LabelSep != "" {
		v.Set("label_sep", q.LabelSep)
	}
	if q.Translate != nil {
		v.Set("translate", strconv.FormatBool(*q.Translate))
	}
	if q.Counting != "" {
		v.Set("counting", q.Counting)
	}
	return v
}

// Client is a labelgraph API client.
type Client struct {
	http       *http.Client
	baseURL    string
	headers    map[string]string
	retryDelay time.Duration
}

// New creates a client for the server at baseURL. Headers are applied to
// all requests; pass nil if none are needed.
func New(baseURL string, headers map[string]string) *Client {
	return &Client{
		http:       NewHTTPClient(),
		baseURL:    strings.TrimRight(baseURL, "/"),
		headers:    headers,
		retryDelay: httputil.DefaultDelay,
	}
}

// NewHTTPClient creates an HTTP client with the standard timeout.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) (*server.HealthResponse, error) {
	var resp server.HealthResponse
	err := c.retry(ctx, func() error {
		body, err := c.do(ctx, http.MethodGet, "/healthz", nil, nil)
		if err != nil {
			return err
		}
		defer body.Close()
		return json.NewDecoder(body).Decode(&resp)
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Render re-serializes a graph file in the given form ("full" or "shorter").
func (c *Client) Render(ctx context.Context, form string, graph []byte, q Query) ([]byte, error) {
	var out []byte
	err := c.retry(ctx, func() error {
		body, err := c.do(ctx, http.MethodPost, "/v1/render/"+url.PathEscape(form), q.values(), graph)
		if err != nil {
			return err
		}
		defer body.Close()
		out, err = io.ReadAll(body)
		return err
	})
	return out, err
}

// Consensus computes the consensus labels of a graph file.
func (c *Client) Consensus(ctx context.Context, graph []byte, q Query) (*server.ConsensusResponse, error) {
	var resp server.ConsensusResponse
	err := c.retry(ctx, func() error {
		body, err := c.do(ctx, http.MethodPost, "/v1/consensus", q.values(), graph)
		if err != nil {
			return err
		}
		defer body.Close()
		return json.NewDecoder(body).Decode(&resp)
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) retry(ctx context.Context, fn func() error) error {
	return httputil.Retry(ctx, httputil.DefaultAttempts, c.retryDelay, fn)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload []byte) (io.ReadCloser, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	if resp.StatusCode == http.StatusOK {
		return resp.Body, nil
	}
	defer resp.Body.Close()
	return nil, checkStatus(resp)
}

func checkStatus(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, RequestID: resp.Header.Get(server.RequestIDHeader)}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		apiErr.Code, apiErr.Message = payload.Error, payload.Message
	} else {
		apiErr.Code, apiErr.Message = "HTTP_ERROR", http.StatusText(resp.StatusCode)
	}

	if resp.StatusCode >= 500 {
		return httputil.Retryable(fmt.Errorf("%w: %w", ErrNetwork, apiErr))
	}
	return apiErr
}
