// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package decoder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

// DefaultTimeout bounds a single decoder request.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of a failed response body is kept in the error.
const maxErrorBody = 512

// ClientConfig configures Client.
type ClientConfig struct {
	// BaseURL is the decoder root, e.g. "http://localhost:8080". Required.
	BaseURL string

	// Timeout bounds each request. Default: DefaultTimeout.
	Timeout time.Duration

	// RequestsPerSecond throttles outbound calls. 0 disables throttling.
	RequestsPerSecond float64

	// Burst is the limiter burst size. Default: 1 when throttling.
	Burst int

	// HTTPClient overrides the transport. Its Timeout is left untouched.
	HTTPClient *http.Client
}

// Client is the HTTP implementation of Reader.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

var _ Reader = (*Client)(nil)

// NewClient creates a decoder client.
//
// # Description
//
// Validates the base URL and builds an HTTP client whose transport is
// instrumented with otelhttp so decoder calls join the caller's trace.
//
// # Inputs
//
//   - cfg: Client configuration. BaseURL must be an absolute http(s) URL.
//
// # Outputs
//
//   - *Client: Ready to use.
//   - error: Non-nil if BaseURL is missing or malformed.
func NewClient(cfg ClientConfig) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("decoder base URL is required")
	}
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid decoder base URL %q", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = int(math.Max(1, math.Ceil(cfg.RequestsPerSecond)))
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		limiter:    limiter,
	}, nil
}

// BaseURL returns the normalized decoder root.
func (c *Client) BaseURL() string { return c.baseURL }

// GetRepository fetches one repository record.
func (c *Client) GetRepository(ctx context.Context, repoID string) (*Repository, error) {
	var repo Repository
	if err := c.getJSON(ctx, "repository", repoPath(repoID, ""), nil, &repo); err != nil {
		return nil, err
	}
	return &repo, nil
}

// ListRepositories fetches every repository known to the decoder.
func (c *Client) ListRepositories(ctx context.Context) ([]Repository, error) {
	var repos []Repository
	if err := c.getJSON(ctx, "repositories", "/api/v1/repositories", nil, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

// GetCodeElements fetches code elements, optionally filtered by element type.
func (c *Client) GetCodeElements(ctx context.Context, repoID, elementType string) ([]CodeElement, error) {
	q := url.Values{}
	if elementType != "" {
		q.Set("type", elementType)
	}
	var elements []CodeElement
	if err := c.getJSON(ctx, "code_elements", repoPath(repoID, "/code/elements"), q, &elements); err != nil {
		return nil, err
	}
	return elements, nil
}

// GetCodeRelationships fetches relationships matching q.
func (c *Client) GetCodeRelationships(ctx context.Context, repoID string, rq RelationshipQuery) ([]Relationship, error) {
	q := url.Values{}
	if rq.ElementID != "" {
		q.Set("code_element_id", rq.ElementID)
	}
	if rq.TargetType != "" {
		q.Set("target_type", rq.TargetType)
	}
	if rq.TargetID != "" {
		q.Set("target_id", rq.TargetID)
	}
	var rels []Relationship
	if err := c.getJSON(ctx, "code_relationships", repoPath(repoID, "/code/relationships"), q, &rels); err != nil {
		return nil, err
	}
	return rels, nil
}

// GetCallEdges fetches the complete call-edge set of a repository.
func (c *Client) GetCallEdges(ctx context.Context, repoID string) ([]CallEdge, error) {
	var edges []CallEdge
	if err := c.getJSON(ctx, "call_edges", repoPath(repoID, "/code/calls"), nil, &edges); err != nil {
		return nil, err
	}
	return edges, nil
}

// GetServices fetches detected external services.
func (c *Client) GetServices(ctx context.Context, repoID string) ([]Service, error) {
	var services []Service
	if err := c.getJSON(ctx, "services", repoPath(repoID, "/services"), nil, &services); err != nil {
		return nil, err
	}
	return services, nil
}

// GetDependencies fetches declared dependencies.
func (c *Client) GetDependencies(ctx context.Context, repoID string) ([]Dependency, error) {
	var deps []Dependency
	if err := c.getJSON(ctx, "dependencies", repoPath(repoID, "/dependencies"), nil, &deps); err != nil {
		return nil, err
	}
	return deps, nil
}

// GetTools fetches configured build, test and lint tools.
func (c *Client) GetTools(ctx context.Context, repoID string) ([]Tool, error) {
	var tools []Tool
	if err := c.getJSON(ctx, "tools", repoPath(repoID, "/tools"), nil, &tools); err != nil {
		return nil, err
	}
	return tools, nil
}

// GetTests fetches detected tests.
func (c *Client) GetTests(ctx context.Context, repoID string) ([]Test, error) {
	var tests []Test
	if err := c.getJSON(ctx, "tests", repoPath(repoID, "/tests"), nil, &tests); err != nil {
		return nil, err
	}
	return tests, nil
}

// GetDocumentation fetches documentation files.
func (c *Client) GetDocumentation(ctx context.Context, repoID string) ([]Documentation, error) {
	var docs []Documentation
	if err := c.getJSON(ctx, "documentation", repoPath(repoID, "/documentation"), nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// GetGraph fetches the full entity graph.
func (c *Client) GetGraph(ctx context.Context, repoID string) (*Graph, error) {
	var g Graph
	if err := c.getJSON(ctx, "graph", repoPath(repoID, "/graph"), nil, &g); err != nil {
		return nil, err
	}
	if g.Nodes == nil {
		g.Nodes = []GraphNode{}
	}
	if g.Edges == nil {
		g.Edges = []GraphEdge{}
	}
	return &g, nil
}

// Ping checks the decoder health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.getJSON(ctx, "health", "/health", nil, nil)
}

func repoPath(repoID, suffix string) string {
	return "/api/v1/repositories/" + url.PathEscape(repoID) + suffix
}

// getJSON performs one GET and decodes the body into out. A nil out
// discards the body. Every failure is returned as *UpstreamError.
func (c *Client) getJSON(ctx context.Context, op, path string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &UpstreamError{Op: op, Err: err}
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &UpstreamError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &UpstreamError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var cause error
		if msg := strings.TrimSpace(string(body)); msg != "" {
			cause = errors.New(msg)
		}
		return &UpstreamError{Op: op, StatusCode: resp.StatusCode, Err: cause}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &UpstreamError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
