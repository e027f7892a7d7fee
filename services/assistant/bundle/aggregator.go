// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package bundle assembles the context used to answer a developer query.
//
// # Description
//
// Aggregator turns a classified query into a Bundle: repository metadata,
// a capped list of typed sources chosen by a per-intent strategy, the
// services and dependencies those sources reference, and optionally the
// full entity graph.
//
// Every decoder fetch is best-effort. A failed fetch empties its own slice
// and adds a warning; it never fails the build. Only malformed requests
// return an error.
//
// # Thread Safety
//
// Aggregator is safe for concurrent use. Each Build works on its own
// snapshot of decoder data.
package bundle

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/ArchAssist/services/assistant/decoder"
	"github.com/AleutianAI/ArchAssist/services/assistant/intent"
	"github.com/AleutianAI/ArchAssist/services/assistant/related"
)

// DefaultMaxConcurrency bounds parallel relationship fetches per build.
const DefaultMaxConcurrency = 8

// Aggregator builds context bundles from decoder data.
type Aggregator struct {
	reader         decoder.Reader
	guard          *decoder.Guard
	logger         *slog.Logger
	isStopWord     func(string) bool
	vendorMarkers  []string
	maxConcurrency int
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithGuard sets the fetch observer used for degraded fetches.
func WithGuard(g *decoder.Guard) Option {
	return func(a *Aggregator) { a.guard = g }
}

// WithStopWordFilter sets the predicate that drops entities before name
// matching. Typically (*intent.Classifier).IsStopWord.
func WithStopWordFilter(isStopWord func(string) bool) Option {
	return func(a *Aggregator) { a.isStopWord = isStopWord }
}

// WithVendorMarkers replaces DefaultVendorMarkers.
func WithVendorMarkers(markers []string) Option {
	return func(a *Aggregator) {
		a.vendorMarkers = append([]string(nil), markers...)
	}
}

// WithMaxConcurrency bounds parallel relationship fetches. Values < 1 are ignored.
func WithMaxConcurrency(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.maxConcurrency = n
		}
	}
}

// NewAggregator creates an Aggregator reading from reader.
func NewAggregator(reader decoder.Reader, opts ...Option) *Aggregator {
	a := &Aggregator{
		reader:         reader,
		logger:         slog.Default(),
		isStopWord:     intent.New().IsStopWord,
		vendorMarkers:  DefaultVendorMarkers,
		maxConcurrency: DefaultMaxConcurrency,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.guard == nil {
		a.guard = decoder.NewGuard(a.logger, nil)
	}
	return a
}

// Build assembles the context bundle for req.
//
// # Description
//
// Fetches repository metadata (placeholder name "Unknown" on failure),
// runs the strategy selected by the request's intent, resolves related
// entities from the enriched function sources and, when requested, fetches
// the full graph (empty graph on failure).
//
// # Inputs
//
//   - ctx: Cancellation and tracing.
//   - req: RepositoryID must be non-blank and MaxResults >= 1.
//
// # Outputs
//
//   - *Bundle: Sources in strategy order; never nil on success.
//   - error: ErrInvalidArgument for malformed requests only.
func (a *Aggregator) Build(ctx context.Context, req Request) (*Bundle, error) {
	repoID := strings.TrimSpace(req.RepositoryID)
	if repoID == "" {
		return nil, fmt.Errorf("%w: repository id is required", ErrInvalidArgument)
	}
	if req.MaxResults < 1 {
		return nil, fmt.Errorf("%w: max results must be at least 1, got %d", ErrInvalidArgument, req.MaxResults)
	}

	in := req.Classification.Intent
	if !in.Valid() {
		in = intent.General
	}

	ctx, span := otel.Tracer("assistant.bundle").Start(ctx, "bundle.Aggregator.Build",
		trace.WithAttributes(
			attribute.String("repository_id", repoID),
			attribute.String("intent", string(in)),
			attribute.Int("max_results", req.MaxResults),
			attribute.Bool("include_graph", req.IncludeGraph),
		),
	)
	defer span.End()

	b := &build{
		agg:     a,
		repoID:  repoID,
		max:     req.MaxResults,
		matcher: newMatcher(req.Classification.Topics, req.Classification.Entities, req.Classification.Quoted, a.isStopWord),
	}

	repo := decoder.Attempt(ctx, a.guard, "repository", func(ctx context.Context) (*decoder.Repository, error) {
		return a.reader.GetRepository(ctx, repoID)
	})
	b.note(repo.Op, repo.Err)
	repository := repo.Or(&decoder.Repository{ID: repoID, Name: "Unknown"})
	if repository == nil {
		repository = &decoder.Repository{ID: repoID, Name: "Unknown"}
	}

	var sources []Source
	switch in {
	case intent.FindFunctions:
		sources = b.functions(ctx)
	case intent.ListServices:
		sources = b.services(ctx)
	case intent.FindDependencies:
		sources = b.dependencies(ctx)
	case intent.ToolDiscovery:
		sources = b.tools(ctx)
	case intent.FindTests:
		sources = b.tests(ctx)
	case intent.FindDocumentation:
		sources = b.documentation(ctx)
	default:
		sources = b.general(ctx)
	}
	if sources == nil {
		sources = []Source{}
	}

	var rels [][]decoder.Relationship
	for _, s := range sources {
		if fn, ok := s.(FunctionSource); ok {
			rels = append(rels, fn.Relationships)
		}
	}

	out := &Bundle{
		Repository: *repository,
		Intent:     in,
		Sources:    sources,
		Related:    related.Resolve(rels...),
	}

	if req.IncludeGraph {
		g := decoder.Attempt(ctx, a.guard, "graph", func(ctx context.Context) (*decoder.Graph, error) {
			return a.reader.GetGraph(ctx, repoID)
		})
		b.note(g.Op, g.Err)
		out.Graph = g.Or(decoder.EmptyGraph())
		if out.Graph == nil {
			out.Graph = decoder.EmptyGraph()
		}
	}

	out.Warnings = b.warningList()

	span.SetAttributes(
		attribute.Int("sources", len(out.Sources)),
		attribute.Int("warnings", len(out.Warnings)),
	)
	a.logger.Debug("context bundle built",
		slog.String("repository_id", repoID),
		slog.String("intent", string(in)),
		slog.Int("sources", len(out.Sources)),
		slog.Int("warnings", len(out.Warnings)),
	)
	return out, nil
}

// build is the per-request state of one Build call.
type build struct {
	agg     *Aggregator
	repoID  string
	max     int
	matcher matcher

	mu       sync.Mutex
	warnings []string
}

func (b *build) note(op string, err error) {
	if err == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.warnings = append(b.warnings, op+": "+err.Error())
}

// warningList returns the warnings sorted, since concurrent fetches record
// them in completion order.
func (b *build) warningList() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.warnings) == 0 {
		return nil
	}
	out := append([]string(nil), b.warnings...)
	sort.Strings(out)
	return out
}
