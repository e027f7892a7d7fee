// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package impact

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/ArchAssist/services/assistant/decoder"
	"github.com/AleutianAI/ArchAssist/services/assistant/related"
)

const (
	// MaxChainDepth is the maximum number of names in one call chain.
	MaxChainDepth = 5

	// maxChainRoots is how many direct callers per target start a chain.
	maxChainRoots = 5

	// DefaultMaxConcurrency bounds parallel per-target fetches.
	DefaultMaxConcurrency = 8

	unknownName = "unknown"
)

// Analyzer performs refactoring impact analysis against a decoder.
type Analyzer struct {
	reader         decoder.Reader
	guard          *decoder.Guard
	logger         *slog.Logger
	maxConcurrency int
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithGuard sets the fetch observer.
func WithGuard(g *decoder.Guard) Option {
	return func(a *Analyzer) { a.guard = g }
}

// WithMaxConcurrency bounds parallel per-target fetches. Values < 1 are ignored.
func WithMaxConcurrency(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.maxConcurrency = n
		}
	}
}

// NewAnalyzer creates an Analyzer reading from reader.
func NewAnalyzer(reader decoder.Reader, opts ...Option) *Analyzer {
	a := &Analyzer{
		reader:         reader,
		logger:         slog.Default(),
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

// targetResult is what one target contributes to the report.
type targetResult struct {
	ok        bool
	callers   []AffectedFunction
	callees   []Callee
	chains    []CallChain
	relations []decoder.Relationship
}

// Analyze computes the impact of changing the given targets.
//
// # Description
//
// The repository's call edges are fetched once and shared by every target.
// Each target then fetches its own relationships; if that fetch fails the
// target is skipped entirely. Per-target results are merged in target order
// without de-duplication, so a function calling two targets is counted
// twice. If the call-edge fetch fails every target has zero callers.
//
// # Inputs
//
//   - ctx: Cancellation and tracing.
//   - repoID: Repository id. Must be non-blank.
//   - targetIDs: Code element ids. Must be non-empty with no blank entry.
//   - proposedChange: Free-form description carried into the report.
//
// # Outputs
//
//   - *Report: Never nil on success.
//   - error: ErrInvalidArgument for malformed input only.
func (a *Analyzer) Analyze(ctx context.Context, repoID string, targetIDs []string, proposedChange string) (*Report, error) {
	repoID = strings.TrimSpace(repoID)
	if repoID == "" {
		return nil, fmt.Errorf("%w: repository id is required", ErrInvalidArgument)
	}
	if len(targetIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one target id is required", ErrInvalidArgument)
	}
	for i, id := range targetIDs {
		if strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("%w: target id at index %d is blank", ErrInvalidArgument, i)
		}
	}

	start := time.Now()
	ctx, span := startAnalysisSpan(ctx, repoID, len(targetIDs))
	defer span.End()

	var (
		mu       sync.Mutex
		warnings []string
	)
	note := func(op string, err error) {
		if err == nil {
			return
		}
		mu.Lock()
		warnings = append(warnings, op+": "+err.Error())
		mu.Unlock()
	}

	edges := decoder.Attempt(ctx, a.guard, "call_edges", func(ctx context.Context) ([]decoder.CallEdge, error) {
		return a.reader.GetCallEdges(ctx, repoID)
	})
	note(edges.Op, edges.Err)
	index := indexCallers(edges.Or(nil))

	results := make([]targetResult, len(targetIDs))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(a.maxConcurrency)
	for i, id := range targetIDs {
		g.Go(func() error {
			rels := decoder.Attempt(gCtx, a.guard, "code_relationships", func(ctx context.Context) ([]decoder.Relationship, error) {
				return a.reader.GetCodeRelationships(ctx, repoID, decoder.RelationshipQuery{ElementID: id})
			})
			if rels.Failed() {
				note(rels.Op+"["+id+"]", rels.Err)
				return nil
			}
			callers := index.callersOf(id)
			results[i] = targetResult{
				ok:        true,
				callers:   callers,
				callees:   findCallees(rels.Value),
				chains:    index.chains(callers),
				relations: rels.Value,
			}
			return nil
		})
	}
	_ = g.Wait()

	report := NewReport()
	report.Targets = append(report.Targets, targetIDs...)
	report.ProposedChange = proposedChange

	var relLists [][]decoder.Relationship
	for _, r := range results {
		if !r.ok {
			continue
		}
		report.AffectedFunctions = append(report.AffectedFunctions, r.callers...)
		report.Callees = append(report.Callees, r.callees...)
		report.CallChains = append(report.CallChains, r.chains...)
		relLists = append(relLists, r.relations)
	}

	report.RiskLevel = AssessRisk(len(report.AffectedFunctions), report.MaxChainDepth())
	report.Recommendations = Recommendations(len(report.AffectedFunctions), report.RiskLevel)

	ents := related.Resolve(relLists...)
	report.AffectedServices = ents.Services
	report.AffectedDependencies = ents.Dependencies

	if len(warnings) > 0 {
		sort.Strings(warnings)
		report.Warnings = warnings
	}

	setAnalysisSpanResult(span, report)
	recordAnalysisMetrics(ctx, time.Since(start), report)
	a.logger.Info("impact analysis complete",
		slog.String("repository_id", repoID),
		slog.Int("targets", len(targetIDs)),
		slog.Int("affected_functions", len(report.AffectedFunctions)),
		slog.String("risk_level", string(report.RiskLevel)),
		slog.Int("warnings", len(report.Warnings)),
	)
	return report, nil
}

// callerIndex maps a callee id to the edges that call it, in edge order.
type callerIndex map[string][]decoder.CallEdge

func indexCallers(edges []decoder.CallEdge) callerIndex {
	idx := make(callerIndex)
	for _, e := range edges {
		if e.CalleeID == "" {
			continue
		}
		idx[e.CalleeID] = append(idx[e.CalleeID], e)
	}
	return idx
}

// callersOf returns the direct callers of id.
func (idx callerIndex) callersOf(id string) []AffectedFunction {
	edges := idx[id]
	out := make([]AffectedFunction, 0, len(edges))
	for _, e := range edges {
		out = append(out, AffectedFunction{
			ID:           e.CallerID,
			Name:         e.CallerName,
			FilePath:     e.CallerFile,
			Relationship: relationshipCalls,
			Risk:         RiskHigh,
		})
	}
	return out
}

// chains builds one upward chain for each of the first maxChainRoots
// callers. Each step follows only the first caller of the current node and
// the walk stops at MaxChainDepth names, so cycles terminate.
func (idx callerIndex) chains(callers []AffectedFunction) []CallChain {
	if len(callers) > maxChainRoots {
		callers = callers[:maxChainRoots]
	}
	out := make([]CallChain, 0, len(callers))
	for _, c := range callers {
		path := []string{nameOrUnknown(c.Name)}
		current := c.ID
		for len(path) < MaxChainDepth {
			up := idx[current]
			if len(up) == 0 {
				break
			}
			path = append(path, nameOrUnknown(up[0].CallerName))
			current = up[0].CallerID
		}
		out = append(out, CallChain{Path: path, Depth: len(path)})
	}
	return out
}

// findCallees returns what a target calls, from its relationships.
func findCallees(rels []decoder.Relationship) []Callee {
	var out []Callee
	for _, r := range rels {
		if r.RelationshipType != relationshipCalls && r.TargetType != decoder.TargetCodeElement {
			continue
		}
		out = append(out, Callee{
			ID:           r.TargetID,
			Name:         r.TargetName,
			Relationship: relationshipCalledBy,
		})
	}
	return out
}

func nameOrUnknown(name string) string {
	if name == "" {
		return unknownName
	}
	return name
}
