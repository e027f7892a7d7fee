// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package assistant provides the architecture assistant service and its
// HTTP API.
//
// The service exposes:
//   - Natural-language queries answered from decoder data
//   - Refactoring impact analysis
//   - Query classification
//   - A proxy of the decoder's repository list
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/ArchAssist/services/assistant/bundle"
	"github.com/AleutianAI/ArchAssist/services/assistant/decoder"
	"github.com/AleutianAI/ArchAssist/services/assistant/impact"
	"github.com/AleutianAI/ArchAssist/services/assistant/intent"
	"github.com/AleutianAI/ArchAssist/services/assistant/prompt"
	"github.com/AleutianAI/ArchAssist/services/assistant/telemetry"
	"github.com/AleutianAI/ArchAssist/services/llm"
)

// ServiceName and ServiceVersion identify the service in health output.
const (
	ServiceName    = "archassist"
	ServiceVersion = "0.1.0"
)

const tracerScope = "assistant.service"

// ServiceConfig configures the assistant service.
type ServiceConfig struct {
	// DefaultMaxResults applies when a query omits max_results.
	// Default: 10
	DefaultMaxResults int

	// MaxResultsCeiling clamps max_results.
	// Default: 50
	MaxResultsCeiling int

	// MaxConcurrency bounds parallel decoder fetches per request.
	// Default: 8
	MaxConcurrency int

	// DecoderURL is reported by Health.
	DecoderURL string

	// VendorMarkers replaces bundle.DefaultVendorMarkers when non-empty.
	VendorMarkers []string

	// Generation holds the LLM sampling parameters.
	// Default: temperature 0.3, 1500 max tokens
	Generation llm.GenerationParams
}

// DefaultServiceConfig returns sensible defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		DefaultMaxResults: 10,
		MaxResultsCeiling: 50,
		MaxConcurrency:    8,
		Generation:        llm.DefaultParams(),
	}
}

// Service answers architecture questions.
//
// Thread Safety:
//
//	Service is safe for concurrent use. Requests share no mutable state.
type Service struct {
	config     ServiceConfig
	reader     decoder.Reader
	classifier *intent.Classifier
	aggregator *bundle.Aggregator
	analyzer   *impact.Analyzer
	prompts    *prompt.Builder
	llm        llm.LLMClient
	guard      *decoder.Guard
	logger     *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLLM sets the answer generator. Without one, answers are summaries.
func WithLLM(client llm.LLMClient) Option {
	return func(s *Service) { s.llm = client }
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithGuard sets the observer of decoder fetches, typically one carrying
// Prometheus fetch metrics.
func WithGuard(g *decoder.Guard) Option {
	return func(s *Service) { s.guard = g }
}

// WithClassifier replaces the default classifier.
func WithClassifier(c *intent.Classifier) Option {
	return func(s *Service) {
		if c != nil {
			s.classifier = c
		}
	}
}

// NewService creates a new assistant service.
//
// Description:
//
//	Wires the classifier, context aggregator, impact analyzer and prompt
//	builder over reader. The aggregator shares the classifier's stop words.
//
// Inputs:
//
//	config - Service configuration. Zero fields take defaults.
//	reader - Decoder access. Must not be nil.
//	opts - Optional LLM, logger, guard and classifier.
//
// Outputs:
//
//	*Service - The configured service.
//	error - Non-nil if reader is nil or the prompt templates fail to parse.
func NewService(config ServiceConfig, reader decoder.Reader, opts ...Option) (*Service, error) {
	if reader == nil {
		return nil, fmt.Errorf("%w: decoder reader is required", ErrInvalidRequest)
	}

	defaults := DefaultServiceConfig()
	if config.DefaultMaxResults <= 0 {
		config.DefaultMaxResults = defaults.DefaultMaxResults
	}
	if config.MaxResultsCeiling <= 0 {
		config.MaxResultsCeiling = defaults.MaxResultsCeiling
	}
	if config.DefaultMaxResults > config.MaxResultsCeiling {
		config.DefaultMaxResults = config.MaxResultsCeiling
	}
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = defaults.MaxConcurrency
	}
	if config.Generation.Temperature == nil && config.Generation.MaxTokens == nil {
		config.Generation = defaults.Generation
	}

	s := &Service{
		config:     config,
		reader:     reader,
		classifier: intent.New(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.guard == nil {
		s.guard = decoder.NewGuard(s.logger, nil)
	}

	prompts, err := prompt.NewBuilder()
	if err != nil {
		return nil, err
	}
	s.prompts = prompts

	aggOpts := []bundle.Option{
		bundle.WithLogger(s.logger),
		bundle.WithGuard(s.guard),
		bundle.WithStopWordFilter(s.classifier.IsStopWord),
		bundle.WithMaxConcurrency(config.MaxConcurrency),
	}
	if len(config.VendorMarkers) > 0 {
		aggOpts = append(aggOpts, bundle.WithVendorMarkers(config.VendorMarkers))
	}
	s.aggregator = bundle.NewAggregator(reader, aggOpts...)
	s.analyzer = impact.NewAnalyzer(reader,
		impact.WithLogger(s.logger),
		impact.WithGuard(s.guard),
		impact.WithMaxConcurrency(config.MaxConcurrency),
	)
	return s, nil
}

// LLMConfigured reports whether answers can be generated.
func (s *Service) LLMConfigured() bool {
	return s.llm != nil
}

// Classify classifies a query.
func (s *Service) Classify(ctx context.Context, query string) (intent.Classification, error) {
	if strings.TrimSpace(query) == "" {
		return intent.Classification{}, fmt.Errorf("%w: query is required", ErrInvalidRequest)
	}
	return s.classifier.Classify(ctx, query), nil
}

// Query answers a natural-language question about a repository.
//
// Description:
//
//	Classifies the query, builds the context bundle and phrases the answer.
//	With an LLM the answer is generated from the query prompt; if the LLM
//	fails the summary is returned behind prompt.UnavailablePrefix. Without
//	an LLM, or with NoLLM set, the answer is the summary. Decoder outages
//	degrade the bundle and never fail the query.
//
// Inputs:
//
//	ctx - Cancellation and tracing.
//	req - RepositoryID and Query must be non-blank; MaxResults must not be
//	      negative.
//
// Outputs:
//
//	*QueryResponse - The answer with its sources.
//	error - ErrInvalidRequest or bundle.ErrInvalidArgument for bad input.
func (s *Service) Query(ctx context.Context, req QueryRequest) (*QueryResponse, error) {
	repoID := strings.TrimSpace(req.RepositoryID)
	if repoID == "" {
		return nil, fmt.Errorf("%w: repository_id is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("%w: query is required", ErrInvalidRequest)
	}
	maxResults, err := s.clampMaxResults(req.MaxResults)
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartSpan(ctx, tracerScope, "assistant.Service.Query",
		attribute.String("repository_id", repoID),
		attribute.Int("max_results", maxResults),
	)
	defer span.End()
	logger := telemetry.LoggerWithTrace(ctx, s.logger)

	classification := s.classifier.Classify(ctx, req.Query)

	b, err := s.aggregator.Build(ctx, bundle.Request{
		RepositoryID:   repoID,
		Classification: classification,
		MaxResults:     maxResults,
		IncludeGraph:   req.IncludeGraph,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	answer, llmUsed, err := s.answer(ctx, logger, req, b)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	resp := &QueryResponse{
		Answer:          answer,
		Sources:         b.Sources,
		RelatedEntities: b.Related,
		Intent:          b.Intent,
		Classification:  classification,
		Repository:      b.Repository,
		LLMUsed:         llmUsed,
		Warnings:        b.Warnings,
	}
	if req.IncludeGraph && b.Graph != nil {
		resp.GraphContext = &GraphContext{
			Statistics: GraphStatistics(b.Graph),
			Nodes:      b.Graph.Nodes,
			Edges:      b.Graph.Edges,
		}
	}

	span.SetAttributes(
		attribute.String("intent", string(b.Intent)),
		attribute.Int("sources", len(b.Sources)),
		attribute.Bool("llm_used", llmUsed),
	)
	logger.Info("Query answered",
		"repository_id", repoID,
		"intent", string(b.Intent),
		"sources", len(b.Sources),
		"warnings", len(b.Warnings),
		"llm_used", llmUsed)
	return resp, nil
}

func (s *Service) answer(ctx context.Context, logger *slog.Logger, req QueryRequest, b *bundle.Bundle) (string, bool, error) {
	summary, err := s.prompts.Summary(b)
	if err != nil {
		return "", false, err
	}
	if s.llm == nil || req.NoLLM {
		return summary, false, nil
	}

	p, err := s.prompts.QueryPrompt(req.Query, b)
	if err != nil {
		return "", false, err
	}
	out, err := s.llm.Generate(ctx, p, s.config.Generation)
	if err != nil {
		logger.Warn("LLM call failed, answering with summary", "error", err)
		return prompt.UnavailablePrefix + summary, false, nil
	}
	return out, true, nil
}

// RefactorAnalysis analyzes the impact of changing the target elements.
//
// Description:
//
//	Runs the impact analyzer and, when an LLM is configured, asks it for
//	recommendations. An LLM failure leaves AIRecommendations nil.
//
// Outputs:
//
//	*RefactorResponse - Report plus optional AI recommendations.
//	error - impact.ErrInvalidArgument for bad input.
func (s *Service) RefactorAnalysis(ctx context.Context, req RefactorRequest) (*RefactorResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerScope, "assistant.Service.RefactorAnalysis",
		attribute.String("repository_id", req.RepositoryID),
		attribute.Int("targets", len(req.TargetElements)),
	)
	defer span.End()
	logger := telemetry.LoggerWithTrace(ctx, s.logger)

	report, err := s.analyzer.Analyze(ctx, req.RepositoryID, req.TargetElements, req.ProposedChanges)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	resp := &RefactorResponse{
		ImpactAnalysis:  report,
		RiskLevel:       report.RiskLevel,
		Recommendations: report.Recommendations,
	}

	if s.llm != nil && !req.NoLLM {
		p, err := s.prompts.RefactoringPrompt(report, req.ProposedChanges)
		if err != nil {
			return nil, err
		}
		out, err := s.llm.Generate(ctx, p, s.config.Generation)
		if err != nil {
			logger.Warn("LLM call failed, returning structured analysis only", "error", err)
		} else {
			resp.AIRecommendations = &out
		}
	}
	return resp, nil
}

// Repositories lists the decoder's repositories.
//
// Unlike the query paths this does not degrade: an upstream failure is
// returned and matches decoder.ErrUpstreamUnavailable.
func (s *Service) Repositories(ctx context.Context) ([]decoder.Repository, error) {
	repos, err := s.reader.ListRepositories(ctx)
	if err != nil {
		return nil, err
	}
	if repos == nil {
		repos = []decoder.Repository{}
	}
	return repos, nil
}

// Ready checks that the decoder is reachable.
func (s *Service) Ready(ctx context.Context) error {
	return s.reader.Ping(ctx)
}

// Health returns static health information.
func (s *Service) Health() HealthResponse {
	return HealthResponse{
		Status:        "ok",
		Service:       ServiceName,
		Version:       ServiceVersion,
		DecoderURL:    s.config.DecoderURL,
		LLMConfigured: s.LLMConfigured(),
	}
}

func (s *Service) clampMaxResults(n int) (int, error) {
	switch {
	case n < 0:
		return 0, fmt.Errorf("%w: max_results must not be negative, got %d", ErrInvalidRequest, n)
	case n == 0:
		return s.config.DefaultMaxResults, nil
	case n > s.config.MaxResultsCeiling:
		return s.config.MaxResultsCeiling, nil
	default:
		return n, nil
	}
}

// GraphStatistics returns the decoder-provided statistics of g, or computes
// total_nodes, total_edges and node_types when none were provided.
func GraphStatistics(g *decoder.Graph) map[string]any {
	if g == nil {
		return map[string]any{"total_nodes": 0, "total_edges": 0, "node_types": map[string]int{}}
	}
	if len(g.Statistics) > 0 {
		return g.Statistics
	}
	nodeTypes := make(map[string]int)
	for _, n := range g.Nodes {
		t := n.Type
		if t == "" {
			t = "unknown"
		}
		nodeTypes[t]++
	}
	return map[string]any{
		"total_nodes": len(g.Nodes),
		"total_edges": len(g.Edges),
		"node_types":  nodeTypes,
	}
}
