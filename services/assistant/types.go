// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package assistant

import (
	"github.com/AleutianAI/ArchAssist/services/assistant/bundle"
	"github.com/AleutianAI/ArchAssist/services/assistant/decoder"
	"github.com/AleutianAI/ArchAssist/services/assistant/impact"
	"github.com/AleutianAI/ArchAssist/services/assistant/intent"
	"github.com/AleutianAI/ArchAssist/services/assistant/related"
)

// =============================================================================
// Request Types
// =============================================================================

// QueryRequest is the request body for POST /api/v1/ai/query.
type QueryRequest struct {
	// RepositoryID is the decoder repository to query (required).
	RepositoryID string `json:"repository_id" binding:"required"`

	// Query is the natural-language question (required).
	Query string `json:"query" binding:"required"`

	// MaxResults caps sources per domain. Default: 10, clamped to the
	// configured ceiling.
	MaxResults int `json:"max_results"`

	// IncludeGraph attaches the repository graph to the response.
	IncludeGraph bool `json:"include_graph"`

	// NoLLM answers with the deterministic summary only.
	NoLLM bool `json:"no_llm,omitempty"`
}

// RefactorRequest is the request body for POST /api/v1/ai/refactor-analysis.
type RefactorRequest struct {
	// RepositoryID is the decoder repository (required).
	RepositoryID string `json:"repository_id" binding:"required"`

	// TargetElements are the code element ids being changed (required).
	TargetElements []string `json:"target_elements" binding:"required,min=1"`

	// ProposedChanges describes the change in free text.
	ProposedChanges string `json:"proposed_changes"`

	// NoLLM skips AI recommendations.
	NoLLM bool `json:"no_llm,omitempty"`
}

// ClassifyRequest is the request body for POST /api/v1/ai/classify.
type ClassifyRequest struct {
	Query string `json:"query" binding:"required"`
}

// =============================================================================
// Response Types
// =============================================================================

// QueryResponse answers a QueryRequest.
type QueryResponse struct {
	Answer          string           `json:"answer"`
	Sources         []bundle.Source  `json:"sources"`
	GraphContext    *GraphContext    `json:"graph_context"`
	RelatedEntities related.Entities `json:"related_entities"`
	Intent          intent.Intent    `json:"intent"`

	// Classification carries the topics and entities behind Intent.
	Classification intent.Classification `json:"classification"`

	// Repository is the repository the answer is about.
	Repository decoder.Repository `json:"repository"`

	// LLMUsed is true when Answer was generated by the LLM.
	LLMUsed bool `json:"llm_used"`

	Warnings []string `json:"warnings,omitempty"`
}

// GraphContext is the repository graph with summary statistics.
type GraphContext struct {
	Statistics map[string]any      `json:"statistics"`
	Nodes      []decoder.GraphNode `json:"nodes"`
	Edges      []decoder.GraphEdge `json:"edges"`
}

// RefactorResponse answers a RefactorRequest.
type RefactorResponse struct {
	ImpactAnalysis    *impact.Report   `json:"impact_analysis"`
	AIRecommendations *string          `json:"ai_recommendations"`
	RiskLevel         impact.RiskLevel `json:"risk_level"`
	Recommendations   []string         `json:"recommendations"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status        string `json:"status"`
	Service       string `json:"service"`
	Version       string `json:"version"`
	DecoderURL    string `json:"decoder_url"`
	LLMConfigured bool   `json:"llm_configured"`
}

// ReadyResponse is returned by GET /ready.
type ReadyResponse struct {
	Ready   bool   `json:"ready"`
	Decoder string `json:"decoder"`
	Error   string `json:"error,omitempty"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the error message.
	Error string `json:"error"`

	// Code is the error code.
	Code string `json:"code,omitempty"`
}
