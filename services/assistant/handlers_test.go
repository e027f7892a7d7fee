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
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/ArchAssist/services/assistant/decoder/decodertest"
)

func init() {
	// Set Gin to test mode to reduce noise
	gin.SetMode(gin.TestMode)
}

func setupTestRouter(t *testing.T, fake *decodertest.Fake) *gin.Engine {
	t.Helper()
	router := gin.New()
	handlers := NewHandlers(newService(t, fake)).
		WithMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("# metrics\n"))
		}))
	RegisterRoutes(router.Group(""), handlers)
	return router
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandlers_HandleHealth(t *testing.T) {
	router := setupTestRouter(t, newFixture())

	w := doJSON(router, "GET", "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("expected status 'ok', got %q", resp.Status)
	}
	if resp.Version != ServiceVersion {
		t.Errorf("expected version %q, got %q", ServiceVersion, resp.Version)
	}
	if resp.LLMConfigured {
		t.Error("expected llm_configured=false")
	}
}

func TestHandlers_HandleReady(t *testing.T) {
	fake := newFixture()
	router := setupTestRouter(t, fake)

	if w := doJSON(router, "GET", "/ready", nil); w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	fake.Fail(decodertest.OpHealth)
	w := doJSON(router, "GET", "/ready", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, w.Code)
	}
	var resp ReadyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Ready {
		t.Error("expected Ready=false")
	}
}

func TestHandlers_HandleQuery(t *testing.T) {
	router := setupTestRouter(t, newFixture())

	w := doJSON(router, "POST", "/api/v1/ai/query", map[string]any{
		"repository_id": testRepo,
		"query":         "what services are used",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID response header")
	}

	var resp struct {
		Answer  string           `json:"answer"`
		Intent  string           `json:"intent"`
		Sources []map[string]any `json:"sources"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Intent != "list_services" {
		t.Errorf("expected intent list_services, got %q", resp.Intent)
	}
	if len(resp.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(resp.Sources))
	}
	if resp.Sources[0]["type"] != "service" {
		t.Errorf("expected source type service, got %v", resp.Sources[0]["type"])
	}
}

func TestHandlers_HandleQuery_InvalidRequest(t *testing.T) {
	router := setupTestRouter(t, newFixture())

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing repository", map[string]any{"query": "what services"}},
		{"empty repository", map[string]any{"repository_id": "", "query": "what services"}},
		{"whitespace repository", map[string]any{"repository_id": "   ", "query": "what services"}},
		{"missing query", map[string]any{"repository_id": testRepo}},
		{"negative max results", map[string]any{"repository_id": testRepo, "query": "q", "max_results": -3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(router, "POST", "/api/v1/ai/query", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
			}
			var resp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if resp.Code != CodeInvalidRequest {
				t.Errorf("expected code %s, got %s", CodeInvalidRequest, resp.Code)
			}
		})
	}
}

func TestHandlers_HandleQuery_DecoderDownStill200(t *testing.T) {
	fake := newFixture().Fail(decodertest.OpRepository, decodertest.OpServices)
	router := setupTestRouter(t, fake)

	w := doJSON(router, "POST", "/api/v1/ai/query", map[string]any{
		"repository_id": testRepo,
		"query":         "what services are used",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var raw struct {
		Sources  []any    `json:"sources"`
		Warnings []string `json:"warnings"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(raw.Sources) != 0 {
		t.Errorf("expected no sources, got %d", len(raw.Sources))
	}
	if len(raw.Warnings) != 2 {
		t.Errorf("expected 2 warnings, got %v", raw.Warnings)
	}
}

func TestHandlers_HandleRefactorAnalysis(t *testing.T) {
	router := setupTestRouter(t, newFixture())

	w := doJSON(router, "POST", "/api/v1/ai/refactor-analysis", map[string]any{
		"repository_id":    testRepo,
		"target_elements":  []string{"f1"},
		"proposed_changes": "rename",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var resp struct {
		RiskLevel         string  `json:"risk_level"`
		AIRecommendations *string `json:"ai_recommendations"`
		ImpactAnalysis    struct {
			AffectedFunctions []map[string]any `json:"affected_functions"`
		} `json:"impact_analysis"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.RiskLevel != "low" {
		t.Errorf("expected risk low, got %q", resp.RiskLevel)
	}
	if resp.AIRecommendations != nil {
		t.Error("expected null ai_recommendations without an LLM")
	}
	if len(resp.ImpactAnalysis.AffectedFunctions) != 1 {
		t.Errorf("expected 1 affected function, got %d", len(resp.ImpactAnalysis.AffectedFunctions))
	}
}

func TestHandlers_HandleRefactorAnalysis_EmptyTargets(t *testing.T) {
	router := setupTestRouter(t, newFixture())

	w := doJSON(router, "POST", "/api/v1/ai/refactor-analysis", map[string]any{
		"repository_id":   testRepo,
		"target_elements": []string{},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestHandlers_HandleClassify(t *testing.T) {
	router := setupTestRouter(t, newFixture())

	w := doJSON(router, "POST", "/api/v1/ai/classify", map[string]any{"query": "list all dependencies"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var resp struct {
		Intent string `json:"intent"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Intent != "find_dependencies" {
		t.Errorf("expected find_dependencies, got %q", resp.Intent)
	}
}

func TestHandlers_HandleRepositories(t *testing.T) {
	fake := newFixture()
	router := setupTestRouter(t, fake)

	w := doJSON(router, "GET", "/api/v1/repositories", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	fake.Fail(decodertest.OpRepositories)
	w = doJSON(router, "GET", "/api/v1/repositories", nil)
	if w.Code != http.StatusBadGateway {
		t.Errorf("expected status %d, got %d", http.StatusBadGateway, w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Code != CodeUpstreamUnavailable {
		t.Errorf("expected code %s, got %s", CodeUpstreamUnavailable, resp.Code)
	}
}

func TestHandlers_RequestIDEchoed(t *testing.T) {
	router := setupTestRouter(t, newFixture())

	body, _ := json.Marshal(map[string]any{"query": "what tools"})
	req, _ := http.NewRequest("POST", "/api/v1/ai/classify", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "req-123" {
		t.Errorf("expected X-Request-ID req-123, got %q", got)
	}
}

func TestHandlers_Metrics(t *testing.T) {
	router := setupTestRouter(t, newFixture())

	w := doJSON(router, "GET", "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}
