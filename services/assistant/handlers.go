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
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AleutianAI/ArchAssist/services/assistant/decoder"
	"github.com/AleutianAI/ArchAssist/services/assistant/telemetry"
)

// Handlers contains the HTTP handlers for the assistant.
type Handlers struct {
	svc     *Service
	metrics http.Handler
	logger  *slog.Logger
}

// NewHandlers creates handlers for the given service.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc, logger: svc.logger}
}

// WithMetrics sets the handler served at GET /metrics.
func (h *Handlers) WithMetrics(handler http.Handler) *Handlers {
	h.metrics = handler
	return h
}

// HandleQuery handles POST /api/v1/ai/query.
//
// Description:
//
//	Answers a natural-language question about a repository. Decoder outages
//	degrade the answer but still return 200 with warnings.
//
// Request Body:
//
//	QueryRequest
//
// Response:
//
//	200 OK: QueryResponse
//	400 Bad Request: Validation error
//	500 Internal Server Error: Processing error
func (h *Handlers) HandleQuery(c *gin.Context) {
	logger := h.requestLogger(c, "HandleQuery")

	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  CodeInvalidRequest,
		})
		return
	}

	resp, err := h.svc.Query(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleRefactorAnalysis handles POST /api/v1/ai/refactor-analysis.
//
// Response:
//
//	200 OK: RefactorResponse
//	400 Bad Request: Validation error
//	500 Internal Server Error: Processing error
func (h *Handlers) HandleRefactorAnalysis(c *gin.Context) {
	logger := h.requestLogger(c, "HandleRefactorAnalysis")

	var req RefactorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  CodeInvalidRequest,
		})
		return
	}

	resp, err := h.svc.RefactorAnalysis(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, logger, err)
		return
	}
	logger.Info("Refactor analysis complete",
		"risk_level", string(resp.RiskLevel),
		"affected_functions", len(resp.ImpactAnalysis.AffectedFunctions))
	c.JSON(http.StatusOK, resp)
}

// HandleClassify handles POST /api/v1/ai/classify.
func (h *Handlers) HandleClassify(c *gin.Context) {
	logger := h.requestLogger(c, "HandleClassify")

	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  CodeInvalidRequest,
		})
		return
	}

	resp, err := h.svc.Classify(c.Request.Context(), req.Query)
	if err != nil {
		h.writeError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleRepositories handles GET /api/v1/repositories.
//
// Response:
//
//	200 OK: []decoder.Repository
//	502 Bad Gateway: Decoder unavailable
func (h *Handlers) HandleRepositories(c *gin.Context) {
	logger := h.requestLogger(c, "HandleRepositories")

	repos, err := h.svc.Repositories(c.Request.Context())
	if err != nil {
		logger.Error("Failed to fetch repositories", "error", err)
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error: "Failed to fetch repositories: " + err.Error(),
			Code:  CodeUpstreamUnavailable,
		})
		return
	}
	c.JSON(http.StatusOK, repos)
}

// HandleHealth handles GET /health. Always returns 200 if running.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Health())
}

// HandleReady handles GET /ready.
//
// Response:
//
//	200 OK: ReadyResponse (Ready=true) - decoder reachable
//	503 Service Unavailable: ReadyResponse (Ready=false)
func (h *Handlers) HandleReady(c *gin.Context) {
	if err := h.svc.Ready(c.Request.Context()); err != nil {
		c.Header("Retry-After", "10")
		c.JSON(http.StatusServiceUnavailable, ReadyResponse{
			Ready:   false,
			Decoder: "unavailable",
			Error:   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, ReadyResponse{Ready: true, Decoder: "ok"})
}

func (h *Handlers) writeError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case IsInvalid(err):
		logger.Warn("Rejected request", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeInvalidRequest})
	case errors.Is(err, decoder.ErrUpstreamUnavailable):
		logger.Error("Decoder unavailable", "error", err)
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error(), Code: CodeUpstreamUnavailable})
	default:
		logger.Error("Request failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: CodeInternal})
	}
}

func (h *Handlers) requestLogger(c *gin.Context, handler string) *slog.Logger {
	requestID := getOrCreateRequestID(c)
	return telemetry.LoggerWithTrace(c.Request.Context(), h.logger).
		With("request_id", requestID, "handler", handler)
}

// getOrCreateRequestID returns the X-Request-ID header, generating one when
// absent, and echoes it on the response.
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}
