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
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all assistant routes with the router.
//
// Description:
//
//	Registers the API and operational endpoints on rg, which should be the
//	root group with any required middleware applied.
//
// Endpoints:
//
//	POST /api/v1/ai/query - Answer a question
//	POST /api/v1/ai/refactor-analysis - Analyze refactoring impact
//	POST /api/v1/ai/classify - Classify a query
//	GET  /api/v1/repositories - List decoder repositories
//	GET  /health - Health check
//	GET  /ready - Readiness check
//	GET  /metrics - Prometheus metrics (when configured)
//
// Example:
//
//	svc, _ := assistant.NewService(assistant.DefaultServiceConfig(), reader)
//	handlers := assistant.NewHandlers(svc)
//	assistant.RegisterRoutes(router.Group(""), handlers)
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	v1 := rg.Group("/api/v1")
	{
		ai := v1.Group("/ai")
		{
			ai.POST("/query", handlers.HandleQuery)
			ai.POST("/refactor-analysis", handlers.HandleRefactorAnalysis)
			ai.POST("/classify", handlers.HandleClassify)
		}

		// Decoder proxy
		v1.GET("/repositories", handlers.HandleRepositories)
	}

	rg.GET("/health", handlers.HandleHealth)
	rg.GET("/ready", handlers.HandleReady)
	if handlers.metrics != nil {
		rg.GET("/metrics", gin.WrapH(handlers.metrics))
	}
}
