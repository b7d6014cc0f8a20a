// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AleutianAI/AleutianVerify/pkg/extensions"
	"github.com/AleutianAI/AleutianVerify/services/engine"
	"github.com/AleutianAI/AleutianVerify/services/orchestrator/handlers"
	"github.com/AleutianAI/AleutianVerify/services/orchestrator/middleware"
)

// SetupRoutes registers all HTTP routes on the router.
//
// Health and metrics are unauthenticated; the /v1 API group runs behind
// the auth and audit middleware (no-op implementations in the open
// source build).
func SetupRoutes(router *gin.Engine, eng *engine.Engine,
	authProvider extensions.AuthProvider, auditLogger extensions.AuditLogger,
	healthChecks map[string]func() error) {

	router.GET("/health", handlers.Health(healthChecks))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1 group
	v1 := router.Group("/v1")
	v1.Use(middleware.AuthMiddleware(authProvider))
	v1.Use(middleware.AuditMiddleware(auditLogger))
	{
		v1.POST("/evaluate", handlers.Evaluate(eng))
		v1.POST("/verify", handlers.Verify(eng))
	}
}
