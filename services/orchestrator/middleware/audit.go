// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AleutianVerify/pkg/extensions"
)

// AuditMiddleware creates a Gin middleware that records one audit event
// per API request.
//
// # Description
//
// Runs after the handler completes and logs who called which operation
// with what outcome. With NopAuditLogger (the open source default) this
// is free; enterprise builds inject a logger that ships events to their
// SIEM. Audit failures are logged and swallowed - a broken audit sink
// must not fail user requests.
//
// # Thread Safety
//
// The returned middleware is safe for concurrent use.
func AuditMiddleware(logger extensions.AuditLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		userID := "anonymous"
		if info := GetAuthInfo(c); info != nil {
			userID = info.UserID
		}

		action := strings.TrimPrefix(c.FullPath(), "/v1/")
		event := extensions.AuditEvent{
			EventType:    "api." + action,
			Timestamp:    start.UTC(),
			UserID:       userID,
			Action:       action,
			ResourceType: "evaluation",
			Outcome:      outcomeForStatus(c.Writer.Status()),
			Metadata: map[string]any{
				"status":      c.Writer.Status(),
				"duration_ms": time.Since(start).Milliseconds(),
			},
		}

		if err := logger.Log(c.Request.Context(), event); err != nil {
			slog.Warn("audit log failed", "event_type", event.EventType, "error", err)
		}
	}
}

func outcomeForStatus(status int) string {
	switch {
	case status < http.StatusBadRequest:
		return "success"
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return "blocked"
	case status < http.StatusInternalServerError:
		return "failure"
	default:
		return "error"
	}
}
