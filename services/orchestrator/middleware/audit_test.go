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
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianVerify/pkg/extensions"
)

// recordingAuditLogger captures events for assertions.
type recordingAuditLogger struct {
	mu     sync.Mutex
	events []extensions.AuditEvent
}

func (l *recordingAuditLogger) Log(_ context.Context, event extensions.AuditEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
	return nil
}

func (l *recordingAuditLogger) Flush(_ context.Context) error { return nil }

func auditTestRouter(logger extensions.AuditLogger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	v1 := router.Group("/v1")
	v1.Use(AuthMiddleware(&extensions.NopAuthProvider{}))
	v1.Use(AuditMiddleware(logger))
	v1.POST("/evaluate", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	v1.POST("/verify", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad"})
	})
	return router
}

func TestAuditMiddleware_RecordsSuccess(t *testing.T) {
	logger := &recordingAuditLogger{}
	router := auditTestRouter(logger)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/evaluate", nil))

	require.Len(t, logger.events, 1)
	event := logger.events[0]
	assert.Equal(t, "api.evaluate", event.EventType)
	assert.Equal(t, "evaluate", event.Action)
	assert.Equal(t, "success", event.Outcome)
	assert.Equal(t, "local-user", event.UserID)
	assert.Equal(t, http.StatusOK, event.Metadata["status"])
	assert.False(t, event.Timestamp.IsZero())
}

func TestAuditMiddleware_RecordsFailure(t *testing.T) {
	logger := &recordingAuditLogger{}
	router := auditTestRouter(logger)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/verify", nil))

	require.Len(t, logger.events, 1)
	assert.Equal(t, "api.verify", logger.events[0].EventType)
	assert.Equal(t, "failure", logger.events[0].Outcome)
}

func TestOutcomeForStatus(t *testing.T) {
	cases := map[int]string{
		http.StatusOK:                  "success",
		http.StatusCreated:             "success",
		http.StatusBadRequest:          "failure",
		http.StatusUnauthorized:        "blocked",
		http.StatusForbidden:           "blocked",
		http.StatusInternalServerError: "error",
	}
	for status, want := range cases {
		assert.Equal(t, want, outcomeForStatus(status), "status %d", status)
	}
}
