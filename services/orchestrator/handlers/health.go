// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health creates a gin handler for GET /health.
//
// The service itself has no hard dependencies, so the endpoint always
// returns 200; optional checkers (embedding backend) are reported in
// the body so operators can see degraded semantic matching.
func Health(checkers map[string]func() error) gin.HandlerFunc {
	return func(c *gin.Context) {
		deps := make(map[string]string, len(checkers))
		for name, check := range checkers {
			if err := check(); err != nil {
				deps[name] = "unavailable: " + err.Error()
			} else {
				deps[name] = "ok"
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"dependencies": deps,
		})
	}
}
