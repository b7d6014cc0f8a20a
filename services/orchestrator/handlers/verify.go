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
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/AleutianVerify/services/engine"
	"github.com/AleutianAI/AleutianVerify/services/engine/types"
)

// VerifyRequestBody is the request for POST /v1/verify.
type VerifyRequestBody struct {
	Response  string            `json:"response" binding:"required"`
	Documents []DocumentPayload `json:"documents" binding:"omitempty,dive"`
}

// Verify creates a gin handler for POST /v1/verify.
//
// # Description
//
// Runs claim verification alone: extract claims from the response,
// match them against the supplied documents, and report hallucination
// findings with a verification score. Useful when the caller wants the
// grounding verdict without the full nine-dimension evaluation.
func Verify(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "Verify.handler")
		defer span.End()

		var body VerifyRequestBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		report, err := eng.Verify(ctx, body.Response, toDocuments(body.Documents))
		if err != nil {
			if errors.Is(err, types.ErrInvalidInput) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			slog.Error("Verification failed", "error", err)
			span.RecordError(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "verification failed"})
			return
		}

		span.SetAttributes(
			attribute.Int("verification.total_claims", report.TotalClaims),
			attribute.Int("verification.hallucinated_claims", report.HallucinatedClaims),
			attribute.Float64("verification.score", report.VerificationScore),
		)
		c.JSON(http.StatusOK, report)
	}
}
