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

// EvaluateRequestBody is the request for POST /v1/evaluate.
//
// # Fields
//
//   - Query: the user question the response answered
//   - Response: the answer text to evaluate
//   - Documents: retrieved source passages; may be empty
//   - Metadata: optional caller context (model, token counts,
//     baseline_response, human feedback scores)
//   - Weights: optional per-dimension weight overrides
//   - Jurisdiction: RTI, UK_GDPR, or EU_AI_ACT; unknown values fall
//     back to RTI
type EvaluateRequestBody struct {
	Query        string             `json:"query" binding:"required"`
	Response     string             `json:"response" binding:"required"`
	Documents    []DocumentPayload  `json:"documents" binding:"omitempty,dive"`
	Metadata     map[string]any     `json:"metadata"`
	Weights      map[string]float64 `json:"weights"`
	Jurisdiction string             `json:"jurisdiction"`
}

// Evaluate creates a gin handler for POST /v1/evaluate.
//
// # Description
//
// Runs the full evaluation: claim verification plus all nine quality
// dimensions, aggregated to one overall score. Validation failures
// return 400; everything else returns 200 with the evaluation result.
func Evaluate(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "Evaluate.handler")
		defer span.End()

		var body EvaluateRequestBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var weights types.WeightSet
		if len(body.Weights) > 0 {
			weights = types.WeightSet(body.Weights)
		}

		result, err := eng.Evaluate(ctx, engine.EvaluateRequest{
			Query:        body.Query,
			Response:     body.Response,
			Documents:    toDocuments(body.Documents),
			Metadata:     body.Metadata,
			Weights:      weights,
			Jurisdiction: types.ParseJurisdiction(body.Jurisdiction),
		})
		if err != nil {
			if errors.Is(err, types.ErrInvalidInput) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			slog.Error("Evaluation failed", "error", err)
			span.RecordError(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "evaluation failed"})
			return
		}

		span.SetAttributes(
			attribute.String("evaluation.id", result.EvaluationID),
			attribute.Float64("evaluation.overall_score", result.OverallScore),
		)
		c.JSON(http.StatusOK, result)
	}
}
