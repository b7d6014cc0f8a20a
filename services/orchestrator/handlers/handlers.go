// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers provides HTTP request handlers for the verification
// service.
//
// Handlers are gin handler factories: each takes its dependencies (the
// engine) and returns a gin.HandlerFunc, which keeps the wiring
// explicit and the handlers trivially testable with httptest.
package handlers

import (
	"go.opentelemetry.io/otel"

	"github.com/AleutianAI/AleutianVerify/services/engine/types"
)

var tracer = otel.Tracer("aleutian.verify.handlers")

// DocumentPayload is the wire form of one supporting document.
type DocumentPayload struct {
	ID              string  `json:"id"`
	Source          string  `json:"source"`
	Content         string  `json:"content" binding:"required"`
	Page            int     `json:"page"`
	SimilarityScore float64 `json:"similarity_score"`
}

func toDocuments(payloads []DocumentPayload) []types.SupportingDocument {
	docs := make([]types.SupportingDocument, len(payloads))
	for i, p := range payloads {
		docs[i] = types.SupportingDocument{
			ID:              p.ID,
			Source:          p.Source,
			Content:         p.Content,
			Page:            p.Page,
			SimilarityScore: p.SimilarityScore,
		}
	}
	return docs
}
