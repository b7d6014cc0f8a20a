// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package evidence matches extracted claims against supporting documents
// using a descending-strength strategy chain: exact substring, semantic
// similarity, fuzzy token-set ratio, and lexical overlap.
//
// The semantic tier is the only part of the engine that touches the
// network. It is strictly optional: when no embedding backend is
// configured, or the backend errors once, matching degrades to the local
// tiers for the remainder of the call and still completes.
package evidence

import (
	"context"
	"math"
)

// Embedder produces a dense vector for a piece of text.
//
// # Description
//
// Abstracts the similarity backend used by the semantic match tier.
// Implementations must honor the context deadline and return promptly on
// cancellation; the matcher treats any error as "backend unavailable"
// and does not retry.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use.
type Embedder interface {
	// Embed returns the embedding vector for text.
	Embed(ctx context.Context, text string) ([]float32, error)
}

// CosineSimilarity computes the cosine similarity of two vectors.
//
// Returns 0 for mismatched lengths, empty vectors, or zero-magnitude
// vectors, so callers never divide by zero.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
