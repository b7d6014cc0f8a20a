// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package evidence

import (
	"context"
	"log/slog"
	"strings"

	"github.com/AleutianAI/AleutianVerify/services/engine/types"
)

// semanticSliceLen is how much of each document the semantic tier
// embeds. Leading content carries the document's subject matter; full
// documents blow past embedding model input limits.
const semanticSliceLen = 1500

// snippetLen bounds the matched-snippet excerpt stored on a match.
const snippetLen = 120

// Semantic confidence boost curve. The breakpoints are a calibration
// choice carried over from production tuning; treat them as tunable
// constants, not domain law.
const (
	semanticStrongSim = 0.75
	semanticMidSim    = 0.60
	semanticWeakSim   = 0.45
)

// Fuzzy tier thresholds (token-set ratio, 0-100).
const (
	fuzzyStrongRatio = 70
	fuzzyMidRatio    = 50
	fuzzyWeakRatio   = 35
)

// Lexical-overlap tier thresholds.
const (
	overlapStrong = 0.60
	overlapMid    = 0.40
	overlapWeak   = 0.25
)

// Matcher finds the best evidentiary support for each claim.
//
// # Description
//
// For every claim, Matcher walks all supporting documents applying the
// strategy chain exact -> semantic -> fuzzy -> lexical overlap and keeps
// the highest-confidence match, ties broken by strategy strength. An
// exact substring hit short-circuits immediately since nothing can beat
// confidence 1.0.
//
// The semantic tier runs only while the embedding backend is healthy:
// the first backend error disables it for the remainder of the call, and
// matching falls through to the local tiers. This is a correctness
// requirement, not an optimization; verification must complete with the
// backend fully down.
//
// # Thread Safety
//
// Matcher is stateless between calls and safe for concurrent use.
type Matcher struct {
	embedder Embedder
}

// NewMatcher creates a Matcher. A nil embedder disables the semantic
// tier; fuzzy matching takes its place.
func NewMatcher(embedder Embedder) *Matcher {
	return &Matcher{embedder: embedder}
}

// MatchAll matches every claim against the document set. Results are
// positionally aligned with the input claims.
func (m *Matcher) MatchAll(ctx context.Context, claims []types.Claim, docs []types.SupportingDocument) []types.EvidenceMatch {
	out := make([]types.EvidenceMatch, 0, len(claims))

	// Per-call state: embeddings computed once per document slice, and
	// a sticky flag that turns the semantic tier off on first failure.
	session := &matchSession{
		docVectors:      make(map[string][]float32, len(docs)),
		semanticEnabled: m.embedder != nil,
	}

	for _, claim := range claims {
		select {
		case <-ctx.Done():
			// Remaining claims are reported unmatched rather than
			// dropped, keeping positional alignment.
			out = append(out, noMatch(claim))
			continue
		default:
		}
		out = append(out, m.matchClaim(ctx, claim, docs, session))
	}
	return out
}

type matchSession struct {
	claimVector     []float32
	docVectors      map[string][]float32
	semanticEnabled bool
}

func noMatch(claim types.Claim) types.EvidenceMatch {
	return types.EvidenceMatch{
		ClaimText:  claim.Text,
		Matched:    false,
		MatchType:  types.MatchNone,
		Confidence: 0,
	}
}

// matchClaim returns the single best match for one claim across all
// documents.
func (m *Matcher) matchClaim(ctx context.Context, claim types.Claim, docs []types.SupportingDocument, s *matchSession) types.EvidenceMatch {
	best := noMatch(claim)
	s.claimVector = nil // claim embedding is computed lazily per claim

	for i := range docs {
		doc := &docs[i]

		// Tier 1: exact, case-insensitive substring. Unbeatable.
		if match, ok := exactMatch(claim, doc); ok {
			return match
		}

		var candidate types.EvidenceMatch
		var found bool
		if s.semanticEnabled {
			candidate, found = m.semanticMatch(ctx, claim, doc, s)
		} else {
			candidate, found = fuzzyMatch(claim, doc)
		}
		if !found {
			candidate, found = overlapMatch(claim, doc)
		}
		if found && better(candidate, best) {
			best = candidate
		}
	}
	return best
}

// better reports whether a beats b on confidence, ties broken by
// strategy strength.
func better(a, b types.EvidenceMatch) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	return types.Stronger(a.MatchType, b.MatchType)
}

// ===== Tier 1: Exact =====

func exactMatch(claim types.Claim, doc *types.SupportingDocument) (types.EvidenceMatch, bool) {
	lowerContent := strings.ToLower(doc.Content)
	lowerClaim := strings.ToLower(strings.TrimSpace(claim.Text))
	idx := strings.Index(lowerContent, lowerClaim)
	if idx < 0 {
		return types.EvidenceMatch{}, false
	}
	return types.EvidenceMatch{
		ClaimText:      claim.Text,
		Matched:        true,
		SourceID:       doc.ID,
		SourceName:     doc.Source,
		MatchedSnippet: snippetAround(doc.Content, idx, len(lowerClaim)),
		MatchType:      types.MatchExact,
		Confidence:     1.0,
	}, true
}

func snippetAround(content string, idx, matchLen int) string {
	start := idx
	end := idx + matchLen
	if end-start < snippetLen {
		pad := (snippetLen - (end - start)) / 2
		start -= pad
		end += pad
	}
	if start < 0 {
		start = 0
	}
	if end > len(content) {
		end = len(content)
	}
	return content[start:end]
}

// ===== Tier 2: Semantic =====

// semanticMatch embeds the claim and the document's leading slice and
// maps cosine similarity through the confidence boost curve:
//
//	sim >= 0.75 -> confidence 0.92..1.00  (SEMANTIC)
//	sim >= 0.60 -> confidence 0.80..0.92  (PARTIAL)
//	sim >= 0.45 -> confidence 0.50..0.80  (PARTIAL)
//	otherwise   -> no match
func (m *Matcher) semanticMatch(ctx context.Context, claim types.Claim, doc *types.SupportingDocument, s *matchSession) (types.EvidenceMatch, bool) {
	if s.claimVector == nil {
		vec, err := m.embedder.Embed(ctx, claim.Text)
		if err != nil {
			m.disableSemantic(s, err)
			return fuzzyMatch(claim, doc)
		}
		s.claimVector = vec
	}

	docVec, ok := s.docVectors[doc.ID]
	if !ok {
		slice := doc.Content
		if len(slice) > semanticSliceLen {
			slice = slice[:semanticSliceLen]
		}
		vec, err := m.embedder.Embed(ctx, slice)
		if err != nil {
			m.disableSemantic(s, err)
			return fuzzyMatch(claim, doc)
		}
		docVec = vec
		s.docVectors[doc.ID] = docVec
	}

	sim := CosineSimilarity(s.claimVector, docVec)

	var conf float64
	var matchType types.MatchType
	switch {
	case sim >= semanticStrongSim:
		conf = 0.92 + (sim-semanticStrongSim)*0.32
		matchType = types.MatchSemantic
	case sim >= semanticMidSim:
		conf = 0.80 + (sim-semanticMidSim)*0.80
		matchType = types.MatchPartial
	case sim >= semanticWeakSim:
		conf = 0.50 + (sim-semanticWeakSim)*2.0
		matchType = types.MatchPartial
	default:
		return types.EvidenceMatch{}, false
	}
	if conf > 1.0 {
		conf = 1.0
	}

	return types.EvidenceMatch{
		ClaimText:      claim.Text,
		Matched:        true,
		SourceID:       doc.ID,
		SourceName:     doc.Source,
		MatchedSnippet: snippetAround(doc.Content, 0, 0),
		MatchType:      matchType,
		Confidence:     conf,
	}, true
}

// disableSemantic turns the semantic tier off for the rest of the call.
// No retry: the fallback must be immediate and permanent so the call
// completes within local-computation time.
func (m *Matcher) disableSemantic(s *matchSession, err error) {
	if s.semanticEnabled {
		slog.Warn("embedding backend unavailable, downgrading to fuzzy matching", "error", err)
		s.semanticEnabled = false
	}
}

// ===== Tier 3: Fuzzy =====

// fuzzyMatch scores the claim against the document with a token-set
// ratio. Used only when the semantic tier is unavailable.
func fuzzyMatch(claim types.Claim, doc *types.SupportingDocument) (types.EvidenceMatch, bool) {
	score := TokenSetRatio(claim.Text, doc.Content)

	var conf float64
	var matchType types.MatchType
	switch {
	case score >= fuzzyStrongRatio:
		conf = minFloat(0.9, float64(score)/100)
		matchType = types.MatchFuzzy
	case score >= fuzzyMidRatio:
		conf = minFloat(0.85, float64(score)/100)
		matchType = types.MatchPartial
	case score >= fuzzyWeakRatio:
		conf = 0.6
		matchType = types.MatchPartial
	default:
		return types.EvidenceMatch{}, false
	}

	return types.EvidenceMatch{
		ClaimText:      claim.Text,
		Matched:        true,
		SourceID:       doc.ID,
		SourceName:     doc.Source,
		MatchedSnippet: snippetAround(doc.Content, 0, 0),
		MatchType:      matchType,
		Confidence:     conf,
	}, true
}

// ===== Tier 4: Lexical overlap =====

// overlapMatch is the last-resort tier: stop-word-filtered token overlap
// between claim and document.
func overlapMatch(claim types.Claim, doc *types.SupportingDocument) (types.EvidenceMatch, bool) {
	overlap := LexicalOverlap(claim.Text, doc.Content)

	var conf float64
	switch {
	case overlap >= overlapStrong:
		conf = 0.85
	case overlap >= overlapMid:
		conf = 0.70
	case overlap >= overlapWeak:
		conf = 0.55
	default:
		return types.EvidenceMatch{}, false
	}

	return types.EvidenceMatch{
		ClaimText:      claim.Text,
		Matched:        true,
		SourceID:       doc.ID,
		SourceName:     doc.Source,
		MatchedSnippet: snippetAround(doc.Content, 0, 0),
		MatchType:      types.MatchPartial,
		Confidence:     conf,
	}, true
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
