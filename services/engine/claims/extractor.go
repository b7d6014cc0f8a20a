// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package claims extracts candidate factual claims from response text.
//
// Extraction is deterministic, pattern-based, and side-effect free: the
// same response always yields the same claims in text order. Structured
// claim types (NUMERIC, ENTITY, TEMPORAL, CITATION) are extracted first;
// a sentence falls back to a single ASSERTION claim only when it yields
// no structured claims but still reads as a factual statement.
package claims

import (
	"regexp"
	"sort"
	"strings"

	"github.com/AleutianAI/AleutianVerify/services/engine/types"
)

// ===== Sentence Splitting =====

// sentenceBoundary splits on terminal punctuation followed by whitespace.
var sentenceBoundary = regexp.MustCompile(`[.!?]+\s+`)

// minSentenceLen is the shortest sentence treated as a candidate claim.
// Fragments like "Yes." or "See above." carry no verifiable content.
const minSentenceLen = 10

// ===== Claim Patterns =====

var (
	// numericPattern matches monetary amounts, quantities with Indian
	// units, percentages, and bare multi-digit figures.
	// Examples: "₹18.6 crore", "Rs. 4,500", "$2.3 million", "42%", "1500"
	numericPattern = regexp.MustCompile(
		`(?i)(?:₹|\brs\.?\s*|\$|€|£)\s*[\d,]+(?:\.\d+)?(?:\s*(?:crore|lakh|crores|lakhs|million|billion|trillion|thousand|k|m|bn))?` +
			`|\b[\d,]+(?:\.\d+)?\s*(?:crore|lakh|crores|lakhs|million|billion|trillion|percent)\b` +
			`|\b\d+(?:\.\d+)?\s*%` +
			`|\b\d[\d,]{2,}(?:\.\d+)?\b`)

	// temporalPattern matches fiscal years, calendar years, and
	// month-year references.
	// Examples: "FY22-23", "2022-23", "March 2023", "01/04/2022"
	temporalPattern = regexp.MustCompile(
		`(?i)\bfy\s?\d{2,4}[-–]\d{2,4}\b` +
			`|\b(?:19|20)\d{2}[-–]\d{2,4}\b` +
			`|\b(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+(?:19|20)\d{2}\b` +
			`|\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b` +
			`|\b(?:19|20)\d{2}\b`)

	// citationPattern matches inline source attributions.
	// Examples: "[Source: budget.pdf]", "(Source: annual_report.xlsx)",
	// "according to the Finance Report", "as per audit.pdf"
	citationPattern = regexp.MustCompile(
		`(?i)\[source:\s*([^\]]+)\]` +
			`|\(source:\s*([^)]+)\)` +
			`|(?:according to|as per|as stated in)\s+([\w][\w .\-]{2,60}?)(?:[,;]|\s+(?:the\s+)?(?:response|answer)|$)`)

	// entityPattern matches proper-noun sequences: two or more
	// capitalized tokens, optionally ending in an org suffix.
	// Examples: "Ministry of Finance", "Tata Consultancy Services Ltd"
	entityPattern = regexp.MustCompile(
		`\b[A-Z][a-z]+(?:\s+(?:of|for|and|the)\s+)?(?:\s*[A-Z][a-zA-Z]+)+(?:\s+(?:Ltd|Limited|Inc|Corp|Department|Ministry|Authority|Commission))?\b`)

	// factualIndicator gates the ASSERTION fallback: a sentence with no
	// structured claims is only claim-worthy if it asserts something.
	factualIndicator = regexp.MustCompile(
		`(?i)\b(is|was|are|were|total|totals|totaled|spent|incurred|amounted)\b`)
)

// Extraction confidences per claim type. Structured extractions are more
// trustworthy than the whole-sentence ASSERTION fallback.
const (
	confNumeric   = 0.9
	confEntity    = 0.8
	confTemporal  = 0.95
	confCitation  = 0.85
	confAssertion = 0.6
)

// Extractor splits a response into typed claims.
//
// # Thread Safety
//
// Extractor is stateless and safe for concurrent use.
type Extractor struct{}

// NewExtractor returns a ready Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns all claims found in the response, ordered by their
// start offset in the original text. An empty or fragment-only response
// yields an empty slice, never nil-dereference downstream.
func (e *Extractor) Extract(response string) []types.Claim {
	var out []types.Claim

	for _, seg := range splitSentences(response) {
		if len(strings.TrimSpace(seg.text)) < minSentenceLen {
			continue
		}
		structured := e.extractStructured(seg)
		if len(structured) > 0 {
			out = append(out, structured...)
			continue
		}
		// Fallback: the sentence carries no structured facts but still
		// asserts something checkable.
		if factualIndicator.MatchString(seg.text) {
			out = append(out, types.Claim{
				Text:        strings.TrimSpace(seg.text),
				Type:        types.ClaimAssertion,
				StartOffset: seg.start,
				EndOffset:   seg.start + len(seg.text),
				Confidence:  confAssertion,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartOffset < out[j].StartOffset
	})
	return out
}

type sentence struct {
	text  string
	start int
}

// splitSentences returns sentences with their byte offsets preserved so
// claims can point back into the original response.
func splitSentences(text string) []sentence {
	var out []sentence
	start := 0
	for _, loc := range sentenceBoundary.FindAllStringIndex(text, -1) {
		out = append(out, sentence{text: text[start:loc[0]], start: start})
		start = loc[1]
	}
	if start < len(text) {
		out = append(out, sentence{text: text[start:], start: start})
	}
	return out
}

// extractStructured applies the pattern families in priority order
// NUMERIC, ENTITY, TEMPORAL, CITATION to a single sentence. A sentence
// may yield several overlapping claims of different types.
func (e *Extractor) extractStructured(seg sentence) []types.Claim {
	var out []types.Claim

	for _, loc := range numericPattern.FindAllStringIndex(seg.text, -1) {
		// Years read as plain numbers too; leave them to the temporal
		// family so "2022-23" is typed TEMPORAL, not NUMERIC.
		if temporalPattern.MatchString(seg.text[loc[0]:loc[1]]) {
			continue
		}
		out = append(out, claimAt(seg, loc, types.ClaimNumeric, confNumeric, nil))
	}

	for _, m := range entityPattern.FindAllStringSubmatchIndex(seg.text, -1) {
		ent := seg.text[m[0]:m[1]]
		out = append(out, claimAt(seg, m[:2], types.ClaimEntity, confEntity, []string{ent}))
	}

	for _, loc := range temporalPattern.FindAllStringIndex(seg.text, -1) {
		out = append(out, claimAt(seg, loc, types.ClaimTemporal, confTemporal, nil))
	}

	for _, m := range citationPattern.FindAllStringSubmatchIndex(seg.text, -1) {
		cited := firstGroup(seg.text, m)
		var ents []string
		if cited != "" {
			ents = []string{strings.TrimSpace(cited)}
		}
		out = append(out, claimAt(seg, m[:2], types.ClaimCitation, confCitation, ents))
	}

	return out
}

func claimAt(seg sentence, loc []int, t types.ClaimType, conf float64, entities []string) types.Claim {
	return types.Claim{
		Text:        seg.text[loc[0]:loc[1]],
		Type:        t,
		StartOffset: seg.start + loc[0],
		EndOffset:   seg.start + loc[1],
		Entities:    entities,
		Confidence:  conf,
	}
}

// firstGroup returns the first non-empty capture group of a submatch
// index slice.
func firstGroup(text string, m []int) string {
	for i := 2; i+1 < len(m); i += 2 {
		if m[i] >= 0 {
			return text[m[i]:m[i+1]]
		}
	}
	return ""
}
