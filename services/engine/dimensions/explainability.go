// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package dimensions

import (
	"context"
	"regexp"
	"strings"

	"github.com/AleutianAI/AleutianVerify/services/engine/normalize"
	"github.com/AleutianAI/AleutianVerify/services/engine/types"
)

// Explainability scores how clearly the response cites, explains, and
// signals its own certainty.
type Explainability struct{}

func (Explainability) Name() string { return types.DimExplainability }

var explCitationPatterns = []struct {
	re     *regexp.Regexp
	weight float64
}{
	{regexp.MustCompile(`(according to|as per|based on)\s+[\w\s]+`), 0.3},
	{regexp.MustCompile(`(source|reference):\s*[\w\s]+`), 0.3},
	{regexp.MustCompile(`(section|page|paragraph)\s*\d+`), 0.2},
	{regexp.MustCompile(`\d{4}[-–]\d{2,4}`), 0.1},
}

var reasoningPatterns = []string{
	"because", "therefore", "this is because", "the reason", "this shows",
	"which means", "as a result", "consequently", "based on this",
}

var stepPattern = regexp.MustCompile(`(first|second|third|finally|step)`)

var highConfPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(according to|as stated in|confirmed in)`),
	regexp.MustCompile(`(specifically|precisely|exactly)`),
	regexp.MustCompile(`(official|verified|documented)`),
}

var lowConfPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(approximately|about|around|roughly)`),
	regexp.MustCompile(`(may|might|could|possibly)`),
	regexp.MustCompile(`(unclear|uncertain|not confirmed)`),
	regexp.MustCompile(`(estimate|approximately)`),
}

func (d Explainability) Compute(_ context.Context, in *Input) []types.MetricResult {
	citation := citationClarity(in.Response, in.Documents)
	clarity := clarityScore(in.Response)
	reasoning := reasoningTransparency(in.Response)
	confidence := confidenceIndication(in.Response, in.Metadata)

	return []types.MetricResult{
		{
			Name:            "source_citation_score",
			Dimension:       d.Name(),
			RawValue:        citation,
			NormalizedScore: normalize.Linear(citation, 0, 1, false),
			Explanation:     "How clearly the response cites its sources",
		},
		{
			Name:            "response_clarity",
			Dimension:       d.Name(),
			RawValue:        clarity,
			NormalizedScore: normalize.Linear(clarity, 0, 1, false),
			Explanation:     "Clarity and readability of the response",
		},
		{
			Name:            "reasoning_transparency",
			Dimension:       d.Name(),
			RawValue:        reasoning,
			NormalizedScore: normalize.Linear(reasoning, 0, 1, false),
			Explanation:     "Presence of reasoning/explanation in response",
		},
		{
			Name:            "confidence_indicator",
			Dimension:       d.Name(),
			RawValue:        confidence,
			NormalizedScore: normalize.Linear(confidence, 0, 1, false),
			Explanation:     "Presence of confidence/certainty indicators",
		},
	}
}

func citationClarity(response string, docs []types.SupportingDocument) float64 {
	lower := strings.ToLower(response)
	var score float64
	for _, p := range explCitationPatterns {
		if p.re.MatchString(lower) {
			score += p.weight
		}
	}
	for _, doc := range docs {
		if doc.Source == "" {
			continue
		}
		name := strings.NewReplacer(".pdf", "", ".xlsx", "").Replace(strings.ToLower(doc.Source))
		if strings.Contains(lower, name) {
			score += 0.2
		}
	}
	return clamp01(score)
}

// clarityScore rewards multi-sentence structure, readable sentence
// length, specific figures, bullet points, and restrained vocabulary.
func clarityScore(response string) float64 {
	var score float64

	var sentences []string
	for _, s := range groundingSentenceSplit.Split(response, -1) {
		if t := strings.TrimSpace(s); t != "" {
			sentences = append(sentences, t)
		}
	}
	if len(sentences) >= 2 {
		score += 0.2
	}

	totalWords := 0
	for _, s := range sentences {
		totalWords += len(strings.Fields(s))
	}
	denom := len(sentences)
	if denom == 0 {
		denom = 1
	}
	avgLen := float64(totalWords) / float64(denom)
	switch {
	case avgLen >= 10 && avgLen <= 25:
		score += 0.3
	case avgLen >= 5 && avgLen <= 35:
		score += 0.15
	}

	if regexp.MustCompile(`[\d₹$€]`).MatchString(response) {
		score += 0.2
	}
	if regexp.MustCompile(`[•\-*]\s`).MatchString(response) {
		score += 0.15
	}

	words := strings.Fields(response)
	complexWords := 0
	for _, w := range words {
		if len(w) > 12 {
			complexWords++
		}
	}
	wordDenom := len(words)
	if wordDenom == 0 {
		wordDenom = 1
	}
	if float64(complexWords)/float64(wordDenom) < 0.1 {
		score += 0.15
	}

	return clamp01(score)
}

func reasoningTransparency(response string) float64 {
	lower := strings.ToLower(response)
	var score float64
	for _, p := range reasoningPatterns {
		if strings.Contains(lower, p) {
			score += 0.15
		}
	}
	if stepPattern.MatchString(lower) {
		score += 0.2
	}
	return clamp01(score)
}

// confidenceIndication rewards any explicit certainty signal; even
// acknowledged uncertainty counts toward transparency.
func confidenceIndication(response string, meta map[string]any) float64 {
	lower := strings.ToLower(response)
	var score float64

	for _, p := range highConfPatterns {
		if p.MatchString(lower) {
			score += 0.5
			break
		}
	}
	for _, p := range lowConfPatterns {
		if p.MatchString(lower) {
			score += 0.3
			break
		}
	}
	if meta != nil {
		if _, ok := meta["confidence"]; ok {
			score += 0.2
		} else if _, ok := meta["confidence_score"]; ok {
			score += 0.2
		}
	}
	return clamp01(score)
}
