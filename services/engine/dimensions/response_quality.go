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
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/AleutianAI/AleutianVerify/services/engine/normalize"
	"github.com/AleutianAI/AleutianVerify/services/engine/types"
)

// ResponseQuality scores accuracy, completeness, relevance, their F1
// combination, and a hedging-based confidence level.
type ResponseQuality struct{}

func (ResponseQuality) Name() string { return types.DimResponseQuality }

var (
	figurePattern  = regexp.MustCompile(`[\d₹$€]`)
	datePattern    = regexp.MustCompile(`\d{4}[-–]\d{2,4}`)
	sourcePhrases  = regexp.MustCompile(`(according to|based on|source)`)
	monthOrYear    = regexp.MustCompile(`(\d{4}|january|february|march|april|may|june|july|august|september|october|november|december)`)
	namedOrAcronym = regexp.MustCompile(`[A-Z][a-z]+\s+[A-Z][a-z]+|[A-Z]{2,}`)
	reasonPhrases  = regexp.MustCompile(`(because|therefore|due to|reason)`)
)

var relevanceStopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"what": {}, "how": {}, "when": {}, "where": {}, "why": {}, "which": {},
	"who": {}, "of": {}, "in": {}, "on": {}, "for": {}, "to": {}, "with": {},
	"and": {}, "or": {}, "but": {}, "not": {}, "be": {}, "have": {},
	"has": {}, "had": {}, "do": {}, "does": {}, "did": {},
}

// hedgePatterns flag uncertainty markers. Quantity approximators
// ("about", "around") only count when not immediately followed by a
// number, where they are ordinary measurement language.
var hedgePatterns = []struct {
	re           *regexp.Regexp
	weight       float64
	notBeforeNum bool
}{
	{regexp.MustCompile(`\bmaybe\b`), 1.0, false},
	{regexp.MustCompile(`\bperhaps\b`), 1.0, false},
	{regexp.MustCompile(`\bpossibly\b`), 1.0, false},
	{regexp.MustCompile(`\bmight\b`), 0.8, false},
	{regexp.MustCompile(`\bcould be\b`), 0.8, false},
	{regexp.MustCompile(`\bmay be\b`), 0.8, false},
	{regexp.MustCompile(`\bseems to\b`), 0.9, false},
	{regexp.MustCompile(`\bappears to\b`), 0.9, false},
	{regexp.MustCompile(`\bi guess\b`), 1.0, false},
	{regexp.MustCompile(`\bi think\b`), 0.7, false},
	{regexp.MustCompile(`\bi believe\b`), 0.6, false},
	{regexp.MustCompile(`\bunclear\b`), 1.0, false},
	{regexp.MustCompile(`\bnot sure\b`), 1.0, false},
	{regexp.MustCompile(`\buncertain\b`), 1.0, false},
	{regexp.MustCompile(`\bprobably\b`), 0.7, false},
	{regexp.MustCompile(`\blikely\b`), 0.5, false},
	{regexp.MustCompile(`\bapproximate(?:ly)?\b`), 0.8, true},
	{regexp.MustCompile(`\babout\b`), 0.4, true},
	{regexp.MustCompile(`\baround\b`), 0.4, true},
	{regexp.MustCompile(`\broughly\b`), 0.6, true},
	{regexp.MustCompile(`\bsomewhat\b`), 0.7, false},
	{regexp.MustCompile(`\bsort of\b`), 0.8, false},
	{regexp.MustCompile(`\bkind of\b`), 0.8, false},
	{regexp.MustCompile(`\bmore or less\b`), 0.9, false},
	{regexp.MustCompile(`\bsome say\b`), 0.8, false},
	{regexp.MustCompile(`\bit is said\b`), 0.7, false},
	{regexp.MustCompile(`\breportedly\b`), 0.6, false},
	{regexp.MustCompile(`\ballegedly\b`), 0.9, false},
}

func (d ResponseQuality) Compute(_ context.Context, in *Input) []types.MetricResult {
	accuracy := accuracyScore(in.Response, in.Documents, in.Metadata)
	completeness := completenessScore(in.Query, in.Response)
	relevance := relevanceScore(in.Query, in.Response)
	f1 := f1Score(accuracy, completeness)
	hedgeDensity := hedgingDensity(in.Response)
	confidence := 1.0 - hedgeDensity

	return []types.MetricResult{
		{
			Name:            "accuracy",
			Dimension:       d.Name(),
			RawValue:        accuracy,
			NormalizedScore: normalize.Linear(accuracy, 0, 1, false),
			Explanation:     fmt.Sprintf("Response accuracy: %.0f%%", accuracy*100),
		},
		{
			Name:            "completeness",
			Dimension:       d.Name(),
			RawValue:        completeness,
			NormalizedScore: normalize.Linear(completeness, 0, 1, false),
			Explanation:     fmt.Sprintf("Response completeness: %.0f%%", completeness*100),
		},
		{
			Name:            "relevance",
			Dimension:       d.Name(),
			RawValue:        relevance,
			NormalizedScore: normalize.Linear(relevance, 0, 1, false),
			Explanation:     fmt.Sprintf("Response relevance to query: %.0f%%", relevance*100),
		},
		{
			Name:            "f1_score",
			Dimension:       d.Name(),
			RawValue:        f1,
			NormalizedScore: normalize.Linear(f1, 0, 1, false),
			Explanation:     fmt.Sprintf("F1 score (accuracy/completeness balance): %.2f", f1),
		},
		{
			Name:            "confidence_level",
			Dimension:       d.Name(),
			RawValue:        confidence,
			NormalizedScore: normalize.Linear(confidence, 0, 1, false),
			Explanation:     fmt.Sprintf("Response confidence (hedging density: %.0f%%)", hedgeDensity*100),
		},
	}
}

// accuracyScore prefers the verification pipeline's claim counts from
// metadata; the structural heuristic is the fallback when verification
// produced no claims.
func accuracyScore(response string, docs []types.SupportingDocument, meta map[string]any) float64 {
	if total, ok := metaInt(meta, types.MetaTotalClaims); ok && total > 0 {
		if verified, ok := metaInt(meta, types.MetaVerifiedClaims); ok {
			return clamp01(float64(verified) / float64(total))
		}
	}
	if len(docs) == 0 {
		return 0.5
	}
	var score float64
	if figurePattern.MatchString(response) {
		score += 0.35
	}
	if datePattern.MatchString(response) {
		score += 0.25
	}
	if sourcePhrases.MatchString(strings.ToLower(response)) {
		score += 0.4
	}
	return clamp01(score)
}

// completenessScore infers which aspects the query asks about and
// checks each against the response.
func completenessScore(query, response string) float64 {
	queryLower := strings.ToLower(query)
	responseLower := strings.ToLower(response)
	wordCount := len(strings.Fields(response))

	var aspects []string
	if strings.Contains(queryLower, "what") {
		aspects = append(aspects, "definition")
	}
	if strings.Contains(queryLower, "how much") || strings.Contains(queryLower, "expenditure") || strings.Contains(queryLower, "cost") {
		aspects = append(aspects, "amount")
	}
	if strings.Contains(queryLower, "when") {
		aspects = append(aspects, "time")
	}
	if strings.Contains(queryLower, "who") || strings.Contains(queryLower, "vendor") || strings.Contains(queryLower, "name") {
		aspects = append(aspects, "entities")
	}
	if strings.Contains(queryLower, "why") {
		aspects = append(aspects, "reason")
	}
	if strings.Contains(queryLower, "list") || strings.Contains(queryLower, "all") {
		aspects = append(aspects, "enumeration")
	}
	if len(aspects) == 0 {
		aspects = []string{"information"}
	}

	addressed := 0
	for _, aspect := range aspects {
		switch aspect {
		case "amount":
			if figurePattern.MatchString(response) {
				addressed++
			}
		case "time":
			if monthOrYear.MatchString(responseLower) {
				addressed++
			}
		case "entities":
			if namedOrAcronym.MatchString(response) {
				addressed++
			}
		case "enumeration":
			if strings.Count(response, ",") >= 2 || strings.Count(response, "\n") >= 2 {
				addressed++
			}
		case "definition":
			if wordCount >= 20 {
				addressed++
			}
		case "reason":
			if reasonPhrases.MatchString(responseLower) {
				addressed++
			}
		case "information":
			if wordCount >= 15 {
				addressed++
			}
		}
	}

	score := float64(addressed) / float64(len(aspects))
	if wordCount >= 50 {
		score += 0.1
	}
	return clamp01(score)
}

func relevanceScore(query, response string) float64 {
	responseLower := strings.ToLower(response)

	var keywords []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		w = strings.Trim(w, ".,?!:;")
		if _, stop := relevanceStopWords[w]; stop || w == "" {
			continue
		}
		keywords = append(keywords, w)
	}
	if len(keywords) == 0 {
		return 0.7
	}

	responseWords := make(map[string]struct{})
	for _, w := range strings.Fields(responseLower) {
		responseWords[strings.Trim(w, ".,?!:;")] = struct{}{}
	}

	hits := 0
	var bonus float64
	for _, kw := range keywords {
		if _, ok := responseWords[kw]; ok {
			hits++
		}
		if len(kw) > 4 && strings.Contains(responseLower, kw) {
			bonus += 0.05
		}
	}
	return clamp01(float64(hits)/float64(len(keywords)) + bonus)
}

func f1Score(precision, recall float64) float64 {
	if precision+recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}

// hedgingDensity counts hedge phrases per hundred words, saturating at
// five per hundred.
func hedgingDensity(response string) float64 {
	wordCount := len(strings.Fields(response))
	if wordCount == 0 {
		return 0
	}
	lower := strings.ToLower(response)

	hedges := 0
	for _, p := range hedgePatterns {
		for _, loc := range p.re.FindAllStringIndex(lower, -1) {
			if p.notBeforeNum && followedByNumber(lower, loc[1]) {
				continue
			}
			hedges++
		}
	}

	per100 := float64(hedges) / float64(wordCount) * 100
	density := per100 / 5.0
	if density > 1 {
		density = 1
	}
	return density
}

// followedByNumber reports whether the first non-space rune after pos
// is a digit. RE2 has no lookahead, so the exclusion is done here.
func followedByNumber(s string, pos int) bool {
	for _, r := range s[pos:] {
		if unicode.IsSpace(r) {
			continue
		}
		return unicode.IsDigit(r)
	}
	return false
}
