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
	"math"
	"regexp"
	"strings"

	"github.com/AleutianAI/AleutianVerify/services/engine/normalize"
	"github.com/AleutianAI/AleutianVerify/services/engine/types"
)

// DataGrounding scores how firmly the response is anchored in the
// supplied documents, plus a distribution-shift statistic against an
// optional baseline response.
type DataGrounding struct{}

func (DataGrounding) Name() string { return types.DimDataGrounding }

// groundedSupportRatio: a sentence counts as supported when more than
// this fraction of its content-bearing words (length > 4) appear in the
// concatenated document text.
const groundedSupportRatio = 0.3

var groundingSentenceSplit = regexp.MustCompile(`[.!?]`)

var sourceCoveragePatterns = []string{
	"according to", "based on", "as per", "source:", "reference:",
	"from the", "document", "statement", "report", "section", "page",
}

func (d DataGrounding) Compute(_ context.Context, in *Input) []types.MetricResult {
	groundedness, supported, unsupported := groundednessScore(in.Response, in.Documents)
	coverage := sourceCoverage(in.Response, in.Documents)
	hallucRate := hallucinationRate(in.Metadata, supported, unsupported)
	psi := populationStabilityIndex(in.Response, metaString(in.Metadata, "baseline_response"))

	return []types.MetricResult{
		{
			Name:            "groundedness_score",
			Dimension:       d.Name(),
			RawValue:        groundedness,
			NormalizedScore: normalize.Linear(groundedness, 0, 1, false),
			Explanation:     fmt.Sprintf("Response is %.0f%% grounded in source documents", groundedness*100),
		},
		{
			Name:            "source_coverage",
			Dimension:       d.Name(),
			RawValue:        coverage,
			NormalizedScore: normalize.Linear(coverage, 0, 1, false),
			Explanation:     "Coverage of source document references in response",
		},
		{
			Name:            "hallucination_rate",
			Dimension:       d.Name(),
			RawValue:        hallucRate,
			NormalizedScore: normalize.Linear(hallucRate, 0, 1, true),
			Explanation:     fmt.Sprintf("Hallucination rate: %.0f%% of claims unsupported", hallucRate*100),
		},
		{
			Name:            "psi",
			Dimension:       d.Name(),
			RawValue:        psi,
			NormalizedScore: normalize.Linear(psi, 0, 0.25, true),
			Explanation:     fmt.Sprintf("PSI = %.4f (stable if < 0.1)", psi),
		},
	}
}

// groundednessScore splits the response into sentences and tests each
// against the concatenated document text. Returns the supported
// fraction along with the raw counts.
func groundednessScore(response string, docs []types.SupportingDocument) (float64, int, int) {
	if len(docs) == 0 {
		return 0, 0, 0
	}

	var b strings.Builder
	for _, doc := range docs {
		b.WriteString(" ")
		b.WriteString(strings.ToLower(doc.Content))
	}
	sourceContent := b.String()

	var supported, unsupported int
	for _, raw := range groundingSentenceSplit.Split(response, -1) {
		s := strings.TrimSpace(raw)
		if len(s) <= 10 {
			continue
		}
		var keyWords []string
		for _, w := range strings.Fields(strings.ToLower(s)) {
			if len(w) > 4 {
				keyWords = append(keyWords, w)
			}
		}
		if len(keyWords) == 0 {
			continue
		}
		matches := 0
		for _, w := range keyWords {
			if strings.Contains(sourceContent, w) {
				matches++
			}
		}
		if float64(matches)/float64(len(keyWords)) > groundedSupportRatio {
			supported++
		} else {
			unsupported++
		}
	}

	total := supported + unsupported
	if total == 0 {
		return 0, 0, 0
	}
	return float64(supported) / float64(total), supported, unsupported
}

// sourceCoverage counts citation indicators, expecting at least three,
// with a double-weight bonus for naming a supplied source.
func sourceCoverage(response string, docs []types.SupportingDocument) float64 {
	lower := strings.ToLower(response)
	count := 0
	for _, p := range sourceCoveragePatterns {
		if strings.Contains(lower, p) {
			count++
		}
	}
	for _, doc := range docs {
		if doc.Source != "" && strings.Contains(lower, strings.ToLower(doc.Source)) {
			count += 2
		}
	}
	return clamp01(float64(count) / 3)
}

// hallucinationRate prefers the verification pipeline's counts, folded
// into metadata by the engine before dimension fan-out; the sentence
// support counts are the fallback when verification did not run.
func hallucinationRate(meta map[string]any, supported, unsupported int) float64 {
	if total, ok := metaInt(meta, types.MetaTotalClaims); ok && total > 0 {
		if halluc, ok := metaInt(meta, types.MetaHallucinatedClaims); ok {
			return clamp01(float64(halluc) / float64(total))
		}
	}
	total := supported + unsupported
	if total == 0 {
		return 0
	}
	return float64(unsupported) / float64(total)
}

// populationStabilityIndex compares word-frequency distributions of the
// current and baseline responses with a symmetric KL-style sum.
//
//	PSI < 0.1          no significant change
//	0.1 <= PSI < 0.25  moderate change
//	PSI >= 0.25        significant change
func populationStabilityIndex(current, baseline string) float64 {
	if baseline == "" {
		return 0
	}

	currentDist := wordFrequencies(current)
	baselineDist := wordFrequencies(baseline)

	allWords := make(map[string]struct{}, len(currentDist)+len(baselineDist))
	for w := range currentDist {
		allWords[w] = struct{}{}
	}
	for w := range baselineDist {
		allWords[w] = struct{}{}
	}
	if len(allWords) == 0 {
		return 0
	}

	const epsilon = 0.0001
	var psi float64
	for w := range allWords {
		pCurrent := currentDist[w]
		if pCurrent == 0 {
			pCurrent = epsilon
		}
		pBaseline := baselineDist[w]
		if pBaseline == 0 {
			pBaseline = epsilon
		}
		psi += (pCurrent - pBaseline) * math.Log(pCurrent/pBaseline)
	}
	return math.Abs(psi)
}

func wordFrequencies(text string) map[string]float64 {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return map[string]float64{}
	}
	freq := make(map[string]float64, len(words))
	for _, w := range words {
		freq[w]++
	}
	for w := range freq {
		freq[w] /= float64(len(words))
	}
	return freq
}
