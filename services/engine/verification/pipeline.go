// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package verification

import (
	"context"
	"fmt"
	"math"

	"github.com/AleutianAI/AleutianVerify/services/engine/claims"
	"github.com/AleutianAI/AleutianVerify/services/engine/evidence"
	"github.com/AleutianAI/AleutianVerify/services/engine/types"
)

// neutralScore is returned when the response yields no extractable
// claims: nothing to verify, nothing to penalize.
const neutralScore = 50.0

// Severity penalties subtracted from the multiplier per finding. Total
// subtraction is capped so the multiplier never drops below its floor.
const (
	penaltyHigh     = 0.15
	penaltyMedium   = 0.08
	penaltyLow      = 0.03
	multiplierFloor = 0.5
)

// strictModeCap bounds the score when strict mode is on and any
// hallucination exists at all.
const strictModeCap = 30.0

// PipelineConfig controls the verification pipeline.
type PipelineConfig struct {
	// Strict caps the verification score at 30 when any hallucination
	// is found, regardless of how well the rest of the response scores.
	Strict bool
}

// Pipeline runs the full verification flow: extract claims, match them
// against the supplied documents, classify hallucinations, and score.
//
// # Thread Safety
//
// Pipeline is stateless between calls and safe for concurrent use.
type Pipeline struct {
	extractor *claims.Extractor
	matcher   *evidence.Matcher
	cfg       PipelineConfig
}

// NewPipeline creates a Pipeline. A nil embedder is valid and disables
// the semantic match tier.
func NewPipeline(embedder evidence.Embedder, cfg PipelineConfig) *Pipeline {
	return &Pipeline{
		extractor: claims.NewExtractor(),
		matcher:   evidence.NewMatcher(embedder),
		cfg:       cfg,
	}
}

// Verify produces a verification report for the response against the
// supporting documents.
//
// # Description
//
// The report's score is round(100 * verified/total * penaltyMultiplier)
// when any claims were extracted; a claim counts as verified when its
// best match has confidence >= 0.5. The penalty multiplier starts at
// 1.0 and loses 0.15 per HIGH, 0.08 per MEDIUM, and 0.03 per LOW
// finding, floored at 0.5.
//
// Empty document sets are valid input: every claim simply goes
// unverified.
func (p *Pipeline) Verify(ctx context.Context, response string, docs []types.SupportingDocument) *types.VerificationReport {
	extracted := p.extractor.Extract(response)
	if len(extracted) == 0 {
		return &types.VerificationReport{
			TotalClaims:       0,
			VerificationScore: neutralScore,
			PenaltyMultiplier: 1.0,
			Claims:            []types.Claim{},
			Matches:           []types.EvidenceMatch{},
			Hallucinations:    []types.HallucinationFinding{},
			Summary:           "No verifiable claims were extracted from the response; neutral score assigned.",
		}
	}

	matches := p.matcher.MatchAll(ctx, extracted, docs)
	findings := Classify(extracted, matches)

	verified := 0
	for _, m := range matches {
		if m.Matched && m.Confidence >= supportThreshold {
			verified++
		}
	}

	multiplier := penaltyMultiplier(findings)
	base := 100 * float64(verified) / float64(len(extracted))
	score := math.Round(base * multiplier)

	if p.cfg.Strict && len(findings) > 0 && score > strictModeCap {
		score = strictModeCap
	}

	return &types.VerificationReport{
		TotalClaims:        len(extracted),
		VerifiedClaims:     verified,
		HallucinatedClaims: len(findings),
		VerificationScore:  score,
		PenaltyMultiplier:  multiplier,
		Claims:             extracted,
		Matches:            matches,
		Hallucinations:     findings,
		Summary:            summarize(score, verified, len(extracted), len(findings)),
	}
}

func penaltyMultiplier(findings []types.HallucinationFinding) float64 {
	var penalty float64
	for _, f := range findings {
		switch f.Severity {
		case types.SeverityHigh:
			penalty += penaltyHigh
		case types.SeverityMedium:
			penalty += penaltyMedium
		default:
			penalty += penaltyLow
		}
	}
	if penalty > 1.0-multiplierFloor {
		penalty = 1.0 - multiplierFloor
	}
	return 1.0 - penalty
}

// summarize bands the score into four human-readable tiers.
func summarize(score float64, verified, total, hallucinated int) string {
	var band string
	switch {
	case score >= 80:
		band = "The response is well-grounded in the supporting documents."
	case score >= 60:
		band = "The response is mostly reliable but contains weakly supported statements."
	case score >= 40:
		band = "The response has significant grounding issues and should be reviewed."
	default:
		band = "The response has major credibility concerns; most claims lack support."
	}
	return fmt.Sprintf("%s Verified %d of %d claims; %d flagged as potential hallucinations.",
		band, verified, total, hallucinated)
}
