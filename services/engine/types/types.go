// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package types defines the shared data model for the verification and
// scoring engine.
//
// Every entity here is created fresh per evaluation call and carries no
// engine-owned lifecycle: callers receive fully populated values and may
// discard them after use. All dimension computers, the matcher, and the
// aggregator import this single package so there is exactly one definition
// of each result shape.
package types

import "errors"

// ErrInvalidInput is returned when a caller supplies an empty query or
// response to an operation that requires both.
var ErrInvalidInput = errors.New("invalid input")

// =============================================================================
// Claims
// =============================================================================

// ClaimType categorizes what kind of fact a claim asserts.
type ClaimType string

const (
	// ClaimNumeric covers monetary amounts, quantities, and percentages.
	ClaimNumeric ClaimType = "NUMERIC"

	// ClaimEntity covers named people, organizations, and places.
	ClaimEntity ClaimType = "ENTITY"

	// ClaimTemporal covers dates, fiscal years, and other time references.
	ClaimTemporal ClaimType = "TEMPORAL"

	// ClaimCitation covers inline source attributions.
	ClaimCitation ClaimType = "CITATION"

	// ClaimAssertion is the fallback for sentences that state a fact
	// without any structured NUMERIC/ENTITY/TEMPORAL/CITATION content.
	ClaimAssertion ClaimType = "ASSERTION"
)

// Claim is an atomic factual statement extracted from a response.
//
// # Fields
//
//   - Text: the claim text as it appears in the response
//   - Type: what kind of fact the claim asserts
//   - StartOffset, EndOffset: byte offsets into the response text
//   - Entities: named entities referenced by the claim, if any
//   - Confidence: extraction confidence in [0,1]; structured claim types
//     carry higher confidence than ASSERTION fallbacks
type Claim struct {
	Text        string    `json:"text"`
	Type        ClaimType `json:"claim_type"`
	StartOffset int       `json:"start_offset"`
	EndOffset   int       `json:"end_offset"`
	Entities    []string  `json:"entities,omitempty"`
	Confidence  float64   `json:"confidence"`
}

// =============================================================================
// Documents & Matching
// =============================================================================

// SupportingDocument is one retrieved source passage supplied by the caller.
//
// The engine never mutates a document; the caller is responsible for
// converting whatever shape its retrieval layer produces into this type.
type SupportingDocument struct {
	ID              string  `json:"id"`
	Source          string  `json:"source"`
	Content         string  `json:"content"`
	Page            int     `json:"page,omitempty"`
	SimilarityScore float64 `json:"similarity_score,omitempty"`
}

// MatchType identifies which matching strategy produced an evidence match.
type MatchType string

const (
	MatchExact    MatchType = "EXACT"
	MatchSemantic MatchType = "SEMANTIC"
	MatchFuzzy    MatchType = "FUZZY"
	MatchPartial  MatchType = "PARTIAL"
	MatchNone     MatchType = "NONE"
)

// strategyRank orders match types by strategy strength for tie-breaking.
func strategyRank(m MatchType) int {
	switch m {
	case MatchExact:
		return 4
	case MatchSemantic:
		return 3
	case MatchFuzzy:
		return 2
	case MatchPartial:
		return 1
	default:
		return 0
	}
}

// Stronger reports whether match type a outranks b when confidences tie.
func Stronger(a, b MatchType) bool {
	return strategyRank(a) > strategyRank(b)
}

// EvidenceMatch records the best evidentiary support found for one claim.
//
// Exactly one match is retained per claim: the highest-confidence match
// across all documents, ties broken by strategy strength
// (EXACT > SEMANTIC > FUZZY > PARTIAL).
type EvidenceMatch struct {
	ClaimText      string    `json:"claim_text"`
	Matched        bool      `json:"matched"`
	SourceID       string    `json:"source_id,omitempty"`
	SourceName     string    `json:"source_name,omitempty"`
	MatchedSnippet string    `json:"matched_snippet,omitempty"`
	MatchType      MatchType `json:"match_type"`
	Confidence     float64   `json:"confidence"`
}

// =============================================================================
// Hallucinations & Verification
// =============================================================================

// Severity grades how damaging a hallucination finding is.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

// HallucinationFinding flags a claim with no, or only weak, evidentiary
// support. Confidence here is the detector's confidence in the finding,
// not the claim's support (the two are complementary).
type HallucinationFinding struct {
	ClaimText  string   `json:"claim_text"`
	ClaimType  ClaimType `json:"claim_type"`
	Severity   Severity `json:"severity"`
	Reason     string   `json:"reason"`
	Confidence float64  `json:"confidence"`
}

// VerificationReport is the complete output of a single verify call.
//
// Invariant: when TotalClaims > 0,
//
//	VerificationScore = round(100 * VerifiedClaims/TotalClaims * PenaltyMultiplier)
//
// and when TotalClaims == 0 the score is the fixed neutral value 50.
// Claims, Matches, and Hallucinations preserve extraction (text) order.
type VerificationReport struct {
	TotalClaims        int                    `json:"total_claims"`
	VerifiedClaims     int                    `json:"verified_claims"`
	HallucinatedClaims int                    `json:"hallucinated_claims"`
	VerificationScore  float64                `json:"verification_score"`
	PenaltyMultiplier  float64                `json:"penalty_multiplier"`
	Claims             []Claim                `json:"claims"`
	Matches            []EvidenceMatch        `json:"matches"`
	Hallucinations     []HallucinationFinding `json:"hallucinations"`
	Summary            string                 `json:"summary"`
}

// =============================================================================
// Metrics & Scoring
// =============================================================================

// MetricResult is one named sub-metric produced by a dimension computer.
//
// RawValue is the metric's native quantity (a ratio, a dollar cost, a
// risk level); NormalizedScore is always on the 0-100 scale.
type MetricResult struct {
	Name            string  `json:"name"`
	Dimension       string  `json:"dimension"`
	RawValue        float64 `json:"raw_value"`
	NormalizedScore float64 `json:"normalized_score"`
	Explanation     string  `json:"explanation"`
}

// DimensionResult groups a dimension's sub-metrics with their mean score.
type DimensionResult struct {
	Name    string         `json:"name"`
	Score   float64        `json:"score"`
	Metrics []MetricResult `json:"metrics"`
}

// NewDimensionResult builds a DimensionResult whose score is the mean of
// the normalized sub-metric scores. An empty metric list scores 0.
func NewDimensionResult(name string, metrics []MetricResult) DimensionResult {
	if len(metrics) == 0 {
		return DimensionResult{Name: name, Score: 0, Metrics: []MetricResult{}}
	}
	var sum float64
	for _, m := range metrics {
		sum += m.NormalizedScore
	}
	return DimensionResult{
		Name:    name,
		Score:   sum / float64(len(metrics)),
		Metrics: metrics,
	}
}

// EvaluationResult is the complete output of a single evaluate call.
type EvaluationResult struct {
	EvaluationID       string                     `json:"evaluation_id"`
	OverallScore       float64                    `json:"overall_score"`
	Dimensions         map[string]DimensionResult `json:"dimensions"`
	AllMetrics         map[string]MetricResult    `json:"all_metrics"`
	VerifiedClaims     int                        `json:"verified_claims"`
	TotalClaims        int                        `json:"total_claims"`
	HallucinatedClaims int                        `json:"hallucinated_claims"`
}

// =============================================================================
// Weights & Jurisdictions
// =============================================================================

// Dimension keys used across the engine.
const (
	DimBiasFairness      = "bias_fairness"
	DimDataGrounding     = "data_grounding"
	DimExplainability    = "explainability"
	DimEthicalAlignment  = "ethical_alignment"
	DimHumanControl      = "human_control"
	DimLegalCompliance   = "legal_compliance"
	DimSecurity          = "security"
	DimResponseQuality   = "response_quality"
	DimEnvironmentalCost = "environmental_cost"
)

// WeightSet maps dimension keys to relative weights. Weights need not sum
// to 1; the aggregator divides by the actual sum. A zero or empty weight
// set yields an overall score of 0.
type WeightSet map[string]float64

// DefaultWeights returns the production weight set (sums to 1.0).
func DefaultWeights() WeightSet {
	return WeightSet{
		DimBiasFairness:      0.12,
		DimDataGrounding:     0.15,
		DimExplainability:    0.10,
		DimEthicalAlignment:  0.10,
		DimHumanControl:      0.08,
		DimLegalCompliance:   0.15,
		DimSecurity:          0.10,
		DimResponseQuality:   0.12,
		DimEnvironmentalCost: 0.08,
	}
}

// DimensionKeys returns the nine dimension keys in a stable order.
func DimensionKeys() []string {
	return []string{
		DimBiasFairness,
		DimDataGrounding,
		DimExplainability,
		DimEthicalAlignment,
		DimHumanControl,
		DimLegalCompliance,
		DimSecurity,
		DimResponseQuality,
		DimEnvironmentalCost,
	}
}

// Jurisdiction selects which legal-compliance rule table applies.
type Jurisdiction string

const (
	// JurisdictionRTI applies Right to Information Act Section 8
	// exemption rules. This is the default.
	JurisdictionRTI Jurisdiction = "RTI"

	// JurisdictionUKGDPR applies UK GDPR / FOI Act rules.
	JurisdictionUKGDPR Jurisdiction = "UK_GDPR"

	// JurisdictionEUAIAct applies EU AI Act transparency rules.
	JurisdictionEUAIAct Jurisdiction = "EU_AI_ACT"
)

// ParseJurisdiction maps a string to a Jurisdiction. Unknown values fall
// back to RTI silently; an unrecognized mode must degrade, not error.
func ParseJurisdiction(s string) Jurisdiction {
	switch Jurisdiction(s) {
	case JurisdictionUKGDPR:
		return JurisdictionUKGDPR
	case JurisdictionEUAIAct:
		return JurisdictionEUAIAct
	default:
		return JurisdictionRTI
	}
}

// Metadata keys the engine itself writes before dimension computation.
// Dimension computers read these to fold verification results into their
// accuracy and hallucination-rate metrics.
const (
	MetaVerifiedClaims     = "verified_claims"
	MetaTotalClaims        = "total_claims"
	MetaHallucinatedClaims = "hallucinated_claims"
)
