// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package verification orchestrates claim extraction, evidence matching,
// and hallucination classification into a single verification report.
package verification

import (
	"fmt"

	"github.com/AleutianAI/AleutianVerify/services/engine/types"
)

// supportThreshold is the minimum match confidence for a claim to count
// as verified. Anything below it is treated as a hallucination.
const supportThreshold = 0.5

// Classify converts unmatched and weakly matched claims into severity
// graded findings. Claims and matches must be positionally aligned.
//
// Severity is claim-type dependent: fabricated numbers and citations are
// the most damaging (HIGH); wrong entities are HIGH only when support is
// near zero; temporal errors are MEDIUM; bare assertions are LOW unless
// support is very weak.
func Classify(claims []types.Claim, matches []types.EvidenceMatch) []types.HallucinationFinding {
	var findings []types.HallucinationFinding

	for i, claim := range claims {
		if i >= len(matches) {
			break
		}
		match := matches[i]
		if match.Matched && match.Confidence >= supportThreshold {
			continue
		}

		findings = append(findings, types.HallucinationFinding{
			ClaimText:  claim.Text,
			ClaimType:  claim.Type,
			Severity:   severityFor(claim.Type, match.Confidence),
			Reason:     reasonFor(claim.Type, match),
			Confidence: 1.0 - match.Confidence,
		})
	}
	return findings
}

func severityFor(claimType types.ClaimType, matchConfidence float64) types.Severity {
	switch claimType {
	case types.ClaimNumeric, types.ClaimCitation:
		return types.SeverityHigh
	case types.ClaimEntity:
		if matchConfidence < 0.2 {
			return types.SeverityHigh
		}
		return types.SeverityMedium
	case types.ClaimTemporal:
		return types.SeverityMedium
	default: // ASSERTION
		if matchConfidence <= 0.3 {
			return types.SeverityMedium
		}
		return types.SeverityLow
	}
}

func reasonFor(claimType types.ClaimType, match types.EvidenceMatch) string {
	kind := map[types.ClaimType]string{
		types.ClaimNumeric:   "numeric claim",
		types.ClaimEntity:    "entity reference",
		types.ClaimTemporal:  "temporal claim",
		types.ClaimCitation:  "citation",
		types.ClaimAssertion: "assertion",
	}[claimType]

	if !match.Matched || match.MatchType == types.MatchNone {
		return fmt.Sprintf("%s not found in any supporting document", kind)
	}
	return fmt.Sprintf("%s only weakly supported (%s match, confidence %.2f)",
		kind, match.MatchType, match.Confidence)
}
