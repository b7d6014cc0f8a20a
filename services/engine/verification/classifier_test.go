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
	"strings"
	"testing"

	"github.com/AleutianAI/AleutianVerify/services/engine/types"
)

func unmatchedFor(claimType types.ClaimType) ([]types.Claim, []types.EvidenceMatch) {
	c := types.Claim{Text: "some claim", Type: claimType, Confidence: 0.9}
	m := types.EvidenceMatch{ClaimText: c.Text, Matched: false, MatchType: types.MatchNone}
	return []types.Claim{c}, []types.EvidenceMatch{m}
}

func TestClassify_SupportedClaimsPass(t *testing.T) {
	claims := []types.Claim{{Text: "x", Type: types.ClaimNumeric}}
	matches := []types.EvidenceMatch{{ClaimText: "x", Matched: true, MatchType: types.MatchExact, Confidence: 1.0}}

	if got := Classify(claims, matches); len(got) != 0 {
		t.Errorf("fully supported claim must not be flagged, got %d findings", len(got))
	}
}

func TestClassify_ThresholdBoundary(t *testing.T) {
	claims := []types.Claim{{Text: "x", Type: types.ClaimAssertion}}

	// Exactly at the threshold: verified.
	at := []types.EvidenceMatch{{ClaimText: "x", Matched: true, MatchType: types.MatchPartial, Confidence: 0.5}}
	if got := Classify(claims, at); len(got) != 0 {
		t.Errorf("confidence 0.5 must count as supported, got %d findings", len(got))
	}

	// Just below: flagged.
	below := []types.EvidenceMatch{{ClaimText: "x", Matched: true, MatchType: types.MatchPartial, Confidence: 0.49}}
	if got := Classify(claims, below); len(got) != 1 {
		t.Errorf("confidence 0.49 must be flagged, got %d findings", len(got))
	}
}

func TestClassify_SeverityByClaimType(t *testing.T) {
	cases := []struct {
		claimType types.ClaimType
		want      types.Severity
	}{
		{types.ClaimNumeric, types.SeverityHigh},
		{types.ClaimCitation, types.SeverityHigh},
		{types.ClaimEntity, types.SeverityHigh}, // confidence 0 < 0.2
		{types.ClaimTemporal, types.SeverityMedium},
		{types.ClaimAssertion, types.SeverityMedium}, // confidence 0 <= 0.3
	}
	for _, tc := range cases {
		claims, matches := unmatchedFor(tc.claimType)
		got := Classify(claims, matches)
		if len(got) != 1 {
			t.Fatalf("%s: expected 1 finding, got %d", tc.claimType, len(got))
		}
		if got[0].Severity != tc.want {
			t.Errorf("%s: severity = %s, want %s", tc.claimType, got[0].Severity, tc.want)
		}
	}
}

func TestClassify_EntityWeaklySupportedIsMedium(t *testing.T) {
	claims := []types.Claim{{Text: "Central Water Board", Type: types.ClaimEntity}}
	matches := []types.EvidenceMatch{{ClaimText: claims[0].Text, Matched: true,
		MatchType: types.MatchPartial, Confidence: 0.3}}

	got := Classify(claims, matches)
	if len(got) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(got))
	}
	if got[0].Severity != types.SeverityMedium {
		t.Errorf("entity at confidence 0.3 should be MEDIUM, got %s", got[0].Severity)
	}
}

func TestClassify_AssertionWeaklySupportedIsLow(t *testing.T) {
	claims := []types.Claim{{Text: "the work was completed", Type: types.ClaimAssertion}}
	matches := []types.EvidenceMatch{{ClaimText: claims[0].Text, Matched: true,
		MatchType: types.MatchPartial, Confidence: 0.45}}

	got := Classify(claims, matches)
	if len(got) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(got))
	}
	if got[0].Severity != types.SeverityLow {
		t.Errorf("assertion at confidence 0.45 should be LOW, got %s", got[0].Severity)
	}
}

func TestClassify_FindingConfidenceComplementsSupport(t *testing.T) {
	claims := []types.Claim{{Text: "x", Type: types.ClaimTemporal}}
	matches := []types.EvidenceMatch{{ClaimText: "x", Matched: true,
		MatchType: types.MatchPartial, Confidence: 0.4}}

	got := Classify(claims, matches)
	if len(got) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(got))
	}
	if got[0].Confidence != 0.6 {
		t.Errorf("finding confidence = %v, want 0.6", got[0].Confidence)
	}
}

func TestClassify_ReasonMentionsMatchQuality(t *testing.T) {
	claims, matches := unmatchedFor(types.ClaimNumeric)
	got := Classify(claims, matches)
	if !strings.Contains(got[0].Reason, "not found") {
		t.Errorf("unmatched reason should say not found, got %q", got[0].Reason)
	}

	weak := []types.EvidenceMatch{{ClaimText: "some claim", Matched: true,
		MatchType: types.MatchFuzzy, Confidence: 0.45}}
	got = Classify(claims, weak)
	if !strings.Contains(got[0].Reason, "weakly supported") {
		t.Errorf("weak-match reason should say weakly supported, got %q", got[0].Reason)
	}
}
