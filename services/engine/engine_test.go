// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AleutianAI/AleutianVerify/services/engine/aggregate"
	"github.com/AleutianAI/AleutianVerify/services/engine/types"
)

func testRequest() EvaluateRequest {
	return EvaluateRequest{
		Query:    "What was the total expenditure on the rural roads scheme?",
		Response: "According to the annual report [Source: budget.pdf], the scheme spent ₹120 crore in FY22-23.",
		Documents: []types.SupportingDocument{{
			ID:      "d1",
			Source:  "budget.pdf",
			Content: "The rural roads scheme spent ₹120 crore in FY22-23 as recorded in the audited accounts.",
		}},
	}
}

func TestEvaluate_EmptyQueryRejected(t *testing.T) {
	eng := New(nil, DefaultConfig())
	req := testRequest()
	req.Query = ""

	_, err := eng.Evaluate(context.Background(), req)
	if !errors.Is(err, types.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestEvaluate_EmptyResponseRejected(t *testing.T) {
	eng := New(nil, DefaultConfig())
	req := testRequest()
	req.Response = ""

	_, err := eng.Evaluate(context.Background(), req)
	if !errors.Is(err, types.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestVerify_EmptyResponseRejected(t *testing.T) {
	eng := New(nil, DefaultConfig())
	if _, err := eng.Verify(context.Background(), "", nil); !errors.Is(err, types.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestEvaluate_AllDimensionsPresent(t *testing.T) {
	eng := New(nil, DefaultConfig())

	result, err := eng.Evaluate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.EvaluationID == "" {
		t.Error("expected a non-empty evaluation ID")
	}
	if len(result.Dimensions) != 9 {
		t.Errorf("expected 9 dimensions, got %d", len(result.Dimensions))
	}
	for _, key := range types.DimensionKeys() {
		dim, ok := result.Dimensions[key]
		if !ok {
			t.Errorf("dimension %q missing from result", key)
			continue
		}
		if dim.Score < 0 || dim.Score > 100 {
			t.Errorf("dimension %q score %v out of range", key, dim.Score)
		}
	}
	if result.OverallScore < 0 || result.OverallScore > 100 {
		t.Errorf("overall score %v out of range", result.OverallScore)
	}
}

func TestEvaluate_AllMetricsFlattened(t *testing.T) {
	eng := New(nil, DefaultConfig())

	result, err := eng.Evaluate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.AllMetrics) == 0 {
		t.Fatal("expected flattened metrics")
	}
	var fromDims int
	for _, dim := range result.Dimensions {
		fromDims += len(dim.Metrics)
	}
	if len(result.AllMetrics) != fromDims {
		t.Errorf("AllMetrics has %d entries, dimensions carry %d", len(result.AllMetrics), fromDims)
	}
}

func TestEvaluate_VerificationCountsSurface(t *testing.T) {
	eng := New(nil, DefaultConfig())

	result, err := eng.Evaluate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalClaims == 0 {
		t.Error("expected claims to be extracted from the fixture response")
	}
	if result.VerifiedClaims > result.TotalClaims {
		t.Errorf("verified %d exceeds total %d", result.VerifiedClaims, result.TotalClaims)
	}
	if result.HallucinatedClaims > result.TotalClaims {
		t.Errorf("hallucinated %d exceeds total %d", result.HallucinatedClaims, result.TotalClaims)
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	eng := New(nil, DefaultConfig())

	first, err := eng.Evaluate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := eng.Evaluate(context.Background(), testRequest())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again.OverallScore != first.OverallScore {
			t.Fatalf("overall score changed across runs: %v vs %v", again.OverallScore, first.OverallScore)
		}
		for key, dim := range first.Dimensions {
			if again.Dimensions[key].Score != dim.Score {
				t.Fatalf("dimension %q score changed across runs", key)
			}
		}
	}
}

func TestEvaluate_CustomWeights(t *testing.T) {
	eng := New(nil, DefaultConfig())

	req := testRequest()
	req.Weights = types.WeightSet{types.DimResponseQuality: 1.0}

	result, err := eng.Evaluate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// With all weight on one dimension, the overall score equals it
	// (modulo two-decimal rounding).
	want := result.Dimensions[types.DimResponseQuality].Score
	if diff := result.OverallScore - want; diff > 0.01 || diff < -0.01 {
		t.Errorf("overall %v should track response_quality %v", result.OverallScore, want)
	}
}

func TestEvaluate_MetadataNotMutated(t *testing.T) {
	eng := New(nil, DefaultConfig())

	req := testRequest()
	req.Metadata = map[string]any{"model": "gpt-4o"}

	if _, err := eng.Evaluate(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(req.Metadata) != 1 {
		t.Errorf("caller metadata was mutated: %v", req.Metadata)
	}
}

func TestEvaluate_HallucinationPenalty(t *testing.T) {
	req := testRequest()
	req.Response = "The department spent ₹999 billion on submarines."
	req.Documents = nil

	base, err := New(nil, DefaultConfig()).Evaluate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if base.HallucinatedClaims == 0 {
		t.Fatal("fixture must produce a hallucination")
	}

	cfg := DefaultConfig()
	cfg.HallucinationPenalty = 0.5
	penalized, err := New(nil, cfg).Evaluate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if penalized.OverallScore >= base.OverallScore {
		t.Errorf("penalty must lower the overall score: %v vs %v",
			penalized.OverallScore, base.OverallScore)
	}
	rate := float64(base.HallucinatedClaims) / float64(base.TotalClaims)
	want := aggregate.WithPenalties(base.OverallScore, 0.5*rate)
	if penalized.OverallScore != want {
		t.Errorf("penalized score = %v, want %v", penalized.OverallScore, want)
	}
}

func TestEvaluate_PenaltyInactiveWithoutHallucinations(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HallucinationPenalty = 0.5

	base, err := New(nil, DefaultConfig()).Evaluate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if base.HallucinatedClaims != 0 {
		t.Fatalf("fixture must be fully supported, got %d findings", base.HallucinatedClaims)
	}
	penalized, err := New(nil, cfg).Evaluate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if penalized.OverallScore != base.OverallScore {
		t.Errorf("penalty must be inert without findings: %v vs %v",
			penalized.OverallScore, base.OverallScore)
	}
}

func TestRecordVerification_CountsFindings(t *testing.T) {
	clean := &types.VerificationReport{
		TotalClaims:       2,
		VerifiedClaims:    2,
		VerificationScore: 100,
	}
	flagged := &types.VerificationReport{
		TotalClaims:        1,
		HallucinatedClaims: 1,
		Hallucinations: []types.HallucinationFinding{{
			ClaimText: "x",
			ClaimType: types.ClaimNumeric,
			Severity:  types.SeverityHigh,
		}},
	}

	// Instruments are no-ops without a meter provider; this guards the
	// report field accesses and nil handling.
	RecordVerification(context.Background(), clean, time.Millisecond)
	RecordVerification(context.Background(), flagged, time.Millisecond)
	RecordVerification(context.Background(), nil, time.Millisecond)
}

func TestVerify_ReportShape(t *testing.T) {
	eng := New(nil, DefaultConfig())

	report, err := eng.Verify(context.Background(), testRequest().Response, testRequest().Documents)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.TotalClaims != len(report.Claims) {
		t.Errorf("TotalClaims %d != len(Claims) %d", report.TotalClaims, len(report.Claims))
	}
	if len(report.Matches) != len(report.Claims) {
		t.Errorf("matches not aligned with claims: %d vs %d", len(report.Matches), len(report.Claims))
	}
}
