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
	"testing"

	"github.com/AleutianAI/AleutianVerify/services/engine/types"
)

func TestVerify_NoClaimsNeutralScore(t *testing.T) {
	p := NewPipeline(nil, PipelineConfig{})

	report := p.Verify(context.Background(), "please see the attached documents whenever convenient", nil)
	if report.TotalClaims != 0 {
		t.Fatalf("expected 0 claims, got %d", report.TotalClaims)
	}
	if report.VerificationScore != 50 {
		t.Errorf("expected neutral score 50, got %v", report.VerificationScore)
	}
	if report.PenaltyMultiplier != 1.0 {
		t.Errorf("expected multiplier 1.0, got %v", report.PenaltyMultiplier)
	}
	if report.Claims == nil || report.Matches == nil || report.Hallucinations == nil {
		t.Error("empty report slices must be non-nil")
	}
}

func TestVerify_FullySupported(t *testing.T) {
	p := NewPipeline(nil, PipelineConfig{})

	response := "The department spent ₹500 crore in FY22-23."
	docs := []types.SupportingDocument{{
		ID:      "d1",
		Source:  "budget.pdf",
		Content: "Audited accounts confirm the department spent ₹500 crore in FY22-23 on the scheme.",
	}}

	report := p.Verify(context.Background(), response, docs)
	if report.TotalClaims == 0 {
		t.Fatal("expected claims to be extracted")
	}
	if report.VerifiedClaims != report.TotalClaims {
		t.Errorf("expected all %d claims verified, got %d", report.TotalClaims, report.VerifiedClaims)
	}
	if report.HallucinatedClaims != 0 {
		t.Errorf("expected no hallucinations, got %d", report.HallucinatedClaims)
	}
	if report.VerificationScore != 100 {
		t.Errorf("expected score 100, got %v", report.VerificationScore)
	}
}

func TestVerify_UnsupportedClaimsPenalized(t *testing.T) {
	p := NewPipeline(nil, PipelineConfig{})

	response := "The department spent ₹999 billion on submarines."
	docs := []types.SupportingDocument{{
		ID:      "d1",
		Source:  "budget.pdf",
		Content: "Totally unrelated text regarding library renovations and book purchases.",
	}}

	report := p.Verify(context.Background(), response, docs)
	if report.TotalClaims == 0 {
		t.Fatal("expected claims to be extracted")
	}
	if report.HallucinatedClaims == 0 {
		t.Error("expected hallucination findings")
	}
	if report.PenaltyMultiplier >= 1.0 {
		t.Errorf("expected a penalty, multiplier = %v", report.PenaltyMultiplier)
	}
	if report.VerificationScore != 0 {
		t.Errorf("no verified claims should score 0, got %v", report.VerificationScore)
	}
}

func TestVerify_MultiplierFloor(t *testing.T) {
	p := NewPipeline(nil, PipelineConfig{})

	// Many fabricated figures: the accumulated HIGH penalties must not
	// push the multiplier below 0.5.
	response := "Spending was ₹111 crore. Then ₹222 crore. Then ₹333 crore. " +
		"Then ₹444 crore. Then ₹555 crore. Then ₹666 crore."
	report := p.Verify(context.Background(), response, nil)

	if report.HallucinatedClaims < 4 {
		t.Fatalf("expected several findings, got %d", report.HallucinatedClaims)
	}
	if report.PenaltyMultiplier != 0.5 {
		t.Errorf("multiplier must floor at 0.5, got %v", report.PenaltyMultiplier)
	}
}

func TestVerify_StrictModeCap(t *testing.T) {
	// One fabricated claim among many verified ones: lenient mode
	// scores well, strict mode caps at 30.
	response := "The scheme disbursed ₹100 crore to farmers. The scheme disbursed ₹100 crore again. " +
		"The scheme disbursed ₹100 crore a third time. Officials diverted ₹999 billion to submarines."
	docs := []types.SupportingDocument{{
		ID:      "d1",
		Source:  "scheme.pdf",
		Content: "Records confirm the scheme disbursed ₹100 crore to farmers in three tranches, and the scheme disbursed ₹100 crore again, then the scheme disbursed ₹100 crore a third time.",
	}}

	lenient := NewPipeline(nil, PipelineConfig{Strict: false}).Verify(context.Background(), response, docs)
	strict := NewPipeline(nil, PipelineConfig{Strict: true}).Verify(context.Background(), response, docs)

	if lenient.HallucinatedClaims == 0 {
		t.Fatal("expected at least one finding in the fixture")
	}
	if lenient.VerificationScore <= 30 {
		t.Fatalf("fixture too weak: lenient score %v", lenient.VerificationScore)
	}
	if strict.VerificationScore != 30 {
		t.Errorf("strict mode must cap at 30, got %v", strict.VerificationScore)
	}
}

func TestVerify_ScoreInvariant(t *testing.T) {
	p := NewPipeline(nil, PipelineConfig{})

	response := "The Ministry of Rural Development spent ₹250 crore in 2023. " +
		"An additional ₹50 crore went to training."
	docs := []types.SupportingDocument{{
		ID:      "d1",
		Source:  "report.pdf",
		Content: "The Ministry of Rural Development spent ₹250 crore in 2023 per the annual report.",
	}}

	report := p.Verify(context.Background(), response, docs)
	want := 100 * float64(report.VerifiedClaims) / float64(report.TotalClaims) * report.PenaltyMultiplier
	// Score is rounded to the nearest integer.
	if diff := report.VerificationScore - want; diff > 0.5 || diff < -0.5 {
		t.Errorf("score %v violates invariant (want ~%v)", report.VerificationScore, want)
	}
}

func TestVerify_SummaryReflectsCounts(t *testing.T) {
	p := NewPipeline(nil, PipelineConfig{})
	report := p.Verify(context.Background(), "The department spent ₹500 crore on roads.", nil)
	if report.Summary == "" {
		t.Error("expected a non-empty summary")
	}
}
