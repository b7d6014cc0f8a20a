// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package engine is the top-level facade over claim verification and
// multi-dimension evaluation.
//
// An Engine is built once and shared: it holds the verification
// pipeline, the nine dimension computers, and the default weight set.
// Verify runs the claim pipeline alone; Evaluate runs it and then fans
// the dimension computers out concurrently, folding the verification
// counts into the metadata each computer sees.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/AleutianVerify/services/engine/aggregate"
	"github.com/AleutianAI/AleutianVerify/services/engine/dimensions"
	"github.com/AleutianAI/AleutianVerify/services/engine/evidence"
	"github.com/AleutianAI/AleutianVerify/services/engine/types"
	"github.com/AleutianAI/AleutianVerify/services/engine/verification"
)

// fallbackDimensionScore is assigned when a dimension computer panics:
// one broken heuristic must not take the whole evaluation down.
const fallbackDimensionScore = 50.0

// Config controls engine behavior.
type Config struct {
	// Strict caps the verification score at 30 when any hallucination
	// is found.
	Strict bool

	// DefaultJurisdiction applies when a request does not name one.
	DefaultJurisdiction types.Jurisdiction

	// Weights is the default dimension weight set. Nil means
	// types.DefaultWeights().
	Weights types.WeightSet

	// HallucinationPenalty scales an additional multiplicative penalty
	// on the overall evaluation score, proportional to the fraction of
	// hallucinated claims. Zero disables it: hallucinations then affect
	// the overall score only through the dimension scores.
	HallucinationPenalty float64
}

// DefaultConfig returns the production defaults: lenient scoring, RTI
// jurisdiction, standard weights.
func DefaultConfig() Config {
	return Config{
		Strict:              false,
		DefaultJurisdiction: types.JurisdictionRTI,
		Weights:             types.DefaultWeights(),
	}
}

// Engine runs verification and evaluation.
//
// # Thread Safety
//
// Engine is immutable after construction and safe for concurrent use.
type Engine struct {
	pipeline  *verification.Pipeline
	computers []dimensions.Computer
	cfg       Config
	logger    *slog.Logger
}

// New creates an Engine. A nil embedder is valid and disables the
// semantic evidence-matching tier; exact, fuzzy, and lexical tiers
// still run.
func New(embedder evidence.Embedder, cfg Config) *Engine {
	if cfg.DefaultJurisdiction == "" {
		cfg.DefaultJurisdiction = types.JurisdictionRTI
	}
	if cfg.Weights == nil {
		cfg.Weights = types.DefaultWeights()
	}
	return &Engine{
		pipeline:  verification.NewPipeline(embedder, verification.PipelineConfig{Strict: cfg.Strict}),
		computers: dimensions.All(),
		cfg:       cfg,
		logger:    slog.Default().With("component", "engine"),
	}
}

// Verify runs the claim verification pipeline alone.
//
// # Inputs
//   - response: the answer text to verify; must be non-empty
//   - docs: retrieved source passages; may be empty
//
// # Outputs
//   - the verification report, or types.ErrInvalidInput for an empty
//     response
func (e *Engine) Verify(ctx context.Context, response string, docs []types.SupportingDocument) (*types.VerificationReport, error) {
	if response == "" {
		return nil, fmt.Errorf("verify: empty response: %w", types.ErrInvalidInput)
	}

	ctx, span := StartEvaluationSpan(ctx, "engine.verify", e.cfg.DefaultJurisdiction, len(docs))
	defer span.End()

	start := time.Now()
	report := e.pipeline.Verify(ctx, response, docs)
	RecordVerification(ctx, report, time.Since(start))

	e.logger.InfoContext(ctx, "verification complete",
		"total_claims", report.TotalClaims,
		"verified_claims", report.VerifiedClaims,
		"hallucinated_claims", report.HallucinatedClaims,
		"score", report.VerificationScore)
	return report, nil
}

// EvaluateRequest carries one evaluation's inputs.
type EvaluateRequest struct {
	Query        string
	Response     string
	Documents    []types.SupportingDocument
	Metadata     map[string]any
	Weights      types.WeightSet
	Jurisdiction types.Jurisdiction
}

// Evaluate runs verification plus all nine dimension computers and
// aggregates their scores.
//
// # Description
//
// Verification runs first so its claim counts are visible to the
// grounding and quality dimensions through metadata. The computers then
// run concurrently; a panicking computer is recorded and replaced with
// a neutral score rather than failing the call. The overall score is
// the weighted average of dimension scores under the request's weight
// set (engine defaults when nil).
//
// # Outputs
//   - the evaluation result, or types.ErrInvalidInput when query or
//     response is empty
func (e *Engine) Evaluate(ctx context.Context, req EvaluateRequest) (*types.EvaluationResult, error) {
	if req.Query == "" {
		return nil, fmt.Errorf("evaluate: empty query: %w", types.ErrInvalidInput)
	}
	if req.Response == "" {
		return nil, fmt.Errorf("evaluate: empty response: %w", types.ErrInvalidInput)
	}

	jurisdiction := req.Jurisdiction
	if jurisdiction == "" {
		jurisdiction = e.cfg.DefaultJurisdiction
	}
	weights := req.Weights
	if weights == nil {
		weights = e.cfg.Weights
	}

	ctx, span := StartEvaluationSpan(ctx, "engine.evaluate", jurisdiction, len(req.Documents))
	defer span.End()
	start := time.Now()

	report := e.pipeline.Verify(ctx, req.Response, req.Documents)

	meta := make(map[string]any, len(req.Metadata)+3)
	for k, v := range req.Metadata {
		meta[k] = v
	}
	meta[types.MetaVerifiedClaims] = report.VerifiedClaims
	meta[types.MetaTotalClaims] = report.TotalClaims
	meta[types.MetaHallucinatedClaims] = report.HallucinatedClaims

	in := &dimensions.Input{
		Query:        req.Query,
		Response:     req.Response,
		Documents:    req.Documents,
		Metadata:     meta,
		Jurisdiction: jurisdiction,
	}

	results := make([]types.DimensionResult, len(e.computers))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range e.computers {
		i, c := i, c
		g.Go(func() error {
			results[i] = e.computeDimension(gctx, c, in)
			return nil
		})
	}
	// Workers never return errors; Wait is for completion only.
	_ = g.Wait()

	dims := make(map[string]types.DimensionResult, len(results))
	allMetrics := make(map[string]types.MetricResult)
	dimScores := make(map[string]float64, len(results))
	for _, r := range results {
		dims[r.Name] = r
		dimScores[r.Name] = r.Score
		for _, m := range r.Metrics {
			allMetrics[m.Name] = m
		}
	}

	overall := aggregate.WeightedAverage(dimScores, weights)
	if e.cfg.HallucinationPenalty > 0 && report.HallucinatedClaims > 0 {
		rate := float64(report.HallucinatedClaims) / float64(report.TotalClaims)
		overall = aggregate.WithPenalties(overall, e.cfg.HallucinationPenalty*rate)
	}

	result := &types.EvaluationResult{
		EvaluationID:       uuid.NewString(),
		OverallScore:       overall,
		Dimensions:         dims,
		AllMetrics:         allMetrics,
		VerifiedClaims:     report.VerifiedClaims,
		TotalClaims:        report.TotalClaims,
		HallucinatedClaims: report.HallucinatedClaims,
	}

	SetEvaluationSpanResult(span, result)
	RecordEvaluation(ctx, jurisdiction, result.OverallScore, time.Since(start))

	e.logger.InfoContext(ctx, "evaluation complete",
		"evaluation_id", result.EvaluationID,
		"overall_score", result.OverallScore,
		"jurisdiction", string(jurisdiction),
		"total_claims", result.TotalClaims,
		"hallucinated_claims", result.HallucinatedClaims)
	return result, nil
}

// computeDimension runs one computer with panic isolation.
func (e *Engine) computeDimension(ctx context.Context, c dimensions.Computer, in *dimensions.Input) (result types.DimensionResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.ErrorContext(ctx, "dimension computer panicked",
				"dimension", c.Name(), "panic", fmt.Sprint(r))
			RecordComputerFailure(ctx, c.Name())
			result = types.DimensionResult{
				Name:  c.Name(),
				Score: fallbackDimensionScore,
				Metrics: []types.MetricResult{{
					Name:            "fallback",
					Dimension:       c.Name(),
					RawValue:        0,
					NormalizedScore: fallbackDimensionScore,
					Explanation:     "Dimension computation failed; neutral score assigned",
				}},
			}
		}
	}()
	return types.NewDimensionResult(c.Name(), c.Compute(ctx, in))
}
