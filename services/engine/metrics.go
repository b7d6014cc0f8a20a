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
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/AleutianVerify/services/engine/types"
)

// Package-level tracer and meter for verification and evaluation.
var (
	tracer = otel.Tracer("aleutian.verify")
	meter  = otel.Meter("aleutian.verify")
)

var (
	evaluationsTotal     metric.Int64Counter
	verificationsTotal   metric.Int64Counter
	hallucinationsTotal  metric.Int64Counter
	computerFailures     metric.Int64Counter
	overallScoreHist     metric.Float64Histogram
	verificationScore    metric.Float64Histogram
	evaluationDuration   metric.Float64Histogram
	verificationDuration metric.Float64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		evaluationsTotal, err = meter.Int64Counter(
			"verify_evaluations_total",
			metric.WithDescription("Total evaluations by jurisdiction and outcome"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		verificationsTotal, err = meter.Int64Counter(
			"verify_verifications_total",
			metric.WithDescription("Total verification runs by verdict"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		hallucinationsTotal, err = meter.Int64Counter(
			"verify_hallucination_findings_total",
			metric.WithDescription("Total hallucination findings by severity and claim type"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		computerFailures, err = meter.Int64Counter(
			"verify_dimension_failures_total",
			metric.WithDescription("Dimension computers that failed and fell back to neutral"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		overallScoreHist, err = meter.Float64Histogram(
			"verify_overall_score",
			metric.WithDescription("Distribution of overall evaluation scores"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		verificationScore, err = meter.Float64Histogram(
			"verify_verification_score",
			metric.WithDescription("Distribution of claim verification scores"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		evaluationDuration, err = meter.Float64Histogram(
			"verify_evaluation_duration_seconds",
			metric.WithDescription("End-to-end evaluation duration"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		verificationDuration, err = meter.Float64Histogram(
			"verify_verification_duration_seconds",
			metric.WithDescription("Claim verification duration"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// RecordEvaluation records aggregate metrics for one evaluation run.
//
// Thread Safety: Safe for concurrent use.
func RecordEvaluation(ctx context.Context, jurisdiction types.Jurisdiction, score float64, duration time.Duration) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("jurisdiction", string(jurisdiction)),
	)

	evaluationsTotal.Add(ctx, 1, attrs)
	overallScoreHist.Record(ctx, score, attrs)
	evaluationDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordVerification records metrics for one verification run.
//
// Thread Safety: Safe for concurrent use.
func RecordVerification(ctx context.Context, report *types.VerificationReport, duration time.Duration) {
	if err := initMetrics(); err != nil {
		return
	}
	if report == nil {
		return
	}

	verdict := "verified"
	if len(report.Hallucinations) > 0 {
		verdict = "findings"
	}

	attrs := metric.WithAttributes(attribute.String("verdict", verdict))
	verificationsTotal.Add(ctx, 1, attrs)
	verificationScore.Record(ctx, report.VerificationScore, attrs)
	verificationDuration.Record(ctx, duration.Seconds(), attrs)

	for _, f := range report.Hallucinations {
		hallucinationsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("severity", string(f.Severity)),
			attribute.String("claim_type", string(f.ClaimType)),
		))
	}
}

// RecordComputerFailure records a dimension computer falling back to a
// neutral score.
//
// Thread Safety: Safe for concurrent use.
func RecordComputerFailure(ctx context.Context, dimension string) {
	if err := initMetrics(); err != nil {
		return
	}
	computerFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("dimension", dimension),
	))
}

// StartEvaluationSpan creates a span for an evaluation run.
//
// Thread Safety: Safe for concurrent use.
func StartEvaluationSpan(ctx context.Context, operation string, jurisdiction types.Jurisdiction, docCount int) (context.Context, trace.Span) {
	return tracer.Start(ctx, operation,
		trace.WithAttributes(
			attribute.String("verify.jurisdiction", string(jurisdiction)),
			attribute.Int("verify.document_count", docCount),
		),
	)
}

// SetEvaluationSpanResult sets result attributes on an evaluation span.
//
// Thread Safety: Safe for concurrent use.
func SetEvaluationSpanResult(span trace.Span, result *types.EvaluationResult) {
	if result == nil {
		return
	}
	span.SetAttributes(
		attribute.Float64("verify.overall_score", result.OverallScore),
		attribute.Int("verify.total_claims", result.TotalClaims),
		attribute.Int("verify.verified_claims", result.VerifiedClaims),
		attribute.Int("verify.hallucinated_claims", result.HallucinatedClaims),
	)
}
