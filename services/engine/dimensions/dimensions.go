// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package dimensions implements the nine quality dimension computers.
//
// Each computer is a pure function of (query, response, documents,
// metadata, jurisdiction): no shared state, no ordering dependency on
// the other eight, so the engine runs them concurrently. All scoring is
// heuristic by design, pattern tables and weighted keyword counts, so
// every sub-metric stays auditable and explainable.
package dimensions

import (
	"context"

	"github.com/AleutianAI/AleutianVerify/services/engine/types"
)

// Input carries everything a dimension computer may consult. Metadata
// includes the verification counts folded in by the engine before
// dimension fan-out, plus any caller-supplied keys (model, token
// counts, baseline_response, human feedback scores).
type Input struct {
	Query        string
	Response     string
	Documents    []types.SupportingDocument
	Metadata     map[string]any
	Jurisdiction types.Jurisdiction
}

// Computer produces the sub-metrics for one quality dimension.
//
// # Thread Safety
//
// Implementations must be stateless and safe for concurrent use.
type Computer interface {
	// Name returns the dimension key.
	Name() string

	// Compute returns the dimension's sub-metrics. Implementations
	// never return an error: insufficient input yields documented
	// neutral values instead.
	Compute(ctx context.Context, in *Input) []types.MetricResult
}

// All returns the nine dimension computers in stable key order.
func All() []Computer {
	return []Computer{
		&BiasFairness{},
		&DataGrounding{},
		&Explainability{},
		&EthicalAlignment{},
		&HumanControl{},
		&LegalCompliance{},
		&Security{},
		&ResponseQuality{},
		&EnvironmentalCost{},
	}
}

// ===== Shared metadata helpers =====

func metaInt(meta map[string]any, key string) (int, bool) {
	if meta == nil {
		return 0, false
	}
	switch v := meta[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func metaFloat(meta map[string]any, key string, fallback float64) float64 {
	if meta == nil {
		return fallback
	}
	switch v := meta[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return fallback
	}
}

func metaString(meta map[string]any, key string) string {
	if meta == nil {
		return ""
	}
	if s, ok := meta[key].(string); ok {
		return s
	}
	return ""
}

func metaBool(meta map[string]any, key string) bool {
	if meta == nil {
		return false
	}
	b, _ := meta[key].(bool)
	return b
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
