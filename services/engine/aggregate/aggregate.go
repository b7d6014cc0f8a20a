// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package aggregate combines per-dimension scores into a single overall
// score.
package aggregate

import (
	"math"
)

// WeightedAverage computes sum(score*weight)/sum(weight) over the
// dimensions present in both maps, rounded to two decimals. Dimensions
// missing from either map contribute nothing. A zero total weight
// yields 0.
//
// # Inputs
//   - scores: dimension key -> score on the 0-100 scale
//   - weights: dimension key -> relative weight
//
// # Outputs
//   - overall score on the 0-100 scale, two-decimal precision
func WeightedAverage(scores map[string]float64, weights map[string]float64) float64 {
	var weightedSum, totalWeight float64
	for dim, score := range scores {
		w, ok := weights[dim]
		if !ok || w <= 0 {
			continue
		}
		weightedSum += score * w
		totalWeight += w
	}
	if totalWeight == 0 {
		return 0
	}
	return round2(weightedSum / totalWeight)
}

// WithPenalties applies multiplicative penalty factors after weighted
// averaging. Each penalty is a fraction in [0, 1] removed from the
// score; the result never drops below zero.
func WithPenalties(base float64, penalties ...float64) float64 {
	score := base
	for _, p := range penalties {
		if p <= 0 {
			continue
		}
		if p > 1 {
			p = 1
		}
		score *= 1 - p
	}
	if score < 0 {
		score = 0
	}
	return round2(score)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
