// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package normalize provides scalar-to-scale conversion helpers used by
// every metric computer. All functions are total: defined for every real
// input, with division-by-zero guarded to 0.
package normalize

import "math"

// Linear maps value from [min,max] onto [0,100], clamping out-of-range
// inputs. With invert set, a lower raw value scores higher; use it for
// "less is better" metrics such as risk or drift.
func Linear(value, min, max float64, invert bool) float64 {
	if max <= min {
		return 0
	}
	v := value
	if v < min {
		v = min
	}
	if v > max {
		v = max
	}
	score := (v - min) / (max - min)
	if invert {
		score = 1 - score
	}
	return round2(score * 100)
}

// Ratio maps num/den onto [0,100], capped at 100. A zero or negative
// denominator yields 0 rather than an error.
func Ratio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	r := num / den
	if r < 0 {
		r = 0
	}
	if r > 1 {
		r = 1
	}
	return round2(r * 100)
}

// Binary returns 100 when ok is true, else 0.
func Binary(ok bool) float64 {
	if ok {
		return 100
	}
	return 0
}

// Count maps an occurrence count against an expected maximum onto [0,100].
// With invert set, zero occurrences score 100 (for "fewer is better"
// counts such as violations).
func Count(n, maxExpected int, invert bool) float64 {
	if maxExpected <= 0 {
		return 0
	}
	return Linear(float64(n), 0, float64(maxExpected), invert)
}

// Sigmoid maps value onto [0,100] through a logistic curve centered at
// midpoint. Steepness controls how sharp the transition is; values near
// the midpoint score near 50.
func Sigmoid(value, midpoint, steepness float64) float64 {
	s := 1.0 / (1.0 + math.Exp(-steepness*(value-midpoint)))
	return round2(s * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
