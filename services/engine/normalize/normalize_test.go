// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package normalize

import "testing"

func TestLinear_BasicMapping(t *testing.T) {
	if got := Linear(0.5, 0, 1, false); got != 50 {
		t.Errorf("expected 50, got %v", got)
	}
	if got := Linear(25, 0, 100, false); got != 25 {
		t.Errorf("expected 25, got %v", got)
	}
}

func TestLinear_Clamping(t *testing.T) {
	if got := Linear(-5, 0, 1, false); got != 0 {
		t.Errorf("expected 0 for below-range value, got %v", got)
	}
	if got := Linear(2, 0, 1, false); got != 100 {
		t.Errorf("expected 100 for above-range value, got %v", got)
	}
}

func TestLinear_Invert(t *testing.T) {
	if got := Linear(0, 0, 1, true); got != 100 {
		t.Errorf("expected 100 for zero risk inverted, got %v", got)
	}
	if got := Linear(1, 0, 1, true); got != 0 {
		t.Errorf("expected 0 for max risk inverted, got %v", got)
	}
}

func TestLinear_DegenerateRange(t *testing.T) {
	if got := Linear(5, 3, 3, false); got != 0 {
		t.Errorf("expected 0 when max <= min, got %v", got)
	}
	if got := Linear(5, 4, 2, false); got != 0 {
		t.Errorf("expected 0 for inverted bounds, got %v", got)
	}
}

func TestRatio(t *testing.T) {
	if got := Ratio(3, 4); got != 75 {
		t.Errorf("expected 75, got %v", got)
	}
	if got := Ratio(5, 4); got != 100 {
		t.Errorf("expected cap at 100, got %v", got)
	}
	if got := Ratio(1, 0); got != 0 {
		t.Errorf("expected 0 for zero denominator, got %v", got)
	}
	if got := Ratio(-1, 4); got != 0 {
		t.Errorf("expected 0 for negative numerator, got %v", got)
	}
}

func TestBinary(t *testing.T) {
	if Binary(true) != 100 || Binary(false) != 0 {
		t.Error("Binary mapping wrong")
	}
}

func TestCount(t *testing.T) {
	if got := Count(0, 4, true); got != 100 {
		t.Errorf("expected 100 for zero violations, got %v", got)
	}
	if got := Count(4, 4, true); got != 0 {
		t.Errorf("expected 0 at the violation ceiling, got %v", got)
	}
	if got := Count(2, 4, false); got != 50 {
		t.Errorf("expected 50, got %v", got)
	}
	if got := Count(1, 0, false); got != 0 {
		t.Errorf("expected 0 for zero ceiling, got %v", got)
	}
}

func TestSigmoid(t *testing.T) {
	mid := Sigmoid(5, 5, 1)
	if mid != 50 {
		t.Errorf("expected 50 at midpoint, got %v", mid)
	}
	high := Sigmoid(10, 5, 1)
	low := Sigmoid(0, 5, 1)
	if high <= mid || low >= mid {
		t.Errorf("sigmoid not monotone: low=%v mid=%v high=%v", low, mid, high)
	}
}
