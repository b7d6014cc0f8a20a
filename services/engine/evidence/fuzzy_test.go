// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package evidence

import "testing"

func TestTokenSetRatio_Identical(t *testing.T) {
	if got := TokenSetRatio("budget allocation report", "budget allocation report"); got != 100 {
		t.Errorf("expected 100 for identical strings, got %d", got)
	}
}

func TestTokenSetRatio_SubsetScoresHigh(t *testing.T) {
	claim := "spent 500 crore"
	doc := "the department spent 500 crore on rural development schemes during the year"
	got := TokenSetRatio(claim, doc)
	if got < 90 {
		t.Errorf("claim tokens fully contained in document should score high, got %d", got)
	}
}

func TestTokenSetRatio_OrderIndependent(t *testing.T) {
	a := TokenSetRatio("finance ministry report", "report ministry finance")
	if a != 100 {
		t.Errorf("token order must not matter, got %d", a)
	}
}

func TestTokenSetRatio_Disjoint(t *testing.T) {
	got := TokenSetRatio("quantum entanglement physics", "municipal water supply records")
	if got > 40 {
		t.Errorf("disjoint strings should score low, got %d", got)
	}
}

func TestTokenSetRatio_EmptyInput(t *testing.T) {
	if got := TokenSetRatio("", "some text"); got != 0 {
		t.Errorf("expected 0 for empty input, got %d", got)
	}
	if got := TokenSetRatio("some text", ""); got != 0 {
		t.Errorf("expected 0 for empty input, got %d", got)
	}
}

func TestLexicalOverlap_FullOverlap(t *testing.T) {
	got := LexicalOverlap("budget allocation", "the annual budget allocation was approved")
	if got != 1.0 {
		t.Errorf("expected full overlap 1.0, got %v", got)
	}
}

func TestLexicalOverlap_StopWordsIgnored(t *testing.T) {
	// Only stop words in common; the content tokens never appear.
	got := LexicalOverlap("the figure is wrong", "the report was filed in the registry")
	if got != 0 {
		t.Errorf("stop-word overlap must not count, got %v", got)
	}
}

func TestLexicalOverlap_NoContentTokens(t *testing.T) {
	if got := LexicalOverlap("is the a of", "anything at all"); got != 0 {
		t.Errorf("expected 0 for stop-word-only claim, got %v", got)
	}
}

func TestLexicalOverlap_Partial(t *testing.T) {
	// "crore" matches, "567" and "allocation" do not.
	got := LexicalOverlap("allocation 567 crore", "they spent twelve crore rupees")
	if got <= 0 || got >= 1 {
		t.Errorf("expected partial overlap in (0,1), got %v", got)
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
	}
	for _, tc := range cases {
		if got := levenshtein(tc.a, tc.b); got != tc.want {
			t.Errorf("levenshtein(%q,%q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}
