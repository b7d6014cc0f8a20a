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

import (
	"regexp"
	"sort"
	"strings"
)

var wordPattern = regexp.MustCompile(`[a-z0-9]+`)

// stopWords are filtered out of lexical-overlap comparisons. Function
// words match almost any document and would inflate overlap ratios.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"of": {}, "in": {}, "on": {}, "for": {}, "to": {}, "with": {}, "and": {},
	"or": {}, "but": {}, "not": {}, "be": {}, "have": {}, "has": {}, "had": {},
	"do": {}, "does": {}, "did": {}, "this": {}, "that": {}, "it": {}, "as": {},
	"at": {}, "by": {}, "from": {}, "its": {}, "their": {}, "there": {},
}

// tokenize lowercases text and returns its alphanumeric word tokens.
func tokenize(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

// tokenSet returns the unique tokens of text.
func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range tokenize(text) {
		set[t] = struct{}{}
	}
	return set
}

// TokenSetRatio computes a 0-100 token-set similarity between two
// strings.
//
// The comparison ignores token order and duplication: both strings are
// reduced to sorted unique-token strings built from their intersection
// and differences, and the best pairwise edit-distance ratio among those
// combinations is returned. A claim whose tokens all appear in the
// document scores 100 regardless of surrounding text.
func TokenSetRatio(a, b string) int {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	var inter, diffA, diffB []string
	for t := range setA {
		if _, ok := setB[t]; ok {
			inter = append(inter, t)
		} else {
			diffA = append(diffA, t)
		}
	}
	for t := range setB {
		if _, ok := setA[t]; !ok {
			diffB = append(diffB, t)
		}
	}
	sort.Strings(inter)
	sort.Strings(diffA)
	sort.Strings(diffB)

	base := strings.Join(inter, " ")
	combA := strings.TrimSpace(base + " " + strings.Join(diffA, " "))
	combB := strings.TrimSpace(base + " " + strings.Join(diffB, " "))

	best := editRatio(base, combA)
	if r := editRatio(base, combB); r > best {
		best = r
	}
	if r := editRatio(combA, combB); r > best {
		best = r
	}
	return best
}

// editRatio is the normalized edit-distance similarity of two strings on
// a 0-100 scale: ((lenA+lenB) - distance) / (lenA+lenB).
func editRatio(a, b string) int {
	if a == "" && b == "" {
		return 0
	}
	la, lb := len(a), len(b)
	d := levenshtein(a, b)
	return int(float64(la+lb-2*d) / float64(la+lb) * 100)
}

// levenshtein computes edit distance with a rolling single-row table.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func minInt(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// LexicalOverlap computes the stop-word-filtered fraction of claim
// tokens that also appear in the document. Returns 0 when the claim has
// no content-bearing tokens.
func LexicalOverlap(claim, document string) float64 {
	docSet := tokenSet(document)
	var total, hits int
	for t := range tokenSet(claim) {
		if _, stop := stopWords[t]; stop {
			continue
		}
		total++
		if _, ok := docSet[t]; ok {
			hits++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}
