// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package dimensions

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/AleutianAI/AleutianVerify/services/engine/normalize"
	"github.com/AleutianAI/AleutianVerify/services/engine/types"
)

// EnvironmentalCost estimates the inference cost, compute intensity,
// energy use, and cost efficiency of producing the response. Token
// counts come from metadata when the caller has them; otherwise they
// are estimated at four characters per token.
type EnvironmentalCost struct{}

func (EnvironmentalCost) Name() string { return types.DimEnvironmentalCost }

type tokenPricing struct {
	input  float64 // USD per 1M prompt tokens
	output float64 // USD per 1M completion tokens
}

var modelPricing = map[string]tokenPricing{
	"gpt-4-turbo":     {10, 30},
	"gpt-4o":          {5, 15},
	"gpt-3.5-turbo":   {0.5, 1.5},
	"claude-3-opus":   {15, 75},
	"claude-3-sonnet": {3, 15},
	"azure-openai":    {10, 30},
	"bedrock":         {8, 24},
	"default":         {5, 15},
}

var modelFlopPerToken = map[string]float64{
	"gpt-4-turbo":     1e12,
	"gpt-4o":          8e11,
	"gpt-3.5-turbo":   1e11,
	"claude-3-opus":   1.5e12,
	"claude-3-sonnet": 5e11,
	"default":         5e11,
}

const (
	energyKWhPerTFLOP = 0.00004
	costBudgetUSD     = 0.01  // reference cost for a single query
	energyBudgetKWh   = 0.001 // reference energy for a single query
)

var (
	numberToken   = regexp.MustCompile(`\d+`)
	entityToken   = regexp.MustCompile(`[A-Z][a-z]+\s+[A-Z][a-z]+`)
	attributionRe = regexp.MustCompile(`(according to|based on)`)
)

func (d EnvironmentalCost) Compute(_ context.Context, in *Input) []types.MetricResult {
	model := metaString(in.Metadata, "model")
	if model == "" {
		model = "default"
	}

	promptTokens, ok := metaInt(in.Metadata, "prompt_tokens")
	if !ok || promptTokens <= 0 {
		promptTokens = estimateTokens(in.Query)
	}
	completionTokens, ok := metaInt(in.Metadata, "completion_tokens")
	if !ok || completionTokens <= 0 {
		completionTokens = estimateTokens(in.Response)
	}

	cost := inferenceCost(model, promptTokens, completionTokens)
	flops := computeFLOPs(model, promptTokens, completionTokens)
	energyKWh := (flops / 1e12) * energyKWhPerTFLOP
	efficiency := costEfficiency(in.Response, cost)

	costRatio := clamp01(cost / costBudgetUSD)
	flopRatio := clamp01(flops / 1e12)
	energyRatio := clamp01(energyKWh / energyBudgetKWh)

	return []types.MetricResult{
		{
			Name:            "inference_cost",
			Dimension:       d.Name(),
			RawValue:        cost,
			NormalizedScore: normalize.Linear(costRatio, 0, 1, true),
			Explanation:     fmt.Sprintf("Inference cost: $%.4f", cost),
		},
		{
			Name:            "compute_intensity",
			Dimension:       d.Name(),
			RawValue:        flops,
			NormalizedScore: normalize.Linear(flopRatio, 0, 1, true),
			Explanation:     fmt.Sprintf("Compute intensity: %.2e FLOP", flops),
		},
		{
			Name:            "energy_consumption",
			Dimension:       d.Name(),
			RawValue:        energyKWh,
			NormalizedScore: normalize.Linear(energyRatio, 0, 1, true),
			Explanation:     fmt.Sprintf("Energy consumption: %.4f Wh", energyKWh*1000),
		},
		{
			Name:            "cost_efficiency",
			Dimension:       d.Name(),
			RawValue:        efficiency,
			NormalizedScore: normalize.Linear(efficiency, 0, 1, false),
			Explanation:     fmt.Sprintf("Cost efficiency score: %.0f%%", efficiency*100),
		},
	}
}

func estimateTokens(text string) int {
	n := len(text) / 4
	if n < 1 {
		n = 1
	}
	return n
}

func inferenceCost(model string, promptTokens, completionTokens int) float64 {
	pricing, ok := modelPricing[model]
	if !ok {
		pricing = modelPricing["default"]
	}
	return float64(promptTokens)/1e6*pricing.input + float64(completionTokens)/1e6*pricing.output
}

func computeFLOPs(model string, promptTokens, completionTokens int) float64 {
	perToken, ok := modelFlopPerToken[model]
	if !ok {
		perToken = modelFlopPerToken["default"]
	}
	return float64(promptTokens+completionTokens) * perToken
}

// costEfficiency measures information value delivered per unit of
// normalized cost. Value accrues from substance, figures, named
// entities, and source attribution.
func costEfficiency(response string, cost float64) float64 {
	if cost <= 0 {
		return 1.0
	}

	var value float64
	wordCount := len(strings.Fields(response))
	switch {
	case wordCount >= 30:
		value += 0.3
	case wordCount >= 15:
		value += 0.15
	}
	if numberToken.MatchString(response) {
		value += 0.3
	}
	if entityToken.MatchString(response) {
		value += 0.2
	}
	if attributionRe.MatchString(strings.ToLower(response)) {
		value += 0.2
	}

	normalizedCost := cost / costBudgetUSD
	if normalizedCost > 1 {
		normalizedCost = 1
	}
	return clamp01(value / normalizedCost)
}
