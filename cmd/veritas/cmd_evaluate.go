// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianVerify/services/engine"
	"github.com/AleutianAI/AleutianVerify/services/engine/types"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// evaluateCmd runs the full nine-dimension evaluation on one case.
//
// # Examples
//
//	veritas evaluate case.yaml                      # Full scorecard
//	veritas evaluate case.yaml --json               # JSON for scripting
//	veritas evaluate case.yaml -j EU_AI_ACT         # EU AI Act compliance
//	veritas evaluate case.yaml --strict             # Strict verification
var evaluateCmd = &cobra.Command{
	Use:   "evaluate [case file]",
	Short: "Score an answer across all nine quality dimensions",
	Long: `Runs the full evaluation on a YAML case file: claim verification
plus bias, grounding, explainability, ethics, human control, legal
compliance, security, response quality, and environmental cost.`,
	Args: cobra.ExactArgs(1),
	Run:  runEvaluateCommand,
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runEvaluateCommand(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cf, err := loadCase(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	eng := buildEngine()

	weights, err := resolveWeights(cf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	result, err := eng.Evaluate(ctx, engine.EvaluateRequest{
		Query:        cf.Query,
		Response:     cf.Response,
		Documents:    cf.documents(),
		Metadata:     cf.Metadata,
		Weights:      weights,
		Jurisdiction: resolveJurisdiction(cf),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Evaluation failed: %v\n", err)
		os.Exit(1)
	}

	if flagJSON {
		outputJSON(result)
		return
	}
	outputEvaluation(result)
}

// =============================================================================
// OUTPUT FORMATTING
// =============================================================================

func outputJSON(v any) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
		os.Exit(1)
	}
}

// outputEvaluation prints the human-readable scorecard.
func outputEvaluation(result *types.EvaluationResult) {
	fmt.Printf("Evaluation %s\n\n", result.EvaluationID)
	fmt.Printf("Overall score: %s%.2f%s\n\n",
		scoreColor(result.OverallScore), result.OverallScore, resetColor())

	// Stable ordering for the dimension table
	fmt.Println("Dimensions:")
	for _, name := range types.DimensionKeys() {
		dim, ok := result.Dimensions[name]
		if !ok {
			continue
		}
		fmt.Printf("  %-22s %s%6.2f%s\n",
			name, scoreColor(dim.Score), dim.Score, resetColor())
	}

	fmt.Printf("\nClaims: %d total, %d verified, %d hallucinated\n",
		result.TotalClaims, result.VerifiedClaims, result.HallucinatedClaims)
}
