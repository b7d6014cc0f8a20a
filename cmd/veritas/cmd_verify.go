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
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianVerify/services/engine/types"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// verifyCmd runs claim verification alone on one case.
//
// # Examples
//
//	veritas verify case.yaml           # Verification report
//	veritas verify case.yaml --strict  # Cap score on HIGH severity
//	veritas verify case.yaml --json    # JSON for scripting
var verifyCmd = &cobra.Command{
	Use:   "verify [case file]",
	Short: "Check an answer's claims against its retrieved sources",
	Long: `Extracts factual claims from the answer, matches each one against
the supplied documents, and reports hallucination findings with a
verification score. Skips the nine-dimension evaluation.`,
	Args: cobra.ExactArgs(1),
	Run:  runVerifyCommand,
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runVerifyCommand(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cf, err := loadCase(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	eng := buildEngine()

	report, err := eng.Verify(ctx, cf.Response, cf.documents())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Verification failed: %v\n", err)
		os.Exit(1)
	}

	if flagJSON {
		outputJSON(report)
		return
	}
	outputVerification(report)

	// Non-zero exit when hallucinations are found, so the command can
	// gate CI pipelines.
	if report.HallucinatedClaims > 0 {
		os.Exit(1)
	}
}

// =============================================================================
// OUTPUT FORMATTING
// =============================================================================

func outputVerification(report *types.VerificationReport) {
	fmt.Printf("Verification score: %s%.2f%s\n",
		scoreColor(report.VerificationScore), report.VerificationScore, resetColor())
	fmt.Printf("Claims: %d total, %d verified, %d hallucinated\n",
		report.TotalClaims, report.VerifiedClaims, report.HallucinatedClaims)
	fmt.Printf("Penalty multiplier: %.2f\n", report.PenaltyMultiplier)
	fmt.Println(report.Summary)

	if len(report.Hallucinations) == 0 {
		return
	}

	fmt.Println("\nHallucinations:")
	for _, finding := range report.Hallucinations {
		text := finding.ClaimText
		if len(text) > 80 {
			text = text[:77] + "..."
		}
		fmt.Printf("  [%s] %s\n", finding.Severity, text)
		fmt.Printf("      %s\n", strings.TrimSpace(finding.Reason))
	}
}
