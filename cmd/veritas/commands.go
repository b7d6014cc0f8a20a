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
	"fmt"
	"log"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/AleutianVerify/cmd/veritas/config"
	"github.com/AleutianAI/AleutianVerify/services/engine"
	"github.com/AleutianAI/AleutianVerify/services/engine/evidence"
	"github.com/AleutianAI/AleutianVerify/services/engine/types"
)

// CaseFile is the YAML input for the evaluate and verify commands.
type CaseFile struct {
	Query        string             `yaml:"query"`
	Response     string             `yaml:"response"`
	Jurisdiction string             `yaml:"jurisdiction,omitempty"`
	Metadata     map[string]any     `yaml:"metadata,omitempty"`
	Documents    []CaseDocument     `yaml:"documents,omitempty"`
	Weights      map[string]float64 `yaml:"weights,omitempty"`
}

type CaseDocument struct {
	ID              string  `yaml:"id,omitempty"`
	Source          string  `yaml:"source"`
	Content         string  `yaml:"content"`
	Page            int     `yaml:"page,omitempty"`
	SimilarityScore float64 `yaml:"similarity_score,omitempty"`
}

var (
	rootCmd = &cobra.Command{
		Use:   "veritas",
		Short: "A CLI to verify and score RAG answers",
		Long: `Veritas checks a generated answer against its retrieved sources:
it extracts claims, matches them to evidence, flags hallucinations, and
scores the answer across nine quality dimensions.`,
	}

	flagJurisdiction string
	flagStrict       bool
	flagJSON         bool
	flagEmbeddingURL string
	flagWeights      string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagJurisdiction, "jurisdiction", "j", "",
		"Compliance regime: RTI, UK_GDPR, EU_AI_ACT (default from config)")
	rootCmd.PersistentFlags().BoolVar(&flagStrict, "strict", false,
		"Cap the verification score when HIGH severity hallucinations are found")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false,
		"Output as JSON for scripting")
	rootCmd.PersistentFlags().StringVar(&flagEmbeddingURL, "embedding-url", "",
		"HTTP embedding service URL for semantic matching (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagWeights, "weights", "",
		"YAML file of per-dimension weight overrides")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if err := config.Load(); err != nil {
			log.Fatalf("Error loading config: %v", err)
		}
	}

	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(verifyCmd)
}

// loadCase reads and parses one YAML case file.
func loadCase(path string) (*CaseFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read case file: %w", err)
	}
	var cf CaseFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse case file %s: %w", path, err)
	}
	return &cf, nil
}

func (cf *CaseFile) documents() []types.SupportingDocument {
	docs := make([]types.SupportingDocument, len(cf.Documents))
	for i, d := range cf.Documents {
		docs[i] = types.SupportingDocument{
			ID:              d.ID,
			Source:          d.Source,
			Content:         d.Content,
			Page:            d.Page,
			SimilarityScore: d.SimilarityScore,
		}
	}
	return docs
}

// resolveWeights applies the flag > case file > config precedence. A nil
// return means the engine defaults apply.
func resolveWeights(cf *CaseFile) (types.WeightSet, error) {
	if flagWeights != "" {
		data, err := os.ReadFile(flagWeights)
		if err != nil {
			return nil, fmt.Errorf("failed to read weights file: %w", err)
		}
		var w map[string]float64
		if err := yaml.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("failed to parse weights file %s: %w", flagWeights, err)
		}
		return types.WeightSet(w), nil
	}
	if len(cf.Weights) > 0 {
		return types.WeightSet(cf.Weights), nil
	}
	if len(config.Global.Weights) > 0 {
		return types.WeightSet(config.Global.Weights), nil
	}
	return nil, nil
}

// resolveJurisdiction applies the flag > case file > config precedence.
func resolveJurisdiction(cf *CaseFile) types.Jurisdiction {
	switch {
	case flagJurisdiction != "":
		return types.ParseJurisdiction(flagJurisdiction)
	case cf.Jurisdiction != "":
		return types.ParseJurisdiction(cf.Jurisdiction)
	default:
		return types.ParseJurisdiction(config.Global.Jurisdiction)
	}
}

// buildEngine constructs an in-process engine from the config and flags.
func buildEngine() *engine.Engine {
	var embedder evidence.Embedder

	embeddingURL := flagEmbeddingURL
	if embeddingURL == "" && config.Global.Embedding.Type == "http" {
		embeddingURL = config.Global.Embedding.BaseURL
	}
	switch {
	case embeddingURL != "":
		embedder = evidence.NewHTTPEmbedder(embeddingURL)
	case config.Global.Embedding.Type == "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(os.Stderr, "Warning: OPENAI_API_KEY not set, semantic matching disabled")
		} else {
			embedder = evidence.NewOpenAIEmbedder(apiKey, evidence.DefaultOpenAIEmbedderConfig())
		}
	}

	weights := types.DefaultWeights()
	if len(config.Global.Weights) > 0 {
		weights = types.WeightSet(config.Global.Weights)
	}

	return engine.New(embedder, engine.Config{
		Strict:  flagStrict || config.Global.Strict,
		Weights: weights,
	})
}

// =============================================================================
// OUTPUT HELPERS
// =============================================================================

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
)

// useColor reports whether stdout is an interactive terminal.
func useColor() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// scoreColor maps a 0-100 score onto the traffic light bands.
func scoreColor(score float64) string {
	if !useColor() {
		return ""
	}
	switch {
	case score >= 80:
		return colorGreen
	case score >= 60:
		return colorYellow
	default:
		return colorRed
	}
}

func resetColor() string {
	if !useColor() {
		return ""
	}
	return colorReset
}
