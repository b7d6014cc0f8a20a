// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

// VeritasConfig is the persisted CLI configuration.
type VeritasConfig struct {
	// Jurisdiction: default compliance regime for evaluations
	Jurisdiction string `yaml:"jurisdiction"`

	// Strict: cap the verification score when HIGH severity
	// hallucinations are found
	Strict bool `yaml:"strict"`

	// Embedding: semantic matching backend
	Embedding EmbeddingConfig `yaml:"embedding"`

	// Weights: per-dimension weight overrides; empty means defaults
	Weights map[string]float64 `yaml:"weights,omitempty"`
}

type EmbeddingConfig struct {
	// Type can be "none", "http", or "openai"
	Type    string `yaml:"type"`
	BaseURL string `yaml:"base_url,omitempty"`
}

// DefaultConfig returns the first-run configuration: RTI jurisdiction,
// lenient scoring, no embedding backend.
func DefaultConfig() VeritasConfig {
	return VeritasConfig{
		Jurisdiction: "RTI",
		Strict:       false,
		Embedding: EmbeddingConfig{
			Type: "none",
		},
	}
}
