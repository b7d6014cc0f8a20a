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

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

// TestCreateDefault verifies default config creation.
func TestCreateDefault(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, ".veritas", "veritas.yaml")

	if err := createDefault(configPath); err != nil {
		t.Fatalf("createDefault() failed: %v", err)
	}

	// Verify the file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}

	// Read and verify the config
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("failed to read config file: %v", err)
	}

	var cfg VeritasConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("failed to parse config: %v", err)
	}

	if cfg.Jurisdiction != "RTI" {
		t.Errorf("Jurisdiction = %q, want %q", cfg.Jurisdiction, "RTI")
	}
	if cfg.Embedding.Type != "none" {
		t.Errorf("Embedding.Type = %q, want %q", cfg.Embedding.Type, "none")
	}
	if cfg.Strict {
		t.Error("Strict should default to false")
	}
}

// TestCreateDefault_DirectoryCreation verifies directory is created.
func TestCreateDefault_DirectoryCreation(t *testing.T) {
	tempDir := t.TempDir()

	// Use a nested path
	configPath := filepath.Join(tempDir, "deep", "nested", "path", "veritas.yaml")

	if err := createDefault(configPath); err != nil {
		t.Fatalf("createDefault() failed with nested path: %v", err)
	}

	dirPath := filepath.Dir(configPath)
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		t.Fatal("nested directories were not created")
	}
}

// TestValidate covers the settings the loader rejects.
func TestValidate(t *testing.T) {
	good := DefaultConfig()
	if err := validate(&good); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}

	httpNoURL := VeritasConfig{Embedding: EmbeddingConfig{Type: "http"}}
	if err := validate(&httpNoURL); err == nil {
		t.Error("http embedding without base_url should be rejected")
	}

	unknown := VeritasConfig{Embedding: EmbeddingConfig{Type: "carrier-pigeon"}}
	if err := validate(&unknown); err == nil {
		t.Error("unknown embedding type should be rejected")
	}

	negWeight := VeritasConfig{Weights: map[string]float64{"security": -1}}
	if err := validate(&negWeight); err == nil {
		t.Error("negative weight should be rejected")
	}
}

// TestConfigPath_EnvOverride verifies VERITAS_CONFIG takes precedence.
func TestConfigPath_EnvOverride(t *testing.T) {
	t.Setenv("VERITAS_CONFIG", "/tmp/custom/veritas.yaml")

	path, err := configPath()
	if err != nil {
		t.Fatalf("configPath() failed: %v", err)
	}
	if path != "/tmp/custom/veritas.yaml" {
		t.Errorf("path = %q, want env override", path)
	}
}

// TestConfigRoundTrip verifies a full config survives marshal/unmarshal.
func TestConfigRoundTrip(t *testing.T) {
	original := VeritasConfig{
		Jurisdiction: "UK_GDPR",
		Strict:       true,
		Embedding: EmbeddingConfig{
			Type:    "http",
			BaseURL: "http://localhost:9000",
		},
		Weights: map[string]float64{"response_quality": 0.5, "data_grounding": 0.5},
	}

	data, err := yaml.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var loaded VeritasConfig
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if loaded.Jurisdiction != original.Jurisdiction {
		t.Errorf("Jurisdiction = %q, want %q", loaded.Jurisdiction, original.Jurisdiction)
	}
	if !loaded.Strict {
		t.Error("Strict flag lost in round trip")
	}
	if loaded.Embedding.BaseURL != original.Embedding.BaseURL {
		t.Errorf("Embedding.BaseURL = %q, want %q", loaded.Embedding.BaseURL, original.Embedding.BaseURL)
	}
	if len(loaded.Weights) != 2 {
		t.Errorf("Weights = %v, want 2 entries", loaded.Weights)
	}
}
