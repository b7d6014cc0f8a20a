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
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

var (
	// Global is a singleton instance
	Global VeritasConfig
	once   sync.Once
)

// Load ensures the config is loaded into the Global variable.
// On first run the default config file is created.
func Load() error {
	var err error
	once.Do(func() {
		err = loadInternal()
	})
	return err
}

// configPath resolves the config file location. VERITAS_CONFIG overrides
// the default ~/.veritas/veritas.yaml, which keeps tests and containers
// away from the real home directory.
func configPath() (string, error) {
	if p := os.Getenv("VERITAS_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find the user's home directory: %w", err)
	}
	return filepath.Join(home, ".veritas", "veritas.yaml"), nil
}

func loadInternal() error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Printf(" First run detected, creating the config at %s\n", path)
		if err := createDefault(path); err != nil {
			return err
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read the config file %w", err)
	}
	if err = yaml.Unmarshal(data, &Global); err != nil {
		return fmt.Errorf("failed to unmarshal the config to the Global singleton: %w", err)
	}
	return validate(&Global)
}

// validate rejects settings the engine cannot honor. Unknown jurisdiction
// strings are not an error here: the engine falls back to RTI.
func validate(cfg *VeritasConfig) error {
	switch cfg.Embedding.Type {
	case "", "none", "openai":
	case "http":
		if cfg.Embedding.BaseURL == "" {
			return fmt.Errorf("embedding type %q requires base_url in the config", "http")
		}
	default:
		return fmt.Errorf("unknown embedding type %q (want none, http, or openai)", cfg.Embedding.Type)
	}
	for dim, w := range cfg.Weights {
		if w < 0 {
			return fmt.Errorf("negative weight %v for dimension %q", w, dim)
		}
	}
	return nil
}

func createDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create the config directory %w", err)
	}
	defaultCfg := DefaultConfig()
	data, err := yaml.Marshal(defaultCfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
