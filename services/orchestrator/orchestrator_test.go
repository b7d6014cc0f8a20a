// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AleutianAI/AleutianVerify/services/engine/types"
)

func TestApplyConfigDefaults_ZeroValues(t *testing.T) {
	cfg := applyConfigDefaults(Config{})

	assert.Equal(t, 12230, cfg.Port)
	assert.Equal(t, "none", cfg.EmbeddingBackend)
	assert.Equal(t, string(types.JurisdictionRTI), cfg.Jurisdiction)
	assert.Equal(t, "aleutian-otel-collector:4317", cfg.OTelEndpoint)
	assert.True(t, cfg.EnableMetrics)
}

func TestApplyConfigDefaults_ExplicitValuesKept(t *testing.T) {
	cfg := applyConfigDefaults(Config{
		Port:             8080,
		EmbeddingBackend: "http",
		EmbeddingURL:     "http://embedder:9000",
		Jurisdiction:     "UK_GDPR",
		Strict:           true,
		OTelEndpoint:     "collector:4317",
	})

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "http", cfg.EmbeddingBackend)
	assert.Equal(t, "http://embedder:9000", cfg.EmbeddingURL)
	assert.Equal(t, "UK_GDPR", cfg.Jurisdiction)
	assert.True(t, cfg.Strict)
	assert.Equal(t, "collector:4317", cfg.OTelEndpoint)
}

func TestInitEmbedder_None(t *testing.T) {
	s := &service{config: applyConfigDefaults(Config{})}

	assert.NoError(t, s.initEmbedder())
	assert.Nil(t, s.embedder)
}

func TestInitEmbedder_HTTPRequiresURL(t *testing.T) {
	s := &service{config: applyConfigDefaults(Config{EmbeddingBackend: "http"})}

	err := s.initEmbedder()
	assert.ErrorContains(t, err, "EmbeddingURL")
}

func TestInitEmbedder_HTTP(t *testing.T) {
	s := &service{config: applyConfigDefaults(Config{
		EmbeddingBackend: "http",
		EmbeddingURL:     "http://embedder:9000",
	})}

	assert.NoError(t, s.initEmbedder())
	assert.NotNil(t, s.embedder)
}

func TestInitEmbedder_OpenAIRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	s := &service{config: applyConfigDefaults(Config{EmbeddingBackend: "openai"})}

	err := s.initEmbedder()
	assert.ErrorContains(t, err, "API key")
}

func TestInitEmbedder_OpenAIExplicitKey(t *testing.T) {
	s := &service{config: applyConfigDefaults(Config{
		EmbeddingBackend: "openai",
		OpenAIAPIKey:     "sk-test",
	})}

	assert.NoError(t, s.initEmbedder())
	assert.NotNil(t, s.embedder)
}

func TestInitEmbedder_UnknownBackend(t *testing.T) {
	s := &service{config: applyConfigDefaults(Config{EmbeddingBackend: "carrier-pigeon"})}

	err := s.initEmbedder()
	assert.ErrorContains(t, err, "unknown embedding backend")
}
