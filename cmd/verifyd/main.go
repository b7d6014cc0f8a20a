// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command verifyd starts the AleutianVerify HTTP server.
//
// This is the main entry point for the containerized verification
// service. It reads configuration from environment variables and starts
// the server.
//
// # Environment Variables
//
//   - VERIFY_PORT: HTTP server port (default: 12230)
//   - VERIFY_EMBEDDING_BACKEND: semantic matching backend - none, http, openai (default: none)
//   - VERIFY_EMBEDDING_URL: embedding service URL (required for http backend)
//   - VERIFY_JURISDICTION: default compliance regime - RTI, UK_GDPR, EU_AI_ACT (default: RTI)
//   - VERIFY_STRICT: cap verification score on HIGH severity findings (default: false)
//   - VERIFY_LOG_DIR: write JSON logs to this directory in addition to stderr
//   - OPENAI_API_KEY: API key for the openai backend
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OpenTelemetry collector (default: aleutian-otel-collector:4317)
//
// # Usage
//
//	# Build
//	go build -o verifyd ./cmd/verifyd
//
//	# Run
//	./verifyd
package main

import (
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/AleutianAI/AleutianVerify/pkg/logging"
	"github.com/AleutianAI/AleutianVerify/services/orchestrator"
)

func main() {
	// Setup structured logging
	logger := logging.New(logging.Config{
		Level:   logging.LevelInfo,
		Service: "verifyd",
		JSON:    true,
		LogDir:  os.Getenv("VERIFY_LOG_DIR"),
	})
	defer logger.Close()
	slog.SetDefault(logger.Slog())

	// Build configuration from environment variables
	cfg := orchestrator.Config{
		Port:             getEnvInt("VERIFY_PORT", 12230),
		EmbeddingBackend: getEnvString("VERIFY_EMBEDDING_BACKEND", "none"),
		EmbeddingURL:     os.Getenv("VERIFY_EMBEDDING_URL"),
		Jurisdiction:     getEnvString("VERIFY_JURISDICTION", "RTI"),
		Strict:           getEnvBool("VERIFY_STRICT", false),
		OTelEndpoint:     getEnvString("OTEL_EXPORTER_OTLP_ENDPOINT", "aleutian-otel-collector:4317"),
	}

	slog.Info("Starting verifyd",
		"port", cfg.Port,
		"embedding_backend", cfg.EmbeddingBackend,
		"jurisdiction", cfg.Jurisdiction,
		"strict", cfg.Strict,
	)

	// Create the service with default (no-op) auth
	// Enterprise builds pass a real AuthProvider here
	svc, err := orchestrator.New(cfg, nil)
	if err != nil {
		log.Fatalf("Failed to create verification service: %v", err)
	}

	// Run the server (blocks until shutdown)
	if err := svc.Run(); err != nil {
		log.Fatalf("Verification service error: %v", err)
	}
}

// getEnvString returns the environment variable value or a default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as an int or a default.
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("Invalid integer in environment, using default",
			"key", key, "value", value, "default", defaultValue)
		return defaultValue
	}
	return parsed
}

// getEnvBool returns the environment variable as a bool or a default.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		slog.Warn("Invalid boolean in environment, using default",
			"key", key, "value", value, "default", defaultValue)
		return defaultValue
	}
	return parsed
}
