// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command veritas evaluates RAG answers from the terminal.
//
// It runs the verification engine in-process: no server is needed.
// Cases are YAML files holding the query, the answer, and the
// retrieved source passages.
//
// # Usage
//
//	veritas evaluate case.yaml
//	veritas evaluate case.yaml --jurisdiction UK_GDPR --json
//	veritas verify case.yaml --strict
package main

import (
	"log"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}
