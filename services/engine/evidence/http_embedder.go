// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package evidence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/AleutianAI/AleutianVerify/services/engine/types"
)

// DefaultEmbeddingTimeout bounds each embedding request. Verification
// must complete even when the backend hangs, so this stays short.
const DefaultEmbeddingTimeout = 10 * time.Second

// HTTPEmbedder calls a local embeddings service over JSON.
//
// # Description
//
// HTTPEmbedder speaks the batch embedding protocol used by self-hosted
// transformer embedding services (BGE, Qwen, and similar): POST
// /batch_embed with a list of texts, receive one vector per text.
//
// # Thread Safety
//
// HTTPEmbedder is safe for concurrent use.
type HTTPEmbedder struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPEmbedder creates an embedder for the service at baseURL
// (e.g. "http://localhost:8000").
func NewHTTPEmbedder(baseURL string) *HTTPEmbedder {
	return &HTTPEmbedder{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultEmbeddingTimeout,
		},
	}
}

// WithTimeout sets a custom timeout for embedding requests.
func (c *HTTPEmbedder) WithTimeout(timeout time.Duration) *HTTPEmbedder {
	c.httpClient.Timeout = timeout
	return c
}

// embeddingRequest is the request body for the /batch_embed endpoint.
type embeddingRequest struct {
	Texts []string `json:"texts"`
}

// embeddingResponse is the response from the /batch_embed endpoint.
type embeddingResponse struct {
	ID        string      `json:"id"`
	Timestamp int64       `json:"timestamp"`
	Model     string      `json:"model"`
	Vectors   [][]float32 `json:"vectors"`
	Dim       int         `json:"dim"`
}

// Embed computes a vector embedding for the given text.
func (c *HTTPEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: text is empty", types.ErrInvalidInput)
	}

	vectors, err := c.BatchEmbed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embedding service returned no vectors")
	}
	return vectors[0], nil
}

// BatchEmbed computes embeddings for multiple texts in one request.
//
// # Description
//
// Batching reduces per-request overhead when the matcher embeds a claim
// together with several document slices.
//
// # Inputs
//
//   - ctx: Context for cancellation and timeout.
//   - texts: The texts to embed. Must be non-empty.
//
// # Outputs
//
//   - [][]float32: One vector per input text.
//   - error: Non-nil if the service is unreachable or returns non-200.
func (c *HTTPEmbedder) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: texts is empty", types.ErrInvalidInput)
	}

	bodyBytes, err := json.Marshal(embeddingRequest{Texts: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := c.baseURL + "/batch_embed"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embedding service returned status %d: %s", resp.StatusCode, string(body))
	}

	var embResp embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&embResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return embResp.Vectors, nil
}

// Health checks whether the embeddings service is reachable.
func (c *HTTPEmbedder) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("embedding service unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("embedding service unhealthy: status %d", resp.StatusCode)
	}
	return nil
}
