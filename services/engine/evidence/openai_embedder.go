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
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/AleutianAI/AleutianVerify/services/engine/types"
)

// OpenAIEmbedderConfig controls the OpenAI embedding backend.
type OpenAIEmbedderConfig struct {
	// Model is the embedding model name.
	Model openai.EmbeddingModel

	// RequestsPerSecond limits outbound embedding calls. Zero disables
	// rate limiting.
	RequestsPerSecond float64

	// CacheTTL bounds how long an embedding is reused for identical
	// text. Zero disables the cache.
	CacheTTL time.Duration
}

// DefaultOpenAIEmbedderConfig returns production defaults: small model,
// 10 req/s, five-minute cache.
func DefaultOpenAIEmbedderConfig() OpenAIEmbedderConfig {
	return OpenAIEmbedderConfig{
		Model:             openai.SmallEmbedding3,
		RequestsPerSecond: 10,
		CacheTTL:          5 * time.Minute,
	}
}

// OpenAIEmbedder implements Embedder on the OpenAI embeddings API.
//
// # Description
//
// Wraps the go-openai client with a token-bucket rate limiter and a
// short-lived in-process cache. Claims repeat across documents within a
// single evaluation, so caching identical texts avoids redundant calls
// without changing results.
//
// # Thread Safety
//
// Safe for concurrent use; the limiter and cache are both concurrency
// safe.
type OpenAIEmbedder struct {
	client  *openai.Client
	model   openai.EmbeddingModel
	limiter *rate.Limiter
	cache   *gocache.Cache
}

// NewOpenAIEmbedder creates an embedder using the given API key.
func NewOpenAIEmbedder(apiKey string, cfg OpenAIEmbedderConfig) *OpenAIEmbedder {
	e := &OpenAIEmbedder{
		client: openai.NewClient(apiKey),
		model:  cfg.Model,
	}
	if e.model == "" {
		e.model = openai.SmallEmbedding3
	}
	if cfg.RequestsPerSecond > 0 {
		e.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	if cfg.CacheTTL > 0 {
		e.cache = gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}
	return e
}

// Embed returns the embedding vector for text.
//
// Honors the rate limit before calling out; a context expiring while
// waiting on the limiter is returned as an error so the matcher can
// degrade to the local tiers.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: text is empty", types.ErrInvalidInput)
	}

	key := cacheKey(text)
	if e.cache != nil {
		if v, ok := e.cache.Get(key); ok {
			return v.([]float32), nil
		}
	}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai embeddings: empty response")
	}

	vec := resp.Data[0].Embedding
	if e.cache != nil {
		e.cache.Set(key, vec, gocache.DefaultExpiration)
	}
	return vec, nil
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:16])
}
