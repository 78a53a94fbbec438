package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/quotelane/salesagent/internal/cache"
	"github.com/quotelane/salesagent/internal/llm"
)

// Embedder resolves text to a fixed-dimension embedding vector.
// Repeated calls with the same text must yield the same vector.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

type Service struct {
	gateway llm.Gateway
	model   string
	cache   *cache.Cache
	ttl     time.Duration
}

// NewService builds an embedding service backed by the LLM gateway.
// cache may be nil, in which case every call hits the provider.
func NewService(gw llm.Gateway, model string, c *cache.Cache, ttl time.Duration) *Service {
	if model == "" {
		model = "text-embedding-3-small"
	}
	return &Service{gateway: gw, model: model, cache: c, ttl: ttl}
}

// Embed generates embeddings for a batch of texts, batching provider calls.
func (s *Service) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	// Batch in groups of 100 for API limits
	const batchSize = 100
	var allEmbeddings [][]float32

	for i := 0; i < len(texts); i += batchSize {
		end := i + batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[i:end]

		resp, err := s.gateway.Embed(ctx, llm.EmbeddingRequest{
			Model: s.model,
			Input: batch,
		})
		if err != nil {
			return nil, fmt.Errorf("embed batch %d: %w", i/batchSize, err)
		}

		allEmbeddings = append(allEmbeddings, resp.Embeddings...)
	}

	return allEmbeddings, nil
}

// EmbedQuery embeds a single query string, consulting the cache first so the
// same query always resolves to the same vector.
func (s *Service) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	key := s.cacheKey(text)

	if s.cache != nil {
		var cached []float32
		if err := s.cache.Get(ctx, key, &cached); err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	embeddings, err := s.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, embeddings[0], s.ttl); err != nil {
			slog.Warn("failed to cache query embedding", "error", err)
		}
	}

	return embeddings[0], nil
}

func (s *Service) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(s.model + "\x00" + text))
	return "emb:" + hex.EncodeToString(sum[:])
}
