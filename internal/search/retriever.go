package search

import (
	"context"
	"time"

	"github.com/quotelane/salesagent/internal/catalog"
	"github.com/quotelane/salesagent/internal/embedding"
)

// LexicalRetriever issues a weighted multi-field term query against the
// product index, optionally scoped to a category partition.
type LexicalRetriever struct {
	backend catalog.Backend
	timeout time.Duration
}

func NewLexicalRetriever(backend catalog.Backend, timeout time.Duration) *LexicalRetriever {
	return &LexicalRetriever{backend: backend, timeout: timeout}
}

func (r *LexicalRetriever) Search(ctx context.Context, query string, topK int, scope string) ([]catalog.Document, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	return r.backend.LexicalQuery(ctx, scope, query, topK)
}

// VectorRetriever resolves the query to an embedding and issues a similarity
// query against the same scoped partition.
type VectorRetriever struct {
	backend  catalog.Backend
	embedder embedding.Embedder
	timeout  time.Duration
}

func NewVectorRetriever(backend catalog.Backend, embedder embedding.Embedder, timeout time.Duration) *VectorRetriever {
	return &VectorRetriever{backend: backend, embedder: embedder, timeout: timeout}
}

func (r *VectorRetriever) Search(ctx context.Context, query string, topK int, scope string) ([]catalog.Document, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	vec, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	return r.backend.VectorQuery(ctx, scope, vec, topK)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
