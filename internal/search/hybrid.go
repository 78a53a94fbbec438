package search

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/quotelane/salesagent/internal/catalog"
	"github.com/quotelane/salesagent/internal/embedding"
)

// overFetchFactor is how many candidates each retriever requests relative to
// top_k, so fusion still fills top_k after re-ranking.
const overFetchFactor = 2

// Engine is the hybrid search entry point: lexical and vector retrieval run
// concurrently, their results merge with reciprocal rank fusion, and the
// merged list is truncated to top_k. It is a pure read path.
type Engine struct {
	lexical *LexicalRetriever
	vector  *VectorRetriever
	router  *CategoryRouter
	rrfK    int
}

func NewEngine(backend catalog.Backend, embedder embedding.Embedder, rrfK int, callTimeout time.Duration) *Engine {
	if rrfK <= 0 {
		rrfK = DefaultRRFConstant
	}
	return &Engine{
		lexical: NewLexicalRetriever(backend, callTimeout),
		vector:  NewVectorRetriever(backend, embedder, callTimeout),
		router:  NewCategoryRouter(),
		rrfK:    rrfK,
	}
}

// Search runs the hybrid query. Backend and embedding failures degrade to an
// empty arm rather than failing the call: absence of one signal must not block
// the other, and absence of both is an empty result, not an error.
func (e *Engine) Search(ctx context.Context, query string, topK int, category string) []catalog.Document {
	if topK <= 0 {
		topK = 5
	}
	scope := e.router.ResolveScope(category)

	var lexResults, vecResults []catalog.Document

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		docs, err := e.lexical.Search(gctx, query, topK*overFetchFactor, scope)
		if err != nil {
			slog.Warn("lexical retrieval failed", "query", query, "scope", scope, "error", err)
			return nil
		}
		lexResults = docs
		return nil
	})
	g.Go(func() error {
		docs, err := e.vector.Search(gctx, query, topK*overFetchFactor, scope)
		if err != nil {
			slog.Warn("vector retrieval failed", "query", query, "scope", scope, "error", err)
			return nil
		}
		vecResults = docs
		return nil
	})
	g.Wait()

	fused := Fuse(lexResults, vecResults, e.rrfK)
	if len(fused) > topK {
		fused = fused[:topK]
	}
	return fused
}
