package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotelane/salesagent/internal/catalog"
)

type fakeBackend struct {
	lexDocs  []catalog.Document
	lexErr   error
	lexLimit int
	lexScope string

	vecDocs  []catalog.Document
	vecErr   error
	vecLimit int
	vecScope string
}

func (f *fakeBackend) LexicalQuery(_ context.Context, scope, _ string, limit int) ([]catalog.Document, error) {
	f.lexLimit = limit
	f.lexScope = scope
	return f.lexDocs, f.lexErr
}

func (f *fakeBackend) VectorQuery(_ context.Context, scope string, _ []float32, limit int) ([]catalog.Document, error) {
	f.vecLimit = limit
	f.vecScope = scope
	return f.vecDocs, f.vecErr
}

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f *fakeEmbedder) EmbedQuery(context.Context, string) ([]float32, error) {
	return f.vec, f.err
}

func newTestEngine(backend *fakeBackend, embedder *fakeEmbedder) *Engine {
	return NewEngine(backend, embedder, DefaultRRFConstant, time.Second)
}

func TestHybridSearchFusesAndTruncates(t *testing.T) {
	backend := &fakeBackend{
		lexDocs: []catalog.Document{doc("A"), doc("B"), doc("C")},
		vecDocs: []catalog.Document{doc("B"), doc("A"), doc("D")},
	}
	engine := newTestEngine(backend, &fakeEmbedder{vec: []float32{0.1, 0.2}})

	results := engine.Search(context.Background(), "gaming mouse", 2, "")

	assert.Equal(t, []string{"A", "B"}, ids(results))
}

func TestHybridSearchOverFetches(t *testing.T) {
	backend := &fakeBackend{}
	engine := newTestEngine(backend, &fakeEmbedder{vec: []float32{0.1}})

	engine.Search(context.Background(), "keyboard", 5, "")

	assert.Equal(t, 10, backend.lexLimit)
	assert.Equal(t, 10, backend.vecLimit)
}

func TestHybridSearchScopesRecognizedCategory(t *testing.T) {
	backend := &fakeBackend{}
	engine := newTestEngine(backend, &fakeEmbedder{vec: []float32{0.1}})

	engine.Search(context.Background(), "ssd", 3, "storage-internal")
	assert.Equal(t, "storage-internal", backend.lexScope)
	assert.Equal(t, "storage-internal", backend.vecScope)

	engine.Search(context.Background(), "ssd", 3, "not-a-category")
	assert.Equal(t, "", backend.lexScope)
	assert.Equal(t, "", backend.vecScope)
}

func TestHybridSearchSoftFailsLexical(t *testing.T) {
	backend := &fakeBackend{
		lexErr:  errors.New("index unreachable"),
		vecDocs: []catalog.Document{doc("V1"), doc("V2")},
	}
	engine := newTestEngine(backend, &fakeEmbedder{vec: []float32{0.1}})

	results := engine.Search(context.Background(), "monitor", 5, "")

	assert.Equal(t, []string{"V1", "V2"}, ids(results))
}

func TestHybridSearchSoftFailsEmbedding(t *testing.T) {
	backend := &fakeBackend{
		lexDocs: []catalog.Document{doc("L1")},
	}
	engine := newTestEngine(backend, &fakeEmbedder{err: errors.New("provider down")})

	results := engine.Search(context.Background(), "monitor", 5, "")

	require.Len(t, results, 1)
	assert.Equal(t, "L1", results[0].ID)
}

func TestHybridSearchBothArmsFailing(t *testing.T) {
	backend := &fakeBackend{
		lexErr: errors.New("boom"),
		vecErr: errors.New("boom"),
	}
	engine := newTestEngine(backend, &fakeEmbedder{vec: []float32{0.1}})

	results := engine.Search(context.Background(), "anything", 5, "")

	assert.Empty(t, results)
}

func TestHybridSearchDefaultsTopK(t *testing.T) {
	backend := &fakeBackend{}
	engine := newTestEngine(backend, &fakeEmbedder{vec: []float32{0.1}})

	engine.Search(context.Background(), "mouse", 0, "")

	assert.Equal(t, 5*overFetchFactor, backend.lexLimit)
}
