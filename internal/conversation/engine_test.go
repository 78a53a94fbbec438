package conversation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotelane/salesagent/internal/catalog"
	"github.com/quotelane/salesagent/internal/classifier"
)

type fakeSearcher struct {
	results      []catalog.Document
	calls        int
	lastQuery    string
	lastCategory string
}

func (f *fakeSearcher) Search(_ context.Context, query string, _ int, category string) []catalog.Document {
	f.calls++
	f.lastQuery = query
	f.lastCategory = category
	return f.results
}

type fakeClassifier struct {
	category classifier.Category
	intent   classifier.Intent
}

func (f *fakeClassifier) ClassifyCategory(context.Context, string) classifier.Category {
	return f.category
}

func (f *fakeClassifier) ClassifyIntent(context.Context, string, string) classifier.Intent {
	if f.intent.Entities == nil {
		return classifier.Intent{Intent: classifier.IntentProductSearch, Entities: map[string]string{}}
	}
	return f.intent
}

type fakeGenerator struct {
	reply string
	err   error
}

func (f *fakeGenerator) Generate(context.Context, string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.reply == "" {
		return "here are some options", nil
	}
	return f.reply, nil
}

func newTestEngine(searcher *fakeSearcher, cls *fakeClassifier, gen *fakeGenerator) *Engine {
	sessions := NewSessionCache(time.Hour, time.Hour)
	return NewEngine(sessions, searcher, cls, gen, 3)
}

func products() []catalog.Document {
	return []catalog.Document{
		{ID: "m1", Name: "Gaming Mouse", Price: 59.99},
		{ID: "m2", Name: "Office Mouse", Price: 19.99},
		{ID: "m3", Name: "Demo Mouse"},
	}
}

func TestDiscoveryToQuoteTransition(t *testing.T) {
	searcher := &fakeSearcher{results: products()}
	engine := newTestEngine(searcher, &fakeClassifier{}, &fakeGenerator{})
	sessionID := uuid.New()

	resp := engine.HandleMessage(context.Background(), sessionID, "I'll take it")

	assert.Equal(t, StageQuote, resp.Stage)
	assert.Equal(t, quoteQuestions, resp.NextQuestions)

	state := engine.sessions.GetOrCreate(sessionID)
	require.Len(t, state.SelectedProducts, 3)
	assert.InDelta(t, 79.98, state.TotalPrice, 1e-9)
}

func TestNoTransitionWithoutProducts(t *testing.T) {
	searcher := &fakeSearcher{}
	engine := newTestEngine(searcher, &fakeClassifier{}, &fakeGenerator{})
	sessionID := uuid.New()

	resp := engine.HandleMessage(context.Background(), sessionID, "I'll take it")

	assert.Equal(t, StageDiscovery, resp.Stage)
	assert.Equal(t, discoveryQuestions, resp.NextQuestions)

	state := engine.sessions.GetOrCreate(sessionID)
	assert.Empty(t, state.SelectedProducts)
	assert.Zero(t, state.TotalPrice)
}

func TestNoTransitionWithoutSignal(t *testing.T) {
	searcher := &fakeSearcher{results: products()}
	engine := newTestEngine(searcher, &fakeClassifier{}, &fakeGenerator{})

	resp := engine.HandleMessage(context.Background(), uuid.New(), "show me wireless options")

	assert.Equal(t, StageDiscovery, resp.Stage)
	assert.Len(t, resp.Products, 3)
}

func TestCategoryIsSticky(t *testing.T) {
	searcher := &fakeSearcher{results: products()}
	cls := &fakeClassifier{category: classifier.Category{Category: "display", Confidence: 0.9}}
	engine := newTestEngine(searcher, cls, &fakeGenerator{})
	sessionID := uuid.New()

	engine.HandleMessage(context.Background(), sessionID, "need a 27 inch monitor")
	assert.Equal(t, "display", searcher.lastCategory)

	// A later turn detecting a different category must not move the lock.
	cls.category = classifier.Category{Category: "processor", Confidence: 0.9}
	engine.HandleMessage(context.Background(), sessionID, "something fast")

	state := engine.sessions.GetOrCreate(sessionID)
	assert.Equal(t, "display", state.Category())
	assert.Equal(t, "display", searcher.lastCategory)
}

func TestGenericCategoryDoesNotLock(t *testing.T) {
	searcher := &fakeSearcher{results: products()}
	cls := &fakeClassifier{category: classifier.Category{Category: "generic"}}
	engine := newTestEngine(searcher, cls, &fakeGenerator{})
	sessionID := uuid.New()

	engine.HandleMessage(context.Background(), sessionID, "I need some hardware")

	state := engine.sessions.GetOrCreate(sessionID)
	assert.Equal(t, "", state.Category())
	assert.Equal(t, "", searcher.lastCategory)

	// Once a real category shows up it locks.
	cls.category = classifier.Category{Category: "memory", Confidence: 0.8}
	engine.HandleMessage(context.Background(), sessionID, "32GB DDR5 kits")
	assert.Equal(t, "memory", engine.sessions.GetOrCreate(sessionID).Category())
}

func TestQuoteStageIsFrozen(t *testing.T) {
	searcher := &fakeSearcher{results: products()}
	engine := newTestEngine(searcher, &fakeClassifier{}, &fakeGenerator{})
	sessionID := uuid.New()

	engine.HandleMessage(context.Background(), sessionID, "perfect, what's the price?")
	state := engine.sessions.GetOrCreate(sessionID)
	require.Equal(t, StageQuote, state.Stage)

	searchesBefore := searcher.calls
	selected := state.SelectedProducts
	total := state.TotalPrice

	// Later results changing must not leak into the frozen selection, and no
	// retrieval happens in Quote.
	searcher.results = []catalog.Document{{ID: "x", Name: "Other", Price: 999}}
	resp := engine.HandleMessage(context.Background(), sessionID, "add three more?")

	assert.Equal(t, StageQuote, resp.Stage)
	assert.Equal(t, searchesBefore, searcher.calls)
	assert.Equal(t, selected, state.SelectedProducts)
	assert.Equal(t, total, state.TotalPrice)
	assert.Equal(t, selected, resp.Products)
}

func TestEntityAccumulation(t *testing.T) {
	searcher := &fakeSearcher{}
	cls := &fakeClassifier{
		intent: classifier.Intent{
			Intent: classifier.IntentClarification,
			Entities: map[string]string{
				"budget":   "under 500",
				"category": "sneaky-overwrite",
			},
		},
	}
	engine := newTestEngine(searcher, cls, &fakeGenerator{})
	sessionID := uuid.New()

	engine.HandleMessage(context.Background(), sessionID, "my budget is 500")

	state := engine.sessions.GetOrCreate(sessionID)
	assert.Equal(t, "under 500", state.DiscoveredRequirements["budget"])
	assert.Equal(t, "", state.Category())

	// Entity keys refresh on repeated detection.
	cls.intent.Entities = map[string]string{"budget": "under 800"}
	engine.HandleMessage(context.Background(), sessionID, "actually up to 800")
	assert.Equal(t, "under 800", state.DiscoveredRequirements["budget"])
}

func TestGenerationFailureStillReplies(t *testing.T) {
	searcher := &fakeSearcher{results: products()}
	engine := newTestEngine(searcher, &fakeClassifier{}, &fakeGenerator{err: errors.New("provider down")})

	resp := engine.HandleMessage(context.Background(), uuid.New(), "show me mice")

	assert.Equal(t, fallbackReply, resp.Message)
	assert.Equal(t, StageDiscovery, resp.Stage)
}
