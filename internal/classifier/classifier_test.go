package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quotelane/salesagent/internal/llm"
)

type fakeGateway struct {
	content string
	err     error
	lastReq llm.ChatRequest
}

func (f *fakeGateway) Chat(_ context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &llm.ChatResponse{Content: f.content}, nil
}

func (f *fakeGateway) Embed(context.Context, llm.EmbeddingRequest) (*llm.EmbeddingResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeGateway) Provider(string) (llm.Provider, error) {
	return nil, errors.New("not implemented")
}

var testCategories = []string{"processor", "display", "memory"}

func TestClassifyCategory(t *testing.T) {
	gw := &fakeGateway{content: `{"category": "display", "confidence": 0.92}`}
	cls := NewLLMClassifier(gw, "", testCategories)

	got := cls.ClassifyCategory(context.Background(), "need a 27 inch monitor")

	assert.Equal(t, "display", got.Category)
	assert.InDelta(t, 0.92, got.Confidence, 1e-9)
	assert.Contains(t, gw.lastReq.Messages[0].Content, "processor, display, memory")
}

func TestClassifyCategoryStripsCodeFences(t *testing.T) {
	gw := &fakeGateway{content: "```json\n{\"category\": \"memory\", \"confidence\": 0.8}\n```"}
	cls := NewLLMClassifier(gw, "", testCategories)

	got := cls.ClassifyCategory(context.Background(), "32GB DDR5")

	assert.Equal(t, "memory", got.Category)
}

func TestClassifyCategoryFallsBackOnError(t *testing.T) {
	gw := &fakeGateway{err: errors.New("provider down")}
	cls := NewLLMClassifier(gw, "", testCategories)

	got := cls.ClassifyCategory(context.Background(), "anything")

	assert.Equal(t, Category{Category: "generic", Confidence: 0}, got)
}

func TestClassifyCategoryFallsBackOnGarbage(t *testing.T) {
	cls := NewLLMClassifier(&fakeGateway{content: "I think it's a monitor"}, "", testCategories)
	got := cls.ClassifyCategory(context.Background(), "monitor")
	assert.Equal(t, "generic", got.Category)

	cls = NewLLMClassifier(&fakeGateway{content: `{"confidence": 0.9}`}, "", testCategories)
	got = cls.ClassifyCategory(context.Background(), "monitor")
	assert.Equal(t, "generic", got.Category)
}

func TestClassifyIntent(t *testing.T) {
	gw := &fakeGateway{content: `{"intent": "quote_request", "confidence": 0.95, "entities": {"budget": "under 1000"}}`}
	cls := NewLLMClassifier(gw, "", testCategories)

	got := cls.ClassifyIntent(context.Background(), "how much for these?", "user asked about laptops")

	assert.Equal(t, IntentQuoteRequest, got.Intent)
	assert.Equal(t, "under 1000", got.Entities["budget"])
	assert.Contains(t, gw.lastReq.Messages[1].Content, "user asked about laptops")
}

func TestClassifyIntentFallsBackOnError(t *testing.T) {
	gw := &fakeGateway{err: errors.New("timeout")}
	cls := NewLLMClassifier(gw, "", testCategories)

	got := cls.ClassifyIntent(context.Background(), "anything", "")

	assert.Equal(t, IntentProductSearch, got.Intent)
	assert.InDelta(t, 0.5, got.Confidence, 1e-9)
	assert.NotNil(t, got.Entities)
	assert.Empty(t, got.Entities)
}

func TestClassifyIntentNormalizesMissingEntities(t *testing.T) {
	gw := &fakeGateway{content: `{"intent": "general", "confidence": 0.7}`}
	cls := NewLLMClassifier(gw, "", testCategories)

	got := cls.ClassifyIntent(context.Background(), "hi there", "")

	assert.Equal(t, IntentGeneral, got.Intent)
	assert.NotNil(t, got.Entities)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences(`  {"a":1}  `))
}
