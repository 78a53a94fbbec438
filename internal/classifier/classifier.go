package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quotelane/salesagent/internal/llm"
)

// Category is the result of category detection for a user message.
type Category struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// Intent is the result of intent classification for a user message.
type Intent struct {
	Intent     string            `json:"intent"`
	Confidence float64           `json:"confidence"`
	Entities   map[string]string `json:"entities,omitempty"`
}

// Known intent labels.
const (
	IntentProductSearch = "product_search"
	IntentClarification = "requirement_clarification"
	IntentQuoteRequest  = "quote_request"
	IntentGeneral       = "general"
)

// Service classifies user messages. Implementations never fail a call:
// classifier errors degrade to neutral defaults.
type Service interface {
	ClassifyCategory(ctx context.Context, message string) Category
	ClassifyIntent(ctx context.Context, message, history string) Intent
}

// LLMClassifier classifies via the LLM gateway with strict-JSON prompts.
type LLMClassifier struct {
	gateway    llm.Gateway
	model      string
	categories []string
}

func NewLLMClassifier(gw llm.Gateway, model string, categories []string) *LLMClassifier {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &LLMClassifier{gateway: gw, model: model, categories: categories}
}

// ClassifyCategory detects which catalog category a message is about. Any
// failure yields the generic category so a turn never fails on classification.
func (c *LLMClassifier) ClassifyCategory(ctx context.Context, message string) Category {
	fallback := Category{Category: "generic", Confidence: 0}

	resp, err := c.gateway.Chat(ctx, llm.ChatRequest{
		Model: c.model,
		Messages: []llm.Message{
			{
				Role: "system",
				Content: fmt.Sprintf(`Classify which product category the user's message is about.
Known categories: %s.
Use "generic" when no single category applies.
Reply with ONLY a JSON object: {"category": "label", "confidence": 0.0-1.0}`,
					strings.Join(c.categories, ", ")),
			},
			{Role: "user", Content: message},
		},
		Temperature: 0,
		MaxTokens:   50,
	})
	if err != nil {
		return fallback
	}

	var out Category
	if err := json.Unmarshal([]byte(stripFences(resp.Content)), &out); err != nil {
		return fallback
	}
	if out.Category == "" {
		return fallback
	}
	return out
}

// ClassifyIntent determines what the user wants this turn and extracts
// requirement entities. Failure yields a product_search default with no
// entities, matching the discovery-stage bias of the conversation flow.
func (c *LLMClassifier) ClassifyIntent(ctx context.Context, message, history string) Intent {
	fallback := Intent{Intent: IntentProductSearch, Confidence: 0.5, Entities: map[string]string{}}

	resp, err := c.gateway.Chat(ctx, llm.ChatRequest{
		Model: c.model,
		Messages: []llm.Message{
			{
				Role: "system",
				Content: `Analyze the user's message and classify their intent. Consider the conversation history for context.

Classify into one of these intents:
1. product_search - User is looking for specific products
2. requirement_clarification - User is providing more details about their needs
3. quote_request - User wants pricing or to finalize selection
4. general - General conversation

Return ONLY a JSON object with this format:
{"intent": "product_search", "confidence": 0.9, "entities": {"product_type": "laptop", "budget": "under 1000"}}`,
			},
			{
				Role:    "user",
				Content: fmt.Sprintf("Message: %s\n\nConversation History: %s", message, history),
			},
		},
		Temperature: 0,
		MaxTokens:   200,
	})
	if err != nil {
		return fallback
	}

	var out Intent
	if err := json.Unmarshal([]byte(stripFences(resp.Content)), &out); err != nil {
		return fallback
	}
	if out.Intent == "" {
		return fallback
	}
	if out.Entities == nil {
		out.Entities = map[string]string{}
	}
	return out
}

// stripFences removes markdown code fences models wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
