package conversation

import (
	"context"
	"fmt"

	"github.com/quotelane/salesagent/internal/llm"
)

// Generator produces the assistant's reply text from an assembled prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GatewayGenerator generates replies through the LLM gateway.
type GatewayGenerator struct {
	gateway llm.Gateway
	model   string
}

func NewGatewayGenerator(gw llm.Gateway, model string) *GatewayGenerator {
	return &GatewayGenerator{gateway: gw, model: model}
}

func (g *GatewayGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.gateway.Chat(ctx, llm.ChatRequest{
		Model: g.model,
		Messages: []llm.Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("generate reply: %w", err)
	}
	return resp.Content, nil
}
