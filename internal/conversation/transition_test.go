package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitionDiscoveryToQuote(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		products int
		want     Stage
	}{
		{"purchase keyword with products", "what's the price on these?", 2, StageQuote},
		{"buy keyword", "I want to buy one", 1, StageQuote},
		{"how much phrase", "how much would that be", 1, StageQuote},
		{"ill take phrase", "I'll take it", 3, StageQuote},
		{"confirmation keyword", "yes, sounds good", 1, StageQuote},
		{"deictic reference", "this is exactly what I need", 1, StageQuote},
		{"keyword but zero products", "I'll take it", 0, StageDiscovery},
		{"products but no signal", "do you have anything with RGB lighting?", 3, StageDiscovery},
		{"no products no signal", "looking for a mechanical keyboard", 0, StageDiscovery},
		{"keyword inside word does not fire", "the brokerage fees are separate", 2, StageDiscovery},
		{"ok as whole word fires", "ok let's do it", 1, StageQuote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := Event{Message: tt.message, ProductCount: tt.products}
			assert.Equal(t, tt.want, Transition(StageDiscovery, ev))
		})
	}
}

func TestTransitionQuoteIsTerminal(t *testing.T) {
	// No event moves a session out of Quote.
	ev := Event{Message: "actually, show me keyboards instead", ProductCount: 0}
	assert.Equal(t, StageQuote, Transition(StageQuote, ev))
}
