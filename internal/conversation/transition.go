package conversation

import (
	"strings"
	"unicode"

	"github.com/quotelane/salesagent/internal/classifier"
)

// Event is the structured record a transition decision is made from: the raw
// message, the current turn's retrieval outcome, and the classified intent.
type Event struct {
	Message      string
	ProductCount int
	Intent       classifier.Intent
}

// purchaseKeywords signal the user wants pricing or to finalize selection.
var purchaseKeywords = []string{
	"price", "cost", "quote", "buy", "purchase", "order",
	"how much", "get this", "i want", "i'll take", "looks good",
	"perfect", "interested",
}

// confirmationKeywords signal agreement with what was presented.
var confirmationKeywords = []string{
	"yes", "ok", "sure", "sounds good", "that works", "perfect",
}

// deicticWords reference a presented product ("I'll take this").
var deicticWords = []string{"this", "that", "it"}

// Transition computes the next stage for an event. Quote is terminal: no
// transition back to Discovery exists. Discovery moves to Quote only when the
// turn surfaced at least one product and the message signals purchase intent,
// confirmation, or a deictic product reference.
func Transition(stage Stage, ev Event) Stage {
	if stage == StageQuote {
		return StageQuote
	}
	if ev.ProductCount > 0 && signalsQuote(ev.Message) {
		return StageQuote
	}
	return StageDiscovery
}

func signalsQuote(message string) bool {
	msg := strings.ToLower(message)

	for _, kw := range purchaseKeywords {
		if containsTerm(msg, kw) {
			return true
		}
	}
	for _, kw := range confirmationKeywords {
		if containsTerm(msg, kw) {
			return true
		}
	}
	for _, w := range deicticWords {
		if containsWord(msg, w) {
			return true
		}
	}
	return false
}

// containsTerm matches multi-word phrases as substrings and single words on
// word boundaries, so "ok" does not fire on "broker".
func containsTerm(msg, term string) bool {
	if strings.ContainsRune(term, ' ') || strings.ContainsRune(term, '\'') {
		return strings.Contains(msg, term)
	}
	return containsWord(msg, term)
}

func containsWord(msg, word string) bool {
	for _, tok := range strings.FieldsFunc(msg, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	}) {
		if strings.Trim(tok, "'") == word || tok == word {
			return true
		}
	}
	return false
}
