package conversation

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/quotelane/salesagent/internal/catalog"
	"github.com/quotelane/salesagent/internal/classifier"
	"github.com/quotelane/salesagent/internal/search"
)

// Searcher is the retrieval entry point the engine drives during discovery.
type Searcher interface {
	Search(ctx context.Context, query string, topK int, category string) []catalog.Document
}

// Response is what a single turn produces for the caller.
type Response struct {
	Message       string             `json:"message"`
	Stage         Stage              `json:"stage"`
	Products      []catalog.Document `json:"products"`
	NextQuestions []string           `json:"next_questions"`
}

var (
	discoveryQuestions = []string{"What's your budget range?", "Any specific features you need?"}
	quoteQuestions     = []string{"Ready to place an order?", "Need any modifications?"}
)

const fallbackReply = "Sorry, I couldn't put together a reply just now. Could you rephrase or tell me more about what you're looking for?"

// Engine runs the two-stage conversation: Discovery gathers requirements and
// searches the catalog each turn; Quote re-reads the frozen selection and only
// assembles responses.
type Engine struct {
	sessions   *SessionCache
	searcher   Searcher
	classifier classifier.Service
	generator  Generator
	topK       int
}

func NewEngine(sessions *SessionCache, searcher Searcher, cls classifier.Service, gen Generator, topK int) *Engine {
	if topK <= 0 {
		topK = 3
	}
	return &Engine{
		sessions:   sessions,
		searcher:   searcher,
		classifier: cls,
		generator:  gen,
		topK:       topK,
	}
}

// HandleMessage processes one inbound user message for a session. Turns for
// the same session run strictly sequentially; turns for different sessions
// run in parallel.
func (e *Engine) HandleMessage(ctx context.Context, sessionID uuid.UUID, message string) *Response {
	state := e.sessions.GetOrCreate(sessionID)

	state.mu.Lock()
	defer state.mu.Unlock()

	switch state.Stage {
	case StageQuote:
		return e.quoteTurn(ctx, state, message)
	default:
		return e.discoveryTurn(ctx, state, message)
	}
}

func (e *Engine) discoveryTurn(ctx context.Context, state *State, message string) *Response {
	// Detect and lock a category the first time one shows up; the locked
	// category scopes every later search for the session.
	if state.Category() == "" {
		detected := e.classifier.ClassifyCategory(ctx, message)
		if detected.Category != "" && detected.Category != search.CategoryGeneric {
			state.LockCategory(detected.Category)
			slog.Info("category locked", "session_id", state.SessionID, "category", detected.Category)
		}
	}

	products := e.searcher.Search(ctx, message, e.topK, state.Category())

	intent := e.classifier.ClassifyIntent(ctx, message, "")
	state.MergeEntities(intent.Entities)

	reply := e.generate(ctx, formatPrompt(discoveryPrompt, map[string]string{
		"message":      message,
		"products":     renderProducts(products),
		"requirements": renderRequirements(state.DiscoveredRequirements),
	}))

	ev := Event{Message: message, ProductCount: len(products), Intent: intent}
	if Transition(state.Stage, ev) == StageQuote {
		state.Stage = StageQuote
		state.SelectedProducts = snapshot(products)
		state.TotalPrice = totalPrice(products)
		slog.Info("stage transition",
			"session_id", state.SessionID,
			"products", len(products),
			"total_price", state.TotalPrice,
		)
	}

	return &Response{
		Message:       reply,
		Stage:         state.Stage,
		Products:      products,
		NextQuestions: questionsFor(state.Stage),
	}
}

func (e *Engine) quoteTurn(ctx context.Context, state *State, message string) *Response {
	reply := e.generate(ctx, formatPrompt(quotePrompt, map[string]string{
		"selected_products": renderProducts(state.SelectedProducts),
		"requirements":      renderRequirements(state.DiscoveredRequirements),
		"message":           message,
	}))

	return &Response{
		Message:       reply,
		Stage:         state.Stage,
		Products:      state.SelectedProducts,
		NextQuestions: questionsFor(state.Stage),
	}
}

// generate never fails a turn: the conversation always gets a reply, so a
// generation error degrades to canned text.
func (e *Engine) generate(ctx context.Context, prompt string) string {
	reply, err := e.generator.Generate(ctx, prompt)
	if err != nil {
		slog.Warn("reply generation failed", "error", err)
		return fallbackReply
	}
	return reply
}

func questionsFor(stage Stage) []string {
	if stage == StageQuote {
		return quoteQuestions
	}
	return discoveryQuestions
}

// snapshot copies the turn's products so later result slices cannot alias the
// frozen selection.
func snapshot(products []catalog.Document) []catalog.Document {
	out := make([]catalog.Document, len(products))
	copy(out, products)
	return out
}

// totalPrice sums strictly positive prices; zero or missing prices are shown
// but not billed.
func totalPrice(products []catalog.Document) float64 {
	var total float64
	for _, p := range products {
		if p.Price > 0 {
			total += p.Price
		}
	}
	return total
}
