package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/quotelane/salesagent/internal/api/handlers"
	"github.com/quotelane/salesagent/internal/api/middleware"
	"github.com/quotelane/salesagent/internal/auth"
	"github.com/quotelane/salesagent/internal/cache"
	"github.com/quotelane/salesagent/internal/catalog"
	"github.com/quotelane/salesagent/internal/classifier"
	"github.com/quotelane/salesagent/internal/config"
	"github.com/quotelane/salesagent/internal/conversation"
	"github.com/quotelane/salesagent/internal/embedding"
	"github.com/quotelane/salesagent/internal/llm"
	"github.com/quotelane/salesagent/internal/queue"
	"github.com/quotelane/salesagent/internal/search"
	"github.com/quotelane/salesagent/internal/session"
)

type Router struct {
	mux   *chi.Mux
	db    *pgxpool.Pool
	redis *redis.Client
	cfg   *config.Config
	jwt   *auth.JWTMiddleware
	llmGW llm.Gateway
}

func NewRouter(db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config) *Router {
	return &Router{
		mux:   chi.NewRouter(),
		db:    db,
		redis: rdb,
		cfg:   cfg,
		jwt:   auth.NewJWTMiddleware(cfg.Auth.JWTSecret),
		llmGW: llm.NewGateway(cfg.LLM),
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	// Health endpoints (no auth)
	health := handlers.NewHealthHandler(rt.db, rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Initialize services
	store := catalog.NewPgCatalog(rt.db)
	embedSvc := embedding.NewService(rt.llmGW, rt.cfg.LLM.EmbeddingModel,
		cache.NewCache(rt.redis), rt.cfg.Search.EmbeddingCacheTTL)
	searchEngine := search.NewEngine(store, embedSvc, rt.cfg.Search.RRFConstant, rt.cfg.Search.CallTimeout)

	router := search.NewCategoryRouter()
	cls := classifier.NewLLMClassifier(rt.llmGW, rt.cfg.LLM.DefaultModel, router.Categories())
	gen := conversation.NewGatewayGenerator(rt.llmGW, rt.cfg.LLM.DefaultModel)
	sessions := conversation.NewSessionCache(rt.cfg.Session.TTL, rt.cfg.Session.CleanupInterval)
	engine := conversation.NewEngine(sessions, searchEngine, cls, gen, rt.cfg.Search.TopK)

	sessionStore := session.NewStore(rt.db)
	queueClient := queue.NewClient(rt.cfg.Redis)

	chatH := handlers.NewChatHandler(engine, sessionStore)
	searchH := handlers.NewSearchHandler(searchEngine)
	catalogH := handlers.NewCatalogHandler(queueClient)

	// Chat surface
	r.Route("/chat", func(r chi.Router) {
		r.Post("/session", chatH.CreateSession)
		r.Post("/message", chatH.Message)
	})

	// Lead history surface
	r.Route("/leads", func(r chi.Router) {
		r.Get("/", chatH.ListSessions)
		r.Get("/{session_id}", chatH.SessionMessages)
		r.Delete("/{session_id}", chatH.DeleteSession)
	})

	// API v1 (authenticated when a JWT secret is configured)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.jwt.Authenticate)

		r.Post("/search", searchH.Search)
		r.Post("/catalog/ingest", catalogH.Ingest)
	})

	return r
}
