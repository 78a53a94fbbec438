package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/quotelane/salesagent/internal/cache"
	"github.com/quotelane/salesagent/internal/catalog"
	"github.com/quotelane/salesagent/internal/config"
	"github.com/quotelane/salesagent/internal/database"
	"github.com/quotelane/salesagent/internal/embedding"
	"github.com/quotelane/salesagent/internal/ingest"
	"github.com/quotelane/salesagent/internal/llm"
	"github.com/quotelane/salesagent/internal/queue"
	"github.com/quotelane/salesagent/internal/queue/workers"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	gw := llm.NewGateway(cfg.LLM)
	embedSvc := embedding.NewService(gw, cfg.LLM.EmbeddingModel,
		cache.NewCache(rdb), cfg.Search.EmbeddingCacheTTL)
	ingestSvc := ingest.NewService(catalog.NewPgCatalog(db), embedSvc)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	registry := queue.NewHandlersRegistry()

	catalogWorker := workers.NewCatalogWorker(ingestSvc)
	registry.Register(queue.TypeCatalogIngest, asynq.HandlerFunc(catalogWorker.ProcessTask))

	slog.Info("starting worker", "concurrency", 10)
	if err := srv.Run(registry.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
