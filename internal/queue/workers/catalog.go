package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/quotelane/salesagent/internal/ingest"
	"github.com/quotelane/salesagent/internal/queue"
)

// CatalogWorker processes catalog ingest tasks off the queue so large files
// never block an API request.
type CatalogWorker struct {
	ingester *ingest.Service
}

func NewCatalogWorker(ingester *ingest.Service) *CatalogWorker {
	return &CatalogWorker{ingester: ingester}
}

func (w *CatalogWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.CatalogIngestPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal catalog ingest payload: %w", err)
	}

	slog.Info("ingesting catalog file", "path", payload.Path, "category", payload.Category)

	count, err := w.ingester.IngestFile(ctx, payload.Path, payload.Category)
	if err != nil {
		return fmt.Errorf("ingest %s: %w", payload.Path, err)
	}

	slog.Info("catalog ingest complete", "path", payload.Path, "products", count)
	return nil
}
