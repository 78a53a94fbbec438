package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/quotelane/salesagent/internal/catalog"
	"github.com/quotelane/salesagent/internal/embedding"
)

// Service loads catalog files into the product index: parse, embed, upsert.
type Service struct {
	store    catalog.Store
	embedder *embedding.Service
}

func NewService(store catalog.Store, embedder *embedding.Service) *Service {
	return &Service{store: store, embedder: embedder}
}

// IngestFile indexes one CSV file. category scopes every row that has no
// category column of its own; it may be empty.
func (s *Service) IngestFile(ctx context.Context, path, category string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	docs, err := ParseCSV(f, category)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(docs) == 0 {
		slog.Warn("no products found in catalog file", "path", path)
		return 0, nil
	}

	// Embed the description, falling back to the name for sparse rows.
	texts := make([]string, len(docs))
	for i, d := range docs {
		text := d.Description
		if text == "" {
			text = d.Name
		}
		texts[i] = text
	}

	embeddings, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed products: %w", err)
	}
	if len(embeddings) != len(docs) {
		return 0, fmt.Errorf("embedding count mismatch: %d texts, %d vectors", len(docs), len(embeddings))
	}
	for i := range docs {
		docs[i].Embedding = embeddings[i]
	}

	if err := s.store.Upsert(ctx, docs); err != nil {
		return 0, fmt.Errorf("upsert products: %w", err)
	}

	slog.Info("indexed catalog file", "path", filepath.Base(path), "products", len(docs))
	return len(docs), nil
}
