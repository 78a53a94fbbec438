package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Document is a single catalog product. Name, Description, Price and Category
// are the typed core; Attrs carries pass-through display attributes from the
// source data (extra catalog columns).
type Document struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Category    string         `json:"category,omitempty"`
	Price       float64        `json:"price,omitempty"`
	Score       float64        `json:"score,omitempty"`
	Attrs       map[string]any `json:"attrs,omitempty"`
}

// Identity returns the key under which two documents are considered the same
// entity: the resolved id when present, otherwise the product name.
func (d Document) Identity() string {
	if d.ID != "" {
		return d.ID
	}
	return d.Name
}

// ResolveID picks a document id from raw source fields in priority order:
// explicit product id, generic id, name, generated surrogate.
func ResolveID(fields map[string]string) string {
	for _, key := range []string{"product_id", "id", "name"} {
		if v := fields[key]; v != "" {
			return v
		}
	}
	return uuid.NewString()
}

// Backend exposes the two query capabilities of the product index. A scope of
// "" searches all category partitions.
type Backend interface {
	LexicalQuery(ctx context.Context, scope, query string, limit int) ([]Document, error)
	VectorQuery(ctx context.Context, scope string, vector []float32, limit int) ([]Document, error)
}

// Store is the full catalog interface, adding the write path used by ingestion.
type Store interface {
	Backend
	Upsert(ctx context.Context, docs []Product) error
}

// Product is a document with its embedding, as written by ingestion.
type Product struct {
	Document
	Embedding []float32
}
