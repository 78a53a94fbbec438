package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// PgCatalog backs the product index with Postgres: full-text search over a
// weighted tsvector (name heaviest, description next, remaining attributes
// lowest) and cosine similarity over a pgvector column.
type PgCatalog struct {
	db *pgxpool.Pool
}

func NewPgCatalog(db *pgxpool.Pool) *PgCatalog {
	return &PgCatalog{db: db}
}

func (c *PgCatalog) LexicalQuery(ctx context.Context, scope, query string, limit int) ([]Document, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := c.db.Query(ctx,
		`SELECT id, name, description, category, price, attrs,
		        ts_rank(tsv, q) AS score
		 FROM products, plainto_tsquery('english', $1) q
		 WHERE tsv @@ q AND ($2 = '' OR category = $2)
		 ORDER BY score DESC
		 LIMIT $3`,
		query, scope, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("lexical query: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

func (c *PgCatalog) VectorQuery(ctx context.Context, scope string, vector []float32, limit int) ([]Document, error) {
	if limit <= 0 {
		limit = 10
	}

	embedding := pgvector.NewVector(vector)

	rows, err := c.db.Query(ctx,
		`SELECT id, name, description, category, price, attrs,
		        1 - (embedding <=> $1) AS score
		 FROM products
		 WHERE embedding IS NOT NULL AND ($2 = '' OR category = $2)
		 ORDER BY embedding <=> $1
		 LIMIT $3`,
		embedding, scope, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("vector query: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

func (c *PgCatalog) Upsert(ctx context.Context, docs []Product) error {
	tx, err := c.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, d := range docs {
		var price *float64
		if d.Price > 0 {
			price = &d.Price
		}

		var embedding any
		if len(d.Embedding) > 0 {
			embedding = pgvector.NewVector(d.Embedding)
		}

		_, err := tx.Exec(ctx,
			`INSERT INTO products (id, name, description, category, price, attrs, embedding, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, now())
			 ON CONFLICT (id) DO UPDATE SET
			   name = $2, description = $3, category = $4, price = $5,
			   attrs = $6, embedding = $7, updated_at = now()`,
			d.ID, d.Name, d.Description, d.Category, price, d.Attrs, embedding,
		)
		if err != nil {
			return fmt.Errorf("upsert product %s: %w", d.ID, err)
		}
	}

	return tx.Commit(ctx)
}

type pgRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanDocuments(rows pgRows) ([]Document, error) {
	var docs []Document
	for rows.Next() {
		var d Document
		var price *float64
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.Category, &price, &d.Attrs, &d.Score); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if price != nil {
			d.Price = *price
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read products: %w", err)
	}
	return docs, nil
}
