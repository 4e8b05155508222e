package mcp

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SchemaRepo describes how gym documents are laid out inside the store.
type SchemaRepo interface {
	GetCollectionLayouts(ctx context.Context) ([]CollectionLayout, error)
}

// CollectionLayout is one collection of the documents table, with the
// top-level keys seen across its JSONB bodies.
type CollectionLayout struct {
	Collection string
	Documents  int
	Owners     int
	Keys       []string
}

type poolSchemaRepo struct {
	pool *pgxpool.Pool
}

func NewPoolSchemaRepo(pool *pgxpool.Pool) SchemaRepo {
	return &poolSchemaRepo{pool: pool}
}

func (r *poolSchemaRepo) GetCollectionLayouts(ctx context.Context) ([]CollectionLayout, error) {
	query := `
		SELECT d.collection,
		       COUNT(DISTINCT (d.owner_id, d.id)),
		       COUNT(DISTINCT d.owner_id),
		       COALESCE(array_agg(DISTINCT k.key ORDER BY k.key) FILTER (WHERE k.key IS NOT NULL), '{}')
		FROM documents d
		LEFT JOIN LATERAL jsonb_object_keys(d.data) AS k(key) ON true
		GROUP BY d.collection
		ORDER BY d.collection`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query collection layouts: %w", err)
	}
	defer rows.Close()

	var layouts []CollectionLayout
	for rows.Next() {
		var l CollectionLayout
		if err := rows.Scan(&l.Collection, &l.Documents, &l.Owners, &l.Keys); err != nil {
			return nil, fmt.Errorf("scan collection row: %w", err)
		}
		layouts = append(layouts, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating collections: %w", err)
	}

	return layouts, nil
}
