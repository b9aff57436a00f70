package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/modaic-ai/modaic-antm/internal/db"
)

// docdex_collections is the catalog table written by the ingestion pipeline:
//
//	CREATE TABLE docdex_collections (
//	    name       TEXT PRIMARY KEY,
//	    vector_dim INTEGER NOT NULL,
//	    embedder   TEXT NOT NULL DEFAULT '',
//	    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);

// GetMeta returns the catalog row of one collection as a field map
// (db.ErrCollectionMissing when absent).
func (s *Store) GetMeta(ctx context.Context, name string) (map[string]string, error) {
	stmt := `
		SELECT name, vector_dim, embedder, created_at
		FROM docdex_collections
		WHERE name = $1
	`
	fields, err := scanMetaRow(s.db.QueryRowContext(ctx, stmt, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", db.ErrCollectionMissing, name)
		}
		return nil, wrapTableErr("SELECT", "docdex_collections", err)
	}
	return fields, nil
}

// ScanMeta returns the catalog rows of every collection.
func (s *Store) ScanMeta(ctx context.Context) ([]map[string]string, error) {
	stmt := `
		SELECT name, vector_dim, embedder, created_at
		FROM docdex_collections
		ORDER BY name ASC
	`
	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, wrapTableErr("SELECT", "docdex_collections", err)
	}
	defer rows.Close()

	var metas []map[string]string
	for rows.Next() {
		fields, err := scanMetaRow(rows)
		if err != nil {
			return nil, err
		}
		metas = append(metas, fields)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog rows: %w", err)
	}
	return metas, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMetaRow(row rowScanner) (map[string]string, error) {
	var (
		name, embedder string
		vectorDim      int
		createdAt      time.Time
	)
	if err := row.Scan(&name, &vectorDim, &embedder, &createdAt); err != nil {
		return nil, err
	}
	return map[string]string{
		"name":       name,
		"vector_dim": fmt.Sprintf("%d", vectorDim),
		"embedder":   embedder,
		"created_at": createdAt.UTC().Format(time.RFC3339),
	}, nil
}
