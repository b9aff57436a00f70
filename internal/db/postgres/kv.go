package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/modaic-ai/modaic-antm/internal/db"
)

// docdex_kv backs the embedding cache:
//
//	CREATE TABLE docdex_kv (
//	    key   TEXT PRIMARY KEY,
//	    value BYTEA NOT NULL
//	);

// Get retrieves a raw value by key (db.ErrKeyNotFound when absent).
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM docdex_kv WHERE key = $1", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: "SELECT", Err: err}
	}
	return value, nil
}

// Set stores a raw value under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	stmt := `
		INSERT INTO docdex_kv (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`
	if _, err := s.db.ExecContext(ctx, stmt, key, value); err != nil {
		return &db.Error{Op: "INSERT", Err: err}
	}
	return nil
}
