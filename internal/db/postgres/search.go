package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/modaic-ai/modaic-antm/internal/db"
	"github.com/modaic-ai/modaic-antm/internal/domain/search/filter"
)

// undefinedTable is the PostgreSQL error code raised when a collection's
// table does not exist.
const undefinedTable = "42P01"

// SearchKNN returns the q.K nearest passages by cosine distance among those
// matching the prefilter. pgvector's `<=>` operator yields the raw distance,
// which is kept as-is.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if q.Collection == "" {
		return nil, fmt.Errorf("collection is required")
	}
	if len(q.Vector) == 0 {
		return nil, fmt.Errorf("vector is required")
	}
	if q.K <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}

	args := []any{pgvector.NewVector(q.Vector)}
	where, args := buildWhere(q.Filters, args)

	stmt := fmt.Sprintf(`
		SELECT id, filename, content, meta, embedding <=> $1 AS distance
		FROM %s
		%s
		ORDER BY distance ASC, id ASC
		LIMIT %d
	`, pq.QuoteIdentifier(q.Collection), where, q.K)

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, wrapTableErr("SELECT", q.Collection, err)
	}
	defer rows.Close()

	return scanEntries(rows, true)
}

// List returns passages matching the prefilter in stable ID order.
func (s *Store) List(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error) {
	if q.Collection == "" {
		return nil, fmt.Errorf("collection is required")
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 1000
	}

	where, args := buildWhere(q.Filters, nil)

	stmt := fmt.Sprintf(`
		SELECT id, filename, content, meta
		FROM %s
		%s
		ORDER BY id ASC
		LIMIT %d
	`, pq.QuoteIdentifier(q.Collection), where, limit)

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, wrapTableErr("SELECT", q.Collection, err)
	}
	defer rows.Close()

	return scanEntries(rows, false)
}

// Count returns the number of passages in a collection.
func (s *Store) Count(ctx context.Context, collection string) (int64, error) {
	stmt := fmt.Sprintf("SELECT COUNT(*) FROM %s", pq.QuoteIdentifier(collection))

	var total int64
	if err := s.db.QueryRowContext(ctx, stmt).Scan(&total); err != nil {
		return 0, wrapTableErr("COUNT", collection, err)
	}
	return total, nil
}

func scanEntries(rows *sql.Rows, withDistance bool) (*db.SearchResult, error) {
	var entries []db.SearchEntry
	for rows.Next() {
		var (
			id, filename, content string
			metaRaw               []byte
			distance              float64
		)

		var err error
		if withDistance {
			err = rows.Scan(&id, &filename, &content, &metaRaw, &distance)
		} else {
			err = rows.Scan(&id, &filename, &content, &metaRaw)
		}
		if err != nil {
			return nil, fmt.Errorf("scan passage row: %w", err)
		}

		fields := map[string]string{
			db.FieldFilename: filename,
			db.FieldContent:  content,
		}
		if len(metaRaw) > 0 {
			var meta map[string]string
			if err := json.Unmarshal(metaRaw, &meta); err != nil {
				return nil, fmt.Errorf("decode passage meta: %w", err)
			}
			for k, v := range meta {
				fields[k] = v
			}
		}

		entries = append(entries, db.SearchEntry{ID: id, Distance: distance, Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate passage rows: %w", err)
	}

	return &db.SearchResult{Total: len(entries), Entries: entries}, nil
}

// buildWhere translates filter.Expression into a WHERE clause. Metadata keys
// live in the JSONB meta column; numeric ranges cast through ::numeric.
// Arguments append after any already present (the KNN vector is $1).
func buildWhere(expr filter.Expression, args []any) (string, []any) {
	if expr.IsEmpty() {
		return "", args
	}

	var clauses []string

	if pattern := expr.FilenamePattern(); pattern != "" {
		if strings.ContainsRune(pattern, '*') {
			args = append(args, strings.ReplaceAll(pattern, "*", "%"))
			clauses = append(clauses, fmt.Sprintf("filename LIKE $%d", len(args)))
		} else {
			args = append(args, pattern)
			clauses = append(clauses, fmt.Sprintf("filename = $%d", len(args)))
		}
	}

	for _, cond := range expr.Must() {
		var clause string
		clause, args = buildCondition(cond, args)
		clauses = append(clauses, clause)
	}

	if should := expr.Should(); len(should) > 0 {
		parts := make([]string, 0, len(should))
		for _, cond := range should {
			var clause string
			clause, args = buildCondition(cond, args)
			parts = append(parts, clause)
		}
		clauses = append(clauses, "("+strings.Join(parts, " OR ")+")")
	}

	for _, cond := range expr.MustNot() {
		var clause string
		clause, args = buildCondition(cond, args)
		clauses = append(clauses, "NOT ("+clause+")")
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

func buildCondition(cond filter.Condition, args []any) (string, []any) {
	if cond.IsMatch() {
		args = append(args, cond.Key(), cond.Match())
		return fmt.Sprintf("meta->>$%d = $%d", len(args)-1, len(args)), args
	}
	if cond.IsRange() {
		return buildRangeCondition(cond.Key(), *cond.Range(), args)
	}
	return "TRUE", args
}

func buildRangeCondition(key string, r filter.Range, args []any) (string, []any) {
	args = append(args, key)
	field := fmt.Sprintf("(meta->>$%d)::numeric", len(args))

	var parts []string
	appendBound := func(op string, v *float64) {
		if v == nil {
			return
		}
		parts = append(parts, field+" "+op+" "+strconv.FormatFloat(*v, 'g', -1, 64))
	}
	appendBound(">", r.GT())
	appendBound(">=", r.GTE())
	appendBound("<", r.LT())
	appendBound("<=", r.LTE())

	return "(" + strings.Join(parts, " AND ") + ")", args
}

func wrapTableErr(op, collection string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == undefinedTable {
		return fmt.Errorf("%w: %s", db.ErrCollectionMissing, collection)
	}
	return &db.Error{Op: op, Err: err}
}
