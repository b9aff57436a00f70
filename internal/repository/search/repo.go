// Package search adapts the storage facade's search surface to domain results.
// The repository is a thin translation layer: logical collection names and
// domain filters in, parsed result values out.
package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/modaic-ai/modaic-antm/internal/db"
	"github.com/modaic-ai/modaic-antm/internal/domain"
	"github.com/modaic-ai/modaic-antm/internal/domain/search/filter"
	"github.com/modaic-ai/modaic-antm/internal/domain/search/result"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	List(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
}

// Repo implements usecase/search.Repository.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// SearchKNN returns the k nearest passages of a collection with filter
// pre-filtering, ordered by ascending distance with ties broken by passage ID.
func (r *Repo) SearchKNN(
	ctx context.Context, collection string,
	vector []float32, k int, filters filter.Expression,
) ([]result.Result, error) {
	q := &db.KNNQuery{
		Collection: collection,
		Vector:     vector,
		K:          k,
		Filters:    filters,
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, wrapStoreErr("search knn", collection, err)
	}

	results := parseResults(sr, collection)
	result.SortByDistance(results)
	return results, nil
}

// ListByFilename returns passages whose source filename matches pattern,
// in stable ID order. Pattern supports '*' wildcards at either end.
func (r *Repo) ListByFilename(
	ctx context.Context, collection, pattern string, limit int,
) ([]result.Result, error) {
	q := &db.ListQuery{
		Collection: collection,
		Filters:    filter.Expression{}.WithFilename(pattern),
		Limit:      limit,
	}

	sr, err := r.store.List(ctx, q)
	if err != nil {
		return nil, wrapStoreErr("list by filename", collection, err)
	}

	results := parseResults(sr, collection)
	result.SortByID(results)
	return results, nil
}

func wrapStoreErr(op, collection string, err error) error {
	if errors.Is(err, db.ErrCollectionMissing) {
		return fmt.Errorf("%s %s: %w", op, collection, domain.ErrCollectionNotFound)
	}
	return fmt.Errorf("%s %s: %w", op, collection, err)
}

// parseResults converts db.SearchResult into domain results. Reserved fields
// carry content and filename; everything else is passage metadata.
func parseResults(sr *db.SearchResult, collection string) []result.Result {
	if sr == nil || len(sr.Entries) == 0 {
		return nil
	}

	results := make([]result.Result, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		var content, filename string
		meta := make(map[string]string)

		for k, v := range entry.Fields {
			switch k {
			case db.FieldContent:
				content = v
			case db.FieldFilename:
				filename = v
			default:
				meta[k] = v
			}
		}

		results = append(results, result.New(entry.ID, collection, filename, content, meta, entry.Distance))
	}
	return results
}
