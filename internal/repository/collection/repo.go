// Package collection reads the collection catalog written by the ingestion
// pipeline and hydrates domain Collection values from it.
package collection

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/modaic-ai/modaic-antm/internal/db"
	"github.com/modaic-ai/modaic-antm/internal/domain"
	domcol "github.com/modaic-ai/modaic-antm/internal/domain/collection"
)

// store is the consumer interface for catalog reads (ISP).
type store interface {
	GetMeta(ctx context.Context, name string) (map[string]string, error)
	ScanMeta(ctx context.Context) ([]map[string]string, error)
	Count(ctx context.Context, collection string) (int64, error)
}

// Repo implements usecase/collection.Repository and usecase/search.CollectionReader.
type Repo struct {
	store            store
	defaultVectorDim int
}

// New creates a collection repository. defaultVectorDim fills in catalog rows
// written before the vector_dim field existed.
func New(s store, defaultVectorDim int) *Repo {
	return &Repo{store: s, defaultVectorDim: defaultVectorDim}
}

// Get retrieves a collection by name without its row count.
func (r *Repo) Get(ctx context.Context, name string) (domcol.Collection, error) {
	if err := domcol.ValidateName(name); err != nil {
		return domcol.Collection{}, fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, name)
	}

	m, err := r.store.GetMeta(ctx, name)
	if err != nil {
		if errors.Is(err, db.ErrCollectionMissing) {
			return domcol.Collection{}, fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, name)
		}
		return domcol.Collection{}, fmt.Errorf("get collection %s: %w", name, err)
	}

	return collectionFromMeta(m, name, r.defaultVectorDim, 0), nil
}

// Describe retrieves a collection by name including its current row count.
func (r *Repo) Describe(ctx context.Context, name string) (domcol.Collection, error) {
	col, err := r.Get(ctx, name)
	if err != nil {
		return domcol.Collection{}, err
	}

	count, err := r.store.Count(ctx, name)
	if err != nil {
		if errors.Is(err, db.ErrCollectionMissing) {
			return domcol.Collection{}, fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, name)
		}
		return domcol.Collection{}, fmt.Errorf("count collection %s: %w", name, err)
	}

	return domcol.Reconstruct(col.Name(), col.VectorDim(), col.EmbedderTag(), count, col.CreatedAt()), nil
}

// List returns every collection in the catalog sorted by name.
func (r *Repo) List(ctx context.Context) ([]domcol.Collection, error) {
	metas, err := r.store.ScanMeta(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan collections: %w", err)
	}

	cols := make([]domcol.Collection, 0, len(metas))
	for _, m := range metas {
		name := m["name"]
		if name == "" {
			continue
		}
		cols = append(cols, collectionFromMeta(m, name, r.defaultVectorDim, 0))
	}

	sort.Slice(cols, func(i, j int) bool { return cols[i].Name() < cols[j].Name() })
	return cols, nil
}
