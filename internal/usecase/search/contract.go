package search

import (
	"context"

	"github.com/modaic-ai/modaic-antm/internal/domain"
	domcol "github.com/modaic-ai/modaic-antm/internal/domain/collection"
	"github.com/modaic-ai/modaic-antm/internal/domain/search/filter"
	"github.com/modaic-ai/modaic-antm/internal/domain/search/result"
)

// Repository defines the storage contract for search operations.
type Repository interface {
	SearchKNN(
		ctx context.Context, collection string,
		vector []float32, k int, filters filter.Expression,
	) ([]result.Result, error)

	ListByFilename(
		ctx context.Context, collection, pattern string, limit int,
	) ([]result.Result, error)
}

// CollectionReader reads collections for existence and compatibility checks.
type CollectionReader interface {
	Get(ctx context.Context, name string) (domcol.Collection, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
