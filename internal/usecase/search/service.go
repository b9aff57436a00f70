// Package search implements the retrieval engine: single-collection nearest
// neighbor search, multi-collection merge, and hybrid semantic+keyword
// re-ranking, in that composition order.
package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/modaic-ai/modaic-antm/internal/domain"
	"github.com/modaic-ai/modaic-antm/internal/domain/search/query"
	"github.com/modaic-ai/modaic-antm/internal/domain/search/result"
)

// DefaultConcurrency bounds parallel per-collection searches in one call.
const DefaultConcurrency = 4

// Service handles passage search across one or more collections.
type Service struct {
	repo        Repository
	colls       CollectionReader
	embed       Embedder
	concurrency int
	logger      *zap.Logger
}

// New creates a search service.
func New(repo Repository, colls CollectionReader, embed Embedder, logger *zap.Logger) *Service {
	return &Service{
		repo:        repo,
		colls:       colls,
		embed:       embed,
		concurrency: DefaultConcurrency,
		logger:      logger,
	}
}

// WithConcurrency bounds the per-collection search fan-out.
func (s *Service) WithConcurrency(n int) *Service {
	if n > 0 {
		s.concurrency = n
	}
	return s
}

// Search runs a nearest-neighbor query against one collection and returns up
// to q.K results ordered by ascending distance, ties by passage ID.
func (s *Service) Search(ctx context.Context, collection string, q query.Query) ([]result.Result, error) {
	if _, err := s.colls.Get(ctx, collection); err != nil {
		return nil, fmt.Errorf("get collection: %w", err)
	}

	vector := q.Vector()
	if vector == nil {
		embResult, err := s.embed.Embed(ctx, q.Text())
		if err != nil {
			return nil, fmt.Errorf("vectorize query: %w", err)
		}
		vector = embResult.Embedding
	}

	results, err := s.repo.SearchKNN(ctx, collection, vector, q.K(), q.Filters())
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}

	return applyMaxDistance(results, q.MaxDistance()), nil
}

// FetchByFilename returns the passages of one collection whose source filename
// matches pattern ('*' wildcards at either end), in stable ID order.
func (s *Service) FetchByFilename(
	ctx context.Context, collection, pattern string, limit int,
) ([]result.Result, error) {
	if pattern == "" {
		return nil, fmt.Errorf("%w: filename pattern is required", domain.ErrInvalidQuery)
	}
	if _, err := s.colls.Get(ctx, collection); err != nil {
		return nil, fmt.Errorf("get collection: %w", err)
	}

	results, err := s.repo.ListByFilename(ctx, collection, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("list by filename: %w", err)
	}
	return results, nil
}

// applyMaxDistance drops results farther than the threshold. An empty result
// after thresholding is a successful search, not an error.
func applyMaxDistance(results []result.Result, maxDistance *float64) []result.Result {
	if maxDistance == nil {
		return results
	}
	filtered := make([]result.Result, 0, len(results))
	for _, r := range results {
		if r.Distance() <= *maxDistance {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
