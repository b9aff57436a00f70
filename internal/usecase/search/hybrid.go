package search

import (
	"context"
	"fmt"

	"github.com/modaic-ai/modaic-antm/internal/domain/search/boost"
	"github.com/modaic-ai/modaic-antm/internal/domain/search/merge"
	"github.com/modaic-ai/modaic-antm/internal/domain/search/query"
	"github.com/modaic-ai/modaic-antm/internal/domain/search/rank"
	"github.com/modaic-ai/modaic-antm/internal/domain/search/result"
)

// HybridSearch retrieves candidates semantically and re-ranks them by a
// composite of normalized similarity and keyword score. Each collection is
// over-fetched at 2x the requested k (capped at query.MaxK) so keyword-heavy
// passages just outside the semantic top-k can still surface; the final list
// is trimmed back to k.
//
// Collection failures follow the skip policy: healthy collections answer and
// failures land in the Status map.
func (s *Service) HybridSearch(ctx context.Context, h query.Hybrid) (MultiResult, error) {
	terms := h.BoostTerms()
	if len(terms) == 0 {
		terms = boost.Terms(h.Text())
	}

	healthy, status, err := s.resolveCollections(ctx, h.Collections(), query.PolicySkip)
	if err != nil {
		return MultiResult{}, err
	}
	if len(healthy) == 0 {
		return MultiResult{Status: status}, nil
	}

	embResult, err := s.embed.Embed(ctx, h.Text())
	if err != nil {
		return MultiResult{}, fmt.Errorf("vectorize query: %w", err)
	}

	fetchK := h.K() * 2
	if fetchK > query.MaxK {
		fetchK = query.MaxK
	}
	lists, searchErrs, err := s.fanOut(ctx, healthy, query.PolicySkip, func(gctx context.Context, name string) ([]result.Result, error) {
		return s.repo.SearchKNN(gctx, name, embResult.Embedding, fetchK, h.Filters())
	})
	if err != nil {
		return MultiResult{}, err
	}

	recordOutcomes(status, healthy, searchErrs)

	pool := merge.Merge(merge.Concatenate, lists)
	ranked := rank.Rerank(pool, terms, h.SemanticWeight())
	ranked = merge.Cap(ranked, h.K())

	return MultiResult{Results: ranked, Status: status}, nil
}
