package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/modaic-ai/modaic-antm/internal/domain"
	domcol "github.com/modaic-ai/modaic-antm/internal/domain/collection"
	"github.com/modaic-ai/modaic-antm/internal/domain/search/merge"
	"github.com/modaic-ai/modaic-antm/internal/domain/search/query"
	"github.com/modaic-ai/modaic-antm/internal/domain/search/result"
)

// Status is the per-collection outcome of a multi-collection call. A healthy
// collection that matched nothing is OK with zero results; Err is set only
// when its search actually failed.
type Status struct {
	OK  bool
	Err error
}

// MultiResult is the merged output of a multi-collection call together with
// the per-collection status side channel.
type MultiResult struct {
	Results []result.Result
	Status  map[string]Status
}

// SearchMulti fans the query out across collections, searches each
// independently, and merges per-collection lists under the requested strategy.
// The query text is embedded once and reused for every collection.
func (s *Service) SearchMulti(ctx context.Context, m query.Multi) (MultiResult, error) {
	healthy, status, err := s.resolveCollections(ctx, m.Collections(), m.Policy())
	if err != nil {
		return MultiResult{}, err
	}
	if len(healthy) == 0 {
		return MultiResult{Status: status}, nil
	}

	q := m.Query()
	embResult, err := s.embed.Embed(ctx, q.Text())
	if err != nil {
		return MultiResult{}, fmt.Errorf("vectorize query: %w", err)
	}

	lists, searchErrs, err := s.fanOut(ctx, healthy, m.Policy(), func(gctx context.Context, name string) ([]result.Result, error) {
		results, err := s.repo.SearchKNN(gctx, name, embResult.Embedding, q.K(), q.Filters())
		if err != nil {
			return nil, err
		}
		return applyMaxDistance(results, q.MaxDistance()), nil
	})
	if err != nil {
		return MultiResult{}, err
	}

	recordOutcomes(status, healthy, searchErrs)

	merged := merge.Merge(m.Strategy(), lists)
	merged = merge.Cap(merged, m.TotalK())
	return MultiResult{Results: merged, Status: status}, nil
}

// resolveCollections loads metadata for every named collection, applies the
// failure policy to lookup errors, and verifies the survivors share an
// embedding space. Runs before any store search so incompatibility is caught
// eagerly.
func (s *Service) resolveCollections(
	ctx context.Context, names []string, policy query.FailurePolicy,
) ([]string, map[string]Status, error) {
	status := make(map[string]Status, len(names))
	healthy := make([]string, 0, len(names))

	var first *domcol.Collection
	for _, name := range names {
		col, err := s.colls.Get(ctx, name)
		if err != nil {
			if policy == query.PolicyFailFast {
				return nil, nil, domain.NewCollectionError(name, err)
			}
			s.logger.Warn("Skipping collection", zap.String("collection", name), zap.Error(err))
			status[name] = Status{Err: err}
			continue
		}

		if first == nil {
			first = &col
		} else if !first.CompatibleWith(col) {
			return nil, nil, fmt.Errorf(
				"%w: %s and %s", domain.ErrIncompatibleCollections, first.Name(), col.Name())
		}

		healthy = append(healthy, name)
	}

	return healthy, status, nil
}

// fanOut runs fn per collection concurrently, bounded by the service limit.
// Results land in an indexed slice so completion order never affects output.
// Under PolicyFailFast the first error cancels the remaining searches.
func (s *Service) fanOut(
	ctx context.Context, names []string, policy query.FailurePolicy,
	fn func(ctx context.Context, name string) ([]result.Result, error),
) ([][]result.Result, []error, error) {
	lists := make([][]result.Result, len(names))
	searchErrs := make([]error, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			results, err := fn(gctx, name)
			if err != nil {
				if policy == query.PolicyFailFast {
					return domain.NewCollectionError(name, err)
				}
				s.logger.Warn("Collection search failed",
					zap.String("collection", name), zap.Error(err))
				searchErrs[i] = err
				return nil
			}
			lists[i] = results
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return lists, searchErrs, nil
}

func recordOutcomes(status map[string]Status, names []string, searchErrs []error) {
	for i, name := range names {
		if searchErrs[i] != nil {
			status[name] = Status{Err: searchErrs[i]}
		} else {
			status[name] = Status{OK: true}
		}
	}
}
