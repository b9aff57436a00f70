package search

import (
	"context"
	"errors"
	"testing"

	"github.com/modaic-ai/modaic-antm/internal/domain"
	domcol "github.com/modaic-ai/modaic-antm/internal/domain/collection"
	"github.com/modaic-ai/modaic-antm/internal/domain/search/filter"
	"github.com/modaic-ai/modaic-antm/internal/domain/search/query"
	"github.com/modaic-ai/modaic-antm/internal/domain/search/result"
)

func TestSearch_HappyPath(t *testing.T) {
	svc, repo, _, embed := newTestService(t)
	ctx := context.Background()

	repo.searchKNNFn = func(_ context.Context, collection string, vector []float32, k int, _ filter.Expression) ([]result.Result, error) {
		if collection != "reports" {
			t.Errorf("unexpected collection: %s", collection)
		}
		if k != 3 {
			t.Errorf("unexpected k: %d", k)
		}
		if len(vector) != 4 {
			t.Errorf("unexpected vector: %v", vector)
		}
		return []result.Result{
			res("p1", "reports", 0.1),
			res("p2", "reports", 0.2),
			res("p3", "reports", 0.3),
		}, nil
	}

	results, err := svc.Search(ctx, "reports", mustQuery(t, "total revenue 2022", 3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalIDs(ids(results), []string{"p1", "p2", "p3"}) {
		t.Fatalf("unexpected order: %v", ids(results))
	}
	if embed.calls != 1 {
		t.Fatalf("expected 1 embed call, got %d", embed.calls)
	}
}

func TestSearch_SuppliedVectorSkipsEmbedding(t *testing.T) {
	svc, repo, _, embed := newTestService(t)

	repo.searchKNNFn = func(_ context.Context, _ string, vector []float32, _ int, _ filter.Expression) ([]result.Result, error) {
		if vector[0] != 0.9 {
			t.Errorf("expected supplied vector, got %v", vector)
		}
		return nil, nil
	}

	q, err := query.New("", 5, filter.Expression{}, nil, []float32{0.9, 0.8, 0.7, 0.6})
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}

	if _, err := svc.Search(context.Background(), "reports", q); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if embed.calls != 0 {
		t.Fatalf("expected no embed calls, got %d", embed.calls)
	}
}

func TestSearch_CollectionNotFound(t *testing.T) {
	svc, _, colls, _ := newTestService(t)

	colls.getFn = func(_ context.Context, name string) (domcol.Collection, error) {
		return domcol.Collection{}, domain.ErrCollectionNotFound
	}

	_, err := svc.Search(context.Background(), "ghost", mustQuery(t, "anything", 5))
	if !errors.Is(err, domain.ErrCollectionNotFound) {
		t.Fatalf("expected ErrCollectionNotFound, got %v", err)
	}
}

func TestSearch_EmbeddingErrorPropagates(t *testing.T) {
	svc, _, _, embed := newTestService(t)

	embed.embedFn = func(_ context.Context, _ string) (domain.EmbeddingResult, error) {
		return domain.EmbeddingResult{}, domain.ErrEmbeddingProvider
	}

	_, err := svc.Search(context.Background(), "reports", mustQuery(t, "anything", 5))
	if !errors.Is(err, domain.ErrEmbeddingProvider) {
		t.Fatalf("expected ErrEmbeddingProvider, got %v", err)
	}
}

func TestSearch_MaxDistanceDropsResults(t *testing.T) {
	svc, repo, _, _ := newTestService(t)

	repo.searchKNNFn = func(_ context.Context, _ string, _ []float32, _ int, _ filter.Expression) ([]result.Result, error) {
		return []result.Result{
			res("p1", "reports", 0.1),
			res("p2", "reports", 0.4),
			res("p3", "reports", 0.9),
		}, nil
	}

	maxDist := 0.5
	q, err := query.New("question", 3, filter.Expression{}, &maxDist, nil)
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}

	results, err := svc.Search(context.Background(), "reports", q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalIDs(ids(results), []string{"p1", "p2"}) {
		t.Fatalf("expected threshold to drop p3, got %v", ids(results))
	}
}

func TestSearch_MaxDistanceCanEmptyResult(t *testing.T) {
	svc, repo, _, _ := newTestService(t)

	repo.searchKNNFn = func(_ context.Context, _ string, _ []float32, _ int, _ filter.Expression) ([]result.Result, error) {
		return []result.Result{res("p1", "reports", 0.8)}, nil
	}

	maxDist := 0.01
	q, err := query.New("question", 3, filter.Expression{}, &maxDist, nil)
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}

	results, err := svc.Search(context.Background(), "reports", q)
	if err != nil {
		t.Fatalf("expected empty successful result, got error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected empty result, got %v", ids(results))
	}
}

// --- FetchByFilename ---

func TestFetchByFilename_HappyPath(t *testing.T) {
	svc, repo, _, _ := newTestService(t)

	repo.listByFilenameFn = func(_ context.Context, collection, pattern string, limit int) ([]result.Result, error) {
		if pattern != "AnnualReport*" {
			t.Errorf("unexpected pattern: %s", pattern)
		}
		return []result.Result{res("p1", collection, 0)}, nil
	}

	results, err := svc.FetchByFilename(context.Background(), "reports", "AnnualReport*", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
}

func TestFetchByFilename_EmptyPattern(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.FetchByFilename(context.Background(), "reports", "", 100)
	if !errors.Is(err, domain.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}
