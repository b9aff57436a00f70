package search

import (
	"context"
	"errors"
	"testing"

	"github.com/modaic-ai/modaic-antm/internal/domain"
	domcol "github.com/modaic-ai/modaic-antm/internal/domain/collection"
	"github.com/modaic-ai/modaic-antm/internal/domain/search/filter"
	"github.com/modaic-ai/modaic-antm/internal/domain/search/merge"
	"github.com/modaic-ai/modaic-antm/internal/domain/search/query"
	"github.com/modaic-ai/modaic-antm/internal/domain/search/result"
)

func mustMulti(
	t *testing.T, collections []string, k int,
	strategy merge.Strategy, policy query.FailurePolicy,
) query.Multi {
	t.Helper()
	m, err := query.NewMulti(collections, "question", k, strategy, policy, filter.Expression{}, nil, 0)
	if err != nil {
		t.Fatalf("query.NewMulti: %v", err)
	}
	return m
}

func fixtureRepo(repo *mockRepo, data map[string][]result.Result, errs map[string]error) {
	repo.searchKNNFn = func(_ context.Context, collection string, _ []float32, _ int, _ filter.Expression) ([]result.Result, error) {
		if err, ok := errs[collection]; ok {
			return nil, err
		}
		return data[collection], nil
	}
}

func TestSearchMulti_BestGlobalOrder(t *testing.T) {
	svc, repo, _, _ := newTestService(t)

	fixtureRepo(repo, map[string][]result.Result{
		"a": {res("a1", "a", 0.1), res("a2", "a", 0.5)},
		"b": {res("b1", "b", 0.2), res("b2", "b", 0.3)},
	}, nil)

	out, err := svc.SearchMulti(context.Background(),
		mustMulti(t, []string{"a", "b"}, 2, merge.Best, query.PolicySkip))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalIDs(ids(out.Results), []string{"a1", "b1", "b2", "a2"}) {
		t.Fatalf("unexpected order: %v", ids(out.Results))
	}
	if !out.Status["a"].OK || !out.Status["b"].OK {
		t.Fatalf("expected both collections OK: %+v", out.Status)
	}
}

func TestSearchMulti_InterleaveRoundRobin(t *testing.T) {
	svc, repo, _, _ := newTestService(t)

	fixtureRepo(repo, map[string][]result.Result{
		"a": {res("a1", "a", 0.1), res("a2", "a", 0.5)},
		"b": {res("b1", "b", 0.2), res("b2", "b", 0.3)},
	}, nil)

	out, err := svc.SearchMulti(context.Background(),
		mustMulti(t, []string{"a", "b"}, 2, merge.Interleave, query.PolicySkip))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Round-robin by per-collection rank, not global distance.
	if !equalIDs(ids(out.Results), []string{"a1", "b1", "a2", "b2"}) {
		t.Fatalf("unexpected order: %v", ids(out.Results))
	}
}

func TestSearchMulti_ConcatenatePreservesCollectionOrder(t *testing.T) {
	svc, repo, _, _ := newTestService(t)

	fixtureRepo(repo, map[string][]result.Result{
		"a": {res("a1", "a", 0.9)},
		"b": {res("b1", "b", 0.1)},
	}, nil)

	out, err := svc.SearchMulti(context.Background(),
		mustMulti(t, []string{"a", "b"}, 1, merge.Concatenate, query.PolicySkip))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalIDs(ids(out.Results), []string{"a1", "b1"}) {
		t.Fatalf("expected caller collection order, got %v", ids(out.Results))
	}
}

func TestSearchMulti_EmbedsOnce(t *testing.T) {
	svc, repo, _, embed := newTestService(t)

	fixtureRepo(repo, map[string][]result.Result{}, nil)

	_, err := svc.SearchMulti(context.Background(),
		mustMulti(t, []string{"a", "b", "c"}, 2, merge.Concatenate, query.PolicySkip))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if embed.calls != 1 {
		t.Fatalf("expected 1 embed call across collections, got %d", embed.calls)
	}
}

func TestSearchMulti_SkipPolicySurfacesFailure(t *testing.T) {
	svc, repo, colls, _ := newTestService(t)

	colls.getFn = func(_ context.Context, name string) (domcol.Collection, error) {
		if name == "ghost" {
			return domcol.Collection{}, domain.ErrCollectionNotFound
		}
		return domcol.Reconstruct(name, 4, "test-model", 0, 0), nil
	}
	fixtureRepo(repo, map[string][]result.Result{
		"a": {res("a1", "a", 0.1)},
	}, nil)

	out, err := svc.SearchMulti(context.Background(),
		mustMulti(t, []string{"a", "ghost"}, 1, merge.Concatenate, query.PolicySkip))
	if err != nil {
		t.Fatalf("expected partial success, got error: %v", err)
	}
	if !equalIDs(ids(out.Results), []string{"a1"}) {
		t.Fatalf("unexpected results: %v", ids(out.Results))
	}
	if out.Status["ghost"].OK || out.Status["ghost"].Err == nil {
		t.Fatalf("expected ghost failure in status map: %+v", out.Status)
	}
	if !out.Status["a"].OK {
		t.Fatalf("expected a OK: %+v", out.Status)
	}
}

func TestSearchMulti_FailFastOnLookup(t *testing.T) {
	svc, _, colls, _ := newTestService(t)

	colls.getFn = func(_ context.Context, name string) (domcol.Collection, error) {
		if name == "ghost" {
			return domcol.Collection{}, domain.ErrCollectionNotFound
		}
		return domcol.Reconstruct(name, 4, "test-model", 0, 0), nil
	}

	_, err := svc.SearchMulti(context.Background(),
		mustMulti(t, []string{"a", "ghost"}, 1, merge.Concatenate, query.PolicyFailFast))
	if !errors.Is(err, domain.ErrCollectionNotFound) {
		t.Fatalf("expected ErrCollectionNotFound, got %v", err)
	}

	var colErr *domain.CollectionError
	if !errors.As(err, &colErr) || colErr.Collection != "ghost" {
		t.Fatalf("expected failing collection name in error, got %v", err)
	}
}

func TestSearchMulti_FailFastOnSearch(t *testing.T) {
	svc, repo, _, _ := newTestService(t)

	boom := errors.New("store down")
	fixtureRepo(repo, map[string][]result.Result{
		"a": {res("a1", "a", 0.1)},
	}, map[string]error{"b": boom})

	_, err := svc.SearchMulti(context.Background(),
		mustMulti(t, []string{"a", "b"}, 1, merge.Concatenate, query.PolicyFailFast))
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped search error, got %v", err)
	}
}

func TestSearchMulti_IncompatibleCollections(t *testing.T) {
	svc, _, colls, _ := newTestService(t)

	colls.getFn = func(_ context.Context, name string) (domcol.Collection, error) {
		if name == "big" {
			return domcol.Reconstruct(name, 3072, "test-model", 0, 0), nil
		}
		return domcol.Reconstruct(name, 4, "test-model", 0, 0), nil
	}

	_, err := svc.SearchMulti(context.Background(),
		mustMulti(t, []string{"small", "big"}, 1, merge.Best, query.PolicySkip))
	if !errors.Is(err, domain.ErrIncompatibleCollections) {
		t.Fatalf("expected ErrIncompatibleCollections, got %v", err)
	}
}

func TestSearchMulti_AllCollectionsFailedSkip(t *testing.T) {
	svc, _, colls, embed := newTestService(t)

	colls.getFn = func(_ context.Context, _ string) (domcol.Collection, error) {
		return domcol.Collection{}, domain.ErrCollectionNotFound
	}

	out, err := svc.SearchMulti(context.Background(),
		mustMulti(t, []string{"x", "y"}, 1, merge.Concatenate, query.PolicySkip))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Results) != 0 {
		t.Fatalf("expected no results, got %v", ids(out.Results))
	}
	if len(out.Status) != 2 {
		t.Fatalf("expected status for both collections: %+v", out.Status)
	}
	if embed.calls != 0 {
		t.Fatalf("expected no embed call with no healthy collections, got %d", embed.calls)
	}
}

func TestSearchMulti_TotalKCapsMergedList(t *testing.T) {
	svc, repo, _, _ := newTestService(t)

	fixtureRepo(repo, map[string][]result.Result{
		"a": {res("a1", "a", 0.1), res("a2", "a", 0.2)},
		"b": {res("b1", "b", 0.3), res("b2", "b", 0.4)},
	}, nil)

	m, err := query.NewMulti([]string{"a", "b"}, "question", 2,
		merge.Best, query.PolicySkip, filter.Expression{}, nil, 3)
	if err != nil {
		t.Fatalf("query.NewMulti: %v", err)
	}

	out, err := svc.SearchMulti(context.Background(), m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalIDs(ids(out.Results), []string{"a1", "a2", "b1"}) {
		t.Fatalf("expected total_k cap at 3, got %v", ids(out.Results))
	}
}
