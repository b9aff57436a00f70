package search

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/modaic-ai/modaic-antm/internal/domain"
	domcol "github.com/modaic-ai/modaic-antm/internal/domain/collection"
	"github.com/modaic-ai/modaic-antm/internal/domain/search/filter"
	"github.com/modaic-ai/modaic-antm/internal/domain/search/query"
	"github.com/modaic-ai/modaic-antm/internal/domain/search/result"
)

// mockRepo implements Repository for tests.
type mockRepo struct {
	searchKNNFn      func(ctx context.Context, collection string, vector []float32, k int, filters filter.Expression) ([]result.Result, error)
	listByFilenameFn func(ctx context.Context, collection, pattern string, limit int) ([]result.Result, error)
}

func (m *mockRepo) SearchKNN(
	ctx context.Context, collection string,
	vector []float32, k int, filters filter.Expression,
) ([]result.Result, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, collection, vector, k, filters)
	}
	return nil, nil
}

func (m *mockRepo) ListByFilename(
	ctx context.Context, collection, pattern string, limit int,
) ([]result.Result, error) {
	if m.listByFilenameFn != nil {
		return m.listByFilenameFn(ctx, collection, pattern, limit)
	}
	return nil, nil
}

// mockColls implements CollectionReader for tests.
type mockColls struct {
	getFn func(ctx context.Context, name string) (domcol.Collection, error)
}

func (m *mockColls) Get(ctx context.Context, name string) (domcol.Collection, error) {
	if m.getFn != nil {
		return m.getFn(ctx, name)
	}
	return domcol.Reconstruct(name, 4, "test-model", 0, 0), nil
}

// mockEmbedder implements Embedder for tests.
type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) (domain.EmbeddingResult, error)
	calls   int
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	m.calls++
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2, 0.3, 0.4}}, nil
}

func newTestService(t *testing.T) (*Service, *mockRepo, *mockColls, *mockEmbedder) {
	t.Helper()
	repo := &mockRepo{}
	colls := &mockColls{}
	embed := &mockEmbedder{}
	svc := New(repo, colls, embed, zap.NewNop())
	return svc, repo, colls, embed
}

func mustQuery(t *testing.T, text string, k int) query.Query {
	t.Helper()
	q, err := query.New(text, k, filter.Expression{}, nil, nil)
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	return q
}

func res(id, collection string, distance float64) result.Result {
	return result.New(id, collection, id+".md", "content of "+id, nil, distance)
}

func ids(results []result.Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.ID()
	}
	return out
}

func equalIDs(a []string, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
