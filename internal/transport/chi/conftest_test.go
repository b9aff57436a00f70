package chi

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/modaic-ai/modaic-antm/internal/domain"
	domcol "github.com/modaic-ai/modaic-antm/internal/domain/collection"
	"github.com/modaic-ai/modaic-antm/internal/domain/search/filter"
	"github.com/modaic-ai/modaic-antm/internal/domain/search/result"
	collectionuc "github.com/modaic-ai/modaic-antm/internal/usecase/collection"
	healthuc "github.com/modaic-ai/modaic-antm/internal/usecase/health"
	searchuc "github.com/modaic-ai/modaic-antm/internal/usecase/search"
)

type mockRepo struct {
	searchKNNFn      func(ctx context.Context, collection string, vector []float32, k int, filters filter.Expression) ([]result.Result, error)
	listByFilenameFn func(ctx context.Context, collection, pattern string, limit int) ([]result.Result, error)
}

func (m *mockRepo) SearchKNN(
	ctx context.Context, collection string,
	vector []float32, k int, filters filter.Expression,
) ([]result.Result, error) {
	return m.searchKNNFn(ctx, collection, vector, k, filters)
}

func (m *mockRepo) ListByFilename(
	ctx context.Context, collection, pattern string, limit int,
) ([]result.Result, error) {
	return m.listByFilenameFn(ctx, collection, pattern, limit)
}

type mockCatalog struct {
	getFn      func(ctx context.Context, name string) (domcol.Collection, error)
	describeFn func(ctx context.Context, name string) (domcol.Collection, error)
	listFn     func(ctx context.Context) ([]domcol.Collection, error)
}

func (m *mockCatalog) Get(ctx context.Context, name string) (domcol.Collection, error) {
	return m.getFn(ctx, name)
}

func (m *mockCatalog) Describe(ctx context.Context, name string) (domcol.Collection, error) {
	return m.describeFn(ctx, name)
}

func (m *mockCatalog) List(ctx context.Context) ([]domcol.Collection, error) {
	return m.listFn(ctx)
}

type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2, 0.3}}, nil
}

type mockPinger struct {
	pingFn func(ctx context.Context) error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

// testServer wires a Server over mocks. Collections resolve via the catalog
// mock for both the search path (Get) and the catalog endpoints.
func testServer(repo *mockRepo, catalog *mockCatalog) *Server {
	logger := zap.NewNop()
	search := searchuc.New(repo, catalog, &mockEmbedder{}, logger)
	collections := collectionuc.New(catalog)
	health := healthuc.New(&mockPinger{}, nil)
	return NewServer(search, collections, health, logger)
}

func testRouter(repo *mockRepo, catalog *mockCatalog) http.Handler {
	return testServer(repo, catalog).Router(nil)
}
