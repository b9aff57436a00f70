package collection

import (
	"context"
	"testing"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	getMetaFn  func(ctx context.Context, name string) (map[string]string, error)
	scanMetaFn func(ctx context.Context) ([]map[string]string, error)
	countFn    func(ctx context.Context, collection string) (int64, error)
}

func (m *mockStore) GetMeta(ctx context.Context, name string) (map[string]string, error) {
	if m.getMetaFn != nil {
		return m.getMetaFn(ctx, name)
	}
	return map[string]string{}, nil
}

func (m *mockStore) ScanMeta(ctx context.Context) ([]map[string]string, error) {
	if m.scanMetaFn != nil {
		return m.scanMetaFn(ctx)
	}
	return nil, nil
}

func (m *mockStore) Count(ctx context.Context, collection string) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx, collection)
	}
	return 0, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, 3072), ms
}
