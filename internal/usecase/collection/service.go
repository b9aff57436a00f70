// Package collection exposes read-only catalog operations over the
// collections written by the ingestion pipeline.
package collection

import (
	"context"
	"fmt"

	domcol "github.com/modaic-ai/modaic-antm/internal/domain/collection"
)

// Service handles collection catalog reads.
type Service struct {
	repo Repository
}

// New creates a collection service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get retrieves a collection by name without its row count.
func (s *Service) Get(ctx context.Context, name string) (domcol.Collection, error) {
	col, err := s.repo.Get(ctx, name)
	if err != nil {
		return domcol.Collection{}, fmt.Errorf("get collection: %w", err)
	}
	return col, nil
}

// Describe retrieves a collection by name including its current row count.
func (s *Service) Describe(ctx context.Context, name string) (domcol.Collection, error) {
	col, err := s.repo.Describe(ctx, name)
	if err != nil {
		return domcol.Collection{}, fmt.Errorf("describe collection: %w", err)
	}
	return col, nil
}

// List returns all collections sorted by name.
func (s *Service) List(ctx context.Context) ([]domcol.Collection, error) {
	cols, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return cols, nil
}
