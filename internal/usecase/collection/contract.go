package collection

import (
	"context"

	domcol "github.com/modaic-ai/modaic-antm/internal/domain/collection"
)

// Repository defines the catalog read contract. Collections are created by
// the ingestion pipeline; this service only reads them.
type Repository interface {
	Get(ctx context.Context, name string) (domcol.Collection, error)
	Describe(ctx context.Context, name string) (domcol.Collection, error)
	List(ctx context.Context) ([]domcol.Collection, error)
}
