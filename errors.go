package docdex

import "github.com/modaic-ai/modaic-antm/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrCollectionNotFound      = domain.ErrCollectionNotFound
	ErrPassageNotFound         = domain.ErrPassageNotFound
	ErrInvalidQuery            = domain.ErrInvalidQuery
	ErrIncompatibleCollections = domain.ErrIncompatibleCollections
	ErrEmbeddingProvider       = domain.ErrEmbeddingProvider
	ErrStoreUnavailable        = domain.ErrStoreUnavailable
)

// codeToSentinel maps API error codes back to sentinel errors.
var codeToSentinel = map[string]error{
	"collection_not_found":     ErrCollectionNotFound,
	"passage_not_found":        ErrPassageNotFound,
	"invalid_query":            ErrInvalidQuery,
	"incompatible_collections": ErrIncompatibleCollections,
	"embedding_provider_error": ErrEmbeddingProvider,
	"store_unavailable":        ErrStoreUnavailable,
}
