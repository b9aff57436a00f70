package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCollectionNotFound signals that a named collection does not exist in the store.
	ErrCollectionNotFound = errors.New("collection not found")
	// ErrPassageNotFound signals a missing passage.
	ErrPassageNotFound = errors.New("passage not found")
	// ErrInvalidQuery signals a query rejected by eager validation.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrIncompatibleCollections signals a dimensionality or embedder mismatch
	// across the collections of a multi-collection call.
	ErrIncompatibleCollections = errors.New("incompatible collections")
	// ErrEmbeddingProvider signals an embedding provider failure.
	ErrEmbeddingProvider = errors.New("embedding provider error")
	// ErrStoreUnavailable signals that the vector store cannot be reached.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// CollectionError attributes a search failure to one collection of a
// multi-collection call so the merge engine can report it per collection.
type CollectionError struct {
	Collection string
	Err        error
}

func (e *CollectionError) Error() string {
	return fmt.Sprintf("collection %q: %v", e.Collection, e.Err)
}

func (e *CollectionError) Unwrap() error { return e.Err }

// NewCollectionError wraps err with the collection it originated from.
func NewCollectionError(collection string, err error) error {
	return &CollectionError{Collection: collection, Err: err}
}
