// Package db defines the storage facade the retrieval engine reads from.
// Collections are written by the ingestion pipeline; every interface here is
// a read path except the small KV surface used by the embedding cache.
package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
type Store interface {
	Pinger
	Searcher
	Catalog
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Searcher provides nearest-neighbor and listing reads over one collection.
type Searcher interface {
	// SearchKNN returns the q.K nearest passages among those matching the
	// prefilter, ordered by ascending distance.
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
	// List returns passages matching the prefilter without ranking semantics.
	List(ctx context.Context, q *ListQuery) (*SearchResult, error)
	// Count returns the number of passages in a collection.
	Count(ctx context.Context, collection string) (int64, error)
}

// Catalog reads collection metadata written at ingestion time.
type Catalog interface {
	// GetMeta returns the metadata fields of one collection
	// (ErrCollectionMissing when absent).
	GetMeta(ctx context.Context, name string) (map[string]string, error)
	// ScanMeta returns the metadata of every collection.
	ScanMeta(ctx context.Context) ([]map[string]string, error)
}

// KVStore provides the small key-value surface used by the embedding cache.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
