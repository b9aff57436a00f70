package db

import "github.com/modaic-ai/modaic-antm/internal/domain/search/filter"

// Reserved field names shared by every backend. Anything else in an entry's
// Fields map is passage metadata.
const (
	FieldContent  = "__content"
	FieldFilename = "__filename"
)

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	Collection string
	Vector     []float32
	K          int
	Filters    filter.Expression
}

// ListQuery is the input for a non-ranked prefiltered listing.
type ListQuery struct {
	Collection string
	Filters    filter.Expression
	Limit      int
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single passage hit. Distance is the raw vector distance
// (lower = more similar); zero for non-ranked listings.
type SearchEntry struct {
	ID       string
	Distance float64
	Fields   map[string]string
}
