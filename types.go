package docdex

// MergeStrategy selects how multi-collection results are combined.
type MergeStrategy string

const (
	// Concatenate appends results in caller collection order.
	Concatenate MergeStrategy = "concatenate"
	// Interleave alternates between collections by per-collection rank.
	Interleave MergeStrategy = "interleave"
	// Best globally re-sorts all results by distance.
	Best MergeStrategy = "best"
)

// FailurePolicy controls multi-collection behavior when one collection fails.
type FailurePolicy string

const (
	// Skip drops the failed collection and reports it in the status map.
	Skip FailurePolicy = "skip"
	// FailFast aborts the whole call on the first failure.
	FailFast FailurePolicy = "fail_fast"
)

// Format selects the output shape of a search call.
type Format string

const (
	// FormatContent returns a single concatenated text blob.
	FormatContent Format = "content"
	// FormatRecords returns structured records (default).
	FormatRecords Format = "records"
	// FormatRaw returns the raw record sequence.
	FormatRaw Format = "raw"
)

// FilterExpression restricts search to passages matching metadata conditions.
type FilterExpression struct {
	Must     []FilterCondition `json:"must,omitempty"`
	Should   []FilterCondition `json:"should,omitempty"`
	MustNot  []FilterCondition `json:"must_not,omitempty"`
	Filename string            `json:"filename,omitempty"`
}

// FilterCondition matches one metadata key, by exact value or numeric range.
type FilterCondition struct {
	Key   string       `json:"key"`
	Match *string      `json:"match,omitempty"`
	Range *RangeFilter `json:"range,omitempty"`
}

// RangeFilter bounds a numeric metadata value.
type RangeFilter struct {
	GT  *float64 `json:"gt,omitempty"`
	GTE *float64 `json:"gte,omitempty"`
	LT  *float64 `json:"lt,omitempty"`
	LTE *float64 `json:"lte,omitempty"`
}

// Match builds an exact-match condition.
func Match(key, value string) FilterCondition {
	return FilterCondition{Key: key, Match: &value}
}

// Record is one retrieved passage.
type Record struct {
	ID         string            `json:"id"`
	Collection string            `json:"collection"`
	Filename   string            `json:"filename"`
	Content    string            `json:"content"`
	Meta       map[string]string `json:"meta,omitempty"`
	Distance   float64           `json:"distance"`
	Score      *float64          `json:"score,omitempty"`
}

// CollectionStatus reports the per-collection outcome of a multi-collection call.
type CollectionStatus struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// SearchResponse is the result of a search call. Content is set for
// FormatContent, Items otherwise. Status is set on multi-collection calls.
type SearchResponse struct {
	Total   int                         `json:"total"`
	Content string                      `json:"content,omitempty"`
	Items   []Record                    `json:"items,omitempty"`
	Status  map[string]CollectionStatus `json:"status,omitempty"`
}

// CollectionInfo describes one collection in the catalog.
type CollectionInfo struct {
	Name      string `json:"name"`
	VectorDim int    `json:"vector_dim"`
	Embedder  string `json:"embedder,omitempty"`
	RowCount  int64  `json:"row_count,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}
