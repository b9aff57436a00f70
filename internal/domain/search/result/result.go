// Package result defines the canonical search hit shared by every ranking
// stage. Results are produced fresh per query and only re-sorted or filtered,
// never mutated in place.
package result

import "sort"

// Result is a single ranked hit.
//
// Distance is the raw semantic distance (lower is more similar). After hybrid
// re-ranking, Score carries the composite score (higher is better) and Scored
// reports true; the original distance is preserved alongside.
type Result struct {
	id         string
	collection string
	filename   string
	content    string
	meta       map[string]string
	distance   float64
	score      float64
	scored     bool
}

// New creates a semantic search result.
func New(id, collection, filename, content string, meta map[string]string, distance float64) Result {
	return Result{
		id:         id,
		collection: collection,
		filename:   filename,
		content:    content,
		meta:       meta,
		distance:   distance,
	}
}

// WithScore returns a copy carrying a composite hybrid score.
func (r Result) WithScore(score float64) Result {
	r.score = score
	r.scored = true
	return r
}

// ID returns the passage identifier.
func (r Result) ID() string { return r.id }

// Collection returns the originating collection name.
func (r Result) Collection() string { return r.collection }

// Filename returns the source document filename.
func (r Result) Filename() string { return r.filename }

// Content returns the passage text.
func (r Result) Content() string { return r.content }

// Meta returns the passage metadata fields.
func (r Result) Meta() map[string]string { return r.meta }

// Distance returns the raw semantic distance (lower is more similar).
func (r Result) Distance() float64 { return r.distance }

// Score returns the composite hybrid score (meaningful only when Scored).
func (r Result) Score() float64 { return r.score }

// Scored reports whether the result carries a composite hybrid score.
func (r Result) Scored() bool { return r.scored }

// SortByDistance orders results by ascending distance, ties broken by passage
// identifier so repeated identical queries produce byte-identical output.
func SortByDistance(results []Result) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].distance != results[j].distance {
			return results[i].distance < results[j].distance
		}
		return results[i].id < results[j].id
	})
}

// SortByID orders results by passage identifier (neutral ordering for
// non-ranked listings).
func SortByID(results []Result) {
	sort.Slice(results, func(i, j int) bool {
		return results[i].id < results[j].id
	})
}
