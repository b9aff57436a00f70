// Package format projects a ranked result list into consumer-facing shapes.
// Projections are pure and order-preserving: formatting never re-sorts.
package format

import (
	"fmt"
	"strings"

	"github.com/modaic-ai/modaic-antm/internal/domain/search/result"
)

// Format selects the output shape of a search call.
type Format string

const (
	// Content is a single concatenated text blob, suitable as model context.
	Content Format = "content"
	// Records is a sequence of structured records for inspection.
	Records Format = "records"
	// Raw passes the result sequence through for programmatic processing.
	Raw Format = "raw"
)

// IsValid checks if the format is one of the supported values.
func (f Format) IsValid() bool {
	return f == Content || f == Records || f == Raw
}

// Record is the structured projection of one result.
type Record struct {
	ID         string            `json:"id"`
	Collection string            `json:"collection"`
	Filename   string            `json:"filename"`
	Content    string            `json:"content"`
	Meta       map[string]string `json:"meta,omitempty"`
	Distance   float64           `json:"distance"`
	Score      *float64          `json:"score,omitempty"`
}

// ContentBlob joins passage contents in ranked order, each preceded by a
// numbered header naming its collection and source file. includeDistance
// appends the distance (or hybrid score) to the header.
func ContentBlob(results []result.Result, includeDistance bool) string {
	parts := make([]string, 0, len(results))
	for i, r := range results {
		header := fmt.Sprintf("--- Document %d [%s]: %s ---", i+1, r.Collection(), r.Filename())
		if includeDistance {
			if r.Scored() {
				header += fmt.Sprintf(" (score: %.4f)", r.Score())
			} else {
				header += fmt.Sprintf(" (distance: %.4f)", r.Distance())
			}
		}
		parts = append(parts, header+"\n"+r.Content())
	}
	return strings.Join(parts, "\n\n")
}

// ToRecords projects results into structured records, order preserved.
func ToRecords(results []result.Result) []Record {
	records := make([]Record, len(results))
	for i, r := range results {
		rec := Record{
			ID:         r.ID(),
			Collection: r.Collection(),
			Filename:   r.Filename(),
			Content:    r.Content(),
			Meta:       r.Meta(),
			Distance:   r.Distance(),
		}
		if r.Scored() {
			score := r.Score()
			rec.Score = &score
		}
		records[i] = rec
	}
	return records
}
