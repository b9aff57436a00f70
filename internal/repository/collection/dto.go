package collection

import (
	"strconv"
	"time"

	domcol "github.com/modaic-ai/modaic-antm/internal/domain/collection"
)

// collectionFromMeta hydrates a domain Collection from a catalog field map.
// Missing or malformed fields fall back to zero values rather than failing:
// the catalog is external input written by the ingestion pipeline.
func collectionFromMeta(m map[string]string, name string, defaultVectorDim int, rowCount int64) domcol.Collection {
	dim := defaultVectorDim
	if s := m["vector_dim"]; s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			dim = v
		}
	}

	return domcol.Reconstruct(name, dim, m["embedder"], rowCount, parseCreatedAt(m["created_at"]))
}

// parseCreatedAt accepts unix seconds or RFC3339 and returns unix seconds.
func parseCreatedAt(s string) int64 {
	if s == "" {
		return 0
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Unix()
	}
	return 0
}
