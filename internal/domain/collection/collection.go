// Package collection defines the collection value object: a named set of
// embedded passages written by the ingestion pipeline and read-only here.
package collection

import (
	"fmt"
	"regexp"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Collection is an immutable description of one passage collection.
type Collection struct {
	name        string
	vectorDim   int
	embedderTag string
	rowCount    int64
	createdAt   int64
}

// ValidateName checks a collection name: ^[a-zA-Z0-9_-]+$, 1-64 chars.
// The same rule guards identifier interpolation in the postgres backend.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("collection name is required")
	}
	if len(name) > 64 {
		return fmt.Errorf("collection name too long (max 64)")
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("collection name must be alphanumeric with underscores and hyphens")
	}
	return nil
}

// New validates and creates a Collection.
func New(name string, vectorDim int, embedderTag string) (Collection, error) {
	if err := ValidateName(name); err != nil {
		return Collection{}, err
	}
	if vectorDim <= 0 {
		return Collection{}, fmt.Errorf("vector dimension must be positive")
	}
	return Collection{name: name, vectorDim: vectorDim, embedderTag: embedderTag}, nil
}

// Reconstruct creates a Collection without validation (storage hydration).
func Reconstruct(name string, vectorDim int, embedderTag string, rowCount, createdAt int64) Collection {
	return Collection{
		name:        name,
		vectorDim:   vectorDim,
		embedderTag: embedderTag,
		rowCount:    rowCount,
		createdAt:   createdAt,
	}
}

// Name returns the collection name.
func (c Collection) Name() string { return c.name }

// VectorDim returns the embedding dimensionality of every passage in the collection.
func (c Collection) VectorDim() int { return c.vectorDim }

// EmbedderTag identifies the provider/model that produced the stored embeddings.
func (c Collection) EmbedderTag() string { return c.embedderTag }

// RowCount returns the number of passages (0 when the hydrating reader skipped counting).
func (c Collection) RowCount() int64 { return c.rowCount }

// CreatedAt returns the creation timestamp (unix millis).
func (c Collection) CreatedAt() int64 { return c.createdAt }

// CompatibleWith reports whether two collections share an embedding space.
// Collections embedded by different providers or at different dimensionality
// must never be searched with the same query vector.
func (c Collection) CompatibleWith(other Collection) bool {
	if c.vectorDim != other.vectorDim {
		return false
	}
	if c.embedderTag != "" && other.embedderTag != "" && c.embedderTag != other.embedderTag {
		return false
	}
	return true
}
