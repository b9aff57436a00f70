// Package query defines the validated search request types. All validation is
// eager: a constructor error means no external call was made on the query's
// behalf.
package query

import (
	"fmt"

	"github.com/modaic-ai/modaic-antm/internal/domain"
	"github.com/modaic-ai/modaic-antm/internal/domain/search/filter"
	"github.com/modaic-ai/modaic-antm/internal/domain/search/merge"
)

// Search parameter limits.
const (
	MaxQueryLength = 4096
	DefaultK       = 5
	MaxK           = 500
)

// Query is a validated single-collection search request.
type Query struct {
	text        string
	vector      []float32
	k           int
	filters     filter.Expression
	maxDistance *float64
}

// New validates and creates a Query. Either text or a precomputed vector is
// required; supplying a vector skips the embedding call (allows reuse across
// collections). k=0 means DefaultK; maxDistance nil means no threshold.
func New(text string, k int, filters filter.Expression, maxDistance *float64, vector []float32) (Query, error) {
	if text == "" && len(vector) == 0 {
		return Query{}, fmt.Errorf("%w: query text or vector is required", domain.ErrInvalidQuery)
	}
	if len(text) > MaxQueryLength {
		return Query{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidQuery, MaxQueryLength)
	}
	if k == 0 {
		k = DefaultK
	}
	if k < 1 {
		return Query{}, fmt.Errorf("%w: k must be >= 1, got %d", domain.ErrInvalidQuery, k)
	}
	if k > MaxK {
		return Query{}, fmt.Errorf("%w: k too large (max %d)", domain.ErrInvalidQuery, MaxK)
	}
	if maxDistance != nil && *maxDistance < 0 {
		return Query{}, fmt.Errorf("%w: max_distance must be nonnegative", domain.ErrInvalidQuery)
	}
	return Query{text: text, vector: vector, k: k, filters: filters, maxDistance: maxDistance}, nil
}

// Text returns the raw query text.
func (q Query) Text() string { return q.text }

// Vector returns the precomputed query vector (nil when the text must be embedded).
func (q Query) Vector() []float32 { return q.vector }

// K returns the requested result count.
func (q Query) K() int { return q.k }

// Filters returns the metadata prefilter.
func (q Query) Filters() filter.Expression { return q.filters }

// MaxDistance returns the optional maximum distance threshold.
func (q Query) MaxDistance() *float64 { return q.maxDistance }

// WithVector returns a copy of the query carrying a precomputed vector.
func (q Query) WithVector(vector []float32) Query {
	q.vector = vector
	return q
}

// WithK returns a copy of the query with a different result count.
// The caller must keep k within [1, MaxK]; used for hybrid over-fetch.
func (q Query) WithK(k int) Query {
	q.k = k
	return q
}

// FailurePolicy controls how a multi-collection call treats a failing collection.
type FailurePolicy string

const (
	// PolicySkip answers from healthy collections and records failures in the
	// per-collection status map. The default; matches warn-and-skip behavior.
	PolicySkip FailurePolicy = "skip"
	// PolicyFailFast fails the whole call on the first collection error.
	PolicyFailFast FailurePolicy = "fail_fast"
)

// IsValid checks if the policy is one of the supported values.
func (p FailurePolicy) IsValid() bool {
	return p == PolicySkip || p == PolicyFailFast
}

// Multi is a validated multi-collection search request.
type Multi struct {
	collections []string
	query       Query
	strategy    merge.Strategy
	policy      FailurePolicy
	totalK      int
}

// NewMulti validates and creates a Multi. kPerCollection applies to each
// collection independently (0 = DefaultK); totalK caps the merged list
// (0 = unlimited). Defaults: strategy=concatenate, policy=skip.
func NewMulti(
	collections []string, text string, kPerCollection int,
	strategy merge.Strategy, policy FailurePolicy,
	filters filter.Expression, maxDistance *float64, totalK int,
) (Multi, error) {
	if len(collections) == 0 {
		return Multi{}, fmt.Errorf("%w: at least one collection is required", domain.ErrInvalidQuery)
	}
	seen := make(map[string]bool, len(collections))
	for _, name := range collections {
		if name == "" {
			return Multi{}, fmt.Errorf("%w: empty collection name", domain.ErrInvalidQuery)
		}
		if seen[name] {
			return Multi{}, fmt.Errorf("%w: duplicate collection %q", domain.ErrInvalidQuery, name)
		}
		seen[name] = true
	}
	if strategy == "" {
		strategy = merge.Concatenate
	}
	if !strategy.IsValid() {
		return Multi{}, fmt.Errorf("%w: unknown merge strategy %q", domain.ErrInvalidQuery, strategy)
	}
	if policy == "" {
		policy = PolicySkip
	}
	if !policy.IsValid() {
		return Multi{}, fmt.Errorf("%w: unknown failure policy %q", domain.ErrInvalidQuery, policy)
	}
	if totalK < 0 {
		return Multi{}, fmt.Errorf("%w: total_k must be nonnegative", domain.ErrInvalidQuery)
	}

	q, err := New(text, kPerCollection, filters, maxDistance, nil)
	if err != nil {
		return Multi{}, err
	}

	return Multi{
		collections: collections,
		query:       q,
		strategy:    strategy,
		policy:      policy,
		totalK:      totalK,
	}, nil
}

// Collections returns the target collection names in caller order.
func (m Multi) Collections() []string { return m.collections }

// Query returns the per-collection query (k applies per collection).
func (m Multi) Query() Query { return m.query }

// Strategy returns the merge strategy.
func (m Multi) Strategy() merge.Strategy { return m.strategy }

// Policy returns the partial-failure policy.
func (m Multi) Policy() FailurePolicy { return m.policy }

// TotalK returns the cap on the merged list (0 = unlimited).
func (m Multi) TotalK() int { return m.totalK }

// Hybrid is a validated hybrid search request.
type Hybrid struct {
	collections    []string
	text           string
	k              int
	boostTerms     []string
	semanticWeight float64
	filters        filter.Expression
}

// NewHybrid validates and creates a Hybrid request. k=0 means DefaultK;
// semanticWeight must be in [0,1]: 1 is pure semantic ranking, 0 is pure
// keyword ranking.
func NewHybrid(
	collections []string, text string, k int,
	boostTerms []string, semanticWeight float64,
	filters filter.Expression,
) (Hybrid, error) {
	if len(collections) == 0 {
		return Hybrid{}, fmt.Errorf("%w: at least one collection is required", domain.ErrInvalidQuery)
	}
	if semanticWeight < 0 || semanticWeight > 1 {
		return Hybrid{}, fmt.Errorf(
			"%w: semantic_weight must be in [0,1], got %g", domain.ErrInvalidQuery, semanticWeight)
	}
	if k == 0 {
		k = DefaultK
	}
	if _, err := New(text, k, filters, nil, nil); err != nil {
		return Hybrid{}, err
	}
	return Hybrid{
		collections:    collections,
		text:           text,
		k:              k,
		boostTerms:     boostTerms,
		semanticWeight: semanticWeight,
		filters:        filters,
	}, nil
}

// Collections returns the target collection names.
func (h Hybrid) Collections() []string { return h.collections }

// Text returns the raw query text.
func (h Hybrid) Text() string { return h.text }

// K returns the final result count after re-ranking.
func (h Hybrid) K() int { return h.k }

// BoostTerms returns the keyword boost terms.
func (h Hybrid) BoostTerms() []string { return h.boostTerms }

// SemanticWeight returns the semantic/keyword weight split.
func (h Hybrid) SemanticWeight() float64 { return h.semanticWeight }

// Filters returns the metadata prefilter.
func (h Hybrid) Filters() filter.Expression { return h.filters }
