// Package merge combines per-collection ranked result lists into one list
// under a closed set of named strategies. Strategies are defined over the
// logical per-collection lists, never over arrival order.
package merge

import (
	"github.com/modaic-ai/modaic-antm/internal/domain/search/result"
)

// Strategy is the policy for combining per-collection ranked lists.
type Strategy string

const (
	// Concatenate appends each collection's list in the order collections
	// were given, with no cross-collection re-sorting.
	Concatenate Strategy = "concatenate"
	// Interleave round-robins over collections by per-collection rank, so
	// every contributing collection appears early in the output regardless
	// of its raw distance values.
	Interleave Strategy = "interleave"
	// Best pools all results and globally re-sorts by ascending distance.
	// The only strategy that can starve a collection entirely.
	Best Strategy = "best"
)

// IsValid checks if the strategy is one of the supported values.
func (s Strategy) IsValid() bool {
	return s == Concatenate || s == Interleave || s == Best
}

// Merge combines per-collection ranked lists into one list. Each input list
// must already be sorted by ascending distance; lists appear in the caller's
// collection order. The output is a permutation of the input multiset.
func Merge(strategy Strategy, lists [][]result.Result) []result.Result {
	total := 0
	for _, l := range lists {
		total += len(l)
	}
	merged := make([]result.Result, 0, total)

	switch strategy {
	case Interleave:
		for rank := 0; len(merged) < total; rank++ {
			for _, l := range lists {
				if rank < len(l) {
					merged = append(merged, l[rank])
				}
			}
		}
	case Best:
		for _, l := range lists {
			merged = append(merged, l...)
		}
		result.SortByDistance(merged)
	default: // Concatenate
		for _, l := range lists {
			merged = append(merged, l...)
		}
	}

	return merged
}

// Cap trims merged results to at most totalK entries. totalK <= 0 means unlimited.
func Cap(results []result.Result, totalK int) []result.Result {
	if totalK > 0 && len(results) > totalK {
		return results[:totalK]
	}
	return results
}
