// Package rank re-orders semantic results by blending normalized similarity
// with a deterministic keyword-match score. It only re-orders: the result
// count is never changed here.
package rank

import (
	"sort"
	"strings"

	"github.com/modaic-ai/modaic-antm/internal/domain/search/result"
)

// Similarity maps a nonnegative distance onto (0,1], strictly decreasing.
// Distances from different queries share direction and scale after this
// transform, so they can be weighted against keyword scores.
func Similarity(distance float64) float64 {
	return 1.0 / (1.0 + distance)
}

// Rerank computes composite = w*similarity + (1-w)*keyword for every result
// and returns a new slice ordered by descending composite score. Equal scores
// preserve the input order (stable), so w=1 reduces to the semantic order and
// w=0 to pure keyword ranking.
func Rerank(results []result.Result, boostTerms []string, semanticWeight float64) []result.Result {
	terms := distinctLower(boostTerms)

	reranked := make([]result.Result, len(results))
	for i, r := range results {
		composite := semanticWeight*Similarity(r.Distance()) +
			(1-semanticWeight)*keywordScore(r.Content(), terms)
		reranked[i] = r.WithScore(composite)
	}

	sort.SliceStable(reranked, func(i, j int) bool {
		return reranked[i].Score() > reranked[j].Score()
	})

	return reranked
}

// keywordScore returns the fraction of distinct boost terms present in the
// content, case-insensitive. Repetition of a term does not count twice.
func keywordScore(content string, terms []string) float64 {
	if len(terms) == 0 {
		return 0
	}
	lower := strings.ToLower(content)
	matched := 0
	for _, term := range terms {
		if strings.Contains(lower, term) {
			matched++
		}
	}
	return float64(matched) / float64(len(terms))
}

func distinctLower(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		lt := strings.ToLower(strings.TrimSpace(t))
		if lt == "" || seen[lt] {
			continue
		}
		seen[lt] = true
		out = append(out, lt)
	}
	return out
}
