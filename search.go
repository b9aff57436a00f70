package docdex

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// SearchOptions tunes a single-collection search. A zero K leaves the
// result count to the server default.
type SearchOptions struct {
	K               int
	MaxDistance     *float64
	Vector          []float32
	Filters         *FilterExpression
	Format          Format
	IncludeDistance bool
}

// MultiSearchRequest describes a multi-collection merge search.
type MultiSearchRequest struct {
	Collections     []string
	Query           string
	KPerCollection  int
	Strategy        MergeStrategy
	OnFailure       FailurePolicy
	TotalK          int
	MaxDistance     *float64
	Filters         *FilterExpression
	Format          Format
	IncludeDistance bool
}

// HybridSearchRequest describes a hybrid semantic+keyword search.
type HybridSearchRequest struct {
	Collections     []string
	Query           string
	K               int
	BoostTerms      []string
	SemanticWeight  *float64
	Filters         *FilterExpression
	Format          Format
	IncludeDistance bool
}

// Search runs a KNN search against one collection.
func (c *Client) Search(
	ctx context.Context, collection, query string, opts *SearchOptions,
) (*SearchResponse, error) {
	if opts == nil {
		opts = &SearchOptions{}
	}
	body := map[string]any{"query": query}
	if opts.K > 0 {
		body["k"] = opts.K
	}
	if opts.MaxDistance != nil {
		body["max_distance"] = *opts.MaxDistance
	}
	if len(opts.Vector) > 0 {
		body["vector"] = opts.Vector
	}
	if opts.Filters != nil {
		body["filters"] = opts.Filters
	}
	if opts.Format != "" {
		body["format"] = opts.Format
	}
	if opts.IncludeDistance {
		body["include_distance"] = true
	}

	var resp SearchResponse
	path := "/v1/collections/" + url.PathEscape(collection) + "/search"
	if err := c.do(ctx, "POST", path, body, &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", collection, err)
	}
	return &resp, nil
}

// SearchMulti runs one query across several collections and merges the results.
func (c *Client) SearchMulti(
	ctx context.Context, req MultiSearchRequest,
) (*SearchResponse, error) {
	body := map[string]any{
		"collections": req.Collections,
		"query":       req.Query,
	}
	if req.KPerCollection > 0 {
		body["k_per_collection"] = req.KPerCollection
	}
	if req.Strategy != "" {
		body["strategy"] = req.Strategy
	}
	if req.OnFailure != "" {
		body["on_failure"] = req.OnFailure
	}
	if req.TotalK > 0 {
		body["total_k"] = req.TotalK
	}
	if req.MaxDistance != nil {
		body["max_distance"] = *req.MaxDistance
	}
	if req.Filters != nil {
		body["filters"] = req.Filters
	}
	if req.Format != "" {
		body["format"] = req.Format
	}
	if req.IncludeDistance {
		body["include_distance"] = true
	}

	var resp SearchResponse
	if err := c.do(ctx, "POST", "/v1/search", body, &resp); err != nil {
		return nil, fmt.Errorf("multi search: %w", err)
	}
	return &resp, nil
}

// HybridSearch runs a hybrid semantic+keyword search across collections.
func (c *Client) HybridSearch(
	ctx context.Context, req HybridSearchRequest,
) (*SearchResponse, error) {
	body := map[string]any{
		"collections": req.Collections,
		"query":       req.Query,
	}
	if req.K > 0 {
		body["k"] = req.K
	}
	if len(req.BoostTerms) > 0 {
		body["boost_terms"] = req.BoostTerms
	}
	if req.SemanticWeight != nil {
		body["semantic_weight"] = *req.SemanticWeight
	}
	if req.Filters != nil {
		body["filters"] = req.Filters
	}
	if req.Format != "" {
		body["format"] = req.Format
	}
	if req.IncludeDistance {
		body["include_distance"] = true
	}

	var resp SearchResponse
	if err := c.do(ctx, "POST", "/v1/search/hybrid", body, &resp); err != nil {
		return nil, fmt.Errorf("hybrid search: %w", err)
	}
	return &resp, nil
}

// Passages fetches passages of a collection by filename pattern ('*' wildcards).
// limit 0 uses the server default.
func (c *Client) Passages(
	ctx context.Context, collection, pattern string, limit int,
) (*SearchResponse, error) {
	q := url.Values{"filename": {pattern}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var resp SearchResponse
	path := "/v1/collections/" + url.PathEscape(collection) + "/passages?" + q.Encode()
	if err := c.do(ctx, "GET", path, nil, &resp); err != nil {
		return nil, fmt.Errorf("passages %q: %w", collection, err)
	}
	return &resp, nil
}
