package chi

import (
	"errors"
	"fmt"
	"time"

	domcol "github.com/modaic-ai/modaic-antm/internal/domain/collection"
	"github.com/modaic-ai/modaic-antm/internal/domain/search/filter"
	"github.com/modaic-ai/modaic-antm/internal/domain/search/format"
	"github.com/modaic-ai/modaic-antm/internal/domain/search/result"
	searchuc "github.com/modaic-ai/modaic-antm/internal/usecase/search"
)

// defaultSemanticWeight is the hybrid weight split used when the request
// leaves it unset.
const defaultSemanticWeight = 0.7

// --- Requests ---

type searchRequest struct {
	Query           string            `json:"query"`
	Vector          []float32         `json:"vector,omitempty"`
	K               int               `json:"k,omitempty"`
	MaxDistance     *float64          `json:"max_distance,omitempty"`
	Filters         *filterExpression `json:"filters,omitempty"`
	Format          string            `json:"format,omitempty"`
	IncludeDistance bool              `json:"include_distance,omitempty"`
}

type multiSearchRequest struct {
	Collections     []string          `json:"collections"`
	Query           string            `json:"query"`
	KPerCollection  int               `json:"k_per_collection,omitempty"`
	Strategy        string            `json:"strategy,omitempty"`
	OnFailure       string            `json:"on_failure,omitempty"`
	TotalK          int               `json:"total_k,omitempty"`
	MaxDistance     *float64          `json:"max_distance,omitempty"`
	Filters         *filterExpression `json:"filters,omitempty"`
	Format          string            `json:"format,omitempty"`
	IncludeDistance bool              `json:"include_distance,omitempty"`
}

type hybridSearchRequest struct {
	Collections     []string          `json:"collections"`
	Query           string            `json:"query"`
	K               int               `json:"k,omitempty"`
	BoostTerms      []string          `json:"boost_terms,omitempty"`
	SemanticWeight  *float64          `json:"semantic_weight,omitempty"`
	Filters         *filterExpression `json:"filters,omitempty"`
	Format          string            `json:"format,omitempty"`
	IncludeDistance bool              `json:"include_distance,omitempty"`
}

type filterExpression struct {
	Must     []filterCondition `json:"must,omitempty"`
	Should   []filterCondition `json:"should,omitempty"`
	MustNot  []filterCondition `json:"must_not,omitempty"`
	Filename string            `json:"filename,omitempty"`
}

type filterCondition struct {
	Key   string       `json:"key"`
	Match *string      `json:"match,omitempty"`
	Range *rangeFilter `json:"range,omitempty"`
}

type rangeFilter struct {
	Gt  *float64 `json:"gt,omitempty"`
	Gte *float64 `json:"gte,omitempty"`
	Lt  *float64 `json:"lt,omitempty"`
	Lte *float64 `json:"lte,omitempty"`
}

// --- Responses ---

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type searchResponse struct {
	Total   int                         `json:"total"`
	Content string                      `json:"content,omitempty"`
	Items   []format.Record             `json:"items,omitempty"`
	Status  map[string]collectionStatus `json:"status,omitempty"`
}

type collectionStatus struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type collectionResponse struct {
	Name      string `json:"name"`
	VectorDim int    `json:"vector_dim"`
	Embedder  string `json:"embedder,omitempty"`
	RowCount  int64  `json:"row_count,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

type collectionListResponse struct {
	Items []collectionResponse `json:"items"`
	Total int                  `json:"total"`
}

// --- Converters ---

func filtersFromRequest(f *filterExpression) (filter.Expression, error) {
	if f == nil {
		return filter.Expression{}, nil
	}

	must, err := conditionsFromRequest(f.Must)
	if err != nil {
		return filter.Expression{}, err
	}
	should, err := conditionsFromRequest(f.Should)
	if err != nil {
		return filter.Expression{}, err
	}
	mustNot, err := conditionsFromRequest(f.MustNot)
	if err != nil {
		return filter.Expression{}, err
	}

	expr, err := filter.NewExpression(must, should, mustNot)
	if err != nil {
		return filter.Expression{}, fmt.Errorf("new expression: %w", err)
	}
	if f.Filename != "" {
		expr = expr.WithFilename(f.Filename)
	}
	return expr, nil
}

func conditionsFromRequest(cs []filterCondition) ([]filter.Condition, error) {
	if len(cs) == 0 {
		return nil, nil
	}
	out := make([]filter.Condition, 0, len(cs))
	for _, c := range cs {
		cond, err := conditionFromRequest(c)
		if err != nil {
			return nil, err
		}
		out = append(out, cond)
	}
	return out, nil
}

func conditionFromRequest(c filterCondition) (filter.Condition, error) {
	if c.Match != nil && c.Range != nil {
		return filter.Condition{},
			fmt.Errorf("filter condition for %q must have match or range, not both", c.Key)
	}
	if c.Match != nil {
		cond, err := filter.NewMatch(c.Key, *c.Match)
		if err != nil {
			return filter.Condition{}, fmt.Errorf("match filter: %w", err)
		}
		return cond, nil
	}
	if c.Range != nil {
		rf, err := filter.NewRangeFilter(c.Range.Gt, c.Range.Gte, c.Range.Lt, c.Range.Lte)
		if err != nil {
			return filter.Condition{}, fmt.Errorf("range filter: %w", err)
		}
		cond, err := filter.NewRange(c.Key, rf)
		if err != nil {
			return filter.Condition{}, fmt.Errorf("range condition: %w", err)
		}
		return cond, nil
	}
	return filter.Condition{}, errors.New("filter condition must have either match or range")
}

// parseFormat validates the requested output shape, defaulting to records.
func parseFormat(s string) (format.Format, error) {
	if s == "" {
		return format.Records, nil
	}
	f := format.Format(s)
	if !f.IsValid() {
		return "", fmt.Errorf("unknown format %q", s)
	}
	return f, nil
}

// formatResults projects results into the response shape for the requested format.
func formatResults(results []result.Result, f format.Format, includeDistance bool) searchResponse {
	resp := searchResponse{Total: len(results)}
	switch f {
	case format.Content:
		resp.Content = format.ContentBlob(results, includeDistance)
	case format.Records, format.Raw:
		resp.Items = format.ToRecords(results)
	}
	return resp
}

func statusToResponse(status map[string]searchuc.Status) map[string]collectionStatus {
	if len(status) == 0 {
		return nil
	}
	out := make(map[string]collectionStatus, len(status))
	for name, st := range status {
		cs := collectionStatus{OK: st.OK}
		if st.Err != nil {
			cs.Error = safeDomainMessage(st.Err)
		}
		out[name] = cs
	}
	return out
}

func collectionToResponse(c domcol.Collection) collectionResponse {
	resp := collectionResponse{
		Name:      c.Name(),
		VectorDim: c.VectorDim(),
		Embedder:  c.EmbedderTag(),
		RowCount:  c.RowCount(),
	}
	if c.CreatedAt() > 0 {
		resp.CreatedAt = time.Unix(c.CreatedAt(), 0).UTC().Format(time.RFC3339)
	}
	return resp
}
