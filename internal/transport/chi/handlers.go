package chi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/modaic-ai/modaic-antm/internal/domain/search/format"
	"github.com/modaic-ai/modaic-antm/internal/domain/search/merge"
	"github.com/modaic-ai/modaic-antm/internal/domain/search/query"
	"github.com/modaic-ai/modaic-antm/internal/metrics"
	searchuc "github.com/modaic-ai/modaic-antm/internal/usecase/search"
)

const defaultPassageLimit = 100

// SearchCollection handles POST /v1/collections/{collection}/search.
func (s *Server) SearchCollection(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	filters, err := filtersFromRequest(req.Filters)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidQuery, err.Error())
		return
	}
	outFormat, err := parseFormat(req.Format)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidQuery, err.Error())
		return
	}

	q, err := query.New(req.Query, req.K, filters, req.MaxDistance, req.Vector)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	start := time.Now()
	results, err := s.search.Search(r.Context(), collection, q)
	observeSearch("single", start, len(results), err)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, formatResults(results, outFormat, req.IncludeDistance))
}

// SearchMulti handles POST /v1/search.
func (s *Server) SearchMulti(w http.ResponseWriter, r *http.Request) {
	var req multiSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	filters, err := filtersFromRequest(req.Filters)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidQuery, err.Error())
		return
	}
	outFormat, err := parseFormat(req.Format)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidQuery, err.Error())
		return
	}

	m, err := query.NewMulti(
		req.Collections, req.Query, req.KPerCollection,
		merge.Strategy(req.Strategy), query.FailurePolicy(req.OnFailure),
		filters, req.MaxDistance, req.TotalK,
	)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	start := time.Now()
	out, err := s.search.SearchMulti(r.Context(), m)
	observeSearch("multi", start, len(out.Results), err)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	recordSkips(out.Status)

	resp := formatResults(out.Results, outFormat, req.IncludeDistance)
	resp.Status = statusToResponse(out.Status)
	writeJSON(w, http.StatusOK, resp)
}

// SearchHybrid handles POST /v1/search/hybrid.
func (s *Server) SearchHybrid(w http.ResponseWriter, r *http.Request) {
	var req hybridSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	filters, err := filtersFromRequest(req.Filters)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidQuery, err.Error())
		return
	}
	outFormat, err := parseFormat(req.Format)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidQuery, err.Error())
		return
	}

	weight := s.semanticWeight
	if req.SemanticWeight != nil {
		weight = *req.SemanticWeight
	}

	h, err := query.NewHybrid(req.Collections, req.Query, req.K, req.BoostTerms, weight, filters)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	start := time.Now()
	out, err := s.search.HybridSearch(r.Context(), h)
	observeSearch("hybrid", start, len(out.Results), err)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	recordSkips(out.Status)

	resp := formatResults(out.Results, outFormat, req.IncludeDistance)
	resp.Status = statusToResponse(out.Status)
	writeJSON(w, http.StatusOK, resp)
}

// ListPassages handles GET /v1/collections/{collection}/passages?filename=<pattern>.
func (s *Server) ListPassages(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	pattern := r.URL.Query().Get("filename")

	limit := defaultPassageLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, codeInvalidQuery, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	results, err := s.search.FetchByFilename(r.Context(), collection, pattern, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, formatResults(results, format.Records, false))
}

// ListCollections handles GET /v1/collections.
func (s *Server) ListCollections(w http.ResponseWriter, r *http.Request) {
	cols, err := s.collections.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]collectionResponse, len(cols))
	for i, c := range cols {
		items[i] = collectionToResponse(c)
	}

	writeJSON(w, http.StatusOK, collectionListResponse{Items: items, Total: len(items)})
}

// GetCollection handles GET /v1/collections/{collection}.
func (s *Server) GetCollection(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")

	col, err := s.collections.Describe(r.Context(), collection)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, collectionToResponse(col))
}

func observeSearch(kind string, start time.Time, resultCount int, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.SearchRequestsTotal.WithLabelValues(kind, status).Inc()
	metrics.SearchRequestDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err == nil {
		metrics.SearchResultsReturned.WithLabelValues(kind).Observe(float64(resultCount))
	}
}

func recordSkips(status map[string]searchuc.Status) {
	for name, st := range status {
		if st.Err != nil {
			metrics.SearchSkippedCollectionsTotal.WithLabelValues(name).Inc()
		}
	}
}
