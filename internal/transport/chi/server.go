// Package chi exposes the retrieval engine over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/modaic-ai/modaic-antm/internal/domain"
	"github.com/modaic-ai/modaic-antm/internal/metrics"
	collectionuc "github.com/modaic-ai/modaic-antm/internal/usecase/collection"
	healthuc "github.com/modaic-ai/modaic-antm/internal/usecase/health"
	searchuc "github.com/modaic-ai/modaic-antm/internal/usecase/search"
)

// Error codes returned in the JSON error body.
const (
	codeBadRequest              = "bad_request"
	codeInvalidQuery            = "invalid_query"
	codeCollectionNotFound      = "collection_not_found"
	codePassageNotFound         = "passage_not_found"
	codeIncompatibleCollections = "incompatible_collections"
	codeEmbeddingProvider       = "embedding_provider_error"
	codeStoreUnavailable        = "store_unavailable"
	codeInternalError           = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server routes HTTP requests to the retrieval services.
type Server struct {
	search         *searchuc.Service
	collections    *collectionuc.Service
	health         *healthuc.Service
	logger         *zap.Logger
	semanticWeight float64
	errorHandlers  []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	collections *collectionuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:         search,
		collections:    collections,
		health:         health,
		logger:         logger,
		semanticWeight: defaultSemanticWeight,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrCollectionNotFound, http.StatusNotFound, codeCollectionNotFound),
		sentinelHandler(domain.ErrPassageNotFound, http.StatusNotFound, codePassageNotFound),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, codeInvalidQuery),
		sentinelHandler(domain.ErrIncompatibleCollections, http.StatusBadRequest, codeIncompatibleCollections),
		sentinelHandler(domain.ErrEmbeddingProvider, http.StatusBadGateway, codeEmbeddingProvider),
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusServiceUnavailable, codeStoreUnavailable),
	}
	return s
}

// WithSemanticWeight overrides the default hybrid weight used when a request
// leaves semantic_weight unset.
func (s *Server) WithSemanticWeight(w float64) *Server {
	s.semanticWeight = w
	return s
}

// Router builds the chi router with middleware and all routes mounted.
func (s *Server) Router(apiKeys []string) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(jsonRecoverer(s.logger))
	r.Use(wideEventMiddleware(s.logger))
	r.Use(metrics.Middleware())
	r.Use(BearerAuthMiddleware(apiKeys))

	r.Get("/healthz", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/collections", s.ListCollections)
		r.Get("/collections/{collection}", s.GetCollection)
		r.Get("/collections/{collection}/passages", s.ListPassages)
		r.Post("/collections/{collection}/search", s.SearchCollection)
		r.Post("/search", s.SearchMulti)
		r.Post("/search/hybrid", s.SearchHybrid)
	})

	return r
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	checks := make(map[string]string, len(report.Checks))
	for name, check := range report.Checks {
		checks[name] = string(check)
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrCollectionNotFound,
		domain.ErrPassageNotFound,
		domain.ErrInvalidQuery,
		domain.ErrIncompatibleCollections,
		domain.ErrEmbeddingProvider,
		domain.ErrStoreUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			var colErr *domain.CollectionError
			if errors.As(err, &colErr) {
				return s.Error() + ": " + colErr.Collection
			}
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
