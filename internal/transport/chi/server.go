package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchable/internal/domain"
	"github.com/kailas-cloud/searchable/internal/domain/entity"
	domrec "github.com/kailas-cloud/searchable/internal/domain/record"
	"github.com/kailas-cloud/searchable/internal/domain/search/query"
	"github.com/kailas-cloud/searchable/internal/domain/search/variant"
	healthuc "github.com/kailas-cloud/searchable/internal/usecase/health"
	indexinguc "github.com/kailas-cloud/searchable/internal/usecase/indexing"
	recorduc "github.com/kailas-cloud/searchable/internal/usecase/record"
	searchuc "github.com/kailas-cloud/searchable/internal/usecase/search"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeBadRequest       = "bad_request"
	CodeValidationFailed = "validation_failed"
	CodeUnauthorized     = "unauthorized"
	CodeNotFound         = "not_found"
	CodeUnknownEntity    = "unknown_entity"
	CodeIndexUnavailable = "index_unavailable"
	CodeQueryRejected    = "query_rejected"
	CodeInternalError    = "internal_error"
)

// maxBodyBytes caps record payloads.
const maxBodyBytes = 1 << 20

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RecordRequest is the body of record writes. ID is only read on POST.
type RecordRequest struct {
	ID         string         `json:"id,omitempty"`
	Attributes map[string]any `json:"attributes"`
}

// RecordResponse is a stored record.
type RecordResponse struct {
	ID         string         `json:"id"`
	Attributes map[string]any `json:"attributes"`
}

// SearchResultItem is one scored record.
type SearchResultItem struct {
	ID         string         `json:"id"`
	Score      float64        `json:"score"`
	Attributes map[string]any `json:"attributes"`
}

// SearchResponse lists results ordered by score.
type SearchResponse struct {
	Entity  string             `json:"entity"`
	Total   int                `json:"total"`
	Results []SearchResultItem `json:"results"`
}

// VariantsResponse explains how a search text is expanded.
type VariantsResponse struct {
	Variants []string        `json:"variants"`
	Query    json.RawMessage `json:"query"`
}

// ReindexResponse reports a finished rebuild.
type ReindexResponse struct {
	Entity  string `json:"entity"`
	Indexed int    `json:"indexed"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the record, search and index maintenance API.
type Server struct {
	entities      *entity.Catalog
	records       *recorduc.Service
	searches      *searchuc.Registry
	indexing      *indexinguc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	entities *entity.Catalog,
	records *recorduc.Service,
	searches *searchuc.Registry,
	indexing *indexinguc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		entities: entities,
		records:  records,
		searches: searches,
		indexing: indexing,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrUnknownEntity, http.StatusNotFound, CodeUnknownEntity),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrQueryRejected, http.StatusBadRequest, CodeQueryRejected),
		sentinelHandler(domain.ErrIndexUnavailable, http.StatusServiceUnavailable, CodeIndexUnavailable),
	}
	return s
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/v1/entities/{entity}", func(r chi.Router) {
		r.Use(entityLogger)
		r.Post("/records", s.CreateRecord)
		r.Put("/records/{id}", s.PutRecord)
		r.Get("/records/{id}", s.GetRecord)
		r.Delete("/records/{id}", s.DeleteRecord)
		r.Get("/search", s.Search)
		r.Get("/variants", s.Variants)
		r.Post("/reindex", s.Reindex)
		r.Delete("/index", s.Purge)
	})
}

// CreateRecord handles POST /v1/entities/{entity}/records.
func (s *Server) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var req RecordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.saveRecord(w, r, req.ID, req.Attributes)
}

// PutRecord handles PUT /v1/entities/{entity}/records/{id}.
func (s *Server) PutRecord(w http.ResponseWriter, r *http.Request) {
	var req RecordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.saveRecord(w, r, chi.URLParam(r, "id"), req.Attributes)
}

func (s *Server) saveRecord(w http.ResponseWriter, r *http.Request, id string, attrs map[string]any) {
	rec, created, err := s.records.Save(r.Context(), chi.URLParam(r, "entity"), id, attrs)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, recordToResponse(rec))
}

// GetRecord handles GET /v1/entities/{entity}/records/{id}.
func (s *Server) GetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := s.records.Get(r.Context(), chi.URLParam(r, "entity"), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recordToResponse(rec))
}

// DeleteRecord handles DELETE /v1/entities/{entity}/records/{id}.
func (s *Server) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := s.records.Delete(r.Context(), chi.URLParam(r, "entity"), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /v1/entities/{entity}/search?q=&wildcard=&lenient=.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	svc, err := s.searches.Get(chi.URLParam(r, "entity"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	opts, err := searchOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	results, err := svc.Search(r.Context(), r.URL.Query().Get("q"), opts)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]SearchResultItem, len(results))
	for i, res := range results {
		items[i] = SearchResultItem{
			ID:         res.Record.ID(),
			Score:      res.Score,
			Attributes: res.Record.Attributes(),
		}
	}
	writeJSON(w, http.StatusOK, SearchResponse{
		Entity:  svc.Entity().Name(),
		Total:   len(items),
		Results: items,
	})
}

// Variants handles GET /v1/entities/{entity}/variants?q=&wildcard=.
func (s *Server) Variants(w http.ResponseWriter, r *http.Request) {
	svc, err := s.searches.Get(chi.URLParam(r, "entity"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	opts, err := searchOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	text := r.URL.Query().Get("q")
	q, _ := svc.Query(text, opts)
	raw, err := query.Marshal(q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, VariantsResponse{
		Variants: variant.Texts(variant.Generate(query.Normalize(text, opts.Wildcard))),
		Query:    raw,
	})
}

// Reindex handles POST /v1/entities/{entity}/reindex.
func (s *Server) Reindex(w http.ResponseWriter, r *http.Request) {
	e, err := s.entities.Get(chi.URLParam(r, "entity"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	n, err := s.indexing.Reindex(r.Context(), e)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ReindexResponse{Entity: e.Name(), Indexed: n})
}

// Purge handles DELETE /v1/entities/{entity}/index.
func (s *Server) Purge(w http.ResponseWriter, r *http.Request) {
	e, err := s.entities.Get(chi.URLParam(r, "entity"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if err := s.indexing.Purge(r.Context(), e); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func searchOptions(r *http.Request) (query.Options, error) {
	var opts query.Options
	params := r.URL.Query()
	if v := params.Get("wildcard"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return query.Options{}, errors.New("wildcard must be a boolean")
		}
		opts.Wildcard = b
	}
	if v := params.Get("lenient"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return query.Options{}, errors.New("lenient must be a boolean")
		}
		opts.Lenient = &b
	}
	return opts, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func recordToResponse(rec domrec.Record) RecordResponse {
	return RecordResponse{ID: rec.ID(), Attributes: rec.Attributes()}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrUnknownEntity,
		domain.ErrNotFound,
		domain.ErrValidation,
		domain.ErrQueryRejected,
		domain.ErrIndexUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
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
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
