package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/campuscrew/eduhub/internal/domain"
	"github.com/campuscrew/eduhub/internal/domain/facet"
	"github.com/campuscrew/eduhub/internal/domain/role"
	"github.com/campuscrew/eduhub/internal/logger"
	browseuc "github.com/campuscrew/eduhub/internal/usecase/browse"
	healthuc "github.com/campuscrew/eduhub/internal/usecase/health"
)

// Query parameters that never name a facet.
const (
	paramCursor    = "cursor"
	paramLimit     = "limit"
	paramPartition = "partition"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the catalog browsing API.
type Server struct {
	browse        *browseuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(browse *browseuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		browse: browse,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrForbidden, http.StatusForbidden, codeForbidden),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, codeBadRequest),
	}
	return s
}

// Routes mounts the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/catalogs", func(r chi.Router) {
		r.Get("/", s.ListCatalogs)
		r.Get("/{catalog}/records", s.ListRecords)
		r.Get("/{catalog}/facets", s.ListFacets)
	})
}

// ListCatalogs handles GET /catalogs.
func (s *Server) ListCatalogs(w http.ResponseWriter, r *http.Request) {
	caps := role.FromContext(r.Context())
	cats, err := s.browse.Catalogs(r.Context(), caps)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]CatalogSummary, len(cats))
	for i, c := range cats {
		items[i] = CatalogSummary{
			Name:        c.Name(),
			Title:       c.Title(),
			Capability:  string(c.Capability()),
			Partition:   c.Partition(),
			RecordCount: c.Len(),
		}
	}
	writeJSON(w, http.StatusOK, CatalogListResponse{Items: items, Role: string(caps.Role())})
}

// ListRecords handles GET /catalogs/{catalog}/records.
// Each facet is addressed by its field name: ?q=calc&subject=Math&year=1&year=2.
func (s *Server) ListRecords(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "catalog")
	r = r.WithContext(logger.With(r.Context(), zap.String("catalog", name)))
	caps := role.FromContext(r.Context())

	defs, err := s.browse.Definitions(r.Context(), name, caps)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	q, err := bindQuery(r, defs)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	page, err := s.browse.Browse(r.Context(), name, caps, q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pageToResponse(page))
}

// ListFacets handles GET /catalogs/{catalog}/facets.
func (s *Server) ListFacets(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "catalog")
	facets, err := s.browse.Facets(r.Context(), name, role.FromContext(r.Context()))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]FacetItem, len(facets))
	for i, f := range facets {
		items[i] = FacetItem{
			Field:      f.Definition.Field,
			Kind:       string(f.Definition.Kind),
			TextFields: f.Definition.TextFields,
			Options:    f.Options,
		}
		if f.Definition.Kind != facet.Text {
			items[i].Order = string(f.Definition.Order)
		}
	}
	writeJSON(w, http.StatusOK, FacetListResponse{Catalog: name, Facets: items})
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

// bindQuery binds reserved parameters and one parameter per facet.
// Parameters that name no facet are ignored.
func bindQuery(r *http.Request, defs []facet.Definition) (browseuc.Query, error) {
	values := r.URL.Query()
	q := browseuc.Query{
		Text:       make(map[string]string),
		Selections: make(map[string][]string),
	}

	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, paramLimit, values, &limit); err != nil {
		return browseuc.Query{}, fmt.Errorf("invalid %s: %w", paramLimit, err)
	}
	q.Limit = derefInt(limit)

	var cursor, partition *string
	if err := runtime.BindQueryParameter("form", true, false, paramCursor, values, &cursor); err != nil {
		return browseuc.Query{}, fmt.Errorf("invalid %s: %w", paramCursor, err)
	}
	if err := runtime.BindQueryParameter("form", true, false, paramPartition, values, &partition); err != nil {
		return browseuc.Query{}, fmt.Errorf("invalid %s: %w", paramPartition, err)
	}
	q.Cursor = derefString(cursor)
	q.Partition = derefString(partition)

	for _, d := range defs {
		switch d.Kind {
		case facet.Text:
			var text *string
			if err := runtime.BindQueryParameter("form", true, false, d.Field, values, &text); err != nil {
				return browseuc.Query{}, fmt.Errorf("invalid %s: %w", d.Field, err)
			}
			if text != nil && *text != "" {
				q.Text[d.Field] = *text
			}
		case facet.SingleSelect, facet.MultiSelect:
			var selected *[]string
			if err := runtime.BindQueryParameter("form", true, false, d.Field, values, &selected); err != nil {
				return browseuc.Query{}, fmt.Errorf("invalid %s: %w", d.Field, err)
			}
			if selected != nil && len(*selected) > 0 {
				q.Selections[d.Field] = *selected
			}
		}
	}
	return q, nil
}

func pageToResponse(p browseuc.Page) RecordListResponse {
	items := make([]map[string]any, len(p.Items))
	for i, rec := range p.Items {
		items[i] = rec.Fields()
	}
	resp := RecordListResponse{
		Items:   items,
		Total:   p.Total,
		Options: p.Options,
		HasMore: p.HasMore,
	}
	for _, pc := range p.Partitions {
		resp.Partitions = append(resp.Partitions, PartitionItem{Value: pc.Value, Count: pc.Count})
	}
	if p.NextCursor != "" {
		c := p.NextCursor
		resp.NextCursor = &c
	}
	return resp
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
		domain.ErrNotFound,
		domain.ErrForbidden,
		domain.ErrInvalidQuery,
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

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	if browseuc.IsConfigurationError(err) {
		// Facet wiring bug: never the caller's fault.
		log.Error("facet configuration error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
		return
	}

	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
