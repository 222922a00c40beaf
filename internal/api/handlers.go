package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/robert-malhotra/intara-search-proxy/internal/backend"
	"github.com/robert-malhotra/intara-search-proxy/internal/config"
	"github.com/robert-malhotra/intara-search-proxy/internal/intara"
	"github.com/robert-malhotra/intara-search-proxy/internal/search"
	"github.com/robert-malhotra/intara-search-proxy/internal/stac"
	"github.com/robert-malhotra/intara-search-proxy/internal/translate"
)

// Handlers contains all HTTP handlers for the search API.
type Handlers struct {
	cfg        *config.Config
	backend    backend.SearchBackend
	components *config.ComponentRegistry
	logger     *slog.Logger
}

// NewHandlers creates a new Handlers instance with the given dependencies.
func NewHandlers(
	cfg *config.Config,
	searchBackend backend.SearchBackend,
	components *config.ComponentRegistry,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		cfg:        cfg,
		backend:    searchBackend,
		components: components,
		logger:     logger,
	}
}

// Search executes a search against the configured backend.
// GET /search (query parameters) and POST /search (JSON body).
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	var searchReq *search.Request
	var err error

	switch r.Method {
	case http.MethodGet:
		searchReq, err = search.ParseRequest(r)
	case http.MethodPost:
		searchReq, err = search.ParseRequestBody(r.Body)
		defer r.Body.Close()
	default:
		w.Header().Set("Allow", "GET, POST")
		WriteError(w, http.StatusMethodNotAllowed, ErrCodeBadRequest, "method not allowed")
		return
	}

	if err != nil {
		WriteInvalidParameter(w, fmt.Sprintf("invalid search request: %v", err))
		return
	}

	result, err := h.backend.Search(r.Context(), searchReq)
	if err != nil {
		h.logger.Error("backend search failed",
			slog.String("backend", h.backend.Name()),
			slog.String("component", searchReq.Component),
			slog.String("error", err.Error()),
		)
		h.writeSearchError(w, err)
		return
	}

	if searchReq.CountOnly {
		count := 0
		if result.Matched != nil {
			count = *result.Matched
		}
		WriteJSON(w, http.StatusOK, stac.Count{Count: count})
		return
	}

	itemCollection := stac.NewItemCollection(result.Items)
	itemCollection.NumberMatched = result.Matched
	itemCollection.SetPagination(result.Next)

	WriteGeoJSON(w, http.StatusOK, itemCollection)
}

// writeSearchError maps a backend error onto the response taxonomy: request
// defects are 400, unknown components 404, upstream failures 502, anything
// unrecognized 500.
func (h *Handlers) writeSearchError(w http.ResponseWriter, err error) {
	var upstreamErr *intara.APIError

	switch {
	case errors.Is(err, backend.ErrInvalidRequest):
		WriteBadRequest(w, err.Error())
	case errors.Is(err, translate.ErrComponentNotFound):
		WriteNotFound(w, err.Error())
	case errors.Is(err, translate.ErrInvalidDateTime),
		errors.Is(err, translate.ErrInvalidGeometry),
		errors.Is(err, translate.ErrUnsupportedFilter):
		WriteInvalidParameter(w, err.Error())
	case errors.As(err, &upstreamErr):
		WriteUpstreamError(w, fmt.Sprintf("upstream search service returned status %d", upstreamErr.StatusCode))
	case errors.Is(err, translate.ErrMalformedRecord):
		WriteUpstreamError(w, "upstream search service returned a malformed record")
	default:
		WriteInternalError(w, "internal server error")
	}
}

// queryablesDocument describes the accepted search parameters in JSON-Schema
// terms, mirroring the upstream allow-list.
type queryablesDocument struct {
	Schema               string                     `json:"$schema"`
	ID                   string                     `json:"$id"`
	Type                 string                     `json:"type"`
	Title                string                     `json:"title"`
	Description          string                     `json:"description"`
	Properties           map[string]intara.Property `json:"properties"`
	AdditionalProperties bool                       `json:"additionalProperties"`
}

// Queryables returns the upstream parameter allow-list as a JSON Schema.
// GET /queryables
func (h *Handlers) Queryables(w http.ResponseWriter, r *http.Request) {
	doc := queryablesDocument{
		Schema:               "https://json-schema.org/draft/2019-09/schema",
		ID:                   "/queryables",
		Type:                 "object",
		Title:                "Queryables for Intara search",
		Description:          "Query parameters forwarded to the upstream graph API",
		Properties:           intara.Queryables(),
		AdditionalProperties: false,
	}

	WriteJSON(w, http.StatusOK, doc)
}

// Health returns the health status of the service.
// GET /healthz
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":     "ok",
		"components": h.components.Count(),
	}

	WriteJSON(w, http.StatusOK, response)
}
