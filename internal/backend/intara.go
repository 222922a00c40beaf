package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robert-malhotra/intara-search-proxy/internal/config"
	"github.com/robert-malhotra/intara-search-proxy/internal/intara"
	"github.com/robert-malhotra/intara-search-proxy/internal/search"
	"github.com/robert-malhotra/intara-search-proxy/internal/translate"
)

// Fetcher executes upstream requests. *intara.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, req *intara.Request) ([]byte, error)
}

// IntaraBackend implements SearchBackend against the Intara graph API.
type IntaraBackend struct {
	client     Fetcher
	components *config.ComponentRegistry
	translator *translate.Translator
	cfg        *config.Config
	logger     *slog.Logger
}

// NewIntaraBackend creates a new Intara backend.
func NewIntaraBackend(
	client Fetcher,
	components *config.ComponentRegistry,
	translator *translate.Translator,
	cfg *config.Config,
	logger *slog.Logger,
) *IntaraBackend {
	return &IntaraBackend{
		client:     client,
		components: components,
		translator: translator,
		cfg:        cfg,
		logger:     logger,
	}
}

// Name returns the backend name.
func (b *IntaraBackend) Name() string {
	return "intara"
}

// Search executes a search against the Intara API.
func (b *IntaraBackend) Search(ctx context.Context, req *search.Request) (*SearchResult, error) {
	if err := search.ValidateRequest(req, b.cfg.Search.MaxPageSize); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	if req.CountOnly {
		return b.searchCount(ctx, req)
	}

	upstream, err := b.translator.Translate(req)
	if err != nil {
		return nil, err
	}

	raw, err := b.client.Fetch(ctx, upstream)
	if err != nil {
		return nil, err
	}

	records, err := translate.Normalize(raw)
	if err != nil {
		return nil, err
	}

	componentID := b.componentID(req)
	items := b.translator.ItemsFromRecords(records, componentID)
	result := &SearchResult{Items: items, Component: componentID}

	// Single-resource lookups carry no search metadata; the one result is the
	// whole result set.
	if len(req.IDs) == 1 {
		matched := len(items)
		result.Matched = &matched
		return result, nil
	}

	meta := intara.ParseSearchMeta(raw)
	result.Matched = &meta.TotalResults

	b.logger.DebugContext(ctx, "search completed",
		slog.String("component", componentID),
		slog.Int("items", len(items)),
		slog.Int("total", meta.TotalResults),
	)

	// A continuation-token request must continue by token; the upstream has
	// already forbidden offset addressing for this result set.
	if req.Pagination.Token != "" {
		result.Next = search.TokenBased(meta.NextPageToken)
		return result, nil
	}

	page, pageSize := search.ResolvePagination(req, b.cfg.Search.MaxPageSize)
	next := search.NextPagination(page, pageSize, meta.TotalResults, meta.NextPageToken)
	if next.IsPageBased() && page*pageSize >= meta.TotalResults {
		next = search.Pagination{}
	}
	result.Next = next

	return result, nil
}

// searchCount serves count-only requests. Components with counting disabled
// report zero without an upstream call; the rest probe the upstream with the
// smallest page and return only the reported total.
func (b *IntaraBackend) searchCount(ctx context.Context, req *search.Request) (*SearchResult, error) {
	componentID := b.componentID(req)
	component := b.components.Get(componentID)
	if component == nil {
		return nil, fmt.Errorf("%w: %q", translate.ErrComponentNotFound, componentID)
	}

	result := &SearchResult{Component: componentID}
	if !component.EnableCounts {
		result.Matched = new(int)
		return result, nil
	}

	probe := *req
	probe.Limit = 0
	probe.Pagination = search.Pagination{Page: search.DefaultPage, PageSize: search.CountProbePageSize}

	upstream, err := b.translator.Translate(&probe)
	if err != nil {
		return nil, err
	}

	raw, err := b.client.Fetch(ctx, upstream)
	if err != nil {
		return nil, err
	}

	meta := intara.ParseSearchMeta(raw)
	result.Matched = &meta.TotalResults
	return result, nil
}

// componentID resolves the component a request addresses, falling back to the
// configured default.
func (b *IntaraBackend) componentID(req *search.Request) string {
	if req.Component != "" {
		return req.Component
	}
	return b.cfg.Search.DefaultComponent
}
