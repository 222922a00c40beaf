// Package backend runs searches end to end: request validation, translation
// into the upstream request shape, the upstream call, and normalization of
// the response into STAC items.
package backend

import (
	"context"
	"errors"

	"github.com/planetlabs/go-stac"
	"github.com/robert-malhotra/intara-search-proxy/internal/search"
)

// ErrInvalidRequest marks search requests rejected before any upstream call.
var ErrInvalidRequest = errors.New("invalid search request")

// SearchBackend executes search requests against one upstream.
type SearchBackend interface {
	// Search runs a search. Count-only requests return a result carrying
	// Matched and no items.
	Search(ctx context.Context, req *search.Request) (*SearchResult, error)

	// Name returns the backend name used in logs.
	Name() string
}

// SearchResult is the outcome of one search.
type SearchResult struct {
	// Items are the converted result records.
	Items []*stac.Item

	// Matched is the upstream's total result count, nil when unknown.
	Matched *int

	// Next addresses the page after this one. The zero value means the
	// results are exhausted.
	Next search.Pagination

	// Component the search ran against.
	Component string
}
