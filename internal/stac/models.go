// Package stac provides the STAC response types served by the API, wrapping
// planetlabs/go-stac for the core types.
package stac

import (
	gostac "github.com/planetlabs/go-stac"

	"github.com/robert-malhotra/intara-search-proxy/internal/search"
)

// Re-export core types from planetlabs/go-stac for convenience
type (
	Item  = gostac.Item
	Asset = gostac.Asset
	Link  = gostac.Link
)

// ItemCollection is a GeoJSON FeatureCollection of STAC items plus the
// descriptor a client sends back to fetch the page after it.
type ItemCollection struct {
	Type           string             `json:"type"` // "FeatureCollection"
	Features       []*gostac.Item     `json:"features"`
	NumberMatched  *int               `json:"numberMatched,omitempty"`
	NumberReturned int                `json:"numberReturned"`
	Pagination     *search.Pagination `json:"pagination,omitempty"`
}

// NewItemCollection creates an ItemCollection with the given items. A nil
// slice serializes as an empty features array, never null.
func NewItemCollection(items []*gostac.Item) *ItemCollection {
	if items == nil {
		items = make([]*gostac.Item, 0)
	}
	return &ItemCollection{
		Type:           "FeatureCollection",
		Features:       items,
		NumberReturned: len(items),
	}
}

// SetPagination attaches the descriptor for the next page. Exhausted
// descriptors are omitted from the response: absence means no further pages.
func (ic *ItemCollection) SetPagination(next search.Pagination) {
	if next.Exhausted() {
		ic.Pagination = nil
		return
	}
	ic.Pagination = &next
}

// Count is the body of a count-only search response.
type Count struct {
	Count int `json:"count"`
}
