package intara

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// Request describes one upstream call: a resource path relative to the API
// base URL plus the query parameters to send with it. Built once per search
// and not modified afterwards.
type Request struct {
	Path  string
	Query url.Values
}

// SearchMeta is the pagination metadata block Intara attaches to list
// responses under the "search" key.
type SearchMeta struct {
	TotalResults  int    `json:"totalResults"`
	NextPageToken string `json:"nextPageToken"`
}

// searchEnvelope mirrors the list response wrapper:
// {"results": [...], "search": {"totalResults": N, "nextPageToken": "..."}}
type searchEnvelope struct {
	Search *SearchMeta `json:"search"`
}

// ParseSearchMeta extracts the search metadata from a raw response body.
// Single-resource lookups and bare arrays carry no metadata block; those
// yield the zero value rather than an error.
func ParseSearchMeta(raw []byte) SearchMeta {
	var envelope searchEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Search == nil {
		return SearchMeta{}
	}
	return *envelope.Search
}

// TokenResponse is the success body of the OAuth token exchange.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// APIError reports a non-2xx response from the Intara API. Status code and
// body are preserved so callers can surface the upstream's own message.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("intara API returned status %d: %s", e.StatusCode, e.Body)
}
