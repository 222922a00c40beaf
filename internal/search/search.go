// Package search provides the generic search request model accepted by the
// proxy, request parsing and validation, and the pagination descriptors
// returned to callers.
package search

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// Sort directions accepted by the sortby parameter.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// SortBy represents a single sort criterion.
type SortBy struct {
	Field     string `json:"field"`
	Direction string `json:"direction"` // "asc" or "desc"
}

// Fields selects which upstream fields appear in results. It accepts either
// an {include, exclude} object or a flat list whose entries carry a "+"
// (include) or "-" (exclude) marker. Unmarked entries count as exclusions.
type Fields struct {
	Include []string `json:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty"`
}

// UnmarshalJSON accepts both the object form and the marked-list form.
func (f *Fields) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("failed to parse fields list: %w", err)
		}
		*f = ParseFieldList(list)
		return nil
	}

	type object Fields
	var obj object
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("failed to parse fields object: %w", err)
	}
	*f = Fields(obj)
	return nil
}

// ParseFieldList splits a marked field list into include/exclude sets.
// "+name" includes name, "-name" excludes it, bare entries are exclusions.
func ParseFieldList(list []string) Fields {
	var f Fields
	for _, entry := range list {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		switch entry[0] {
		case '+':
			if name := entry[1:]; name != "" {
				f.Include = append(f.Include, name)
			}
		case '-':
			if name := entry[1:]; name != "" {
				f.Exclude = append(f.Exclude, name)
			}
		default:
			f.Exclude = append(f.Exclude, entry)
		}
	}
	return f
}

// Request represents a generic search request.
// Extension parameters the proxy does not model directly travel in
// ExtraParams and are forwarded only when the upstream advertises them.
type Request struct {
	BBox       []float64       `json:"bbox,omitempty"`
	Datetime   string          `json:"datetime,omitempty"`
	Intersects json.RawMessage `json:"intersects,omitempty"`
	IDs        []string        `json:"ids,omitempty"`
	Component  string          `json:"component,omitempty"`
	Limit      int             `json:"limit,omitempty"`

	// Fields projection and sort
	Fields *Fields `json:"fields,omitempty"`
	SortBy *SortBy `json:"sortby,omitempty"`

	// Filter - CQL2-JSON object or raw mapping of upstream parameters
	Filter any `json:"filter,omitempty"`

	// Extension parameters, gated by the upstream queryables allow-list
	ExtraParams map[string]any `json:"extra_params,omitempty"`

	// Provider properties forwarded by the hosting configuration; treated
	// like extra parameters
	ProviderProperties map[string]any `json:"provider_properties,omitempty"`

	// Pagination carries either a page/pageSize pair or a continuation token
	Pagination Pagination `json:"pagination,omitempty"`

	// CountOnly asks for the matched total instead of records
	CountOnly bool `json:"count_only,omitempty"`
}

// coreParams are query parameter names consumed directly by ParseRequest.
// Anything else on a GET request becomes an extra parameter.
var coreParams = map[string]bool{
	"bbox":          true,
	"datetime":      true,
	"intersects":    true,
	"ids":           true,
	"component":     true,
	"limit":         true,
	"fields":        true,
	"sortby":        true,
	"filter":        true,
	"page":          true,
	"pageSize":      true,
	"nextPageToken": true,
	"count_only":    true,
}

// ParseRequest parses a search request from GET query parameters
func ParseRequest(r *http.Request) (*Request, error) {
	query := r.URL.Query()
	req := &Request{}

	// Parse bbox parameter
	if bboxStr := query.Get("bbox"); bboxStr != "" {
		bboxParts := strings.Split(bboxStr, ",")
		if len(bboxParts) != 4 {
			return nil, fmt.Errorf("bbox must have 4 coordinates, got %d", len(bboxParts))
		}

		bbox := make([]float64, len(bboxParts))
		for i, part := range bboxParts {
			val, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid bbox coordinate at position %d: %w", i, err)
			}
			bbox[i] = val
		}
		req.BBox = bbox
	}

	// Parse datetime parameter
	if datetime := query.Get("datetime"); datetime != "" {
		req.Datetime = datetime
	}

	// Parse intersects parameter (GeoJSON geometry as URL-encoded JSON)
	if intersects := query.Get("intersects"); intersects != "" {
		if !json.Valid([]byte(intersects)) {
			return nil, fmt.Errorf("intersects must be valid GeoJSON geometry")
		}
		req.Intersects = json.RawMessage(intersects)
	}

	// Parse ids parameter (comma-separated list)
	if ids := query.Get("ids"); ids != "" {
		req.IDs = strings.Split(ids, ",")
		for i := range req.IDs {
			req.IDs[i] = strings.TrimSpace(req.IDs[i])
		}
	}

	// Parse component parameter
	if component := query.Get("component"); component != "" {
		req.Component = component
	}

	// Parse limit parameter
	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return nil, fmt.Errorf("invalid limit parameter: %w", err)
		}
		if limit < 0 {
			return nil, fmt.Errorf("limit must be non-negative, got %d", limit)
		}
		req.Limit = limit
	}

	// Parse fields parameter (comma-separated marked list)
	if fieldsStr := query.Get("fields"); fieldsStr != "" {
		fields := ParseFieldList(strings.Split(fieldsStr, ","))
		req.Fields = &fields
	}

	// Parse sortby parameter
	if sortbyStr := query.Get("sortby"); sortbyStr != "" {
		sortby, err := parseSortByParam(sortbyStr)
		if err != nil {
			return nil, fmt.Errorf("invalid sortby parameter: %w", err)
		}
		req.SortBy = sortby
	}

	// Parse filter parameter (CQL2-JSON object or raw string)
	if filter := query.Get("filter"); filter != "" {
		if strings.HasPrefix(strings.TrimSpace(filter), "{") {
			var filterObj any
			if err := json.Unmarshal([]byte(filter), &filterObj); err == nil {
				req.Filter = filterObj
			} else {
				req.Filter = filter
			}
		} else {
			req.Filter = filter
		}
	}

	// Parse pagination parameters
	if pageStr := query.Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			return nil, fmt.Errorf("invalid page parameter: %s", pageStr)
		}
		req.Pagination.Page = page
	}
	if sizeStr := query.Get("pageSize"); sizeStr != "" {
		size, err := strconv.Atoi(sizeStr)
		if err != nil || size < 0 {
			return nil, fmt.Errorf("invalid pageSize parameter: %s", sizeStr)
		}
		req.Pagination.PageSize = size
	}
	if token := query.Get("nextPageToken"); token != "" {
		req.Pagination.Token = token
	}

	// Parse count_only parameter
	if countStr := query.Get("count_only"); countStr != "" {
		countOnly, err := strconv.ParseBool(countStr)
		if err != nil {
			return nil, fmt.Errorf("invalid count_only parameter: %s", countStr)
		}
		req.CountOnly = countOnly
	}

	// Remaining query parameters travel as extra parameters
	for key, values := range query {
		if coreParams[key] || len(values) == 0 {
			continue
		}
		if req.ExtraParams == nil {
			req.ExtraParams = make(map[string]any)
		}
		req.ExtraParams[key] = values[0]
	}

	return req, nil
}

// parseSortByParam parses the sortby query parameter.
// Format: sortby=field, sortby=+field (asc) or sortby=-field (desc).
func parseSortByParam(sortbyStr string) (*SortBy, error) {
	field := strings.TrimSpace(sortbyStr)
	direction := SortAsc

	switch {
	case strings.HasPrefix(field, "+"):
		field = field[1:]
	case strings.HasPrefix(field, "-"):
		direction = SortDesc
		field = field[1:]
	}

	if field == "" {
		return nil, fmt.Errorf("empty field name in sortby")
	}

	return &SortBy{Field: field, Direction: direction}, nil
}

// ParseRequestBody parses a search request from a POST JSON body.
// An empty body yields an empty request.
func ParseRequestBody(body io.Reader) (*Request, error) {
	var req Request

	decoder := json.NewDecoder(body)
	if err := decoder.Decode(&req); err != nil {
		if err == io.EOF {
			return &req, nil
		}
		return nil, fmt.Errorf("failed to parse search request body: %w", err)
	}

	return &req, nil
}
