package search

import (
	"fmt"
	"strings"
	"time"
)

// ValidateRequest validates a search request before any upstream call.
// maxPageSize bounds the explicitly requested page size; 0 disables the check.
func ValidateRequest(req *Request, maxPageSize int) error {
	if req == nil {
		return fmt.Errorf("search request cannot be nil")
	}

	// Validate bbox if provided
	if len(req.BBox) > 0 {
		if err := ValidateBBox(req.BBox); err != nil {
			return fmt.Errorf("invalid bbox: %w", err)
		}
	}

	// Validate datetime if provided
	if req.Datetime != "" {
		if err := ValidateDatetime(req.Datetime); err != nil {
			return fmt.Errorf("invalid datetime: %w", err)
		}
	}

	// Validate limit
	if req.Limit < 0 {
		return fmt.Errorf("limit must be non-negative, got %d", req.Limit)
	}

	// Validate IDs (basic check for empty strings)
	for i, id := range req.IDs {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("id at index %d cannot be empty", i)
		}
	}

	// Validate sort direction
	if req.SortBy != nil && req.SortBy.Direction != "" &&
		req.SortBy.Direction != SortAsc && req.SortBy.Direction != SortDesc {
		return fmt.Errorf("sort direction must be %q or %q, got %q", SortAsc, SortDesc, req.SortBy.Direction)
	}

	// Validate explicit page size against the configured maximum
	if err := ValidatePageSize(req.Pagination.PageSize, maxPageSize); err != nil {
		return err
	}
	if req.Pagination.Page < 0 {
		return fmt.Errorf("page must be non-negative, got %d", req.Pagination.Page)
	}

	return nil
}

// ValidatePageSize rejects an explicitly requested page size above the
// configured maximum. Zero sizes are allowed; they become count probes.
func ValidatePageSize(requested, max int) error {
	if requested < 0 {
		return fmt.Errorf("pageSize must be non-negative, got %d", requested)
	}
	if max > 0 && requested > max {
		return fmt.Errorf("pageSize %d exceeds maximum %d", requested, max)
	}
	return nil
}

// ValidateBBox validates a [west, south, east, north] bounding box.
func ValidateBBox(bbox []float64) error {
	if len(bbox) != 4 {
		return fmt.Errorf("bbox must have 4 coordinates [west, south, east, north], got %d", len(bbox))
	}

	west, south, east, north := bbox[0], bbox[1], bbox[2], bbox[3]

	// Validate longitude bounds
	if west < -180 || west > 180 {
		return fmt.Errorf("west longitude must be between -180 and 180, got %f", west)
	}
	if east < -180 || east > 180 {
		return fmt.Errorf("east longitude must be between -180 and 180, got %f", east)
	}

	// Validate latitude bounds
	if south < -90 || south > 90 {
		return fmt.Errorf("south latitude must be between -90 and 90, got %f", south)
	}
	if north < -90 || north > 90 {
		return fmt.Errorf("north latitude must be between -90 and 90, got %f", north)
	}

	// Validate spatial relationships
	if west > east {
		return fmt.Errorf("west longitude (%f) must be less than or equal to east longitude (%f)", west, east)
	}
	if south > north {
		return fmt.Errorf("south latitude (%f) must be less than or equal to north latitude (%f)", south, north)
	}

	return nil
}

// ValidateDatetime validates a datetime string according to RFC 3339 / ISO 8601
func ValidateDatetime(dt string) error {
	if dt == "" {
		return fmt.Errorf("datetime cannot be empty")
	}

	// Handle special cases
	if dt == ".." || dt == "../.." {
		// Open interval, valid
		return nil
	}

	// Parse as interval if contains "/"
	if strings.Contains(dt, "/") {
		_, _, err := ParseDatetimeInterval(dt)
		return err
	}

	// Parse as single datetime
	if _, err := time.Parse(time.RFC3339, dt); err != nil {
		return fmt.Errorf("invalid datetime format, expected RFC 3339: %w", err)
	}

	return nil
}

// ParseDatetimeInterval parses a datetime interval string into start and end times
// Supports formats:
// - "2023-01-01T00:00:00Z/2023-12-31T23:59:59Z" (closed interval)
// - "2023-01-01T00:00:00Z/.." (start time only)
// - "../2023-12-31T23:59:59Z" (end time only)
// - ".." or "../.." (open interval, both nil)
func ParseDatetimeInterval(dt string) (start, end *time.Time, err error) {
	if dt == "" {
		return nil, nil, fmt.Errorf("datetime interval cannot be empty")
	}

	// Handle fully open interval
	if dt == ".." || dt == "../.." {
		return nil, nil, nil
	}

	// A single instant is a degenerate interval
	if !strings.Contains(dt, "/") {
		t, err := time.Parse(time.RFC3339, dt)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid datetime: %w", err)
		}
		return &t, &t, nil
	}

	// Split on "/"
	parts := strings.Split(dt, "/")
	if len(parts) != 2 {
		return nil, nil, fmt.Errorf("invalid datetime interval format, expected 'start/end', got: %s", dt)
	}

	startStr := strings.TrimSpace(parts[0])
	endStr := strings.TrimSpace(parts[1])

	// Parse start time
	if startStr != "" && startStr != ".." {
		t, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid start datetime: %w", err)
		}
		start = &t
	}

	// Parse end time
	if endStr != "" && endStr != ".." {
		t, err := time.Parse(time.RFC3339, endStr)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid end datetime: %w", err)
		}
		end = &t
	}

	// Validate that start is before end if both are provided
	if start != nil && end != nil && start.After(*end) {
		return nil, nil, fmt.Errorf("start datetime (%s) must be before or equal to end datetime (%s)", start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	return start, end, nil
}
