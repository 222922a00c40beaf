package search

// OffsetPaginationCeiling is the upstream's hard cap on offset-addressed
// pagination. Once a search matches this many results the upstream refuses
// pageNo addressing and hands out continuation tokens instead.
const OffsetPaginationCeiling = 10000

// CountProbePageSize is the page size substituted for a requested size of 0.
// A zero-size page is a count probe, not a real page.
const CountProbePageSize = 10

// DefaultPage is the first page number the upstream accepts.
const DefaultPage = 1

// Pagination addresses one page of results. A page-addressed descriptor
// carries page and pageSize; once the upstream caps offset pagination the
// descriptor carries the continuation token instead. Exactly one form is
// active. The zero value means there are no further pages.
type Pagination struct {
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"pageSize,omitempty"`
	Token    string `json:"nextPageToken,omitempty"`
}

// PageBased builds a page-addressed descriptor.
func PageBased(page, pageSize int) Pagination {
	return Pagination{Page: page, PageSize: pageSize}
}

// TokenBased builds a token-addressed descriptor. An empty token is a valid
// descriptor meaning the upstream has no further pages.
func TokenBased(token string) Pagination {
	return Pagination{Token: token}
}

// IsPageBased reports whether the descriptor addresses a page by number.
func (p Pagination) IsPageBased() bool {
	return p.Page > 0
}

// IsTokenBased reports whether the descriptor carries a continuation token.
func (p Pagination) IsTokenBased() bool {
	return p.Token != ""
}

// Exhausted reports whether the descriptor addresses nothing further.
func (p Pagination) Exhausted() bool {
	return p.Page == 0 && p.Token == ""
}

// NextPagination decides how the page after the current one is addressed.
// Above the offset ceiling the upstream forbids pageNo addressing, so the
// next page must be fetched with the continuation token it reported (which
// may be empty, meaning end of results). Below the ceiling pages stay
// independently addressable by number.
func NextPagination(page, pageSize, totalResults int, nextToken string) Pagination {
	if totalResults >= OffsetPaginationCeiling {
		return TokenBased(nextToken)
	}
	return PageBased(page+1, pageSize)
}

// NormalizePageSize applies the page-size rules: zero or negative sizes
// become the count-probe default, and sizes above max are clamped to max.
func NormalizePageSize(requested, max int) int {
	if requested <= 0 {
		return CountProbePageSize
	}
	if max > 0 && requested > max {
		return max
	}
	return requested
}

// ResolvePagination resolves the page and page size a request addresses.
// The page defaults to the first page. An explicitly requested page size
// wins, clamped to max; otherwise a positive limit caps the page at
// min(limit, max); otherwise the page fills to max.
func ResolvePagination(req *Request, maxPageSize int) (page, pageSize int) {
	page = req.Pagination.Page
	if page <= 0 {
		page = DefaultPage
	}

	switch {
	case req.Pagination.PageSize > 0:
		pageSize = NormalizePageSize(req.Pagination.PageSize, maxPageSize)
	case req.Limit > 0:
		pageSize = NormalizePageSize(req.Limit, maxPageSize)
	default:
		pageSize = maxPageSize
	}
	return page, pageSize
}
