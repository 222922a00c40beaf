package intara

// Property describes one queryable parameter in JSON-Schema terms.
type Property struct {
	Title string `json:"title"`
	Type  string `json:"type"`
}

// queryables lists the query parameters the Intara graph API accepts. Keys
// are the literal upstream parameter names. Anything not listed here is
// silently dropped from extra parameters instead of being forwarded.
var queryables = map[string]Property{
	"sort":              {Title: "sort", Type: "string"},
	"ids":               {Title: "ids", Type: "string"},
	"filters":           {Title: "filters", Type: "string"},
	"q":                 {Title: "search_query", Type: "string"},
	"pageNo":            {Title: "pageNo", Type: "integer"},
	"pageSize":          {Title: "pageSize", Type: "integer"},
	"nextPageToken":     {Title: "nextPageToken", Type: "string"},
	"previousPageToken": {Title: "previousPageToken", Type: "string"},
	"facets":            {Title: "facets", Type: "string"},
	"dateFacets":        {Title: "dateFacets", Type: "string"},
	"facetSize":         {Title: "facetSize", Type: "integer"},
	"fields":            {Title: "fields", Type: "string"},
}

// Queryables returns the upstream parameter allow-list.
func Queryables() map[string]Property {
	return queryables
}

// IsQueryable reports whether the upstream accepts name as a query parameter.
func IsQueryable(name string) bool {
	_, ok := queryables[name]
	return ok
}
