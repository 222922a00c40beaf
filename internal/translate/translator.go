// Package translate converts generic geospatial search requests into the
// Janes Intara graph API's native request shape, and normalizes Intara
// responses back into typed records.
package translate

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/planetlabs/go-stac"
	"github.com/robert-malhotra/intara-search-proxy/internal/config"
	"github.com/robert-malhotra/intara-search-proxy/internal/intara"
	"github.com/robert-malhotra/intara-search-proxy/internal/search"
	"github.com/robert-malhotra/intara-search-proxy/pkg/geojson"
)

// Geometry is an alias for geojson.Geometry for convenience
type Geometry = geojson.Geometry

// Translator converts generic search requests into Intara graph requests.
type Translator struct {
	cfg        *config.Config
	components *config.ComponentRegistry
	logger     *slog.Logger
}

// NewTranslator creates a new translator instance.
func NewTranslator(cfg *config.Config, components *config.ComponentRegistry, logger *slog.Logger) *Translator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Translator{
		cfg:        cfg,
		components: components,
		logger:     logger,
	}
}

// Translate converts a search request into the Intara request that serves
// it. Every call builds from fresh state, so translating the same request
// twice yields identical output.
func (t *Translator) Translate(req *search.Request) (*intara.Request, error) {
	component, err := t.resolveComponent(req.Component)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	for key, value := range component.DefaultParams {
		params.Set(key, value)
	}

	builder := &FilterBuilder{}

	// Spatial and temporal constraints become filter fragments.
	if len(req.BBox) > 0 {
		fragment, err := BBoxFragment(req.BBox)
		if err != nil {
			t.logger.Error("failed to convert bbox to filter fragment", "error", err)
			return nil, err
		}
		builder.Add(fragment)
	}

	if len(req.Intersects) > 0 {
		var geom Geometry
		if err := json.Unmarshal(req.Intersects, &geom); err != nil {
			t.logger.Error("failed to parse intersects geometry", "error", err)
			return nil, ErrInvalidGeometry
		}
		fragment, err := GeometryFragment(&geom)
		if err != nil {
			t.logger.Error("failed to convert intersects geometry to filter fragment", "error", err)
			return nil, err
		}
		builder.Add(fragment)
	}

	if req.Datetime != "" {
		start, end, err := search.ParseDatetimeInterval(req.Datetime)
		if err != nil {
			t.logger.Error("failed to parse datetime", "error", err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidDateTime, err)
		}
		if start != nil {
			builder.Add("lastModifiedDate:>=" + FormatFilterTime(*start))
		}
		if end != nil {
			builder.Add("lastModifiedDate:<=" + FormatFilterTime(*end))
		}
	}

	// Id shortcut: a single id addresses one resource directly. Accumulated
	// filters and every other parameter are discarded; the id alone pins the
	// result.
	if len(req.IDs) == 1 {
		return &intara.Request{
			Path:  component.ID + "/" + idSlug(req.IDs[0]),
			Query: url.Values{},
		}, nil
	}
	if len(req.IDs) > 1 {
		params.Set("ids", strings.Join(req.IDs, ","))
	}

	page, pageSize := search.ResolvePagination(req, t.cfg.Search.MaxPageSize)

	// Token shortcut: a continuation token stands in for the whole original
	// query, so it travels with the page size and nothing else.
	if req.Pagination.Token != "" {
		query := url.Values{}
		query.Set("nextPageToken", req.Pagination.Token)
		query.Set("pageSize", strconv.Itoa(pageSize))
		return &intara.Request{Path: component.ID, Query: query}, nil
	}

	// Structured filters contribute both literal parameters and, under the
	// "filters" key, predicate fragments.
	if req.Filter != nil {
		cqlParams, err := CQLToParams(req.Filter)
		if err != nil {
			t.logger.Error("failed to translate filter", "error", err)
			return nil, err
		}
		for _, key := range sortedKeys(cqlParams) {
			if key == "filters" {
				builder.Add(cqlParams[key])
				continue
			}
			params.Set(key, cqlParams[key])
		}
	}

	// Only included fields are forwarded; the upstream has no exclusion
	// parameter.
	if req.Fields != nil && len(req.Fields.Include) > 0 {
		params.Set("fields", strings.Join(req.Fields.Include, ","))
	}

	if req.SortBy != nil && req.SortBy.Field != "" {
		direction := req.SortBy.Direction
		if direction == "" {
			direction = search.SortAsc
		}
		params.Set("sort", req.SortBy.Field+":"+direction)
	}

	// Extension parameters pass through only when the upstream advertises
	// them as queryables; unknown keys are dropped rather than rejected.
	extras := mergeExtraParams(req.ProviderProperties, req.ExtraParams)
	for _, key := range sortedKeys(extras) {
		if key == "filters" {
			builder.Add(extras[key])
			continue
		}
		if !intara.IsQueryable(key) {
			t.logger.Debug("dropping extra parameter not in queryables", slog.String("key", key))
			continue
		}
		params.Set(key, extras[key])
	}

	params.Set("pageNo", strconv.Itoa(page))
	params.Set("pageSize", strconv.Itoa(pageSize))

	if !builder.Empty() {
		params.Set("filters", builder.Build())
	}

	return &intara.Request{Path: component.ID, Query: params}, nil
}

// ItemsFromRecords converts normalized records to STAC items. Records that
// cannot be represented are logged and skipped rather than failing the batch.
func (t *Translator) ItemsFromRecords(records []Record, componentID string) []*stac.Item {
	items := make([]*stac.Item, 0, len(records))
	for i := range records {
		item, err := RecordToItem(&records[i], componentID)
		if err != nil {
			t.logger.Warn("skipping record",
				slog.String("component", componentID),
				slog.String("error", err.Error()),
			)
			continue
		}
		items = append(items, item)
	}
	return items
}

// resolveComponent looks up the requested component, falling back to the
// configured default when the request names none.
func (t *Translator) resolveComponent(id string) (*config.ComponentConfig, error) {
	if id == "" {
		id = t.cfg.Search.DefaultComponent
	}
	if id == "" {
		return nil, fmt.Errorf("%w: no component requested and no default configured", ErrComponentNotFound)
	}

	component := t.components.Get(id)
	if component == nil {
		return nil, fmt.Errorf("%w: %q", ErrComponentNotFound, id)
	}
	return component, nil
}

// idSlug extracts the final path segment of an id. Intara ids are path-like
// ("military-groups/5001234") but the single-resource endpoint wants only
// the trailing segment.
func idSlug(id string) string {
	if i := strings.LastIndex(id, "/"); i >= 0 {
		return id[i+1:]
	}
	return id
}

// mergeExtraParams folds provider properties and extension parameters into
// one mapping. Extension parameters win on key collisions: they were named
// explicitly by the caller.
func mergeExtraParams(providerProps, extra map[string]any) map[string]string {
	if len(providerProps) == 0 && len(extra) == 0 {
		return nil
	}

	merged := make(map[string]string, len(providerProps)+len(extra))
	for key, value := range providerProps {
		merged[key] = formatParamValue(value)
	}
	for key, value := range extra {
		merged[key] = formatParamValue(value)
	}
	return merged
}

// sortedKeys returns the map's keys in sorted order so parameter application
// is deterministic.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
