package translate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/robert-malhotra/intara-search-proxy/pkg/geojson"
)

// Record is one normalized upstream result row: a point geometry, an
// optional timestamp, and the remaining response fields as properties.
type Record struct {
	ID         string
	Geometry   *geojson.Geometry
	Datetime   *time.Time
	Properties map[string]any
}

// Normalize converts a raw Intara response body into records. The body may
// be a {results: [...]} envelope, a bare array, or a bare object, which is
// treated as a single record. An empty body or an empty result array yields
// an empty slice, not an error.
func Normalize(raw []byte) ([]Record, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return []Record{}, nil
	}

	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("%w: response is not valid JSON: %v", ErrMalformedRecord, err)
	}

	rows, err := resultRows(body)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		observation, ok := row.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: result %d is not an object", ErrMalformedRecord, i)
		}
		record, err := normalizeObservation(observation)
		if err != nil {
			return nil, fmt.Errorf("result %d: %w", i, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// resultRows unwraps the supported body shapes into a row list.
func resultRows(body any) ([]any, error) {
	switch v := body.(type) {
	case []any:
		return v, nil
	case map[string]any:
		resultsVal, ok := v["results"]
		if !ok {
			return []any{v}, nil
		}
		if resultsVal == nil {
			return nil, nil
		}
		rows, ok := resultsVal.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: results is not an array", ErrMalformedRecord)
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("%w: response must be a JSON object or array", ErrMalformedRecord)
	}
}

// normalizeObservation builds one record from one response row. The
// coordinate source object and the promoted datetime field are dropped from
// the properties bag; everything else is carried through untouched.
func normalizeObservation(observation map[string]any) (Record, error) {
	var record Record

	if idVal, ok := observation["id"]; ok && idVal != nil {
		record.ID = formatParamValue(idVal)
	}

	lat, lon, consumedKey, err := observationCoordinates(observation)
	if err != nil {
		return Record{}, err
	}
	record.Geometry = geojson.NewPoint(lon, lat)

	datetime, err := observationDatetime(observation)
	if err != nil {
		return Record{}, err
	}
	record.Datetime = datetime

	record.Properties = make(map[string]any, len(observation))
	for key, value := range observation {
		if key == "datetime" || (consumedKey != "" && key == consumedKey) {
			continue
		}
		record.Properties[key] = value
	}
	return record, nil
}

// observationCoordinates extracts the row's point location. A locatedAt
// object wins over groupBasedAt, which may nest its own locatedAt. A lat or
// long field that is absent defaults to zero; a row with no location at all
// sits at (0, 0). Present non-numeric values are malformed, not fallbacks.
func observationCoordinates(observation map[string]any) (lat, lon float64, consumedKey string, err error) {
	if value, ok := observation["locatedAt"]; ok && !isEmptyLocation(value) {
		lat, lon, err = locationCoordinates(value, "locatedAt")
		return lat, lon, "locatedAt", err
	}

	if value, ok := observation["groupBasedAt"]; ok && value != nil {
		location := value
		if based, ok := value.(map[string]any); ok {
			if nested, ok := based["locatedAt"]; ok {
				location = nested
			}
		}
		lat, lon, err = locationCoordinates(location, "groupBasedAt")
		return lat, lon, "groupBasedAt", err
	}

	return 0, 0, "", nil
}

// isEmptyLocation reports whether a location value carries nothing usable.
func isEmptyLocation(value any) bool {
	if value == nil {
		return true
	}
	if m, ok := value.(map[string]any); ok {
		return len(m) == 0
	}
	return false
}

// locationCoordinates reads lat/long from one location object.
func locationCoordinates(value any, key string) (lat, lon float64, err error) {
	location, ok := value.(map[string]any)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s is not an object", ErrMalformedRecord, key)
	}

	lat, err = coordinateField(location, "lat", key)
	if err != nil {
		return 0, 0, err
	}
	lon, err = coordinateField(location, "long", key)
	if err != nil {
		return 0, 0, err
	}
	return lat, lon, nil
}

func coordinateField(location map[string]any, field, key string) (float64, error) {
	value, ok := location[field]
	if !ok || value == nil {
		return 0, nil
	}
	number, ok := value.(float64)
	if !ok {
		return 0, fmt.Errorf("%w: %s.%s is not a number", ErrMalformedRecord, key, field)
	}
	return number, nil
}

// observationDatetime promotes the row's timestamp. A datetime field wins
// over lastModifiedDate. A present but unparseable value is an error; a
// missing or empty value is not.
func observationDatetime(observation map[string]any) (*time.Time, error) {
	if value, ok := observation["datetime"]; ok && value != nil {
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: datetime is not a string", ErrMalformedRecord)
		}
		if s != "" {
			t, err := ParseRecordTime(s)
			if err != nil {
				return nil, err
			}
			return &t, nil
		}
	}

	if value, ok := observation["lastModifiedDate"]; ok && value != nil {
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: lastModifiedDate is not a string", ErrMalformedRecord)
		}
		if s != "" {
			t, err := ParseModifiedTime(s)
			if err != nil {
				return nil, err
			}
			return &t, nil
		}
	}

	return nil, nil
}
