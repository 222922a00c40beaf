// Package geojson carries the minimal GeoJSON geometry support the proxy
// needs: point records coming back from the upstream graph and bounding
// envelopes derived from intersects geometries.
package geojson

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Geometry is a GeoJSON geometry object. Coordinates stay raw until a typed
// accessor decodes them for the declared type.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// NewPoint builds a Point geometry from a longitude/latitude pair.
func NewPoint(lon, lat float64) *Geometry {
	coords := "[" + formatFloat(lon) + "," + formatFloat(lat) + "]"
	return &Geometry{
		Type:        "Point",
		Coordinates: json.RawMessage(coords),
	}
}

// decode unmarshals the raw coordinates after checking the declared type.
func (g *Geometry) decode(want string, into interface{}) error {
	if g.Type != want {
		return fmt.Errorf("geometry is not a %s, got %s", want, g.Type)
	}
	if err := json.Unmarshal(g.Coordinates, into); err != nil {
		return fmt.Errorf("failed to unmarshal %s coordinates: %w", want, err)
	}
	return nil
}

// Point returns the [lon, lat] position of a Point geometry.
func (g *Geometry) Point() ([]float64, error) {
	var coords []float64
	if err := g.decode("Point", &coords); err != nil {
		return nil, err
	}
	if len(coords) < 2 {
		return nil, fmt.Errorf("invalid Point coordinates: expected at least 2 values, got %d", len(coords))
	}
	return coords, nil
}

// LineString returns the positions of a LineString geometry.
func (g *Geometry) LineString() ([][]float64, error) {
	var coords [][]float64
	if err := g.decode("LineString", &coords); err != nil {
		return nil, err
	}
	return coords, nil
}

// Polygon returns the rings of a Polygon geometry.
func (g *Geometry) Polygon() ([][][]float64, error) {
	var coords [][][]float64
	if err := g.decode("Polygon", &coords); err != nil {
		return nil, err
	}
	return coords, nil
}

// MultiPolygon returns the polygons of a MultiPolygon geometry.
func (g *Geometry) MultiPolygon() ([][][][]float64, error) {
	var coords [][][][]float64
	if err := g.decode("MultiPolygon", &coords); err != nil {
		return nil, err
	}
	return coords, nil
}

// ExteriorRing returns the outer ring of a Polygon.
func (g *Geometry) ExteriorRing() ([][]float64, error) {
	rings, err := g.Polygon()
	if err != nil {
		return nil, err
	}
	if len(rings) == 0 {
		return nil, fmt.Errorf("polygon has no rings")
	}
	return rings[0], nil
}

// BBox computes the bounding box of the geometry.
// Returns [west, south, east, north].
func (g *Geometry) BBox() ([]float64, error) {
	return ComputeBBox(g)
}

// bounds accumulates a bounding box over visited positions.
type bounds struct {
	minLon, minLat float64
	maxLon, maxLat float64
	seen           bool
}

func (b *bounds) expand(point []float64) {
	if len(point) < 2 {
		return
	}
	if !b.seen {
		b.minLon, b.maxLon = point[0], point[0]
		b.minLat, b.maxLat = point[1], point[1]
		b.seen = true
		return
	}
	b.minLon = math.Min(b.minLon, point[0])
	b.maxLon = math.Max(b.maxLon, point[0])
	b.minLat = math.Min(b.minLat, point[1])
	b.maxLat = math.Max(b.maxLat, point[1])
}

// ComputeBBox computes the [west, south, east, north] bounding box of a
// geometry. The translator uses it to reduce non-polygon intersects inputs
// to an envelope, and outgoing point items get their bbox from it.
func ComputeBBox(g *Geometry) ([]float64, error) {
	if g == nil {
		return nil, fmt.Errorf("geometry is nil")
	}

	var b bounds
	switch g.Type {
	case "Point":
		coords, err := g.Point()
		if err != nil {
			return nil, err
		}
		b.expand(coords)

	case "LineString":
		coords, err := g.LineString()
		if err != nil {
			return nil, err
		}
		for _, point := range coords {
			b.expand(point)
		}

	case "Polygon":
		rings, err := g.Polygon()
		if err != nil {
			return nil, err
		}
		for _, ring := range rings {
			for _, point := range ring {
				b.expand(point)
			}
		}

	case "MultiPolygon":
		polygons, err := g.MultiPolygon()
		if err != nil {
			return nil, err
		}
		for _, polygon := range polygons {
			for _, ring := range polygon {
				for _, point := range ring {
					b.expand(point)
				}
			}
		}

	default:
		return nil, fmt.Errorf("unsupported geometry type: %s", g.Type)
	}

	if !b.seen {
		return nil, fmt.Errorf("failed to compute bounding box: no valid coordinates found")
	}

	return []float64{b.minLon, b.minLat, b.maxLon, b.maxLat}, nil
}

// NewPolygonFromBBox builds the rectangular polygon covering a
// [west, south, east, north] box, closing ring included.
func NewPolygonFromBBox(bbox []float64) (*Geometry, error) {
	if len(bbox) != 4 {
		return nil, fmt.Errorf("bbox must have 4 values [west, south, east, north], got %d", len(bbox))
	}

	west, south, east, north := bbox[0], bbox[1], bbox[2], bbox[3]
	coords := [][][]float64{{
		{west, south},
		{east, south},
		{east, north},
		{west, north},
		{west, south},
	}}

	coordsJSON, err := json.Marshal(coords)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal polygon coordinates: %w", err)
	}

	return &Geometry{
		Type:        "Polygon",
		Coordinates: coordsJSON,
	}, nil
}

// formatFloat formats a float64 without unnecessary decimals.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
