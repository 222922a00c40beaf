package translate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robert-malhotra/intara-search-proxy/pkg/geojson"
)

// BBoxFragment converts a [west, south, east, north] bbox to the upstream's
// spatial predicate. The upstream orders corners as (lat, lon) pairs,
// north-west corner first, then south-east.
func BBoxFragment(bbox []float64) (string, error) {
	if len(bbox) != 4 {
		return "", fmt.Errorf("%w: bbox must have 4 values [west, south, east, north], got %d", ErrInvalidGeometry, len(bbox))
	}

	return "_within(" + coordPair(bbox[3], bbox[0]) + "," + coordPair(bbox[1], bbox[2]) + ")", nil
}

// GeometryFragment converts an intersects geometry to the upstream's spatial
// predicate by enumerating ring coordinates as (lon, lat) pairs. Polygons
// contribute their exterior ring; any other geometry contributes the ring of
// its bounding envelope.
func GeometryFragment(g *geojson.Geometry) (string, error) {
	if g == nil {
		return "", fmt.Errorf("%w: geometry is nil", ErrInvalidGeometry)
	}

	ring, err := fragmentRing(g)
	if err != nil {
		return "", err
	}
	if len(ring) == 0 {
		return "", fmt.Errorf("%w: geometry has no coordinates", ErrInvalidGeometry)
	}

	pairs := make([]string, 0, len(ring))
	for _, position := range ring {
		if len(position) < 2 {
			return "", fmt.Errorf("%w: ring position must carry lon and lat", ErrInvalidGeometry)
		}
		pairs = append(pairs, coordPair(position[0], position[1]))
	}

	return "_within(" + strings.Join(pairs, ", ") + ")", nil
}

// fragmentRing picks the coordinate ring a geometry contributes to the
// spatial predicate.
func fragmentRing(g *geojson.Geometry) ([][]float64, error) {
	if g.Type == "Polygon" {
		ring, err := g.ExteriorRing()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
		}
		return ring, nil
	}

	bbox, err := geojson.ComputeBBox(g)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}
	envelope, err := geojson.NewPolygonFromBBox(bbox)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}
	ring, err := envelope.ExteriorRing()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}
	return ring, nil
}

// coordPair renders one "(a, b)" pair in the upstream's filter syntax.
func coordPair(a, b float64) string {
	return "(" + formatCoord(a) + ", " + formatCoord(b) + ")"
}

// formatCoord renders a coordinate in its shortest decimal form.
func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
