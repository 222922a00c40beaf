package translate

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/robert-malhotra/intara-search-proxy/pkg/geojson"
)

func TestBBoxFragment(t *testing.T) {
	tests := []struct {
		name        string
		bbox        []float64
		expected    string
		expectError bool
	}{
		{
			name:     "integral coordinates",
			bbox:     []float64{10, 20, 30, 40},
			expected: "_within((40, 10),(20, 30))",
		},
		{
			name:     "fractional coordinates",
			bbox:     []float64{-122.5, 37.25, -121, 38},
			expected: "_within((38, -122.5),(37.25, -121))",
		},
		{
			name:     "whole world",
			bbox:     []float64{-180, -90, 180, 90},
			expected: "_within((90, -180),(-90, 180))",
		},
		{
			name:        "too few values",
			bbox:        []float64{10, 20, 30},
			expectError: true,
		},
		{
			name:        "too many values",
			bbox:        []float64{10, 20, 30, 40, 50, 60},
			expectError: true,
		},
		{
			name:        "empty",
			bbox:        nil,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := BBoxFragment(tt.bbox)

			if tt.expectError {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				if !errors.Is(err, ErrInvalidGeometry) {
					t.Errorf("Expected ErrInvalidGeometry, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, result)
			}
		})
	}
}

func TestGeometryFragment_Polygon(t *testing.T) {
	geom := &geojson.Geometry{
		Type:        "Polygon",
		Coordinates: json.RawMessage(`[[[10, 20], [30, 20], [30, 40], [10, 40], [10, 20]]]`),
	}

	result, err := GeometryFragment(geom)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := "_within((10, 20), (30, 20), (30, 40), (10, 40), (10, 20))"
	if result != expected {
		t.Errorf("Expected %s, got %s", expected, result)
	}
}

func TestGeometryFragment_PolygonWithHole(t *testing.T) {
	// Only the exterior ring contributes to the predicate.
	geom := &geojson.Geometry{
		Type:        "Polygon",
		Coordinates: json.RawMessage(`[[[0, 0], [10, 0], [10, 10], [0, 10], [0, 0]], [[2, 2], [4, 2], [4, 4], [2, 4], [2, 2]]]`),
	}

	result, err := GeometryFragment(geom)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := "_within((0, 0), (10, 0), (10, 10), (0, 10), (0, 0))"
	if result != expected {
		t.Errorf("Expected %s, got %s", expected, result)
	}
}

func TestGeometryFragment_PointUsesEnvelope(t *testing.T) {
	geom := &geojson.Geometry{
		Type:        "Point",
		Coordinates: json.RawMessage(`[10, 20]`),
	}

	result, err := GeometryFragment(geom)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := "_within((10, 20), (10, 20), (10, 20), (10, 20), (10, 20))"
	if result != expected {
		t.Errorf("Expected %s, got %s", expected, result)
	}
}

func TestGeometryFragment_LineStringUsesEnvelope(t *testing.T) {
	geom := &geojson.Geometry{
		Type:        "LineString",
		Coordinates: json.RawMessage(`[[10, 20], [30, 40]]`),
	}

	result, err := GeometryFragment(geom)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := "_within((10, 20), (30, 20), (30, 40), (10, 40), (10, 20))"
	if result != expected {
		t.Errorf("Expected %s, got %s", expected, result)
	}
}

func TestGeometryFragment_Errors(t *testing.T) {
	tests := []struct {
		name string
		geom *geojson.Geometry
	}{
		{
			name: "nil geometry",
			geom: nil,
		},
		{
			name: "unsupported type",
			geom: &geojson.Geometry{
				Type:        "GeometryCollection",
				Coordinates: json.RawMessage(`[]`),
			},
		},
		{
			name: "polygon without rings",
			geom: &geojson.Geometry{
				Type:        "Polygon",
				Coordinates: json.RawMessage(`[]`),
			},
		},
		{
			name: "polygon with empty exterior ring",
			geom: &geojson.Geometry{
				Type:        "Polygon",
				Coordinates: json.RawMessage(`[[]]`),
			},
		},
		{
			name: "ring position missing latitude",
			geom: &geojson.Geometry{
				Type:        "Polygon",
				Coordinates: json.RawMessage(`[[[10, 20], [30]]]`),
			},
		},
		{
			name: "malformed coordinates",
			geom: &geojson.Geometry{
				Type:        "Polygon",
				Coordinates: json.RawMessage(`"not coordinates"`),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GeometryFragment(tt.geom)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidGeometry) {
				t.Errorf("Expected ErrInvalidGeometry, got %v", err)
			}
		})
	}
}
