package geojson_test

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/robert-malhotra/intara-search-proxy/pkg/geojson"
)

func ExampleNewPoint() {
	g := geojson.NewPoint(-77.1326, 38.7946)

	point, err := g.Point()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Type: %s\n", g.Type)
	fmt.Printf("Longitude: %g, Latitude: %g\n", point[0], point[1])
	// Output: Type: Point
	// Longitude: -77.1326, Latitude: 38.7946
}

func ExampleGeometry_BBox() {
	// A query area covering Europe.
	coords := [][][]float64{
		{{-10, 35}, {40, 35}, {40, 70}, {-10, 70}, {-10, 35}},
	}
	coordsJSON, _ := json.Marshal(coords)

	g := &geojson.Geometry{
		Type:        "Polygon",
		Coordinates: coordsJSON,
	}

	bbox, err := g.BBox()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("BBox: [%g, %g, %g, %g]\n", bbox[0], bbox[1], bbox[2], bbox[3])
	// Output: BBox: [-10, 35, 40, 70]
}

func ExampleGeometry_ExteriorRing() {
	coords := [][][]float64{
		{{-10, 35}, {40, 35}, {40, 70}, {-10, 70}, {-10, 35}},
	}
	coordsJSON, _ := json.Marshal(coords)

	g := &geojson.Geometry{
		Type:        "Polygon",
		Coordinates: coordsJSON,
	}

	ring, err := g.ExteriorRing()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Ring points: %d\n", len(ring))
	fmt.Printf("First: [%g, %g]\n", ring[0][0], ring[0][1])
	// Output: Ring points: 5
	// First: [-10, 35]
}

func ExampleNewPolygonFromBBox() {
	// Turn a bbox query parameter into an intersects geometry.
	g, err := geojson.NewPolygonFromBBox([]float64{-10, 35, 40, 70})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Type: %s\n", g.Type)

	bbox, _ := g.BBox()
	fmt.Printf("BBox: [%g, %g, %g, %g]\n", bbox[0], bbox[1], bbox[2], bbox[3])
	// Output: Type: Polygon
	// BBox: [-10, 35, 40, 70]
}

func ExampleComputeBBox() {
	// Two theaters; the bounding box must cover both.
	coords := [][][][]float64{
		{
			{{-10, 35}, {40, 35}, {40, 70}, {-10, 70}, {-10, 35}},
		},
		{
			{{45, 22}, {57, 22}, {57, 30}, {45, 30}, {45, 22}},
		},
	}
	coordsJSON, _ := json.Marshal(coords)

	g := &geojson.Geometry{
		Type:        "MultiPolygon",
		Coordinates: coordsJSON,
	}

	bbox, err := geojson.ComputeBBox(g)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("BBox: [%g, %g, %g, %g]\n", bbox[0], bbox[1], bbox[2], bbox[3])
	// Output: BBox: [-10, 22, 57, 70]
}
