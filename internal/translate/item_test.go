package translate

import (
	"testing"
	"time"

	"github.com/robert-malhotra/intara-search-proxy/pkg/geojson"
)

func TestRecordToItem_NilRecord(t *testing.T) {
	_, err := RecordToItem(nil, "military-groups")
	if err == nil {
		t.Fatal("Expected error for nil record, got nil")
	}
}

func TestRecordToItem_MissingID(t *testing.T) {
	record := &Record{
		Geometry:   geojson.NewPoint(-77.1326, 38.7946),
		Properties: map[string]any{"name": "1st Fighter Wing"},
	}

	_, err := RecordToItem(record, "military-groups")
	if err == nil {
		t.Fatal("Expected error for missing ID, got nil")
	}
}

func TestRecordToItem_Basic(t *testing.T) {
	datetime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	record := &Record{
		ID:       "military-groups/5001234",
		Geometry: geojson.NewPoint(-77.1326, 38.7946),
		Datetime: &datetime,
		Properties: map[string]any{
			"name":             "1st Fighter Wing",
			"lastModifiedDate": "2024-03-05T10:20:30Z",
		},
	}

	item, err := RecordToItem(record, "military-groups")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if item.Id != "military-groups/5001234" {
		t.Errorf("Expected ID military-groups/5001234, got %s", item.Id)
	}
	if item.Collection != "military-groups" {
		t.Errorf("Expected collection military-groups, got %s", item.Collection)
	}
	if item.Version != StacVersion {
		t.Errorf("Expected version %s, got %s", StacVersion, item.Version)
	}

	// Check geometry carries through and the bbox is computed from it
	if item.Geometry == nil {
		t.Error("Expected geometry to be set")
	}
	expectedBbox := []float64{-77.1326, 38.7946, -77.1326, 38.7946}
	if len(item.Bbox) != 4 {
		t.Fatalf("Expected 4 bbox values, got %d", len(item.Bbox))
	}
	for i, v := range expectedBbox {
		if item.Bbox[i] != v {
			t.Errorf("Expected bbox[%d] %v, got %v", i, v, item.Bbox[i])
		}
	}

	if item.Properties["name"] != "1st Fighter Wing" {
		t.Errorf("Expected name 1st Fighter Wing, got %v", item.Properties["name"])
	}
	if item.Properties["lastModifiedDate"] != "2024-03-05T10:20:30Z" {
		t.Errorf("Expected lastModifiedDate 2024-03-05T10:20:30Z, got %v", item.Properties["lastModifiedDate"])
	}
	if item.Properties["datetime"] != "2024-01-01T00:00:00Z" {
		t.Errorf("Expected datetime 2024-01-01T00:00:00Z, got %v", item.Properties["datetime"])
	}
}

func TestRecordToItem_NoTimestamp(t *testing.T) {
	record := &Record{
		ID:         "military-groups/5001234",
		Geometry:   geojson.NewPoint(0, 0),
		Properties: map[string]any{},
	}

	item, err := RecordToItem(record, "military-groups")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// The datetime property must be present and explicitly null
	value, ok := item.Properties["datetime"]
	if !ok {
		t.Fatal("Expected datetime property to be present")
	}
	if value != nil {
		t.Errorf("Expected null datetime, got %v", value)
	}
}

func TestItemsFromRecords_SkipsUnaddressableRecords(t *testing.T) {
	translator := createTestTranslator()

	records := []Record{
		{
			ID:         "military-groups/5001234",
			Geometry:   geojson.NewPoint(-77.1326, 38.7946),
			Properties: map[string]any{"name": "1st Fighter Wing"},
		},
		{
			// No id: cannot become an item, skipped rather than failing the batch
			Geometry:   geojson.NewPoint(0, 0),
			Properties: map[string]any{"name": "unnamed"},
		},
	}

	items := translator.ItemsFromRecords(records, "military-groups")
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}
	if items[0].Id != "military-groups/5001234" {
		t.Errorf("Expected ID military-groups/5001234, got %s", items[0].Id)
	}
}
