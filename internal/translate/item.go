package translate

import (
	"fmt"
	"time"

	"github.com/planetlabs/go-stac"
	"github.com/robert-malhotra/intara-search-proxy/pkg/geojson"
)

// StacVersion is the STAC version stamped on outgoing items.
const StacVersion = "1.0.0"

// RecordToItem converts a normalized record to a STAC item tagged with the
// component it came from. Records without an id cannot be addressed and are
// rejected.
func RecordToItem(record *Record, componentID string) (*stac.Item, error) {
	if record == nil {
		return nil, fmt.Errorf("record is nil")
	}
	if record.ID == "" {
		return nil, fmt.Errorf("record has no id")
	}

	item := &stac.Item{
		Version:    StacVersion,
		Id:         record.ID,
		Collection: componentID,
		Properties: make(map[string]any, len(record.Properties)+1),
		Assets:     make(map[string]*stac.Asset),
		Links:      make([]*stac.Link, 0),
	}

	if record.Geometry != nil {
		item.Geometry = record.Geometry
		if bbox, err := geojson.ComputeBBox(record.Geometry); err == nil {
			item.Bbox = bbox
		}
	}

	for key, value := range record.Properties {
		item.Properties[key] = value
	}

	// STAC items carry their timestamp in properties; null means the record
	// had no usable timestamp.
	if record.Datetime != nil {
		item.Properties["datetime"] = record.Datetime.UTC().Format(time.RFC3339)
	} else {
		item.Properties["datetime"] = nil
	}

	return item, nil
}
