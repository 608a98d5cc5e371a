package aoi

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/radar-mms/ccl/internal/lib/geo"
)

// LoadGeoJSON returns the outer ring of the first polygon in a
// FeatureCollection, Feature or bare geometry document. MultiPolygons
// contribute their first member.
func LoadGeoJSON(r io.Reader) (geo.Polygon, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read geojson: %w", err)
	}

	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("failed to parse geojson: %w", err)
	}

	var geometries []orb.Geometry
	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse feature collection: %w", err)
		}
		for _, f := range fc.Features {
			geometries = append(geometries, f.Geometry)
		}
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse feature: %w", err)
		}
		geometries = append(geometries, f.Geometry)
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse geometry: %w", err)
		}
		geometries = append(geometries, g.Geometry())
	}

	for _, g := range geometries {
		if ring, ok := outerRing(g); ok {
			return validate(openRing(ring))
		}
	}
	return nil, ErrNoPolygon
}

func outerRing(g orb.Geometry) ([][2]float64, bool) {
	var polygon orb.Polygon
	switch v := g.(type) {
	case orb.Polygon:
		polygon = v
	case orb.MultiPolygon:
		if len(v) == 0 {
			return nil, false
		}
		polygon = v[0]
	default:
		return nil, false
	}
	if len(polygon) == 0 {
		return nil, false
	}

	ring := make([][2]float64, len(polygon[0]))
	for i, p := range polygon[0] {
		ring[i] = p
	}
	return ring, true
}
