package aoi

import (
	"fmt"

	"github.com/jonas-p/go-shp"

	"github.com/radar-mms/ccl/internal/lib/geo"
)

// LoadShapefile returns the first part of the first polygon shape in the
// shapefile at path. Shapefile coordinates must already be WGS84 degrees.
func LoadShapefile(path string) (geo.Polygon, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open shapefile: %w", err)
	}
	defer reader.Close()

	for reader.Next() {
		_, shape := reader.Shape()

		var parts []int32
		var points []shp.Point
		switch s := shape.(type) {
		case *shp.Polygon:
			parts, points = s.Parts, s.Points
		case *shp.PolygonZ:
			parts, points = s.Parts, s.Points
		case *shp.PolygonM:
			parts, points = s.Parts, s.Points
		default:
			continue
		}

		if ring := firstPart(parts, points); len(ring) > 0 {
			return validate(openRing(ring))
		}
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("failed to read shapefile: %w", err)
	}
	return nil, ErrNoPolygon
}

func firstPart(parts []int32, points []shp.Point) [][2]float64 {
	end := len(points)
	if len(parts) > 1 && int(parts[1]) <= end {
		end = int(parts[1])
	}
	start := 0
	if len(parts) > 0 {
		start = int(parts[0])
	}
	if start >= end {
		return nil
	}

	ring := make([][2]float64, 0, end-start)
	for _, p := range points[start:end] {
		ring = append(ring, [2]float64{p.X, p.Y})
	}
	return ring
}
