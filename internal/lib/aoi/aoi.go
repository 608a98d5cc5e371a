// Package aoi loads survey areas of interest from GIS files.
package aoi

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/radar-mms/ccl/internal/lib/geo"
)

var (
	// ErrNoPolygon is returned when a file holds no usable polygon
	ErrNoPolygon = errors.New("no polygon found")

	// ErrUnsupportedFormat is returned for unknown file extensions
	ErrUnsupportedFormat = errors.New("unsupported area format")
)

// Load reads the first polygon from path, choosing the decoder by extension
func Load(path string) (geo.Polygon, error) {
	ext := strings.ToLower(filepath.Ext(path))

	if ext == ".shp" {
		return LoadShapefile(path)
	}

	var decode func(f *os.File) (geo.Polygon, error)
	switch ext {
	case ".geojson", ".json":
		decode = func(f *os.File) (geo.Polygon, error) { return LoadGeoJSON(f) }
	case ".kml":
		decode = func(f *os.File) (geo.Polygon, error) { return LoadKML(f) }
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open area file: %w", err)
	}
	defer f.Close()

	polygon, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filepath.Base(path), err)
	}
	return polygon, nil
}

// openRing converts a closed lon/lat ring to a polygon without the repeated
// closing vertex
func openRing(points [][2]float64) geo.Polygon {
	if n := len(points); n > 1 && points[0] == points[n-1] {
		points = points[:n-1]
	}
	polygon := make(geo.Polygon, len(points))
	for i, p := range points {
		polygon[i] = geo.NewCoordinate(p[1], p[0])
	}
	return polygon
}

func validate(polygon geo.Polygon) (geo.Polygon, error) {
	if len(polygon) < 3 {
		return nil, fmt.Errorf("%w: ring has %d vertices", ErrNoPolygon, len(polygon))
	}
	for i, c := range polygon {
		if !c.IsValid() {
			return nil, fmt.Errorf("vertex %d out of range: %.6f, %.6f", i, c.Latitude, c.Longitude)
		}
	}
	return polygon, nil
}
