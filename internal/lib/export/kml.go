// Package export renders survey plans for external tools.
package export

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/twpayne/go-kml"

	"github.com/radar-mms/ccl/internal/lib/geo"
)

var (
	areaColor = color.RGBA{R: 0, G: 160, B: 255, A: 96}
	pathColor = color.RGBA{R: 255, G: 128, B: 0, A: 255}
)

// WriteKML writes a KML document holding the survey polygon and the flight
// path. Either may be empty and is then left out.
func WriteKML(w io.Writer, name string, polygon geo.Polygon, path geo.Path) error {
	doc := kml.Document(
		kml.Name(name),
		kml.SharedStyle("area",
			kml.LineStyle(kml.Color(areaColor), kml.Width(1)),
			kml.PolyStyle(kml.Color(areaColor)),
		),
		kml.SharedStyle("path",
			kml.LineStyle(kml.Color(pathColor), kml.Width(3)),
		),
	)

	if len(polygon) > 0 {
		ring := append(coordinates(polygon.Path()), coordinates(geo.Path{polygon[0]})...)
		doc.Add(kml.Placemark(
			kml.Name("area"),
			kml.StyleURL("#area"),
			kml.Polygon(
				kml.OuterBoundaryIs(
					kml.LinearRing(kml.Coordinates(ring...)),
				),
			),
		))
	}

	if len(path) > 0 {
		doc.Add(kml.Placemark(
			kml.Name("path"),
			kml.Description(fmt.Sprintf("%d points, %.0f m", len(path), path.Length())),
			kml.StyleURL("#path"),
			kml.LineString(
				kml.Tessellate(true),
				kml.Coordinates(coordinates(path)...),
			),
		))
	}

	if err := kml.KML(doc).WriteIndent(w, "", "  "); err != nil {
		return fmt.Errorf("failed to write kml: %w", err)
	}
	return nil
}

// coordinates converts a path to KML tuples. Unconstrained altitudes are
// written as zero.
func coordinates(path geo.Path) []kml.Coordinate {
	out := make([]kml.Coordinate, len(path))
	for i, c := range path {
		alt := c.Altitude
		if math.IsNaN(alt) {
			alt = 0
		}
		out[i] = kml.Coordinate{Lon: c.Longitude, Lat: c.Latitude, Alt: alt}
	}
	return out
}

// EncodePolyline returns path as a Google encoded polyline
func EncodePolyline(path geo.Path) string {
	return geo.EncodePath(path)
}
