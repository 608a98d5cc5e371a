package aoi

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/radar-mms/ccl/internal/lib/geo"
)

type kmlPolygon struct {
	Outer struct {
		Ring struct {
			Coordinates string `xml:"coordinates"`
		} `xml:"LinearRing"`
	} `xml:"outerBoundaryIs"`
}

// LoadKML returns the outer boundary of the first Polygon element
func LoadKML(r io.Reader) (geo.Polygon, error) {
	decoder := xml.NewDecoder(r)
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return nil, ErrNoPolygon
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse kml: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "Polygon" {
			continue
		}

		var p kmlPolygon
		if err := decoder.DecodeElement(&p, &start); err != nil {
			return nil, fmt.Errorf("failed to parse kml polygon: %w", err)
		}
		polygon, err := parseKMLCoordinates(p.Outer.Ring.Coordinates)
		if err != nil {
			return nil, err
		}
		return validate(polygon)
	}
}

// parseKMLCoordinates reads whitespace separated lon,lat[,alt] tuples
func parseKMLCoordinates(text string) (geo.Polygon, error) {
	fields := strings.Fields(text)
	polygon := make(geo.Polygon, 0, len(fields))

	for _, field := range fields {
		parts := strings.Split(field, ",")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("invalid kml coordinate %q", field)
		}

		values := make([]float64, len(parts))
		for i, part := range parts {
			v, err := strconv.ParseFloat(part, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid kml coordinate %q: %w", field, err)
			}
			values[i] = v
		}

		c := geo.NewCoordinate(values[1], values[0])
		if len(values) == 3 {
			c.Altitude = values[2]
		}
		polygon = append(polygon, c)
	}

	if n := len(polygon); n > 1 && polygon[0].Equal(polygon[n-1]) {
		polygon = polygon[:n-1]
	}
	return polygon, nil
}
