package geo

import (
	"errors"
	"fmt"

	"github.com/twpayne/go-polyline"
)

// ErrEmptyPolyline is returned when decoding an empty encoded string
var ErrEmptyPolyline = errors.New("encoded polyline string is empty")

// EncodePath encodes a path as a Google encoded polyline. Altitudes are dropped.
func EncodePath(path Path) string {
	coords := make([][]float64, len(path))
	for i, c := range path {
		coords[i] = []float64{c.Latitude, c.Longitude}
	}
	return string(polyline.EncodeCoords(coords))
}

// DecodePath decodes a Google encoded polyline into a path with
// unconstrained altitudes
func DecodePath(encoded string) (Path, error) {
	if encoded == "" {
		return nil, ErrEmptyPolyline
	}

	coords, rest, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to decode polyline: %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("failed to decode polyline: %d trailing bytes", len(rest))
	}

	path := make(Path, len(coords))
	for i, coord := range coords {
		path[i] = NewCoordinate(coord[0], coord[1])
		if !path[i].IsValid() {
			return nil, errors.New("decoded polyline contains invalid coordinates")
		}
	}
	return path, nil
}
