package traverse

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/radar-mms/ccl/internal/lib/geo"
)

// Stats summarizes a generated traverse
type Stats struct {
	Transects        int     `json:"transects"`
	PathLengthMeters float64 `json:"path_length_m"`
	AreaSquareMeters float64 `json:"area_m2"`
}

// Summarize reports the transect count and flown length of path together
// with the area of polygon measured in its local tangent plane
func Summarize(polygon geo.Polygon, path geo.Path) Stats {
	return Stats{
		Transects:        len(path) / 2,
		PathLengthMeters: path.Length(),
		AreaSquareMeters: Area(polygon),
	}
}

// Area returns the planar area of polygon in square meters, projected around
// its first vertex. Polygons with fewer than three vertices have no area.
func Area(polygon geo.Polygon) float64 {
	if len(polygon) < 3 {
		return 0
	}

	points := project(polygon, polygon[0])
	ring := make(orb.Ring, 0, len(points)+1)
	for _, p := range points {
		ring = append(ring, orb.Point{p.X, p.Y})
	}
	ring = append(ring, ring[0])

	return math.Abs(planar.Area(orb.Polygon{ring}))
}
