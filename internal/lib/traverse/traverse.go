// Package traverse generates boustrophedon ("lawnmower") survey paths that
// cover a polygon with parallel, alternating scan legs.
package traverse

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/radar-mms/ccl/internal/lib/argerr"
	"github.com/radar-mms/ccl/internal/lib/geo"
)

const (
	// MinSpacing is the smallest accepted scan-line spacing in meters
	MinSpacing = 0.5

	// boundingMargin extends candidate lines past the polygon's bounding box
	// so that any rotation still crosses the whole polygon
	boundingMargin = 2000.0

	// directionTolerance is the angle in degrees within which two transects
	// count as running the same way
	directionTolerance = 1.0
)

// ErrInvalidArgument is returned for rejected build parameters
var ErrInvalidArgument = argerr.ErrInvalidArgument

// Options groups the scan parameters of a traverse
type Options struct {
	// Angle is the scan-line heading in degrees east of north
	Angle float64 `json:"angle"`
	// Spacing is the distance between neighbouring scan lines in meters
	Spacing float64 `json:"spacing"`
	// TurnAround extends both ends of every leg by this many meters
	TurnAround float64 `json:"turn_around"`
	// Entry is the corner where the path begins
	Entry EntryCorner `json:"entry"`
}

// DefaultOptions returns north-south legs 30 m apart entered top-left
func DefaultOptions() Options {
	return Options{Spacing: 30, Entry: TopLeft}
}

// Validate rejects spacings below MinSpacing and unknown entry corners
func (o Options) Validate() error {
	if !(o.Spacing >= MinSpacing) {
		return argerr.New("spacing", "must be at least %.1f meters, got %g", MinSpacing, o.Spacing)
	}
	if !o.Entry.Valid() {
		return argerr.New("entry", "unknown entry corner %d", int(o.Entry))
	}
	if math.IsNaN(o.Angle) || math.IsInf(o.Angle, 0) {
		return argerr.New("angle", "must be finite, got %g", o.Angle)
	}
	if math.IsNaN(o.TurnAround) || math.IsInf(o.TurnAround, 0) {
		return argerr.New("turn_around", "must be finite, got %g", o.TurnAround)
	}
	return nil
}

// Build generates a survey path over polygon. See BuildWithOptions.
func Build(polygon geo.Polygon, angle, spacing, turnAround float64, entry EntryCorner) (geo.Path, error) {
	return BuildWithOptions(polygon, Options{
		Angle:      angle,
		Spacing:    spacing,
		TurnAround: turnAround,
		Entry:      entry,
	})
}

// BuildWithOptions generates a survey path over polygon. An empty polygon
// gives an empty path and fewer than three vertices give the direct path
// from the first vertex to the last. Otherwise the path holds two points per
// transect, alternating direction leg by leg. Points added by a turnaround
// extension carry an unconstrained altitude.
func BuildWithOptions(polygon geo.Polygon, opts Options) (geo.Path, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if len(polygon) == 0 {
		return geo.Path{}, nil
	}
	if len(polygon) < 3 {
		return geo.Path{polygon[0], polygon[len(polygon)-1]}, nil
	}

	origin := polygon[0]
	points := project(polygon, origin)
	lines := buildTransectLines(points, clampGridAngle(opts.Angle), opts.Spacing)

	transects := make([]transect, len(lines))
	for i, l := range lines {
		transects[i] = transect{{Point: l.p1}, {Point: l.p2}}
	}

	adjustTransects(transects, opts.Entry)
	alternate(transects)
	if opts.TurnAround != 0 {
		for _, t := range transects {
			t.extend(opts.TurnAround)
		}
	}

	return unproject(transects, origin), nil
}

// vertex is a transect point in the plane. free marks an altitude that is
// left unconstrained.
type vertex struct {
	r2.Point
	free bool
}

// transect is one scan leg
type transect []vertex

// extend pushes the first and last points outwards along the leg direction
func (t transect) extend(distance float64) {
	if len(t) < 2 {
		return
	}
	first, last := &t[0], &t[len(t)-1]
	dir := last.Point.Sub(first.Point).Normalize()

	first.Point = first.Point.Sub(dir.Mul(distance))
	first.free = true
	last.Point = last.Point.Add(dir.Mul(distance))
	last.free = true
}

// project maps polygon vertices onto the tangent plane at origin with
// x = east and y = north. The origin vertex lands on (0, 0) exactly.
func project(polygon geo.Polygon, origin geo.Coordinate) []r2.Point {
	points := make([]r2.Point, len(polygon))
	for i, v := range polygon {
		if i == 0 {
			continue
		}
		ned := geo.GeoToNED(v, origin)
		points[i] = r2.Point{X: ned.East, Y: ned.North}
	}
	return points
}

func unproject(transects []transect, origin geo.Coordinate) geo.Path {
	path := make(geo.Path, 0, 2*len(transects))
	for _, t := range transects {
		for _, v := range t {
			c := geo.NEDToGeo(geo.NEDPoint{North: v.Y, East: v.X}, origin)
			if v.free {
				c = c.WithoutAltitude()
			}
			path = append(path, c)
		}
	}
	return path
}

// buildTransectLines lays a grid of parallel lines at angle over the
// polygon's bounding box and clips it to the polygon. When fewer than two
// lines survive, a single line through the center of the bounding box is
// used instead. The returned lines all run in the same direction.
func buildTransectLines(points []r2.Point, angle, spacing float64) []line {
	bounds := r2.RectFromPoints(points...)
	center := bounds.Center()
	size := bounds.Size()

	maxWidth := math.Max(size.X, size.Y) + boundingMargin
	halfWidth := maxWidth / 2

	var candidates []line
	top := center.Y - halfWidth
	bottom := center.Y + halfWidth
	for x, xMax := center.X-halfWidth, center.X+halfWidth; x < xMax; x += spacing {
		candidates = append(candidates, line{
			p1: rotatePoint(r2.Point{X: x, Y: top}, center, angle),
			p2: rotatePoint(r2.Point{X: x, Y: bottom}, center, angle),
		})
	}

	edges := closedRing(points)
	clipped := intersectLines(candidates, edges)

	if len(clipped) < 2 && len(candidates) > 0 {
		first := candidates[0]
		centered := first.translate(center.Sub(first.midpoint()))
		clipped = intersectLines([]line{centered}, edges)
	}

	return adjustLineDirections(clipped)
}

// adjustTransects reorders transects so the path starts at the entry corner
func adjustTransects(transects []transect, entry EntryCorner) {
	if entry.reversesPoints() {
		reverseInternalTransectPoints(transects)
	}
	if entry.reversesOrder() {
		reverseTransectOrder(transects)
	}
}

func reverseInternalTransectPoints(transects []transect) {
	for _, t := range transects {
		for i, j := 0, len(t)-1; i < j; i, j = i+1, j-1 {
			t[i], t[j] = t[j], t[i]
		}
	}
}

func reverseTransectOrder(transects []transect) {
	for i, j := 0, len(transects)-1; i < j; i, j = i+1, j-1 {
		transects[i], transects[j] = transects[j], transects[i]
	}
}

// alternate reverses every other transect starting with the second, so each
// leg begins where the previous one ended
func alternate(transects []transect) {
	for i := 1; i < len(transects); i += 2 {
		reverseInternalTransectPoints(transects[i : i+1])
	}
}
