package traverse

import (
	"math"

	"github.com/golang/geo/r2"
)

// line is a directed segment in the planar (x = east, y = north) frame
type line struct {
	p1, p2 r2.Point
}

// angle returns the direction of the line in degrees within [0, 360),
// counter-clockwise from the +x axis
func (l line) angle() float64 {
	d := l.p2.Sub(l.p1)
	a := math.Atan2(d.Y, d.X) * 180 / math.Pi
	if a < 0 {
		a += 360
	}
	return a
}

func (l line) reversed() line {
	return line{p1: l.p2, p2: l.p1}
}

func (l line) midpoint() r2.Point {
	return l.p1.Add(l.p2).Mul(0.5)
}

func (l line) translate(offset r2.Point) line {
	return line{p1: l.p1.Add(offset), p2: l.p2.Add(offset)}
}

func (l line) length() float64 {
	return l.p2.Sub(l.p1).Norm()
}

const (
	// parallelTolerance is the sine of the crossing angle below which two
	// segments count as parallel. Projection round trips leave edges that
	// should line up with the grid skewed by about 1e-13.
	parallelTolerance = 1e-9

	// segmentSlack widens both segments' parameter range so that a crossing
	// at a polygon vertex is not lost to rounding
	segmentSlack = 1e-9
)

// intersect returns the point where segments a and b cross. Parallel and
// collinear segments never intersect; touching at an endpoint does.
func intersect(a, b line) (r2.Point, bool) {
	da := a.p2.Sub(a.p1)
	db := b.p2.Sub(b.p1)

	denom := da.Cross(db)
	if math.Abs(denom) <= parallelTolerance*da.Norm()*db.Norm() {
		return r2.Point{}, false
	}

	diff := b.p1.Sub(a.p1)
	t := diff.Cross(db) / denom
	u := diff.Cross(da) / denom
	if t < -segmentSlack || t > 1+segmentSlack || u < -segmentSlack || u > 1+segmentSlack {
		return r2.Point{}, false
	}
	return a.p1.Add(da.Mul(t)), true
}

// rotatePoint rotates point clockwise around origin by angle degrees, so that
// a northbound line turns into one heading angle degrees east of north
func rotatePoint(point, origin r2.Point, angle float64) r2.Point {
	radians := -angle * math.Pi / 180
	d := point.Sub(origin)
	return r2.Point{
		X: d.X*math.Cos(radians) - d.Y*math.Sin(radians) + origin.X,
		Y: d.X*math.Sin(radians) + d.Y*math.Cos(radians) + origin.Y,
	}
}

// clampGridAngle folds angle into (-90, 90]. Scan lines are undirected so
// the grid repeats every 180 degrees.
func clampGridAngle(angle float64) float64 {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return angle
	}
	angle = math.Mod(angle, 360)
	for angle > 90 {
		angle -= 180
	}
	for angle <= -90 {
		angle += 180
	}
	return angle
}

// closedRing returns the polygon edges, including the closing edge from the
// last vertex back to the first
func closedRing(points []r2.Point) []line {
	edges := make([]line, 0, len(points))
	for i := range points {
		edges = append(edges, line{p1: points[i], p2: points[(i+1)%len(points)]})
	}
	return edges
}

// intersectLines clips every candidate line against the polygon edges. A
// line survives when it crosses the boundary at two or more distinct points;
// its two most distant crossings become the transect, which drops grazing
// hits on vertices.
func intersectLines(lines []line, edges []line) []line {
	var result []line
	for _, l := range lines {
		var hits []r2.Point
		for _, edge := range edges {
			p, ok := intersect(l, edge)
			if !ok || containsPoint(hits, p) {
				continue
			}
			hits = append(hits, p)
		}
		if len(hits) < 2 {
			continue
		}

		best := line{p1: hits[0], p2: hits[1]}
		bestLength := best.length()
		for i := 0; i < len(hits); i++ {
			for j := i + 1; j < len(hits); j++ {
				candidate := line{p1: hits[i], p2: hits[j]}
				if length := candidate.length(); length > bestLength {
					best, bestLength = candidate, length
				}
			}
		}
		result = append(result, best)
	}
	return result
}

func containsPoint(points []r2.Point, p r2.Point) bool {
	for _, q := range points {
		if q == p {
			return true
		}
	}
	return false
}

// adjustLineDirections points every line the same way as the first one.
// Which edge a line hits first decides its raw direction, so without this
// neighbouring transects would flip arbitrarily.
func adjustLineDirections(lines []line) []line {
	result := make([]line, len(lines))
	if len(lines) == 0 {
		return result
	}

	reference := lines[0].angle()
	for i, l := range lines {
		if angleDifference(l.angle(), reference) > directionTolerance {
			l = l.reversed()
		}
		result[i] = l
	}
	return result
}

// angleDifference returns the smallest absolute difference between two
// directions in degrees
func angleDifference(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}
