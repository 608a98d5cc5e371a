// Package orthodrom samples great-circle arcs between two geographic points.
package orthodrom

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"

	"github.com/radar-mms/ccl/internal/lib/geo"
)

// DefaultSpacingKm is the sampling step used when an Orthodrom is created
const DefaultSpacingKm = 10

// kmPerDegree converts degrees of arc to kilometers: 60 nautical miles of
// 1.853 km each
const kmPerDegree = 60 * 1.853

// meridianTolerance bounds |sin(dlon)| below which both endpoints count as
// lying on one meridian circle. sin(180°) evaluates to about 1.2e-16.
const meridianTolerance = 1e-9

const (
	degToRad = math.Pi / 180
	radToDeg = 180 / math.Pi
)

// Orthodrom is the great-circle arc between two coordinates together with
// its most recent sampling. It is not safe for concurrent mutation.
type Orthodrom struct {
	first, second geo.Coordinate
	a1, a2        float64
	path          geo.Path
}

// New creates the arc from first to second and samples it at DefaultSpacingKm
func New(first, second geo.Coordinate) *Orthodrom {
	o := &Orthodrom{}
	o.Set(first, second)
	return o
}

// Set replaces both endpoints, recomputes the shape coefficients and
// resamples at DefaultSpacingKm
func (o *Orthodrom) Set(first, second geo.Coordinate) {
	o.first = first
	o.second = second
	o.path = nil

	// Endpoints on one meridian circle (a longitude gap of 0 or 180 degrees)
	// leave the latitude-of-longitude form undefined
	sinDLon := math.Sin((second.Longitude - first.Longitude) * degToRad)
	if math.Abs(sinDLon) < meridianTolerance {
		o.a1, o.a2 = math.NaN(), math.NaN()
	} else {
		o.a1 = math.Tan(first.Latitude*degToRad) / sinDLon
		o.a2 = math.Tan(second.Latitude*degToRad) / sinDLon
	}

	o.Sample(DefaultSpacingKm)
}

// First returns the starting endpoint
func (o *Orthodrom) First() geo.Coordinate { return o.first }

// Second returns the final endpoint
func (o *Orthodrom) Second() geo.Coordinate { return o.second }

// Coefficients returns the shape coefficients tan(lat1)/sin(dlon) and
// tan(lat2)/sin(dlon). Both are NaN for a degenerate arc.
func (o *Orthodrom) Coefficients() (a1, a2 float64) {
	return o.a1, o.a2
}

// Degenerate reports whether both endpoints lie on one meridian circle,
// either the same meridian or opposite ones
func (o *Orthodrom) Degenerate() bool {
	return math.IsNaN(o.a1) || math.IsNaN(o.a2)
}

// LatitudeAt returns the latitude in degrees at which the great circle
// crosses longitude:
//
//	tan(lat) = (tan(lat1)·sin(lon2−lon) + tan(lat2)·sin(lon−lon1)) / sin(lon2−lon1)
func (o *Orthodrom) LatitudeAt(longitude float64) float64 {
	angle := math.Atan(o.a2*math.Sin((longitude-o.first.Longitude)*degToRad) +
		o.a1*math.Sin((o.second.Longitude-longitude)*degToRad))
	return angle * radToDeg
}

// Distance returns the great-circle distance between the endpoints in
// kilometers using the spherical law of cosines
func (o *Orthodrom) Distance() float64 {
	lat1 := o.first.Latitude * degToRad
	lat2 := o.second.Latitude * degToRad
	cosC := math.Sin(lat1)*math.Sin(lat2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Cos((o.second.Longitude-o.first.Longitude)*degToRad)

	return math.Acos(math.Max(-1, math.Min(1, cosC))) * radToDeg * kmPerDegree
}

// Sample discretizes the arc with spacingKm between consecutive points and
// returns the result in route order. Each interior point takes its longitude
// from great-circle stepping and its latitude from LatitudeAt, so it lies on
// the arc exactly. Degenerate arcs and non-positive spacings leave the
// previous sampling untouched.
func (o *Orthodrom) Sample(spacingKm float64) geo.Path {
	if o.Degenerate() || !(spacingKm > 0) {
		return o.Path()
	}

	a := s2.PointFromLatLng(s2.LatLngFromDegrees(o.first.Latitude, o.first.Longitude))
	b := s2.PointFromLatLng(s2.LatLngFromDegrees(o.second.Latitude, o.second.Longitude))

	// Walk from the far endpoint back towards the first one
	walk := geo.Path{o.second}
	for d := o.Distance() - spacingKm; d > 0; d -= spacingKm {
		step := s1.Angle(d/kmPerDegree) * s1.Degree
		ll := s2.LatLngFromPoint(s2.InterpolateAtDistance(step, a, b))
		lon := ll.Lng.Degrees()
		walk = append(walk, geo.NewCoordinate(o.LatitudeAt(lon), lon))
	}
	walk = append(walk, o.first)

	path := make(geo.Path, len(walk))
	for i, c := range walk {
		path[len(walk)-1-i] = c
	}
	o.path = path
	return o.Path()
}

// Path returns a copy of the sampled polyline, or just the two endpoints
// for a degenerate arc
func (o *Orthodrom) Path() geo.Path {
	if o.Degenerate() || len(o.path) == 0 {
		return geo.Path{o.first, o.second}
	}
	out := make(geo.Path, len(o.path))
	copy(out, o.path)
	return out
}
