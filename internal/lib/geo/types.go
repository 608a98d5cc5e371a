package geo

import (
	"encoding/json"
	"math"
)

// Coordinate represents a geographic position in degrees with an optional
// altitude in meters. A NaN altitude means the altitude is unconstrained.
type Coordinate struct {
	Latitude  float64
	Longitude float64
	Altitude  float64
}

// NewCoordinate creates a Coordinate without an altitude constraint
func NewCoordinate(latitude, longitude float64) Coordinate {
	return Coordinate{Latitude: latitude, Longitude: longitude, Altitude: math.NaN()}
}

// NewCoordinate3D creates a Coordinate with an altitude in meters
func NewCoordinate3D(latitude, longitude, altitude float64) Coordinate {
	return Coordinate{Latitude: latitude, Longitude: longitude, Altitude: altitude}
}

// HasAltitude reports whether the altitude is defined
func (c Coordinate) HasAltitude() bool {
	return !math.IsNaN(c.Altitude)
}

// WithoutAltitude returns a copy of c with the altitude marked as unconstrained
func (c Coordinate) WithoutAltitude() Coordinate {
	c.Altitude = math.NaN()
	return c
}

// Equal compares coordinates by exact value. Two undefined altitudes are equal.
func (c Coordinate) Equal(o Coordinate) bool {
	if c.Latitude != o.Latitude || c.Longitude != o.Longitude {
		return false
	}
	if !c.HasAltitude() || !o.HasAltitude() {
		return c.HasAltitude() == o.HasAltitude()
	}
	return c.Altitude == o.Altitude
}

// IsValid reports whether latitude is within [-90, 90] and longitude within [-180, 180]
func (c Coordinate) IsValid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

type coordinateJSON struct {
	Latitude  float64  `json:"lat"`
	Longitude float64  `json:"lon"`
	Altitude  *float64 `json:"alt,omitempty"`
}

// MarshalJSON omits the altitude when it is unconstrained
func (c Coordinate) MarshalJSON() ([]byte, error) {
	out := coordinateJSON{Latitude: c.Latitude, Longitude: c.Longitude}
	if c.HasAltitude() {
		alt := c.Altitude
		out.Altitude = &alt
	}
	return json.Marshal(out)
}

// UnmarshalJSON treats a missing altitude as unconstrained
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var in coordinateJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*c = NewCoordinate(in.Latitude, in.Longitude)
	if in.Altitude != nil {
		c.Altitude = *in.Altitude
	}
	return nil
}

// NEDPoint is a North-East-Down offset in meters from an origin coordinate.
// It is only meaningful together with the origin used to produce it.
type NEDPoint struct {
	North float64 `json:"north"`
	East  float64 `json:"east"`
	Down  float64 `json:"down"`
}

// IsZero reports whether all three offsets are exactly zero
func (p NEDPoint) IsZero() bool {
	return p.North == 0 && p.East == 0 && p.Down == 0
}

// Path is an ordered route of coordinates
type Path []Coordinate

// Length returns the sum of great-circle leg distances in meters
func (p Path) Length() float64 {
	var total float64
	for i := 1; i < len(p); i++ {
		total += Distance(p[i-1], p[i])
	}
	return total
}

// Equal reports whether both paths hold equal coordinates in the same order
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if !p[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// Polygon is an open ring of vertices in boundary order. The first vertex
// is not repeated at the end.
type Polygon []Coordinate

// Path returns the polygon vertices as a path in boundary order
func (p Polygon) Path() Path {
	return Path(p)
}
