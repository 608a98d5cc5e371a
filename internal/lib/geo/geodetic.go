package geo

import "math"

// EarthRadius is the spherical earth radius in meters used by the NED frame
const EarthRadius = 6371000.0

const (
	degToRad = math.Pi / 180.0
	radToDeg = 180.0 / math.Pi
	epsilon  = 2.220446049250313e-16
)

// GeoToNED projects coord onto the tangent plane anchored at origin using the
// spherical law of cosines. Projecting the origin itself yields the zero vector.
func GeoToNED(coord, origin Coordinate) NEDPoint {
	if coord.Equal(origin) {
		return NEDPoint{}
	}

	latRad := coord.Latitude * degToRad
	dLonRad := (coord.Longitude - origin.Longitude) * degToRad
	refLatRad := origin.Latitude * degToRad

	sinLat := math.Sin(latRad)
	cosLat := math.Cos(latRad)
	cosDLon := math.Cos(dLonRad)
	refSinLat := math.Sin(refLatRad)
	refCosLat := math.Cos(refLatRad)

	arg := refSinLat*sinLat + refCosLat*cosLat*cosDLon
	c := math.Acos(math.Max(-1, math.Min(1, arg)))

	k := 1.0
	if math.Abs(c) >= epsilon {
		k = c / math.Sin(c)
	}

	return NEDPoint{
		North: k * (refCosLat*sinLat - refSinLat*cosLat*cosDLon) * EarthRadius,
		East:  k * cosLat * math.Sin(dLonRad) * EarthRadius,
		Down:  -(coord.Altitude - origin.Altitude),
	}
}

// NEDToGeo is the inverse of GeoToNED. Offsets too small to resolve map back
// onto the origin's latitude and longitude.
func NEDToGeo(ned NEDPoint, origin Coordinate) Coordinate {
	x := ned.North / EarthRadius
	y := ned.East / EarthRadius
	c := math.Hypot(x, y)

	refLatRad := origin.Latitude * degToRad
	refSinLat := math.Sin(refLatRad)
	refCosLat := math.Cos(refLatRad)

	latRad := refLatRad
	lonRad := origin.Longitude * degToRad

	if math.Abs(c) > epsilon {
		sinC := math.Sin(c)
		cosC := math.Cos(c)
		latRad = math.Asin(cosC*refSinLat + (x*sinC*refCosLat)/c)
		lonRad = origin.Longitude*degToRad +
			math.Atan2(y*sinC, c*refCosLat*cosC-x*refSinLat*sinC)
	}

	return Coordinate{
		Latitude:  latRad * radToDeg,
		Longitude: lonRad * radToDeg,
		Altitude:  origin.Altitude - ned.Down,
	}
}

// Distance calculates great-circle distance between two coordinates in meters
// using the haversine formula
func Distance(a, b Coordinate) float64 {
	if a.Latitude == b.Latitude && a.Longitude == b.Longitude {
		return 0
	}

	lat1 := a.Latitude * degToRad
	lat2 := b.Latitude * degToRad
	dlat := lat2 - lat1
	dlon := (b.Longitude - a.Longitude) * degToRad

	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	return EarthRadius * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
