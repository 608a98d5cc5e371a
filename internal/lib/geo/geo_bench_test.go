package geo

import "testing"

func BenchmarkGeoToNED(b *testing.B) {
	origin := NewCoordinate3D(55.7558, 37.6173, 150)
	coord := NewCoordinate3D(55.8012, 37.7011, 210)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		NEDToGeo(GeoToNED(coord, origin), origin)
	}
}

func BenchmarkGeoToPixel(b *testing.B) {
	coords := []Coordinate{
		NewCoordinate(0, 0),
		NewCoordinate(MaxLatitude, 180),
		NewCoordinate(-MaxLatitude, -180),
		NewCoordinate(45.12345, -122.67890),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for z, c := range coords {
			GeoToPixel(c, uint(z*5))
		}
	}
}
