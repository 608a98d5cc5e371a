package geo

import (
	"fmt"
	"math"
)

// MapScaleRatio is the ground resolution in meters per pixel of a 256px
// zoom 0 web-mercator tile at the equator
const MapScaleRatio = 156543.03392

// MaxLatitude is the northern limit of the web-mercator projection
const MaxLatitude = 85.05112878

// ZoomLevelForResolution returns the fractional zoom level whose ground
// resolution at latitude equals metersPerPixel. A zero metersPerPixel yields
// the resolution-independent reference zoom. NaN propagates; callers clamp
// the result to a valid integer zoom.
func ZoomLevelForResolution(latitude, metersPerPixel float64) float64 {
	scale := MapScaleRatio * math.Cos(latitude*degToRad)
	if metersPerPixel == 0 {
		return math.Log2(scale)
	}
	return math.Log2(scale / metersPerPixel)
}

// GroundResolution returns meters per pixel at latitude for an integer zoom
func GroundResolution(latitude float64, zoom uint) float64 {
	return MapScaleRatio * math.Cos(latitude*degToRad) / math.Ldexp(1, int(zoom))
}

// GeoToPixel converts coord to fractional web-mercator tile units at zoom,
// with 2^zoom tiles along each axis. The latitude must lie within the
// mercator range; it is not checked.
func GeoToPixel(coord Coordinate, zoom uint) (x, y float64) {
	n := math.Ldexp(1, int(zoom))
	x = (coord.Longitude + 180.0) / 360.0 * n
	y = (1.0 - math.Asinh(math.Tan(coord.Latitude*degToRad))/math.Pi) / 2.0 * n
	return x, y
}

// TileKey uniquely identifies a map tile
type TileKey struct {
	Zoom uint   `json:"zoom"`
	X    uint32 `json:"x"`
	Y    uint32 `json:"y"`
}

// String formats the key in the z/x/y form used by tile servers
func (k TileKey) String() string {
	return fmt.Sprintf("%d/%d/%d", k.Zoom, k.X, k.Y)
}

// LongitudeToTileX returns the tile column containing longitude at zoom
func LongitudeToTileX(longitude float64, zoom uint) uint32 {
	x, _ := GeoToPixel(Coordinate{Longitude: longitude}, zoom)
	return clampTile(x, zoom)
}

// LatitudeToTileY returns the tile row containing latitude at zoom.
// Latitudes beyond the mercator range are clamped.
func LatitudeToTileY(latitude float64, zoom uint) uint32 {
	latitude = math.Max(-MaxLatitude, math.Min(MaxLatitude, latitude))
	_, y := GeoToPixel(Coordinate{Latitude: latitude}, zoom)
	return clampTile(y, zoom)
}

// TileXToLongitude returns the western edge longitude of tile column x
func TileXToLongitude(x uint32, zoom uint) float64 {
	return float64(x)/math.Ldexp(1, int(zoom))*360.0 - 180.0
}

// TileYToLatitude returns the northern edge latitude of tile row y
func TileYToLatitude(y uint32, zoom uint) float64 {
	n := math.Pi - 2.0*math.Pi*float64(y)/math.Ldexp(1, int(zoom))
	return radToDeg * math.Atan(math.Sinh(n))
}

// TileRange is an inclusive block of tile columns and rows at one zoom
type TileRange struct {
	Zoom       uint
	MinX, MaxX uint32
	MinY, MaxY uint32
}

// Count returns the number of tiles in the range, saturating at math.MaxInt
func (r TileRange) Count() int {
	cols := int64(r.MaxX) - int64(r.MinX) + 1
	rows := int64(r.MaxY) - int64(r.MinY) + 1
	if cols <= 0 || rows <= 0 {
		return 0
	}
	if cols > math.MaxInt/rows {
		return math.MaxInt
	}
	return int(cols * rows)
}

// TileRangeForPath computes the tiles covering the bounding box of path.
// The second result is false for an empty path.
func TileRangeForPath(path Path, zoom uint) (TileRange, bool) {
	if len(path) == 0 {
		return TileRange{}, false
	}

	minLat, maxLat := path[0].Latitude, path[0].Latitude
	minLon, maxLon := path[0].Longitude, path[0].Longitude
	for _, c := range path[1:] {
		minLat = math.Min(minLat, c.Latitude)
		maxLat = math.Max(maxLat, c.Latitude)
		minLon = math.Min(minLon, c.Longitude)
		maxLon = math.Max(maxLon, c.Longitude)
	}

	// Tile rows grow southwards, so the northern edge gives MinY
	return TileRange{
		Zoom: zoom,
		MinX: LongitudeToTileX(minLon, zoom),
		MaxX: LongitudeToTileX(maxLon, zoom),
		MinY: LatitudeToTileY(maxLat, zoom),
		MaxY: LatitudeToTileY(minLat, zoom),
	}, true
}

// EstimateTiles returns how many tiles cover the bounding box of path at zoom
func EstimateTiles(path Path, zoom uint) int {
	r, ok := TileRangeForPath(path, zoom)
	if !ok {
		return 0
	}
	return r.Count()
}

// TilesForPath lists the tiles covering the bounding box of path in
// row-major order
func TilesForPath(path Path, zoom uint) []TileKey {
	r, ok := TileRangeForPath(path, zoom)
	if !ok {
		return nil
	}

	keys := make([]TileKey, 0, r.Count())
	// uint64 counters so a range ending at math.MaxUint32 terminates
	for y := uint64(r.MinY); y <= uint64(r.MaxY); y++ {
		for x := uint64(r.MinX); x <= uint64(r.MaxX); x++ {
			keys = append(keys, TileKey{Zoom: zoom, X: uint32(x), Y: uint32(y)})
		}
	}
	return keys
}

func clampTile(v float64, zoom uint) uint32 {
	maxCoord := math.Min(math.Ldexp(1, int(zoom))-1, math.MaxUint32)
	return uint32(math.Max(0, math.Min(maxCoord, math.Floor(v))))
}
