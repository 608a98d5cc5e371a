package aoi

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radar-mms/ccl/internal/lib/geo"
)

const featureCollection = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {}, "geometry": {"type": "Point", "coordinates": [37.6, 55.7]}},
    {"type": "Feature", "properties": {"name": "field"}, "geometry": {
      "type": "Polygon",
      "coordinates": [[[37.60, 55.76], [37.62, 55.76], [37.62, 55.75], [37.60, 55.75], [37.60, 55.76]]]
    }}
  ]
}`

const kmlDocument = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <Placemark>
      <name>field</name>
      <Polygon>
        <outerBoundaryIs>
          <LinearRing>
            <coordinates>
              37.60,55.76,10 37.62,55.76,10
              37.62,55.75,10 37.60,55.75,10
              37.60,55.76,10
            </coordinates>
          </LinearRing>
        </outerBoundaryIs>
      </Polygon>
    </Placemark>
  </Document>
</kml>`

func assertField(t *testing.T, polygon geo.Polygon) {
	t.Helper()
	require.Len(t, polygon, 4, "closing vertex is dropped")
	assert.Equal(t, 55.76, polygon[0].Latitude)
	assert.Equal(t, 37.60, polygon[0].Longitude)
	assert.Equal(t, 55.75, polygon[2].Latitude)
	assert.Equal(t, 37.62, polygon[2].Longitude)
}

func TestLoadGeoJSON(t *testing.T) {
	polygon, err := LoadGeoJSON(strings.NewReader(featureCollection))
	require.NoError(t, err)
	assertField(t, polygon)
	assert.False(t, polygon[0].HasAltitude())
}

func TestLoadGeoJSON_FeatureAndGeometry(t *testing.T) {
	geometry := `{"type":"Polygon","coordinates":[[[37.60,55.76],[37.62,55.76],[37.62,55.75],[37.60,55.75],[37.60,55.76]]]}`

	polygon, err := LoadGeoJSON(strings.NewReader(geometry))
	require.NoError(t, err)
	assertField(t, polygon)

	feature := `{"type":"Feature","properties":{},"geometry":` + geometry + `}`
	polygon, err = LoadGeoJSON(strings.NewReader(feature))
	require.NoError(t, err)
	assertField(t, polygon)

	multi := `{"type":"MultiPolygon","coordinates":[[[[37.60,55.76],[37.62,55.76],[37.62,55.75],[37.60,55.75],[37.60,55.76]]]]}`
	polygon, err = LoadGeoJSON(strings.NewReader(multi))
	require.NoError(t, err)
	assertField(t, polygon)
}

func TestLoadGeoJSON_Errors(t *testing.T) {
	_, err := LoadGeoJSON(strings.NewReader(`{"type":"Point","coordinates":[37.6,55.7]}`))
	assert.ErrorIs(t, err, ErrNoPolygon)

	_, err = LoadGeoJSON(strings.NewReader(`{"type":"Polygon","coordinates":[[[37.6,55.7],[37.7,55.8],[37.6,55.7]]]}`))
	assert.ErrorIs(t, err, ErrNoPolygon, "a two-vertex ring is not an area")

	_, err = LoadGeoJSON(strings.NewReader(`not json`))
	assert.Error(t, err)
}

func TestLoadKML(t *testing.T) {
	polygon, err := LoadKML(strings.NewReader(kmlDocument))
	require.NoError(t, err)
	assertField(t, polygon)
	assert.Equal(t, 10.0, polygon[0].Altitude)

	_, err = LoadKML(strings.NewReader(`<kml><Document></Document></kml>`))
	assert.ErrorIs(t, err, ErrNoPolygon)

	bad := strings.Replace(kmlDocument, "37.62,55.76,10", "37.62", 1)
	_, err = LoadKML(strings.NewReader(bad))
	assert.Error(t, err)
}

func TestLoadShapefile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "field.shp")

	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)
	ring := []shp.Point{
		{X: 37.60, Y: 55.76}, {X: 37.62, Y: 55.76}, {X: 37.62, Y: 55.75}, {X: 37.60, Y: 55.75}, {X: 37.60, Y: 55.76},
	}
	shape := shp.Polygon(*shp.NewPolyLine([][]shp.Point{ring}))
	w.Write(&shape)
	w.Close()

	polygon, err := LoadShapefile(path)
	require.NoError(t, err)
	assertField(t, polygon)

	polygon, err = Load(path)
	require.NoError(t, err)
	assertField(t, polygon)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	geojsonPath := filepath.Join(dir, "field.geojson")
	require.NoError(t, os.WriteFile(geojsonPath, []byte(featureCollection), 0o644))
	polygon, err := Load(geojsonPath)
	require.NoError(t, err)
	assertField(t, polygon)

	kmlPath := filepath.Join(dir, "field.KML")
	require.NoError(t, os.WriteFile(kmlPath, []byte(kmlDocument), 0o644))
	polygon, err = Load(kmlPath)
	require.NoError(t, err)
	assertField(t, polygon)

	_, err = Load(filepath.Join(dir, "field.gpx"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load(filepath.Join(dir, "missing.geojson"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
