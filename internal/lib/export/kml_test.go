package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radar-mms/ccl/internal/lib/aoi"
	"github.com/radar-mms/ccl/internal/lib/geo"
)

var polygon = geo.Polygon{
	geo.NewCoordinate(55.760, 37.600),
	geo.NewCoordinate(55.760, 37.620),
	geo.NewCoordinate(55.750, 37.620),
	geo.NewCoordinate(55.750, 37.600),
}

func TestWriteKML(t *testing.T) {
	path := geo.Path{
		geo.NewCoordinate3D(55.760, 37.605, 120),
		geo.NewCoordinate3D(55.750, 37.605, 120),
		geo.NewCoordinate(55.750, 37.615),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteKML(&buf, "survey", polygon, path))

	out := buf.String()
	assert.Contains(t, out, "<name>survey</name>")
	assert.Contains(t, out, "<LineString>")
	assert.Contains(t, out, "<Polygon>")
	assert.Contains(t, out, "#path")

	// The written area reads back as the same polygon
	loaded, err := aoi.LoadKML(&buf)
	require.NoError(t, err)
	require.Len(t, loaded, len(polygon))
	for i := range polygon {
		assert.InDelta(t, polygon[i].Latitude, loaded[i].Latitude, 1e-9)
		assert.InDelta(t, polygon[i].Longitude, loaded[i].Longitude, 1e-9)
	}
}

func TestWriteKML_PathOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteKML(&buf, "route", nil, polygon.Path()))

	out := buf.String()
	assert.Contains(t, out, "<LineString>")
	assert.NotContains(t, out, "<Polygon>")
}

func TestEncodePolyline(t *testing.T) {
	encoded := EncodePolyline(polygon.Path())
	decoded, err := geo.DecodePath(encoded)
	require.NoError(t, err)
	require.Len(t, decoded, len(polygon))
	assert.InDelta(t, 55.76, decoded[0].Latitude, 1e-5)
}
