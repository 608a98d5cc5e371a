package traverse

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntersect(t *testing.T) {
	horizontal := line{p1: r2.Point{X: 0, Y: 0}, p2: r2.Point{X: 10, Y: 0}}

	p, ok := intersect(horizontal, line{p1: r2.Point{X: 5, Y: -5}, p2: r2.Point{X: 5, Y: 5}})
	require.True(t, ok)
	assertPoint(t, r2.Point{X: 5, Y: 0}, p)

	_, ok = intersect(horizontal, line{p1: r2.Point{X: 0, Y: 1}, p2: r2.Point{X: 10, Y: 1}})
	assert.False(t, ok, "parallel")

	_, ok = intersect(horizontal, horizontal)
	assert.False(t, ok, "collinear")

	_, ok = intersect(horizontal, line{p1: r2.Point{X: 20, Y: -5}, p2: r2.Point{X: 20, Y: 5}})
	assert.False(t, ok, "beyond the end of the segment")
}

func TestIntersect_SkewedEdge(t *testing.T) {
	// An edge that should be vertical but carries projection residue
	scan := line{p1: r2.Point{X: 1000, Y: 1500}, p2: r2.Point{X: 1000, Y: -2500}}
	edge := line{p1: r2.Point{X: 1000, Y: 0}, p2: r2.Point{X: 1000 + 1e-10, Y: -1000}}

	_, ok := intersect(scan, edge)
	assert.False(t, ok)
}

func TestIntersect_VertexRounding(t *testing.T) {
	scan := line{p1: r2.Point{X: 0, Y: 0}, p2: r2.Point{X: 0, Y: -1000}}
	edge := line{p1: r2.Point{X: 1000, Y: -1000}, p2: r2.Point{X: 1e-9, Y: -1000}}

	p, ok := intersect(scan, edge)
	require.True(t, ok, "an edge stopping a nanometer short still meets the scan line")
	assertPoint(t, r2.Point{X: 0, Y: -1000}, p)
}

func TestIntersectLines(t *testing.T) {
	edges := closedRing([]r2.Point{
		{X: 0, Y: 0},
		{X: 10, Y: 0},
		{X: 10 + 1e-10, Y: -10},
		{X: 0, Y: -10},
	})
	lines := []line{
		{p1: r2.Point{X: 5, Y: 5}, p2: r2.Point{X: 5, Y: -15}},
		{p1: r2.Point{X: 20, Y: 5}, p2: r2.Point{X: 20, Y: -15}},
		{p1: r2.Point{X: 10 + 5e-11, Y: 5}, p2: r2.Point{X: 10 + 5e-11, Y: -15}},
	}

	got := intersectLines(lines, edges)
	require.Len(t, got, 2, "the line outside the ring is dropped")

	assertPoint(t, r2.Point{X: 5, Y: 0}, got[0].p1)
	assertPoint(t, r2.Point{X: 5, Y: -10}, got[0].p2)

	// A line lying on the right edge spans the whole edge instead of
	// stopping where it crosses the skewed edge
	assert.InDelta(t, 10, got[1].length(), 1e-6)
}

func TestClampGridAngle(t *testing.T) {
	cases := map[float64]float64{
		0:    0,
		45:   45,
		90:   90,
		-90:  90,
		135:  -45,
		-135: 45,
		180:  0,
		270:  90,
		450:  90,
	}
	for in, want := range cases {
		assert.InDelta(t, want, clampGridAngle(in), 1e-12, "angle %v", in)
	}
	assert.True(t, math.IsNaN(clampGridAngle(math.NaN())))
}

func TestRotatePoint(t *testing.T) {
	center := r2.Point{X: 0, Y: 0}
	assertPoint(t, r2.Point{X: 1, Y: 0}, rotatePoint(r2.Point{X: 0, Y: 1}, center, 90), "north turns east")
	assertPoint(t, r2.Point{X: 0, Y: -1}, rotatePoint(r2.Point{X: 0, Y: 1}, center, 180))

	around := r2.Point{X: 10, Y: 10}
	assertPoint(t, r2.Point{X: 10, Y: 10}, rotatePoint(around, around, 37))
}

func TestAdjustLineDirections(t *testing.T) {
	lines := []line{
		{p1: r2.Point{X: 0, Y: 0}, p2: r2.Point{X: 0, Y: -10}},
		{p1: r2.Point{X: 1, Y: -10}, p2: r2.Point{X: 1, Y: 0}},
		{p1: r2.Point{X: 2, Y: 0}, p2: r2.Point{X: 2, Y: -10}},
	}
	got := adjustLineDirections(lines)
	require.Len(t, got, 3)
	for i, l := range got {
		assert.InDelta(t, 270, l.angle(), 1e-9, "line %d", i)
	}

	// 0 and 359.5 degrees run the same way
	nearlyEast := []line{
		{p1: r2.Point{X: 0, Y: 0}, p2: r2.Point{X: 10, Y: 0}},
		{p1: r2.Point{X: 0, Y: 1}, p2: r2.Point{X: 10, Y: 1 - 10*math.Tan(0.5*math.Pi/180)}},
	}
	got = adjustLineDirections(nearlyEast)
	assert.Equal(t, nearlyEast, got)

	assert.Empty(t, adjustLineDirections(nil))
}

func TestAngleDifference(t *testing.T) {
	assert.InDelta(t, 1, angleDifference(359.5, 0.5), 1e-9)
	assert.InDelta(t, 180, angleDifference(90, 270), 1e-9)
	assert.InDelta(t, 10, angleDifference(20, 10), 1e-9)
}
