package internal

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const epsilon = 1e-9

func TestCircularIndex(t *testing.T) {
	n := 3
	expectedIndexes := []int{0, 1, 2, 0, 1, 2, 0, 1, 2}
	for i := -3; i < 6; i++ {
		actualIndex := CircularIndex(i, n)
		expectedIndex := expectedIndexes[0]
		expectedIndexes = expectedIndexes[1:]
		assert.Equal(t, expectedIndex, actualIndex)
	}
}

func TestConfigDefaults(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, DefaultTolerance, config.Tolerance)
	assert.Equal(t, DefaultMinVertices, config.MinVertices)
	assert.InDelta(t, DefaultTolerance*DefaultTolerance/2, config.AreaFloor, 1e-20)

	config = Config{Tolerance: 0.1, MinVertices: 1}.withDefaults()
	assert.Equal(t, 3, config.MinVertices)
	assert.InDelta(t, 0.005, config.AreaFloor, epsilon)
	assert.InDelta(t, 1000, config.nonEarMetric(), 1e-6)
}

func TestCoincident(t *testing.T) {
	p := Point{1, 1}
	assert.True(t, p.Coincident(Point{1, 1}, DefaultTolerance))
	assert.True(t, p.Coincident(Point{1.000005, 0.999995}, DefaultTolerance))
	assert.False(t, p.Coincident(Point{1.00001, 1}, DefaultTolerance))
	// The bound is strict
	assert.False(t, p.Coincident(Point{1.5, 1}, 0.5))
}

func TestTriangleSignedArea(t *testing.T) {
	for cwI := 0; cwI < 2; cwI++ {
		cwI := cwI // import into inner scope
		t.Run(fmt.Sprintf("With %s triangles", []string{"CCW", "CW"}[cwI]), func(t *testing.T) {
			tri := Triangle{Point{0, -1}, Point{1, 0}, Point{0, 1}}
			// Clockwise triangles will have negative area, so sign is -1 for CW = 1
			sign := 1 - 2*float64(cwI)
			if cwI == 1 {
				tri.A, tri.B = tri.B, tri.A
			}
			assert.InDelta(t, sign, tri.SignedArea(), epsilon)
			assert.InDelta(t, 1, tri.Area(), epsilon)
			// Stretch the triangle out
			tri.A.Y *= 2
			tri.B.Y *= 2
			tri.C.Y *= 2
			assert.InDelta(t, 2*sign, tri.SignedArea(), epsilon)
		})
	}
}

func TestTurn(t *testing.T) {
	assert.InDelta(t, math.Pi/2, Turn(Point{0, 0}, Point{1, 0}, Point{1, 1}), epsilon)
	assert.InDelta(t, -math.Pi/2, Turn(Point{0, 0}, Point{1, 0}, Point{1, -1}), epsilon)
	assert.InDelta(t, 0, Turn(Point{0, 0}, Point{1, 0}, Point{2, 0}), epsilon)
}

func TestCompactness(t *testing.T) {
	equilateral := Compactness(Point{0, 0}, Point{1, 0}, Point{0.5, math.Sqrt(3) / 2})
	assert.InDelta(t, 36/math.Sqrt(3), equilateral, 1e-9)

	// Scale invariant
	big := Compactness(Point{0, 0}, Point{100, 0}, Point{50, 50 * math.Sqrt(3)})
	assert.InDelta(t, equilateral, big, 1e-6)

	sliver := Compactness(Point{0, 0}, Point{10, 0}, Point{5, 0.1})
	assert.Greater(t, sliver, equilateral)

	assert.True(t, math.IsInf(Compactness(Point{0, 0}, Point{1, 0}, Point{2, 0}), 1))
}

func TestPointInTriangle(t *testing.T) {
	a, b, c := Point{0, 0}, Point{4, 0}, Point{0, 4}
	tol := DefaultTolerance
	for _, tc := range []struct {
		name   string
		point  Point
		inside bool
	}{
		{"interior", Point{1, 1}, true},
		{"outside", Point{3, 3}, false},
		{"on an edge", Point{2, 0}, false},
		{"on the hypotenuse", Point{2, 2}, false},
		{"at a corner", Point{4, 0}, false},
		{"nearly at a corner", Point{4 - tol/2, tol / 4}, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.inside, PointInTriangle(tc.point, a, b, c, tol))
			// Winding doesn't matter
			assert.Equal(t, tc.inside, PointInTriangle(tc.point, a, c, b, tol))
		})
	}
	assert.False(t, PointInTriangle(Point{1, 0}, Point{0, 0}, Point{1, 1}, Point{2, 2}, tol), "degenerate")
}

func TestSegmentIntersects(t *testing.T) {
	tol := DefaultTolerance
	s := Segment{Point{0, 0}, Point{2, 2}}
	assert.True(t, s.Intersects(Segment{Point{0, 2}, Point{2, 0}}, tol))
	assert.False(t, s.Intersects(Segment{Point{3, 0}, Point{3, 5}}, tol))
	assert.False(t, s.Intersects(Segment{Point{2, 2}, Point{4, 0}}, tol), "shared endpoint")
	assert.False(t, s.Intersects(Segment{Point{1, 0}, Point{3, 2}}, tol), "parallel")
}

func TestTriangleListToPolygonList(t *testing.T) {
	list := TriangleList{
		{Point{0, 0}, Point{1, 0}, Point{0, 1}},
		{Point{1, 0}, Point{1, 1}, Point{0, 1}},
	}
	assert.InDelta(t, 1, list.Area(), epsilon)
	polygons := list.ToPolygonList()
	assert.Len(t, polygons, 2)
	assert.Equal(t, 6, polygons.VertexCount())
	assert.True(t, polygons.ContainsPointByEvenOdd(Point{0.2, 0.2}))
	assert.False(t, polygons.ContainsPointByEvenOdd(Point{2, 2}))
}
