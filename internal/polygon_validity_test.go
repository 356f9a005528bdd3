package internal

// This contains no actual tests. It is just a helper for testing triangulation
// validity.

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper to check that a triangulation is valid. The rules are:
// 1. Every triangle corner is a vertex of the polygon.
// 2. Every triangle is clockwise, and none has zero area.
// 3. The sum of the areas of all triangles is equal to the area of the polygon.
// 4. Sampled points inside the polygon are in exactly one triangle, and points
//    outside it are in none.
func AssertValidTriangulation(t *testing.T, polygon Polygon, triangles TriangleList) {
	tol := DefaultTolerance
	for _, tri := range triangles {
		for _, corner := range tri.Points() {
			require.True(t, hasVertex(polygon, corner, tol), "triangle corner %v is not a polygon vertex", corner)
		}
		require.Less(t, tri.SignedArea(), 0.0, "counterclockwise or degenerate triangle: %v", tri)
	}
	require.InDelta(t, polygon.Area(), triangles.Area(), 1e-6*math.Max(1, polygon.Area()),
		"sum of the areas of all triangles is equal to the area of the polygon")
	validateTrianglesBySampling(t, triangles, polygon)
}

func hasVertex(polygon Polygon, p Point, tol float64) bool {
	for _, q := range polygon.Points {
		if q.Coincident(p, tol) {
			return true
		}
	}
	return false
}

// Walk a grid over the polygon's bounds. Points too close to any edge are
// skipped, since which side they land on is down to rounding.
func validateTrianglesBySampling(t *testing.T, triangles TriangleList, polygon Polygon) {
	minX, minY, maxX, maxY := math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)
	for _, p := range polygon.Points {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}

	// Pad the bounding box by 10%
	xPadding := (maxX - minX) * 0.1
	yPadding := (maxY - minY) * 0.1
	minX -= xPadding
	minY -= yPadding
	maxX += xPadding
	maxY += yPadding

	step := math.Max(maxX-minX, maxY-minY) / 50
	margin := step / 100

	var edges []Segment
	for i := range polygon.Points {
		edges = append(edges, Segment{polygon.At(i), polygon.At(i + 1)})
	}
	for _, tri := range triangles {
		edges = append(edges, Segment{tri.A, tri.B}, Segment{tri.B, tri.C}, Segment{tri.C, tri.A})
	}

	for y := minY; y <= maxY; y += step {
		for x := minX; x <= maxX; x += step {
			p := Point{X: x, Y: y}
			if nearAny(edges, p, margin) {
				continue
			}
			hits := 0
			for _, tri := range triangles {
				if PointInTriangle(p, tri.A, tri.B, tri.C, 0) {
					hits++
				}
			}
			if polygon.ContainsPointByEvenOdd(p) {
				assert.Equal(t, 1, hits, "point %v should be in exactly one triangle", p)
			} else {
				assert.Zero(t, hits, "point %v should not be in any triangle", p)
			}
		}
	}
}

func nearAny(edges []Segment, p Point, margin float64) bool {
	for _, e := range edges {
		if distanceToSegment(p, e) < margin {
			return true
		}
	}
	return false
}

func distanceToSegment(p Point, s Segment) float64 {
	d := s.End.Sub(s.Start)
	lengthSquared := dot(d, d)
	if lengthSquared == 0 {
		return p.Distance(s.Start)
	}
	u := math.Max(0, math.Min(1, dot(p.Sub(s.Start), d)/lengthSquared))
	return p.Distance(Point{s.Start.X + u*d.X, s.Start.Y + u*d.Y})
}
