package internal

import "math"

// A closed ring of points. The closing edge from the last point back to the
// first is implied; rings never repeat their first point.
type Polygon struct {
	Points []Point
}

func (poly Polygon) Len() int {
	return len(poly.Points)
}

// Wraparound indexing. Negative indexes count back from the end. This removes
// special cases at the seam at a small cost in speed.
func (poly Polygon) At(i int) Point {
	if len(poly.Points) == 0 {
		fatalf("cannot get point %d from an empty polygon", i)
	}
	return poly.Points[CircularIndex(i, len(poly.Points))]
}

// Deep copy. Destructive algorithms work on one of these so the caller never
// observes changes.
func (poly Polygon) Copy() Polygon {
	points := make([]Point, len(poly.Points))
	copy(points, poly.Points)
	return Polygon{Points: points}
}

func (poly Polygon) Reverse() Polygon {
	newPoly := Polygon{Points: make([]Point, 0, len(poly.Points))}
	for i := len(poly.Points) - 1; i >= 0; i-- {
		newPoly.Points = append(newPoly.Points, poly.Points[i])
	}
	return newPoly
}

// Shoelace area. Positive for counterclockwise rings.
func (poly Polygon) SignedArea() float64 {
	var total float64
	for i, p := range poly.Points {
		q := poly.Points[CircularIndex(i+1, len(poly.Points))]
		total += p.X*q.Y - q.X*p.Y
	}
	return total / 2
}

func (poly Polygon) Area() float64 {
	return math.Abs(poly.SignedArea())
}

// Sum of the signed turning angles at every vertex. A simple ring totals +2π
// when counterclockwise and -2π when clockwise.
func (poly Polygon) TotalTurn() float64 {
	var total float64
	for i := range poly.Points {
		total += Turn(poly.At(i-1), poly.At(i), poly.At(i+1))
	}
	return total
}

// Returns the ring wound clockwise, reversing a counterclockwise one. The
// concavity and ear tests used by triangulation assume this winding.
func (poly Polygon) Clockwise() Polygon {
	if poly.TotalTurn() > 0 {
		return poly.Reverse()
	}
	return poly
}

// Is the vertex at i concave? Only meaningful on a clockwise ring, where
// concave vertices turn left.
func (poly Polygon) IsConcave(i int) bool {
	return orient(poly.At(i-1), poly.At(i), poly.At(i+1)) > 0
}

// Winding rule point-in-polygon. Used to validate triangulations.
func (poly Polygon) ContainsPointByEvenOdd(p Point) bool {
	return poly.CrossingCount(p)%2 == 1
}

// Crossing count helper for even odd rule. Counts edges crossed by a ray
// from p toward +X.
func (poly Polygon) CrossingCount(p Point) int {
	crossingCount := 0
	for i, vertex := range poly.Points {
		nextVertex := poly.Points[CircularIndex(i+1, len(poly.Points))]
		if (vertex.Y > p.Y) == (nextVertex.Y > p.Y) {
			continue
		}
		x := vertex.X + (p.Y-vertex.Y)*(nextVertex.X-vertex.X)/(nextVertex.Y-vertex.Y)
		if x > p.X {
			crossingCount++
		}
	}
	return crossingCount
}

// Pairs of edge indexes that cross each other. A simple ring has none. This
// is quadratic, so it's meant for validating input, not for hot paths.
func (poly Polygon) SelfIntersections(tol float64) [][2]int {
	var result [][2]int
	n := len(poly.Points)
	for i := 0; i < n; i++ {
		edge := Segment{poly.At(i), poly.At(i + 1)}
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 { // adjacent across the seam
				continue
			}
			if edge.Intersects(Segment{poly.At(j), poly.At(j + 1)}, tol) {
				result = append(result, [2]int{i, j})
			}
		}
	}
	return result
}

func (list PolygonList) ContainsPointByEvenOdd(p Point) bool {
	crossingCount := 0
	for _, poly := range list {
		crossingCount += poly.CrossingCount(p)
	}
	return crossingCount%2 == 1
}

func (list PolygonList) VertexCount() int {
	count := 0
	for _, poly := range list {
		count += len(poly.Points)
	}
	return count
}
