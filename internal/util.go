package internal

import "math"

// DefaultTolerance is the distance below which two points are the same
// location. Source data is lat/lon at roughly 10m resolution, so this is about
// one meter at the equator.
const DefaultTolerance = 0.000009

// DefaultMinVertices is the smallest ring simplification will produce.
const DefaultMinVertices = 4

// Config carries the numeric knobs shared by the drivers. Zero values take
// the defaults.
type Config struct {
	// Per-axis distance at which points are coincident.
	Tolerance float64
	// Simplification never shrinks a ring below this many vertices.
	MinVertices int
	// Triangles with an area at or below this are dropped from triangulation
	// output. Defaults to Tolerance²/2.
	AreaFloor float64
}

func DefaultConfig() Config {
	return Config{}.withDefaults()
}

func (c Config) withDefaults() Config {
	if !(c.Tolerance > 0) {
		c.Tolerance = DefaultTolerance
	}
	if c.MinVertices == 0 {
		c.MinVertices = DefaultMinVertices
	}
	if c.MinVertices < 3 {
		c.MinVertices = 3
	}
	if !(c.AreaFloor > 0) {
		c.AreaFloor = c.Tolerance * c.Tolerance / 2
	}
	return c
}

// Metric given to vertices that are not currently ears. Large enough to sort
// behind any real compactness value.
func (c Config) nonEarMetric() float64 {
	return 1 / (c.Tolerance * c.Tolerance * c.Tolerance)
}

// Are the points the same location, within tol on each axis?
func (p Point) Coincident(q Point, tol float64) bool {
	return math.Abs(p.X-q.X) < tol && math.Abs(p.Y-q.Y) < tol
}

func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Z component of the cross product of u and v
func cross(u, v Point) float64 {
	return u.X*v.Y - u.Y*v.X
}

func dot(u, v Point) float64 {
	return u.X*v.X + u.Y*v.Y
}

// Twice the signed area of a, b, c. Positive when counterclockwise.
func orient(a, b, c Point) float64 {
	return cross(b.Sub(a), c.Sub(a))
}

// Unsigned area of the triangle a, b, c.
func Area(a, b, c Point) float64 {
	return math.Abs(orient(a, b, c)) / 2
}

// Signed turning angle in radians going from edge p->v to edge v->n. Left
// turns are positive.
func Turn(p, v, n Point) float64 {
	in := v.Sub(p)
	out := n.Sub(v)
	return math.Atan2(cross(in, out), dot(in, out))
}

// Compactness of a triangle: perimeter² / area. An equilateral triangle has
// the smallest value (about 20.8); slivers grow without bound. Zero area gives
// +Inf. Squaring the perimeter makes the value scale invariant.
func Compactness(a, b, c Point) float64 {
	perimeter := a.Distance(b) + b.Distance(c) + c.Distance(a)
	return perimeter * perimeter / Area(a, b, c)
}

// Is q strictly inside the triangle a, b, c? Points on an edge, or coincident
// with a corner, are not inside. Degenerate triangles contain nothing.
func PointInTriangle(q, a, b, c Point, tol float64) bool {
	if q.Coincident(a, tol) || q.Coincident(b, tol) || q.Coincident(c, tol) {
		return false
	}
	d := orient(a, b, c)
	if d == 0 {
		return false
	}
	s := orient(q, b, c) / d
	t := orient(a, q, c) / d
	return s > 0 && t > 0 && 1-s-t > 0
}

// Often we want to treat an array as a circular buffer. This gives the modular
// index given length n, but unlike the raw modulo operator, it only gives positive values
func CircularIndex(i, n int) int {
	return (i%n + n) % n
}

// Where do two segments cross? Segments that only touch, share an endpoint
// (within tol), or are parallel do not count.
func (s Segment) Intersects(other Segment, tol float64) bool {
	if s.Start.Coincident(other.Start, tol) || s.Start.Coincident(other.End, tol) ||
		s.End.Coincident(other.Start, tol) || s.End.Coincident(other.End, tol) {
		return false
	}
	d := cross(s.End.Sub(s.Start), other.End.Sub(other.Start))
	if d == 0 {
		return false
	}
	startOffset := other.Start.Sub(s.Start)
	t := cross(startOffset, other.End.Sub(other.Start)) / d
	u := cross(startOffset, s.End.Sub(s.Start)) / d
	return t > 0 && t < 1 && u > 0 && u < 1
}

func (t Triangle) Area() float64 {
	return Area(t.A, t.B, t.C)
}

func (t Triangle) SignedArea() float64 {
	return orient(t.A, t.B, t.C) / 2
}

func (t Triangle) Points() []Point {
	return []Point{t.A, t.B, t.C}
}

func (list TriangleList) Area() float64 {
	var total float64
	for _, t := range list {
		total += t.Area()
	}
	return total
}

// Each triangle as a three point polygon.
func (list TriangleList) ToPolygonList() PolygonList {
	result := make(PolygonList, 0, len(list))
	for _, t := range list {
		result = append(result, Polygon{Points: t.Points()})
	}
	return result
}
