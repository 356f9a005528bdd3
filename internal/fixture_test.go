package internal

import (
	"embed"
	"log"
	"math"
)

// Fixtures are available by name in the fixtures/ directory, sans extension.
// Each is an svg file of one or more <polygon> elements, read with ParseSVG.
// If anything goes wrong, the test binary dies.

//go:embed fixtures
var fixtures embed.FS

func LoadRegions(name string) []Region {
	fixture, err := fixtures.Open("fixtures/" + name + ".svg")
	if err != nil {
		log.Fatalf("Could not load fixture %q: %v", name, err)
	}
	defer fixture.Close()

	regions, err := ParseSVG(fixture)
	if err != nil {
		log.Fatalf("Failed to parse fixture %q: %v", name, err)
	}
	if len(regions) == 0 {
		log.Fatalf("No polygons found in fixture %q", name)
	}
	return regions
}

// The single polygon in a fixture.
func LoadFixture(name string) Polygon {
	regions := LoadRegions(name)
	if len(regions) > 1 {
		log.Fatalf("More than one polygon found in fixture %q", name)
	}
	return regions[0].Rings[0]
}

// Hand-built fixtures

func RegularPolygon(n int, radius float64) Polygon {
	points := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		angle := 2*math.Pi*float64(i)/float64(n) + math.Pi/2
		points = append(points, Point{X: radius * math.Cos(angle), Y: radius * math.Sin(angle)})
	}
	return Polygon{points}
}

func SimpleStar() Polygon {
	var points []Point
	const outerRadius = 5
	const innerRadius = 2
	for i := 0; i < 10; i++ {
		var radius float64
		if i%2 == 0 {
			radius = outerRadius
		} else {
			radius = innerRadius
		}
		angle := 2 * math.Pi * float64(i) / 10
		points = append(points, Point{X: radius * math.Cos(angle), Y: radius * math.Sin(angle)})
	}
	return Polygon{points}
}

// Unit square, counterclockwise, with an extra vertex halfway along the
// bottom edge.
func SquareWithMidpoint() Polygon {
	return Polygon{[]Point{
		{X: 0, Y: 0},
		{X: 0.5, Y: 0},
		{X: 1, Y: 0},
		{X: 1, Y: 1},
		{X: 0, Y: 1},
	}}
}

// A wiggly ring with lots of small features to remove.
func Wobble(n int) Polygon {
	points := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(i) / float64(n)
		r := 10 + 0.5*math.Sin(13*angle) + 0.2*math.Cos(31*angle)
		points = append(points, Point{X: r * math.Cos(angle), Y: r * math.Sin(angle)})
	}
	return Polygon{points}
}

// Two regions that meet at a single vertex, (10, 5). A is a square with that
// vertex in the middle of its right edge; B is a diamond-ish ring to the
// right whose left tip is the shared vertex and whose other edges carry
// collinear midpoints.
func TouchingRegions() []Region {
	return []Region{
		{Name: "A", Rings: []Polygon{{[]Point{
			{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 5}, {X: 10, Y: 10}, {X: 0, Y: 10},
		}}}},
		{Name: "B", Rings: []Polygon{{[]Point{
			{X: 10, Y: 5}, {X: 12.5, Y: 2.5}, {X: 15, Y: 0}, {X: 20, Y: 5}, {X: 15, Y: 10}, {X: 12.5, Y: 7.5},
		}}}},
	}
}

// Three regions meeting at the origin, with rays out to A, B and C.
func TriPointRegions() []Region {
	o := Point{X: 0, Y: 0}
	a := Point{X: 10, Y: 0}
	b := Point{X: -5, Y: 8.66}
	c := Point{X: -5, Y: -8.66}
	return []Region{
		{Name: "AB", Rings: []Polygon{{[]Point{o, a, {X: 10, Y: 10}, b}}}},
		{Name: "BC", Rings: []Polygon{{[]Point{o, b, {X: -12, Y: 0}, c}}}},
		{Name: "CA", Rings: []Polygon{{[]Point{o, c, {X: 10, Y: -10}, a}}}},
	}
}
