package internal

// Points are plain values. Two points are treated as the same location when
// they are Coincident; nothing in the engine relies on bit-exact equality
// except the ring walk in Heap.Polygon, which copies values through untouched.
type Point struct {
	X float64
	Y float64
}

type Triangle struct {
	A, B, C Point
}

type Segment struct {
	Start, End Point
}

type PolygonList []Polygon

type TriangleList []Triangle

// A Region is one named map area. Its rings are the exterior boundaries of
// its disjoint parts (mainland, islands).
type Region struct {
	Name  string
	Rings []Polygon
	// Multiplier applied to the batch threshold for this region. Zero means 1.
	ThresholdScale float64
	// Detached regions are drawn away from their neighbours (insets), so they
	// never take part in junction detection.
	Detached bool
}
