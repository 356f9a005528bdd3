package internal

import (
	"context"
	"math"
)

// Ear clipping, driven by the same heap as simplification. An ear is a convex
// vertex whose triangle with its neighbours holds no other vertex of the ring;
// cutting it off leaves a smaller simple ring. Among the ears, the most
// compact triangle is cut first, which keeps long slivers out of the output.
//
// The ring is normalized to clockwise winding up front, so every triangle in
// the result is clockwise too.
//
// Only concave vertices can sit inside an ear's triangle, so the ear test only
// looks at those. Removing vertices can turn a concave vertex convex but never
// the other way around, so the concave list only shrinks.

type earClipper struct {
	config    Config
	concave   []Handle
	isConcave []bool
}

func (e *earClipper) Metric(h *Heap, n Handle) float64 {
	node := h.node(n)
	prev, v, next := h.nodes[node.Prev].Point, node.Point, h.nodes[node.Next].Point

	if e.isConcave[n] {
		if orient(prev, v, next) > 0 {
			return e.config.nonEarMetric()
		}
		e.isConcave[n] = false
	}
	if !e.isEar(h, n, prev, v, next) {
		return e.config.nonEarMetric()
	}
	if Area(prev, v, next) <= e.config.AreaFloor {
		// Collinear or nearly so. Clip these first; the triangle is dropped
		// from the output anyway.
		return 0
	}
	return Compactness(prev, v, next)
}

// Does any live concave vertex sit strictly inside (prev, v, next)? Dead
// entries are pruned from the list along the way.
func (e *earClipper) isEar(h *Heap, n Handle, prev, v, next Point) bool {
	node := h.node(n)
	live := e.concave[:0]
	ear := true
	for _, c := range e.concave {
		if !h.Contains(c) || !e.isConcave[c] {
			continue
		}
		live = append(live, c)
		if !ear || c == n || c == node.Prev || c == node.Next {
			continue
		}
		if PointInTriangle(h.nodes[c].Point, prev, v, next, e.config.Tolerance) {
			ear = false
		}
	}
	e.concave = live
	return ear
}

// Split a simple ring into triangles, without modifying it. A ring of n
// vertices gives n-2 triangles, less any whose area falls at or below the
// configured floor.
func Triangulate(ctx context.Context, polygon Polygon, config Config) (TriangleList, error) {
	config = config.withDefaults()
	if polygon.Len() < 3 {
		return nil, nil
	}
	ring := polygon.Copy().Clockwise()

	clipper := &earClipper{
		config:    config,
		isConcave: make([]bool, ring.Len()),
	}
	for i := range ring.Points {
		if ring.IsConcave(i) {
			clipper.isConcave[i] = true
			clipper.concave = append(clipper.concave, Handle(i))
		}
	}

	heap := NewHeap(clipper, ring.Len())
	for _, p := range ring.Points {
		heap.Insert(p, math.Inf(1), false)
	}
	heap.LinkRing()
	heap.Init()

	result := make(TriangleList, 0, ring.Len()-2)
	emit := func(t Triangle) {
		if t.Area() > config.AreaFloor {
			result = append(result, t)
		}
	}

	nonEar := config.nonEarMetric()
	for pops := 0; heap.Len() > 3; pops++ {
		if pops%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		n, ok := heap.Peek()
		if !ok {
			fatalf("heap underflow with %d vertices left in %v", heap.Len(), heap)
		}
		if heap.nodes[n].Metric >= nonEar {
			// A vertex only gets rescored when its own neighbours change, so
			// an ear unblocked by a concave vertex going convex elsewhere can
			// still carry the sentinel. Rescore everything before falling back
			// to clipping a non-ear.
			heap.Init()
		}
		n, _ = heap.PopMin()
		node := heap.nodes[n]
		emit(Triangle{heap.nodes[node.Prev].Point, node.Point, heap.nodes[node.Next].Point})
	}

	last := heap.Polygon()
	emit(Triangle{last.Points[0], last.Points[1], last.Points[2]})
	return result, nil
}
