package internal

import (
	"context"
	"math"
)

// Visvalingam–Whyatt simplification. Each vertex is scored by the area of the
// triangle it forms with its current neighbours, which is how much area the
// ring would lose if the vertex were deleted. The cheapest vertex goes first,
// and its neighbours are rescored, until the cheapest remaining vertex is
// worth keeping.

// Reports whether a vertex must survive simplification.
type LockPredicate func(Point) bool

type SimplifyOptions struct {
	// Vertices whose effective area is below this are removed.
	Threshold float64
	// Optional. Locked vertices are never removed.
	Locked LockPredicate
	// Report rings that are too small to matter as empty rather than stopping
	// at MinVertices.
	DropCollapsed bool
	Config        Config
}

// How often the simplify and triangulate loops look at their context.
const cancelCheckInterval = 256

var effectiveArea = StrategyFunc(func(h *Heap, n Handle) float64 {
	node := h.node(n)
	return Area(h.nodes[node.Prev].Point, node.Point, h.nodes[node.Next].Point)
})

// Simplify the ring without modifying it. The result keeps the surviving
// vertices in input order.
func Simplify(ctx context.Context, polygon Polygon, opts SimplifyOptions) (Polygon, error) {
	config := opts.Config.withDefaults()
	if polygon.Len() < 3 {
		if opts.DropCollapsed {
			return Polygon{}, nil
		}
		return polygon.Copy(), nil
	}
	if polygon.Len() < config.MinVertices && !opts.DropCollapsed {
		return polygon.Copy(), nil
	}

	heap := NewHeap(effectiveArea, polygon.Len())
	for _, p := range polygon.Points {
		locked := opts.Locked != nil && opts.Locked(p)
		heap.Insert(p, math.Inf(1), locked)
	}
	heap.LinkRing()
	heap.Init()

	for pops := 0; heap.Len() > config.MinVertices; pops++ {
		if pops%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Polygon{}, err
			}
		}
		n, ok := heap.Peek()
		if !ok || heap.nodes[n].Metric >= opts.Threshold {
			break
		}
		heap.PopMin()
	}

	if opts.DropCollapsed && collapsed(heap, opts.Threshold) {
		return Polygon{}, nil
	}
	return heap.Polygon(), nil
}

// A ring has collapsed when it is down to the minimum, nothing pins it in
// place, and it would keep shrinking if allowed to.
func collapsed(heap *Heap, threshold float64) bool {
	if heap.HasLocked() {
		return false
	}
	n, ok := heap.Peek()
	return ok && heap.nodes[n].Metric < threshold
}
