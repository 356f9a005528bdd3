package internal

import (
	"context"
	"fmt"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// Neighbouring regions share border vertices. If each region were simplified
// on its own, the shared borders would drift apart and leave slivers and gaps
// between them. Junction detection finds the vertices that pin borders
// together, so simplification can lock them in place.

type JunctionPolicy int

const (
	// Lock vertices where three or more regions meet. Shared border runs
	// between two regions stay free to simplify.
	TriPoint JunctionPolicy = iota
	// Lock every vertex shared by two or more regions.
	SharedVertex
)

func (p JunctionPolicy) String() string {
	switch p {
	case TriPoint:
		return "tripoint"
	case SharedVertex:
		return "shared"
	}
	return fmt.Sprintf("JunctionPolicy(%d)", int(p))
}

// How many regions other than the vertex's own must share it.
func (p JunctionPolicy) minOthers() int {
	if p == SharedVertex {
		return 1
	}
	return 2
}

type JunctionOptions struct {
	Policy JunctionPolicy
	// Coincidence tolerance. Zero takes DefaultTolerance.
	Tolerance float64
}

// RegionBounds is the bounding box of one region, held in the spatial index.
type RegionBounds struct {
	Index int
	Bound orb.Bound

	rect rtreego.Rect
}

func (b *RegionBounds) Bounds() rtreego.Rect {
	return b.rect
}

// Bounding box of every ring in the region, padded by tol so a vertex
// sitting exactly on the edge still hits it, and so flat regions still have
// a box with nonzero extent.
func NewRegionBounds(index int, region Region, tol float64) (*RegionBounds, bool) {
	var points orb.MultiPoint
	for _, ring := range region.Rings {
		for _, p := range ring.Points {
			points = append(points, orb.Point{p.X, p.Y})
		}
	}
	if len(points) == 0 {
		return nil, false
	}
	bound := points.Bound().Pad(tol)
	rect, err := rtreego.NewRect(
		rtreego.Point{bound.Min.X(), bound.Min.Y()},
		[]float64{bound.Max.X() - bound.Min.X(), bound.Max.Y() - bound.Min.Y()},
	)
	if err != nil {
		fatalf("invalid bounds for region %q: %v", region.Name, err)
	}
	return &RegionBounds{Index: index, Bound: bound, rect: rect}, true
}

type lockedPoint struct {
	point Point
	rect  rtreego.Rect
}

func (l *lockedPoint) Bounds() rtreego.Rect {
	return l.rect
}

// JunctionIndex is the set of locked locations. It is built once and only
// read afterwards, so any number of simplifiers can share it.
type JunctionIndex struct {
	tree      *rtreego.Rtree
	tolerance float64
	points    []Point
}

func newJunctionIndex(tol float64) *JunctionIndex {
	return &JunctionIndex{tree: rtreego.NewTree(2, 25, 50), tolerance: tol}
}

// Is p coincident with a locked location?
func (j *JunctionIndex) Locked(p Point) bool {
	if j == nil || len(j.points) == 0 {
		return false
	}
	for _, item := range j.tree.SearchIntersect(rtreego.Point{p.X, p.Y}.ToRect(j.tolerance)) {
		if item.(*lockedPoint).point.Coincident(p, j.tolerance) {
			return true
		}
	}
	return false
}

// Locked as a LockPredicate. A nil index locks nothing.
func (j *JunctionIndex) Predicate() LockPredicate {
	if j == nil {
		return nil
	}
	return j.Locked
}

// Number of distinct locked locations.
func (j *JunctionIndex) Len() int {
	if j == nil {
		return 0
	}
	return len(j.points)
}

// Every locked location, in the order found.
func (j *JunctionIndex) Points() []Point {
	if j == nil {
		return nil
	}
	result := make([]Point, len(j.points))
	copy(result, j.points)
	return result
}

func (j *JunctionIndex) add(p Point) {
	if j.Locked(p) {
		return
	}
	j.tree.Insert(&lockedPoint{point: p, rect: rtreego.Point{p.X, p.Y}.ToRect(j.tolerance)})
	j.points = append(j.points, p)
}

// Find every vertex shared by enough regions under the policy. Detached
// regions are ignored entirely: their vertices are never locked and they
// never count toward another region's match.
func DetectJunctions(ctx context.Context, regions []Region, opts JunctionOptions) (*JunctionIndex, error) {
	tol := opts.Tolerance
	if !(tol > 0) {
		tol = DefaultTolerance
	}
	index := newJunctionIndex(tol)

	tree := rtreego.NewTree(2, 25, 50)
	for i, region := range regions {
		if region.Detached {
			continue
		}
		if bounds, ok := NewRegionBounds(i, region, tol); ok {
			tree.Insert(bounds)
		}
	}

	need := opts.Policy.minOthers()
	for i, region := range regions {
		if region.Detached {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, ring := range region.Rings {
			for _, p := range ring.Points {
				if countSharing(tree, regions, i, p, tol, need) >= need {
					index.add(p)
				}
			}
		}
	}
	return index, nil
}

// Number of regions other than self with a vertex coincident with p. Stops
// counting once it reaches limit.
func countSharing(tree *rtreego.Rtree, regions []Region, self int, p Point, tol float64, limit int) int {
	query := orb.Point{p.X, p.Y}
	count := 0
	for _, item := range tree.SearchIntersect(rtreego.Point{p.X, p.Y}.ToRect(tol)) {
		candidate := item.(*RegionBounds)
		if candidate.Index == self || !candidate.Bound.Contains(query) {
			continue
		}
		if hasCoincident(regions[candidate.Index], p, tol) {
			count++
			if count >= limit {
				break
			}
		}
	}
	return count
}

func hasCoincident(region Region, p Point, tol float64) bool {
	for _, ring := range region.Rings {
		for _, q := range ring.Points {
			if q.Coincident(p, tol) {
				return true
			}
		}
	}
	return false
}
