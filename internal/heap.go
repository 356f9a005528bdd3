package internal

import (
	"fmt"

	"github.com/doubt72/geo-scripts/dbg"
	"github.com/logrusorgru/aurora"
)

// An array-backed binary min-heap whose nodes are also the vertices of a
// ring. Each node links to its current previous and next vertex, so when the
// cheapest vertex is popped its neighbours can be spliced together and
// rescored in O(log n), without ever searching the polygon.
//
// Nodes live in an arena and refer to each other by Handle, an index into
// that arena. A handle stays valid for the life of the heap, even after the
// node has left the ring.
//
// Popping a node is the single operation that deletes a vertex: the node
// leaves the heap and the ring together. Locked nodes are the exception. When
// one reaches the top it is dropped from the heap so it can never be popped,
// but it stays in the ring, and its neighbours keep scoring against it.

type Handle int

// Marks a missing link.
const NoHandle Handle = -1

type HeapNode struct {
	Point Point
	// Score from the strategy; the heap pops the smallest first.
	Metric float64
	// Locked nodes are never popped.
	Locked bool
	// Current neighbours in the ring.
	Prev, Next Handle

	slot    int // index in Heap.items, -1 once out of the heap
	removed bool
}

// A Strategy scores a vertex from its current neighbours. It is called
// whenever a node's links change, and must depend only on the node and the
// ring around it.
type Strategy interface {
	Metric(h *Heap, n Handle) float64
}

type StrategyFunc func(h *Heap, n Handle) float64

func (f StrategyFunc) Metric(h *Heap, n Handle) float64 {
	return f(h, n)
}

type Heap struct {
	nodes    []HeapNode
	items    []Handle
	strategy Strategy
	live     int
	head     Handle // lowest surviving insertion index; where ring walks start
}

func NewHeap(strategy Strategy, capacity int) *Heap {
	return &Heap{
		nodes:    make([]HeapNode, 0, capacity),
		items:    make([]Handle, 0, capacity),
		strategy: strategy,
		head:     NoHandle,
	}
}

// Add a vertex. Its links are unset until Link or LinkRing is called.
func (h *Heap) Insert(p Point, metric float64, locked bool) Handle {
	handle := Handle(len(h.nodes))
	h.nodes = append(h.nodes, HeapNode{
		Point:  p,
		Metric: metric,
		Locked: locked,
		Prev:   NoHandle,
		Next:   NoHandle,
		slot:   len(h.items),
	})
	h.items = append(h.items, handle)
	h.up(len(h.items) - 1)
	h.live++
	if h.head == NoHandle {
		h.head = handle
	}
	return handle
}

// Record ring adjacency for a node. Every node must be linked before the
// first pop.
func (h *Heap) Link(n, next, prev Handle) {
	h.node(next)
	h.node(prev)
	node := h.node(n)
	node.Next = next
	node.Prev = prev
}

// Link all nodes into a ring in insertion order.
func (h *Heap) LinkRing() {
	count := len(h.nodes)
	for i := 0; i < count; i++ {
		h.Link(Handle(i), Handle(CircularIndex(i+1, count)), Handle(CircularIndex(i-1, count)))
	}
}

// Rescore every node from its current links and rebuild the heap order.
// O(n).
func (h *Heap) Init() {
	for i := range h.nodes {
		if h.nodes[i].removed {
			continue
		}
		h.nodes[i].Metric = h.strategy.Metric(h, Handle(i))
	}
	n := len(h.items)
	for i := n/2 - 1; i >= 0; i-- {
		h.down(i, n)
	}
}

// Rescore a node from its current neighbours and move it to its place in the
// heap.
func (h *Heap) Recalculate(n Handle) {
	node := h.node(n)
	node.Metric = h.strategy.Metric(h, n)
	if node.slot >= 0 {
		h.fix(node.slot)
	}
}

// The unlocked node with the smallest metric, without removing it. Locked
// nodes found at the top on the way are dropped from the heap.
func (h *Heap) Peek() (Handle, bool) {
	for len(h.items) > 0 {
		root := h.items[0]
		if !h.nodes[root].Locked {
			return root, true
		}
		h.removeSlot(0)
	}
	return NoHandle, false
}

// Remove the unlocked node with the smallest metric from both the heap and
// the ring. Its neighbours are spliced together and rescored. The popped node
// keeps its old Prev and Next, so the caller can still see what surrounded
// it.
func (h *Heap) PopMin() (Handle, bool) {
	n, ok := h.Peek()
	if !ok {
		return NoHandle, false
	}
	h.removeSlot(0)
	h.unlink(n)
	return n, true
}

// Delete an arbitrary vertex, locked or not.
func (h *Heap) Remove(n Handle) {
	node := h.node(n)
	if node.slot >= 0 {
		h.removeSlot(node.slot)
	}
	h.unlink(n)
}

func (h *Heap) Node(n Handle) HeapNode {
	return *h.node(n)
}

func (h *Heap) Point(n Handle) Point {
	return h.node(n).Point
}

// Is the node still a vertex of the ring?
func (h *Heap) Contains(n Handle) bool {
	return !h.node(n).removed
}

// Number of vertices left in the ring.
func (h *Heap) Len() int {
	return h.live
}

// Number of nodes still eligible for popping, locked ones included.
func (h *Heap) Pending() int {
	return len(h.items)
}

// Does the ring still hold a locked vertex?
func (h *Heap) HasLocked() bool {
	found := false
	h.each(func(n Handle) {
		if h.nodes[n].Locked {
			found = true
		}
	})
	return found
}

// The ring as a polygon, starting from the earliest inserted vertex still
// present, so the surviving points keep their input order.
func (h *Heap) Polygon() Polygon {
	points := make([]Point, 0, h.live)
	h.each(func(n Handle) {
		points = append(points, h.nodes[n].Point)
	})
	return Polygon{Points: points}
}

func (h *Heap) each(fn func(Handle)) {
	n := h.head
	for i := 0; i < h.live; i++ {
		fn(n)
		n = h.nodes[n].Next
	}
}

func (h *Heap) String() string {
	return fmt.Sprintf("Heap { ring: %d, pending: %d }", h.live, len(h.items))
}

// Readable description of a node for diagnostics. Locked nodes are red,
// removed ones grey.
func (h *Heap) Describe(n Handle) string {
	if n == NoHandle {
		return "Ø"
	}
	node := h.node(n)
	name := dbg.Name(nodeKey{n, node.Point})
	switch {
	case node.removed:
		name = aurora.Gray(12, name).String()
	case node.Locked:
		name = aurora.Red(name).String()
	default:
		name = aurora.Green(name).String()
	}
	return fmt.Sprintf("%s(%d) <%v, %v> metric=%g", name, n, node.Point.X, node.Point.Y, node.Metric)
}

// Names are keyed by value so the name memo never holds on to a heap.
type nodeKey struct {
	handle Handle
	point  Point
}

func (h *Heap) node(n Handle) *HeapNode {
	if n < 0 || int(n) >= len(h.nodes) {
		fatalf("heap handle %d out of range [0, %d)", n, len(h.nodes))
	}
	return &h.nodes[n]
}

// Splice a node out of the ring and rescore its neighbours.
func (h *Heap) unlink(n Handle) {
	node := h.node(n)
	if node.removed {
		fatalf("cannot delete vertex %s: not in the polygon", h.Describe(n))
	}
	if node.Prev == NoHandle || node.Next == NoHandle {
		fatalf("cannot delete vertex %s: never linked", h.Describe(n))
	}
	prev, next := node.Prev, node.Next
	h.nodes[prev].Next = next
	h.nodes[next].Prev = prev
	node.removed = true
	h.live--
	if h.head == n {
		h.head = next
		if h.live == 0 {
			h.head = NoHandle
		}
	}
	if h.live == 0 {
		return
	}
	h.Recalculate(prev)
	if next != prev {
		h.Recalculate(next)
	}
}

// Take the item at slot i out of the heap and restore order.
func (h *Heap) removeSlot(i int) {
	if i < 0 || i >= len(h.items) {
		fatalf("heap underflow: slot %d of %d", i, len(h.items))
	}
	last := len(h.items) - 1
	removed := h.items[i]
	if i != last {
		h.swap(i, last)
	}
	h.items = h.items[:last]
	h.nodes[removed].slot = -1
	if i != last {
		h.fix(i)
	}
}

// Ties go to the earlier handle so that runs are reproducible.
func (h *Heap) less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	ma, mb := h.nodes[a].Metric, h.nodes[b].Metric
	if ma != mb {
		return ma < mb
	}
	return a < b
}

func (h *Heap) swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.nodes[h.items[i]].slot = i
	h.nodes[h.items[j]].slot = j
}

func (h *Heap) fix(i int) {
	if !h.down(i, len(h.items)) {
		h.up(i)
	}
}

func (h *Heap) up(j int) {
	for {
		i := (j - 1) / 2 // parent
		if i == j || !h.less(j, i) {
			break
		}
		h.swap(i, j)
		j = i
	}
}

func (h *Heap) down(i0, n int) bool {
	i := i0
	for {
		j1 := 2*i + 1
		if j1 >= n || j1 < 0 { // j1 < 0 after int overflow
			break
		}
		j := j1 // left child
		if j2 := j1 + 1; j2 < n && h.less(j2, j1) {
			j = j2 // right child
		}
		if !h.less(j, i) {
			break
		}
		h.swap(i, j)
		i = j
	}
	return i > i0
}
