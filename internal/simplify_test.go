package internal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simplify(t *testing.T, polygon Polygon, opts SimplifyOptions) Polygon {
	t.Helper()
	result, err := Simplify(context.Background(), polygon, opts)
	require.NoError(t, err)
	return result
}

func TestSimplify_SquareWithMidpoint(t *testing.T) {
	square := SquareWithMidpoint()
	result := simplify(t, square, SimplifyOptions{Threshold: 0.1})
	assert.Equal(t, []Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}, result.Points)

	// Everything left is worth 0.5, so even with room to go lower it stops
	result = simplify(t, square, SimplifyOptions{Threshold: 0.1, Config: Config{MinVertices: 3}})
	assert.Len(t, result.Points, 4)

	// The caller's polygon is untouched
	assert.Equal(t, SquareWithMidpoint(), square)
}

func TestSimplify_TriangleIsUnchanged(t *testing.T) {
	triangle := Polygon{[]Point{{0, 0}, {1, 0}, {0, 1}}}
	result := simplify(t, triangle, SimplifyOptions{Threshold: 100})
	assert.Equal(t, triangle, result)

	result.Points[0].X = 5
	assert.Equal(t, 0.0, triangle.Points[0].X, "result must be a copy")
}

func TestSimplify_ZeroThresholdKeepsEverything(t *testing.T) {
	square := SquareWithMidpoint()
	assert.Equal(t, square, simplify(t, square, SimplifyOptions{}))
}

func TestSimplify_Idempotent(t *testing.T) {
	for _, polygon := range []Polygon{Wobble(300), LoadFixture("coastline"), LoadFixture("spiral")} {
		for _, threshold := range []float64{0.01, 0.5, 5} {
			opts := SimplifyOptions{Threshold: threshold}
			once := simplify(t, polygon, opts)
			twice := simplify(t, once, opts)
			assert.Equal(t, once, twice, "threshold %v", threshold)
		}
	}
}

func TestSimplify_MonotonicInThreshold(t *testing.T) {
	coastline := LoadFixture("coastline")
	previous := coastline
	for _, threshold := range []float64{0, 0.1, 0.5, 2, 10, 50, 1e6} {
		result := simplify(t, coastline, SimplifyOptions{Threshold: threshold})
		assert.LessOrEqual(t, result.Len(), previous.Len(), "threshold %v", threshold)
		assert.GreaterOrEqual(t, result.Len(), DefaultMinVertices)
		assert.Subset(t, previous.Points, result.Points, "higher thresholds only remove more vertices")
		previous = result
	}
	assert.Len(t, previous.Points, DefaultMinVertices)
}

func TestSimplify_KeepsOrder(t *testing.T) {
	coastline := LoadFixture("coastline")
	result := simplify(t, coastline, SimplifyOptions{Threshold: 2})
	require.Less(t, result.Len(), coastline.Len())

	j := 0
	for _, p := range result.Points {
		for j < coastline.Len() && coastline.Points[j] != p {
			j++
		}
		require.Less(t, j, coastline.Len(), "%v is out of order", p)
	}
}

func TestSimplify_LockedVerticesSurvive(t *testing.T) {
	coastline := LoadFixture("coastline")
	locked := map[Point]bool{}
	for i := 0; i < coastline.Len(); i += 10 {
		locked[coastline.Points[i]] = true
	}

	result := simplify(t, coastline, SimplifyOptions{
		Threshold: 1e6,
		Locked:    func(p Point) bool { return locked[p] },
	})
	assert.Len(t, result.Points, len(locked))
	for p := range locked {
		assert.Contains(t, result.Points, p)
	}
}

func TestSimplify_DropCollapsed(t *testing.T) {
	square := Polygon{[]Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}}

	t.Run("too small to keep", func(t *testing.T) {
		result := simplify(t, square, SimplifyOptions{Threshold: 10, DropCollapsed: true})
		assert.Zero(t, result.Len())
	})

	t.Run("without the option", func(t *testing.T) {
		result := simplify(t, square, SimplifyOptions{Threshold: 10})
		assert.Equal(t, square, result)
	})

	t.Run("big enough", func(t *testing.T) {
		result := simplify(t, square, SimplifyOptions{Threshold: 0.1, DropCollapsed: true})
		assert.Equal(t, square, result)
	})

	t.Run("pinned by a lock", func(t *testing.T) {
		result := simplify(t, square, SimplifyOptions{
			Threshold:     10,
			DropCollapsed: true,
			Locked:        func(p Point) bool { return p == Point{1, 1} },
		})
		assert.Equal(t, square, result)
	})

	t.Run("triangle", func(t *testing.T) {
		triangle := Polygon{[]Point{{0, 0}, {1, 0}, {0, 1}}}
		assert.Zero(t, simplify(t, triangle, SimplifyOptions{Threshold: 1, DropCollapsed: true}).Len())
		assert.Equal(t, triangle, simplify(t, triangle, SimplifyOptions{Threshold: 0.1, DropCollapsed: true}))
	})

	t.Run("degenerate", func(t *testing.T) {
		line := Polygon{[]Point{{0, 0}, {1, 0}}}
		assert.Zero(t, simplify(t, line, SimplifyOptions{DropCollapsed: true}).Len())
		assert.Equal(t, line, simplify(t, line, SimplifyOptions{}))
	})
}

func TestSimplify_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Simplify(ctx, LoadFixture("coastline"), SimplifyOptions{Threshold: 1})
	assert.ErrorIs(t, err, context.Canceled)
}
