// Reduce map boundary polygons to a small number of vertices and split them
// into triangles, for rendering as basemap assets.
//
// Simplification removes the vertices that contribute the least area, until
// every remaining vertex is worth keeping (Visvalingam–Whyatt).
// Triangulation clips the most compact ear first, which keeps long slivers
// out of the output. Vertices where neighbouring regions meet can be locked,
// so shared borders still line up after each region is simplified on its own.
package geoscripts

import (
	"context"
	"math"

	"github.com/doubt72/geo-scripts/internal"
	"github.com/pkg/errors"
)

type Point = internal.Point
type Triangle = internal.Triangle
type Polygon = internal.Polygon
type TriangleList = internal.TriangleList
type Region = internal.Region
type Config = internal.Config
type SimplifyOptions = internal.SimplifyOptions
type LockPredicate = internal.LockPredicate
type JunctionPolicy = internal.JunctionPolicy
type JunctionOptions = internal.JunctionOptions
type JunctionIndex = internal.JunctionIndex
type BatchOptions = internal.BatchOptions
type RegionResult = internal.RegionResult

const (
	TriPoint     = internal.TriPoint
	SharedVertex = internal.SharedVertex

	DefaultTolerance   = internal.DefaultTolerance
	DefaultMinVertices = internal.DefaultMinVertices
)

func DefaultConfig() Config {
	return internal.DefaultConfig()
}

func checkThreshold(threshold float64) error {
	if threshold < 0 || math.IsNaN(threshold) {
		return errors.Errorf("invalid threshold %v", threshold)
	}
	return nil
}

func recoverInto(err *error) {
	if recoveredErr := internal.HandlePanicRecover(recover()); recoveredErr != nil {
		*err = recoveredErr
	}
}

// Remove every vertex whose effective area is under opts.Threshold, never
// going below opts.Config.MinVertices. Locked vertices always survive. The
// input is not modified.
func Simplify(ctx context.Context, polygon Polygon, opts SimplifyOptions) (result Polygon, err error) {
	defer recoverInto(&err)
	if err := checkThreshold(opts.Threshold); err != nil {
		return Polygon{}, err
	}
	return internal.Simplify(ctx, polygon, opts)
}

// Split a simple polygon, in either winding, into clockwise triangles.
func Triangulate(ctx context.Context, polygon Polygon, config Config) (result TriangleList, err error) {
	defer recoverInto(&err)
	return internal.Triangulate(ctx, polygon, config)
}

// Find the vertices shared between regions that simplification should lock.
func DetectJunctions(ctx context.Context, regions []Region, opts JunctionOptions) (index *JunctionIndex, err error) {
	defer recoverInto(&err)
	return internal.DetectJunctions(ctx, regions, opts)
}

// Simplify, and optionally triangulate, a whole map.
func Reduce(ctx context.Context, regions []Region, opts BatchOptions) (results []RegionResult, err error) {
	defer recoverInto(&err)
	if err := checkThreshold(opts.Threshold); err != nil {
		return nil, err
	}
	return internal.Reduce(ctx, regions, opts)
}
