package internal

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/doubt72/geo-scripts/internal/logger"
	"github.com/pkg/errors"
)

type BatchOptions struct {
	// Base simplification threshold, scaled per region by ThresholdScale.
	Threshold     float64
	Config        Config
	DropCollapsed bool
	// Lock junction vertices before simplifying.
	Junctions bool
	Junction  JunctionOptions
	// Also triangulate every simplified ring.
	Triangulate bool
	// Zero means GOMAXPROCS.
	Workers int
	// Defaults to the process logger.
	Logger *slog.Logger
}

type RegionResult struct {
	Name      string
	Rings     []Polygon
	Triangles TriangleList
	// Vertex counts before and after simplification.
	VerticesIn  int
	VerticesOut int
}

// Simplify, and optionally triangulate, every region. Results come back in
// input order no matter how the work was spread across workers. The first
// failure cancels the remaining work and is returned.
func Reduce(ctx context.Context, regions []Region, opts BatchOptions) ([]RegionResult, error) {
	log := opts.Logger
	if log == nil {
		log = logger.L()
	}
	config := opts.Config.withDefaults()
	start := time.Now()

	var junctions *JunctionIndex
	if opts.Junctions {
		junctionOpts := opts.Junction
		if !(junctionOpts.Tolerance > 0) {
			junctionOpts.Tolerance = config.Tolerance
		}
		var err error
		junctions, err = DetectJunctions(ctx, regions, junctionOpts)
		if err != nil {
			return nil, errors.Wrap(err, "detecting junctions")
		}
		log.Debug("junctions detected", "policy", junctionOpts.Policy.String(), "locked", junctions.Len())
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(regions) {
		workers = len(regions)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]RegionResult, len(regions))
	jobs := make(chan int)
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				result, err := reduceRegion(ctx, regions[i], opts, config, junctions)
				if err != nil {
					fail(errors.Wrapf(err, "region %q", regions[i].Name))
					continue
				}
				results[i] = result
				log.Debug("region reduced",
					"region", result.Name,
					"rings", len(result.Rings),
					"points_in", result.VerticesIn,
					"points_out", result.VerticesOut,
					"triangles", len(result.Triangles),
				)
			}
		}()
	}

feed:
	for i := range regions {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rings, points, triangles int
	for _, result := range results {
		rings += len(result.Rings)
		points += result.VerticesOut
		triangles += len(result.Triangles)
	}
	log.Info("reduced",
		"threshold", opts.Threshold,
		"regions", len(regions),
		"polygons", rings,
		"points", points,
		"triangles", triangles,
		"elapsed", time.Since(start),
	)
	return results, nil
}

// One region on one worker. Geometry panics come back as errors.
func reduceRegion(ctx context.Context, region Region, opts BatchOptions, config Config, junctions *JunctionIndex) (result RegionResult, err error) {
	defer func() {
		if recoveredErr := HandlePanicRecover(recover()); recoveredErr != nil {
			result = RegionResult{}
			err = recoveredErr
		}
	}()

	scale := region.ThresholdScale
	if scale == 0 {
		scale = 1
	}
	simplifyOpts := SimplifyOptions{
		Threshold:     opts.Threshold * scale,
		DropCollapsed: opts.DropCollapsed,
		Config:        config,
	}
	// Detached regions are drawn elsewhere, so a neighbour's junction that
	// happens to land on one of their vertices must not pin it.
	if !region.Detached {
		simplifyOpts.Locked = junctions.Predicate()
	}

	result.Name = region.Name
	for _, ring := range region.Rings {
		result.VerticesIn += ring.Len()
		simplified, err := Simplify(ctx, ring, simplifyOpts)
		if err != nil {
			return RegionResult{}, err
		}
		if simplified.Len() == 0 {
			continue
		}
		result.Rings = append(result.Rings, simplified)
		result.VerticesOut += simplified.Len()

		if opts.Triangulate {
			triangles, err := Triangulate(ctx, simplified, config)
			if err != nil {
				return RegionResult{}, err
			}
			result.Triangles = append(result.Triangles, triangles...)
		}
	}
	return result, nil
}
