// Command basemap turns boundary files into reduced-vertex basemap assets.
//
//	basemap reduce --threshold 0.001 --threshold 0.01 --junctions --triangulate world.geojson
//	basemap triangulate --png --imgcat outline.svg
//
// reduce writes one file per threshold, "<out>_<threshold>.<ext>", and with
// --triangulate a matching "<out>_<threshold>_t.<ext>" of triangles.
// triangulate skips simplification and writes "<out>_raw_t.<ext>".
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	geoscripts "github.com/doubt72/geo-scripts"
	"github.com/doubt72/geo-scripts/internal"
	"github.com/doubt72/geo-scripts/internal/logger"
	"github.com/doubt72/geo-scripts/mapio"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/alecthomas/kingpin.v2"
)

type options struct {
	input        string
	format       string
	nameProperty string
	out          string
	outputFormat string

	thresholds     []float64
	tolerance      float64
	minVertices    int
	junctions      bool
	junctionPolicy string
	dropCollapsed  bool
	triangulate    bool
	workers        int
	validate       bool

	png    bool
	scale  float64
	imgcat bool
}

func main() {
	_ = godotenv.Load(".env")
	log := logger.Setup()

	var opts options
	app := kingpin.New("basemap", "Reduce and triangulate map boundaries.")
	app.Flag("format", "Input format: geojson, text or svg. Guessed from the file extension by default.").
		Envar("BASEMAP_FORMAT").EnumVar(&opts.format, "geojson", "text", "svg")
	app.Flag("name-property", "GeoJSON property holding region names.").
		Default("name").StringVar(&opts.nameProperty)
	app.Flag("out", "Output file prefix. Defaults to the input path without its extension.").
		StringVar(&opts.out)
	app.Flag("output-format", "Output format: geojson or json (bare coordinate arrays).").
		Envar("BASEMAP_OUTPUT_FORMAT").Default("geojson").EnumVar(&opts.outputFormat, "geojson", "json")
	app.Flag("tolerance", "Distance at which two points are the same location.").
		Envar("BASEMAP_TOLERANCE").Default("0.000009").Float64Var(&opts.tolerance)
	app.Flag("workers", "Regions processed in parallel. 0 means one per CPU.").
		Envar("BASEMAP_WORKERS").Default("0").IntVar(&opts.workers)
	app.Flag("validate", "Warn about self-intersecting input rings.").BoolVar(&opts.validate)
	app.Flag("png", "Also render each output to a png.").BoolVar(&opts.png)
	app.Flag("scale", "Pixels per map unit in rendered pngs.").Default("1").Float64Var(&opts.scale)
	app.Flag("imgcat", "Print rendered pngs in the terminal (iTerm only).").BoolVar(&opts.imgcat)

	reduceCmd := app.Command("reduce", "Simplify every region at one or more thresholds.")
	reduceCmd.Arg("input", "Input file, or - for stdin.").Required().StringVar(&opts.input)
	reduceCmd.Flag("threshold", "Effective area below which vertices are removed. Repeatable.").
		Short('t').Envar("BASEMAP_THRESHOLD").Default("0.001").Float64ListVar(&opts.thresholds)
	reduceCmd.Flag("min-vertices", "Never simplify a ring below this many vertices.").
		Default("4").IntVar(&opts.minVertices)
	reduceCmd.Flag("junctions", "Lock vertices shared between regions.").BoolVar(&opts.junctions)
	reduceCmd.Flag("junction-policy", "tripoint locks where three regions meet; shared locks every shared vertex.").
		Default("tripoint").EnumVar(&opts.junctionPolicy, "tripoint", "shared")
	reduceCmd.Flag("drop-collapsed", "Drop rings too small to survive the threshold.").BoolVar(&opts.dropCollapsed)
	reduceCmd.Flag("triangulate", "Also write triangles for each threshold.").BoolVar(&opts.triangulate)

	triangulateCmd := app.Command("triangulate", "Triangulate every region without simplifying.")
	triangulateCmd.Arg("input", "Input file, or - for stdin.").Required().StringVar(&opts.input)

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch command {
	case reduceCmd.FullCommand():
		err = runReduce(ctx, log, opts)
	case triangulateCmd.FullCommand():
		err = runTriangulate(ctx, log, opts)
	}
	if err != nil {
		log.Error("basemap failed", "command", command, "err", err)
		os.Exit(1)
	}
}

func (o options) config() geoscripts.Config {
	return geoscripts.Config{Tolerance: o.tolerance, MinVertices: o.minVertices}
}

func (o options) policy() geoscripts.JunctionPolicy {
	if o.junctionPolicy == "shared" {
		return geoscripts.SharedVertex
	}
	return geoscripts.TriPoint
}

func (o options) prefix() string {
	if o.out != "" {
		return o.out
	}
	if o.input == "-" {
		return "basemap"
	}
	return strings.TrimSuffix(o.input, filepath.Ext(o.input))
}

func runReduce(ctx context.Context, log *slog.Logger, opts options) error {
	regions, err := readRegions(log, opts)
	if err != nil {
		return err
	}

	var locked []geoscripts.Point
	if opts.junctions && opts.png {
		index, err := geoscripts.DetectJunctions(ctx, regions, geoscripts.JunctionOptions{
			Policy:    opts.policy(),
			Tolerance: opts.tolerance,
		})
		if err != nil {
			return errors.Wrap(err, "detecting junctions")
		}
		locked = index.Points()
	}

	for _, threshold := range opts.thresholds {
		results, err := geoscripts.Reduce(ctx, regions, geoscripts.BatchOptions{
			Threshold:     threshold,
			Config:        opts.config(),
			DropCollapsed: opts.dropCollapsed,
			Junctions:     opts.junctions,
			Junction:      geoscripts.JunctionOptions{Policy: opts.policy(), Tolerance: opts.tolerance},
			Triangulate:   opts.triangulate,
			Workers:       opts.workers,
			Logger:        log.With("threshold", threshold),
		})
		if err != nil {
			return errors.Wrapf(err, "reducing at threshold %v", threshold)
		}
		if err := writeResults(log, opts, mapio.ThresholdLabel(threshold), results, opts.triangulate, locked); err != nil {
			return err
		}
	}
	return nil
}

func runTriangulate(ctx context.Context, log *slog.Logger, opts options) error {
	regions, err := readRegions(log, opts)
	if err != nil {
		return err
	}
	results, err := geoscripts.Reduce(ctx, regions, geoscripts.BatchOptions{
		Config:      opts.config(),
		Triangulate: true,
		Workers:     opts.workers,
		Logger:      log,
	})
	if err != nil {
		return errors.Wrap(err, "triangulating")
	}
	return writeResults(log, opts, "raw", results, true, nil)
}

func readRegions(log *slog.Logger, opts options) ([]geoscripts.Region, error) {
	format := mapio.Format(opts.format)
	if format == "" {
		format = mapio.FormatFromPath(opts.input)
	}

	var r io.Reader = os.Stdin
	if opts.input != "-" {
		f, err := os.Open(opts.input)
		if err != nil {
			return nil, errors.Wrap(err, "opening input")
		}
		defer f.Close()
		r = f
	}
	regions, err := mapio.Read(r, format, opts.nameProperty)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", opts.input)
	}

	tolerance := opts.tolerance
	if !(tolerance > 0) {
		tolerance = geoscripts.DefaultTolerance
	}
	var rings, points int
	for _, region := range regions {
		for _, ring := range region.Rings {
			rings++
			points += ring.Len()
			if !opts.validate {
				continue
			}
			if crossings := ring.SelfIntersections(tolerance); len(crossings) > 0 {
				log.Warn("self-intersecting ring", "region", region.Name, "crossings", len(crossings))
			}
		}
	}
	log.Info("read input", "path", opts.input, "format", string(format), "regions", len(regions), "polygons", rings, "points", points)
	return regions, nil
}

func writeResults(log *slog.Logger, opts options, label string, results []geoscripts.RegionResult, triangles bool, locked []geoscripts.Point) error {
	format := mapio.Format(opts.outputFormat)
	writeRings, writeTriangles := mapio.WriteGeoJSON, mapio.WriteTrianglesGeoJSON
	if format == mapio.JSON {
		writeRings, writeTriangles = mapio.WriteJSON, mapio.WriteTrianglesJSON
	}

	prefix := opts.prefix()
	path := mapio.OutputPath(prefix, label, false, format)
	if err := writeFile(path, results, writeRings); err != nil {
		return err
	}
	log.Info("wrote polygons", "path", path)

	if triangles {
		path := mapio.OutputPath(prefix, label, true, format)
		if err := writeFile(path, results, writeTriangles); err != nil {
			return err
		}
		log.Info("wrote triangles", "path", path)
	}

	if opts.png {
		drawing := internal.Drawing{Locked: locked}
		for _, result := range results {
			drawing.Rings = append(drawing.Rings, result.Rings...)
			drawing.Triangles = append(drawing.Triangles, result.Triangles...)
		}
		path := prefix + "_" + label + ".png"
		if err := drawing.SavePNG(path, opts.scale); err != nil {
			return err
		}
		log.Info("wrote png", "path", path)
		if opts.imgcat {
			if err := internal.Preview(path, os.Stdout); err != nil {
				log.Warn("imgcat preview failed", "path", path, "err", err)
			}
		}
	}
	return nil
}

func writeFile(path string, results []geoscripts.RegionResult, write func(io.Writer, []geoscripts.RegionResult) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating output")
	}
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = errors.Wrapf(closeErr, "closing %s", path)
		}
	}()
	return errors.Wrapf(write(f, results), "writing %s", path)
}
