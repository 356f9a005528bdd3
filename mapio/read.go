// Package mapio reads regions from map files and writes reduced results.
// The reduction engine knows nothing about file formats; this is the only
// place they live.
package mapio

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	geoscripts "github.com/doubt72/geo-scripts"
	"github.com/doubt72/geo-scripts/internal"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
)

type Format string

const (
	GeoJSON Format = "geojson"
	Text    Format = "text"
	SVG     Format = "svg"
	JSON    Format = "json"
)

// GeoJSON feature properties that override per-region settings.
const (
	ScaleProperty    = "basemap:threshold_scale"
	DetachedProperty = "basemap:detached"
)

// Guess an input format from a file extension. Anything unrecognized is
// read as text.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return GeoJSON
	case ".svg":
		return SVG
	}
	return Text
}

func Read(r io.Reader, format Format, nameProperty string) ([]geoscripts.Region, error) {
	switch format {
	case GeoJSON:
		return ReadGeoJSON(r, nameProperty)
	case SVG:
		return ReadSVG(r)
	case Text:
		return ReadText(r)
	}
	return nil, errors.Errorf("unsupported input format %q", format)
}

// Read a FeatureCollection. Each Polygon or MultiPolygon feature becomes a
// region, with one ring per exterior boundary; holes are ignored. Other
// geometry types are skipped. Regions are named by the nameProperty
// property, falling back to the feature id and then the feature's position.
func ReadGeoJSON(r io.Reader, nameProperty string) ([]geoscripts.Region, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading geojson")
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrap(err, "parsing geojson")
	}

	var regions []geoscripts.Region
	for i, feature := range fc.Features {
		var polygons []orb.Polygon
		switch g := feature.Geometry.(type) {
		case orb.Polygon:
			polygons = []orb.Polygon{g}
		case orb.MultiPolygon:
			polygons = g
		default:
			continue
		}

		region := geoscripts.Region{
			Name:           featureName(feature, nameProperty, i),
			ThresholdScale: feature.Properties.MustFloat64(ScaleProperty, 0),
			Detached:       feature.Properties.MustBool(DetachedProperty, false),
		}
		for _, polygon := range polygons {
			if len(polygon) == 0 {
				continue
			}
			if ring := fromRing(polygon[0]); ring.Len() > 0 {
				region.Rings = append(region.Rings, ring)
			}
		}
		regions = append(regions, region)
	}
	return regions, nil
}

func featureName(feature *geojson.Feature, nameProperty string, i int) string {
	if name := feature.Properties.MustString(nameProperty, ""); name != "" {
		return name
	}
	if feature.ID != nil {
		return fmt.Sprint(feature.ID)
	}
	return fmt.Sprintf("feature-%d", i)
}

// GeoJSON rings repeat their first point at the end; ours don't.
func fromRing(ring orb.Ring) geoscripts.Polygon {
	if len(ring) > 1 && ring.Closed() {
		ring = ring[:len(ring)-1]
	}
	points := make([]geoscripts.Point, len(ring))
	for i, p := range ring {
		points[i] = geoscripts.Point{X: p.X(), Y: p.Y()}
	}
	return geoscripts.Polygon{Points: points}
}

func ReadSVG(r io.Reader) ([]geoscripts.Region, error) {
	return internal.ParseSVG(r)
}

// Read newline separated points in the form "x y", with each polygon
// separated by an extra newline. Every polygon becomes its own region.
func ReadText(r io.Reader) ([]geoscripts.Region, error) {
	var regions []geoscripts.Region
	var points []geoscripts.Point
	flush := func() {
		if len(points) > 0 {
			regions = append(regions, geoscripts.Region{
				Name:  fmt.Sprintf("polygon-%d", len(regions)),
				Rings: []geoscripts.Polygon{{Points: points}},
			})
			points = nil
		}
	}

	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())

		// If it's empty, and we collected any points, this is the end of the polygon
		if line == "" {
			flush()
			continue
		}

		point, err := parsePoint(line)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNumber)
		}
		points = append(points, point)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading points")
	}

	// Handle trailing polygon if any
	flush()
	return regions, nil
}

func parsePoint(line string) (geoscripts.Point, error) {
	parts := strings.Fields(line)
	if len(parts) != 2 {
		return geoscripts.Point{}, errors.Errorf("expected \"x y\", got %q", line)
	}
	x, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return geoscripts.Point{}, errors.Wrap(err, "invalid x")
	}
	y, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return geoscripts.Point{}, errors.Wrap(err, "invalid y")
	}
	return geoscripts.Point{X: x, Y: y}, nil
}
