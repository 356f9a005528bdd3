package mapio

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	geoscripts "github.com/doubt72/geo-scripts"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
)

// One feature per region, with its reduced rings as a MultiPolygon.
func WriteGeoJSON(w io.Writer, results []geoscripts.RegionResult) error {
	fc := geojson.NewFeatureCollection()
	for _, result := range results {
		multi := make(orb.MultiPolygon, 0, len(result.Rings))
		for _, ring := range result.Rings {
			multi = append(multi, orb.Polygon{toRing(ring.Points)})
		}
		feature := geojson.NewFeature(multi)
		feature.Properties["name"] = result.Name
		feature.Properties["vertices_in"] = result.VerticesIn
		feature.Properties["vertices_out"] = result.VerticesOut
		fc.Append(feature)
	}
	return writeCollection(w, fc)
}

// One feature per region, with each triangle as a polygon of a MultiPolygon.
func WriteTrianglesGeoJSON(w io.Writer, results []geoscripts.RegionResult) error {
	fc := geojson.NewFeatureCollection()
	for _, result := range results {
		multi := make(orb.MultiPolygon, 0, len(result.Triangles))
		for _, t := range result.Triangles {
			multi = append(multi, orb.Polygon{toRing(t.Points())})
		}
		feature := geojson.NewFeature(multi)
		feature.Properties["name"] = result.Name
		feature.Properties["triangles"] = len(result.Triangles)
		fc.Append(feature)
	}
	return writeCollection(w, fc)
}

func writeCollection(w io.Writer, fc *geojson.FeatureCollection) error {
	data, err := fc.MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "encoding geojson")
	}
	_, err = w.Write(data)
	return errors.Wrap(err, "writing geojson")
}

// Closed ring, as GeoJSON wants it.
func toRing(points []geoscripts.Point) orb.Ring {
	ring := make(orb.Ring, 0, len(points)+1)
	for _, p := range points {
		ring = append(ring, orb.Point{p.X, p.Y})
	}
	if len(ring) > 0 {
		ring = append(ring, ring[0])
	}
	return ring
}

// Bare coordinate arrays: a list of rings, each a list of [x, y] pairs, with
// every region's rings in one flat list.
func WriteJSON(w io.Writer, results []geoscripts.RegionResult) error {
	rings := [][][2]float64{}
	for _, result := range results {
		for _, ring := range result.Rings {
			rings = append(rings, coordinates(ring.Points))
		}
	}
	return errors.Wrap(json.NewEncoder(w).Encode(rings), "writing json")
}

// Bare coordinate arrays: a flat list of triangles, each three [x, y] pairs.
func WriteTrianglesJSON(w io.Writer, results []geoscripts.RegionResult) error {
	triangles := [][][2]float64{}
	for _, result := range results {
		for _, t := range result.Triangles {
			triangles = append(triangles, coordinates(t.Points()))
		}
	}
	return errors.Wrap(json.NewEncoder(w).Encode(triangles), "writing json")
}

func coordinates(points []geoscripts.Point) [][2]float64 {
	result := make([][2]float64, len(points))
	for i, p := range points {
		result[i] = [2]float64{p.X, p.Y}
	}
	return result
}

// File name label for a threshold, with the decimal point dropped ("0.003"
// becomes "0003").
func ThresholdLabel(threshold float64) string {
	return strings.Replace(strconv.FormatFloat(threshold, 'f', -1, 64), ".", "", 1)
}

// Output file name, "<prefix>_<label>.<ext>". Triangle files get a "_t"
// suffix.
func OutputPath(prefix, label string, triangles bool, format Format) string {
	name := prefix + "_" + label
	if triangles {
		name += "_t"
	}
	return name + "." + string(format)
}
