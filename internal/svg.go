package internal

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/JoshVarga/svgparser"
	"github.com/pkg/errors"
)

// This is not a full (or even correct) svg reader. It finds every <polygon>
// element and turns each into a single-ring region, named by the element's id
// when it has one. Coordinates are taken as written; the SVG y axis is not
// flipped.
func ParseSVG(r io.Reader) ([]Region, error) {
	root, err := svgparser.Parse(r, false)
	if err != nil {
		return nil, errors.Wrap(err, "parsing svg")
	}

	var regions []Region
	for i, el := range root.FindAll("polygon") {
		name := el.Attributes["id"]
		if name == "" {
			name = fmt.Sprintf("polygon-%d", i)
		}
		points, err := parseSVGPoints(el.Attributes["points"])
		if err != nil {
			return nil, errors.Wrapf(err, "polygon %q", name)
		}
		regions = append(regions, Region{Name: name, Rings: []Polygon{{Points: points}}})
	}
	return regions, nil
}

// The points attribute is a flat list of numbers separated by whitespace
// and/or commas, taken in x, y pairs.
func parseSVGPoints(attr string) ([]Point, error) {
	fields := strings.FieldsFunc(attr, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields)%2 != 0 {
		return nil, errors.Errorf("odd number of coordinates (%d)", len(fields))
	}
	points := make([]Point, 0, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		x, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid x value %q", fields[i])
		}
		y, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid y value %q", fields[i+1])
		}
		points = append(points, Point{x, y})
	}
	return points, nil
}
