package internal

import (
	"io"
	"math"

	"github.com/fogleman/gg"
	imgcat "github.com/martinlindhe/imgcat/lib"
	"github.com/pkg/errors"
)

// Rendering of reduced rings and their triangles, for eyeballing results.
// Triangles are filled in alternating shades so slivers stand out, ring
// outlines are stroked on top, and locked junctions are marked in red.

const drawPadding = 20

// Neither side of a rendered image exceeds this; the scale shrinks to fit.
const maxDrawSize = 8192

type Drawing struct {
	Rings     PolygonList
	Triangles TriangleList
	Locked    []Point
}

func (d Drawing) bounds() (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	extend := func(p Point) {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	for _, poly := range d.Rings {
		for _, p := range poly.Points {
			extend(p)
		}
	}
	for _, t := range d.Triangles {
		extend(t.A)
		extend(t.B)
		extend(t.C)
	}
	if math.IsInf(minX, 1) {
		return 0, 0, 0, 0
	}
	return
}

// Render onto a new context, scale pixels per unit, y up.
func (d Drawing) Render(scale float64) *gg.Context {
	if !(scale > 0) {
		scale = 1
	}
	minX, minY, maxX, maxY := d.bounds()
	if extent := math.Max(maxX-minX, maxY-minY) * scale; extent > maxDrawSize-2*drawPadding {
		scale *= (maxDrawSize - 2*drawPadding) / extent
	}

	width := int(scale*(maxX-minX)) + drawPadding*2
	height := int(scale*(maxY-minY)) + drawPadding*2
	c := gg.NewContext(width, height)
	c.SetRGB(0, 0, 0)
	c.DrawRectangle(0, 0, float64(width), float64(height))
	c.Fill()

	// Flip the context so the origin is at the bottom left
	c.Translate(0, float64(height))
	c.Scale(1, -1)
	c.Translate(drawPadding, drawPadding)
	c.Scale(scale, scale)
	c.Translate(-minX, -minY)

	for i, t := range d.Triangles {
		c.MoveTo(t.A.X, t.A.Y)
		c.LineTo(t.B.X, t.B.Y)
		c.LineTo(t.C.X, t.C.Y)
		c.ClosePath()
		if i%2 == 0 {
			c.SetRGBA(0.3, 0.2, 1, 0.6)
		} else {
			c.SetRGBA(0.2, 0.6, 1, 0.6)
		}
		c.FillPreserve()
		c.SetRGBA(1, 1, 1, 0.3)
		c.SetLineWidth(1 / scale)
		c.Stroke()
	}

	c.SetLineWidth(2 / scale)
	for _, poly := range d.Rings {
		if poly.Len() == 0 {
			continue
		}
		c.MoveTo(poly.Points[0].X, poly.Points[0].Y)
		for _, p := range poly.Points[1:] {
			c.LineTo(p.X, p.Y)
		}
		c.ClosePath()
	}
	if len(d.Triangles) == 0 {
		c.SetFillRuleEvenOdd()
		c.SetRGB(0, 0.5, 0)
		c.FillPreserve()
	}
	c.SetRGB(0, 1, 1)
	c.Stroke()

	c.SetRGB(1, 0, 0)
	for _, p := range d.Locked {
		c.DrawCircle(p.X, p.Y, 3/scale)
		c.Fill()
	}
	return c
}

func (d Drawing) EncodePNG(w io.Writer, scale float64) error {
	return errors.Wrap(d.Render(scale).EncodePNG(w), "encoding png")
}

func (d Drawing) SavePNG(path string, scale float64) error {
	return errors.Wrapf(d.Render(scale).SavePNG(path), "saving %s", path)
}

// Print a saved image inline in the terminal (iTerm only).
func Preview(path string, w io.Writer) error {
	return errors.Wrapf(imgcat.CatFile(path, w), "previewing %s", path)
}
