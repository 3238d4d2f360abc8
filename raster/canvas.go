// seehuhn.de/go/brushmask - brush masks for image text removal
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package raster

import (
	"image"
	"image/color"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// Pen describes how a single drawing operation is painted.
type Pen struct {
	Width float64
	Cap   graphics.LineCapStyle
	Join  graphics.LineJoinStyle
	Color color.NRGBA

	// Alpha is multiplied into the alpha channel of Color.
	Alpha float64
}

// Canvas is a transparent RGBA drawing surface. Each drawing operation is
// composited onto the existing pixels using source-over blending.
//
// A Canvas is not safe for concurrent use.
type Canvas struct {
	img *image.RGBA
	r   *Rasteriser
}

// NewCanvas allocates a transparent canvas of the given size.
func NewCanvas(width, height int) *Canvas {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	clip := rect.Rect{URx: float64(width), URy: float64(height)}
	return &Canvas{img: img, r: NewRasteriser(clip)}
}

// Image returns the pixels of the canvas. The image is shared with the
// canvas and changes with later drawing operations.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Clear makes every pixel transparent.
func (c *Canvas) Clear() {
	clear(c.img.Pix)
}

// StrokePolyline draws a line through pts using the width, caps and joins
// of the pen.
func (c *Canvas) StrokePolyline(pts []vec.Vec2, pen Pen) {
	if len(pts) == 0 || pen.Width <= 0 {
		return
	}
	c.r.Reset(c.r.Clip)
	c.r.Width = pen.Width
	c.r.Cap = pen.Cap
	c.r.Join = pen.Join
	c.r.Stroke(Polyline(pts), c.painter(pen))
}

// FillCircle fills a disc around center.
func (c *Canvas) FillCircle(center vec.Vec2, radius float64, pen Pen) {
	if radius <= 0 {
		return
	}
	c.r.Reset(c.r.Clip)
	c.r.Fill(Circle(center, radius), c.painter(pen))
}

// painter returns an emit callback which blends pen colour, scaled by the
// pixel coverage, into the canvas.
func (c *Canvas) painter(pen Pen) func(y, xMin int, coverage []float32) {
	alpha := float32(pen.Color.A) / 255 * float32(min(max(pen.Alpha, 0), 1))
	red := float32(pen.Color.R)
	green := float32(pen.Color.G)
	blue := float32(pen.Color.B)

	return func(y, xMin int, coverage []float32) {
		row := c.img.Pix[c.img.PixOffset(xMin, y):]
		for i, cov := range coverage {
			a := cov * alpha
			if a <= 0 {
				continue
			}
			keep := 1 - a
			px := row[4*i : 4*i+4 : 4*i+4]
			px[0] = uint8(red*a + float32(px[0])*keep + 0.5)
			px[1] = uint8(green*a + float32(px[1])*keep + 0.5)
			px[2] = uint8(blue*a + float32(px[2])*keep + 0.5)
			px[3] = uint8(255*a + float32(px[3])*keep + 0.5)
		}
	}
}
