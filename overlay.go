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

package brushmask

import (
	"image/color"

	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/brushmask/raster"
)

// Surface is a display-sized drawing area on top of the image preview.
// [raster.Canvas] implements this interface.
type Surface interface {
	// Clear erases everything drawn so far.
	Clear()

	// StrokePolyline draws a line through pts.
	StrokePolyline(pts []vec.Vec2, pen raster.Pen)

	// FillCircle fills a disc around center.
	FillCircle(center vec.Vec2, radius float64, pen raster.Pen)
}

// RenderOverlay clears s and draws all strokes on it. Calling it twice with
// the same arguments gives the same picture.
func RenderOverlay(s Surface, strokes []Stroke, c color.NRGBA) {
	s.Clear()
	for _, stroke := range strokes {
		drawStroke(s, stroke, c)
	}
}

// PaintLatest draws the newest point of a stroke in progress: a dot for
// the first point, otherwise the segment from the previous point
// followed by a dot.
func PaintLatest(s Surface, stroke Stroke, c color.NRGBA) {
	n := len(stroke)
	if n == 0 {
		return
	}
	pen := brushPen(stroke, c)
	last := stroke[n-1]
	if n > 1 {
		prev := stroke[n-2]
		s.StrokePolyline([]vec.Vec2{{X: prev.X, Y: prev.Y}, {X: last.X, Y: last.Y}}, pen)
	}
	s.FillCircle(vec.Vec2{X: last.X, Y: last.Y}, pen.Width/2, pen)
}

// drawStroke draws a single-point stroke as a dot, and longer strokes as a
// round polyline with a dot at every point.
func drawStroke(s Surface, stroke Stroke, c color.NRGBA) {
	if len(stroke) == 0 {
		return
	}
	pen := brushPen(stroke, c)
	if len(stroke) > 1 {
		pts := make([]vec.Vec2, len(stroke))
		for i, p := range stroke {
			pts[i] = vec.Vec2{X: p.X, Y: p.Y}
		}
		s.StrokePolyline(pts, pen)
	}
	for _, p := range stroke {
		s.FillCircle(vec.Vec2{X: p.X, Y: p.Y}, pen.Width/2, pen)
	}
}

// brushPen derives the pen for a stroke from its first point.
func brushPen(stroke Stroke, c color.NRGBA) raster.Pen {
	return raster.Pen{
		Width: stroke[0].Size,
		Cap:   graphics.LineCapRound,
		Join:  graphics.LineJoinRound,
		Color: c,
		Alpha: stroke[0].Opacity,
	}
}
