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
	"fmt"
	"image"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/brushmask/raster"
)

// maskThreshold is the pixel coverage from which a mask pixel is marked.
const maskThreshold = 0.5

// Rasterize draws the strokes, given in display coordinates, into a mask
// of size nativeW×nativeH. Marked pixels are white (255), all other pixels
// are black (0). Brush opacity is ignored.
func Rasterize(strokes []Stroke, nativeW, nativeH int, s Scale) (*image.Gray, error) {
	if len(strokes) == 0 {
		return nil, ErrEmptyStrokeHistory
	}
	if nativeW <= 0 || nativeH <= 0 {
		return nil, fmt.Errorf("%w: mask size %dx%d", ErrInvalidDimensions, nativeW, nativeH)
	}
	if !s.valid() {
		return nil, fmt.Errorf("%w: scale %gx%g", ErrInvalidDimensions, s.X, s.Y)
	}

	mask := image.NewGray(image.Rect(0, 0, nativeW, nativeH))
	r := raster.NewRasteriser(rect.Rect{URx: float64(nativeW), URy: float64(nativeH)})
	emit := func(y, xMin int, coverage []float32) {
		row := mask.Pix[mask.PixOffset(xMin, y):]
		for i, c := range coverage {
			if c >= maskThreshold {
				row[i] = 0xff
			}
		}
	}

	var pts []vec.Vec2
	for _, stroke := range strokes {
		if len(stroke) == 0 {
			continue
		}
		pts = pts[:0]
		for _, p := range stroke {
			q := s.ToNative(p)
			pts = append(pts, vec.Vec2{X: q.X, Y: q.Y})
		}

		r.Reset(r.Clip)
		r.Width = s.ToNative(stroke[0]).Size
		r.Cap = graphics.LineCapRound
		r.Join = graphics.LineJoinRound
		r.Stroke(brushPath(pts), emit)
	}
	return mask, nil
}

// brushPath returns the outline which is stroked for a brush stroke: the
// polyline through all points, followed by a dot at every point. With
// round caps each dot is a disc of the stroke width. A single point gives
// just the disc.
func brushPath(pts []vec.Vec2) path.Path {
	return func(yield func(path.Command, []vec.Vec2) bool) {
		if len(pts) > 1 {
			for cmd, args := range raster.Polyline(pts) {
				if !yield(cmd, args) {
					return
				}
			}
		}
		var buf [1]vec.Vec2
		for _, pt := range pts {
			buf[0] = pt
			if !yield(path.CmdMoveTo, buf[:]) || !yield(path.CmdLineTo, buf[:]) {
				return
			}
		}
	}
}
