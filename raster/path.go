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
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// circleKappa places the control points of a cubic Bézier quarter circle.
const circleKappa = 0.5522847498

// Polyline returns an open path through the given points.
// A single point gives a degenerate subpath, which Stroke draws as a dot
// when round caps are used.
func Polyline(pts []vec.Vec2) path.Path {
	return func(yield func(path.Command, []vec.Vec2) bool) {
		if len(pts) == 0 {
			return
		}
		var buf [1]vec.Vec2
		buf[0] = pts[0]
		if !yield(path.CmdMoveTo, buf[:]) {
			return
		}
		if len(pts) == 1 {
			// a zero-length segment keeps the subpath visible to Stroke
			yield(path.CmdLineTo, buf[:])
			return
		}
		for _, pt := range pts[1:] {
			buf[0] = pt
			if !yield(path.CmdLineTo, buf[:]) {
				return
			}
		}
	}
}

// Circle returns a closed path approximating a circle by four cubic Bézier
// segments. In the top-left pixel frame the outline runs clockwise on
// screen.
func Circle(center vec.Vec2, radius float64) path.Path {
	return func(yield func(path.Command, []vec.Vec2) bool) {
		cx, cy, r := center.X, center.Y, radius
		kr := circleKappa * r

		var buf [3]vec.Vec2
		buf[0] = vec.Vec2{X: cx, Y: cy - r}
		if !yield(path.CmdMoveTo, buf[:1]) {
			return
		}
		quarters := [4][3]vec.Vec2{
			{{X: cx + kr, Y: cy - r}, {X: cx + r, Y: cy - kr}, {X: cx + r, Y: cy}},
			{{X: cx + r, Y: cy + kr}, {X: cx + kr, Y: cy + r}, {X: cx, Y: cy + r}},
			{{X: cx - kr, Y: cy + r}, {X: cx - r, Y: cy + kr}, {X: cx - r, Y: cy}},
			{{X: cx - r, Y: cy - kr}, {X: cx - kr, Y: cy - r}, {X: cx, Y: cy - r}},
		}
		for _, q := range quarters {
			buf = q
			if !yield(path.CmdCubeTo, buf[:]) {
				return
			}
		}
		yield(path.CmdClose, nil)
	}
}
