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
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// Scale is the ratio between native image pixels and display pixels.
// A Scale is only valid for the display size it was computed for.
type Scale struct {
	X, Y float64
}

// ComputeScale returns the scale between an image of size nativeW×nativeH
// and its on-screen rendition of size displayW×displayH.
func ComputeScale(nativeW, nativeH, displayW, displayH float64) (Scale, error) {
	for _, v := range [...]float64{nativeW, nativeH, displayW, displayH} {
		if !(v > 0) || math.IsInf(v, 0) {
			return Scale{}, fmt.Errorf("%w: native %gx%g, display %gx%g",
				ErrInvalidDimensions, nativeW, nativeH, displayW, displayH)
		}
	}
	return Scale{X: nativeW / displayW, Y: nativeH / displayH}, nil
}

func (s Scale) valid() bool {
	return s.X > 0 && s.Y > 0 && !math.IsInf(s.X, 0) && !math.IsInf(s.Y, 0)
}

// Matrix returns the affine map from display to native coordinates.
func (s Scale) Matrix() matrix.Matrix {
	return matrix.Scale(s.X, s.Y)
}

// ToNative maps a display-space point to native image pixels.
// The brush size grows with the larger of the two scale factors, so that
// the marked region is never narrower than what the user saw.
func (s Scale) ToNative(p Point) Point {
	pos := apply(s.Matrix(), vec.Vec2{X: p.X, Y: p.Y})
	return Point{
		X:       pos.X,
		Y:       pos.Y,
		Size:    p.Size * max(s.X, s.Y),
		Opacity: p.Opacity,
	}
}

// ToDisplay maps a native point back to display space. Positions are the
// exact inverse of ToNative.
func (s Scale) ToDisplay(p Point) Point {
	return Point{
		X:       p.X / s.X,
		Y:       p.Y / s.Y,
		Size:    p.Size / max(s.X, s.Y),
		Opacity: p.Opacity,
	}
}

// apply maps v through the affine transformation m.
func apply(m matrix.Matrix, v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: m[0]*v.X + m[2]*v.Y + m[4],
		Y: m[1]*v.X + m[3]*v.Y + m[5],
	}
}

// Locate converts a pointer position in client coordinates into display
// coordinates, given the client position of the surface's top-left corner.
func Locate(client, origin vec.Vec2) vec.Vec2 {
	return client.Sub(origin)
}
