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

// Package testcases holds brush scenarios shared by the mask tests and the
// reference image generator.
package testcases

import (
	"seehuhn.de/go/brushmask"
)

// Case is a brush session on a single image.
type Case struct {
	Name string // lowercase a-z, 0-9 and _ only

	// NativeWidth and NativeHeight give the size of the mask.
	NativeWidth  int
	NativeHeight int

	// DisplayWidth and DisplayHeight give the size of the on-screen
	// preview the strokes were captured on.
	DisplayWidth  float64
	DisplayHeight float64

	// Strokes are in display coordinates.
	Strokes []brushmask.Stroke
}

// Scale returns the display-to-native scale of the case.
func (c Case) Scale() brushmask.Scale {
	s, err := brushmask.ComputeScale(float64(c.NativeWidth), float64(c.NativeHeight), c.DisplayWidth, c.DisplayHeight)
	if err != nil {
		panic(c.Name + ": " + err.Error())
	}
	return s
}

// Recording returns the strokes of the case in storable form.
func (c Case) Recording() *brushmask.Recording {
	return &brushmask.Recording{
		DisplayWidth:  c.DisplayWidth,
		DisplayHeight: c.DisplayHeight,
		Strokes:       c.Strokes,
	}
}

// stroke builds a stroke of the given brush size from x, y pairs.
func stroke(size float64, xy ...float64) brushmask.Stroke {
	s := make(brushmask.Stroke, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		s = append(s, brushmask.Point{X: xy[i], Y: xy[i+1], Size: size, Opacity: 0.6})
	}
	return s
}
