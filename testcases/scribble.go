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

package testcases

import (
	"math"

	"seehuhn.de/go/brushmask"
)

var scribbleCases = []Case{
	{
		Name:          "zigzag",
		NativeWidth:   96,
		NativeHeight:  64,
		DisplayWidth:  96,
		DisplayHeight: 64,
		Strokes:       []brushmask.Stroke{stroke(8, 8, 48, 24, 16, 40, 48, 56, 16, 72, 48, 88, 16)},
	},
	{
		Name:          "hairpin",
		NativeWidth:   64,
		NativeHeight:  64,
		DisplayWidth:  64,
		DisplayHeight: 64,
		Strokes:       []brushmask.Stroke{stroke(8, 10, 28, 54, 30, 10, 32)},
	},
	{
		Name:          "loop",
		NativeWidth:   64,
		NativeHeight:  64,
		DisplayWidth:  64,
		DisplayHeight: 64,
		Strokes:       []brushmask.Stroke{stroke(6, 8, 8, 56, 56, 56, 8, 8, 56, 8, 10)},
	},
	{
		Name:          "wave",
		NativeWidth:   128,
		NativeHeight:  64,
		DisplayWidth:  128,
		DisplayHeight: 64,
		Strokes:       []brushmask.Stroke{wave(8, 120, 32, 16, 3, 60, 12)},
	},
	{
		Name:          "cover_word",
		NativeWidth:   128,
		NativeHeight:  64,
		DisplayWidth:  128,
		DisplayHeight: 64,
		Strokes: []brushmask.Stroke{
			stroke(14, 12, 24, 116, 24),
			stroke(14, 116, 36, 12, 36),
			stroke(6, 40, 44),
		},
	},
}

// wave samples a sine wave between x0 and x1, as a pointer moving along it
// would produce.
func wave(x0, x1, yMid, amplitude, periods float64, n int, size float64) brushmask.Stroke {
	xy := make([]float64, 0, 2*n)
	for i := range n {
		t := float64(i) / float64(n-1)
		xy = append(xy, x0+t*(x1-x0), yMid+amplitude*math.Sin(2*math.Pi*periods*t))
	}
	return stroke(size, xy...)
}
