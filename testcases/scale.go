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

import "seehuhn.de/go/brushmask"

// scaleCases exercise the mapping from display to native pixels.
var scaleCases = []Case{
	{
		Name:          "double",
		NativeWidth:   128,
		NativeHeight:  64,
		DisplayWidth:  64,
		DisplayHeight: 32,
		Strokes:       []brushmask.Stroke{stroke(10, 16, 16, 48, 16)},
	},
	{
		Name:          "half",
		NativeWidth:   32,
		NativeHeight:  32,
		DisplayWidth:  64,
		DisplayHeight: 64,
		Strokes:       []brushmask.Stroke{stroke(12, 12, 12, 52, 52)},
	},
	{
		// the brush grows with the larger factor
		Name:          "anisotropic",
		NativeWidth:   128,
		NativeHeight:  64,
		DisplayWidth:  64,
		DisplayHeight: 64,
		Strokes: []brushmask.Stroke{
			stroke(8, 8, 16, 56, 16),
			stroke(8, 32, 28, 32, 56),
		},
	},
	{
		Name:          "fractional",
		NativeWidth:   100,
		NativeHeight:  75,
		DisplayWidth:  64,
		DisplayHeight: 48,
		Strokes:       []brushmask.Stroke{stroke(7, 5.3, 40.1, 30.7, 10.9, 58.2, 38.4)},
	},
}
