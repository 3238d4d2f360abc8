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

var lineCases = []Case{
	{
		Name:          "horizontal",
		NativeWidth:   64,
		NativeHeight:  64,
		DisplayWidth:  64,
		DisplayHeight: 64,
		Strokes:       []brushmask.Stroke{stroke(8, 10, 32, 54, 32)},
	},
	{
		Name:          "vertical",
		NativeWidth:   64,
		NativeHeight:  64,
		DisplayWidth:  64,
		DisplayHeight: 64,
		Strokes:       []brushmask.Stroke{stroke(8, 32, 10, 32, 54)},
	},
	{
		Name:          "diagonal",
		NativeWidth:   64,
		NativeHeight:  64,
		DisplayWidth:  64,
		DisplayHeight: 64,
		Strokes:       []brushmask.Stroke{stroke(6, 8, 8, 56, 56)},
	},
	{
		Name:          "hairline",
		NativeWidth:   64,
		NativeHeight:  64,
		DisplayWidth:  64,
		DisplayHeight: 64,
		Strokes:       []brushmask.Stroke{stroke(1, 8.5, 20.5, 56.5, 44.5)},
	},
	{
		Name:          "parallel",
		NativeWidth:   64,
		NativeHeight:  64,
		DisplayWidth:  64,
		DisplayHeight: 64,
		Strokes: []brushmask.Stroke{
			stroke(6, 8, 16, 56, 16),
			stroke(6, 8, 32, 56, 32),
			stroke(6, 8, 48, 56, 48),
		},
	},
	{
		Name:          "sampled",
		NativeWidth:   64,
		NativeHeight:  64,
		DisplayWidth:  64,
		DisplayHeight: 64,
		Strokes: []brushmask.Stroke{
			stroke(10, 8, 30, 12, 30.5, 16, 31, 20, 31.5, 24, 32, 28, 32,
				32, 32, 36, 31.5, 40, 31, 44, 30.5, 48, 30, 52, 30, 56, 30),
		},
	},
}
