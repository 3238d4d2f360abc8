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

var dotCases = []Case{
	{
		Name:          "single",
		NativeWidth:   64,
		NativeHeight:  64,
		DisplayWidth:  64,
		DisplayHeight: 64,
		Strokes:       []brushmask.Stroke{stroke(20, 32, 32)},
	},
	{
		Name:          "small",
		NativeWidth:   64,
		NativeHeight:  64,
		DisplayWidth:  64,
		DisplayHeight: 64,
		Strokes:       []brushmask.Stroke{stroke(2, 32.5, 32.5)},
	},
	{
		Name:          "overlapping",
		NativeWidth:   64,
		NativeHeight:  64,
		DisplayWidth:  64,
		DisplayHeight: 64,
		Strokes: []brushmask.Stroke{
			stroke(20, 24, 32),
			stroke(20, 40, 32),
		},
	},
	{
		Name:          "edge",
		NativeWidth:   64,
		NativeHeight:  64,
		DisplayWidth:  64,
		DisplayHeight: 64,
		Strokes: []brushmask.Stroke{
			stroke(24, 0, 0),
			stroke(24, 64, 32),
		},
	},
	{
		// the same position twice counts as a single point
		Name:          "repeated",
		NativeWidth:   64,
		NativeHeight:  64,
		DisplayWidth:  64,
		DisplayHeight: 64,
		Strokes:       []brushmask.Stroke{stroke(16, 32, 32, 32, 32)},
	},
}
