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

// Package brushmask records freehand brush strokes over a displayed image
// and turns them into a binary mask at the image's native resolution.
//
// Strokes are captured in display coordinates, i.e. in the pixel grid of
// the on-screen preview. A [Scale] maps them to native image pixels when
// the mask is rasterised, so that the mask does not depend on how large
// the preview happened to be.
package brushmask

import (
	"errors"
	"fmt"
	"image/color"
	"math"
)

var (
	// ErrInvalidDimensions is returned when an image or display size is not
	// a positive, finite number.
	ErrInvalidDimensions = errors.New("invalid dimensions")

	// ErrEmptyStrokeHistory is returned when a mask is requested for an
	// empty stroke history.
	ErrEmptyStrokeHistory = errors.New("empty stroke history")

	// ErrInvalidBrush is returned for a brush with non-positive size or an
	// opacity outside [0, 1].
	ErrInvalidBrush = errors.New("invalid brush")
)

// Point is a single brush sample.
type Point struct {
	X, Y float64

	// Size is the brush diameter, in the same units as X and Y.
	Size float64

	// Opacity is the overlay opacity in the range 0 to 1. It does not
	// affect the mask.
	Opacity float64
}

// Stroke is the sequence of points captured between pressing and
// releasing the pointer. All points of a stroke use the same coordinate
// space.
type Stroke []Point

// Brush holds the brush settings which are copied into every captured
// point.
type Brush struct {
	Size    float64
	Opacity float64
}

// DefaultBrush is the brush used for a new session.
var DefaultBrush = Brush{Size: 20, Opacity: 0.6}

// OverlayColor is the colour used to show brush strokes on screen.
var OverlayColor = color.NRGBA{R: 0x00, G: 0x7b, B: 0xff, A: 0xff}

// Validate checks that the brush can be used for painting.
func (b Brush) Validate() error {
	if !(b.Size > 0) || math.IsInf(b.Size, 0) {
		return fmt.Errorf("%w: size %g", ErrInvalidBrush, b.Size)
	}
	if !(b.Opacity >= 0 && b.Opacity <= 1) {
		return fmt.Errorf("%w: opacity %g", ErrInvalidBrush, b.Opacity)
	}
	return nil
}
