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

//go:build !gocv

package service

import (
	"image"
	"math"
)

// inpaint fills the marked pixels of img from the unmarked ones, working
// inwards from the edge of each marked region one layer at a time. A pixel
// is filled once one of its eight neighbours is known, with the
// inverse-square distance weighted mean of all known pixels within
// inpaintRadius.
func inpaint(img *image.NRGBA, mask *image.Gray) (*image.NRGBA, error) {
	w, h := img.Rect.Dx(), img.Rect.Dy()

	known := make([]bool, w*h)
	var todo []int
	for y := range h {
		for x := range w {
			if marked(mask, x, y) {
				todo = append(todo, y*w+x)
			} else {
				known[y*w+x] = true
			}
		}
	}
	if len(todo) == len(known) {
		return img, nil
	}

	type fill struct {
		idx int
		c   [4]uint8
	}
	var layer []fill
	for len(todo) > 0 {
		layer = layer[:0]
		rest := todo[:0]
		for _, idx := range todo {
			if c, ok := estimate(img, known, idx%w, idx/w); ok {
				layer = append(layer, fill{idx, c})
			} else {
				rest = append(rest, idx)
			}
		}
		for _, f := range layer {
			known[f.idx] = true
			i := (f.idx/w)*img.Stride + 4*(f.idx%w)
			copy(img.Pix[i:i+4], f.c[:])
		}
		todo = rest
	}
	return img, nil
}

func estimate(img *image.NRGBA, known []bool, x, y int) ([4]uint8, bool) {
	w, h := img.Rect.Dx(), img.Rect.Dy()

	var sum [4]float64
	var total float64
	near := false
	for dy := -inpaintRadius; dy <= inpaintRadius; dy++ {
		yy := y + dy
		if yy < 0 || yy >= h {
			continue
		}
		for dx := -inpaintRadius; dx <= inpaintRadius; dx++ {
			xx := x + dx
			d2 := dx*dx + dy*dy
			if xx < 0 || xx >= w || d2 == 0 || d2 > inpaintRadius*inpaintRadius {
				continue
			}
			if !known[yy*w+xx] {
				continue
			}
			if d2 <= 2 {
				near = true
			}
			wt := 1 / float64(d2)
			i := yy*img.Stride + 4*xx
			for c := range 4 {
				sum[c] += wt * float64(img.Pix[i+c])
			}
			total += wt
		}
	}

	var res [4]uint8
	if !near {
		return res, false
	}
	for c := range 4 {
		res[c] = uint8(min(math.Round(sum[c]/total), 255))
	}
	return res, true
}
