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

	"github.com/disintegration/imaging"
)

// textBoxes returns the bounding boxes of the connected high-contrast
// areas of img. Contrast is the morphological gradient over a 3×3 window,
// split into foreground and background by Otsu's method; foreground runs
// less than 9 pixels apart are joined horizontally before labelling.
func textBoxes(img *image.NRGBA) []image.Rectangle {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	g := imaging.Grayscale(img)
	lum := make([]uint8, w*h)
	for y := range h {
		for x := range w {
			lum[y*w+x] = g.Pix[y*g.Stride+4*x]
		}
	}

	grad := rank(lum, w, h, 1, 1, true)
	ero := rank(lum, w, h, 1, 1, false)
	for i := range grad {
		grad[i] -= ero[i]
	}

	t := otsu(grad)
	for i, v := range grad {
		if v > t {
			grad[i] = 0xff
		} else {
			grad[i] = 0
		}
	}

	closed := rank(rank(grad, w, h, 4, 0, true), w, h, 4, 0, false)
	return components(closed, w, h)
}

// rank replaces every pixel by the maximum, or the minimum, of the
// (2rx+1)×(2ry+1) window around it. Pixels outside the image are ignored.
func rank(src []uint8, w, h, rx, ry int, maximum bool) []uint8 {
	pick := func(a, b uint8) uint8 {
		if (a > b) == maximum {
			return a
		}
		return b
	}

	tmp := make([]uint8, len(src))
	for y := range h {
		row := src[y*w : (y+1)*w]
		for x := range w {
			v := row[x]
			for i := max(x-rx, 0); i <= min(x+rx, w-1); i++ {
				v = pick(v, row[i])
			}
			tmp[y*w+x] = v
		}
	}

	res := make([]uint8, len(src))
	for y := range h {
		for x := range w {
			v := tmp[y*w+x]
			for j := max(y-ry, 0); j <= min(y+ry, h-1); j++ {
				v = pick(v, tmp[j*w+x])
			}
			res[y*w+x] = v
		}
	}
	return res
}

// otsu returns the threshold which maximises the variance between the
// pixels at or below it and those above it.
func otsu(pix []uint8) uint8 {
	var hist [256]int
	for _, v := range pix {
		hist[v]++
	}
	var sum float64
	for i, n := range hist {
		sum += float64(i * n)
	}

	var t uint8
	best := -1.0
	var sumB float64
	nB := 0
	for i, n := range hist {
		nB += n
		if nB == 0 {
			continue
		}
		nF := len(pix) - nB
		if nF == 0 {
			break
		}
		sumB += float64(i * n)
		mB := sumB / float64(nB)
		mF := (sum - sumB) / float64(nF)
		if v := float64(nB) * float64(nF) * (mB - mF) * (mB - mF); v > best {
			best = v
			t = uint8(i)
		}
	}
	return t
}

// components returns the bounding boxes of the 8-connected sets of
// non-zero pixels.
func components(pix []uint8, w, h int) []image.Rectangle {
	seen := make([]bool, len(pix))
	var res []image.Rectangle
	var stack []int
	for start, v := range pix {
		if v == 0 || seen[start] {
			continue
		}
		box := image.Rect(start%w, start/w, start%w+1, start/w+1)
		seen[start] = true
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := idx%w, idx/w
			box = box.Union(image.Rect(x, y, x+1, y+1))

			for j := max(y-1, 0); j <= min(y+1, h-1); j++ {
				for i := max(x-1, 0); i <= min(x+1, w-1); i++ {
					n := j*w + i
					if pix[n] != 0 && !seen[n] {
						seen[n] = true
						stack = append(stack, n)
					}
				}
			}
		}
		res = append(res, box)
	}
	return res
}
