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

// Command genpdf generates reference masks for the brush scenarios.
// It draws each scenario into a PDF, renders the PDF with Ghostscript and
// thresholds the result the same way the mask rasteriser does.
//
// Run from the module root directory.
package main

import (
	"fmt"
	"image"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"

	"github.com/disintegration/imaging"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics"
	"seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/brushmask/testcases"
)

const refDir = "testdata/reference"

func main() {
	if err := os.MkdirAll(refDir, 0755); err != nil {
		panic(err)
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			name := category + "_" + tc.Name
			pdfPath := filepath.Join(refDir, name+".pdf")
			pngPath := filepath.Join(refDir, name+".png")

			if err := generatePDF(tc, pdfPath); err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}
			if err := renderPNG(pdfPath, pngPath); err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}
			if err := threshold(pngPath); err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}
			if err := os.Remove(pdfPath); err != nil {
				panic(err)
			}
		}
	}
}

func generatePDF(tc testcases.Case, pdfPath string) error {
	w, h := float64(tc.NativeWidth), float64(tc.NativeHeight)
	paper := &pdf.Rectangle{URx: w, URy: h}

	page, err := document.CreateSinglePage(pdfPath, paper, pdf.V1_7, nil)
	if err != nil {
		return err
	}

	page.SetFillColor(color.DeviceGray(0))
	page.Rectangle(0, 0, w, h)
	page.Fill()

	// PDF origin is bottom-left; brush points use top-left.
	page.Transform(matrix.Matrix{1, 0, 0, -1, 0, h})

	page.SetStrokeColor(color.DeviceGray(1))
	page.SetLineCap(graphics.LineCapRound)
	page.SetLineJoin(graphics.LineJoinRound)

	scale := tc.Scale()
	for _, stroke := range tc.Strokes {
		if len(stroke) == 0 {
			continue
		}
		first := scale.ToNative(stroke[0])
		page.SetLineWidth(first.Size)

		if len(stroke) > 1 {
			page.MoveTo(first.X, first.Y)
			for _, p := range stroke[1:] {
				q := scale.ToNative(p)
				page.LineTo(q.X, q.Y)
			}
		}
		// zero-length subpaths with round caps are painted as discs
		for _, p := range stroke {
			q := scale.ToNative(p)
			page.MoveTo(q.X, q.Y)
			page.LineTo(q.X, q.Y)
		}
		page.Stroke()
	}

	return page.Close()
}

func renderPNG(pdfPath, pngPath string) error {
	// -sDEVICE=pnggray: 8-bit grayscale
	// -r72: 72 DPI (1 point = 1 pixel)
	// -dGraphicsAlphaBits=4: anti-aliasing, so that the threshold below
	// sees pixel coverage
	cmd := exec.Command(
		"gs", "-q",
		"-sDEVICE=pnggray",
		"-r72",
		"-dGraphicsAlphaBits=4",
		"-o", pngPath,
		pdfPath,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// threshold replaces the rendered image by a binary mask.
func threshold(pngPath string) error {
	img, err := imaging.Open(pngPath)
	if err != nil {
		return err
	}
	b := img.Bounds()
	mask := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := range b.Dy() {
		for x := range b.Dx() {
			r, _, _, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			if r >= 0x8000 {
				mask.Pix[y*mask.Stride+x] = 0xff
			}
		}
	}
	return imaging.Save(mask, pngPath)
}
