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


//go:build gocv

package service

import (
	"image"

	"gocv.io/x/gocv"
)

// textBoxes returns the bounding boxes of the outer contours of the
// high-contrast areas of img, after joining them horizontally.
func textBoxes(img *image.NRGBA) []image.Rectangle {
	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil
	}
	defer src.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorRGBToGray)

	square := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3))
	defer square.Close()
	grad := gocv.NewMat()
	defer grad.Close()
	gocv.MorphologyEx(gray, &grad, gocv.MorphGradient, square)

	bw := gocv.NewMat()
	defer bw.Close()
	gocv.Threshold(grad, &bw, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)

	line := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(9, 1))
	defer line.Close()
	closed := gocv.NewMat()
	defer closed.Close()
	gocv.MorphologyEx(bw, &closed, gocv.MorphClose, line)

	contours := gocv.FindContours(closed, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	res := make([]image.Rectangle, 0, contours.Size())
	for i := range contours.Size() {
		res = append(res, gocv.BoundingRect(contours.At(i)))
	}
	return res
}
