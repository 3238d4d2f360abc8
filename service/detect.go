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


package service

import (
	"encoding/json"
	"image"

	"github.com/disintegration/imaging"
)

const (
	// detectSize is the side length of the square image on which text
	// is located.
	detectSize = 320

	// regionPadding is added around detected regions before removal.
	regionPadding = 5

	regionConfidence = 0.7
	regionText       = "detected_text"
)

// Region is a rectangle of an image which probably contains text.
// Bounds are in pixels, relative to the top-left corner of the image.
type Region struct {
	Bounds     image.Rectangle
	Text       string
	Confidence float64
}

type regionJSON struct {
	BBox       [4]int  `json:"bbox"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// MarshalJSON writes the bounds as [x1, y1, x2, y2].
func (r Region) MarshalJSON() ([]byte, error) {
	b := r.Bounds
	return json.Marshal(&regionJSON{
		BBox:       [4]int{b.Min.X, b.Min.Y, b.Max.X, b.Max.Y},
		Text:       r.Text,
		Confidence: r.Confidence,
	})
}

// UnmarshalJSON implements [json.Unmarshaler].
func (r *Region) UnmarshalJSON(data []byte) error {
	var v regionJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	r.Bounds = image.Rect(v.BBox[0], v.BBox[1], v.BBox[2], v.BBox[3])
	r.Text = v.Text
	r.Confidence = v.Confidence
	return nil
}

// Detect locates regions of img which look like lines of text: areas with
// strong local contrast, joined horizontally. The image is analysed at
// 320×320 pixels, so very small text may be missed.
func Detect(img image.Image) []Region {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil
	}
	small := imaging.Resize(img, detectSize, detectSize, imaging.Linear)

	rW := float64(b.Dx()) / detectSize
	rH := float64(b.Dy()) / detectSize
	var res []Region
	for _, box := range textBoxes(small) {
		w, h := box.Dx(), box.Dy()
		if w <= 15 || h <= 8 || w >= detectSize*8/10 || h >= detectSize*8/10 {
			continue
		}
		x := int(float64(box.Min.X) * rW)
		y := int(float64(box.Min.Y) * rH)
		res = append(res, Region{
			Bounds:     image.Rect(x, y, x+int(float64(w)*rW), y+int(float64(h)*rH)),
			Text:       regionText,
			Confidence: regionConfidence,
		})
	}
	return res
}

// regionMask returns a w×h mask with the given regions marked. Each
// region is grown by pad pixels on every side.
func regionMask(w, h int, regions []Region, pad int) *image.Gray {
	mask := image.NewGray(image.Rect(0, 0, w, h))
	for _, r := range regions {
		b := r.Bounds.Inset(-pad).Intersect(mask.Rect)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := mask.Pix[y*mask.Stride:]
			for x := b.Min.X; x < b.Max.X; x++ {
				row[x] = 0xff
			}
		}
	}
	return mask
}
