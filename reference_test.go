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

package brushmask_test

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"testing"

	"seehuhn.de/go/brushmask"
	"seehuhn.de/go/brushmask/testcases"
)

// TestAgainstReference compares the masks of all scenarios with the
// reference masks generated by testcases/genpdf.
func TestAgainstReference(t *testing.T) {
	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			name := category + "_" + tc.Name
			t.Run(name, func(t *testing.T) {
				refPath := filepath.Join("testdata", "reference", name+".png")
				ref, err := loadGray(refPath)
				if errors.Is(err, fs.ErrNotExist) {
					t.Skip("no reference image, run testcases/genpdf")
				} else if err != nil {
					t.Fatalf("loading reference: %v", err)
				}

				mask, err := brushmask.Rasterize(tc.Strokes, tc.NativeWidth, tc.NativeHeight, tc.Scale())
				if err != nil {
					t.Fatal(err)
				}

				w, h := tc.NativeWidth, tc.NativeHeight
				if len(ref) != w*h {
					t.Fatalf("reference has %d pixels, want %d", len(ref), w*h)
				}
				if err := compareImages(name, ref, mask.Pix, w, h); err != nil {
					t.Error(err)
				}
			})
		}
	}
}

// TestScenarios checks properties which hold for every scenario, without
// needing reference images.
func TestScenarios(t *testing.T) {
	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			t.Run(category+"_"+tc.Name, func(t *testing.T) {
				mask, err := brushmask.Rasterize(tc.Strokes, tc.NativeWidth, tc.NativeHeight, tc.Scale())
				if err != nil {
					t.Fatal(err)
				}

				// every brush point whose native position is inside the
				// image is marked
				s := tc.Scale()
				for _, stroke := range tc.Strokes {
					for _, p := range stroke {
						q := s.ToNative(p)
						x, y := int(math.Floor(q.X)), int(math.Floor(q.Y))
						if !(image.Point{X: x, Y: y}).In(mask.Bounds()) || q.Size < 2 {
							continue
						}
						if v := mask.GrayAt(x, y).Y; v != 255 {
							t.Errorf("brush point (%g,%g) not marked", q.X, q.Y)
						}
					}
				}
			})
		}
	}
}

func loadGray(path string) (gray []byte, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	img, err := png.Decode(f)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	gray = make([]byte, w*h)
	for y := range h {
		for x := range w {
			c := color.GrayModel.Convert(img.At(x+bounds.Min.X, y+bounds.Min.Y)).(color.Gray)
			gray[y*w+x] = c.Y
		}
	}
	return gray, nil
}

// compareImages accepts small differences along the edges of the marked
// regions, where the two renderers round coverage differently.
func compareImages(name string, expected, actual []byte, w, h int) error {
	total := w * h
	diffs := make([]int, total)
	for i := range total {
		diff := int(expected[i]) - int(actual[i])
		if diff < 0 {
			diff = -diff
		}
		diffs[i] = diff
	}
	sort.Ints(diffs)

	p95 := diffs[int(math.Round(0.95*float64(total-1)))]
	p99 := diffs[int(math.Round(0.99*float64(total-1)))]

	// Masks are binary, so each pixel either matches or differs by 255.
	// At least 99% of all pixels must match exactly.
	var failures []string
	if p95 > 0 {
		failures = append(failures, fmt.Sprintf("95th percentile diff is %d (want 0)", p95))
	}
	if p99 > 0 {
		failures = append(failures, fmt.Sprintf("99th percentile diff is %d (want 0)", p99))
	}

	if len(failures) > 0 {
		_ = writeDiffImage(name, expected, actual, w, h)
		return fmt.Errorf("%s", strings.Join(failures, "; "))
	}
	return nil
}

// writeDiffImage writes a 3-panel image to debug/: actual (left), diff
// (middle, green = missing, red = extra), reference (right).
func writeDiffImage(name string, expected, actual []byte, w, h int) (err error) {
	if err := os.MkdirAll("debug", 0755); err != nil {
		return err
	}

	img := image.NewRGBA(image.Rect(0, 0, w*3, h))
	for y := range h {
		for x := range w {
			i := y*w + x

			a := actual[i]
			img.Set(x, y, color.RGBA{R: a, G: a, B: a, A: 255})

			diff := int(expected[i]) - int(actual[i])
			var diffColor color.RGBA
			switch {
			case diff > 0:
				diffColor = color.RGBA{G: uint8(diff), A: 255}
			case diff < 0:
				diffColor = color.RGBA{R: uint8(-diff), A: 255}
			default:
				diffColor = color.RGBA{A: 255}
			}
			img.Set(x+w, y, diffColor)

			e := expected[i]
			img.Set(x+w*2, y, color.RGBA{R: e, G: e, B: e, A: 255})
		}
	}

	f, err := os.Create(filepath.Join("debug", name+".png"))
	if err != nil {
		return err
	}
	err = png.Encode(f, img)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
