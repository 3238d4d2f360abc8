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

package imageio

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// createTestImage returns a grey image with a bright square in the middle.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			if x > width/3 && x < 2*width/3 && y > height/3 && y < 2*height/3 {
				img.Set(x, y, color.RGBA{255, 255, 255, 255})
			} else {
				img.Set(x, y, color.RGBA{64, 64, 64, 255})
			}
		}
	}
	return img
}

func encode(t *testing.T, img image.Image, ext string) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Encode(&buf, img, ext, 90); err != nil {
		t.Fatalf("encode %s: %v", ext, err)
	}
	return buf.Bytes()
}

func TestAllowed(t *testing.T) {
	for name, want := range map[string]bool{
		"photo.PNG":       true,
		"a.jpg":           true,
		"a.jpeg":          true,
		"anim.gif":        true,
		"old.bmp":         true,
		"web.webp":        true,
		"scan.tiff":       false,
		"notes.txt":       false,
		"no_ext":          false,
		"archive.png.zip": false,
	} {
		if got := Allowed(name); got != want {
			t.Errorf("Allowed(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestLoadFormats(t *testing.T) {
	img := createTestImage(60, 40)
	for _, ext := range []string{"png", "jpg", "gif", "bmp", "webp"} {
		t.Run(ext, func(t *testing.T) {
			src, err := Load("test."+ext, encode(t, img, ext), 0, 0)
			if err != nil {
				t.Fatal(err)
			}
			if src.NativeWidth != 60 || src.NativeHeight != 40 {
				t.Errorf("native size %dx%d", src.NativeWidth, src.NativeHeight)
			}
			if src.DisplayWidth != 60 || src.DisplayHeight != 40 {
				t.Errorf("display size %gx%g", src.DisplayWidth, src.DisplayHeight)
			}
		})
	}
}

func TestLoadRejects(t *testing.T) {
	data := encode(t, createTestImage(10, 10), "png")

	if _, err := Load("x.txt", data, 0, 0); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("wrong extension: %v", err)
	}
	if _, err := Load("x.png", []byte("not an image"), 0, 0); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("garbage data: %v", err)
	}
	big := make([]byte, MaxUploadSize+1)
	if _, err := Load("x.png", big, 0, 0); !errors.Is(err, ErrTooLarge) {
		t.Errorf("oversized file: %v", err)
	}
}

func TestFitSize(t *testing.T) {
	cases := []struct {
		w, h, maxW, maxH int
		dw, dh           float64
	}{
		{1000, 500, 500, 500, 500, 250},
		{400, 300, 800, 600, 400, 300}, // never enlarged
		{4032, 3024, 800, 600, 800, 600},
		{1000, 3000, 800, 600, 200, 600},
		{333, 333, 100, 1000, 100, 100},
		{100, 50, 0, 0, 100, 50},
		{5000, 1, 100, 100, 100, 1},
	}
	for _, c := range cases {
		dw, dh := FitSize(c.w, c.h, c.maxW, c.maxH)
		if dw != c.dw || dh != c.dh {
			t.Errorf("FitSize(%d, %d, %d, %d) = %g, %g, want %g, %g",
				c.w, c.h, c.maxW, c.maxH, dw, dh, c.dw, c.dh)
		}
	}
}

func TestPreview(t *testing.T) {
	src, err := Load("p.png", encode(t, createTestImage(200, 100), "png"), 100, 100)
	if err != nil {
		t.Fatal(err)
	}
	b := src.Preview().Bounds()
	if b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("preview size %v", b)
	}
}

func TestEncodePNGGray(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 8, 4))
	mask.Pix[5] = 255

	var buf bytes.Buffer
	if err := EncodePNG(&buf, mask); err != nil {
		t.Fatal(err)
	}
	back, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	g, ok := back.(*image.Gray)
	if !ok {
		t.Fatalf("decoded %T, want *image.Gray", back)
	}
	if !bytes.Equal(g.Pix, mask.Pix) {
		t.Error("mask changed by PNG round trip")
	}
}

func TestSaveOpen(t *testing.T) {
	dir := t.TempDir()
	fname := filepath.Join(dir, "img.jpg")
	if err := Save(fname, createTestImage(30, 20), 80); err != nil {
		t.Fatal(err)
	}
	src, err := Open(fname, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if src.Name != "img.jpg" || src.NativeWidth != 30 {
		t.Errorf("unexpected source %q %dx%d", src.Name, src.NativeWidth, src.NativeHeight)
	}

	if _, err := Open(filepath.Join(dir, "missing.png"), 0, 0); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: %v", err)
	}
	if err := Save(filepath.Join(dir, "x.tga"), createTestImage(2, 2), 0); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("unknown format: %v", err)
	}
}

func TestContentType(t *testing.T) {
	if got := ContentType("JPG"); got != "image/jpeg" {
		t.Errorf("jpg: %s", got)
	}
	if got := ContentType("webp"); got != "image/webp" {
		t.Errorf("webp: %s", got)
	}
}
