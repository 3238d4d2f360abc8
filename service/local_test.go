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
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/disintegration/imaging"

	"seehuhn.de/go/brushmask/imageio"
	"seehuhn.de/go/brushmask/session"
)

var background = color.NRGBA{R: 200, G: 100, B: 50, A: 255}

// textImage returns a uniform image with a dark square in the middle.
func textImage(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		for x := range size {
			c := background
			if x >= 15 && x < 25 && y >= 15 && y < 25 {
				c = color.NRGBA{A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// squareMask marks the pixels in [lo, hi)×[lo, hi).
func squareMask(size, lo, hi int) *image.Gray {
	mask := image.NewGray(image.Rect(0, 0, size, size))
	for y := lo; y < hi; y++ {
		for x := lo; x < hi; x++ {
			mask.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	return mask
}

func encodeTest(t *testing.T, img image.Image, ext string) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := imageio.Encode(buf, img, ext, 95); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func closeTo(a, b color.NRGBA, tol int) bool {
	d := func(x, y uint8) bool {
		diff := int(x) - int(y)
		return diff <= tol && diff >= -tol
	}
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B)
}

func TestApplyRemove(t *testing.T) {
	img := textImage(40)
	out, err := Apply(img, squareMask(40, 12, 28), session.Remove)
	if err != nil {
		t.Fatal(err)
	}
	for y := range 40 {
		for x := range 40 {
			if c := out.NRGBAAt(x, y); !closeTo(c, background, 2) {
				t.Fatalf("pixel (%d,%d) is %v after removal", x, y, c)
			}
		}
	}
	// the input is not modified
	if img.NRGBAAt(20, 20) != (color.NRGBA{A: 255}) {
		t.Error("input image changed")
	}
}

func TestApplyBlur(t *testing.T) {
	// black left half, white right half
	img := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	for y := range 40 {
		for x := range 40 {
			v := uint8(0)
			if x >= 20 {
				v = 255
			}
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	mask := image.NewGray(image.Rect(0, 0, 40, 40))
	for y := range 40 {
		for x := 10; x < 30; x++ {
			mask.SetGray(x, y, color.Gray{Y: 255})
		}
	}

	out, err := Apply(img, mask, session.Blur)
	if err != nil {
		t.Fatal(err)
	}
	for _, x := range []int{19, 20} {
		if v := out.NRGBAAt(x, 20).R; v < 20 || v > 235 {
			t.Errorf("pixel at the edge, x=%d, not blurred: %d", x, v)
		}
	}
	if out.NRGBAAt(9, 20).R != 0 || out.NRGBAAt(30, 20).R != 255 {
		t.Error("pixels outside the mask changed")
	}
}

// TestApplyBlurKeepsAlpha checks that blurring leaves transparency
// unchanged, even across an edge in the alpha channel.
func TestApplyBlurKeepsAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	for y := range 40 {
		for x := range 40 {
			c := color.NRGBA{R: 0, G: 80, B: 160, A: 255}
			if x >= 20 {
				c.R, c.A = 255, 64
			}
			img.SetNRGBA(x, y, c)
		}
	}

	out, err := Apply(img, squareMask(40, 0, 40), session.Blur)
	if err != nil {
		t.Fatal(err)
	}
	for y := range 40 {
		for x := range 40 {
			if got, want := out.NRGBAAt(x, y).A, img.NRGBAAt(x, y).A; got != want {
				t.Fatalf("alpha at (%d,%d) is %d, want %d", x, y, got, want)
			}
		}
	}
	if out.NRGBAAt(19, 20).R == img.NRGBAAt(19, 20).R {
		t.Error("colour channels not blurred")
	}
}

func TestApplyResizesMask(t *testing.T) {
	img := textImage(40)

	// a half-size mask covering the dark square
	out, err := Apply(img, squareMask(20, 6, 14), session.Remove)
	if err != nil {
		t.Fatal(err)
	}
	if c := out.NRGBAAt(20, 20); !closeTo(c, background, 2) {
		t.Errorf("centre is %v after removal", c)
	}

	// grey mask values at or below the threshold mark nothing
	faint := image.NewGray(image.Rect(0, 0, 40, 40))
	for i := range faint.Pix {
		faint.Pix[i] = maskThreshold
	}
	out, err = Apply(img, faint, session.Remove)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out.Pix, img.Pix) {
		t.Error("faint mask changed the image")
	}

	if _, err := Apply(img, faint, "sharpen"); !errors.Is(err, ErrUnknownOperation) {
		t.Errorf("got %v, want ErrUnknownOperation", err)
	}
}

func TestLocalProcess(t *testing.T) {
	store, err := NewStore("")
	if err != nil {
		t.Fatal(err)
	}
	l := NewLocal(store)

	req := &session.Request{
		Source:     encodeTest(t, textImage(40), "png"),
		SourceName: "scan.png",
		Mask:       encodeTest(t, squareMask(40, 12, 28), "png"),
		Operation:  session.Remove,
	}
	resp, err := l.Process(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if !resp.Success || !strings.HasSuffix(resp.ResultID, ".png") {
		t.Fatalf("unexpected response %+v", resp)
	}
	stored, err := l.Get(resp.ResultID)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(stored, resp.Processed) {
		t.Error("stored result differs from response")
	}
	img, err := imageio.Decode(resp.Processed)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 40 {
		t.Errorf("result size %v", b)
	}
}

func TestLocalProcessFailures(t *testing.T) {
	l := NewLocal(nil)
	good := &session.Request{
		Source:     encodeTest(t, textImage(40), "jpg"),
		SourceName: "a.jpg",
		Mask:       encodeTest(t, squareMask(40, 0, 5), "png"),
		Operation:  session.Blur,
	}

	cases := []struct {
		name   string
		modify func(r *session.Request)
		want   string
	}{
		{"operation", func(r *session.Request) { r.Operation = "sharpen" }, "Invalid operation"},
		{"image", func(r *session.Request) { r.Source = []byte("garbage") }, "Could not load image"},
		{"mask", func(r *session.Request) { r.Mask = []byte("garbage") }, "Could not load brush mask"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := *good
			c.modify(&req)
			resp, err := l.Process(context.Background(), &req)
			if err != nil {
				t.Fatal(err)
			}
			if resp.Success || resp.Error != c.want {
				t.Errorf("got %+v, want error %q", resp, c.want)
			}
		})
	}

	// without a store, results carry no identifier
	resp, err := l.Process(context.Background(), good)
	if err != nil || !resp.Success || resp.ResultID != "" {
		t.Errorf("got %+v, %v", resp, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := l.Process(ctx, good); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled context: %v", err)
	}
}

// TestLocalProcessWithoutMask checks that requests without a mask are
// applied to the detected text, and leave images without text alone.
func TestLocalProcessWithoutMask(t *testing.T) {
	l := NewLocal(nil)

	page := whiteImage(detectSize, detectSize)
	textLine(page, 40, 100, 16, 6, 12, 4)
	resp, err := l.Process(context.Background(), &session.Request{
		Source:     encodeTest(t, page, "png"),
		SourceName: "page.png",
		Operation:  session.Remove,
	})
	if err != nil || !resp.Success {
		t.Fatalf("got %+v, %v", resp, err)
	}
	out, err := imageio.Decode(resp.Processed)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []image.Point{{40, 100}, {42, 105}, {195, 111}} {
		if r, _, _, _ := out.At(p.X, p.Y).RGBA(); r>>8 < 240 {
			t.Errorf("pixel %v is %d after removal", p, r>>8)
		}
	}

	blank := encodeTest(t, plainImage(40), "png")
	resp, err = l.Process(context.Background(), &session.Request{
		Source:     blank,
		SourceName: "blank.png",
		Operation:  session.Blur,
	})
	if err != nil || !resp.Success {
		t.Fatalf("got %+v, %v", resp, err)
	}
	out, err = imageio.Decode(resp.Processed)
	if err != nil {
		t.Fatal(err)
	}
	if c := imaging.Clone(out).NRGBAAt(20, 20); c != background {
		t.Errorf("image without text changed: %v", c)
	}
}

// plainImage returns an image filled with the background colour.
func plainImage(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		for x := range size {
			img.SetNRGBA(x, y, background)
		}
	}
	return img
}

func TestStore(t *testing.T) {
	for _, dir := range []string{"", t.TempDir()} {
		store, err := NewStore(dir)
		if err != nil {
			t.Fatal(err)
		}
		id, err := store.Put([]byte("data"), "jpg")
		if err != nil {
			t.Fatal(err)
		}
		got, err := store.Get(id)
		if err != nil || string(got) != "data" {
			t.Errorf("dir %q: got %q, %v", dir, got, err)
		}

		for _, bad := range []string{
			"x.png",
			"../" + id,
			strings.TrimSuffix(id, ".jpg"),
			strings.TrimSuffix(id, ".jpg") + ".txt",
			"5b0c8b7e-5f4e-4b8e-9d1e-3c3c0c7f1a2b.png",
		} {
			if _, err := store.Get(bad); !errors.Is(err, ErrNotFound) {
				t.Errorf("dir %q: Get(%q) = %v, want ErrNotFound", dir, bad, err)
			}
		}
	}
}
