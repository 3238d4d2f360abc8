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

// Package imageio reads uploaded images and writes masks and results.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// MaxUploadSize is the largest accepted image file, in bytes.
const MaxUploadSize = 16 << 20

var (
	// ErrUnsupportedType is returned for files which are not one of the
	// accepted image types.
	ErrUnsupportedType = errors.New("unsupported image type")

	// ErrTooLarge is returned for files larger than MaxUploadSize.
	ErrTooLarge = errors.New("image file too large")
)

var allowedExtensions = []string{"png", "jpg", "jpeg", "gif", "bmp", "webp"}

// Allowed reports whether name has one of the accepted image extensions.
func Allowed(name string) bool {
	return slices.Contains(allowedExtensions, Extension(name))
}

// Extension returns the lower-case file extension of name, without the
// dot.
func Extension(name string) string {
	ext := filepath.Ext(name)
	if len(ext) > 0 {
		return strings.ToLower(ext[1:])
	}
	return ""
}

// Source is an image chosen for brushing.
type Source struct {
	// Name is the original file name.
	Name string

	// Data holds the file contents, which are submitted unchanged.
	Data []byte

	// Image is the decoded image, with EXIF orientation applied.
	Image image.Image

	NativeWidth  int
	NativeHeight int

	// DisplayWidth and DisplayHeight give the size at which the image
	// is shown for brushing.
	DisplayWidth  float64
	DisplayHeight float64
}

// Load validates and decodes an image file. The display size is the
// native size, shrunk to fit into maxW×maxH if necessary. Images are
// never enlarged. A non-positive maxW or maxH disables the limit.
func Load(name string, data []byte, maxW, maxH int) (*Source, error) {
	if !Allowed(name) {
		return nil, fmt.Errorf("%s: %w", name, ErrUnsupportedType)
	}
	if len(data) > MaxUploadSize {
		return nil, fmt.Errorf("%s: %w (%d bytes)", name, ErrTooLarge, len(data))
	}

	img, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	b := img.Bounds()
	src := &Source{
		Name:         name,
		Data:         data,
		Image:        img,
		NativeWidth:  b.Dx(),
		NativeHeight: b.Dy(),
	}
	src.DisplayWidth, src.DisplayHeight = FitSize(b.Dx(), b.Dy(), maxW, maxH)
	return src, nil
}

// Open reads an image file from disk, see Load.
func Open(path string, maxW, maxH int) (*Source, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.Size() > MaxUploadSize {
		return nil, fmt.Errorf("%s: %w (%d bytes)", path, ErrTooLarge, fi.Size())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(filepath.Base(path), data, maxW, maxH)
}

// Decode decodes image data in any of the accepted formats.
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err == nil {
		return img, nil
	}
	if img, werr := webp.Decode(bytes.NewReader(data)); werr == nil {
		return img, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnsupportedType, err)
}

// FitSize returns the size at which a w×h image is shown inside a
// maxW×maxH viewport. Display sizes are whole pixels.
func FitSize(w, h, maxW, maxH int) (float64, float64) {
	ratio := 1.0
	if maxW > 0 && maxH > 0 {
		ratio = min(ratio, float64(maxW)/float64(w), float64(maxH)/float64(h))
	}
	dw := max(math.Round(float64(w)*ratio), 1)
	dh := max(math.Round(float64(h)*ratio), 1)
	return dw, dh
}

// Preview returns the image scaled to its display size.
func (s *Source) Preview() image.Image {
	w, h := int(s.DisplayWidth), int(s.DisplayHeight)
	if w == s.NativeWidth && h == s.NativeHeight {
		return imaging.Clone(s.Image)
	}
	return imaging.Resize(s.Image, w, h, imaging.Lanczos)
}

// EncodePNG writes img losslessly as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
}

// Encode writes img in the format named by ext ("png", "jpg", "jpeg",
// "gif", "bmp" or "webp"). Quality is used for JPEG and lossy WebP; a
// non-positive quality selects lossless WebP.
func Encode(w io.Writer, img image.Image, ext string, quality int) error {
	switch strings.ToLower(ext) {
	case "png":
		return EncodePNG(w, img)
	case "jpg", "jpeg":
		if quality <= 0 {
			quality = 95
		}
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
	case "gif":
		return imaging.Encode(w, img, imaging.GIF)
	case "bmp":
		return imaging.Encode(w, img, imaging.BMP)
	case "webp":
		opt := &webp.Options{Lossless: quality <= 0, Quality: float32(quality)}
		return webp.Encode(w, img, opt)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
}

// Save writes img to a file, choosing the format from the file name.
func Save(path string, img image.Image, quality int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Encode(f, img, Extension(path), quality)
}

// ContentType returns the MIME type for an image extension.
func ContentType(ext string) string {
	switch strings.ToLower(ext) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png", "gif", "bmp", "webp":
		return "image/" + strings.ToLower(ext)
	default:
		return "application/octet-stream"
	}
}
