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
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"seehuhn.de/go/brushmask/imageio"
	"seehuhn.de/go/brushmask/session"
)

// blurSigma gives the same blur as a 15×15 Gaussian kernel.
const blurSigma = 2.6

// Local processes images in the current process.
type Local struct {
	// Store receives the results. If Store is nil, results are not kept
	// and responses carry no result identifier.
	Store *Store

	// Quality is used when results are written as JPEG or WebP.
	Quality int
}

// NewLocal returns a processor which keeps its results in store.
func NewLocal(store *Store) *Local {
	return &Local{Store: store, Quality: 95}
}

// Process implements [session.Processor]. Problems with the request are
// reported as an unsuccessful response. The result is encoded in the
// format of the source file. If the request carries no mask, the text
// regions found by [Detect] are processed instead.
func (l *Local) Process(ctx context.Context, req *session.Request) (*session.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	op, err := session.ParseOperation(string(req.Operation))
	if err != nil {
		return failure("Invalid operation"), nil
	}
	img, err := imageio.Decode(req.Source)
	if err != nil {
		return failure("Could not load image"), nil
	}
	var mask image.Image
	if len(req.Mask) == 0 {
		mask = autoMask(img, op)
	} else {
		mask, err = imageio.Decode(req.Mask)
		if err != nil {
			return failure("Could not load brush mask"), nil
		}
	}

	out, err := Apply(img, mask, op)
	if err != nil {
		return failure("Failed to process image"), nil
	}

	ext := imageio.Extension(req.SourceName)
	if !imageio.Allowed(req.SourceName) {
		ext = "png"
	}
	buf := &bytes.Buffer{}
	if err := imageio.Encode(buf, out, ext, l.Quality); err != nil {
		return failure("Failed to process image"), nil
	}

	res := &session.Response{Success: true, Processed: buf.Bytes()}
	if l.Store != nil {
		id, err := l.Store.Put(res.Processed, ext)
		if err != nil {
			return nil, err
		}
		res.ResultID = id
	}
	return res, nil
}

// Get returns a stored result.
func (l *Local) Get(id string) ([]byte, error) {
	if l.Store == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return l.Store.Get(id)
}

// autoMask marks the text regions of img. Regions which are to be removed
// are padded.
func autoMask(img image.Image, op session.Operation) *image.Gray {
	pad := 0
	if op == session.Remove {
		pad = regionPadding
	}
	b := img.Bounds()
	return regionMask(b.Dx(), b.Dy(), Detect(img), pad)
}

func failure(msg string) *session.Response {
	return &session.Response{Error: msg}
}

// Apply removes or blurs the regions of img which are white in mask. The
// mask is resized to the image if necessary.
func Apply(img, mask image.Image, op session.Operation) (*image.NRGBA, error) {
	b := img.Bounds()
	m := resizeMask(mask, b.Dx(), b.Dy())

	switch op {
	case session.Remove:
		binarize(m)
		return inpaint(imaging.Clone(img), m)
	case session.Blur:
		return blur(img, m), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}
}

// blur blends a blurred copy of img into img, using the mask values as
// weights. The alpha channel is kept.
func blur(img image.Image, mask *image.Gray) *image.NRGBA {
	res := imaging.Clone(img)
	blurred := imaging.Blur(res, blurSigma)

	w, h := res.Rect.Dx(), res.Rect.Dy()
	for y := range h {
		for x := range w {
			a := uint32(mask.Pix[y*mask.Stride+x])
			if a == 0 {
				continue
			}
			i := y*res.Stride + 4*x
			for c := range 3 {
				v := uint32(res.Pix[i+c])*(255-a) + uint32(blurred.Pix[i+c])*a
				res.Pix[i+c] = uint8((v + 127) / 255)
			}
		}
	}
	return res
}
