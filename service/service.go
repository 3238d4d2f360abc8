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

// Package service implements the processing side of brushmask: an
// in-process [session.Processor] which removes or blurs the marked regions
// of an image, an HTTP server exposing it, and a client for that server.
package service

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"

	"seehuhn.de/go/brushmask/imageio"
	"seehuhn.de/go/brushmask/session"
)

var (
	// ErrUnknownOperation is returned for operation names other than
	// "remove" and "blur".
	ErrUnknownOperation = session.ErrUnknownOperation

	// ErrNotFound is returned for unknown result identifiers.
	ErrNotFound = errors.New("result not found")
)

const (
	// maskThreshold separates marked from unmarked mask pixels.
	maskThreshold = 127

	// inpaintRadius is the neighbourhood, in pixels, used to fill in a
	// removed pixel.
	inpaintRadius = 3
)

// Results gives access to processed images by their identifier.
type Results interface {
	Get(id string) ([]byte, error)
}

// Store keeps processed images. Results are kept in memory, or as files
// in a directory if one is given.
type Store struct {
	dir string

	mu  sync.Mutex
	mem map[string][]byte
}

// NewStore returns a store which writes into dir. An empty dir keeps the
// results in memory.
func NewStore(dir string) (*Store, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create result directory: %w", err)
		}
	}
	return &Store{dir: dir, mem: make(map[string][]byte)}, nil
}

// Put stores data and returns the new identifier. The identifier ends in
// "."+ext so that the file type can be recovered from it.
func (s *Store) Put(data []byte, ext string) (string, error) {
	id := uuid.NewString() + "." + ext
	if s.dir != "" {
		if err := os.WriteFile(filepath.Join(s.dir, id), data, 0644); err != nil {
			return "", err
		}
		return id, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mem[id] = data
	return id, nil
}

// Get returns the result stored under id.
func (s *Store) Get(id string) ([]byte, error) {
	base, ext, ok := strings.Cut(id, ".")
	if !ok || !imageio.Allowed(id) || strings.Contains(ext, ".") {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if _, err := uuid.Parse(base); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	if s.dir != "" {
		data, err := os.ReadFile(filepath.Join(s.dir, id))
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
		}
		return data, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.mem[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return data, nil
}

// resizeMask converts mask to grey scale at size w×h, interpolating
// bilinearly if the sizes differ.
func resizeMask(mask image.Image, w, h int) *image.Gray {
	b := mask.Bounds()
	res := image.NewGray(image.Rect(0, 0, w, h))
	if b.Dx() == w && b.Dy() == h {
		xdraw.Draw(res, res.Bounds(), mask, b.Min, xdraw.Src)
	} else {
		xdraw.BiLinear.Scale(res, res.Bounds(), mask, b, xdraw.Src, nil)
	}
	return res
}

// binarize sets every pixel above the threshold to white and all others
// to black.
func binarize(mask *image.Gray) {
	for i, v := range mask.Pix {
		if v > maskThreshold {
			mask.Pix[i] = 0xff
		} else {
			mask.Pix[i] = 0
		}
	}
}

func marked(mask *image.Gray, x, y int) bool {
	return mask.GrayAt(x, y) == color.Gray{Y: 0xff}
}
