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

package brushmask

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Recording is a stroke history together with the display size it was
// captured at. It is stored as JSON.
type Recording struct {
	DisplayWidth  float64  `json:"display_width"`
	DisplayHeight float64  `json:"display_height"`
	Strokes       []Stroke `json:"strokes"`
}

// pointJSON is the stored form of a Point.
type pointJSON struct {
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	Size    float64  `json:"size"`
	Opacity *float64 `json:"opacity,omitempty"`
}

// MarshalJSON implements the json.Marshaler interface.
func (p Point) MarshalJSON() ([]byte, error) {
	op := p.Opacity
	return json.Marshal(pointJSON{X: p.X, Y: p.Y, Size: p.Size, Opacity: &op})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
// A missing opacity defaults to the opacity of DefaultBrush.
func (p *Point) UnmarshalJSON(data []byte) error {
	var raw pointJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Point{X: raw.X, Y: raw.Y, Size: raw.Size, Opacity: DefaultBrush.Opacity}
	if raw.Opacity != nil {
		p.Opacity = *raw.Opacity
	}
	return nil
}

// Validate checks the recording for empty strokes and unusable brushes.
func (rec *Recording) Validate() error {
	if !(rec.DisplayWidth > 0 && rec.DisplayHeight > 0) {
		return fmt.Errorf("%w: display %gx%g", ErrInvalidDimensions, rec.DisplayWidth, rec.DisplayHeight)
	}
	for i, stroke := range rec.Strokes {
		if len(stroke) == 0 {
			return fmt.Errorf("stroke %d: %w", i, ErrEmptyStrokeHistory)
		}
		for _, p := range stroke {
			if err := (Brush{Size: p.Size, Opacity: p.Opacity}).Validate(); err != nil {
				return fmt.Errorf("stroke %d: %w", i, err)
			}
		}
	}
	return nil
}

// ReadRecording decodes and validates a recording.
func ReadRecording(r io.Reader) (*Recording, error) {
	rec := &Recording{}
	if err := json.NewDecoder(r).Decode(rec); err != nil {
		return nil, fmt.Errorf("failed to parse recording: %w", err)
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

// LoadRecording reads a recording from a file.
func LoadRecording(fname string) (*Recording, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadRecording(f)
}

// Save writes the recording to a file.
func (rec *Recording) Save(fname string) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode recording: %w", err)
	}
	return os.WriteFile(fname, data, 0o644)
}
