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
	"slices"

	"seehuhn.de/go/geom/vec"
)

// RecorderState is the state of a [Recorder].
type RecorderState int

const (
	Idle RecorderState = iota
	Drawing
)

func (s RecorderState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	default:
		return "unknown"
	}
}

// Recorder turns pointer positions into strokes and keeps the history of
// completed strokes.
//
// A Recorder is not safe for concurrent use.
type Recorder struct {
	// Brush is copied into every point at the time it is captured.
	Brush Brush

	state   RecorderState
	current Stroke
	history []Stroke
}

// NewRecorder returns an idle recorder with an empty history.
func NewRecorder(b Brush) *Recorder {
	return &Recorder{Brush: b}
}

// State returns the current state.
func (r *Recorder) State() RecorderState {
	return r.state
}

// Begin starts a new stroke at pos. If a stroke is already in progress,
// it is completed first.
func (r *Recorder) Begin(pos vec.Vec2) {
	if r.state == Drawing {
		r.End()
	}
	r.state = Drawing
	r.current = append(r.current[:0], r.capture(pos))
}

// Extend adds pos to the stroke in progress. The result is false, and
// nothing is recorded, if no stroke is in progress.
func (r *Recorder) Extend(pos vec.Vec2) bool {
	if r.state != Drawing {
		return false
	}
	r.current = append(r.current, r.capture(pos))
	return true
}

// End completes the stroke in progress and appends it to the history.
// The result is false if there was nothing to complete.
func (r *Recorder) End() bool {
	if r.state != Drawing {
		return false
	}
	r.state = Idle
	if len(r.current) == 0 {
		return false
	}
	r.history = append(r.history, slices.Clone(r.current))
	r.current = r.current[:0]
	return true
}

// Undo removes the most recently completed stroke. The result is false if
// the history was empty.
func (r *Recorder) Undo() bool {
	if len(r.history) == 0 {
		return false
	}
	r.history[len(r.history)-1] = nil
	r.history = r.history[:len(r.history)-1]
	return true
}

// Clear discards the history and any stroke in progress.
func (r *Recorder) Clear() {
	clear(r.history)
	r.history = r.history[:0]
	r.current = r.current[:0]
	r.state = Idle
}

// Strokes returns the completed strokes, oldest first. The strokes must
// not be modified.
func (r *Recorder) Strokes() []Stroke {
	return slices.Clip(r.history)
}

// Len returns the number of completed strokes.
func (r *Recorder) Len() int {
	return len(r.history)
}

// Current returns the stroke in progress, or nil when idle.
func (r *Recorder) Current() Stroke {
	if r.state != Drawing {
		return nil
	}
	return slices.Clip(r.current)
}

func (r *Recorder) capture(pos vec.Vec2) Point {
	return Point{X: pos.X, Y: pos.Y, Size: r.Brush.Size, Opacity: r.Brush.Opacity}
}
