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

package session

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/google/uuid"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/brushmask"
	"seehuhn.de/go/brushmask/imageio"
)

// Controller owns the state of a brushing session. All methods are safe
// for concurrent use, so that a submission can be completed from another
// goroutine.
type Controller struct {
	proc Processor

	mu      sync.Mutex
	state   State
	id      uuid.UUID
	gen     uint64
	src     *imageio.Source
	scale   brushmask.Scale
	rec     *brushmask.Recorder
	brush   brushmask.Brush
	op      Operation
	surface brushmask.Surface
	color   color.NRGBA
	err     error
	result  *Response
}

// Submission is a request handed out by [Controller.Begin], to be passed
// back to [Controller.Complete] once the processor has answered.
type Submission struct {
	Request *Request

	gen uint64
}

// New returns a controller in the Selecting state, which sends its
// submissions to p.
func New(p Processor) *Controller {
	return &Controller{
		proc:  p,
		rec:   brushmask.NewRecorder(brushmask.DefaultBrush),
		brush: brushmask.DefaultBrush,
		op:    Remove,
		color: brushmask.OverlayColor,
	}
}

// Attach sets the surface which shows the strokes, and redraws it. A nil
// surface detaches the current one.
func (c *Controller) Attach(s brushmask.Surface, col color.NRGBA) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.surface = s
	c.color = col
	c.redraw()
}

// Load starts a new session for src. Any previous strokes are discarded,
// and a submission still in flight is ignored when it completes.
func (c *Controller) Load(src *imageio.Source) error {
	if src == nil {
		return ErrNoImage
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	s, err := brushmask.ComputeScale(float64(src.NativeWidth), float64(src.NativeHeight),
		src.DisplayWidth, src.DisplayHeight)
	if err != nil {
		c.reset()
		c.state = Error
		c.err = err
		return err
	}

	c.reset()
	c.src = src
	c.scale = s
	c.id = uuid.New()
	c.state = Brushing
	return nil
}

// Reset discards the image and all strokes and returns to Selecting.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reset()
}

func (c *Controller) reset() {
	c.gen++
	c.state = Selecting
	c.id = uuid.Nil
	c.src = nil
	c.scale = brushmask.Scale{}
	c.rec = brushmask.NewRecorder(c.brush)
	c.err = nil
	c.result = nil
	c.redraw()
}

// PointerDown starts a stroke. Client and origin are the pointer position
// and the top-left corner of the displayed image, in the same coordinate
// system. The result reports whether the event was used.
func (c *Controller) PointerDown(client, origin vec.Vec2) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Brushing {
		return false
	}
	c.rec.Begin(brushmask.Locate(client, origin))
	c.paintLatest()
	return true
}

// PointerMove extends the stroke in progress, if any.
func (c *Controller) PointerMove(client, origin vec.Vec2) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Brushing || !c.rec.Extend(brushmask.Locate(client, origin)) {
		return false
	}
	c.paintLatest()
	return true
}

// PointerUp completes the stroke in progress.
func (c *Controller) PointerUp() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Brushing {
		return false
	}
	return c.rec.End()
}

// PointerLeave is called when the pointer leaves the image. It completes
// the stroke in progress.
func (c *Controller) PointerLeave() bool {
	return c.PointerUp()
}

// Undo removes the most recent stroke.
func (c *Controller) Undo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Brushing || !c.rec.Undo() {
		return false
	}
	c.redraw()
	return true
}

// Clear removes all strokes.
func (c *Controller) Clear() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Brushing {
		return false
	}
	c.rec.Clear()
	c.redraw()
	return true
}

// SetBrush changes the brush used for new points. Points which have
// already been captured keep their size and opacity.
func (c *Controller) SetBrush(b brushmask.Brush) error {
	if err := b.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Submitting {
		return ErrBusy
	}
	c.brush = b
	c.rec.Brush = b
	return nil
}

// SetOperation selects the operation for the next submission.
func (c *Controller) SetOperation(op Operation) error {
	op, err := ParseOperation(string(op))
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Submitting {
		return ErrBusy
	}
	c.op = op
	return nil
}

// Proceed rasterises the mask, submits it together with the image and
// waits for the processor. On success the controller is in the Result
// state; if the processor fails the controller is in the Error state and
// the strokes are kept for a retry.
func (c *Controller) Proceed(ctx context.Context) (*Response, error) {
	sub, err := c.Begin()
	if err != nil {
		return nil, err
	}
	resp, err := c.proc.Process(ctx, sub.Request)
	if err := c.Complete(sub, resp, err); err != nil {
		return nil, err
	}
	return resp, nil
}

// Begin prepares a submission and moves to the Submitting state. Callers
// which run the processor themselves must pass the outcome to Complete.
func (c *Controller) Begin() (*Submission, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.state == Submitting:
		return nil, ErrBusy
	case c.src == nil:
		return nil, ErrNoImage
	case c.state != Brushing:
		return nil, fmt.Errorf("%w: state is %s", ErrNotBrushing, c.state)
	}

	c.rec.End()
	if c.rec.Len() == 0 {
		c.err = ErrNoStrokesSelected
		return nil, ErrNoStrokesSelected
	}

	mask, err := brushmask.Rasterize(c.rec.Strokes(), c.src.NativeWidth, c.src.NativeHeight, c.scale)
	if err != nil {
		c.fail(err)
		return nil, err
	}
	buf := &bytes.Buffer{}
	if err := imageio.EncodePNG(buf, mask); err != nil {
		c.fail(err)
		return nil, err
	}

	c.state = Submitting
	c.err = nil
	sub := &Submission{
		Request: &Request{
			Source:     c.src.Data,
			SourceName: c.src.Name,
			Mask:       buf.Bytes(),
			Operation:  c.op,
		},
		gen: c.gen,
	}
	return sub, nil
}

// Complete records the outcome of a submission. Outcomes for submissions
// made before the last Reset or Load, or a nil submission, are discarded
// and ErrStale is returned.
func (c *Controller) Complete(sub *Submission, resp *Response, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if sub == nil || sub.gen != c.gen || c.state != Submitting {
		return ErrStale
	}

	switch {
	case err != nil:
		c.fail(&ProcessingError{Message: networkErrorMessage, Err: err})
	case resp == nil:
		c.fail(&ProcessingError{Message: networkErrorMessage})
	case !resp.Success:
		msg := resp.Error
		if msg == "" {
			msg = networkErrorMessage
		}
		c.fail(&ProcessingError{Message: msg})
	default:
		c.state = Result
		c.result = resp
		return nil
	}
	return c.err
}

func (c *Controller) fail(err error) {
	c.state = Error
	c.err = err
}

// Retry leaves the Error state. The session returns to brushing with its
// strokes intact, or to Selecting if no image is loaded.
func (c *Controller) Retry() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Error {
		return false
	}
	c.err = nil
	if c.src == nil {
		c.state = Selecting
	} else {
		c.state = Brushing
	}
	return true
}

// State returns the current workflow step.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the error which caused the Error state, or the last
// ErrNoStrokesSelected while brushing.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Message returns the user-facing text for Err.
func (c *Controller) Message() string {
	return Message(c.Err())
}

// Result returns the processor's answer once in the Result state.
func (c *Controller) Result() *Response {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// ID returns the session identifier, or the empty string when no image is
// loaded.
func (c *Controller) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.id == uuid.Nil {
		return ""
	}
	return c.id.String()
}

// Source returns the loaded image.
func (c *Controller) Source() *imageio.Source {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.src
}

// Scale returns the mapping from display to native coordinates.
func (c *Controller) Scale() brushmask.Scale {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scale
}

// Brush returns the brush used for new points.
func (c *Controller) Brush() brushmask.Brush {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.brush
}

// Operation returns the operation for the next submission.
func (c *Controller) Operation() Operation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.op
}

// Strokes returns a copy of the completed strokes, in display
// coordinates.
func (c *Controller) Strokes() []brushmask.Stroke {
	c.mu.Lock()
	defer c.mu.Unlock()

	strokes := c.rec.Strokes()
	res := make([]brushmask.Stroke, len(strokes))
	for i, s := range strokes {
		res[i] = append(brushmask.Stroke(nil), s...)
	}
	return res
}

// Mask rasterises the current strokes at the native image size.
func (c *Controller) Mask() (*image.Gray, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.src == nil {
		return nil, ErrNoImage
	}
	if c.rec.Len() == 0 {
		return nil, ErrNoStrokesSelected
	}
	return brushmask.Rasterize(c.rec.Strokes(), c.src.NativeWidth, c.src.NativeHeight, c.scale)
}

func (c *Controller) paintLatest() {
	if c.surface == nil {
		return
	}
	brushmask.PaintLatest(c.surface, c.rec.Current(), c.color)
}

func (c *Controller) redraw() {
	if c.surface == nil {
		return
	}
	brushmask.RenderOverlay(c.surface, c.rec.Strokes(), c.color)
}
