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
	"errors"
	"image"
	"image/png"
	"sync"
	"testing"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/brushmask"
	"seehuhn.de/go/brushmask/imageio"
	"seehuhn.de/go/brushmask/raster"
)

// countingProcessor records the requests it receives and answers with a
// fixed response.
type countingProcessor struct {
	mu    sync.Mutex
	calls int
	last  *Request
	resp  *Response
	err   error
}

func (p *countingProcessor) Process(ctx context.Context, req *Request) (*Response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.last = req
	return p.resp, p.err
}

func testSource() *imageio.Source {
	return &imageio.Source{
		Name:          "photo.png",
		Data:          []byte("original bytes"),
		NativeWidth:   1000,
		NativeHeight:  500,
		DisplayWidth:  500,
		DisplayHeight: 250,
	}
}

var origin = vec.Vec2{X: 10, Y: 20}

// paint draws a stroke through the given display positions.
func paint(t *testing.T, c *Controller, pts ...vec.Vec2) {
	t.Helper()
	if !c.PointerDown(pts[0].Add(origin), origin) {
		t.Fatal("pointer down ignored")
	}
	for _, p := range pts[1:] {
		if !c.PointerMove(p.Add(origin), origin) {
			t.Fatal("pointer move ignored")
		}
	}
	c.PointerUp()
}

func newBrushing(t *testing.T, p Processor) *Controller {
	t.Helper()
	c := New(p)
	if err := c.Load(testSource()); err != nil {
		t.Fatal(err)
	}
	if c.State() != Brushing {
		t.Fatalf("state %s after load", c.State())
	}
	return c
}

func TestProceedWithoutStrokes(t *testing.T) {
	p := &countingProcessor{resp: &Response{Success: true}}
	c := newBrushing(t, p)

	_, err := c.Proceed(context.Background())
	if !errors.Is(err, ErrNoStrokesSelected) {
		t.Fatalf("got %v, want ErrNoStrokesSelected", err)
	}
	if p.calls != 0 {
		t.Errorf("processor called %d times", p.calls)
	}
	if c.State() != Brushing {
		t.Errorf("state %s, want brushing", c.State())
	}
	if msg := c.Message(); msg != "Please paint some areas first" {
		t.Errorf("message %q", msg)
	}

	// a click without release is not yet a stroke in the history, but
	// is committed by the submission
	c.PointerDown(vec.Vec2{X: 50, Y: 50}, origin)
	if _, err := c.Proceed(context.Background()); err != nil {
		t.Fatal(err)
	}
	if p.calls != 1 {
		t.Errorf("processor called %d times", p.calls)
	}
}

func TestProceedSuccess(t *testing.T) {
	p := &countingProcessor{resp: &Response{Success: true, Processed: []byte("result"), ResultID: "abc"}}
	c := newBrushing(t, p)
	if err := c.SetOperation(Blur); err != nil {
		t.Fatal(err)
	}
	paint(t, c, vec.Vec2{X: 100, Y: 100}, vec.Vec2{X: 200, Y: 100})

	resp, err := c.Proceed(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if c.State() != Result || resp.ResultID != "abc" || c.Result() != resp {
		t.Errorf("state %s, response %+v", c.State(), resp)
	}

	req := p.last
	if req.Operation != Blur || req.SourceName != "photo.png" || string(req.Source) != "original bytes" {
		t.Errorf("unexpected request %+v", req)
	}
	img, err := png.Decode(bytes.NewReader(req.Mask))
	if err != nil {
		t.Fatal(err)
	}
	mask, ok := img.(*image.Gray)
	if !ok {
		t.Fatalf("mask is %T", img)
	}
	if b := mask.Bounds(); b.Dx() != 1000 || b.Dy() != 500 {
		t.Fatalf("mask size %v", b)
	}
	if mask.GrayAt(300, 200).Y != 255 || mask.GrayAt(300, 230).Y != 0 {
		t.Error("mask does not match the stroke")
	}
}

func TestProceedFailureKeepsStrokes(t *testing.T) {
	p := &countingProcessor{resp: &Response{Success: false, Error: "Failed to process image"}}
	c := newBrushing(t, p)
	paint(t, c, vec.Vec2{X: 10, Y: 10}, vec.Vec2{X: 20, Y: 20})
	paint(t, c, vec.Vec2{X: 30, Y: 30})

	_, err := c.Proceed(context.Background())
	if !errors.Is(err, ErrProcessingFailure) {
		t.Fatalf("got %v, want ErrProcessingFailure", err)
	}
	if c.State() != Error || c.Message() != "Failed to process image" {
		t.Errorf("state %s, message %q", c.State(), c.Message())
	}

	if !c.Retry() {
		t.Fatal("retry refused")
	}
	if c.State() != Brushing || len(c.Strokes()) != 2 {
		t.Fatalf("state %s with %d strokes after retry", c.State(), len(c.Strokes()))
	}

	// transport failures get the generic message
	netErr := errors.New("connection refused")
	p.resp, p.err = nil, netErr
	_, err = c.Proceed(context.Background())
	if !errors.Is(err, netErr) || !errors.Is(err, ErrProcessingFailure) {
		t.Errorf("error %v does not wrap the cause", err)
	}
	if msg := c.Message(); msg != networkErrorMessage {
		t.Errorf("message %q", msg)
	}

	// a failure without explanation also gets the generic message
	c.Retry()
	p.resp, p.err = &Response{}, nil
	c.Proceed(context.Background())
	if msg := c.Message(); msg != networkErrorMessage {
		t.Errorf("message %q", msg)
	}
}

func TestResetIgnoresStaleResponse(t *testing.T) {
	c := newBrushing(t, nil)
	paint(t, c, vec.Vec2{X: 50, Y: 50})

	sub, err := c.Begin()
	if err != nil {
		t.Fatal(err)
	}
	c.Reset()

	err = c.Complete(sub, &Response{Success: true, ResultID: "late"}, nil)
	if !errors.Is(err, ErrStale) {
		t.Errorf("got %v, want ErrStale", err)
	}
	if c.State() != Selecting || c.Result() != nil {
		t.Errorf("stale response changed the session: %s", c.State())
	}

	// the same holds when a new image was loaded in the meantime
	c.Load(testSource())
	paint(t, c, vec.Vec2{X: 50, Y: 50})
	old, _ := c.Begin()
	c.Load(testSource())
	if err := c.Complete(old, nil, errors.New("timeout")); !errors.Is(err, ErrStale) {
		t.Errorf("got %v, want ErrStale", err)
	}
	if c.State() != Brushing || len(c.Strokes()) != 0 {
		t.Errorf("state %s with %d strokes", c.State(), len(c.Strokes()))
	}
}

// TestCompleteNilSubmission checks that a nil submission is rejected
// without touching a submission in flight.
func TestCompleteNilSubmission(t *testing.T) {
	c := newBrushing(t, nil)
	paint(t, c, vec.Vec2{X: 50, Y: 50})

	sub, err := c.Begin()
	if err != nil {
		t.Fatal(err)
	}
	err = c.Complete(nil, &Response{Success: true, ResultID: "x"}, nil)
	if !errors.Is(err, ErrStale) {
		t.Errorf("got %v, want ErrStale", err)
	}
	if c.State() != Submitting || c.Result() != nil {
		t.Errorf("nil submission changed the session: %s", c.State())
	}

	if err := c.Complete(sub, &Response{Success: true, ResultID: "y"}, nil); err != nil {
		t.Fatal(err)
	}
	if c.State() != Result || c.Result().ResultID != "y" {
		t.Errorf("state %s, result %v", c.State(), c.Result())
	}
}

func TestSubmittingLocksInput(t *testing.T) {
	c := newBrushing(t, nil)
	paint(t, c, vec.Vec2{X: 50, Y: 50})

	sub, err := c.Begin()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Begin(); !errors.Is(err, ErrBusy) {
		t.Errorf("second submission: %v", err)
	}
	if c.PointerDown(vec.Vec2{X: 60, Y: 60}, origin) {
		t.Error("pointer accepted while submitting")
	}
	if c.Undo() || c.Clear() {
		t.Error("history changed while submitting")
	}
	if err := c.SetBrush(brushmask.Brush{Size: 5, Opacity: 1}); !errors.Is(err, ErrBusy) {
		t.Errorf("SetBrush: %v", err)
	}

	// completion from another goroutine
	done := make(chan error)
	go func() {
		done <- c.Complete(sub, &Response{Success: true}, nil)
	}()
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if c.State() != Result {
		t.Errorf("state %s", c.State())
	}
	if _, err := c.Begin(); !errors.Is(err, ErrNotBrushing) {
		t.Errorf("submission from result state: %v", err)
	}
}

func TestLoadInvalidDimensions(t *testing.T) {
	c := newBrushing(t, nil)
	paint(t, c, vec.Vec2{X: 50, Y: 50})

	src := testSource()
	src.DisplayWidth = 0
	if err := c.Load(src); !errors.Is(err, brushmask.ErrInvalidDimensions) {
		t.Fatalf("got %v, want ErrInvalidDimensions", err)
	}
	if c.State() != Error || c.Source() != nil || len(c.Strokes()) != 0 {
		t.Errorf("session not reset: %s", c.State())
	}
	c.Retry()
	if c.State() != Selecting {
		t.Errorf("retry went to %s", c.State())
	}
	if err := c.Load(nil); !errors.Is(err, ErrNoImage) {
		t.Errorf("nil source: %v", err)
	}
}

func TestEventsOutsideBrushing(t *testing.T) {
	c := New(nil)
	if c.PointerDown(vec.Vec2{}, origin) || c.PointerMove(vec.Vec2{}, origin) || c.PointerUp() {
		t.Error("pointer event accepted without image")
	}
	if _, err := c.Begin(); !errors.Is(err, ErrNoImage) {
		t.Errorf("got %v, want ErrNoImage", err)
	}
	if _, err := c.Mask(); !errors.Is(err, ErrNoImage) {
		t.Errorf("got %v, want ErrNoImage", err)
	}
	if c.Retry() {
		t.Error("retry outside error state")
	}
}

func TestPointerCoordinates(t *testing.T) {
	c := newBrushing(t, nil)
	if err := c.SetBrush(brushmask.Brush{Size: 7, Opacity: 0.25}); err != nil {
		t.Fatal(err)
	}
	c.PointerDown(vec.Vec2{X: 110, Y: 120}, origin)
	c.PointerMove(vec.Vec2{X: 111, Y: 122}, origin)
	if err := c.SetBrush(brushmask.Brush{Size: 30, Opacity: 1}); err != nil {
		t.Fatal(err)
	}
	c.PointerMove(vec.Vec2{X: 112, Y: 124}, origin)
	c.PointerLeave()

	// moves after leaving the image are dropped
	if c.PointerMove(vec.Vec2{X: 200, Y: 200}, origin) {
		t.Error("move accepted after leave")
	}

	strokes := c.Strokes()
	if len(strokes) != 1 || len(strokes[0]) != 3 {
		t.Fatalf("strokes %v", strokes)
	}
	want := brushmask.Point{X: 100, Y: 100, Size: 7, Opacity: 0.25}
	if strokes[0][0] != want {
		t.Errorf("first point %+v, want %+v", strokes[0][0], want)
	}
	if strokes[0][2].Size != 30 {
		t.Errorf("brush change not applied to new points")
	}

	if err := c.SetBrush(brushmask.Brush{Size: -1}); !errors.Is(err, brushmask.ErrInvalidBrush) {
		t.Errorf("invalid brush: %v", err)
	}
	if err := c.SetOperation("sharpen"); !errors.Is(err, ErrUnknownOperation) {
		t.Errorf("invalid operation: %v", err)
	}
}

func TestAttachedSurface(t *testing.T) {
	c := newBrushing(t, nil)
	canvas := raster.NewCanvas(500, 250)
	c.Attach(canvas, brushmask.OverlayColor)

	painted := func() int {
		n := 0
		for i := 3; i < len(canvas.Image().Pix); i += 4 {
			if canvas.Image().Pix[i] != 0 {
				n++
			}
		}
		return n
	}

	paint(t, c, vec.Vec2{X: 100, Y: 100}, vec.Vec2{X: 150, Y: 120})
	one := painted()
	if one == 0 {
		t.Fatal("nothing painted while dragging")
	}
	paint(t, c, vec.Vec2{X: 300, Y: 200})
	if painted() <= one {
		t.Error("second stroke not painted")
	}

	// undo redraws the remaining history
	c.Undo()
	ref := raster.NewCanvas(500, 250)
	brushmask.RenderOverlay(ref, c.Strokes(), brushmask.OverlayColor)
	if !bytes.Equal(canvas.Image().Pix, ref.Image().Pix) {
		t.Error("overlay after undo differs from a full redraw")
	}
	c.Clear()
	if got := painted(); got != 0 {
		t.Errorf("after clear %d pixels painted", got)
	}
}

func TestSessionID(t *testing.T) {
	c := New(nil)
	if c.ID() != "" {
		t.Error("id without image")
	}
	c.Load(testSource())
	first := c.ID()
	c.Load(testSource())
	if first == "" || c.ID() == first {
		t.Errorf("ids %q and %q", first, c.ID())
	}
	c.Reset()
	if c.ID() != "" {
		t.Error("id after reset")
	}
}

func TestParseOperation(t *testing.T) {
	for in, want := range map[string]Operation{"": Remove, "remove": Remove, "blur": Blur} {
		got, err := ParseOperation(in)
		if err != nil || got != want {
			t.Errorf("ParseOperation(%q) = %q, %v", in, got, err)
		}
	}
}
