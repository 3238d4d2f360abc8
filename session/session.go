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

// Package session sequences the brushing workflow for one image at a time:
// selecting an image, painting strokes over it, submitting image and mask
// to a [Processor], and showing the result.
package session

import (
	"context"
	"errors"
	"fmt"
)

// State is a step of the brushing workflow.
type State int

const (
	Selecting State = iota
	Brushing
	Submitting
	Result
	Error
)

func (s State) String() string {
	switch s {
	case Selecting:
		return "selecting"
	case Brushing:
		return "brushing"
	case Submitting:
		return "submitting"
	case Result:
		return "result"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Operation selects what the processing service does with the marked
// regions.
type Operation string

const (
	Remove Operation = "remove"
	Blur   Operation = "blur"
)

// ParseOperation converts an operation name into an Operation. The empty
// string selects Remove.
func ParseOperation(s string) (Operation, error) {
	switch Operation(s) {
	case Remove, "":
		return Remove, nil
	case Blur:
		return Blur, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownOperation, s)
	}
}

var (
	// ErrNoStrokesSelected is returned when a submission is attempted
	// before anything has been painted.
	ErrNoStrokesSelected = errors.New("no strokes selected")

	// ErrBusy is returned while a submission is in flight.
	ErrBusy = errors.New("submission in progress")

	// ErrNoImage is returned when an operation needs an image but none is
	// loaded.
	ErrNoImage = errors.New("no image loaded")

	// ErrNotBrushing is returned when a submission is attempted outside
	// the brushing step.
	ErrNotBrushing = errors.New("not brushing")

	// ErrStale is returned when a completion arrives for a submission
	// which has been superseded by a reset or a new image.
	ErrStale = errors.New("stale submission")

	// ErrUnknownOperation is returned for operation names other than
	// "remove" and "blur".
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrProcessingFailure marks all failures reported by, or while
	// talking to, the processing service.
	ErrProcessingFailure = errors.New("processing failed")
)

const (
	noStrokesMessage    = "Please paint some areas first"
	networkErrorMessage = "Network error. Please check your connection and try again."
)

// ProcessingError describes a failed submission. Message is suitable for
// showing to the user.
type ProcessingError struct {
	Message string

	// Err is the transport error, if any.
	Err error
}

func (e *ProcessingError) Error() string {
	return "processing failed: " + e.Message
}

func (e *ProcessingError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrProcessingFailure}
	}
	return []error{ErrProcessingFailure, e.Err}
}

// Message returns the text shown to the user for err.
func Message(err error) string {
	var perr *ProcessingError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoStrokesSelected):
		return noStrokesMessage
	case errors.As(err, &perr):
		return perr.Message
	default:
		return err.Error()
	}
}

// Request is a submission to the processing service.
type Request struct {
	// Source holds the original image file, unchanged.
	Source     []byte
	SourceName string

	// Mask is a black and white PNG at the native size of the source. An
	// empty mask asks the processor to find the text regions itself.
	Mask []byte

	Operation Operation
}

// Response is the outcome of a submission.
type Response struct {
	Success bool

	// Processed holds the encoded result image.
	Processed []byte

	// Error is the service's explanation for a failure. It may be empty.
	Error string

	// ResultID identifies the result for later download.
	ResultID string
}

// Processor removes or blurs the marked regions of an image.
type Processor interface {
	Process(ctx context.Context, req *Request) (*Response, error)
}
