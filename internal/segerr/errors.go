// Package segerr defines the error taxonomy shared by the segmentation
// pipeline and its collaborators.
//
// Every failure the pipeline can surface carries one of a small set of
// codes. Callers test for a code with errors.Is against the exported
// sentinels:
//
//	if errors.Is(err, segerr.ErrAmbiguousPolarity) {
//	    // perimeter sample was a tie
//	}
package segerr

import (
	"errors"
	"fmt"
)

// Code identifies the class of a pipeline failure.
type Code string

const (
	// Configuration and input errors
	ConfigOutOfRange       Code = "CONFIG_OUT_OF_RANGE"
	UnsupportedPixelFormat Code = "UNSUPPORTED_PIXEL_FORMAT"

	// Analysis errors
	AmbiguousPolarity Code = "AMBIGUOUS_POLARITY"
	InvalidRegion     Code = "INVALID_REGION"

	// Rendering errors
	InvalidDrawTarget Code = "INVALID_DRAW_TARGET"
)

// Error is a coded pipeline error.
type Error struct {
	Code    Code
	Message string
	Details map[string]interface{}
	Cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is.
var (
	ErrConfigOutOfRange       = &Error{Code: ConfigOutOfRange}
	ErrUnsupportedPixelFormat = &Error{Code: UnsupportedPixelFormat}
	ErrAmbiguousPolarity      = &Error{Code: AmbiguousPolarity}
	ErrInvalidRegion          = &Error{Code: InvalidRegion}
	ErrInvalidDrawTarget      = &Error{Code: InvalidDrawTarget}
)

// CodeOf returns the code carried by err, if any.
func CodeOf(err error) (Code, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}

// Factory functions

func NewConfigOutOfRange(field string, value interface{}, domain string) *Error {
	return &Error{
		Code:    ConfigOutOfRange,
		Message: fmt.Sprintf("%s = %v is outside %s", field, value, domain),
		Details: map[string]interface{}{
			"field":  field,
			"value":  value,
			"domain": domain,
		},
	}
}

func NewUnsupportedPixelFormat(model string, channels int) *Error {
	return &Error{
		Code:    UnsupportedPixelFormat,
		Message: fmt.Sprintf("unsupported pixel format %s (%d channels); want 1, 3 or 4", model, channels),
		Details: map[string]interface{}{
			"model":    model,
			"channels": channels,
		},
	}
}

func NewAmbiguousPolarity(samples int) *Error {
	return &Error{
		Code:    AmbiguousPolarity,
		Message: fmt.Sprintf("perimeter sample of %d pixels is evenly split between both values", samples),
		Details: map[string]interface{}{
			"samples": samples,
		},
	}
}

func NewInvalidRegion(rowStart, colStart, rowEnd, colEnd int) *Error {
	return &Error{
		Code:    InvalidRegion,
		Message: fmt.Sprintf("degenerate region rows %d..%d cols %d..%d", rowStart, rowEnd, colStart, colEnd),
		Details: map[string]interface{}{
			"row_start": rowStart,
			"col_start": colStart,
			"row_end":   rowEnd,
			"col_end":   colEnd,
		},
	}
}

func NewInvalidDrawTarget(reason string, cause error) *Error {
	return &Error{
		Code:    InvalidDrawTarget,
		Message: reason,
		Cause:   cause,
	}
}
