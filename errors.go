package docscan

import (
	"errors"
	"fmt"
)

// Common errors for docscan operations.
var (
	// ErrDecodeFailure is returned when source bytes are not a decodable image.
	ErrDecodeFailure = errors.New("docscan: decode failure")

	// ErrInvalidInput is returned when a quad does not hold exactly four points
	// or contains non-finite coordinates.
	ErrInvalidInput = errors.New("docscan: invalid input")

	// ErrDegenerateGeometry is returned when the corners do not span a
	// quadrilateral the homography can be solved for.
	ErrDegenerateGeometry = errors.New("docscan: degenerate geometry")

	// ErrInvalidDimensions is returned when width or height is non-positive or
	// the pixel slice does not match them.
	ErrInvalidDimensions = errors.New("docscan: invalid dimensions")

	// ErrNoPages is returned when a load yields no decodable page.
	ErrNoPages = errors.New("docscan: no pages")

	// ErrInvalidState is returned when a session operation is not allowed in
	// the current state.
	ErrInvalidState = errors.New("docscan: invalid session state")

	// ErrPageOutOfRange is returned when a page index is outside [0, PageCount).
	ErrPageOutOfRange = errors.New("docscan: page index out of range")
)

// PageError reports the failure of a single page of a multi-page load.
// The remaining pages are unaffected.
type PageError struct {
	Index int
	Err   error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("docscan: page %d: %v", e.Index, e.Err)
}

func (e *PageError) Unwrap() error { return e.Err }
