package types

import "errors"

// Error kinds for a single analysis. All four are terminal; the command
// surface maps them to a one-line diagnostic and a non-zero exit.
var (
	// ErrNotFound means the input path does not resolve to a readable file.
	ErrNotFound = errors.New("input not found")
	// ErrDecode means the container header is malformed, the sample width
	// is unsupported, or the payload is not a whole number of frames.
	ErrDecode = errors.New("decode failed")
	// ErrInvalidInput means the input decoded cleanly but is analytically
	// degenerate, such as a zero-length buffer.
	ErrInvalidInput = errors.New("invalid input")
	// ErrComputation means the transform produced a non-finite result.
	ErrComputation = errors.New("computation failed")
)
