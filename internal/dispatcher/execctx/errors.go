package execctx

import "errors"

// Context validation errors.
var (
	// ErrMissingEditor indicates the editor is required but not set.
	ErrMissingEditor = errors.New("execution context: editor is required")

	// ErrMissingWindow indicates the command needs a window.
	ErrMissingWindow = errors.New("execution context: window is required")

	// ErrReadOnly indicates the buffer is read-only.
	ErrReadOnly = errors.New("buffer is read-only")

	// ErrNoMark indicates the command needs a region.
	ErrNoMark = errors.New("the mark is not set now, so there is no region")
)
