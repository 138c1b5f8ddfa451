package buffer

import (
	"errors"

	"github.com/dshills/qemacs/internal/engine/page"
)

// Errors returned by buffer operations.
var (
	// ErrOffsetOutOfRange indicates an offset outside [0, Size].
	ErrOffsetOutOfRange = page.ErrOutOfRange

	// ErrNoSpace indicates an edit would exceed the buffer size limit.
	ErrNoSpace = page.ErrNoSpace

	// ErrCorrupt indicates the page store failed its consistency check.
	ErrCorrupt = page.ErrCorrupt

	// ErrReadOnly indicates a write to a read-only buffer.
	ErrReadOnly = errors.New("buffer is read-only")

	// ErrStyleWidth indicates an unsupported style cell width.
	ErrStyleWidth = errors.New("style width must be 1, 2, 4 or 8")
)
