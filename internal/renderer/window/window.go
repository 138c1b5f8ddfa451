// Package window ties a buffer to a view of it.
//
// A Window borrows a buffer and owns a colorizer cache for it. It keeps
// the point, the first visible line and an optional highlighted range,
// and follows buffer edits through an observer registered at creation.
// Several windows may show the same buffer; each keeps its own point and
// cache.
package window

import (
	"github.com/google/uuid"

	"github.com/dshills/qemacs/internal/engine/buffer"
	"github.com/dshills/qemacs/internal/logging"
	"github.com/dshills/qemacs/internal/renderer/highlight"
)

// Default window geometry.
const (
	DefaultWidth        = 80
	DefaultHeight       = 24
	DefaultScrollMargin = 2
)

// Window is a view on a buffer. It is not safe for concurrent use.
type Window struct {
	id       uuid.UUID
	buf      *buffer.Buffer
	cache    *highlight.Cache
	observer uuid.UUID
	closed   bool

	point   int
	goalCol int // column kept across vertical motion, -1 when unset

	top    int
	width  int
	height int
	margin int

	// Highlighted range [hlBegin, hlEnd), empty when hlEnd <= hlBegin.
	hlBegin int
	hlEnd   int
	hlStyle highlight.Style

	showRegion bool

	logger *logging.Logger
}

// Option configures a Window.
type Option func(*Window)

// WithSize sets the text area size in cells.
func WithSize(width, height int) Option {
	return func(w *Window) {
		w.width = max(width, 1)
		w.height = max(height, 1)
	}
}

// WithScrollMargin sets how many lines are kept between the point and the
// top or bottom edge.
func WithScrollMargin(n int) Option {
	return func(w *Window) {
		w.margin = max(n, 0)
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(w *Window) {
		if l != nil {
			w.logger = l
		}
	}
}

// New creates a window on b colored by mode and registers it as an
// observer of b. Call Close to detach it.
func New(b *buffer.Buffer, mode *highlight.Mode, opts ...Option) *Window {
	w := &Window{
		id:      uuid.New(),
		buf:     b,
		goalCol: -1,
		width:   DefaultWidth,
		height:  DefaultHeight,
		margin:  DefaultScrollMargin,
		hlStyle: highlight.StyleSearchMatch,
		logger:  logging.NullLogger,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.cache = highlight.NewCache(b, mode, highlight.WithLogger(w.logger))
	w.observer = b.AddObserver(w)
	return w
}

// ID returns the window's identifier.
func (w *Window) ID() uuid.UUID { return w.id }

// Buffer returns the buffer shown in the window.
func (w *Window) Buffer() *buffer.Buffer { return w.buf }

// Cache returns the window's colorizer cache.
func (w *Window) Cache() *highlight.Cache { return w.cache }

// Mode returns the coloring mode.
func (w *Window) Mode() *highlight.Mode { return w.cache.Mode() }

// SetMode switches the coloring mode.
func (w *Window) SetMode(m *highlight.Mode) { w.cache.SetMode(m) }

// IsWord returns the word predicate of the window's mode.
func (w *Window) IsWord() func(rune) bool {
	if m := w.cache.Mode(); m != nil {
		return m.WordFunc()
	}
	return (*highlight.Mode)(nil).WordFunc()
}

// Close detaches the window from its buffer. It is safe to call twice.
func (w *Window) Close() {
	if w.closed {
		return
	}
	w.closed = true
	w.buf.RemoveObserver(w.observer)
}

// Point returns the cursor offset.
func (w *Window) Point() int { return w.point }

// SetPoint moves the cursor, clamped to the buffer, and scrolls it into
// view.
func (w *Window) SetPoint(off int) {
	w.point = max(0, min(off, w.buf.Size()))
	w.goalCol = -1
	w.EnsurePointVisible()
}

// Mark returns the buffer mark.
func (w *Window) Mark() int { return w.buf.Mark() }

// SetMark sets the buffer mark.
func (w *Window) SetMark(off int) { w.buf.SetMark(off) }

// Highlight returns the highlighted range.
func (w *Window) Highlight() (begin, end int, ok bool) {
	return w.hlBegin, w.hlEnd, w.hlEnd > w.hlBegin
}

// SetHighlight highlights [begin, end).
func (w *Window) SetHighlight(begin, end int) {
	w.hlBegin, w.hlEnd = begin, end
}

// ClearHighlight removes the highlighted range.
func (w *Window) ClearHighlight() {
	w.hlBegin, w.hlEnd = 0, 0
}

// ShowRegion turns display of the mark to point region on or off.
func (w *Window) ShowRegion(on bool) { w.showRegion = on }

// BufferChanged keeps the point, the highlight and the colorizer cache in
// step with buffer edits.
func (w *Window) BufferChanged(b *buffer.Buffer, c buffer.Change) {
	switch c.Kind {
	case buffer.ChangeInsert:
		w.shiftInserted(c.Offset, c.Inserted)
	case buffer.ChangeDelete:
		w.shiftDeleted(c.Offset, c.Removed)
	case buffer.ChangeWrite:
		if grown := c.Inserted - c.Removed; grown > 0 {
			w.shiftInserted(c.Offset+c.Removed, grown)
		}
	case buffer.ChangeReload:
		w.point = min(w.point, b.Size())
		w.ClearHighlight()
		w.cache.Reset()
		w.clampTop()
		return
	}
	w.cache.Invalidate(c.Offset)
	w.clampTop()
}

func (w *Window) shiftInserted(off, n int) {
	w.point = buffer.ShiftInserted(w.point, off, n)
	w.hlBegin = buffer.ShiftInserted(w.hlBegin, off, n)
	w.hlEnd = buffer.ShiftInserted(w.hlEnd, off, n)
}

func (w *Window) shiftDeleted(off, n int) {
	w.point = buffer.ShiftDeleted(w.point, off, n)
	w.hlBegin = buffer.ShiftDeleted(w.hlBegin, off, n)
	w.hlEnd = buffer.ShiftDeleted(w.hlEnd, off, n)
}
