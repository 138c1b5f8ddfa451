package window

import "github.com/dshills/qemacs/internal/renderer/highlight"

// Line is one display line with its styles.
type Line struct {
	Number int
	// Start and End bound the line text in bytes, terminator excluded.
	Start int
	End   int
	Runes []rune
	// Offsets holds the byte offset of every rune.
	Offsets []int
	Styles  []highlight.Style
	// RecolorNext is set when the next line's colors may have changed.
	RecolorNext bool
}

// Line colors line n and overlays the buffer style shadow, the region and
// the highlighted range.
func (w *Window) Line(n int) Line {
	colored := w.cache.ColorLine(n)
	b := w.buf
	l := Line{
		Number:      colored.Line,
		Start:       b.LineStart(colored.Line),
		End:         b.LineEnd(colored.Line),
		Runes:       colored.Runes,
		Styles:      colored.Styles,
		Offsets:     make([]int, len(colored.Runes)),
		RecolorNext: colored.RecolorNext,
	}

	regionBegin, regionEnd := 0, 0
	if w.showRegion {
		regionBegin, regionEnd = min(b.Mark(), w.point), max(b.Mark(), w.point)
	}
	off := l.Start
	for i := range l.Runes {
		l.Offsets[i] = off
		if b.StylesEnabled() {
			if s := b.StyleAt(off); s != 0 {
				l.Styles[i] = highlight.Style(s)
			}
		}
		switch {
		case off >= w.hlBegin && off < w.hlEnd:
			l.Styles[i] = w.hlStyle
		case off >= regionBegin && off < regionEnd:
			l.Styles[i] = highlight.StyleRegion
		}
		_, off = b.NextChar(off)
	}
	return l
}

// StateAt returns the colorizer entry state of line n.
func (w *Window) StateAt(n int) uint32 {
	return w.cache.StateAt(n)
}

// VisibleLines colors the lines currently in view.
func (w *Window) VisibleLines() []Line {
	last := min(w.top+w.height, w.buf.LineCount())
	lines := make([]Line, 0, last-w.top)
	for n := w.top; n < last; n++ {
		lines = append(lines, w.Line(n))
	}
	return lines
}

// TopLine returns the first visible line.
func (w *Window) TopLine() int { return w.top }

// SetTopLine scrolls so that line is the first visible one.
func (w *Window) SetTopLine(line int) {
	w.top = line
	w.clampTop()
}

// Size returns the text area size in cells.
func (w *Window) Size() (width, height int) { return w.width, w.height }

// Resize changes the text area size and keeps the point in view.
func (w *Window) Resize(width, height int) {
	w.width = max(width, 1)
	w.height = max(height, 1)
	w.EnsurePointVisible()
}

// effectiveMargin keeps the margin below half the height.
func (w *Window) effectiveMargin() int {
	return min(w.margin, (w.height-1)/2)
}

// EnsurePointVisible scrolls the minimum amount that puts the point's
// line inside the scroll margins.
func (w *Window) EnsurePointVisible() {
	line := w.buf.LineOf(w.point)
	m := w.effectiveMargin()
	switch {
	case line < w.top+m:
		w.top = line - m
	case line > w.top+w.height-1-m:
		w.top = line - w.height + 1 + m
	}
	w.clampTop()
}

// Scroll moves the view by n lines and drags the point along when it
// leaves the view.
func (w *Window) Scroll(n int) {
	w.top += n
	w.clampTop()
	line := w.buf.LineOf(w.point)
	if line < w.top || line >= w.top+w.height {
		target := max(w.top, min(line, w.top+w.height-1))
		w.point = w.buf.LineStart(target)
	}
}

// PageDown scrolls forward one screen, keeping two lines of context.
func (w *Window) PageDown() { w.Scroll(max(w.height-2, 1)) }

// PageUp scrolls back one screen, keeping two lines of context.
func (w *Window) PageUp() { w.Scroll(-max(w.height-2, 1)) }

func (w *Window) clampTop() {
	w.top = max(0, min(w.top, w.buf.LineCount()-1))
}

// CursorCell returns the point's position relative to the window:
// the row from the top line and the rune column in the line.
func (w *Window) CursorCell() (row, col int) {
	line, col := w.buf.LineCol(w.point)
	return line - w.top, col
}
