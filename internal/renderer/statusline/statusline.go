// Package statusline formats the mode line drawn below a window.
package statusline

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/qemacs/internal/engine/buffer"
	"github.com/dshills/qemacs/internal/renderer/backend"
	"github.com/dshills/qemacs/internal/renderer/window"
)

// StatusLine renders the mode line of a window.
type StatusLine struct {
	// Display state
	name     string // buffer name
	mode     string // colorizing mode
	charset  string
	eol      string
	modified bool
	readOnly bool
	line     int // 1-indexed
	col      int // 0-indexed, as Emacs shows it
	position string

	// Extra is shown after the position, e.g. "Def" while a macro is
	// being defined.
	extra string

	width int
	style tcell.Style
}

// New creates a new status line.
func New() *StatusLine {
	return &StatusLine{style: tcell.StyleDefault.Reverse(true)}
}

// SetStyle sets the style of the whole line.
func (s *StatusLine) SetStyle(style tcell.Style) { s.style = style }

// SetWindow copies the state shown for w.
func (s *StatusLine) SetWindow(w *window.Window) {
	b := w.Buffer()
	s.name = b.Name()
	s.mode = w.Mode().Name
	s.charset = b.Charset().Name()
	s.eol = b.EOL().String()
	s.modified = b.Modified()
	s.readOnly = b.ReadOnly()
	line, col := b.LineCol(w.Point())
	s.line, s.col = line+1, col
	s.position = scrollPosition(b, w)
}

// SetExtra sets the indicator shown after the position.
func (s *StatusLine) SetExtra(extra string) { s.extra = extra }

// Resize updates the status line width.
func (s *StatusLine) Resize(width int) { s.width = width }

// scrollPosition is "All", "Top", "Bot" or the percentage of the buffer
// above the window.
func scrollPosition(b *buffer.Buffer, w *window.Window) string {
	_, height := w.Size()
	top, total := w.TopLine(), b.LineCount()
	switch {
	case top == 0 && top+height >= total:
		return "All"
	case top == 0:
		return "Top"
	case top+height >= total:
		return "Bot"
	}
	return fmt.Sprintf("%d%%", top*100/total)
}

// flags is the modified and read-only indicator: "--", "**" or "%%".
func (s *StatusLine) flags() string {
	switch {
	case s.readOnly:
		return "%%"
	case s.modified:
		return "**"
	}
	return "--"
}

// String formats the line padded with dashes to the width.
func (s *StatusLine) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "-%s- %-18s (%s) L%d C%d  %s  %s %s",
		s.flags(), s.name, s.mode, s.line, s.col, s.position, s.charset, s.eol)
	if s.extra != "" {
		sb.WriteString("  " + s.extra)
	}
	sb.WriteByte(' ')
	text := sb.String()
	if w := uniseg.StringWidth(text); w < s.width {
		text += strings.Repeat("-", s.width-w)
	}
	return text
}

// Render draws the line at row, clipped to the width.
func (s *StatusLine) Render(b backend.Backend, row int) {
	col := 0
	for _, r := range s.String() {
		w := backend.RuneWidth(r)
		if col+w > s.width {
			break
		}
		b.SetCell(col, row, backend.Cell{Rune: r, Style: s.style})
		if w == 2 {
			b.SetCell(col+1, row, backend.Cell{Style: s.style})
		}
		col += max(w, 1)
	}
	for ; col < s.width; col++ {
		b.SetCell(col, row, backend.Cell{Rune: ' ', Style: s.style})
	}
}
