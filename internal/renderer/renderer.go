package renderer

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/qemacs/internal/renderer/backend"
	"github.com/dshills/qemacs/internal/renderer/highlight"
	"github.com/dshills/qemacs/internal/renderer/statusline"
	"github.com/dshills/qemacs/internal/renderer/window"
)

// Rows the mode line and the echo area take below the window.
const reservedRows = 2

// DefaultTabWidth is used when no tab width is configured.
const DefaultTabWidth = 8

// Frame is the state drawn by one Render call.
type Frame struct {
	Window *window.Window

	// Echo is the echo area text: a message or a partial key sequence.
	Echo string
	// Error draws Echo with the error style.
	Error bool

	// Prompt replaces Echo while a minibuffer or search is reading keys.
	// The cursor is drawn at its end.
	Prompt string

	// Extra is shown on the mode line after the position.
	Extra string
}

// Renderer draws frames to a backend.
type Renderer struct {
	backend  backend.Backend
	theme    *Theme
	status   *statusline.StatusLine
	tabWidth int

	// hscroll is the first display column shown, kept between frames.
	hscroll int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTheme sets the colors.
func WithTheme(t *Theme) Option {
	return func(r *Renderer) {
		if t != nil {
			r.theme = t
		}
	}
}

// WithTabWidth sets the distance between tab stops.
func WithTabWidth(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.tabWidth = n
		}
	}
}

// New creates a renderer drawing to b.
func New(b backend.Backend, opts ...Option) *Renderer {
	r := &Renderer{
		backend:  b,
		theme:    DefaultTheme(),
		status:   statusline.New(),
		tabWidth: DefaultTabWidth,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.status.SetStyle(r.theme.ModeLine)
	return r
}

// SetTabWidth changes the tab width of later frames.
func (r *Renderer) SetTabWidth(n int) {
	if n > 0 {
		r.tabWidth = n
	}
}

// Theme returns the colors in use.
func (r *Renderer) Theme() *Theme { return r.theme }

// SetTheme replaces the colors of later frames.
func (r *Renderer) SetTheme(t *Theme) {
	if t == nil {
		return
	}
	r.theme = t
	r.status.SetStyle(t.ModeLine)
}

// TextSize returns the window text area for a screen of the given size.
func TextSize(width, height int) (int, int) {
	return max(width, 1), max(height-reservedRows, 1)
}

// Render draws f and shows it.
func (r *Renderer) Render(f Frame) {
	width, height := r.backend.Size()
	if width <= 0 || height <= 0 {
		return
	}
	textHeight := max(height-reservedRows, 0)

	cursorX, cursorY := -1, -1
	if w := f.Window; w != nil {
		w.EnsurePointVisible()
		cursorX, cursorY = r.drawWindow(w, width, textHeight)

		r.status.Resize(width)
		r.status.SetWindow(w)
		r.status.SetExtra(f.Extra)
		if textHeight < height {
			r.status.Render(r.backend, textHeight)
		}
	}

	echoRow := height - 1
	switch {
	case f.Prompt != "":
		end := r.drawText(f.Prompt, echoRow, width, r.theme.Echo)
		cursorX, cursorY = min(end, width-1), echoRow
	case f.Error:
		r.drawText(f.Echo, echoRow, width, r.theme.Error)
	default:
		r.drawText(f.Echo, echoRow, width, r.theme.Echo)
	}

	if cursorX >= 0 {
		r.backend.ShowCursor(cursorX, cursorY)
	} else {
		r.backend.HideCursor()
	}
	r.backend.Show()
}

// drawWindow draws the visible lines and returns the cursor cell.
func (r *Renderer) drawWindow(w *window.Window, width, height int) (int, int) {
	lines := w.VisibleLines()
	row, col := w.CursorCell()

	// Pick the horizontal scroll from the cursor line.
	cursorCol := 0
	if row >= 0 && row < len(lines) {
		cursorCol = layoutLine(lines[row], r.tabWidth).column(col)
	}
	switch {
	case cursorCol < width-1:
		r.hscroll = 0
	case cursorCol <= r.hscroll || cursorCol >= r.hscroll+width-1:
		r.hscroll = cursorCol - width/2
	}

	for y := 0; y < height; y++ {
		if y >= len(lines) {
			r.clearRow(y, 0, width)
			continue
		}
		r.drawLine(layoutLine(lines[y], r.tabWidth), y, width)
	}
	if row < 0 || row >= height {
		return -1, -1
	}
	return cursorCol - r.hscroll, row
}

func (r *Renderer) drawLine(l laidLine, y, width int) {
	x := 0
	truncated := false
	for _, g := range l.glyphs {
		gx := g.col - r.hscroll
		if gx < 0 {
			continue
		}
		if gx+g.width > width {
			truncated = true
			break
		}
		style := r.theme.Style(g.style)
		r.backend.SetCell(gx, y, backend.Cell{Rune: g.r, Style: style})
		for i := 1; i < g.width; i++ {
			cont := backend.Cell{Style: style}
			if g.fill {
				cont.Rune = g.r
			}
			r.backend.SetCell(gx+i, y, cont)
		}
		x = gx + g.width
	}
	r.clearRow(y, x, width)
	if truncated {
		r.backend.SetCell(width-1, y, backend.Cell{Rune: '$', Style: r.theme.Echo})
	}
	if r.hscroll > 0 && l.width > r.hscroll {
		r.backend.SetCell(0, y, backend.Cell{Rune: '$', Style: r.theme.Echo})
	}
}

func (r *Renderer) clearRow(y, from, width int) {
	for x := from; x < width; x++ {
		r.backend.SetCell(x, y, backend.EmptyCell())
	}
}

// drawText draws s from the left of row and clears the rest. It returns
// the column after the text.
func (r *Renderer) drawText(s string, row, width int, style tcell.Style) int {
	x := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		runes := g.Runes()
		w := g.Width()
		if x+w > width {
			break
		}
		r.backend.SetCell(x, row, backend.Cell{Rune: runes[0], Style: style})
		for i := 1; i < w; i++ {
			r.backend.SetCell(x+i, row, backend.Cell{Style: style})
		}
		x += w
	}
	r.clearRow(row, x, width)
	return x
}

// glyph is one displayed unit of a line: a rune, an expanded tab or a
// control character shown as ^X.
type glyph struct {
	r     rune
	style highlight.Style
	col   int
	width int
	// fill repeats r over the width, for expanded tabs.
	fill bool
}

type laidLine struct {
	glyphs []glyph
	// starts holds the display column of every rune of the line.
	starts []int
	width  int
}

// column returns the display column of rune index i.
func (l laidLine) column(i int) int {
	if i < len(l.starts) {
		return l.starts[i]
	}
	return l.width
}

// layoutLine assigns display columns to the runes of a line.
func layoutLine(line window.Line, tabWidth int) laidLine {
	l := laidLine{
		glyphs: make([]glyph, 0, len(line.Runes)),
		starts: make([]int, len(line.Runes)),
	}
	col := 0
	for i, r := range line.Runes {
		style := highlight.StyleDefault
		if i < len(line.Styles) {
			style = line.Styles[i]
		}
		l.starts[i] = col
		switch {
		case r == '\t':
			n := tabWidth - col%tabWidth
			l.glyphs = append(l.glyphs, glyph{r: ' ', style: style, col: col, width: n, fill: true})
			col += n
		case r < ' ' || r == 0x7f:
			caret := r ^ 0x40
			l.glyphs = append(l.glyphs,
				glyph{r: '^', style: style, col: col, width: 1},
				glyph{r: caret, style: style, col: col + 1, width: 1})
			col += 2
		default:
			w := backend.RuneWidth(r)
			if w == 0 {
				// Combining marks are not drawn in cells of their own.
				continue
			}
			l.glyphs = append(l.glyphs, glyph{r: r, style: style, col: col, width: w})
			col += w
		}
	}
	l.width = col
	return l
}
