package renderer

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/qemacs/internal/renderer/highlight"
)

// Theme maps highlight styles to terminal styles.
type Theme struct {
	styles   map[highlight.Style]tcell.Style
	ModeLine tcell.Style
	Echo     tcell.Style
	Error    tcell.Style
}

// DefaultTheme returns the built-in colors for a dark terminal.
func DefaultTheme() *Theme {
	def := tcell.StyleDefault
	return &Theme{
		styles: map[highlight.Style]tcell.Style{
			highlight.StyleDefault:     def,
			highlight.StyleComment:     def.Foreground(tcell.ColorGray).Italic(true),
			highlight.StyleString:      def.Foreground(tcell.ColorGreen),
			highlight.StyleKeyword:     def.Foreground(tcell.ColorBlue).Bold(true),
			highlight.StyleType:        def.Foreground(tcell.ColorTeal),
			highlight.StyleNumber:      def.Foreground(tcell.ColorFuchsia),
			highlight.StylePreprocess:  def.Foreground(tcell.ColorPurple),
			highlight.StyleFunction:    def.Foreground(tcell.ColorYellow),
			highlight.StyleVariable:    def.Foreground(tcell.ColorAqua),
			highlight.StyleTag:         def.Foreground(tcell.ColorBlue),
			highlight.StyleAttribute:   def.Foreground(tcell.ColorOlive),
			highlight.StyleEscape:      def.Foreground(tcell.ColorMaroon),
			highlight.StyleError:       def.Foreground(tcell.ColorRed).Bold(true),
			highlight.StyleRegion:      def.Reverse(true),
			highlight.StyleSearchMatch: def.Background(tcell.ColorYellow).Foreground(tcell.ColorBlack),
			highlight.StyleSelection:   def.Background(tcell.ColorNavy),
		},
		ModeLine: def.Reverse(true),
		Echo:     def,
		Error:    def.Foreground(tcell.ColorRed),
	}
}

// Style returns the terminal style of s. Styles the theme does not name
// draw with the default style.
func (t *Theme) Style(s highlight.Style) tcell.Style {
	if st, ok := t.styles[s]; ok {
		return st
	}
	return tcell.StyleDefault
}

// Set overrides the colors of a highlight style. fg and bg are color
// names or #rrggbb values; "" keeps the terminal default.
func (t *Theme) Set(s highlight.Style, fg, bg string) error {
	st := tcell.StyleDefault
	if fg != "" {
		c := tcell.GetColor(fg)
		if c == tcell.ColorDefault {
			return fmt.Errorf("unknown color %q", fg)
		}
		st = st.Foreground(c)
	}
	if bg != "" {
		c := tcell.GetColor(bg)
		if c == tcell.ColorDefault {
			return fmt.Errorf("unknown color %q", bg)
		}
		st = st.Background(c)
	}
	t.styles[s] = st
	return nil
}
