// Package highlight colors buffer lines for display.
//
// A Mode provides a colorize callback that turns one line of code points
// into per code point styles. The callback carries a mode-private state
// integer from the end of one line to the start of the next. Cache keeps
// the entry state of every line up to the first invalid one so that
// scrolling forward costs one callback per line and an edit only discards
// the states after the line it touched.
package highlight

import "strings"

// Style identifies a display attribute set. The display layer owns the
// mapping from a style to colors.
type Style uint8

// Built-in styles.
const (
	StyleDefault Style = iota
	StyleComment
	StyleString
	StyleKeyword
	StyleType
	StyleNumber
	StylePreprocess
	StyleFunction
	StyleVariable
	StyleTag
	StyleAttribute
	StyleEscape
	StyleError
	StyleRegion
	StyleSearchMatch
	StyleSelection
	styleCount
)

var styleNames = [styleCount]string{
	StyleDefault:     "default",
	StyleComment:     "comment",
	StyleString:      "string",
	StyleKeyword:     "keyword",
	StyleType:        "type",
	StyleNumber:      "number",
	StylePreprocess:  "preprocess",
	StyleFunction:    "function",
	StyleVariable:    "variable",
	StyleTag:         "tag",
	StyleAttribute:   "attribute",
	StyleEscape:      "escape",
	StyleError:       "error",
	StyleRegion:      "region",
	StyleSearchMatch: "search-match",
	StyleSelection:   "selection",
}

// String returns the style name.
func (s Style) String() string {
	if s < styleCount {
		return styleNames[s]
	}
	return "unknown"
}

// ParseStyle returns the style named name. Unknown names map to
// StyleDefault and false.
func ParseStyle(name string) (Style, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range styleNames {
		if n == name {
			return Style(i), true
		}
	}
	return StyleDefault, false
}

// Styles returns every built-in style in order.
func Styles() []Style {
	out := make([]Style, styleCount)
	for i := range out {
		out[i] = Style(i)
	}
	return out
}

func fill(styles []Style, from, to int, s Style) {
	to = min(to, len(styles))
	for i := max(from, 0); i < to; i++ {
		styles[i] = s
	}
}
