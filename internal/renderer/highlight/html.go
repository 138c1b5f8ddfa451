package highlight

import "unicode"

// HTML colorizer state. The embedded JavaScript state lives above
// EmbedShift while inside a script element.
const (
	htmlInComment   = 1 << 0
	htmlInTag       = 1 << 1
	htmlInDouble    = 1 << 2 // attribute value in "..."
	htmlInSingle    = 1 << 3 // attribute value in '...'
	htmlInScript    = 1 << 4 // script element body
	htmlOpensScript = 1 << 5 // with htmlInTag: the tag is <script ...>
)

// HTMLMode colors HTML. Script elements are colored by JavaScriptMode.
var HTMLMode = &Mode{
	Name:       "html",
	Extensions: []string{".html", ".htm", ".xhtml"},
	Colorize:   colorizeHTML,
	IsWord:     func(r rune) bool { return r == '-' || isWordRune(r) },
}

func colorizeHTML(cx *Context, line []rune, styles []Style) {
	n := len(line)
	for i := 0; i < n; {
		c := Container(cx.State)
		switch {
		case c&htmlInScript != 0:
			end := indexFold(line, i, "</script")
			if end < 0 {
				end = n
			}
			RunEmbedded(cx, JavaScriptMode, line[i:end], styles[i:end])
			i = end
			if end < n {
				fill(styles, end, end+len("</script"), StyleTag)
				i = end + len("</script")
				cx.State = htmlInTag
			}
		case c&htmlInComment != 0:
			i = htmlComment(cx, line, styles, i)
		case c&htmlInTag != 0:
			i = htmlTag(cx, line, styles, i)
		default:
			i = htmlText(cx, line, styles, i)
		}
	}
}

func htmlComment(cx *Context, line []rune, styles []Style, i int) int {
	for ; i < len(line); i++ {
		styles[i] = StyleComment
		if hasPrefix(line, i, "-->") {
			fill(styles, i, i+3, StyleComment)
			cx.State = 0
			return i + 3
		}
	}
	return len(line)
}

// htmlTag colors attributes up to and including the closing '>'.
func htmlTag(cx *Context, line []rune, styles []Style, i int) int {
	n := len(line)
	state := Container(cx.State)
	for i < n {
		r := line[i]
		switch {
		case state&htmlInDouble != 0:
			styles[i] = StyleString
			if r == '"' {
				state &^= htmlInDouble
			}
			i++
		case state&htmlInSingle != 0:
			styles[i] = StyleString
			if r == '\'' {
				state &^= htmlInSingle
			}
			i++
		case r == '"':
			styles[i] = StyleString
			state |= htmlInDouble
			i++
		case r == '\'':
			styles[i] = StyleString
			state |= htmlInSingle
			i++
		case r == '>':
			styles[i] = StyleTag
			if state&htmlOpensScript != 0 {
				cx.State = htmlInScript
			} else {
				cx.State = 0
			}
			return i + 1
		case r == '/' && i+1 < n && line[i+1] == '>':
			fill(styles, i, i+2, StyleTag)
			cx.State = 0
			return i + 2
		case isWordRune(r):
			j := i
			for j < n && (isWordRune(line[j]) || line[j] == '-' || line[j] == ':') {
				j++
			}
			fill(styles, i, j, StyleAttribute)
			i = j
		default:
			i++
		}
	}
	cx.State = state
	return n
}

func htmlText(cx *Context, line []rune, styles []Style, i int) int {
	n := len(line)
	for i < n {
		r := line[i]
		switch {
		case hasPrefix(line, i, "<!--"):
			fill(styles, i, i+4, StyleComment)
			cx.State = htmlInComment
			return i + 4
		case r == '<' && i+1 < n && (line[i+1] == '/' || line[i+1] == '!' || unicode.IsLetter(line[i+1])):
			j := i + 1
			if line[j] == '/' || line[j] == '!' {
				j++
			}
			start := j
			for j < n && (isWordRune(line[j]) || line[j] == '-') {
				j++
			}
			fill(styles, i, j, StyleTag)
			cx.State = htmlInTag
			if line[i+1] != '/' && equalFold(line[start:j], "script") {
				cx.State |= htmlOpensScript
			}
			return j
		case r == '&':
			j := i + 1
			for j < n && j-i < 12 && (isWordRune(line[j]) || line[j] == '#') {
				j++
			}
			if j < n && line[j] == ';' {
				fill(styles, i, j+1, StyleEscape)
				i = j + 1
				continue
			}
			i++
		default:
			i++
		}
	}
	return n
}

// indexFold returns the index of the first ASCII case-insensitive match
// of s in line at or after from, or -1.
func indexFold(line []rune, from int, s string) int {
	want := []rune(s)
	for i := from; i+len(want) <= len(line); i++ {
		if equalFold(line[i:i+len(want)], s) {
			return i
		}
	}
	return -1
}

func equalFold(runes []rune, s string) bool {
	want := []rune(s)
	if len(runes) != len(want) {
		return false
	}
	for i, r := range runes {
		if unicode.ToLower(r) != unicode.ToLower(want[i]) {
			return false
		}
	}
	return true
}
