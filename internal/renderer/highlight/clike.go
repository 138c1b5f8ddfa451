package highlight

import "unicode"

// C-like colorizer state bits.
const (
	cInComment  = 1 << 0
	cInString   = 1 << 1 // string continued with a trailing backslash
	cSingle     = 1 << 2 // with cInString: single quoted
	cInRaw      = 1 << 3 // raw or template string
	cInPreproc  = 1 << 4 // preprocessor line continued with a backslash
	cDepthShift = 5
	cDepthMask  = 7 << cDepthShift // nested comment depth minus one
	cMaxDepth   = 8
)

// clike is a configurable colorizer for languages with C comment syntax.
type clike struct {
	lineComment string
	// nested allows /* /* */ */ with the depth kept in the state.
	nested bool
	// preproc colors lines starting with '#'.
	preproc bool
	// raw is the raw or template string delimiter, 0 for none.
	raw rune
	// charQuote is true when '...' is a string rather than a rune literal.
	charQuote bool
}

func (c clike) colorize(cx *Context, line []rune, styles []Style) {
	state := cx.State
	n := len(line)
	i := 0

	// Finish constructs carried over from the previous line.
	switch {
	case state&cInComment != 0:
		i, state = c.comment(line, styles, 0, state)
	case state&cInRaw != 0:
		i, state = c.rawString(line, styles, 0, state)
	case state&cInString != 0:
		quote := '"'
		if state&cSingle != 0 {
			quote = '\''
		}
		i, state = quoted(line, styles, 0, quote)
	case state&cInPreproc != 0:
		fill(styles, 0, n, StylePreprocess)
		state = 0
		if n > 0 && line[n-1] == '\\' {
			state = cInPreproc
		}
		cx.State = state
		return
	}

	if c.preproc && state == 0 && startsPreproc(line, i) {
		fill(styles, i, n, StylePreprocess)
		if n > 0 && line[n-1] == '\\' {
			state = cInPreproc
		}
		// Comments after a directive still color as comments.
		for j := i; j+1 < n; j++ {
			if line[j] == '/' && line[j+1] == '/' {
				fill(styles, j, n, StyleComment)
				break
			}
		}
		cx.State = state
		return
	}

	for i < n && state == 0 {
		r := line[i]
		switch {
		case c.lineComment != "" && hasPrefix(line, i, c.lineComment):
			fill(styles, i, n, StyleComment)
			i = n
		case r == '/' && i+1 < n && line[i+1] == '*':
			state = cInComment
			fill(styles, i, i+2, StyleComment)
			i, state = c.comment(line, styles, i+2, state)
		case c.raw != 0 && r == c.raw:
			styles[i] = StyleString
			i, state = c.rawString(line, styles, i+1, cInRaw)
		case r == '"' || (r == '\'' && c.charQuote):
			styles[i] = StyleString
			i, state = quoted(line, styles, i+1, r)
		case r == '\'':
			i = runeLiteral(line, styles, i)
		case unicode.IsDigit(r):
			i = number(line, styles, i)
		case isWordRune(r):
			i = word(cx.Mode, line, styles, i)
		default:
			i++
		}
	}
	cx.State = state
}

// comment colors a block comment body from i and returns the position
// after it and the new state.
func (c clike) comment(line []rune, styles []Style, i int, state uint32) (int, uint32) {
	depth := (state & cDepthMask) >> cDepthShift
	n := len(line)
	for i < n {
		switch {
		case line[i] == '*' && i+1 < n && line[i+1] == '/':
			fill(styles, i, i+2, StyleComment)
			i += 2
			if depth == 0 {
				return i, 0
			}
			depth--
		case c.nested && line[i] == '/' && i+1 < n && line[i+1] == '*':
			fill(styles, i, i+2, StyleComment)
			i += 2
			if depth+1 < cMaxDepth {
				depth++
			}
		default:
			styles[i] = StyleComment
			i++
		}
	}
	return n, cInComment | depth<<cDepthShift
}

func (c clike) rawString(line []rune, styles []Style, i int, state uint32) (int, uint32) {
	for ; i < len(line); i++ {
		styles[i] = StyleString
		if line[i] == c.raw {
			return i + 1, 0
		}
	}
	return len(line), state
}

// quoted colors a string body from i up to the closing quote. A trailing
// backslash continues the string on the next line.
func quoted(line []rune, styles []Style, i int, quote rune) (int, uint32) {
	n := len(line)
	for i < n {
		r := line[i]
		switch {
		case r == '\\' && i+1 < n:
			fill(styles, i, i+2, StyleEscape)
			i += 2
		case r == '\\':
			styles[i] = StyleString
			state := uint32(cInString)
			if quote == '\'' {
				state |= cSingle
			}
			return n, state
		case r == quote:
			styles[i] = StyleString
			return i + 1, 0
		default:
			styles[i] = StyleString
			i++
		}
	}
	return n, 0
}

// runeLiteral colors 'x' or an escape such as '\n' or '\u00e9'. Anything
// else, a Rust lifetime for one, is left alone.
func runeLiteral(line []rune, styles []Style, i int) int {
	n := len(line)
	j := i + 2
	if i+1 < n && line[i+1] == '\\' {
		for j = i + 3; j < n && line[j] != '\'' && j-i < 12; j++ {
		}
	}
	if j >= n || line[j] != '\'' {
		return i + 1
	}
	fill(styles, i, j+1, StyleString)
	return j + 1
}

func number(line []rune, styles []Style, i int) int {
	j := i
	for j < len(line) && (isWordRune(line[j]) || line[j] == '.') {
		j++
	}
	fill(styles, i, j, StyleNumber)
	return j
}

// word colors an identifier as a keyword, type or function call.
func word(m *Mode, line []rune, styles []Style, i int) int {
	j := i
	for j < len(line) && isWordRune(line[j]) {
		j++
	}
	w := string(line[i:j])
	switch {
	case m.IsKeyword(w):
		fill(styles, i, j, StyleKeyword)
	case m.IsType(w):
		fill(styles, i, j, StyleType)
	default:
		k := j
		for k < len(line) && (line[k] == ' ' || line[k] == '\t') {
			k++
		}
		if k < len(line) && line[k] == '(' {
			fill(styles, i, j, StyleFunction)
		}
	}
	return j
}

func hasPrefix(line []rune, i int, prefix string) bool {
	for _, r := range prefix {
		if i >= len(line) || line[i] != r {
			return false
		}
		i++
	}
	return true
}

func startsPreproc(line []rune, i int) bool {
	for ; i < len(line); i++ {
		switch line[i] {
		case ' ', '\t':
		case '#':
			return true
		default:
			return false
		}
	}
	return false
}
