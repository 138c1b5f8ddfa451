package highlight

import "unicode"

// Python colorizer state: the open triple quote.
const (
	pyInTripleSingle = 1
	pyInTripleDouble = 2
)

// PythonMode colors Python. Triple-quoted strings may span lines.
var PythonMode = &Mode{
	Name:       "python",
	Extensions: []string{".py", ".pyw"},
	Colorize:   colorizePython,
	Keywords: []string{
		"and", "as", "assert", "async", "await", "break", "class",
		"continue", "def", "del", "elif", "else", "except", "finally",
		"for", "from", "global", "if", "import", "in", "is", "lambda",
		"nonlocal", "not", "or", "pass", "raise", "return", "try",
		"while", "with", "yield", "True", "False", "None",
	},
	Types: []string{
		"bool", "bytes", "dict", "float", "int", "list", "object", "set",
		"str", "tuple",
	},
}

func colorizePython(cx *Context, line []rune, styles []Style) {
	n := len(line)
	i := 0
	state := cx.State
	if state != 0 {
		i, state = pythonTriple(line, styles, 0, tripleQuote(state))
	}

	for i < n && state == 0 {
		r := line[i]
		switch {
		case r == '#':
			fill(styles, i, n, StyleComment)
			i = n
		case r == '@' && i == firstNonSpace(line):
			j := i + 1
			for j < n && (isWordRune(line[j]) || line[j] == '.') {
				j++
			}
			fill(styles, i, j, StylePreprocess)
			i = j
		case (r == '"' || r == '\'') && hasPrefix(line, i, string([]rune{r, r, r})):
			fill(styles, i, i+3, StyleString)
			i, state = pythonTriple(line, styles, i+3, r)
		case r == '"' || r == '\'':
			styles[i] = StyleString
			i, _ = quoted(line, styles, i+1, r)
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

func tripleQuote(state uint32) rune {
	if state == pyInTripleSingle {
		return '\''
	}
	return '"'
}

func pythonTriple(line []rune, styles []Style, i int, quote rune) (int, uint32) {
	closing := string([]rune{quote, quote, quote})
	n := len(line)
	for i < n {
		switch {
		case line[i] == '\\':
			fill(styles, i, i+2, StyleEscape)
			i += 2
		case hasPrefix(line, i, closing):
			fill(styles, i, i+3, StyleString)
			return i + 3, 0
		default:
			styles[i] = StyleString
			i++
		}
	}
	if quote == '\'' {
		return n, pyInTripleSingle
	}
	return n, pyInTripleDouble
}

func firstNonSpace(line []rune) int {
	for i, r := range line {
		if r != ' ' && r != '\t' {
			return i
		}
	}
	return len(line)
}
