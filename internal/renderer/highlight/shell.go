package highlight

import "unicode"

// Shell colorizer state.
const (
	shInSingle = 1 // inside '...'
	shInDouble = 2 // inside "..."
)

// ShellMode colors POSIX shell scripts. Quoted strings may span lines.
var ShellMode = &Mode{
	Name:       "shell",
	Extensions: []string{".sh", ".bash", ".zsh"},
	Colorize:   colorizeShell,
	Keywords: []string{
		"case", "do", "done", "elif", "else", "esac", "export", "fi",
		"for", "function", "if", "in", "local", "readonly", "return",
		"select", "then", "until", "while", "shift", "exit", "set",
		"unset", "trap", "source",
	},
	IsWord: func(r rune) bool { return r == '-' || isWordRune(r) },
}

func colorizeShell(cx *Context, line []rune, styles []Style) {
	n := len(line)
	i := 0
	state := cx.State
	switch state {
	case shInSingle:
		i, state = shellSingle(line, styles, 0)
	case shInDouble:
		i, state = shellDouble(line, styles, 0)
	}

	for i < n && state == 0 {
		r := line[i]
		switch {
		case r == '#' && (i == 0 || unicode.IsSpace(line[i-1])):
			fill(styles, i, n, StyleComment)
			i = n
		case r == '\\':
			i += 2
		case r == '\'':
			styles[i] = StyleString
			i, state = shellSingle(line, styles, i+1)
		case r == '"':
			styles[i] = StyleString
			i, state = shellDouble(line, styles, i+1)
		case r == '$':
			i = shellVariable(line, styles, i)
		case isWordRune(r):
			j := i
			for j < n && (isWordRune(line[j]) || line[j] == '-') {
				j++
			}
			if cx.Mode.IsKeyword(string(line[i:j])) {
				fill(styles, i, j, StyleKeyword)
			}
			i = j
		default:
			i++
		}
	}
	cx.State = state
}

func shellSingle(line []rune, styles []Style, i int) (int, uint32) {
	for ; i < len(line); i++ {
		styles[i] = StyleString
		if line[i] == '\'' {
			return i + 1, 0
		}
	}
	return len(line), shInSingle
}

func shellDouble(line []rune, styles []Style, i int) (int, uint32) {
	n := len(line)
	for i < n {
		switch line[i] {
		case '\\':
			fill(styles, i, i+2, StyleEscape)
			i += 2
		case '$':
			i = shellVariable(line, styles, i)
		case '"':
			styles[i] = StyleString
			return i + 1, 0
		default:
			styles[i] = StyleString
			i++
		}
	}
	return n, shInDouble
}

// shellVariable colors $name, ${...} and the special parameters.
func shellVariable(line []rune, styles []Style, i int) int {
	n := len(line)
	j := i + 1
	switch {
	case j < n && line[j] == '{':
		for j < n && line[j] != '}' {
			j++
		}
		j = min(j+1, n)
	case j < n && (isWordRune(line[j])):
		for j < n && isWordRune(line[j]) {
			j++
		}
	case j < n && (line[j] == '?' || line[j] == '#' || line[j] == '@' || line[j] == '*' || line[j] == '$' || line[j] == '!'):
		j++
	default:
		return j
	}
	fill(styles, i, j, StyleVariable)
	return j
}
