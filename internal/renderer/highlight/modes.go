package highlight

// TextMode colors nothing.
var TextMode = &Mode{
	Name:       "text",
	Extensions: []string{".txt"},
	Colorize:   func(*Context, []rune, []Style) {},
}

var cSyntax = clike{lineComment: "//", preproc: true}

// CMode colors C.
var CMode = &Mode{
	Name:       "c",
	Extensions: []string{".c", ".h"},
	Colorize:   cSyntax.colorize,
	Keywords: []string{
		"auto", "break", "case", "const", "continue", "default", "do",
		"else", "enum", "extern", "for", "goto", "if", "inline",
		"register", "restrict", "return", "sizeof", "static", "struct",
		"switch", "typedef", "union", "volatile", "while",
	},
	Types: []string{
		"char", "double", "float", "int", "long", "short", "signed",
		"unsigned", "void", "size_t", "ssize_t", "bool", "int8_t",
		"int16_t", "int32_t", "int64_t", "uint8_t", "uint16_t",
		"uint32_t", "uint64_t", "FILE",
	},
}

// CPPMode colors C++. It extends CMode's keywords and syntax.
var CPPMode = &Mode{
	Name:       "cpp",
	Extensions: []string{".cc", ".cpp", ".cxx", ".hh", ".hpp"},
	Keywords: []string{
		"catch", "class", "constexpr", "delete", "explicit", "friend",
		"namespace", "new", "noexcept", "nullptr", "operator", "private",
		"protected", "public", "template", "this", "throw", "try",
		"typename", "using", "virtual", "true", "false",
	},
	Types:    []string{"string", "auto", "wchar_t"},
	Fallback: CMode,
}

// JavaMode colors Java.
var JavaMode = &Mode{
	Name:       "java",
	Extensions: []string{".java"},
	Colorize:   clike{lineComment: "//"}.colorize,
	Keywords: []string{
		"abstract", "break", "case", "catch", "class", "continue",
		"default", "do", "else", "enum", "extends", "final", "finally",
		"for", "if", "implements", "import", "instanceof", "interface",
		"new", "package", "private", "protected", "public", "return",
		"static", "super", "switch", "synchronized", "this", "throw",
		"throws", "try", "while", "true", "false", "null",
	},
	Types: []string{
		"boolean", "byte", "char", "double", "float", "int", "long",
		"short", "void", "String", "Object",
	},
}

// JavaScriptMode colors JavaScript. Template literals may span lines.
var JavaScriptMode = &Mode{
	Name:       "javascript",
	Extensions: []string{".js", ".mjs", ".cjs"},
	Colorize:   clike{lineComment: "//", raw: '`', charQuote: true}.colorize,
	Keywords: []string{
		"async", "await", "break", "case", "catch", "class", "const",
		"continue", "default", "delete", "do", "else", "export",
		"extends", "finally", "for", "function", "if", "import", "in",
		"instanceof", "let", "new", "return", "switch", "this", "throw",
		"try", "typeof", "var", "while", "yield", "true", "false",
		"null", "undefined",
	},
	IsWord: func(r rune) bool { return r == '$' || isWordRune(r) },
}

// GoMode colors Go. Raw strings may span lines.
var GoMode = &Mode{
	Name:       "go",
	Extensions: []string{".go"},
	Colorize:   clike{lineComment: "//", raw: '`'}.colorize,
	Keywords: []string{
		"break", "case", "chan", "const", "continue", "default", "defer",
		"else", "fallthrough", "for", "func", "go", "goto", "if",
		"import", "interface", "map", "package", "range", "return",
		"select", "struct", "switch", "type", "var", "true", "false",
		"nil", "iota",
	},
	Types: []string{
		"any", "bool", "byte", "complex64", "complex128", "error",
		"float32", "float64", "int", "int8", "int16", "int32", "int64",
		"rune", "string", "uint", "uint8", "uint16", "uint32", "uint64",
		"uintptr",
	},
}

// RustMode colors Rust. Block comments nest.
var RustMode = &Mode{
	Name:       "rust",
	Extensions: []string{".rs"},
	Colorize:   clike{lineComment: "//", nested: true}.colorize,
	Keywords: []string{
		"as", "async", "await", "break", "const", "continue", "crate",
		"dyn", "else", "enum", "extern", "fn", "for", "if", "impl", "in",
		"let", "loop", "match", "mod", "move", "mut", "pub", "ref",
		"return", "self", "Self", "static", "struct", "super", "trait",
		"type", "unsafe", "use", "where", "while", "true", "false",
	},
	Types: []string{
		"bool", "char", "f32", "f64", "i8", "i16", "i32", "i64", "i128",
		"isize", "str", "u8", "u16", "u32", "u64", "u128", "usize",
		"String", "Vec", "Option", "Result", "Box",
	},
}

// Builtins returns the built-in modes.
func Builtins() []*Mode {
	return []*Mode{
		TextMode, CMode, CPPMode, JavaMode, JavaScriptMode, GoMode,
		RustMode, ShellMode, PythonMode, HTMLMode,
	}
}
