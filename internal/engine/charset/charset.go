// Package charset maps raw buffer bytes to code points and back.
//
// A Charset decodes one character at a time from a byte slice. Fixed width
// encodings (8-bit tables, UCS-2, UCS-4) and variable width ones (UTF-8,
// Shift-JIS, EUC-JP) share the same interface so the page store and the
// buffer can walk text without knowing the encoding.
//
// Line endings are handled separately by EOL: the buffer keeps raw bytes and
// readers see a synthetic '\n' for every line break.
package charset

import (
	"sort"
	"strings"
	"sync"
	"unicode/utf8"
)

// Charset decodes and encodes characters for one encoding.
type Charset interface {
	// Name returns the canonical charset name.
	Name() string

	// Decode decodes the first character of p. It returns size >= 1 when
	// p is non-empty; invalid input decodes to utf8.RuneError.
	Decode(p []byte) (r rune, size int)

	// DecodeLast decodes the last character of p. It returns size 0 when
	// the encoding cannot be decoded backwards and the caller must rescan
	// from a known character boundary.
	DecodeLast(p []byte) (r rune, size int)

	// Encode appends the encoding of r to dst.
	Encode(dst []byte, r rune) []byte

	// Unit returns the fixed character width in bytes, or 1 for variable
	// width encodings.
	Unit() int

	// Boundary returns the largest character start <= target in p,
	// assuming p itself starts on a character boundary.
	Boundary(p []byte, target int) int
}

// DefaultName is the charset used when nothing else is configured.
const DefaultName = "utf-8"

var (
	registryMu sync.RWMutex
	registry   = map[string]Charset{}
	aliases    = map[string]string{}
)

// Register adds a charset under its name and any number of aliases.
func Register(cs Charset, alias ...string) {
	registryMu.Lock()
	defer registryMu.Unlock()

	name := strings.ToLower(cs.Name())
	registry[name] = cs
	for _, a := range alias {
		aliases[strings.ToLower(a)] = name
	}
}

// Lookup finds a charset by name or alias (case-insensitive).
func Lookup(name string) (Charset, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	key := strings.ToLower(strings.TrimSpace(name))
	if canon, ok := aliases[key]; ok {
		key = canon
	}
	cs, ok := registry[key]
	return cs, ok
}

// MustLookup is Lookup that panics on unknown names. Used for built-ins.
func MustLookup(name string) Charset {
	cs, ok := Lookup(name)
	if !ok {
		panic("charset: unknown charset " + name)
	}
	return cs
}

// Names returns the canonical names of all registered charsets, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UTF8 is the default charset.
var UTF8 Charset = utf8Charset{}

func init() {
	Register(UTF8, "utf8")
	registerTables()
	Register(NewUCS2(false), "ucs2le", "ucs-2", "ucs2")
	Register(NewUCS2(true), "ucs2be")
	Register(NewUCS4(false), "ucs4le", "ucs-4", "ucs4")
	Register(NewUCS4(true), "ucs4be")
	Register(NewShiftJIS(), "sjis", "shift_jis", "cp932")
	Register(NewEUCJP(), "eucjp", "euc_jp")
}

// EncodeString encodes s with cs, translating every '\n' to the EOL sequence.
func EncodeString(cs Charset, eol EOL, s string) []byte {
	out := make([]byte, 0, len(s)*cs.Unit())
	for _, r := range s {
		if r == '\n' {
			for _, e := range eol.Sequence() {
				out = cs.Encode(out, e)
			}
			continue
		}
		out = cs.Encode(out, r)
	}
	return out
}

// DecodeString decodes p with cs, folding line breaks to '\n'.
func DecodeString(cs Charset, eol EOL, p []byte) string {
	var sb strings.Builder
	sb.Grow(len(p))
	for i := 0; i < len(p); {
		r, n := cs.Decode(p[i:])
		i += n
		if r == '\r' {
			switch eol {
			case EOLMac:
				r = '\n'
			case EOLDOS:
				if i < len(p) {
					if next, m := cs.Decode(p[i:]); next == '\n' {
						i += m
						r = '\n'
					}
				}
			}
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Scan counts the line breaks and characters of p and the number of
// characters after the last line break. p must start on a character
// boundary. A CR LF pair counts as two characters and one line break.
func Scan(cs Charset, eol EOL, p []byte) (lines, col, chars int) {
	if _, ok := cs.(utf8Charset); ok {
		return scanUTF8(eol, p)
	}
	nl := eol.Break()
	for i := 0; i < len(p); {
		r, n := cs.Decode(p[i:])
		i += n
		chars++
		col++
		if r == nl {
			lines++
			col = 0
		}
	}
	return lines, col, chars
}

// scanUTF8 steps like utf8Charset.Decode: an invalid byte is one
// character.
func scanUTF8(eol EOL, p []byte) (lines, col, chars int) {
	nl := byte(eol.Break())
	for i := 0; i < len(p); {
		b := p[i]
		if b < utf8.RuneSelf {
			i++
		} else {
			_, n := utf8.DecodeRune(p[i:])
			i += n
		}
		chars++
		col++
		if b == nl {
			lines++
			col = 0
		}
	}
	return lines, col, chars
}
