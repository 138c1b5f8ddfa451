package search

import (
	"strings"
	"unicode"
)

// Flags modify how a needle matches.
type Flags uint16

const (
	// IgnoreCase compares code points under simple case folding.
	IgnoreCase Flags = 1 << iota
	// SmartCase sets IgnoreCase iff the needle has no upper case code point.
	SmartCase
	// Word requires non-word characters or buffer ends around a match.
	Word
	// Hex compares raw bytes; the needle holds byte values.
	Hex
	// UniHex compares code points given as hex values.
	UniHex
	// Regex treats the needle as a regular expression.
	Regex
	// Wrapped records that an interactive search restarted from the
	// buffer start or end. It does not affect matching.
	Wrapped
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{IgnoreCase, "case-fold"},
	{SmartCase, "smart-case"},
	{Word, "word"},
	{Hex, "hex"},
	{UniHex, "unihex"},
	{Regex, "regex"},
	{Wrapped, "wrapped"},
}

// Has reports whether every flag in mask is set.
func (f Flags) Has(mask Flags) bool { return f&mask == mask }

// Names returns the names of the set flags in a fixed order.
func (f Flags) Names() []string {
	var out []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			out = append(out, fn.name)
		}
	}
	return out
}

// String joins the flag names.
func (f Flags) String() string {
	return strings.Join(f.Names(), "|")
}

// Effective resolves SmartCase against needle.
func (f Flags) Effective(needle []rune) Flags {
	if f&SmartCase == 0 {
		return f
	}
	for _, r := range needle {
		if unicode.IsUpper(r) {
			return f &^ IgnoreCase
		}
	}
	return f | IgnoreCase
}

// Direction is the scan direction.
type Direction int

const (
	Forward  Direction = 1
	Backward Direction = -1
)

// String returns "forward" or "backward".
func (d Direction) String() string {
	if d < 0 {
		return "backward"
	}
	return "forward"
}

// DefaultIsWord is the word predicate used when the mode has none.
func DefaultIsWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// foldEqual compares two code points under simple case folding.
func foldEqual(a, b rune) bool {
	if a == b {
		return true
	}
	for f := unicode.SimpleFold(a); f != a; f = unicode.SimpleFold(f) {
		if f == b {
			return true
		}
	}
	return false
}
