package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Parse errors.
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

var namedKeys = map[string]Key{
	"ESC":    KeyEscape,
	"RET":    KeyEnter,
	"TAB":    KeyTab,
	"DEL":    KeyBackspace,
	"delete": KeyDelete,
	"insert": KeyInsert,
	"home":   KeyHome,
	"end":    KeyEnd,
	"prior":  KeyPageUp,
	"next":   KeyPageDown,
	"up":     KeyUp,
	"down":   KeyDown,
	"left":   KeyLeft,
	"right":  KeyRight,
}

// Parse reads one key in Emacs notation: "a", "C-x", "M-%", "C-M-v",
// "RET", "SPC", "<f5>", "S-<up>".
func Parse(spec string) (Event, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Event{}, ErrEmptySpec
	}

	var mods Modifier
	rest := spec
	for len(rest) > 2 && rest[1] == '-' {
		switch rest[0] {
		case 'C':
			mods |= ModCtrl
		case 'M':
			mods |= ModMeta
		case 'S':
			mods |= ModShift
		default:
			return Event{}, fmt.Errorf("%w: unknown modifier in %q", ErrInvalidSpec, spec)
		}
		rest = rest[2:]
	}

	if rest == "SPC" {
		return Rune(' ', mods), nil
	}
	if k, ok := namedKeys[rest]; ok {
		return Special(k, mods), nil
	}
	if strings.HasPrefix(rest, "<") && strings.HasSuffix(rest, ">") {
		name := rest[1 : len(rest)-1]
		if k, ok := namedKeys[name]; ok {
			return Special(k, mods), nil
		}
		var n int
		if _, err := fmt.Sscanf(name, "f%d", &n); err == nil && n >= 1 && n <= 12 {
			return Special(KeyF1+Key(n-1), mods), nil
		}
		return Event{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, rest)
	}

	r, size := utf8.DecodeRuneInString(rest)
	if r == utf8.RuneError || size != len(rest) {
		return Event{}, fmt.Errorf("%w: %q", ErrInvalidSpec, spec)
	}
	if mods.Has(ModCtrl) {
		return normalizeCtrl(Rune(r, mods)), nil
	}
	return Rune(r, mods), nil
}

// normalizeCtrl folds C-m, C-i and C-[ into the keys terminals send for
// them, and lower-cases control letters.
func normalizeCtrl(e Event) Event {
	mods := e.Modifiers &^ ModCtrl
	switch e.Rune {
	case 'm', 'M':
		return Special(KeyEnter, mods)
	case 'i', 'I':
		return Special(KeyTab, mods)
	case '[':
		return Special(KeyEscape, mods)
	}
	if e.Rune >= 'A' && e.Rune <= 'Z' {
		e.Rune += 'a' - 'A'
	}
	return e
}

// ParseSequence reads space separated keys: "C-x C-s".
func ParseSequence(spec string) (Sequence, error) {
	fields := strings.Fields(spec)
	if len(fields) == 0 {
		return nil, ErrEmptySpec
	}
	seq := make(Sequence, 0, len(fields))
	for _, f := range fields {
		e, err := Parse(f)
		if err != nil {
			return nil, err
		}
		seq = append(seq, e)
	}
	return seq, nil
}

// MustParseSequence is ParseSequence for specs known to be valid.
func MustParseSequence(spec string) Sequence {
	seq, err := ParseSequence(spec)
	if err != nil {
		panic(err)
	}
	return seq
}

// Sequence is a series of key events forming one command.
type Sequence []Event

// String renders the sequence in Emacs notation.
func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, e := range s {
		parts[i] = e.String()
	}
	return strings.Join(parts, " ")
}
