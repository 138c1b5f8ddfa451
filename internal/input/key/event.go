package key

import "unicode"

// Event is a single key press. Events are comparable and can be map keys.
type Event struct {
	Key       Key
	Rune      rune
	Modifiers Modifier
}

// Rune builds a character event.
func Rune(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// Special builds an event for a named key.
func Special(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods}
}

// Ctrl builds C-r for a letter r.
func Ctrl(r rune) Event { return Rune(unicode.ToLower(r), ModCtrl) }

// Meta builds M-r.
func Meta(r rune) Event { return Rune(r, ModMeta) }

// IsChar reports whether the event inserts a printable character.
func (e Event) IsChar() bool {
	return e.Key == KeyRune && e.Modifiers&(ModCtrl|ModMeta) == 0 && unicode.IsPrint(e.Rune)
}

// WithMeta returns e with ModMeta added, as ESC followed by e reads.
func (e Event) WithMeta() Event {
	e.Modifiers |= ModMeta
	return e
}

// ControlRune returns the ASCII control character for C-a through C-z
// and C-@ through C-_, or 0.
func (e Event) ControlRune() rune {
	switch {
	case e.Key == KeyEnter:
		return '\r'
	case e.Key == KeyTab:
		return '\t'
	case e.Key == KeyEscape:
		return 0x1b
	case e.Key != KeyRune || !e.Modifiers.Has(ModCtrl):
		return 0
	}
	r := unicode.ToUpper(e.Rune)
	if r >= '@' && r <= '_' {
		return r - '@'
	}
	return 0
}

// String renders the event in Emacs notation.
func (e Event) String() string {
	if e.Key != KeyRune {
		return e.Modifiers.prefix() + e.Key.String()
	}
	name := string(e.Rune)
	if e.Rune == ' ' {
		name = "SPC"
	}
	return e.Modifiers.prefix() + name
}
