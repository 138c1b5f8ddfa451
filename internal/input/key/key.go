// Package key provides key events and Emacs-style key notation.
//
// Key specifications are written the way Emacs prints them:
//
//   - Plain characters: "a", "%", "SPC"
//   - Modified characters: "C-x", "M-%", "C-M-v"
//   - Named keys: "RET", "TAB", "DEL", "ESC", "<up>", "<f1>", "<next>"
//   - Sequences: "C-x C-s", "ESC x"
//
// Control characters are represented by their lower case letter with
// ModCtrl; the terminal back-end folds C-m, C-i and C-[ into RET, TAB and
// ESC.
package key

import "fmt"

// Key identifies a key. Character keys use KeyRune and Event.Rune.
type Key uint8

const (
	KeyNone Key = iota
	KeyRune
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// Short names print without angle brackets.
var shortNames = map[Key]string{
	KeyEscape:    "ESC",
	KeyEnter:     "RET",
	KeyTab:       "TAB",
	KeyBackspace: "DEL",
}

// Long names print as <name>.
var longNames = map[Key]string{
	KeyDelete:   "delete",
	KeyInsert:   "insert",
	KeyHome:     "home",
	KeyEnd:      "end",
	KeyPageUp:   "prior",
	KeyPageDown: "next",
	KeyUp:       "up",
	KeyDown:     "down",
	KeyLeft:     "left",
	KeyRight:    "right",
}

// String returns the Emacs name of the key.
func (k Key) String() string {
	if s, ok := shortNames[k]; ok {
		return s
	}
	if s, ok := longNames[k]; ok {
		return "<" + s + ">"
	}
	if k >= KeyF1 && k <= KeyF12 {
		return fmt.Sprintf("<f%d>", int(k-KeyF1)+1)
	}
	switch k {
	case KeyNone:
		return "<none>"
	case KeyRune:
		return "<rune>"
	}
	return fmt.Sprintf("<key%d>", int(k))
}

// Modifier is a set of modifier keys.
type Modifier uint8

const (
	ModNone Modifier = 0
	ModCtrl Modifier = 1 << iota
	ModMeta
	ModShift
)

// Has reports whether every modifier in m2 is set.
func (m Modifier) Has(m2 Modifier) bool { return m&m2 == m2 }

// prefix renders the modifiers the way Emacs does, meta after control.
func (m Modifier) prefix() string {
	s := ""
	if m.Has(ModCtrl) {
		s += "C-"
	}
	if m.Has(ModMeta) {
		s += "M-"
	}
	if m.Has(ModShift) {
		s += "S-"
	}
	return s
}
