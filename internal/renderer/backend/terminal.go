package backend

import (
	"strings"
	"sync"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/qemacs/internal/input/key"
)

// Terminal implements Backend using tcell for terminal output.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex

	// Bracketed paste collects the runes between the start and end
	// markers into one event.
	pasting bool
	paste   strings.Builder
}

// NewTerminal creates a new terminal backend.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// NewTerminalWithScreen wraps an existing screen, such as a
// tcell.SimulationScreen.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnablePaste()
	return nil
}

func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

func (t *Terminal) SetCell(x, y int, cell Cell) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.SetContent(x, y, cell.Rune, nil, cell.Style)
}

func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
}

func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

func (t *Terminal) ShowCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.ShowCursor(x, y)
}

func (t *Terminal) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.HideCursor()
}

// PollEvent returns the next key, resize or paste. Events the editor does
// not use are skipped.
func (t *Terminal) PollEvent() Event {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return Event{Type: EventQuit}
		}
		if out, ok := t.convertEvent(ev); ok {
			return out
		}
	}
}

func (t *Terminal) PostEvent(event Event) {
	if event.Type == EventKey {
		k, r, mod := toTcell(event.Key)
		_ = t.screen.PostEvent(tcell.NewEventKey(k, r, mod)) // best-effort; event queue may be full
	}
}

func (t *Terminal) Beep() {
	t.mu.Lock()
	defer t.mu.Unlock()

	_ = t.screen.Beep() // best-effort; terminal may not support beep
}

func (t *Terminal) convertEvent(ev tcell.Event) (Event, bool) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		k := ConvertKey(e)
		if t.pasting {
			switch {
			case k.Key == key.KeyRune:
				t.paste.WriteRune(k.Rune)
			case k.Key == key.KeyEnter:
				t.paste.WriteByte('\n')
			case k.Key == key.KeyTab:
				t.paste.WriteByte('\t')
			}
			return Event{}, false
		}
		return Event{Type: EventKey, Key: k}, true

	case *tcell.EventResize:
		w, h := e.Size()
		return Event{Type: EventResize, Width: w, Height: h}, true

	case *tcell.EventPaste:
		if e.Start() {
			t.pasting = true
			t.paste.Reset()
			return Event{}, false
		}
		t.pasting = false
		return Event{Type: EventPaste, Text: t.paste.String()}, true
	}
	return Event{}, false
}

// specialKeys maps tcell keys that have a name of their own.
var specialKeys = map[tcell.Key]key.Key{
	tcell.KeyEnter:     key.KeyEnter,
	tcell.KeyTab:       key.KeyTab,
	tcell.KeyBackspace: key.KeyBackspace,
	tcell.KeyDEL:       key.KeyBackspace,
	tcell.KeyEscape:    key.KeyEscape,
	tcell.KeyDelete:    key.KeyDelete,
	tcell.KeyInsert:    key.KeyInsert,
	tcell.KeyHome:      key.KeyHome,
	tcell.KeyEnd:       key.KeyEnd,
	tcell.KeyPgUp:      key.KeyPageUp,
	tcell.KeyPgDn:      key.KeyPageDown,
	tcell.KeyUp:        key.KeyUp,
	tcell.KeyDown:      key.KeyDown,
	tcell.KeyLeft:      key.KeyLeft,
	tcell.KeyRight:     key.KeyRight,
	tcell.KeyF1:        key.KeyF1,
	tcell.KeyF2:        key.KeyF2,
	tcell.KeyF3:        key.KeyF3,
	tcell.KeyF4:        key.KeyF4,
	tcell.KeyF5:        key.KeyF5,
	tcell.KeyF6:        key.KeyF6,
	tcell.KeyF7:        key.KeyF7,
	tcell.KeyF8:        key.KeyF8,
	tcell.KeyF9:        key.KeyF9,
	tcell.KeyF10:       key.KeyF10,
	tcell.KeyF11:       key.KeyF11,
	tcell.KeyF12:       key.KeyF12,
}

// controlRunes maps the control codes that are not letters.
var controlRunes = map[tcell.Key]rune{
	tcell.KeyCtrlSpace:      ' ',
	tcell.KeyCtrlBackslash:  '\\',
	tcell.KeyCtrlRightSq:    ']',
	tcell.KeyCtrlCarat:      '^',
	tcell.KeyCtrlUnderscore: '_',
}

// ConvertKey translates a tcell key event. C-m, C-i, C-h and C-[ arrive
// from the terminal as RET, TAB, DEL and ESC and stay that way. Alt is
// read as Meta.
func ConvertKey(e *tcell.EventKey) key.Event {
	var mods key.Modifier
	if e.Modifiers()&(tcell.ModAlt|tcell.ModMeta) != 0 {
		mods |= key.ModMeta
	}
	ctrl := e.Modifiers()&tcell.ModCtrl != 0

	k := e.Key()
	if k == tcell.KeyRune {
		r := e.Rune()
		if ctrl {
			return key.Rune(unicode.ToLower(r), mods|key.ModCtrl)
		}
		return key.Rune(r, mods)
	}
	if sk, ok := specialKeys[k]; ok {
		if ctrl && sk != key.KeyEnter && sk != key.KeyTab && sk != key.KeyBackspace && sk != key.KeyEscape {
			mods |= key.ModCtrl
		}
		return key.Special(sk, mods)
	}
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return key.Rune(rune('a'+int(k-tcell.KeyCtrlA)), mods|key.ModCtrl)
	}
	if r, ok := controlRunes[k]; ok {
		return key.Rune(r, mods|key.ModCtrl)
	}
	return key.Special(key.KeyNone, mods)
}

// toTcell is the inverse of ConvertKey for posted events.
func toTcell(ev key.Event) (tcell.Key, rune, tcell.ModMask) {
	var mod tcell.ModMask
	if ev.Modifiers.Has(key.ModMeta) {
		mod |= tcell.ModAlt
	}
	if ev.Key == key.KeyRune {
		if ev.Modifiers.Has(key.ModCtrl) {
			if ev.Rune >= 'a' && ev.Rune <= 'z' {
				return tcell.KeyCtrlA + tcell.Key(ev.Rune-'a'), 0, mod | tcell.ModCtrl
			}
			for k, r := range controlRunes {
				if r == ev.Rune {
					return k, 0, mod | tcell.ModCtrl
				}
			}
		}
		return tcell.KeyRune, ev.Rune, mod
	}
	if ev.Modifiers.Has(key.ModCtrl) {
		mod |= tcell.ModCtrl
	}
	for tk, k := range specialKeys {
		if k == ev.Key && tk != tcell.KeyDEL {
			return tk, 0, mod
		}
	}
	return tcell.KeyNUL, 0, mod
}
