package backend

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/qemacs/internal/input/key"
)

func TestNullBackendCells(t *testing.T) {
	b := NewNullBackend(10, 3)
	if err := b.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	style := tcell.StyleDefault.Bold(true)
	b.SetCell(1, 1, Cell{Rune: 'X', Style: style})
	if got := b.GetCell(1, 1); got.Rune != 'X' || got.Style != style {
		t.Errorf("cell = %+v", got)
	}

	// Out of bounds should be ignored/return empty
	b.SetCell(-1, 0, Cell{Rune: 'Y'})
	b.SetCell(100, 0, Cell{Rune: 'Y'})
	if got := b.GetCell(-1, 0); got != EmptyCell() {
		t.Errorf("out of bounds cell = %+v", got)
	}
	if got := b.Row(1); got != " X        " {
		t.Errorf("row = %q", got)
	}

	b.Clear()
	if got := b.Row(1); got != "          " {
		t.Errorf("cleared row = %q", got)
	}
}

func TestNullBackendEvents(t *testing.T) {
	b := NewNullBackend(10, 3)
	b.Init()
	b.PostEvent(Event{Type: EventKey, Key: key.Ctrl('x')})
	b.Resize(20, 5)

	if ev := b.PollEvent(); ev.Type != EventKey || ev.Key != key.Ctrl('x') {
		t.Errorf("first event = %+v", ev)
	}
	if ev := b.PollEvent(); ev.Type != EventResize || ev.Width != 20 || ev.Height != 5 {
		t.Errorf("second event = %+v", ev)
	}
	if w, h := b.Size(); w != 20 || h != 5 {
		t.Errorf("size = %dx%d", w, h)
	}

	b.ShowCursor(3, 4)
	if x, y, visible := b.CursorPosition(); x != 3 || y != 4 || !visible {
		t.Errorf("cursor = %d,%d %v", x, y, visible)
	}
	b.Beep()
	if b.Beeps() != 1 {
		t.Errorf("beeps = %d", b.Beeps())
	}
}

func TestConvertKey(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want key.Event
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), key.Rune('a', key.ModNone)},
		{"alt rune is meta", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModAlt), key.Meta('x')},
		{"control letter", tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModCtrl), key.Ctrl('s')},
		{"control space", tcell.NewEventKey(tcell.KeyCtrlSpace, 0, tcell.ModCtrl), key.Rune(' ', key.ModCtrl)},
		{"control underscore", tcell.NewEventKey(tcell.KeyCtrlUnderscore, 0, tcell.ModCtrl), key.Rune('_', key.ModCtrl)},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), key.Special(key.KeyEnter, key.ModNone)},
		{"backspace2", tcell.NewEventKey(tcell.KeyDEL, 0, tcell.ModNone), key.Special(key.KeyBackspace, key.ModNone)},
		{"arrow", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), key.Special(key.KeyLeft, key.ModNone)},
		{"meta arrow", tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModAlt), key.Special(key.KeyRight, key.ModMeta)},
		{"function key", tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone), key.Special(key.KeyF5, key.ModNone)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConvertKey(tt.ev); got != tt.want {
				t.Errorf("ConvertKey = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTerminalSimulation(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	term := NewTerminalWithScreen(screen)
	if err := term.Init(); err != nil {
		t.Fatal(err)
	}
	defer term.Shutdown()
	screen.SetSize(20, 4)

	term.SetCell(0, 0, Cell{Rune: 'q', Style: tcell.StyleDefault})
	term.Show()
	cells, width, _ := screen.GetContents()
	if width != 20 || len(cells[0].Runes) == 0 || cells[0].Runes[0] != 'q' {
		t.Errorf("screen cell = %+v", cells[0])
	}

	term.PostEvent(Event{Type: EventKey, Key: key.Meta('f')})
	for {
		ev := term.PollEvent()
		if ev.Type == EventResize {
			continue
		}
		if ev.Type != EventKey || ev.Key != key.Meta('f') {
			t.Errorf("event = %+v", ev)
		}
		break
	}
}
