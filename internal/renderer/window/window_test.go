package window

import (
	"strings"
	"testing"

	"github.com/dshills/qemacs/internal/engine/buffer"
	"github.com/dshills/qemacs/internal/renderer/highlight"
)

func TestPointFollowsEdits(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(b *buffer.Buffer) error
		point int
		want  int
	}{
		{"insert before", func(b *buffer.Buffer) error { return b.Insert(0, []byte("xx")) }, 4, 6},
		{"insert at point", func(b *buffer.Buffer) error { return b.Insert(4, []byte("xx")) }, 4, 4},
		{"insert after", func(b *buffer.Buffer) error { return b.Insert(6, []byte("xx")) }, 4, 4},
		{"delete before", func(b *buffer.Buffer) error { return b.Delete(0, 2) }, 4, 2},
		{"delete spanning", func(b *buffer.Buffer) error { return b.Delete(2, 5) }, 4, 2},
		{"overwrite", func(b *buffer.Buffer) error { return b.Write(0, []byte("XYZ")) }, 4, 4},
		{"overwrite growing", func(b *buffer.Buffer) error { return b.Write(2, []byte("xxxxxxxxxxxx")) }, 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := buffer.NewFromString("abc def ghi")
			w := New(b, highlight.TextMode)
			w.SetPoint(tt.point)
			if err := tt.edit(b); err != nil {
				t.Fatal(err)
			}
			if w.Point() != tt.want {
				t.Errorf("point = %d, want %d", w.Point(), tt.want)
			}
		})
	}
}

func TestWindowInvalidatesColors(t *testing.T) {
	b := buffer.NewFromString("/* a\nb */\n")
	w := New(b, highlight.CMode)
	if got := w.Line(1).Styles[0]; got != highlight.StyleComment {
		t.Fatalf("'b' inside comment = %v", got)
	}
	if w.StateAt(1) == 0 {
		t.Fatal("line 1 should start inside a comment")
	}

	if _, err := b.InsertText(2, "*/"); err != nil {
		t.Fatal(err)
	}
	if n := w.Cache().ValidLines(); n != 0 {
		t.Errorf("ValidLines = %d after edit on line 0", n)
	}
	if got := w.Line(1).Styles[0]; got != highlight.StyleDefault {
		t.Errorf("'b' after closing the comment = %v", got)
	}
	if w.StateAt(1) != 0 {
		t.Error("line 1 should start outside a comment")
	}
}

func TestTwoWindowsShareBuffer(t *testing.T) {
	b := buffer.NewFromString("one\ntwo\n")
	w1 := New(b, highlight.TextMode)
	w2 := New(b, highlight.GoMode)
	w1.SetPoint(4)
	w2.SetPoint(6)

	if _, err := b.InsertText(0, "zero\n"); err != nil {
		t.Fatal(err)
	}
	if w1.Point() != 9 || w2.Point() != 11 {
		t.Errorf("points = %d, %d", w1.Point(), w2.Point())
	}

	w1.Close()
	w1.Close()
	if b.ObserverCount() != 1 {
		t.Errorf("observers after close = %d", b.ObserverCount())
	}
}

func TestOverlays(t *testing.T) {
	b := buffer.NewFromString("abc def ghi")
	w := New(b, highlight.TextMode)

	w.SetHighlight(4, 7)
	l := w.Line(0)
	for i, s := range l.Styles {
		want := highlight.StyleDefault
		if i >= 4 && i < 7 {
			want = highlight.StyleSearchMatch
		}
		if s != want {
			t.Errorf("col %d = %v, want %v", i, s, want)
		}
	}
	if begin, end, ok := w.Highlight(); !ok || begin != 4 || end != 7 {
		t.Errorf("Highlight = %d, %d, %v", begin, end, ok)
	}
	w.ClearHighlight()
	if _, _, ok := w.Highlight(); ok {
		t.Error("highlight should be cleared")
	}

	if err := b.EnableStyles(1); err != nil {
		t.Fatal(err)
	}
	if err := b.SetStyle(0, 3, uint64(highlight.StyleKeyword)); err != nil {
		t.Fatal(err)
	}
	w.SetMark(8)
	w.SetPoint(10)
	w.ShowRegion(true)
	l = w.Line(0)
	if l.Styles[0] != highlight.StyleKeyword || l.Styles[3] != highlight.StyleDefault {
		t.Errorf("style shadow overlay = %v", l.Styles)
	}
	if l.Styles[8] != highlight.StyleRegion || l.Styles[10] != highlight.StyleDefault {
		t.Errorf("region overlay = %v", l.Styles)
	}
}

func TestLineOffsets(t *testing.T) {
	b := buffer.NewFromString("héllo\nwörld")
	w := New(b, highlight.TextMode)
	l := w.Line(1)
	if l.Start != 7 || string(l.Runes) != "wörld" {
		t.Fatalf("line 1 = %+v", l)
	}
	want := []int{7, 8, 10, 11, 12}
	for i, off := range want {
		if l.Offsets[i] != off {
			t.Errorf("offset %d = %d, want %d", i, l.Offsets[i], off)
		}
	}
}

func TestScrolling(t *testing.T) {
	b := buffer.NewFromString(strings.Repeat("line\n", 100))
	w := New(b, highlight.TextMode, WithSize(40, 10), WithScrollMargin(2))

	w.SetPoint(b.LineStart(50))
	if w.TopLine() != 43 {
		t.Errorf("top after jump = %d, want 43", w.TopLine())
	}
	if row, col := w.CursorCell(); row != 7 || col != 0 {
		t.Errorf("cursor cell = %d, %d", row, col)
	}
	if got := len(w.VisibleLines()); got != 10 {
		t.Errorf("visible lines = %d", got)
	}

	w.SetPoint(b.LineStart(44))
	if w.TopLine() != 42 {
		t.Errorf("top near upper margin = %d, want 42", w.TopLine())
	}

	w.PageDown()
	if w.TopLine() != 50 || b.LineOf(w.Point()) != 50 {
		t.Errorf("after PageDown top = %d, point line = %d", w.TopLine(), b.LineOf(w.Point()))
	}

	w.SetTopLine(1000)
	if w.TopLine() != b.LineCount()-1 {
		t.Errorf("clamped top = %d", w.TopLine())
	}
}

func TestMotion(t *testing.T) {
	b := buffer.NewFromString("hello world\nab\nlonger line")
	w := New(b, highlight.TextMode)

	w.MoveChar(8)
	if w.Point() != 8 {
		t.Fatalf("MoveChar = %d", w.Point())
	}
	w.MoveLine(1)
	if w.Point() != b.LineEnd(1) {
		t.Errorf("short line should clamp: %d", w.Point())
	}
	w.MoveLine(1)
	if _, col := b.LineCol(w.Point()); col != 8 {
		t.Errorf("goal column lost: %d", col)
	}

	w.BufferBegin()
	w.WordForward()
	if w.Point() != 5 {
		t.Errorf("WordForward = %d", w.Point())
	}
	w.WordForward()
	if w.Point() != 11 {
		t.Errorf("second WordForward = %d", w.Point())
	}
	w.WordBackward()
	if w.Point() != 6 {
		t.Errorf("WordBackward = %d", w.Point())
	}
	w.LineEnd()
	if w.Point() != 11 {
		t.Errorf("LineEnd = %d", w.Point())
	}
	w.LineBegin()
	if w.Point() != 0 {
		t.Errorf("LineBegin = %d", w.Point())
	}
	w.BufferEnd()
	w.MoveChar(-3)
	if w.Point() != b.Size()-3 {
		t.Errorf("MoveChar(-3) = %d", w.Point())
	}
}

func TestReload(t *testing.T) {
	b := buffer.NewFromString("a fairly long line")
	w := New(b, highlight.TextMode)
	w.SetPoint(15)
	w.SetHighlight(2, 8)
	b.Load([]byte("short"))
	if w.Point() != 5 {
		t.Errorf("point after reload = %d", w.Point())
	}
	if _, _, ok := w.Highlight(); ok {
		t.Error("reload should clear the highlight")
	}
}
