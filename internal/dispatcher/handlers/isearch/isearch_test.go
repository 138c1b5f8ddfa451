package isearch

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/qemacs/internal/engine/buffer"
	"github.com/dshills/qemacs/internal/engine/search"
	"github.com/dshills/qemacs/internal/renderer/highlight"
	"github.com/dshills/qemacs/internal/renderer/window"
)

func setup(text string, point int) (*buffer.Buffer, *window.Window) {
	b := buffer.NewFromString(text)
	w := window.New(b, highlight.TextMode)
	w.SetPoint(point)
	return b, w
}

func typeText(s *Search, text string) {
	for _, r := range text {
		s.Handle(Key(r))
	}
}

func TestRepeatWraps(t *testing.T) {
	_, w := setup("abc def abc", 0)
	s := New(w, search.Forward)

	typeText(s, "abc")
	if w.Point() != 3 {
		t.Fatalf("after typing point = %d, want 3", w.Point())
	}
	if b, e, ok := w.Highlight(); !ok || b != 0 || e != 3 {
		t.Errorf("highlight = %d, %d, %v", b, e, ok)
	}

	s.Handle(Do(RepeatForward))
	if w.Point() != 11 {
		t.Fatalf("first repeat point = %d, want 11", w.Point())
	}
	if s.Flags().Has(search.Wrapped) {
		t.Error("wrapped too early")
	}

	s.Handle(Do(RepeatForward))
	if w.Point() != 3 {
		t.Errorf("second repeat point = %d, want 3", w.Point())
	}
	if !s.Flags().Has(search.Wrapped) {
		t.Error("second repeat should set wrapped")
	}
	if s.State() != Active {
		t.Errorf("state = %v", s.State())
	}
	if !strings.HasPrefix(s.Prompt(), "Wrapped I-search: abc") {
		t.Errorf("prompt = %q", s.Prompt())
	}

	s.Handle(Do(Backspace))
	if w.Point() != 11 || s.Flags().Has(search.Wrapped) {
		t.Errorf("backspace over wrap: point %d, flags %v", w.Point(), s.Flags())
	}
}

func TestBackspaceShortensNeedle(t *testing.T) {
	_, w := setup("abd abc", 0)
	s := New(w, search.Forward)
	typeText(s, "abc")
	if w.Point() != 7 {
		t.Fatalf("point = %d", w.Point())
	}
	s.Handle(Do(Backspace))
	if w.Point() != 2 || string(s.Needle()) != "ab" {
		t.Errorf("after backspace point %d needle %q", w.Point(), string(s.Needle()))
	}
	s.Handle(Do(Backspace))
	s.Handle(Do(Backspace))
	s.Handle(Do(Backspace))
	if w.Point() != 0 {
		t.Errorf("empty needle point = %d", w.Point())
	}
	if _, _, ok := w.Highlight(); ok {
		t.Error("empty needle should clear the highlight")
	}
}

func TestCancelRestores(t *testing.T) {
	b, w := setup("abc def ghi", 1)
	b.SetMark(5)
	s := New(w, search.Forward)
	typeText(s, "ghi")
	if w.Point() != 11 {
		t.Fatalf("point = %d", w.Point())
	}
	s.Handle(Do(Cancel))
	if s.State() != Idle || !s.Done() {
		t.Errorf("state = %v", s.State())
	}
	if w.Point() != 1 || b.Mark() != 5 {
		t.Errorf("point %d mark %d, want 1 and 5", w.Point(), b.Mark())
	}
	s.Handle(Key('x'))
	if w.Point() != 1 {
		t.Error("events after cancel must be ignored")
	}
}

func TestCommitRecordsLast(t *testing.T) {
	b, w := setup("abc def abc def", 0)
	last := &Last{}
	s := New(w, search.Forward, WithLast(last))
	typeText(s, "def")
	s.Handle(Do(Commit))
	if s.State() != Exited || !s.Repost() {
		t.Errorf("state %v repost %v", s.State(), s.Repost())
	}
	if b.Mark() != 0 || w.Point() != 7 {
		t.Errorf("mark %d point %d", b.Mark(), w.Point())
	}
	if string(last.Needle) != "def" {
		t.Fatalf("last needle = %q", string(last.Needle))
	}

	s = New(w, search.Forward, WithLast(last))
	s.Handle(Do(RepeatForward))
	if w.Point() != 15 || string(s.Needle()) != "def" {
		t.Errorf("reused needle: point %d needle %q", w.Point(), string(s.Needle()))
	}
	s.Handle(Do(Finish))
	if s.Repost() {
		t.Error("finish consumes the key")
	}
}

func TestFailedThenWrap(t *testing.T) {
	_, w := setup("xyz abc", 5)
	s := New(w, search.Forward)
	typeText(s, "abc")
	if s.State() != Failed || w.Point() != 5 {
		t.Fatalf("state %v point %d", s.State(), w.Point())
	}
	if !strings.HasPrefix(s.Prompt(), "Failing I-search") {
		t.Errorf("prompt = %q", s.Prompt())
	}
	s.Handle(Do(RepeatForward))
	if s.State() != Active || w.Point() != 7 || !s.Flags().Has(search.Wrapped) {
		t.Errorf("after wrap: state %v point %d flags %v", s.State(), w.Point(), s.Flags())
	}
	s.Handle(Key('d'))
	if s.State() != Failed {
		t.Errorf("state = %v", s.State())
	}
	if s.Flags().Has(search.Wrapped) {
		t.Error("typing should clear wrapped")
	}
}

func TestBackward(t *testing.T) {
	_, w := setup("abc def abc", 11)
	s := New(w, search.Backward)
	typeText(s, "abc")
	if w.Point() != 8 {
		t.Fatalf("point = %d, want 8", w.Point())
	}
	s.Handle(Do(RepeatBackward))
	if w.Point() != 0 {
		t.Errorf("repeat point = %d, want 0", w.Point())
	}
	s.Handle(Do(RepeatBackward))
	if w.Point() != 8 || !s.Flags().Has(search.Wrapped) {
		t.Errorf("wrap point %d flags %v", w.Point(), s.Flags())
	}
	if !strings.Contains(s.Prompt(), "backward") {
		t.Errorf("prompt = %q", s.Prompt())
	}
}

func TestQuoting(t *testing.T) {
	_, w := setup("a\nb", 0)
	s := New(w, search.Forward)
	s.Handle(Key('a'))
	s.Handle(Do(LiteralNext))
	if s.State() != Quoting {
		t.Fatalf("state = %v", s.State())
	}
	s.Handle(Key('\n'))
	if w.Point() != 2 {
		t.Errorf("point = %d", w.Point())
	}
	if !strings.HasSuffix(s.Prompt(), "a^J") {
		t.Errorf("prompt = %q", s.Prompt())
	}
}

func TestYank(t *testing.T) {
	_, w := setup("foo bar baz", 0)
	s := New(w, search.Forward)
	s.Handle(Key('f'))
	s.Handle(Do(YankWord))
	if string(s.Needle()) != "foo" {
		t.Errorf("yank word = %q", string(s.Needle()))
	}
	s.Handle(Do(YankWord))
	if string(s.Needle()) != "foo bar" || w.Point() != 7 {
		t.Errorf("second yank word = %q, point %d", string(s.Needle()), w.Point())
	}

	_, w = setup("foo bar baz", 0)
	s = New(w, search.Forward)
	s.Handle(Key('b'))
	s.Handle(Do(YankLine))
	if string(s.Needle()) != "bar baz" || w.Point() != 11 {
		t.Errorf("yank line = %q, point %d", string(s.Needle()), w.Point())
	}
}

type fakeClipboard struct {
	text string
	err  error
}

func (c fakeClipboard) ReadText() (string, error) { return c.text, c.err }

func TestYankClipboard(t *testing.T) {
	_, w := setup("abc def", 0)
	s := New(w, search.Forward, WithClipboard(fakeClipboard{text: "def"}))
	s.Handle(Do(YankClipboard))
	if w.Point() != 7 {
		t.Errorf("point = %d", w.Point())
	}

	s = New(w, search.Forward, WithClipboard(fakeClipboard{err: errors.New("no clipboard")}))
	s.Handle(Do(YankClipboard))
	if len(s.Needle()) != 0 {
		t.Error("failed clipboard read should not change the needle")
	}
}

func TestToggles(t *testing.T) {
	_, w := setup("Foo foo", 0)
	s := New(w, search.Forward)
	typeText(s, "foo")
	if w.Point() != 7 {
		t.Fatalf("case-sensitive point = %d", w.Point())
	}
	s.Handle(Do(ToggleCase))
	if w.Point() != 3 {
		t.Errorf("case-fold point = %d", w.Point())
	}
	if !strings.Contains(s.Prompt(), "[case-fold]") {
		t.Errorf("prompt = %q", s.Prompt())
	}

	_, w = setup("a1 a22", 0)
	s = New(w, search.Forward)
	s.Handle(Do(ToggleRegex))
	typeText(s, "a[0-9]+")
	if b, e, ok := w.Highlight(); !ok || b != 0 || e != 2 {
		t.Errorf("regex match = %d, %d, %v", b, e, ok)
	}
	s.Handle(Do(RepeatForward))
	if b, e, _ := w.Highlight(); b != 3 || e != 6 {
		t.Errorf("regex repeat = %d, %d", b, e)
	}
}

func TestBadRegexFails(t *testing.T) {
	_, w := setup("xab a(b", 0)
	s := New(w, search.Forward, WithFlags(search.Regex))
	typeText(s, "a(")
	if s.State() != Failed || s.Err() == nil {
		t.Errorf("state %v err %v", s.State(), s.Err())
	}
	typeText(s, "b)")
	if s.State() != Active {
		t.Errorf("state after closing group = %v", s.State())
	}
}

func TestHexNeedle(t *testing.T) {
	_, w := setup("ab\x00cd", 0)
	s := New(w, search.Forward)
	s.Handle(Do(ToggleHex))
	typeText(s, "6")
	if s.State() != Active || w.Point() != 0 {
		t.Errorf("odd digit: state %v point %d", s.State(), w.Point())
	}
	typeText(s, "3 64")
	if w.Point() != 5 {
		t.Errorf("hex match point = %d", w.Point())
	}
	if b, _, _ := w.Highlight(); b != 3 {
		t.Errorf("hex match begin = %d", b)
	}
}
