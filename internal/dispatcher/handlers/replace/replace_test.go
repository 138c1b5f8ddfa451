package replace

import (
	"errors"
	"testing"

	"github.com/dshills/qemacs/internal/engine/buffer"
	"github.com/dshills/qemacs/internal/engine/search"
	"github.com/dshills/qemacs/internal/renderer/highlight"
	"github.com/dshills/qemacs/internal/renderer/window"
)

func start(t *testing.T, text, pattern, replacement string, opts ...Option) (*buffer.Buffer, *window.Window, *Replace) {
	t.Helper()
	b := buffer.NewFromString(text)
	w := window.New(b, highlight.TextMode)
	r, err := New(w, []rune(pattern), replacement, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b, w, r
}

func TestToggleRearmsExhaustedReplace(t *testing.T) {
	b, _, r := start(t, "cat Cat CAT", "cat", "dog")
	if m, ok := r.Match(); !ok || m.Begin != 0 {
		t.Fatalf("first hit = %+v, %v", m, ok)
	}
	r.Handle(Skip)
	if r.State() != Done || r.Count() != 0 {
		t.Fatalf("after skip: state %v count %d", r.State(), r.Count())
	}

	r.Handle(ToggleCase)
	if m, ok := r.Match(); !ok || m.Begin != 0 {
		t.Fatalf("after toggle hit = %+v, %v", m, ok)
	}
	r.Handle(All)
	if r.State() != Done {
		t.Errorf("state = %v", r.State())
	}
	if got := b.Text(); got != "dog dog dog" {
		t.Errorf("text = %q", got)
	}
	if r.Count() != 3 {
		t.Errorf("count = %d, want 3", r.Count())
	}
	if r.Report() != "Replaced 3 occurrences" {
		t.Errorf("report = %q", r.Report())
	}
}

func TestSizeLimitStopsCleanly(t *testing.T) {
	const text = "a.b.c"
	b := buffer.NewFromString(text, buffer.WithMaxSize(6))
	w := window.New(b, highlight.TextMode)
	r, err := New(w, []rune("."), "--")
	if err != nil {
		t.Fatal(err)
	}
	r.Handle(All)
	if r.State() != Done || !errors.Is(r.Err(), buffer.ErrNoSpace) {
		t.Fatalf("state %v err %v", r.State(), r.Err())
	}
	if got := b.Text(); got != "a--b.c" || r.Count() != 1 {
		t.Fatalf("text = %q count = %d", got, r.Count())
	}
	if _, err := b.Undo(r.Count()); err != nil {
		t.Fatal(err)
	}
	if got := b.Text(); got != text {
		t.Errorf("after %d undos = %q", r.Count(), got)
	}
}

func TestUndoCountRestores(t *testing.T) {
	const text = "a.b.c.d"
	b, w, r := start(t, text, ".", "--")
	for r.State() == Prompting {
		r.Handle(Accept)
	}
	if got := b.Text(); got != "a--b--c--d" {
		t.Fatalf("text = %q", got)
	}
	if r.Count() != 3 {
		t.Fatalf("count = %d", r.Count())
	}
	if w.Point() != 9 {
		t.Errorf("point after last replacement = %d", w.Point())
	}

	if _, err := b.Undo(1); err != nil {
		t.Fatal(err)
	}
	if got := b.Text(); got != "a--b--c.d" {
		t.Errorf("one undo = %q", got)
	}
	if _, err := b.Undo(r.Count() - 1); err != nil {
		t.Fatal(err)
	}
	if got := b.Text(); got != text {
		t.Errorf("after %d undos = %q", r.Count(), got)
	}
}

func TestAnswers(t *testing.T) {
	tests := []struct {
		name    string
		answers []Answer
		want    string
		count   int
		point   int
	}{
		{"accept then last", []Answer{Accept, Last}, "y y x", 2, 3},
		{"skip then accept", []Answer{Skip, Accept, Quit}, "x y x", 1, 5},
		{"quit", []Answer{Quit}, "x x x", 0, 1},
		{"cancel", []Answer{Accept, Cancel}, "y x x", 1, 0},
		{"answers after stop", []Answer{Last, Accept, ToggleCase, All}, "y x x", 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, w, r := start(t, "x x x", "x", "y")
			for _, a := range tt.answers {
				r.Handle(a)
			}
			if got := b.Text(); got != tt.want {
				t.Errorf("text = %q, want %q", got, tt.want)
			}
			if r.Count() != tt.count {
				t.Errorf("count = %d, want %d", r.Count(), tt.count)
			}
			if w.Point() != tt.point {
				t.Errorf("point = %d, want %d", w.Point(), tt.point)
			}
			if r.State() != Done {
				t.Errorf("state = %v", r.State())
			}
			if _, _, ok := w.Highlight(); ok {
				t.Error("highlight left after done")
			}
		})
	}
}

func TestWordToggle(t *testing.T) {
	b, _, r := start(t, "cat concat cat", "cat", "dog")
	r.Handle(ToggleWord)
	r.Handle(All)
	if got := b.Text(); got != "dog concat dog" {
		t.Errorf("text = %q", got)
	}
	if r.Count() != 2 {
		t.Errorf("count = %d", r.Count())
	}
}

func TestReplacementContainsPattern(t *testing.T) {
	b, _, r := start(t, "aa", "a", "aa")
	r.Handle(All)
	if got := b.Text(); got != "aaaa" || r.Count() != 2 {
		t.Errorf("text %q count %d", got, r.Count())
	}
}

func TestEmptyRegexMatchesSkipped(t *testing.T) {
	b, _, r := start(t, "ab", "x*", "y", WithFlags(search.Regex))
	if r.State() != Done || r.Count() != 0 || b.Text() != "ab" {
		t.Errorf("state %v count %d text %q", r.State(), r.Count(), b.Text())
	}
}

func TestNewErrors(t *testing.T) {
	b := buffer.NewFromString("x", buffer.WithReadOnly())
	w := window.New(b, highlight.TextMode)
	if _, err := New(w, []rune("x"), "y"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("read-only = %v", err)
	}
	if _, err := New(w, nil, "y"); !errors.Is(err, search.ErrEmptyNeedle) {
		t.Errorf("empty pattern = %v", err)
	}
}
