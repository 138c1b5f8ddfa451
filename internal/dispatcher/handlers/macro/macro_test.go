package macro

import (
	"errors"
	"testing"

	"github.com/dshills/qemacs/internal/dispatcher/execctx/ctxtest"
	"github.com/dshills/qemacs/internal/input"
	"github.com/dshills/qemacs/internal/input/key"
	inmacro "github.com/dshills/qemacs/internal/input/macro"
)

func TestDefineAndCall(t *testing.T) {
	h := NewHandler()
	ed := ctxtest.New("")

	r := h.HandleAction(input.Action{Name: ActionStart}, ed.Context())
	if r.Message != "Defining kbd macro..." || !ed.Recorder.Recording() {
		t.Fatalf("start = %q recording %v", r.Message, ed.Recorder.Recording())
	}
	end := key.MustParseSequence("C-x )")
	for _, ev := range append(key.MustParseSequence("a C-f"), end...) {
		ed.Recorder.Record(ev)
	}
	r = h.HandleAction(input.Action{Name: ActionEnd, Keys: end}, ed.Context())
	if r.Message != "Keyboard macro defined" {
		t.Fatalf("end = %q (%v)", r.Message, r.Error)
	}
	if v, _ := r.GetData("keys"); v != "a C-f" {
		t.Errorf("keys = %v", v)
	}

	h.HandleAction(input.Action{Name: ActionCall}, ed.Context().WithCount(2))
	if got := ed.Fed.String(); got != "a C-f a C-f" {
		t.Errorf("fed = %q", got)
	}
}

func TestCallStopsOnFailure(t *testing.T) {
	h := NewHandler()
	ed := ctxtest.New("")
	ed.Recorder.SetLast(key.MustParseSequence("a b c"))
	ed.FeedFunc = func(ev key.Event) bool { return ev.Rune != 'b' }

	h.HandleAction(input.Action{Name: ActionCall}, ed.Context().WithCount(3))
	if got := ed.Fed.String(); got != "a b" {
		t.Errorf("fed = %q", got)
	}
}

func TestErrors(t *testing.T) {
	h := NewHandler()
	ed := ctxtest.New("")

	r := h.HandleAction(input.Action{Name: ActionEnd}, ed.Context())
	if !errors.Is(r.Error, inmacro.ErrNotRecording) {
		t.Errorf("end while idle = %v", r.Error)
	}
	r = h.HandleAction(input.Action{Name: ActionCall}, ed.Context())
	if !errors.Is(r.Error, inmacro.ErrEmpty) {
		t.Errorf("call without macro = %v", r.Error)
	}
	h.HandleAction(input.Action{Name: ActionStart}, ed.Context())
	r = h.HandleAction(input.Action{Name: ActionStart}, ed.Context())
	if !errors.Is(r.Error, inmacro.ErrRecording) {
		t.Errorf("nested start = %v", r.Error)
	}
}
