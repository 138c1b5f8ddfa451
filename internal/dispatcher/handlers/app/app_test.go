package app

import (
	"testing"

	"github.com/dshills/qemacs/internal/dispatcher/execctx/ctxtest"
	"github.com/dshills/qemacs/internal/dispatcher/handler"
	"github.com/dshills/qemacs/internal/input"
)

func TestQuit(t *testing.T) {
	ed := ctxtest.New("")
	NewHandler().HandleAction(input.Action{Name: ActionQuit}, ed.Context())
	if !ed.Quitted {
		t.Error("quit not requested")
	}
}

func TestCancel(t *testing.T) {
	ed := ctxtest.New("hello")
	ed.Win.SetHighlight(0, 5)
	if err := ed.Recorder.Start(); err != nil {
		t.Fatal(err)
	}

	r := NewHandler().HandleAction(input.Action{Name: ActionCancel}, ed.Context())
	if r.Status != handler.StatusCancelled || r.Message != "Quit" {
		t.Errorf("result = %v %q", r.Status, r.Message)
	}
	if _, _, ok := ed.Win.Highlight(); ok {
		t.Error("highlight not cleared")
	}
	if ed.Recorder.Recording() {
		t.Error("macro definition not cancelled")
	}
}

func TestStats(t *testing.T) {
	ed := ctxtest.New("")
	r := NewHandler().HandleAction(input.Action{Name: ActionStats}, ed.Context())
	if r.Status != handler.StatusNoOp {
		t.Errorf("without stats = %v", r.Status)
	}
	h := NewHandler(WithStats(func() string { return "12 dispatches" }))
	if r := h.HandleAction(input.Action{Name: ActionStats}, ed.Context()); r.Message != "12 dispatches" {
		t.Errorf("message = %q", r.Message)
	}
}
