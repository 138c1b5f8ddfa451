package handler_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/dshills/qemacs/internal/dispatcher/execctx"
	"github.com/dshills/qemacs/internal/dispatcher/handler"
	"github.com/dshills/qemacs/internal/input"
)

func TestSimple(t *testing.T) {
	called := false
	h := handler.NewSimple("test.action", func(action input.Action, ctx *execctx.Context) handler.Result {
		called = true
		return handler.Success()
	})
	h.Prio = 50

	if !h.CanHandle("test.action") || h.CanHandle("test.other") {
		t.Error("CanHandle should match the exact name only")
	}
	if h.Priority() != 50 {
		t.Errorf("priority = %d", h.Priority())
	}
	if r := h.Handle(input.Action{Name: "test.action"}, execctx.New(nil)); !r.IsOK() || !called {
		t.Errorf("result = %+v called = %v", r, called)
	}

	empty := &handler.Simple{ActionName: "x"}
	if r := empty.Handle(input.Action{Name: "x"}, execctx.New(nil)); !r.IsError() {
		t.Errorf("nil function should fail, got %v", r.Status)
	}
}

func TestBaseNamespaceHandler(t *testing.T) {
	ns := handler.NewBaseNamespaceHandler("test")
	ns.Register("test.b", func(input.Action, *execctx.Context) handler.Result {
		return handler.SuccessWithMessage("b")
	})
	ns.Register("test.a", func(input.Action, *execctx.Context) handler.Result {
		return handler.NoOp()
	})

	if ns.Namespace() != "test" {
		t.Errorf("namespace = %q", ns.Namespace())
	}
	if !ns.CanHandle("test.a") || ns.CanHandle("test.c") {
		t.Error("CanHandle")
	}
	if got := ns.Actions(); !reflect.DeepEqual(got, []string{"test.a", "test.b"}) {
		t.Errorf("Actions = %v", got)
	}
	if r := ns.HandleAction(input.Action{Name: "test.b"}, execctx.New(nil)); r.Message != "b" {
		t.Errorf("message = %q", r.Message)
	}
	if r := ns.HandleAction(input.Action{Name: "test.c"}, execctx.New(nil)); !r.IsError() {
		t.Errorf("unknown action should fail, got %v", r.Status)
	}

	h := handler.AsHandler(ns)
	if h.Priority() != 0 || !h.CanHandle("test.b") {
		t.Error("adapter")
	}
	if r := h.Handle(input.Action{Name: "test.a"}, execctx.New(nil)); r.Status != handler.StatusNoOp {
		t.Errorf("adapter status = %v", r.Status)
	}
}

func TestResults(t *testing.T) {
	tests := []struct {
		name   string
		r      handler.Result
		status handler.ResultStatus
		text   string
	}{
		{"success", handler.Success(), handler.StatusOK, ""},
		{"message", handler.SuccessWithMessage("Mark set"), handler.StatusOK, "Mark set"},
		{"noop", handler.NoOpWithMessage("End of buffer"), handler.StatusNoOp, "End of buffer"},
		{"error", handler.Error(errors.New("boom")), handler.StatusError, "boom"},
		{"errorf", handler.Errorf("bad %d", 3), handler.StatusError, "bad 3"},
		{"error with message", handler.Error(errors.New("denied")).WithMessage("Saving"), handler.StatusError, "Saving: denied"},
		{"cancelled", handler.Cancelled(), handler.StatusCancelled, "Quit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.r.Status != tt.status {
				t.Errorf("status = %v, want %v", tt.r.Status, tt.status)
			}
			if tt.r.Text() != tt.text {
				t.Errorf("Text() = %q, want %q", tt.r.Text(), tt.text)
			}
		})
	}
}

func TestResultData(t *testing.T) {
	base := handler.Success().WithData("count", 3)
	derived := base.WithData("other", "x")
	if base.GetDataInt("count") != 3 || derived.GetDataInt("count") != 3 {
		t.Error("count lost")
	}
	if _, ok := base.GetData("other"); ok {
		t.Error("WithData modified the original result")
	}
	if handler.Success().GetDataInt("missing") != 0 {
		t.Error("missing key should read as 0")
	}
}

func TestStatusString(t *testing.T) {
	if handler.StatusCancelled.String() != "cancelled" || handler.ResultStatus(42).String() != "unknown" {
		t.Error("status names")
	}
}
