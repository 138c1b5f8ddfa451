package execctx_test

import (
	"errors"
	"testing"

	"github.com/dshills/qemacs/internal/dispatcher/execctx"
	"github.com/dshills/qemacs/internal/dispatcher/execctx/ctxtest"
	"github.com/dshills/qemacs/internal/engine/buffer"
)

func TestNew(t *testing.T) {
	ed := ctxtest.New("hello")
	ctx := execctx.New(ed)

	if ctx.Count != 1 || ctx.Raw {
		t.Errorf("count = %d raw = %v, want 1 false", ctx.Count, ctx.Raw)
	}
	if ctx.Window != ed.Win || ctx.Buffer != ed.Buffer() {
		t.Error("window and buffer not taken from the editor")
	}
	if err := ctx.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestWithCount(t *testing.T) {
	ctx := execctx.New(nil).WithCount(0)
	if ctx.GetCount() != 1 || ctx.Raw {
		t.Errorf("zero count: %d %v", ctx.GetCount(), ctx.Raw)
	}
	ctx.WithCount(16)
	if ctx.GetCount() != 16 || !ctx.Raw {
		t.Errorf("count = %d", ctx.GetCount())
	}
}

func TestValidate(t *testing.T) {
	if err := execctx.New(nil).Validate(); !errors.Is(err, execctx.ErrMissingEditor) {
		t.Errorf("nil editor: %v", err)
	}

	ed := ctxtest.New("x")
	ed.Win = nil
	if err := execctx.New(ed).ValidateForEdit(); !errors.Is(err, execctx.ErrMissingWindow) {
		t.Errorf("no window: %v", err)
	}

	ro := ctxtest.New("x", buffer.WithReadOnly())
	if err := ro.Context().ValidateForEdit(); !errors.Is(err, execctx.ErrReadOnly) {
		t.Errorf("read-only: %v", err)
	}
	if err := ro.Context().Validate(); err != nil {
		t.Errorf("read-only buffers can still be viewed: %v", err)
	}
}

func TestRegion(t *testing.T) {
	ed := ctxtest.New("hello world")
	ed.Win.SetPoint(8)
	ed.Buffer().SetMark(2)
	s, e := ed.Context().Region()
	if s != 2 || e != 8 {
		t.Errorf("region = %d..%d", s, e)
	}
}

func TestData(t *testing.T) {
	ctx := execctx.New(nil)
	if _, ok := ctx.GetData("k"); ok {
		t.Error("empty context has data")
	}
	ctx.SetData("k", "v")
	ctx.SetData("n", 3)
	if ctx.GetDataString("k") != "v" || ctx.GetDataString("n") != "" {
		t.Error("data not read back")
	}
}

func TestModalStatusString(t *testing.T) {
	if execctx.ModalRepost.String() != "repost" || execctx.ModalStatus(9).String() != "unknown" {
		t.Error("status names")
	}
}
