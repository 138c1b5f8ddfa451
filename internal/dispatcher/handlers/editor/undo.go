package editor

import (
	"errors"

	"github.com/dshills/qemacs/internal/dispatcher/execctx"
	"github.com/dshills/qemacs/internal/dispatcher/handler"
	"github.com/dshills/qemacs/internal/engine/buffer"
	"github.com/dshills/qemacs/internal/engine/history"
	"github.com/dshills/qemacs/internal/input"
)

func (h *Handler) registerUndo() {
	h.Register(ActionUndo, func(_ input.Action, ctx *execctx.Context) handler.Result {
		return replay(ctx, (*buffer.Buffer).Undo, "Undo", "No further undo information")
	})
	h.Register(ActionRedo, func(_ input.Action, ctx *execctx.Context) handler.Result {
		return replay(ctx, (*buffer.Buffer).Redo, "Redo", "No further redo information")
	})
}

// replay runs count groups of undo or redo and leaves the point where the
// last replayed record touched the buffer.
func replay(ctx *execctx.Context, step func(*buffer.Buffer, int) (int, error), done, exhausted string) handler.Result {
	if err := ctx.ValidateForEdit(); err != nil {
		return handler.Error(err)
	}
	b := ctx.Buffer
	point := -1
	id := b.AddObserver(buffer.ObserverFunc(func(_ *buffer.Buffer, c buffer.Change) {
		switch c.Kind {
		case buffer.ChangeInsert, buffer.ChangeWrite:
			point = c.Offset + c.Inserted
		case buffer.ChangeDelete:
			point = c.Offset
		}
	}))
	defer b.RemoveObserver(id)

	n, err := step(b, ctx.GetCount())
	if point >= 0 {
		ctx.Window.SetPoint(point)
	}
	switch {
	case errors.Is(err, history.ErrNothingToUndo), errors.Is(err, history.ErrNothingToRedo):
		return handler.NoOpWithMessage(exhausted)
	case err != nil:
		return handler.Error(err)
	case n < ctx.GetCount():
		return handler.SuccessWithMessage(exhausted)
	}
	return handler.SuccessWithMessage(done)
}
