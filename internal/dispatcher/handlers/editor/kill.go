package editor

import (
	"github.com/dshills/qemacs/internal/dispatcher/execctx"
	"github.com/dshills/qemacs/internal/dispatcher/handler"
	"github.com/dshills/qemacs/internal/input"
)

func (h *Handler) registerKill() {
	h.Register(ActionKillLine, h.killLine)
	h.Register(ActionKillRegion, h.killRegion)
	h.Register(ActionCopyRegion, h.copyRegion)
	h.Register(ActionYank, h.yank)
}

// appending reports whether a kill extends the previous one: consecutive
// kills accumulate into one ring entry.
func appending(ctx *execctx.Context) bool {
	switch ctx.Editor.LastCommand() {
	case ActionKillLine, ActionKillRegion, ActionCopyRegion:
		return true
	}
	return false
}

// killLine kills to the end of the line, or the line break itself when
// the point is already there. With a numeric argument it kills that many
// whole lines forward.
func (h *Handler) killLine(_ input.Action, ctx *execctx.Context) handler.Result {
	if err := ctx.ValidateForEdit(); err != nil {
		return handler.Error(err)
	}
	b := ctx.Buffer
	start := ctx.Window.Point()
	line := b.LineOf(start)

	var end int
	if ctx.Raw {
		end = b.LineStart(line + ctx.Count)
	} else {
		end = b.LineEnd(line)
		if end == start && start < b.Size() {
			_, end = b.NextChar(start)
		}
	}
	if end <= start {
		return handler.NoOpWithMessage("End of buffer")
	}
	return kill(ctx, start, end, true)
}

func (h *Handler) killRegion(_ input.Action, ctx *execctx.Context) handler.Result {
	if err := ctx.ValidateForEdit(); err != nil {
		return handler.Error(err)
	}
	start, end := ctx.Region()
	return kill(ctx, start, end, true)
}

func (h *Handler) copyRegion(_ input.Action, ctx *execctx.Context) handler.Result {
	if err := ctx.Validate(); err != nil {
		return handler.Error(err)
	}
	start, end := ctx.Region()
	return kill(ctx, start, end, false)
}

// kill copies [start, end) to the kill ring and deletes it when del is set.
func kill(ctx *execctx.Context, start, end int, del bool) handler.Result {
	text := ctx.Buffer.TextRange(start, end)
	if del && end > start {
		if err := ctx.Buffer.Delete(start, end-start); err != nil {
			return handler.Error(err)
		}
		ctx.Window.SetPoint(start)
	}
	ctx.Editor.Kill(text, appending(ctx))
	return handler.Success()
}

// yank inserts the newest kill at the point and sets the mark at its
// start.
func (h *Handler) yank(_ input.Action, ctx *execctx.Context) handler.Result {
	if err := ctx.ValidateForEdit(); err != nil {
		return handler.Error(err)
	}
	text := ctx.Editor.Yank()
	if text == "" {
		return handler.NoOpWithMessage("Kill ring is empty")
	}
	ctx.Window.SetMark(ctx.Window.Point())
	for i, n := 0, ctx.GetCount(); i < n; i++ {
		if r := insert(ctx, text, true); r.IsError() {
			return r
		}
	}
	return handler.Success()
}
