package editor

import (
	"strings"

	"github.com/dshills/qemacs/internal/dispatcher/execctx"
	"github.com/dshills/qemacs/internal/dispatcher/handler"
	"github.com/dshills/qemacs/internal/input"
	"github.com/dshills/qemacs/internal/input/key"
)

func (h *Handler) registerInsert() {
	h.Register(ActionInsertChar, h.insertChar)
	h.Register(ActionInsertText, h.insertText)
	h.Register(ActionInsertTab, func(_ input.Action, ctx *execctx.Context) handler.Result {
		return insert(ctx, strings.Repeat("\t", ctx.GetCount()), true)
	})
	h.Register(ActionNewline, func(_ input.Action, ctx *execctx.Context) handler.Result {
		return insert(ctx, strings.Repeat("\n", ctx.GetCount()), true)
	})
	h.Register(ActionOpenLine, func(_ input.Action, ctx *execctx.Context) handler.Result {
		return insert(ctx, strings.Repeat("\n", ctx.GetCount()), false)
	})
	h.Register(ActionQuotedInsert, h.quotedInsert)
	h.Register(ActionDeleteChar, h.deleteChar)
	h.Register(ActionDeleteBackward, h.deleteBackward)
}

// insert adds s at the point as one undo record. The point moves past
// the text when advance is set.
func insert(ctx *execctx.Context, s string, advance bool) handler.Result {
	if err := ctx.ValidateForEdit(); err != nil {
		return handler.Error(err)
	}
	if s == "" {
		return handler.NoOp()
	}
	off := ctx.Window.Point()
	n, err := ctx.Buffer.InsertText(off, s)
	if err != nil {
		return handler.Error(err)
	}
	if advance {
		ctx.Window.SetPoint(off + n)
	} else {
		ctx.Window.SetPoint(off)
	}
	return handler.Success()
}

func (h *Handler) insertChar(action input.Action, ctx *execctx.Context) handler.Result {
	s := action.Args.Text
	if action.Args.Rune != 0 {
		s = string(action.Args.Rune)
	}
	return insert(ctx, strings.Repeat(s, ctx.GetCount()), true)
}

func (h *Handler) insertText(action input.Action, ctx *execctx.Context) handler.Result {
	return insert(ctx, strings.Repeat(action.Args.Text, ctx.GetCount()), true)
}

// quotedInsert inserts the next key literally, control characters
// included.
func (h *Handler) quotedInsert(_ input.Action, ctx *execctx.Context) handler.Result {
	if err := ctx.ValidateForEdit(); err != nil {
		return handler.Error(err)
	}
	ctx.Editor.PushModal(execctx.ModalFunc{
		Text: "C-q-",
		Fn: func(ev key.Event) execctx.ModalStatus {
			r := ev.ControlRune()
			if r == 0 && ev.Key == key.KeyRune && ev.Modifiers&key.ModMeta == 0 {
				r = ev.Rune
			}
			if r == 0 {
				ctx.Editor.Message("%s cannot be inserted", ev)
				return execctx.ModalDone
			}
			if res := insert(ctx, strings.Repeat(string(r), ctx.GetCount()), true); res.IsError() {
				ctx.Editor.Message("%s", res.Text())
			}
			return execctx.ModalDone
		},
	})
	return handler.Success()
}

func (h *Handler) deleteChar(_ input.Action, ctx *execctx.Context) handler.Result {
	if err := ctx.ValidateForEdit(); err != nil {
		return handler.Error(err)
	}
	b := ctx.Buffer
	start := ctx.Window.Point()
	end := start
	for i, n := 0, ctx.GetCount(); i < n; i++ {
		if end >= b.Size() {
			break
		}
		_, end = b.NextChar(end)
	}
	if end == start {
		return handler.NoOpWithMessage("End of buffer")
	}
	return remove(ctx, start, end, ctx.Raw)
}

func (h *Handler) deleteBackward(_ input.Action, ctx *execctx.Context) handler.Result {
	if err := ctx.ValidateForEdit(); err != nil {
		return handler.Error(err)
	}
	b := ctx.Buffer
	end := ctx.Window.Point()
	start := end
	for i, n := 0, ctx.GetCount(); i < n; i++ {
		if start <= 0 {
			break
		}
		_, start = b.PrevChar(start)
	}
	if end == start {
		return handler.NoOpWithMessage("Beginning of buffer")
	}
	return remove(ctx, start, end, ctx.Raw)
}

// remove deletes [start, end) and leaves the point at start. With kill
// set the text goes to the kill ring.
func remove(ctx *execctx.Context, start, end int, kill bool) handler.Result {
	text := ""
	if kill {
		text = ctx.Buffer.TextRange(start, end)
	}
	if err := ctx.Buffer.Delete(start, end-start); err != nil {
		return handler.Error(err)
	}
	ctx.Window.SetPoint(start)
	if kill {
		ctx.Editor.Kill(text, false)
	}
	return handler.Success()
}
