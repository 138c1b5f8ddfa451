// Package editor provides handlers for text editing: self insertion,
// deletion, the kill ring, the mark, undo and M-x.
//
// All editing actions take the numeric argument as a repeat count and
// fail with execctx.ErrReadOnly on read-only buffers.
package editor

import (
	"strconv"

	"github.com/dshills/qemacs/internal/dispatcher/execctx"
	"github.com/dshills/qemacs/internal/dispatcher/handler"
	"github.com/dshills/qemacs/internal/dispatcher/minibuffer"
	"github.com/dshills/qemacs/internal/input"
)

// Action names for editing operations.
const (
	ActionInsertChar     = "editor.insertChar"
	ActionInsertText     = "editor.insertText"
	ActionInsertTab      = "editor.insertTab"
	ActionNewline        = "editor.newline"
	ActionOpenLine       = "editor.openLine"
	ActionQuotedInsert   = "editor.quotedInsert"
	ActionDeleteChar     = "editor.deleteChar"
	ActionDeleteBackward = "editor.deleteBackward"
	ActionKillLine       = "editor.killLine"
	ActionKillRegion     = "editor.killRegion"
	ActionCopyRegion     = "editor.copyRegion"
	ActionYank           = "editor.yank"
	ActionSetMark        = "editor.setMark"
	ActionExchange       = "editor.exchangePointAndMark"
	ActionUndo           = "editor.undo"
	ActionRedo           = "editor.redo"
	ActionExecute        = "editor.executeCommand"
)

// Handler handles editing actions.
type Handler struct {
	*handler.BaseNamespaceHandler
}

// NewHandler creates an editor handler.
func NewHandler() *Handler {
	h := &Handler{BaseNamespaceHandler: handler.NewBaseNamespaceHandler("editor")}
	h.registerInsert()
	h.registerKill()
	h.registerUndo()
	h.Register(ActionSetMark, h.setMark)
	h.Register(ActionExchange, h.exchange)
	h.Register(ActionExecute, h.executeCommand)
	return h
}

func (h *Handler) setMark(_ input.Action, ctx *execctx.Context) handler.Result {
	if err := ctx.Validate(); err != nil {
		return handler.Error(err)
	}
	ctx.Window.SetMark(ctx.Window.Point())
	return handler.SuccessWithMessage("Mark set")
}

func (h *Handler) exchange(_ input.Action, ctx *execctx.Context) handler.Result {
	if err := ctx.Validate(); err != nil {
		return handler.Error(err)
	}
	w := ctx.Window
	mark := w.Mark()
	w.SetMark(w.Point())
	w.SetPoint(mark)
	return handler.Success()
}

// executeCommand reads a command name with completion and runs it with
// the numeric argument M-x was given.
func (h *Handler) executeCommand(_ input.Action, ctx *execctx.Context) handler.Result {
	if ctx.Editor == nil {
		return handler.Error(execctx.ErrMissingEditor)
	}
	ed := ctx.Editor
	count := 0
	if ctx.Raw {
		count = ctx.Count
	}
	prompt := "M-x "
	if count > 0 {
		prompt = "C-u " + strconv.Itoa(count) + " M-x "
	}
	ed.Prompt(prompt, "", minibuffer.Prefix(ed.Commands), func(name string) error {
		if name == "" {
			return nil
		}
		return ed.Execute(name, count)
	})
	return handler.Success()
}
