// Package macro provides handlers for keyboard macro definition and
// playback.
package macro

import (
	"github.com/dshills/qemacs/internal/dispatcher/execctx"
	"github.com/dshills/qemacs/internal/dispatcher/handler"
	"github.com/dshills/qemacs/internal/input"
)

// Action names for macro operations.
const (
	ActionStart = "macro.start" // C-x (
	ActionEnd   = "macro.end"   // C-x )
	ActionCall  = "macro.call"  // C-x e
)

// Handler handles macro actions against the editor's recorder.
type Handler struct {
	*handler.BaseNamespaceHandler
}

// NewHandler creates a macro handler.
func NewHandler() *Handler {
	h := &Handler{BaseNamespaceHandler: handler.NewBaseNamespaceHandler("macro")}
	h.Register(ActionStart, h.start)
	h.Register(ActionEnd, h.end)
	h.Register(ActionCall, h.call)
	return h
}

func (h *Handler) start(_ input.Action, ctx *execctx.Context) handler.Result {
	if ctx.Editor == nil || ctx.Editor.Macro() == nil {
		return handler.Error(execctx.ErrMissingEditor)
	}
	if err := ctx.Editor.Macro().Start(); err != nil {
		return handler.Error(err)
	}
	return handler.SuccessWithMessage("Defining kbd macro...")
}

// end stops the definition. The keys that invoked it were recorded too
// and are trimmed off.
func (h *Handler) end(action input.Action, ctx *execctx.Context) handler.Result {
	if ctx.Editor == nil || ctx.Editor.Macro() == nil {
		return handler.Error(execctx.ErrMissingEditor)
	}
	seq, err := ctx.Editor.Macro().Stop(len(action.Keys))
	if err != nil {
		return handler.Error(err)
	}
	return handler.SuccessWithMessage("Keyboard macro defined").WithData("keys", seq.String())
}

// call replays the last macro count times. Playback stops at the first
// key whose command fails.
func (h *Handler) call(_ input.Action, ctx *execctx.Context) handler.Result {
	if ctx.Editor == nil || ctx.Editor.Macro() == nil {
		return handler.Error(execctx.ErrMissingEditor)
	}
	ed := ctx.Editor
	if err := ed.Macro().Play(ctx.GetCount(), ed.FeedKey); err != nil {
		return handler.Error(err)
	}
	return handler.Success()
}
