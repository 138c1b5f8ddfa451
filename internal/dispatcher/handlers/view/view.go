// Package view provides handlers for scrolling the selected window.
package view

import (
	"github.com/dshills/qemacs/internal/dispatcher/execctx"
	"github.com/dshills/qemacs/internal/dispatcher/handler"
	"github.com/dshills/qemacs/internal/input"
)

// Action names for view operations.
const (
	ActionPageDown = "view.pageDown"
	ActionPageUp   = "view.pageUp"
	ActionRecenter = "view.recenter"
)

// Handler handles view actions.
type Handler struct {
	*handler.BaseNamespaceHandler
}

// NewHandler creates a view handler.
func NewHandler() *Handler {
	h := &Handler{BaseNamespaceHandler: handler.NewBaseNamespaceHandler("view")}
	h.Register(ActionPageDown, h.pageDown)
	h.Register(ActionPageUp, h.pageUp)
	h.Register(ActionRecenter, h.recenter)
	return h
}

func (h *Handler) pageDown(_ input.Action, ctx *execctx.Context) handler.Result {
	if err := ctx.Validate(); err != nil {
		return handler.Error(err)
	}
	w := ctx.Window
	before := w.TopLine()
	for i, n := 0, ctx.GetCount(); i < n; i++ {
		w.PageDown()
	}
	if w.TopLine() == before {
		return handler.NoOpWithMessage("End of buffer")
	}
	return handler.Success()
}

func (h *Handler) pageUp(_ input.Action, ctx *execctx.Context) handler.Result {
	if err := ctx.Validate(); err != nil {
		return handler.Error(err)
	}
	w := ctx.Window
	before := w.TopLine()
	for i, n := 0, ctx.GetCount(); i < n; i++ {
		w.PageUp()
	}
	if w.TopLine() == before {
		return handler.NoOpWithMessage("Beginning of buffer")
	}
	return handler.Success()
}

// recenter puts the point line in the middle of the window, or on screen
// line n with a numeric argument.
func (h *Handler) recenter(_ input.Action, ctx *execctx.Context) handler.Result {
	if err := ctx.Validate(); err != nil {
		return handler.Error(err)
	}
	w := ctx.Window
	_, height := w.Size()
	row := height / 2
	if ctx.Raw {
		row = min(ctx.Count, height-1)
	}
	line := w.Buffer().LineOf(w.Point())
	w.SetTopLine(max(line-row, 0))
	return handler.Success()
}
