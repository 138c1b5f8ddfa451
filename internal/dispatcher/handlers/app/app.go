// Package app provides handlers for editor-wide commands: quitting,
// cancelling and reporting.
package app

import (
	"github.com/dshills/qemacs/internal/dispatcher/execctx"
	"github.com/dshills/qemacs/internal/dispatcher/handler"
	"github.com/dshills/qemacs/internal/input"
)

// Action names for application commands.
const (
	ActionQuit   = "app.quit"   // C-x C-c
	ActionCancel = "app.cancel" // C-g
	ActionStats  = "app.stats"
)

// Handler handles application actions.
type Handler struct {
	*handler.BaseNamespaceHandler

	stats func() string
}

// Option configures a Handler.
type Option func(*Handler)

// WithStats supplies the text shown by app.stats.
func WithStats(fn func() string) Option {
	return func(h *Handler) { h.stats = fn }
}

// NewHandler creates an application handler.
func NewHandler(opts ...Option) *Handler {
	h := &Handler{BaseNamespaceHandler: handler.NewBaseNamespaceHandler("app")}
	for _, opt := range opts {
		opt(h)
	}
	h.Register(ActionQuit, h.quit)
	h.Register(ActionCancel, h.cancel)
	h.Register(ActionStats, h.showStats)
	return h
}

func (h *Handler) quit(_ input.Action, ctx *execctx.Context) handler.Result {
	if ctx.Editor == nil {
		return handler.Error(execctx.ErrMissingEditor)
	}
	ctx.Editor.Quit()
	return handler.Success()
}

// cancel clears transient state: the search highlight and any macro
// being defined.
func (h *Handler) cancel(_ input.Action, ctx *execctx.Context) handler.Result {
	if ctx.Window != nil {
		ctx.Window.ClearHighlight()
	}
	if ctx.Editor != nil {
		if rec := ctx.Editor.Macro(); rec != nil && rec.Recording() {
			rec.Cancel()
		}
	}
	return handler.Cancelled()
}

func (h *Handler) showStats(_ input.Action, _ *execctx.Context) handler.Result {
	if h.stats == nil {
		return handler.NoOpWithMessage("Statistics are disabled")
	}
	return handler.SuccessWithMessage(h.stats())
}
