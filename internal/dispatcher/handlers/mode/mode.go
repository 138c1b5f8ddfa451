// Package mode provides handlers for choosing the coloring mode of the
// selected window.
package mode

import (
	"fmt"

	"github.com/dshills/qemacs/internal/dispatcher/execctx"
	"github.com/dshills/qemacs/internal/dispatcher/handler"
	"github.com/dshills/qemacs/internal/dispatcher/minibuffer"
	"github.com/dshills/qemacs/internal/input"
)

// Action names for mode operations.
const (
	ActionSet      = "mode.set"      // read a mode name and switch to it
	ActionAuto     = "mode.auto"     // pick the mode from the file name
	ActionDescribe = "mode.describe" // show the current mode
)

// Handler handles mode switching.
type Handler struct {
	*handler.BaseNamespaceHandler
}

// NewHandler creates a mode handler.
func NewHandler() *Handler {
	h := &Handler{BaseNamespaceHandler: handler.NewBaseNamespaceHandler("mode")}
	h.Register(ActionSet, h.set)
	h.Register(ActionAuto, h.auto)
	h.Register(ActionDescribe, h.describe)
	return h
}

func (h *Handler) set(action input.Action, ctx *execctx.Context) handler.Result {
	if err := ctx.Validate(); err != nil {
		return handler.Error(err)
	}
	modes := ctx.Editor.Modes()
	if modes == nil {
		return handler.Errorf("no modes registered")
	}
	apply := func(name string) error {
		m, ok := modes.ByName(name)
		if !ok {
			return fmt.Errorf("unknown mode %q", name)
		}
		ctx.Window.SetMode(m)
		ctx.Editor.Message("Mode: %s", m.Name)
		return nil
	}
	if action.Args.Text != "" {
		if err := apply(action.Args.Text); err != nil {
			return handler.Error(err)
		}
		return handler.Success()
	}
	ctx.Editor.Prompt("Mode: ", "", minibuffer.Prefix(modes.Names), apply)
	return handler.Success()
}

func (h *Handler) auto(_ input.Action, ctx *execctx.Context) handler.Result {
	if err := ctx.Validate(); err != nil {
		return handler.Error(err)
	}
	modes := ctx.Editor.Modes()
	if modes == nil {
		return handler.Errorf("no modes registered")
	}
	m := modes.ForFile(ctx.Buffer.Filename())
	if m == nil {
		return handler.NoOp()
	}
	ctx.Window.SetMode(m)
	return handler.SuccessWithMessage("Mode: " + m.Name)
}

func (h *Handler) describe(_ input.Action, ctx *execctx.Context) handler.Result {
	if err := ctx.Validate(); err != nil {
		return handler.Error(err)
	}
	m := ctx.Window.Mode()
	if m == nil {
		return handler.SuccessWithMessage("No mode")
	}
	return handler.SuccessWithMessage(fmt.Sprintf("Mode: %s (extensions %v)", m.Name, m.Extensions))
}
