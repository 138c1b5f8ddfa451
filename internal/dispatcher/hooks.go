package dispatcher

import (
	"github.com/dshills/qemacs/internal/dispatcher/execctx"
	"github.com/dshills/qemacs/internal/dispatcher/handler"
	"github.com/dshills/qemacs/internal/input"
)

// PreDispatchHook is called before an action runs. Returning false cancels
// the dispatch.
type PreDispatchHook interface {
	PreDispatch(action *input.Action, ctx *execctx.Context) bool
}

// PostDispatchHook is called after an action ran.
type PostDispatchHook interface {
	PostDispatch(action input.Action, ctx *execctx.Context, result handler.Result)
}

// PreDispatchFunc is a function adapter for PreDispatchHook.
type PreDispatchFunc func(action *input.Action, ctx *execctx.Context) bool

// PreDispatch implements PreDispatchHook.
func (f PreDispatchFunc) PreDispatch(action *input.Action, ctx *execctx.Context) bool {
	return f(action, ctx)
}

// PostDispatchFunc is a function adapter for PostDispatchHook.
type PostDispatchFunc func(action input.Action, ctx *execctx.Context, result handler.Result)

// PostDispatch implements PostDispatchHook.
func (f PostDispatchFunc) PostDispatch(action input.Action, ctx *execctx.Context, result handler.Result) {
	f(action, ctx, result)
}

// AddPreHook registers a pre-dispatch hook.
func (d *Dispatcher) AddPreHook(h PreDispatchHook) { d.preHooks = append(d.preHooks, h) }

// AddPostHook registers a post-dispatch hook.
func (d *Dispatcher) AddPostHook(h PostDispatchHook) { d.postHooks = append(d.postHooks, h) }

func (d *Dispatcher) runPreHooks(action *input.Action, ctx *execctx.Context) bool {
	for _, h := range d.preHooks {
		if !h.PreDispatch(action, ctx) {
			return false
		}
	}
	return true
}

func (d *Dispatcher) runPostHooks(action input.Action, ctx *execctx.Context, result handler.Result) {
	for _, h := range d.postHooks {
		h.PostDispatch(action, ctx, result)
	}
}
