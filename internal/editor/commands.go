package editor

import (
	"github.com/dshills/qemacs/internal/dispatcher/execctx"
	"github.com/dshills/qemacs/internal/dispatcher/handler"
	"github.com/dshills/qemacs/internal/dispatcher/minibuffer"
	"github.com/dshills/qemacs/internal/input"
)

// Action names for buffer operations.
const (
	ActionSwitchBuffer = "buffer.switch" // C-x b
	ActionKillBuffer   = "buffer.kill"   // C-x k
	ActionNextBuffer   = "buffer.next"
)

// bufferHandler runs the commands that choose among open buffers. They
// need the buffer list, which only State has.
type bufferHandler struct {
	*handler.BaseNamespaceHandler
	state *State
}

func newBufferHandler(s *State) *bufferHandler {
	h := &bufferHandler{BaseNamespaceHandler: handler.NewBaseNamespaceHandler("buffer"), state: s}
	h.Register(ActionSwitchBuffer, h.switchBuffer)
	h.Register(ActionKillBuffer, h.killBuffer)
	h.Register(ActionNextBuffer, h.nextBuffer)
	return h
}

// other returns the buffer C-x b offers by default: the one visited
// before the selected one.
func (h *bufferHandler) other() string {
	s := h.state
	if len(s.views) < 2 {
		return ""
	}
	i := s.cur - 1
	if i < 0 {
		i = len(s.views) - 1
	}
	return s.views[i].Buffer().Name()
}

func (h *bufferHandler) switchBuffer(action input.Action, ctx *execctx.Context) handler.Result {
	def := h.other()
	return ask(action, ctx, "Switch to buffer: ", def, minibuffer.Prefix(h.state.BufferNames), func(name string) error {
		if name == "" {
			name = def
		}
		if name == "" {
			return nil
		}
		return h.state.SwitchTo(name)
	})
}

func (h *bufferHandler) killBuffer(action input.Action, ctx *execctx.Context) handler.Result {
	current := ""
	if ctx.Buffer != nil {
		current = ctx.Buffer.Name()
	}
	return ask(action, ctx, "Kill buffer: ", current, minibuffer.Prefix(h.state.BufferNames), func(name string) error {
		if name == "" {
			name = current
		}
		return h.state.KillBuffer(name)
	})
}

func (h *bufferHandler) nextBuffer(_ input.Action, _ *execctx.Context) handler.Result {
	s := h.state
	if len(s.views) < 2 {
		return handler.NoOpWithMessage("No other buffer")
	}
	s.cur = (s.cur + 1) % len(s.views)
	return handler.Success()
}

// ask runs done on Args.Text when the action carries it and otherwise
// reads the value in the minibuffer.
func ask(action input.Action, ctx *execctx.Context, prompt, initial string, complete execctx.Completer, done func(string) error) handler.Result {
	if action.Args.Text != "" {
		if err := done(action.Args.Text); err != nil {
			return handler.Error(err)
		}
		return handler.Success()
	}
	ctx.Editor.Prompt(prompt, initial, complete, done)
	return handler.Success()
}
