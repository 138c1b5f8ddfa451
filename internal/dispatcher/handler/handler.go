// Package handler provides the handler interface and types for action dispatch.
package handler

import (
	"sort"

	"github.com/dshills/qemacs/internal/dispatcher/execctx"
	"github.com/dshills/qemacs/internal/input"
)

// Func is the signature of a single action implementation.
type Func func(action input.Action, ctx *execctx.Context) Result

// Handler processes one action or a set of actions.
type Handler interface {
	Handle(action input.Action, ctx *execctx.Context) Result

	// CanHandle reports whether this handler serves the action.
	CanHandle(actionName string) bool

	// Priority orders handlers registered for the same name, highest first.
	Priority() int
}

// Simple binds one action name to a function.
type Simple struct {
	ActionName string
	Fn         Func
	Prio       int
}

// NewSimple creates a handler for a single action.
func NewSimple(name string, fn Func) *Simple {
	return &Simple{ActionName: name, Fn: fn}
}

// Handle implements Handler.
func (h *Simple) Handle(action input.Action, ctx *execctx.Context) Result {
	if h.Fn == nil {
		return Errorf("handler for %s has no function", h.ActionName)
	}
	return h.Fn(action, ctx)
}

// CanHandle implements Handler.
func (h *Simple) CanHandle(actionName string) bool { return actionName == h.ActionName }

// Priority implements Handler.
func (h *Simple) Priority() int { return h.Prio }

// NamespaceHandler handles the actions of one namespace, the prefix
// before the first dot ("cursor" in "cursor.nextLine").
type NamespaceHandler interface {
	HandleAction(action input.Action, ctx *execctx.Context) Result
	CanHandle(actionName string) bool
	Namespace() string
}

// Lister is implemented by namespace handlers that can enumerate their
// actions, which makes them reachable from M-x.
type Lister interface {
	Actions() []string
}

// AsHandler adapts a NamespaceHandler to Handler with priority 0.
func AsHandler(h NamespaceHandler) Handler { return namespaceAdapter{h} }

type namespaceAdapter struct{ h NamespaceHandler }

func (a namespaceAdapter) Handle(action input.Action, ctx *execctx.Context) Result {
	return a.h.HandleAction(action, ctx)
}

func (a namespaceAdapter) CanHandle(actionName string) bool { return a.h.CanHandle(actionName) }
func (a namespaceAdapter) Priority() int                    { return 0 }

// BaseNamespaceHandler implements NamespaceHandler over a table of
// functions. Handler packages embed it and Register their actions.
type BaseNamespaceHandler struct {
	namespace string
	actions   map[string]Func
}

// NewBaseNamespaceHandler creates an empty namespace.
func NewBaseNamespaceHandler(namespace string) *BaseNamespaceHandler {
	return &BaseNamespaceHandler{namespace: namespace, actions: make(map[string]Func)}
}

// Register adds or replaces the function for a full action name.
func (h *BaseNamespaceHandler) Register(actionName string, fn Func) {
	h.actions[actionName] = fn
}

// Namespace implements NamespaceHandler.
func (h *BaseNamespaceHandler) Namespace() string { return h.namespace }

// CanHandle implements NamespaceHandler.
func (h *BaseNamespaceHandler) CanHandle(actionName string) bool {
	_, ok := h.actions[actionName]
	return ok
}

// HandleAction implements NamespaceHandler.
func (h *BaseNamespaceHandler) HandleAction(action input.Action, ctx *execctx.Context) Result {
	fn, ok := h.actions[action.Name]
	if !ok {
		return Errorf("unknown action in namespace %s: %s", h.namespace, action.Name)
	}
	return fn(action, ctx)
}

// Actions implements Lister.
func (h *BaseNamespaceHandler) Actions() []string {
	names := make([]string, 0, len(h.actions))
	for name := range h.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
