package dispatcher

import (
	"sort"
	"strings"

	"github.com/dshills/qemacs/internal/dispatcher/handler"
)

// Router routes actions to namespace handlers by the prefix before the
// first dot.
type Router struct {
	namespaces map[string]handler.NamespaceHandler
	fallback   handler.Handler
}

// NewRouter creates a new action router.
func NewRouter() *Router {
	return &Router{namespaces: make(map[string]handler.NamespaceHandler)}
}

// RegisterNamespace registers a handler for all actions in a namespace.
func (r *Router) RegisterNamespace(namespace string, h handler.NamespaceHandler) {
	r.namespaces[namespace] = h
}

// UnregisterNamespace removes a namespace handler.
func (r *Router) UnregisterNamespace(namespace string) {
	delete(r.namespaces, namespace)
}

// SetFallback sets the handler for actions no namespace accepts.
func (r *Router) SetFallback(h handler.Handler) { r.fallback = h }

// Route finds the handler for an action, or nil.
func (r *Router) Route(actionName string) handler.Handler {
	if h, ok := r.namespaces[extractNamespace(actionName)]; ok && h.CanHandle(actionName) {
		return handler.AsHandler(h)
	}
	return r.fallback
}

// Namespaces returns the registered namespace names, sorted.
func (r *Router) Namespaces() []string {
	names := make([]string, 0, len(r.namespaces))
	for name := range r.namespaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Actions lists the actions of every namespace handler that can
// enumerate them.
func (r *Router) Actions() []string {
	var names []string
	for _, ns := range r.Namespaces() {
		if l, ok := r.namespaces[ns].(handler.Lister); ok {
			names = append(names, l.Actions()...)
		}
	}
	return names
}

// extractNamespace returns the part of "namespace.action" before the dot,
// or "" when there is none.
func extractNamespace(actionName string) string {
	ns, _, ok := strings.Cut(actionName, ".")
	if !ok {
		return ""
	}
	return ns
}
