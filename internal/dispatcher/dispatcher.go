// Package dispatcher routes actions to handlers and coordinates execution.
//
// Keys enter through HandleKey. The top modal (minibuffer, incremental
// search, query replace) sees them first; otherwise they are collected
// until the keymap resolves them to an action, which Dispatch runs through
// the exact-name registry or the namespace router.
package dispatcher

import (
	"fmt"
	"runtime"
	"slices"
	"time"

	"github.com/dshills/qemacs/internal/dispatcher/execctx"
	"github.com/dshills/qemacs/internal/dispatcher/handler"
	"github.com/dshills/qemacs/internal/input"
	"github.com/dshills/qemacs/internal/input/key"
	"github.com/dshills/qemacs/internal/input/keymap"
	"github.com/dshills/qemacs/internal/input/macro"
	"github.com/dshills/qemacs/internal/logging"
)

// Dispatcher routes actions to handlers and coordinates execution. It runs
// on the editor's single event goroutine and is not safe for concurrent use.
type Dispatcher struct {
	registry *Registry
	router   *Router
	keymap   *keymap.Keymap
	editor   execctx.Editor
	recorder *macro.Recorder

	config  Config
	metrics *Metrics
	logger  *logging.Logger

	preHooks  []PreDispatchHook
	postHooks []PostDispatchHook

	// Key loop state.
	pending key.Sequence
	meta    bool
	arg     argument
	modals  []execctx.Modal

	last string
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithEditor sets the editor handlers run against.
func WithEditor(ed execctx.Editor) Option {
	return func(d *Dispatcher) { d.editor = ed }
}

// WithKeymap sets the global keymap.
func WithKeymap(km *keymap.Keymap) Option {
	return func(d *Dispatcher) { d.keymap = km }
}

// WithRecorder records every key for keyboard macros.
func WithRecorder(r *macro.Recorder) Option {
	return func(d *Dispatcher) { d.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// New creates a new dispatcher with the given configuration.
func New(config Config, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: NewRegistry(),
		router:   NewRouter(),
		keymap:   keymap.New("global"),
		config:   config,
		logger:   logging.NullLogger,
	}
	for _, opt := range opts {
		opt(d)
	}
	if config.EnableMetrics {
		d.metrics = NewMetrics()
	}
	return d
}

// NewWithDefaults creates a new dispatcher with default configuration.
func NewWithDefaults(opts ...Option) *Dispatcher {
	return New(DefaultConfig(), opts...)
}

// SetEditor sets the editor after construction, for editors that own
// their dispatcher.
func (d *Dispatcher) SetEditor(ed execctx.Editor) { d.editor = ed }

// Dispatch executes an action synchronously and reports its result to
// the editor.
func (d *Dispatcher) Dispatch(action input.Action) handler.Result {
	start := time.Now()
	if action.Name == "" {
		return d.report(action, handler.Error(ErrInvalidAction))
	}

	ctx := execctx.New(d.editor).
		WithCount(d.config.clampCount(action.Count)).
		WithLogger(d.logger.WithField("action", action.Name))

	if !d.runPreHooks(&action, ctx) {
		return handler.Cancelled()
	}

	h := d.registry.Get(action.Name)
	if h == nil {
		h = d.router.Route(action.Name)
	}
	if h == nil {
		return d.report(action, handler.Error(fmt.Errorf("%w: %s", ErrNoHandler, action.Name)))
	}

	var result handler.Result
	if d.config.RecoverFromPanic {
		result = d.executeWithRecovery(h, action, ctx)
	} else {
		result = h.Handle(action, ctx)
	}
	d.last = action.Name

	d.report(action, result)
	d.runPostHooks(action, ctx, result)

	if d.metrics != nil {
		d.metrics.RecordDispatch(action.Name, time.Since(start), result.Status)
	}
	return result
}

// Execute runs an action by name, as M-x does.
func (d *Dispatcher) Execute(name string, count int) error {
	r := d.Dispatch(input.Action{Name: name, Count: count, Source: input.SourceCommand})
	if r.IsError() {
		return r.Error
	}
	return nil
}

// executeWithRecovery executes a handler with panic recovery.
func (d *Dispatcher) executeWithRecovery(h handler.Handler, action input.Action, ctx *execctx.Context) (result handler.Result) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)
			d.logger.Error("panic in %s: %v\n%s", action.Name, r, stack[:n])
			result = handler.Error(fmt.Errorf("%w in %s: %v", ErrPanic, action.Name, r))
			if d.metrics != nil {
				d.metrics.RecordPanic(action.Name)
			}
		}
	}()
	return h.Handle(action, ctx)
}

// report shows a result's text in the echo area.
func (d *Dispatcher) report(action input.Action, r handler.Result) handler.Result {
	if r.IsError() {
		d.logger.Debug("%s failed: %v", action.Name, r.Error)
	}
	if text := r.Text(); text != "" && d.editor != nil {
		d.editor.Message("%s", text)
	}
	return r
}

// LastCommand returns the name of the most recent completed action. While
// a handler runs it is the action before it.
func (d *Dispatcher) LastCommand() string { return d.last }

// Commands lists every action reachable by name, sorted.
func (d *Dispatcher) Commands() []string {
	names := append(d.registry.List(), d.router.Actions()...)
	slices.Sort(names)
	return slices.Compact(names)
}

// RegisterHandler registers a handler for an exact action name.
func (d *Dispatcher) RegisterHandler(actionName string, h handler.Handler) {
	d.registry.Register(actionName, h)
}

// RegisterHandlerFunc registers a function for an action name.
func (d *Dispatcher) RegisterHandlerFunc(actionName string, fn handler.Func) {
	d.registry.Register(actionName, handler.NewSimple(actionName, fn))
}

// RegisterNamespace registers a namespace handler under its own namespace.
func (d *Dispatcher) RegisterNamespace(h handler.NamespaceHandler) {
	d.router.RegisterNamespace(h.Namespace(), h)
}

// Registry returns the handler registry.
func (d *Dispatcher) Registry() *Registry { return d.registry }

// Router returns the namespace router.
func (d *Dispatcher) Router() *Router { return d.router }

// Keymap returns the global keymap.
func (d *Dispatcher) Keymap() *keymap.Keymap { return d.keymap }

// Metrics returns the collector, or nil when metrics are disabled.
func (d *Dispatcher) Metrics() *Metrics { return d.metrics }

// Config returns the configuration.
func (d *Dispatcher) Config() Config { return d.config }
