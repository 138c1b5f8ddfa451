// Package execctx provides the execution context for action handlers.
package execctx

import (
	"github.com/dshills/qemacs/internal/dispatcher/handlers/isearch"
	"github.com/dshills/qemacs/internal/engine/buffer"
	"github.com/dshills/qemacs/internal/engine/search"
	"github.com/dshills/qemacs/internal/input/key"
	"github.com/dshills/qemacs/internal/input/macro"
	"github.com/dshills/qemacs/internal/logging"
	"github.com/dshills/qemacs/internal/renderer/highlight"
	"github.com/dshills/qemacs/internal/renderer/window"
)

// Clipboard reads the system clipboard.
type Clipboard interface {
	ReadText() (string, error)
}

// Completer returns the candidates extending a minibuffer input.
type Completer func(input string) []string

// Editor is the editor state seen by handlers.
type Editor interface {
	// Window returns the selected window.
	Window() *window.Window

	// Message shows a line in the echo area.
	Message(format string, args ...any)

	// Prompt reads a line in the minibuffer and calls done with it.
	// An error returned by done is shown as a message.
	Prompt(prompt, initial string, complete Completer, done func(string) error)

	// PushModal routes keys to m until it reports completion.
	PushModal(m Modal)

	// Kill stores text in the kill ring, appending to the last kill
	// when appendKill is set.
	Kill(text string, appendKill bool)
	// Yank returns the most recent kill.
	Yank() string
	Clipboard() Clipboard

	// LastSearch is the memory shared by successive searches.
	LastSearch() *isearch.Last
	// SearchFlags returns the configured default search flags.
	SearchFlags() search.Flags
	// AbortPollBytes is how many bytes a scan covers between Abort
	// polls. Zero selects the default.
	AbortPollBytes() int
	// Abort reports whether the user asked to interrupt a long scan.
	Abort() bool

	OpenFile(path string) error
	// SaveBuffer writes b to path, or to its own filename when path is "".
	SaveBuffer(b *buffer.Buffer, path string) error

	Modes() *highlight.Registry

	// Commands lists the action names M-x can run.
	Commands() []string
	// Execute runs an action by name.
	Execute(name string, count int) error
	// FeedKey processes one key as if typed.
	FeedKey(ev key.Event) bool
	Macro() *macro.Recorder
	// LastCommand is the action run before the current one.
	LastCommand() string

	Quit()
}

// Context carries the state an action runs against.
type Context struct {
	Editor Editor
	Window *window.Window
	Buffer *buffer.Buffer

	// Count is the numeric argument, 1 when none was given.
	Count int

	// Raw reports whether a numeric argument was typed.
	Raw bool

	Logger *logging.Logger

	data map[string]any
}

// New creates a context for the editor's selected window.
func New(ed Editor) *Context {
	ctx := &Context{Editor: ed, Count: 1, Logger: logging.NullLogger}
	if ed != nil {
		if w := ed.Window(); w != nil {
			ctx.Window = w
			ctx.Buffer = w.Buffer()
		}
	}
	return ctx
}

// WithCount sets the numeric argument.
func (ctx *Context) WithCount(n int) *Context {
	if n > 0 {
		ctx.Count = n
		ctx.Raw = true
	}
	return ctx
}

// WithLogger sets the logger.
func (ctx *Context) WithLogger(l *logging.Logger) *Context {
	if l != nil {
		ctx.Logger = l
	}
	return ctx
}

// GetCount returns the numeric argument, at least 1.
func (ctx *Context) GetCount() int {
	return max(ctx.Count, 1)
}

// Validate checks that a window is selected.
func (ctx *Context) Validate() error {
	if ctx.Editor == nil {
		return ErrMissingEditor
	}
	if ctx.Window == nil || ctx.Buffer == nil {
		return ErrMissingWindow
	}
	return nil
}

// ValidateForEdit checks that the buffer can be modified.
func (ctx *Context) ValidateForEdit() error {
	if err := ctx.Validate(); err != nil {
		return err
	}
	if ctx.Buffer.ReadOnly() {
		return ErrReadOnly
	}
	return nil
}

// Region returns the ordered bounds between point and mark.
func (ctx *Context) Region() (start, end int) {
	p, m := ctx.Window.Point(), ctx.Buffer.Mark()
	if p > m {
		p, m = m, p
	}
	return p, m
}

// SetData stores a value for later handlers in the same dispatch.
func (ctx *Context) SetData(key string, value any) {
	if ctx.data == nil {
		ctx.data = make(map[string]any)
	}
	ctx.data[key] = value
}

// GetData returns a stored value.
func (ctx *Context) GetData(key string) (any, bool) {
	v, ok := ctx.data[key]
	return v, ok
}

// GetDataString returns a stored string or "".
func (ctx *Context) GetDataString(key string) string {
	if v, ok := ctx.GetData(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
