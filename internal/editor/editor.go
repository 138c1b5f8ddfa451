// Package editor holds the state every command runs against: the open
// buffers and their windows, the kill ring, the search memory, the mode
// registry and the dispatcher that turns keys into commands.
//
// State is built in two steps. New creates the empty state from a
// configuration and RegisterBuiltins installs the command handlers. The
// terminal front-end then feeds keys through FeedKey and draws Window.
package editor

import (
	"errors"
	"fmt"

	"github.com/dshills/qemacs/internal/config"
	"github.com/dshills/qemacs/internal/dispatcher"
	"github.com/dshills/qemacs/internal/dispatcher/execctx"
	"github.com/dshills/qemacs/internal/dispatcher/handlers/app"
	"github.com/dshills/qemacs/internal/dispatcher/handlers/cursor"
	edithandler "github.com/dshills/qemacs/internal/dispatcher/handlers/editor"
	"github.com/dshills/qemacs/internal/dispatcher/handlers/file"
	"github.com/dshills/qemacs/internal/dispatcher/handlers/isearch"
	macrohandler "github.com/dshills/qemacs/internal/dispatcher/handlers/macro"
	"github.com/dshills/qemacs/internal/dispatcher/handlers/mode"
	searchhandler "github.com/dshills/qemacs/internal/dispatcher/handlers/search"
	"github.com/dshills/qemacs/internal/dispatcher/handlers/view"
	"github.com/dshills/qemacs/internal/dispatcher/minibuffer"
	"github.com/dshills/qemacs/internal/engine/buffer"
	"github.com/dshills/qemacs/internal/engine/search"
	"github.com/dshills/qemacs/internal/input/key"
	"github.com/dshills/qemacs/internal/input/keymap"
	"github.com/dshills/qemacs/internal/input/macro"
	"github.com/dshills/qemacs/internal/logging"
	"github.com/dshills/qemacs/internal/renderer/highlight"
	"github.com/dshills/qemacs/internal/renderer/window"
	"github.com/dshills/qemacs/internal/script"
)

// State is the editor state. It is owned by the event goroutine and is
// not safe for concurrent use.
type State struct {
	cfg    *config.Config
	logger *logging.Logger

	modes  *highlight.Registry
	script *script.State

	disp     *dispatcher.Dispatcher
	recorder *macro.Recorder
	history  *minibuffer.History

	// views holds one window per open buffer, in visiting order. The
	// selected one is views[cur].
	views []*window.Window
	cur   int

	width, height int

	kills *KillRing
	clip  Clipboard
	last  isearch.Last
	flags search.Flags

	message string
	abort   func() bool
	quit    bool
}

// Option configures a State.
type Option func(*State)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *State) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClipboard replaces the desktop clipboard.
func WithClipboard(c Clipboard) Option {
	return func(s *State) { s.clip = c }
}

// WithAbort sets the function long scans poll to learn that the user
// pressed C-g.
func WithAbort(fn func() bool) Option {
	return func(s *State) { s.abort = fn }
}

// WithSize sets the text area of the windows.
func WithSize(width, height int) Option {
	return func(s *State) {
		s.width = max(width, 1)
		s.height = max(height, 1)
	}
}

// WithModes replaces the built-in mode registry.
func WithModes(r *highlight.Registry) Option {
	return func(s *State) { s.modes = r }
}

// New creates an editor with a *scratch* buffer. A nil cfg selects the
// defaults.
func New(cfg *config.Config, opts ...Option) *State {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &State{
		cfg:     cfg,
		logger:  logging.NullLogger,
		history: minibuffer.NewHistory(minibuffer.DefaultHistorySize),
		width:   window.DefaultWidth,
		height:  window.DefaultHeight,
		kills:   NewKillRing(DefaultKillRingSize),
		flags:   cfg.SearchFlags(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.modes == nil {
		s.modes = highlight.DefaultRegistry()
	}
	if s.clip == nil {
		s.clip = DefaultClipboard()
	}
	s.logger = s.logger.WithComponent("editor")

	s.recorder = macro.NewRecorder()
	s.disp = dispatcher.New(
		dispatcher.DefaultConfig().WithMetrics(),
		dispatcher.WithEditor(s),
		dispatcher.WithKeymap(keymap.Default()),
		dispatcher.WithRecorder(s.recorder),
		dispatcher.WithLogger(s.logger.WithComponent("dispatcher")),
	)

	s.addView(buffer.New(cfg.BufferOptions()...), highlight.TextMode)
	return s
}

// RegisterBuiltins installs the command handlers.
func (s *State) RegisterBuiltins() {
	d := s.disp
	d.RegisterNamespace(cursor.NewHandler())
	d.RegisterNamespace(view.NewHandler())
	d.RegisterNamespace(edithandler.NewHandler())
	d.RegisterNamespace(file.NewHandler())
	d.RegisterNamespace(searchhandler.NewHandler())
	d.RegisterNamespace(macrohandler.NewHandler())
	d.RegisterNamespace(mode.NewHandler())
	d.RegisterNamespace(newBufferHandler(s))
	d.RegisterNamespace(app.NewHandler(app.WithStats(s.stats)))
}

// LoadModes runs the Lua mode scripts of the configured directory. The
// interpreter stays open for the colorizers the scripts define.
func (s *State) LoadModes() ([]string, error) {
	dir := s.cfg.Modes.ScriptDir
	if dir == "" {
		return nil, nil
	}
	if s.script == nil {
		s.script = script.New(script.WithLogger(s.logger.WithComponent("script")))
	}
	names, err := script.LoadModes(s.script, s.modes, dir)
	if len(names) > 0 {
		s.logger.Info("loaded modes %v from %s", names, dir)
	}
	return names, err
}

func (s *State) stats() string {
	if m := s.disp.Metrics(); m != nil {
		return m.Summary()
	}
	return ""
}

// Close releases every buffer and the script interpreter.
func (s *State) Close() error {
	var errs []error
	for _, w := range s.views {
		w.Close()
		if err := w.Buffer().Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", w.Buffer().Name(), err))
		}
	}
	s.views = nil
	if s.script != nil {
		s.script.Close()
		s.script = nil
	}
	return errors.Join(errs...)
}

// Config returns the active configuration.
func (s *State) Config() *config.Config { return s.cfg }

// SetConfig applies a reloaded configuration. Open buffers keep their
// charset and line ending; new buffers and searches use the new values.
func (s *State) SetConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	s.cfg = cfg
	s.flags = cfg.SearchFlags()
}

// Dispatcher returns the command dispatcher.
func (s *State) Dispatcher() *dispatcher.Dispatcher { return s.disp }

// Logger returns the editor logger.
func (s *State) Logger() *logging.Logger { return s.logger }

// Resize changes the text area of every window.
func (s *State) Resize(width, height int) {
	s.width, s.height = max(width, 1), max(height, 1)
	for _, w := range s.views {
		w.Resize(s.width, s.height)
	}
}

// Window returns the selected window.
func (s *State) Window() *window.Window {
	if len(s.views) == 0 {
		return nil
	}
	return s.views[s.cur]
}

// Message shows a line in the echo area. The text is also logged.
func (s *State) Message(format string, args ...any) {
	s.message = fmt.Sprintf(format, args...)
	s.logger.Debug("message: %s", s.message)
}

// Echo returns the current echo area message.
func (s *State) Echo() string { return s.message }

// ClearMessage empties the echo area.
func (s *State) ClearMessage() { s.message = "" }

// Prompt reads a line in the minibuffer.
func (s *State) Prompt(prompt, initial string, complete execctx.Completer, done func(string) error) {
	opts := []minibuffer.Option{
		minibuffer.WithHistory(s.history),
		minibuffer.WithReporter(func(msg string) { s.Message("%s", msg) }),
	}
	if complete != nil {
		opts = append(opts, minibuffer.WithCompleter(complete))
	}
	s.disp.PushModal(minibuffer.New(prompt, initial, done, opts...))
}

// PushModal routes keys to m until it finishes.
func (s *State) PushModal(m execctx.Modal) { s.disp.PushModal(m) }

// Modal returns the modal receiving keys, or nil.
func (s *State) Modal() execctx.Modal { return s.disp.Modal() }

// Kill stores text in the kill ring and copies the newest kill to the
// clipboard.
func (s *State) Kill(text string, appendKill bool) {
	s.kills.Push(text, appendKill)
	if err := s.clip.WriteText(s.kills.Current()); err != nil {
		s.logger.Debug("clipboard write: %v", err)
	}
}

// Yank returns the most recent kill.
func (s *State) Yank() string { return s.kills.Current() }

// Clipboard returns the clipboard isearch yanks from.
func (s *State) Clipboard() execctx.Clipboard { return s.clip }

// LastSearch is the memory shared by successive searches.
func (s *State) LastSearch() *isearch.Last { return &s.last }

// SearchFlags returns the default search flags.
func (s *State) SearchFlags() search.Flags { return s.flags }

// AbortPollBytes returns the configured scan poll interval.
func (s *State) AbortPollBytes() int { return s.cfg.Search.AbortPollBytes }

// Abort reports whether the user interrupted a long scan.
func (s *State) Abort() bool {
	if s.abort == nil {
		return false
	}
	return s.abort()
}

// Modes returns the mode registry.
func (s *State) Modes() *highlight.Registry { return s.modes }

// Commands lists the action names M-x can run.
func (s *State) Commands() []string { return s.disp.Commands() }

// Execute runs an action by name.
func (s *State) Execute(name string, count int) error { return s.disp.Execute(name, count) }

// FeedKey processes one key and reports whether the command it completed
// succeeded.
func (s *State) FeedKey(ev key.Event) bool {
	return !s.disp.HandleKey(ev).IsError()
}

// PendingKeys renders a partial key sequence for the echo area.
func (s *State) PendingKeys() string { return s.disp.PendingKeys() }

// Macro returns the keyboard macro recorder.
func (s *State) Macro() *macro.Recorder { return s.recorder }

// LastCommand is the action run before the current one.
func (s *State) LastCommand() string { return s.disp.LastCommand() }

// Quit asks the event loop to stop.
func (s *State) Quit() { s.quit = true }

// Quitting reports whether Quit was called.
func (s *State) Quitting() bool { return s.quit }

var _ execctx.Editor = (*State)(nil)
