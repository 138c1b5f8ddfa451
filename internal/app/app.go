// Package app runs the editor in a terminal. It wires the configuration,
// the editor state, the renderer and the terminal backend together and
// owns the main event loop.
package app

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/dshills/qemacs/internal/config"
	"github.com/dshills/qemacs/internal/config/watcher"
	"github.com/dshills/qemacs/internal/editor"
	"github.com/dshills/qemacs/internal/logging"
	"github.com/dshills/qemacs/internal/renderer"
	"github.com/dshills/qemacs/internal/renderer/backend"
)

// Application is the running editor.
type Application struct {
	opts Options

	cfg     *config.Config
	logger  *logging.Logger
	logFile io.Closer

	editor   *editor.State
	theme    *renderer.Theme
	backend  backend.Backend
	renderer *renderer.Renderer
	watcher  *watcher.Watcher

	// events carries backend events from the reader goroutine, reloads
	// carries configuration reloads from the watcher.
	events  chan backend.Event
	reloads chan reload

	// interrupted is set by the reader goroutine as soon as it sees C-g,
	// so long scans on the event goroutine can stop early.
	interrupted atomic.Bool

	// errorShown draws the echo area with the error style.
	errorShown bool

	running   atomic.Bool
	done      chan struct{}
	stopOnce  sync.Once
	closeOnce sync.Once
}

// Options configures the application.
type Options struct {
	// ConfigPath is the configuration file. Empty uses the defaults and
	// the environment only.
	ConfigPath string

	// Files are visited on startup, the last one selected.
	Files []string

	// LogLevel overrides the configured log level.
	LogLevel string

	// ReadOnly opens Files read-only.
	ReadOnly bool

	// Backend replaces the terminal, for tests.
	Backend backend.Backend

	// Clipboard replaces the desktop clipboard, for tests.
	Clipboard editor.Clipboard
}

type reload struct {
	cfg *config.Config
	err error
}

// New loads the configuration and builds the editor. Files that fail to
// open are reported in the echo area rather than failing startup.
func New(opts Options) (*Application, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}
	logger, logFile, err := openLog(cfg, opts.LogLevel)
	if err != nil {
		return nil, &InitError{Component: "logging", Err: err}
	}

	app := &Application{
		opts:    opts,
		cfg:     cfg,
		logger:  logger.WithComponent("app"),
		logFile: logFile,
		backend: opts.Backend,
		events:  make(chan backend.Event, 64),
		reloads: make(chan reload, 1),
		done:    make(chan struct{}),
	}

	edOpts := []editor.Option{
		editor.WithLogger(logger),
		editor.WithAbort(app.interrupted.Load),
	}
	if opts.Clipboard != nil {
		edOpts = append(edOpts, editor.WithClipboard(opts.Clipboard))
	}
	app.editor = editor.New(cfg, edOpts...)
	app.editor.RegisterBuiltins()

	app.theme = renderer.DefaultTheme()
	if err := applyColors(app.theme, cfg.Colors); err != nil {
		app.logger.Warn("colors: %v", err)
	}
	app.bootstrap()
	return app, nil
}

// Run draws the editor and processes events until the user quits.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	select {
	case <-app.done:
		return ErrClosed
	default:
	}

	if app.backend == nil {
		term, err := backend.NewTerminal()
		if err != nil {
			return &InitError{Component: "terminal", Err: err}
		}
		app.backend = term
	}
	if err := app.backend.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer app.backend.Shutdown()

	app.renderer = renderer.New(app.backend,
		renderer.WithTheme(app.theme),
		renderer.WithTabWidth(app.cfg.Editor.TabWidth))
	app.resize(app.backend.Size())
	app.watchConfig()

	go app.readEvents()
	err := app.eventLoop()
	app.stop()
	if errors.Is(err, ErrQuit) {
		return nil
	}
	return err
}

// Shutdown makes Run return.
func (app *Application) Shutdown() {
	app.stop()
}

// stop ends the event loop and saves the session once.
func (app *Application) stop() {
	app.stopOnce.Do(func() {
		close(app.done)
		if app.watcher != nil {
			app.watcher.Close()
		}
		app.autosave()
	})
}

// Close stops the application and releases the buffers and the log.
func (app *Application) Close() error {
	app.stop()
	var err error
	app.closeOnce.Do(func() {
		errs := []error{app.editor.Close()}
		if app.logFile != nil {
			errs = append(errs, app.logFile.Close())
		}
		err = errors.Join(errs...)
	})
	return err
}

// IsRunning reports whether Run is in progress.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the active configuration.
func (app *Application) Config() *config.Config { return app.cfg }

// Editor returns the editor state.
func (app *Application) Editor() *editor.State { return app.editor }

// Renderer returns the renderer, nil before Run.
func (app *Application) Renderer() *renderer.Renderer { return app.renderer }
