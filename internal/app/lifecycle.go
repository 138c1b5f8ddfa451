package app

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/dshills/qemacs/internal/config"
	"github.com/dshills/qemacs/internal/renderer"
	"github.com/dshills/qemacs/internal/renderer/highlight"
)

// bootstrap loads the scripted modes, restores the session and visits the
// command line files, in that order, so the files end up selected.
func (app *Application) bootstrap() {
	ed := app.editor
	if _, err := ed.LoadModes(); err != nil {
		app.report(NewOperationError("load modes", app.cfg.Modes.ScriptDir, err))
	}

	if path := app.cfg.Session.Path; path != "" {
		if err := ed.LoadSession(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			app.report(NewOperationError("load session", path, err))
		}
	}

	for _, path := range app.opts.Files {
		if err := ed.OpenFile(path); err != nil {
			app.report(NewOperationError("open", path, err))
			continue
		}
		if app.opts.ReadOnly {
			ed.Window().Buffer().SetReadOnly(true)
		}
	}
}

// report logs err and shows it in the echo area.
func (app *Application) report(err error) {
	app.logger.Warn("%v", err)
	app.editor.Message("%v", err)
	app.errorShown = true
}

// autosave writes the session file when the configuration asks for it.
func (app *Application) autosave() {
	path := app.cfg.Session.Path
	if path == "" || !app.cfg.Session.Autosave {
		return
	}
	if err := app.editor.SaveSession(path); err != nil {
		app.logger.Error("%v", NewOperationError("save session", path, err))
	}
}

// watchConfig reloads the configuration file when it changes. Reloads are
// handed to the event goroutine, which owns the editor.
func (app *Application) watchConfig() {
	if app.cfg.Path == "" {
		return
	}
	w, err := config.Watch(app.cfg, func(cfg *config.Config, err error) {
		select {
		case app.reloads <- reload{cfg: cfg, err: err}:
		case <-app.done:
		}
	})
	if err != nil {
		app.logger.Debug("not watching configuration: %v", err)
		return
	}
	app.watcher = w
}

// applyConfig installs a reloaded configuration.
func (app *Application) applyConfig(r reload) {
	if r.err != nil {
		app.report(fmt.Errorf("reloading configuration: %w", r.err))
		return
	}
	cfg := r.cfg
	app.cfg = cfg
	app.editor.SetConfig(cfg)
	if app.opts.LogLevel == "" {
		app.logger.SetLevel(cfg.LogLevel())
	}

	theme := renderer.DefaultTheme()
	if err := applyColors(theme, cfg.Colors); err != nil {
		app.report(err)
	}
	app.theme = theme
	if app.renderer != nil {
		app.renderer.SetTheme(theme)
		app.renderer.SetTabWidth(cfg.Editor.TabWidth)
	}
	app.logger.Info("configuration reloaded from %s", cfg.Path)
	if !app.errorShown {
		app.editor.Message("Configuration reloaded")
	}
}

// applyColors sets the configured colors on t.
func applyColors(t *renderer.Theme, colors map[string]config.ColorConfig) error {
	var errs []error
	for name, c := range colors {
		s, ok := highlight.ParseStyle(name)
		if !ok {
			errs = append(errs, fmt.Errorf("colors.%s: unknown style", name))
			continue
		}
		if err := t.Set(s, c.Foreground, c.Background); err != nil {
			errs = append(errs, fmt.Errorf("colors.%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
