package app

import (
	edithandler "github.com/dshills/qemacs/internal/dispatcher/handlers/editor"
	"github.com/dshills/qemacs/internal/input"
	"github.com/dshills/qemacs/internal/input/key"
	"github.com/dshills/qemacs/internal/renderer"
	"github.com/dshills/qemacs/internal/renderer/backend"
)

// readEvents forwards backend events to the event loop. It runs on its
// own goroutine so that C-g is noticed while a command is still running.
func (app *Application) readEvents() {
	for {
		ev := app.backend.PollEvent()
		if ev.Type == backend.EventKey && ev.Key == key.Ctrl('g') {
			app.interrupted.Store(true)
		}
		select {
		case app.events <- ev:
		case <-app.done:
			return
		}
		if ev.Type == backend.EventQuit {
			return
		}
	}
}

// eventLoop is the main application loop. Every event is followed by a
// redraw.
func (app *Application) eventLoop() error {
	app.draw()
	for {
		select {
		case <-app.done:
			return nil
		case ev := <-app.events:
			if err := app.handleEvent(ev); err != nil {
				return err
			}
		case r := <-app.reloads:
			app.applyConfig(r)
		}
		if app.editor.Quitting() {
			return ErrQuit
		}
		app.draw()
	}
}

// handleEvent processes one backend event. It returns ErrQuit when the
// terminal went away.
func (app *Application) handleEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventKey:
		app.handleKey(ev.Key)
	case backend.EventResize:
		app.resize(ev.Width, ev.Height)
	case backend.EventPaste:
		app.paste(ev.Text)
	case backend.EventQuit:
		return ErrQuit
	}
	return nil
}

// handleKey feeds a key to the dispatcher. The echo area is cleared first
// so that messages last until the next key.
func (app *Application) handleKey(ev key.Event) {
	if ev == key.Ctrl('g') {
		app.interrupted.Store(false)
	}
	app.editor.ClearMessage()
	app.errorShown = false

	r := app.editor.Dispatcher().HandleKey(ev)
	if r.IsError() {
		app.errorShown = true
		if app.backend != nil {
			app.backend.Beep()
		}
	}
}

// paste inserts bracketed paste text. While a prompt is reading keys the
// text is typed into it instead.
func (app *Application) paste(text string) {
	if text == "" {
		return
	}
	app.editor.ClearMessage()
	app.errorShown = false

	d := app.editor.Dispatcher()
	if d.Modal() != nil {
		for _, r := range text {
			d.HandleKey(key.Rune(r, key.ModNone))
		}
		return
	}
	r := d.Dispatch(input.Action{
		Name: edithandler.ActionInsertText,
		Args: input.Args{Text: text},
	})
	app.errorShown = r.IsError()
}

// resize fits the windows to a new screen size.
func (app *Application) resize(width, height int) {
	app.editor.Resize(renderer.TextSize(width, height))
}

// frame collects what the renderer draws.
func (app *Application) frame() renderer.Frame {
	ed := app.editor
	f := renderer.Frame{
		Window: ed.Window(),
		Echo:   ed.Echo(),
		Error:  app.errorShown,
	}
	if m := ed.Modal(); m != nil {
		f.Prompt = m.Prompt()
	}
	if f.Echo == "" {
		f.Echo = ed.PendingKeys()
	}
	if rec := ed.Macro(); rec != nil && rec.Recording() {
		f.Extra = "Def"
	}
	return f
}

func (app *Application) draw() {
	if app.renderer != nil {
		app.renderer.Render(app.frame())
	}
}
