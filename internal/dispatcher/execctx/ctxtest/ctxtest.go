// Package ctxtest provides an in-memory Editor for handler tests.
package ctxtest

import (
	"errors"
	"fmt"

	"github.com/dshills/qemacs/internal/dispatcher/execctx"
	"github.com/dshills/qemacs/internal/dispatcher/handlers/isearch"
	"github.com/dshills/qemacs/internal/engine/buffer"
	"github.com/dshills/qemacs/internal/engine/search"
	"github.com/dshills/qemacs/internal/input/key"
	"github.com/dshills/qemacs/internal/input/macro"
	"github.com/dshills/qemacs/internal/renderer/highlight"
	"github.com/dshills/qemacs/internal/renderer/window"
)

// PromptCall is a minibuffer read waiting for an answer.
type PromptCall struct {
	Prompt   string
	Initial  string
	Complete execctx.Completer
	Done     func(string) error
}

// Editor records what handlers ask of the editor.
type Editor struct {
	Win      *window.Window
	Messages []string
	Prompts  []PromptCall
	Modals   []execctx.Modal
	Kills    []string

	ClipboardText string
	ClipboardErr  error

	Last  isearch.Last
	Flags search.Flags

	Opened   []string
	Saved    []string
	SaveErr  error
	Registry *highlight.Registry
	Recorder *macro.Recorder

	Executed []string
	Fed      key.Sequence
	Prev     string
	Quitted  bool

	// RunFunc backs Execute; nil records the call only.
	RunFunc func(name string, count int) error
	// FeedFunc backs FeedKey; nil records the key only.
	FeedFunc func(ev key.Event) bool
}

// New creates an editor with one 80x24 window on a buffer holding text.
func New(text string, opts ...buffer.Option) *Editor {
	b := buffer.NewFromString(text, opts...)
	return &Editor{
		Win:      window.New(b, highlight.TextMode, window.WithSize(80, 24)),
		Registry: highlight.DefaultRegistry(),
		Recorder: macro.NewRecorder(),
	}
}

// Context builds an execution context for the window.
func (e *Editor) Context() *execctx.Context { return execctx.New(e) }

// Buffer returns the window's buffer.
func (e *Editor) Buffer() *buffer.Buffer { return e.Win.Buffer() }

// LastMessage returns the most recent message or "".
func (e *Editor) LastMessage() string {
	if len(e.Messages) == 0 {
		return ""
	}
	return e.Messages[len(e.Messages)-1]
}

// Answer completes the oldest pending prompt with s.
func (e *Editor) Answer(s string) error {
	if len(e.Prompts) == 0 {
		return errors.New("no pending prompt")
	}
	p := e.Prompts[0]
	e.Prompts = e.Prompts[1:]
	return p.Done(s)
}

// Type sends keys to the top modal, removing it when it finishes. It
// returns the keys a modal handed back or that arrived with none active.
func (e *Editor) Type(keys string) key.Sequence {
	var reposted key.Sequence
	for _, ev := range key.MustParseSequence(keys) {
		if len(e.Modals) == 0 {
			reposted = append(reposted, ev)
			continue
		}
		i := len(e.Modals) - 1
		switch e.Modals[i].HandleKey(ev) {
		case execctx.ModalDone:
			e.Modals = append(e.Modals[:i], e.Modals[i+1:]...)
		case execctx.ModalRepost:
			e.Modals = append(e.Modals[:i], e.Modals[i+1:]...)
			reposted = append(reposted, ev)
		}
	}
	return reposted
}

func (e *Editor) Window() *window.Window { return e.Win }

func (e *Editor) Message(format string, args ...any) {
	e.Messages = append(e.Messages, fmt.Sprintf(format, args...))
}

func (e *Editor) Prompt(prompt, initial string, complete execctx.Completer, done func(string) error) {
	e.Prompts = append(e.Prompts, PromptCall{prompt, initial, complete, done})
}

func (e *Editor) PushModal(m execctx.Modal) { e.Modals = append(e.Modals, m) }

func (e *Editor) Kill(text string, appendKill bool) {
	if appendKill && len(e.Kills) > 0 {
		e.Kills[len(e.Kills)-1] += text
		return
	}
	e.Kills = append(e.Kills, text)
}

func (e *Editor) Yank() string {
	if len(e.Kills) == 0 {
		return ""
	}
	return e.Kills[len(e.Kills)-1]
}

func (e *Editor) Clipboard() execctx.Clipboard { return clipboard{e} }

type clipboard struct{ e *Editor }

func (c clipboard) ReadText() (string, error) { return c.e.ClipboardText, c.e.ClipboardErr }

// AbortPollBytes selects the scan default.
func (e *Editor) AbortPollBytes() int { return 0 }

func (e *Editor) LastSearch() *isearch.Last  { return &e.Last }
func (e *Editor) SearchFlags() search.Flags  { return e.Flags }
func (e *Editor) Abort() bool                { return false }
func (e *Editor) Modes() *highlight.Registry { return e.Registry }
func (e *Editor) Macro() *macro.Recorder     { return e.Recorder }
func (e *Editor) LastCommand() string        { return e.Prev }
func (e *Editor) Quit()                      { e.Quitted = true }

func (e *Editor) Commands() []string {
	return []string{"cursor.forwardChar", "file.save", "file.writeFile"}
}

func (e *Editor) OpenFile(path string) error {
	e.Opened = append(e.Opened, path)
	return nil
}

func (e *Editor) SaveBuffer(b *buffer.Buffer, path string) error {
	if e.SaveErr != nil {
		return e.SaveErr
	}
	if path == "" {
		path = b.Filename()
	}
	e.Saved = append(e.Saved, path)
	b.MarkSaved()
	return nil
}

func (e *Editor) Execute(name string, count int) error {
	e.Executed = append(e.Executed, name)
	if e.RunFunc != nil {
		return e.RunFunc(name, count)
	}
	return nil
}

func (e *Editor) FeedKey(ev key.Event) bool {
	e.Fed = append(e.Fed, ev)
	if e.FeedFunc != nil {
		return e.FeedFunc(ev)
	}
	return true
}

var _ execctx.Editor = (*Editor)(nil)
