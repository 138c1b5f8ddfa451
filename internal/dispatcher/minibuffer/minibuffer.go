// Package minibuffer implements the one-line prompt modal used to read
// file names, command names and search strings.
package minibuffer

import (
	"slices"
	"strings"

	"github.com/dshills/qemacs/internal/dispatcher/execctx"
	"github.com/dshills/qemacs/internal/input/key"
)

// Messages shown after TAB.
const (
	MsgNoMatch  = "[No match]"
	MsgSole     = "[Sole completion]"
	MsgNotUniq  = "[Complete, but not unique]"
	MsgCanceled = "Quit"
)

// Minibuffer reads one line of text. It implements execctx.Modal.
type Minibuffer struct {
	prompt   string
	text     []rune
	pos      int
	complete execctx.Completer
	history  *History
	hpos     int
	done     func(string) error
	cancel   func()
	report   func(string)
	quoted   bool
}

// Option configures a Minibuffer.
type Option func(*Minibuffer)

// WithCompleter enables TAB completion.
func WithCompleter(c execctx.Completer) Option {
	return func(m *Minibuffer) { m.complete = c }
}

// WithHistory enables M-p and M-n over h. Accepted input is added to it.
func WithHistory(h *History) Option {
	return func(m *Minibuffer) { m.history = h }
}

// WithReporter receives completion notes and errors returned by the done
// callback.
func WithReporter(fn func(string)) Option {
	return func(m *Minibuffer) { m.report = fn }
}

// WithCancel is called when the read is aborted with C-g.
func WithCancel(fn func()) Option {
	return func(m *Minibuffer) { m.cancel = fn }
}

// New creates a prompt showing prompt followed by initial. done runs when
// RET is pressed.
func New(prompt, initial string, done func(string) error, opts ...Option) *Minibuffer {
	m := &Minibuffer{
		prompt: prompt,
		text:   []rune(initial),
		done:   done,
		report: func(string) {},
	}
	m.pos = len(m.text)
	for _, opt := range opts {
		opt(m)
	}
	if m.history != nil {
		m.hpos = m.history.Len()
	}
	return m
}

// Text returns the current input.
func (m *Minibuffer) Text() string { return string(m.text) }

// Cursor returns the cursor position in characters after the prompt.
func (m *Minibuffer) Cursor() int { return m.pos }

// Prompt implements execctx.Modal.
func (m *Minibuffer) Prompt() string { return m.prompt + string(m.text) }

// Label returns the prompt without the input.
func (m *Minibuffer) Label() string { return m.prompt }

// HandleKey implements execctx.Modal.
func (m *Minibuffer) HandleKey(ev key.Event) execctx.ModalStatus {
	if m.quoted {
		m.quoted = false
		r := ev.ControlRune()
		if r == 0 && ev.Key == key.KeyRune {
			r = ev.Rune
		}
		if r != 0 {
			m.insert(r)
		}
		return execctx.ModalContinue
	}

	switch ev {
	case key.Special(key.KeyEnter, key.ModNone):
		return m.accept()
	case key.Ctrl('g'):
		if m.cancel != nil {
			m.cancel()
		}
		m.report(MsgCanceled)
		return execctx.ModalDone
	case key.Special(key.KeyTab, key.ModNone):
		m.completeInput()
	case key.Ctrl('q'):
		m.quoted = true
	case key.Ctrl('a'), key.Special(key.KeyHome, key.ModNone):
		m.pos = 0
	case key.Ctrl('e'), key.Special(key.KeyEnd, key.ModNone):
		m.pos = len(m.text)
	case key.Ctrl('f'), key.Special(key.KeyRight, key.ModNone):
		m.pos = min(m.pos+1, len(m.text))
	case key.Ctrl('b'), key.Special(key.KeyLeft, key.ModNone):
		m.pos = max(m.pos-1, 0)
	case key.Special(key.KeyBackspace, key.ModNone):
		if m.pos > 0 {
			m.text = slices.Delete(m.text, m.pos-1, m.pos)
			m.pos--
		}
	case key.Ctrl('d'), key.Special(key.KeyDelete, key.ModNone):
		if m.pos < len(m.text) {
			m.text = slices.Delete(m.text, m.pos, m.pos+1)
		}
	case key.Ctrl('k'):
		m.text = m.text[:m.pos]
	case key.Meta('p'), key.Special(key.KeyUp, key.ModNone):
		m.recall(-1)
	case key.Meta('n'), key.Special(key.KeyDown, key.ModNone):
		m.recall(1)
	default:
		if ev.IsChar() {
			m.insert(ev.Rune)
		}
	}
	return execctx.ModalContinue
}

func (m *Minibuffer) insert(r rune) {
	m.text = slices.Insert(m.text, m.pos, r)
	m.pos++
}

func (m *Minibuffer) set(s string) {
	m.text = []rune(s)
	m.pos = len(m.text)
}

func (m *Minibuffer) accept() execctx.ModalStatus {
	s := string(m.text)
	if m.history != nil {
		m.history.Add(s)
	}
	if m.done != nil {
		if err := m.done(s); err != nil {
			m.report(err.Error())
		}
	}
	return execctx.ModalDone
}

// completeInput extends the input to the longest common prefix of the
// candidates.
func (m *Minibuffer) completeInput() {
	if m.complete == nil {
		return
	}
	cands := m.complete(string(m.text))
	switch len(cands) {
	case 0:
		m.report(MsgNoMatch)
		return
	case 1:
		m.set(cands[0])
		m.report(MsgSole)
		return
	}
	prefix := CommonPrefix(cands)
	if len([]rune(prefix)) > len(m.text) {
		m.set(prefix)
		return
	}
	m.report(MsgNotUniq + " " + strings.Join(cands, " "))
}

func (m *Minibuffer) recall(dir int) {
	if m.history == nil {
		return
	}
	n := m.history.Len()
	next := m.hpos + dir
	if next < 0 || next > n {
		return
	}
	m.hpos = next
	if next == n {
		m.set("")
		return
	}
	m.set(m.history.At(next))
}

// CommonPrefix returns the longest prefix shared by all of ss.
func CommonPrefix(ss []string) string {
	if len(ss) == 0 {
		return ""
	}
	prefix := []rune(ss[0])
	for _, s := range ss[1:] {
		rs := []rune(s)
		n := 0
		for n < len(prefix) && n < len(rs) && prefix[n] == rs[n] {
			n++
		}
		prefix = prefix[:n]
	}
	return string(prefix)
}

// Prefix returns a completer offering the candidates that start with the
// input. list is called on every completion.
func Prefix(list func() []string) execctx.Completer {
	return func(in string) []string {
		var out []string
		for _, c := range list() {
			if strings.HasPrefix(c, in) {
				out = append(out, c)
			}
		}
		return out
	}
}
