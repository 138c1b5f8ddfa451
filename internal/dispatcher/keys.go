package dispatcher

import (
	"fmt"
	"strconv"

	"github.com/dshills/qemacs/internal/dispatcher/execctx"
	"github.com/dshills/qemacs/internal/dispatcher/handler"
	"github.com/dshills/qemacs/internal/input"
	"github.com/dshills/qemacs/internal/input/key"
	"github.com/dshills/qemacs/internal/input/keymap"
)

// Actions the key loop produces itself.
const (
	ActionSelfInsert = "editor.insertChar"
	ActionCancel     = "app.cancel"
)

// argument is the numeric prefix typed with C-u.
type argument struct {
	active bool
	digits bool
	value  int
}

func (a *argument) take() int {
	n := 0
	if a.active {
		n = a.value
	}
	*a = argument{}
	return n
}

// HandleKey processes one key. It returns the result of the action the key
// completed, or a success result when the key was consumed by a modal or
// is part of a longer sequence.
func (d *Dispatcher) HandleKey(ev key.Event) handler.Result {
	if d.recorder != nil {
		d.recorder.Record(ev)
	}
	return d.process(ev)
}

func (d *Dispatcher) process(ev key.Event) handler.Result {
	if n := len(d.modals); n > 0 {
		switch d.modals[n-1].HandleKey(ev) {
		case execctx.ModalContinue:
			return handler.Success()
		case execctx.ModalDone:
			d.removeModal(n - 1)
			return handler.Success()
		case execctx.ModalRepost:
			d.removeModal(n - 1)
			if len(d.modals) > 0 {
				return d.process(ev)
			}
		}
	}
	return d.lookup(ev)
}

// lookup resolves ev against the keymap.
func (d *Dispatcher) lookup(ev key.Event) handler.Result {
	if ev == key.Ctrl('g') {
		d.resetKeys()
		return d.Dispatch(input.Action{Name: ActionCancel, Keys: key.Sequence{ev}})
	}

	if d.meta {
		d.meta = false
		ev = ev.WithMeta()
	} else if d.config.EscapeIsMeta && ev == key.Special(key.KeyEscape, key.ModNone) && len(d.pending) == 0 {
		d.meta = true
		return handler.Success()
	}

	if len(d.pending) == 0 && d.readArgument(ev) {
		return handler.Success()
	}

	d.pending = append(d.pending, ev)
	b, res := d.keymap.Lookup(d.pending)
	switch res {
	case keymap.Prefix:
		return handler.Success()
	case keymap.Match:
		keys := d.pending
		d.pending = nil
		return d.Dispatch(input.Action{Name: b.Action, Count: d.arg.take(), Keys: keys})
	}

	keys := d.pending
	d.pending = nil
	if len(keys) == 1 && ev.IsChar() {
		return d.Dispatch(input.Action{
			Name:  ActionSelfInsert,
			Args:  input.Args{Rune: ev.Rune},
			Count: d.arg.take(),
			Keys:  keys,
		})
	}
	d.arg = argument{}
	return d.report(input.Action{Keys: keys}, handler.Error(fmt.Errorf("%s %w", keys, ErrUndefinedKey)))
}

// readArgument consumes C-u and the digits that follow it.
func (d *Dispatcher) readArgument(ev key.Event) bool {
	switch {
	case ev == key.Ctrl('u'):
		if d.arg.active && !d.arg.digits {
			d.arg.value = d.config.clampCount(d.arg.value * 4)
		} else {
			d.arg = argument{active: true, value: 4}
		}
		return true
	case d.arg.active && ev.Key == key.KeyRune && ev.Modifiers == key.ModNone && ev.Rune >= '0' && ev.Rune <= '9':
		if !d.arg.digits {
			d.arg.digits = true
			d.arg.value = 0
		}
		d.arg.value = d.config.clampCount(d.arg.value*10 + int(ev.Rune-'0'))
		return true
	}
	return false
}

// PendingKeys renders the partial sequence for the echo area: "C-x-",
// "C-u 12-", "ESC-". It is "" when no sequence is in progress.
func (d *Dispatcher) PendingKeys() string {
	s := ""
	if d.arg.active {
		s = "C-u"
		if d.arg.digits {
			s += " " + strconv.Itoa(d.arg.value)
		}
	}
	if len(d.pending) > 0 {
		if s != "" {
			s += " "
		}
		s += d.pending.String()
	}
	if d.meta {
		if s != "" {
			s += " "
		}
		s += "ESC"
	}
	if s == "" {
		return ""
	}
	return s + "-"
}

// resetKeys forgets any partial sequence and numeric argument.
func (d *Dispatcher) resetKeys() {
	d.pending = nil
	d.meta = false
	d.arg = argument{}
}

// PushModal makes m receive keys until it finishes.
func (d *Dispatcher) PushModal(m execctx.Modal) {
	d.resetKeys()
	d.modals = append(d.modals, m)
}

// removeModal drops the modal at index i. A finishing modal may already
// have pushed its successor, so the stack is not simply popped.
func (d *Dispatcher) removeModal(i int) {
	if i < len(d.modals) {
		d.modals = append(d.modals[:i], d.modals[i+1:]...)
	}
}

// Modal returns the active modal, or nil.
func (d *Dispatcher) Modal() execctx.Modal {
	if len(d.modals) == 0 {
		return nil
	}
	return d.modals[len(d.modals)-1]
}

// AbortModals drops every modal, as a hard C-g does.
func (d *Dispatcher) AbortModals() {
	d.modals = nil
	d.resetKeys()
}
