package search

import (
	"github.com/dshills/qemacs/internal/dispatcher/execctx"
	"github.com/dshills/qemacs/internal/dispatcher/handlers/isearch"
	"github.com/dshills/qemacs/internal/dispatcher/handlers/replace"
	"github.com/dshills/qemacs/internal/input/key"
)

var (
	keyDEL = key.Special(key.KeyBackspace, key.ModNone)
	keyRET = key.Special(key.KeyEnter, key.ModNone)
)

// isearchKeys maps keys to search inputs. Printable keys type themselves;
// any other key ends the search and runs as a command.
var isearchKeys = map[key.Event]isearch.Kind{
	key.Ctrl('s'): isearch.RepeatForward,
	key.Ctrl('r'): isearch.RepeatBackward,
	keyDEL:        isearch.Backspace,
	key.Ctrl('w'): isearch.YankWord,
	key.Ctrl('y'): isearch.YankLine,
	key.Meta('y'): isearch.YankClipboard,
	key.Meta('c'): isearch.ToggleCase,
	key.Meta('w'): isearch.ToggleWord,
	key.Meta('r'): isearch.ToggleRegex,
	key.Meta('x'): isearch.ToggleHex,
	key.Ctrl('q'): isearch.LiteralNext,
	key.Ctrl('g'): isearch.Cancel,
	keyRET:        isearch.Finish,
}

type isearchModal struct {
	search *isearch.Search
	editor execctx.Editor
}

func (m *isearchModal) Prompt() string { return m.search.Prompt() }

func (m *isearchModal) HandleKey(ev key.Event) execctx.ModalStatus {
	s := m.search
	switch {
	case s.State() == isearch.Quoting:
		r := ev.ControlRune()
		if r == 0 {
			r = ev.Rune
		}
		s.Handle(isearch.Key(r))
	case ev.IsChar():
		s.Handle(isearch.Key(ev.Rune))
	default:
		kind, ok := isearchKeys[ev]
		if !ok {
			kind = isearch.Commit
		}
		s.Handle(isearch.Do(kind))
	}

	if err := s.Err(); err != nil {
		m.editor.Message("%v", err)
	}
	switch {
	case !s.Done():
		return execctx.ModalContinue
	case s.State() == isearch.Idle:
		m.editor.Message("Quit")
		return execctx.ModalDone
	case s.Repost():
		return execctx.ModalRepost
	}
	m.editor.Message("Mark saved where search started")
	return execctx.ModalDone
}

// replaceKeys maps answers of the query-replace prompt.
var replaceKeys = map[key.Event]replace.Answer{
	key.Rune('y', key.ModNone): replace.Accept,
	key.Rune(' ', key.ModNone): replace.Accept,
	key.Rune('n', key.ModNone): replace.Skip,
	keyDEL:                     replace.Skip,
	key.Rune('!', key.ModNone): replace.All,
	key.Rune('.', key.ModNone): replace.Last,
	key.Rune('q', key.ModNone): replace.Quit,
	keyRET:                     replace.Quit,
	key.Ctrl('g'):              replace.Cancel,
	key.Meta('c'):              replace.ToggleCase,
	key.Meta('w'):              replace.ToggleWord,
	key.Meta('x'):              replace.ToggleHex,
}

type replaceModal struct {
	replace *replace.Replace
	editor  execctx.Editor
}

func (m *replaceModal) Prompt() string { return m.replace.Prompt() }

// HandleKey answers the prompt. A key that is not an answer stops the
// replace and runs as a command.
func (m *replaceModal) HandleKey(ev key.Event) execctx.ModalStatus {
	r := m.replace
	answer, ok := replaceKeys[ev]
	if !ok {
		answer = replace.Quit
	}
	r.Handle(answer)
	if r.State() != replace.Done {
		return execctx.ModalContinue
	}
	if err := r.Err(); err != nil {
		m.editor.Message("%s: %v", r.Report(), err)
	} else {
		m.editor.Message("%s", r.Report())
	}
	if !ok {
		return execctx.ModalRepost
	}
	return execctx.ModalDone
}
