package editor

import (
	"errors"
	"fmt"

	"github.com/dshills/qemacs/internal/engine/charset"
	"github.com/dshills/qemacs/internal/engine/search"
	"github.com/dshills/qemacs/internal/script"
	"github.com/dshills/qemacs/internal/session"
)

// ErrUnknownVariable is returned for a session variable the editor does
// not keep.
var ErrUnknownVariable = errors.New("unknown variable")

// Session variable names.
const (
	VarSearchString   = "search_string"
	VarCaseFold       = "case_fold"
	VarDefaultCharset = "default_charset"
	VarDefaultEOL     = "default_eol"
	VarTabWidth       = "tab_width"
)

// Variables returns the state saved in a session.
func (s *State) Variables() map[string]any {
	return map[string]any{
		VarSearchString:   string(s.last.Needle),
		VarCaseFold:       s.flags&search.IgnoreCase != 0,
		VarDefaultCharset: s.cfg.Editor.Charset,
		VarDefaultEOL:     s.cfg.Editor.EOL,
		VarTabWidth:       s.cfg.Editor.TabWidth,
	}
}

// SetVariable restores one session variable.
func (s *State) SetVariable(name string, value any) error {
	switch name {
	case VarSearchString:
		str, ok := value.(string)
		if !ok {
			return typeError(name, "string", value)
		}
		s.last.Needle = []rune(str)
	case VarCaseFold:
		on, ok := value.(bool)
		if !ok {
			return typeError(name, "boolean", value)
		}
		if on {
			s.flags |= search.IgnoreCase
		} else {
			s.flags &^= search.IgnoreCase
		}
	case VarDefaultCharset:
		str, ok := value.(string)
		if !ok {
			return typeError(name, "string", value)
		}
		cs, ok := charset.Lookup(str)
		if !ok {
			return fmt.Errorf("%s: unknown charset %q", name, str)
		}
		s.cfg.Editor.Charset = cs.Name()
	case VarDefaultEOL:
		str, ok := value.(string)
		if !ok {
			return typeError(name, "string", value)
		}
		eol, ok := charset.ParseEOL(str)
		if !ok {
			return fmt.Errorf("%s: unknown EOL type %q", name, str)
		}
		s.cfg.Editor.EOL = eol.String()
	case VarTabWidth:
		n, ok := value.(int)
		if !ok || n < 1 {
			return typeError(name, "positive integer", value)
		}
		s.cfg.Editor.TabWidth = n
	default:
		return fmt.Errorf("%w: %s", ErrUnknownVariable, name)
	}
	return nil
}

func typeError(name, want string, got any) error {
	return fmt.Errorf("%s: want %s, got %T", name, want, got)
}

// Visits lists the buffers visiting files, the selected one last.
func (s *State) Visits() []session.Visit {
	var out []session.Visit
	var selected *session.Visit
	for i, w := range s.views {
		name := w.Buffer().Filename()
		if name == "" {
			continue
		}
		v := session.Visit{Path: name, Point: w.Point()}
		if i == s.cur {
			selected = &v
			continue
		}
		out = append(out, v)
	}
	if selected != nil {
		out = append(out, *selected)
	}
	return out
}

// Visit opens path and moves its point.
func (s *State) Visit(path string, point int) error {
	if err := s.OpenFile(path); err != nil {
		return err
	}
	s.Window().SetPoint(point)
	s.Window().EnsurePointVisible()
	return nil
}

// LoadSession restores the session file at path.
func (s *State) LoadSession(path string) error {
	return session.Load(path, s, script.WithLogger(s.logger.WithComponent("session")))
}

// SaveSession writes the session file at path.
func (s *State) SaveSession(path string) error {
	return session.Save(path, s)
}

var _ session.Host = (*State)(nil)
