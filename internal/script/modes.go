package script

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"unicode/utf8"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/qemacs/internal/renderer/highlight"
)

// BindModes defines the define_mode function, which registers a mode in
// reg:
//
//	define_mode {
//	    name = "lua",
//	    extensions = { ".lua" },
//	    fallback = "c",
//	    keywords = { "local", "function", "end" },
//	    colorize = function(line, state)
//	        return { { 1, 2, "comment" } }, state
//	    end,
//	}
//
// colorize receives the line text and entry state and returns spans of
// 1-based inclusive byte positions with a style name, plus the exit
// state. A mode without colorize must name a fallback; it then colors
// with the fallback's callback and its own keyword lists.
func (s *State) BindModes(reg *highlight.Registry) {
	s.Register("define_mode", func(L *lua.LState) int {
		m, err := s.modeFromTable(reg, L.CheckTable(1))
		if err == nil {
			err = reg.Register(m)
		}
		if err != nil {
			L.RaiseError("define_mode: %v", err)
		}
		return 0
	})
}

func (s *State) modeFromTable(reg *highlight.Registry, t *lua.LTable) (*highlight.Mode, error) {
	name, ok := t.RawGetString("name").(lua.LString)
	if !ok || name == "" {
		return nil, fmt.Errorf("mode needs a name")
	}
	m := &highlight.Mode{Name: string(name)}

	var err error
	if m.Extensions, err = Strings(t.RawGetString("extensions")); err != nil {
		return nil, fmt.Errorf("%s extensions: %w", name, err)
	}
	if m.Keywords, err = Strings(t.RawGetString("keywords")); err != nil {
		return nil, fmt.Errorf("%s keywords: %w", name, err)
	}
	if m.Types, err = Strings(t.RawGetString("types")); err != nil {
		return nil, fmt.Errorf("%s types: %w", name, err)
	}
	if fb, ok := t.RawGetString("fallback").(lua.LString); ok {
		if m.Fallback, ok = reg.ByName(string(fb)); !ok {
			return nil, fmt.Errorf("%s: unknown fallback mode %q", name, fb)
		}
	}
	if fn, ok := t.RawGetString("colorize").(*lua.LFunction); ok {
		m.Colorize = s.colorizer(m.Name, fn)
	}
	return m, nil
}

// colorizer adapts a Lua colorize function. A function that fails is
// logged once and then skipped, leaving lines in the default style.
func (s *State) colorizer(name string, fn *lua.LFunction) highlight.ColorizeFunc {
	failed := false
	return func(cx *highlight.Context, line []rune, styles []highlight.Style) {
		if failed {
			return
		}
		text := string(line)
		out, err := s.Call(fn, 2, lua.LString(text), lua.LNumber(cx.State))
		if err != nil {
			failed = true
			s.logger.Warn("mode %s disabled: %v", name, err)
			return
		}
		if n, ok := out[1].(lua.LNumber); ok && n >= 0 {
			cx.State = uint32(n)
		}
		spans, ok := out[0].(*lua.LTable)
		if !ok {
			return
		}

		// runeAt maps byte positions of text to rune indexes.
		runeAt := make([]int, len(text)+1)
		ri := 0
		for bi := 0; bi < len(text); ri++ {
			_, size := utf8.DecodeRuneInString(text[bi:])
			for k := 0; k < size; k++ {
				runeAt[bi+k] = ri
			}
			bi += size
		}
		runeAt[len(text)] = ri

		for i := 1; i <= spans.Len(); i++ {
			span, ok := spans.RawGetInt(i).(*lua.LTable)
			if !ok {
				continue
			}
			first, ok1 := span.RawGetInt(1).(lua.LNumber)
			last, ok2 := span.RawGetInt(2).(lua.LNumber)
			styleName, ok3 := span.RawGetInt(3).(lua.LString)
			if !ok1 || !ok2 || !ok3 {
				continue
			}
			style, known := highlight.ParseStyle(string(styleName))
			if !known {
				continue
			}
			from := int(first) - 1
			to := int(last)
			if from < 0 || to > len(text) || from >= to {
				continue
			}
			for j := runeAt[from]; j < len(styles) && j < runeAt[to]; j++ {
				styles[j] = style
			}
		}
	}
}

// LoadModes runs every *.lua file of dir in name order with define_mode
// bound to reg, and returns the names of the modes now registered. A
// missing directory loads nothing.
func LoadModes(s *State, reg *highlight.Registry, dir string) ([]string, error) {
	if dir == "" {
		return nil, nil
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.lua"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		if _, err := os.Stat(dir); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		return nil, nil
	}
	sort.Strings(files)

	before := make(map[string]bool)
	for _, n := range reg.Names() {
		before[n] = true
	}
	s.BindModes(reg)
	var errs []error
	for _, f := range files {
		if err := s.DoFile(f); err != nil {
			errs = append(errs, err)
		}
	}
	var added []string
	for _, n := range reg.Names() {
		if !before[n] {
			added = append(added, n)
		}
	}
	return added, errors.Join(errs...)
}
