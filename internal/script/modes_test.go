package script

import (
	"os"
	"path/filepath"
	"testing"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/qemacs/internal/renderer/highlight"
)

func run(m *highlight.Mode, line string, state uint32) ([]highlight.Style, uint32) {
	runes := []rune(line)
	styles := make([]highlight.Style, len(runes))
	out, _ := m.Run(0, state, runes, styles)
	return styles, out
}

func TestDefineModeWithFallback(t *testing.T) {
	s := New()
	defer s.Close()
	reg := highlight.DefaultRegistry()
	s.BindModes(reg)

	err := s.DoString("mini", `define_mode { name = "mini", extensions = { ".mini" }, fallback = "c", keywords = { "frob" } }`)
	if err != nil {
		t.Fatalf("define_mode: %v", err)
	}
	m, ok := reg.ByExtension(".mini")
	if !ok || m.Name != "mini" {
		t.Fatalf("mode not registered by extension")
	}
	styles, _ := run(m, "frob x", 0)
	if styles[0] != highlight.StyleKeyword || styles[5] != highlight.StyleDefault {
		t.Errorf("styles = %v", styles)
	}
}

func TestLuaColorizer(t *testing.T) {
	s := New()
	defer s.Close()
	reg := highlight.NewRegistry()
	s.BindModes(reg)

	err := s.DoString("hash", `
define_mode {
    name = "hash",
    colorize = function(line, state)
        local spans = {}
        local at = string.find(line, "#", 1, true)
        if at then
            spans[1] = { at, #line, "comment" }
        end
        return spans, state + 1
    end,
}`)
	if err != nil {
		t.Fatal(err)
	}
	m, _ := reg.ByName("hash")
	styles, state := run(m, "é = 1 # note", 7)
	if state != 8 {
		t.Errorf("exit state = %d, want 8", state)
	}
	for i, st := range styles {
		want := highlight.StyleDefault
		if i >= 6 {
			want = highlight.StyleComment
		}
		if st != want {
			t.Errorf("style[%d] = %v, want %v", i, st, want)
		}
	}
}

func TestLuaColorizerFailure(t *testing.T) {
	s := New()
	defer s.Close()
	reg := highlight.NewRegistry()
	s.BindModes(reg)

	calls := 0
	s.Register("tick", func(*lua.LState) int { calls++; return 0 })
	err := s.DoString("bad", `define_mode { name = "bad", colorize = function() tick() error("no") end }`)
	if err != nil {
		t.Fatal(err)
	}
	m, _ := reg.ByName("bad")
	run(m, "x", 0)
	run(m, "y", 0)
	if calls != 1 {
		t.Errorf("failing colorizer called %d times, want 1", calls)
	}
}

func TestDefineModeErrors(t *testing.T) {
	s := New()
	defer s.Close()
	s.BindModes(highlight.DefaultRegistry())

	tests := []struct {
		name string
		code string
	}{
		{"no name", `define_mode { fallback = "c" }`},
		{"no colorizer", `define_mode { name = "x" }`},
		{"unknown fallback", `define_mode { name = "x", fallback = "cobol" }`},
		{"bad keywords", `define_mode { name = "x", fallback = "c", keywords = "if" }`},
	}
	for _, tt := range tests {
		if err := s.DoString(tt.name, tt.code); err == nil {
			t.Errorf("%s: accepted", tt.name)
		}
	}
}

func TestLoadModes(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"a.lua":     `define_mode { name = "alpha", fallback = "c", extensions = { ".al" } }`,
		"b.lua":     `define_mode { name = "beta", fallback = "alpha" }`,
		"c.lua":     `error("broken")`,
		"notes.txt": `define_mode { name = "ignored", fallback = "c" }`,
	}
	for name, code := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(code), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	s := New()
	defer s.Close()
	reg := highlight.DefaultRegistry()
	added, err := LoadModes(s, reg, dir)
	if err == nil {
		t.Errorf("broken script not reported")
	}
	if len(added) != 2 || added[0] != "alpha" || added[1] != "beta" {
		t.Errorf("added = %v", added)
	}

	if added, err := LoadModes(s, reg, filepath.Join(dir, "none")); err != nil || added != nil {
		t.Errorf("missing dir = %v, %v", added, err)
	}
}
