// Package session saves and restores editor state between runs.
//
// A session file is a list of statements in the `name = value;` form,
// which the Lua interpreter evaluates in a sandbox:
//
//	-- qemacs session
//	case_fold = true;
//	search_string = "needle";
//	visit("/src/main.go", 120);
//
// Assignments are routed to the host's SetVariable hook and visit calls
// reopen files with the point restored. The last visited file ends up
// selected.
package session

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/qemacs/internal/script"
)

// Visit is an open file and its point.
type Visit struct {
	Path  string
	Point int
}

// Host is the editor state a session reads and restores.
type Host interface {
	// Variables returns the saved variables by name. Values are string,
	// int, float64 or bool.
	Variables() map[string]any
	// SetVariable assigns a variable read from a session.
	SetVariable(name string, value any) error
	// Visits lists the open files, the selected one last.
	Visits() []Visit
	// Visit opens a file and moves its point.
	Visit(path string, point int) error
}

// Load evaluates the session file at path.
func Load(path string, host Host, opts ...script.Option) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return Eval(path, string(data), host, opts...)
}

// Eval evaluates session statements. Failed assignments and visits do not
// stop evaluation; they are returned together.
func Eval(name, code string, host Host, opts ...script.Option) error {
	s := script.New(opts...)
	defer s.Close()

	var errs []error
	s.Register("visit", func(L *lua.LState) int {
		path := L.CheckString(1)
		point := L.OptInt(2, 0)
		if err := host.Visit(path, point); err != nil {
			errs = append(errs, fmt.Errorf("visit %s: %w", path, err))
		}
		return 0
	})

	// Globals not defined by the sandbox resolve through the host.
	meta := s.L.NewTable()
	s.L.SetField(meta, "__newindex", s.L.NewFunction(func(L *lua.LState) int {
		key := L.CheckString(2)
		v, err := script.ToGo(L.Get(3))
		if err == nil {
			err = host.SetVariable(key, v)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
		return 0
	}))
	s.L.SetField(meta, "__index", s.L.NewFunction(func(L *lua.LState) int {
		v, err := script.FromGo(host.Variables()[L.CheckString(2)])
		if err != nil {
			v = lua.LNil
		}
		L.Push(v)
		return 1
	}))
	s.L.SetMetatable(s.L.Get(lua.GlobalsIndex), meta)

	if err := s.DoString(name, code); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Write writes the host's session to w.
func Write(w io.Writer, host Host) error {
	var sb strings.Builder
	sb.WriteString("-- qemacs session\n")

	vars := host.Variables()
	names := make([]string, 0, len(vars))
	for n := range vars {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		v, err := formatValue(vars[n])
		if err != nil {
			return fmt.Errorf("%s: %w", n, err)
		}
		fmt.Fprintf(&sb, "%s = %s;\n", n, v)
	}
	for _, v := range host.Visits() {
		fmt.Fprintf(&sb, "visit(%s, %d);\n", quote(v.Path), v.Point)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// Save writes the session to path through a temporary file.
func Save(path string, host Host) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	var sb strings.Builder
	if err := Write(&sb, host); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

func formatValue(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return quote(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported value of type %T", v)
	}
}

// quote writes s as a Lua string literal. Control bytes use the decimal
// escapes every Lua version reads.
func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"' || c == '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\t':
			sb.WriteString(`\t`)
		case c < 0x20 || c == 0x7f:
			fmt.Fprintf(&sb, `\%03d`, c)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
