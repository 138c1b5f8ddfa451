// Package script runs the Lua used for session files and scripted syntax
// modes.
//
// A State opens only the base, table, string and math libraries and
// removes the functions that load code from disk or from strings, so a
// script can compute values and call the functions the editor registers
// but cannot reach the file system. Every run is bounded by a timeout.
//
// gopher-lua states are not goroutine safe; a State belongs to the
// editor goroutine.
package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/qemacs/internal/logging"
)

// DefaultTimeout bounds one script run.
const DefaultTimeout = 2 * time.Second

// ErrClosed is returned when using a closed State.
var ErrClosed = errors.New("lua state is closed")

// State is a sandboxed Lua interpreter.
type State struct {
	L       *lua.LState
	timeout time.Duration
	logger  *logging.Logger
	closed  bool
}

// Option configures a State.
type Option func(*State)

// WithTimeout bounds each DoString, DoFile and Call. Zero disables the
// bound.
func WithTimeout(d time.Duration) Option {
	return func(s *State) {
		if d >= 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *State) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a sandboxed state.
func New(opts ...Option) *State {
	s := &State{timeout: DefaultTimeout, logger: logging.NullLogger}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent("script")

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	// The openers leave their module tables on the stack.
	L.SetTop(0)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
	L.SetGlobal("print", L.NewFunction(s.print))
	s.L = L
	return s
}

// print sends script output to the log.
func (s *State) print(L *lua.LState) int {
	parts := make([]string, L.GetTop())
	for i := range parts {
		parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
	}
	s.logger.Info("%s", strings.Join(parts, "\t"))
	return 0
}

// Register binds a Go function to a global name.
func (s *State) Register(name string, fn lua.LGFunction) {
	s.L.SetGlobal(name, s.L.NewFunction(fn))
}

// DoString runs code. name identifies the chunk in errors.
func (s *State) DoString(name, code string) error {
	if s.closed {
		return ErrClosed
	}
	fn, err := s.L.Load(strings.NewReader(code), name)
	if err != nil {
		return fmt.Errorf("loading %s: %w", name, err)
	}
	_, err = s.call(fn, 0)
	if err != nil {
		return fmt.Errorf("running %s: %w", name, err)
	}
	return nil
}

// DoFile runs the script at path.
func (s *State) DoFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return s.DoString(path, string(data))
}

// Call calls fn with args and returns nret results.
func (s *State) Call(fn *lua.LFunction, nret int, args ...lua.LValue) ([]lua.LValue, error) {
	if s.closed {
		return nil, ErrClosed
	}
	return s.call(fn, nret, args...)
}

func (s *State) call(fn *lua.LFunction, nret int, args ...lua.LValue) (out []lua.LValue, err error) {
	if s.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.L.SetContext(ctx)
		defer s.L.RemoveContext()
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	top := s.L.GetTop()
	s.L.Push(fn)
	for _, a := range args {
		s.L.Push(a)
	}
	if err := s.L.PCall(len(args), nret, nil); err != nil {
		s.L.SetTop(top)
		return nil, err
	}
	out = make([]lua.LValue, nret)
	for i := range out {
		out[i] = s.L.Get(top + 1 + i)
	}
	s.L.SetTop(top)
	return out, nil
}

// Close releases the interpreter.
func (s *State) Close() {
	if !s.closed {
		s.closed = true
		s.L.Close()
	}
}
