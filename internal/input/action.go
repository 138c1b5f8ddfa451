// Package input defines the actions produced by the key loop.
//
// Keys are resolved through a keymap into an Action whose name selects a
// dispatcher handler ("cursor.forwardChar", "file.save"). Subpackages hold
// key notation, keymaps and keyboard macros.
package input

import "github.com/dshills/qemacs/internal/input/key"

// Source indicates where an action came from.
type Source uint8

const (
	SourceKeyboard Source = iota
	SourceCommand         // M-x
	SourceMacro
	SourceScript
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceKeyboard:
		return "keyboard"
	case SourceCommand:
		return "command"
	case SourceMacro:
		return "macro"
	case SourceScript:
		return "script"
	default:
		return "unknown"
	}
}

// Args holds action arguments.
type Args struct {
	// Text for inserting commands and prompts answered ahead of time.
	Text string

	// Rune is the self-inserting character.
	Rune rune

	// Extra holds named values for scripted callers.
	Extra map[string]any
}

// Get returns a named value.
func (a Args) Get(name string) (any, bool) {
	v, ok := a.Extra[name]
	return v, ok
}

// GetString returns a named string value or "".
func (a Args) GetString(name string) string {
	if v, ok := a.Get(name); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetInt returns a named integer value or 0.
func (a Args) GetInt(name string) int {
	if v, ok := a.Get(name); ok {
		switch n := v.(type) {
		case int:
			return n
		case int64:
			return int(n)
		case float64:
			return int(n)
		}
	}
	return 0
}

// Action is a command to be executed by the dispatcher.
type Action struct {
	// Name is "namespace.command".
	Name string

	Args Args

	// Count is the numeric argument (C-u); 0 means none was given.
	Count int

	// Keys is the sequence that invoked the action, if any.
	Keys key.Sequence

	Source Source
}

// WithCount returns a copy of the action with the given count.
func (a Action) WithCount(n int) Action {
	a.Count = n
	return a
}

// WithText returns a copy of the action with Args.Text set.
func (a Action) WithText(s string) Action {
	a.Args.Text = s
	return a
}

// Namespace returns the part of Name before the first dot.
func (a Action) Namespace() string {
	for i := 0; i < len(a.Name); i++ {
		if a.Name[i] == '.' {
			return a.Name[:i]
		}
	}
	return ""
}
