package highlight

import (
	"slices"
	"unicode"
)

// Context is passed to a colorize callback for one line.
type Context struct {
	// State is the entry state on call and the exit state on return.
	State uint32
	// Line is the line number being colored.
	Line int
	// Mode is the mode being run. Callbacks inherited through a fallback
	// chain see the outermost mode here, so keyword lookups use its lists.
	Mode *Mode
	// RecolorNext asks the caller to redraw the following line.
	RecolorNext bool
}

// ColorizeFunc colors one line. styles has the same length as line and
// is prefilled with StyleDefault.
type ColorizeFunc func(cx *Context, line []rune, styles []Style)

// Mode describes how to color one kind of file.
type Mode struct {
	Name       string
	Extensions []string
	Colorize   ColorizeFunc
	Keywords   []string
	Types      []string
	// Fallback supplies the callback, word predicate and extra keywords
	// when this mode leaves them unset.
	Fallback *Mode
	IsWord   func(rune) bool

	keywords map[string]struct{}
	types    map[string]struct{}
}

// maxChain bounds fallback walks so a cyclic chain cannot hang dispatch.
const maxChain = 16

// Colorizer returns the first callback on the fallback chain, or nil.
func (m *Mode) Colorizer() ColorizeFunc {
	for i := 0; m != nil && i < maxChain; i++ {
		if m.Colorize != nil {
			return m.Colorize
		}
		m = m.Fallback
	}
	return nil
}

// WordFunc returns the first word predicate on the fallback chain, or the
// default letter, digit and underscore predicate.
func (m *Mode) WordFunc() func(rune) bool {
	for i := 0; m != nil && i < maxChain; i++ {
		if m.IsWord != nil {
			return m.IsWord
		}
		m = m.Fallback
	}
	return isWordRune
}

// IsKeyword reports whether word is a keyword of m or its fallbacks.
func (m *Mode) IsKeyword(word string) bool {
	for i := 0; m != nil && i < maxChain; i++ {
		if contains(m.keywords, m.Keywords, word) {
			return true
		}
		m = m.Fallback
	}
	return false
}

// IsType reports whether word is a type name of m or its fallbacks.
func (m *Mode) IsType(word string) bool {
	for i := 0; m != nil && i < maxChain; i++ {
		if contains(m.types, m.Types, word) {
			return true
		}
		m = m.Fallback
	}
	return false
}

func contains(set map[string]struct{}, list []string, word string) bool {
	if set != nil {
		_, ok := set[word]
		return ok
	}
	return slices.Contains(list, word)
}

// prepare builds the keyword lookup sets.
func (m *Mode) prepare() {
	m.keywords = toSet(m.Keywords)
	m.types = toSet(m.Types)
}

func toSet(list []string) map[string]struct{} {
	set := make(map[string]struct{}, len(list))
	for _, w := range list {
		set[w] = struct{}{}
	}
	return set
}

// Run colors line with m, starting from state. It returns the exit state
// and whether the next line must be redrawn.
func (m *Mode) Run(line int, state uint32, runes []rune, styles []Style) (uint32, bool) {
	fn := m.Colorizer()
	if fn == nil {
		return 0, false
	}
	cx := &Context{State: state, Line: line, Mode: m}
	fn(cx, runes, styles)
	return cx.State, cx.RecolorNext
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// EmbedShift is the bit position of an embedded mode's state inside its
// container's state.
const EmbedShift = 8

// Container returns the container's part of state.
func Container(state uint32) uint32 { return state & (1<<EmbedShift - 1) }

// Embedded returns the embedded mode's part of state.
func Embedded(state uint32) uint32 { return state >> EmbedShift }

// Pack combines a container state and an embedded state.
func Pack(container, embedded uint32) uint32 {
	return Container(container) | embedded<<EmbedShift
}

// RunEmbedded colors runes with the embedded mode m, taking m's entry
// state from the high bits of cx.State and storing its exit state back.
func RunEmbedded(cx *Context, m *Mode, runes []rune, styles []Style) {
	fn := m.Colorizer()
	if fn == nil {
		return
	}
	sub := &Context{State: Embedded(cx.State), Line: cx.Line, Mode: m}
	fn(sub, runes, styles)
	cx.State = Pack(cx.State, sub.State)
	cx.RecolorNext = cx.RecolorNext || sub.RecolorNext
}
