package highlight

import (
	"github.com/dshills/qemacs/internal/logging"
)

// Lines is the buffer view a Cache colors.
type Lines interface {
	LineCount() int
	LineOf(off int) int
	LineStart(line int) int
	LineRunes(line int) []rune
}

// Colored is one colored line.
type Colored struct {
	Line        int
	Runes       []rune
	Styles      []Style
	Entry       uint32
	Exit        uint32
	RecolorNext bool
}

// Cache remembers the colorize entry state of lines [0, ValidLines()).
// It is owned by one window and is not safe for concurrent use.
type Cache struct {
	src    Lines
	mode   *Mode
	logger *logging.Logger

	// states[i] is the entry state of line i.
	states []uint32
	// maxValid is the start offset of the first line without a state.
	maxValid int
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithLogger sets the logger for colorizer failures.
func WithLogger(l *logging.Logger) CacheOption {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCache creates a cache coloring src with mode. A nil mode colors
// nothing.
func NewCache(src Lines, mode *Mode, opts ...CacheOption) *Cache {
	c := &Cache{
		src:    src,
		mode:   mode,
		logger: logging.NullLogger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mode returns the current mode.
func (c *Cache) Mode() *Mode { return c.mode }

// SetMode switches modes and drops every state.
func (c *Cache) SetMode(m *Mode) {
	c.mode = m
	c.Reset()
}

// Reset drops every state.
func (c *Cache) Reset() {
	c.states = c.states[:0]
	c.maxValid = 0
}

// ValidLines returns the number of lines with a known entry state.
func (c *Cache) ValidLines() int { return len(c.states) }

// MaxValidOffset returns the start offset of the first line whose entry
// state is unknown. Edits at or after it leave the cache untouched.
func (c *Cache) MaxValidOffset() int { return c.maxValid }

// Invalidate discards the states of the line containing off and every
// line after it. off is an offset in the already edited buffer.
func (c *Cache) Invalidate(off int) {
	if off >= c.maxValid {
		return
	}
	line := c.src.LineOf(off)
	if line < len(c.states) {
		c.states = c.states[:line]
	}
	c.maxValid = c.src.LineStart(len(c.states))
}

// StateAt returns the entry state of line, coloring the lines before it
// as needed.
func (c *Cache) StateAt(line int) uint32 {
	line = c.clampLine(line)
	c.extend(line)
	return c.states[line]
}

// ColorLine colors line. Lines past the end are clamped to the last one.
func (c *Cache) ColorLine(line int) Colored {
	line = c.clampLine(line)
	c.extend(line)
	entry := c.states[line]
	runes := c.src.LineRunes(line)
	styles := make([]Style, len(runes))
	exit, recolor := c.run(line, entry, runes, styles)
	if line+1 == len(c.states) && line+1 < c.src.LineCount() {
		c.push(exit)
	}
	return Colored{
		Line:        line,
		Runes:       runes,
		Styles:      styles,
		Entry:       entry,
		Exit:        exit,
		RecolorNext: recolor,
	}
}

func (c *Cache) clampLine(line int) int {
	return max(0, min(line, c.src.LineCount()-1))
}

// extend computes entry states up to and including line.
func (c *Cache) extend(line int) {
	if len(c.states) == 0 {
		c.push(0)
	}
	var styles []Style
	for k := len(c.states) - 1; k < line; k++ {
		runes := c.src.LineRunes(k)
		styles = grow(styles, len(runes))
		exit, _ := c.run(k, c.states[k], runes, styles)
		c.push(exit)
	}
}

func (c *Cache) push(state uint32) {
	c.states = append(c.states, state)
	c.maxValid = c.src.LineStart(len(c.states))
}

// run invokes the mode callback. A panicking callback leaves the line in
// the default style and resets the state.
func (c *Cache) run(line int, entry uint32, runes []rune, styles []Style) (exit uint32, recolor bool) {
	if c.mode == nil {
		return 0, false
	}
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("colorize %s line %d: %v", c.mode.Name, line, r)
			fill(styles, 0, len(styles), StyleDefault)
			exit, recolor = 0, false
		}
	}()
	return c.mode.Run(line, entry, runes, styles)
}

func grow(styles []Style, n int) []Style {
	if cap(styles) < n {
		return make([]Style, n)
	}
	styles = styles[:n]
	fill(styles, 0, n, StyleDefault)
	return styles
}
