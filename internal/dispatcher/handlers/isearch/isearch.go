// Package isearch implements incremental search as a state machine.
//
// A Search is fed one Event at a time by the key loop while it is active.
// Typed code points and match anchors accumulate as tokens; every change
// re-runs the search from the last anchor, moves the target's point to the
// match and highlights it. Backspace pops tokens, walking back through the
// anchors pushed by repeated searches.
package isearch

import (
	"context"
	"errors"
	"strings"

	"github.com/dshills/qemacs/internal/engine/buffer"
	"github.com/dshills/qemacs/internal/engine/search"
	"github.com/dshills/qemacs/internal/logging"
)

// State is the machine state.
type State int

const (
	// Idle means the search was cancelled.
	Idle State = iota
	// Active means the current needle matches, or is empty.
	Active
	// Failed means the current needle has no match from the anchor.
	Failed
	// Quoting means the next code point is taken literally.
	Quoting
	// Exited means the search was committed.
	Exited
)

var stateNames = [...]string{"idle", "active", "failed", "quoting", "exited"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Target is the window the search moves through.
type Target interface {
	Buffer() *buffer.Buffer
	Point() int
	SetPoint(off int)
	SetHighlight(begin, end int)
	ClearHighlight()
	IsWord() func(rune) bool
}

// Clipboard supplies text for YankClipboard.
type Clipboard interface {
	ReadText() (string, error)
}

// Last remembers the most recently committed search.
type Last struct {
	Needle []rune
	Flags  search.Flags
	Dir    search.Direction
}

// token is a typed code point or a match anchor.
type token struct {
	r       rune
	anchor  bool
	off     int
	dir     search.Direction
	wrapped bool
}

// Search is an incremental search in progress.
type Search struct {
	target Target
	ctx    context.Context
	clip   Clipboard
	last   *Last
	abort  func() bool
	poll   int
	logger *logging.Logger

	state   State
	failed  bool
	wrapped bool
	repost  bool
	err     error

	dir       search.Direction
	flags     search.Flags
	tokens    []token
	start     int
	savedMark int
	match     search.Match
	found     bool
}

// Option configures a Search.
type Option func(*Search)

// WithContext bounds every scan by ctx.
func WithContext(ctx context.Context) Option {
	return func(s *Search) {
		if ctx != nil {
			s.ctx = ctx
		}
	}
}

// WithClipboard sets the clipboard read by YankClipboard.
func WithClipboard(c Clipboard) Option {
	return func(s *Search) { s.clip = c }
}

// WithLast shares the last-search memory. Repeating with an empty needle
// reuses it and committing updates it.
func WithLast(l *Last) Option {
	return func(s *Search) { s.last = l }
}

// WithFlags sets the initial flags.
func WithFlags(f search.Flags) Option {
	return func(s *Search) { s.flags = f &^ search.Wrapped }
}

// WithAbort sets the callback polled during long scans.
func WithAbort(fn func() bool) Option {
	return func(s *Search) { s.abort = fn }
}

// WithPollInterval sets how many bytes are scanned between abort polls.
func WithPollInterval(n int) Option {
	return func(s *Search) { s.poll = n }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Search) {
		if l != nil {
			s.logger = l
		}
	}
}

// New starts a search in direction dir from the target's point.
func New(t Target, dir search.Direction, opts ...Option) *Search {
	s := &Search{
		target:    t,
		ctx:       context.Background(),
		logger:    logging.NullLogger,
		state:     Active,
		dir:       dir,
		start:     t.Point(),
		savedMark: t.Buffer().Mark(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the machine state.
func (s *Search) State() State {
	if s.state == Active && s.failed {
		return Failed
	}
	return s.state
}

// Done reports whether the search was committed or cancelled.
func (s *Search) Done() bool { return s.state == Idle || s.state == Exited }

// Repost reports whether the key that ended the search should run as a
// normal command.
func (s *Search) Repost() bool { return s.repost }

// Err returns the error of the last failed scan other than not found.
func (s *Search) Err() error { return s.err }

// Flags returns the active flags, with Wrapped set after a wrap.
func (s *Search) Flags() search.Flags {
	if s.wrapped {
		return s.flags | search.Wrapped
	}
	return s.flags
}

// Direction returns the direction of the current scan.
func (s *Search) Direction() search.Direction {
	_, dir, _ := s.origin()
	return dir
}

// Start returns the offset the search started from.
func (s *Search) Start() int { return s.start }

// Match returns the current match, if any.
func (s *Search) Match() (search.Match, bool) { return s.match, s.found && !s.failed }

// Needle returns the typed code points.
func (s *Search) Needle() []rune {
	var out []rune
	for _, tok := range s.tokens {
		if !tok.anchor {
			out = append(out, tok.r)
		}
	}
	return out
}

// Prompt renders the minibuffer prompt for the current state.
func (s *Search) Prompt() string {
	var sb strings.Builder
	if s.failed {
		sb.WriteString("Failing ")
	}
	if s.wrapped {
		sb.WriteString("Wrapped ")
	}
	sb.WriteString("I-search")
	if s.Direction() == search.Backward {
		sb.WriteString(" backward")
	}
	if names := s.flags.Names(); len(names) > 0 {
		sb.WriteString(" [" + strings.Join(names, " ") + "]")
	}
	sb.WriteString(": ")
	for _, r := range s.Needle() {
		if r < 0x20 {
			sb.WriteByte('^')
			sb.WriteRune(r + '@')
			continue
		}
		sb.WriteRune(r)
	}
	if s.state == Quoting {
		sb.WriteString("^Q")
	}
	return sb.String()
}

// Handle applies one input event.
func (s *Search) Handle(ev Event) {
	if s.Done() {
		return
	}
	if s.state == Quoting {
		s.state = Active
		if ev.Kind == Char {
			s.appendRunes([]rune{ev.Rune})
			return
		}
	}

	switch ev.Kind {
	case Char:
		s.appendRunes([]rune{ev.Rune})
	case Backspace:
		s.backspace()
	case RepeatForward:
		s.repeat(search.Forward)
	case RepeatBackward:
		s.repeat(search.Backward)
	case YankWord:
		s.yank(s.wordAhead())
	case YankLine:
		s.yank(s.lineAhead())
	case YankClipboard:
		s.yankClipboard()
	case ToggleCase:
		s.flags = (s.flags ^ search.IgnoreCase) &^ search.SmartCase
		s.run()
	case ToggleWord:
		s.flags ^= search.Word
		s.run()
	case ToggleRegex:
		s.flags ^= search.Regex
		s.run()
	case ToggleHex:
		s.toggleHex()
		s.run()
	case LiteralNext:
		s.state = Quoting
	case Cancel:
		s.cancel()
	case Commit, Finish:
		s.commit(ev.Kind == Commit)
	}
}

// origin returns the offset, direction and wrap state of the last anchor,
// or of the search start when there is none.
func (s *Search) origin() (int, search.Direction, bool) {
	for i := len(s.tokens) - 1; i >= 0; i-- {
		if tok := s.tokens[i]; tok.anchor {
			return tok.off, tok.dir, tok.wrapped
		}
	}
	return s.start, s.dir, false
}

// pattern converts the typed code points into the needle passed to the
// search primitive.
func (s *Search) pattern() ([]rune, error) {
	typed := s.Needle()
	switch {
	case s.flags&search.Hex != 0:
		digits := strings.Join(strings.Fields(string(typed)), "")
		return search.ParseHex(digits[:len(digits)&^1])
	case s.flags&search.UniHex != 0:
		return search.ParseUniHex(string(typed))
	}
	return typed, nil
}

// run searches from the current origin and moves the target to the match.
func (s *Search) run() {
	t := s.target
	off, dir, _ := s.origin()
	s.err = nil

	needle, err := s.pattern()
	if err != nil {
		s.failed = true
		s.err = err
		return
	}
	if len(needle) == 0 {
		s.failed = false
		s.found = false
		t.ClearHighlight()
		t.SetPoint(off)
		return
	}

	m, err := search.Search(s.ctx, t.Buffer(), off, -1, dir, s.flags&^search.Wrapped, needle, search.Options{
		IsWord:       t.IsWord(),
		Abort:        s.abort,
		PollInterval: s.poll,
	})
	if err != nil {
		s.failed = true
		if !errors.Is(err, search.ErrNotFound) {
			s.err = err
			s.logger.Debug("isearch: %v", err)
		}
		return
	}
	s.failed = false
	s.found = true
	s.match = m
	t.SetHighlight(m.Begin, m.End)
	if dir == search.Forward {
		t.SetPoint(m.End)
	} else {
		t.SetPoint(m.Begin)
	}
}

func (s *Search) appendRunes(rs []rune) {
	if len(rs) == 0 {
		return
	}
	for _, r := range rs {
		s.tokens = append(s.tokens, token{r: r})
	}
	s.wrapped = false
	s.run()
}

func (s *Search) backspace() {
	if len(s.tokens) == 0 {
		return
	}
	popped := s.tokens[len(s.tokens)-1]
	s.tokens = s.tokens[:len(s.tokens)-1]
	if popped.anchor {
		_, _, s.wrapped = s.origin()
	} else {
		s.wrapped = false
	}
	s.run()
}

// repeat pushes an anchor past the current match and searches again. A
// scan that runs off the end restarts from the other end of the buffer.
func (s *Search) repeat(dir search.Direction) {
	if len(s.Needle()) == 0 {
		s.dir = dir
		if s.last != nil && len(s.last.Needle) > 0 {
			s.flags = s.last.Flags &^ search.Wrapped
			s.appendRunes(s.last.Needle)
		}
		return
	}
	if s.failed {
		s.wrapTo(dir)
		return
	}

	off := s.target.Point()
	if s.found {
		off = s.match.End
		if dir == search.Backward {
			off = s.match.Begin
		}
	}
	s.tokens = append(s.tokens, token{anchor: true, off: off, dir: dir, wrapped: s.wrapped})
	s.run()
	if s.failed && s.err == nil {
		s.tokens = s.tokens[:len(s.tokens)-1]
		s.wrapTo(dir)
	}
}

func (s *Search) wrapTo(dir search.Direction) {
	off := 0
	if dir == search.Backward {
		off = s.target.Buffer().Size()
	}
	s.wrapped = true
	s.tokens = append(s.tokens, token{anchor: true, off: off, dir: dir, wrapped: true})
	s.run()
}

// toggleHex cycles plain, hex bytes and hex code points.
func (s *Search) toggleHex() {
	switch {
	case s.flags&search.Hex != 0:
		s.flags = s.flags&^search.Hex | search.UniHex
	case s.flags&search.UniHex != 0:
		s.flags &^= search.UniHex
	default:
		s.flags |= search.Hex
	}
}

func (s *Search) cancel() {
	t := s.target
	t.ClearHighlight()
	t.Buffer().SetMark(s.savedMark)
	t.SetPoint(s.start)
	s.state = Idle
}

func (s *Search) commit(repost bool) {
	t := s.target
	t.ClearHighlight()
	t.Buffer().SetMark(s.start)
	if needle := s.Needle(); len(needle) > 0 && s.last != nil {
		s.last.Needle = needle
		s.last.Flags = s.flags
		s.last.Dir = s.Direction()
	}
	s.repost = repost
	s.state = Exited
}
