// Package replace implements query-replace as a state machine.
//
// A Replace seeks the next match from its scan offset and prompts. Each
// answer either applies the replacement, skips the match, switches to
// replacing every remaining match, or stops. Every replacement is one undo
// group, so undoing Count() times restores the original text. Toggling a
// flag rewinds the scan to the last anchor and seeks again, even after the
// scan ran out of matches.
package replace

import (
	"context"
	"errors"
	"fmt"

	"github.com/dshills/qemacs/internal/engine/buffer"
	"github.com/dshills/qemacs/internal/engine/search"
	"github.com/dshills/qemacs/internal/logging"
)

// State is the machine state.
type State int

const (
	// Seeking is transient: the machine is looking for the next match.
	Seeking State = iota
	// Prompting waits for an answer about the current match.
	Prompting
	// Done means the scan ran out of matches or was stopped.
	Done
)

func (s State) String() string {
	switch s {
	case Seeking:
		return "seeking"
	case Prompting:
		return "prompting"
	case Done:
		return "done"
	}
	return "unknown"
}

// Answer is one input to a Replace.
type Answer int

const (
	// Accept replaces the current match and seeks the next one.
	Accept Answer = iota
	// Skip leaves the current match and seeks the next one.
	Skip
	// All replaces the current match and every later one.
	All
	// Last replaces the current match and stops.
	Last
	// Quit stops and leaves the point where it is.
	Quit
	// Cancel stops and returns the point to where the replace began.
	Cancel
	ToggleCase
	ToggleWord
	ToggleHex
)

// ErrReadOnly is returned by New for a read-only buffer.
var ErrReadOnly = errors.New("replace: buffer is read-only")

// Target is the window the replace runs in.
type Target interface {
	Buffer() *buffer.Buffer
	Point() int
	SetPoint(off int)
	SetHighlight(begin, end int)
	ClearHighlight()
	IsWord() func(rune) bool
}

// Replace is a query-replace in progress.
type Replace struct {
	target      Target
	ctx         context.Context
	abort       func() bool
	poll        int
	logger      *logging.Logger
	pattern     []rune
	replacement string
	flags       search.Flags

	state  State
	start  int
	scan   int
	anchor int
	match  search.Match
	all    bool
	count  int
	err    error
	// stopped is set when the user ended the replace, as opposed to the
	// scan running out of matches.
	stopped bool
}

// Option configures a Replace.
type Option func(*Replace)

// WithContext bounds every scan by ctx.
func WithContext(ctx context.Context) Option {
	return func(r *Replace) {
		if ctx != nil {
			r.ctx = ctx
		}
	}
}

// WithFlags sets the search flags, typically those of the last search.
func WithFlags(f search.Flags) Option {
	return func(r *Replace) { r.flags = f &^ search.Wrapped }
}

// WithAbort sets the callback polled during long scans.
func WithAbort(fn func() bool) Option {
	return func(r *Replace) { r.abort = fn }
}

// WithPollInterval sets how many bytes are scanned between abort polls.
func WithPollInterval(n int) Option {
	return func(r *Replace) { r.poll = n }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Replace) {
		if l != nil {
			r.logger = l
		}
	}
}

// New starts replacing pattern with replacement from the target's point
// and seeks the first match.
func New(t Target, pattern []rune, replacement string, opts ...Option) (*Replace, error) {
	if len(pattern) == 0 {
		return nil, search.ErrEmptyNeedle
	}
	if t.Buffer().ReadOnly() {
		return nil, ErrReadOnly
	}
	r := &Replace{
		target:      t,
		ctx:         context.Background(),
		logger:      logging.NullLogger,
		pattern:     pattern,
		replacement: replacement,
		start:       t.Point(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.scan = r.start
	r.anchor = r.start
	r.seek()
	return r, nil
}

// State returns the machine state.
func (r *Replace) State() State { return r.state }

// Count returns the number of replacements applied.
func (r *Replace) Count() int { return r.count }

// Flags returns the search flags in effect.
func (r *Replace) Flags() search.Flags { return r.flags }

// Match returns the match being prompted for.
func (r *Replace) Match() (search.Match, bool) { return r.match, r.state == Prompting }

// Err returns the error that ended the scan, if any.
func (r *Replace) Err() error { return r.err }

// Prompt renders the minibuffer question or the final report.
func (r *Replace) Prompt() string {
	if r.state == Done {
		return r.Report()
	}
	return fmt.Sprintf("Replace '%s' with '%s' (y, n, !, ., q)?", string(r.pattern), r.replacement)
}

// Report describes the outcome.
func (r *Replace) Report() string {
	if r.count == 1 {
		return "Replaced 1 occurrence"
	}
	return fmt.Sprintf("Replaced %d occurrences", r.count)
}

// Handle applies one answer. Toggles are accepted until the user stops
// the replace; other answers only while prompting.
func (r *Replace) Handle(a Answer) {
	if r.stopped {
		return
	}
	switch a {
	case ToggleCase:
		r.flags = (r.flags ^ search.IgnoreCase) &^ search.SmartCase
		r.rewind()
		return
	case ToggleWord:
		r.flags ^= search.Word
		r.rewind()
		return
	case ToggleHex:
		r.flags ^= search.Hex
		r.rewind()
		return
	}
	if r.state != Prompting {
		return
	}

	switch a {
	case Accept:
		if r.apply() {
			r.seek()
		}
	case Skip:
		r.scan = r.match.End
		r.seek()
	case All:
		r.all = true
		if r.apply() {
			r.seek()
		}
	case Last:
		r.apply()
		r.stop()
	case Quit:
		r.stop()
	case Cancel:
		r.stop()
		r.target.SetPoint(r.start)
	}
}

// rewind restarts the scan from the last anchor with the current flags.
func (r *Replace) rewind() {
	r.scan = r.anchor
	r.err = nil
	r.seek()
}

// seek finds the next match from the scan offset. With the replace-all
// latch set it keeps applying until the scan runs out.
func (r *Replace) seek() {
	t := r.target
	for {
		r.state = Seeking
		m, err := search.Search(r.ctx, t.Buffer(), r.scan, -1, search.Forward, r.flags, r.pattern, search.Options{
			IsWord:       t.IsWord(),
			Abort:        r.abort,
			PollInterval: r.poll,
		})
		if err != nil {
			if !errors.Is(err, search.ErrNotFound) {
				r.err = err
				r.logger.Debug("replace: %v", err)
			}
			r.finish()
			return
		}
		if m.Len() == 0 {
			// Empty regex matches are never replaced.
			if m.Begin >= t.Buffer().Size() {
				r.finish()
				return
			}
			_, r.scan = t.Buffer().NextChar(m.Begin)
			continue
		}
		r.match = m
		if !r.all {
			r.state = Prompting
			t.SetHighlight(m.Begin, m.End)
			t.SetPoint(m.End)
			return
		}
		if !r.apply() {
			return
		}
	}
}

// apply replaces the current match as one undo group and moves the scan
// and the anchor past the inserted text.
func (r *Replace) apply() bool {
	m := r.match
	n, err := r.target.Buffer().Replace(m.Begin, m.Len(), r.replacement)
	if err != nil {
		r.err = err
		r.logger.Warn("replace at %d: %v", m.Begin, err)
		r.stop()
		return false
	}
	r.count++
	end := m.Begin + n
	r.scan = end
	r.anchor = end
	r.target.SetPoint(end)
	return true
}

func (r *Replace) stop() {
	r.stopped = true
	r.finish()
}

func (r *Replace) finish() {
	r.state = Done
	r.target.ClearHighlight()
}
