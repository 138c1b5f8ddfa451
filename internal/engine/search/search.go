// Package search finds code point sequences in a buffer.
//
// Search scans forward for the earliest match or backward for the latest
// match ending at or before the start offset. Comparison is per code point
// (or per byte for hex needles) with optional case folding, whole-word
// checks and regular expressions. Long scans poll for cancellation every
// megabyte.
package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
)

// Errors returned by Search.
var (
	ErrNotFound    = errors.New("not found")
	ErrAborted     = errors.New("search aborted")
	ErrEmptyNeedle = errors.New("empty search string")
)

// DefaultPollInterval is the number of bytes scanned between abort polls.
const DefaultPollInterval = 1 << 20

// Source is the buffer view the search reads from.
type Source interface {
	Size() int
	Read(off int, dst []byte) int
	NextChar(off int) (rune, int)
	PrevChar(off int) (rune, int)
}

// Match is a found range [Begin, End) in byte offsets.
type Match struct {
	Begin int
	End   int
}

// Len returns the match length in bytes.
func (m Match) Len() int { return m.End - m.Begin }

// Options tune a search.
type Options struct {
	// IsWord classifies word characters for the Word flag.
	IsWord func(rune) bool
	// Abort is polled every PollInterval bytes; returning true aborts.
	Abort func() bool
	// PollInterval defaults to DefaultPollInterval.
	PollInterval int
}

// Search looks for needle in src.
//
// Forward scans start at start and only accept matches ending at or before
// limit. Backward scans accept the latest match that ends at or before
// start and begins at or after limit. A limit outside the buffer means the
// buffer end (forward) or start (backward).
func Search(ctx context.Context, src Source, start, limit int, dir Direction, flags Flags, needle []rune, opts Options) (Match, error) {
	if len(needle) == 0 {
		return Match{}, ErrEmptyNeedle
	}
	s, err := newSearcher(ctx, src, flags, needle, opts)
	if err != nil {
		return Match{}, err
	}

	size := src.Size()
	start = max(0, min(start, size))
	if dir == Backward {
		if limit < 0 || limit > start {
			limit = 0
		}
		return s.backward(start, limit)
	}
	if limit <= start || limit > size {
		limit = size
	}
	return s.forward(start, limit)
}

type searcher struct {
	ctx     context.Context
	src     Source
	flags   Flags
	needle  []rune
	re      *regexp.Regexp
	isWord  func(rune) bool
	abort   func() bool
	poll    int
	scanned int
	next    int
}

func newSearcher(ctx context.Context, src Source, flags Flags, needle []rune, opts Options) (*searcher, error) {
	flags = flags.Effective(needle)
	s := &searcher{
		ctx:    ctx,
		src:    src,
		flags:  flags,
		needle: needle,
		isWord: opts.IsWord,
		abort:  opts.Abort,
		poll:   opts.PollInterval,
	}
	if s.isWord == nil {
		s.isWord = DefaultIsWord
	}
	if s.poll <= 0 {
		s.poll = DefaultPollInterval
	}
	s.next = s.poll

	if flags&Regex != 0 && flags&(Hex|UniHex) == 0 {
		expr := string(needle)
		if flags&IgnoreCase != 0 {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(`\A(?:` + expr + `)`)
		if err != nil {
			return nil, fmt.Errorf("search: %w", err)
		}
		s.re = re
	}
	return s, nil
}

// tick accounts for n scanned bytes and polls for cancellation.
func (s *searcher) tick(n int) error {
	s.scanned += n
	if s.scanned < s.next {
		return nil
	}
	s.next = s.scanned + s.poll
	if s.ctx != nil && s.ctx.Err() != nil {
		return ErrAborted
	}
	if s.abort != nil && s.abort() {
		return ErrAborted
	}
	return nil
}

func (s *searcher) step(p int) int {
	if s.flags&Hex != 0 {
		return p + 1
	}
	_, next := s.src.NextChar(p)
	return next
}

func (s *searcher) stepBack(p int) int {
	if s.flags&Hex != 0 {
		return p - 1
	}
	_, prev := s.src.PrevChar(p)
	return prev
}

func (s *searcher) forward(start, limit int) (Match, error) {
	for p := start; p < limit; {
		if end, ok := s.matchAt(p, limit); ok && s.wordOK(p, end) {
			return Match{Begin: p, End: end}, nil
		}
		next := s.step(p)
		if next <= p {
			break
		}
		if err := s.tick(next - p); err != nil {
			return Match{}, err
		}
		p = next
	}
	return Match{}, ErrNotFound
}

func (s *searcher) backward(start, limit int) (Match, error) {
	for p := start; ; {
		if end, ok := s.matchAt(p, start); ok && s.wordOK(p, end) {
			return Match{Begin: p, End: end}, nil
		}
		if p <= limit {
			break
		}
		prev := s.stepBack(p)
		if prev >= p {
			break
		}
		if err := s.tick(p - prev); err != nil {
			return Match{}, err
		}
		p = prev
	}
	return Match{}, ErrNotFound
}

// matchAt returns the end of a match beginning at p that does not extend
// past hi.
func (s *searcher) matchAt(p, hi int) (int, bool) {
	if s.re != nil {
		return s.matchRegex(p, hi)
	}
	pos := p
	var b [1]byte
	for _, want := range s.needle {
		if pos >= hi {
			return 0, false
		}
		var got rune
		if s.flags&Hex != 0 {
			s.src.Read(pos, b[:])
			got = rune(b[0])
			pos++
		} else {
			got, pos = s.src.NextChar(pos)
		}
		if pos > hi || !s.equal(got, want) {
			return 0, false
		}
	}
	return pos, true
}

func (s *searcher) equal(got, want rune) bool {
	if got == want {
		return true
	}
	if s.flags&IgnoreCase != 0 && s.flags&(Hex|UniHex) == 0 {
		return foldEqual(got, want)
	}
	return false
}

func (s *searcher) matchRegex(p, hi int) (int, bool) {
	loc := s.re.FindReaderIndex(&runeReader{src: s.src, pos: p, end: hi})
	if loc == nil || loc[1] == 0 {
		return 0, false
	}
	return p + loc[1], true
}

func (s *searcher) wordOK(begin, end int) bool {
	if s.flags&Word == 0 {
		return true
	}
	if begin > 0 {
		if r, _ := s.src.PrevChar(begin); s.isWord(r) {
			return false
		}
	}
	if end < s.src.Size() {
		if r, _ := s.src.NextChar(end); s.isWord(r) {
			return false
		}
	}
	return true
}

// runeReader feeds buffer characters to the regexp engine. Sizes are raw
// byte counts so match indexes are buffer offsets relative to the start.
type runeReader struct {
	src Source
	pos int
	end int
}

func (r *runeReader) ReadRune() (rune, int, error) {
	if r.pos >= r.end {
		return 0, 0, io.EOF
	}
	c, next := r.src.NextChar(r.pos)
	if next > r.end {
		return 0, 0, io.EOF
	}
	size := next - r.pos
	r.pos = next
	return c, size, nil
}
