package page

import (
	"bytes"
	"fmt"
	"io"
	"slices"
)

// Store is an ordered, non-empty sequence of pages.
//
// The store is not safe for concurrent use; a buffer owns its store
// exclusively.
type Store struct {
	pages    []*Page
	size     int
	cfg      Config
	measurer Measurer
	boundary BoundaryFunc
	release  func() error

	// Locate cache: pages[hint] starts at hintStart.
	hint      int
	hintStart int
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		cfg:      DefaultConfig(),
		measurer: MeasureFunc(byteMetrics),
		boundary: byteBoundary,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reset()
	return s
}

func byteMetrics(p []byte) Metrics {
	lines := bytes.Count(p, []byte{'\n'})
	col := len(p)
	if i := bytes.LastIndexByte(p, '\n'); i >= 0 {
		col = len(p) - i - 1
	}
	return Metrics{Lines: lines, Col: col, Chars: len(p)}
}

func byteBoundary(p []byte, target int) int {
	return max(0, min(target, len(p)))
}

func (s *Store) reset() {
	s.pages = []*Page{{data: nil, kind: Owned}}
	s.size = 0
	s.hint, s.hintStart = 0, 0
}

// Size returns the total number of bytes.
func (s *Store) Size() int { return s.size }

// Fits reports whether the store can grow by n bytes without passing its
// size limit.
func (s *Store) Fits(n int) bool {
	return n <= 0 || s.cfg.MaxSize <= 0 || s.size+n <= s.cfg.MaxSize
}

// NumPages returns the number of pages.
func (s *Store) NumPages() int { return len(s.pages) }

// Page returns page i.
func (s *Store) Page(i int) *Page { return s.pages[i] }

// Config returns the page sizing.
func (s *Store) Config() Config { return s.cfg }

// SetMeasurer replaces the metrics function and invalidates every page.
func (s *Store) SetMeasurer(m Measurer) {
	s.measurer = m
	for _, p := range s.pages {
		p.invalidate()
	}
}

// SetBoundary replaces the character boundary function.
func (s *Store) SetBoundary(b BoundaryFunc) {
	s.boundary = b
}

// Metrics returns the counters of page i, recomputing them if stale.
func (s *Store) Metrics(i int) Metrics {
	p := s.pages[i]
	if !p.valid {
		p.metrics = s.measurer.Measure(p.data)
		p.valid = true
	}
	return p.metrics
}

// Locate returns the index and start offset of the page containing off.
// An offset equal to Size maps to the end of the last page.
func (s *Store) Locate(off int) (idx, start int) {
	if off >= s.size {
		last := len(s.pages) - 1
		return last, s.size - s.pages[last].Len()
	}
	if off < 0 {
		off = 0
	}

	i, st := s.hint, s.hintStart
	if i >= len(s.pages) || off < st/2 {
		i, st = 0, 0
	}
	for off < st {
		i--
		st -= s.pages[i].Len()
	}
	for off >= st+s.pages[i].Len() {
		st += s.pages[i].Len()
		i++
	}
	s.hint, s.hintStart = i, st
	return i, st
}

// Read copies bytes starting at off into dst and returns the number of
// bytes copied. Reads past the end are clamped.
func (s *Store) Read(off int, dst []byte) int {
	if off < 0 || off >= s.size || len(dst) == 0 {
		return 0
	}
	n := min(len(dst), s.size-off)
	copied := 0
	s.Walk(off, n, func(chunk []byte) bool {
		copied += copy(dst[copied:], chunk)
		return true
	})
	return copied
}

// Bytes returns a copy of the range [off, off+n), clamped to the store.
func (s *Store) Bytes(off, n int) []byte {
	off = max(0, min(off, s.size))
	n = max(0, min(n, s.size-off))
	out := make([]byte, n)
	s.Read(off, out)
	return out
}

// Walk calls fn with consecutive slices covering [off, off+n). The slices
// alias page memory and must not be retained or modified. Walk stops early
// when fn returns false.
func (s *Store) Walk(off, n int, fn func(chunk []byte) bool) {
	if off < 0 || n <= 0 || off >= s.size {
		return
	}
	n = min(n, s.size-off)
	idx, start := s.Locate(off)
	rel := off - start
	for n > 0 && idx < len(s.pages) {
		data := s.pages[idx].data[rel:]
		if len(data) > n {
			data = data[:n]
		}
		if len(data) > 0 && !fn(data) {
			return
		}
		n -= len(data)
		idx++
		rel = 0
	}
}

// WriteRange writes [off, off+n) to w.
func (s *Store) WriteRange(w io.Writer, off, n int) (int64, error) {
	var written int64
	var err error
	s.Walk(off, n, func(chunk []byte) bool {
		var m int
		m, err = w.Write(chunk)
		written += int64(m)
		return err == nil
	})
	return written, err
}

// Insert inserts data at off. The store is unchanged on error.
func (s *Store) Insert(off int, data []byte) error {
	if off < 0 || off > s.size {
		return fmt.Errorf("insert at %d: %w", off, ErrOutOfRange)
	}
	if len(data) == 0 {
		return nil
	}
	if !s.Fits(len(data)) {
		return ErrNoSpace
	}

	idx, start := s.Locate(off)
	p := s.pages[idx]
	rel := off - start

	switch {
	case p.Len()+len(data) <= s.cfg.Large:
		p.own(s.cfg)
		p.data = s.insertInto(p.data, rel, data)
		p.invalidate()

	case rel == 0 && idx > 0 && s.pages[idx-1].Len()+len(data) <= s.cfg.Large:
		// Extend the previous page instead of splitting this one.
		prev := s.pages[idx-1]
		prev.own(s.cfg)
		prev.data = s.insertInto(prev.data, prev.Len(), data)
		prev.invalidate()
		idx, start = idx-1, start-prev.Len()+len(data)

	case rel == p.Len() && idx+1 < len(s.pages) && s.pages[idx+1].Len()+len(data) <= s.cfg.Large:
		next := s.pages[idx+1]
		next.own(s.cfg)
		next.data = s.insertInto(next.data, 0, data)
		next.invalidate()

	default:
		combined := make([]byte, 0, p.Len()+len(data))
		combined = append(combined, p.data[:rel]...)
		combined = append(combined, data...)
		combined = append(combined, p.data[rel:]...)
		s.pages = slices.Replace(s.pages, idx, idx+1, s.chunk(combined)...)
	}

	s.size += len(data)
	s.hint, s.hintStart = idx, start
	return nil
}

// insertInto inserts src into dst at rel, reusing dst's capacity when possible.
func (s *Store) insertInto(dst []byte, rel int, src []byte) []byte {
	n := len(dst) + len(src)
	if n <= cap(dst) {
		dst = dst[:n]
		copy(dst[rel+len(src):], dst[rel:n-len(src)])
		copy(dst[rel:], src)
		return dst
	}
	out := make([]byte, n, s.cfg.capacity(n))
	copy(out, dst[:rel])
	copy(out[rel:], src)
	copy(out[rel+len(src):], dst[rel:])
	return out
}

// chunk splits data into balanced owned pages of at most Large bytes,
// cutting at character boundaries.
func (s *Store) chunk(data []byte) []*Page {
	if len(data) == 0 {
		return nil
	}
	count := (len(data) + s.cfg.Large - 1) / s.cfg.Large
	target := (len(data) + count - 1) / count

	pages := make([]*Page, 0, count+1)
	for len(data) > 0 {
		cut := len(data)
		if cut > s.cfg.Large {
			cut = s.boundary(data, target)
			if cut <= 0 {
				cut = target
			}
		}
		pages = append(pages, newOwned(data[:cut], s.cfg))
		data = data[cut:]
	}
	return pages
}

// Delete removes n bytes at off and returns them.
func (s *Store) Delete(off, n int) ([]byte, error) {
	if off < 0 || n < 0 || off+n > s.size {
		return nil, fmt.Errorf("delete [%d, %d): %w", off, off+n, ErrOutOfRange)
	}
	if n == 0 {
		return nil, nil
	}

	removed := make([]byte, n)
	s.Read(off, removed)

	idx, start := s.Locate(off)
	rel := off - start
	remaining := n
	end := idx
	var kept []*Page
	for remaining > 0 {
		p := s.pages[end]
		a := rel
		b := min(p.Len(), rel+remaining)
		remaining -= b - a
		if a > 0 || b < p.Len() {
			p.own(s.cfg)
			p.data = append(p.data[:a], p.data[b:]...)
			p.invalidate()
			kept = append(kept, p)
		}
		rel = 0
		end++
	}
	s.pages = slices.Replace(s.pages, idx, end, kept...)
	s.size -= n
	if len(s.pages) == 0 {
		s.reset()
		return removed, nil
	}

	// Coalesce small neighbors around the edit.
	if idx > 0 && s.mergeable(idx-1) {
		start -= s.pages[idx-1].Len()
		idx--
		s.merge(idx)
	}
	if s.mergeable(idx) {
		s.merge(idx)
	}
	if idx >= len(s.pages) {
		idx, start = 0, 0
	}
	s.hint, s.hintStart = idx, start
	return removed, nil
}

// mergeable reports whether pages i and i+1 should be coalesced.
func (s *Store) mergeable(i int) bool {
	if i < 0 || i+1 >= len(s.pages) {
		return false
	}
	a, b := s.pages[i].Len(), s.pages[i+1].Len()
	if a >= s.cfg.Small && b >= s.cfg.Small {
		return false
	}
	return a+b <= s.cfg.Large
}

func (s *Store) merge(i int) {
	a, b := s.pages[i], s.pages[i+1]
	a.own(s.cfg)
	a.data = s.insertInto(a.data, a.Len(), b.data)
	a.invalidate()
	s.pages = slices.Delete(s.pages, i+1, i+2)
}

// Write overwrites bytes starting at off with data, extending the store if
// data runs past the end. It returns the overwritten bytes. Writes starting
// past the end are rejected.
func (s *Store) Write(off int, data []byte) ([]byte, error) {
	if off < 0 || off > s.size {
		return nil, fmt.Errorf("write at %d: %w", off, ErrOutOfRange)
	}
	n := min(len(data), s.size-off)
	if !s.Fits(len(data) - n) {
		return nil, ErrNoSpace
	}

	old := make([]byte, n)
	s.Read(off, old)

	src, pos := data[:n], off
	for len(src) > 0 {
		idx, start := s.Locate(pos)
		p := s.pages[idx]
		p.own(s.cfg)
		c := copy(p.data[pos-start:], src)
		p.invalidate()
		src = src[c:]
		pos += c
	}
	if n < len(data) {
		if err := s.Insert(s.size, data[n:]); err != nil {
			return nil, err
		}
	}
	return old, nil
}

// Load replaces the contents with an owned copy of data.
func (s *Store) Load(data []byte) {
	s.Close()
	if len(data) == 0 {
		return
	}
	s.pages = s.chunk(data)
	s.size = len(data)
}

// LoadBorrowed replaces the contents with pages that borrow data without
// copying it. kind must be Mapped or Static. release is called by Close.
func (s *Store) LoadBorrowed(data []byte, kind Kind, release func() error) {
	s.Close()
	s.release = release
	if len(data) == 0 {
		return
	}
	pages := make([]*Page, 0, len(data)/s.cfg.Large+1)
	for rest := data; len(rest) > 0; {
		cut := len(rest)
		if cut > s.cfg.Large {
			cut = s.boundary(rest, s.cfg.Large)
			if cut <= 0 {
				cut = s.cfg.Large
			}
		}
		pages = append(pages, &Page{data: rest[:cut:cut], kind: kind})
		rest = rest[cut:]
	}
	s.pages = pages
	s.size = len(data)
}

// Borrowed reports how many pages still reference borrowed memory.
func (s *Store) Borrowed() int {
	n := 0
	for _, p := range s.pages {
		if p.kind != Owned {
			n++
		}
	}
	return n
}

// Close drops every page and releases any file mapping.
func (s *Store) Close() error {
	var err error
	if s.release != nil {
		err = s.release()
		s.release = nil
	}
	s.reset()
	return err
}

// Check verifies the structural invariants of the store.
func (s *Store) Check() error {
	if len(s.pages) == 0 {
		return fmt.Errorf("%w: no pages", ErrCorrupt)
	}
	sum := 0
	for i, p := range s.pages {
		if p.Len() == 0 && len(s.pages) > 1 {
			return fmt.Errorf("%w: empty page %d", ErrCorrupt, i)
		}
		sum += p.Len()
	}
	if sum != s.size {
		return fmt.Errorf("%w: pages sum to %d, size is %d", ErrCorrupt, sum, s.size)
	}
	return nil
}
