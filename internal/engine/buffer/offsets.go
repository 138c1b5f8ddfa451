package buffer

import (
	"unicode/utf8"

	"github.com/dshills/qemacs/internal/engine/charset"
	"github.com/dshills/qemacs/internal/engine/page"
)

// seekCache remembers a page index with the byte offset it starts at and
// the number of line breaks and characters before it. Sequential lookups
// start from here instead of from the first page.
type seekCache struct {
	idx   int
	start int
	lines int
	chars int
}

func (b *Buffer) pageLen(i int) int { return b.store.Page(i).Len() }

func (b *Buffer) back(c *seekCache) {
	c.idx--
	m := b.store.Metrics(c.idx)
	c.start -= b.pageLen(c.idx)
	c.lines -= m.Lines
	c.chars -= m.Chars
}

func (b *Buffer) forward(c *seekCache) {
	m := b.store.Metrics(c.idx)
	c.start += b.pageLen(c.idx)
	c.lines += m.Lines
	c.chars += m.Chars
	c.idx++
}

// seekByte positions the cache on the page containing byte offset off.
func (b *Buffer) seekByte(off int) seekCache {
	c := b.seek
	last := b.store.NumPages() - 1
	for c.idx > 0 && off < c.start {
		b.back(&c)
	}
	for c.idx < last && off >= c.start+b.pageLen(c.idx) {
		b.forward(&c)
	}
	b.seek = c
	return c
}

// seekChar positions the cache on the page containing character ch.
func (b *Buffer) seekChar(ch int) seekCache {
	c := b.seek
	last := b.store.NumPages() - 1
	for c.idx > 0 && ch < c.chars {
		b.back(&c)
	}
	for c.idx < last && ch >= c.chars+b.store.Metrics(c.idx).Chars {
		b.forward(&c)
	}
	b.seek = c
	return c
}

// seekBreak positions the cache on the page holding the n-th line break
// (1-based).
func (b *Buffer) seekBreak(n int) seekCache {
	c := b.seek
	last := b.store.NumPages() - 1
	for c.idx > 0 && c.lines >= n {
		b.back(&c)
	}
	for c.idx < last && c.lines+b.store.Metrics(c.idx).Lines < n {
		b.forward(&c)
	}
	b.seek = c
	return c
}

func (b *Buffer) totalMetrics() page.Metrics {
	if b.totals == nil {
		var m page.Metrics
		for i := 0; i < b.store.NumPages(); i++ {
			m = m.Add(b.store.Metrics(i))
		}
		b.totals = &m
	}
	return *b.totals
}

// CharCount returns the number of characters in the buffer.
func (b *Buffer) CharCount() int { return b.totalMetrics().Chars }

// LineCount returns the number of lines. A buffer always has at least one
// line; a trailing line break starts an empty last line.
func (b *Buffer) LineCount() int { return b.totalMetrics().Lines + 1 }

// CharOffset converts a byte offset to a character offset.
func (b *Buffer) CharOffset(off int) int {
	off = b.clamp(off)
	c := b.seekByte(off)
	data := b.store.Page(c.idx).Bytes()
	_, _, chars := charset.Scan(b.charset, b.eol, data[:off-c.start])
	return c.chars + chars
}

// ByteOffset converts a character offset to a byte offset. Offsets past
// the last character map to Size.
func (b *Buffer) ByteOffset(ch int) int {
	if ch <= 0 {
		return 0
	}
	if ch >= b.CharCount() {
		return b.store.Size()
	}
	c := b.seekChar(ch)
	data := b.store.Page(c.idx).Bytes()
	pos := 0
	for rem := ch - c.chars; rem > 0 && pos < len(data); rem-- {
		_, n := b.charset.Decode(data[pos:])
		pos += n
	}
	return c.start + pos
}

// LineOf returns the line containing byte offset off.
func (b *Buffer) LineOf(off int) int {
	off = b.clamp(off)
	c := b.seekByte(off)
	data := b.store.Page(c.idx).Bytes()
	lines, _, _ := charset.Scan(b.charset, b.eol, data[:off-c.start])
	return c.lines + lines
}

// LineStart returns the byte offset of the first character of line.
// Lines past the end map to Size.
func (b *Buffer) LineStart(line int) int {
	if line <= 0 {
		return 0
	}
	if line >= b.LineCount() {
		return b.store.Size()
	}
	c := b.seekBreak(line)
	data := b.store.Page(c.idx).Bytes()
	nl := b.eol.Break()
	need := line - c.lines
	for pos := 0; pos < len(data); {
		r, n := b.charset.Decode(data[pos:])
		pos += n
		if r == nl {
			need--
			if need == 0 {
				return c.start + pos
			}
		}
	}
	return b.store.Size()
}

// LineEnd returns the byte offset of the line terminator of line, or Size
// for the last line. For DOS text this is the offset of the CR.
func (b *Buffer) LineEnd(line int) int {
	if line+1 >= b.LineCount() {
		return b.store.Size()
	}
	next := b.LineStart(line + 1)
	_, prev := b.PrevChar(next)
	return prev
}

// LineCol returns the line and column of byte offset off. The column
// counts characters from the start of the line.
func (b *Buffer) LineCol(off int) (line, col int) {
	off = b.clamp(off)
	line = b.LineOf(off)
	col = b.CharOffset(off) - b.CharOffset(b.LineStart(line))
	return line, col
}

// GotoLineCol returns the byte offset of (line, col), clamped to the line.
func (b *Buffer) GotoLineCol(line, col int) int {
	line = max(0, min(line, b.LineCount()-1))
	off := b.LineStart(line)
	end := b.LineEnd(line)
	for ; col > 0 && off < end; col-- {
		_, off = b.NextChar(off)
	}
	return min(off, end)
}

// peek reads up to len(buf) bytes at off.
func (b *Buffer) peek(off int, buf []byte) []byte {
	return buf[:b.store.Read(off, buf)]
}

// NextChar decodes the character at off and returns it with the offset of
// the next character. Line breaks read as '\n'. At the end of the buffer it
// returns '\n' and Size.
func (b *Buffer) NextChar(off int) (rune, int) {
	size := b.store.Size()
	if off >= size {
		return '\n', size
	}
	off = max(off, 0)

	var buf [8]byte
	r, n := b.charset.Decode(b.peek(off, buf[:]))
	if n <= 0 {
		n = 1
	}
	next := off + n
	if r == '\r' {
		switch b.eol {
		case charset.EOLMac:
			r = '\n'
		case charset.EOLDOS:
			if lf, m := b.charset.Decode(b.peek(next, buf[:])); lf == '\n' && m > 0 {
				r = '\n'
				next += m
			}
		}
	}
	return r, next
}

// PrevChar decodes the character ending at off and returns it with its
// start offset. It is the inverse of NextChar on character boundaries.
// At offset 0 it returns '\n' and 0.
func (b *Buffer) PrevChar(off int) (rune, int) {
	if off <= 0 {
		return '\n', 0
	}
	off = min(off, b.store.Size())

	r, start := b.decodeBefore(off)
	switch {
	case r == '\n' && b.eol == charset.EOLDOS && start > 0:
		if cr, crStart := b.decodeBefore(start); cr == '\r' {
			start = crStart
		}
	case r == '\r' && b.eol == charset.EOLMac:
		r = '\n'
	}
	return r, start
}

// decodeBefore decodes the raw character ending at off.
func (b *Buffer) decodeBefore(off int) (rune, int) {
	var buf [8]byte
	k := min(off, len(buf))
	r, n := b.charset.DecodeLast(b.peek(off-k, buf[:k]))
	if n > 0 {
		return r, off - n
	}

	// Not decodable backwards: rescan from the start of the line.
	from := b.LineStart(b.LineOf(off - 1))
	r, start := utf8.RuneError, off-1
	for pos := from; pos < off; {
		var tmp [8]byte
		c, m := b.charset.Decode(b.peek(pos, tmp[:]))
		if m <= 0 {
			m = 1
		}
		r, start = c, pos
		pos += m
	}
	return r, start
}

// CharAt returns the character at byte offset off.
func (b *Buffer) CharAt(off int) rune {
	r, _ := b.NextChar(off)
	return r
}

// LineRunes decodes line without its terminator.
func (b *Buffer) LineRunes(line int) []rune {
	start := b.LineStart(line)
	end := b.LineEnd(line)
	return b.Runes(start, end)
}

// LineText returns line without its terminator.
func (b *Buffer) LineText(line int) string {
	return string(b.LineRunes(line))
}

// Runes decodes the characters of [start, end). Line breaks read as '\n'.
func (b *Buffer) Runes(start, end int) []rune {
	start, end = b.clamp(start), b.clamp(end)
	if end <= start {
		return nil
	}
	out := make([]rune, 0, end-start)
	for off := start; off < end; {
		r, next := b.NextChar(off)
		out = append(out, r)
		off = next
	}
	return out
}
