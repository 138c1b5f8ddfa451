package buffer

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/dshills/qemacs/internal/engine/page"
)

// styleShadow is a page store holding one fixed-width style cell per
// character unit of the primary buffer.
type styleShadow struct {
	store *page.Store
	width int
	pen   uint64
}

// EnableStyles allocates the style shadow with width bytes per cell.
// Every existing character starts with style 0.
func (b *Buffer) EnableStyles(width int) error {
	switch width {
	case 1, 2, 4, 8:
	default:
		return ErrStyleWidth
	}
	b.styles = &styleShadow{store: page.New(), width: width}
	b.styles.reset(b)
	return nil
}

// DisableStyles drops the style shadow.
func (b *Buffer) DisableStyles() {
	if b.styles != nil {
		b.styles.store.Close()
		b.styles = nil
	}
}

// StylesEnabled reports whether the style shadow exists.
func (b *Buffer) StylesEnabled() bool { return b.styles != nil }

// SetPen sets the style given to inserted characters.
func (b *Buffer) SetPen(style uint64) {
	if b.styles != nil {
		b.styles.pen = style
	}
}

// Pen returns the style given to inserted characters.
func (b *Buffer) Pen() uint64 {
	if b.styles == nil {
		return 0
	}
	return b.styles.pen
}

// SetStyle sets the style of the characters in [off, off+n). Style
// changes are not undoable.
func (b *Buffer) SetStyle(off, n int, style uint64) error {
	s := b.styles
	if s == nil || n <= 0 {
		return nil
	}
	if off < 0 || off+n > b.store.Size() {
		return ErrOffsetOutOfRange
	}
	first, last := s.cell(b, off), s.cell(b, off+n)
	if last <= first {
		return nil
	}
	_, err := s.store.Write(first, s.fill(style, (last-first)/s.width))
	return err
}

// StyleAt returns the style of the character at byte offset off.
func (b *Buffer) StyleAt(off int) uint64 {
	s := b.styles
	if s == nil || off < 0 || off >= b.store.Size() {
		return 0
	}
	var buf [8]byte
	s.store.Read(s.cell(b, off), buf[:s.width])
	return binary.LittleEndian.Uint64(buf[:])
}

// cell maps a primary byte offset to its shadow offset.
func (s *styleShadow) cell(b *Buffer, off int) int {
	return off / b.charset.Unit() * s.width
}

func (s *styleShadow) fill(style uint64, cells int) []byte {
	var one [8]byte
	binary.LittleEndian.PutUint64(one[:], style)
	return bytes.Repeat(one[:s.width], cells)
}

func (s *styleShadow) reset(b *Buffer) {
	cells := b.store.Size() / b.charset.Unit()
	s.store.Load(make([]byte, cells*s.width))
}

func (s *styleShadow) insert(b *Buffer, off, n int) {
	if s == nil {
		return
	}
	first, last := s.cell(b, off), s.cell(b, off+n)
	if last > first {
		if err := s.store.Insert(first, s.fill(s.pen, (last-first)/s.width)); err != nil {
			s.resync(b, "insert", err)
		}
	}
}

func (s *styleShadow) delete(b *Buffer, off, n int) {
	if s == nil {
		return
	}
	first, last := s.cell(b, off), s.cell(b, off+n)
	last = min(last, s.store.Size())
	if last > first {
		if _, err := s.store.Delete(first, last-first); err != nil {
			s.resync(b, "delete", err)
		}
	}
}

// resync rebuilds a shadow that could not follow a primary edit. The
// styles are lost but cell offsets line up with the buffer again.
func (s *styleShadow) resync(b *Buffer, op string, err error) {
	b.logger.Error("style shadow of %s: %s failed, styles reset: %v", b.name, op, err)
	s.reset(b)
}

// check reports whether the shadow holds one cell per character unit.
func (s *styleShadow) check(b *Buffer) error {
	if want := b.store.Size() / b.charset.Unit() * s.width; s.store.Size() != want {
		return fmt.Errorf("%w: style shadow holds %d bytes, want %d", ErrCorrupt, s.store.Size(), want)
	}
	return nil
}
