package buffer

import "sort"

// PropertyKind is the type of an offset-anchored property.
type PropertyKind uint8

const (
	// PropTag marks a named position, such as a compile error location.
	PropTag PropertyKind = iota
	// PropLineMarker marks a line, such as a bookmark or a diff hunk.
	PropLineMarker
)

// Property is a value attached to a byte offset. Offsets follow edits:
// text inserted before a property shifts it right, and deleting the text
// around it collapses it to the start of the deleted range.
type Property struct {
	Kind   PropertyKind
	Offset int
	Name   string
	Value  any
}

// AddProperty attaches p to the buffer.
func (b *Buffer) AddProperty(p Property) {
	p.Offset = b.clamp(p.Offset)
	i := sort.Search(len(b.props), func(i int) bool {
		return b.props[i].Offset > p.Offset
	})
	b.props = append(b.props, Property{})
	copy(b.props[i+1:], b.props[i:])
	b.props[i] = p
}

// Properties returns the properties of kind with offsets in [from, to),
// in offset order.
func (b *Buffer) Properties(kind PropertyKind, from, to int) []Property {
	var out []Property
	for _, p := range b.props {
		if p.Offset >= to {
			break
		}
		if p.Kind == kind && p.Offset >= from {
			out = append(out, p)
		}
	}
	return out
}

// RemoveProperties drops every property of kind and returns how many were
// removed.
func (b *Buffer) RemoveProperties(kind PropertyKind) int {
	kept := b.props[:0]
	for _, p := range b.props {
		if p.Kind != kind {
			kept = append(kept, p)
		}
	}
	n := len(b.props) - len(kept)
	clear(b.props[len(kept):])
	b.props = kept
	return n
}

func (b *Buffer) adjustInsert(off, n int) {
	b.mark = ShiftInserted(b.mark, off, n)
	for i := range b.props {
		b.props[i].Offset = ShiftInserted(b.props[i].Offset, off, n)
	}
}

func (b *Buffer) adjustDelete(off, n int) {
	b.mark = ShiftDeleted(b.mark, off, n)
	for i := range b.props {
		b.props[i].Offset = ShiftDeleted(b.props[i].Offset, off, n)
	}
}

// ShiftInserted moves pos to account for inserting n bytes at off. A
// position equal to off stays put.
func ShiftInserted(pos, off, n int) int {
	if pos > off {
		return pos + n
	}
	return pos
}

// ShiftDeleted moves pos to account for deleting [off, off+n).
func ShiftDeleted(pos, off, n int) int {
	switch {
	case pos >= off+n:
		return pos - n
	case pos > off:
		return off
	default:
		return pos
	}
}
