package charset

import (
	"encoding/binary"
	"unicode/utf8"
)

// byteOrder is satisfied by binary.LittleEndian and binary.BigEndian.
type byteOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// UCS is a fixed width 2 or 4 byte encoding of code points.
type UCS struct {
	name  string
	width int
	order byteOrder
}

// NewUCS2 returns the UCS-2 charset. Code points above U+FFFF encode as '?'.
func NewUCS2(bigEndian bool) *UCS {
	if bigEndian {
		return &UCS{name: "ucs-2be", width: 2, order: binary.BigEndian}
	}
	return &UCS{name: "ucs-2le", width: 2, order: binary.LittleEndian}
}

// NewUCS4 returns the UCS-4 charset.
func NewUCS4(bigEndian bool) *UCS {
	if bigEndian {
		return &UCS{name: "ucs-4be", width: 4, order: binary.BigEndian}
	}
	return &UCS{name: "ucs-4le", width: 4, order: binary.LittleEndian}
}

func (u *UCS) Name() string { return u.name }

func (u *UCS) Decode(p []byte) (rune, int) {
	if len(p) == 0 {
		return utf8.RuneError, 0
	}
	if len(p) < u.width {
		return utf8.RuneError, len(p)
	}
	return u.unit(p[:u.width]), u.width
}

func (u *UCS) DecodeLast(p []byte) (rune, int) {
	if len(p) < u.width {
		return utf8.RuneError, len(p)
	}
	return u.unit(p[len(p)-u.width:]), u.width
}

func (u *UCS) unit(p []byte) rune {
	if u.width == 2 {
		return rune(u.order.Uint16(p))
	}
	r := rune(u.order.Uint32(p))
	if !utf8.ValidRune(r) {
		return utf8.RuneError
	}
	return r
}

func (u *UCS) Encode(dst []byte, r rune) []byte {
	if u.width == 2 {
		if r > 0xFFFF {
			r = '?'
		}
		return u.order.AppendUint16(dst, uint16(r))
	}
	return u.order.AppendUint32(dst, uint32(r))
}

func (u *UCS) Unit() int { return u.width }

func (u *UCS) Boundary(p []byte, target int) int {
	target = clamp(target, 0, len(p))
	return target - target%u.width
}
