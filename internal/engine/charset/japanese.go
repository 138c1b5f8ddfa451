package charset

import (
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
)

// Multibyte is a 1-3 byte Japanese encoding. The length of a character is
// determined by its lead byte; the x/text codec does the table work.
type Multibyte struct {
	name    string
	length  func(lead byte) int
	decoder *encoding.Decoder
	encoder *encoding.Encoder
}

// NewShiftJIS returns the Shift-JIS charset.
func NewShiftJIS() *Multibyte {
	return &Multibyte{
		name:    "shift-jis",
		length:  sjisLength,
		decoder: japanese.ShiftJIS.NewDecoder(),
		encoder: japanese.ShiftJIS.NewEncoder(),
	}
}

// NewEUCJP returns the EUC-JP charset.
func NewEUCJP() *Multibyte {
	return &Multibyte{
		name:    "euc-jp",
		length:  eucjpLength,
		decoder: japanese.EUCJP.NewDecoder(),
		encoder: japanese.EUCJP.NewEncoder(),
	}
}

func sjisLength(b byte) int {
	if (b >= 0x81 && b <= 0x9F) || (b >= 0xE0 && b <= 0xFC) {
		return 2
	}
	return 1
}

func eucjpLength(b byte) int {
	switch {
	case b == 0x8E:
		return 2
	case b == 0x8F:
		return 3
	case b >= 0xA1 && b <= 0xFE:
		return 2
	default:
		return 1
	}
}

func (m *Multibyte) Name() string { return m.name }

func (m *Multibyte) Decode(p []byte) (rune, int) {
	if len(p) == 0 {
		return utf8.RuneError, 0
	}
	if p[0] < utf8.RuneSelf {
		return rune(p[0]), 1
	}
	n := m.length(p[0])
	if n > len(p) {
		return utf8.RuneError, len(p)
	}
	out, err := m.decoder.Bytes(p[:n])
	if err != nil || len(out) == 0 {
		return utf8.RuneError, n
	}
	r, _ := utf8.DecodeRune(out)
	return r, n
}

// DecodeLast is not possible: trail bytes overlap with lead bytes.
func (m *Multibyte) DecodeLast(p []byte) (rune, int) {
	return utf8.RuneError, 0
}

func (m *Multibyte) Encode(dst []byte, r rune) []byte {
	if r < utf8.RuneSelf {
		return append(dst, byte(r))
	}
	out, err := m.encoder.Bytes(utf8.AppendRune(nil, r))
	if err != nil {
		return append(dst, '?')
	}
	return append(dst, out...)
}

func (m *Multibyte) Unit() int { return 1 }

func (m *Multibyte) Boundary(p []byte, target int) int {
	target = clamp(target, 0, len(p))
	pos := 0
	for pos < target {
		n := m.length(p[pos])
		if pos+n > target {
			break
		}
		pos += n
	}
	return pos
}
