package charset

import "unicode/utf8"

type utf8Charset struct{}

func (utf8Charset) Name() string { return "utf-8" }

func (utf8Charset) Decode(p []byte) (rune, int) {
	if len(p) == 0 {
		return utf8.RuneError, 0
	}
	if p[0] < utf8.RuneSelf {
		return rune(p[0]), 1
	}
	return utf8.DecodeRune(p)
}

func (utf8Charset) DecodeLast(p []byte) (rune, int) {
	if len(p) == 0 {
		return utf8.RuneError, 0
	}
	return utf8.DecodeLastRune(p)
}

func (utf8Charset) Encode(dst []byte, r rune) []byte {
	return utf8.AppendRune(dst, r)
}

func (utf8Charset) Unit() int { return 1 }

// Boundary moves target back to the lead byte of the valid sequence
// covering it. Bytes of invalid sequences decode one at a time, so they
// are boundaries themselves.
func (utf8Charset) Boundary(p []byte, target int) int {
	if target >= len(p) {
		return len(p)
	}
	if target <= 0 || p[target]&0xC0 != 0x80 {
		return max(target, 0)
	}
	for pos := target - 1; pos >= 0 && pos > target-utf8.UTFMax; pos-- {
		if p[pos]&0xC0 == 0x80 {
			continue
		}
		if _, n := utf8.DecodeRune(p[pos:]); n > 1 && pos+n > target {
			return pos
		}
		break
	}
	return target
}
