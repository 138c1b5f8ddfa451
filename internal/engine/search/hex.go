package search

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrBadHex indicates a malformed hex needle.
var ErrBadHex = errors.New("invalid hex string")

// ParseHex parses byte values written as hex digits, with optional
// whitespace between bytes: "de ad BEEF".
func ParseHex(s string) ([]rune, error) {
	digits := strings.Join(strings.Fields(s), "")
	raw, err := hex.DecodeString(digits)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHex, err)
	}
	out := make([]rune, len(raw))
	for i, b := range raw {
		out[i] = rune(b)
	}
	return out, nil
}

// ParseUniHex parses whitespace separated code points written in hex:
// "41 263a 1f600".
func ParseUniHex(s string) ([]rune, error) {
	fields := strings.Fields(s)
	out := make([]rune, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(f), "u+"), 16, 32)
		if err != nil || !utf8.ValidRune(rune(v)) {
			return nil, fmt.Errorf("%w: %q", ErrBadHex, f)
		}
		out = append(out, rune(v))
	}
	return out, nil
}

// FormatHex renders byte values the way ParseHex reads them.
func FormatHex(needle []rune) string {
	var sb strings.Builder
	for i, r := range needle {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02x", byte(r))
	}
	return sb.String()
}
