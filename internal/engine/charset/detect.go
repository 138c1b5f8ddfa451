package charset

import (
	"bytes"
	"unicode/utf8"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Detect guesses the charset of file content. BOM markers win, then valid
// UTF-8, then Latin-1 which accepts any byte sequence. UTF-16 files are
// opened as UCS-2.
func Detect(content []byte) Charset {
	switch {
	case len(content) == 0:
		return UTF8
	case bytes.HasPrefix(content, bomUTF8):
		return UTF8
	case bytes.HasPrefix(content, bomUTF16LE):
		return MustLookup("ucs-2le")
	case bytes.HasPrefix(content, bomUTF16BE):
		return MustLookup("ucs-2be")
	case utf8.Valid(content):
		return UTF8
	default:
		return MustLookup("iso-8859-1")
	}
}

// IsBinary reports whether content looks like binary data: a NUL byte in
// the first 8 KiB, or more than 10% control characters.
func IsBinary(content []byte) bool {
	sample := content
	if len(sample) > 8192 {
		sample = sample[:8192]
	}
	if len(sample) == 0 {
		return false
	}
	if bytes.IndexByte(sample, 0) >= 0 {
		return true
	}
	nonText := 0
	for _, b := range sample {
		if b < 32 && b != '\t' && b != '\n' && b != '\r' && b != '\f' {
			nonText++
		}
	}
	return nonText*10 > len(sample)
}
