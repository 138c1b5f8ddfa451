package charset

import (
	"golang.org/x/text/encoding/charmap"
)

// Table is a fixed 8-bit charset driven by a 256 entry translation table.
type Table struct {
	name   string
	decode [256]rune
	encode map[rune]byte
}

// NewTable builds an 8-bit charset from an x/text charmap.
func NewTable(name string, cm *charmap.Charmap) *Table {
	t := &Table{name: name, encode: make(map[rune]byte, 256)}
	for i := 0; i < 256; i++ {
		r := cm.DecodeByte(byte(i))
		t.decode[i] = r
		if _, dup := t.encode[r]; !dup {
			t.encode[r] = byte(i)
		}
	}
	return t
}

func (t *Table) Name() string { return t.name }

func (t *Table) Decode(p []byte) (rune, int) {
	if len(p) == 0 {
		return 0, 0
	}
	return t.decode[p[0]], 1
}

func (t *Table) DecodeLast(p []byte) (rune, int) {
	if len(p) == 0 {
		return 0, 0
	}
	return t.decode[p[len(p)-1]], 1
}

func (t *Table) Encode(dst []byte, r rune) []byte {
	if b, ok := t.encode[r]; ok {
		return append(dst, b)
	}
	return append(dst, '?')
}

func (t *Table) Unit() int { return 1 }

func (t *Table) Boundary(p []byte, target int) int {
	return clamp(target, 0, len(p))
}

func registerTables() {
	Register(NewTable("iso-8859-1", charmap.ISO8859_1), "latin1", "iso8859-1")
	Register(NewTable("iso-8859-2", charmap.ISO8859_2), "latin2")
	Register(NewTable("iso-8859-15", charmap.ISO8859_15), "latin9", "latin0")
	Register(NewTable("cp1251", charmap.Windows1251), "windows-1251")
	Register(NewTable("cp1252", charmap.Windows1252), "windows-1252")
	Register(NewTable("cp437", charmap.CodePage437), "ibm437")
	Register(NewTable("koi8-r", charmap.KOI8R), "koi8r")
	Register(NewTable("mac-roman", charmap.Macintosh), "macintosh")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
