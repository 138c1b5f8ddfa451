package charset

import "strings"

// EOL is a line ending convention.
type EOL uint8

const (
	EOLUnix EOL = iota // \n
	EOLDOS             // \r\n
	EOLMac             // \r
)

// String returns the conventional name of the line ending.
func (e EOL) String() string {
	switch e {
	case EOLDOS:
		return "dos"
	case EOLMac:
		return "mac"
	default:
		return "unix"
	}
}

// Sequence returns the characters written for a line break.
func (e EOL) Sequence() string {
	switch e {
	case EOLDOS:
		return "\r\n"
	case EOLMac:
		return "\r"
	default:
		return "\n"
	}
}

// Break returns the character that terminates a line in raw text.
// For DOS text the LF of the CR LF pair ends the line.
func (e EOL) Break() rune {
	if e == EOLMac {
		return '\r'
	}
	return '\n'
}

// ParseEOL parses "unix"/"lf", "dos"/"crlf" and "mac"/"cr".
func ParseEOL(s string) (EOL, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unix", "lf", "":
		return EOLUnix, true
	case "dos", "crlf":
		return EOLDOS, true
	case "mac", "cr":
		return EOLMac, true
	default:
		return EOLUnix, false
	}
}

// DetectEOL returns the dominant line ending of raw UTF-8 or 8-bit data.
// Data without line breaks is reported as Unix.
func DetectEOL(data []byte) EOL {
	var lf, crlf, cr int
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case '\r':
			if i+1 < len(data) && data[i+1] == '\n' {
				crlf++
				i++
			} else {
				cr++
			}
		case '\n':
			lf++
		}
	}

	switch {
	case crlf > lf && crlf >= cr:
		return EOLDOS
	case cr > lf && cr > crlf:
		return EOLMac
	default:
		return EOLUnix
	}
}
