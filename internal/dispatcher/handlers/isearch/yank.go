package isearch

import (
	"strconv"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dshills/qemacs/internal/engine/search"
)

// yankFrom is where yanked text is read: the end of the current match, or
// the point when nothing matches.
func (s *Search) yankFrom() int {
	if s.found && !s.failed {
		return s.match.End
	}
	return s.target.Point()
}

// wordAhead returns the text from the yank position through the next word,
// using Unicode word boundaries.
func (s *Search) wordAhead() string {
	b := s.target.Buffer()
	from := s.yankFrom()
	text := b.TextRange(from, b.LineEnd(b.LineOf(from)))
	isWord := s.target.IsWord()

	var sb strings.Builder
	state := -1
	for len(text) > 0 {
		var seg string
		seg, text, state = uniseg.FirstWordInString(text, state)
		sb.WriteString(seg)
		if strings.IndexFunc(seg, isWord) >= 0 {
			break
		}
	}
	return sb.String()
}

// lineAhead returns the rest of the line from the yank position.
func (s *Search) lineAhead() string {
	b := s.target.Buffer()
	from := s.yankFrom()
	return b.TextRange(from, b.LineEnd(b.LineOf(from)))
}

func (s *Search) yankClipboard() {
	if s.clip == nil {
		return
	}
	text, err := s.clip.ReadText()
	if err != nil {
		s.logger.Warn("isearch: clipboard: %v", err)
		return
	}
	s.yank(text)
}

// yank appends text to the needle, spelled in hex when a hex flag is set.
func (s *Search) yank(text string) {
	if text == "" {
		return
	}
	switch {
	case s.flags&search.Hex != 0:
		raw := []byte(text)
		rs := make([]rune, len(raw))
		for i, c := range raw {
			rs[i] = rune(c)
		}
		text = " " + search.FormatHex(rs)
	case s.flags&search.UniHex != 0:
		var sb strings.Builder
		for _, r := range text {
			sb.WriteString(" " + strconv.FormatInt(int64(r), 16))
		}
		text = sb.String()
	}
	s.appendRunes([]rune(text))
}
