package search

import (
	"context"
	"errors"
	"testing"

	"github.com/dshills/qemacs/internal/engine/buffer"
	"github.com/dshills/qemacs/internal/engine/charset"
)

func find(t *testing.T, src Source, start int, dir Direction, flags Flags, needle string) (Match, error) {
	t.Helper()
	return Search(context.Background(), src, start, -1, dir, flags, []rune(needle), Options{})
}

func allForward(t *testing.T, src Source, flags Flags, needle string) []int {
	t.Helper()
	var begins []int
	for start := 0; ; {
		m, err := find(t, src, start, Forward, flags, needle)
		if err != nil {
			break
		}
		begins = append(begins, m.Begin)
		start = m.End
	}
	return begins
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSmartCase(t *testing.T) {
	b := buffer.NewFromString("Foo foo FOO")
	tests := []struct {
		needle string
		want   []int
	}{
		{"foo", []int{0, 4, 8}},
		{"Foo", []int{0}},
	}
	for _, tt := range tests {
		if got := allForward(t, b, SmartCase, tt.needle); !equalInts(got, tt.want) {
			t.Errorf("%q: matches at %v, want %v", tt.needle, got, tt.want)
		}
	}
}

func TestIgnoreCase(t *testing.T) {
	b := buffer.NewFromString("Straße STRASSE straße")
	got := allForward(t, b, IgnoreCase, "STRAßE")
	if !equalInts(got, []int{0, 16}) {
		t.Errorf("matches at %v", got)
	}
}

func TestRoundTrip(t *testing.T) {
	b := buffer.NewFromString("alpha beta\ngamma beta délta beta")
	tests := []struct {
		needle string
		flags  Flags
	}{
		{"beta", 0},
		{"BETA", IgnoreCase},
		{"délta", 0},
		{"beta", Word},
		{"g.mma", Regex},
	}
	for _, tt := range tests {
		for start := 0; start < b.Size(); start += 3 {
			m, err := find(t, b, start, Forward, tt.flags, tt.needle)
			if err != nil {
				continue
			}
			back, err := find(t, b, m.End, Backward, tt.flags, tt.needle)
			if err != nil {
				t.Errorf("%q from %d: backward from %d failed: %v", tt.needle, start, m.End, err)
				continue
			}
			if back != m {
				t.Errorf("%q: forward %+v, backward %+v", tt.needle, m, back)
			}
		}
	}
}

func TestBackwardLatest(t *testing.T) {
	b := buffer.NewFromString("abcabc")
	tests := []struct {
		start int
		want  Match
	}{
		{6, Match{3, 6}},
		{5, Match{0, 3}},
		{3, Match{0, 3}},
	}
	for _, tt := range tests {
		m, err := find(t, b, tt.start, Backward, 0, "abc")
		if err != nil || m != tt.want {
			t.Errorf("backward from %d = %+v, %v; want %+v", tt.start, m, err, tt.want)
		}
	}
	if _, err := find(t, b, 2, Backward, 0, "abc"); !errors.Is(err, ErrNotFound) {
		t.Errorf("backward from 2 = %v", err)
	}
}

func TestWord(t *testing.T) {
	b := buffer.NewFromString("cat concat cat_x cat")
	got := allForward(t, b, Word, "cat")
	if !equalInts(got, []int{0, 17}) {
		t.Errorf("word matches at %v", got)
	}

	custom := Options{IsWord: func(r rune) bool { return r >= 'a' && r <= 'z' }}
	m, err := Search(context.Background(), b, 1, -1, Forward, Word, []rune("cat"), custom)
	if err != nil || m.Begin != 11 {
		t.Errorf("custom word predicate: %+v, %v", m, err)
	}
}

func TestHex(t *testing.T) {
	b := buffer.NewFromString("AB\x00C")
	needle, err := ParseHex("00 43")
	if err != nil {
		t.Fatal(err)
	}
	m, err := Search(context.Background(), b, 0, -1, Forward, Hex, needle, Options{})
	if err != nil || m != (Match{2, 4}) {
		t.Errorf("hex search = %+v, %v", m, err)
	}
	if got := FormatHex(needle); got != "00 43" {
		t.Errorf("FormatHex = %q", got)
	}
}

func TestHexMatchesInsideCharacters(t *testing.T) {
	b := buffer.NewFromString("xé")
	// é is C3 A9 in UTF-8; A9 alone is not a character boundary.
	needle, _ := ParseHex("a9")
	m, err := Search(context.Background(), b, 0, -1, Forward, Hex, needle, Options{})
	if err != nil || m != (Match{2, 3}) {
		t.Errorf("hex search = %+v, %v", m, err)
	}
}

func TestUniHex(t *testing.T) {
	b := buffer.NewFromString("a☺b")
	needle, err := ParseUniHex("263a")
	if err != nil {
		t.Fatal(err)
	}
	m, err := Search(context.Background(), b, 0, -1, Forward, UniHex, needle, Options{})
	if err != nil || m != (Match{1, 4}) {
		t.Errorf("unihex search = %+v, %v", m, err)
	}
}

func TestParseHexErrors(t *testing.T) {
	for _, s := range []string{"abc", "zz"} {
		if _, err := ParseHex(s); !errors.Is(err, ErrBadHex) {
			t.Errorf("ParseHex(%q) = %v", s, err)
		}
	}
	if _, err := ParseUniHex("110000"); !errors.Is(err, ErrBadHex) {
		t.Errorf("ParseUniHex out of range = %v", err)
	}
}

func TestRegex(t *testing.T) {
	b := buffer.NewFromString("foo123bar")
	tests := []struct {
		name  string
		start int
		dir   Direction
		flags Flags
		expr  string
		want  Match
	}{
		{"digits", 0, Forward, Regex, "[0-9]+", Match{3, 6}},
		{"case fold", 0, Forward, Regex | IgnoreCase, "BAR", Match{6, 9}},
		{"backward", 9, Backward, Regex, "o+", Match{2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := find(t, b, tt.start, tt.dir, tt.flags, tt.expr)
			if err != nil || m != tt.want {
				t.Errorf("got %+v, %v; want %+v", m, err, tt.want)
			}
		})
	}

	if _, err := find(t, b, 0, Forward, Regex, "("); err == nil {
		t.Error("invalid regex should fail")
	}
}

func TestLimit(t *testing.T) {
	b := buffer.NewFromString("aaa")
	_, err := Search(context.Background(), b, 0, 2, Forward, 0, []rune("aaa"), Options{})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("match past limit = %v", err)
	}
}

func TestDOSLineBreak(t *testing.T) {
	b := buffer.NewFromString("xa\nb", buffer.WithEOL(charset.EOLDOS))
	m, err := find(t, b, 0, Forward, 0, "a\nb")
	if err != nil || m != (Match{1, 5}) {
		t.Errorf("search across CRLF = %+v, %v", m, err)
	}
}

func TestAbort(t *testing.T) {
	b := buffer.NewFromString("xxxxxxxxxxxxxxxx")
	polls := 0
	opts := Options{
		PollInterval: 4,
		Abort: func() bool {
			polls++
			return polls == 2
		},
	}
	_, err := Search(context.Background(), b, 0, -1, Forward, 0, []rune("y"), opts)
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("err = %v, want ErrAborted", err)
	}
	if b.Text() != "xxxxxxxxxxxxxxxx" {
		t.Error("abort must leave the buffer untouched")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Search(ctx, b, 0, -1, Forward, 0, []rune("y"), Options{PollInterval: 1})
	if !errors.Is(err, ErrAborted) {
		t.Errorf("canceled context = %v", err)
	}
}

func TestEmptyNeedle(t *testing.T) {
	b := buffer.NewFromString("abc")
	if _, err := find(t, b, 0, Forward, 0, ""); !errors.Is(err, ErrEmptyNeedle) {
		t.Errorf("err = %v", err)
	}
}

func TestFlagsNames(t *testing.T) {
	f := IgnoreCase | Word | Wrapped
	if got := f.String(); got != "case-fold|word|wrapped" {
		t.Errorf("String = %q", got)
	}
	if !f.Has(IgnoreCase | Word) {
		t.Error("Has should report both flags")
	}
	if SmartCase.Effective([]rune("abc"))&IgnoreCase == 0 {
		t.Error("lower case needle should fold")
	}
	if (SmartCase | IgnoreCase).Effective([]rune("aBc"))&IgnoreCase != 0 {
		t.Error("mixed case needle should not fold")
	}
}
