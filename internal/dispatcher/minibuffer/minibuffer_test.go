package minibuffer

import (
	"errors"
	"testing"

	"github.com/dshills/qemacs/internal/dispatcher/execctx"
	"github.com/dshills/qemacs/internal/input/key"
)

func typeKeys(t *testing.T, m *Minibuffer, keys string) execctx.ModalStatus {
	t.Helper()
	status := execctx.ModalContinue
	for _, ev := range key.MustParseSequence(keys) {
		status = m.HandleKey(ev)
	}
	return status
}

func TestEditing(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		keys    string
		want    string
		cursor  int
	}{
		{"type", "", "a b c", "abc", 3},
		{"initial kept", "foo", "x", "foox", 4},
		{"backspace", "abc", "DEL", "ab", 2},
		{"line begin insert", "bc", "C-a a", "abc", 1},
		{"delete forward", "abc", "C-a C-d", "bc", 0},
		{"kill to end", "abcdef", "C-b C-b C-b C-k", "abc", 3},
		{"quoted", "", "C-q C-j", "\n", 1},
		{"space", "", "a SPC b", "a b", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New("> ", tt.initial, nil)
			if st := typeKeys(t, m, tt.keys); st != execctx.ModalContinue {
				t.Fatalf("status = %v", st)
			}
			if m.Text() != tt.want || m.Cursor() != tt.cursor {
				t.Errorf("text = %q cursor %d, want %q cursor %d", m.Text(), m.Cursor(), tt.want, tt.cursor)
			}
		})
	}
}

func TestAccept(t *testing.T) {
	var got string
	var reported []string
	m := New("Find file: ", "/tmp/", func(s string) error {
		got = s
		return errors.New("no such file")
	}, WithReporter(func(s string) { reported = append(reported, s) }))

	if m.Prompt() != "Find file: /tmp/" || m.Label() != "Find file: " {
		t.Errorf("prompt = %q label %q", m.Prompt(), m.Label())
	}
	if st := typeKeys(t, m, "a RET"); st != execctx.ModalDone {
		t.Fatalf("status = %v", st)
	}
	if got != "/tmp/a" {
		t.Errorf("done got %q", got)
	}
	if len(reported) != 1 || reported[0] != "no such file" {
		t.Errorf("reported = %v", reported)
	}
}

func TestCancel(t *testing.T) {
	called, cancelled := false, false
	done := func(string) error {
		called = true
		return nil
	}
	m := New("> ", "", done, WithCancel(func() { cancelled = true }))
	if st := typeKeys(t, m, "a C-g"); st != execctx.ModalDone {
		t.Fatalf("status = %v", st)
	}
	if called || !cancelled {
		t.Errorf("called = %v cancelled = %v", called, cancelled)
	}
}

func TestCompletion(t *testing.T) {
	cands := []string{"file.save", "file.saveAll", "file.writeFile", "cursor.forwardChar"}
	tests := []struct {
		name    string
		initial string
		want    string
		note    string
	}{
		{"common prefix", "fi", "file.", ""},
		{"extends to shared stem", "file.s", "file.save", ""},
		{"sole", "cur", "cursor.forwardChar", MsgSole},
		{"none", "x", "x", MsgNoMatch},
		{"ambiguous", "file.save", "file.save", MsgNotUniq + " file.save file.saveAll"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			note := ""
			m := New("M-x ", tt.initial, nil,
				WithCompleter(Prefix(func() []string { return cands })),
				WithReporter(func(s string) { note = s }))
			typeKeys(t, m, "TAB")
			if m.Text() != tt.want || note != tt.note {
				t.Errorf("text = %q note %q, want %q note %q", m.Text(), note, tt.want, tt.note)
			}
		})
	}
}

func TestHistory(t *testing.T) {
	h := NewHistory(2)
	for _, s := range []string{"one", "two", "two", "", "three"} {
		h.Add(s)
	}
	if items := h.Items(); len(items) != 2 || items[0] != "two" || items[1] != "three" {
		t.Fatalf("items = %v", items)
	}

	m := New("> ", "", nil, WithHistory(h))
	typeKeys(t, m, "M-p")
	if m.Text() != "three" {
		t.Errorf("after M-p text = %q", m.Text())
	}
	typeKeys(t, m, "M-p M-p")
	if m.Text() != "two" {
		t.Errorf("after M-p M-p M-p text = %q", m.Text())
	}
	typeKeys(t, m, "M-n M-n")
	if m.Text() != "" {
		t.Errorf("back at the end text = %q", m.Text())
	}

	typeKeys(t, m, "f o u r RET")
	if h.Len() != 2 || h.At(1) != "four" {
		t.Errorf("accepted input not recorded: %v", h.Items())
	}
}

func TestCommonPrefix(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"abc"}, "abc"},
		{[]string{"abc", "abd"}, "ab"},
		{[]string{"héllo", "hélium"}, "hél"},
		{[]string{"x", "y"}, ""},
	}
	for _, tt := range tests {
		if got := CommonPrefix(tt.in); got != tt.want {
			t.Errorf("CommonPrefix(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
