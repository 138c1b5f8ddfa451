package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type host struct {
	vars   map[string]any
	visits []Visit
	fail   map[string]bool
}

func newHost() *host {
	return &host{vars: make(map[string]any), fail: make(map[string]bool)}
}

func (h *host) Variables() map[string]any { return h.vars }

func (h *host) SetVariable(name string, value any) error {
	if name == "readonly_thing" {
		return errors.New("read-only variable")
	}
	h.vars[name] = value
	return nil
}

func (h *host) Visits() []Visit { return h.visits }

func (h *host) Visit(path string, point int) error {
	if h.fail[path] {
		return os.ErrNotExist
	}
	h.visits = append(h.visits, Visit{path, point})
	return nil
}

func TestEval(t *testing.T) {
	h := newHost()
	err := Eval("s", `
-- comment
case_fold = true;
search_string = "ne\"edle";
tab_width = 4;
double = tab_width * 2;
visit("/a.go", 12);
visit("/b.go");
`, h)
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	want := map[string]any{"case_fold": true, "search_string": `ne"edle`, "tab_width": 4, "double": 8}
	for k, v := range want {
		if h.vars[k] != v {
			t.Errorf("%s = %v (%T), want %v", k, h.vars[k], h.vars[k], v)
		}
	}
	if len(h.visits) != 2 || h.visits[0] != (Visit{"/a.go", 12}) || h.visits[1] != (Visit{"/b.go", 0}) {
		t.Errorf("visits = %v", h.visits)
	}
}

func TestEvalErrors(t *testing.T) {
	h := newHost()
	h.fail["/gone"] = true
	err := Eval("s", `
readonly_thing = 1;
visit("/gone", 3);
ok = "yes";
list = { 1, 2 };
`, h)
	if err == nil {
		t.Fatal("errors not reported")
	}
	for _, part := range []string{"readonly_thing", "/gone", "list"} {
		if !strings.Contains(err.Error(), part) {
			t.Errorf("error %q does not mention %s", err, part)
		}
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("visit error not wrapped: %v", err)
	}
	if h.vars["ok"] != "yes" {
		t.Errorf("evaluation stopped early: %v", h.vars)
	}

	if err := Eval("s", `os.remove("/etc/passwd")`, newHost()); err == nil {
		t.Errorf("sandbox escape accepted")
	}
}

func TestWriteAndLoad(t *testing.T) {
	h := newHost()
	h.vars = map[string]any{
		"search_string": "a\"b\\c\nd\x01",
		"case_fold":     false,
		"tab_width":     8,
		"ratio":         0.5,
	}
	h.visits = []Visit{{"/x y/a.go", 3}, {"/b.go", 0}}

	var sb strings.Builder
	if err := Write(&sb, h); err != nil {
		t.Fatal(err)
	}
	text := sb.String()
	if !strings.HasPrefix(text, "-- qemacs session\ncase_fold = false;\nratio = 0.5;\n") {
		t.Errorf("session text:\n%s", text)
	}

	path := filepath.Join(t.TempDir(), "dir", "session")
	if err := Save(path, h); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	restored := newHost()
	if err := Load(path, restored); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	for k, v := range h.vars {
		if restored.vars[k] != v {
			t.Errorf("%s = %#v, want %#v", k, restored.vars[k], v)
		}
	}
	if len(restored.visits) != 2 || restored.visits[0] != h.visits[0] {
		t.Errorf("visits = %v", restored.visits)
	}

	h.vars["bad"] = []string{"x"}
	if err := Write(&sb, h); err == nil {
		t.Errorf("unsupported value written")
	}
	if err := Load(filepath.Join(t.TempDir(), "none"), newHost()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}
}
