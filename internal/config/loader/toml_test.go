package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"
)

// memFS is an in-memory file system for testing.
type memFS struct {
	files map[string][]byte
}

func newMemFS() *memFS {
	return &memFS{files: make(map[string][]byte)}
}

func (m *memFS) add(path, content string) {
	m.files[path] = []byte(content)
}

func (m *memFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *memFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return memFileInfo(path), nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo string

func (f memFileInfo) Name() string       { return string(f) }
func (f memFileInfo) Size() int64        { return 0 }
func (f memFileInfo) Mode() fs.FileMode  { return 0o644 }
func (f memFileInfo) ModTime() time.Time { return time.Time{} }
func (f memFileInfo) IsDir() bool        { return false }
func (f memFileInfo) Sys() any           { return nil }

func TestTOMLLoader_Load(t *testing.T) {
	memfs := newMemFS()
	memfs.add("/qemacs.toml", `
[editor]
charset = "latin1"
undo_groups = 50

[search]
smart_case = true
`)

	config, err := NewTOMLLoaderWithFS(memfs, "/qemacs.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	tests := []struct {
		path string
		want any
	}{
		{"editor.charset", "latin1"},
		{"editor.undo_groups", int64(50)},
		{"search.smart_case", true},
	}
	for _, tt := range tests {
		if got, ok := GetByPath(config, tt.path); !ok || got != tt.want {
			t.Errorf("%s = %v (%T), want %v", tt.path, got, got, tt.want)
		}
	}
}

func TestTOMLLoader_Missing(t *testing.T) {
	config, err := NewTOMLLoaderWithFS(newMemFS(), "/none.toml").Load()
	if err != nil || config != nil {
		t.Errorf("Load = %v, %v; want nil, nil", config, err)
	}
	config, err = NewTOMLLoader("").Load()
	if err != nil || config != nil {
		t.Errorf("empty path Load = %v, %v", config, err)
	}
}

func TestTOMLLoader_ParseError(t *testing.T) {
	memfs := newMemFS()
	memfs.add("/bad.toml", "[editor]\ncharset = \n")

	_, err := NewTOMLLoaderWithFS(memfs, "/bad.toml").Load()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if perr.Path != "/bad.toml" || perr.Line != 2 {
		t.Errorf("ParseError = %+v", perr)
	}
	if !strings.Contains(err.Error(), "/bad.toml at line 2") {
		t.Errorf("message = %q", err.Error())
	}
	if errors.Unwrap(err) == nil {
		t.Errorf("ParseError does not wrap the decoder error")
	}
}

func TestLoadFromReader(t *testing.T) {
	config, err := NewTOMLLoader("").LoadFromReader(strings.NewReader("[pages]\nlarge = 8192\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := GetByPath(config, "pages.large"); got != int64(8192) {
		t.Errorf("pages.large = %v", got)
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"editor": map[string]any{"charset": "utf-8", "tab_width": int64(8)},
		"files":  map[string]any{"mmap_threshold": int64(1)},
	}
	src := map[string]any{
		"editor": map[string]any{"charset": "latin1"},
		"files":  "flat",
	}
	got := DeepMerge(dst, src)

	if v, _ := GetByPath(got, "editor.charset"); v != "latin1" {
		t.Errorf("editor.charset = %v", v)
	}
	if v, _ := GetByPath(got, "editor.tab_width"); v != int64(8) {
		t.Errorf("editor.tab_width = %v", v)
	}
	if got["files"] != "flat" {
		t.Errorf("files = %v", got["files"])
	}
	if m := DeepMerge(nil, nil); m == nil || len(m) != 0 {
		t.Errorf("DeepMerge(nil, nil) = %v", m)
	}
}
