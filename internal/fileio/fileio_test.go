package fileio

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/qemacs/internal/engine/buffer"
	"github.com/dshills/qemacs/internal/engine/charset"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDetects(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		charset string
		eol     charset.EOL
		text    string
	}{
		{"utf-8 unix", []byte("héllo\nworld\n"), "utf-8", charset.EOLUnix, "héllo\nworld\n"},
		{"latin1 dos", []byte("caf\xe9\r\nbar"), "iso-8859-1", charset.EOLDOS, "café\nbar"},
		{"mac", []byte("a\rb\rc"), "utf-8", charset.EOLMac, "a\nb\nc"},
		{"empty", nil, "utf-8", charset.EOLUnix, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "f.txt", tt.data)
			b := buffer.New()
			info, err := Load(b, path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if info.Charset.Name() != tt.charset || info.EOL != tt.eol {
				t.Errorf("detected %s %v, want %s %v", info.Charset.Name(), info.EOL, tt.charset, tt.eol)
			}
			if got := b.Text(); got != tt.text {
				t.Errorf("text = %q, want %q", got, tt.text)
			}
			if b.Filename() != path || b.Modified() || info.Mapped {
				t.Errorf("filename %q modified %v mapped %v", b.Filename(), b.Modified(), info.Mapped)
			}
		})
	}
}

func TestLoadForced(t *testing.T) {
	path := writeFile(t, "f.txt", []byte("a\r\nb"))
	b := buffer.New()
	info, err := Load(b, path, WithCharset(charset.MustLookup("latin1")), WithEOL(charset.EOLUnix))
	if err != nil {
		t.Fatal(err)
	}
	if info.EOL != charset.EOLUnix || b.Text() != "a\r\nb" {
		t.Errorf("eol %v text %q", info.EOL, b.Text())
	}
}

func TestLoadMapped(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789abcde\n"), 1024)
	path := writeFile(t, "big.txt", data)
	b := buffer.New()
	info, err := Load(b, path, WithMapThreshold(4096))
	if err != nil {
		t.Fatal(err)
	}
	if !info.Mapped {
		t.Skip("file mapping unavailable")
	}
	if b.Store().Borrowed() == 0 {
		t.Errorf("no borrowed pages after mapping")
	}
	if b.Size() != len(data) || b.LineCount() != 1025 {
		t.Errorf("size %d lines %d", b.Size(), b.LineCount())
	}

	if _, err := b.InsertText(0, "x"); err != nil {
		t.Fatal(err)
	}
	if err := Save(b, ""); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, _ := os.ReadFile(path)
	if !bytes.Equal(got, append([]byte("x"), data...)) {
		t.Errorf("saved %d bytes, want %d", len(got), len(data)+1)
	}
	if err := b.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	b := buffer.New()
	if _, err := Load(b, filepath.Join(dir, "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}
	if _, err := Load(b, dir); !errors.Is(err, ErrIsDir) {
		t.Errorf("directory error = %v", err)
	}
}

func TestSave(t *testing.T) {
	path := writeFile(t, "f.txt", []byte("old"))
	b := buffer.NewFromString("new contents\n")
	if err := Save(b, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "new contents\n" {
		t.Errorf("file = %q", got)
	}
	if b.Filename() != path || b.Modified() {
		t.Errorf("filename %q modified %v", b.Filename(), b.Modified())
	}
	st, _ := os.Stat(path)
	if st.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", st.Mode().Perm())
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temporary file left behind: %d entries", len(entries))
	}

	if err := Save(buffer.New(), ""); !errors.Is(err, ErrNoFilename) {
		t.Errorf("unnamed save error = %v", err)
	}
	if err := Save(b, filepath.Join(path+".d", "x")); err == nil {
		t.Errorf("save into a missing directory succeeded")
	}
}

func TestSaveConverts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	b := buffer.NewFromString("café\nbar")
	latin1 := charset.MustLookup("latin1")
	if err := Save(b, path, WithCharset(latin1), WithEOL(charset.EOLDOS)); err != nil {
		t.Fatal(err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "caf\xe9\r\nbar" {
		t.Errorf("file = %q", got)
	}
	if b.Charset() != latin1 || b.EOL() != charset.EOLDOS || b.Text() != "café\nbar" {
		t.Errorf("buffer %s %v %q", b.Charset().Name(), b.EOL(), b.Text())
	}
	if b.Modified() {
		t.Errorf("buffer modified after save")
	}
}

func TestConvert(t *testing.T) {
	b := buffer.NewFromString("a\nb")
	dos := charset.EOLDOS
	Convert(b, nil, &dos)
	if got := string(b.Contents()); got != "a\r\nb" {
		t.Errorf("contents = %q", got)
	}
	if !b.Modified() {
		t.Errorf("converted buffer not modified")
	}
	if strings.Count(b.Text(), "\n") != 1 {
		t.Errorf("text = %q", b.Text())
	}
}
