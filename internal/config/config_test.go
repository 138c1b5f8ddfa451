package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/qemacs/internal/config/loader"
	"github.com/dshills/qemacs/internal/engine/charset"
	"github.com/dshills/qemacs/internal/engine/search"
	"github.com/dshills/qemacs/internal/logging"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", WithoutEnv())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Charset() != charset.UTF8 || cfg.EOL() != charset.EOLUnix {
		t.Errorf("charset %s eol %v", cfg.Charset().Name(), cfg.EOL())
	}
	if cfg.SearchFlags() != search.SmartCase {
		t.Errorf("search flags = %v", cfg.SearchFlags())
	}
	if cfg.LogLevel() != logging.LevelInfo {
		t.Errorf("log level = %v", cfg.LogLevel())
	}

	cfg, err = Load(filepath.Join(t.TempDir(), "missing.toml"), WithoutEnv())
	if err != nil {
		t.Fatalf("missing file: %v", err)
	}
	if cfg.Editor.TabWidth != 8 {
		t.Errorf("tab width = %d", cfg.Editor.TabWidth)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
[editor]
charset = "latin1"
undo_groups = 10
eol = "dos"

[search]
smart_case = false
ignore_case = true

[pages]
large = 8192
`)
	t.Setenv("QEMACS_CHARSET", "utf-8")
	t.Setenv("QEMACS_FILES_MMAP_THRESHOLD", "4096")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Editor.Charset != "utf-8" {
		t.Errorf("env did not override charset: %q", cfg.Editor.Charset)
	}
	if cfg.Editor.UndoGroups != 10 || cfg.EOL() != charset.EOLDOS {
		t.Errorf("editor = %+v", cfg.Editor)
	}
	if cfg.Files.MmapThreshold != 4096 {
		t.Errorf("mmap_threshold = %d", cfg.Files.MmapThreshold)
	}
	if cfg.SearchFlags() != search.IgnoreCase {
		t.Errorf("search flags = %v", cfg.SearchFlags())
	}
	if pc := cfg.PageConfig(); pc.Large != 8192 || pc.Small != 512 {
		t.Errorf("page config = %+v", pc)
	}
	if cfg.Path != path {
		t.Errorf("path = %q", cfg.Path)
	}
	if got := len(cfg.BufferOptions()); got != 4 {
		t.Errorf("buffer options = %d, want 4", got)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"charset", "[editor]\ncharset = \"klingon\"\n", ErrUnknownCharset},
		{"eol", "[editor]\neol = \"vms\"\n", ErrUnknownEOL},
		{"style width", "[editor]\nstyle_width = 3\n", ErrInvalidValue},
		{"tab width", "[editor]\ntab_width = 0\n", ErrInvalidValue},
		{"page order", "[pages]\nsmall = 4096\nmedium = 1024\n", ErrInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content), WithoutEnv())
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	_, err := Load(writeConfig(t, "[editor\n"), WithoutEnv())
	var perr *loader.ParseError
	if !errors.As(err, &perr) {
		t.Errorf("syntax error = %v, want *loader.ParseError", err)
	}

	_, err = Load(writeConfig(t, "[editor]\ntab_width = \"wide\"\n"), WithoutEnv())
	if err == nil {
		t.Errorf("type mismatch accepted")
	}
}

func TestWatch(t *testing.T) {
	path := writeConfig(t, "[editor]\ntab_width = 4\n")
	cfg, err := Load(path, WithoutEnv())
	if err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan *Config, 4)
	w, err := Watch(cfg, func(c *Config, err error) {
		if err == nil {
			reloaded <- c
		}
	}, WithoutEnv())
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("[editor]\ntab_width = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case c := <-reloaded:
		if c.Editor.TabWidth != 2 {
			t.Errorf("reloaded tab_width = %d", c.Editor.TabWidth)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no reload")
	}

	if _, err := Watch(DefaultConfig(), func(*Config, error) {}); err == nil {
		t.Errorf("Watch without a file succeeded")
	}
}

func TestLoadColors(t *testing.T) {
	path := writeConfig(t, `
[colors]
comment = { fg = "gray" }
keyword = { fg = "#ff8800", bg = "black" }
`)
	cfg, err := Load(path, WithoutEnv())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Colors) != 2 {
		t.Fatalf("colors = %+v", cfg.Colors)
	}
	if got := cfg.Colors["keyword"]; got.Foreground != "#ff8800" || got.Background != "black" {
		t.Errorf("keyword colors = %+v", got)
	}
	if got := cfg.Colors["comment"]; got.Foreground != "gray" || got.Background != "" {
		t.Errorf("comment colors = %+v", got)
	}
}
