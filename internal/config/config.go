// Package config loads the editor configuration.
//
// Settings come from three layers, later ones winning: built-in defaults,
// a TOML file, and QEMACS_ environment variables. The merged map is
// decoded into typed sections:
//
//	[editor]  charset, eol, undo_groups, keep_undo, max_buffer_size,
//	          style_width, tab_width
//	[pages]   small, medium, large
//	[files]   mmap_threshold
//	[search]  smart_case, ignore_case, abort_poll_bytes
//	[logging] level, file
//	[session] path, autosave
//	[modes]   script_dir
//	[colors]  <style> = { fg, bg }
//
// Watch reloads the file when it changes on disk.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/qemacs/internal/config/loader"
	"github.com/dshills/qemacs/internal/config/watcher"
	"github.com/dshills/qemacs/internal/engine/buffer"
	"github.com/dshills/qemacs/internal/engine/charset"
	"github.com/dshills/qemacs/internal/engine/page"
	"github.com/dshills/qemacs/internal/engine/search"
	"github.com/dshills/qemacs/internal/logging"
)

// Config is the decoded configuration.
type Config struct {
	Editor  EditorConfig  `toml:"editor"`
	Pages   PagesConfig   `toml:"pages"`
	Files   FilesConfig   `toml:"files"`
	Search  SearchConfig  `toml:"search"`
	Logging LoggingConfig `toml:"logging"`
	Session SessionConfig `toml:"session"`
	Modes   ModesConfig   `toml:"modes"`

	// Colors overrides the colors of highlight styles by style name.
	Colors map[string]ColorConfig `toml:"colors"`

	// Path is the file the configuration was read from, if any.
	Path string `toml:"-"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Editor: EditorConfig{
			Charset:  charset.DefaultName,
			EOL:      "unix",
			TabWidth: 8,
		},
		Pages: PagesConfig{
			Small:  page.SmallPage,
			Medium: page.MediumPage,
			Large:  page.LargePage,
		},
		Files: FilesConfig{
			MmapThreshold: 1 << 20,
		},
		Search: SearchConfig{
			SmartCase:      true,
			AbortPollBytes: search.DefaultPollInterval,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the user configuration file, usually
// ~/.config/qemacs/config.toml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "qemacs", "config.toml")
}

type options struct {
	fs     loader.FileSystem
	env    bool
	prefix string
}

// Option configures Load.
type Option func(*options)

// WithFileSystem reads the file through fsys.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithoutEnv ignores environment variables.
func WithoutEnv() Option {
	return func(o *options) {
		o.env = false
	}
}

// WithEnvPrefix reads environment variables starting with prefix.
func WithEnvPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// Load builds the configuration from the defaults, the TOML file at path
// and the environment. A missing file is not an error; an empty path
// skips the file layer.
func Load(path string, opts ...Option) (*Config, error) {
	o := options{fs: loader.DefaultFS(), env: true, prefix: loader.EnvPrefix}
	for _, opt := range opts {
		opt(&o)
	}

	layers := []loader.Loader{loader.NewTOMLLoaderWithFS(o.fs, path)}
	if o.env {
		layers = append(layers, loader.NewEnvLoader(o.prefix))
	}
	merged := make(map[string]any)
	for _, l := range layers {
		m, err := l.Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, m)
	}

	cfg, err := decode(merged)
	if err != nil {
		return nil, err
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode overlays a merged map on the defaults.
func decode(m map[string]any) (*Config, error) {
	cfg := DefaultConfig()
	if len(m) == 0 {
		return cfg, nil
	}
	data, err := toml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding merged config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings.
func (c *Config) Validate() error {
	if _, ok := charset.Lookup(c.Editor.Charset); !ok {
		return fmt.Errorf("editor.charset %q: %w", c.Editor.Charset, ErrUnknownCharset)
	}
	if _, ok := charset.ParseEOL(c.Editor.EOL); !ok {
		return fmt.Errorf("editor.eol %q: %w", c.Editor.EOL, ErrUnknownEOL)
	}
	switch c.Editor.StyleWidth {
	case 0, 1, 2, 4, 8:
	default:
		return fmt.Errorf("editor.style_width %d: %w", c.Editor.StyleWidth, ErrInvalidValue)
	}
	checks := []struct {
		name  string
		value int64
		min   int64
	}{
		{"editor.undo_groups", int64(c.Editor.UndoGroups), 0},
		{"editor.max_buffer_size", int64(c.Editor.MaxBufferSize), 0},
		{"editor.tab_width", int64(c.Editor.TabWidth), 1},
		{"pages.small", int64(c.Pages.Small), 1},
		{"pages.medium", int64(c.Pages.Medium), int64(c.Pages.Small)},
		{"pages.large", int64(c.Pages.Large), int64(c.Pages.Medium)},
		{"files.mmap_threshold", c.Files.MmapThreshold, 0},
		{"search.abort_poll_bytes", int64(c.Search.AbortPollBytes), 0},
	}
	for _, ch := range checks {
		if ch.value < ch.min {
			return fmt.Errorf("%s %d: %w", ch.name, ch.value, ErrInvalidValue)
		}
	}
	return nil
}

// Charset returns the configured default charset.
func (c *Config) Charset() charset.Charset {
	if cs, ok := charset.Lookup(c.Editor.Charset); ok {
		return cs
	}
	return charset.UTF8
}

// EOL returns the configured default line ending.
func (c *Config) EOL() charset.EOL {
	eol, _ := charset.ParseEOL(c.Editor.EOL)
	return eol
}

// PageConfig returns the page sizing for buffer stores.
func (c *Config) PageConfig() page.Config {
	return page.Config{
		Small:   c.Pages.Small,
		Medium:  c.Pages.Medium,
		Large:   c.Pages.Large,
		MaxSize: c.Editor.MaxBufferSize,
	}
}

// BufferOptions returns the options every new buffer is created with.
func (c *Config) BufferOptions() []buffer.Option {
	opts := []buffer.Option{
		buffer.WithCharset(c.Charset()),
		buffer.WithEOL(c.EOL()),
		buffer.WithPageConfig(c.PageConfig()),
	}
	if c.Editor.UndoGroups > 0 {
		opts = append(opts, buffer.WithUndoLimit(c.Editor.UndoGroups))
	}
	if c.Editor.KeepUndo {
		opts = append(opts, buffer.WithKeepAllUndo())
	}
	if c.Editor.MaxBufferSize > 0 {
		opts = append(opts, buffer.WithMaxSize(c.Editor.MaxBufferSize))
	}
	return opts
}

// SearchFlags returns the default flags of new searches.
func (c *Config) SearchFlags() search.Flags {
	var f search.Flags
	if c.Search.IgnoreCase {
		f |= search.IgnoreCase
	}
	if c.Search.SmartCase {
		f |= search.SmartCase
	}
	return f
}

// LogLevel parses logging.level.
func (c *Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Logging.Level)
}

// Watch reloads the configuration when its file changes and passes the
// result to fn. Reload errors go to fn with a nil config. The returned
// watcher must be closed by the caller.
func Watch(c *Config, fn func(*Config, error), opts ...Option) (*watcher.Watcher, error) {
	if c.Path == "" {
		return nil, fmt.Errorf("watching config: no file")
	}
	w, err := watcher.New(watcher.WithErrorHandler(func(err error) {
		fn(nil, err)
	}))
	if err != nil {
		return nil, fmt.Errorf("watching config: %w", err)
	}
	w.OnChange(func(ev watcher.Event) {
		if ev.Op == watcher.OpRemove {
			return
		}
		fn(Load(c.Path, opts...))
	})
	if err := w.Watch(c.Path); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", c.Path, err)
	}
	return w, nil
}
