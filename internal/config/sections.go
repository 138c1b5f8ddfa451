package config

// EditorConfig holds the defaults given to new buffers.
type EditorConfig struct {
	// Charset names the charset of new and undetectable files.
	Charset string `toml:"charset"`

	// EOL is "unix", "dos" or "mac".
	EOL string `toml:"eol"`

	// UndoGroups bounds the undo log. Zero keeps the built-in limit.
	UndoGroups int `toml:"undo_groups"`

	// KeepUndo keeps undone records when new edits arrive.
	KeepUndo bool `toml:"keep_undo"`

	// MaxBufferSize limits a buffer in bytes. Zero means unlimited.
	MaxBufferSize int `toml:"max_buffer_size"`

	// StyleWidth is the byte width of a style shadow entry, 0 to disable.
	StyleWidth int `toml:"style_width"`

	TabWidth int `toml:"tab_width"`
}

// PagesConfig sets the size classes of owned pages.
type PagesConfig struct {
	Small  int `toml:"small"`
	Medium int `toml:"medium"`
	Large  int `toml:"large"`
}

// FilesConfig controls file loading.
type FilesConfig struct {
	// MmapThreshold is the file size from which files are mapped instead
	// of read. Zero disables mapping.
	MmapThreshold int64 `toml:"mmap_threshold"`
}

// SearchConfig sets the default search flags.
type SearchConfig struct {
	SmartCase  bool `toml:"smart_case"`
	IgnoreCase bool `toml:"ignore_case"`

	// AbortPollBytes is how many bytes a scan covers between checks
	// for a user interrupt.
	AbortPollBytes int `toml:"abort_poll_bytes"`
}

// LoggingConfig controls the log output.
type LoggingConfig struct {
	// Level is debug, info, warn or error.
	Level string `toml:"level"`

	// File receives the log. Empty discards it, since the terminal
	// belongs to the editor.
	File string `toml:"file"`
}

// SessionConfig locates the session file.
type SessionConfig struct {
	Path     string `toml:"path"`
	Autosave bool   `toml:"autosave"`
}

// ModesConfig controls scripted syntax modes.
type ModesConfig struct {
	// ScriptDir holds *.lua files defining additional modes.
	ScriptDir string `toml:"script_dir"`
}

// ColorConfig is the color pair of one highlight style. Colors are
// terminal color names or #rrggbb.
type ColorConfig struct {
	Foreground string `toml:"fg"`
	Background string `toml:"bg"`
}
