package buffer

import (
	"github.com/dshills/qemacs/internal/engine/charset"
	"github.com/dshills/qemacs/internal/engine/history"
	"github.com/dshills/qemacs/internal/engine/page"
	"github.com/dshills/qemacs/internal/logging"
)

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithName sets the buffer name.
func WithName(name string) Option {
	return func(b *Buffer) {
		b.name = name
	}
}

// WithFilename sets the file the buffer is associated with.
func WithFilename(path string) Option {
	return func(b *Buffer) {
		b.filename = path
	}
}

// WithCharset sets the buffer charset.
func WithCharset(cs charset.Charset) Option {
	return func(b *Buffer) {
		if cs != nil {
			b.charset = cs
		}
	}
}

// WithEOL sets the line ending convention.
func WithEOL(eol charset.EOL) Option {
	return func(b *Buffer) {
		b.eol = eol
	}
}

// WithReadOnly makes the buffer read-only.
func WithReadOnly() Option {
	return func(b *Buffer) {
		b.readOnly = true
	}
}

// WithoutUndo disables undo logging.
func WithoutUndo() Option {
	return func(b *Buffer) {
		b.logging = false
	}
}

// WithUndoLimit sets the soft cap on undo groups.
func WithUndoLimit(groups int) Option {
	return func(b *Buffer) {
		b.logOpts = append(b.logOpts, history.WithMaxGroups(groups))
	}
}

// WithKeepAllUndo keeps undone records when new edits arrive.
func WithKeepAllUndo() Option {
	return func(b *Buffer) {
		b.logOpts = append(b.logOpts, history.WithKeepAll(true))
	}
}

// WithPageConfig sets the page sizing of the store.
func WithPageConfig(cfg page.Config) Option {
	return func(b *Buffer) {
		b.storeOpts = append(b.storeOpts, page.WithConfig(cfg))
	}
}

// WithMaxSize limits the buffer size in bytes.
func WithMaxSize(n int) Option {
	return func(b *Buffer) {
		b.storeOpts = append(b.storeOpts, page.WithMaxSize(n))
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *logging.Logger) Option {
	return func(b *Buffer) {
		if l != nil {
			b.logger = l
		}
	}
}
