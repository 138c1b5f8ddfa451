// Package fileio moves buffer contents to and from files.
//
// Small files are read into owned pages. Files at or above the mapping
// threshold are mapped read-only and loaded as borrowed pages, so opening
// them costs no copy; edits copy only the pages they touch. Saving writes
// a temporary file next to the target and renames it into place, which
// leaves any mapping of the old file valid.
package fileio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/dshills/qemacs/internal/engine/buffer"
	"github.com/dshills/qemacs/internal/engine/charset"
	"github.com/dshills/qemacs/internal/engine/page"
	"github.com/dshills/qemacs/internal/logging"
)

// DefaultMapThreshold is the file size from which files are mapped.
const DefaultMapThreshold = 1 << 20

// detectSample bounds the bytes examined for line ending detection.
const detectSample = 64 << 10

var (
	// ErrIsDir is returned when asked to load a directory.
	ErrIsDir = errors.New("is a directory")

	// ErrNoFilename is returned when saving a buffer without a file.
	ErrNoFilename = errors.New("buffer has no file name")

	errNoMap = errors.New("mapping not supported")
)

// Info describes a loaded file.
type Info struct {
	Path    string
	Size    int64
	ModTime time.Time
	Mapped  bool
	Charset charset.Charset
	EOL     charset.EOL
	// ReadOnly is set when the file cannot be written.
	ReadOnly bool
}

type options struct {
	threshold int64
	charset   charset.Charset
	eol       *charset.EOL
	logger    *logging.Logger
}

// Option configures Load and Save.
type Option func(*options)

// WithMapThreshold sets the size from which files are mapped. Zero or
// less disables mapping.
func WithMapThreshold(n int64) Option {
	return func(o *options) { o.threshold = n }
}

// WithCharset skips detection and reads or writes the file in cs.
func WithCharset(cs charset.Charset) Option {
	return func(o *options) { o.charset = cs }
}

// WithEOL skips detection and reads or writes lines ending in eol.
func WithEOL(eol charset.EOL) Option {
	return func(o *options) { o.eol = &eol }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func newOptions(opts []Option) options {
	o := options{threshold: DefaultMapThreshold, logger: logging.NullLogger}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Load replaces the contents of b with the file at path and makes path
// the buffer's file. The charset and line ending are detected unless
// given. The undo log is cleared.
func Load(b *buffer.Buffer, path string, opts ...Option) (Info, error) {
	o := newOptions(opts)
	log := o.logger.WithComponent("fileio")

	st, err := os.Stat(path)
	if err != nil {
		return Info{}, err
	}
	if st.IsDir() {
		return Info{}, &fs.PathError{Op: "load", Path: path, Err: ErrIsDir}
	}
	info := Info{Path: path, Size: st.Size(), ModTime: st.ModTime(), ReadOnly: !writable(path)}

	var (
		data    []byte
		release func() error
	)
	if o.threshold > 0 && st.Size() >= o.threshold {
		data, release, err = mapFile(path, st.Size())
		switch {
		case err == nil:
			info.Mapped = true
			log.Debug("mapped %s (%d bytes)", path, len(data))
		case errors.Is(err, errNoMap):
		default:
			log.Warn("mapping %s failed, reading instead: %v", path, err)
		}
	}
	if !info.Mapped {
		if data, err = os.ReadFile(path); err != nil {
			return Info{}, err
		}
	}

	info.Charset = o.charset
	if info.Charset == nil {
		info.Charset = charset.Detect(data)
	}
	switch {
	case o.eol != nil:
		info.EOL = *o.eol
	case info.Charset.Unit() == 1:
		info.EOL = charset.DetectEOL(data[:min(len(data), detectSample)])
	default:
		info.EOL = charset.EOLUnix
	}

	b.SetCharset(info.Charset)
	b.SetEOL(info.EOL)
	if info.Mapped {
		b.LoadBorrowed(data, page.Mapped, release)
	} else {
		b.Load(data)
	}
	b.SetFilename(path)
	b.SetReadOnly(info.ReadOnly)
	return info, nil
}

// Save writes b to path, or to the buffer's own file when path is "".
// The buffer is marked saved and takes path as its file.
func Save(b *buffer.Buffer, path string, opts ...Option) error {
	o := newOptions(opts)
	if path == "" {
		path = b.Filename()
	}
	if path == "" {
		return ErrNoFilename
	}
	if o.charset != nil || o.eol != nil {
		Convert(b, o.charset, o.eol)
	}
	if err := writeAtomic(path, b); err != nil {
		return err
	}
	o.logger.WithComponent("fileio").Debug("wrote %s (%d bytes)", path, b.Size())
	b.SetFilename(path)
	b.MarkSaved()
	return nil
}

// Convert re-encodes the contents of b in cs with eol line endings. A nil
// cs or eol keeps the current one. The undo log is cleared and the buffer
// counts as modified until saved.
func Convert(b *buffer.Buffer, cs charset.Charset, eol *charset.EOL) {
	if cs == nil {
		cs = b.Charset()
	}
	target := b.EOL()
	if eol != nil {
		target = *eol
	}
	if cs == b.Charset() && target == b.EOL() {
		return
	}
	data := charset.EncodeString(cs, target, b.Text())
	b.SetCharset(cs)
	b.SetEOL(target)
	b.Load(data)
	b.Log().MarkModified()
}

// writeAtomic streams the buffer pages to a temporary file in the
// target directory and renames it over path. An existing file keeps its
// permission bits.
func writeAtomic(path string, b *buffer.Buffer) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	mode := fs.FileMode(0o644)
	if st, err := os.Stat(path); err == nil {
		mode = st.Mode().Perm()
	}

	f, err := os.CreateTemp(dir, "."+base+".*~")
	if err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	if _, err = b.WriteRange(f, 0, b.Size()); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err = f.Chmod(mode); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	if err = f.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", path, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
