package buffer

import (
	"errors"
	"fmt"
	"io"

	"github.com/dshills/qemacs/internal/engine/charset"
	"github.com/dshills/qemacs/internal/engine/history"
	"github.com/dshills/qemacs/internal/engine/page"
	"github.com/dshills/qemacs/internal/logging"
)

// Buffer is the primary editable byte sequence with its metadata.
type Buffer struct {
	name     string
	filename string

	store   *page.Store
	charset charset.Charset
	eol     charset.EOL

	mark     int
	readOnly bool
	logging  bool
	log      *history.Log
	styles   *styleShadow
	props    []Property

	modCount  uint64
	observers []observerEntry

	// Derived position caches, reset on every mutation.
	seek   seekCache
	totals *page.Metrics

	logger    *logging.Logger
	logOpts   []history.Option
	storeOpts []page.Option
}

// New creates an empty buffer.
func New(opts ...Option) *Buffer {
	b := &Buffer{
		name:    "*scratch*",
		charset: charset.UTF8,
		eol:     charset.EOLUnix,
		logging: true,
		logger:  logging.NullLogger,
	}
	for _, opt := range opts {
		opt(b)
	}

	storeOpts := append([]page.Option{
		page.WithMeasurer(page.MeasureFunc(b.measure)),
		page.WithBoundary(b.boundary),
	}, b.storeOpts...)
	b.store = page.New(storeOpts...)
	b.log = history.New(b.logOpts...)
	b.logOpts, b.storeOpts = nil, nil
	return b
}

// NewFromString creates a buffer holding s, encoded with the buffer's
// charset and line ending. The initial content is not undoable.
func NewFromString(s string, opts ...Option) *Buffer {
	b := New(opts...)
	b.Load(charset.EncodeString(b.charset, b.eol, s))
	return b
}

func (b *Buffer) measure(p []byte) page.Metrics {
	lines, col, chars := charset.Scan(b.charset, b.eol, p)
	return page.Metrics{Lines: lines, Col: col, Chars: chars}
}

func (b *Buffer) boundary(p []byte, target int) int {
	return b.charset.Boundary(p, target)
}

// Name returns the buffer name.
func (b *Buffer) Name() string { return b.name }

// SetName renames the buffer.
func (b *Buffer) SetName(name string) { b.name = name }

// Filename returns the associated file path.
func (b *Buffer) Filename() string { return b.filename }

// SetFilename associates the buffer with a file path.
func (b *Buffer) SetFilename(path string) { b.filename = path }

// Size returns the total number of bytes.
func (b *Buffer) Size() int { return b.store.Size() }

// Charset returns the buffer charset.
func (b *Buffer) Charset() charset.Charset { return b.charset }

// EOL returns the line ending convention.
func (b *Buffer) EOL() charset.EOL { return b.eol }

// SetCharset changes how the raw bytes are decoded. The bytes themselves
// are not converted.
func (b *Buffer) SetCharset(cs charset.Charset) {
	if cs == nil || cs == b.charset {
		return
	}
	b.charset = cs
	b.reinterpret()
}

// SetEOL changes the line ending convention without converting the bytes.
func (b *Buffer) SetEOL(eol charset.EOL) {
	if eol == b.eol {
		return
	}
	b.eol = eol
	b.reinterpret()
}

func (b *Buffer) reinterpret() {
	b.store.SetMeasurer(page.MeasureFunc(b.measure))
	if b.styles != nil {
		b.styles.reset(b)
	}
	b.changed(Change{Kind: ChangeReload})
}

// ReadOnly reports whether the buffer rejects writes.
func (b *Buffer) ReadOnly() bool { return b.readOnly }

// SetReadOnly toggles write protection.
func (b *Buffer) SetReadOnly(ro bool) { b.readOnly = ro }

// Mark returns the mark offset.
func (b *Buffer) Mark() int { return b.mark }

// SetMark sets the mark, clamped to the buffer.
func (b *Buffer) SetMark(off int) { b.mark = b.clamp(off) }

// ModCount returns the number of mutations applied so far.
func (b *Buffer) ModCount() uint64 { return b.modCount }

// Modified reports whether the buffer differs from its last saved state.
func (b *Buffer) Modified() bool { return b.log.Modified() }

// MarkSaved records the current state as saved.
func (b *Buffer) MarkSaved() { b.log.MarkSaved() }

// Log returns the undo log.
func (b *Buffer) Log() *history.Log { return b.log }

// Logging reports whether mutations are recorded in the undo log.
func (b *Buffer) Logging() bool { return b.logging }

// SetLogging enables or disables undo logging.
func (b *Buffer) SetLogging(on bool) { b.logging = on }

// Store exposes the page store for read-only inspection.
func (b *Buffer) Store() *page.Store { return b.store }

func (b *Buffer) clamp(off int) int {
	return max(0, min(off, b.store.Size()))
}

// Read copies bytes at off into dst and returns the count. Reads past the
// end are clamped.
func (b *Buffer) Read(off int, dst []byte) int {
	return b.store.Read(off, dst)
}

// Bytes returns a copy of [off, off+n), clamped to the buffer.
func (b *Buffer) Bytes(off, n int) []byte {
	return b.store.Bytes(off, n)
}

// Contents returns a copy of the raw buffer bytes.
func (b *Buffer) Contents() []byte {
	return b.store.Bytes(0, b.store.Size())
}

// Text returns the decoded buffer text with line breaks folded to '\n'.
func (b *Buffer) Text() string {
	return charset.DecodeString(b.charset, b.eol, b.Contents())
}

// TextRange returns the decoded text of [start, end).
func (b *Buffer) TextRange(start, end int) string {
	start, end = b.clamp(start), b.clamp(end)
	if end <= start {
		return ""
	}
	return charset.DecodeString(b.charset, b.eol, b.store.Bytes(start, end-start))
}

// WriteRange writes the raw bytes of [off, off+n) to w.
func (b *Buffer) WriteRange(w io.Writer, off, n int) (int64, error) {
	return b.store.WriteRange(w, off, n)
}

// Load replaces the contents with a copy of data. The undo log is cleared
// and the buffer is marked saved.
func (b *Buffer) Load(data []byte) {
	b.store.Load(data)
	b.afterLoad()
}

// LoadBorrowed replaces the contents with pages borrowing data, such as a
// read-only file mapping. release is called when the buffer is closed or
// reloaded.
func (b *Buffer) LoadBorrowed(data []byte, kind page.Kind, release func() error) {
	b.store.LoadBorrowed(data, kind, release)
	b.afterLoad()
}

func (b *Buffer) afterLoad() {
	b.log.Clear()
	b.log.MarkSaved()
	b.mark = 0
	b.props = nil
	if b.styles != nil {
		b.styles.reset(b)
	}
	b.changed(Change{Kind: ChangeReload, Inserted: b.store.Size()})
}

// Close releases the page store. The buffer is empty afterwards.
func (b *Buffer) Close() error {
	err := b.store.Close()
	b.afterLoad()
	return err
}

// Insert inserts raw bytes at off.
func (b *Buffer) Insert(off int, data []byte) error {
	if b.readOnly {
		return ErrReadOnly
	}
	return b.insert(off, data)
}

// InsertText encodes s with the buffer charset and line ending and inserts
// it at off. It returns the number of bytes inserted.
func (b *Buffer) InsertText(off int, s string) (int, error) {
	data := charset.EncodeString(b.charset, b.eol, s)
	if err := b.Insert(off, data); err != nil {
		return 0, err
	}
	return len(data), nil
}

// Delete removes n bytes at off.
func (b *Buffer) Delete(off, n int) error {
	if b.readOnly {
		return ErrReadOnly
	}
	_, err := b.delete(off, n)
	return err
}

// Write overwrites bytes at off with data, extending the buffer if data
// runs past the end. Writes starting past the end are rejected.
func (b *Buffer) Write(off int, data []byte) error {
	if b.readOnly {
		return ErrReadOnly
	}
	_, err := b.write(off, data)
	return err
}

// Replace deletes n bytes at off and inserts s in their place as one undo
// group. It returns the number of bytes inserted.
func (b *Buffer) Replace(off, n int, s string) (int, error) {
	if b.readOnly {
		return 0, ErrReadOnly
	}
	if off < 0 || n < 0 || off+n > b.store.Size() {
		return 0, fmt.Errorf("replace [%d, %d): %w", off, off+n, ErrOffsetOutOfRange)
	}
	data := charset.EncodeString(b.charset, b.eol, s)

	// Checked up front so that the delete is never left without its insert.
	if !b.store.Fits(len(data) - n) {
		return 0, ErrNoSpace
	}

	defer b.log.GroupScope("replace").End()
	if _, err := b.delete(off, n); err != nil {
		return 0, err
	}
	if err := b.insert(off, data); err != nil {
		return 0, err
	}
	return len(data), nil
}

func (b *Buffer) insert(off int, data []byte) error {
	if len(data) == 0 {
		if off < 0 || off > b.store.Size() {
			return fmt.Errorf("insert at %d: %w", off, ErrOffsetOutOfRange)
		}
		return nil
	}
	if err := b.store.Insert(off, data); err != nil {
		return err
	}
	if b.logging {
		b.log.Append(history.Insert(off, data))
	}
	b.styles.insert(b, off, len(data))
	b.adjustInsert(off, len(data))
	b.changed(Change{Kind: ChangeInsert, Offset: off, Inserted: len(data)})
	return nil
}

func (b *Buffer) delete(off, n int) ([]byte, error) {
	removed, err := b.store.Delete(off, n)
	if err != nil || n == 0 {
		return removed, err
	}
	if b.logging {
		b.log.Append(history.Delete(off, removed))
	}
	b.styles.delete(b, off, n)
	b.adjustDelete(off, n)
	b.changed(Change{Kind: ChangeDelete, Offset: off, Removed: n})
	return removed, nil
}

func (b *Buffer) write(off int, data []byte) ([]byte, error) {
	old, err := b.store.Write(off, data)
	if err != nil || len(data) == 0 {
		return old, err
	}
	if b.logging {
		b.log.Append(history.Write(off, old, data))
	}
	if ext := len(data) - len(old); ext > 0 {
		b.styles.insert(b, off+len(old), ext)
		b.adjustInsert(off+len(old), ext)
	}
	b.changed(Change{Kind: ChangeWrite, Offset: off, Inserted: len(data), Removed: len(old)})
	return old, nil
}

func (b *Buffer) changed(c Change) {
	b.modCount++
	b.seek = seekCache{}
	b.totals = nil
	c.ModCount = b.modCount
	b.notify(c)
}

// replayTarget applies undo records through the unchecked mutation path.
type replayTarget struct{ b *Buffer }

func (t replayTarget) Insert(off int, data []byte) error { return t.b.insert(off, data) }

func (t replayTarget) Delete(off, n int) ([]byte, error) { return t.b.delete(off, n) }

func (t replayTarget) Write(off int, data []byte) ([]byte, error) { return t.b.write(off, data) }

// BeginGroup starts an undo group; EndGroup closes it.
func (b *Buffer) BeginGroup(name string) { b.log.BeginGroup(name) }

// EndGroup closes the undo group opened by BeginGroup.
func (b *Buffer) EndGroup() { b.log.EndGroup() }

// Transaction runs fn as one undo group, rolling back its edits on error.
func (b *Buffer) Transaction(name string, fn func() error) error {
	if b.readOnly {
		return ErrReadOnly
	}
	return b.log.Transaction(name, replayTarget{b}, fn)
}

// Undo reverts up to n undo groups.
func (b *Buffer) Undo(n int) (int, error) {
	if b.readOnly {
		return 0, ErrReadOnly
	}
	done, err := b.log.Undo(replayTarget{b}, n)
	b.reportReplay(err)
	return done, err
}

// Redo re-applies up to n undone groups.
func (b *Buffer) Redo(n int) (int, error) {
	if b.readOnly {
		return 0, ErrReadOnly
	}
	done, err := b.log.Redo(replayTarget{b}, n)
	b.reportReplay(err)
	return done, err
}

func (b *Buffer) reportReplay(err error) {
	var rerr *history.ReplayError
	if errors.As(err, &rerr) {
		b.logger.Error("undo log of %s truncated at record %d: %v", b.name, rerr.Index, rerr.Err)
	}
}

// Check verifies the page store invariants and logs a diagnostic on
// failure.
func (b *Buffer) Check() error {
	err := b.store.Check()
	if err == nil && b.styles != nil {
		err = b.styles.check(b)
	}
	if err != nil {
		b.logger.Error("buffer %s: %v", b.name, err)
	}
	return err
}
