package editor

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"

	"github.com/dshills/qemacs/internal/engine/buffer"
	"github.com/dshills/qemacs/internal/fileio"
	"github.com/dshills/qemacs/internal/renderer/highlight"
	"github.com/dshills/qemacs/internal/renderer/window"
)

// ErrNoBuffer is returned for a buffer name no open buffer has.
var ErrNoBuffer = errors.New("no such buffer")

// addView opens a window on b, selects it and returns it.
func (s *State) addView(b *buffer.Buffer, mode *highlight.Mode) *window.Window {
	w := window.New(b, mode,
		window.WithSize(s.width, s.height),
		window.WithLogger(s.logger.WithComponent("window")),
	)
	s.views = append(s.views, w)
	s.cur = len(s.views) - 1
	return w
}

// Buffers returns the open buffers in visiting order.
func (s *State) Buffers() []*buffer.Buffer {
	out := make([]*buffer.Buffer, len(s.views))
	for i, w := range s.views {
		out[i] = w.Buffer()
	}
	return out
}

// BufferNames returns the names of the open buffers.
func (s *State) BufferNames() []string {
	names := make([]string, len(s.views))
	for i, w := range s.views {
		names[i] = w.Buffer().Name()
	}
	return names
}

func (s *State) find(pred func(*buffer.Buffer) bool) int {
	return slices.IndexFunc(s.views, func(w *window.Window) bool { return pred(w.Buffer()) })
}

// uniqueName returns base, or base<n> when another buffer has that name.
func (s *State) uniqueName(base string) string {
	name := base
	for n := 2; s.find(func(b *buffer.Buffer) bool { return b.Name() == name }) >= 0; n++ {
		name = fmt.Sprintf("%s<%d>", base, n)
	}
	return name
}

// OpenFile visits path. A file that is already open is selected again.
// A missing file gives an empty buffer that will be created on save.
func (s *State) OpenFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if i := s.find(func(b *buffer.Buffer) bool { return b.Filename() == abs }); i >= 0 {
		s.cur = i
		return nil
	}

	opts := append(s.cfg.BufferOptions(),
		buffer.WithName(s.uniqueName(filepath.Base(abs))),
		buffer.WithLogger(s.logger.WithComponent("buffer")),
	)
	b := buffer.New(opts...)
	info, err := fileio.Load(b, abs,
		fileio.WithMapThreshold(s.cfg.Files.MmapThreshold),
		fileio.WithLogger(s.logger),
	)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		b.SetFilename(abs)
		s.Message("(New file)")
	case err != nil:
		_ = b.Close()
		return err
	default:
		s.logger.Info("opened %s: %d bytes, %s, %s", abs, info.Size, info.Charset.Name(), info.EOL)
	}
	s.addView(b, s.modes.ForFile(abs))
	return nil
}

// SaveBuffer writes b to path, or to its own file when path is "".
func (s *State) SaveBuffer(b *buffer.Buffer, path string) error {
	if path != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		path = abs
	}
	if err := fileio.Save(b, path, fileio.WithLogger(s.logger)); err != nil {
		return err
	}
	if path != "" {
		b.SetName(s.uniqueNameFor(b, filepath.Base(path)))
	}
	s.logger.Info("saved %s", b.Filename())
	return nil
}

// uniqueNameFor is uniqueName ignoring b itself.
func (s *State) uniqueNameFor(b *buffer.Buffer, base string) string {
	if b.Name() == base {
		return base
	}
	return s.uniqueName(base)
}

// SwitchTo selects the buffer named name.
func (s *State) SwitchTo(name string) error {
	i := s.find(func(b *buffer.Buffer) bool { return b.Name() == name })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNoBuffer, name)
	}
	s.cur = i
	return nil
}

// KillBuffer closes the buffer named name. Killing the last buffer leaves
// a fresh *scratch* buffer.
func (s *State) KillBuffer(name string) error {
	i := s.find(func(b *buffer.Buffer) bool { return b.Name() == name })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNoBuffer, name)
	}
	w := s.views[i]
	w.Close()
	err := w.Buffer().Close()
	s.views = slices.Delete(s.views, i, i+1)
	switch {
	case len(s.views) == 0:
		s.addView(buffer.New(s.cfg.BufferOptions()...), highlight.TextMode)
	case s.cur >= i:
		s.cur = max(s.cur-1, 0)
	}
	return err
}

// ModifiedBuffers lists the buffers with unsaved changes that visit a file.
func (s *State) ModifiedBuffers() []*buffer.Buffer {
	var out []*buffer.Buffer
	for _, w := range s.views {
		if b := w.Buffer(); b.Modified() && b.Filename() != "" {
			out = append(out, b)
		}
	}
	return out
}
