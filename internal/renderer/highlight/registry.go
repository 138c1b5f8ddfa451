package highlight

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ErrInvalidMode is returned when registering a mode without a name.
var ErrInvalidMode = errors.New("invalid mode")

// Registry manages available modes.
type Registry struct {
	mu sync.RWMutex

	// byName maps mode names to modes
	byName map[string]*Mode

	// byExtension maps file extensions to modes
	byExtension map[string]*Mode
}

// NewRegistry creates an empty mode registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:      make(map[string]*Mode),
		byExtension: make(map[string]*Mode),
	}
}

// DefaultRegistry returns a registry holding the built-in modes.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, m := range Builtins() {
		// Built-in modes always have names.
		_ = r.Register(m)
	}
	return r
}

// Register adds m, replacing any mode with the same name. Its extensions
// take over from earlier registrations.
func (r *Registry) Register(m *Mode) error {
	if m == nil || m.Name == "" {
		return ErrInvalidMode
	}
	if m.Colorizer() == nil {
		return fmt.Errorf("%w: %s has no colorizer", ErrInvalidMode, m.Name)
	}
	m.prepare()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[m.Name] = m
	for _, ext := range m.Extensions {
		if ext == "" {
			continue
		}
		r.byExtension[normalizeExt(ext)] = m
	}
	return nil
}

// ByName returns the mode called name.
func (r *Registry) ByName(name string) (*Mode, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byName[name]
	return m, ok
}

// ByExtension returns the mode for a file extension, with or without the
// leading dot.
func (r *Registry) ByExtension(ext string) (*Mode, bool) {
	if ext == "" {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byExtension[normalizeExt(ext)]
	return m, ok
}

// ForFile picks a mode from the file name, falling back to the text mode
// when one is registered.
func (r *Registry) ForFile(path string) *Mode {
	if m, ok := r.ByExtension(filepath.Ext(path)); ok {
		return m
	}
	if m, ok := r.ByName(TextMode.Name); ok {
		return m
	}
	return nil
}

// Names returns the registered mode names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext[0] != '.' {
		ext = "." + ext
	}
	return ext
}
