package minibuffer

// DefaultHistorySize bounds a History created with a non-positive size.
const DefaultHistorySize = 64

// History remembers accepted minibuffer input, oldest first.
type History struct {
	items []string
	max   int
}

// NewHistory creates a history holding at most size entries.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{max: size}
}

// Add appends s unless it is empty or repeats the newest entry.
func (h *History) Add(s string) {
	if s == "" || (len(h.items) > 0 && h.items[len(h.items)-1] == s) {
		return
	}
	h.items = append(h.items, s)
	if len(h.items) > h.max {
		h.items = h.items[len(h.items)-h.max:]
	}
}

// Len returns the number of entries.
func (h *History) Len() int { return len(h.items) }

// At returns entry i, oldest first.
func (h *History) At(i int) string { return h.items[i] }

// Items returns a copy of the entries.
func (h *History) Items() []string {
	return append([]string(nil), h.items...)
}
