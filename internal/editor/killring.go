package editor

import "github.com/atotto/clipboard"

// DefaultKillRingSize is the number of kills kept.
const DefaultKillRingSize = 16

// KillRing keeps the most recent kills, newest last.
type KillRing struct {
	items []string
	size  int
}

// NewKillRing creates a ring holding up to size kills.
func NewKillRing(size int) *KillRing {
	if size <= 0 {
		size = DefaultKillRingSize
	}
	return &KillRing{size: size}
}

// Push stores text as the newest kill, or extends the newest kill when
// appendKill is set.
func (k *KillRing) Push(text string, appendKill bool) {
	if appendKill && len(k.items) > 0 {
		k.items[len(k.items)-1] += text
		return
	}
	k.items = append(k.items, text)
	if len(k.items) > k.size {
		k.items = k.items[len(k.items)-k.size:]
	}
}

// Current returns the newest kill or "".
func (k *KillRing) Current() string {
	if len(k.items) == 0 {
		return ""
	}
	return k.items[len(k.items)-1]
}

// Len returns the number of kills kept.
func (k *KillRing) Len() int { return len(k.items) }

// Clipboard exchanges text with the desktop.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
}

// SystemClipboard uses the desktop clipboard tools.
type SystemClipboard struct{}

func (SystemClipboard) ReadText() (string, error) { return clipboard.ReadAll() }

func (SystemClipboard) WriteText(text string) error { return clipboard.WriteAll(text) }

// MemoryClipboard keeps the text in memory. It stands in when no desktop
// clipboard is available.
type MemoryClipboard struct {
	Text string
}

func (m *MemoryClipboard) ReadText() (string, error) { return m.Text, nil }

func (m *MemoryClipboard) WriteText(text string) error {
	m.Text = text
	return nil
}

// DefaultClipboard returns the desktop clipboard when the platform has
// one, or a MemoryClipboard.
func DefaultClipboard() Clipboard {
	if clipboard.Unsupported {
		return &MemoryClipboard{}
	}
	return SystemClipboard{}
}
