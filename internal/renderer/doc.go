// Package renderer draws the editor screen.
//
// The screen is laid out the way Emacs lays out a single frame:
//
//	┌─────────────────────────────────────────┐
//	│  window text (colorized lines)          │
//	│  ...                                    │
//	├─────────────────────────────────────────┤
//	│  mode line                              │
//	├─────────────────────────────────────────┤
//	│  echo area / minibuffer                 │
//	└─────────────────────────────────────────┘
//
// Lines come from the window, which colors them through its colorizer
// cache. The renderer expands tabs, shows control characters as ^X,
// measures wide characters and scrolls horizontally to keep the cursor on
// screen.
//
// Usage:
//
//	term, _ := backend.NewTerminal()
//	r := renderer.New(term, renderer.WithTabWidth(8))
//	r.Render(renderer.Frame{Window: w, Echo: msg})
package renderer
