package backend

// NullBackend keeps the screen in memory. Tests draw to it and read the
// cells back.
type NullBackend struct {
	width, height int
	grid          []Cell // row-major, width*height

	cursorX, cursorY int
	cursorVisible    bool
	beeps            int

	events chan Event
}

// NewNullBackend creates a screen of the given size.
func NewNullBackend(width, height int) *NullBackend {
	return &NullBackend{
		width:  width,
		height: height,
		events: make(chan Event, 100),
	}
}

func (b *NullBackend) Init() error {
	b.Clear()
	return nil
}

func (b *NullBackend) Shutdown() {}

func (b *NullBackend) Size() (int, int) { return b.width, b.height }

func (b *NullBackend) index(x, y int) (int, bool) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height || len(b.grid) == 0 {
		return 0, false
	}
	return y*b.width + x, true
}

func (b *NullBackend) SetCell(x, y int, cell Cell) {
	if i, ok := b.index(x, y); ok {
		b.grid[i] = cell
	}
}

// GetCell returns the cell at x, y, or an empty cell off screen.
func (b *NullBackend) GetCell(x, y int) Cell {
	if i, ok := b.index(x, y); ok {
		return b.grid[i]
	}
	return EmptyCell()
}

// Row returns the text of row y with continuation cells dropped.
func (b *NullBackend) Row(y int) string {
	if y < 0 || y >= b.height || len(b.grid) == 0 {
		return ""
	}
	rs := make([]rune, 0, b.width)
	for _, c := range b.grid[y*b.width : (y+1)*b.width] {
		if c.Rune != 0 {
			rs = append(rs, c.Rune)
		}
	}
	return string(rs)
}

func (b *NullBackend) Clear() {
	b.grid = make([]Cell, b.width*b.height)
	for i := range b.grid {
		b.grid[i] = EmptyCell()
	}
}

func (b *NullBackend) Show() {}

func (b *NullBackend) ShowCursor(x, y int) {
	b.cursorX, b.cursorY = x, y
	b.cursorVisible = true
}

func (b *NullBackend) HideCursor() { b.cursorVisible = false }

// CursorPosition reports where the cursor was last shown.
func (b *NullBackend) CursorPosition() (x, y int, visible bool) {
	return b.cursorX, b.cursorY, b.cursorVisible
}

func (b *NullBackend) PollEvent() Event { return <-b.events }

// PostEvent queues ev. Events beyond the queue size are dropped.
func (b *NullBackend) PostEvent(ev Event) {
	select {
	case b.events <- ev:
	default:
	}
}

func (b *NullBackend) Beep() { b.beeps++ }

// Beeps returns how many times Beep was called.
func (b *NullBackend) Beeps() int { return b.beeps }

// Resize changes the screen size, clears it and queues a resize event.
func (b *NullBackend) Resize(width, height int) {
	b.width, b.height = width, height
	b.Clear()
	b.PostEvent(Event{Type: EventResize, Width: width, Height: height})
}
