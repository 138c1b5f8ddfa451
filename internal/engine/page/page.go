// Package page provides the paged byte store backing a buffer.
//
// A Store is an ordered sequence of pages. Each page is a contiguous run of
// bytes, either owned by the store, borrowed from a read-only file mapping,
// or borrowed from static data. Pages carry lazily computed metrics (line
// count, character count, column after the last line break) that are
// cleared on mutation and re-derived on demand through a Measurer.
//
// Inserts and deletes only touch the pages that contain the affected range,
// so edits cost O(pages touched) regardless of buffer size.
package page

// Kind identifies who owns the bytes of a page.
type Kind uint8

const (
	// Owned pages are heap blocks belonging to the store.
	Owned Kind = iota
	// Mapped pages borrow a read-only file mapping.
	Mapped
	// Static pages borrow read-only data that outlives the store.
	Static
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Owned:
		return "owned"
	case Mapped:
		return "mapped"
	case Static:
		return "static"
	default:
		return "unknown"
	}
}

// Size classes for owned page capacity.
const (
	SmallPage  = 512
	MediumPage = 2048
	LargePage  = 4096
)

// Metrics are the cached per-page counters.
type Metrics struct {
	Lines int // number of line breaks
	Col   int // characters after the last line break
	Chars int // number of characters
}

// Add combines the metrics of two adjacent runs.
func (m Metrics) Add(next Metrics) Metrics {
	out := Metrics{
		Lines: m.Lines + next.Lines,
		Chars: m.Chars + next.Chars,
		Col:   next.Col,
	}
	if next.Lines == 0 {
		out.Col = m.Col + next.Col
	}
	return out
}

// Measurer derives page metrics from raw bytes.
type Measurer interface {
	Measure(p []byte) Metrics
}

// MeasureFunc adapts a function to the Measurer interface.
type MeasureFunc func(p []byte) Metrics

// Measure calls f(p).
func (f MeasureFunc) Measure(p []byte) Metrics { return f(p) }

// BoundaryFunc returns the largest character start <= target in p.
type BoundaryFunc func(p []byte, target int) int

// Page is one contiguous run of buffer bytes.
type Page struct {
	data    []byte
	kind    Kind
	valid   bool
	metrics Metrics
}

// Len returns the page size in bytes.
func (p *Page) Len() int { return len(p.data) }

// Kind returns the page ownership kind.
func (p *Page) Kind() Kind { return p.kind }

// Bytes returns the page contents. The slice must not be modified.
func (p *Page) Bytes() []byte { return p.data }

// Valid reports whether the cached metrics are current.
func (p *Page) Valid() bool { return p.valid }

func (p *Page) invalidate() {
	p.valid = false
}

func newOwned(data []byte, classes Config) *Page {
	buf := make([]byte, len(data), classes.capacity(len(data)))
	copy(buf, data)
	return &Page{data: buf, kind: Owned}
}

// own converts a borrowed page into an owned copy so it can be mutated.
func (p *Page) own(classes Config) {
	if p.kind == Owned {
		return
	}
	buf := make([]byte, len(p.data), classes.capacity(len(p.data)))
	copy(buf, p.data)
	p.data = buf
	p.kind = Owned
}
