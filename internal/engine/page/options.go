package page

import "errors"

// Errors returned by store operations.
var (
	// ErrOutOfRange indicates an offset or length outside [0, Size].
	ErrOutOfRange = errors.New("offset out of range")

	// ErrNoSpace indicates the store would grow past its configured limit.
	ErrNoSpace = errors.New("buffer size limit exceeded")

	// ErrCorrupt indicates the page sizes no longer add up.
	ErrCorrupt = errors.New("page store inconsistent")
)

// Config controls page sizing.
type Config struct {
	// Size classes for owned page capacity. Large is also the maximum
	// number of bytes an owned page holds.
	Small  int
	Medium int
	Large  int

	// MaxSize bounds the total store size. Zero means unlimited.
	MaxSize int
}

// DefaultConfig returns the default page sizing.
func DefaultConfig() Config {
	return Config{
		Small:  SmallPage,
		Medium: MediumPage,
		Large:  LargePage,
	}
}

func (c Config) normalized() Config {
	if c.Large <= 0 {
		c.Large = LargePage
	}
	if c.Medium <= 0 || c.Medium > c.Large {
		c.Medium = min(MediumPage, c.Large)
	}
	if c.Small <= 0 || c.Small > c.Medium {
		c.Small = min(SmallPage, c.Medium)
	}
	return c
}

// capacity rounds n up to the next size class.
func (c Config) capacity(n int) int {
	switch {
	case n <= c.Small:
		return c.Small
	case n <= c.Medium:
		return c.Medium
	case n <= c.Large:
		return c.Large
	default:
		return n
	}
}

// Option configures a Store.
type Option func(*Store)

// WithConfig sets the page sizing.
func WithConfig(cfg Config) Option {
	return func(s *Store) {
		s.cfg = cfg.normalized()
	}
}

// WithMaxSize limits the total store size.
func WithMaxSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.cfg.MaxSize = n
		}
	}
}

// WithMeasurer sets the metrics function used for lazy page counters.
func WithMeasurer(m Measurer) Option {
	return func(s *Store) {
		if m != nil {
			s.measurer = m
		}
	}
}

// WithBoundary sets the character boundary function used when splitting.
func WithBoundary(b BoundaryFunc) Option {
	return func(s *Store) {
		if b != nil {
			s.boundary = b
		}
	}
}
