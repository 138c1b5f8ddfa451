package history

import (
	"errors"
	"fmt"
	"time"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
	ErrLogCorrupt    = errors.New("undo log corrupt")
)

// DefaultMaxGroups is the default soft cap on logged groups.
const DefaultMaxGroups = 1000

// ReplayError reports a record that could not be replayed. The log has
// been truncated at Index.
type ReplayError struct {
	Index  int
	Record Record
	Err    error
}

func (e *ReplayError) Error() string {
	return fmt.Sprintf("replay record %d (%s): %v", e.Index, e.Record, e.Err)
}

func (e *ReplayError) Unwrap() []error {
	return []error{ErrLogCorrupt, e.Err}
}

// OperationInfo describes one undoable group.
type OperationInfo struct {
	Description string
	Timestamp   time.Time
	Records     int
}

// Log is the undo log of one buffer. It is not safe for concurrent use.
type Log struct {
	records []Record
	cursor  int // records[:cursor] are applied
	saved   int // cursor at last save; -1 when unreachable

	maxGroups int
	heads     int
	keepAll   bool
	replaying bool

	groupDepth  int
	groupName   string
	pendingHead bool
}

// Option configures a Log.
type Option func(*Log)

// WithMaxGroups sets the soft cap on logged groups.
func WithMaxGroups(n int) Option {
	return func(l *Log) {
		if n > 0 {
			l.maxGroups = n
		}
	}
}

// WithKeepAll keeps undone records when new edits arrive.
func WithKeepAll(keep bool) Option {
	return func(l *Log) {
		l.keepAll = keep
	}
}

// New creates an empty log.
func New(opts ...Option) *Log {
	l := &Log{maxGroups: DefaultMaxGroups}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append logs a record that has already been applied to the buffer.
// Appends during replay are ignored.
func (l *Log) Append(r Record) {
	if l.replaying {
		return
	}

	if l.cursor < len(l.records) {
		if l.keepAll {
			l.relogUndone()
		} else {
			l.truncate(l.cursor)
		}
	}

	switch {
	case l.groupDepth == 0:
		r.GroupHead = true
	case l.pendingHead:
		r.GroupHead = true
		r.Name = l.groupName
		l.pendingHead = false
	default:
		r.GroupHead = false
	}
	if r.Time.IsZero() {
		r.Time = time.Now()
	}
	if r.GroupHead {
		l.heads++
	}

	l.records = append(l.records, r)
	l.cursor = len(l.records)
	l.enforceCap()
}

// relogUndone appends the inverses of the undone records so that the tail
// of the log matches the buffer again.
func (l *Log) relogUndone() {
	n := len(l.records)
	for i := n - 1; i >= l.cursor; i-- {
		head := i == n-1 || l.records[i+1].GroupHead
		for j, inv := range l.records[i].inverse() {
			inv.GroupHead = head && j == 0
			inv.Time = time.Now()
			if inv.GroupHead {
				l.heads++
			}
			l.records = append(l.records, inv)
		}
	}
	l.cursor = len(l.records)
}

func (l *Log) truncate(at int) {
	for _, r := range l.records[at:] {
		if r.GroupHead {
			l.heads--
		}
	}
	clear(l.records[at:])
	l.records = l.records[:at]
	if l.cursor > at {
		l.cursor = at
	}
	if l.saved > at {
		l.saved = -1
	}
}

// enforceCap drops the oldest groups while the log holds too many. Only
// applied groups are dropped, and never the group being built.
func (l *Log) enforceCap() {
	for l.heads > l.maxGroups {
		next := 1
		for next < len(l.records) && !l.records[next].GroupHead {
			next++
		}
		if next > l.cursor || next >= len(l.records) {
			return
		}
		clear(l.records[:next])
		l.records = l.records[next:]
		l.cursor -= next
		if l.saved >= 0 {
			l.saved -= next
			if l.saved < 0 {
				l.saved = -1
			}
		}
		l.heads--
	}
}

// Undo reverts up to n groups and returns how many were reverted.
func (l *Log) Undo(t Target, n int) (int, error) {
	if l.cursor == 0 {
		return 0, ErrNothingToUndo
	}
	l.replaying = true
	defer func() { l.replaying = false }()

	done := 0
	for done < n && l.cursor > 0 {
		for l.cursor > 0 {
			i := l.cursor - 1
			r := l.records[i]
			if err := r.revert(t); err != nil {
				l.truncate(i)
				l.saved = -1
				return done, &ReplayError{Index: i, Record: r, Err: err}
			}
			l.cursor = i
			if r.GroupHead {
				break
			}
		}
		done++
	}
	return done, nil
}

// Redo re-applies up to n undone groups and returns how many were applied.
func (l *Log) Redo(t Target, n int) (int, error) {
	if l.cursor >= len(l.records) {
		return 0, ErrNothingToRedo
	}
	l.replaying = true
	defer func() { l.replaying = false }()

	done := 0
	for done < n && l.cursor < len(l.records) {
		for {
			r := l.records[l.cursor]
			if err := r.apply(t); err != nil {
				i := l.cursor
				l.truncate(i)
				l.saved = -1
				return done, &ReplayError{Index: i, Record: r, Err: err}
			}
			l.cursor++
			if l.cursor >= len(l.records) || l.records[l.cursor].GroupHead {
				break
			}
		}
		done++
	}
	return done, nil
}

// Replaying reports whether the log is replaying records.
func (l *Log) Replaying() bool { return l.replaying }

// BeginGroup starts a group. Nested calls join the outer group.
func (l *Log) BeginGroup(name string) {
	l.groupDepth++
	if l.groupDepth == 1 {
		l.groupName = name
		l.pendingHead = true
	}
}

// EndGroup closes the innermost group.
func (l *Log) EndGroup() {
	if l.groupDepth == 0 {
		return
	}
	l.groupDepth--
	if l.groupDepth == 0 {
		l.groupName = ""
		l.pendingHead = false
	}
}

// CancelGroup closes every open group. Records already logged stay in
// the log as one group.
func (l *Log) CancelGroup() {
	l.groupDepth = 0
	l.groupName = ""
	l.pendingHead = false
}

// IsGrouping reports whether a group is open.
func (l *Log) IsGrouping() bool { return l.groupDepth > 0 }

// MarkSaved records the current cursor as the saved state.
func (l *Log) MarkSaved() { l.saved = l.cursor }

// MarkModified makes the saved state unreachable.
func (l *Log) MarkModified() { l.saved = -1 }

// Modified reports whether the cursor differs from the saved cursor.
func (l *Log) Modified() bool { return l.cursor != l.saved }

// CanUndo reports whether any applied record remains.
func (l *Log) CanUndo() bool { return l.cursor > 0 }

// CanRedo reports whether any undone record remains.
func (l *Log) CanRedo() bool { return l.cursor < len(l.records) }

// Len returns the number of records.
func (l *Log) Len() int { return len(l.records) }

// Cursor returns the number of applied records.
func (l *Log) Cursor() int { return l.cursor }

// Groups returns the number of logged groups.
func (l *Log) Groups() int { return l.heads }

// Record returns record i.
func (l *Log) Record(i int) Record { return l.records[i] }

// MaxGroups returns the soft cap on logged groups.
func (l *Log) MaxGroups() int { return l.maxGroups }

// SetMaxGroups changes the soft cap and trims the log if needed.
func (l *Log) SetMaxGroups(n int) {
	if n <= 0 {
		n = DefaultMaxGroups
	}
	l.maxGroups = n
	l.enforceCap()
}

// KeepAll reports whether undone records survive new edits.
func (l *Log) KeepAll() bool { return l.keepAll }

// SetKeepAll switches the keep-all mode.
func (l *Log) SetKeepAll(keep bool) { l.keepAll = keep }

// Clear drops every record. A saved log stays unmodified.
func (l *Log) Clear() {
	modified := l.Modified()
	clear(l.records)
	l.records = l.records[:0]
	l.cursor = 0
	l.heads = 0
	l.saved = 0
	if modified {
		l.saved = -1
	}
	l.CancelGroup()
}

// PeekUndo describes the group the next Undo would revert.
func (l *Log) PeekUndo() (OperationInfo, bool) {
	if l.cursor == 0 {
		return OperationInfo{}, false
	}
	i := l.cursor - 1
	for i > 0 && !l.records[i].GroupHead {
		i--
	}
	return l.info(i, l.cursor), true
}

// PeekRedo describes the group the next Redo would apply.
func (l *Log) PeekRedo() (OperationInfo, bool) {
	if l.cursor >= len(l.records) {
		return OperationInfo{}, false
	}
	end := l.cursor + 1
	for end < len(l.records) && !l.records[end].GroupHead {
		end++
	}
	return l.info(l.cursor, end), true
}

func (l *Log) info(start, end int) OperationInfo {
	head := l.records[start]
	desc := head.Name
	if desc == "" {
		desc = head.String()
	}
	return OperationInfo{
		Description: desc,
		Timestamp:   head.Time,
		Records:     end - start,
	}
}
