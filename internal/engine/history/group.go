package history

// GroupScope provides a convenient way to group records using defer.
// Usage:
//
//	func replaceMatch(l *Log, ...) {
//	    defer l.GroupScope("replace").End()
//	    // ... delete + insert ...
//	}
type GroupScope struct {
	log    *Log
	active bool
}

// GroupScope starts a new group scope.
// Call End() or use with defer to properly close the group.
func (l *Log) GroupScope(name string) *GroupScope {
	l.BeginGroup(name)
	return &GroupScope{
		log:    l,
		active: true,
	}
}

// End ends the group scope.
// Safe to call multiple times; only the first call has effect.
func (g *GroupScope) End() {
	if g.active {
		g.log.EndGroup()
		g.active = false
	}
}

// Transaction runs fn inside a group. If fn fails, the records it logged
// are reverted against t and dropped, and the error is returned.
func (l *Log) Transaction(name string, t Target, fn func() error) error {
	mark := l.cursor
	relogs := l.keepAll && l.cursor < len(l.records)
	l.BeginGroup(name)
	err := fn()
	l.EndGroup()
	if err == nil {
		return nil
	}

	// Without relogging, whatever fn logged sits at records[mark:].
	if relogs || l.cursor != len(l.records) {
		return err
	}
	l.replaying = true
	defer func() { l.replaying = false }()
	for l.cursor > mark {
		i := l.cursor - 1
		r := l.records[i]
		if rerr := r.revert(t); rerr != nil {
			l.truncate(i)
			l.saved = -1
			return &ReplayError{Index: i, Record: r, Err: rerr}
		}
		l.cursor = i
	}
	l.truncate(mark)
	return err
}

// Checkpoint represents a point in history that can be returned to.
type Checkpoint struct {
	cursor int
}

// CreateCheckpoint creates a checkpoint at the current cursor.
func (l *Log) CreateCheckpoint() Checkpoint {
	return Checkpoint{cursor: l.cursor}
}

// UndoToCheckpoint reverts groups until the cursor is at or before the
// checkpoint.
func (l *Log) UndoToCheckpoint(cp Checkpoint, t Target) error {
	for l.cursor > cp.cursor {
		if _, err := l.Undo(t, 1); err != nil {
			return err
		}
	}
	return nil
}
