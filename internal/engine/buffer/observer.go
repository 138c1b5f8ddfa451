package buffer

import "github.com/google/uuid"

// ChangeKind identifies the mutation that produced a Change.
type ChangeKind uint8

const (
	ChangeInsert ChangeKind = iota
	ChangeDelete
	ChangeWrite
	// ChangeReload means the whole content or its interpretation changed.
	ChangeReload
)

// Change describes one buffer mutation.
type Change struct {
	Kind     ChangeKind
	Offset   int
	Inserted int // bytes inserted or written
	Removed  int // bytes deleted or overwritten
	ModCount uint64
}

// Observer is notified after every mutation. Observers must not mutate the
// buffer from BufferChanged.
type Observer interface {
	BufferChanged(b *Buffer, c Change)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(b *Buffer, c Change)

// BufferChanged calls f(b, c).
func (f ObserverFunc) BufferChanged(b *Buffer, c Change) { f(b, c) }

type observerEntry struct {
	id  uuid.UUID
	obs Observer
}

// AddObserver registers o and returns its handle.
func (b *Buffer) AddObserver(o Observer) uuid.UUID {
	id := uuid.New()
	b.observers = append(b.observers, observerEntry{id: id, obs: o})
	return id
}

// RemoveObserver unregisters the observer with handle id.
func (b *Buffer) RemoveObserver(id uuid.UUID) bool {
	for i, e := range b.observers {
		if e.id == id {
			b.observers = append(b.observers[:i], b.observers[i+1:]...)
			return true
		}
	}
	return false
}

// ObserverCount returns the number of registered observers.
func (b *Buffer) ObserverCount() int { return len(b.observers) }

func (b *Buffer) notify(c Change) {
	for _, e := range b.observers {
		e.obs.BufferChanged(b, c)
	}
}
