package history

import (
	"fmt"
	"time"
)

// Op is the kind of a record.
type Op uint8

const (
	OpInsert Op = iota
	OpDelete
	OpWrite
)

// String returns the op name.
func (o Op) String() string {
	switch o {
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	case OpWrite:
		return "write"
	default:
		return fmt.Sprintf("op(%d)", o)
	}
}

// Target receives replayed records.
type Target interface {
	Insert(off int, data []byte) error
	Delete(off, n int) ([]byte, error)
	Write(off int, data []byte) ([]byte, error)
}

// Record is one reversible edit. The byte slices are owned by the record.
//
// For OpInsert, New holds the inserted bytes. For OpDelete, Old holds the
// removed bytes. For OpWrite, Old holds the overwritten bytes and New the
// written ones; New may be longer than Old when the write extended the
// buffer.
type Record struct {
	Op        Op
	Offset    int
	Old       []byte
	New       []byte
	GroupHead bool
	Name      string
	Time      time.Time
}

// Insert returns an insert record.
func Insert(off int, data []byte) Record {
	return Record{Op: OpInsert, Offset: off, New: clone(data)}
}

// Delete returns a delete record.
func Delete(off int, removed []byte) Record {
	return Record{Op: OpDelete, Offset: off, Old: clone(removed)}
}

// Write returns a write record.
func Write(off int, old, data []byte) Record {
	return Record{Op: OpWrite, Offset: off, Old: clone(old), New: clone(data)}
}

func clone(p []byte) []byte {
	if len(p) == 0 {
		return nil
	}
	out := make([]byte, len(p))
	copy(out, p)
	return out
}

// Size returns the number of payload bytes held by the record.
func (r Record) Size() int {
	return len(r.Old) + len(r.New)
}

// String describes the record.
func (r Record) String() string {
	switch r.Op {
	case OpInsert:
		return fmt.Sprintf("insert %d bytes at %d", len(r.New), r.Offset)
	case OpDelete:
		return fmt.Sprintf("delete %d bytes at %d", len(r.Old), r.Offset)
	default:
		return fmt.Sprintf("write %d bytes at %d", len(r.New), r.Offset)
	}
}

// apply replays the record forward.
func (r Record) apply(t Target) error {
	switch r.Op {
	case OpInsert:
		return t.Insert(r.Offset, r.New)
	case OpDelete:
		_, err := t.Delete(r.Offset, len(r.Old))
		return err
	case OpWrite:
		_, err := t.Write(r.Offset, r.New)
		return err
	}
	return fmt.Errorf("unknown record op %d", r.Op)
}

// revert replays the inverse of the record.
func (r Record) revert(t Target) error {
	for _, inv := range r.inverse() {
		if err := inv.apply(t); err != nil {
			return err
		}
	}
	return nil
}

// inverse returns the records that undo r, in application order.
func (r Record) inverse() []Record {
	switch r.Op {
	case OpInsert:
		return []Record{{Op: OpDelete, Offset: r.Offset, Old: r.New}}
	case OpDelete:
		return []Record{{Op: OpInsert, Offset: r.Offset, New: r.Old}}
	default:
		n := min(len(r.Old), len(r.New))
		out := []Record{{Op: OpWrite, Offset: r.Offset, Old: r.New[:n], New: r.Old}}
		if ext := r.New[n:]; len(ext) > 0 {
			out = append(out, Record{Op: OpDelete, Offset: r.Offset + n, Old: ext})
		}
		return out
	}
}
