package history

import (
	"errors"
	"testing"
)

// sliceTarget is a minimal Target over a byte slice that logs every
// mutation into log, like a buffer would.
type sliceTarget struct {
	data []byte
	log  *Log
}

var errRange = errors.New("out of range")

func (s *sliceTarget) Insert(off int, data []byte) error {
	if off < 0 || off > len(s.data) {
		return errRange
	}
	s.data = append(s.data[:off], append(append([]byte{}, data...), s.data[off:]...)...)
	s.log.Append(Insert(off, data))
	return nil
}

func (s *sliceTarget) Delete(off, n int) ([]byte, error) {
	if off < 0 || off+n > len(s.data) {
		return nil, errRange
	}
	removed := append([]byte{}, s.data[off:off+n]...)
	s.data = append(s.data[:off], s.data[off+n:]...)
	s.log.Append(Delete(off, removed))
	return removed, nil
}

func (s *sliceTarget) Write(off int, data []byte) ([]byte, error) {
	if off < 0 || off > len(s.data) {
		return nil, errRange
	}
	n := min(len(data), len(s.data)-off)
	old := append([]byte{}, s.data[off:off+n]...)
	copy(s.data[off:], data[:n])
	s.data = append(s.data, data[n:]...)
	s.log.Append(Write(off, old, data))
	return old, nil
}

func newTarget(opts ...Option) *sliceTarget {
	return &sliceTarget{log: New(opts...)}
}

func TestUndoRedoSingle(t *testing.T) {
	tg := newTarget()
	if err := tg.Insert(0, []byte("hello world")); err != nil {
		t.Fatal(err)
	}
	if !tg.log.Modified() {
		t.Error("log should be modified after an edit")
	}

	n, err := tg.log.Undo(tg, 1)
	if err != nil || n != 1 {
		t.Fatalf("Undo = %d, %v", n, err)
	}
	if len(tg.data) != 0 {
		t.Errorf("data after undo = %q", tg.data)
	}
	if tg.log.Len() != 1 {
		t.Errorf("replay must not log, Len = %d", tg.log.Len())
	}
	if tg.log.Modified() {
		t.Error("undo back to the saved cursor should be unmodified")
	}

	if _, err := tg.log.Redo(tg, 1); err != nil {
		t.Fatal(err)
	}
	if string(tg.data) != "hello world" {
		t.Errorf("data after redo = %q", tg.data)
	}
}

func TestUndoEmpty(t *testing.T) {
	tg := newTarget()
	if _, err := tg.log.Undo(tg, 1); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo on empty log = %v", err)
	}
	if _, err := tg.log.Redo(tg, 1); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo on empty log = %v", err)
	}
}

func TestWriteUndo(t *testing.T) {
	tests := []struct {
		name string
		init string
		off  int
		data string
		mid  string
	}{
		{"overwrite", "abcdef", 1, "XY", "aXYdef"},
		{"extend", "abc", 2, "XYZ", "abXYZ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tg := newTarget()
			tg.data = []byte(tt.init)
			if _, err := tg.Write(tt.off, []byte(tt.data)); err != nil {
				t.Fatal(err)
			}
			if string(tg.data) != tt.mid {
				t.Fatalf("after write = %q, want %q", tg.data, tt.mid)
			}
			if _, err := tg.log.Undo(tg, 1); err != nil {
				t.Fatal(err)
			}
			if string(tg.data) != tt.init {
				t.Errorf("after undo = %q, want %q", tg.data, tt.init)
			}
			if _, err := tg.log.Redo(tg, 1); err != nil {
				t.Fatal(err)
			}
			if string(tg.data) != tt.mid {
				t.Errorf("after redo = %q, want %q", tg.data, tt.mid)
			}
		})
	}
}

func TestGroupUndo(t *testing.T) {
	tg := newTarget()
	tg.Insert(0, []byte("cat"))

	tg.log.BeginGroup("replace")
	tg.Delete(0, 3)
	tg.Insert(0, []byte("dog"))
	tg.log.EndGroup()

	if tg.log.Groups() != 2 {
		t.Errorf("Groups = %d, want 2", tg.log.Groups())
	}
	info, ok := tg.log.PeekUndo()
	if !ok || info.Description != "replace" || info.Records != 2 {
		t.Errorf("PeekUndo = %+v, %v", info, ok)
	}

	tg.log.Undo(tg, 1)
	if string(tg.data) != "cat" {
		t.Errorf("one undo should revert the whole group, got %q", tg.data)
	}
	tg.log.Undo(tg, 1)
	if string(tg.data) != "" {
		t.Errorf("second undo = %q", tg.data)
	}
}

func TestNestedGroupsJoin(t *testing.T) {
	tg := newTarget()
	tg.log.BeginGroup("outer")
	tg.Insert(0, []byte("a"))
	tg.log.BeginGroup("inner")
	tg.Insert(1, []byte("b"))
	tg.log.EndGroup()
	tg.Insert(2, []byte("c"))
	tg.log.EndGroup()

	if tg.log.Groups() != 1 {
		t.Errorf("Groups = %d, want 1", tg.log.Groups())
	}
	if n, _ := tg.log.Undo(tg, 1); n != 1 || len(tg.data) != 0 {
		t.Errorf("Undo = %d, data %q", n, tg.data)
	}
}

func TestGroupScope(t *testing.T) {
	tg := newTarget()
	func() {
		defer tg.log.GroupScope("scoped").End()
		tg.Insert(0, []byte("x"))
		tg.Insert(1, []byte("y"))
	}()
	if tg.log.IsGrouping() {
		t.Error("scope should close the group")
	}
	if tg.log.Groups() != 1 {
		t.Errorf("Groups = %d", tg.log.Groups())
	}
}

func TestNewEditTruncatesRedo(t *testing.T) {
	tg := newTarget()
	tg.Insert(0, []byte("a"))
	tg.Insert(1, []byte("b"))
	tg.log.Undo(tg, 1)
	tg.Insert(1, []byte("c"))

	if tg.log.CanRedo() {
		t.Error("redo records should be truncated")
	}
	if tg.log.Len() != 2 {
		t.Errorf("Len = %d, want 2", tg.log.Len())
	}
	if string(tg.data) != "ac" {
		t.Errorf("data = %q", tg.data)
	}
}

func TestKeepAllRelogs(t *testing.T) {
	tg := newTarget(WithKeepAll(true))
	tg.Insert(0, []byte("a"))
	tg.Insert(1, []byte("b"))
	tg.log.Undo(tg, 1)
	tg.Insert(1, []byte("c"))

	// insert a, insert b, inverse of b, insert c
	if tg.log.Len() != 4 {
		t.Fatalf("Len = %d, want 4", tg.log.Len())
	}
	if r := tg.log.Record(2); r.Op != OpDelete || string(r.Old) != "b" {
		t.Errorf("relogged record = %v", r)
	}

	// Undoing everything walks back through the relogged history.
	tg.log.Undo(tg, 1)
	if string(tg.data) != "a" {
		t.Errorf("after undo c = %q", tg.data)
	}
	tg.log.Undo(tg, 1)
	if string(tg.data) != "ab" {
		t.Errorf("after undo of the undo = %q", tg.data)
	}
	tg.log.Undo(tg, 2)
	if string(tg.data) != "" {
		t.Errorf("after full undo = %q", tg.data)
	}
}

func TestCapCountsGroups(t *testing.T) {
	tg := newTarget(WithMaxGroups(2))
	for i := 0; i < 3; i++ {
		tg.log.BeginGroup("g")
		tg.Insert(len(tg.data), []byte("x"))
		tg.Insert(len(tg.data), []byte("y"))
		tg.log.EndGroup()
	}
	if tg.log.Groups() != 2 {
		t.Errorf("Groups = %d, want 2", tg.log.Groups())
	}
	if tg.log.Len() != 4 {
		t.Errorf("Len = %d, want 4", tg.log.Len())
	}
	n, _ := tg.log.Undo(tg, 10)
	if n != 2 || string(tg.data) != "xy" {
		t.Errorf("Undo = %d, data %q", n, tg.data)
	}
}

func TestSavedCursor(t *testing.T) {
	tg := newTarget()
	tg.Insert(0, []byte("a"))
	tg.log.MarkSaved()
	if tg.log.Modified() {
		t.Error("should not be modified after save")
	}
	tg.Insert(1, []byte("b"))
	tg.log.Undo(tg, 1)
	if tg.log.Modified() {
		t.Error("undo to the saved point should be unmodified")
	}
	tg.log.Undo(tg, 1)
	if !tg.log.Modified() {
		t.Error("undo past the saved point should be modified")
	}
}

func TestReplayErrorTruncates(t *testing.T) {
	tg := newTarget()
	tg.Insert(0, []byte("abc"))
	tg.Insert(3, []byte("def"))
	tg.log.MarkSaved()

	// Corrupt the buffer behind the log's back.
	tg.data = tg.data[:1]

	_, err := tg.log.Undo(tg, 1)
	var rerr *ReplayError
	if !errors.As(err, &rerr) {
		t.Fatalf("Undo error = %v, want ReplayError", err)
	}
	if !errors.Is(err, ErrLogCorrupt) {
		t.Error("replay error should wrap ErrLogCorrupt")
	}
	if rerr.Index != 1 {
		t.Errorf("Index = %d, want 1", rerr.Index)
	}
	if tg.log.Len() != 1 || tg.log.CanRedo() {
		t.Errorf("log not truncated: Len = %d", tg.log.Len())
	}
	if !tg.log.Modified() {
		t.Error("corrupt log should mark the buffer modified")
	}
}

func TestTransactionRollsBack(t *testing.T) {
	tg := newTarget()
	tg.Insert(0, []byte("keep"))

	boom := errors.New("boom")
	err := tg.log.Transaction("fail", tg, func() error {
		tg.Insert(4, []byte(" me"))
		tg.Delete(0, 1)
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Transaction error = %v", err)
	}
	if string(tg.data) != "keep" {
		t.Errorf("data = %q, want rollback", tg.data)
	}
	if tg.log.Len() != 1 {
		t.Errorf("Len = %d, want 1", tg.log.Len())
	}

	if err := tg.log.Transaction("ok", tg, func() error {
		return tg.Insert(4, []byte("!"))
	}); err != nil {
		t.Fatal(err)
	}
	if string(tg.data) != "keep!" {
		t.Errorf("data = %q", tg.data)
	}
}

func TestUndoToCheckpoint(t *testing.T) {
	tg := newTarget()
	tg.Insert(0, []byte("a"))
	cp := tg.log.CreateCheckpoint()
	tg.Insert(1, []byte("b"))
	tg.Insert(2, []byte("c"))
	if err := tg.log.UndoToCheckpoint(cp, tg); err != nil {
		t.Fatal(err)
	}
	if string(tg.data) != "a" {
		t.Errorf("data = %q", tg.data)
	}
}
