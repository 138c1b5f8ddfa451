// Package history provides the per-buffer undo log.
//
// The log is an ordered list of reversible records. Each record is one of
//   - Insert: bytes inserted at an offset
//   - Delete: bytes removed at an offset
//   - Write: bytes overwritten at an offset, with the old and new bytes
//
// A cursor separates applied records from undone ones:
//
//	log := history.New(history.WithMaxGroups(1000))
//
//	log.Append(history.Record{Op: history.OpInsert, Offset: 0, New: []byte("hi")})
//
//	log.Undo(target, 1) // reverts the last group
//	log.Redo(target, 1) // re-applies it
//
// A new record appended while the cursor is not at the tail truncates the
// undone records, unless the log keeps all history, in which case the undone
// records are re-logged as their inverses first so that nothing is lost.
//
// # Grouping
//
// The first record of a user action is a group head. Undo walks back to the
// previous group head (inclusive):
//
//	log.BeginGroup("replace")
//	// ... several records ...
//	log.EndGroup()
//
// # Replay
//
// Undo and redo replay records against a Target. Appends are ignored while
// replaying, so the Target may share the normal mutation path.
package history
