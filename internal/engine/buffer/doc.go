// Package buffer provides the editable byte buffer of the editor core.
//
// A Buffer owns a paged byte store, a charset and an end-of-line policy, an
// undo log, an optional style shadow and a list of offset-anchored
// properties. Every mutation goes through a single path that updates the
// store, logs a reversible record, keeps the shadow and the properties in
// step, and then notifies observers (windows and their colorizer caches).
//
// Basic usage:
//
//	buf := buffer.NewFromString("hello world")
//
//	buf.InsertText(5, ",")      // "hello, world"
//	buf.Delete(0, 7)            // "world"
//	buf.Undo(1)                 // "hello, world"
//
// Position types:
//
//   - byte offset: position in the raw buffer bytes, 0 <= off <= Size()
//   - character offset: number of decoded code points before a byte offset
//   - line and column: zero-based line number and characters since its start
//
// Character offsets and line numbers are derived from per-page counters
// kept lazily by the page store; they are never stored elsewhere.
//
// A Buffer is owned by the editor loop and is not safe for concurrent use.
package buffer
