// Package engine groups the text storage layers of the editor.
//
// # Architecture
//
//   - page: the paged byte store. Pages are owned heap slices or borrowed
//     views of a read-only file mapping, and each caches its line and
//     character counts.
//   - charset: decoders and encoders for the supported charsets plus end
//     of line handling.
//   - history: the undo log of insert, delete and group records.
//   - buffer: the editing API built from the three above, with offset and
//     line/column conversions, the style shadow and change observers.
//   - search: the forward and backward search primitive over a buffer.
//
// Offsets are byte offsets into the buffer's encoded contents unless a
// function says otherwise. Character offsets count decoded code points.
package engine
