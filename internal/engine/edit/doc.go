// Package edit turns cursor state plus user intent into buffer mutations
// and history entries.
//
// The engine is the only writer that should touch a buffer during
// interactive editing. Every public method is one user action: it applies
// the per-cursor edits in descending document order so earlier offsets
// stay valid, repositions all cursors, and commits exactly one history
// entry. Undoing any action therefore restores both the text and the full
// multi-cursor layout in a single step, including select-then-type, which
// is recorded as a replacement rather than a delete plus an insert.
//
// Line operations (delete, duplicate, indent, unindent) work on the union
// of lines covered by any cursor, so overlapping cursors never double-edit
// a line.
package edit
