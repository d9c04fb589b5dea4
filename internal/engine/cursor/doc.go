// Package cursor provides multi-cursor and selection state for a buffer.
//
// A Set holds one or more selection records, each pairing an anchor/head
// span with the cursor's desired column. Entries are kept sorted by head
// position and deduplicated after every operation. Three cursor roles are
// deliberately separate: primary (index 0, document order, metadata),
// active (viewport-follow target, tracked through sorts), and edge
// (expansion anchor for add-cursor-above/below). Conflating them in a
// single stored index is how the original bugs in this area happened.
//
// Invariant violations panic: they are programming errors and are never
// surfaced to users.
package cursor
