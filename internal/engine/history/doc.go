// Package history provides undo/redo for the editing engine.
//
// Every completed edit is committed as an Entry: the list of primitive
// operations that made the change, plus a full cursor snapshot from before
// and after. Undo replays the inverse operations and restores the Before
// snapshot verbatim; redo replays the operations and restores After. Multi
// cursor layouts therefore survive the round trip exactly, including which
// cursor was active and any remembered desired columns.
//
// # Operations
//
// An Operation records one primitive edit: the range it replaced, the text
// that was there, and the text that went in. An OperationList is a
// sequential program over the buffer. Each operation's range is expressed
// in the document produced by the ones before it, which makes two lists
// composable by concatenation and makes the inverse simply each operation
// inverted in reverse order.
//
// # Coalescing
//
// Entries flagged Coalescible (ordinary typing, character deletes) merge
// with the previous entry when committed inside the coalesce window, so a
// burst of typing undoes as one step.
//
// # Grouping
//
// BeginGroup and EndGroup collapse everything committed in between into a
// single entry, for compound commands like find-and-replace.
package history
