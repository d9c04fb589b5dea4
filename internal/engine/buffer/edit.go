package buffer

import "fmt"

// Edit specifies a range to replace and its replacement text. An insert has
// an empty range; a delete has empty NewText.
type Edit struct {
	Range   Range
	NewText string
}

// NewInsert creates an Edit inserting text at offset.
func NewInsert(offset ByteOffset, text string) Edit {
	return Edit{Range: Range{Start: offset, End: offset}, NewText: text}
}

// NewDelete creates an Edit removing [start, end).
func NewDelete(start, end ByteOffset) Edit {
	return Edit{Range: Range{Start: start, End: end}}
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	if e.Range.IsEmpty() {
		return fmt.Sprintf("Insert(%d, %q)", e.Range.Start, e.NewText)
	}
	if e.NewText == "" {
		return fmt.Sprintf("Delete%s", e.Range)
	}
	return fmt.Sprintf("Replace%s with %q", e.Range, e.NewText)
}

// IsInsert returns true for a pure insertion.
func (e Edit) IsInsert() bool {
	return e.Range.IsEmpty() && e.NewText != ""
}

// IsDelete returns true for a pure deletion.
func (e Edit) IsDelete() bool {
	return !e.Range.IsEmpty() && e.NewText == ""
}

// IsNoOp returns true if the edit changes nothing.
func (e Edit) IsNoOp() bool {
	return e.Range.IsEmpty() && e.NewText == ""
}

// Delta returns the change in buffer length caused by the edit.
func (e Edit) Delta() ByteOffset {
	return ByteOffset(len(e.NewText)) - e.Range.Len()
}

// EditResult describes an applied edit.
type EditResult struct {
	OldRange Range      // range that was replaced
	NewRange Range      // range now occupied by the new text
	OldText  string     // text that was replaced
	Delta    ByteOffset // change in buffer length
}
