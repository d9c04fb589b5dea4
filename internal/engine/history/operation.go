package history

import (
	"github.com/scribe-editor/scribe/internal/engine/buffer"
)

// ByteOffset is an alias for buffer.ByteOffset for convenience.
type ByteOffset = buffer.ByteOffset

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// Operation is a single primitive edit, recorded with enough information to
// replay it in either direction. Range and OldText describe the document
// immediately before the edit; NewText is what replaced that range.
type Operation struct {
	Range   Range
	OldText string
	NewText string
}

// NewInsertOperation records an insertion of text at offset.
func NewInsertOperation(offset ByteOffset, text string) Operation {
	return Operation{
		Range:   Range{Start: offset, End: offset},
		NewText: text,
	}
}

// NewDeleteOperation records the removal of oldText at r.
func NewDeleteOperation(r Range, oldText string) Operation {
	return Operation{
		Range:   r,
		OldText: oldText,
	}
}

// NewReplaceOperation records oldText at r being replaced with newText.
func NewReplaceOperation(r Range, oldText, newText string) Operation {
	return Operation{
		Range:   r,
		OldText: oldText,
		NewText: newText,
	}
}

// IsInsert returns true for a pure insertion.
func (op Operation) IsInsert() bool {
	return op.Range.IsEmpty() && len(op.NewText) > 0
}

// IsDelete returns true for a pure deletion.
func (op Operation) IsDelete() bool {
	return !op.Range.IsEmpty() && len(op.NewText) == 0
}

// IsNoop returns true if the operation changes nothing.
func (op Operation) IsNoop() bool {
	return op.Range.IsEmpty() && len(op.NewText) == 0
}

// Delta returns the change in document length in bytes.
func (op Operation) Delta() ByteOffset {
	return ByteOffset(len(op.NewText)) - op.Range.Len()
}

// NewRange returns the range the new text occupies after the operation.
func (op Operation) NewRange() Range {
	return Range{
		Start: op.Range.Start,
		End:   op.Range.Start + ByteOffset(len(op.NewText)),
	}
}

// Invert returns the operation that exactly undoes op, expressed against the
// document state after op was applied.
func (op Operation) Invert() Operation {
	return Operation{
		Range:   op.NewRange(),
		OldText: op.NewText,
		NewText: op.OldText,
	}
}

// Apply replays the operation against buf.
func (op Operation) Apply(buf *buffer.Buffer) error {
	_, err := buf.ApplyEdit(buffer.Edit{Range: op.Range, NewText: op.NewText})
	return err
}

// OperationList is a sequence of operations applied one after another. Each
// operation's range is expressed in the document state produced by the
// operations before it, so a list replays correctly in order and its
// inverse replays correctly in reverse.
type OperationList []Operation

// Invert returns the inverse list: each operation inverted, in reverse
// order.
func (ops OperationList) Invert() OperationList {
	inv := make(OperationList, len(ops))
	for i, op := range ops {
		inv[len(ops)-1-i] = op.Invert()
	}
	return inv
}

// Apply replays every operation in order. Stops at the first error.
func (ops OperationList) Apply(buf *buffer.Buffer) error {
	for _, op := range ops {
		if err := op.Apply(buf); err != nil {
			return err
		}
	}
	return nil
}

// TotalDelta returns the combined change in document length.
func (ops OperationList) TotalDelta() ByteOffset {
	var total ByteOffset
	for _, op := range ops {
		total += op.Delta()
	}
	return total
}
