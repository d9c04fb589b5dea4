package buffer

import "fmt"

// ByteOffset is a byte position in the buffer.
type ByteOffset = int64

// Position is a line and column location. Both are 0-indexed. Column counts
// characters (runes), not bytes; column == line length means "after the last
// character".
type Position struct {
	Line   uint32
	Column uint32
}

// Pos is shorthand for constructing a Position.
func Pos(line, column uint32) Position {
	return Position{Line: line, Column: column}
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if equal, 1 if p > other.
func (p Position) Compare(other Position) int {
	if p.Line != other.Line {
		if p.Line < other.Line {
			return -1
		}
		return 1
	}
	if p.Column != other.Column {
		if p.Column < other.Column {
			return -1
		}
		return 1
	}
	return 0
}

// Before returns true if p comes before other in document order.
func (p Position) Before(other Position) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other in document order.
func (p Position) After(other Position) bool {
	return p.Compare(other) > 0
}

// Min returns the earlier of two positions.
func (p Position) Min(other Position) Position {
	if p.Before(other) {
		return p
	}
	return other
}

// Max returns the later of two positions.
func (p Position) Max(other Position) Position {
	if p.After(other) {
		return p
	}
	return other
}

// IsZero returns true for the document start position.
func (p Position) IsZero() bool {
	return p.Line == 0 && p.Column == 0
}

// Revision identifies a buffer content state. It increases monotonically
// with every committed mutation and keys the change signal consumed by
// highlight workers.
type Revision uint64
