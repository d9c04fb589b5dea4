package cursor

import (
	"fmt"

	"github.com/scribe-editor/scribe/internal/engine/buffer"
)

// Position is an alias for buffer.Position for convenience.
type Position = buffer.Position

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// NoDesired marks an unset desired column.
const NoDesired = -1

// Cursor is an insertion point plus the remembered column for vertical
// movement. The desired column survives travel through short lines so the
// cursor snaps back when a long enough line is reached; any horizontal
// movement or edit clears it.
type Cursor struct {
	Pos     Position
	Desired int
}

// At creates a cursor at the given position with no desired column.
func At(pos Position) Cursor {
	return Cursor{Pos: pos, Desired: NoDesired}
}

// HasDesired returns true if a desired column is remembered.
func (c Cursor) HasDesired() bool {
	return c.Desired != NoDesired
}

// targetColumn returns the column vertical movement aims for.
func (c Cursor) targetColumn() uint32 {
	if c.HasDesired() {
		return uint32(c.Desired)
	}
	return c.Pos.Column
}

// String returns a human-readable representation of the cursor.
func (c Cursor) String() string {
	if c.HasDesired() {
		return fmt.Sprintf("Cursor%v~%d", c.Pos, c.Desired)
	}
	return fmt.Sprintf("Cursor%v", c.Pos)
}
