package cursor

import (
	"unicode"

	"github.com/rivo/uniseg"

	"github.com/scribe-editor/scribe/internal/engine/buffer"
)

// Movement primitives. Each applies a per-cursor move to every cursor in the
// set independently, consulting that cursor's own desired column and the
// buffer's line lengths, then re-sorts and deduplicates.
//
// When extend is false, a non-empty selection first collapses toward the
// movement direction (start for leftward moves, end for rightward moves)
// instead of moving the head, matching conventional editor behavior.

// MoveLeft moves every cursor one grapheme cluster left, wrapping to the end
// of the previous line. Clears the desired column.
func (s *Set) MoveLeft(buf *buffer.Buffer, extend bool) {
	s.transformEach(func(e entry) entry {
		if !extend && !e.sel.IsEmpty() {
			return entry{sel: e.sel.CollapseToStart(), desired: NoDesired}
		}

		pos := e.sel.Head
		if pos.Column > 0 {
			pos.Column = prevColumn(buf.LineText(pos.Line), pos.Column)
		} else if pos.Line > 0 {
			pos.Line--
			pos.Column = buf.LineLen(pos.Line)
		}
		return moveEntry(e, pos, extend)
	})
}

// MoveRight moves every cursor one grapheme cluster right, wrapping to the
// start of the next line. Clears the desired column.
func (s *Set) MoveRight(buf *buffer.Buffer, extend bool) {
	s.transformEach(func(e entry) entry {
		if !extend && !e.sel.IsEmpty() {
			return entry{sel: e.sel.CollapseToEnd(), desired: NoDesired}
		}

		pos := e.sel.Head
		if pos.Column < buf.LineLen(pos.Line) {
			pos.Column = nextColumn(buf.LineText(pos.Line), pos.Column)
		} else if pos.Line+1 < buf.LineCount() {
			pos.Line++
			pos.Column = 0
		}
		return moveEntry(e, pos, extend)
	})
}

// MoveUp moves every cursor one line up, remembering the desired column so
// travel through short lines restores the horizontal position.
func (s *Set) MoveUp(buf *buffer.Buffer, extend bool) {
	s.moveVertical(buf, extend, -1)
}

// MoveDown moves every cursor one line down. See MoveUp for desired-column
// semantics.
func (s *Set) MoveDown(buf *buffer.Buffer, extend bool) {
	s.moveVertical(buf, extend, 1)
}

func (s *Set) moveVertical(buf *buffer.Buffer, extend bool, delta int32) {
	s.transformEach(func(e entry) entry {
		if !extend && !e.sel.IsEmpty() {
			e = entry{sel: e.sel.Collapse(), desired: e.desired}
		}

		pos := e.sel.Head
		target := e.cursor().targetColumn()

		newLine := int64(pos.Line) + int64(delta)
		switch {
		case newLine < 0:
			// Past the top: jump to document start, like hitting a wall.
			return moveEntry(e, Position{}, extend)
		case newLine >= int64(buf.LineCount()):
			last := buf.LineCount() - 1
			return moveEntry(e, Position{Line: last, Column: buf.LineLen(last)}, extend)
		}

		pos.Line = uint32(newLine)
		pos.Column = target
		if lineLen := buf.LineLen(pos.Line); pos.Column > lineLen {
			pos.Column = lineLen
		}

		next := moveEntry(e, pos, extend)
		next.desired = int(target)
		return next
	})
}

// WordLeft moves every cursor to the start of the previous word, wrapping
// across line boundaries. Clears the desired column.
func (s *Set) WordLeft(buf *buffer.Buffer, extend bool) {
	s.transformEach(func(e entry) entry {
		if !extend && !e.sel.IsEmpty() {
			return entry{sel: e.sel.CollapseToStart(), desired: NoDesired}
		}
		return moveEntry(e, wordLeftFrom(buf, e.sel.Head), extend)
	})
}

// WordRight moves every cursor to the end of the current or next word,
// wrapping across line boundaries. Clears the desired column.
func (s *Set) WordRight(buf *buffer.Buffer, extend bool) {
	s.transformEach(func(e entry) entry {
		if !extend && !e.sel.IsEmpty() {
			return entry{sel: e.sel.CollapseToEnd(), desired: NoDesired}
		}
		return moveEntry(e, wordRightFrom(buf, e.sel.Head), extend)
	})
}

// LineStart moves to the first non-blank column, or to column 0 when the
// cursor is already there (smart home). Clears the desired column.
func (s *Set) LineStart(buf *buffer.Buffer, extend bool) {
	s.transformEach(func(e entry) entry {
		pos := e.sel.Head
		firstNonBlank := buf.FirstNonBlankColumn(pos.Line)
		if pos.Column == firstNonBlank {
			pos.Column = 0
		} else {
			pos.Column = firstNonBlank
		}
		return moveEntry(e, pos, extend)
	})
}

// LineEnd moves to the end of the line. Clears the desired column.
func (s *Set) LineEnd(buf *buffer.Buffer, extend bool) {
	s.transformEach(func(e entry) entry {
		pos := e.sel.Head
		pos.Column = buf.LineLen(pos.Line)
		return moveEntry(e, pos, extend)
	})
}

// DocumentStart moves to (0,0). Multiple cursors collapse into one.
func (s *Set) DocumentStart(buf *buffer.Buffer, extend bool) {
	s.transformEach(func(e entry) entry {
		return moveEntry(e, Position{}, extend)
	})
}

// DocumentEnd moves past the last character. Multiple cursors collapse into
// one.
func (s *Set) DocumentEnd(buf *buffer.Buffer, extend bool) {
	s.transformEach(func(e entry) entry {
		return moveEntry(e, buf.EndPosition(), extend)
	})
}

// MoveTo places the active cursor at pos (clamped), dropping all other
// cursors when extend is false, as a pointer click does.
func (s *Set) MoveTo(buf *buffer.Buffer, pos Position, extend bool) {
	pos = buf.ClampPosition(pos)
	if extend {
		i := s.active
		s.entries[i] = moveEntry(s.entries[i], pos, true)
		s.normalize()
		s.check()
		return
	}
	s.entries = []entry{{sel: Caret(pos), desired: NoDesired}}
	s.active = 0
	s.check()
}

// SelectAll replaces all cursors with one selection spanning the document.
func (s *Set) SelectAll(buf *buffer.Buffer) {
	s.entries = []entry{{
		sel:     Selection{Anchor: Position{}, Head: buf.EndPosition()},
		desired: NoDesired,
	}}
	s.active = 0
	s.check()
}

// SelectLines expands every selection to cover its full lines, including
// the trailing newline where one exists.
func (s *Set) SelectLines(buf *buffer.Buffer) {
	s.transformEach(func(e entry) entry {
		start := Position{Line: e.sel.Start().Line}
		endLine := e.sel.End().Line
		var end Position
		if endLine+1 < buf.LineCount() {
			end = Position{Line: endLine + 1}
		} else {
			end = Position{Line: endLine, Column: buf.LineLen(endLine)}
		}
		return entry{sel: Selection{Anchor: start, Head: end}, desired: NoDesired}
	})
	s.MergeOverlapping()
}

// SelectWord selects the word under every cursor; on whitespace or
// punctuation it selects that run instead. Results that touch merge, so
// invoking this on adjacent words yields one span.
func (s *Set) SelectWord(buf *buffer.Buffer) {
	s.transformEach(func(e entry) entry {
		start, end := wordBoundsAt(buf, e.sel.Head)
		if start == end {
			return entry{sel: Caret(start), desired: NoDesired}
		}
		return entry{sel: Selection{Anchor: start, Head: end}, desired: NoDesired}
	})
	s.MergeOverlapping()
}

// Clamp pulls every cursor and selection back inside the buffer. Used after
// another view edits the shared document.
func (s *Set) Clamp(buf *buffer.Buffer) {
	s.transformEach(func(e entry) entry {
		e.sel.Anchor = buf.ClampPosition(e.sel.Anchor)
		e.sel.Head = buf.ClampPosition(e.sel.Head)
		return e
	})
}

// moveEntry produces the post-move entry: either an extended selection or a
// collapsed caret at pos. Horizontal moves clear the desired column; the
// vertical mover restores it afterwards.
func moveEntry(e entry, pos Position, extend bool) entry {
	if extend {
		return entry{sel: e.sel.Extend(pos), desired: NoDesired}
	}
	return entry{sel: Caret(pos), desired: NoDesired}
}

// Grapheme-aware column stepping. Columns count characters, but a cursor
// must never land inside a grapheme cluster, so steps advance whole
// clusters.

// nextColumn returns the column after the grapheme cluster at col.
func nextColumn(line string, col uint32) uint32 {
	var c uint32
	state := -1
	rest := line
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.StepString(rest, state)
		width := uint32(len([]rune(cluster)))
		if c+width > col {
			return c + width
		}
		c += width
	}
	return c
}

// prevColumn returns the column of the start of the grapheme cluster
// preceding col.
func prevColumn(line string, col uint32) uint32 {
	var c, prev uint32
	state := -1
	rest := line
	for len(rest) > 0 && c < col {
		var cluster string
		cluster, rest, _, state = uniseg.StepString(rest, state)
		prev = c
		c += uint32(len([]rune(cluster)))
	}
	return prev
}

// charClass buckets runes for word motion: whitespace, word characters
// (letters, digits, underscore), and everything else.
type charClass uint8

const (
	classSpace charClass = iota
	classWord
	classOther
)

func classify(r rune) charClass {
	switch {
	case unicode.IsSpace(r):
		return classSpace
	case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
		return classWord
	default:
		return classOther
	}
}

// wordRightFrom returns the end of the current or next word. At end of line
// it first wraps to the start of the next line.
func wordRightFrom(buf *buffer.Buffer, pos Position) Position {
	if pos.Column >= buf.LineLen(pos.Line) {
		if pos.Line+1 >= buf.LineCount() {
			return pos
		}
		pos.Line++
		pos.Column = 0
	}

	runes := []rune(buf.LineText(pos.Line))
	col := int(pos.Column)

	// Skip leading space, then run to the end of the word or symbol run.
	for col < len(runes) && classify(runes[col]) == classSpace {
		col++
	}
	if col < len(runes) {
		cls := classify(runes[col])
		for col < len(runes) && classify(runes[col]) == cls {
			col++
		}
	}

	pos.Column = uint32(col)
	return pos
}

// wordLeftFrom returns the start of the current or previous word. At start
// of line it first wraps to the end of the previous line.
func wordLeftFrom(buf *buffer.Buffer, pos Position) Position {
	if pos.Column == 0 {
		if pos.Line == 0 {
			return pos
		}
		pos.Line--
		pos.Column = buf.LineLen(pos.Line)
	}

	runes := []rune(buf.LineText(pos.Line))
	col := int(pos.Column)

	for col > 0 && classify(runes[col-1]) == classSpace {
		col--
	}
	if col > 0 {
		cls := classify(runes[col-1])
		for col > 0 && classify(runes[col-1]) == cls {
			col--
		}
	}

	pos.Column = uint32(col)
	return pos
}

// wordBoundsAt returns the extent of the character-class run containing
// pos. Past the last character it anchors on the preceding one; an empty
// line yields an empty extent.
func wordBoundsAt(buf *buffer.Buffer, pos Position) (Position, Position) {
	runes := []rune(buf.LineText(pos.Line))
	if len(runes) == 0 {
		return pos, pos
	}
	col := int(pos.Column)
	if col >= len(runes) {
		col = len(runes) - 1
	}
	cls := classify(runes[col])
	start, end := col, col+1
	for start > 0 && classify(runes[start-1]) == cls {
		start--
	}
	for end < len(runes) && classify(runes[end]) == cls {
		end++
	}
	return Position{Line: pos.Line, Column: uint32(start)},
		Position{Line: pos.Line, Column: uint32(end)}
}
