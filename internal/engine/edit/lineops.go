package edit

import (
	"fmt"
	"strings"

	"github.com/scribe-editor/scribe/internal/engine/buffer"
	"github.com/scribe-editor/scribe/internal/engine/cursor"
	"github.com/scribe-editor/scribe/internal/engine/history"
)

// Line-granular operations. Each works on the union of lines touched by
// any cursor or selection, applies its per-line edits bottom-up so line
// numbers stay valid mid-operation, and commits one history entry.

// DeleteLines removes every line touched by a cursor. Deleting the last
// line also removes the newline that preceded it. Cursors collapse onto
// the line that takes the deleted text's place, so cursors on adjacent
// lines merge into one.
func (e *Engine) DeleteLines(set *cursor.Set) error {
	lines := set.LinesCovered()
	before := set.Snapshot()
	sels := set.Selections()

	var ops history.OperationList
	for i := len(lines) - 1; i >= 0; i-- {
		l := lines[i]
		var start, end buffer.ByteOffset
		if l+1 < e.buf.LineCount() {
			start = e.buf.LineStartOffset(l)
			end = e.buf.LineStartOffset(l + 1)
		} else {
			// Last line: swallow the preceding newline instead.
			end = e.buf.Len()
			if l > 0 {
				start = e.buf.LineEndOffset(l - 1)
			}
		}
		if start == end {
			continue
		}
		old, err := e.buf.Delete(start, end)
		if err != nil {
			return fmt.Errorf("delete line %d: %w", l, err)
		}
		ops = append(ops, history.NewDeleteOperation(buffer.Range{Start: start, End: end}, old))
	}
	if len(ops) == 0 {
		return nil
	}

	// Cursors whose lines vanished all land on the line that moved up
	// into the gap; one cursor per resulting line is enough.
	var newSels []cursor.Selection
	onLine := make(map[uint32]struct{})
	for _, sel := range sels {
		line := sel.Start().Line
		var removedAbove uint32
		for _, l := range lines {
			if l < line {
				removedAbove++
			}
		}
		pos := e.buf.ClampPosition(buffer.Pos(line-removedAbove, sel.Start().Column))
		if _, ok := onLine[pos.Line]; ok {
			continue
		}
		onLine[pos.Line] = struct{}{}
		newSels = append(newSels, cursor.Caret(pos))
	}
	set.Restore(cursor.Snapshot{Selections: newSels, Active: before.Active})

	e.hist.Commit(&history.Entry{Ops: ops, Before: before, After: set.Snapshot()})
	return nil
}

// lineRange is a contiguous run of covered lines, inclusive.
type lineRange struct {
	start, end uint32
}

func coveredRanges(lines []uint32) []lineRange {
	var ranges []lineRange
	for _, l := range lines {
		if n := len(ranges); n > 0 && ranges[n-1].end+1 == l {
			ranges[n-1].end = l
			continue
		}
		ranges = append(ranges, lineRange{start: l, end: l})
	}
	return ranges
}

// DuplicateLines copies every contiguous block of covered lines in place.
// Cursors ride down onto what is now the second copy, so repeating the
// command keeps stacking duplicates.
func (e *Engine) DuplicateLines(set *cursor.Set) error {
	ranges := coveredRanges(set.LinesCovered())
	before := set.Snapshot()
	sels := set.Selections()

	var ops history.OperationList
	for i := len(ranges) - 1; i >= 0; i-- {
		r := ranges[i]
		start := e.buf.LineStartOffset(r.start)
		var block string
		if r.end+1 < e.buf.LineCount() {
			block = e.buf.TextRange(start, e.buf.LineStartOffset(r.end+1))
		} else {
			block = e.buf.TextRange(start, e.buf.Len()) + "\n"
		}
		if _, err := e.buf.Insert(start, block); err != nil {
			return fmt.Errorf("duplicate lines %d-%d: %w", r.start, r.end, err)
		}
		ops = append(ops, history.NewInsertOperation(start, block))
	}
	if len(ops) == 0 {
		return nil
	}

	newSels := make([]cursor.Selection, len(sels))
	for i, sel := range sels {
		var shift uint32
		for _, r := range ranges {
			if r.start <= sel.Start().Line {
				shift += r.end - r.start + 1
			}
		}
		newSels[i] = cursor.Selection{
			Anchor: buffer.Pos(sel.Anchor.Line+shift, sel.Anchor.Column),
			Head:   buffer.Pos(sel.Head.Line+shift, sel.Head.Column),
		}
	}
	set.Restore(cursor.Snapshot{Selections: newSels, Active: before.Active})

	e.hist.Commit(&history.Entry{Ops: ops, Before: before, After: set.Snapshot()})
	return nil
}

// IndentLines prefixes every covered line with one indent unit. Cursor
// columns on those lines shift right so each cursor stays on the same
// character.
func (e *Engine) IndentLines(set *cursor.Set) error {
	lines := set.LinesCovered()
	before := set.Snapshot()
	sels := set.Selections()

	var ops history.OperationList
	for i := len(lines) - 1; i >= 0; i-- {
		start := e.buf.LineStartOffset(lines[i])
		if _, err := e.buf.Insert(start, e.indentUnit); err != nil {
			return fmt.Errorf("indent line %d: %w", lines[i], err)
		}
		ops = append(ops, history.NewInsertOperation(start, e.indentUnit))
	}
	if len(ops) == 0 {
		return nil
	}

	covered := make(map[uint32]struct{}, len(lines))
	for _, l := range lines {
		covered[l] = struct{}{}
	}
	unitCols := uint32(len([]rune(e.indentUnit)))
	shifted := func(pos buffer.Position) buffer.Position {
		if _, ok := covered[pos.Line]; ok {
			pos.Column += unitCols
		}
		return pos
	}

	newSels := make([]cursor.Selection, len(sels))
	for i, sel := range sels {
		newSels[i] = cursor.Selection{Anchor: shifted(sel.Anchor), Head: shifted(sel.Head)}
	}
	set.Restore(cursor.Snapshot{Selections: newSels, Active: before.Active})

	e.hist.Commit(&history.Entry{Ops: ops, Before: before, After: set.Snapshot()})
	return nil
}

// UnindentLines removes one leading tab, or up to a tab stop's worth of
// leading spaces, from every covered line. Lines with no leading
// whitespace are left alone.
func (e *Engine) UnindentLines(set *cursor.Set) error {
	lines := set.LinesCovered()
	before := set.Snapshot()
	sels := set.Selections()

	removed := make(map[uint32]uint32)
	var ops history.OperationList
	for i := len(lines) - 1; i >= 0; i-- {
		l := lines[i]
		text := e.buf.LineText(l)
		var n int
		if strings.HasPrefix(text, "\t") {
			n = 1
		} else {
			for n < e.buf.TabWidth() && n < len(text) && text[n] == ' ' {
				n++
			}
		}
		if n == 0 {
			continue
		}
		start := e.buf.LineStartOffset(l)
		r := buffer.Range{Start: start, End: start + buffer.ByteOffset(n)}
		old, err := e.buf.Delete(r.Start, r.End)
		if err != nil {
			return fmt.Errorf("unindent line %d: %w", l, err)
		}
		ops = append(ops, history.NewDeleteOperation(r, old))
		removed[l] = uint32(n) // tab or spaces, one column per rune
	}
	if len(ops) == 0 {
		return nil
	}

	shifted := func(pos buffer.Position) buffer.Position {
		if n := removed[pos.Line]; n > 0 {
			if pos.Column > n {
				pos.Column -= n
			} else {
				pos.Column = 0
			}
		}
		return pos
	}

	newSels := make([]cursor.Selection, len(sels))
	for i, sel := range sels {
		newSels[i] = cursor.Selection{Anchor: shifted(sel.Anchor), Head: shifted(sel.Head)}
	}
	set.Restore(cursor.Snapshot{Selections: newSels, Active: before.Active})

	e.hist.Commit(&history.Entry{Ops: ops, Before: before, After: set.Snapshot()})
	return nil
}
