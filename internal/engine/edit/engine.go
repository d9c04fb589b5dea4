package edit

import (
	"fmt"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/scribe-editor/scribe/internal/engine/buffer"
	"github.com/scribe-editor/scribe/internal/engine/cursor"
	"github.com/scribe-editor/scribe/internal/engine/history"
)

// Engine applies multi-cursor edits to a buffer and records every change
// in history. All operations are transactional at the user-action level:
// one call produces at most one undo step, no matter how many cursors took
// part.
type Engine struct {
	buf  *buffer.Buffer
	hist *history.History

	indentUnit string
}

// New creates an engine over buf recording into hist.
func New(buf *buffer.Buffer, hist *history.History) *Engine {
	return &Engine{
		buf:        buf,
		hist:       hist,
		indentUnit: "\t",
	}
}

// SetIndentUnit changes the string Indent inserts, "\t" or a run of
// spaces. Empty values are ignored.
func (e *Engine) SetIndentUnit(unit string) {
	if unit != "" {
		e.indentUnit = unit
	}
}

// Buffer returns the buffer this engine edits.
func (e *Engine) Buffer() *buffer.Buffer { return e.buf }

// History returns the history this engine records into.
func (e *Engine) History() *history.History { return e.hist }

// InsertText types text at every cursor. Non-empty selections are replaced
// by the text, so select-then-type is a single operation and a single undo
// step restores the selected text and the selection itself.
func (e *Engine) InsertText(set *cursor.Set, text string) error {
	if text == "" {
		return nil
	}

	coalescible := utf8.RuneCountInString(text) == 1 && text != "\n"
	sels := set.Selections()
	for _, sel := range sels {
		if !sel.IsEmpty() {
			coalescible = false
			break
		}
	}

	return e.apply(set, coalescible, func(sel cursor.Selection) (buffer.Range, string) {
		return e.selRange(sel), text
	})
}

// InsertNewline splits the line at every cursor.
func (e *Engine) InsertNewline(set *cursor.Set) error {
	return e.InsertText(set, "\n")
}

// DeleteBackward is backspace: remove the selection, or the grapheme
// cluster before the cursor, joining with the previous line at column 0.
func (e *Engine) DeleteBackward(set *cursor.Set) error {
	coalescible := !set.HasSelection()
	return e.apply(set, coalescible, func(sel cursor.Selection) (buffer.Range, string) {
		if !sel.IsEmpty() {
			return e.selRange(sel), ""
		}
		pos := sel.Head
		if pos.Column == 0 && pos.Line == 0 {
			return buffer.Range{}, "" // noop, filtered out
		}
		var from buffer.Position
		if pos.Column > 0 {
			from = buffer.Pos(pos.Line, prevClusterColumn(e.buf.LineText(pos.Line), pos.Column))
		} else {
			from = buffer.Pos(pos.Line-1, e.buf.LineLen(pos.Line-1))
		}
		return buffer.Range{
			Start: e.buf.PositionToOffset(from),
			End:   e.buf.PositionToOffset(pos),
		}, ""
	})
}

// DeleteForward is the delete key: remove the selection, or the grapheme
// cluster after the cursor, joining with the next line at end of line.
func (e *Engine) DeleteForward(set *cursor.Set) error {
	coalescible := !set.HasSelection()
	return e.apply(set, coalescible, func(sel cursor.Selection) (buffer.Range, string) {
		if !sel.IsEmpty() {
			return e.selRange(sel), ""
		}
		pos := sel.Head
		lineLen := e.buf.LineLen(pos.Line)
		var to buffer.Position
		switch {
		case pos.Column < lineLen:
			to = buffer.Pos(pos.Line, nextClusterColumn(e.buf.LineText(pos.Line), pos.Column))
		case pos.Line+1 < e.buf.LineCount():
			to = buffer.Pos(pos.Line+1, 0)
		default:
			return buffer.Range{}, "" // end of document
		}
		return buffer.Range{
			Start: e.buf.PositionToOffset(pos),
			End:   e.buf.PositionToOffset(to),
		}, ""
	})
}

// DeleteSelections removes all selected text, leaving carets. Cursors
// without a selection are untouched.
func (e *Engine) DeleteSelections(set *cursor.Set) error {
	if !set.HasSelection() {
		return nil
	}
	return e.apply(set, false, func(sel cursor.Selection) (buffer.Range, string) {
		return e.selRange(sel), ""
	})
}

// Undo reverts the last undo step and restores its cursor state into set.
func (e *Engine) Undo(set *cursor.Set) error {
	if err := e.hist.Undo(e.buf, set); err != nil {
		return err
	}
	set.Clamp(e.buf)
	return nil
}

// Redo reapplies the last undone step.
func (e *Engine) Redo(set *cursor.Set) error {
	if err := e.hist.Redo(e.buf, set); err != nil {
		return err
	}
	set.Clamp(e.buf)
	return nil
}

// apply is the transactional core. It maps every cursor to a replacement
// via edit, applies the replacements in descending document order so
// earlier offsets stay valid, moves each cursor to the end of its inserted
// text, and commits the whole thing as one history entry.
func (e *Engine) apply(set *cursor.Set, coalescible bool, edit func(cursor.Selection) (buffer.Range, string)) error {
	// Overlapping selections would map to overlapping byte ranges and the
	// descending replay would fail partway through. Merged selections are
	// strictly disjoint, so every range stays valid.
	set.MergeOverlapping()

	sels := set.Selections()
	if len(sels) == 0 {
		return nil
	}
	before := set.Snapshot()

	type pending struct {
		r    buffer.Range
		text string
	}
	edits := make([]pending, 0, len(sels))
	headOffs := make([]buffer.ByteOffset, len(sels))
	for i, sel := range sels {
		headOffs[i] = e.buf.PositionToOffset(sel.Head)
		r, text := edit(sel)
		if r.IsEmpty() && text == "" {
			edits = append(edits, pending{r: buffer.Range{Start: -1}})
			continue
		}
		edits = append(edits, pending{r: r, text: text})
	}

	var ops history.OperationList
	for i := len(edits) - 1; i >= 0; i-- {
		p := edits[i]
		if p.r.Start < 0 {
			continue
		}
		oldText := e.buf.TextRange(p.r.Start, p.r.End)
		if _, err := e.buf.Replace(p.r.Start, p.r.End, p.text); err != nil {
			return fmt.Errorf("edit at offset %d: %w", p.r.Start, err)
		}
		ops = append(ops, history.NewReplaceOperation(p.r, oldText, p.text))
	}
	if len(ops) == 0 {
		return nil
	}

	// Reposition cursors left to right, accumulating the length delta of
	// the edits before each one.
	newSels := make([]cursor.Selection, len(sels))
	var delta buffer.ByteOffset
	for i, p := range edits {
		if p.r.Start < 0 {
			// Untouched cursor, shifted by earlier edits.
			off := headOffs[i] + delta
			if max := e.buf.Len(); off > max {
				off = max
			}
			newSels[i] = cursor.Caret(e.buf.OffsetToPosition(off))
			continue
		}
		end := p.r.Start + delta + buffer.ByteOffset(len(p.text))
		newSels[i] = cursor.Caret(e.buf.OffsetToPosition(end))
		delta += buffer.ByteOffset(len(p.text)) - p.r.Len()
	}
	set.Restore(cursor.Snapshot{Selections: newSels, Active: before.Active})

	e.hist.Commit(&history.Entry{
		Ops:         ops,
		Before:      before,
		After:       set.Snapshot(),
		Coalescible: coalescible,
	})
	return nil
}

// selRange converts a selection to byte offsets in the current buffer.
func (e *Engine) selRange(sel cursor.Selection) buffer.Range {
	return buffer.Range{
		Start: e.buf.PositionToOffset(sel.Start()),
		End:   e.buf.PositionToOffset(sel.End()),
	}
}

// nextClusterColumn returns the column just past the grapheme cluster at
// col.
func nextClusterColumn(line string, col uint32) uint32 {
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

// prevClusterColumn returns the column of the grapheme cluster ending at
// col.
func prevClusterColumn(line string, col uint32) uint32 {
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
