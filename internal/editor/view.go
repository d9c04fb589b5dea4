package editor

import (
	"errors"

	"github.com/scribe-editor/scribe/internal/config"
	"github.com/scribe-editor/scribe/internal/engine/buffer"
	"github.com/scribe-editor/scribe/internal/engine/cursor"
	"github.com/scribe-editor/scribe/internal/engine/edit"
	"github.com/scribe-editor/scribe/internal/engine/history"
	"github.com/scribe-editor/scribe/internal/event"
	"github.com/scribe-editor/scribe/internal/renderer/viewport"
)

// View is one window onto an editor's document: an independent cursor set
// and viewport over the shared buffer. All mutation commands route through
// here so that cursor reveal and cross-view synchronization cannot be
// skipped.
type View struct {
	ed  *Editor
	set *cursor.Set
	vp  *viewport.Viewport
	eng *edit.Engine
}

// NewView opens a view of visibleLines by visibleColumns cells with a
// single cursor at the document start.
func (ed *Editor) NewView(visibleLines, visibleColumns int) *View {
	cfg := ed.Config()
	vp := viewport.New(visibleLines, visibleColumns, viewport.Metrics{
		LineHeight: cfg.Viewport.LineHeight,
		CharWidth:  cfg.Viewport.CharWidth,
	})
	vp.SetMargins(viewport.MarginConfig{
		Top:    cfg.Viewport.MarginLines,
		Bottom: cfg.Viewport.MarginLines,
		Left:   cfg.Viewport.MarginColumns,
		Right:  cfg.Viewport.MarginColumns,
	})

	v := &View{
		ed:  ed,
		set: cursor.New(buffer.Position{}),
		vp:  vp,
		eng: edit.New(ed.buf, ed.hist),
	}
	v.eng.SetIndentUnit(cfg.Editor.IndentUnit())
	v.syncContentSize()

	ed.mu.Lock()
	ed.views = append(ed.views, v)
	ed.mu.Unlock()
	return v
}

// Cursors returns the view's cursor set. The rendering layer reads it; it
// must not mutate it.
func (v *View) Cursors() *cursor.Set { return v.set }

// Viewport returns the view's scroll state.
func (v *View) Viewport() *viewport.Viewport { return v.vp }

// Movement commands. Each moves the cursor set, re-locks the viewport to
// the active cursor, and announces the move.

func (v *View) MoveLeft(extend bool)  { v.move(func() { v.set.MoveLeft(v.ed.buf, extend) }) }
func (v *View) MoveRight(extend bool) { v.move(func() { v.set.MoveRight(v.ed.buf, extend) }) }
func (v *View) MoveUp(extend bool)    { v.move(func() { v.set.MoveUp(v.ed.buf, extend) }) }
func (v *View) MoveDown(extend bool)  { v.move(func() { v.set.MoveDown(v.ed.buf, extend) }) }
func (v *View) WordLeft(extend bool)  { v.move(func() { v.set.WordLeft(v.ed.buf, extend) }) }
func (v *View) WordRight(extend bool) { v.move(func() { v.set.WordRight(v.ed.buf, extend) }) }
func (v *View) LineStart(extend bool) { v.move(func() { v.set.LineStart(v.ed.buf, extend) }) }
func (v *View) LineEnd(extend bool)   { v.move(func() { v.set.LineEnd(v.ed.buf, extend) }) }

func (v *View) DocumentStart(extend bool) {
	v.move(func() { v.set.DocumentStart(v.ed.buf, extend) })
}

func (v *View) DocumentEnd(extend bool) {
	v.move(func() { v.set.DocumentEnd(v.ed.buf, extend) })
}

// MoveTo places the cursor from a pointer click.
func (v *View) MoveTo(pos buffer.Position, extend bool) {
	v.move(func() { v.set.MoveTo(v.ed.buf, pos, extend) })
}

// SelectAll selects the whole document.
func (v *View) SelectAll() {
	v.move(func() { v.set.SelectAll(v.ed.buf) })
}

// SelectLines expands every selection to whole lines.
func (v *View) SelectLines() {
	v.move(func() { v.set.SelectLines(v.ed.buf) })
}

// SelectWord selects the word under every cursor; adjacent words merge
// into one span.
func (v *View) SelectWord() {
	v.move(func() { v.set.SelectWord(v.ed.buf) })
}

// GotoLine jumps to the start of a line and centers it on screen.
func (v *View) GotoLine(line uint32) {
	pos := v.ed.buf.ClampPosition(buffer.Pos(line, 0))
	v.set.MoveTo(v.ed.buf, pos, false)
	v.vp.EnsureVisible(pos, viewport.RevealCentered)
	v.announceCursor()
}

// AddCursorAbove adds a cursor one line above the topmost cursor, keeping
// its column. The new cursor becomes active so the viewport follows it.
func (v *View) AddCursorAbove() {
	edge := v.set.Edge(cursor.DirUp)
	if edge.Pos.Line == 0 {
		return
	}
	v.addCursorAt(edge, edge.Pos.Line-1)
}

// AddCursorBelow adds a cursor one line below the bottommost cursor.
func (v *View) AddCursorBelow() {
	edge := v.set.Edge(cursor.DirDown)
	if edge.Pos.Line+1 >= v.ed.buf.LineCount() {
		return
	}
	v.addCursorAt(edge, edge.Pos.Line+1)
}

func (v *View) addCursorAt(edge cursor.Cursor, line uint32) {
	col := edge.Pos.Column
	if edge.HasDesired() {
		col = uint32(edge.Desired)
	}
	pos := v.ed.buf.ClampPosition(buffer.Pos(line, col))
	v.set.Add(pos)
	v.reveal()
	v.announceCursor()
}

// ToggleCursorAt adds or removes a cursor at pos, from a modified pointer
// click. The last cursor can never be removed.
func (v *View) ToggleCursorAt(pos buffer.Position) {
	v.set.Toggle(v.ed.buf.ClampPosition(pos))
	v.reveal()
	v.announceCursor()
}

// CollapseToPrimary drops all cursors except the top-most one.
func (v *View) CollapseToPrimary() {
	v.move(func() { v.set.CollapseToPrimary() })
}

// CollapseSelections collapses every selection to its head.
func (v *View) CollapseSelections() {
	v.move(func() { v.set.CollapseSelections() })
}

// Edit commands. Each produces at most one undo step and synchronizes all
// other views of the buffer.

func (v *View) InsertText(text string) error {
	return v.edit(func() error { return v.eng.InsertText(v.set, text) })
}

func (v *View) InsertNewline() error {
	return v.edit(func() error { return v.eng.InsertNewline(v.set) })
}

func (v *View) DeleteBackward() error {
	return v.edit(func() error { return v.eng.DeleteBackward(v.set) })
}

func (v *View) DeleteForward() error {
	return v.edit(func() error { return v.eng.DeleteForward(v.set) })
}

func (v *View) DeleteSelections() error {
	return v.edit(func() error { return v.eng.DeleteSelections(v.set) })
}

func (v *View) DeleteLines() error {
	return v.edit(func() error { return v.eng.DeleteLines(v.set) })
}

func (v *View) DuplicateLines() error {
	return v.edit(func() error { return v.eng.DuplicateLines(v.set) })
}

func (v *View) Indent() error {
	return v.edit(func() error { return v.eng.IndentLines(v.set) })
}

func (v *View) Unindent() error {
	return v.edit(func() error { return v.eng.UnindentLines(v.set) })
}

// Undo reverts the last edit, restoring its cursor state into this view.
func (v *View) Undo() error {
	return v.edit(func() error { return v.eng.Undo(v.set) })
}

// Redo reapplies the last undone edit.
func (v *View) Redo() error {
	return v.edit(func() error { return v.eng.Redo(v.set) })
}

// Scroll scrolls by a pixel delta from wheel or scrollbar input. The
// viewport stops following the cursor until the next command.
func (v *View) Scroll(dx, dy float64) {
	v.vp.ScrollBy(dx, dy)
}

// ScrollLines scrolls by whole lines.
func (v *View) ScrollLines(delta int) {
	v.vp.ScrollLines(delta)
}

// Resize updates the view dimensions.
func (v *View) Resize(visibleLines, visibleColumns int) {
	v.vp.Resize(visibleLines, visibleColumns)
	v.reveal()
}

// move runs a cursor mutation and then re-locks the viewport.
func (v *View) move(f func()) {
	f()
	v.reveal()
	v.announceCursor()
}

// edit runs a buffer mutation, keeps this view's viewport on the active
// cursor, and tells the editor so other views can re-clamp.
func (v *View) edit(f func() error) error {
	if err := f(); err != nil {
		// Undo or redo with nothing on the stack is a harmless no-op,
		// not a failure worth logging.
		if !errors.Is(err, history.ErrNothingToUndo) && !errors.Is(err, history.ErrNothingToRedo) {
			v.ed.log.Error().Err(err).Msg("edit failed")
		}
		return err
	}
	v.syncContentSize()
	v.reveal()
	v.ed.notifyEdit(v)
	return nil
}

// bufferChanged is called when another view edited the shared buffer.
func (v *View) bufferChanged() {
	v.set.Clamp(v.ed.buf)
	v.syncContentSize()
}

func (v *View) reveal() {
	v.vp.EnsureVisible(v.set.ActivePosition(), viewport.RevealMinimal)
}

func (v *View) announceCursor() {
	pos := v.set.ActivePosition()
	v.ed.bus.Publish(event.New(event.TypeCursorMoved, event.CursorMoved{
		BufferID: v.ed.buf.ID(),
		Line:     pos.Line,
		Column:   pos.Column,
	}, "view"))
}

// syncContentSize refreshes the viewport's clamping extents. The
// horizontal extent tracks the active line, which is the only line
// horizontal reveal can target.
func (v *View) syncContentSize() {
	buf := v.ed.buf
	cols := int(buf.LineLen(v.set.ActivePosition().Line))
	if w := v.vp.VisibleColumns(); cols < w {
		cols = w
	}
	v.vp.SetContentSize(buf.LineCount(), cols)
}

func (v *View) applyConfig(cfg config.Config) {
	v.eng.SetIndentUnit(cfg.Editor.IndentUnit())
	v.vp.SetMargins(viewport.MarginConfig{
		Top:    cfg.Viewport.MarginLines,
		Bottom: cfg.Viewport.MarginLines,
		Left:   cfg.Viewport.MarginColumns,
		Right:  cfg.Viewport.MarginColumns,
	})
	v.vp.SetMetrics(viewport.Metrics{
		LineHeight: cfg.Viewport.LineHeight,
		CharWidth:  cfg.Viewport.CharWidth,
	})
}
