package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/scribe-editor/scribe/internal/engine/buffer"
)

func (a *App) handleKey(ev *tcell.EventKey) error {
	extend := ev.Modifiers()&tcell.ModShift != 0
	ctrl := ev.Modifiers()&tcell.ModCtrl != 0
	alt := ev.Modifiers()&tcell.ModAlt != 0

	switch ev.Key() {
	case tcell.KeyCtrlQ:
		return ErrQuit
	case tcell.KeyCtrlS:
		a.save()
		return nil

	case tcell.KeyLeft:
		if ctrl {
			a.view.WordLeft(extend)
		} else {
			a.view.MoveLeft(extend)
		}
	case tcell.KeyRight:
		if ctrl {
			a.view.WordRight(extend)
		} else {
			a.view.MoveRight(extend)
		}
	case tcell.KeyUp:
		if alt {
			a.view.AddCursorAbove()
		} else {
			a.view.MoveUp(extend)
		}
	case tcell.KeyDown:
		if alt {
			a.view.AddCursorBelow()
		} else {
			a.view.MoveDown(extend)
		}
	case tcell.KeyHome:
		if ctrl {
			a.view.DocumentStart(extend)
		} else {
			a.view.LineStart(extend)
		}
	case tcell.KeyEnd:
		if ctrl {
			a.view.DocumentEnd(extend)
		} else {
			a.view.LineEnd(extend)
		}
	case tcell.KeyPgUp:
		a.moveByPage(-1, extend)
	case tcell.KeyPgDn:
		a.moveByPage(1, extend)

	case tcell.KeyEscape:
		if a.view.Cursors().IsMulti() {
			a.view.CollapseToPrimary()
		} else {
			a.view.CollapseSelections()
		}

	case tcell.KeyCtrlA:
		a.view.SelectAll()
	case tcell.KeyCtrlL:
		a.view.SelectLines()
	case tcell.KeyCtrlW:
		a.view.SelectWord()
	case tcell.KeyCtrlZ:
		a.editErr(a.view.Undo())
	case tcell.KeyCtrlY:
		a.editErr(a.view.Redo())

	case tcell.KeyEnter:
		if a.allowEdit() {
			a.editErr(a.view.InsertNewline())
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if a.allowEdit() {
			a.editErr(a.view.DeleteBackward())
		}
	case tcell.KeyDelete:
		if a.allowEdit() {
			a.editErr(a.view.DeleteForward())
		}
	case tcell.KeyTab:
		if a.allowEdit() {
			if a.view.Cursors().HasSelection() {
				a.editErr(a.view.Indent())
			} else {
				a.editErr(a.view.InsertText("\t"))
			}
		}
	case tcell.KeyBacktab:
		if a.allowEdit() {
			a.editErr(a.view.Unindent())
		}
	case tcell.KeyCtrlK:
		if a.allowEdit() {
			a.editErr(a.view.DeleteLines())
		}
	case tcell.KeyCtrlD:
		if a.allowEdit() {
			a.editErr(a.view.DuplicateLines())
		}

	case tcell.KeyRune:
		if a.allowEdit() {
			a.editErr(a.view.InsertText(string(ev.Rune())))
		}
	}
	return nil
}

// moveByPage moves the cursor a screenful up or down, keeping its column.
func (a *App) moveByPage(dir int, extend bool) {
	page := uint32(a.view.Viewport().VisibleLines())
	pos := a.view.Cursors().ActivePosition()
	if dir < 0 {
		if pos.Line > page {
			pos.Line -= page
		} else {
			pos.Line = 0
		}
	} else {
		pos.Line += page
	}
	a.view.MoveTo(a.ed.Buffer().ClampPosition(pos), extend)
}

func (a *App) allowEdit() bool {
	if a.readOnly {
		a.status = "buffer is read-only"
		return false
	}
	return true
}

func (a *App) editErr(err error) {
	if err != nil {
		a.status = err.Error()
	}
}

// screenToPosition maps a click to a buffer position, accounting for the
// scroll offset and tab expansion.
func (a *App) screenToPosition(x, y int) buffer.Position {
	offX, offY := a.view.Viewport().ScrollOffset()
	line := uint32(y + int(offY))
	buf := a.ed.Buffer()
	if lines := buf.LineCount(); line >= lines {
		line = lines - 1
	}
	col := columnAtX(buf.LineText(line), x+int(offX), buf.TabWidth())
	return buffer.Pos(line, col)
}
