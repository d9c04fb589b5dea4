package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/scribe-editor/scribe/internal/engine/buffer"
	"github.com/scribe-editor/scribe/internal/engine/cursor"
)

var (
	styleText      = tcell.StyleDefault
	styleSelection = tcell.StyleDefault.Reverse(true)
	styleExtra     = tcell.StyleDefault.Underline(true).Bold(true)
	styleStatus    = tcell.StyleDefault.Reverse(true)
)

func (a *App) draw() {
	a.screen.Clear()

	buf := a.ed.Buffer()
	vp := a.view.Viewport()
	sels := a.view.Cursors().Selections()
	active := a.view.Cursors().ActiveIndex()

	offX, offY := vp.ScrollOffset()
	leftX := int(offX)
	first, last := vp.VisibleLineRange()

	width, height := a.screen.Size()
	a.screen.HideCursor()

	for line := first; line <= last && line < buf.LineCount(); line++ {
		row := int(line) - int(offY)
		if row < 0 || row >= textHeight(height) {
			continue
		}
		a.drawLine(row, line, buf.LineText(line), leftX, width, sels)
	}

	// Hardware cursor on the active head, styled cells on the others.
	for i, sel := range sels {
		pos := sel.Head
		if pos.Line < first || pos.Line > last {
			continue
		}
		x := xForColumn(buf.LineText(pos.Line), pos.Column, buf.TabWidth()) - leftX
		row := int(pos.Line) - int(offY)
		if x < 0 || x >= width {
			continue
		}
		if i == active {
			a.screen.ShowCursor(x, row)
		} else {
			mainc, _, _, _ := a.screen.GetContent(x, row)
			a.screen.SetContent(x, row, mainc, nil, styleExtra)
		}
	}

	a.drawStatus(width, height)
	a.screen.Show()
}

// drawLine paints one buffer line, expanding tabs and honoring wide runes.
func (a *App) drawLine(row int, line uint32, text string, leftX, width int, sels []cursor.Selection) {
	tabWidth := a.ed.Buffer().TabWidth()
	x := 0
	col := uint32(0)
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if r == '\t' {
			w = tabWidth - (x % tabWidth)
			r = ' '
		}
		style := styleText
		if inSelection(sels, buffer.Pos(line, col)) {
			style = styleSelection
		}
		for k := 0; k < w; k++ {
			sx := x + k - leftX
			if sx >= 0 && sx < width {
				cr := r
				if k > 0 {
					cr = ' '
				}
				a.screen.SetContent(sx, row, cr, nil, style)
			}
		}
		x += w
		col++
	}
	// Line-end cell so selections over the newline are visible.
	if inSelection(sels, buffer.Pos(line, col)) {
		sx := x - leftX
		if sx >= 0 && sx < width {
			a.screen.SetContent(sx, row, ' ', nil, styleSelection)
		}
	}
}

func (a *App) drawStatus(width, height int) {
	pos := a.view.Cursors().ActivePosition()
	name := a.path
	if name == "" {
		name = "[No Name]"
	}
	mod := ""
	if a.modified() {
		mod = " [+]"
	}
	extra := ""
	if n := a.view.Cursors().Count(); n > 1 {
		extra = fmt.Sprintf("  %d cursors", n)
	}
	left := fmt.Sprintf(" %s%s%s", name, mod, extra)
	if a.status != "" {
		left += "  | " + a.status
	}
	right := fmt.Sprintf("%d:%d ", pos.Line+1, pos.Column+1)

	row := height - 1
	x := 0
	for _, r := range left {
		if x >= width {
			break
		}
		a.screen.SetContent(x, row, r, nil, styleStatus)
		x += runewidth.RuneWidth(r)
	}
	for ; x < width-len(right); x++ {
		a.screen.SetContent(x, row, ' ', nil, styleStatus)
	}
	for _, r := range right {
		if x >= width {
			break
		}
		a.screen.SetContent(x, row, r, nil, styleStatus)
		x += runewidth.RuneWidth(r)
	}
}

func inSelection(sels []cursor.Selection, pos buffer.Position) bool {
	for _, sel := range sels {
		if sel.IsEmpty() {
			continue
		}
		if !pos.Before(sel.Start()) && pos.Before(sel.End()) {
			return true
		}
	}
	return false
}

// xForColumn returns the screen x of a rune column after tab expansion.
func xForColumn(text string, column uint32, tabWidth int) int {
	x := 0
	col := uint32(0)
	for _, r := range text {
		if col >= column {
			break
		}
		if r == '\t' {
			x += tabWidth - (x % tabWidth)
		} else {
			x += runewidth.RuneWidth(r)
		}
		col++
	}
	return x
}

// columnAtX is the inverse mapping, used for mouse clicks. X positions
// past the end of the line clamp to the line length.
func columnAtX(text string, targetX, tabWidth int) uint32 {
	x := 0
	col := uint32(0)
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if r == '\t' {
			w = tabWidth - (x % tabWidth)
		}
		if targetX < x+w {
			return col
		}
		x += w
		col++
	}
	return col
}
