package cursor

import (
	"testing"

	"github.com/scribe-editor/scribe/internal/engine/buffer"
)

func TestMoveRightBasic(t *testing.T) {
	buf := buffer.NewFromString("abc\ndef")
	s := New(pos(0, 0))

	s.MoveRight(buf, false)
	if s.ActivePosition() != pos(0, 1) {
		t.Errorf("position = %v, want (0:1)", s.ActivePosition())
	}
}

func TestMoveRightWrapsLine(t *testing.T) {
	buf := buffer.NewFromString("ab\ncd")
	s := New(pos(0, 2))

	s.MoveRight(buf, false)
	if s.ActivePosition() != pos(1, 0) {
		t.Errorf("position = %v, want (1:0)", s.ActivePosition())
	}
}

func TestMoveRightStopsAtDocumentEnd(t *testing.T) {
	buf := buffer.NewFromString("ab")
	s := New(pos(0, 2))

	s.MoveRight(buf, false)
	if s.ActivePosition() != pos(0, 2) {
		t.Errorf("position = %v, want (0:2)", s.ActivePosition())
	}
}

func TestMoveLeftWrapsLine(t *testing.T) {
	buf := buffer.NewFromString("ab\ncd")
	s := New(pos(1, 0))

	s.MoveLeft(buf, false)
	if s.ActivePosition() != pos(0, 2) {
		t.Errorf("position = %v, want (0:2)", s.ActivePosition())
	}
}

func TestHorizontalMoveCollapsesSelection(t *testing.T) {
	buf := buffer.NewFromString("abcdef")

	s := FromSelections([]Selection{NewSelection(pos(0, 1), pos(0, 4))})
	s.MoveLeft(buf, false)
	if got := s.ActivePosition(); got != pos(0, 1) {
		t.Errorf("left collapses to selection start, got %v", got)
	}

	s = FromSelections([]Selection{NewSelection(pos(0, 1), pos(0, 4))})
	s.MoveRight(buf, false)
	if got := s.ActivePosition(); got != pos(0, 4) {
		t.Errorf("right collapses to selection end, got %v", got)
	}
}

func TestDesiredColumnThroughShortLine(t *testing.T) {
	// Moving down through a short line and back must restore the column.
	buf := buffer.NewFromString("long line here\nab\nanother long line")
	s := New(pos(0, 10))

	s.MoveDown(buf, false)
	if s.ActivePosition() != pos(1, 2) {
		t.Fatalf("short line should clamp column, got %v", s.ActivePosition())
	}

	s.MoveDown(buf, false)
	if s.ActivePosition() != pos(2, 10) {
		t.Errorf("desired column not restored, got %v", s.ActivePosition())
	}

	s.MoveUp(buf, false)
	s.MoveUp(buf, false)
	if s.ActivePosition() != pos(0, 10) {
		t.Errorf("desired column lost moving back up, got %v", s.ActivePosition())
	}
}

func TestHorizontalMoveClearsDesiredColumn(t *testing.T) {
	buf := buffer.NewFromString("long line here\nab\ncd")
	s := New(pos(0, 10))

	s.MoveDown(buf, false) // clamps to (1,2), desired 10
	s.MoveLeft(buf, false) // horizontal: clears desired
	s.MoveDown(buf, false)

	if s.ActivePosition() != pos(2, 1) {
		t.Errorf("desired column should be cleared by horizontal move, got %v", s.ActivePosition())
	}
}

func TestMoveUpAtTopGoesToDocumentStart(t *testing.T) {
	buf := buffer.NewFromString("abc\ndef")
	s := New(pos(0, 2))

	s.MoveUp(buf, false)
	if s.ActivePosition() != pos(0, 0) {
		t.Errorf("position = %v, want (0:0)", s.ActivePosition())
	}
}

func TestMoveDownAtBottomGoesToLineEnd(t *testing.T) {
	buf := buffer.NewFromString("abc\ndef")
	s := New(pos(1, 1))

	s.MoveDown(buf, false)
	if s.ActivePosition() != pos(1, 3) {
		t.Errorf("position = %v, want (1:3)", s.ActivePosition())
	}
}

func TestWordRightScenario(t *testing.T) {
	// Spec scenario: "abc\ndef\n", cursor at (0,0), word-right twice lands
	// at the end of "def".
	buf := buffer.NewFromString("abc\ndef\n")
	s := New(pos(0, 0))

	s.WordRight(buf, false)
	if s.ActivePosition() != pos(0, 3) {
		t.Fatalf("after first word-right: %v, want (0:3)", s.ActivePosition())
	}

	s.WordRight(buf, false)
	if s.ActivePosition() != pos(1, 3) {
		t.Errorf("after second word-right: %v, want (1:3)", s.ActivePosition())
	}
}

func TestWordRightSkipsSpaceAndPunctuation(t *testing.T) {
	buf := buffer.NewFromString("foo  bar?!baz")
	s := New(pos(0, 0))

	moves := []Position{
		pos(0, 3),  // end of "foo"
		pos(0, 8),  // end of "bar"
		pos(0, 10), // end of "?!"
		pos(0, 13), // end of "baz"
	}
	for i, want := range moves {
		s.WordRight(buf, false)
		if s.ActivePosition() != want {
			t.Fatalf("move %d: position = %v, want %v", i+1, s.ActivePosition(), want)
		}
	}
}

func TestWordLeft(t *testing.T) {
	buf := buffer.NewFromString("foo bar\nbaz")
	s := New(pos(1, 3))

	moves := []Position{
		pos(1, 0), // start of "baz"
		pos(0, 4), // start of "bar" (wrapped)
		pos(0, 0), // start of "foo"
		pos(0, 0), // pinned at document start
	}
	for i, want := range moves {
		s.WordLeft(buf, false)
		if s.ActivePosition() != want {
			t.Fatalf("move %d: position = %v, want %v", i+1, s.ActivePosition(), want)
		}
	}
}

func TestLineStartSmartHome(t *testing.T) {
	buf := buffer.NewFromString("    indented")
	s := New(pos(0, 8))

	s.LineStart(buf, false)
	if s.ActivePosition() != pos(0, 4) {
		t.Fatalf("first home goes to first non-blank, got %v", s.ActivePosition())
	}

	s.LineStart(buf, false)
	if s.ActivePosition() != pos(0, 0) {
		t.Errorf("second home goes to column 0, got %v", s.ActivePosition())
	}
}

func TestLineEnd(t *testing.T) {
	buf := buffer.NewFromString("hello\nworld!")
	s := New(pos(1, 0))

	s.LineEnd(buf, false)
	if s.ActivePosition() != pos(1, 6) {
		t.Errorf("position = %v, want (1:6)", s.ActivePosition())
	}
}

func TestExtendSelection(t *testing.T) {
	buf := buffer.NewFromString("hello world")
	s := New(pos(0, 0))

	s.WordRight(buf, true)
	sel := s.Active()
	if sel.Anchor != pos(0, 0) || sel.Head != pos(0, 5) {
		t.Errorf("selection = %v, want (0:0)→(0:5)", sel)
	}
	if sel.IsEmpty() {
		t.Error("extended selection must not be empty")
	}
}

func TestSimultaneousMoveDeduplicates(t *testing.T) {
	// Two cursors moving left from (0,1) and (0,0) collide at (0,0).
	buf := buffer.NewFromString("abc")
	s := New(pos(0, 0))
	s.Add(pos(0, 1))

	s.MoveLeft(buf, false)

	if s.Count() != 1 {
		t.Fatalf("colliding cursors must merge, Count = %d", s.Count())
	}
	if s.ActivePosition() != pos(0, 0) {
		t.Errorf("position = %v, want (0:0)", s.ActivePosition())
	}
	verifySet(t, s)
}

func TestMultiCursorIndependentDesiredColumns(t *testing.T) {
	buf := buffer.NewFromString("abcdefgh\nxy\nabcdefgh\nxy\nlonglonglong")
	s := New(pos(0, 6))
	s.Add(pos(2, 4))

	s.MoveDown(buf, false)
	sels := s.Selections()
	if sels[0].Head != pos(1, 2) || sels[1].Head != pos(3, 2) {
		t.Fatalf("clamped positions = %v, %v", sels[0].Head, sels[1].Head)
	}

	s.MoveDown(buf, false)
	sels = s.Selections()
	if sels[0].Head != pos(2, 6) {
		t.Errorf("first cursor desired column lost: %v", sels[0].Head)
	}
	if sels[1].Head != pos(4, 4) {
		t.Errorf("second cursor desired column lost: %v", sels[1].Head)
	}
}

func TestMoveToReplacesAllCursors(t *testing.T) {
	buf := buffer.NewFromString("abc\ndef\nghi")
	s := New(pos(0, 0))
	s.Add(pos(1, 0))
	s.Add(pos(2, 0))

	s.MoveTo(buf, pos(1, 2), false)

	if s.Count() != 1 {
		t.Fatalf("click should collapse to one cursor, Count = %d", s.Count())
	}
	if s.ActivePosition() != pos(1, 2) {
		t.Errorf("position = %v, want (1:2)", s.ActivePosition())
	}
}

func TestMoveToClampsPosition(t *testing.T) {
	buf := buffer.NewFromString("abc\nde")
	s := New(pos(0, 0))

	s.MoveTo(buf, pos(9, 9), false)
	if s.ActivePosition() != pos(1, 2) {
		t.Errorf("position = %v, want clamped (1:2)", s.ActivePosition())
	}
}

func TestSelectAll(t *testing.T) {
	buf := buffer.NewFromString("abc\ndef")
	s := New(pos(1, 1))
	s.Add(pos(0, 0))

	s.SelectAll(buf)

	if s.Count() != 1 {
		t.Fatalf("Count = %d, want 1", s.Count())
	}
	sel := s.Active()
	if sel.Anchor != pos(0, 0) || sel.Head != pos(1, 3) {
		t.Errorf("selection = %v", sel)
	}
}

func TestGraphemeClusterMovement(t *testing.T) {
	// é composed of e + combining acute: one grapheme, two runes. A single
	// right move must cross the whole cluster.
	buf := buffer.NewFromString("éx")
	s := New(pos(0, 0))

	s.MoveRight(buf, false)
	if s.ActivePosition() != pos(0, 2) {
		t.Errorf("position = %v, want (0:2) after crossing combining pair", s.ActivePosition())
	}

	s.MoveLeft(buf, false)
	if s.ActivePosition() != pos(0, 0) {
		t.Errorf("position = %v, want (0:0) after moving back", s.ActivePosition())
	}
}

func TestClampAfterExternalEdit(t *testing.T) {
	buf := buffer.NewFromString("abc")
	_ = buf
	s := New(pos(0, 3))
	s.Add(pos(0, 1))

	// Simulate the buffer shrinking under the set.
	short := buffer.NewFromString("a")
	s.Clamp(short)

	for _, sel := range s.Selections() {
		if sel.Head.Column > 1 {
			t.Errorf("cursor %v not clamped", sel.Head)
		}
	}
	verifySet(t, s)
}

func TestSelectWord(t *testing.T) {
	buf := buffer.NewFromString("hello world")

	tests := []struct {
		name string
		at   Position
		want Selection
	}{
		{"mid word", pos(0, 2), NewSelection(pos(0, 0), pos(0, 5))},
		{"word start", pos(0, 6), NewSelection(pos(0, 6), pos(0, 11))},
		{"line end anchors on last char", pos(0, 11), NewSelection(pos(0, 6), pos(0, 11))},
		{"whitespace run", pos(0, 5), NewSelection(pos(0, 5), pos(0, 6))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.at)
			s.SelectWord(buf)
			verifySet(t, s)
			if got := s.Active(); got != tt.want {
				t.Errorf("selection = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelectWordPunctuationRun(t *testing.T) {
	buf := buffer.NewFromString("a == b")
	s := New(pos(0, 3))

	s.SelectWord(buf)
	if got := s.Active(); got != NewSelection(pos(0, 2), pos(0, 4)) {
		t.Errorf("selection = %v", got)
	}
}

func TestSelectWordEmptyLine(t *testing.T) {
	buf := buffer.NewFromString("ab\n\ncd")
	s := New(pos(1, 0))

	s.SelectWord(buf)
	verifySet(t, s)
	if got := s.Active(); got != Caret(pos(1, 0)) {
		t.Errorf("selection = %v, want bare caret", got)
	}
}

func TestSelectWordMergesSameWord(t *testing.T) {
	buf := buffer.NewFromString("hello world")
	s := New(pos(0, 1))
	s.Add(pos(0, 3))

	s.SelectWord(buf)
	verifySet(t, s)
	if s.Count() != 1 {
		t.Fatalf("Count = %d, want 1", s.Count())
	}
	if got := s.Active(); got != NewSelection(pos(0, 0), pos(0, 5)) {
		t.Errorf("selection = %v", got)
	}
}

func TestSelectWordAdjacentRunsMerge(t *testing.T) {
	buf := buffer.NewFromString("ab,cd ef")
	s := New(pos(0, 0))
	s.Add(pos(0, 2))
	s.Add(pos(0, 3))

	// Word, comma, and word runs touch; their selections merge into one.
	s.SelectWord(buf)
	verifySet(t, s)
	if s.Count() != 1 {
		t.Fatalf("Count = %d, want 1", s.Count())
	}
	if got := s.Active(); got != NewSelection(pos(0, 0), pos(0, 5)) {
		t.Errorf("selection = %v", got)
	}
}
