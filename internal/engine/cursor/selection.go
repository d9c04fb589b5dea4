package cursor

import "fmt"

// Selection is a span of text between a fixed anchor and a moving head. The
// head is where the cursor sits; when Anchor == Head the selection is just a
// cursor. Selection is an immutable value type.
type Selection struct {
	Anchor Position
	Head   Position
}

// NewSelection creates a selection from anchor to head.
func NewSelection(anchor, head Position) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// Caret creates an empty selection (a bare cursor) at pos.
func Caret(pos Position) Selection {
	return Selection{Anchor: pos, Head: pos}
}

// IsEmpty returns true if the selection has no extent.
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Head
}

// Start returns the earlier endpoint.
func (s Selection) Start() Position {
	if s.Anchor.After(s.Head) {
		return s.Head
	}
	return s.Anchor
}

// End returns the later endpoint.
func (s Selection) End() Position {
	if s.Anchor.After(s.Head) {
		return s.Anchor
	}
	return s.Head
}

// IsBackward returns true if the head precedes the anchor.
func (s Selection) IsBackward() bool {
	return s.Head.Before(s.Anchor)
}

// Extend returns a selection with the head moved to pos, anchor fixed.
func (s Selection) Extend(pos Position) Selection {
	return Selection{Anchor: s.Anchor, Head: pos}
}

// Collapse returns an empty selection at the head.
func (s Selection) Collapse() Selection {
	return Caret(s.Head)
}

// CollapseToStart returns an empty selection at the earlier endpoint.
func (s Selection) CollapseToStart() Selection {
	return Caret(s.Start())
}

// CollapseToEnd returns an empty selection at the later endpoint.
func (s Selection) CollapseToEnd() Selection {
	return Caret(s.End())
}

// Contains returns true if pos lies inside the selection. Empty selections
// contain nothing.
func (s Selection) Contains(pos Position) bool {
	return !pos.Before(s.Start()) && pos.Before(s.End())
}

// Touches returns true if the selections overlap or are adjacent. Touching
// counts: selecting adjacent words should merge into one span.
func (s Selection) Touches(other Selection) bool {
	return !s.Start().After(other.End()) && !other.Start().After(s.End())
}

// Merge returns a forward selection covering both spans. Direction of the
// inputs is not preserved.
func (s Selection) Merge(other Selection) Selection {
	return Selection{
		Anchor: s.Start().Min(other.Start()),
		Head:   s.End().Max(other.End()),
	}
}

// String returns a human-readable representation of the selection.
func (s Selection) String() string {
	if s.IsEmpty() {
		return fmt.Sprintf("Caret%v", s.Head)
	}
	dir := "→"
	if s.IsBackward() {
		dir = "←"
	}
	return fmt.Sprintf("Selection(%v%s%v)", s.Anchor, dir, s.Head)
}
