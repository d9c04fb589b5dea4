package cursor

import (
	"fmt"
	"sort"
)

// Direction selects one end of the cursor set.
type Direction int8

const (
	// DirUp selects the top-most (earliest) cursor.
	DirUp Direction = iota
	// DirDown selects the bottom-most (latest) cursor.
	DirDown
)

// entry pairs a selection with its cursor's desired column. Keeping the pair
// in one record makes the cursor/selection lockstep invariant structural:
// there is no second array to drift out of sync.
type entry struct {
	sel     Selection
	desired int
}

func (e entry) cursor() Cursor {
	return Cursor{Pos: e.sel.Head, Desired: e.desired}
}

// Set is an ordered collection of cursors and their selections. Entries are
// kept sorted by head position with no two heads equal. One entry is active:
// the one the viewport follows and new edge cursors anchor from. The entry
// at index 0 is primary (top-most in the document).
//
// A Set always holds at least one entry; operations that would empty it are
// no-ops.
type Set struct {
	entries []entry
	active  int
}

// New creates a set with a single cursor at pos.
func New(pos Position) *Set {
	return &Set{entries: []entry{{sel: Caret(pos), desired: NoDesired}}}
}

// FromSelections creates a set from existing selections. The last selection
// becomes active, matching how a batch of added cursors behaves.
func FromSelections(sels []Selection) *Set {
	if len(sels) == 0 {
		return New(Position{})
	}
	s := &Set{entries: make([]entry, len(sels))}
	for i, sel := range sels {
		s.entries[i] = entry{sel: sel, desired: NoDesired}
	}
	s.active = len(sels) - 1
	s.normalize()
	s.check()
	return s
}

// Count returns the number of cursors.
func (s *Set) Count() int {
	return len(s.entries)
}

// IsMulti returns true if there is more than one cursor.
func (s *Set) IsMulti() bool {
	return len(s.entries) > 1
}

// ActiveIndex returns the index of the active cursor.
func (s *Set) ActiveIndex() int {
	return s.active
}

// Active returns the active selection.
func (s *Set) Active() Selection {
	return s.entries[s.active].sel
}

// ActivePosition returns the active cursor's position. This is what the
// viewport follows; it is not necessarily the primary cursor.
func (s *Set) ActivePosition() Position {
	return s.entries[s.active].sel.Head
}

// Primary returns the top-most selection (index 0). Primary is a document
//-order role, distinct from active; it is used for metadata, never for
// viewport following.
func (s *Set) Primary() Selection {
	return s.entries[0].sel
}

// Edge returns the cursor at the top or bottom of the set. Repeated
// add-cursor-above/below anchors here so the column keeps expanding from the
// current edge rather than from whichever cursor is primary.
func (s *Set) Edge(d Direction) Cursor {
	if d == DirUp {
		return s.entries[0].cursor()
	}
	return s.entries[len(s.entries)-1].cursor()
}

// Selections returns a copy of all selections in document order.
func (s *Set) Selections() []Selection {
	out := make([]Selection, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.sel
	}
	return out
}

// Cursors returns a copy of all cursors in document order.
func (s *Set) Cursors() []Cursor {
	out := make([]Cursor, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.cursor()
	}
	return out
}

// Get returns the selection at index i.
func (s *Set) Get(i int) Selection {
	return s.entries[i].sel
}

// HasSelection returns true if any selection is non-empty.
func (s *Set) HasSelection() bool {
	for _, e := range s.entries {
		if !e.sel.IsEmpty() {
			return true
		}
	}
	return false
}

// Add inserts a cursor at pos and makes it active. Adding on top of an
// existing cursor just moves the active mark there.
func (s *Set) Add(pos Position) {
	for i, e := range s.entries {
		if e.sel.Head == pos {
			s.active = i
			s.check()
			return
		}
	}

	s.entries = append(s.entries, entry{sel: Caret(pos), desired: NoDesired})
	s.active = len(s.entries) - 1
	s.normalize()
	s.check()
}

// Toggle adds a cursor at pos, or removes the one already there. The last
// remaining cursor is never removed. Returns true if a cursor was added.
func (s *Set) Toggle(pos Position) bool {
	for i, e := range s.entries {
		if e.sel.Head == pos {
			if len(s.entries) > 1 {
				s.removeAt(i)
			}
			s.check()
			return false
		}
	}

	s.Add(pos)
	return true
}

// Remove deletes the cursor at index i. Removing the last cursor is a no-op.
func (s *Set) Remove(i int) {
	if i < 0 || i >= len(s.entries) || len(s.entries) == 1 {
		return
	}
	s.removeAt(i)
	s.check()
}

func (s *Set) removeAt(i int) {
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	if s.active > i || s.active >= len(s.entries) {
		s.active--
	}
	if s.active < 0 {
		s.active = 0
	}
}

// CollapseToPrimary discards every cursor except the primary (index 0) and
// resets the active index to it. Resetting active here matters: leaving it
// pointing past the now-single-entry slice turns the next active-cursor
// access into an out-of-bounds fault.
func (s *Set) CollapseToPrimary() {
	s.entries = s.entries[:1]
	s.active = 0
	s.check()
}

// CollapseSelections collapses every selection to its head.
func (s *Set) CollapseSelections() {
	for i := range s.entries {
		s.entries[i].sel = s.entries[i].sel.Collapse()
	}
	s.normalize()
	s.check()
}

// MergeOverlapping merges selections that overlap or touch. Cursors are
// re-derived from the merged heads.
func (s *Set) MergeOverlapping() {
	if len(s.entries) <= 1 {
		return
	}

	activeHead := s.entries[s.active].sel.Head

	sort.SliceStable(s.entries, func(i, j int) bool {
		return s.entries[i].sel.Start().Before(s.entries[j].sel.Start())
	})

	merged := s.entries[:1]
	for _, e := range s.entries[1:] {
		last := &merged[len(merged)-1]
		if !e.sel.Start().After(last.sel.End()) {
			last.sel = last.sel.Merge(e.sel)
			last.desired = NoDesired
		} else {
			merged = append(merged, e)
		}
	}
	s.entries = merged

	s.active = s.indexCovering(activeHead)
	s.normalize()
	s.check()
}

// indexCovering finds the entry whose selection contains or whose head
// matches pos, falling back to the nearest entry.
func (s *Set) indexCovering(pos Position) int {
	for i, e := range s.entries {
		if e.sel.Head == pos || e.sel.Contains(pos) || e.sel.End() == pos {
			return i
		}
	}
	return len(s.entries) - 1
}

// LinesCovered returns the sorted, deduplicated document lines touched by
// any cursor or selection. Line-granular operations iterate this so they are
// multi-cursor correct by construction.
func (s *Set) LinesCovered() []uint32 {
	seen := make(map[uint32]struct{})
	for _, e := range s.entries {
		start, end := e.sel.Start().Line, e.sel.End().Line
		for line := start; line <= end; line++ {
			seen[line] = struct{}{}
		}
	}

	lines := make([]uint32, 0, len(seen))
	for line := range seen {
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i] < lines[j] })
	return lines
}

// Snapshot captures the full cursor state for history. Restoring a snapshot
// reproduces every cursor and selection verbatim, not just the primary one.
type Snapshot struct {
	Selections []Selection
	Desired    []int
	Active     int
}

// Snapshot returns a deep copy of the current state.
func (s *Set) Snapshot() Snapshot {
	snap := Snapshot{
		Selections: make([]Selection, len(s.entries)),
		Desired:    make([]int, len(s.entries)),
		Active:     s.active,
	}
	for i, e := range s.entries {
		snap.Selections[i] = e.sel
		snap.Desired[i] = e.desired
	}
	return snap
}

// Restore replaces the set's state with a snapshot taken earlier.
func (s *Set) Restore(snap Snapshot) {
	if len(snap.Selections) == 0 {
		return
	}
	s.entries = make([]entry, len(snap.Selections))
	for i, sel := range snap.Selections {
		desired := NoDesired
		if i < len(snap.Desired) {
			desired = snap.Desired[i]
		}
		s.entries[i] = entry{sel: sel, desired: desired}
	}
	s.active = snap.Active
	if s.active < 0 || s.active >= len(s.entries) {
		s.active = 0
	}
	s.normalize()
	s.check()
}

// Clone returns a deep copy of the set.
func (s *Set) Clone() *Set {
	c := &Set{entries: make([]entry, len(s.entries)), active: s.active}
	copy(c.entries, s.entries)
	return c
}

// transformEach applies f to every entry, then re-establishes ordering.
// Movement primitives funnel through here so no mutation path can skip
// normalization.
func (s *Set) transformEach(f func(entry) entry) {
	for i := range s.entries {
		s.entries[i] = f(s.entries[i])
	}
	s.normalize()
	s.check()
}

// normalize sorts entries by head position and removes duplicate heads,
// keeping the first occurrence. The active mark is carried through by
// position, not by index: sorting can move the active entry anywhere.
func (s *Set) normalize() {
	if len(s.entries) <= 1 {
		s.active = 0
		return
	}

	activeHead := s.entries[s.active].sel.Head

	sort.SliceStable(s.entries, func(i, j int) bool {
		return s.entries[i].sel.Head.Before(s.entries[j].sel.Head)
	})

	dedup := s.entries[:1]
	for _, e := range s.entries[1:] {
		if e.sel.Head == dedup[len(dedup)-1].sel.Head {
			continue
		}
		dedup = append(dedup, e)
	}
	s.entries = dedup

	s.active = 0
	for i, e := range s.entries {
		if e.sel.Head == activeHead {
			s.active = i
			break
		}
	}
}

// check asserts the set invariants. A violation is a programming error, not
// a user-facing condition, so it panics.
func (s *Set) check() {
	if len(s.entries) == 0 {
		panic("cursor: set has no entries")
	}
	if s.active < 0 || s.active >= len(s.entries) {
		panic(fmt.Sprintf("cursor: active index %d out of range [0,%d)", s.active, len(s.entries)))
	}
	for i := 1; i < len(s.entries); i++ {
		prev, cur := s.entries[i-1].sel.Head, s.entries[i].sel.Head
		if cur == prev {
			panic(fmt.Sprintf("cursor: duplicate cursor at %v", cur))
		}
		if cur.Before(prev) {
			panic(fmt.Sprintf("cursor: entries out of order at index %d: %v before %v", i, cur, prev))
		}
	}
}
