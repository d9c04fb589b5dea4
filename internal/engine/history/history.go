package history

import (
	"errors"
	"sync"
	"time"

	"github.com/scribe-editor/scribe/internal/engine/buffer"
	"github.com/scribe-editor/scribe/internal/engine/cursor"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultMaxEntries bounds the undo stack when no limit is configured.
const DefaultMaxEntries = 1000

// DefaultCoalesceWindow is how close together two coalescible entries must
// be to merge into one undo step.
const DefaultCoalesceWindow = time.Second

// Entry is one undo step: the operations that made the edit plus the full
// cursor state on both sides. Undo restores Before verbatim, redo restores
// After verbatim, so cursor layout survives the round trip exactly.
type Entry struct {
	Ops    OperationList
	Before cursor.Snapshot
	After  cursor.Snapshot
	At     time.Time

	// Coalescible entries (single-cluster typing, character deletes)
	// merge with an immediately following coalescible entry inside the
	// coalesce window.
	Coalescible bool
}

// History manages the undo and redo stacks for one buffer.
type History struct {
	mu sync.Mutex

	undoStack []*Entry
	redoStack []*Entry

	// Grouping state
	grouping   bool
	groupOps   OperationList
	groupFirst cursor.Snapshot

	maxEntries     int
	coalesceWindow time.Duration
}

// New creates a history manager. maxEntries <= 0 selects the default limit.
func New(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{
		maxEntries:     maxEntries,
		coalesceWindow: DefaultCoalesceWindow,
	}
}

// SetCoalesceWindow changes the typing coalesce window. Zero disables
// coalescing.
func (h *History) SetCoalesceWindow(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.coalesceWindow = d
}

// Commit records a completed edit as an undo step and clears the redo
// stack. If the entry and the top of the undo stack are both coalescible
// and close enough in time, they merge into a single step.
func (h *History) Commit(e *Entry) {
	if len(e.Ops) == 0 {
		return
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grouping {
		if len(h.groupOps) == 0 {
			h.groupFirst = e.Before
		}
		h.groupOps = append(h.groupOps, e.Ops...)
		return
	}

	h.redoStack = nil

	if top := h.topUndoLocked(); top != nil &&
		top.Coalescible && e.Coalescible &&
		sameHeads(top.After, e.Before) &&
		e.At.Sub(top.At) <= h.coalesceWindow && h.coalesceWindow > 0 {
		// Operation lists compose sequentially, so merging is pure
		// concatenation.
		top.Ops = append(top.Ops, e.Ops...)
		top.After = e.After
		top.At = e.At
		return
	}

	h.pushLocked(e)
}

// sameHeads reports whether two snapshots place their cursors at the same
// positions. A run of coalescible typing only extends while the new edit
// starts exactly where the previous one left off; any cursor movement in
// between breaks the run.
func sameHeads(a, b cursor.Snapshot) bool {
	if len(a.Selections) != len(b.Selections) {
		return false
	}
	for i := range a.Selections {
		if a.Selections[i].Head != b.Selections[i].Head {
			return false
		}
	}
	return true
}

func (h *History) topUndoLocked() *Entry {
	if len(h.undoStack) == 0 {
		return nil
	}
	return h.undoStack[len(h.undoStack)-1]
}

func (h *History) pushLocked(e *Entry) {
	h.undoStack = append(h.undoStack, e)
	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo reverts the most recent entry: the inverse operations replay against
// buf and the Before cursor snapshot is restored into set. The lock is not
// held while the buffer is modified.
func (h *History) Undo(buf *buffer.Buffer, set *cursor.Set) error {
	h.mu.Lock()
	if h.grouping {
		h.mu.Unlock()
		return ErrNothingToUndo
	}
	if len(h.undoStack) == 0 {
		h.mu.Unlock()
		return ErrNothingToUndo
	}
	e := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.mu.Unlock()

	if err := h.applyInverse(buf, e); err != nil {
		h.mu.Lock()
		h.undoStack = append(h.undoStack, e)
		h.mu.Unlock()
		return err
	}
	set.Restore(e.Before)

	h.mu.Lock()
	h.redoStack = append(h.redoStack, e)
	h.mu.Unlock()
	return nil
}

// Redo reapplies the most recently undone entry and restores its After
// cursor snapshot.
func (h *History) Redo(buf *buffer.Buffer, set *cursor.Set) error {
	h.mu.Lock()
	if len(h.redoStack) == 0 {
		h.mu.Unlock()
		return ErrNothingToRedo
	}
	e := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.mu.Unlock()

	if err := e.Ops.Apply(buf); err != nil {
		h.mu.Lock()
		h.redoStack = append(h.redoStack, e)
		h.mu.Unlock()
		return err
	}
	set.Restore(e.After)

	h.mu.Lock()
	h.undoStack = append(h.undoStack, e)
	h.mu.Unlock()
	return nil
}

// applyInverse replays the inverse of e.Ops. On failure partway through it
// rolls the already-applied inverses forward again so the buffer is left in
// the post-edit state.
func (h *History) applyInverse(buf *buffer.Buffer, e *Entry) error {
	inv := e.Ops.Invert()
	for i, op := range inv {
		if err := op.Apply(buf); err != nil {
			redo := make(OperationList, i)
			copy(redo, inv[:i])
			_ = redo.Invert().Apply(buf)
			return err
		}
	}
	return nil
}

// BeginGroup starts collecting committed entries into a single undo step.
// Nested calls are ignored.
func (h *History) BeginGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.grouping {
		return
	}
	h.grouping = true
	h.groupOps = nil
}

// EndGroup closes the group opened by BeginGroup, committing everything
// collected since as one entry. after is the cursor state the group ends
// with.
func (h *History) EndGroup(after cursor.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.grouping {
		return
	}
	h.grouping = false

	if len(h.groupOps) == 0 {
		return
	}
	h.redoStack = nil
	h.pushLocked(&Entry{
		Ops:    h.groupOps,
		Before: h.groupFirst,
		After:  after,
		At:     time.Now(),
	})
	h.groupOps = nil
}

// CanUndo returns true if an undo step is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0 && !h.grouping
}

// CanRedo returns true if a redo step is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo steps available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo steps available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// Clear drops all undo and redo state.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undoStack = nil
	h.redoStack = nil
	h.grouping = false
	h.groupOps = nil
}

// MaxEntries returns the undo stack limit.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxEntries
}

// SetMaxEntries changes the undo stack limit, trimming the oldest entries
// if the stack is already over it.
func (h *History) SetMaxEntries(max int) {
	if max <= 0 {
		max = DefaultMaxEntries
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.maxEntries = max
	if len(h.undoStack) > max {
		excess := len(h.undoStack) - max
		h.undoStack = h.undoStack[excess:]
	}
}
