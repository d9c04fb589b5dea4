// Package viewport keeps the visible scroll region synchronized with the
// active cursor.
package viewport

import (
	"sync"

	"github.com/scribe-editor/scribe/internal/engine/buffer"
)

// Mode describes who currently controls the scroll position.
type Mode uint8

const (
	// ModeCursorLocked keeps the active cursor inside the safe zone.
	// Typing and movement force this mode.
	ModeCursorLocked Mode = iota

	// ModeFreeBrowse is user-initiated scrolling. The cursor may leave
	// the screen and the viewport does not chase it.
	ModeFreeBrowse

	// ModeRevealPending holds a queued reveal request that the next
	// Reconcile call will apply.
	ModeRevealPending
)

func (m Mode) String() string {
	switch m {
	case ModeCursorLocked:
		return "cursor-locked"
	case ModeFreeBrowse:
		return "free-browse"
	case ModeRevealPending:
		return "reveal-pending"
	}
	return "unknown"
}

// Reveal selects where in the viewport a revealed position should land.
type Reveal uint8

const (
	// RevealMinimal scrolls just far enough to put the position at the
	// nearest safe-zone edge. Used for arrow and typing movement.
	RevealMinimal Reveal = iota

	// RevealTopAligned puts the position at the top margin edge.
	RevealTopAligned

	// RevealBottomAligned puts the position at the bottom margin edge.
	RevealBottomAligned

	// RevealCentered puts the position in the middle of the viewport.
	// Used for go-to-line and search results.
	RevealCentered
)

// Metrics are the font measurements used to convert document positions to
// content pixels.
type Metrics struct {
	LineHeight float64
	CharWidth  float64
}

// DefaultMetrics is a plausible monospace cell size in pixels.
func DefaultMetrics() Metrics {
	return Metrics{LineHeight: 20, CharWidth: 9}
}

// Viewport tracks the scroll state of one view onto a document. Each view
// owns its own Viewport; buffers know nothing about scrolling.
type Viewport struct {
	mu sync.RWMutex

	scrollX float64
	scrollY float64

	visibleLines   int
	visibleColumns int

	metrics Metrics
	margins MarginConfig

	mode          Mode
	pendingPos    buffer.Position
	pendingReveal Reveal

	// Content extent, for clamping.
	contentLines   uint32
	contentColumns int
}

// New creates a viewport showing visibleLines by visibleColumns cells.
// Dimensions are clamped to a minimum of 1.
func New(visibleLines, visibleColumns int, m Metrics) *Viewport {
	if visibleLines < 1 {
		visibleLines = 1
	}
	if visibleColumns < 1 {
		visibleColumns = 1
	}
	return &Viewport{
		visibleLines:   visibleLines,
		visibleColumns: visibleColumns,
		metrics:        m,
		margins:        DefaultMargins(),
	}
}

// Mode returns who controls the scroll position right now.
func (v *Viewport) Mode() Mode {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.mode
}

// ScrollOffset returns the content-pixel scroll position.
func (v *Viewport) ScrollOffset() (x, y float64) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.scrollX, v.scrollY
}

// TopLine returns the first (possibly partially) visible line.
func (v *Viewport) TopLine() uint32 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.metrics.LineHeight <= 0 {
		return 0
	}
	return uint32(v.scrollY / v.metrics.LineHeight)
}

// BottomLine returns the last visible line.
func (v *Viewport) BottomLine() uint32 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.metrics.LineHeight <= 0 {
		return 0
	}
	bottom := uint32(v.scrollY/v.metrics.LineHeight) + uint32(v.visibleLines) - 1
	if v.contentLines > 0 && bottom > v.contentLines-1 {
		bottom = v.contentLines - 1
	}
	return bottom
}

// VisibleLineRange returns the inclusive range of visible lines.
func (v *Viewport) VisibleLineRange() (start, end uint32) {
	return v.TopLine(), v.BottomLine()
}

// IsLineVisible reports whether line is within the viewport.
func (v *Viewport) IsLineVisible(line uint32) bool {
	start, end := v.VisibleLineRange()
	return line >= start && line <= end
}

// VisibleLines returns the viewport height in lines.
func (v *Viewport) VisibleLines() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.visibleLines
}

// VisibleColumns returns the viewport width in columns.
func (v *Viewport) VisibleColumns() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.visibleColumns
}

// Metrics returns the current font metrics.
func (v *Viewport) Metrics() Metrics {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.metrics
}

// SetMetrics changes the font metrics, keeping the same top line visible.
func (v *Viewport) SetMetrics(m Metrics) {
	if m.LineHeight <= 0 || m.CharWidth <= 0 {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.metrics.LineHeight > 0 {
		topLine := v.scrollY / v.metrics.LineHeight
		v.scrollY = topLine * m.LineHeight
	}
	if v.metrics.CharWidth > 0 {
		leftCol := v.scrollX / v.metrics.CharWidth
		v.scrollX = leftCol * m.CharWidth
	}
	v.metrics = m
	v.clampLocked()
}

// Resize changes the viewport dimensions. Dimensions are clamped to a
// minimum of 1.
func (v *Viewport) Resize(visibleLines, visibleColumns int) {
	if visibleLines < 1 {
		visibleLines = 1
	}
	if visibleColumns < 1 {
		visibleColumns = 1
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.visibleLines = visibleLines
	v.visibleColumns = visibleColumns
	v.clampLocked()
}

// SetMargins replaces the safe-zone margins.
func (v *Viewport) SetMargins(m MarginConfig) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.margins = m
}

// EffectiveMargins returns the margins after clamping against the
// viewport size.
func (v *Viewport) EffectiveMargins() MarginConfig {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return clampMargins(v.margins, v.visibleLines, v.visibleColumns)
}

// SetContentSize tells the viewport how large the document is, in lines
// and in columns of the longest line. Scroll clamping needs it.
func (v *Viewport) SetContentSize(lines uint32, columns int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.contentLines = lines
	v.contentColumns = columns
	v.clampLocked()
}

// EnsureVisible scrolls so pos sits inside the safe zone, using the given
// reveal strategy, and locks the viewport to the cursor. Returns true if
// the scroll offset changed.
func (v *Viewport) EnsureVisible(pos buffer.Position, how Reveal) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.mode = ModeCursorLocked
	return v.revealLocked(pos, how)
}

// RequestReveal queues a reveal for the next Reconcile call. Used when the
// target position is known before the edit that produces it has settled.
func (v *Viewport) RequestReveal(pos buffer.Position, how Reveal) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.mode = ModeRevealPending
	v.pendingPos = pos
	v.pendingReveal = how
}

// Reconcile applies the state machine for one frame: a pending reveal is
// executed and the viewport returns to cursor-locked; in cursor-locked
// mode the active cursor is kept visible; in free-browse mode nothing
// happens. Returns true if the scroll offset changed.
func (v *Viewport) Reconcile(active buffer.Position) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch v.mode {
	case ModeRevealPending:
		v.mode = ModeCursorLocked
		return v.revealLocked(v.pendingPos, v.pendingReveal)
	case ModeCursorLocked:
		return v.revealLocked(active, RevealMinimal)
	}
	return false
}

// ScrollBy scrolls by a pixel delta and releases the cursor lock. Wheel
// and scrollbar input route through here.
func (v *Viewport) ScrollBy(dx, dy float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.mode = ModeFreeBrowse
	v.scrollX += dx
	v.scrollY += dy
	v.clampLocked()
}

// ScrollLines scrolls by whole lines, releasing the cursor lock.
func (v *Viewport) ScrollLines(delta int) {
	v.ScrollBy(0, float64(delta)*v.Metrics().LineHeight)
}

// revealLocked computes the scroll offset placing pos per the strategy.
// Caller holds the lock.
func (v *Viewport) revealLocked(pos buffer.Position, how Reveal) bool {
	m := clampMargins(v.margins, v.visibleLines, v.visibleColumns)
	lh, cw := v.metrics.LineHeight, v.metrics.CharWidth
	oldX, oldY := v.scrollX, v.scrollY

	lineTop := float64(pos.Line) * lh
	colLeft := float64(pos.Column) * cw

	newY := v.scrollY
	switch how {
	case RevealTopAligned:
		newY = lineTop - float64(m.Top)*lh
	case RevealBottomAligned:
		newY = lineTop - float64(v.visibleLines-1-m.Bottom)*lh
	case RevealCentered:
		newY = lineTop - float64(v.visibleLines/2)*lh
	default: // RevealMinimal
		safeTop := v.scrollY + float64(m.Top)*lh
		safeBottom := v.scrollY + float64(v.visibleLines-1-m.Bottom)*lh
		if lineTop < safeTop {
			newY = lineTop - float64(m.Top)*lh
		} else if lineTop > safeBottom {
			newY = lineTop - float64(v.visibleLines-1-m.Bottom)*lh
		}
	}

	// Horizontal reveal is always minimal.
	newX := v.scrollX
	safeLeft := v.scrollX + float64(m.Left)*cw
	safeRight := v.scrollX + float64(v.visibleColumns-1-m.Right)*cw
	if colLeft < safeLeft {
		newX = colLeft - float64(m.Left)*cw
	} else if colLeft > safeRight {
		newX = colLeft - float64(v.visibleColumns-1-m.Right)*cw
	}

	v.scrollX, v.scrollY = newX, newY
	v.clampLocked()
	return v.scrollX != oldX || v.scrollY != oldY
}

// clampLocked bounds the scroll offset to [0, contentExtent-viewport].
// Caller holds the lock.
func (v *Viewport) clampLocked() {
	maxY := float64(v.contentLines)*v.metrics.LineHeight - float64(v.visibleLines)*v.metrics.LineHeight
	if maxY < 0 {
		maxY = 0
	}
	maxX := float64(v.contentColumns)*v.metrics.CharWidth - float64(v.visibleColumns)*v.metrics.CharWidth
	if maxX < 0 {
		maxX = 0
	}

	if v.scrollY < 0 {
		v.scrollY = 0
	} else if v.scrollY > maxY {
		v.scrollY = maxY
	}
	if v.scrollX < 0 {
		v.scrollX = 0
	} else if v.scrollX > maxX {
		v.scrollX = maxX
	}
}
