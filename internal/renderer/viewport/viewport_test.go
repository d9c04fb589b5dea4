package viewport

import (
	"testing"

	"github.com/scribe-editor/scribe/internal/engine/buffer"
)

func testMetrics() Metrics {
	return Metrics{LineHeight: 20, CharWidth: 10}
}

func newTestViewport(lines, cols int) *Viewport {
	v := New(lines, cols, testMetrics())
	v.SetContentSize(100, 200)
	return v
}

func TestRevealMinimalScrollsToBottomSafeZone(t *testing.T) {
	// 10 visible lines, vertical margins of 2, cursor moved to line 15
	// of a 20-line document: the minimal reveal puts line 15 at the
	// bottom safe-zone boundary, so the top line becomes 8.
	v := New(10, 80, testMetrics())
	v.SetContentSize(20, 200)
	v.SetMargins(MarginConfig{Top: 2, Bottom: 2, Left: 5, Right: 5})

	moved := v.EnsureVisible(buffer.Pos(15, 0), RevealMinimal)

	if !moved {
		t.Fatal("expected scroll")
	}
	if got := v.TopLine(); got != 8 {
		t.Errorf("TopLine = %d, want 8", got)
	}
	_, y := v.ScrollOffset()
	if y != 8*20 {
		t.Errorf("scrollY = %v, want %v", y, 8*20)
	}
}

func TestRevealMinimalScrollsUpToTopMargin(t *testing.T) {
	v := newTestViewport(10, 80)
	v.SetMargins(MarginConfig{Top: 2, Bottom: 2})
	v.ScrollBy(0, 50*20) // top line 50

	v.EnsureVisible(buffer.Pos(30, 0), RevealMinimal)
	if got := v.TopLine(); got != 28 {
		t.Errorf("TopLine = %d, want 28 (line 30 at top margin edge)", got)
	}
}

func TestRevealMinimalNoScrollInsideSafeZone(t *testing.T) {
	v := newTestViewport(10, 80)
	v.SetMargins(MarginConfig{Top: 2, Bottom: 2})

	if v.EnsureVisible(buffer.Pos(4, 0), RevealMinimal) {
		t.Error("cursor inside safe zone must not scroll")
	}
}

func TestRevealCentered(t *testing.T) {
	v := newTestViewport(10, 80)

	v.EnsureVisible(buffer.Pos(50, 0), RevealCentered)
	if got := v.TopLine(); got != 45 {
		t.Errorf("TopLine = %d, want 45", got)
	}
}

func TestRevealTopAligned(t *testing.T) {
	v := newTestViewport(10, 80)
	v.SetMargins(MarginConfig{Top: 2, Bottom: 2})

	v.EnsureVisible(buffer.Pos(50, 0), RevealTopAligned)
	if got := v.TopLine(); got != 48 {
		t.Errorf("TopLine = %d, want 48", got)
	}
}

func TestRevealBottomAligned(t *testing.T) {
	v := newTestViewport(10, 80)
	v.SetMargins(MarginConfig{Top: 2, Bottom: 2})

	v.EnsureVisible(buffer.Pos(50, 0), RevealBottomAligned)
	if got := v.TopLine(); got != 43 {
		t.Errorf("TopLine = %d, want 43 (line 50 at row 7)", got)
	}
}

func TestScrollNeverNegative(t *testing.T) {
	v := newTestViewport(10, 80)
	v.SetMargins(MarginConfig{Top: 2, Bottom: 2})

	v.EnsureVisible(buffer.Pos(0, 0), RevealCentered)
	x, y := v.ScrollOffset()
	if x != 0 || y != 0 {
		t.Errorf("offset = (%v,%v), want (0,0)", x, y)
	}
}

func TestScrollClampedToContentEnd(t *testing.T) {
	v := New(10, 80, testMetrics())
	v.SetContentSize(20, 100)

	v.ScrollBy(0, 1e9)
	_, y := v.ScrollOffset()
	if y != 10*20 {
		t.Errorf("scrollY = %v, want %v (content 20 lines, viewport 10)", y, 10*20)
	}
}

func TestShortContentNeverScrolls(t *testing.T) {
	v := New(10, 80, testMetrics())
	v.SetContentSize(5, 10)

	v.ScrollBy(50, 50)
	x, y := v.ScrollOffset()
	if x != 0 || y != 0 {
		t.Errorf("offset = (%v,%v), want (0,0)", x, y)
	}
}

func TestHorizontalReveal(t *testing.T) {
	v := newTestViewport(10, 40)
	v.SetMargins(MarginConfig{Left: 5, Right: 5})

	v.EnsureVisible(buffer.Pos(0, 60), RevealMinimal)
	x, _ := v.ScrollOffset()
	// Column 60 at the right safe-zone edge: left column 60-(40-1-5)=26.
	if x != 26*10 {
		t.Errorf("scrollX = %v, want %v", x, 26*10)
	}

	v.EnsureVisible(buffer.Pos(0, 10), RevealMinimal)
	x, _ = v.ScrollOffset()
	if x != 5*10 {
		t.Errorf("scrollX = %v, want %v (column 10 at left margin)", x, 5*10)
	}
}

func TestWheelScrollEntersFreeBrowse(t *testing.T) {
	v := newTestViewport(10, 80)

	if v.Mode() != ModeCursorLocked {
		t.Fatalf("initial mode = %v", v.Mode())
	}
	v.ScrollBy(0, 100)
	if v.Mode() != ModeFreeBrowse {
		t.Errorf("mode after wheel = %v, want free-browse", v.Mode())
	}

	// In free-browse, reconciling against the cursor does nothing.
	_, before := v.ScrollOffset()
	if v.Reconcile(buffer.Pos(90, 0)) {
		t.Error("free-browse must not follow the cursor")
	}
	if _, after := v.ScrollOffset(); after != before {
		t.Errorf("scrollY changed in free-browse: %v -> %v", before, after)
	}
}

func TestMovementRestoresCursorLock(t *testing.T) {
	v := newTestViewport(10, 80)
	v.ScrollBy(0, 100)

	v.EnsureVisible(buffer.Pos(3, 0), RevealMinimal)
	if v.Mode() != ModeCursorLocked {
		t.Errorf("mode = %v, want cursor-locked", v.Mode())
	}
}

func TestRequestRevealAppliesOnReconcile(t *testing.T) {
	v := newTestViewport(10, 80)

	v.RequestReveal(buffer.Pos(50, 0), RevealCentered)
	if v.Mode() != ModeRevealPending {
		t.Fatalf("mode = %v, want reveal-pending", v.Mode())
	}

	if !v.Reconcile(buffer.Pos(0, 0)) {
		t.Fatal("pending reveal should scroll")
	}
	if got := v.TopLine(); got != 45 {
		t.Errorf("TopLine = %d, want 45", got)
	}
	if v.Mode() != ModeCursorLocked {
		t.Errorf("mode after reveal = %v, want cursor-locked", v.Mode())
	}
}

func TestReconcileFollowsCursorWhenLocked(t *testing.T) {
	v := newTestViewport(10, 80)
	v.SetMargins(MarginConfig{Top: 2, Bottom: 2})

	if !v.Reconcile(buffer.Pos(30, 0)) {
		t.Fatal("locked viewport should follow cursor")
	}
	if got := v.TopLine(); got != 23 {
		t.Errorf("TopLine = %d, want 23", got)
	}
}

func TestResizeClampsScroll(t *testing.T) {
	v := New(10, 80, testMetrics())
	v.SetContentSize(30, 100)
	v.ScrollBy(0, 20*20) // bottom

	v.Resize(25, 80)
	_, y := v.ScrollOffset()
	if y != 5*20 {
		t.Errorf("scrollY after growing viewport = %v, want %v", y, 5*20)
	}
}

func TestVisibleLineRange(t *testing.T) {
	v := newTestViewport(10, 80)
	v.ScrollBy(0, 5*20)

	start, end := v.VisibleLineRange()
	if start != 5 || end != 14 {
		t.Errorf("range = [%d,%d], want [5,14]", start, end)
	}
	if !v.IsLineVisible(5) || !v.IsLineVisible(14) {
		t.Error("boundary lines should be visible")
	}
	if v.IsLineVisible(4) || v.IsLineVisible(15) {
		t.Error("lines outside range should not be visible")
	}
}
