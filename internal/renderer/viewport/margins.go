package viewport

// MarginConfig holds the safe-zone margins: how far the active cursor is
// kept from the viewport edges, in lines vertically and columns
// horizontally.
type MarginConfig struct {
	Top    int
	Bottom int
	Left   int
	Right  int
}

// DefaultMargins returns the standard safe-zone margins.
func DefaultMargins() MarginConfig {
	return MarginConfig{
		Top:    3,
		Bottom: 3,
		Left:   5,
		Right:  5,
	}
}

// NoMargins lets the cursor reach the viewport edge before scrolling.
func NoMargins() MarginConfig {
	return MarginConfig{}
}

// maxMarginRatio caps each margin at a quarter of the viewport dimension.
// Oversized margins are shrunk proportionally instead of being left
// unsatisfiable on small viewports.
const maxMarginRatio = 4

func clampMargins(m MarginConfig, visibleLines, visibleColumns int) MarginConfig {
	maxVertical := visibleLines / maxMarginRatio
	if m.Top > maxVertical {
		m.Top = maxVertical
	}
	if m.Bottom > maxVertical {
		m.Bottom = maxVertical
	}

	maxHorizontal := visibleColumns / maxMarginRatio
	if m.Left > maxHorizontal {
		m.Left = maxHorizontal
	}
	if m.Right > maxHorizontal {
		m.Right = maxHorizontal
	}

	return m
}
