package config

import (
	"errors"
	"fmt"
	"time"
)

// Validation errors.
var (
	ErrInvalidTabWidth = errors.New("tab width must be between 1 and 16")
	ErrInvalidMargin   = errors.New("margins must not be negative")
	ErrInvalidMetrics  = errors.New("font metrics must be positive")
	ErrInvalidHistory  = errors.New("history limit must be positive")
)

// Config is the full editor configuration.
type Config struct {
	Editor   EditorConfig   `toml:"editor"`
	Viewport ViewportConfig `toml:"viewport"`
	History  HistoryConfig  `toml:"history"`
}

// EditorConfig controls text and indentation behavior.
type EditorConfig struct {
	TabWidth int `toml:"tab_width"`

	// IndentWithSpaces makes indent commands insert spaces instead of a
	// tab character.
	IndentWithSpaces bool `toml:"indent_with_spaces"`
}

// IndentUnit returns the string the indent command inserts.
func (e EditorConfig) IndentUnit() string {
	if !e.IndentWithSpaces {
		return "\t"
	}
	unit := make([]byte, e.TabWidth)
	for i := range unit {
		unit[i] = ' '
	}
	return string(unit)
}

// ViewportConfig controls scrolling behavior.
type ViewportConfig struct {
	MarginLines   int `toml:"margin_lines"`
	MarginColumns int `toml:"margin_columns"`

	// Font metrics in pixels. The GUI shell overwrites these with real
	// measurements at startup.
	LineHeight float64 `toml:"line_height"`
	CharWidth  float64 `toml:"char_width"`
}

// HistoryConfig controls the undo system.
type HistoryConfig struct {
	MaxEntries int `toml:"max_entries"`

	// CoalesceWindowMs is the typing coalesce window in milliseconds.
	// Zero disables coalescing.
	CoalesceWindowMs int `toml:"coalesce_window_ms"`
}

// CoalesceWindow returns the coalesce window as a duration.
func (h HistoryConfig) CoalesceWindow() time.Duration {
	return time.Duration(h.CoalesceWindowMs) * time.Millisecond
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Editor: EditorConfig{
			TabWidth: 4,
		},
		Viewport: ViewportConfig{
			MarginLines:   3,
			MarginColumns: 5,
			LineHeight:    20,
			CharWidth:     9,
		},
		History: HistoryConfig{
			MaxEntries:       1000,
			CoalesceWindowMs: 1000,
		},
	}
}

// Validate checks the configuration for values the engine cannot work
// with.
func (c Config) Validate() error {
	if c.Editor.TabWidth < 1 || c.Editor.TabWidth > 16 {
		return fmt.Errorf("editor: %w (got %d)", ErrInvalidTabWidth, c.Editor.TabWidth)
	}
	if c.Viewport.MarginLines < 0 || c.Viewport.MarginColumns < 0 {
		return fmt.Errorf("viewport: %w", ErrInvalidMargin)
	}
	if c.Viewport.LineHeight <= 0 || c.Viewport.CharWidth <= 0 {
		return fmt.Errorf("viewport: %w", ErrInvalidMetrics)
	}
	if c.History.MaxEntries < 1 {
		return fmt.Errorf("history: %w (got %d)", ErrInvalidHistory, c.History.MaxEntries)
	}
	if c.History.CoalesceWindowMs < 0 {
		return fmt.Errorf("history: coalesce window must not be negative (got %d)", c.History.CoalesceWindowMs)
	}
	return nil
}
