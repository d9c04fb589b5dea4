package tui

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/scribe-editor/scribe/internal/config"
	"github.com/scribe-editor/scribe/internal/editor"
	"github.com/scribe-editor/scribe/internal/renderer/viewport"
)

func TestConfigReloadKeepsCellMetrics(t *testing.T) {
	ed := editor.New(config.Default(), zerolog.Nop())
	a := &App{ed: ed, log: zerolog.Nop()}
	a.view = ed.NewView(10, 80)
	a.view.Viewport().SetMetrics(viewport.Metrics{LineHeight: 1, CharWidth: 1})

	next := config.Default()
	next.Editor.TabWidth = 8
	a.applyReloadedConfig(next)

	cell := viewport.Metrics{LineHeight: 1, CharWidth: 1}
	if got := a.view.Viewport().Metrics(); got != cell {
		t.Errorf("Metrics = %+v, want cell units", got)
	}
	if got := a.ed.Config().Editor.TabWidth; got != 8 {
		t.Errorf("TabWidth = %d, want 8", got)
	}
}

func TestConfigReloadRejectsInvalid(t *testing.T) {
	ed := editor.New(config.Default(), zerolog.Nop())
	a := &App{ed: ed, log: zerolog.Nop()}
	a.view = ed.NewView(10, 80)

	bad := config.Default()
	bad.Editor.TabWidth = -1
	a.applyReloadedConfig(bad)

	if got := a.ed.Config().Editor.TabWidth; got != config.Default().Editor.TabWidth {
		t.Errorf("TabWidth = %d, want unchanged default", got)
	}
}
